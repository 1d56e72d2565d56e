package engine

import (
	"errors"

	"github.com/lawnchairsociety/questcore/internal/content"
	"github.com/lawnchairsociety/questcore/internal/quest"
)

// Error categories shared with the catalogs.
var (
	ErrContentIntegrity   = content.ErrContentIntegrity
	ErrLookupMiss         = content.ErrLookupMiss
	ErrStateInconsistency = content.ErrStateInconsistency
)

var (
	ErrNotOnQuest       = quest.ErrNotOnQuest
	ErrAlreadyOnQuest   = quest.ErrAlreadyOnQuest
	ErrTasksIncomplete  = errors.New("quest tasks incomplete")
	ErrPrereqsUnmet     = errors.New("quest prerequisites not met")
	ErrDeletionRejected = errors.New("deletion rejected")
	ErrUnknownQuest     = errors.New("unknown quest")
	ErrUnknownFaction   = errors.New("unknown faction")
	ErrNotPlayer        = errors.New("not a player")
)
