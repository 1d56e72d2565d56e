package engine

import (
	"context"

	"github.com/lawnchairsociety/questcore/internal/faction"
	"github.com/lawnchairsociety/questcore/internal/progress"
	"github.com/lawnchairsociety/questcore/internal/quest"
)

// Character is a player (or NPC) as the engine sees it. The host's player
// type implements it; the engine never owns characters.
type Character interface {
	faction.Member // IsNPC, Standings, SendMessage

	ID() int
	Name() string
	Level() int
	QuestLog() *quest.PlayerLog
	TutorialsDisabled() bool

	CountObjects(vnum int) int
	CountComponents(vnum, flags int) int
	IsWearing(vnum int, orCarrying bool) bool
	SkillLevel(skill int) int
	CanGainSkill(skill int) bool
	HasAbility(ability int) bool
	Coins() int
	Currency(vnum int) int

	// Empire returns the character's empire, or nil.
	Empire() Empire
	// Location returns the room the character is in, or nil.
	Location() Room
	// GroupMembers returns the other members of the character's group.
	GroupMembers() []Character
}

// Empire is a player empire. Goal tracking comes from the progress package.
type Empire interface {
	progress.Empire

	ID() int
	OnlineMembers() []Character
}

// Entity is a live mobile, object or vehicle that can offer or accept
// quests. It caches the lookup snapshot pushed to it by the index.
type Entity interface {
	Prototype() quest.Giver
	QuestLookups() quest.Lookups

	EmpireID() int   // owning empire, 0 for none
	InstanceID() int // adventure instance, 0 for none
	InCity() bool
	VisibleTo(ch Character) bool
	CanBeUsedBy(ch Character) bool
}

// Room is the character's location. Buildings and room templates are
// furniture: their lookups are read from the index directly.
type Room interface {
	Building() int // building vnum, 0 for none
	Template() int // room template vnum, 0 for none
	Sector() int

	EmpireID() int
	InstanceID() int
	InCity() bool
	CanBeUsedBy(ch Character) bool
}

// World is the simulation the engine is embedded in.
type World interface {
	quest.PrototypeResolver

	EventRunning(event int) bool
	// InstanceActive reports whether an adventure instance still exists.
	InstanceActive(instanceID int) bool
	// AdventureOf returns the adventure vnum an instance was spawned from.
	AdventureOf(instanceID int) int
}

// Rewarder performs the world side of rewards and turn-ins. Errors mark a
// reward that could not be given; the engine logs them and moves on.
type Rewarder interface {
	GainExperience(ch Character, amount int)
	GiveCoins(ch Character, amount int)
	GiveCurrency(ch Character, vnum, amount int) error
	// GiveObject loads count copies of an object, scaled to level and
	// bound to the character.
	GiveObject(ch Character, vnum, count, level int) error
	GainSkillExp(ch Character, skill, amount int) error
	// SetSkillLevel raises or lowers a skill; lowering it may cost the
	// character abilities.
	SetSkillLevel(ch Character, skill, level int) error
	GiveEventPoints(ch Character, event, amount int) error
	// ExtractObjects takes up to count copies of an object from the
	// character.
	ExtractObjects(ch Character, vnum, count int)
}

// Roster lists the characters currently in the game.
type Roster interface {
	OnlineCharacters() []Character
}

// CompletionStore persists completion records. A record is committed once
// SaveCompletion returns nil.
type CompletionStore interface {
	SaveCompletion(ctx context.Context, characterID int, rec *quest.Completion) error
}
