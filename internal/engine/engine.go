// Package engine runs the quest lifecycle against a Content snapshot:
// prerequisite checks, discovery at quest givers, tracker refresh and
// event hooks, completion and rewards, daily rotation, and the authoring
// operations that keep all of it consistent under live edits.
//
// The engine is driven from a single game loop and does no locking.
package engine

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/lawnchairsociety/questcore/internal/config"
	"github.com/lawnchairsociety/questcore/internal/gametime"
	"github.com/lawnchairsociety/questcore/internal/logger"
	"github.com/lawnchairsociety/questcore/internal/progress"
)

// Options are the collaborators and settings for New. World and Rewards
// are required; the rest are optional.
type Options struct {
	Config  config.QuestConfig
	World   World
	Rewards Rewarder
	Roster  Roster
	Store   CompletionStore
	Rand    *rand.Rand
	Now     func() time.Time
}

// Engine is the quest and reputation engine.
type Engine struct {
	content *Content
	cfg     config.QuestConfig
	world   World
	rewards Rewarder
	roster  Roster
	store   CompletionStore
	goals   *progress.Tracker
	clock   *gametime.DailyClock
	rng     *rand.Rand
	now     func() time.Time
	log     *slog.Logger

	sources []ReferenceSource
}

// New creates an engine over c.
func New(c *Content, opts Options) (*Engine, error) {
	if c == nil || opts.World == nil || opts.Rewards == nil {
		return nil, fmt.Errorf("engine: content, world and rewards are required")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(now().UnixNano()), 0x9e3779b97f4a7c15))
	}
	reset := opts.Config.DailyReset
	if reset == "" {
		reset = config.DefaultConfig().Quests.DailyReset
	}
	clock, err := gametime.NewDailyClock(reset, now())
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	return &Engine{
		content: c,
		cfg:     opts.Config,
		world:   opts.World,
		rewards: opts.Rewards,
		roster:  opts.Roster,
		store:   opts.Store,
		goals:   progress.NewTracker(c.Goals),
		clock:   clock,
		rng:     rng,
		now:     now,
		log:     logger.With("engine"),
	}, nil
}

// Content returns the content the engine runs against.
func (e *Engine) Content() *Content {
	return e.content
}

// Clock returns the daily reset clock.
func (e *Engine) Clock() *gametime.DailyClock {
	return e.clock
}

// Goals returns the empire goal tracker.
func (e *Engine) Goals() *progress.Tracker {
	return e.goals
}

// Tick advances the daily clock. When a reset has passed, online players'
// dailies from the old window expire and every daily cycle is re-rolled
// and persisted before it takes effect. Offline players catch up on their
// next refresh.
func (e *Engine) Tick(now time.Time) error {
	if !e.clock.Advance(now) {
		return nil
	}
	logger.Always("Daily reset", "reset", e.clock.LastReset(), "next", e.clock.NextReset())
	for _, ch := range e.online() {
		e.checkDailyReset(ch)
	}
	return e.RotateDailyCycles(0)
}

func (e *Engine) isImmortal(ch Character) bool {
	return e.cfg.ImmortalLevel > 0 && ch.Level() >= e.cfg.ImmortalLevel
}

// online returns the characters in the game, or nil without a roster.
func (e *Engine) online() []Character {
	if e.roster == nil {
		return nil
	}
	return e.roster.OnlineCharacters()
}

// isPlayer reports whether ch can hold quest state.
func isPlayer(ch Character) bool {
	return ch != nil && !ch.IsNPC() && ch.QuestLog() != nil
}
