package main

import (
	"context"
	"errors"

	"github.com/lawnchairsociety/questcore/internal/config"
	"github.com/lawnchairsociety/questcore/internal/engine"
	"github.com/lawnchairsociety/questcore/internal/logger"
	"github.com/lawnchairsociety/questcore/internal/quest"
)

var errOffline = errors.New("no world is loaded")

// offlinePrototype stands in for every world prototype. Without a running
// world there are no live instances to point at the lookup index.
type offlinePrototype struct{}

func (offlinePrototype) SetQuestLookups(quest.Lookups)       {}
func (offlinePrototype) LiveInstances() []quest.LookupHolder { return nil }

// offlineWorld answers world questions for the admin tool. Prototype
// existence cannot be checked offline, so every prototype is assumed to
// exist and only content-to-content references are audited.
type offlineWorld struct{}

func (offlineWorld) ResolvePrototype(kind quest.GiverKind, vnum int) (quest.Prototype, bool) {
	return offlinePrototype{}, true
}
func (offlineWorld) EventRunning(int) bool   { return false }
func (offlineWorld) InstanceActive(int) bool { return false }
func (offlineWorld) AdventureOf(int) int     { return 0 }

// offlineRewards refuses every reward; nobody is online to receive one.
type offlineRewards struct{}

func (offlineRewards) GainExperience(engine.Character, int)             {}
func (offlineRewards) GiveCoins(engine.Character, int)                  {}
func (offlineRewards) GiveCurrency(engine.Character, int, int) error    { return errOffline }
func (offlineRewards) GiveObject(engine.Character, int, int, int) error { return errOffline }
func (offlineRewards) GainSkillExp(engine.Character, int, int) error    { return errOffline }
func (offlineRewards) SetSkillLevel(engine.Character, int, int) error   { return errOffline }
func (offlineRewards) GiveEventPoints(engine.Character, int, int) error { return errOffline }
func (offlineRewards) ExtractObjects(engine.Character, int, int)        {}

// loadEngine reads the content named by cfg and wraps it in an engine
// with no world attached.
func loadEngine(ctx context.Context, cfg *config.EngineConfig) (*engine.Engine, error) {
	c, problems, err := engine.LoadContent(ctx, cfg, offlineWorld{})
	if err != nil {
		return nil, err
	}
	for _, p := range problems {
		logger.Warning("Content problem while loading", "subject", p.Subject, "problem", p.Message)
	}
	return engine.New(c, engine.Options{
		Config:  cfg.Quests,
		World:   offlineWorld{},
		Rewards: offlineRewards{},
	})
}
