package engine

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/lawnchairsociety/questcore/internal/config"
	"github.com/lawnchairsociety/questcore/internal/content"
	"github.com/lawnchairsociety/questcore/internal/faction"
	"github.com/lawnchairsociety/questcore/internal/logger"
	"github.com/lawnchairsociety/questcore/internal/progress"
	"github.com/lawnchairsociety/questcore/internal/quest"
	"golang.org/x/sync/errgroup"
)

// Content is the world content the engine runs against. Tests build one
// with NewContent and fill the catalogs directly.
type Content struct {
	Quests   *quest.Catalog
	Factions *faction.Registry
	Goals    *progress.Catalog
	Index    *quest.LookupIndex
	Dailies  *quest.DailyCycles
}

// NewContent creates empty content. resolver may be nil.
func NewContent(resolver quest.PrototypeResolver) *Content {
	return &Content{
		Quests:   quest.NewCatalog(),
		Factions: faction.NewRegistry(nil),
		Goals:    progress.NewCatalog(),
		Index:    quest.NewLookupIndex(resolver),
		Dailies:  quest.NewDailyCycles(""),
	}
}

// LoadContent reads the quest, faction and goal catalogs and the daily
// cycle selection concurrently, then builds the lookup index. Parse
// problems are returned alongside the content; an error means a catalog
// could not be read at all, or ctx was canceled before every catalog was
// read.
func LoadContent(ctx context.Context, cfg *config.EngineConfig, resolver quest.PrototypeResolver) (*Content, []content.Problem, error) {
	c := NewContent(resolver)
	var questProblems, factionProblems, goalProblems []content.Problem

	g, ctx := errgroup.WithContext(ctx)
	load := func(fn func() error) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn()
		})
	}
	load(func() error {
		p, err := c.Quests.LoadFromDirectory(cfg.Content.QuestsDir)
		if err != nil {
			return fmt.Errorf("load quests: %w", err)
		}
		questProblems = p
		return nil
	})
	load(func() error {
		reg, p, err := faction.LoadFromFile(cfg.Content.FactionsFile)
		if err != nil {
			return fmt.Errorf("load factions: %w", err)
		}
		c.Factions, factionProblems = reg, p
		return nil
	})
	load(func() error {
		if cfg.Content.GoalsDir == "" {
			return nil
		}
		p, err := c.Goals.LoadFromDirectory(cfg.Content.GoalsDir)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				logger.Warning("Empire goal directory missing", "dir", cfg.Content.GoalsDir)
				return nil
			}
			return fmt.Errorf("load goals: %w", err)
		}
		goalProblems = p
		return nil
	})
	load(func() error {
		d, err := quest.LoadDailyCycles(cfg.Quests.DailyCyclesFile)
		if err != nil {
			return fmt.Errorf("load daily cycles: %w", err)
		}
		c.Dailies = d
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	c.Index.BuildAll(c.Quests)

	problems := append(questProblems, factionProblems...)
	problems = append(problems, goalProblems...)
	logger.Info("Content loaded",
		"quests", c.Quests.Count(),
		"factions", c.Factions.Count(),
		"goals", c.Goals.Count(),
		"problems", len(problems))
	return c, problems, nil
}
