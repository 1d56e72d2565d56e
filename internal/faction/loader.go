package faction

import (
	"fmt"
	"os"

	"github.com/lawnchairsociety/questcore/internal/content"
	"github.com/lawnchairsociety/questcore/internal/logger"
	"gopkg.in/yaml.v3"
)

// FactionDefinition for YAML parsing. Reputation levels are given by rung
// name.
type FactionDefinition struct {
	Name        string           `yaml:"name"`
	Description string           `yaml:"description"`
	Flags       []string         `yaml:"flags"`
	Min         string           `yaml:"min"`
	Max         string           `yaml:"max"`
	Start       string           `yaml:"start"`
	Relations   map[int][]string `yaml:"relations"`
}

// FactionsConfig represents the factions.yaml structure
type FactionsConfig struct {
	ReputationLevels []Rung                    `yaml:"reputation_levels"`
	Factions         map[int]FactionDefinition `yaml:"factions"`
}

// LoadFactionsFromYAML reads a factions file.
func LoadFactionsFromYAML(filename string) (*FactionsConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read factions file: %w", err)
	}

	var config FactionsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse factions YAML: %w", err)
	}
	return &config, nil
}

// BuildRegistry converts a parsed config into a registry. An empty ladder
// section uses DefaultLadder. Unknown flag or level names are reported as
// problems; the faction is still registered so audits can see it.
func BuildRegistry(config *FactionsConfig) (*Registry, []content.Problem, error) {
	ladder := DefaultLadder()
	if len(config.ReputationLevels) > 0 {
		l, err := NewLadder(config.ReputationLevels)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", content.ErrContentIntegrity, err)
		}
		ladder = l
	}

	reg := NewRegistry(ladder)
	var problems []content.Problem
	for id, def := range config.Factions {
		f, p := createFactionFromDefinition(ladder, id, &def)
		problems = append(problems, p...)
		reg.Add(f)
	}
	return reg, problems, nil
}

// LoadFromFile loads the ladder and factions from a YAML file.
func LoadFromFile(filename string) (*Registry, []content.Problem, error) {
	config, err := LoadFactionsFromYAML(filename)
	if err != nil {
		return nil, nil, err
	}
	reg, problems, err := BuildRegistry(config)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Loaded factions", "count", reg.Count(), "levels", reg.Ladder().Len(), "file", filename)
	return reg, problems, nil
}

func createFactionFromDefinition(ladder *Ladder, id int, def *FactionDefinition) (*Faction, []content.Problem) {
	subject := fmt.Sprintf("faction %d", id)
	var problems []content.Problem

	flags, unknown := parseFlags(def.Flags)
	for _, n := range unknown {
		problems = append(problems, content.Warn(subject, "unknown flag %q", n))
	}

	rungID := func(field, name string) int {
		if name == "" {
			return 0
		}
		r, ok := ladder.ByName(name)
		if !ok {
			problems = append(problems, content.Fatalf(subject, "%s reputation %q is not on the ladder", field, name))
			return 0
		}
		return r.ID
	}

	f := &Faction{
		ID:          id,
		Name:        def.Name,
		Description: def.Description,
		Flags:       flags,
		MinRung:     rungID("min", def.Min),
		MaxRung:     rungID("max", def.Max),
		StartRung:   rungID("start", def.Start),
		Relations:   make(map[int]RelationFlags, len(def.Relations)),
	}
	if def.Min == "" {
		f.MinRung = ladder.At(0).ID
	}
	if def.Max == "" {
		f.MaxRung = ladder.At(ladder.Len() - 1).ID
	}
	if def.Start == "" {
		f.StartRung = ladder.RungFor(0).ID
	}

	for otherID, names := range def.Relations {
		rel, unknown := parseRelation(names)
		for _, n := range unknown {
			problems = append(problems, content.Warn(subject, "unknown relation flag %q for faction %d", n, otherID))
		}
		f.Relations[otherID] = rel
	}

	return f, problems
}
