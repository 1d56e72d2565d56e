package progress

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lawnchairsociety/questcore/internal/content"
	"github.com/lawnchairsociety/questcore/internal/logger"
	"github.com/lawnchairsociety/questcore/internal/requirement"
	"gopkg.in/yaml.v3"
)

// GoalDefinition for YAML parsing
type GoalDefinition struct {
	Name        string                   `yaml:"name"`
	Description string                   `yaml:"description"`
	Flags       []string                 `yaml:"flags,omitempty"`
	Version     int                      `yaml:"version,omitempty"`
	Prereqs     []int                    `yaml:"prereqs,omitempty"`
	Tasks       []requirement.Definition `yaml:"tasks"`
	Points      int                      `yaml:"points,omitempty"`
	Cost        int                      `yaml:"cost,omitempty"`
}

// GoalsConfig represents the structure of a goals YAML file
type GoalsConfig struct {
	Goals map[int]GoalDefinition `yaml:"goals"`
}

// LoadGoalsFromYAML loads goal definitions from a YAML file
func LoadGoalsFromYAML(filename string) (*GoalsConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read goals file: %w", err)
	}

	var config GoalsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse goals YAML: %w", err)
	}
	if config.Goals == nil {
		config.Goals = make(map[int]GoalDefinition)
	}
	return &config, nil
}

// IDs returns the goal ids in ascending order.
func (config *GoalsConfig) IDs() []int {
	ids := make([]int, 0, len(config.Goals))
	for id := range config.Goals {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// LoadGoalsFromDirectory loads and merges all YAML files from a directory
func LoadGoalsFromDirectory(dir string) (*GoalsConfig, error) {
	merged := &GoalsConfig{Goals: make(map[int]GoalDefinition)}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || (!strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml")) {
			continue
		}
		filePath := filepath.Join(dir, name)
		config, err := LoadGoalsFromYAML(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", filePath, err)
		}
		for id, def := range config.Goals {
			merged.Goals[id] = def
		}
		logger.Debug("Loaded goal file", "path", filePath, "goals", len(config.Goals))
	}

	logger.Info("Loaded empire goals", "dir", dir, "total_goals", len(merged.Goals))
	return merged, nil
}

func createGoalFromDefinition(id int, def *GoalDefinition) (*Goal, []content.Problem) {
	subject := fmt.Sprintf("goal %d", id)
	var problems []content.Problem

	g := &Goal{
		ID:          id,
		Name:        def.Name,
		Description: def.Description,
		Version:     def.Version,
		Prereqs:     def.Prereqs,
		Points:      def.Points,
		Cost:        def.Cost,
	}
	for _, name := range def.Flags {
		bit, ok := flagNames[strings.ToLower(name)]
		if !ok {
			problems = append(problems, content.Warn(subject, "unknown flag %q", name))
			continue
		}
		g.Flags |= bit
	}

	var p []content.Problem
	g.Tasks, p = requirement.ListFromDefinitions(subject+" tasks", def.Tasks)
	problems = append(problems, p...)
	return g, problems
}

// ToDefinition converts a goal back to its YAML form.
func ToDefinition(g *Goal) GoalDefinition {
	def := GoalDefinition{
		Name:        g.Name,
		Description: g.Description,
		Flags:       g.Flags.Names(),
		Version:     g.Version,
		Prereqs:     g.Prereqs,
		Points:      g.Points,
		Cost:        g.Cost,
	}
	for _, r := range g.Tasks {
		def.Tasks = append(def.Tasks, requirement.ToDefinition(r))
	}
	return def
}
