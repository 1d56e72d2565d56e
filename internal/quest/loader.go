package quest

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

// GiverYAML for YAML parsing
type GiverYAML struct {
	Type string `yaml:"type"` // building, mobile, object, room-template, vehicle, trigger, quest
	Vnum int    `yaml:"vnum"`
}

// RewardYAML for YAML parsing
type RewardYAML struct {
	Type   string `yaml:"type"`
	Vnum   int    `yaml:"vnum,omitempty"`
	Amount int    `yaml:"amount"`
}

// QuestDefinition for YAML parsing
type QuestDefinition struct {
	Name            string                   `yaml:"name"`
	Description     string                   `yaml:"description"`
	CompleteMessage string                   `yaml:"complete_message"`
	Flags           []string                 `yaml:"flags,omitempty"`
	Version         int                      `yaml:"version,omitempty"`
	MinLevel        int                      `yaml:"min_level,omitempty"`
	MaxLevel        int                      `yaml:"max_level,omitempty"`
	RepeatAfter     *int                     `yaml:"repeat_after,omitempty"` // minutes; omitted = never
	DailyCycle      int                      `yaml:"daily_cycle,omitempty"`
	StartsAt        []GiverYAML              `yaml:"starts_at"`
	EndsAt          []GiverYAML              `yaml:"ends_at"`
	Prereqs         []requirement.Definition `yaml:"prereqs,omitempty"`
	Tasks           []requirement.Definition `yaml:"tasks"`
	Rewards         []RewardYAML             `yaml:"rewards,omitempty"`
	Scripts         []int                    `yaml:"scripts,omitempty"`
}

// QuestsConfig represents the structure of a quest YAML file
type QuestsConfig struct {
	Quests map[int]QuestDefinition `yaml:"quests"`
}

// LoadQuestsFromYAML loads quest definitions from YAML file
func LoadQuestsFromYAML(filename string) (*QuestsConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read quests file: %w", err)
	}

	var config QuestsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse quests YAML: %w", err)
	}
	if config.Quests == nil {
		config.Quests = make(map[int]QuestDefinition)
	}

	return &config, nil
}

// IDs returns the quest ids in the config in ascending order.
func (config *QuestsConfig) IDs() []int {
	ids := make([]int, 0, len(config.Quests))
	for id := range config.Quests {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Merge combines another QuestsConfig into this one
func (config *QuestsConfig) Merge(other *QuestsConfig) {
	if other == nil {
		return
	}
	for id, def := range other.Quests {
		config.Quests[id] = def
	}
}

// LoadQuestsFromDirectory loads and merges all YAML files from a directory
func LoadQuestsFromDirectory(dir string) (*QuestsConfig, error) {
	merged := &QuestsConfig{
		Quests: make(map[int]QuestDefinition),
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	fileCount := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}

		filePath := filepath.Join(dir, name)
		config, err := LoadQuestsFromYAML(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", filePath, err)
		}
		merged.Merge(config)
		fileCount++
		logger.Info("Loaded quest file", "path", filePath, "quests", len(config.Quests))
	}

	logger.Info("Loaded quests from directory", "dir", dir, "files", fileCount, "total_quests", len(merged.Quests))
	return merged, nil
}

// createQuestFromDefinition converts a YAML definition to a Quest. Entries
// that fail to parse are dropped and reported.
func createQuestFromDefinition(id int, def *QuestDefinition) (*Quest, []content.Problem) {
	subject := fmt.Sprintf("quest %d", id)
	var problems []content.Problem

	q := &Quest{
		ID:              id,
		Name:            def.Name,
		Description:     def.Description,
		CompleteMessage: def.CompleteMessage,
		Version:         def.Version,
		MinLevel:        def.MinLevel,
		MaxLevel:        def.MaxLevel,
		RepeatAfter:     RepeatNever,
		DailyCycle:      def.DailyCycle,
		Scripts:         def.Scripts,
	}
	if def.RepeatAfter != nil {
		q.RepeatAfter = *def.RepeatAfter
	}

	for _, name := range def.Flags {
		bit, ok := flagNames[strings.ToLower(name)]
		if !ok {
			problems = append(problems, content.Warn(subject, "unknown flag %q", name))
			continue
		}
		q.Flags |= bit
	}

	q.StartsAt, problems = convertGivers(subject, def.StartsAt, problems)
	q.EndsAt, problems = convertGivers(subject, def.EndsAt, problems)

	var p []content.Problem
	q.Prereqs, p = requirement.ListFromDefinitions(subject+" prereqs", def.Prereqs)
	problems = append(problems, p...)
	q.Tasks, p = requirement.ListFromDefinitions(subject+" tasks", def.Tasks)
	problems = append(problems, p...)

	for _, r := range def.Rewards {
		kind, err := ParseRewardKind(r.Type)
		if err != nil {
			problems = append(problems, content.Warn(subject, "reward skipped: %v", err))
			continue
		}
		q.Rewards = append(q.Rewards, Reward{Kind: kind, Vnum: r.Vnum, Amount: r.Amount})
	}

	return q, problems
}

func convertGivers(subject string, defs []GiverYAML, problems []content.Problem) ([]Giver, []content.Problem) {
	givers := make([]Giver, 0, len(defs))
	for _, g := range defs {
		kind, err := ParseGiverKind(g.Type)
		if err != nil {
			problems = append(problems, content.Fatalf(subject, "giver skipped: %v", err))
			continue
		}
		givers = append(givers, Giver{Kind: kind, Vnum: g.Vnum})
	}
	return givers, problems
}

// ToDefinition converts a quest back to its YAML form.
func ToDefinition(q *Quest) QuestDefinition {
	repeat := q.RepeatAfter
	def := QuestDefinition{
		Name:            q.Name,
		Description:     q.Description,
		CompleteMessage: q.CompleteMessage,
		Flags:           q.Flags.Names(),
		Version:         q.Version,
		MinLevel:        q.MinLevel,
		MaxLevel:        q.MaxLevel,
		RepeatAfter:     &repeat,
		DailyCycle:      q.DailyCycle,
		Scripts:         q.Scripts,
	}
	for _, g := range q.StartsAt {
		def.StartsAt = append(def.StartsAt, GiverYAML{Type: g.Kind.String(), Vnum: g.Vnum})
	}
	for _, g := range q.EndsAt {
		def.EndsAt = append(def.EndsAt, GiverYAML{Type: g.Kind.String(), Vnum: g.Vnum})
	}
	for _, r := range q.Prereqs {
		def.Prereqs = append(def.Prereqs, requirement.ToDefinition(r))
	}
	for _, r := range q.Tasks {
		def.Tasks = append(def.Tasks, requirement.ToDefinition(r))
	}
	for _, r := range q.Rewards {
		def.Rewards = append(def.Rewards, RewardYAML{Type: r.Kind.String(), Vnum: r.Vnum, Amount: r.Amount})
	}
	return def
}
