package progress

import (
	"sort"

	"github.com/lawnchairsociety/questcore/internal/content"
)

// Catalog holds all loaded goals, keyed by id.
type Catalog struct {
	goals map[int]*Goal
}

// NewCatalog creates an empty catalog
func NewCatalog() *Catalog {
	return &Catalog{goals: make(map[int]*Goal)}
}

// LoadFromConfig replaces the catalog contents with the goals in config.
func (c *Catalog) LoadFromConfig(config *GoalsConfig) []content.Problem {
	c.goals = make(map[int]*Goal, len(config.Goals))

	var problems []content.Problem
	for _, id := range config.IDs() {
		def := config.Goals[id]
		g, p := createGoalFromDefinition(id, &def)
		problems = append(problems, p...)
		c.goals[id] = g
	}
	return problems
}

// LoadFromDirectory loads goals from all YAML files in a directory
func (c *Catalog) LoadFromDirectory(dir string) ([]content.Problem, error) {
	config, err := LoadGoalsFromDirectory(dir)
	if err != nil {
		return nil, err
	}
	return c.LoadFromConfig(config), nil
}

// Add stores or replaces a goal.
func (c *Catalog) Add(g *Goal) {
	c.goals[g.ID] = g
}

// Remove deletes a goal and reports whether it existed.
func (c *Catalog) Remove(id int) bool {
	if _, ok := c.goals[id]; !ok {
		return false
	}
	delete(c.goals, id)
	return true
}

// Get returns a goal by id
func (c *Catalog) Get(id int) (*Goal, bool) {
	g, ok := c.goals[id]
	return g, ok
}

// All returns every goal in ascending id order.
func (c *Catalog) All() []*Goal {
	goals := make([]*Goal, 0, len(c.goals))
	for _, g := range c.goals {
		goals = append(goals, g)
	}
	sort.Slice(goals, func(i, j int) bool { return goals[i].ID < goals[j].ID })
	return goals
}

// Count returns the number of goals
func (c *Catalog) Count() int {
	return len(c.goals)
}

// FindByName returns goals whose name matches query.
func (c *Catalog) FindByName(query string) []*Goal {
	all := c.All()
	names := make([]string, len(all))
	for i, g := range all {
		names[i] = g.Name
	}
	idx := content.MatchNames(query, names)
	out := make([]*Goal, len(idx))
	for i, j := range idx {
		out[i] = all[j]
	}
	return out
}
