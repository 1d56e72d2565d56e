package quest

import (
	"sort"

	"github.com/lawnchairsociety/questcore/internal/content"
)

// Catalog holds all loaded quest definitions, keyed by id.
type Catalog struct {
	quests map[int]*Quest
}

// NewCatalog creates an empty catalog
func NewCatalog() *Catalog {
	return &Catalog{
		quests: make(map[int]*Quest),
	}
}

// LoadFromConfig replaces the catalog contents with the quests in config
// and returns any conversion problems.
func (c *Catalog) LoadFromConfig(config *QuestsConfig) []content.Problem {
	c.quests = make(map[int]*Quest, len(config.Quests))

	var problems []content.Problem
	for _, id := range config.IDs() {
		def := config.Quests[id]
		q, p := createQuestFromDefinition(id, &def)
		problems = append(problems, p...)
		c.quests[id] = q
	}
	return problems
}

// LoadFromYAML loads quests from a YAML file
func (c *Catalog) LoadFromYAML(filename string) ([]content.Problem, error) {
	config, err := LoadQuestsFromYAML(filename)
	if err != nil {
		return nil, err
	}
	return c.LoadFromConfig(config), nil
}

// LoadFromDirectory loads quests from all YAML files in a directory
func (c *Catalog) LoadFromDirectory(dir string) ([]content.Problem, error) {
	config, err := LoadQuestsFromDirectory(dir)
	if err != nil {
		return nil, err
	}
	return c.LoadFromConfig(config), nil
}

// Add stores or replaces a quest.
func (c *Catalog) Add(q *Quest) {
	c.quests[q.ID] = q
}

// Remove deletes a quest and reports whether it existed.
func (c *Catalog) Remove(id int) bool {
	if _, ok := c.quests[id]; !ok {
		return false
	}
	delete(c.quests, id)
	return true
}

// Get returns a quest by id
func (c *Catalog) Get(id int) (*Quest, bool) {
	q, ok := c.quests[id]
	return q, ok
}

// All returns every quest in ascending id order.
func (c *Catalog) All() []*Quest {
	quests := make([]*Quest, 0, len(c.quests))
	for _, q := range c.quests {
		quests = append(quests, q)
	}
	sort.Slice(quests, func(i, j int) bool { return quests[i].ID < quests[j].ID })
	return quests
}

// Count returns the number of quests
func (c *Catalog) Count() int {
	return len(c.quests)
}

// FindByName returns quests whose name matches query: exact first, then
// prefix, then fuzzy.
func (c *Catalog) FindByName(query string) []*Quest {
	all := c.All()
	names := make([]string, len(all))
	for i, q := range all {
		names[i] = q.Name
	}
	idx := content.MatchNames(query, names)
	out := make([]*Quest, len(idx))
	for i, j := range idx {
		out[i] = all[j]
	}
	return out
}
