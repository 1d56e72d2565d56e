package faction

import (
	"sort"

	"github.com/lawnchairsociety/questcore/internal/content"
)

// Registry holds the faction catalog and the shared ladder.
type Registry struct {
	ladder   *Ladder
	factions map[int]*Faction
}

// NewRegistry creates an empty registry over ladder. A nil ladder uses
// DefaultLadder.
func NewRegistry(ladder *Ladder) *Registry {
	if ladder == nil {
		ladder = DefaultLadder()
	}
	return &Registry{
		ladder:   ladder,
		factions: make(map[int]*Faction),
	}
}

// Ladder returns the shared reputation ladder.
func (r *Registry) Ladder() *Ladder {
	return r.ladder
}

// Add stores or replaces a faction.
func (r *Registry) Add(f *Faction) {
	r.factions[f.ID] = f
}

// Remove deletes a faction and reports whether it existed.
func (r *Registry) Remove(id int) bool {
	if _, ok := r.factions[id]; !ok {
		return false
	}
	delete(r.factions, id)
	return true
}

// Get returns a faction by id.
func (r *Registry) Get(id int) (*Faction, bool) {
	f, ok := r.factions[id]
	return f, ok
}

// All returns every faction ordered by id.
func (r *Registry) All() []*Faction {
	out := make([]*Faction, 0, len(r.factions))
	for _, f := range r.factions {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Count returns the number of factions.
func (r *Registry) Count() int {
	return len(r.factions)
}

// FindByName returns factions whose name matches query: exact first, then
// prefix, then fuzzy.
func (r *Registry) FindByName(query string) []*Faction {
	all := r.All()
	list := make([]string, len(all))
	for i, f := range all {
		list[i] = f.Name
	}
	idx := content.MatchNames(query, list)
	out := make([]*Faction, len(idx))
	for i, j := range idx {
		out[i] = all[j]
	}
	return out
}

// bounds returns the faction's numeric min and max.
func (r *Registry) bounds(f *Faction) (lo, hi int) {
	lo, hi = r.ladder.MinValue(), r.ladder.MaxValue()
	if rung, ok := r.ladder.Get(f.MinRung); ok {
		lo = rung.Threshold
	}
	if rung, ok := r.ladder.Get(f.MaxRung); ok {
		hi = rung.Threshold
	}
	return lo, hi
}

// startRung returns the faction's starting rung, falling back to the rung
// that holds 0.
func (r *Registry) startRung(f *Faction) Rung {
	if rung, ok := r.ladder.Get(f.StartRung); ok {
		return rung
	}
	return r.ladder.RungFor(0)
}
