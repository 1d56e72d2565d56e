// Package progress tracks empire goals: long-running objectives measured
// against an empire's aggregate state with the same requirement trackers
// that quests use.
package progress

import (
	"sort"

	"github.com/lawnchairsociety/questcore/internal/requirement"
)

// Flags is the goal flag bitset.
type Flags uint32

const (
	FlagInDevelopment Flags = 1 << iota // never offered
	FlagPurchasable                     // bought with progress points instead of tracked
)

var flagNames = map[string]Flags{
	"in-development": FlagInDevelopment,
	"purchasable":    FlagPurchasable,
}

// Has reports whether every bit in f is set.
func (fl Flags) Has(f Flags) bool { return fl&f == f }

// Names returns the set flag names, sorted.
func (fl Flags) Names() []string {
	var out []string
	for n, bit := range flagNames {
		if fl&bit != 0 {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

// Goal is an empire progress goal.
type Goal struct {
	ID          int
	Name        string
	Description string
	Flags       Flags
	Version     int

	// Prereqs are goal ids the empire must have completed first.
	Prereqs []int
	Tasks   requirement.List

	Points int // progress points awarded on completion
	Cost   int // price in progress points for purchasable goals
}

// InDevelopment reports whether the goal is hidden.
func (g *Goal) InDevelopment() bool {
	return g.Flags.Has(FlagInDevelopment)
}

// Purchasable reports whether the goal is bought rather than tracked.
func (g *Goal) Purchasable() bool {
	return g.Flags.Has(FlagPurchasable)
}

// Clone returns a deep copy of g.
func (g *Goal) Clone() *Goal {
	c := *g
	c.Prereqs = append([]int(nil), g.Prereqs...)
	c.Tasks = g.Tasks.Copy()
	return &c
}
