package faction

import (
	"sort"
	"strings"
)

// Flags is the faction flag bitset.
type Flags uint32

const (
	FlagInDevelopment Flags = 1 << iota // hidden and inert until finished
	FlagRepFromKills                    // killing members changes reputation
	FlagHideInList                      // omitted from player-facing lists
)

var flagNames = map[string]Flags{
	"in-development": FlagInDevelopment,
	"rep-from-kills": FlagRepFromKills,
	"hide-in-list":   FlagHideInList,
}

// Has reports whether every bit in f is set.
func (fl Flags) Has(f Flags) bool { return fl&f == f }

// RelationFlags describes how two factions relate.
type RelationFlags uint32

const (
	RelShared            RelationFlags = 1 << iota // gains are shared
	RelInverse                                     // gains are inverted
	RelMutuallyExclusive                           // can't be liked by both
	RelUnlisted                                    // hidden from players
)

var relationNames = map[string]RelationFlags{
	"shared":             RelShared,
	"inverse":            RelInverse,
	"mutually-exclusive": RelMutuallyExclusive,
	"unlisted":           RelUnlisted,
}

// Has reports whether every bit in f is set.
func (r RelationFlags) Has(f RelationFlags) bool { return r&f == f }

// Faction is an allegiance with a bounded reputation scale. MinRung,
// MaxRung and StartRung are ladder rung ids.
type Faction struct {
	ID          int
	Name        string
	Description string
	Flags       Flags
	MinRung     int
	MaxRung     int
	StartRung   int
	Relations   map[int]RelationFlags
}

// InDevelopment reports whether the faction is hidden from play.
func (f *Faction) InDevelopment() bool {
	return f.Flags.Has(FlagInDevelopment)
}

// RelatedIDs returns the ids of related factions in ascending order.
func (f *Faction) RelatedIDs() []int {
	ids := make([]int, 0, len(f.Relations))
	for id := range f.Relations {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Clone returns a deep copy of f.
func (f *Faction) Clone() *Faction {
	c := *f
	c.Relations = make(map[int]RelationFlags, len(f.Relations))
	for id, rel := range f.Relations {
		c.Relations[id] = rel
	}
	return &c
}

func parseFlags(names []string) (Flags, []string) {
	var f Flags
	var unknown []string
	for _, n := range names {
		bit, ok := flagNames[strings.ToLower(n)]
		if !ok {
			unknown = append(unknown, n)
			continue
		}
		f |= bit
	}
	return f, unknown
}

func parseRelation(names []string) (RelationFlags, []string) {
	var r RelationFlags
	var unknown []string
	for _, n := range names {
		bit, ok := relationNames[strings.ToLower(n)]
		if !ok {
			unknown = append(unknown, n)
			continue
		}
		r |= bit
	}
	return r, unknown
}

// FlagNames returns the names of the set flags in a stable order.
func (fl Flags) FlagNames() []string {
	named := make(map[string]uint32, len(flagNames))
	for n, bit := range flagNames {
		named[n] = uint32(bit)
	}
	return bitNames(uint32(fl), named)
}

// FlagNames returns the names of the set relation flags in a stable order.
func (r RelationFlags) FlagNames() []string {
	named := make(map[string]uint32, len(relationNames))
	for n, bit := range relationNames {
		named[n] = uint32(bit)
	}
	return bitNames(uint32(r), named)
}

func bitNames(bits uint32, names map[string]uint32) []string {
	var out []string
	for n, bit := range names {
		if bits&bit != 0 {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}
