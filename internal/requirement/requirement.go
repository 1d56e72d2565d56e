package requirement

import "sort"

// Requirement is one condition in a prerequisite or task list.
type Requirement struct {
	Kind    Kind `json:"kind"`
	Vnum    int  `json:"vnum"`
	Misc    int  `json:"misc,omitempty"` // flag filter, or ladder rung for reputation kinds
	Needed  int  `json:"needed"`
	Current int  `json:"current"`

	// Each group 0 entry is an alternative path on its own. Entries sharing
	// a nonzero group form one path that needs all of them.
	Group int `json:"group,omitempty"`
}

// IsComplete reports whether the requirement is satisfied.
func (r *Requirement) IsComplete() bool {
	return r.Current >= r.Needed
}

// Refresh recomputes Current from s and reports whether it changed.
// Non-refreshable kinds are left alone.
func (r *Requirement) Refresh(s Subject) bool {
	fn := r.Kind.spec().refresh
	if fn == nil {
		return false
	}
	v := fn(s, r)
	if v < 0 {
		v = 0
	}
	if v == r.Current {
		return false
	}
	r.Current = v
	return true
}

// Matches reports whether r tracks the given kind and target.
func (r *Requirement) Matches(kind Kind, vnum int) bool {
	return r.Kind == kind && r.Vnum == vnum
}

// List is an ordered requirement list.
type List []Requirement

// Copy returns an independent copy of l.
func (l List) Copy() List {
	if l == nil {
		return nil
	}
	out := make(List, len(l))
	copy(out, l)
	return out
}

// Reset zeroes all progress.
func (l List) Reset() {
	for i := range l {
		l[i].Current = 0
	}
}

// groups returns the nonzero group ids in ascending order.
func (l List) groups() []int {
	seen := make(map[int]bool)
	var ids []int
	for _, r := range l {
		if r.Group != 0 && !seen[r.Group] {
			seen[r.Group] = true
			ids = append(ids, r.Group)
		}
	}
	sort.Ints(ids)
	return ids
}

// groupProgress counts complete and total entries in group g.
func (l List) groupProgress(g int) (complete, total int) {
	for i := range l {
		if l[i].Group != g {
			continue
		}
		total++
		if l[i].IsComplete() {
			complete++
		}
	}
	return complete, total
}

// Count reports progress along the best path through l, counted in
// entries. Any complete ungrouped entry finishes the list as 1/1. Otherwise
// the first complete group wins, or failing that the group with the highest
// share of complete entries, a later group taking ties. An empty list is
// 0/0.
func (l List) Count() (complete, total int) {
	if len(l) == 0 {
		return 0, 0
	}

	ungrouped := false
	for i := range l {
		if l[i].Group != 0 {
			continue
		}
		if l[i].IsComplete() {
			return 1, 1
		}
		ungrouped = true
	}

	bestC, bestT := 0, 1
	haveBest := ungrouped
	for _, g := range l.groups() {
		c, t := l.groupProgress(g)
		if c == t {
			return c, t
		}
		if !haveBest || c*100/t >= bestC*100/bestT {
			bestC, bestT = c, t
			haveBest = true
		}
	}
	return bestC, bestT
}

// Complete reports whether any path through l is fully satisfied. An empty
// list is complete.
func (l List) Complete() bool {
	c, t := l.Count()
	return c == t
}

// Refresh recomputes every refreshable entry and reports whether any changed.
func (l List) Refresh(s Subject) bool {
	changed := false
	for i := range l {
		if l[i].Refresh(s) {
			changed = true
		}
	}
	return changed
}

// Met evaluates l as a prerequisite list against s without modifying l.
// Non-refreshable kinds cannot be evaluated from a snapshot and never pass.
func (l List) Met(s Subject) bool {
	if len(l) == 0 {
		return true
	}
	snap := l.Copy()
	for i := range snap {
		snap[i].Current = 0
		snap[i].Refresh(s)
	}
	return snap.Complete()
}

// Find returns the first entry of the given kind and target, or nil.
func (l List) Find(kind Kind, vnum int) *Requirement {
	for i := range l {
		if l[i].Matches(kind, vnum) {
			return &l[i]
		}
	}
	return nil
}

// Contains reports whether any entry has the given kind and target.
func (l List) Contains(kind Kind, vnum int) bool {
	return l.Find(kind, vnum) != nil
}

// Remove returns l without entries of the given kind and target, and
// whether anything was removed.
func (l List) Remove(kind Kind, vnum int) (List, bool) {
	out := l[:0:0]
	removed := false
	for _, r := range l {
		if r.Matches(kind, vnum) {
			removed = true
			continue
		}
		out = append(out, r)
	}
	if !removed {
		return l, false
	}
	return out, true
}

// Update applies fn to every entry match accepts and reports whether any
// Current value changed.
func (l List) Update(match func(r *Requirement) bool, fn func(r *Requirement)) bool {
	changed := false
	for i := range l {
		r := &l[i]
		if !match(r) {
			continue
		}
		before := r.Current
		fn(r)
		if r.Current < 0 {
			r.Current = 0
		}
		if r.Current != before {
			changed = true
		}
	}
	return changed
}

// CarryForward copies progress from old into l for entries that match by
// kind, target and filter. Unmatched entries in l start at zero.
func (l List) CarryForward(old List) {
	used := make([]bool, len(old))
	for i := range l {
		l[i].Current = 0
		for j := range old {
			if used[j] {
				continue
			}
			if old[j].Kind == l[i].Kind && old[j].Vnum == l[i].Vnum && old[j].Misc == l[i].Misc {
				l[i].Current = old[j].Current
				used[j] = true
				break
			}
		}
	}
}
