package faction

import (
	"fmt"
	"math"
	"strings"
)

// Rung is one named level on the reputation ladder.
type Rung struct {
	ID        int    `yaml:"id"`
	Name      string `yaml:"name"`
	Color     string `yaml:"color"`
	Threshold int    `yaml:"threshold"`
}

// Ladder is the ascending list of rungs shared by every faction.
type Ladder struct {
	rungs []Rung
	index map[int]int // rung id -> position
}

// NewLadder validates rungs and builds a ladder. Thresholds must be
// strictly ascending and ids unique.
func NewLadder(rungs []Rung) (*Ladder, error) {
	if len(rungs) == 0 {
		return nil, fmt.Errorf("reputation ladder is empty")
	}
	l := &Ladder{rungs: make([]Rung, len(rungs)), index: make(map[int]int, len(rungs))}
	copy(l.rungs, rungs)
	for i, r := range l.rungs {
		if _, dup := l.index[r.ID]; dup {
			return nil, fmt.Errorf("duplicate reputation level id %d", r.ID)
		}
		if i > 0 && r.Threshold <= l.rungs[i-1].Threshold {
			return nil, fmt.Errorf("reputation level %q threshold %d is not above %q (%d)",
				r.Name, r.Threshold, l.rungs[i-1].Name, l.rungs[i-1].Threshold)
		}
		l.index[r.ID] = i
	}
	return l, nil
}

// DefaultLadder returns the stock ladder.
func DefaultLadder() *Ladder {
	l, _ := NewLadder([]Rung{
		{ID: 1, Name: "Despised", Color: "&r", Threshold: -100},
		{ID: 2, Name: "Hated", Color: "&r", Threshold: -75},
		{ID: 3, Name: "Loathed", Color: "&o", Threshold: -50},
		{ID: 4, Name: "Disliked", Color: "&y", Threshold: -25},
		{ID: 5, Name: "Neutral", Color: "&0", Threshold: 0},
		{ID: 6, Name: "Liked", Color: "&c", Threshold: 25},
		{ID: 7, Name: "Esteemed", Color: "&g", Threshold: 50},
		{ID: 8, Name: "Venerated", Color: "&g", Threshold: 75},
		{ID: 9, Name: "Revered", Color: "&b", Threshold: 100},
	})
	return l
}

// Len returns the number of rungs.
func (l *Ladder) Len() int { return len(l.rungs) }

// Rungs returns a copy of the rungs in ascending order.
func (l *Ladder) Rungs() []Rung {
	out := make([]Rung, len(l.rungs))
	copy(out, l.rungs)
	return out
}

// At returns the rung at position i.
func (l *Ladder) At(i int) Rung { return l.rungs[i] }

// Position returns the ladder position of rung id, or -1.
func (l *Ladder) Position(id int) int {
	if i, ok := l.index[id]; ok {
		return i
	}
	return -1
}

// Get returns the rung with the given id.
func (l *Ladder) Get(id int) (Rung, bool) {
	i := l.Position(id)
	if i < 0 {
		return Rung{}, false
	}
	return l.rungs[i], true
}

// MinValue and MaxValue are the global saturation limits.
func (l *Ladder) MinValue() int { return l.rungs[0].Threshold }
func (l *Ladder) MaxValue() int { return l.rungs[len(l.rungs)-1].Threshold }

// above reports whether value has crossed the boundary between positions
// i and i+1. Positive rungs are entered on reaching their threshold;
// zero and negative rungs are left once value rises past their threshold.
// Each boundary is a single "value >= c" cut, so the result is monotone in
// value and in i.
func (l *Ladder) above(i, value int) bool {
	next := l.rungs[i+1].Threshold
	if next > 0 {
		return value >= next
	}
	return value > l.rungs[i].Threshold
}

// step walks from position cur one rung at a time until value sits inside
// the rung. visit, if set, is called for every rung entered.
func (l *Ladder) step(cur, value int, visit func(pos int)) int {
	if cur < 0 || cur >= len(l.rungs) {
		cur = 0
	}
	for cur+1 < len(l.rungs) && l.above(cur, value) {
		cur++
		if visit != nil {
			visit(cur)
		}
	}
	for cur > 0 && !l.above(cur-1, value) {
		cur--
		if visit != nil {
			visit(cur)
		}
	}
	return cur
}

// RungFor returns the rung a value belongs to.
func (l *Ladder) RungFor(value int) Rung {
	return l.rungs[l.step(0, value, nil)]
}

// Compare orders two rung ids by ladder position. Unknown ids sort below
// every known rung.
func (l *Ladder) Compare(a, b int) int {
	pa, pb := l.Position(a), l.Position(b)
	switch {
	case pa < pb:
		return -1
	case pa > pb:
		return 1
	}
	return 0
}

// saturatingAdd adds without overflow.
func saturatingAdd(a, b int) int {
	if b > 0 && a > math.MaxInt-b {
		return math.MaxInt
	}
	if b < 0 && a < math.MinInt-b {
		return math.MinInt
	}
	return a + b
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ByName returns the rung with the given name, ignoring case.
func (l *Ladder) ByName(name string) (Rung, bool) {
	for _, r := range l.rungs {
		if strings.EqualFold(r.Name, name) {
			return r, true
		}
	}
	return Rung{}, false
}
