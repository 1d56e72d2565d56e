package content

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// names implements fuzzy.Source over a slice of display names.
type names []string

func (n names) Len() int            { return len(n) }
func (n names) String(i int) string { return n[i] }

// MatchNames returns the indices of list entries matching query. Exact
// matches (ignoring case) win over prefix matches, which win over fuzzy
// matches. Fuzzy results are ordered by score.
func MatchNames(query string, list []string) []int {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	lowered := make(names, len(list))
	for i, n := range list {
		lowered[i] = strings.ToLower(n)
	}

	var exact, prefix []int
	for i, n := range lowered {
		switch {
		case n == q:
			exact = append(exact, i)
		case strings.HasPrefix(n, q):
			prefix = append(prefix, i)
		}
	}
	if len(exact) > 0 {
		return exact
	}
	if len(prefix) > 0 {
		return prefix
	}

	matches := fuzzy.FindFrom(q, lowered)
	out := make([]int, len(matches))
	for i, m := range matches {
		out[i] = m.Index
	}
	return out
}
