package database

import (
	"strings"
)

// QueryBuilder rewrites queries written with ? markers for the active dialect.
type QueryBuilder struct {
	dialect Dialect
}

// NewQueryBuilder creates a QueryBuilder for dialect.
func NewQueryBuilder(dialect Dialect) *QueryBuilder {
	return &QueryBuilder{dialect: dialect}
}

// Build numbers the ? markers outside string literals. SQLite queries
// are returned unchanged.
//
//	DELETE FROM quest_trackers WHERE character_id = ? AND quest_id = ?
//	DELETE FROM quest_trackers WHERE character_id = $1 AND quest_id = $2
func (qb *QueryBuilder) Build(query string) string {
	if _, ok := qb.dialect.(*SQLiteDialect); ok {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	quoted := false
	for _, c := range query {
		switch {
		case c == '\'':
			quoted = !quoted
		case c == '?' && !quoted:
			n++
			b.WriteString(qb.dialect.Placeholder(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}
