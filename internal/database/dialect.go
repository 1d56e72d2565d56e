package database

// Dialect covers the places where SQLite and PostgreSQL disagree for the
// progress schema.
type Dialect interface {
	// DriverName is the database/sql driver: "sqlite" or "postgres".
	DriverName() string

	// Placeholder is the bind marker for the 1-based position.
	Placeholder(position int) string

	// InitStatements run once per connection pool before migrations.
	InitStatements() []string

	// TimestampType is the column type for completion and start times.
	TimestampType() string

	// JSONType is the column type for serialized task lists.
	JSONType() string
}

// DialectType names a supported dialect.
type DialectType string

const (
	DialectSQLite   DialectType = "sqlite"
	DialectPostgres DialectType = "postgres"
)

// NewDialect returns the dialect for t, falling back to SQLite.
func NewDialect(t DialectType) Dialect {
	if t == DialectPostgres {
		return &PostgresDialect{}
	}
	return &SQLiteDialect{}
}
