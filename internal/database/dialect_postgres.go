package database

import "strconv"

// PostgresDialect targets PostgreSQL through lib/pq.
type PostgresDialect struct{}

func (d *PostgresDialect) DriverName() string { return "postgres" }

// Placeholder returns "$N".
func (d *PostgresDialect) Placeholder(position int) string {
	return "$" + strconv.Itoa(position)
}

// InitStatements is empty; foreign keys and MVCC need no setup.
func (d *PostgresDialect) InitStatements() []string { return nil }

// TimestampType keeps the zone so windows compare correctly across hosts.
func (d *PostgresDialect) TimestampType() string { return "TIMESTAMPTZ" }

// JSONType stores task lists as JSONB so they can be inspected in SQL.
func (d *PostgresDialect) JSONType() string { return "JSONB" }
