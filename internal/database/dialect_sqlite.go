package database

// SQLiteDialect targets the pure-Go modernc.org/sqlite driver.
type SQLiteDialect struct{}

func (d *SQLiteDialect) DriverName() string { return "sqlite" }

// Placeholder is always "?".
func (d *SQLiteDialect) Placeholder(int) string { return "?" }

// InitStatements turns on foreign keys and WAL, and waits on locks
// instead of failing with SQLITE_BUSY.
func (d *SQLiteDialect) InitStatements() []string {
	return []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
}

// TimestampType is a declared type the driver scans into time.Time.
func (d *SQLiteDialect) TimestampType() string { return "TIMESTAMP" }

// JSONType is plain text; SQLite has no JSON column type.
func (d *SQLiteDialect) JSONType() string { return "TEXT" }
