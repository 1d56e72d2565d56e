// Package database persists quest trackers, completion records, faction
// standings and empire goals in SQLite or PostgreSQL.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lawnchairsociety/questcore/internal/logger"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Database wraps the SQL connection and provides persistence operations.
type Database struct {
	db      *sql.DB
	dialect Dialect
	qb      *QueryBuilder
	log     *slog.Logger
}

// Open opens or creates the SQLite database at the given path.
func Open(path string) (*Database, error) {
	return OpenWithConfig(DefaultConfig(path))
}

// OpenWithConfig opens the database named by cfg and brings its schema
// up to date.
func OpenWithConfig(cfg Config) (*Database, error) {
	var (
		dialect Dialect
		dsn     string
	)
	switch cfg.Driver {
	case "", "sqlite":
		dialect = NewDialect(DialectSQLite)
		dsn = cfg.SQLitePath
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	case "postgres":
		dialect = NewDialect(DialectPostgres)
		dsn = cfg.Postgres.DSN()
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.Driver == "postgres" {
		db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Postgres.ConnMaxLifetime)
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
	}

	for _, stmt := range dialect.InitStatements() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run %q: %w", stmt, err)
		}
	}

	d := &Database{
		db:      db,
		dialect: dialect,
		qb:      NewQueryBuilder(dialect),
		log:     logger.With("database"),
	}

	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	d.log.Info("Database opened", "driver", dialect.DriverName())
	return d, nil
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// migrate creates the database schema if it doesn't exist.
func (d *Database) migrate() error {
	ts := d.dialect.TimestampType()
	js := d.dialect.JSONType()
	migrations := []string{
		// Active quest trackers; tasks is the JSON task list snapshot
		`CREATE TABLE IF NOT EXISTS quest_trackers (
			character_id INTEGER NOT NULL,
			quest_id INTEGER NOT NULL,
			instance_id INTEGER NOT NULL DEFAULT 0,
			adventure_id INTEGER NOT NULL DEFAULT 0,
			version INTEGER NOT NULL DEFAULT 0,
			started_at ` + ts + ` NOT NULL,
			tasks ` + js + ` NOT NULL DEFAULT '[]',
			PRIMARY KEY (character_id, quest_id)
		)`,

		// Last completion of each quest per character
		`CREATE TABLE IF NOT EXISTS quest_completions (
			character_id INTEGER NOT NULL,
			quest_id INTEGER NOT NULL,
			last_completed ` + ts + ` NOT NULL,
			last_instance_id INTEGER NOT NULL DEFAULT 0,
			last_adventure_id INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (character_id, quest_id)
		)`,

		// Daily quota window per character
		`CREATE TABLE IF NOT EXISTS quest_daily_counts (
			character_id INTEGER PRIMARY KEY,
			dailies_done INTEGER NOT NULL DEFAULT 0,
			event_dailies_done INTEGER NOT NULL DEFAULT 0,
			daily_window ` + ts + ` NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS faction_standings (
			character_id INTEGER NOT NULL,
			faction_id INTEGER NOT NULL,
			rung INTEGER NOT NULL,
			value INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (character_id, faction_id)
		)`,

		`CREATE TABLE IF NOT EXISTS empire_goal_trackers (
			empire_id INTEGER NOT NULL,
			goal_id INTEGER NOT NULL,
			version INTEGER NOT NULL DEFAULT 0,
			tasks ` + js + ` NOT NULL DEFAULT '[]',
			PRIMARY KEY (empire_id, goal_id)
		)`,

		`CREATE TABLE IF NOT EXISTS empire_completed_goals (
			empire_id INTEGER NOT NULL,
			goal_id INTEGER NOT NULL,
			completed_at ` + ts + ` NOT NULL,
			PRIMARY KEY (empire_id, goal_id)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_quest_completions_quest ON quest_completions(quest_id)`,
		`CREATE INDEX IF NOT EXISTS idx_quest_trackers_quest ON quest_trackers(quest_id)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}

// DB returns the underlying sql.DB for advanced operations.
func (d *Database) DB() *sql.DB {
	return d.db
}

// Dialect returns the SQL dialect in use.
func (d *Database) Dialect() Dialect {
	return d.dialect
}

// withTx runs fn in a transaction, committing if it returns nil.
func (d *Database) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
