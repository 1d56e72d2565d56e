package database

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lawnchairsociety/questcore/internal/config"
)

var allTables = []string{
	"quest_trackers", "quest_completions", "quest_daily_counts",
	"faction_standings", "empire_goal_trackers", "empire_completed_goals",
}

// getPostgresTestConfig returns PostgreSQL config if available, nil otherwise.
// Set QUESTCORE_TEST_POSTGRES to run PostgreSQL tests; the connection is
// read from QUESTCORE_TEST_POSTGRES_HOST, _PORT, _USER, _PASSWORD and
// _DATABASE.
func getPostgresTestConfig() *Config {
	if os.Getenv("QUESTCORE_TEST_POSTGRES") == "" {
		return nil
	}

	pg := DefaultPostgresConfig()
	pg.User = "questcore"
	pg.Password = "questcore"
	pg.Database = "questcore_test"
	if v := os.Getenv("QUESTCORE_TEST_POSTGRES_HOST"); v != "" {
		pg.Host = v
	}
	if v := os.Getenv("QUESTCORE_TEST_POSTGRES_PORT"); v != "" {
		fmt.Sscanf(v, "%d", &pg.Port)
	}
	if v := os.Getenv("QUESTCORE_TEST_POSTGRES_USER"); v != "" {
		pg.User = v
	}
	if v := os.Getenv("QUESTCORE_TEST_POSTGRES_PASSWORD"); v != "" {
		pg.Password = v
	}
	if v := os.Getenv("QUESTCORE_TEST_POSTGRES_DATABASE"); v != "" {
		pg.Database = v
	}

	return &Config{Driver: "postgres", Postgres: pg}
}

// getDualTestDatabases returns both SQLite and PostgreSQL databases for testing.
// If PostgreSQL is not available, it returns only SQLite.
func getDualTestDatabases(t *testing.T) map[string]*Database {
	t.Helper()
	dbs := make(map[string]*Database)

	sqliteDB, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open SQLite database: %v", err)
	}
	dbs["sqlite"] = sqliteDB

	if pgConfig := getPostgresTestConfig(); pgConfig != nil {
		pgDB, err := OpenWithConfig(*pgConfig)
		if err != nil {
			t.Logf("PostgreSQL not available: %v", err)
		} else {
			clearTables(pgDB)
			dbs["postgres"] = pgDB
		}
	}

	t.Cleanup(func() {
		for name, db := range dbs {
			if name == "postgres" {
				clearTables(db)
			}
			db.Close()
		}
	})

	return dbs
}

func clearTables(db *Database) {
	for _, table := range allTables {
		db.db.Exec("DELETE FROM " + table)
	}
}

func openTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}

	for _, table := range allTables {
		var count int
		if err := db.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
			t.Errorf("Failed to query %s table: %v", table, err)
		}
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	nestedPath := filepath.Join(t.TempDir(), "nested", "dir", "test.db")

	db, err := Open(nestedPath)
	if err != nil {
		t.Fatalf("Failed to open database with nested path: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(nestedPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestOpenTwiceKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	p := NewPlayerProgress()
	p.Log.Completions[7] = completion(7, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	if err := db.SavePlayerProgress(t.Context(), 1, p); err != nil {
		t.Fatalf("SavePlayerProgress: %v", err)
	}
	db.Close()

	db, err = Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen database: %v", err)
	}
	defer db.Close()

	got, err := db.LoadPlayerProgress(t.Context(), 1)
	if err != nil {
		t.Fatalf("LoadPlayerProgress: %v", err)
	}
	if !got.Log.HasCompleted(7) {
		t.Error("completion lost across reopen")
	}
}

func TestClose(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}

	if err := db.Close(); err != nil {
		t.Errorf("Failed to close database: %v", err)
	}

	var count int
	if err := db.db.QueryRow("SELECT COUNT(*) FROM quest_trackers").Scan(&count); err == nil {
		t.Error("Expected error querying closed database")
	}
}

func TestOpenWithConfigUnknownDriver(t *testing.T) {
	if _, err := OpenWithConfig(Config{Driver: "mysql"}); err == nil {
		t.Error("expected error for unknown driver")
	}
}

func TestMigration_SQLitePragmas(t *testing.T) {
	db := openTestDB(t)

	var fkEnabled int
	if err := db.db.QueryRow("PRAGMA foreign_keys").Scan(&fkEnabled); err != nil {
		t.Fatalf("Failed to check foreign_keys pragma: %v", err)
	}
	if fkEnabled != 1 {
		t.Error("Foreign keys are not enabled")
	}

	var mode string
	if err := db.db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("Failed to check journal_mode pragma: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

func TestMigration_IndexesExist(t *testing.T) {
	db := openTestDB(t)

	for _, idx := range []string{"idx_quest_completions_quest", "idx_quest_trackers_quest"} {
		var exists int
		err := db.db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name=?", idx).Scan(&exists)
		if err != nil {
			t.Fatalf("Failed to check index %s: %v", idx, err)
		}
		if exists == 0 {
			t.Errorf("Index %s not found", idx)
		}
	}
}

func TestFromEngineConfig(t *testing.T) {
	ec := config.DefaultConfig().Database
	ec.Driver = "postgres"
	ec.Postgres.Host = "db.internal"
	ec.Postgres.Port = 6543
	ec.Postgres.User = "quests"
	ec.Postgres.Database = "world"

	cfg := FromEngineConfig(ec)
	if cfg.Driver != "postgres" {
		t.Errorf("Driver = %q, want postgres", cfg.Driver)
	}
	if cfg.SQLitePath != ec.SQLitePath {
		t.Errorf("SQLitePath = %q, want %q", cfg.SQLitePath, ec.SQLitePath)
	}

	want := "host=db.internal port=6543 user=quests password=" + ec.Postgres.Password +
		" dbname=world sslmode=" + ec.Postgres.SSLMode
	if got := cfg.Postgres.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
