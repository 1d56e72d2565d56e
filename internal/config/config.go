package config

import (
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// EngineConfig holds engine-wide configuration settings.
type EngineConfig struct {
	Content  ContentConfig  `yaml:"content"`
	Quests   QuestConfig    `yaml:"quests"`
	Database DatabaseConfig `yaml:"database"`
}

// ContentConfig locates the authored catalogs on disk.
type ContentConfig struct {
	// QuestsDir holds one or more quest YAML files.
	QuestsDir string `yaml:"quests_dir"`

	// FactionsFile holds the reputation ladder and faction definitions.
	FactionsFile string `yaml:"factions_file"`

	// GoalsDir holds empire progress goal YAML files. Empty disables goals.
	GoalsDir string `yaml:"goals_dir"`
}

// QuestConfig holds quest lifecycle settings.
type QuestConfig struct {
	// DailyReset is a standard 5-field cron expression for the shared daily reset.
	DailyReset string `yaml:"daily_reset"`

	// DailiesPerDay caps how many daily quests a player may complete
	// between two resets. 0 means unlimited.
	DailiesPerDay int `yaml:"dailies_per_day"`

	// DailyCyclesFile records which quest is active per daily cycle.
	DailyCyclesFile string `yaml:"daily_cycles_file"`

	// ImmortalLevel is the level at which players bypass in-development gates.
	ImmortalLevel int `yaml:"immortal_level"`
}

// DatabaseConfig selects and configures the persistence backend.
type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver     string         `yaml:"driver"`
	SQLitePath string         `yaml:"sqlite_path"`
	Postgres   PostgresConfig `yaml:"postgres"`

	// CacheSize is the number of player progress records kept in memory.
	CacheSize int `yaml:"cache_size"`
}

// PostgresConfig holds PostgreSQL connection settings.
type PostgresConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Database        string        `yaml:"database"`
	SSLMode         string        `yaml:"ssl_mode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// DefaultConfig returns an EngineConfig with the stock data layout.
func DefaultConfig() *EngineConfig {
	return &EngineConfig{
		Content: ContentConfig{
			QuestsDir:    "data/quests",
			FactionsFile: "data/factions.yaml",
			GoalsDir:     "data/progress",
		},
		Quests: QuestConfig{
			DailyReset:      "0 0 * * *", // midnight
			DailiesPerDay:   20,
			DailyCyclesFile: "data/daily_cycles.yaml",
			ImmortalLevel:   100,
		},
		Database: DatabaseConfig{
			Driver:     "sqlite",
			SQLitePath: "data/questcore.db",
			Postgres: PostgresConfig{
				Host:            "localhost",
				Port:            5432,
				SSLMode:         "disable",
				MaxOpenConns:    25,
				MaxIdleConns:    5,
				ConnMaxLifetime: 5 * time.Minute,
			},
			CacheSize: 256,
		},
	}
}

// LoadConfig loads engine configuration from a YAML file.
// If the file doesn't exist, returns the default config.
func LoadConfig(path string) (*EngineConfig, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), err
	}

	if err := config.Validate(); err != nil {
		return config, err
	}

	return config, nil
}

// Validate checks settings that would otherwise fail late at runtime.
func (c *EngineConfig) Validate() error {
	if _, err := cron.ParseStandard(c.Quests.DailyReset); err != nil {
		return fmt.Errorf("invalid quests.daily_reset %q: %w", c.Quests.DailyReset, err)
	}
	if c.Quests.DailiesPerDay < 0 {
		return fmt.Errorf("quests.dailies_per_day must not be negative, got %d", c.Quests.DailiesPerDay)
	}
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown database.driver %q", c.Database.Driver)
	}
	return nil
}
