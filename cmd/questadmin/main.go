// questadmin inspects and maintains quest content offline: audits,
// reference searches, daily rotation and pruning stored progress for
// deleted quests.
//
// Usage:
//
//	questadmin --config data/questcore.yaml audit
//	questadmin refs quest 1200
//	questadmin rotate 3
//	questadmin prune --dry-run
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lawnchairsociety/questcore/internal/config"
	"github.com/lawnchairsociety/questcore/internal/logger"
	"github.com/spf13/cobra"
)

var (
	configPath  string
	loggingPath string

	engineConfig *config.EngineConfig
)

var rootCmd = &cobra.Command{
	Use:           "questadmin",
	Short:         "inspect and maintain quest, faction and empire goal content",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logger first (before any logging)
		logConfig, _ := logger.LoadConfig(loggingPath)
		if err := logger.Initialize(logConfig); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config %s: %w", configPath, err)
		}
		engineConfig = cfg
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "data/questcore.yaml", "Path to engine config YAML file")
	rootCmd.PersistentFlags().StringVar(&loggingPath, "logging", "data/logging.yaml", "Path to logging config YAML file")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
