package main

import (
	"context"
	"fmt"
	"io"

	"github.com/lawnchairsociety/questcore/internal/database"
	"github.com/lawnchairsociety/questcore/internal/logger"
	"github.com/lawnchairsociety/questcore/internal/quest"
	"github.com/spf13/cobra"
)

var pruneDryRun bool

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "remove stored trackers and completions for quests that no longer exist",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEngine(cmd.Context(), engineConfig)
		if err != nil {
			return err
		}
		db, err := database.OpenWithConfig(database.FromEngineConfig(engineConfig.Database))
		if err != nil {
			return err
		}
		defer db.Close()

		return pruneDeleted(cmd.Context(), cmd.OutOrStdout(), db, e.Content().Quests, pruneDryRun)
	},
}

func init() {
	pruneCmd.Flags().BoolVar(&pruneDryRun, "dry-run", false, "Show what would be removed without making changes")
	rootCmd.AddCommand(pruneCmd)
}

// pruneDeleted removes stored progress for every quest missing from quests.
func pruneDeleted(ctx context.Context, w io.Writer, db *database.Database, quests *quest.Catalog, dryRun bool) error {
	ids, err := db.StoredQuestIDs(ctx)
	if err != nil {
		return err
	}

	stale := 0
	for _, id := range ids {
		if _, ok := quests.Get(id); ok {
			continue
		}
		stale++
		if dryRun {
			fmt.Fprintf(w, "would prune quest %d\n", id)
			continue
		}
		removed, err := db.PruneCompletions(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to prune quest %d: %w", id, err)
		}
		logger.Always("Pruned stored progress for deleted quest", "quest", id, "completions", removed)
		fmt.Fprintf(w, "pruned quest %d (%d completions)\n", id, removed)
	}
	if stale == 0 {
		fmt.Fprintln(w, "No stored progress refers to deleted quests.")
	}
	return nil
}
