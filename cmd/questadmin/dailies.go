package main

import (
	"fmt"
	"io"

	"github.com/lawnchairsociety/questcore/internal/quest"
	"github.com/spf13/cobra"
)

var dailiesCmd = &cobra.Command{
	Use:   "dailies",
	Short: "show the active quest in each daily cycle",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEngine(cmd.Context(), engineConfig)
		if err != nil {
			return err
		}
		c := e.Content()
		writeDailies(cmd.OutOrStdout(), c.Dailies, c.Quests)
		return nil
	},
}

var rotateCmd = &cobra.Command{
	Use:   "rotate [cycle]",
	Short: "re-roll one daily cycle, or all of them",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cycle := 0
		if len(args) == 1 {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			cycle = id
		}

		e, err := loadEngine(cmd.Context(), engineConfig)
		if err != nil {
			return err
		}
		if err := e.SetupDailyCycles(); err != nil {
			return fmt.Errorf("failed to set up daily cycles: %w", err)
		}
		if err := e.RotateDailyCycles(cycle); err != nil {
			return fmt.Errorf("failed to rotate daily cycles: %w", err)
		}
		c := e.Content()
		writeDailies(cmd.OutOrStdout(), c.Dailies, c.Quests)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dailiesCmd)
	rootCmd.AddCommand(rotateCmd)
}

func writeDailies(w io.Writer, d *quest.DailyCycles, quests *quest.Catalog) {
	cycles := d.Cycles()
	if len(cycles) == 0 {
		fmt.Fprintln(w, "No daily cycles are active.")
		return
	}
	fmt.Fprintln(w, "=== Daily Cycles ===")
	for _, cycle := range cycles {
		id, _ := d.Active(cycle)
		name := "(missing)"
		if q, ok := quests.Get(id); ok {
			name = q.Name
		}
		fmt.Fprintf(w, "  cycle %-4d quest %-6d %s\n", cycle, id, name)
	}
}
