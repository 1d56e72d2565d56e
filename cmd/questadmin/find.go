package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var findCmd = &cobra.Command{
	Use:   "find <name>",
	Short: "search quests and factions by name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		e, err := loadEngine(cmd.Context(), engineConfig)
		if err != nil {
			return err
		}
		c := e.Content()
		w := cmd.OutOrStdout()

		quests := c.Quests.FindByName(query)
		factions := c.Factions.FindByName(query)
		if len(quests) == 0 && len(factions) == 0 {
			fmt.Fprintf(w, "Nothing matches %q.\n", query)
			return nil
		}
		for _, q := range quests {
			fmt.Fprintf(w, "quest   %-6d %s\n", q.ID, q.Name)
		}
		for _, f := range factions {
			fmt.Fprintf(w, "faction %-6d %s\n", f.ID, f.Name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(findCmd)
}
