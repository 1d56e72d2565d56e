package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/lawnchairsociety/questcore/internal/engine"
	"github.com/spf13/cobra"
)

var refsCmd = &cobra.Command{
	Use:       "refs quest|faction <id>",
	Short:     "list everything that refers to a quest or faction",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"quest", "faction"},
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		e, err := loadEngine(cmd.Context(), engineConfig)
		if err != nil {
			return err
		}

		var refs []engine.Location
		switch args[0] {
		case "quest":
			if _, ok := e.Content().Quests.Get(id); !ok {
				return fmt.Errorf("%w: %d", engine.ErrUnknownQuest, id)
			}
			refs = e.FindReferencesToQuest(id)
		case "faction":
			if _, ok := e.Content().Factions.Get(id); !ok {
				return fmt.Errorf("%w: %d", engine.ErrUnknownFaction, id)
			}
			refs = e.FindReferencesToFaction(id)
		default:
			return fmt.Errorf("unknown reference type %q (want quest or faction)", args[0])
		}
		writeLocations(cmd.OutOrStdout(), args[0], id, refs)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(refsCmd)
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func writeLocations(w io.Writer, kind string, id int, refs []engine.Location) {
	if len(refs) == 0 {
		fmt.Fprintf(w, "Nothing refers to %s %d.\n", kind, id)
		return
	}
	fmt.Fprintf(w, "%d references to %s %d:\n", len(refs), kind, id)
	for _, l := range refs {
		fmt.Fprintf(w, "  %s\n", l)
	}
}
