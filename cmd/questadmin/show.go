package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lawnchairsociety/questcore/internal/engine"
	"github.com/lawnchairsociety/questcore/internal/faction"
	"github.com/lawnchairsociety/questcore/internal/quest"
	"github.com/lawnchairsociety/questcore/internal/requirement"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:       "show quest|faction <id>",
	Short:     "print a quest or faction definition",
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
		c := e.Content()

		switch args[0] {
		case "quest":
			q, ok := c.Quests.Get(id)
			if !ok {
				return fmt.Errorf("%w: %d", engine.ErrUnknownQuest, id)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatQuest(q))
		case "faction":
			f, ok := c.Factions.Get(id)
			if !ok {
				return fmt.Errorf("%w: %d", engine.ErrUnknownFaction, id)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatFaction(f, c.Factions))
		default:
			return fmt.Errorf("unknown type %q (want quest or faction)", args[0])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

// formatQuest renders a quest definition for reading.
func formatQuest(q *quest.Quest) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("=== [%d] %s ===\n", q.ID, q.Name))
	if q.Description != "" {
		sb.WriteString(q.Description + "\n")
	}
	if flags := q.Flags.Names(); len(flags) > 0 {
		sb.WriteString("Flags: " + strings.Join(flags, ", ") + "\n")
	}

	levels := "any"
	switch {
	case q.MinLevel > 0 && q.MaxLevel > 0:
		levels = fmt.Sprintf("%d-%d", q.MinLevel, q.MaxLevel)
	case q.MinLevel > 0:
		levels = fmt.Sprintf("%d+", q.MinLevel)
	case q.MaxLevel > 0:
		levels = fmt.Sprintf("up to %d", q.MaxLevel)
	}
	sb.WriteString(fmt.Sprintf("Levels: %s  Repeat: %s  Version: %d\n", levels, repeatText(q.RepeatAfter), q.Version))
	if q.DailyCycle > 0 {
		sb.WriteString(fmt.Sprintf("Daily cycle: %d\n", q.DailyCycle))
	}

	writeGivers(&sb, "Starts at", q.StartsAt)
	writeGivers(&sb, "Ends at", q.EndsAt)
	writeRequirements(&sb, "Prerequisites", q.Prereqs)
	writeRequirements(&sb, "Tasks", q.Tasks)

	if len(q.Rewards) > 0 {
		sb.WriteString("Rewards:\n")
		for _, r := range q.Rewards {
			if r.Vnum != 0 {
				sb.WriteString(fmt.Sprintf("  - %s %d x%d\n", r.Kind, r.Vnum, r.Amount))
			} else {
				sb.WriteString(fmt.Sprintf("  - %s x%d\n", r.Kind, r.Amount))
			}
		}
	}
	return sb.String()
}

func repeatText(minutes int) string {
	switch minutes {
	case quest.RepeatNever:
		return "never"
	case quest.RepeatImmediately:
		return "immediately"
	}
	return fmt.Sprintf("after %dm", minutes)
}

func writeGivers(sb *strings.Builder, label string, givers []quest.Giver) {
	if len(givers) == 0 {
		return
	}
	parts := make([]string, len(givers))
	for i, g := range givers {
		parts[i] = fmt.Sprintf("%s %d", g.Kind, g.Vnum)
	}
	sb.WriteString(label + ": " + strings.Join(parts, ", ") + "\n")
}

func writeRequirements(sb *strings.Builder, label string, list requirement.List) {
	if len(list) == 0 {
		return
	}
	sb.WriteString(label + ":\n")
	for _, r := range list {
		line := fmt.Sprintf("  - %s %d", r.Kind, r.Vnum)
		if r.Needed > 1 {
			line += fmt.Sprintf(" x%d", r.Needed)
		}
		if r.Group != 0 {
			line += fmt.Sprintf(" (or-group %d)", r.Group)
		}
		sb.WriteString(line + "\n")
	}
}

// formatFaction renders a faction definition with rung names resolved.
func formatFaction(f *faction.Faction, reg *faction.Registry) string {
	ladder := reg.Ladder()
	rungName := func(id int) string {
		if r, ok := ladder.Get(id); ok {
			return r.Name
		}
		return fmt.Sprintf("rung %d", id)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("=== [%d] %s ===\n", f.ID, f.Name))
	if f.Description != "" {
		sb.WriteString(f.Description + "\n")
	}
	if flags := f.Flags.FlagNames(); len(flags) > 0 {
		sb.WriteString("Flags: " + strings.Join(flags, ", ") + "\n")
	}
	sb.WriteString(fmt.Sprintf("Range: %s to %s, starting at %s\n",
		rungName(f.MinRung), rungName(f.MaxRung), rungName(f.StartRung)))

	if len(f.Relations) > 0 {
		ids := make([]int, 0, len(f.Relations))
		for id := range f.Relations {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		sb.WriteString("Relations:\n")
		for _, id := range ids {
			name := "(missing)"
			if other, ok := reg.Get(id); ok {
				name = other.Name
			}
			sb.WriteString(fmt.Sprintf("  - %d %s: %s\n", id, name, strings.Join(f.Relations[id].FlagNames(), ", ")))
		}
	}
	return sb.String()
}
