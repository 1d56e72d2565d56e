package main

import (
	"fmt"
	"io"

	"github.com/lawnchairsociety/questcore/internal/content"
	"github.com/spf13/cobra"
)

var auditFatalOnly bool

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "audit every quest, faction and empire goal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEngine(cmd.Context(), engineConfig)
		if err != nil {
			return err
		}
		problems := e.AuditAll()
		writeProblems(cmd.OutOrStdout(), problems, auditFatalOnly)
		if content.HasFatal(problems) {
			return fmt.Errorf("content has fatal problems")
		}
		return nil
	},
}

func init() {
	auditCmd.Flags().BoolVar(&auditFatalOnly, "fatal-only", false, "Only list problems that quarantine content")
	rootCmd.AddCommand(auditCmd)
}

// writeProblems lists problems one per line, fatal ones marked, followed
// by a summary line.
func writeProblems(w io.Writer, problems []content.Problem, fatalOnly bool) {
	fatal := 0
	for _, p := range problems {
		tag := "warn "
		if p.Fatal() {
			tag = "FATAL"
			fatal++
		} else if fatalOnly {
			continue
		}
		fmt.Fprintf(w, "[%s] %s: %s\n", tag, p.Subject, p.Message)
	}
	fmt.Fprintf(w, "%d problems, %d fatal\n", len(problems), fatal)
}
