package progress

import (
	"fmt"

	"github.com/lawnchairsociety/questcore/internal/content"
	"github.com/lawnchairsociety/questcore/internal/requirement"
)

// AuditContext answers existence questions for the goal audit.
type AuditContext interface {
	QuestExists(id int) bool
}

// allowedTask reports whether an empire can make progress on kind.
func allowedTask(kind requirement.Kind) bool {
	switch kind {
	case requirement.KindCompletedQuest, requirement.KindGetCoins,
		requirement.KindEventRunning, requirement.KindEventNotRunning:
		return true
	}
	return kind.EmpireScoped()
}

// Audit reports content problems with a goal.
func (c *Catalog) Audit(g *Goal, ctx AuditContext) []content.Problem {
	subject := fmt.Sprintf("goal %d", g.ID)
	var problems []content.Problem

	if g.Name == "" {
		problems = append(problems, content.Warn(subject, "no name set"))
	}
	if g.Purchasable() && g.Cost <= 0 {
		problems = append(problems, content.Warn(subject, "purchasable goal has no cost"))
	}
	if !g.Purchasable() && len(g.Tasks) == 0 {
		problems = append(problems, content.Fatalf(subject, "no tasks"))
	}
	for _, id := range g.Prereqs {
		if id == g.ID {
			problems = append(problems, content.Fatalf(subject, "requires itself"))
		} else if _, ok := c.Get(id); !ok {
			problems = append(problems, content.Missing(subject, "prerequisite goal %d does not exist", id))
		}
	}

	problems = append(problems, g.Tasks.Audit(subject, requirement.RoleTasks)...)
	for i, r := range g.Tasks {
		where := fmt.Sprintf("task #%d (%s %d)", i+1, r.Kind, r.Vnum)
		if !allowedTask(r.Kind) {
			problems = append(problems, content.Fatalf(subject, "%s: empires cannot make progress on this type", where))
			continue
		}
		if r.Kind == requirement.KindCompletedQuest && ctx != nil && !ctx.QuestExists(r.Vnum) {
			problems = append(problems, content.Missing(subject, "%s: quest does not exist", where))
		}
	}
	return problems
}
