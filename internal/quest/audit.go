package quest

import (
	"fmt"

	"github.com/lawnchairsociety/questcore/internal/content"
	"github.com/lawnchairsociety/questcore/internal/requirement"
)

// AuditContext answers existence questions for the audit.
type AuditContext interface {
	QuestExists(id int) bool
	FactionExists(id int) bool
	PrototypeExists(kind GiverKind, vnum int) bool
}

// RequirementTarget returns the kind of thing a requirement's Vnum names:
// a prototype kind, a quest (GiverQuest), or false for anything else.
// Reputation kinds name factions and are handled separately.
func RequirementTarget(kind requirement.Kind) (GiverKind, bool) {
	switch kind {
	case requirement.KindCompletedQuest, requirement.KindNotCompletedQuest, requirement.KindNotOnQuest:
		return GiverQuest, true
	case requirement.KindGetObject, requirement.KindWearing, requirement.KindWearingOrHas,
		requirement.KindEmpireProducedObject:
		return GiverObject, true
	case requirement.KindKillMob:
		return GiverMobile, true
	case requirement.KindOwnBuilding, requirement.KindVisitBuilding:
		return GiverBuilding, true
	case requirement.KindOwnVehicle:
		return GiverVehicle, true
	case requirement.KindVisitRoomTemplate:
		return GiverRoomTemplate, true
	}
	return 0, false
}

// IsReputationKind reports whether a requirement's Vnum is a faction id.
func IsReputationKind(kind requirement.Kind) bool {
	return kind.Amount() == requirement.AmountReputation
}

// Audit reports content problems with a quest.
func Audit(q *Quest, ctx AuditContext) []content.Problem {
	subject := fmt.Sprintf("quest %d", q.ID)
	var problems []content.Problem

	if q.Name == "" {
		problems = append(problems, content.Warn(subject, "no name set"))
	}
	if q.Description == "" {
		problems = append(problems, content.Warn(subject, "no description set"))
	}
	if q.MaxLevel > 0 && q.MinLevel > q.MaxLevel {
		problems = append(problems, content.Fatalf(subject, "min level %d is above max level %d", q.MinLevel, q.MaxLevel))
	}
	if q.RepeatAfter < RepeatNever {
		problems = append(problems, content.Fatalf(subject, "invalid repeat interval %d", q.RepeatAfter))
	}
	if q.DailyCycle != 0 && !q.IsDaily() {
		problems = append(problems, content.Warn(subject, "daily cycle %d set but quest is not daily", q.DailyCycle))
	}
	if _, ok := q.Event(); q.Flags.Has(FlagEvent) && !ok {
		problems = append(problems, content.Warn(subject, "event quest has no event-points reward"))
	}

	if len(q.StartsAt) == 0 {
		problems = append(problems, content.Fatalf(subject, "no starting givers"))
	}
	if len(q.EndsAt) == 0 {
		problems = append(problems, content.Fatalf(subject, "no ending givers"))
	}
	problems = append(problems, auditGivers(subject, q, Starts, q.StartsAt, ctx)...)
	problems = append(problems, auditGivers(subject, q, Ends, q.EndsAt, ctx)...)

	if len(q.Tasks) == 0 {
		problems = append(problems, content.Warn(subject, "no tasks"))
	}
	problems = append(problems, q.Prereqs.Audit(subject, requirement.RolePrereqs)...)
	problems = append(problems, q.Tasks.Audit(subject, requirement.RoleTasks)...)
	problems = append(problems, auditTargets(subject, "prereq", q.Prereqs, ctx)...)
	problems = append(problems, auditTargets(subject, "task", q.Tasks, ctx)...)

	for i, r := range q.Rewards {
		where := fmt.Sprintf("reward #%d (%s %d)", i+1, r.Kind, r.Vnum)
		switch r.Kind {
		case RewardObject:
			if !ctx.PrototypeExists(GiverObject, r.Vnum) {
				problems = append(problems, content.Missing(subject, "%s: object does not exist", where))
			}
		case RewardQuestChain:
			if r.Vnum == q.ID {
				problems = append(problems, content.Fatalf(subject, "%s: quest chains to itself", where))
			} else if !ctx.QuestExists(r.Vnum) {
				problems = append(problems, content.Missing(subject, "%s: quest does not exist", where))
			}
		case RewardReputation:
			if !ctx.FactionExists(r.Vnum) {
				problems = append(problems, content.Missing(subject, "%s: faction does not exist", where))
			}
		}
		if r.Amount == 0 && r.Kind != RewardQuestChain {
			problems = append(problems, content.Warn(subject, "%s: amount is zero", where))
		}
	}

	return problems
}

func auditGivers(subject string, q *Quest, dir Direction, givers []Giver, ctx AuditContext) []content.Problem {
	var problems []content.Problem
	for _, g := range givers {
		switch {
		case g.Kind == GiverQuest:
			if g.Vnum == q.ID {
				problems = append(problems, content.Fatalf(subject, "%s at itself", dir))
			} else if !ctx.QuestExists(g.Vnum) {
				problems = append(problems, content.Missing(subject, "%s at missing quest %d", dir, g.Vnum))
			}
		case g.Kind.HasPrototype():
			if !ctx.PrototypeExists(g.Kind, g.Vnum) {
				problems = append(problems, content.Missing(subject, "%s at missing %s %d", dir, g.Kind, g.Vnum))
			}
		}
	}
	return problems
}

func auditTargets(subject, role string, list requirement.List, ctx AuditContext) []content.Problem {
	var problems []content.Problem
	for i, r := range list {
		where := fmt.Sprintf("%s #%d (%s %d)", role, i+1, r.Kind, r.Vnum)
		if IsReputationKind(r.Kind) {
			if !ctx.FactionExists(r.Vnum) {
				problems = append(problems, content.Missing(subject, "%s: faction does not exist", where))
			}
			continue
		}
		kind, ok := RequirementTarget(r.Kind)
		if !ok {
			continue
		}
		if kind == GiverQuest {
			if !ctx.QuestExists(r.Vnum) {
				problems = append(problems, content.Missing(subject, "%s: quest does not exist", where))
			}
			continue
		}
		if !ctx.PrototypeExists(kind, r.Vnum) {
			problems = append(problems, content.Missing(subject, "%s: %s does not exist", where, kind))
		}
	}
	return problems
}
