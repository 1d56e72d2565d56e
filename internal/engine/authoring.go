package engine

import (
	"fmt"

	"github.com/lawnchairsociety/questcore/internal/content"
	"github.com/lawnchairsociety/questcore/internal/faction"
	"github.com/lawnchairsociety/questcore/internal/logger"
	"github.com/lawnchairsociety/questcore/internal/progress"
	"github.com/lawnchairsociety/questcore/internal/quest"
	"github.com/lawnchairsociety/questcore/internal/requirement"
)

// TargetKind says what a Target names.
type TargetKind int

const (
	TargetQuest TargetKind = iota + 1
	TargetFaction
)

// Target is a quest or faction being searched for or deleted.
type Target struct {
	Kind TargetKind
	ID   int
}

func (t Target) String() string {
	if t.Kind == TargetFaction {
		return fmt.Sprintf("faction %d", t.ID)
	}
	return fmt.Sprintf("quest %d", t.ID)
}

// Location is one place that refers to a target.
type Location struct {
	Kind   string // quest, goal, faction, or an external source name
	ID     int
	Detail string
}

func (l Location) String() string {
	return fmt.Sprintf("%s %d: %s", l.Kind, l.ID, l.Detail)
}

// ReferenceSource is content outside the engine that can refer to quests
// and factions, such as shops or socials.
type ReferenceSource interface {
	Name() string
	References(t Target) []Location
	// CheckDelete returns an error to veto deleting t.
	CheckDelete(t Target) error
	// ApplyDelete removes references to t. It runs only after every
	// source accepted the deletion.
	ApplyDelete(t Target)
}

// RegisterReferenceSource adds an external source to reference searches
// and deletions.
func (e *Engine) RegisterReferenceSource(src ReferenceSource) {
	e.sources = append(e.sources, src)
}

type auditContext struct {
	e *Engine
}

func (a auditContext) QuestExists(id int) bool {
	_, ok := a.e.content.Quests.Get(id)
	return ok
}

func (a auditContext) FactionExists(id int) bool {
	_, ok := a.e.content.Factions.Get(id)
	return ok
}

func (a auditContext) PrototypeExists(kind quest.GiverKind, vnum int) bool {
	_, ok := a.e.world.ResolvePrototype(kind, vnum)
	return ok
}

// AuditQuest reports problems with one quest.
func (e *Engine) AuditQuest(q *quest.Quest) []content.Problem {
	return quest.Audit(q, auditContext{e})
}

// AuditFaction reports problems with one faction.
func (e *Engine) AuditFaction(f *faction.Faction) []content.Problem {
	return e.content.Factions.Audit(f)
}

// AuditGoal reports problems with one empire goal.
func (e *Engine) AuditGoal(g *progress.Goal) []content.Problem {
	return e.content.Goals.Audit(g, auditContext{e})
}

// AuditAll audits every quest, faction and goal.
func (e *Engine) AuditAll() []content.Problem {
	var problems []content.Problem
	for _, q := range e.content.Quests.All() {
		problems = append(problems, e.AuditQuest(q)...)
	}
	for _, f := range e.content.Factions.All() {
		problems = append(problems, e.AuditFaction(f)...)
	}
	for _, g := range e.content.Goals.All() {
		problems = append(problems, e.AuditGoal(g)...)
	}
	return problems
}

// QuarantineBroken flags every quest, faction and goal with a fatal audit
// problem as in development, so players never see it. It returns all
// problems found.
func (e *Engine) QuarantineBroken() []content.Problem {
	var all []content.Problem
	for _, q := range e.content.Quests.All() {
		p := e.AuditQuest(q)
		all = append(all, p...)
		if content.HasFatal(p) && !q.InDevelopment() {
			q.Flags |= quest.FlagInDevelopment
			logger.Always("Quarantined quest", "quest", q.ID, "problems", len(p))
		}
	}
	for _, f := range e.content.Factions.All() {
		p := e.AuditFaction(f)
		all = append(all, p...)
		if content.HasFatal(p) && !f.InDevelopment() {
			f.Flags |= faction.FlagInDevelopment
			logger.Always("Quarantined faction", "faction", f.ID, "problems", len(p))
		}
	}
	for _, g := range e.content.Goals.All() {
		p := e.AuditGoal(g)
		all = append(all, p...)
		if content.HasFatal(p) && !g.InDevelopment() {
			g.Flags |= progress.FlagInDevelopment
			logger.Always("Quarantined goal", "goal", g.ID, "problems", len(p))
		}
	}
	return all
}

// FindReferencesToQuest lists everything that refers to a quest.
func (e *Engine) FindReferencesToQuest(id int) []Location {
	var out []Location
	for _, q := range e.content.Quests.All() {
		if q.ID == id {
			continue
		}
		if _, changed := stripQuestRefs(q, id); changed {
			out = append(out, Location{Kind: "quest", ID: q.ID, Detail: q.Name})
		}
	}
	for _, g := range e.content.Goals.All() {
		if g.Tasks.Contains(requirement.KindCompletedQuest, id) {
			out = append(out, Location{Kind: "goal", ID: g.ID, Detail: g.Name})
		}
	}
	return append(out, e.sourceRefs(Target{Kind: TargetQuest, ID: id})...)
}

// FindReferencesToFaction lists everything that refers to a faction.
func (e *Engine) FindReferencesToFaction(id int) []Location {
	var out []Location
	for _, q := range e.content.Quests.All() {
		if _, changed := stripFactionRefs(q, id); changed {
			out = append(out, Location{Kind: "quest", ID: q.ID, Detail: q.Name})
		}
	}
	for _, f := range e.content.Factions.All() {
		if _, ok := f.Relations[id]; ok && f.ID != id {
			out = append(out, Location{Kind: "faction", ID: f.ID, Detail: f.Name})
		}
	}
	return append(out, e.sourceRefs(Target{Kind: TargetFaction, ID: id})...)
}

func (e *Engine) sourceRefs(t Target) []Location {
	var out []Location
	for _, src := range e.sources {
		out = append(out, src.References(t)...)
	}
	return out
}

// vetoed asks every source whether t may be deleted.
func (e *Engine) vetoed(t Target) error {
	for _, src := range e.sources {
		if err := src.CheckDelete(t); err != nil {
			return fmt.Errorf("%w: %s: %s: %v", ErrDeletionRejected, t, src.Name(), err)
		}
	}
	return nil
}

// filterReqs returns l without entries drop accepts.
func filterReqs(l requirement.List, drop func(r requirement.Requirement) bool) (requirement.List, bool) {
	out := l[:0:0]
	for _, r := range l {
		if !drop(r) {
			out = append(out, r)
		}
	}
	if len(out) == len(l) {
		return l, false
	}
	return out, true
}

func filterGivers(givers []quest.Giver, drop quest.Giver) ([]quest.Giver, bool) {
	out := givers[:0:0]
	for _, g := range givers {
		if g != drop {
			out = append(out, g)
		}
	}
	return out, len(out) != len(givers)
}

func filterRewards(rewards []quest.Reward, kind quest.RewardKind, vnum int) ([]quest.Reward, bool) {
	out := rewards[:0:0]
	for _, r := range rewards {
		if r.Kind != kind || r.Vnum != vnum {
			out = append(out, r)
		}
	}
	return out, len(out) != len(rewards)
}

// stripQuestRefs returns a copy of q without references to quest id.
func stripQuestRefs(q *quest.Quest, id int) (*quest.Quest, bool) {
	c := q.Clone()
	names := func(r requirement.Requirement) bool {
		kind, ok := quest.RequirementTarget(r.Kind)
		return ok && kind == quest.GiverQuest && r.Vnum == id
	}
	self := quest.Giver{Kind: quest.GiverQuest, Vnum: id}

	var a, b, d, f, g bool
	c.StartsAt, a = filterGivers(c.StartsAt, self)
	c.EndsAt, b = filterGivers(c.EndsAt, self)
	c.Prereqs, d = filterReqs(c.Prereqs, names)
	c.Tasks, f = filterReqs(c.Tasks, names)
	c.Rewards, g = filterRewards(c.Rewards, quest.RewardQuestChain, id)
	return c, a || b || d || f || g
}

// stripFactionRefs returns a copy of q without references to faction id.
func stripFactionRefs(q *quest.Quest, id int) (*quest.Quest, bool) {
	c := q.Clone()
	names := func(r requirement.Requirement) bool {
		return quest.IsReputationKind(r.Kind) && r.Vnum == id
	}
	var a, b, d bool
	c.Prereqs, a = filterReqs(c.Prereqs, names)
	c.Tasks, b = filterReqs(c.Tasks, names)
	c.Rewards, d = filterRewards(c.Rewards, quest.RewardReputation, id)
	return c, a || b || d
}

// replaceQuest swaps in an edited quest and reindexes it.
func (e *Engine) replaceQuest(next *quest.Quest) {
	e.content.Index.RemoveQuest(next.ID)
	e.content.Quests.Add(next)
	e.content.Index.Rebuild(next, true)
}

// quarantine marks an edited quest as in development with a new version.
func quarantine(q *quest.Quest) {
	q.Flags |= quest.FlagInDevelopment
	q.Version++
}

// DeleteQuest removes a quest and every reference to it. External sources
// may veto; nothing changes unless all accept. Quests that referred to it
// are edited and quarantined, live trackers are dropped, and the lookup
// index and daily rotation are updated.
func (e *Engine) DeleteQuest(id int) error {
	q, ok := e.content.Quests.Get(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownQuest, id)
	}
	t := Target{Kind: TargetQuest, ID: id}
	if err := e.vetoed(t); err != nil {
		return err
	}

	var quests []*quest.Quest
	for _, other := range e.content.Quests.All() {
		if other.ID == id {
			continue
		}
		if next, changed := stripQuestRefs(other, id); changed {
			quarantine(next)
			quests = append(quests, next)
		}
	}
	var goals []*progress.Goal
	for _, g := range e.content.Goals.All() {
		if !g.Tasks.Contains(requirement.KindCompletedQuest, id) {
			continue
		}
		next := g.Clone()
		next.Tasks, _ = next.Tasks.Remove(requirement.KindCompletedQuest, id)
		next.Flags |= progress.FlagInDevelopment
		next.Version++
		goals = append(goals, next)
	}

	for _, src := range e.sources {
		src.ApplyDelete(t)
	}
	for _, next := range quests {
		e.replaceQuest(next)
	}
	for _, g := range goals {
		e.content.Goals.Add(g)
	}
	e.content.Index.RemoveQuest(id)
	e.content.Quests.Remove(id)

	if cur, ok := e.content.Dailies.Active(q.DailyCycle); ok && cur == id {
		if err := e.RotateDailyCycles(q.DailyCycle); err != nil {
			e.log.Error("Daily cycle rotation after quest deletion failed", "cycle", q.DailyCycle, "error", err)
		}
	}

	empires := make(map[int]Empire)
	for _, ch := range e.online() {
		if !isPlayer(ch) {
			continue
		}
		if _, err := ch.QuestLog().Drop(id); err == nil {
			ch.SendMessage(fmt.Sprintf("Your quest '%s' has been removed.", q.Name))
		}
		e.RefreshAllQuests(ch)
		if emp := ch.Empire(); emp != nil {
			empires[emp.ID()] = emp
		}
	}
	for _, emp := range empires {
		e.goals.Verify(emp)
	}

	logger.Always("Deleted quest", "quest", id, "name", q.Name, "edited_quests", len(quests), "edited_goals", len(goals))
	return nil
}

// DeleteFaction removes a faction and every reference to it. Quests that
// referred to it are edited and quarantined; other factions lose their
// relation to it; online players lose their standing with it.
func (e *Engine) DeleteFaction(id int) error {
	f, ok := e.content.Factions.Get(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownFaction, id)
	}
	t := Target{Kind: TargetFaction, ID: id}
	if err := e.vetoed(t); err != nil {
		return err
	}

	var quests []*quest.Quest
	for _, q := range e.content.Quests.All() {
		if next, changed := stripFactionRefs(q, id); changed {
			quarantine(next)
			quests = append(quests, next)
		}
	}
	var factions []*faction.Faction
	for _, other := range e.content.Factions.All() {
		if _, ok := other.Relations[id]; !ok || other.ID == id {
			continue
		}
		next := other.Clone()
		delete(next.Relations, id)
		factions = append(factions, next)
	}

	for _, src := range e.sources {
		src.ApplyDelete(t)
	}
	for _, next := range quests {
		e.replaceQuest(next)
	}
	for _, next := range factions {
		e.content.Factions.Add(next)
	}
	e.content.Factions.Remove(id)

	for _, ch := range e.online() {
		if !isPlayer(ch) || ch.Standings() == nil {
			continue
		}
		if ch.Standings().Remove(id) {
			e.ReputationChanged(ch, id)
		}
		e.RefreshAllQuests(ch)
	}

	logger.Always("Deleted faction", "faction", id, "name", f.Name, "edited_quests", len(quests), "edited_factions", len(factions))
	return nil
}

// NotifyQuestChanged installs an edited quest: the lookup index is rebuilt
// for it, its version moves past the previous one so live trackers
// migrate, and online trackers refresh.
func (e *Engine) NotifyQuestChanged(q *quest.Quest) {
	old, existed := e.content.Quests.Get(q.ID)
	if existed {
		if old == q || q.Version <= old.Version {
			q.Version = old.Version + 1
		}
	}
	e.replaceQuest(q)

	if q.IsDaily() || (existed && old.IsDaily()) {
		if err := e.SetupDailyCycles(); err != nil {
			e.log.Error("Daily cycle setup after quest edit failed", "quest", q.ID, "error", err)
		}
	}
	for _, ch := range e.online() {
		if isPlayer(ch) && ch.QuestLog().IsOnQuest(q.ID) {
			e.RefreshAllQuests(ch)
		}
	}
}

// NotifyFactionChanged installs an edited faction and re-clamps online
// players' standings to its bounds.
func (e *Engine) NotifyFactionChanged(f *faction.Faction) {
	e.content.Factions.Add(f)
	for _, ch := range e.online() {
		if !isPlayer(ch) {
			continue
		}
		for _, id := range e.content.Factions.UpdateReputations(ch) {
			e.ReputationChanged(ch, id)
		}
	}
}

// NotifyGoalChanged installs an edited goal and revalidates the goals of
// online players' empires.
func (e *Engine) NotifyGoalChanged(g *progress.Goal) {
	if old, ok := e.content.Goals.Get(g.ID); ok && (old == g || g.Version <= old.Version) {
		g.Version = old.Version + 1
	}
	e.content.Goals.Add(g)

	seen := make(map[int]bool)
	for _, ch := range e.online() {
		if !isPlayer(ch) {
			continue
		}
		if emp := ch.Empire(); emp != nil && !seen[emp.ID()] {
			seen[emp.ID()] = true
			e.UpdateEmpireGoals(emp)
		}
	}
}
