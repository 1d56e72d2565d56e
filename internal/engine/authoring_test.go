package engine

import (
	"errors"
	"testing"

	"github.com/lawnchairsociety/questcore/internal/content"
	"github.com/lawnchairsociety/questcore/internal/progress"
	"github.com/lawnchairsociety/questcore/internal/quest"
	"github.com/lawnchairsociety/questcore/internal/requirement"
)

// fakeSource is an external content table, such as a shop list.
type fakeSource struct {
	veto    error
	refs    []Location
	applied []Target
}

func (s *fakeSource) Name() string { return "shops" }
func (s *fakeSource) References(t Target) []Location {
	return s.refs
}
func (s *fakeSource) CheckDelete(t Target) error { return s.veto }
func (s *fakeSource) ApplyDelete(t Target)       { s.applied = append(s.applied, t) }

// referenceFixture holds quest 100, a follow-up quest 101 that refers to it
// in every way, an unrelated quest 102 and a goal on quest 100.
func referenceFixture(t *testing.T) *testEnv {
	t.Helper()
	env := newTestEnv(t)
	env.addQuest(fetchQuest())
	env.addQuest(&quest.Quest{
		ID:          101,
		Name:        "Follow-up",
		Version:     2,
		RepeatAfter: quest.RepeatNever,
		StartsAt:    []quest.Giver{{Kind: quest.GiverQuest, Vnum: 100}, {Kind: quest.GiverMobile, Vnum: 3001}},
		Prereqs:     requirement.List{{Kind: requirement.KindCompletedQuest, Vnum: 100, Needed: 1}},
		Tasks:       getObject(502, 1),
		Rewards: []quest.Reward{
			{Kind: quest.RewardQuestChain, Vnum: 100},
			{Kind: quest.RewardReputation, Vnum: 1, Amount: 10},
		},
	})
	env.addQuest(&quest.Quest{ID: 102, Name: "Unrelated", RepeatAfter: quest.RepeatNever, Tasks: getObject(503, 1)})
	env.e.content.Goals.Add(&progress.Goal{
		ID:    1,
		Name:  "Helpful Folk",
		Tasks: requirement.List{{Kind: requirement.KindCompletedQuest, Vnum: 100, Needed: 1}},
	})
	return env
}

func TestFindReferencesToQuest(t *testing.T) {
	env := referenceFixture(t)
	src := &fakeSource{refs: []Location{{Kind: "shop", ID: 4, Detail: "requires quest"}}}
	env.e.RegisterReferenceSource(src)

	got := env.e.FindReferencesToQuest(100)
	want := []Location{
		{Kind: "quest", ID: 101, Detail: "Follow-up"},
		{Kind: "goal", ID: 1, Detail: "Helpful Folk"},
		{Kind: "shop", ID: 4, Detail: "requires quest"},
	}
	if len(got) != len(want) {
		t.Fatalf("references = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("reference %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDeleteQuest(t *testing.T) {
	env := referenceFixture(t)
	mob := env.world.spawn(quest.GiverMobile, 3001)
	env.e.content.Index.BuildAll(env.e.content.Quests)
	src := &fakeSource{}
	env.e.RegisterReferenceSource(src)

	ch := newFakeChar(1)
	env.online(ch)
	q, _ := env.e.content.Quests.Get(100)
	env.e.StartQuest(ch, q, 0)
	ch.log.SetCompletion(100, &quest.Completion{QuestID: 100, LastCompleted: testStart})

	if err := env.e.DeleteQuest(100); err != nil {
		t.Fatalf("DeleteQuest returned error: %v", err)
	}

	if _, ok := env.e.content.Quests.Get(100); ok {
		t.Error("quest still in the catalog")
	}
	if mob.lookups.Has(100, quest.Starts) || mob.lookups.Has(100, quest.Ends) {
		t.Error("live mob still lists the deleted quest")
	}
	if !mob.lookups.Has(101, quest.Starts) {
		t.Error("live mob lost the edited quest")
	}
	if got := env.e.content.Index.Lookups(quest.GiverRef{Kind: quest.GiverQuest, Vnum: 100}); len(got) != 0 {
		t.Errorf("chain lookups = %v, want none", got)
	}

	follow, _ := env.e.content.Quests.Get(101)
	if !follow.InDevelopment() || follow.Version != 3 {
		t.Errorf("edited quest flags = %v version = %d, want in development at version 3", follow.Flags.Names(), follow.Version)
	}
	if len(follow.StartsAt) != 1 || len(follow.Prereqs) != 0 || len(follow.Rewards) != 1 {
		t.Errorf("references not stripped: %+v", follow)
	}
	if other, _ := env.e.content.Quests.Get(102); other.InDevelopment() {
		t.Error("unrelated quest was quarantined")
	}
	if g, _ := env.e.content.Goals.Get(1); !g.InDevelopment() || len(g.Tasks) != 0 {
		t.Errorf("goal = %+v, want quarantined with the task removed", g)
	}

	if ch.log.IsOnQuest(100) || ch.log.HasCompleted(100) {
		t.Error("player state for the deleted quest should be gone")
	}
	if len(src.applied) != 1 || src.applied[0] != (Target{Kind: TargetQuest, ID: 100}) {
		t.Errorf("source applied = %v", src.applied)
	}
}

func TestDeleteQuestVeto(t *testing.T) {
	env := referenceFixture(t)
	src := &fakeSource{veto: errors.New("sold in shop 4")}
	env.e.RegisterReferenceSource(src)

	err := env.e.DeleteQuest(100)
	if !errors.Is(err, ErrDeletionRejected) {
		t.Fatalf("error = %v, want ErrDeletionRejected", err)
	}
	if _, ok := env.e.content.Quests.Get(100); !ok {
		t.Error("vetoed quest was removed")
	}
	if follow, _ := env.e.content.Quests.Get(101); follow.InDevelopment() || len(follow.Prereqs) != 1 {
		t.Error("vetoed deletion edited other quests")
	}
	if len(src.applied) != 0 {
		t.Error("ApplyDelete ran after a veto")
	}

	if err := env.e.DeleteQuest(999); !errors.Is(err, ErrUnknownQuest) {
		t.Errorf("unknown quest error = %v", err)
	}
}

func TestDeleteQuestRotatesDailyCycle(t *testing.T) {
	env := newTestEnv(t)
	env.addQuest(&quest.Quest{ID: 600, Name: "Daily A", Flags: quest.FlagDaily, DailyCycle: 1})
	if err := env.e.SetupDailyCycles(); err != nil {
		t.Fatalf("SetupDailyCycles returned error: %v", err)
	}
	if id, _ := env.e.content.Dailies.Active(1); id != 600 {
		t.Fatalf("active = %d, want 600", id)
	}
	env.addQuest(&quest.Quest{ID: 601, Name: "Daily B", Flags: quest.FlagDaily, DailyCycle: 1})

	if err := env.e.DeleteQuest(600); err != nil {
		t.Fatalf("DeleteQuest returned error: %v", err)
	}
	if id, ok := env.e.content.Dailies.Active(1); !ok || id != 601 {
		t.Errorf("active = %d, %v, want 601", id, ok)
	}
}

func TestDeleteFaction(t *testing.T) {
	env := referenceFixture(t)
	ch := newFakeChar(1)
	env.online(ch)
	env.e.GainReputation(ch, 1, 10, false)

	if refs := env.e.FindReferencesToFaction(1); len(refs) != 2 {
		t.Errorf("references = %v, want quest 101 and faction 2", refs)
	}

	if err := env.e.DeleteFaction(1); err != nil {
		t.Fatalf("DeleteFaction returned error: %v", err)
	}
	if _, ok := env.e.content.Factions.Get(1); ok {
		t.Error("faction still registered")
	}
	if f, _ := env.e.content.Factions.Get(2); len(f.Relations) != 0 {
		t.Errorf("faction 2 relations = %v, want none", f.Relations)
	}
	follow, _ := env.e.content.Quests.Get(101)
	if !follow.InDevelopment() {
		t.Error("quest rewarding the faction should be quarantined")
	}
	for _, r := range follow.Rewards {
		if r.Kind == quest.RewardReputation {
			t.Error("reputation reward not stripped")
		}
	}
	if ch.standings.Get(1) != nil {
		t.Error("player standing with the deleted faction remains")
	}
	if ch.standings.Get(2) == nil {
		t.Error("standing with the other faction should survive")
	}

	if err := env.e.DeleteFaction(1); !errors.Is(err, ErrUnknownFaction) {
		t.Errorf("second delete error = %v, want ErrUnknownFaction", err)
	}
}

func TestRefreshAllQuests(t *testing.T) {
	env := newTestEnv(t)
	ch := newFakeChar(1)
	ch.objects[501] = 2

	migrating := env.addQuest(fetchQuest())
	env.e.StartQuest(ch, migrating, 0)
	expiring := env.addQuest(&quest.Quest{ID: 110, Name: "Delve", Flags: quest.FlagExpiresAfterInstance, Tasks: getObject(504, 1)})
	env.world.instances[9] = 77
	env.e.StartQuest(ch, expiring, 9)
	hidden := env.addQuest(&quest.Quest{ID: 111, Name: "Secret", Tasks: getObject(505, 1)})
	env.e.StartQuest(ch, hidden, 0)
	ch.log.Trackers[112] = &quest.Tracker{QuestID: 112}
	ch.log.SetCompletion(113, &quest.Completion{QuestID: 113})

	if tr, _ := ch.log.Tracker(110); tr.AdventureID != 77 {
		t.Errorf("AdventureID = %d, want 77", tr.AdventureID)
	}

	edited := migrating.Clone()
	edited.Version = migrating.Version + 1
	edited.Tasks = requirement.List{
		{Kind: requirement.KindKillMob, Vnum: 3002, Needed: 1, Group: 1},
		{Kind: requirement.KindGetObject, Vnum: 501, Needed: 2, Group: 1},
	}
	env.e.content.Quests.Add(edited)
	hidden.Flags |= quest.FlagInDevelopment
	delete(env.world.instances, 9)

	env.e.RefreshAllQuests(ch)

	tr, ok := ch.log.Tracker(100)
	if !ok {
		t.Fatal("migrated tracker was dropped")
	}
	if tr.Version != edited.Version {
		t.Errorf("Version = %d, want %d", tr.Version, edited.Version)
	}
	if tr.Tasks[0].Current != 0 || tr.Tasks[1].Current != 2 {
		t.Errorf("tasks = %+v, want kill 0 and object 2", tr.Tasks)
	}
	if tr.IsComplete() {
		t.Error("new kill task should leave the tracker incomplete")
	}
	for _, id := range []int{110, 111, 112} {
		if ch.log.IsOnQuest(id) {
			t.Errorf("tracker %d should be dropped", id)
		}
	}
	if ch.log.HasCompleted(113) {
		t.Error("completion for a missing quest should be pruned")
	}
}

func TestQuarantineBroken(t *testing.T) {
	env := newTestEnv(t)
	env.world.spawn(quest.GiverMobile, 3001)
	env.world.spawn(quest.GiverObject, 501)
	broken := env.addQuest(&quest.Quest{ID: 120, Name: "Broken", Description: "x", MinLevel: 30, MaxLevel: 10})
	ok := env.addQuest(fetchQuest())

	problems := env.e.QuarantineBroken()
	if !content.HasFatal(problems) {
		t.Fatalf("problems = %v, want a fatal one", problems)
	}
	if !broken.InDevelopment() {
		t.Error("broken quest should be quarantined")
	}
	if ok.InDevelopment() {
		t.Error("sound quest should stay live")
	}
}

func TestNotifyFactionChanged(t *testing.T) {
	env := newTestEnv(t)
	ch := newFakeChar(1)
	env.online(ch)
	env.e.GainReputation(ch, 1, 60, false)

	f, _ := env.e.content.Factions.Get(1)
	tighter := f.Clone()
	tighter.MaxRung = 6
	env.e.NotifyFactionChanged(tighter)

	st := ch.standings.Get(1)
	if st.Rung != 6 || st.Value != 25 {
		t.Errorf("standing = %+v, want Liked at 25", st)
	}
}

func TestNotifyGoalChanged(t *testing.T) {
	env := newTestEnv(t)
	emp := newFakeEmpire(7)
	ch := newFakeChar(1)
	ch.empire = emp
	env.online(ch)

	g := &progress.Goal{ID: 2, Name: "Builders", Tasks: requirement.List{{Kind: requirement.KindOwnBuilding, Vnum: 5100, Needed: 1}}}
	env.e.NotifyGoalChanged(g)
	if !emp.progress.IsTracking(2) {
		t.Error("new goal should start for online empires")
	}

	edited := g.Clone()
	env.e.NotifyGoalChanged(edited)
	if edited.Version != g.Version+1 {
		t.Errorf("Version = %d, want %d", edited.Version, g.Version+1)
	}
}
