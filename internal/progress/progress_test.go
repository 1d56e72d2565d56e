package progress

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lawnchairsociety/questcore/internal/requirement"
)

type fakeEmpire struct {
	progress  *EmpireProgress
	buildings map[int]int
	sectors   map[int]int
	wealth    int
	cities    int
	produced  map[int]int
	quests    map[int]bool
	events    map[int]bool
	points    int
	logs      []string
}

func newFakeEmpire() *fakeEmpire {
	return &fakeEmpire{
		progress:  NewEmpireProgress(),
		buildings: make(map[int]int),
		sectors:   make(map[int]int),
		produced:  make(map[int]int),
		quests:    make(map[int]bool),
		events:    make(map[int]bool),
	}
}

func (e *fakeEmpire) CountBuildings(vnum int) int              { return e.buildings[vnum] }
func (e *fakeEmpire) CountBuildingsWithFunction(flags int) int { return 0 }
func (e *fakeEmpire) CountVehicles(vnum int) int               { return 0 }
func (e *fakeEmpire) CountVehiclesFlagged(flags int) int       { return 0 }
func (e *fakeEmpire) CountHomes() int                          { return 0 }
func (e *fakeEmpire) CountSector(vnum int) int                 { return e.sectors[vnum] }
func (e *fakeEmpire) CropVariety() int                         { return 0 }
func (e *fakeEmpire) Wealth() int                              { return e.wealth }
func (e *fakeEmpire) Fame() int                                { return 0 }
func (e *fakeEmpire) Military() int                            { return 0 }
func (e *fakeEmpire) Greatness() int                           { return 0 }
func (e *fakeEmpire) Diplomacy(flags int) int                  { return 0 }
func (e *fakeEmpire) Cities() int                              { return e.cities }
func (e *fakeEmpire) Produced(vnum int) int                    { return e.produced[vnum] }
func (e *fakeEmpire) ProducedComponent(vnum, flags int) int    { return 0 }

func (e *fakeEmpire) Progress() *EmpireProgress        { return e.progress }
func (e *fakeEmpire) MemberCompletedQuest(id int) bool { return e.quests[id] }
func (e *fakeEmpire) EventRunning(event int) bool      { return e.events[event] }
func (e *fakeEmpire) AddProgressPoints(points int)     { e.points += points }
func (e *fakeEmpire) SendLog(message string)           { e.logs = append(e.logs, message) }
func (e *fakeEmpire) SpendProgressPoints(points int) bool {
	if e.points < points {
		return false
	}
	e.points -= points
	return true
}

func newTestGoals() *Catalog {
	c := NewCatalog()
	c.Add(&Goal{ID: 1, Name: "Town Hall", Points: 5, Tasks: requirement.List{
		{Kind: requirement.KindOwnBuilding, Vnum: 5100, Needed: 2},
	}})
	c.Add(&Goal{ID: 2, Name: "Growing Treasury", Prereqs: []int{1}, Points: 3, Tasks: requirement.List{
		{Kind: requirement.KindEmpireWealth, Needed: 1000},
	}})
	c.Add(&Goal{ID: 3, Name: "Hidden", Flags: FlagInDevelopment, Tasks: requirement.List{
		{Kind: requirement.KindHaveCity, Needed: 1},
	}})
	c.Add(&Goal{ID: 4, Name: "Charter", Flags: FlagPurchasable, Cost: 4})
	return c
}

func TestCheckEligibleGoals(t *testing.T) {
	tr := NewTracker(newTestGoals())
	e := newFakeEmpire()

	started := tr.CheckEligibleGoals(e)
	if len(started) != 1 || started[0] != 1 {
		t.Errorf("CheckEligibleGoals() = %v, want [1]", started)
	}
	if e.progress.IsTracking(2) || e.progress.IsTracking(3) || e.progress.IsTracking(4) {
		t.Error("goals with unmet prereqs, in development, or purchasable must not start")
	}
	if again := tr.CheckEligibleGoals(e); len(again) != 0 {
		t.Errorf("second CheckEligibleGoals() = %v, want none", again)
	}
}

func TestStartGoalErrors(t *testing.T) {
	goals := newTestGoals()
	tr := NewTracker(goals)
	e := newFakeEmpire()

	g1, _ := goals.Get(1)
	if _, err := tr.StartGoal(e, g1); err != nil {
		t.Fatalf("StartGoal returned error: %v", err)
	}
	if _, err := tr.StartGoal(e, g1); !errors.Is(err, ErrAlreadyTracking) {
		t.Errorf("duplicate StartGoal error = %v", err)
	}
	g2, _ := goals.Get(2)
	if _, err := tr.StartGoal(e, g2); !errors.Is(err, ErrGoalUnavailable) {
		t.Errorf("StartGoal with unmet prereq error = %v", err)
	}
}

func TestBuildingHooksAndCompletion(t *testing.T) {
	tr := NewTracker(newTestGoals())
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return now }
	e := newFakeEmpire()
	tr.CheckEligibleGoals(e)

	e.buildings[5100] = 1
	if !tr.BuildingGained(e, 5100) {
		t.Fatal("BuildingGained should change the tracker")
	}
	if done := tr.CompleteReadyGoals(e); len(done) != 0 {
		t.Fatalf("goal completed early: %v", done)
	}

	// Unrelated buildings do nothing.
	if tr.BuildingGained(e, 5200) {
		t.Error("BuildingGained for another vnum changed the tracker")
	}

	e.buildings[5100] = 2
	tr.BuildingGained(e, 5100)
	done := tr.CompleteReadyGoals(e)
	if len(done) != 1 || done[0] != 1 {
		t.Fatalf("CompleteReadyGoals() = %v, want [1]", done)
	}
	if !e.progress.Completed[1].Equal(now) || e.points != 5 || len(e.logs) != 1 {
		t.Errorf("completion side effects: points=%d logs=%v", e.points, e.logs)
	}
	if !e.progress.IsTracking(2) {
		t.Error("completing goal 1 should unlock goal 2")
	}
}

func TestCompleteReadyGoalsChains(t *testing.T) {
	tr := NewTracker(newTestGoals())
	e := newFakeEmpire()
	e.buildings[5100] = 2
	e.wealth = 5000
	tr.CheckEligibleGoals(e)

	done := tr.CompleteReadyGoals(e)
	if len(done) != 2 || done[0] != 1 || done[1] != 2 {
		t.Errorf("CompleteReadyGoals() = %v, want [1 2]", done)
	}
	if e.points != 8 {
		t.Errorf("points = %d, want 8", e.points)
	}
}

func TestBuildingLostClampsAtZero(t *testing.T) {
	tr := NewTracker(newTestGoals())
	e := newFakeEmpire()
	tr.CheckEligibleGoals(e)

	tr.BuildingLost(e, 5100)
	if got := e.progress.Current[1].Tasks[0].Current; got != 0 {
		t.Errorf("Current = %d, want 0", got)
	}
}

func TestStatChanged(t *testing.T) {
	goals := newTestGoals()
	tr := NewTracker(goals)
	e := newFakeEmpire()
	e.progress.Completed[1] = time.Now()
	tr.CheckEligibleGoals(e)

	e.wealth = 400
	if !tr.StatChanged(e) {
		t.Fatal("StatChanged should refresh the wealth task")
	}
	if got := e.progress.Current[2].Tasks[0].Current; got != 400 {
		t.Errorf("wealth progress = %d, want 400", got)
	}
	if tr.StatChanged(e) {
		t.Error("StatChanged with no change should report false")
	}
}

func TestPurchaseGoal(t *testing.T) {
	tr := NewTracker(newTestGoals())
	e := newFakeEmpire()

	if err := tr.PurchaseGoal(e, 4); !errors.Is(err, ErrCannotAfford) {
		t.Errorf("PurchaseGoal without points error = %v", err)
	}
	e.points = 10
	if err := tr.PurchaseGoal(e, 4); err != nil {
		t.Fatalf("PurchaseGoal returned error: %v", err)
	}
	if e.points != 6 || !e.progress.HasCompleted(4) {
		t.Errorf("points = %d, completed = %v", e.points, e.progress.HasCompleted(4))
	}
	if err := tr.PurchaseGoal(e, 4); !errors.Is(err, ErrGoalCompleted) {
		t.Errorf("second PurchaseGoal error = %v", err)
	}
	if err := tr.PurchaseGoal(e, 1); !errors.Is(err, ErrGoalUnavailable) {
		t.Errorf("PurchaseGoal on tracked goal error = %v", err)
	}
	if err := tr.PurchaseGoal(e, 99); !errors.Is(err, ErrUnknownGoal) {
		t.Errorf("PurchaseGoal on unknown goal error = %v", err)
	}
}

func TestVerify(t *testing.T) {
	goals := newTestGoals()
	tr := NewTracker(goals)
	e := newFakeEmpire()
	tr.CheckEligibleGoals(e)
	e.progress.Current[1].Tasks[0].Current = 1
	e.buildings[5100] = 1
	e.progress.Current[77] = &GoalTracker{GoalID: 77}
	e.progress.Completed[88] = time.Now()

	g1, _ := goals.Get(1)
	g1.Version = 2
	g1.Tasks = append(g1.Tasks, requirement.Requirement{Kind: requirement.KindHaveCity, Needed: 1})

	dropped := tr.Verify(e)
	if len(dropped) != 1 || dropped[0] != 77 {
		t.Errorf("Verify() dropped %v, want [77]", dropped)
	}
	if e.progress.HasCompleted(88) {
		t.Error("completion for deleted goal should be pruned")
	}
	gt := e.progress.Current[1]
	if gt.Version != 2 || len(gt.Tasks) != 2 {
		t.Fatalf("tracker not migrated: %+v", gt)
	}
	if gt.Tasks[0].Current != 1 || gt.Tasks[1].Current != 0 {
		t.Errorf("migrated progress = %d, %d; want 1, 0", gt.Tasks[0].Current, gt.Tasks[1].Current)
	}
}

func TestEventAndQuestHooks(t *testing.T) {
	c := NewCatalog()
	c.Add(&Goal{ID: 10, Name: "Festival", Tasks: requirement.List{
		{Kind: requirement.KindEventRunning, Vnum: 3, Needed: 1, Group: 1},
		{Kind: requirement.KindCompletedQuest, Vnum: 1200, Needed: 1, Group: 1},
	}})
	tr := NewTracker(c)
	e := newFakeEmpire()
	tr.CheckEligibleGoals(e)

	e.events[3] = true
	if !tr.EventChanged(e, 3) {
		t.Error("EventChanged should update the event task")
	}
	if !tr.QuestCompleted(e, 1200) {
		t.Error("QuestCompleted should update the quest task")
	}
	if done := tr.CompleteReadyGoals(e); len(done) != 1 {
		t.Errorf("CompleteReadyGoals() = %v, want [10]", done)
	}
}

func TestEmpireProgressJSON(t *testing.T) {
	p := NewEmpireProgress()
	p.Current[1] = &GoalTracker{GoalID: 1, Version: 2, Tasks: requirement.List{{Kind: requirement.KindOwnBuilding, Vnum: 5100, Needed: 2, Current: 1}}}
	p.Completed[3] = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	restored, err := EmpireProgressFromJSON(p.ToJSON())
	if err != nil {
		t.Fatalf("EmpireProgressFromJSON returned error: %v", err)
	}
	if restored.Current[1].Tasks[0].Current != 1 || !restored.HasCompleted(3) {
		t.Errorf("restored = %+v", restored)
	}
}

func TestLoadGoalsFromDirectory(t *testing.T) {
	dir := t.TempDir()
	body := `goals:
  1:
    name: Town Hall
    points: 5
    tasks:
      - type: own-building
        vnum: 5100
        needed: 2
  2:
    name: Treasury
    flags: [in-development, bogus]
    prereqs: [1]
    tasks:
      - type: empire-wealth
        needed: 1000
`
	if err := os.WriteFile(filepath.Join(dir, "goals.yaml"), []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644)

	c := NewCatalog()
	problems, err := c.LoadFromDirectory(dir)
	if err != nil {
		t.Fatalf("LoadFromDirectory returned error: %v", err)
	}
	if c.Count() != 2 {
		t.Errorf("Count() = %d, want 2", c.Count())
	}
	if len(problems) != 1 {
		t.Errorf("problems = %v, want one unknown-flag warning", problems)
	}
	g, _ := c.Get(2)
	if !g.InDevelopment() || len(g.Prereqs) != 1 || g.Tasks[0].Needed != 1000 {
		t.Errorf("goal 2 = %+v", g)
	}
	if found := c.FindByName("town"); len(found) != 1 || found[0].ID != 1 {
		t.Errorf("FindByName(town) = %v", found)
	}
}

func TestAuditGoal(t *testing.T) {
	c := newTestGoals()
	c.Add(&Goal{ID: 5, Name: "Broken", Prereqs: []int{5, 99}, Tasks: requirement.List{
		{Kind: requirement.KindKillMob, Vnum: 1, Needed: 1},
	}})
	g, _ := c.Get(5)
	problems := c.Audit(g, nil)
	if len(problems) != 3 {
		t.Errorf("Audit() = %v, want three problems", problems)
	}

	clean, _ := c.Get(1)
	if p := c.Audit(clean, nil); len(p) != 0 {
		t.Errorf("Audit(goal 1) = %v, want none", p)
	}
}
