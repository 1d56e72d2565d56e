package progress

import (
	"errors"
	"fmt"
	"time"

	"github.com/lawnchairsociety/questcore/internal/logger"
)

var (
	ErrUnknownGoal     = errors.New("unknown goal")
	ErrAlreadyTracking = errors.New("goal already tracked")
	ErrGoalCompleted   = errors.New("goal already completed")
	ErrGoalUnavailable = errors.New("goal unavailable")
	ErrCannotAfford    = errors.New("not enough progress points")
)

// Tracker runs empire goals against a goal catalog.
type Tracker struct {
	goals *Catalog
	now   func() time.Time
}

// NewTracker creates a Tracker over goals.
func NewTracker(goals *Catalog) *Tracker {
	return &Tracker{goals: goals, now: time.Now}
}

// Goals returns the catalog the tracker reads.
func (t *Tracker) Goals() *Catalog {
	return t.goals
}

// prereqsMet reports whether every prerequisite goal is completed.
func prereqsMet(p *EmpireProgress, g *Goal) bool {
	for _, id := range g.Prereqs {
		if !p.HasCompleted(id) {
			return false
		}
	}
	return true
}

// available reports whether e may work on g right now.
func available(p *EmpireProgress, g *Goal) bool {
	return !g.InDevelopment() && !p.HasCompleted(g.ID) && prereqsMet(p, g)
}

// StartGoal begins tracking g for e and refreshes the new tracker.
func (t *Tracker) StartGoal(e Empire, g *Goal) (*GoalTracker, error) {
	p := e.Progress()
	switch {
	case p.IsTracking(g.ID):
		return nil, ErrAlreadyTracking
	case p.HasCompleted(g.ID):
		return nil, ErrGoalCompleted
	case g.InDevelopment() || g.Purchasable() || !prereqsMet(p, g):
		return nil, ErrGoalUnavailable
	}

	tasks := g.Tasks.Copy()
	tasks.Reset()
	gt := &GoalTracker{GoalID: g.ID, Version: g.Version, Tasks: tasks}
	p.Current[g.ID] = gt
	t.RefreshGoalTracker(e, gt)
	return gt, nil
}

// RefreshGoalTracker recomputes refreshable tasks from the empire's state.
func (t *Tracker) RefreshGoalTracker(e Empire, gt *GoalTracker) bool {
	return gt.Tasks.Refresh(SubjectFor(e))
}

// CheckEligibleGoals starts a tracker for every available goal that is not
// yet tracked and returns the new goal ids.
func (t *Tracker) CheckEligibleGoals(e Empire) []int {
	p := e.Progress()
	var started []int
	for _, g := range t.goals.All() {
		if g.Purchasable() || p.IsTracking(g.ID) || !available(p, g) {
			continue
		}
		if _, err := t.StartGoal(e, g); err == nil {
			started = append(started, g.ID)
		}
	}
	return started
}

// CompleteReadyGoals completes every tracked goal whose tasks are done,
// awarding its points. Completing a goal can make others eligible, so the
// check repeats until nothing changes.
func (t *Tracker) CompleteReadyGoals(e Empire) []int {
	p := e.Progress()
	var done []int
	for {
		progressed := false
		for _, gt := range p.Trackers() {
			if !gt.Tasks.Complete() {
				continue
			}
			g, ok := t.goals.Get(gt.GoalID)
			if !ok {
				continue
			}
			t.complete(e, g)
			done = append(done, g.ID)
			progressed = true
		}
		if !progressed || len(t.CheckEligibleGoals(e)) == 0 {
			return done
		}
	}
}

func (t *Tracker) complete(e Empire, g *Goal) {
	p := e.Progress()
	delete(p.Current, g.ID)
	p.Completed[g.ID] = t.now()
	if g.Points > 0 {
		e.AddProgressPoints(g.Points)
	}
	e.SendLog(fmt.Sprintf("The empire has completed %s!", g.Name))
	logger.Info("Empire goal completed", "goal", g.ID)
}

// PurchaseGoal buys a purchasable goal outright.
func (t *Tracker) PurchaseGoal(e Empire, goalID int) error {
	g, ok := t.goals.Get(goalID)
	if !ok {
		return ErrUnknownGoal
	}
	p := e.Progress()
	if p.HasCompleted(g.ID) {
		return ErrGoalCompleted
	}
	if !g.Purchasable() || !available(p, g) {
		return ErrGoalUnavailable
	}
	if !e.SpendProgressPoints(g.Cost) {
		return ErrCannotAfford
	}
	t.complete(e, g)
	t.CheckEligibleGoals(e)
	return nil
}

// Verify drops trackers whose goal is gone or in development and migrates
// trackers whose goal version moved on. Completion records for deleted
// goals are pruned. It returns the dropped goal ids.
func (t *Tracker) Verify(e Empire) []int {
	p := e.Progress()
	var dropped []int
	for _, gt := range p.Trackers() {
		g, ok := t.goals.Get(gt.GoalID)
		if !ok || g.InDevelopment() || g.Purchasable() {
			delete(p.Current, gt.GoalID)
			dropped = append(dropped, gt.GoalID)
			logger.Warning("Dropped stale empire goal tracker", "goal", gt.GoalID)
			continue
		}
		if g.Version > gt.Version {
			tasks := g.Tasks.Copy()
			tasks.CarryForward(gt.Tasks)
			gt.Tasks = tasks
			gt.Version = g.Version
		}
		t.RefreshGoalTracker(e, gt)
	}
	for _, id := range p.CompletedIDs() {
		if _, ok := t.goals.Get(id); !ok {
			delete(p.Completed, id)
		}
	}
	return dropped
}
