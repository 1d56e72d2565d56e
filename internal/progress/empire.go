package progress

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/lawnchairsociety/questcore/internal/requirement"
)

// Empire is an empire whose goals are tracked.
type Empire interface {
	requirement.EmpireStats

	Progress() *EmpireProgress

	// MemberCompletedQuest reports whether any member has completed a quest.
	MemberCompletedQuest(questID int) bool
	EventRunning(event int) bool

	AddProgressPoints(points int)
	// SpendProgressPoints deducts points, or reports false if the empire
	// cannot afford them.
	SpendProgressPoints(points int) bool

	SendLog(message string)
}

// GoalTracker is an empire's in-progress copy of a goal's tasks.
type GoalTracker struct {
	GoalID  int              `json:"goal_id"`
	Version int              `json:"version"`
	Tasks   requirement.List `json:"tasks"`
}

// EmpireProgress holds one empire's active and completed goals.
type EmpireProgress struct {
	Current   map[int]*GoalTracker `json:"current"`
	Completed map[int]time.Time    `json:"completed"`
}

// NewEmpireProgress creates empty progress
func NewEmpireProgress() *EmpireProgress {
	return &EmpireProgress{
		Current:   make(map[int]*GoalTracker),
		Completed: make(map[int]time.Time),
	}
}

// ToJSON serializes the progress for storage
func (p *EmpireProgress) ToJSON() string {
	data, err := json.Marshal(p)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// EmpireProgressFromJSON deserializes stored progress
func EmpireProgressFromJSON(data string) (*EmpireProgress, error) {
	p := NewEmpireProgress()
	if data == "" || data == "{}" {
		return p, nil
	}
	if err := json.Unmarshal([]byte(data), p); err != nil {
		return NewEmpireProgress(), err
	}
	if p.Current == nil {
		p.Current = make(map[int]*GoalTracker)
	}
	if p.Completed == nil {
		p.Completed = make(map[int]time.Time)
	}
	return p, nil
}

// IsTracking reports whether the goal has an active tracker.
func (p *EmpireProgress) IsTracking(goalID int) bool {
	_, ok := p.Current[goalID]
	return ok
}

// HasCompleted reports whether the goal was completed.
func (p *EmpireProgress) HasCompleted(goalID int) bool {
	_, ok := p.Completed[goalID]
	return ok
}

// Trackers returns the active trackers in ascending goal id order.
func (p *EmpireProgress) Trackers() []*GoalTracker {
	out := make([]*GoalTracker, 0, len(p.Current))
	for _, t := range p.Current {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GoalID < out[j].GoalID })
	return out
}

// CompletedIDs returns completed goal ids in ascending order.
func (p *EmpireProgress) CompletedIDs() []int {
	ids := make([]int, 0, len(p.Completed))
	for id := range p.Completed {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// empireSubject measures requirements against an empire. Player-only
// questions have no empire-wide answer and report nothing.
type empireSubject struct {
	e Empire
}

func (s empireSubject) CountObjects(int) int         { return 0 }
func (s empireSubject) CountComponents(int, int) int { return 0 }
func (s empireSubject) IsWearing(int, bool) bool     { return false }
func (s empireSubject) SkillLevel(int) int           { return 0 }
func (s empireSubject) CanGainSkill(int) bool        { return false }
func (s empireSubject) HasAbility(int) bool          { return false }
func (s empireSubject) Level() int                   { return 0 }
func (s empireSubject) Coins() int                   { return s.e.Wealth() }
func (s empireSubject) Currency(int) int             { return 0 }
func (s empireSubject) IsOnQuest(int) bool           { return false }
func (s empireSubject) CompareReputation(int, int) int {
	return -1
}

func (s empireSubject) HasCompletedQuest(questID int) bool {
	return s.e.MemberCompletedQuest(questID)
}

func (s empireSubject) EventRunning(event int) bool {
	return s.e.EventRunning(event)
}

func (s empireSubject) Empire() requirement.EmpireStats {
	return s.e
}

// SubjectFor adapts an empire to the requirement Subject interface.
func SubjectFor(e Empire) requirement.Subject {
	return empireSubject{e: e}
}
