package quest

import (
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/lawnchairsociety/questcore/internal/requirement"
)

var (
	ErrAlreadyOnQuest = errors.New("already on quest")
	ErrNotOnQuest     = errors.New("not on quest")
)

// Tracker is a player's in-progress copy of a quest's tasks.
type Tracker struct {
	QuestID     int              `json:"quest_id"`
	InstanceID  int              `json:"instance_id,omitempty"`
	AdventureID int              `json:"adventure_id,omitempty"`
	Version     int              `json:"version"`
	StartedAt   time.Time        `json:"started_at"`
	Tasks       requirement.List `json:"tasks"`
}

// IsComplete reports whether every task is satisfied.
func (t *Tracker) IsComplete() bool {
	return t.Tasks.Complete()
}

// Completion records the last time a player finished a quest.
type Completion struct {
	QuestID         int       `json:"quest_id"`
	LastCompleted   time.Time `json:"last_completed"`
	LastInstanceID  int       `json:"last_instance_id,omitempty"`
	LastAdventureID int       `json:"last_adventure_id,omitempty"`
}

// PlayerLog holds one player's active trackers and completion history.
type PlayerLog struct {
	Trackers    map[int]*Tracker    `json:"trackers"`
	Completions map[int]*Completion `json:"completions"`

	// DailiesDone and EventDailiesDone count non-event and event daily
	// completions since DailyWindow, the reset that opened the current
	// window.
	DailiesDone      int       `json:"dailies_done,omitempty"`
	EventDailiesDone int       `json:"event_dailies_done,omitempty"`
	DailyWindow      time.Time `json:"daily_window,omitempty"`
}

// NewPlayerLog creates an empty log
func NewPlayerLog() *PlayerLog {
	return &PlayerLog{
		Trackers:    make(map[int]*Tracker),
		Completions: make(map[int]*Completion),
	}
}

// ToJSON serializes the log for database storage
func (pl *PlayerLog) ToJSON() string {
	data, err := json.Marshal(pl)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// PlayerLogFromJSON deserializes a log from the database
func PlayerLogFromJSON(data string) (*PlayerLog, error) {
	if data == "" || data == "{}" {
		return NewPlayerLog(), nil
	}

	pl := &PlayerLog{}
	if err := json.Unmarshal([]byte(data), pl); err != nil {
		return NewPlayerLog(), err
	}

	// Initialize maps if nil (from old data)
	if pl.Trackers == nil {
		pl.Trackers = make(map[int]*Tracker)
	}
	if pl.Completions == nil {
		pl.Completions = make(map[int]*Completion)
	}

	return pl, nil
}

// Start creates a tracker from a snapshot of q's tasks.
func (pl *PlayerLog) Start(q *Quest, instanceID, adventureID int, now time.Time) (*Tracker, error) {
	if _, ok := pl.Trackers[q.ID]; ok {
		return nil, ErrAlreadyOnQuest
	}
	tasks := q.Tasks.Copy()
	tasks.Reset()
	t := &Tracker{
		QuestID:     q.ID,
		InstanceID:  instanceID,
		AdventureID: adventureID,
		Version:     q.Version,
		StartedAt:   now,
		Tasks:       tasks,
	}
	pl.Trackers[q.ID] = t
	return t, nil
}

// Tracker returns the tracker for a quest.
func (pl *PlayerLog) Tracker(questID int) (*Tracker, bool) {
	t, ok := pl.Trackers[questID]
	return t, ok
}

// Active returns the active trackers in ascending quest id order.
func (pl *PlayerLog) Active() []*Tracker {
	out := make([]*Tracker, 0, len(pl.Trackers))
	for _, t := range pl.Trackers {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestID < out[j].QuestID })
	return out
}

// IsOnQuest checks if a quest is currently active
func (pl *PlayerLog) IsOnQuest(questID int) bool {
	_, ok := pl.Trackers[questID]
	return ok
}

// HasCompleted checks if a quest was ever turned in
func (pl *PlayerLog) HasCompleted(questID int) bool {
	_, ok := pl.Completions[questID]
	return ok
}

// Completion returns the completion record for a quest.
func (pl *PlayerLog) Completion(questID int) (*Completion, bool) {
	c, ok := pl.Completions[questID]
	return c, ok
}

// Drop removes a tracker without completing it
func (pl *PlayerLog) Drop(questID int) (*Tracker, error) {
	t, ok := pl.Trackers[questID]
	if !ok {
		return nil, ErrNotOnQuest
	}
	delete(pl.Trackers, questID)
	return t, nil
}

// Restore puts back a tracker removed by Drop or Finish.
func (pl *PlayerLog) Restore(t *Tracker) {
	pl.Trackers[t.QuestID] = t
}

// Finish removes the tracker and records the completion. The previous
// record, if any, is returned so a failed save can be undone.
func (pl *PlayerLog) Finish(questID int, now time.Time) (*Tracker, *Completion, *Completion, error) {
	t, ok := pl.Trackers[questID]
	if !ok {
		return nil, nil, nil, ErrNotOnQuest
	}
	delete(pl.Trackers, questID)

	prev := pl.Completions[questID]
	rec := &Completion{
		QuestID:         questID,
		LastCompleted:   now,
		LastInstanceID:  t.InstanceID,
		LastAdventureID: t.AdventureID,
	}
	pl.Completions[questID] = rec
	return t, rec, prev, nil
}

// SetCompletion replaces or, with nil, clears the record for a quest.
func (pl *PlayerLog) SetCompletion(questID int, c *Completion) {
	if c == nil {
		delete(pl.Completions, questID)
		return
	}
	pl.Completions[questID] = c
}

// StartWindow moves the log into the daily window opened at reset,
// clearing both counts, and reports whether the window changed.
func (pl *PlayerLog) StartWindow(reset time.Time) bool {
	if !pl.DailyWindow.Before(reset) {
		return false
	}
	pl.DailiesDone, pl.EventDailiesDone = 0, 0
	pl.DailyWindow = reset
	return true
}

// DailiesSince returns the event or non-event daily count for the window
// opened at reset. Counts from an earlier window are zero.
func (pl *PlayerLog) DailiesSince(reset time.Time, event bool) int {
	if pl.DailyWindow.Before(reset) {
		return 0
	}
	if event {
		return pl.EventDailiesDone
	}
	return pl.DailiesDone
}

// CountDaily records one daily completion in the window opened at reset
// and returns the new count for that kind of daily.
func (pl *PlayerLog) CountDaily(reset time.Time, event bool) int {
	pl.StartWindow(reset)
	if event {
		pl.EventDailiesDone++
		return pl.EventDailiesDone
	}
	pl.DailiesDone++
	return pl.DailiesDone
}

// CompletedIDs returns every completed quest id in ascending order.
func (pl *PlayerLog) CompletedIDs() []int {
	ids := make([]int, 0, len(pl.Completions))
	for id := range pl.Completions {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
