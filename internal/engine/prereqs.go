package engine

import (
	"time"

	"github.com/lawnchairsociety/questcore/internal/quest"
)

// Status is where a quest stands for one character.
type Status int

const (
	StatusUnavailable Status = iota
	StatusOfferable
	StatusActive
	StatusCompletable
)

func (s Status) String() string {
	switch s {
	case StatusOfferable:
		return "offerable"
	case StatusActive:
		return "active"
	case StatusCompletable:
		return "completable"
	}
	return "unavailable"
}

// CharMeetsPrereqs reports whether ch may start q, with instanceID the
// adventure instance the quest would be bound to (0 for none). Checks run
// cheapest first: development gate, daily rotation, level range, repeat
// policy, daily quota, then the prerequisite list.
func (e *Engine) CharMeetsPrereqs(ch Character, q *quest.Quest, instanceID int) bool {
	if !isPlayer(ch) || q == nil {
		return false
	}
	if q.InDevelopment() && !e.isImmortal(ch) {
		return false
	}
	if !e.content.Dailies.IsActive(q) {
		return false
	}
	level := ch.Level()
	if q.MinLevel > 0 && level < q.MinLevel {
		return false
	}
	if q.MaxLevel > 0 && level > q.MaxLevel {
		return false
	}
	if !e.canRepeat(ch.QuestLog(), q, instanceID) {
		return false
	}
	if q.IsDaily() && e.cfg.DailiesPerDay > 0 &&
		ch.QuestLog().DailiesSince(e.clock.LastReset(), q.IsEventDaily()) >= e.cfg.DailiesPerDay {
		return false
	}
	return q.Prereqs.Met(e.subject(ch))
}

// completedFor returns the completion record that governs repeats. For
// repeat-per-instance quests a record from another instance does not count.
func completedFor(log *quest.PlayerLog, q *quest.Quest, instanceID int) (*quest.Completion, bool) {
	rec, ok := log.Completion(q.ID)
	if !ok {
		return nil, false
	}
	if q.Flags.Has(quest.FlagRepeatPerInstance) && instanceID != 0 && rec.LastInstanceID != instanceID {
		return nil, false
	}
	return rec, true
}

func (e *Engine) canRepeat(log *quest.PlayerLog, q *quest.Quest, instanceID int) bool {
	rec, done := completedFor(log, q, instanceID)
	if !done {
		return true
	}
	switch {
	case q.RepeatAfter == quest.RepeatNever:
		return false
	case q.RepeatAfter > 0:
		return !e.now().Before(rec.LastCompleted.Add(time.Duration(q.RepeatAfter) * time.Minute))
	}
	return true
}

// QuestStatus returns where q stands for ch.
func (e *Engine) QuestStatus(ch Character, q *quest.Quest) Status {
	if !isPlayer(ch) || q == nil {
		return StatusUnavailable
	}
	if t, ok := ch.QuestLog().Tracker(q.ID); ok {
		if t.IsComplete() {
			return StatusCompletable
		}
		return StatusActive
	}
	if e.CharMeetsPrereqs(ch, q, currentInstance(ch)) {
		return StatusOfferable
	}
	return StatusUnavailable
}

// currentInstance returns the adventure instance ch stands in.
func currentInstance(ch Character) int {
	if room := ch.Location(); room != nil {
		return room.InstanceID()
	}
	return 0
}
