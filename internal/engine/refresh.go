package engine

import (
	"fmt"

	"github.com/lawnchairsociety/questcore/internal/quest"
)

// RefreshQuestTracker recomputes every refreshable task on t from ch's
// current state and reports whether anything changed. Event-only kinds are
// left alone.
func (e *Engine) RefreshQuestTracker(ch Character, t *quest.Tracker) bool {
	if !isPlayer(ch) || t == nil {
		return false
	}
	return t.Tasks.Refresh(e.subject(ch))
}

// RefreshAllQuests validates and refreshes every tracker ch holds. Dailies
// from a past daily window expire first. Trackers are dropped when their
// quest is gone, hidden in development, bound to an instance that has
// ended, or tied to an event that stopped. Trackers behind
// the quest's version are migrated, carrying progress forward for tasks that
// still match. Completion records for deleted quests are pruned.
func (e *Engine) RefreshAllQuests(ch Character) {
	if !isPlayer(ch) {
		return
	}
	e.checkDailyReset(ch)
	log := ch.QuestLog()

	for _, t := range log.Active() {
		q, ok := e.content.Quests.Get(t.QuestID)
		if !ok {
			log.Drop(t.QuestID)
			e.log.Warn("Dropped tracker for missing quest", "quest", t.QuestID, "character", ch.ID())
			continue
		}
		if reason := e.dropReason(ch, q, t); reason != "" {
			log.Drop(q.ID)
			ch.SendMessage(fmt.Sprintf("Your quest '%s' %s.", q.Name, reason))
			continue
		}
		if q.Version > t.Version {
			tasks := q.Tasks.Copy()
			tasks.CarryForward(t.Tasks)
			t.Tasks = tasks
			t.Version = q.Version
		}
		e.RefreshQuestTracker(ch, t)
	}

	for _, id := range log.CompletedIDs() {
		if _, ok := e.content.Quests.Get(id); !ok {
			log.SetCompletion(id, nil)
		}
	}
}

// dropReason returns why t can no longer continue, or "".
func (e *Engine) dropReason(ch Character, q *quest.Quest, t *quest.Tracker) string {
	if q.InDevelopment() && !e.isImmortal(ch) {
		return "is no longer available"
	}
	if q.Flags.Has(quest.FlagExpiresAfterInstance) && t.InstanceID != 0 && !e.world.InstanceActive(t.InstanceID) {
		return "has expired"
	}
	if event, ok := q.Event(); ok && q.Flags.Has(quest.FlagEvent) && !e.world.EventRunning(event) {
		return "ended with its event"
	}
	return ""
}

// RefreshCharacter is the login refresh: quests first, then reputation
// standings against the current faction bounds.
func (e *Engine) RefreshCharacter(ch Character) {
	if !isPlayer(ch) {
		return
	}
	e.RefreshAllQuests(ch)
	for _, id := range e.content.Factions.UpdateReputations(ch) {
		e.ReputationChanged(ch, id)
	}
}
