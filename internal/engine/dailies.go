package engine

import (
	"github.com/lawnchairsociety/questcore/internal/logger"
)

// SetupDailyCycles makes sure every daily cycle has an active quest,
// keeping selections that are still valid. New selections are written to
// disk before they take effect.
func (e *Engine) SetupDailyCycles() error {
	changed, err := e.content.Dailies.Setup(e.content.Quests, e.rng)
	if err != nil {
		return err
	}
	if changed {
		logger.Always("Daily quest cycles updated", "cycles", len(e.content.Dailies.Cycles()))
	}
	return nil
}

// RotateDailyCycles re-rolls one cycle, or all of them when cycle is 0.
func (e *Engine) RotateDailyCycles(cycle int) error {
	return e.content.Dailies.Rotate(e.content.Quests, e.rng, cycle)
}

// checkDailyReset moves ch into the current daily window. Daily trackers
// left over from the previous window expire.
func (e *Engine) checkDailyReset(ch Character) {
	if !isPlayer(ch) || !ch.QuestLog().StartWindow(e.clock.LastReset()) {
		return
	}
	event := e.failDailyQuests(ch, true)
	plain := e.failDailyQuests(ch, false)
	if event || plain {
		ch.SendMessage("Your daily quests expire.")
	}
}

// failDailyQuests drops every event or non-event daily ch is on and
// reports whether any were dropped.
func (e *Engine) failDailyQuests(ch Character, event bool) bool {
	log := ch.QuestLog()
	found := false
	for _, t := range log.Active() {
		q, ok := e.content.Quests.Get(t.QuestID)
		if !ok || !q.IsDaily() || q.IsEventDaily() != event {
			continue
		}
		log.Drop(q.ID)
		e.QuestDropped(ch, q.ID)
		found = true
	}
	return found
}
