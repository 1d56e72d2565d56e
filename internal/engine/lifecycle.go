package engine

import (
	"context"
	"fmt"

	"github.com/lawnchairsociety/questcore/internal/quest"
	"github.com/lawnchairsociety/questcore/internal/requirement"
)

// StartQuest gives ch a tracker for q bound to instanceID.
func (e *Engine) StartQuest(ch Character, q *quest.Quest, instanceID int) error {
	if !isPlayer(ch) {
		return ErrNotPlayer
	}
	if q == nil {
		return ErrUnknownQuest
	}
	log := ch.QuestLog()
	if log.IsOnQuest(q.ID) {
		return ErrAlreadyOnQuest
	}
	if q.IsDaily() {
		e.checkDailyReset(ch)
	}
	if !e.CharMeetsPrereqs(ch, q, instanceID) {
		return ErrPrereqsUnmet
	}

	adventure := 0
	if instanceID != 0 {
		adventure = e.world.AdventureOf(instanceID)
	}
	t, err := log.Start(q, instanceID, adventure, e.now())
	if err != nil {
		return err
	}
	e.RefreshQuestTracker(ch, t)

	ch.SendMessage(fmt.Sprintf("You start the quest: %s", q.Name))
	if q.Description != "" {
		ch.SendMessage(q.Description)
	}
	e.QuestStarted(ch, q.ID)
	return nil
}

// DropQuest abandons a quest.
func (e *Engine) DropQuest(ch Character, questID int) error {
	if !isPlayer(ch) {
		return ErrNotPlayer
	}
	if _, err := ch.QuestLog().Drop(questID); err != nil {
		return err
	}
	name := fmt.Sprintf("quest %d", questID)
	if q, ok := e.content.Quests.Get(questID); ok {
		name = q.Name
	}
	ch.SendMessage(fmt.Sprintf("You abandon the quest: %s", name))
	e.QuestDropped(ch, questID)
	return nil
}

// CountQuestTasks reports task progress on an active quest.
func (e *Engine) CountQuestTasks(ch Character, questID int) (complete, total int) {
	if !isPlayer(ch) {
		return 0, 0
	}
	t, ok := ch.QuestLog().Tracker(questID)
	if !ok {
		return 0, 0
	}
	return t.Tasks.Count()
}

// CompleteQuest turns in a finished quest. The completion record is saved
// before any reward is given; if the save fails the tracker is restored and
// nothing else happens. Group-completion quests also complete for group
// members whose trackers are finished.
func (e *Engine) CompleteQuest(ctx context.Context, ch Character, questID int) error {
	if err := e.completeOne(ctx, ch, questID); err != nil {
		return err
	}
	q, ok := e.content.Quests.Get(questID)
	if !ok || !q.Flags.Has(quest.FlagGroupCompletion) {
		return nil
	}
	for _, member := range ch.GroupMembers() {
		if !isPlayer(member) {
			continue
		}
		if t, ok := member.QuestLog().Tracker(questID); !ok || !t.IsComplete() {
			continue
		}
		if err := e.completeOne(ctx, member, questID); err != nil {
			e.log.Warn("Group quest completion failed", "quest", questID, "character", member.ID(), "error", err)
		}
	}
	return nil
}

func (e *Engine) completeOne(ctx context.Context, ch Character, questID int) error {
	if !isPlayer(ch) {
		return ErrNotPlayer
	}
	log := ch.QuestLog()
	if q, ok := e.content.Quests.Get(questID); ok && q.IsDaily() {
		e.checkDailyReset(ch)
	}
	t, ok := log.Tracker(questID)
	if !ok {
		return ErrNotOnQuest
	}
	q, ok := e.content.Quests.Get(questID)
	if !ok {
		log.Drop(questID)
		e.log.Warn("Dropped tracker for missing quest", "quest", questID, "character", ch.ID())
		return fmt.Errorf("%w: quest %d", ErrUnknownQuest, questID)
	}
	if !t.IsComplete() {
		return ErrTasksIncomplete
	}

	// Dailies record the reset that opened the window, so repeat delays
	// count from the daily boundary.
	completedAt := e.now()
	if q.IsDaily() {
		completedAt = e.clock.LastReset()
	}
	dailiesDone, eventDailiesDone, dailyWindow := log.DailiesDone, log.EventDailiesDone, log.DailyWindow
	t, rec, prev, err := log.Finish(questID, completedAt)
	if err != nil {
		return err
	}
	dailyCount := 0
	if q.IsDaily() {
		dailyCount = log.CountDaily(e.clock.LastReset(), q.IsEventDaily())
	}
	if e.store != nil {
		if err := e.store.SaveCompletion(ctx, ch.ID(), rec); err != nil {
			log.Restore(t)
			log.SetCompletion(questID, prev)
			log.DailiesDone, log.EventDailiesDone, log.DailyWindow = dailiesDone, eventDailiesDone, dailyWindow
			return fmt.Errorf("save completion for quest %d: %w", questID, err)
		}
	}

	if q.Flags.Has(quest.FlagExtractTaskObjects) {
		for _, task := range t.Tasks {
			if task.Kind == requirement.KindGetObject {
				e.rewards.ExtractObjects(ch, task.Vnum, task.Needed)
			}
		}
	}

	if q.CompleteMessage != "" {
		ch.SendMessage(q.CompleteMessage)
	}
	ch.SendMessage(fmt.Sprintf("You have completed the quest: %s", q.Name))

	e.GiveQuestRewards(ch, q, t.InstanceID)
	e.QuestCompleted(ch, q.ID)

	if q.IsDaily() && e.cfg.DailiesPerDay > 0 && dailyCount >= e.cfg.DailiesPerDay &&
		e.failDailyQuests(ch, q.IsEventDaily()) {
		if q.IsEventDaily() {
			ch.SendMessage("You have hit the daily quest limit for the event and your remaining event dailies expire.")
		} else {
			ch.SendMessage("You have hit the daily quest limit and your remaining daily quests expire.")
		}
	}

	e.startChainedQuests(ch, q, t.InstanceID)
	return nil
}

// startChainedQuests starts every quest that lists q as its starting
// giver. Each is attempted once; nothing further is chased.
func (e *Engine) startChainedQuests(ch Character, q *quest.Quest, instanceID int) {
	for _, entry := range e.content.Index.Lookups(quest.GiverRef{Kind: quest.GiverQuest, Vnum: q.ID}) {
		if entry.Direction != quest.Starts {
			continue
		}
		next, ok := e.content.Quests.Get(entry.QuestID)
		if !ok {
			continue
		}
		e.tryStart(ch, next, instanceID)
	}
}

// tryStart starts q if ch may take it, honouring the tutorial opt-out.
func (e *Engine) tryStart(ch Character, q *quest.Quest, instanceID int) bool {
	if q.Flags.Has(quest.FlagTutorial) && ch.TutorialsDisabled() {
		return false
	}
	if ch.QuestLog().IsOnQuest(q.ID) {
		return false
	}
	return e.StartQuest(ch, q, instanceID) == nil
}
