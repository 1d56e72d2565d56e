package engine

import (
	"fmt"

	"github.com/lawnchairsociety/questcore/internal/requirement"
)

// The tracker hooks are called by the simulation right after the world
// changes. They touch only the character's active trackers, never return
// errors, and quietly do nothing for NPCs or unknown targets.

type matcher func(r *requirement.Requirement) bool

func kindIs(kinds ...requirement.Kind) matcher {
	return func(r *requirement.Requirement) bool {
		for _, k := range kinds {
			if r.Kind == k {
				return true
			}
		}
		return false
	}
}

func target(vnum int, kinds ...requirement.Kind) matcher {
	is := kindIs(kinds...)
	return func(r *requirement.Requirement) bool {
		return r.Vnum == vnum && is(r)
	}
}

// updateTrackers applies fn to every matching task and tells ch about
// trackers that just became complete.
func (e *Engine) updateTrackers(ch Character, match matcher, fn func(r *requirement.Requirement)) {
	if !isPlayer(ch) {
		return
	}
	for _, t := range ch.QuestLog().Active() {
		was := t.IsComplete()
		if !t.Tasks.Update(match, fn) || was || !t.IsComplete() {
			continue
		}
		if q, ok := e.content.Quests.Get(t.QuestID); ok {
			ch.SendMessage(fmt.Sprintf("You have finished the tasks for %s.", q.Name))
		}
	}
}

// refreshTasks recomputes matching tasks from live state.
func (e *Engine) refreshTasks(ch Character, match matcher) {
	if !isPlayer(ch) {
		return
	}
	s := e.subject(ch)
	e.updateTrackers(ch, match, func(r *requirement.Requirement) { r.Refresh(s) })
}

// setTasks marks matching event-only tasks done or undone.
func (e *Engine) setTasks(ch Character, match matcher, done bool) {
	e.updateTrackers(ch, match, func(r *requirement.Requirement) {
		if done {
			r.Current = r.Needed
		} else {
			r.Current = 0
		}
	})
}
