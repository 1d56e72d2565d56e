package engine

import (
	"github.com/lawnchairsociety/questcore/internal/requirement"
)

func (e *Engine) objectChanged(ch Character, vnum int) {
	e.refreshTasks(ch, func(r *requirement.Requirement) bool {
		switch r.Kind {
		case requirement.KindGetObject, requirement.KindWearingOrHas, requirement.KindWearing:
			return r.Vnum == vnum
		case requirement.KindGetComponent:
			return true
		}
		return false
	})
}

// ObjectGained is called after ch picks up or is given an object.
func (e *Engine) ObjectGained(ch Character, vnum int) { e.objectChanged(ch, vnum) }

// ObjectDropped is called after an object leaves ch's inventory.
func (e *Engine) ObjectDropped(ch Character, vnum int) { e.objectChanged(ch, vnum) }

// ObjectWorn is called after ch equips an object.
func (e *Engine) ObjectWorn(ch Character, vnum int) { e.objectChanged(ch, vnum) }

// ObjectRemoved is called after ch unequips an object.
func (e *Engine) ObjectRemoved(ch Character, vnum int) { e.objectChanged(ch, vnum) }

// ObjectKept is called when ch marks or unmarks an object as kept, which
// changes whether it counts for turn-in.
func (e *Engine) ObjectKept(ch Character, vnum int) { e.objectChanged(ch, vnum) }

// MobKilled is called once per character credited with a kill.
func (e *Engine) MobKilled(ch Character, vnum, flags int) {
	e.updateTrackers(ch, func(r *requirement.Requirement) bool {
		switch r.Kind {
		case requirement.KindKillMob:
			return r.Vnum == vnum
		case requirement.KindKillMobFlagged:
			return r.Misc != 0 && flags&r.Misc == r.Misc
		}
		return false
	}, func(r *requirement.Requirement) { r.Current++ })
}

// RoomVisited is called after ch enters a room.
func (e *Engine) RoomVisited(ch Character, room Room) {
	if room == nil {
		return
	}
	building, template, sector := room.Building(), room.Template(), room.Sector()
	e.setTasks(ch, func(r *requirement.Requirement) bool {
		switch r.Kind {
		case requirement.KindVisitBuilding:
			return building != 0 && r.Vnum == building
		case requirement.KindVisitRoomTemplate:
			return template != 0 && r.Vnum == template
		case requirement.KindVisitSector:
			return r.Vnum == sector
		}
		return false
	}, true)
}

// ScriptTriggered marks triggered-script tasks for script done.
func (e *Engine) ScriptTriggered(ch Character, script int) {
	e.setTasks(ch, target(script, requirement.KindTriggeredScript), true)
}

// ScriptUntriggered resets triggered-script tasks for script.
func (e *Engine) ScriptUntriggered(ch Character, script int) {
	e.setTasks(ch, target(script, requirement.KindTriggeredScript), false)
}

// SkillChanged is called after ch's level in a skill changes.
func (e *Engine) SkillChanged(ch Character, skill int) {
	e.refreshTasks(ch, target(skill,
		requirement.KindSkillLevelOver, requirement.KindSkillLevelUnder, requirement.KindCanGainSkill))
}

// LevelChanged is called after ch's level changes.
func (e *Engine) LevelChanged(ch Character) {
	e.refreshTasks(ch, kindIs(requirement.KindLevelOver, requirement.KindLevelUnder))
}

// AbilityGained is called after ch learns an ability.
func (e *Engine) AbilityGained(ch Character, ability int) {
	e.refreshTasks(ch, target(ability, requirement.KindHaveAbility))
}

// AbilityLost is called after ch loses an ability.
func (e *Engine) AbilityLost(ch Character, ability int) {
	e.refreshTasks(ch, target(ability, requirement.KindHaveAbility))
}

// ReputationChanged is called after ch's standing with a faction changes.
func (e *Engine) ReputationChanged(ch Character, factionID int) {
	e.refreshTasks(ch, target(factionID, requirement.KindReputationOver, requirement.KindReputationUnder))
}

// QuestStarted is called after ch starts a quest.
func (e *Engine) QuestStarted(ch Character, questID int) {
	e.refreshTasks(ch, target(questID, requirement.KindNotOnQuest))
}

// QuestDropped is called after ch abandons a quest.
func (e *Engine) QuestDropped(ch Character, questID int) {
	e.refreshTasks(ch, target(questID, requirement.KindNotOnQuest))
}

// QuestCompleted is called after ch completes a quest. It also advances
// the goals of ch's empire.
func (e *Engine) QuestCompleted(ch Character, questID int) {
	e.refreshTasks(ch, target(questID,
		requirement.KindCompletedQuest, requirement.KindNotCompletedQuest, requirement.KindNotOnQuest))
	if !isPlayer(ch) {
		return
	}
	if emp := ch.Empire(); emp != nil && e.goals.QuestCompleted(emp, questID) {
		e.goals.CompleteReadyGoals(emp)
	}
}

// CoinsChanged is called after ch's coins change.
func (e *Engine) CoinsChanged(ch Character) {
	e.refreshTasks(ch, kindIs(requirement.KindGetCoins))
}

// CurrencyChanged is called after ch's amount of a currency changes.
func (e *Engine) CurrencyChanged(ch Character, vnum int) {
	e.refreshTasks(ch, target(vnum, requirement.KindGetCurrency))
}
