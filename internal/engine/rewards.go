package engine

import (
	"github.com/lawnchairsociety/questcore/internal/quest"
)

// GiveQuestRewards applies q's rewards to ch in order. A reward that cannot
// be given is logged and skipped; the rest still apply. Item rewards scale
// to the character's level clamped into the quest's level range.
func (e *Engine) GiveQuestRewards(ch Character, q *quest.Quest, instanceID int) {
	if !isPlayer(ch) || q == nil {
		return
	}
	level := q.LevelFor(ch.Level())

	for _, r := range q.Rewards {
		var err error
		switch r.Kind {
		case quest.RewardBonusExp:
			e.rewards.GainExperience(ch, r.Amount)
		case quest.RewardCoins:
			e.rewards.GiveCoins(ch, r.Amount)
			e.CoinsChanged(ch)
		case quest.RewardCurrency:
			if err = e.rewards.GiveCurrency(ch, r.Vnum, r.Amount); err == nil {
				e.CurrencyChanged(ch, r.Vnum)
			}
		case quest.RewardObject:
			if _, ok := e.world.ResolvePrototype(quest.GiverObject, r.Vnum); !ok {
				err = ErrLookupMiss
				break
			}
			if err = e.rewards.GiveObject(ch, r.Vnum, max(r.Amount, 1), level); err == nil {
				e.ObjectGained(ch, r.Vnum)
			}
		case quest.RewardSkillExp:
			err = e.rewards.GainSkillExp(ch, r.Vnum, r.Amount)
		case quest.RewardSkillLevel:
			if ch.SkillLevel(r.Vnum) != r.Amount {
				if err = e.rewards.SetSkillLevel(ch, r.Vnum, r.Amount); err == nil {
					e.SkillChanged(ch, r.Vnum)
				}
			}
		case quest.RewardQuestChain:
			next, ok := e.content.Quests.Get(r.Vnum)
			if !ok {
				err = ErrLookupMiss
				break
			}
			e.tryStart(ch, next, instanceID)
		case quest.RewardReputation:
			if _, ok := e.content.Factions.Get(r.Vnum); !ok {
				err = ErrLookupMiss
				break
			}
			e.GainReputation(ch, r.Vnum, r.Amount, false)
		case quest.RewardEventPoints:
			err = e.rewards.GiveEventPoints(ch, r.Vnum, r.Amount)
		default:
			err = ErrContentIntegrity
		}
		if err != nil {
			e.log.Warn("Skipped quest reward",
				"quest", q.ID, "reward", r.Kind.String(), "vnum", r.Vnum, "character", ch.ID(), "error", err)
		}
	}
}

// GainReputation changes ch's reputation with a faction, cascading to
// related factions, and updates reputation tasks for every faction that
// changed.
func (e *Engine) GainReputation(ch Character, factionID, amount int, isKill bool) {
	if !isPlayer(ch) {
		return
	}
	for _, id := range e.content.Factions.GainReputation(ch, factionID, amount, isKill, true) {
		e.ReputationChanged(ch, id)
	}
}
