package engine

import "github.com/lawnchairsociety/questcore/internal/requirement"

// playerSubject measures requirements against a character. Quest and
// reputation questions are answered from engine state so the host only
// reports inventory and skills.
type playerSubject struct {
	e  *Engine
	ch Character
}

func (e *Engine) subject(ch Character) requirement.Subject {
	return playerSubject{e: e, ch: ch}
}

func (s playerSubject) CountObjects(vnum int) int           { return s.ch.CountObjects(vnum) }
func (s playerSubject) CountComponents(vnum, flags int) int { return s.ch.CountComponents(vnum, flags) }
func (s playerSubject) IsWearing(vnum int, orHas bool) bool { return s.ch.IsWearing(vnum, orHas) }
func (s playerSubject) SkillLevel(skill int) int            { return s.ch.SkillLevel(skill) }
func (s playerSubject) CanGainSkill(skill int) bool         { return s.ch.CanGainSkill(skill) }
func (s playerSubject) HasAbility(ability int) bool         { return s.ch.HasAbility(ability) }
func (s playerSubject) Level() int                          { return s.ch.Level() }
func (s playerSubject) Coins() int                          { return s.ch.Coins() }
func (s playerSubject) Currency(vnum int) int               { return s.ch.Currency(vnum) }
func (s playerSubject) EventRunning(event int) bool         { return s.e.world.EventRunning(event) }
func (s playerSubject) HasCompletedQuest(questID int) bool {
	return s.ch.QuestLog().HasCompleted(questID)
}
func (s playerSubject) IsOnQuest(questID int) bool { return s.ch.QuestLog().IsOnQuest(questID) }

func (s playerSubject) CompareReputation(factionID, rung int) int {
	reg := s.e.content.Factions
	cur, ok := reg.CurrentRung(s.ch, factionID)
	if !ok {
		return -1
	}
	return reg.CompareReputation(cur, rung)
}

func (s playerSubject) Empire() requirement.EmpireStats {
	if emp := s.ch.Empire(); emp != nil {
		return emp
	}
	return nil
}
