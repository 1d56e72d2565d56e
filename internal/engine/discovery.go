package engine

import (
	"github.com/lawnchairsociety/questcore/internal/quest"
)

// site is a place quests are found: one live entity, or a room with its
// building and template.
type site struct {
	refs     []quest.Giver
	lookups  quest.Lookups
	empire   int
	instance int
	inCity   bool
	visible  bool
	usable   bool
}

func entitySite(ch Character, ent Entity) site {
	return site{
		refs:     []quest.Giver{ent.Prototype()},
		lookups:  ent.QuestLookups(),
		empire:   ent.EmpireID(),
		instance: ent.InstanceID(),
		inCity:   ent.InCity(),
		visible:  ent.VisibleTo(ch),
		usable:   ent.CanBeUsedBy(ch),
	}
}

func (e *Engine) roomSite(ch Character, room Room) site {
	s := site{
		empire:   room.EmpireID(),
		instance: room.InstanceID(),
		inCity:   room.InCity(),
		visible:  true,
		usable:   room.CanBeUsedBy(ch),
	}
	if vnum := room.Building(); vnum != 0 {
		ref := quest.GiverRef{Kind: quest.GiverBuilding, Vnum: vnum}
		s.refs = append(s.refs, ref)
		s.lookups = append(s.lookups, e.content.Index.Lookups(ref)...)
	}
	if vnum := room.Template(); vnum != 0 {
		ref := quest.GiverRef{Kind: quest.GiverRoomTemplate, Vnum: vnum}
		s.refs = append(s.refs, ref)
		s.lookups = append(s.lookups, e.content.Index.Lookups(ref)...)
	}
	return s
}

// findQuests walks the site's indexed quests in one direction. With a nil
// list it stops at the first match; otherwise every match is appended.
// Checks run cheapest first: registered giver, visibility, ownership,
// permission, tracker state, then prerequisites.
func (e *Engine) findQuests(ch Character, s site, dir quest.Direction, list *[]*quest.Quest) bool {
	if !isPlayer(ch) || len(s.lookups) == 0 {
		return false
	}
	log := ch.QuestLog()
	found := false
	seen := make(map[int]bool)

	for _, entry := range s.lookups {
		if entry.Direction != dir || seen[entry.QuestID] {
			continue
		}
		seen[entry.QuestID] = true

		q, ok := e.content.Quests.Get(entry.QuestID)
		if !ok || !registeredAt(q, dir, s.refs) {
			continue
		}
		if !s.visible || !e.offeredTo(ch, q, dir) {
			continue
		}
		if !ownershipOK(ch, q, s) {
			continue
		}
		if !s.usable {
			continue
		}
		if dir == quest.Starts {
			if log.IsOnQuest(q.ID) || !e.CharMeetsPrereqs(ch, q, s.instance) {
				continue
			}
		} else if t, ok := log.Tracker(q.ID); !ok || !t.IsComplete() {
			continue
		}

		found = true
		if list == nil {
			return true
		}
		*list = append(*list, q)
	}
	return found
}

// registeredAt reports whether any of refs is a giver for q in dir.
func registeredAt(q *quest.Quest, dir quest.Direction, refs []quest.Giver) bool {
	for _, ref := range refs {
		if q.HasGiver(dir, ref) {
			return true
		}
	}
	return false
}

// offeredTo applies the visibility filters: development, tutorial opt-out,
// daily rotation and event windows. The daily rotation only limits new
// starts; a daily already taken can be turned in after its cycle moves on.
func (e *Engine) offeredTo(ch Character, q *quest.Quest, dir quest.Direction) bool {
	if q.InDevelopment() && !e.isImmortal(ch) {
		return false
	}
	if q.Flags.Has(quest.FlagTutorial) && ch.TutorialsDisabled() {
		return false
	}
	if dir == quest.Starts && !e.content.Dailies.IsActive(q) {
		return false
	}
	if event, ok := q.Event(); ok && q.Flags.Has(quest.FlagEvent) && !e.world.EventRunning(event) {
		return false
	}
	return true
}

func ownershipOK(ch Character, q *quest.Quest, s site) bool {
	if q.Flags.Has(quest.FlagInCityOnly) && !s.inCity {
		return false
	}
	if !q.Flags.Has(quest.FlagEmpireOnly) && !q.Flags.Has(quest.FlagNoGuests) {
		return true
	}
	mine := 0
	if emp := ch.Empire(); emp != nil {
		mine = emp.ID()
	}
	if q.Flags.Has(quest.FlagEmpireOnly) && (s.empire == 0 || s.empire != mine) {
		return false
	}
	if q.Flags.Has(quest.FlagNoGuests) && s.empire != 0 && s.empire != mine {
		return false
	}
	return true
}

// CanGetQuestFromMob reports whether a mobile offers ch any quest.
func (e *Engine) CanGetQuestFromMob(ch Character, mob Entity) bool {
	return mob != nil && e.findQuests(ch, entitySite(ch, mob), quest.Starts, nil)
}

// CanGetQuestFromObject reports whether an object offers ch any quest.
func (e *Engine) CanGetQuestFromObject(ch Character, obj Entity) bool {
	return obj != nil && e.findQuests(ch, entitySite(ch, obj), quest.Starts, nil)
}

// CanGetQuestFromVehicle reports whether a vehicle offers ch any quest.
func (e *Engine) CanGetQuestFromVehicle(ch Character, veh Entity) bool {
	return veh != nil && e.findQuests(ch, entitySite(ch, veh), quest.Starts, nil)
}

// CanGetQuestFromRoom reports whether ch's room offers any quest through
// its building or room template.
func (e *Engine) CanGetQuestFromRoom(ch Character, room Room) bool {
	return room != nil && e.findQuests(ch, e.roomSite(ch, room), quest.Starts, nil)
}

// CanTurnQuestInToMob reports whether a mobile accepts a finished quest.
func (e *Engine) CanTurnQuestInToMob(ch Character, mob Entity) bool {
	return mob != nil && e.findQuests(ch, entitySite(ch, mob), quest.Ends, nil)
}

// CanTurnQuestInToObject reports whether an object accepts a finished quest.
func (e *Engine) CanTurnQuestInToObject(ch Character, obj Entity) bool {
	return obj != nil && e.findQuests(ch, entitySite(ch, obj), quest.Ends, nil)
}

// CanTurnQuestInToVehicle reports whether a vehicle accepts a finished quest.
func (e *Engine) CanTurnQuestInToVehicle(ch Character, veh Entity) bool {
	return veh != nil && e.findQuests(ch, entitySite(ch, veh), quest.Ends, nil)
}

// CanTurnQuestInToRoom reports whether ch's room accepts a finished quest.
func (e *Engine) CanTurnQuestInToRoom(ch Character, room Room) bool {
	return room != nil && e.findQuests(ch, e.roomSite(ch, room), quest.Ends, nil)
}

// QuestsOfferedBy lists the quests an entity offers ch, for a menu.
func (e *Engine) QuestsOfferedBy(ch Character, ent Entity) []*quest.Quest {
	var list []*quest.Quest
	if ent != nil {
		e.findQuests(ch, entitySite(ch, ent), quest.Starts, &list)
	}
	return list
}

// QuestsAcceptedBy lists the finished quests an entity accepts from ch.
func (e *Engine) QuestsAcceptedBy(ch Character, ent Entity) []*quest.Quest {
	var list []*quest.Quest
	if ent != nil {
		e.findQuests(ch, entitySite(ch, ent), quest.Ends, &list)
	}
	return list
}

// QuestsOfferedInRoom lists the quests ch's room offers.
func (e *Engine) QuestsOfferedInRoom(ch Character, room Room) []*quest.Quest {
	var list []*quest.Quest
	if room != nil {
		e.findQuests(ch, e.roomSite(ch, room), quest.Starts, &list)
	}
	return list
}

// QuestsAcceptedInRoom lists the finished quests ch's room accepts.
func (e *Engine) QuestsAcceptedInRoom(ch Character, room Room) []*quest.Quest {
	var list []*quest.Quest
	if room != nil {
		e.findQuests(ch, e.roomSite(ch, room), quest.Ends, &list)
	}
	return list
}
