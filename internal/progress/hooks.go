package progress

import "github.com/lawnchairsociety/questcore/internal/requirement"

// The hooks below update only the empire's active goal trackers. Each one
// reports whether any task changed; callers follow up with
// CompleteReadyGoals.

// update applies fn to every task of every tracker that match accepts.
func (t *Tracker) update(e Empire, match func(r *requirement.Requirement) bool, fn func(r *requirement.Requirement)) bool {
	if e == nil || e.Progress() == nil {
		return false
	}
	changed := false
	for _, gt := range e.Progress().Trackers() {
		if gt.Tasks.Update(match, fn) {
			changed = true
		}
	}
	return changed
}

// refreshKinds recomputes every task of the given kinds from live state.
func (t *Tracker) refreshKinds(e Empire, kinds ...requirement.Kind) bool {
	subject := SubjectFor(e)
	return t.update(e, func(r *requirement.Requirement) bool {
		for _, k := range kinds {
			if r.Kind == k {
				return true
			}
		}
		return false
	}, func(r *requirement.Requirement) { r.Refresh(subject) })
}

func (t *Tracker) adjust(e Empire, kind requirement.Kind, vnum, delta int) bool {
	return t.update(e, func(r *requirement.Requirement) bool {
		return r.Matches(kind, vnum)
	}, func(r *requirement.Requirement) { r.Current += delta })
}

// BuildingGained is called after the empire finishes a building.
func (t *Tracker) BuildingGained(e Empire, vnum int) bool {
	a := t.adjust(e, requirement.KindOwnBuilding, vnum, 1)
	b := t.refreshKinds(e, requirement.KindOwnBuildingFunction, requirement.KindOwnHomes)
	return a || b
}

// BuildingLost is called after the empire loses a building.
func (t *Tracker) BuildingLost(e Empire, vnum int) bool {
	a := t.adjust(e, requirement.KindOwnBuilding, vnum, -1)
	b := t.refreshKinds(e, requirement.KindOwnBuildingFunction, requirement.KindOwnHomes)
	return a || b
}

// VehicleGained is called after the empire gains a vehicle.
func (t *Tracker) VehicleGained(e Empire, vnum int) bool {
	a := t.adjust(e, requirement.KindOwnVehicle, vnum, 1)
	b := t.refreshKinds(e, requirement.KindOwnVehicleFlagged)
	return a || b
}

// VehicleLost is called after the empire loses a vehicle.
func (t *Tracker) VehicleLost(e Empire, vnum int) bool {
	a := t.adjust(e, requirement.KindOwnVehicle, vnum, -1)
	b := t.refreshKinds(e, requirement.KindOwnVehicleFlagged)
	return a || b
}

// TileGained is called after the empire claims a tile of the given sector.
func (t *Tracker) TileGained(e Empire, sector int) bool {
	a := t.adjust(e, requirement.KindOwnSector, sector, 1)
	b := t.refreshKinds(e, requirement.KindCropVariety)
	return a || b
}

// TileLost is called after the empire loses a tile of the given sector.
func (t *Tracker) TileLost(e Empire, sector int) bool {
	a := t.adjust(e, requirement.KindOwnSector, sector, -1)
	b := t.refreshKinds(e, requirement.KindCropVariety)
	return a || b
}

// StatChanged is called when an empire aggregate (wealth, fame, military,
// greatness, diplomacy, cities) changes.
func (t *Tracker) StatChanged(e Empire) bool {
	return t.refreshKinds(e,
		requirement.KindGetCoins,
		requirement.KindEmpireWealth,
		requirement.KindEmpireFame,
		requirement.KindEmpireMilitary,
		requirement.KindEmpireGreatness,
		requirement.KindDiplomacy,
		requirement.KindHaveCity,
		requirement.KindCropVariety,
	)
}

// ProductionChanged is called when the empire's production total for an
// object changes.
func (t *Tracker) ProductionChanged(e Empire, vnum int) bool {
	subject := SubjectFor(e)
	return t.update(e, func(r *requirement.Requirement) bool {
		return r.Matches(requirement.KindEmpireProducedObject, vnum) || r.Kind == requirement.KindEmpireProducedComponent
	}, func(r *requirement.Requirement) { r.Refresh(subject) })
}

// EventChanged is called when an event starts or stops.
func (t *Tracker) EventChanged(e Empire, event int) bool {
	subject := SubjectFor(e)
	return t.update(e, func(r *requirement.Requirement) bool {
		return r.Matches(requirement.KindEventRunning, event) || r.Matches(requirement.KindEventNotRunning, event)
	}, func(r *requirement.Requirement) { r.Refresh(subject) })
}

// QuestCompleted is called when a member completes a quest.
func (t *Tracker) QuestCompleted(e Empire, questID int) bool {
	return t.update(e, func(r *requirement.Requirement) bool {
		return r.Matches(requirement.KindCompletedQuest, questID)
	}, func(r *requirement.Requirement) { r.Current = r.Needed })
}
