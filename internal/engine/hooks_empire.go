package engine

import (
	"github.com/lawnchairsociety/questcore/internal/requirement"
)

// Empire hooks update the empire's goal trackers and then the quest
// trackers of its online members, whose empire-scoped tasks read the same
// state.

// forMembers runs fn for each online member of emp.
func forMembers(emp Empire, fn func(ch Character)) {
	for _, ch := range emp.OnlineMembers() {
		if isPlayer(ch) {
			fn(ch)
		}
	}
}

// settleGoals completes any goal the last change finished.
func (e *Engine) settleGoals(emp Empire, changed bool) {
	if changed {
		e.goals.CompleteReadyGoals(emp)
	}
}

// BuildingGained is called after emp finishes a building.
func (e *Engine) BuildingGained(emp Empire, vnum int) {
	if emp == nil {
		return
	}
	e.settleGoals(emp, e.goals.BuildingGained(emp, vnum))
	e.refreshMembers(emp, buildingTasks(vnum))
}

// BuildingLost is called after emp loses a building.
func (e *Engine) BuildingLost(emp Empire, vnum int) {
	if emp == nil {
		return
	}
	e.settleGoals(emp, e.goals.BuildingLost(emp, vnum))
	e.refreshMembers(emp, buildingTasks(vnum))
}

func buildingTasks(vnum int) matcher {
	return func(r *requirement.Requirement) bool {
		switch r.Kind {
		case requirement.KindOwnBuilding:
			return r.Vnum == vnum
		case requirement.KindOwnBuildingFunction, requirement.KindOwnHomes:
			return true
		}
		return false
	}
}

// VehicleGained is called after emp gains a vehicle.
func (e *Engine) VehicleGained(emp Empire, vnum int) {
	if emp == nil {
		return
	}
	e.settleGoals(emp, e.goals.VehicleGained(emp, vnum))
	e.refreshMembers(emp, vehicleTasks(vnum))
}

// VehicleLost is called after emp loses a vehicle.
func (e *Engine) VehicleLost(emp Empire, vnum int) {
	if emp == nil {
		return
	}
	e.settleGoals(emp, e.goals.VehicleLost(emp, vnum))
	e.refreshMembers(emp, vehicleTasks(vnum))
}

func vehicleTasks(vnum int) matcher {
	return func(r *requirement.Requirement) bool {
		return (r.Kind == requirement.KindOwnVehicle && r.Vnum == vnum) || r.Kind == requirement.KindOwnVehicleFlagged
	}
}

// TileGained is called after emp claims a tile.
func (e *Engine) TileGained(emp Empire, sector int) {
	if emp == nil {
		return
	}
	e.settleGoals(emp, e.goals.TileGained(emp, sector))
	e.refreshMembers(emp, tileTasks(sector))
}

// TileLost is called after emp loses a tile.
func (e *Engine) TileLost(emp Empire, sector int) {
	if emp == nil {
		return
	}
	e.settleGoals(emp, e.goals.TileLost(emp, sector))
	e.refreshMembers(emp, tileTasks(sector))
}

func tileTasks(sector int) matcher {
	return func(r *requirement.Requirement) bool {
		return (r.Kind == requirement.KindOwnSector && r.Vnum == sector) || r.Kind == requirement.KindCropVariety
	}
}

// EmpireStatChanged is called when an empire aggregate changes: wealth,
// fame, military, greatness, diplomacy or cities.
func (e *Engine) EmpireStatChanged(emp Empire) {
	if emp == nil {
		return
	}
	e.settleGoals(emp, e.goals.StatChanged(emp))
	e.refreshMembers(emp, kindIs(
		requirement.KindEmpireWealth,
		requirement.KindEmpireFame,
		requirement.KindEmpireMilitary,
		requirement.KindEmpireGreatness,
		requirement.KindDiplomacy,
		requirement.KindHaveCity,
		requirement.KindCropVariety,
	))
}

// ProductionChanged is called when emp's production total for an object
// changes.
func (e *Engine) ProductionChanged(emp Empire, vnum int) {
	if emp == nil {
		return
	}
	e.settleGoals(emp, e.goals.ProductionChanged(emp, vnum))
	e.refreshMembers(emp, func(r *requirement.Requirement) bool {
		return (r.Kind == requirement.KindEmpireProducedObject && r.Vnum == vnum) ||
			r.Kind == requirement.KindEmpireProducedComponent
	})
}

// EventStartedStopped is called when an event starts or stops. Every
// online character's event tasks refresh; quests tied to a stopped event
// are dropped.
func (e *Engine) EventStartedStopped(event int) {
	running := e.world.EventRunning(event)
	empires := make(map[int]Empire)
	for _, ch := range e.online() {
		if !isPlayer(ch) {
			continue
		}
		e.refreshTasks(ch, target(event, requirement.KindEventRunning, requirement.KindEventNotRunning))
		if !running {
			e.RefreshAllQuests(ch)
		}
		if emp := ch.Empire(); emp != nil {
			empires[emp.ID()] = emp
		}
	}
	for _, emp := range empires {
		e.settleGoals(emp, e.goals.EventChanged(emp, event))
	}
}

// UpdateEmpireGoals validates emp's goal trackers, starts newly eligible
// goals and completes finished ones. Hosts call it on load and after goal
// content changes.
func (e *Engine) UpdateEmpireGoals(emp Empire) {
	if emp == nil || emp.Progress() == nil {
		return
	}
	e.goals.Verify(emp)
	e.goals.CheckEligibleGoals(emp)
	e.goals.CompleteReadyGoals(emp)
}

func (e *Engine) refreshMembers(emp Empire, match matcher) {
	forMembers(emp, func(ch Character) { e.refreshTasks(ch, match) })
}
