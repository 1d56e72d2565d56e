package requirement

import (
	"fmt"
	"strings"
)

// Kind identifies what a requirement measures.
type Kind int

const (
	KindInvalid Kind = iota
	KindCompletedQuest
	KindNotCompletedQuest
	KindNotOnQuest
	KindGetComponent
	KindGetObject
	KindKillMob
	KindKillMobFlagged
	KindOwnBuilding
	KindOwnBuildingFunction
	KindOwnVehicle
	KindOwnVehicleFlagged
	KindOwnHomes
	KindOwnSector
	KindSkillLevelOver
	KindSkillLevelUnder
	KindLevelOver
	KindLevelUnder
	KindCanGainSkill
	KindHaveAbility
	KindReputationOver
	KindReputationUnder
	KindWearing
	KindWearingOrHas
	KindGetCoins
	KindGetCurrency
	KindTriggeredScript
	KindVisitBuilding
	KindVisitRoomTemplate
	KindVisitSector
	KindCropVariety
	KindEmpireWealth
	KindEmpireFame
	KindEmpireMilitary
	KindEmpireGreatness
	KindDiplomacy
	KindHaveCity
	KindEmpireProducedObject
	KindEmpireProducedComponent
	KindEventRunning
	KindEventNotRunning

	kindCount
)

// Amount describes how a kind's progress counter is interpreted.
type Amount int

const (
	// AmountNone is a yes/no condition: Needed is 1 and Current is 0 or 1.
	AmountNone Amount = iota
	// AmountNumber counts toward Needed.
	AmountNumber
	// AmountThreshold compares a live value against Needed. Current is
	// either Needed (passing) or 0.
	AmountThreshold
	// AmountReputation compares a faction standing (Vnum) against a ladder
	// rung (Misc). Needed is 1 and Current is 0 or 1.
	AmountReputation
)

func (a Amount) String() string {
	switch a {
	case AmountNone:
		return "none"
	case AmountNumber:
		return "number"
	case AmountThreshold:
		return "threshold"
	case AmountReputation:
		return "reputation"
	default:
		return fmt.Sprintf("amount(%d)", int(a))
	}
}

// kindSpec is everything the engine knows about a kind.
type kindSpec struct {
	name       string // YAML and display name
	amount     Amount
	prereqOnly bool // only meaningful as a prerequisite
	empire     bool // measured against the subject's empire

	// refresh recomputes Current from live state. Nil means the kind only
	// changes through event hooks.
	refresh func(s Subject, r *Requirement) int
}

var kinds = [kindCount]kindSpec{
	KindInvalid: {name: "invalid"},

	KindCompletedQuest: {name: "completed-quest", amount: AmountNone,
		refresh: func(s Subject, r *Requirement) int { return boolInt(s.HasCompletedQuest(r.Vnum)) }},
	KindNotCompletedQuest: {name: "not-completed-quest", amount: AmountNone, prereqOnly: true,
		refresh: func(s Subject, r *Requirement) int { return boolInt(!s.HasCompletedQuest(r.Vnum)) }},
	KindNotOnQuest: {name: "not-on-quest", amount: AmountNone, prereqOnly: true,
		refresh: func(s Subject, r *Requirement) int { return boolInt(!s.IsOnQuest(r.Vnum)) }},

	KindGetComponent: {name: "get-component", amount: AmountNumber,
		refresh: func(s Subject, r *Requirement) int { return s.CountComponents(r.Vnum, r.Misc) }},
	KindGetObject: {name: "get-object", amount: AmountNumber,
		refresh: func(s Subject, r *Requirement) int { return s.CountObjects(r.Vnum) }},

	KindKillMob:        {name: "kill-mob", amount: AmountNumber},
	KindKillMobFlagged: {name: "kill-mob-flagged", amount: AmountNumber},

	KindOwnBuilding: {name: "own-building", amount: AmountNumber, empire: true,
		refresh: empireCount(func(e EmpireStats, r *Requirement) int { return e.CountBuildings(r.Vnum) })},
	KindOwnBuildingFunction: {name: "own-building-function", amount: AmountNumber, empire: true,
		refresh: empireCount(func(e EmpireStats, r *Requirement) int { return e.CountBuildingsWithFunction(r.Misc) })},
	KindOwnVehicle: {name: "own-vehicle", amount: AmountNumber, empire: true,
		refresh: empireCount(func(e EmpireStats, r *Requirement) int { return e.CountVehicles(r.Vnum) })},
	KindOwnVehicleFlagged: {name: "own-vehicle-flagged", amount: AmountNumber, empire: true,
		refresh: empireCount(func(e EmpireStats, r *Requirement) int { return e.CountVehiclesFlagged(r.Misc) })},
	KindOwnHomes: {name: "own-homes", amount: AmountNumber, empire: true,
		refresh: empireCount(func(e EmpireStats, r *Requirement) int { return e.CountHomes() })},
	KindOwnSector: {name: "own-sector", amount: AmountNumber, empire: true,
		refresh: empireCount(func(e EmpireStats, r *Requirement) int { return e.CountSector(r.Vnum) })},

	KindSkillLevelOver: {name: "skill-level-over", amount: AmountThreshold,
		refresh: func(s Subject, r *Requirement) int { return threshold(s.SkillLevel(r.Vnum) >= r.Needed, r) }},
	KindSkillLevelUnder: {name: "skill-level-under", amount: AmountThreshold,
		refresh: func(s Subject, r *Requirement) int { return threshold(s.SkillLevel(r.Vnum) <= r.Needed, r) }},
	KindLevelOver: {name: "level-over", amount: AmountThreshold,
		refresh: func(s Subject, r *Requirement) int { return threshold(s.Level() >= r.Needed, r) }},
	KindLevelUnder: {name: "level-under", amount: AmountThreshold,
		refresh: func(s Subject, r *Requirement) int { return threshold(s.Level() <= r.Needed, r) }},

	KindCanGainSkill: {name: "can-gain-skill", amount: AmountNone,
		refresh: func(s Subject, r *Requirement) int { return boolInt(s.CanGainSkill(r.Vnum)) }},
	KindHaveAbility: {name: "have-ability", amount: AmountNone,
		refresh: func(s Subject, r *Requirement) int { return boolInt(s.HasAbility(r.Vnum)) }},

	KindReputationOver: {name: "reputation-over", amount: AmountReputation,
		refresh: func(s Subject, r *Requirement) int { return boolInt(s.CompareReputation(r.Vnum, r.Misc) >= 0) }},
	KindReputationUnder: {name: "reputation-under", amount: AmountReputation,
		refresh: func(s Subject, r *Requirement) int { return boolInt(s.CompareReputation(r.Vnum, r.Misc) <= 0) }},

	KindWearing: {name: "wearing", amount: AmountNone,
		refresh: func(s Subject, r *Requirement) int { return boolInt(s.IsWearing(r.Vnum, false)) }},
	KindWearingOrHas: {name: "wearing-or-has", amount: AmountNone,
		refresh: func(s Subject, r *Requirement) int { return boolInt(s.IsWearing(r.Vnum, true)) }},

	KindGetCoins: {name: "get-coins", amount: AmountNumber,
		refresh: func(s Subject, r *Requirement) int { return s.Coins() }},
	KindGetCurrency: {name: "get-currency", amount: AmountNumber,
		refresh: func(s Subject, r *Requirement) int { return s.Currency(r.Vnum) }},

	KindTriggeredScript:   {name: "triggered-script", amount: AmountNone},
	KindVisitBuilding:     {name: "visit-building", amount: AmountNone},
	KindVisitRoomTemplate: {name: "visit-room-template", amount: AmountNone},
	KindVisitSector:       {name: "visit-sector", amount: AmountNone},

	KindCropVariety: {name: "crop-variety", amount: AmountNumber, empire: true,
		refresh: empireCount(func(e EmpireStats, r *Requirement) int { return e.CropVariety() })},
	KindEmpireWealth: {name: "empire-wealth", amount: AmountNumber, empire: true,
		refresh: empireCount(func(e EmpireStats, r *Requirement) int { return e.Wealth() })},
	KindEmpireFame: {name: "empire-fame", amount: AmountNumber, empire: true,
		refresh: empireCount(func(e EmpireStats, r *Requirement) int { return e.Fame() })},
	KindEmpireMilitary: {name: "empire-military", amount: AmountNumber, empire: true,
		refresh: empireCount(func(e EmpireStats, r *Requirement) int { return e.Military() })},
	KindEmpireGreatness: {name: "empire-greatness", amount: AmountNumber, empire: true,
		refresh: empireCount(func(e EmpireStats, r *Requirement) int { return e.Greatness() })},
	KindDiplomacy: {name: "diplomacy", amount: AmountNumber, empire: true,
		refresh: empireCount(func(e EmpireStats, r *Requirement) int { return e.Diplomacy(r.Misc) })},
	KindHaveCity: {name: "have-city", amount: AmountNumber, empire: true,
		refresh: empireCount(func(e EmpireStats, r *Requirement) int { return e.Cities() })},
	KindEmpireProducedObject: {name: "empire-produced-object", amount: AmountNumber, empire: true,
		refresh: empireCount(func(e EmpireStats, r *Requirement) int { return e.Produced(r.Vnum) })},
	KindEmpireProducedComponent: {name: "empire-produced-component", amount: AmountNumber, empire: true,
		refresh: empireCount(func(e EmpireStats, r *Requirement) int { return e.ProducedComponent(r.Vnum, r.Misc) })},

	KindEventRunning: {name: "event-running", amount: AmountNone,
		refresh: func(s Subject, r *Requirement) int { return boolInt(s.EventRunning(r.Vnum)) }},
	KindEventNotRunning: {name: "event-not-running", amount: AmountNone,
		refresh: func(s Subject, r *Requirement) int { return boolInt(!s.EventRunning(r.Vnum)) }},
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, kindCount)
	for k := KindInvalid + 1; k < kindCount; k++ {
		m[kinds[k].name] = k
	}
	return m
}()

// ParseKind returns the kind with the given YAML name.
func ParseKind(name string) (Kind, error) {
	k, ok := kindsByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return KindInvalid, fmt.Errorf("unknown requirement type %q", name)
	}
	return k, nil
}

// Kinds returns every valid kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount-1)
	for k := KindInvalid + 1; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

func (k Kind) spec() *kindSpec {
	if k <= KindInvalid || k >= kindCount {
		return &kinds[KindInvalid]
	}
	return &kinds[k]
}

func (k Kind) String() string {
	if k <= KindInvalid || k >= kindCount {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kinds[k].name
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool { return k > KindInvalid && k < kindCount }

// Amount returns the kind's progress semantics.
func (k Kind) Amount() Amount { return k.spec().amount }

// Refreshable reports whether Current can be recomputed from a snapshot.
func (k Kind) Refreshable() bool { return k.spec().refresh != nil }

// PrereqOnly reports whether the kind may only appear in prerequisite lists.
func (k Kind) PrereqOnly() bool { return k.spec().prereqOnly }

// EmpireScoped reports whether the kind reads the subject's empire.
func (k Kind) EmpireScoped() bool { return k.spec().empire }

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func threshold(pass bool, r *Requirement) int {
	if pass {
		return r.Needed
	}
	return 0
}

// empireCount reads an empire aggregate, or 0 when the subject has no empire.
func empireCount(fn func(e EmpireStats, r *Requirement) int) func(Subject, *Requirement) int {
	return func(s Subject, r *Requirement) int {
		e := s.Empire()
		if e == nil {
			return 0
		}
		return fn(e, r)
	}
}
