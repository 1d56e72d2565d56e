package requirement

// Subject is the live state a requirement is measured against. Players
// implement it directly; empires implement it through an adapter whose
// player-only methods report nothing.
type Subject interface {
	CountObjects(vnum int) int
	CountComponents(vnum, flags int) int
	IsWearing(vnum int, orCarrying bool) bool
	SkillLevel(skill int) int
	CanGainSkill(skill int) bool
	HasAbility(ability int) bool
	Level() int
	Coins() int
	Currency(vnum int) int
	HasCompletedQuest(questID int) bool
	IsOnQuest(questID int) bool

	// CompareReputation compares the subject's rung with faction against
	// rung by ladder position: -1 below, 0 equal, 1 above.
	CompareReputation(faction, rung int) int

	EventRunning(event int) bool

	// Empire returns the subject's empire, or nil.
	Empire() EmpireStats
}

// EmpireStats exposes the empire aggregates that empire-scoped kinds read.
type EmpireStats interface {
	CountBuildings(vnum int) int
	CountBuildingsWithFunction(flags int) int
	CountVehicles(vnum int) int
	CountVehiclesFlagged(flags int) int
	CountHomes() int
	CountSector(vnum int) int
	CropVariety() int
	Wealth() int
	Fame() int
	Military() int
	Greatness() int
	Diplomacy(flags int) int
	Cities() int
	Produced(vnum int) int
	ProducedComponent(vnum, flags int) int
}
