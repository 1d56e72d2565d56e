package engine

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/lawnchairsociety/questcore/internal/config"
	"github.com/lawnchairsociety/questcore/internal/faction"
	"github.com/lawnchairsociety/questcore/internal/progress"
	"github.com/lawnchairsociety/questcore/internal/quest"
	"github.com/lawnchairsociety/questcore/internal/requirement"
)

// fakeChar is an in-memory player.
type fakeChar struct {
	id          int
	name        string
	npc         bool
	level       int
	log         *quest.PlayerLog
	standings   *faction.Standings
	messages    []string
	objects     map[int]int
	skills      map[int]int
	abilities   map[int]bool
	coins       int
	noTutorials bool
	empire      *fakeEmpire
	room        *fakeRoom
	group       []Character
}

func newFakeChar(id int) *fakeChar {
	return &fakeChar{
		id:        id,
		name:      "Tester",
		level:     10,
		log:       quest.NewPlayerLog(),
		standings: faction.NewStandings(),
		objects:   make(map[int]int),
		skills:    make(map[int]int),
		abilities: make(map[int]bool),
	}
}

func (c *fakeChar) IsNPC() bool                         { return c.npc }
func (c *fakeChar) Standings() *faction.Standings       { return c.standings }
func (c *fakeChar) SendMessage(message string)          { c.messages = append(c.messages, message) }
func (c *fakeChar) ID() int                             { return c.id }
func (c *fakeChar) Name() string                        { return c.name }
func (c *fakeChar) Level() int                          { return c.level }
func (c *fakeChar) QuestLog() *quest.PlayerLog          { return c.log }
func (c *fakeChar) TutorialsDisabled() bool             { return c.noTutorials }
func (c *fakeChar) CountObjects(vnum int) int           { return c.objects[vnum] }
func (c *fakeChar) CountComponents(vnum, flags int) int { return 0 }
func (c *fakeChar) IsWearing(vnum int, orHas bool) bool { return orHas && c.objects[vnum] > 0 }
func (c *fakeChar) SkillLevel(skill int) int            { return c.skills[skill] }
func (c *fakeChar) CanGainSkill(skill int) bool         { return true }
func (c *fakeChar) HasAbility(ability int) bool         { return c.abilities[ability] }
func (c *fakeChar) Coins() int                          { return c.coins }
func (c *fakeChar) Currency(vnum int) int               { return 0 }
func (c *fakeChar) GroupMembers() []Character           { return c.group }

func (c *fakeChar) Empire() Empire {
	if c.empire == nil {
		return nil
	}
	return c.empire
}

func (c *fakeChar) Location() Room {
	if c.room == nil {
		return nil
	}
	return c.room
}

func (c *fakeChar) lastMessage() string {
	if len(c.messages) == 0 {
		return ""
	}
	return c.messages[len(c.messages)-1]
}

type fakeEmpire struct {
	id        int
	progress  *progress.EmpireProgress
	buildings map[int]int
	wealth    int
	members   []Character
	points    int
}

func newFakeEmpire(id int) *fakeEmpire {
	return &fakeEmpire{id: id, progress: progress.NewEmpireProgress(), buildings: make(map[int]int)}
}

func (e *fakeEmpire) CountBuildings(vnum int) int              { return e.buildings[vnum] }
func (e *fakeEmpire) CountBuildingsWithFunction(flags int) int { return 0 }
func (e *fakeEmpire) CountVehicles(vnum int) int               { return 0 }
func (e *fakeEmpire) CountVehiclesFlagged(flags int) int       { return 0 }
func (e *fakeEmpire) CountHomes() int                          { return 0 }
func (e *fakeEmpire) CountSector(vnum int) int                 { return 0 }
func (e *fakeEmpire) CropVariety() int                         { return 0 }
func (e *fakeEmpire) Wealth() int                              { return e.wealth }
func (e *fakeEmpire) Fame() int                                { return 0 }
func (e *fakeEmpire) Military() int                            { return 0 }
func (e *fakeEmpire) Greatness() int                           { return 0 }
func (e *fakeEmpire) Diplomacy(flags int) int                  { return 0 }
func (e *fakeEmpire) Cities() int                              { return 0 }
func (e *fakeEmpire) Produced(vnum int) int                    { return 0 }
func (e *fakeEmpire) ProducedComponent(vnum, flags int) int    { return 0 }
func (e *fakeEmpire) Progress() *progress.EmpireProgress       { return e.progress }
func (e *fakeEmpire) MemberCompletedQuest(id int) bool         { return false }
func (e *fakeEmpire) EventRunning(event int) bool              { return false }
func (e *fakeEmpire) AddProgressPoints(points int)             { e.points += points }
func (e *fakeEmpire) SpendProgressPoints(points int) bool      { return false }
func (e *fakeEmpire) SendLog(message string)                   {}
func (e *fakeEmpire) ID() int                                  { return e.id }
func (e *fakeEmpire) OnlineMembers() []Character               { return e.members }

// fakeEntity is a live mob, object or vehicle.
type fakeEntity struct {
	proto    quest.Giver
	lookups  quest.Lookups
	empire   int
	instance int
	inCity   bool
	hidden   bool
	locked   bool
}

func (f *fakeEntity) SetQuestLookups(l quest.Lookups) { f.lookups = l }
func (f *fakeEntity) Prototype() quest.Giver          { return f.proto }
func (f *fakeEntity) QuestLookups() quest.Lookups     { return f.lookups }
func (f *fakeEntity) EmpireID() int                   { return f.empire }
func (f *fakeEntity) InstanceID() int                 { return f.instance }
func (f *fakeEntity) InCity() bool                    { return f.inCity }
func (f *fakeEntity) VisibleTo(ch Character) bool     { return !f.hidden }
func (f *fakeEntity) CanBeUsedBy(ch Character) bool   { return !f.locked }

type fakeRoom struct {
	building, template, sector int
	empire, instance           int
	inCity                     bool
}

func (r *fakeRoom) Building() int                 { return r.building }
func (r *fakeRoom) Template() int                 { return r.template }
func (r *fakeRoom) Sector() int                   { return r.sector }
func (r *fakeRoom) EmpireID() int                 { return r.empire }
func (r *fakeRoom) InstanceID() int               { return r.instance }
func (r *fakeRoom) InCity() bool                  { return r.inCity }
func (r *fakeRoom) CanBeUsedBy(ch Character) bool { return true }

// fakeProto is a world prototype with its spawned copies.
type fakeProto struct {
	lookups   quest.Lookups
	instances []*fakeEntity
}

func (p *fakeProto) SetQuestLookups(l quest.Lookups) { p.lookups = l }
func (p *fakeProto) LiveInstances() []quest.LookupHolder {
	out := make([]quest.LookupHolder, len(p.instances))
	for i, inst := range p.instances {
		out[i] = inst
	}
	return out
}

type fakeWorld struct {
	protos    map[quest.Giver]*fakeProto
	events    map[int]bool
	instances map[int]int // instance -> adventure
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{
		protos:    make(map[quest.Giver]*fakeProto),
		events:    make(map[int]bool),
		instances: make(map[int]int),
	}
}

func (w *fakeWorld) ResolvePrototype(kind quest.GiverKind, vnum int) (quest.Prototype, bool) {
	p, ok := w.protos[quest.Giver{Kind: kind, Vnum: vnum}]
	if !ok {
		return nil, false
	}
	return p, true
}

func (w *fakeWorld) EventRunning(event int) bool { return w.events[event] }
func (w *fakeWorld) InstanceActive(id int) bool  { _, ok := w.instances[id]; return ok }
func (w *fakeWorld) AdventureOf(id int) int      { return w.instances[id] }

// spawn registers a prototype and returns a live copy of it.
func (w *fakeWorld) spawn(kind quest.GiverKind, vnum int) *fakeEntity {
	g := quest.Giver{Kind: kind, Vnum: vnum}
	p, ok := w.protos[g]
	if !ok {
		p = &fakeProto{}
		w.protos[g] = p
	}
	ent := &fakeEntity{proto: g, lookups: p.lookups}
	p.instances = append(p.instances, ent)
	return ent
}

// fakeRewarder applies rewards straight to the fake character.
type fakeRewarder struct {
	exp       int
	given     []int
	extracted map[int]int
	events    map[int]int
}

func (r *fakeRewarder) GainExperience(ch Character, amount int) { r.exp += amount }
func (r *fakeRewarder) GiveCoins(ch Character, amount int)      { ch.(*fakeChar).coins += amount }
func (r *fakeRewarder) GiveCurrency(ch Character, vnum, amount int) error {
	return nil
}
func (r *fakeRewarder) GiveObject(ch Character, vnum, count, level int) error {
	ch.(*fakeChar).objects[vnum] += count
	r.given = append(r.given, vnum)
	return nil
}
func (r *fakeRewarder) GainSkillExp(ch Character, skill, amount int) error { return nil }
func (r *fakeRewarder) SetSkillLevel(ch Character, skill, level int) error {
	ch.(*fakeChar).skills[skill] = level
	return nil
}
func (r *fakeRewarder) GiveEventPoints(ch Character, event, amount int) error {
	if r.events == nil {
		r.events = make(map[int]int)
	}
	r.events[event] += amount
	return nil
}
func (r *fakeRewarder) ExtractObjects(ch Character, vnum, count int) {
	if r.extracted == nil {
		r.extracted = make(map[int]int)
	}
	r.extracted[vnum] += count
	ch.(*fakeChar).objects[vnum] -= count
}

type fakeRoster struct {
	chars []Character
}

func (r *fakeRoster) OnlineCharacters() []Character { return r.chars }

type fakeStore struct {
	err   error
	saved []*quest.Completion
}

func (s *fakeStore) SaveCompletion(ctx context.Context, characterID int, rec *quest.Completion) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, rec)
	return nil
}

// testEnv bundles an engine with its fakes.
type testEnv struct {
	e       *Engine
	world   *fakeWorld
	rewards *fakeRewarder
	roster  *fakeRoster
	store   *fakeStore
	now     time.Time
}

var testStart = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		world:   newFakeWorld(),
		rewards: &fakeRewarder{},
		roster:  &fakeRoster{},
		store:   &fakeStore{},
		now:     testStart,
	}
	c := NewContent(env.world)
	c.Factions.Add(&faction.Faction{
		ID: 1, Name: "Merchant Guild", MinRung: 1, MaxRung: 9, StartRung: 5,
		Relations: map[int]faction.RelationFlags{2: faction.RelInverse},
	})
	c.Factions.Add(&faction.Faction{
		ID: 2, Name: "Thieves", MinRung: 1, MaxRung: 9, StartRung: 5,
		Relations: map[int]faction.RelationFlags{1: faction.RelInverse},
	})

	e, err := New(c, Options{
		Config: config.QuestConfig{
			DailyReset:    "0 0 * * *",
			DailiesPerDay: 20,
			ImmortalLevel: 100,
		},
		World:   env.world,
		Rewards: env.rewards,
		Roster:  env.roster,
		Store:   env.store,
		Rand:    rand.New(rand.NewPCG(1, 2)),
		Now:     func() time.Time { return env.now },
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	env.e = e
	return env
}

// addQuest stores q and indexes it.
func (env *testEnv) addQuest(q *quest.Quest) *quest.Quest {
	env.e.content.Quests.Add(q)
	env.e.content.Index.Rebuild(q, true)
	return q
}

// online adds characters to the roster.
func (env *testEnv) online(chars ...*fakeChar) {
	for _, ch := range chars {
		env.roster.chars = append(env.roster.chars, ch)
	}
}

func mobGiver(vnum int) []quest.Giver {
	return []quest.Giver{{Kind: quest.GiverMobile, Vnum: vnum}}
}

func getObject(vnum, needed int) requirement.List {
	return requirement.List{{Kind: requirement.KindGetObject, Vnum: vnum, Needed: needed}}
}
