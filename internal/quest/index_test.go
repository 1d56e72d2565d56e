package quest

import "testing"

type fakeHolder struct {
	lookups Lookups
	sets    int
}

func (h *fakeHolder) SetQuestLookups(l Lookups) {
	h.lookups = l
	h.sets++
}

type fakePrototype struct {
	fakeHolder
	instances []*fakeHolder
}

func (p *fakePrototype) LiveInstances() []LookupHolder {
	out := make([]LookupHolder, len(p.instances))
	for i, inst := range p.instances {
		out[i] = inst
	}
	return out
}

type fakeResolver struct {
	protos map[Giver]*fakePrototype
}

func (r *fakeResolver) ResolvePrototype(kind GiverKind, vnum int) (Prototype, bool) {
	p, ok := r.protos[Giver{Kind: kind, Vnum: vnum}]
	if !ok {
		return nil, false
	}
	return p, true
}

func newFakeWorld() *fakeResolver {
	return &fakeResolver{protos: map[Giver]*fakePrototype{
		{Kind: GiverMobile, Vnum: 3001}:   {instances: []*fakeHolder{{}, {}}},
		{Kind: GiverBuilding, Vnum: 5100}: {},
	}}
}

func TestLookupIndexRebuildAddRemove(t *testing.T) {
	world := newFakeWorld()
	idx := NewLookupIndex(world)
	q := &Quest{
		ID:       1200,
		StartsAt: []Giver{{Kind: GiverMobile, Vnum: 3001}, {Kind: GiverTrigger, Vnum: 9}},
		EndsAt:   []Giver{{Kind: GiverBuilding, Vnum: 5100}, {Kind: GiverMobile, Vnum: 3001}},
	}

	idx.Rebuild(q, true)

	mob := world.protos[Giver{Kind: GiverMobile, Vnum: 3001}]
	if !mob.lookups.Has(1200, Starts) || !mob.lookups.Has(1200, Ends) {
		t.Errorf("mob prototype lookups = %v", mob.lookups)
	}
	for i, inst := range mob.instances {
		if !inst.lookups.Has(1200, Starts) {
			t.Errorf("instance %d not re-pointed: %v", i, inst.lookups)
		}
	}
	if !idx.Lookups(Giver{Kind: GiverTrigger, Vnum: 9}).Has(1200, Starts) {
		t.Error("trigger lookups should be kept in the index")
	}

	idx.Rebuild(q, false)

	if len(idx.Refs()) != 0 {
		t.Errorf("index should be empty, refs = %v", idx.Refs())
	}
	if len(mob.lookups) != 0 {
		t.Errorf("mob prototype still references quest: %v", mob.lookups)
	}
	for i, inst := range mob.instances {
		if len(inst.lookups) != 0 {
			t.Errorf("instance %d still references quest: %v", i, inst.lookups)
		}
	}
	if bld := world.protos[Giver{Kind: GiverBuilding, Vnum: 5100}]; len(bld.lookups) != 0 {
		t.Errorf("building still references quest: %v", bld.lookups)
	}
}

func TestLookupIndexBuildingHasNoInstances(t *testing.T) {
	world := newFakeWorld()
	bld := world.protos[Giver{Kind: GiverBuilding, Vnum: 5100}]
	bld.instances = []*fakeHolder{{}}

	idx := NewLookupIndex(world)
	idx.Rebuild(&Quest{ID: 1, StartsAt: []Giver{{Kind: GiverBuilding, Vnum: 5100}}}, true)

	if bld.instances[0].sets != 0 {
		t.Error("building instances must not be re-pointed")
	}
	if !bld.lookups.Has(1, Starts) {
		t.Error("building prototype should be updated")
	}
}

func TestLookupIndexSnapshotsAreImmutable(t *testing.T) {
	idx := NewLookupIndex(nil)
	ref := Giver{Kind: GiverMobile, Vnum: 1}
	idx.Rebuild(&Quest{ID: 1, StartsAt: []Giver{ref}}, true)

	held := idx.Lookups(ref)
	idx.Rebuild(&Quest{ID: 2, StartsAt: []Giver{ref}}, true)

	if len(held) != 1 {
		t.Errorf("held snapshot changed: %v", held)
	}
	if got := idx.Lookups(ref); len(got) != 2 {
		t.Errorf("current lookups = %v, want two entries", got)
	}
}

func TestLookupIndexRebuildIsIdempotent(t *testing.T) {
	world := newFakeWorld()
	idx := NewLookupIndex(world)
	q := &Quest{ID: 1, StartsAt: []Giver{{Kind: GiverMobile, Vnum: 3001}}}

	idx.Rebuild(q, true)
	mob := world.protos[Giver{Kind: GiverMobile, Vnum: 3001}]
	sets := mob.sets
	idx.Rebuild(q, true)

	if mob.sets != sets {
		t.Error("unchanged index should not re-point prototypes")
	}
	if len(idx.Lookups(Giver{Kind: GiverMobile, Vnum: 3001})) != 1 {
		t.Error("duplicate entry added")
	}
}

func TestLookupIndexRemoveQuest(t *testing.T) {
	idx := NewLookupIndex(newFakeWorld())
	old := &Quest{ID: 1, StartsAt: []Giver{{Kind: GiverMobile, Vnum: 3001}}}
	idx.Rebuild(old, true)
	idx.Rebuild(&Quest{ID: 2, StartsAt: []Giver{{Kind: GiverMobile, Vnum: 3001}}}, true)

	idx.RemoveQuest(1)

	got := idx.Lookups(Giver{Kind: GiverMobile, Vnum: 3001})
	if got.Has(1, Starts) || !got.Has(2, Starts) {
		t.Errorf("lookups after RemoveQuest = %v", got)
	}
}

func TestLookupIndexBuildAll(t *testing.T) {
	world := newFakeWorld()
	idx := NewLookupIndex(world)
	stale := Giver{Kind: GiverVehicle, Vnum: 77}
	idx.Rebuild(&Quest{ID: 99, StartsAt: []Giver{stale}}, true)

	idx.BuildAll(newTestCatalog(t))

	if len(idx.Lookups(stale)) != 0 {
		t.Error("BuildAll should drop entries for quests not in the catalog")
	}
	mob := idx.Lookups(Giver{Kind: GiverMobile, Vnum: 3001})
	if !mob.Has(1100, Starts) || !mob.Has(1100, Ends) || !mob.Has(1200, Starts) {
		t.Errorf("mob lookups = %v", mob)
	}
	if proto := world.protos[Giver{Kind: GiverMobile, Vnum: 3001}]; len(proto.lookups) != 3 {
		t.Errorf("prototype lookups = %v", proto.lookups)
	}
}
