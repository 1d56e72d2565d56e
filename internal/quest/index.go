package quest

import (
	"sort"

	"github.com/lawnchairsociety/questcore/internal/logger"
)

// Direction says whether a giver starts or ends a quest.
type Direction int

const (
	Starts Direction = iota + 1
	Ends
)

func (d Direction) String() string {
	if d == Ends {
		return "ends"
	}
	return "starts"
}

// GiverRef identifies the prototype a lookup list belongs to.
type GiverRef = Giver

// LookupEntry is a weak reference from a prototype to a quest: the quest is
// resolved through the catalog by id on use.
type LookupEntry struct {
	QuestID   int
	Direction Direction
}

// Lookups is an immutable snapshot of the entries for one prototype. Holders
// may cache it; the index replaces it rather than modifying it.
type Lookups []LookupEntry

// Has reports whether the snapshot contains questID in direction dir.
func (l Lookups) Has(questID int, dir Direction) bool {
	for _, e := range l {
		if e.QuestID == questID && e.Direction == dir {
			return true
		}
	}
	return false
}

// LookupHolder is anything that caches a lookup snapshot: a prototype or one
// of its live instances.
type LookupHolder interface {
	SetQuestLookups(lookups Lookups)
}

// Prototype is a world prototype that can list its live instances.
type Prototype interface {
	LookupHolder
	LiveInstances() []LookupHolder
}

// PrototypeResolver finds world prototypes by giver kind and vnum.
type PrototypeResolver interface {
	ResolvePrototype(kind GiverKind, vnum int) (Prototype, bool)
}

// LookupIndex maps world prototypes to the quests they start or end.
type LookupIndex struct {
	resolver PrototypeResolver
	byRef    map[GiverRef]Lookups
}

// NewLookupIndex creates an empty index. resolver may be nil, in which case
// nothing outside the index is updated.
func NewLookupIndex(resolver PrototypeResolver) *LookupIndex {
	return &LookupIndex{
		resolver: resolver,
		byRef:    make(map[GiverRef]Lookups),
	}
}

// Lookups returns the current snapshot for ref.
func (idx *LookupIndex) Lookups(ref GiverRef) Lookups {
	return idx.byRef[ref]
}

// Refs returns every indexed ref in a stable order.
func (idx *LookupIndex) Refs() []GiverRef {
	set := make(map[GiverRef]bool, len(idx.byRef))
	for ref := range idx.byRef {
		set[ref] = true
	}
	return sortedRefs(set)
}

// Rebuild adds or removes q's entries for every giver in both directions,
// then pushes the new snapshots to the affected prototypes.
func (idx *LookupIndex) Rebuild(q *Quest, add bool) {
	touched := make(map[GiverRef]bool)
	apply := func(dir Direction, givers []Giver) {
		for _, g := range givers {
			if idx.update(g, LookupEntry{QuestID: q.ID, Direction: dir}, add) {
				touched[g] = true
			}
		}
	}
	apply(Starts, q.StartsAt)
	apply(Ends, q.EndsAt)

	for _, ref := range sortedRefs(touched) {
		idx.push(ref)
	}
}

// RemoveQuest drops every entry for questID regardless of the quest's
// current givers.
func (idx *LookupIndex) RemoveQuest(questID int) {
	touched := make(map[GiverRef]bool)
	for ref, list := range idx.byRef {
		next := make(Lookups, 0, len(list))
		for _, e := range list {
			if e.QuestID != questID {
				next = append(next, e)
			}
		}
		if len(next) == len(list) {
			continue
		}
		idx.store(ref, next)
		touched[ref] = true
	}
	for _, ref := range sortedRefs(touched) {
		idx.push(ref)
	}
}

// BuildAll rebuilds the whole index from the catalog.
func (idx *LookupIndex) BuildAll(c *Catalog) {
	old := idx.byRef
	idx.byRef = make(map[GiverRef]Lookups)
	for _, q := range c.All() {
		for _, g := range q.StartsAt {
			idx.update(g, LookupEntry{QuestID: q.ID, Direction: Starts}, true)
		}
		for _, g := range q.EndsAt {
			idx.update(g, LookupEntry{QuestID: q.ID, Direction: Ends}, true)
		}
	}

	touched := make(map[GiverRef]bool, len(old)+len(idx.byRef))
	for ref := range old {
		touched[ref] = true
	}
	for ref := range idx.byRef {
		touched[ref] = true
	}
	for _, ref := range sortedRefs(touched) {
		idx.push(ref)
	}
}

// update copies the snapshot for ref with e added or removed and reports
// whether it changed.
func (idx *LookupIndex) update(ref GiverRef, e LookupEntry, add bool) bool {
	list := idx.byRef[ref]
	has := list.Has(e.QuestID, e.Direction)
	if add == has {
		return false
	}

	next := make(Lookups, 0, len(list)+1)
	for _, have := range list {
		if have != e {
			next = append(next, have)
		}
	}
	if add {
		next = append(next, e)
	}
	idx.store(ref, next)
	return true
}

func (idx *LookupIndex) store(ref GiverRef, list Lookups) {
	if len(list) == 0 {
		delete(idx.byRef, ref)
		return
	}
	idx.byRef[ref] = list
}

// push hands the current snapshot to the prototype and, for kinds with live
// instances, to every spawned copy.
func (idx *LookupIndex) push(ref GiverRef) {
	if idx.resolver == nil || !ref.Kind.HasPrototype() {
		return
	}
	proto, ok := idx.resolver.ResolvePrototype(ref.Kind, ref.Vnum)
	if !ok {
		logger.Warning("Quest giver prototype not found", "kind", ref.Kind.String(), "vnum", ref.Vnum)
		return
	}

	snapshot := idx.byRef[ref]
	proto.SetQuestLookups(snapshot)
	if !ref.Kind.HasInstances() {
		return
	}
	for _, inst := range proto.LiveInstances() {
		inst.SetQuestLookups(snapshot)
	}
}

func sortedRefs(set map[GiverRef]bool) []GiverRef {
	refs := make([]GiverRef, 0, len(set))
	for ref := range set {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Kind != refs[j].Kind {
			return refs[i].Kind < refs[j].Kind
		}
		return refs[i].Vnum < refs[j].Vnum
	})
	return refs
}
