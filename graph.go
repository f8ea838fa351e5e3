package archecs

import (
	"hash/fnv"
	"unsafe"

	"github.com/kamstrup/intmap"
)

// Archetypes owns every Archetype in a World: the archetype store itself
// (an entity store over Archetype values), the root (zero-component) and
// reserved archetypes, and the add/remove edge graph.
//
// Grounded on lazyecs' World.getOrCreateArchetype/Transition/CopyOp
// caching (world.go) and AddComponent's transition-cache lookup
// (operations.go), generalized from "one component via a bitmask" into a
// full edge-graph walk over arbitrary ComponentKey sets. The archetype
// lookup table is backed by kamstrup/intmap — the same map implementation
// other_examples/plus3-ooftn/ecs reaches for on this exact hot path —
// instead of a plain Go map.
type Archetypes struct {
	store    *Store[*Archetype]
	root     ArchetypeID
	reserved ArchetypeID

	// bySignature accelerates "does an archetype with exactly this key set
	// already exist" without a full edge walk; it is a cache only — the
	// authoritative structure is the edge graph itself plus Archetype.keys.
	bySignature *intmap.Map[uint64, ArchetypeID]

	onNewArchetype func(*Archetype)
	onStructural   func()
}

func newArchetypes(onNew func(*Archetype), onStructural func()) *Archetypes {
	g := &Archetypes{
		store:          NewStore[*Archetype](KindNone),
		bySignature:    intmap.New[uint64, ArchetypeID](64),
		onNewArchetype: onNew,
		onStructural:   onStructural,
	}
	g.root = g.store.Spawn(nil)
	root := newArchetype(nil)
	root.id = g.root
	g.setArch(g.root, root)
	g.reserved = g.store.Spawn(nil)
	reserved := newArchetype(nil)
	reserved.id = g.reserved
	g.setArch(g.reserved, reserved)
	return g
}

func (g *Archetypes) setArch(id ArchetypeID, a *Archetype) {
	slot, ok := g.store.Get(id)
	if !ok {
		return
	}
	*slot = a
}

// Get returns the archetype for id.
func (g *Archetypes) Get(id ArchetypeID) *Archetype {
	p, ok := g.store.Get(id)
	if !ok || p == nil {
		return nil
	}
	return *p
}

// Root returns the zero-component root archetype.
func (g *Archetypes) Root() *Archetype { return g.Get(g.root) }

// Reserved returns the archetype used for entities allocated but not yet
// placed.
func (g *Archetypes) Reserved() *Archetype { return g.Get(g.reserved) }

// All iterates every live archetype.
func (g *Archetypes) All() func(yield func(*Archetype) bool) {
	return func(yield func(*Archetype) bool) {
		for _, a := range g.store.Iter() {
			if !yield(*a) {
				return
			}
		}
	}
}

func signatureHash(keys []ComponentKey) uint64 {
	h := fnv.New64a()
	var buf [20]byte
	for _, k := range keys {
		putU32(buf[0:4], uint32(k.Relation))
		if k.HasObject {
			putU64(buf[4:12], uint64(k.Object))
			buf[12] = 1
		} else {
			buf[12] = 0
		}
		_, _ = h.Write(buf[:13])
	}
	return h.Sum64()
}

func putU32(b []byte, v uint32) {
	b[0], b[1], b[2], b[3] = byte(v), byte(v>>8), byte(v>>16), byte(v>>24)
}
func putU64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

func sameSignature(a, b []ComponentKey) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// FindOrCreate walks the archetype graph from root following one added
// component key at a time, synthesizing new archetypes and wiring edges as
// needed, and returns the archetype matching the full resulting key set. If
// a descriptor being added is an exclusive relation, any other relation
// instance sharing its relation id is dropped from the resulting set before
// the new archetype is created — mirroring the ordering in
// original_source/src/archetype/mod.rs's init_with, so the edge graph never
// transiently exposes the sibling relation.
func (g *Archetypes) FindOrCreate(keys []ComponentKey) *Archetype {
	sorted := sortedKeys(keys)
	cur := g.Get(g.root)
	accumulated := []ComponentKey(nil)
	for _, k := range sorted {
		if containsKey(accumulated, k) {
			continue
		}
		if next, ok := cur.outEdges[k]; ok {
			cur = g.Get(next)
			accumulated = cur.keys
			continue
		}
		accumulated = insertKey(accumulated, k)
		if desc := MustDesc(k.Relation); desc.Exclusive && k.HasObject {
			accumulated = dropSiblingRelations(accumulated, k)
		}
		next := g.materialize(cur, k, accumulated)
		cur = next
		accumulated = cur.keys
	}
	return cur
}

func containsKey(keys []ComponentKey, k ComponentKey) bool {
	for _, e := range keys {
		if e.Equal(k) {
			return true
		}
	}
	return false
}

// dropSiblingRelations removes every relation instance sharing added's
// relation id except added itself — the exclusivity invariant: an exclusive
// relation can target only one object at a time.
func dropSiblingRelations(keys []ComponentKey, added ComponentKey) []ComponentKey {
	out := make([]ComponentKey, 0, len(keys))
	for _, k := range keys {
		if k.Relation == added.Relation && k.HasObject && !k.Equal(added) {
			continue
		}
		out = append(out, k)
	}
	return out
}

func (g *Archetypes) materialize(from *Archetype, edgeKey ComponentKey, fullSet []ComponentKey) *Archetype {
	sig := signatureHash(fullSet)
	if id, ok := g.bySignature.Get(sig); ok {
		if existing := g.Get(id); existing != nil && sameSignature(existing.keys, fullSet) {
			wireEdges(from, existing, edgeKey)
			return existing
		}
	}
	a := newArchetype(fullSet)
	id := g.store.Spawn(a)
	a.id = id
	g.setArch(id, a)
	g.bySignature.Put(sig, id)
	wireEdges(from, a, edgeKey)
	if g.onNewArchetype != nil {
		g.onNewArchetype(a)
	}
	if g.onStructural != nil {
		g.onStructural()
	}
	return a
}

func wireEdges(from, to *Archetype, key ComponentKey) {
	from.outEdges[key] = to.id
	to.inEdges[key] = from.id
}

// MoveResult reports the bookkeeping fallout of a MoveTo: the slot the
// entity now occupies in dst, and — if removing srcSlot from src triggered a
// swap-remove — which other entity got relocated to fill the vacated slot.
type MoveResult struct {
	DstSlot int

	Displaced       Entity
	DisplacedSlot   int
	HasDisplacement bool
}

// MoveTo relocates the entity at srcSlot in src to dst:
//  1. allocate a slot in dst and push the entity id;
//  2. for every column src and dst share, copy the value across and migrate
//     its change-list history to the new slot;
//  3. for every column only src has, invoke onDrop (if non-nil) with the
//     value before it is discarded;
//  4. swap-remove srcSlot out of every source column, which may relocate the
//     last entity in src into the vacated slot — that is reported back so
//     the caller can update its own entity→location index.
func (g *Archetypes) MoveTo(entity Entity, srcSlot int, src, dst *Archetype, tick uint32, onDrop func(key ComponentKey, ptr unsafe.Pointer)) MoveResult {
	dstSlot := len(dst.entities)
	dst.entities = append(dst.entities, entity)

	for _, key := range src.keys {
		srcCell := src.columns[key]
		dstCell := dst.columns[key]
		if dstCell == nil {
			if onDrop != nil {
				onDrop(key, srcCell.Ptr(srcSlot))
			}
			continue
		}
		dstCell.pushRaw(srcCell.Ptr(srcSlot))
		srcCell.changes.Migrate(srcSlot, &dstCell.changes, uint32(dstSlot), tick)
	}

	last := len(src.entities) - 1
	result := MoveResult{DstSlot: dstSlot}
	if last >= 0 {
		if last != srcSlot {
			result.Displaced = src.entities[last]
			result.DisplacedSlot = srcSlot
			result.HasDisplacement = true
		}
		src.entities[srcSlot] = src.entities[last]
		src.entities = src.entities[:last]
	}
	for _, key := range src.keys {
		srcCell := src.columns[key]
		srcCell.SwapRemove(srcSlot, tick, nil)
	}
	return result
}

// Prune removes a, if it is empty, has no outgoing edges, and is neither the
// root nor the reserved archetype — the eager-pruning policy decided in
// DESIGN.md's Open Questions. Neighbors' inEdges pointing at a are cleaned up
// so the graph never holds a dangling edge.
func (g *Archetypes) Prune(a *Archetype) bool {
	if a.id == g.root || a.id == g.reserved {
		return false
	}
	if len(a.entities) != 0 || !a.IsLeaf() {
		return false
	}
	for key, parentID := range a.inEdges {
		parent := g.Get(parentID)
		if parent != nil {
			delete(parent.outEdges, key)
		}
	}
	sig := signatureHash(a.keys)
	if id, ok := g.bySignature.Get(sig); ok && id == a.id {
		g.bySignature.Del(sig)
	}
	if _, err := g.store.Despawn(a.id); err == nil {
		g.setArch(a.id, nil)
	}
	if g.onStructural != nil {
		g.onStructural()
	}
	return true
}
