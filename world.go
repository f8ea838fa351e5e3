package archecs

import (
	"sync"
	"sync/atomic"
	"unsafe"
)

// WorldOptions configures a new World. Grounded on lazyecs'
// WorldOptions (world.go), extended with an optional *Metrics.
type WorldOptions struct {
	// InitialCapacity hints the initial entity capacity.
	InitialCapacity int

	// SchedulerWorkers bounds parallel batch execution; 0 means "one
	// goroutine per system in a batch."
	SchedulerWorkers int

	// Metrics, if non-nil, is updated as the world mutates.
	Metrics *Metrics
}

// World is the aggregate root: an entity store mapping entity ids to their
// archetype location, the archetype graph, the monotonic change tick, the
// archetype generation counter, resources, and optional metrics.
//
// Grounded on lazyecs' World struct (world.go), generalized from a single
// flat archetype map into an archetype-graph-backed aggregate; Resources is
// reworked from lazyecs' resources.go to key by ComponentID.
type World struct {
	mu sync.RWMutex

	entities   *Store[EntityLocation]
	archetypes *Archetypes

	changeTick           atomic.Uint32
	archetypeGeneration  atomic.Uint64

	Resources *Resources

	metrics *Metrics

	schedulerWorkers int
}

// NewWorld creates a World with default options.
func NewWorld() *World { return NewWorldWithOptions(WorldOptions{}) }

// NewWorldWithOptions creates a World configured per opts.
func NewWorldWithOptions(opts WorldOptions) *World {
	w := &World{
		entities:         NewStore[EntityLocation](KindObject),
		Resources:        NewResources(),
		metrics:          opts.Metrics,
		schedulerWorkers: opts.SchedulerWorkers,
	}
	if opts.InitialCapacity > 0 {
		w.entities.Reserve(opts.InitialCapacity)
	}
	w.archetypes = newArchetypes(w.onNewArchetype, w.onStructuralChange)
	w.changeTick.Store(1)
	return w
}

func (self *World) onNewArchetype(a *Archetype) {
	if self.metrics != nil {
		self.metrics.ArchetypeCount.Inc()
	}
}

func (self *World) onStructuralChange() {
	gen := self.archetypeGeneration.Add(1)
	if self.metrics != nil {
		self.metrics.ArchetypeGeneration.Set(float64(gen))
		self.metrics.ArchetypeCount.Set(float64(self.countArchetypes()))
	}
}

// Tick returns the current change tick, bumped once per Set/Remove/Despawn
// call that mutates component data. Spawn does not bump it.
func (self *World) Tick() uint32 { return self.changeTick.Load() }

func (self *World) bumpTick() uint32 {
	tick := self.changeTick.Add(1)
	if self.metrics != nil {
		self.metrics.ChangeTick.Set(float64(tick))
	}
	return tick
}

// ArchetypeGeneration returns the counter bumped whenever the archetype
// graph gains or loses a node. Queries do not consult it: a QueryN's
// archetype plan is rebuilt only when its Reset method is called.
func (self *World) ArchetypeGeneration() uint64 { return self.archetypeGeneration.Load() }

// Len returns the number of live entities.
func (self *World) Len() int {
	self.mu.RLock()
	defer self.mu.RUnlock()
	return self.entities.Len()
}

// IsAlive reports whether id refers to a currently live entity.
func (self *World) IsAlive(id Entity) bool {
	self.mu.RLock()
	defer self.mu.RUnlock()
	return self.entities.IsAlive(id)
}

// Archetypes exposes the archetype graph, for queries and debugging.
func (self *World) Archetypes() *Archetypes { return self.archetypes }

// Spawn creates a new entity with no components, placed in the root
// archetype.
func (self *World) Spawn() Entity {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.spawnInto(self.archetypes.Root())
}

func (self *World) spawnInto(arch *Archetype) Entity {
	slot := len(arch.entities)
	id := self.entities.Spawn(EntityLocation{Archetype: arch.id, Slot: slot})
	arch.entities = append(arch.entities, id)
	if self.metrics != nil {
		self.metrics.EntityCount.Inc()
	}
	return id
}

func (self *World) locationLocked(id Entity) (EntityLocation, error) {
	loc, ok := self.entities.Get(id)
	if !ok {
		return EntityLocation{}, &NoSuchEntityError{Entity: id}
	}
	return *loc, nil
}

// Location returns id's current archetype/slot.
func (self *World) Location(id Entity) (EntityLocation, error) {
	self.mu.RLock()
	defer self.mu.RUnlock()
	return self.locationLocked(id)
}

// setRaw performs the core "ensure id has component key with this byte
// value" operation: if id already carries key, the bytes are overwritten in
// place (a Modified change is recorded if a Changed filter has marked the
// column observed). Otherwise the archetype graph's
// find-or-create is walked to the superset archetype, id migrates there, and
// the new column is populated (an Added change is recorded).
//
// Grounded on lazyecs' AddComponent (operations.go), generalized from a
// fixed-width bitmask transition into an arbitrary ComponentKey so relations
// and exclusivity pruning flow through the same path.
func (self *World) setRaw(id Entity, key ComponentKey, src unsafe.Pointer, desc *ComponentDesc) error {
	self.mu.Lock()
	defer self.mu.Unlock()
	loc, err := self.locationLocked(id)
	if err != nil {
		return err
	}
	arch := self.archetypes.Get(loc.Archetype)
	tick := self.bumpTick()

	if cell := arch.columns[key]; cell != nil {
		size := cell.elemSize()
		if size > 0 {
			dst := cell.Ptr(loc.Slot)
			copy(unsafe.Slice((*byte)(dst), size), unsafe.Slice((*byte)(src), size))
		}
		cell.MarkModified(loc.Slot, tick)
		return nil
	}

	newKeys := insertKey(arch.keys, key)
	if desc.Exclusive && key.HasObject {
		newKeys = dropSiblingRelations(newKeys, key)
	}
	dst := self.archetypes.FindOrCreate(newKeys)
	result := self.archetypes.MoveTo(id, loc.Slot, arch, dst, tick, nil)
	if result.HasDisplacement {
		if movedLoc, ok := self.entities.Get(result.Displaced); ok {
			movedLoc.Slot = result.DisplacedSlot
		}
	}
	newCell := dst.columns[key]
	newCell.pushRaw(src)
	newCell.changes.Insert(ChangeAdded, result.DstSlot, result.DstSlot+1, tick)
	if slot, ok := self.entities.Get(id); ok {
		*slot = EntityLocation{Archetype: dst.id, Slot: result.DstSlot}
	}
	self.archetypes.Prune(arch)
	return nil
}

// Set writes a component value onto id, transitioning id to the archetype
// that includes this component if it does not already have it. Returns
// NoSuchEntityError if id is not alive.
func Set[T any](w *World, id Entity, value T, opts ...ComponentOption) error {
	cid := Component[T](opts...)
	return w.setRaw(id, relationKey(cid), unsafe.Pointer(&value), MustDesc(cid))
}

// SetRelation attaches a relation component targeting object. If the
// relation was declared with AsExclusive, any existing instance of it
// targeting a different object is atomically removed first.
func SetRelation[T any](w *World, id, object Entity, value T) error {
	cid := Component[T]()
	return w.setRaw(id, pairKey(cid, object), unsafe.Pointer(&value), MustDesc(cid))
}

// Get returns a pointer to id's T component, or nil if it does not have one.
func Get[T any](w *World, id Entity) *T {
	cid, ok := TryGetComponent[T]()
	if !ok {
		return nil
	}
	return getTyped[T](w, id, relationKey(cid))
}

// GetRelation returns a pointer to id's T relation component targeting
// object, or nil if absent.
func GetRelation[T any](w *World, id, object Entity) *T {
	cid, ok := TryGetComponent[T]()
	if !ok {
		return nil
	}
	return getTyped[T](w, id, pairKey(cid, object))
}

func getTyped[T any](w *World, id Entity, key ComponentKey) *T {
	w.mu.RLock()
	defer w.mu.RUnlock()
	loc, err := w.locationLocked(id)
	if err != nil {
		return nil
	}
	arch := w.archetypes.Get(loc.Archetype)
	cell := arch.columns[key]
	if cell == nil {
		return nil
	}
	return (*T)(cell.Ptr(loc.Slot))
}

// Remove drops key's component from id, migrating it to the subset
// archetype. It is a no-op if id does not have the component.
func Remove[T any](w *World, id Entity) error {
	cid, ok := TryGetComponent[T]()
	if !ok {
		return nil
	}
	return w.removeRaw(id, relationKey(cid))
}

// RemoveRelation drops id's T relation targeting object.
func RemoveRelation[T any](w *World, id, object Entity) error {
	cid, ok := TryGetComponent[T]()
	if !ok {
		return nil
	}
	return w.removeRaw(id, pairKey(cid, object))
}

func (self *World) removeRaw(id Entity, key ComponentKey) error {
	self.mu.Lock()
	defer self.mu.Unlock()
	loc, err := self.locationLocked(id)
	if err != nil {
		return err
	}
	arch := self.archetypes.Get(loc.Archetype)
	if arch.columns[key] == nil {
		return nil
	}
	tick := self.bumpTick()
	newKeys := removeKey(arch.keys, key)
	dst := self.archetypes.FindOrCreate(newKeys)
	result := self.archetypes.MoveTo(id, loc.Slot, arch, dst, tick, nil)
	if result.HasDisplacement {
		if movedLoc, ok := self.entities.Get(result.Displaced); ok {
			movedLoc.Slot = result.DisplacedSlot
		}
	}
	if slot, ok := self.entities.Get(id); ok {
		*slot = EntityLocation{Archetype: dst.id, Slot: result.DstSlot}
	}
	self.archetypes.Prune(arch)
	return nil
}

// Despawn removes id and all of its component data, pruning the vacated
// source archetype if it becomes an empty leaf.
func (self *World) Despawn(id Entity) error {
	self.mu.Lock()
	defer self.mu.Unlock()
	loc, err := self.locationLocked(id)
	if err != nil {
		return err
	}
	arch := self.archetypes.Get(loc.Archetype)
	tick := self.bumpTick()
	last := len(arch.entities) - 1
	for _, key := range arch.keys {
		arch.columns[key].SwapRemove(loc.Slot, tick, nil)
	}
	if last >= 0 && last != loc.Slot {
		moved := arch.entities[last]
		arch.entities[loc.Slot] = moved
		if movedLoc, ok := self.entities.Get(moved); ok {
			movedLoc.Slot = loc.Slot
		}
	}
	if last >= 0 {
		arch.entities = arch.entities[:last]
	}
	if _, err := self.entities.Despawn(id); err != nil {
		return err
	}
	if self.metrics != nil {
		self.metrics.EntityCount.Dec()
	}
	self.archetypes.Prune(arch)
	return nil
}
