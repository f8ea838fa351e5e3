package archecs

// EntityRef is a resolved handle to a live entity: its id plus the
// archetype/slot it currently occupies. Unlike a bare Entity, a EntityRef is
// a snapshot — it becomes stale the moment the entity migrates archetypes,
// so callers should re-resolve it (via World.Ref) across any call that may
// mutate components.
//
// Grounded on original_source/src/entity_ref.rs, which lazyecs has no
// equivalent of (lazyecs only exposes Entity ids, never a resolved handle).
type EntityRef struct {
	world *World
	id    Entity
	loc   EntityLocation
}

// Ref resolves id to a EntityRef, or an error if id is not alive.
func (self *World) Ref(id Entity) (EntityRef, error) {
	loc, err := self.Location(id)
	if err != nil {
		return EntityRef{}, err
	}
	return EntityRef{world: self, id: id, loc: loc}, nil
}

// ID returns the referenced entity's id.
func (self EntityRef) ID() Entity { return self.id }

// Archetype returns the archetype the entity currently occupies.
func (self EntityRef) Archetype() *Archetype { return self.world.archetypes.Get(self.loc.Archetype) }

// Slot returns the entity's slot within its archetype.
func (self EntityRef) Slot() int { return self.loc.Slot }

// Has reports whether the entity carries key.
func (self EntityRef) Has(key ComponentKey) bool { return self.Archetype().Has(key) }

// HasComponent reports whether the entity carries any instance of id.
func (self EntityRef) HasComponent(id ComponentID) bool { return self.Archetype().HasComponent(id) }

// EntryGet returns a pointer to the T component on a resolved entry, without
// re-walking the entity store. Returns nil if the entry's snapshot no longer
// has the component, or if the entity has since migrated (callers holding a
// EntityRef across a mutation should re-resolve via World.Ref).
func EntryGet[T any](e EntityRef) *T {
	cid, ok := TryGetComponent[T]()
	if !ok {
		return nil
	}
	arch := e.Archetype()
	if arch == nil || e.loc.Slot >= len(arch.entities) || arch.entities[e.loc.Slot] != e.id {
		return nil
	}
	cell := arch.columns[relationKey(cid)]
	if cell == nil || e.loc.Slot >= cell.Len() {
		return nil
	}
	return (*T)(cell.Ptr(e.loc.Slot))
}

// ComponentEntry is the occupied-or-vacant handle World operation
// entry(id, component) returns: Occupied when id already carries a T,
// Vacant otherwise. OrInsert/OrDefault perform the find-or-create migration
// on the vacant path only, so a caller that merely wants to read an existing
// value without ever inserting can call Get and never touch the archetype
// graph.
type ComponentEntry[T any] struct {
	world *World
	id    Entity
	ptr   *T
}

// Entry resolves id's T entry, or an error if id is not alive. The returned
// handle is occupied if id already carries a T, vacant otherwise.
func Entry[T any](w *World, id Entity) (ComponentEntry[T], error) {
	if !w.IsAlive(id) {
		return ComponentEntry[T]{}, &NoSuchEntityError{Entity: id}
	}
	return ComponentEntry[T]{world: w, id: id, ptr: Get[T](w, id)}, nil
}

// Occupied reports whether id already carries a T.
func (self ComponentEntry[T]) Occupied() bool { return self.ptr != nil }

// Get returns the occupied value and true, or nil, false if vacant.
func (self ComponentEntry[T]) Get() (*T, bool) { return self.ptr, self.ptr != nil }

// OrInsert returns the occupied value if one exists, or else sets value onto
// id — migrating its archetype exactly as Set would — and returns a pointer
// to the newly stored value.
func (self ComponentEntry[T]) OrInsert(value T) (*T, error) {
	if self.ptr != nil {
		return self.ptr, nil
	}
	if err := Set(self.world, self.id, value); err != nil {
		return nil, err
	}
	return Get[T](self.world, self.id), nil
}

// OrDefault is OrInsert with T's zero value.
func (self ComponentEntry[T]) OrDefault() (*T, error) {
	var zero T
	return self.OrInsert(zero)
}
