package archecs

// EntityQuery1 resolves a single, already-known entity's T1 component
// directly through its archetype location, instead of scanning every
// archetype — the "Entity" query strategy: fixed-id lookup
// for systems that already hold the id (e.g. following a relation target).
//
// Grounded on lazyecs' Query[T1] cursor mechanics, narrowed from "scan
// every archetype" to "resolve one known entity," the shape
// original_source/src/fetch/mod.rs calls out as a distinct strategy.
type EntityQuery1[T1 any] struct {
	world   *World
	key1    ComponentKey
	filters []Filter
}

// NewEntityQuery1 builds a fixed-id query for T1, optionally narrowed by
// archetype-level filters (e.g. With/Without/Changed) checked on every Get.
func NewEntityQuery1[T1 any](w *World, filters ...Filter) *EntityQuery1[T1] {
	return &EntityQuery1[T1]{world: w, key1: relationKey(Component[T1]()), filters: filters}
}

// Get resolves id and returns a pointer to its T1 component. Returns a
// MismatchedFetchError if id is alive but lacks the component, a
// MismatchedFilterError if id has the component but its archetype fails one
// of the query's filters or its slot is outside a top-level Changed filter's
// changed range, or a NoSuchEntityError if id is not alive.
func (self *EntityQuery1[T1]) Get(id Entity) (*T1, error) {
	loc, err := self.world.Location(id)
	if err != nil {
		return nil, err
	}
	arch := self.world.archetypes.Get(loc.Archetype)
	cell := arch.columns[self.key1]
	if cell == nil {
		return nil, &MismatchedFetchError{Entity: id, Missing: []*ComponentDesc{MustDesc(self.key1.Relation)}}
	}
	if !matchesAll(arch, self.filters) {
		return nil, &MismatchedFilterError{Entity: id}
	}
	for _, f := range self.filters {
		if cf, ok := f.(changedFilter); ok && !slotInRanges(loc.Slot, cf.changedSlots(arch, self.world.Tick())) {
			return nil, &MismatchedFilterError{Entity: id}
		}
	}
	return (*T1)(cell.Ptr(loc.Slot)), nil
}

// GetDisjoint resolves a and b and returns pointers to both T1 components,
// or an error if either is missing the component, not alive, or a == b
// (disjointness is checked before the filter/fetch check, so a self-pair
// always reports DisjointError even if the single component lookup would
// otherwise have failed too — see DESIGN.md Open Questions).
func GetDisjoint[T1 any](w *World, a, b Entity) (*T1, *T1, error) {
	if a.Index() == b.Index() {
		return nil, nil, &DisjointError{Entities: [2]Entity{a, b}}
	}
	cid := Component[T1]()
	key := relationKey(cid)
	w.mu.RLock()
	defer w.mu.RUnlock()
	locA, okA := w.entities.Get(a)
	locB, okB := w.entities.Get(b)
	if !okA {
		return nil, nil, &NoSuchEntityError{Entity: a}
	}
	if !okB {
		return nil, nil, &NoSuchEntityError{Entity: b}
	}
	archA := w.archetypes.Get(locA.Archetype)
	archB := w.archetypes.Get(locB.Archetype)
	cellA := archA.columns[key]
	cellB := archB.columns[key]
	if cellA == nil {
		return nil, nil, &MissingComponentError{Entity: a, Desc: MustDesc(cid)}
	}
	if cellB == nil {
		return nil, nil, &MissingComponentError{Entity: b, Desc: MustDesc(cid)}
	}
	return (*T1)(cellA.Ptr(locA.Slot)), (*T1)(cellB.Ptr(locB.Slot)), nil
}
