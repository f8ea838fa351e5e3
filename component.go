package archecs

import (
	"reflect"
	"sync"
	"unsafe"
)

// ComponentID identifies a component type (or, for relations, the relation
// itself) process-wide. Ids are assigned by a single monotonic counter — the
// one piece of global mutable state this package keeps — so every
// Component[T] call anywhere in the process shares the same id for the same
// Go type.
type ComponentID uint32

// ComponentKey names a column: a relation id, plus — for relation
// components — the target entity. A plain (non-relation) component has
// HasObject = false. Keys sort lexicographically by (Relation, Object).
type ComponentKey struct {
	Relation  ComponentID
	Object    Entity
	HasObject bool
}

// Plain reports whether this key names a non-relation component.
func (k ComponentKey) Plain() bool { return !k.HasObject }

// Less orders keys lexicographically by (Relation, Object), plain keys
// (HasObject=false) sorting before any relation instance of the same id.
func (k ComponentKey) Less(o ComponentKey) bool {
	if k.Relation != o.Relation {
		return k.Relation < o.Relation
	}
	if k.HasObject != o.HasObject {
		return !k.HasObject
	}
	return k.Object < o.Object
}

func (k ComponentKey) Equal(o ComponentKey) bool {
	return k.Relation == o.Relation && k.HasObject == o.HasObject && (!k.HasObject || k.Object == o.Object)
}

// ComponentDesc is the vtable-backed descriptor for a registered component
// type: its key, display name, layout, and the metadata attached to a
// component declaration (Exclusive relations, a debug formatter).
//
// The original crate attaches this metadata to a "component entity" that can
// itself be queried through the normal component API; archecs keeps the
// fields directly on ComponentDesc instead (see DESIGN.md Open Questions).
type ComponentDesc struct {
	ID        ComponentID
	Name      string
	Size      uintptr
	Type      reflect.Type
	Exclusive bool
	DebugFmt  func(unsafe.Pointer) string
}

// ComponentOption configures a ComponentDesc at first-registration time.
type ComponentOption func(*ComponentDesc)

// WithName overrides a component's display name (defaults to its Go type
// name).
func WithName(name string) ComponentOption {
	return func(d *ComponentDesc) { d.Name = name }
}

// AsExclusive marks a relation component exclusive: adding R(target) to an
// entity that already has R(other) atomically removes R(other).
func AsExclusive() ComponentOption {
	return func(d *ComponentDesc) { d.Exclusive = true }
}

// Debuggable attaches a formatter used by World.DebugString to render this
// component's values.
func Debuggable[T any](format func(*T) string) ComponentOption {
	return func(d *ComponentDesc) {
		d.DebugFmt = func(p unsafe.Pointer) string { return format((*T)(p)) }
	}
}

type componentRegistry struct {
	mu     sync.Mutex
	byType map[reflect.Type]*ComponentDesc
	byID   []*ComponentDesc
	next   ComponentID
}

var globalComponents = &componentRegistry{
	byType: make(map[reflect.Type]*ComponentDesc),
}

// Component lazily registers (or looks up) the component id for Go type T,
// applying opts only the first time T is seen. This is the runtime stand-in
// for original_source/src/component.rs's compile-time declaration macro: the
// first call claims a unique id from the process-wide counter and memoizes
// it; later calls (anywhere in the process) return the same id.
func Component[T any](opts ...ComponentOption) ComponentID {
	var zero T
	t := reflect.TypeOf(zero)
	r := globalComponents
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.byType[t]; ok {
		return d.ID
	}
	d := &ComponentDesc{
		ID:   r.next,
		Name: typeName(t),
		Size: sizeOf(t),
		Type: t,
	}
	for _, opt := range opts {
		opt(d)
	}
	r.byType[t] = d
	r.byID = append(r.byID, d)
	r.next++
	return d.ID
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<zero>"
	}
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}

func sizeOf(t reflect.Type) uintptr {
	if t == nil {
		return 0
	}
	return t.Size()
}

// MustDesc returns the descriptor for an already-registered component id. It
// panics if id has never been assigned, which indicates a programming error
// (component ids are only ever produced by Component[T]).
func MustDesc(id ComponentID) *ComponentDesc {
	globalComponents.mu.Lock()
	defer globalComponents.mu.Unlock()
	if int(id) >= len(globalComponents.byID) {
		panic("archecs: unknown component id")
	}
	return globalComponents.byID[id]
}

// TryGetComponent returns the id for T if it has already been registered,
// without registering it.
func TryGetComponent[T any]() (ComponentID, bool) {
	var zero T
	t := reflect.TypeOf(zero)
	r := globalComponents
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.byType[t]
	if !ok {
		return 0, false
	}
	return d.ID, true
}

// RegisterComponent registers a component type at runtime under a chosen
// display name, returning its id. Useful for components loaded from
// configuration or scripting, where the Go type is known but a
// human-readable name should override the type's own name in debug output.
// If T is already registered, its existing id and name are kept.
func RegisterComponent[T any](name string) ComponentID {
	return Component[T](WithName(name))
}

// relationKey builds the plain ComponentKey for a non-relation component id.
func relationKey(id ComponentID) ComponentKey {
	return ComponentKey{Relation: id}
}

// pairKey builds the ComponentKey for a relation instance targeting object.
func pairKey(relation ComponentID, object Entity) ComponentKey {
	return ComponentKey{Relation: relation, Object: object, HasObject: true}
}
