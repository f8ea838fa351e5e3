package archecs

// AccessKind classifies what a system touches, for the scheduler's conflict
// check.
type AccessKind uint8

const (
	// AccessWorld is a catch-all for systems that call World methods the
	// scheduler cannot otherwise reason about (spawn/despawn, resource
	// mutation); it conflicts with everything, including itself.
	AccessWorld AccessKind = iota
	// AccessRead is a read-only borrow of a component column.
	AccessRead
	// AccessWrite is a mutable borrow of a component column.
	AccessWrite
	// AccessChangeEvent is a read of a column's change list (a Changed
	// filter), which conflicts with writes to that column but not with
	// other reads.
	AccessChangeEvent
)

// Access names one resource a system touches and how.
//
// Grounded on original_source/src/system/access.rs's access inference
// (lazyecs has no scheduler, so this type is new), simplified to an explicit
// declaration rather than inferring access from a Fetch type, since
// archecs's queries are constructed directly rather than through a
// reflected Fetch tree.
type Access struct {
	Kind      AccessKind
	Component ComponentID // ignored when Kind == AccessWorld
}

// conflictsWith reports whether a and b cannot run concurrently.
func (a Access) conflictsWith(b Access) bool {
	if a.Kind == AccessWorld || b.Kind == AccessWorld {
		return true
	}
	if a.Component != b.Component {
		return false
	}
	if a.Kind == AccessWrite || b.Kind == AccessWrite {
		return true
	}
	return false
}

// AccessSet is the full set of resources one system touches.
type AccessSet []Access

// conflictsWith reports whether any access in self conflicts with any
// access in other.
func (self AccessSet) conflictsWith(other AccessSet) bool {
	for _, a := range self {
		for _, b := range other {
			if a.conflictsWith(b) {
				return true
			}
		}
	}
	return false
}

// Reads declares one or more read accesses.
func Reads(ids ...ComponentID) AccessSet {
	out := make(AccessSet, len(ids))
	for i, id := range ids {
		out[i] = Access{Kind: AccessRead, Component: id}
	}
	return out
}

// Writes declares one or more write accesses.
func Writes(ids ...ComponentID) AccessSet {
	out := make(AccessSet, len(ids))
	for i, id := range ids {
		out[i] = Access{Kind: AccessWrite, Component: id}
	}
	return out
}

// WorldAccess declares unrestricted access, forcing the system into its own
// batch.
func WorldAccess() AccessSet { return AccessSet{{Kind: AccessWorld}} }
