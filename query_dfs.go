package archecs

// DfsQuery1 walks the relation graph formed by a T1 relation's edges,
// depth-first from a set of roots, visiting each reached entity exactly
// once. It is the "Dfs"/"DfsRoots" query strategy: queries
// that follow a hierarchy (parent/child, attached-to) rather than scanning
// archetypes independently of relationship.
//
// Grounded on original_source/src/query/dfs.rs (lazyecs has no relation
// or graph-traversal concept at all, so this strategy is new Go code
// following the crate's algorithm: for each root, push its children — every
// entity whose T1 relation targets it — onto an explicit stack, and pop
// depth-first).
type DfsQuery1[T1 any] struct {
	world *World
	cid   ComponentID

	children map[Entity][]Entity
	stack    []dfsFrame
	visited  map[Entity]bool

	current Entity
}

type dfsFrame struct {
	entity Entity
	depth  int
}

// NewDfsQuery1 builds a traversal of the T1 relation graph starting from
// roots (entities with no incoming T1 edge are implicit roots if roots is
// empty).
func NewDfsQuery1[T1 any](w *World, roots ...Entity) *DfsQuery1[T1] {
	cid := Component[T1]()
	q := &DfsQuery1[T1]{world: w, cid: cid, children: make(map[Entity][]Entity), visited: make(map[Entity]bool)}
	q.buildChildren()
	if len(roots) == 0 {
		roots = q.impliedRoots()
	}
	for i := len(roots) - 1; i >= 0; i-- {
		q.stack = append(q.stack, dfsFrame{entity: roots[i], depth: 0})
	}
	return q
}

// buildChildren scans every archetype carrying a T1 relation column and
// indexes, for each target object, which entities relate to it — the
// adjacency list the depth-first walk consumes.
func (self *DfsQuery1[T1]) buildChildren() {
	for a := range self.world.archetypes.All() {
		for _, key := range a.keys {
			if key.Relation != self.cid || !key.HasObject {
				continue
			}
			self.children[key.Object] = append(self.children[key.Object], a.entities...)
		}
	}
}

// impliedRoots returns every entity that is the object of a T1 relation but
// does not itself carry one — the natural starting points when the caller
// doesn't name explicit roots.
func (self *DfsQuery1[T1]) impliedRoots() []Entity {
	isChild := make(map[Entity]bool)
	for _, kids := range self.children {
		for _, k := range kids {
			isChild[k] = true
		}
	}
	var roots []Entity
	for object := range self.children {
		if !isChild[object] {
			roots = append(roots, object)
		}
	}
	return roots
}

// Next advances to the next entity in depth-first order.
func (self *DfsQuery1[T1]) Next() bool {
	for len(self.stack) > 0 {
		n := len(self.stack) - 1
		frame := self.stack[n]
		self.stack = self.stack[:n]
		if self.visited[frame.entity] {
			continue
		}
		self.visited[frame.entity] = true
		self.current = frame.entity
		kids := self.children[frame.entity]
		for i := len(kids) - 1; i >= 0; i-- {
			self.stack = append(self.stack, dfsFrame{entity: kids[i], depth: frame.depth + 1})
		}
		return true
	}
	return false
}

// Entity returns the current entity.
func (self *DfsQuery1[T1]) Entity() Entity { return self.current }

// Cascade folds an accumulator down the traversal: for each entity visited,
// fn receives the parent's folded value (the root argument at the roots) and
// returns the value to pass to that entity's own children. This is the
// "cascade" combinator used for e.g. accumulating a world
// transform down a parent/child hierarchy.
func Cascade[T1, Acc any](q *DfsQuery1[T1], root Acc, fn func(entity Entity, parent Acc) Acc) map[Entity]Acc {
	folded := make(map[Entity]Acc)
	parentOf := make(map[Entity]Entity)
	for child, parent := range q.parentIndex() {
		parentOf[child] = parent
	}
	for q.Next() {
		e := q.Entity()
		parentAcc := root
		if p, ok := parentOf[e]; ok {
			if acc, ok := folded[p]; ok {
				parentAcc = acc
			}
		}
		folded[e] = fn(e, parentAcc)
	}
	return folded
}

func (self *DfsQuery1[T1]) parentIndex() map[Entity]Entity {
	out := make(map[Entity]Entity)
	for parent, kids := range self.children {
		for _, k := range kids {
			out[k] = parent
		}
	}
	return out
}
