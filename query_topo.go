package archecs

// TopoQuery1 visits every entity carrying a T1 relation component in
// topological order: an entity's relation target is always visited before
// the entity itself. It is the "Topo" query strategy,
// distinct from Dfs in that it produces one flat ordering valid for
// processing the whole graph in a single pass (e.g. computing transforms
// bottom-up) rather than a recursive per-branch walk.
//
// Grounded on original_source/src/query/topo.rs, ported as Kahn's algorithm
// over the adjacency implied by T1 relation edges (no equivalent in lazyecs).
type TopoQuery1[T1 any] struct {
	order []Entity
	pos   int
}

// NewTopoQuery1 computes the topological order of every entity carrying a
// T1 relation. A cycle in the relation graph is broken arbitrarily: once
// Kahn's algorithm runs dry with nodes still unordered, one remaining node is
// forced into the order as if its incoming edges were already satisfied, and
// the algorithm resumes from there. This never fails; the error return
// exists for symmetry with the other query strategy constructors.
func NewTopoQuery1[T1 any](w *World) (*TopoQuery1[T1], error) {
	cid := Component[T1]()
	children := make(map[Entity][]Entity)
	indegree := make(map[Entity]int)
	nodes := make(map[Entity]bool)

	for a := range w.archetypes.All() {
		for _, key := range a.keys {
			if key.Relation != cid || !key.HasObject {
				continue
			}
			for _, e := range a.entities {
				nodes[e] = true
				nodes[key.Object] = true
				children[key.Object] = append(children[key.Object], e)
				indegree[e]++
			}
		}
	}

	var queue []Entity
	for n := range nodes {
		if indegree[n] == 0 {
			queue = append(queue, n)
		}
	}
	visited := make(map[Entity]bool, len(nodes))
	order := make([]Entity, 0, len(nodes))
	drain := func() {
		for len(queue) > 0 {
			n := queue[0]
			queue = queue[1:]
			if visited[n] {
				continue
			}
			order = append(order, n)
			visited[n] = true
			for _, c := range children[n] {
				indegree[c]--
				if indegree[c] == 0 {
					queue = append(queue, c)
				}
			}
		}
	}
	drain()
	for len(order) < len(nodes) {
		for n := range nodes {
			if !visited[n] {
				queue = append(queue, n)
				break
			}
		}
		drain()
	}
	return &TopoQuery1[T1]{order: order, pos: -1}, nil
}

// Next advances to the next entity in topological order.
func (self *TopoQuery1[T1]) Next() bool {
	self.pos++
	return self.pos < len(self.order)
}

// Entity returns the current entity.
func (self *TopoQuery1[T1]) Entity() Entity { return self.order[self.pos] }
