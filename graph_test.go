package archecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type gPosition struct{ X int }
type gVelocity struct{ X int }

func TestFindOrCreateSharesArchetypes(t *testing.T) {
	g := newArchetypes(nil, nil)
	posKey := relationKey(Component[gPosition]())
	velKey := relationKey(Component[gVelocity]())

	a := g.FindOrCreate([]ComponentKey{posKey, velKey})
	b := g.FindOrCreate([]ComponentKey{velKey, posKey})
	assert.Same(t, a, b)
}

func TestFindOrCreateWiresEdges(t *testing.T) {
	g := newArchetypes(nil, nil)
	posKey := relationKey(Component[gPosition]())
	root := g.Root()

	a := g.FindOrCreate([]ComponentKey{posKey})
	assert.Equal(t, root.id, a.inEdges[posKey])
	assert.Equal(t, a.id, root.outEdges[posKey])
}

func TestPruneRemovesEmptyLeaf(t *testing.T) {
	g := newArchetypes(nil, nil)
	posKey := relationKey(Component[gPosition]())
	a := g.FindOrCreate([]ComponentKey{posKey})
	assert.NotNil(t, g.Get(a.id))

	ok := g.Prune(a)
	assert.True(t, ok)
	assert.Nil(t, g.Get(a.id))
}

func TestPruneKeepsRootAndReserved(t *testing.T) {
	g := newArchetypes(nil, nil)
	assert.False(t, g.Prune(g.Root()))
	assert.False(t, g.Prune(g.Reserved()))
}
