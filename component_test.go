package archecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type testPosition struct{ X, Y float64 }
type testVelocity struct{ X, Y float64 }

func TestComponentMemoizes(t *testing.T) {
	id1 := Component[testPosition]()
	id2 := Component[testPosition]()
	assert.Equal(t, id1, id2)
}

func TestComponentDistinctTypes(t *testing.T) {
	posID := Component[testPosition]()
	velID := Component[testVelocity]()
	assert.NotEqual(t, posID, velID)
}

func TestComponentOptions(t *testing.T) {
	type tagged struct{ V int }
	id := Component[tagged](WithName("Tagged"), AsExclusive())
	desc := MustDesc(id)
	assert.Equal(t, "Tagged", desc.Name)
	assert.True(t, desc.Exclusive)
}

func TestComponentKeyOrdering(t *testing.T) {
	a := relationKey(1)
	b := pairKey(1, MakeEntity(1, 1, KindObject))
	c := pairKey(1, MakeEntity(2, 1, KindObject))
	assert.True(t, a.Less(b))
	assert.True(t, b.Less(c))
	assert.False(t, c.Less(b))
	assert.True(t, a.Equal(relationKey(1)))
}

func TestTryGetComponent(t *testing.T) {
	type neverRegistered struct{}
	_, ok := TryGetComponent[neverRegistered]()
	assert.False(t, ok)
	Component[neverRegistered]()
	_, ok = TryGetComponent[neverRegistered]()
	assert.True(t, ok)
}
