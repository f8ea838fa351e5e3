package archecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type cbPosition struct{ X int }

func TestCommandBufferApply(t *testing.T) {
	w := NewWorld()
	cb := NewCommandBuffer()
	var spawned Entity
	cb.SpawnFunc(func(e Entity) {
		spawned = e
		CommandSet(cb, e, cbPosition{X: 9})
	})
	assert.NoError(t, cb.Apply(w))
	assert.True(t, w.IsAlive(spawned))
	assert.Equal(t, 9, Get[cbPosition](w, spawned).X)
	assert.Equal(t, 0, cb.Len())
}

func TestCommandBufferStopsOnError(t *testing.T) {
	w := NewWorld()
	cb := NewCommandBuffer()
	bogus := MakeEntity(999, 1, KindObject)
	cb.Despawn(bogus)
	cb.Spawn()
	err := cb.Apply(w)
	assert.Error(t, err)
	var cmdErr *CommandError
	assert.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, 0, cmdErr.Ordinal)
}
