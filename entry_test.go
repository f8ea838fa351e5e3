package archecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type eyPosition struct{ X int }
type eyTag struct{}

func TestRefResolvesLiveEntity(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()
	assert.NoError(t, Set(w, e, eyPosition{X: 4}))
	assert.NoError(t, Set(w, e, eyTag{}))

	ref, err := w.Ref(e)
	assert.NoError(t, err)
	assert.Equal(t, e, ref.ID())
	assert.True(t, ref.Has(relationKey(Component[eyPosition]())))
	assert.True(t, ref.HasComponent(Component[eyTag]()))

	pos := EntryGet[eyPosition](ref)
	assert.NotNil(t, pos)
	assert.Equal(t, 4, pos.X)
}

func TestRefMissingComponentReturnsNil(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()
	assert.NoError(t, Set(w, e, eyTag{}))

	ref, err := w.Ref(e)
	assert.NoError(t, err)
	assert.Nil(t, EntryGet[eyPosition](ref))
}

func TestRefOnDeadEntityErrors(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()
	assert.NoError(t, w.Despawn(e))

	_, err := w.Ref(e)
	assert.Error(t, err)
}

func TestEntryOccupiedReturnsExistingValue(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()
	assert.NoError(t, Set(w, e, eyPosition{X: 7}))

	entry, err := Entry[eyPosition](w, e)
	assert.NoError(t, err)
	assert.True(t, entry.Occupied())

	v, ok := entry.Get()
	assert.True(t, ok)
	assert.Equal(t, 7, v.X)
}

func TestEntryVacantOrInsertMigrates(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()

	entry, err := Entry[eyPosition](w, e)
	assert.NoError(t, err)
	assert.False(t, entry.Occupied())
	_, ok := entry.Get()
	assert.False(t, ok)

	v, err := entry.OrInsert(eyPosition{X: 9})
	assert.NoError(t, err)
	assert.Equal(t, 9, v.X)

	got := Get[eyPosition](w, e)
	assert.NotNil(t, got)
	assert.Equal(t, 9, got.X)
}

func TestEntryOccupiedOrInsertKeepsExistingValue(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()
	assert.NoError(t, Set(w, e, eyPosition{X: 1}))

	entry, err := Entry[eyPosition](w, e)
	assert.NoError(t, err)
	v, err := entry.OrInsert(eyPosition{X: 99})
	assert.NoError(t, err)
	assert.Equal(t, 1, v.X)
}

func TestEntryVacantOrDefaultInsertsZeroValue(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()

	entry, err := Entry[eyPosition](w, e)
	assert.NoError(t, err)
	v, err := entry.OrDefault()
	assert.NoError(t, err)
	assert.Equal(t, 0, v.X)

	got := Get[eyPosition](w, e)
	assert.NotNil(t, got)
	assert.Equal(t, 0, got.X)
}

func TestEntryOnDeadEntityErrors(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()
	assert.NoError(t, w.Despawn(e))

	_, err := Entry[eyPosition](w, e)
	assert.Error(t, err)
}
