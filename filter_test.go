package archecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fPosition struct{ X int }
type fTag struct{}
type fFrozen struct{}

func TestWithAndWithoutFilters(t *testing.T) {
	w := NewWorld()
	e1 := w.Spawn()
	e2 := w.Spawn()
	assert.NoError(t, Set(w, e1, fPosition{X: 1}))
	assert.NoError(t, Set(w, e1, fTag{}))
	assert.NoError(t, Set(w, e2, fPosition{X: 2}))

	withTag := NewQuery1[fPosition](w, With[fTag]())
	var seen []Entity
	for withTag.Next() {
		seen = append(seen, withTag.Entity())
	}
	assert.Equal(t, []Entity{e1}, seen)

	withoutTag := NewQuery1[fPosition](w, Without[fTag]())
	seen = nil
	for withoutTag.Next() {
		seen = append(seen, withoutTag.Entity())
	}
	assert.Equal(t, []Entity{e2}, seen)
}

func TestAndOrNotFilters(t *testing.T) {
	w := NewWorld()
	e1 := w.Spawn()
	e2 := w.Spawn()
	e3 := w.Spawn()
	assert.NoError(t, Set(w, e1, fPosition{X: 1}))
	assert.NoError(t, Set(w, e1, fTag{}))
	assert.NoError(t, Set(w, e2, fPosition{X: 2}))
	assert.NoError(t, Set(w, e2, fFrozen{}))
	assert.NoError(t, Set(w, e3, fPosition{X: 3}))

	and := NewQuery1[fPosition](w, And(With[fTag](), Without[fFrozen]()))
	var seen []Entity
	for and.Next() {
		seen = append(seen, and.Entity())
	}
	assert.Equal(t, []Entity{e1}, seen)

	or := NewQuery1[fPosition](w, Or(With[fTag](), With[fFrozen]()))
	seen = nil
	for or.Next() {
		seen = append(seen, or.Entity())
	}
	assert.ElementsMatch(t, []Entity{e1, e2}, seen)

	not := NewQuery1[fPosition](w, Not(With[fTag]()))
	seen = nil
	for not.Next() {
		seen = append(seen, not.Entity())
	}
	assert.ElementsMatch(t, []Entity{e2, e3}, seen)
}

func TestMergeRangesCoalescesAdjacent(t *testing.T) {
	merged := mergeRanges([][2]int{{0, 2}, {2, 4}, {6, 8}})
	assert.Equal(t, [][2]int{{0, 4}, {6, 8}}, merged)
}

func TestMergeRangesSortsUnorderedInput(t *testing.T) {
	// Added at [2,3) appended after Modified at [0,1) — the concatenation
	// changedSlots produces is not sorted by start.
	merged := mergeRanges([][2]int{{2, 3}, {0, 1}})
	assert.Equal(t, [][2]int{{0, 1}, {2, 3}}, merged)
}

func TestSlotInRanges(t *testing.T) {
	ranges := [][2]int{{0, 2}, {5, 7}}
	assert.True(t, slotInRanges(1, ranges))
	assert.True(t, slotInRanges(6, ranges))
	assert.False(t, slotInRanges(3, ranges))
}
