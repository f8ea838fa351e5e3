package archecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChangeListInsertAndQuery(t *testing.T) {
	var cl ChangeList
	cl.Insert(ChangeAdded, 0, 3, 1)
	ranges := cl.Query(ChangeAdded, 0, 1, 0, 3)
	assert.Equal(t, [][2]int{{0, 3}}, ranges)
}

func TestChangeListInsertMergesAdjacentSameTick(t *testing.T) {
	var cl ChangeList
	cl.Insert(ChangeAdded, 0, 2, 1)
	cl.Insert(ChangeAdded, 2, 4, 1)
	assert.Len(t, cl.records, 1)
	assert.Equal(t, 0, cl.records[0].Start)
	assert.Equal(t, 4, cl.records[0].End)
}

func TestChangeListSwapRemove(t *testing.T) {
	var cl ChangeList
	cl.Insert(ChangeAdded, 0, 3, 1) // slots 0,1,2
	cl.SwapRemove(0, 2)             // slot 0 removed, slot 2's data now at slot 0
	ranges := cl.Query(ChangeAdded, 0, 1, 0, 3)
	found0 := false
	for _, r := range ranges {
		if r[0] <= 0 && 0 < r[1] {
			found0 = true
		}
	}
	assert.True(t, found0)
}

func TestChangeListMigrate(t *testing.T) {
	var src, dst ChangeList
	src.Insert(ChangeAdded, 2, 3, 5)
	src.Migrate(2, &dst, 0, 9)
	ranges := dst.Query(ChangeAdded, 0, 5, 0, 1)
	assert.Equal(t, [][2]int{{0, 1}}, ranges)
}

func TestTickInRangeWrap(t *testing.T) {
	assert.True(t, tickInRange(5, 3, 10))
	assert.False(t, tickInRange(2, 3, 10))
	assert.True(t, tickInRange(1, 10, 2)) // wrapped: newTick < oldTick
	assert.False(t, tickInRange(5, 10, 2))
}
