package archecs

import (
	"math/bits"
	"sync/atomic"
	"unsafe"
)

// Cell is one archetype column: a type-erased contiguous buffer holding
// `len` initialized values of the described layout, plus the change list
// tracking Added/Modified/Removed records for its slots.
//
// Grounded on lazyecs' Archetype.componentData [][]byte buffers
// (world.go, utils.go's extendByteSlice), with lazyecs' borrow-free raw
// byte slices wrapped in a borrow-counter guard and a ChangeList attached
// per column.
type Cell struct {
	desc     *ComponentDesc
	data     []byte
	len      int
	cap      int
	changes  ChangeList
	borrow   int32 // 0 = free, >0 = N shared readers, -1 = exclusive
	observed bool  // lazily enabled once a change-filtered query touches this column
}

// NewCell creates an empty column for desc.
func NewCell(desc *ComponentDesc) *Cell {
	return &Cell{desc: desc}
}

// Len returns the number of initialized slots.
func (c *Cell) Len() int { return c.len }

func (c *Cell) elemSize() int {
	if c.desc.Size == 0 {
		return 0
	}
	return int(c.desc.Size)
}

// Reserve grows capacity to at least len+additional, rounding up to the next
// power of two. Zero-sized types never allocate.
func (c *Cell) Reserve(additional int) {
	size := c.elemSize()
	if size == 0 {
		c.cap = c.len + additional
		return
	}
	need := c.len + additional
	if need <= c.cap {
		return
	}
	newCap := nextPow2(need)
	nb := make([]byte, c.len*size, newCap*size)
	copy(nb, c.data)
	c.data = nb
	c.cap = newCap
}

func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// Ptr returns an unsafe pointer to the slot-th element, valid until the next
// structural mutation of the column.
func (c *Cell) Ptr(slot int) unsafe.Pointer {
	size := c.elemSize()
	if size == 0 {
		return unsafe.Pointer(c) // dangling but stable, zero-sized reads never dereference it
	}
	return unsafe.Pointer(&c.data[slot*size])
}

// Push appends one value (size desc.Size bytes at src, or ignored if
// zero-sized) and records an Added change at tick. Returns the new slot.
func (c *Cell) Push(src unsafe.Pointer, tick uint32) int {
	c.Reserve(1)
	slot := c.len
	c.len++
	size := c.elemSize()
	if size > 0 {
		dst := unsafe.Pointer(&c.data[slot*size])
		copy(unsafe.Slice((*byte)(dst), size), unsafe.Slice((*byte)(src), size))
	}
	c.changes.Insert(ChangeAdded, slot, slot+1, tick)
	return slot
}

// pushRaw appends one value without touching the change list; callers that
// migrate an existing slot (rather than adding a fresh component) follow up
// with ChangeList.Migrate to carry the slot's change history across instead.
func (c *Cell) pushRaw(src unsafe.Pointer) int {
	c.Reserve(1)
	slot := c.len
	c.len++
	size := c.elemSize()
	if size > 0 {
		dst := unsafe.Pointer(&c.data[slot*size])
		copy(unsafe.Slice((*byte)(dst), size), unsafe.Slice((*byte)(src), size))
	}
	return slot
}

// MarkModified records a Modified change for slot at tick, but only if some
// change-filtered query has previously opted this column into observation
// (SetObserved) — unobserved hot-path mutation is free.
func (c *Cell) MarkModified(slot int, tick uint32) {
	if !c.observed {
		return
	}
	c.changes.Insert(ChangeModified, slot, slot+1, tick)
}

// SetObserved permanently enables Modified tracking for this column. Once
// set it is never unset — it remains enabled for the lifetime of the column.
func (c *Cell) SetObserved() { c.observed = true }

// SwapRemove removes slot, calling visit with a pointer to the removed
// value's bytes before they are overwritten (so the caller may move, drop,
// or forward the value), then fills the hole with the last slot's data. It
// returns the index that used to be the last slot, and whether a swap
// happened (false if slot was already last).
func (c *Cell) SwapRemove(slot int, tick uint32, visit func(unsafe.Pointer)) (movedFrom int, moved bool) {
	last := c.len - 1
	size := c.elemSize()
	if visit != nil {
		visit(c.Ptr(slot))
	}
	if slot != last && size > 0 {
		dst := unsafe.Pointer(&c.data[slot*size])
		src := unsafe.Pointer(&c.data[last*size])
		copy(unsafe.Slice((*byte)(dst), size), unsafe.Slice((*byte)(src), size))
	}
	c.len--
	if size > 0 {
		c.data = c.data[:c.len*size]
	}
	c.changes.SwapRemove(slot, last)
	c.changes.Insert(ChangeRemoved, slot, slot+1, tick)
	return last, slot != last
}

// Clear empties the column, recording a Removed change over every slot.
func (c *Cell) Clear(tick uint32) {
	c.changes.Clear(c.len, tick)
	c.len = 0
	size := c.elemSize()
	if size > 0 {
		c.data = c.data[:0]
	}
}

// BorrowShared acquires a shared (read) borrow.
func (c *Cell) BorrowShared() (*ColumnRef, error) {
	for {
		cur := atomic.LoadInt32(&c.borrow)
		if cur < 0 {
			return nil, &BorrowError{Component: c.desc.Name}
		}
		if atomic.CompareAndSwapInt32(&c.borrow, cur, cur+1) {
			return &ColumnRef{cell: c}, nil
		}
	}
}

// BorrowExclusive acquires an exclusive (write) borrow.
func (c *Cell) BorrowExclusive() (*ColumnRefMut, error) {
	if !atomic.CompareAndSwapInt32(&c.borrow, 0, -1) {
		return nil, &BorrowMutError{Component: c.desc.Name}
	}
	return &ColumnRefMut{cell: c}, nil
}

// ColumnRef is a shared borrow guard returned by Cell.BorrowShared.
type ColumnRef struct{ cell *Cell }

// Release ends the borrow.
func (r *ColumnRef) Release() {
	if r == nil || r.cell == nil {
		return
	}
	atomic.AddInt32(&r.cell.borrow, -1)
	r.cell = nil
}

// Cell returns the underlying column.
func (r *ColumnRef) Cell() *Cell { return r.cell }

// ColumnRefMut is an exclusive borrow guard returned by Cell.BorrowExclusive.
type ColumnRefMut struct{ cell *Cell }

// Release ends the borrow.
func (r *ColumnRefMut) Release() {
	if r == nil || r.cell == nil {
		return
	}
	atomic.StoreInt32(&r.cell.borrow, 0)
	r.cell = nil
}

// Cell returns the underlying column.
func (r *ColumnRefMut) Cell() *Cell { return r.cell }
