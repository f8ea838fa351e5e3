package archecs

import "sort"

// ChangeKind classifies a change-list record.
type ChangeKind uint8

const (
	ChangeAdded ChangeKind = iota
	ChangeModified
	ChangeRemoved
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeAdded:
		return "Added"
	case ChangeModified:
		return "Modified"
	case ChangeRemoved:
		return "Removed"
	default:
		return "Unknown"
	}
}

// changeRecord is a half-open slot range [Start, End) tagged with the kind of
// change and the tick it happened at.
type changeRecord struct {
	Start, End int
	Kind       ChangeKind
	Tick       uint32
}

func (r changeRecord) contains(slot int) bool { return slot >= r.Start && slot < r.End }

func (r changeRecord) overlaps(start, end int) bool { return r.Start < end && start < r.End }

// without returns r with [idx, idx+1) excised, as 0, 1, or 2 pieces.
func (r changeRecord) without(idx int) []changeRecord {
	if !r.contains(idx) {
		return []changeRecord{r}
	}
	var out []changeRecord
	if r.Start < idx {
		out = append(out, changeRecord{r.Start, idx, r.Kind, r.Tick})
	}
	if idx+1 < r.End {
		out = append(out, changeRecord{idx + 1, r.End, r.Kind, r.Tick})
	}
	return out
}

// subtract returns r with [start,end) excised, as 0, 1, or 2 pieces.
func (r changeRecord) subtract(start, end int) []changeRecord {
	if !r.overlaps(start, end) {
		return []changeRecord{r}
	}
	var out []changeRecord
	if r.Start < start {
		out = append(out, changeRecord{r.Start, start, r.Kind, r.Tick})
	}
	if end < r.End {
		out = append(out, changeRecord{end, r.End, r.Kind, r.Tick})
	}
	return out
}

// ChangeList is an ordered, self-compacting log of per-slot change records,
// partitioned by ChangeKind. Grounded on original_source/src/archetype/
// changes.rs (lazyecs does no change tracking at all).
type ChangeList struct {
	records []changeRecord
}

// Insert records that slots [start,end) changed with the given kind at tick.
// Older same-kind records covering any of [start,end) are trimmed first
// (their membership of those slots is now stale); the new record is then
// merged into an adjacent/overlapping same-tick same-kind record if one
// exists, else appended.
func (cl *ChangeList) Insert(kind ChangeKind, start, end int, tick uint32) {
	if start >= end {
		return
	}
	trimmed := cl.records[:0]
	for _, r := range cl.records {
		if r.Kind != kind {
			trimmed = append(trimmed, r)
			continue
		}
		trimmed = append(trimmed, r.subtract(start, end)...)
	}
	cl.records = trimmed

	for i := len(cl.records) - 1; i >= 0; i-- {
		r := cl.records[i]
		if r.Kind != kind || r.Tick != tick {
			continue
		}
		if r.End >= start && r.Start <= end {
			ns, ne := r.Start, r.End
			if start < ns {
				ns = start
			}
			if end > ne {
				ne = end
			}
			cl.records[i] = changeRecord{ns, ne, kind, tick}
			return
		}
		break
	}
	cl.records = append(cl.records, changeRecord{start, end, kind, tick})
}

// SwapRemove updates the change list after slot s was overwritten by the
// contents previously at slot t (the swap-remove pattern used everywhere in
// archetype storage): s loses whatever membership it had, and any record
// that referenced t is split so that the [t,t+1) piece is relabeled as s.
func (cl *ChangeList) SwapRemove(s, t int) {
	if s == t {
		cl.removeSlot(s)
		return
	}
	var out []changeRecord
	var moved []changeRecord
	for _, r := range cl.records {
		if r.contains(t) {
			moved = append(moved, changeRecord{s, s + 1, r.Kind, r.Tick})
			for _, piece := range r.without(t) {
				out = append(out, piece.without(s)...)
			}
			continue
		}
		out = append(out, r.without(s)...)
	}
	out = append(out, moved...)
	cl.records = out
}

// removeSlot drops slot from every record without reassigning it (used when
// the removed slot was the last one, so nothing is swapped into its place).
func (cl *ChangeList) removeSlot(slot int) {
	var out []changeRecord
	for _, r := range cl.records {
		out = append(out, r.without(slot)...)
	}
	cl.records = out
}

// Migrate copies every record covering srcSlot into dst, rewritten to
// dstSlot, used when an entity moves to a different archetype.
func (cl *ChangeList) Migrate(srcSlot int, dst *ChangeList, dstSlot, tick uint32) {
	for _, r := range cl.records {
		if r.contains(srcSlot) {
			dst.Insert(r.Kind, int(dstSlot), int(dstSlot)+1, r.Tick)
		}
	}
	_ = tick // tick unused: migrated records keep their original tick, not "now".
}

// Clear records that slots [0,n) were removed, e.g. when an archetype's
// column is wiped wholesale.
func (cl *ChangeList) Clear(n int, tick uint32) {
	if n <= 0 {
		return
	}
	cl.Insert(ChangeRemoved, 0, n, tick)
}

// Query returns the disjoint, sorted slot ranges of kind that changed with
// tick in (oldTick, newTick], intersected with [queryStart, queryEnd).
func (cl *ChangeList) Query(kind ChangeKind, oldTick, newTick uint32, queryStart, queryEnd int) [][2]int {
	var out [][2]int
	for _, r := range cl.records {
		if r.Kind != kind {
			continue
		}
		if !tickInRange(r.Tick, oldTick, newTick) {
			continue
		}
		s, e := r.Start, r.End
		if s < queryStart {
			s = queryStart
		}
		if e > queryEnd {
			e = queryEnd
		}
		if s < e {
			out = append(out, [2]int{s, e})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

// tickInRange reports whether tick is in (oldTick, newTick], handling the
// counter-wrap case where newTick < oldTick (treated as "everything after
// oldTick or up to newTick across the wrap").
func tickInRange(tick, oldTick, newTick uint32) bool {
	if newTick >= oldTick {
		return tick > oldTick && tick <= newTick
	}
	return tick > oldTick || tick <= newTick
}
