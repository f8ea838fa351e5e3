package archecs

import (
	"context"
	"fmt"
	"time"

	"github.com/TheBitDrifter/bark"
	"golang.org/x/sync/errgroup"
)

// System is one unit of scheduled work: a name (for diagnostics), its
// declared resource access, and the function to run.
//
// Grounded on lazyecs' complete absence of a scheduler — lazyecs
// expects callers to run their own loops — so this type follows
// original_source/src/system/mod.rs's access-annotated system directly.
type System struct {
	Name   string
	Access AccessSet
	Run    func(context.Context, *World, *CommandBuffer) error
}

// Schedule orders a set of systems into conflict-free batches: within a
// batch, no two systems' declared access conflicts, so the
// batch may run in parallel; batches themselves run in declaration order,
// with the batch's command buffers flushed between batches so later batches
// see earlier ones' structural changes.
//
// Grounded on original_source/src/schedule/mod.rs's longest-path batch
// layering; parallel execution within a batch uses golang.org/x/sync/
// errgroup to run the batch's systems concurrently and collect the first
// error.
type Schedule struct {
	systems []System
	batches [][]int // indices into systems, built once by NewSchedule
}

// NewSchedule builds a Schedule from systems, computing the batch layering
// eagerly so Run never pays for it.
func NewSchedule(systems ...System) *Schedule {
	s := &Schedule{systems: systems}
	s.layer()
	return s
}

// layer assigns each system a batch following the dependency graph implied
// by access conflicts (the "longest path" rule: a system's batch index is one
// past the maximum batch index of every earlier system it conflicts with, or
// 0 if it conflicts with none).
func (self *Schedule) layer() {
	batchOf := make([]int, len(self.systems))
	maxBatch := -1
	for i := range self.systems {
		batchOf[i] = 0
		for j := 0; j < i; j++ {
			if self.systems[i].Access.conflictsWith(self.systems[j].Access) {
				if batchOf[j]+1 > batchOf[i] {
					batchOf[i] = batchOf[j] + 1
				}
			}
		}
		if batchOf[i] > maxBatch {
			maxBatch = batchOf[i]
		}
	}
	self.batches = make([][]int, maxBatch+1)
	for i, b := range batchOf {
		self.batches[b] = append(self.batches[b], i)
	}
}

// Batches returns the number of conflict-free layers the schedule computed.
func (self *Schedule) Batches() int { return len(self.batches) }

// Run executes every batch in order, parallelizing systems within a batch
// via errgroup, and flushing each system's command buffer into w once the
// whole batch completes. A batch's first error is returned after every
// system in that batch has finished (so one system failing never corrupts
// another's in-flight writes), and no later batch runs.
func (self *Schedule) Run(ctx context.Context, w *World) error {
	for _, batch := range self.batches {
		start := time.Now()
		buffers := make([]*CommandBuffer, len(batch))
		g, gctx := errgroup.WithContext(ctx)
		if w.schedulerWorkers > 0 {
			g.SetLimit(w.schedulerWorkers)
		}
		for slot, idx := range batch {
			sys := self.systems[idx]
			slot, sys := slot, sys
			buffers[slot] = NewCommandBuffer()
			g.Go(func() error {
				if err := sys.Run(gctx, w, buffers[slot]); err != nil {
					return fmt.Errorf("archecs: system %q: %w", sys.Name, err)
				}
				return nil
			})
		}
		runErr := g.Wait()
		for _, cb := range buffers {
			if err := cb.Apply(w); err != nil && runErr == nil {
				runErr = err
			}
		}
		if w.metrics != nil {
			w.metrics.BatchDuration.Observe(time.Since(start).Seconds())
		}
		if runErr != nil {
			return bark.AddTrace(runErr)
		}
	}
	return nil
}
