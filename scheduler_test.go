package archecs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type sPosition struct{ X int }
type sVelocity struct{ X int }

func TestScheduleBatchesConflictFreeSystems(t *testing.T) {
	posID := Component[sPosition]()
	velID := Component[sVelocity]()

	s := NewSchedule(
		System{Name: "move", Access: Writes(posID), Run: func(context.Context, *World, *CommandBuffer) error { return nil }},
		System{Name: "damp", Access: Reads(velID), Run: func(context.Context, *World, *CommandBuffer) error { return nil }},
		System{Name: "collide", Access: Writes(posID), Run: func(context.Context, *World, *CommandBuffer) error { return nil }},
	)
	assert.Equal(t, 2, s.Batches())
}

func TestScheduleRunAppliesCommands(t *testing.T) {
	w := NewWorld()
	var spawned Entity
	s := NewSchedule(System{
		Name:   "spawner",
		Access: WorldAccess(),
		Run: func(_ context.Context, _ *World, cb *CommandBuffer) error {
			cb.SpawnFunc(func(e Entity) { spawned = e })
			return nil
		},
	})
	assert.NoError(t, s.Run(context.Background(), w))
	assert.True(t, w.IsAlive(spawned))
}

func TestScheduleRunPropagatesError(t *testing.T) {
	w := NewWorld()
	s := NewSchedule(System{
		Name:   "failing",
		Access: WorldAccess(),
		Run: func(context.Context, *World, *CommandBuffer) error {
			return assert.AnError
		},
	})
	err := s.Run(context.Background(), w)
	assert.Error(t, err)
}
