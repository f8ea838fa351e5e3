package archecs

import "fmt"

// command is one deferred mutation. Grounded on
// original_source/src/commandbuffer.rs's command enum and
// other_examples/plus3-ooftn/ecs's commands.go (another type-erased,
// insertion-ordered command log), generalized into a single closure-shaped
// command so new command kinds never need a new case in Apply.
type command struct {
	label string
	run   func(*World) error
}

// CommandBuffer accumulates structural mutations — spawns, sets, removes,
// despawns — for later application, so systems running inside a scheduler
// batch never mutate the archetype graph while other systems in the same
// batch are reading it.
//
// Grounded on original_source/src/commandbuffer.rs; the arena-backed command
// log is a slice of closures rather than Rust's boxed trait objects, the
// idiomatic Go equivalent.
type CommandBuffer struct {
	commands []command
}

// NewCommandBuffer returns an empty buffer.
func NewCommandBuffer() *CommandBuffer { return &CommandBuffer{} }

// Len returns the number of pending commands.
func (self *CommandBuffer) Len() int { return len(self.commands) }

// Spawn queues the creation of an entity with no components. It returns
// nothing: the actual Entity id is only known once Apply runs, so callers
// needing to reference the spawned entity within the same buffer should use
// SpawnFunc instead.
func (self *CommandBuffer) Spawn() {
	self.commands = append(self.commands, command{
		label: "Spawn",
		run:   func(w *World) error { w.Spawn(); return nil },
	})
}

// SpawnFunc queues an entity spawn and passes the resulting id to fn once
// Apply runs, so later commands in the same Apply pass (appended by fn) can
// reference it.
func (self *CommandBuffer) SpawnFunc(fn func(Entity)) {
	self.commands = append(self.commands, command{
		label: "SpawnFunc",
		run: func(w *World) error {
			fn(w.Spawn())
			return nil
		},
	})
}

// CommandSet queues setting id's T component to value.
func CommandSet[T any](cb *CommandBuffer, id Entity, value T, opts ...ComponentOption) {
	cb.commands = append(cb.commands, command{
		label: fmt.Sprintf("Set(%s)", MustDesc(Component[T](opts...)).Name),
		run:   func(w *World) error { return Set(w, id, value, opts...) },
	})
}

// CommandSetRelation queues attaching a T relation from id to object.
func CommandSetRelation[T any](cb *CommandBuffer, id, object Entity, value T) {
	cb.commands = append(cb.commands, command{
		label: fmt.Sprintf("SetRelation(%s)", MustDesc(Component[T]()).Name),
		run:   func(w *World) error { return SetRelation(w, id, object, value) },
	})
}

// CommandRemove queues removing id's T component.
func CommandRemove[T any](cb *CommandBuffer, id Entity) {
	cb.commands = append(cb.commands, command{
		label: "Remove",
		run:   func(w *World) error { return Remove[T](w, id) },
	})
}

// Despawn queues despawning id.
func (self *CommandBuffer) Despawn(id Entity) {
	self.commands = append(self.commands, command{
		label: "Despawn",
		run:   func(w *World) error { return w.Despawn(id) },
	})
}

// Defer queues an arbitrary closure, for callers composing commands this
// package has no dedicated constructor for.
func (self *CommandBuffer) Defer(label string, fn func(*World) error) {
	self.commands = append(self.commands, command{label: label, run: fn})
}

// Apply drains the buffer against w in insertion order, stopping at the
// first failing command and returning a CommandError identifying its
// ordinal and label. Already-applied commands are not rolled back — callers
// that need atomicity should validate before queuing.
func (self *CommandBuffer) Apply(w *World) error {
	for i := 0; i < len(self.commands); i++ {
		c := self.commands[i]
		if err := c.run(w); err != nil {
			self.commands = self.commands[i+1:]
			return &CommandError{Ordinal: i, Component: c.label, Err: err}
		}
	}
	self.commands = self.commands[:0]
	return nil
}
