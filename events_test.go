package archecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type evHealth struct{ HP int }

func TestEventBusPublishSubscribe(t *testing.T) {
	bus := NewEventBus()
	var got int
	Subscribe(bus, func(v int) { got = v })
	Publish(bus, 42)
	assert.Equal(t, 42, got)
}

func TestDispatchChanges(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()
	oldTick := w.Tick()
	assert.NoError(t, Set(w, e, evHealth{HP: 10}))

	bus := NewEventBus()
	var events []ChangeEvent
	Subscribe(bus, func(ev ChangeEvent) { events = append(events, ev) })

	key := relationKey(Component[evHealth]())
	w.DispatchChanges(bus, key, oldTick)

	assert.Len(t, events, 1)
	assert.Equal(t, e, events[0].Entity)
	assert.Equal(t, ChangeAdded, events[0].Kind)
}
