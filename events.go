package archecs

import "reflect"

// MaxEventTypes bounds the number of distinct event payload types one
// EventBus can register.
const MaxEventTypes = 256

// EventBus is a type-erased publish/subscribe registry. Grounded on
// lazyecs' eventbus.go almost verbatim (reflect.Type-keyed handler slots,
// zero-allocation Publish once a type has an assigned slot); renamed
// receivers to match the rest of this package's style.
type EventBus struct {
	eventTypeMap    map[reflect.Type]uint8
	handlers        [MaxEventTypes][]interface{}
	nextEventTypeID uint8
}

// NewEventBus returns an empty EventBus.
func NewEventBus() *EventBus { return &EventBus{} }

// Subscribe registers handler for events of type T.
func Subscribe[T any](bus *EventBus, handler func(T)) {
	t := reflect.TypeFor[T]()
	id := bus.getEventTypeID(t)
	if cap(bus.handlers[id]) == 0 {
		bus.handlers[id] = make([]interface{}, 0, 4)
	}
	bus.handlers[id] = append(bus.handlers[id], handler)
}

// Publish sends event to every handler subscribed to T.
func Publish[T any](bus *EventBus, event T) {
	t := reflect.TypeFor[T]()
	if id, ok := bus.eventTypeMap[t]; ok {
		for _, h := range bus.handlers[id] {
			h.(func(T))(event)
		}
	}
}

func (self *EventBus) getEventTypeID(t reflect.Type) uint8 {
	if self.eventTypeMap == nil {
		self.eventTypeMap = make(map[reflect.Type]uint8)
	}
	if id, ok := self.eventTypeMap[t]; ok {
		return id
	}
	if len(self.eventTypeMap) >= MaxEventTypes {
		panic("archecs: too many event types")
	}
	id := self.nextEventTypeID
	self.nextEventTypeID++
	self.eventTypeMap[t] = id
	return id
}

// ChangeEvent is published for every slot a watched column recorded a
// change in, once per call to World.DispatchChanges. It layers change
// dispatch on lazyecs' plain, fixed-Go-type EventBus: subscribers register
// for the ChangeEvent type and receive every event published; the component
// is chosen by the key passed to DispatchChanges, which walks every
// archetype's column for that key and publishes Added, Modified and Removed
// changes alike. Tick carries the tick DispatchChanges ran at.
type ChangeEvent struct {
	Entity    Entity
	Key       ComponentKey
	Kind      ChangeKind
	Tick      uint32
}

// DispatchChanges scans every archetype for key's column changes recorded
// in (oldTick, newTick] and publishes a ChangeEvent for each affected slot.
// Callers typically invoke this once per frame, after running their
// schedule, with oldTick set to the value captured at the end of the
// previous frame.
func (self *World) DispatchChanges(bus *EventBus, key ComponentKey, oldTick uint32) {
	newTick := self.Tick()
	for a := range self.archetypes.All() {
		cell := a.columns[key]
		if cell == nil {
			continue
		}
		for _, kind := range [...]ChangeKind{ChangeAdded, ChangeModified, ChangeRemoved} {
			for _, r := range cell.changes.Query(kind, oldTick, newTick, 0, cell.Len()) {
				for slot := r[0]; slot < r[1]; slot++ {
					if slot >= len(a.entities) {
						continue
					}
					Publish(bus, ChangeEvent{Entity: a.entities[slot], Key: key, Kind: kind, Tick: newTick})
				}
			}
		}
	}
}
