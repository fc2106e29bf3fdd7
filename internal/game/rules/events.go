package rules

// EventType identifies a kind of game event.
type EventType string

const (
	EventGameStarted    EventType = "GAME_STARTED"
	EventTurnStarted    EventType = "TURN_STARTED"
	EventTurnEnded      EventType = "TURN_ENDED"
	EventEntityEntered  EventType = "ENTITY_ENTERED" // entity entered a board zone
	EventEntityLeft     EventType = "ENTITY_LEFT"
	EventCardPlayed     EventType = "CARD_PLAYED"
	EventCardDrawn      EventType = "CARD_DRAWN"
	EventDamageDealt    EventType = "DAMAGE_DEALT"
	EventHealed         EventType = "HEALED"
	EventEntityDied     EventType = "ENTITY_DIED"
	EventAttackStarted  EventType = "ATTACK_STARTED"
	EventSecretRevealed EventType = "SECRET_REVEALED"
	EventGameEnded      EventType = "GAME_ENDED"
)

// Event is a single game occurrence. EntityID is the event's subject,
// SourceID the entity that caused it (0 if none), ControllerID the controller
// the event belongs to, and Amount an event-specific magnitude (damage dealt,
// cards drawn).
type Event struct {
	Type         EventType
	EntityID     int
	SourceID     int
	ControllerID int
	Amount       int
}

// Listener receives every published event.
type Listener func(Event)

type typedListener struct {
	eventType EventType
	callback  func(Event)
}

// EventBus dispatches events synchronously, in subscription order. The bus
// belongs to a single game and is driven by one thread of control, so it
// carries no locking.
type EventBus struct {
	nextHandle int
	listeners  map[int]Listener
	order      []int
	typed      map[int]typedListener
	typedOrder []int
}

// NewEventBus creates an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{
		nextHandle: 1,
		listeners:  make(map[int]Listener),
		typed:      make(map[int]typedListener),
	}
}

// Subscribe registers a listener for all events and returns an unsubscribe
// handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	handle := bus.nextHandle
	bus.nextHandle++
	bus.listeners[handle] = listener
	bus.order = append(bus.order, handle)
	return handle
}

// SubscribeTyped registers a listener for one event type.
func (bus *EventBus) SubscribeTyped(eventType EventType, callback func(Event)) int {
	handle := bus.nextHandle
	bus.nextHandle++
	bus.typed[handle] = typedListener{eventType: eventType, callback: callback}
	bus.typedOrder = append(bus.typedOrder, handle)
	return handle
}

// Unsubscribe removes a listener registered by Subscribe or SubscribeTyped.
func (bus *EventBus) Unsubscribe(handle int) {
	if _, ok := bus.listeners[handle]; ok {
		delete(bus.listeners, handle)
		bus.order = removeHandle(bus.order, handle)
		return
	}
	if _, ok := bus.typed[handle]; ok {
		delete(bus.typed, handle)
		bus.typedOrder = removeHandle(bus.typedOrder, handle)
	}
}

// Publish delivers the event to all listeners synchronously.
func (bus *EventBus) Publish(event Event) {
	for _, handle := range bus.order {
		if listener, ok := bus.listeners[handle]; ok {
			listener(event)
		}
	}
	for _, handle := range bus.typedOrder {
		if tl, ok := bus.typed[handle]; ok && tl.eventType == event.Type {
			tl.callback(event)
		}
	}
}

func removeHandle(handles []int, handle int) []int {
	for i, h := range handles {
		if h == handle {
			return append(handles[:i], handles[i+1:]...)
		}
	}
	return handles
}
