package event

// Handler processes specific event types
type Handler interface {
	// HandleEvent processes a single event
	// Called synchronously during the dispatch phase at the end of a tick
	HandleEvent(ev GameEvent)

	// EventTypes returns the event types this handler processes
	// The router uses this for registration
	EventTypes() []EventType
}

// HandlerFunc adapts a function to Handler for a fixed set of types
type HandlerFunc struct {
	Types []EventType
	Fn    func(ev GameEvent)
}

func (h HandlerFunc) HandleEvent(ev GameEvent)  { h.Fn(ev) }
func (h HandlerFunc) EventTypes() []EventType { return h.Types }

// maxDispatchPasses bounds re-entrant publishing from handlers within one tick
const maxDispatchPasses = 4

// Router dispatches events to registered handlers
//
// Architecture:
//   - Single-threaded dispatch, handlers run on the simulation goroutine
//   - Multiple handlers can register for the same event type
//   - Handlers are invoked in registration order
//   - Events published by handlers are drained in follow-up passes
type Router struct {
	handlers map[EventType][]Handler
	queue    *EventQueue
	tick     int64
}

// NewRouter creates a router attached to the given queue
func NewRouter(queue *EventQueue) *Router {
	return &Router{
		handlers: make(map[EventType][]Handler),
		queue:    queue,
	}
}

// Register adds a handler for its declared event types
func (r *Router) Register(handler Handler) {
	for _, t := range handler.EventTypes() {
		r.handlers[t] = append(r.handlers[t], handler)
	}
}

// Subscribe registers fn for the given types; no types subscribes to everything
func (r *Router) Subscribe(fn func(ev GameEvent), types ...EventType) {
	if len(types) == 0 {
		types = AllTypes()
	}
	r.Register(HandlerFunc{Types: types, Fn: fn})
}

// SetTick stamps subsequently published events
func (r *Router) SetTick(tick int64) {
	r.tick = tick
}

// Publish enqueues an event stamped with the current tick
func (r *Router) Publish(t EventType, payload any) {
	r.queue.Push(GameEvent{Type: t, Payload: payload, Tick: r.tick})
}

// DispatchAll consumes all pending events and routes to handlers in FIFO order
// All handlers for an event type are called before moving to the next event
func (r *Router) DispatchAll() int {
	total := 0
	for pass := 0; pass < maxDispatchPasses; pass++ {
		events := r.queue.Consume()
		if len(events) == 0 {
			break
		}
		total += len(events)
		for _, ev := range events {
			for _, h := range r.handlers[ev.Type] {
				h.HandleEvent(ev)
			}
		}
	}
	return total
}

// HasHandlers returns true if any handlers are registered for the given type
func (r *Router) HasHandlers(t EventType) bool {
	return len(r.handlers[t]) > 0
}

// HandlerCount returns the number of handlers registered for the given type
func (r *Router) HandlerCount(t EventType) int {
	return len(r.handlers[t])
}

// Pending returns the queued event count
func (r *Router) Pending() int {
	return r.queue.Len()
}
