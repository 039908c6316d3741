package event

import "github.com/lixenwraith/orbit-runner/parameter"

// EventQueue is a fixed ring buffer of pending events
// Single-threaded: producers and the consumer run inside the same tick
//
// Overflow: Oldest events overwritten when full
type EventQueue struct {
	events  [parameter.EventQueueSize]GameEvent
	head    uint64 // Read index
	tail    uint64 // Write index
	dropped uint64
	scratch []GameEvent
}

func NewEventQueue() *EventQueue {
	return &EventQueue{
		scratch: make([]GameEvent, 0, 64),
	}
}

// Push appends an event, overwriting the oldest when full
func (eq *EventQueue) Push(ev GameEvent) {
	eq.events[eq.tail&parameter.EventBufferMask] = ev
	eq.tail++
	if eq.tail-eq.head > parameter.EventQueueSize {
		eq.head = eq.tail - parameter.EventQueueSize
		eq.dropped++
	}
}

// Consume returns all pending events in FIFO order and empties the queue
// The returned slice is reused by the next Consume call
func (eq *EventQueue) Consume() []GameEvent {
	if eq.tail == eq.head {
		return nil
	}
	out := eq.scratch[:0]
	for i := eq.head; i < eq.tail; i++ {
		idx := i & parameter.EventBufferMask
		out = append(out, eq.events[idx])
		eq.events[idx] = GameEvent{}
	}
	eq.head = eq.tail
	eq.scratch = out
	return out
}

// Len returns pending event count
func (eq *EventQueue) Len() int {
	return int(eq.tail - eq.head)
}

// Dropped returns the number of events overwritten before being consumed
func (eq *EventQueue) Dropped() uint64 {
	return eq.dropped
}
