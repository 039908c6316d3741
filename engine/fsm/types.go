// Package fsm is a flat, tick-driven finite state machine
// Timed transitions replace coroutine waits; resetting the machine cancels anything in flight
package fsm

import "github.com/lixenwraith/orbit-runner/event"

// StateID identifies a state; StateNone means the machine is not initialized
type StateID int

const StateNone StateID = 0

// Node is one state and its outgoing transitions
type Node[T any] struct {
	ID   StateID
	Name string

	OnEnter  []ActionFunc[T]
	OnUpdate []ActionFunc[T]
	OnExit   []ActionFunc[T]

	// Transitions are evaluated in insertion order
	Transitions []Transition[T]
}

// Transition links two states
type Transition[T any] struct {
	Target StateID
	Event  event.EventType // EventNone = evaluated every tick
	Guard  GuardFunc[T]    // nil = always
}

// GuardFunc decides whether a transition fires
type GuardFunc[T any] func(ctx T, m *Machine[T]) bool

// ActionFunc is a side effect run on enter, update or exit
type ActionFunc[T any] func(ctx T)

// After is a guard that passes once the machine has spent at least seconds in its state
func After[T any](seconds float64) GuardFunc[T] {
	return func(_ T, m *Machine[T]) bool {
		return m.TimeInState() >= seconds
	}
}

// When adapts a context predicate into a guard
func When[T any](pred func(ctx T) bool) GuardFunc[T] {
	return func(ctx T, _ *Machine[T]) bool {
		return pred(ctx)
	}
}
