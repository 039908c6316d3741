package fsm

import (
	"fmt"

	"github.com/lixenwraith/orbit-runner/event"
)

// Machine runs one active state at a time, T is the context passed to guards and actions
type Machine[T any] struct {
	nodes   map[StateID]*Node[T]
	initial StateID

	active      StateID
	timeInState float64
	paused      bool
}

// NewMachine creates an empty machine
func NewMachine[T any]() *Machine[T] {
	return &Machine[T]{nodes: make(map[StateID]*Node[T])}
}

// AddState registers a node; the first state added becomes the initial state
func (m *Machine[T]) AddState(id StateID, name string) *Node[T] {
	n := &Node[T]{ID: id, Name: name}
	m.nodes[id] = n
	if m.initial == StateNone {
		m.initial = id
	}
	return n
}

// SetInitial overrides the initial state
func (m *Machine[T]) SetInitial(id StateID) { m.initial = id }

// AddTransition appends a tick transition guarded by guard
func (m *Machine[T]) AddTransition(from, to StateID, guard GuardFunc[T]) {
	if n, ok := m.nodes[from]; ok {
		n.Transitions = append(n.Transitions, Transition[T]{Target: to, Guard: guard})
	}
}

// AddEventTransition appends a transition taken only when ev is delivered through HandleEvent
func (m *Machine[T]) AddEventTransition(from, to StateID, ev event.EventType, guard GuardFunc[T]) {
	if n, ok := m.nodes[from]; ok {
		n.Transitions = append(n.Transitions, Transition[T]{Target: to, Event: ev, Guard: guard})
	}
}

// Init enters the initial state
func (m *Machine[T]) Init(ctx T) error {
	n, ok := m.nodes[m.initial]
	if !ok {
		return fmt.Errorf("fsm: initial state %d not found", m.initial)
	}
	m.active = n.ID
	m.timeInState = 0
	for _, fn := range n.OnEnter {
		fn(ctx)
	}
	return nil
}

// Update advances time in state by dt seconds, runs OnUpdate, then takes at most one tick transition
func (m *Machine[T]) Update(ctx T, dt float64) {
	if m.paused || m.active == StateNone {
		return
	}
	m.timeInState += dt

	n := m.nodes[m.active]
	for _, fn := range n.OnUpdate {
		fn(ctx)
	}
	for _, tr := range n.Transitions {
		if tr.Event != event.EventNone {
			continue
		}
		if tr.Guard == nil || tr.Guard(ctx, m) {
			m.transition(ctx, tr.Target)
			return
		}
	}
}

// HandleEvent takes the first matching event transition of the active state
func (m *Machine[T]) HandleEvent(ctx T, ev event.EventType) bool {
	if m.paused || m.active == StateNone || ev == event.EventNone {
		return false
	}
	for _, tr := range m.nodes[m.active].Transitions {
		if tr.Event != ev {
			continue
		}
		if tr.Guard == nil || tr.Guard(ctx, m) {
			m.transition(ctx, tr.Target)
			return true
		}
	}
	return false
}

// Goto forces a transition regardless of guards
func (m *Machine[T]) Goto(ctx T, id StateID) {
	m.transition(ctx, id)
}

func (m *Machine[T]) transition(ctx T, target StateID) {
	next, ok := m.nodes[target]
	if !ok {
		panic(fmt.Sprintf("fsm: transition to unknown state %d", target))
	}
	if cur, ok := m.nodes[m.active]; ok {
		for _, fn := range cur.OnExit {
			fn(ctx)
		}
	}
	m.active = target
	m.timeInState = 0
	for _, fn := range next.OnEnter {
		fn(ctx)
	}
}

// Reset exits the active state and re-enters the initial one
func (m *Machine[T]) Reset(ctx T) error {
	if cur, ok := m.nodes[m.active]; ok {
		for _, fn := range cur.OnExit {
			fn(ctx)
		}
	}
	m.active = StateNone
	m.paused = false
	return m.Init(ctx)
}

// Pause suspends Update and HandleEvent
func (m *Machine[T]) Pause() { m.paused = true }

// Resume re-enables evaluation
func (m *Machine[T]) Resume() { m.paused = false }

// Paused reports whether evaluation is suspended
func (m *Machine[T]) Paused() bool { return m.paused }

// State returns the active state id
func (m *Machine[T]) State() StateID { return m.active }

// StateName returns the active state's name
func (m *Machine[T]) StateName() string {
	if n, ok := m.nodes[m.active]; ok {
		return n.Name
	}
	return ""
}

// TimeInState returns seconds since the last transition
func (m *Machine[T]) TimeInState() float64 { return m.timeInState }
