package fsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/orbit-runner/event"
)

const (
	stateIdle StateID = iota + 1
	stateWarn
	stateActive
)

type trace struct {
	log []string
	arm bool
}

func buildMachine() *Machine[*trace] {
	m := NewMachine[*trace]()
	idle := m.AddState(stateIdle, "idle")
	warn := m.AddState(stateWarn, "warn")
	active := m.AddState(stateActive, "active")

	idle.OnEnter = append(idle.OnEnter, func(t *trace) { t.log = append(t.log, "enter idle") })
	warn.OnEnter = append(warn.OnEnter, func(t *trace) { t.log = append(t.log, "enter warn") })
	warn.OnExit = append(warn.OnExit, func(t *trace) { t.log = append(t.log, "exit warn") })
	active.OnUpdate = append(active.OnUpdate, func(t *trace) { t.log = append(t.log, "tick active") })

	m.AddTransition(stateIdle, stateWarn, When(func(t *trace) bool { return t.arm }))
	m.AddTransition(stateWarn, stateActive, After[*trace](1.0))
	m.AddTransition(stateActive, stateIdle, After[*trace](0.5))
	m.AddEventTransition(stateWarn, stateIdle, event.EventRevived, nil)
	return m
}

func TestTimedTransitions(t *testing.T) {
	ctx := &trace{}
	m := buildMachine()
	require.NoError(t, m.Init(ctx))
	assert.Equal(t, "idle", m.StateName())

	m.Update(ctx, 0.1)
	assert.Equal(t, stateIdle, m.State(), "guard not armed")

	ctx.arm = true
	m.Update(ctx, 0.1)
	require.Equal(t, stateWarn, m.State())
	assert.Zero(t, m.TimeInState())

	m.Update(ctx, 0.5)
	assert.Equal(t, stateWarn, m.State())
	m.Update(ctx, 0.5)
	assert.Equal(t, stateActive, m.State())

	ctx.arm = false
	m.Update(ctx, 0.3)
	m.Update(ctx, 0.3)
	assert.Equal(t, stateIdle, m.State())
	assert.Equal(t, []string{"enter idle", "enter warn", "exit warn", "tick active", "tick active", "enter idle"}, ctx.log)
}

func TestEventTransitionAndPause(t *testing.T) {
	ctx := &trace{arm: true}
	m := buildMachine()
	require.NoError(t, m.Init(ctx))
	m.Update(ctx, 0)
	require.Equal(t, stateWarn, m.State())

	assert.False(t, m.HandleEvent(ctx, event.EventGameOver))
	m.Pause()
	assert.False(t, m.HandleEvent(ctx, event.EventRevived))
	m.Update(ctx, 10)
	assert.Equal(t, stateWarn, m.State(), "paused machine does not advance")

	m.Resume()
	assert.True(t, m.HandleEvent(ctx, event.EventRevived))
	assert.Equal(t, stateIdle, m.State())
}

func TestResetCancelsInFlight(t *testing.T) {
	ctx := &trace{arm: true}
	m := buildMachine()
	require.NoError(t, m.Init(ctx))
	m.Update(ctx, 0)
	m.Update(ctx, 0.9)
	require.Equal(t, stateWarn, m.State())

	ctx.arm = false
	require.NoError(t, m.Reset(ctx))
	assert.Equal(t, stateIdle, m.State())
	assert.Zero(t, m.TimeInState())
	assert.Contains(t, ctx.log, "exit warn")
}

func TestInitWithoutStates(t *testing.T) {
	m := NewMachine[*trace]()
	assert.Error(t, m.Init(&trace{}))
	assert.Equal(t, "", m.StateName())
}
