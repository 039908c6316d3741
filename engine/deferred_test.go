package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeferredOrderAndTiming(t *testing.T) {
	var d Deferred
	var trace []string

	d.AfterTicks(2, func() { trace = append(trace, "ticks") })
	d.After(0.05, func() { trace = append(trace, "seconds") })
	d.AfterTicks(0, func() {
		trace = append(trace, "next")
		d.AfterTicks(0, func() { trace = append(trace, "nested") })
	})
	require.Equal(t, 3, d.Len())

	assert.Equal(t, 1, d.Tick(0.02))
	assert.Equal(t, []string{"next"}, trace)

	assert.Equal(t, 2, d.Tick(0.02))
	assert.Equal(t, []string{"next", "ticks", "nested"}, trace)

	assert.Equal(t, 1, d.Tick(0.02))
	assert.Equal(t, []string{"next", "ticks", "nested", "seconds"}, trace)
	assert.Zero(t, d.Len())
}

func TestDeferredCancel(t *testing.T) {
	var d Deferred
	fired := false
	d.AfterTicks(1, func() { fired = true })
	d.Cancel()
	d.Tick(1)
	assert.False(t, fired)
	assert.Zero(t, d.Len())
}

func TestLoopTicksAndRunsCommands(t *testing.T) {
	sim, err := NewSimulation(DefaultConfig(), Deps{Seed: 3})
	require.NoError(t, err)
	loop := NewLoop(sim, time.Millisecond, nil)

	ticked := make(chan int64, 1)
	loop.OnTick(func(s *Simulation) {
		select {
		case ticked <- s.Ticks():
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	started := make(chan int, 1)
	require.True(t, loop.Do(func(s *Simulation) {
		s.Start(0)
		started <- s.Session()
	}))

	select {
	case session := <-started:
		assert.Equal(t, 1, session)
	case <-time.After(2 * time.Second):
		t.Fatal("command not run")
	}
	select {
	case <-ticked:
	case <-time.After(2 * time.Second):
		t.Fatal("no tick")
	}

	assert.True(t, loop.TogglePause())
	assert.True(t, loop.Paused())
	loop.Resume()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}
	assert.Positive(t, loop.Ticks())
	assert.False(t, loop.Running())
}
