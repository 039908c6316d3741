package wave

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/orbit-runner/engine/fsm"
	"github.com/lixenwraith/orbit-runner/event"
	"github.com/lixenwraith/orbit-runner/pool"
)

const dt = 1.0 / 60

type fakeSpawner struct {
	refuse bool
	calls  int
	spawns int
}

func (f *fakeSpawner) ForceSpawnImmediate() (pool.Handle, bool) {
	f.calls++
	if f.refuse {
		return pool.Handle{}, false
	}
	f.spawns++
	return pool.Handle{Index: uint32(f.spawns), Gen: 1}, true
}

type harness struct {
	trigger *Trigger
	spawner *fakeSpawner
	router  *event.Router
	events  []event.GameEvent
}

func newHarness(t *testing.T, cfg Config) *harness {
	t.Helper()
	h := &harness{spawner: &fakeSpawner{}, router: event.NewRouter(event.NewEventQueue())}
	tr, err := NewTrigger(cfg, h.spawner, h.router, nil)
	require.NoError(t, err)
	h.trigger = tr
	h.router.Subscribe(func(ev event.GameEvent) { h.events = append(h.events, ev) },
		event.EventWaveWarning, event.EventWaveStarted, event.EventWaveEnded)
	return h
}

// runUntil ticks until the trigger reaches want, failing after limit ticks
func (h *harness) runUntil(t *testing.T, want fsm.StateID, score float64, limit int) int {
	t.Helper()
	for i := 1; i <= limit; i++ {
		h.trigger.Tick(dt, score)
		if h.trigger.State() == want {
			h.router.DispatchAll()
			return i
		}
	}
	require.Failf(t, "state not reached", "want %d, at %s", want, h.trigger.StateName())
	return 0
}

func TestScoreGatedWaveLifecycle(t *testing.T) {
	cfg := DefaultConfig()
	h := newHarness(t, cfg)
	h.trigger.StartSession(0)
	require.Equal(t, StateIdle, h.trigger.State())

	for i := 0; i < 120; i++ {
		h.trigger.Tick(dt, 100)
	}
	assert.Equal(t, StateIdle, h.trigger.State(), "below min score")

	h.runUntil(t, StateWarning, 320, 1)
	assert.Equal(t, 1, h.trigger.Waves())
	assert.Equal(t, 800.0, h.trigger.NextScore())

	ticks := h.runUntil(t, StateBurst, 320, 200)
	assert.InDelta(t, cfg.WarningDuration/dt, float64(ticks), 2)
	assert.Zero(t, h.spawner.spawns, "warning only telegraphs")

	h.runUntil(t, StateCooldown, 320, 200)
	assert.Equal(t, cfg.BurstCount, h.spawner.spawns)

	h.runUntil(t, StateIdle, 320, 400)
	require.Len(t, h.events, 3)
	assert.Equal(t, event.EventWaveWarning, h.events[0].Type)
	assert.Equal(t, event.EventWaveStarted, h.events[1].Type)
	assert.Equal(t, event.EventWaveEnded, h.events[2].Type)
	assert.Equal(t, cfg.BurstCount, h.events[2].Payload.(*event.WavePayload).Count)

	// Same score does not re-arm until the next interval
	for i := 0; i < 120; i++ {
		h.trigger.Tick(dt, 790)
	}
	assert.Equal(t, StateIdle, h.trigger.State())
	h.runUntil(t, StateWarning, 800, 1)
	assert.Equal(t, 2, h.trigger.Waves())
}

func TestForcedEarlyWave(t *testing.T) {
	cfg := DefaultConfig()
	h := newHarness(t, cfg)
	h.trigger.StartSession(cfg.ForceAfterGames)

	ticks := h.runUntil(t, StateWarning, 0, int(cfg.ForcedDelay/dt)+5)
	assert.InDelta(t, cfg.ForcedDelay/dt, float64(ticks), 2)
	require.Len(t, h.events, 1)
	assert.True(t, h.events[0].Payload.(*event.WavePayload).Forced)

	// Forced wave fires once per session
	h.runUntil(t, StateIdle, 0, 1000)
	for i := 0; i < 600; i++ {
		h.trigger.Tick(dt, 0)
	}
	assert.Equal(t, StateIdle, h.trigger.State())
	assert.Equal(t, 1, h.trigger.Waves())
}

func TestForcedWaveDisabledBelowThreshold(t *testing.T) {
	cfg := DefaultConfig()
	h := newHarness(t, cfg)
	h.trigger.StartSession(cfg.ForceAfterGames - 1)
	for i := 0; i < int(2*cfg.ForcedDelay/dt); i++ {
		h.trigger.Tick(dt, 0)
	}
	assert.Equal(t, StateIdle, h.trigger.State())
}

func TestRefusedSpawnsAreRetried(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WarningDuration = 0
	h := newHarness(t, cfg)
	h.trigger.StartSession(0)
	h.runUntil(t, StateBurst, cfg.MinScore, 2)

	h.spawner.refuse = true
	for i := 0; i < 60; i++ {
		h.trigger.Tick(dt, cfg.MinScore)
	}
	assert.Equal(t, StateBurst, h.trigger.State())
	assert.Zero(t, h.spawner.spawns)
	assert.Equal(t, 60, h.spawner.calls)

	h.spawner.refuse = false
	h.runUntil(t, StateCooldown, cfg.MinScore, 200)
	assert.Equal(t, cfg.BurstCount, h.spawner.spawns)
}

func TestReviveCancelsWaveInFlight(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.trigger.StartSession(0)
	h.runUntil(t, StateWarning, 500, 1)

	assert.True(t, h.trigger.HandleEvent(event.EventRevived))
	assert.Equal(t, StateIdle, h.trigger.State())
	assert.False(t, h.trigger.HandleEvent(event.EventRevived), "idle ignores revive")
}

func TestStoppedTriggerIsFrozen(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	for i := 0; i < 60; i++ {
		h.trigger.Tick(dt, 10000)
	}
	assert.Equal(t, StateIdle, h.trigger.State(), "no session started")

	h.trigger.StartSession(0)
	h.trigger.Stop()
	h.trigger.Tick(dt, 10000)
	assert.Equal(t, StateIdle, h.trigger.State())
}

func TestValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
	cfg := DefaultConfig()
	cfg.BurstCount = 0
	_, err := NewTrigger(cfg, &fakeSpawner{}, nil, nil)
	assert.ErrorIs(t, err, ErrInvalid)
}
