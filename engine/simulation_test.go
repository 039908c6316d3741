package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/orbit-runner/archetype"
	"github.com/lixenwraith/orbit-runner/event"
	"github.com/lixenwraith/orbit-runner/pool"
	"github.com/lixenwraith/orbit-runner/spawn"
	"github.com/lixenwraith/orbit-runner/vmath"
)

const dt = 1.0 / 60

// pebbleRegistry holds a single orb archetype so collisions are predictable
func pebbleRegistry() *archetype.Registry {
	return archetype.NewRegistry().MustRegister(&archetype.Archetype{
		ID: "pebble", Tier: archetype.TierEasy, Family: archetype.FamilyOrb,
		Build: func(s *archetype.Shape) { s.Radius = 0.4 },
	})
}

type recorder struct {
	events []event.GameEvent
}

func (r *recorder) count(t event.EventType) int {
	n := 0
	for _, ev := range r.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

func newSim(t *testing.T, reg *archetype.Registry) (*Simulation, *recorder) {
	t.Helper()
	sim, err := NewSimulation(DefaultConfig(), Deps{Registry: reg, Seed: 7})
	require.NoError(t, err)
	rec := &recorder{}
	sim.Router().Subscribe(func(ev event.GameEvent) { rec.events = append(rec.events, ev) }, event.AllTypes()...)
	return sim, rec
}

// parkAt forces a spawn and pins the obstacle at pos with no motion
func parkAt(t *testing.T, sim *Simulation, pos vmath.Vec2) pool.Handle {
	t.Helper()
	h, ok := sim.ForceSpawnImmediate()
	require.True(t, ok)
	o, ok := sim.Pool().Get(h)
	require.True(t, ok)
	o.Position = pos
	o.Velocity = vmath.Vec2{}
	o.Scale = 1
	return h
}

func TestClearAllLiveObstaclesDropsEveryRegistration(t *testing.T) {
	sim, rec := newSim(t, nil)
	sim.Start(0)

	for i := 0; i < 5; i++ {
		_, ok := sim.ForceSpawnImmediate()
		require.True(t, ok)
	}
	require.Equal(t, 5, sim.Pool().ActiveCount())
	require.Equal(t, 5, sim.Safety().Registered())

	assert.Equal(t, 5, sim.ClearAllLiveObstacles())
	assert.Zero(t, sim.Pool().ActiveCount())
	assert.Zero(t, sim.Safety().Registered())
	assert.Empty(t, sim.Safety().BlockedAngles())

	cleared := 0
	for _, ev := range rec.events {
		if ev.Type == event.EventObstacleCleared {
			assert.Equal(t, event.ClearForced, ev.Payload.(*event.ObstacleClearedPayload).Reason)
			cleared++
		}
	}
	assert.Equal(t, 5, cleared)
}

func TestCollisionEndsSessionAndReviveResumes(t *testing.T) {
	sim, rec := newSim(t, pebbleRegistry())
	sim.Start(0)
	parkAt(t, sim, sim.Player().Position())

	sim.Tick(dt)
	require.True(t, sim.Over())
	assert.Equal(t, spawn.PhaseStopped, sim.Scheduler().Phase())
	assert.Zero(t, sim.Pool().ActiveCount(), "the colliding obstacle is released")
	assert.Equal(t, 1, rec.count(event.EventPlayerHit))
	assert.Equal(t, 1, rec.count(event.EventGameOver))

	score := sim.Score()
	for i := 0; i < 60; i++ {
		sim.Tick(dt)
	}
	assert.Equal(t, score, sim.Score(), "score frozen after game over")

	require.True(t, sim.Revive())
	assert.False(t, sim.Revive(), "already alive")
	assert.False(t, sim.Over())
	assert.True(t, sim.Player().Invulnerable())
	assert.Equal(t, 1, rec.count(event.EventRevived))

	resume := sim.Config().Gameplay.ReviveResumeTicks
	for i := 0; i < resume-1; i++ {
		sim.Tick(dt)
	}
	assert.Equal(t, spawn.PhaseStopped, sim.Scheduler().Phase())
	sim.Tick(dt)
	assert.Equal(t, spawn.PhaseRunning, sim.Scheduler().Phase())
}

func TestReviveGraceIgnoresContact(t *testing.T) {
	sim, _ := newSim(t, pebbleRegistry())
	sim.Start(0)
	parkAt(t, sim, sim.Player().Position())
	sim.Tick(dt)
	require.True(t, sim.Revive())

	// Spawning is still held, bypass it through the pool directly
	reg := sim.Registry()
	a, _ := reg.Get("pebble")
	h := sim.Pool().Acquire(a)
	o, _ := sim.Pool().Get(h)
	o.Position = sim.Player().Position()
	o.Moving = true

	sim.Tick(dt)
	assert.False(t, sim.Over())
}

func TestNearMissSuspendsAllSpawning(t *testing.T) {
	sim, rec := newSim(t, pebbleRegistry())
	sim.Start(0)

	// One unit outward from the player: inside near-miss distance, outside contact
	parkAt(t, sim, vmath.PointOnCircle(0, sim.Player().OrbitRadius()+1))
	sim.Tick(dt)
	require.False(t, sim.Over())
	require.Equal(t, 1, rec.count(event.EventNearMiss))
	require.True(t, sim.Monitor().Suspended())
	assert.InDelta(t, sim.Config().Gameplay.NearMissBonus, sim.Score(), 1)

	spawned := rec.count(event.EventObstacleSpawned)
	for i := 0; i < 60; i++ {
		sim.Tick(dt)
		_, ok := sim.ForceSpawnImmediate()
		assert.False(t, ok)
	}
	assert.Equal(t, spawned, rec.count(event.EventObstacleSpawned))
	assert.Equal(t, spawn.PhaseSuspended, sim.Scheduler().Phase())
}

func TestOffScreenObstaclesAreReleased(t *testing.T) {
	sim, rec := newSim(t, nil)
	sim.Start(0)
	h := parkAt(t, sim, vmath.Vec2{X: 40, Y: 0})
	o, _ := sim.Pool().Get(h)
	o.Velocity = vmath.Vec2{X: 1}

	sim.Tick(dt)
	assert.False(t, sim.Pool().Valid(h))
	assert.False(t, sim.Safety().IsRegistered(h))
	require.Equal(t, 1, rec.count(event.EventObstacleCleared))
	for _, ev := range rec.events {
		if ev.Type == event.EventObstacleCleared {
			assert.Equal(t, event.ClearOffScreen, ev.Payload.(*event.ObstacleClearedPayload).Reason)
		}
	}
}

func TestLongSessionStaysBounded(t *testing.T) {
	sim, rec := newSim(t, nil)
	cfg := sim.Config()
	pilot := DefaultAutopilot()
	sim.Start(cfg.Wave.ForceAfterGames)

	for i := 0; i < 120*60; i++ {
		pilot.Drive(sim)
		sim.Tick(dt)
		if sim.Over() {
			require.True(t, sim.Revive())
		}
		require.LessOrEqual(t, sim.Safety().Registered(), sim.Pool().ActiveCount())
	}

	for _, id := range sim.Registry().IDs() {
		assert.LessOrEqual(t, sim.Pool().PooledCount(id), cfg.Pool.MaxFor(id), id)
	}
	assert.Positive(t, rec.count(event.EventObstacleSpawned))
	assert.Positive(t, rec.count(event.EventTierUnlocked))
	assert.GreaterOrEqual(t, int(sim.Scheduler().Tracker().Tier()), int(archetype.TierHard))
	assert.GreaterOrEqual(t, sim.Wave().Waves(), 1)
	assert.Zero(t, sim.Router().Pending())
}

func TestSameSeedSameSession(t *testing.T) {
	run := func() Snapshot {
		sim, err := NewSimulation(DefaultConfig(), Deps{Seed: 42})
		require.NoError(t, err)
		pilot := DefaultAutopilot()
		sim.Start(0)
		for i := 0; i < 900; i++ {
			pilot.Drive(sim)
			sim.Tick(dt)
		}
		return sim.Snapshot()
	}
	assert.Equal(t, run(), run())
}

func TestSnapshotReflectsState(t *testing.T) {
	sim, _ := newSim(t, pebbleRegistry())
	sim.Start(0)
	parkAt(t, sim, vmath.PointOnCircle(180, sim.Player().OrbitRadius()))
	sim.Tick(dt)

	snap := sim.Snapshot()
	assert.Equal(t, int64(1), snap.Tick)
	assert.Equal(t, 1, snap.Session)
	require.Len(t, snap.Obstacles, 1)
	assert.Equal(t, "pebble", snap.Obstacles[0].Archetype)
	assert.Equal(t, "orb", snap.Obstacles[0].Family)
	assert.True(t, snap.Obstacles[0].Blocking)
	assert.Equal(t, "easy", snap.Tier)

	raw, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"archetype":"pebble"`)
}

func TestTickClampsLargeSteps(t *testing.T) {
	sim, _ := newSim(t, nil)
	sim.Start(0)
	sim.Tick(10)
	assert.InDelta(t, sim.Config().Gameplay.MaxTickDelta, sim.Elapsed(), 1e-9)
	sim.Tick(0)
	sim.Tick(-1)
	assert.Equal(t, int64(1), sim.Ticks())
}

func TestNewSimulationRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Spawn.MaxOnScreen = 0
	_, err := NewSimulation(cfg, Deps{})
	assert.ErrorIs(t, err, spawn.ErrInvalid)

	cfg = DefaultConfig()
	cfg.Gameplay.OrbitRadius = 0
	_, err = NewSimulation(cfg, Deps{})
	assert.ErrorIs(t, err, ErrInvalid)
}
