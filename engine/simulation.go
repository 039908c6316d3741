// Package engine composes the spawn, safety, difficulty and pacing components into one
// deterministic simulation advanced by Tick
package engine

import (
	"math/rand"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/lixenwraith/orbit-runner/archetype"
	"github.com/lixenwraith/orbit-runner/difficulty"
	"github.com/lixenwraith/orbit-runner/event"
	"github.com/lixenwraith/orbit-runner/nearmiss"
	"github.com/lixenwraith/orbit-runner/pool"
	"github.com/lixenwraith/orbit-runner/safety"
	"github.com/lixenwraith/orbit-runner/spawn"
	"github.com/lixenwraith/orbit-runner/status"
	"github.com/lixenwraith/orbit-runner/wave"
)

// Deps are the host-provided collaborators, all optional
type Deps struct {
	// Registry defaults to archetype.DefaultRegistry
	Registry *archetype.Registry
	Gate     spawn.Gate
	Status   *status.Registry
	Logger   *zap.Logger
	// Seed feeds the simulation RNG
	Seed int64
}

// Simulation is the composition root: it owns every engine component and runs them in a fixed order
type Simulation struct {
	cfg    Config
	logger *zap.Logger
	rng    *rand.Rand

	queue    *event.EventQueue
	router   *event.Router
	status   *status.Registry
	registry *archetype.Registry

	pool      *pool.Pool
	safety    *safety.Analyzer
	tracker   *difficulty.Tracker
	scheduler *spawn.Scheduler
	monitor   *nearmiss.Monitor
	wave      *wave.Trigger

	player   Player
	deferred Deferred

	tick    int64
	session int
	elapsed float64
	score   float64
	running bool
	over    bool
	revives int

	// Scratch buffers reused across ticks
	outbound []pool.Handle
	hits     []pool.Handle

	// Cached metric pointers
	statTicks   *atomic.Int64
	statActive  *atomic.Int64
	statPooled  *atomic.Int64
	statScore   *status.Float
	statFreeArc *status.Float
	statDanger  *atomic.Bool
	statOver    *atomic.Bool
}

// NewSimulation validates cfg and wires every component
func NewSimulation(cfg Config, deps Deps) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Registry == nil {
		deps.Registry = archetype.DefaultRegistry()
	}
	if deps.Status == nil {
		deps.Status = status.NewRegistry()
	}
	curve, err := difficulty.NewCurve(cfg.Difficulty)
	if err != nil {
		return nil, err
	}

	s := &Simulation{
		cfg:      cfg,
		logger:   deps.Logger,
		rng:      rand.New(rand.NewSource(deps.Seed)),
		queue:    event.NewEventQueue(),
		status:   deps.Status,
		registry: deps.Registry,
		player:   NewPlayer(cfg.Gameplay),

		statTicks:   deps.Status.Ints.Get("engine.ticks"),
		statActive:  deps.Status.Ints.Get("pool.active"),
		statPooled:  deps.Status.Ints.Get("pool.pooled"),
		statScore:   deps.Status.Floats.Get("session.score"),
		statFreeArc: deps.Status.Floats.Get("safety.free_arc"),
		statDanger:  deps.Status.Bools.Get("pacing.danger"),
		statOver:    deps.Status.Bools.Get("session.over"),
	}
	s.router = event.NewRouter(s.queue)

	s.pool = pool.New(cfg.Pool, s.logger.Named("pool"))
	s.safety = safety.New(cfg.Safety, cfg.Gameplay.OrbitRadius, s.pool, s.logger.Named("safety"))
	s.pool.SetDetacher(s.safety)
	s.tracker = difficulty.NewTracker(curve, s.logger.Named("difficulty"))
	s.monitor = nearmiss.NewMonitor(cfg.NearMiss, s.pool, s.safety, s.router, s.logger.Named("nearmiss"))

	s.scheduler, err = spawn.New(cfg.Spawn, spawn.Deps{
		Tracker:  s.tracker,
		Registry: s.registry,
		Pool:     s.pool,
		Safety:   s.safety,
		Pacer:    s.monitor,
		Gate:     deps.Gate,
		Router:   s.router,
		Status:   s.status,
		Logger:   s.logger.Named("spawn"),
		Rand:     s.rng,
	})
	if err != nil {
		return nil, err
	}

	s.wave, err = wave.NewTrigger(cfg.Wave, s.scheduler, s.router, s.logger.Named("wave"))
	if err != nil {
		return nil, err
	}

	s.router.Subscribe(s.onNearMiss, event.EventNearMiss)
	return s, nil
}

// Start begins a new session
// gamesWithoutWave is the host-persisted count of finished sessions that saw no danger wave
func (s *Simulation) Start(gamesWithoutWave int) {
	s.clearObstacles(false)
	s.deferred.Cancel()
	s.queue.Consume()

	s.session++
	s.elapsed, s.score = 0, 0
	s.over = false
	s.running = true
	s.revives = 0
	s.player.Reset(0)
	s.monitor.Reset()
	s.scheduler.Start()
	s.wave.StartSession(gamesWithoutWave)

	s.logger.Info("session started", zap.Int("session", s.session), zap.Int("games_without_wave", gamesWithoutWave))
	s.router.Publish(event.EventSessionStarted, s.sessionPayload())
	s.router.DispatchAll()
}

// Tick advances the simulation by dt seconds
// Order: difficulty, movement and collision, safety bookkeeping, near-miss, wave, scheduler, deferred, dispatch
func (s *Simulation) Tick(dt float64) {
	if dt <= 0 {
		return
	}
	if dt > s.cfg.Gameplay.MaxTickDelta {
		dt = s.cfg.Gameplay.MaxTickDelta
	}
	s.tick++
	s.router.SetTick(s.tick)

	alive := s.running && !s.over
	if alive {
		s.elapsed += dt
		s.score += s.cfg.Gameplay.ScorePerSecond * dt
		s.scheduler.UpdateDifficulty(dt, s.score)
		s.player.Update(dt)
	}

	s.moveObstacles(dt, alive)
	s.safety.Prune()

	// A collision this tick skips pacing and waves
	if s.running && !s.over {
		s.monitor.Tick(dt, s.player.Position())
		s.wave.Tick(dt, s.score)
	}
	s.scheduler.Tick(dt)
	s.deferred.Tick(dt)
	s.router.DispatchAll()

	s.updateStatus()
}

// moveObstacles integrates positions, releases obstacles that left the view and resolves collisions
func (s *Simulation) moveObstacles(dt float64, alive bool) {
	s.outbound = s.outbound[:0]
	s.hits = s.hits[:0]
	vulnerable := alive && !s.player.Invulnerable()

	s.pool.Each(func(h pool.Handle, o *pool.Obstacle) bool {
		if !o.Moving {
			return true
		}
		o.Position = o.Position.Add(o.Velocity.Scale(dt))
		o.Rotation += o.Shape.Spin * dt
		o.Age += dt
		if o.FlashTimer > 0 {
			o.FlashTimer -= dt
		}

		if s.cfg.Spawn.Outbound(o.Position, o.Velocity) {
			s.outbound = append(s.outbound, h)
		} else if vulnerable && s.player.Hits(o) {
			s.hits = append(s.hits, h)
		}
		return true
	})

	for _, h := range s.outbound {
		s.release(h, event.ClearOffScreen)
	}
	if len(s.hits) == 0 {
		return
	}

	// First contact ends the session; the rest are cleared with it
	first := s.hits[0]
	o, _ := s.pool.Get(first)
	id := o.Archetype.ID
	for _, h := range s.hits {
		s.release(h, event.ClearCollision)
	}
	s.router.Publish(event.EventPlayerHit, &event.PlayerHitPayload{Obstacle: first, Archetype: id, Fatal: true})
	s.gameOver(id)
}

func (s *Simulation) release(h pool.Handle, reason event.ClearReason) {
	o, ok := s.pool.Get(h)
	if !ok {
		return
	}
	payload := &event.ObstacleClearedPayload{Handle: h, Archetype: o.Archetype.ID, Reason: reason, Position: o.Position}
	if s.pool.Release(h) {
		s.router.Publish(event.EventObstacleCleared, payload)
	}
}

func (s *Simulation) gameOver(cause string) {
	s.over = true
	s.scheduler.Stop()
	s.wave.HandleEvent(event.EventGameOver)
	s.deferred.Cancel()

	s.logger.Info("game over",
		zap.Int("session", s.session),
		zap.Float64("elapsed", s.elapsed),
		zap.Float64("score", s.score),
		zap.String("cause", cause),
	)
	s.router.Publish(event.EventGameOver, s.sessionPayload())
}

// Revive continues the session: the field is cleared, the player gets a grace window and
// spawning resumes after the configured number of ticks
func (s *Simulation) Revive() bool {
	if !s.running || !s.over {
		return false
	}
	s.ClearAllLiveObstacles()
	s.over = false
	s.revives++
	s.player.Grant(s.cfg.Gameplay.ReviveGrace)
	s.monitor.Reset()
	s.wave.HandleEvent(event.EventRevived)

	s.deferred.AfterTicks(s.cfg.Gameplay.ReviveResumeTicks, func() {
		if s.running && !s.over {
			s.scheduler.Resume(s.cfg.Spawn.FirstDelay)
		}
	})

	s.logger.Info("revived", zap.Int("session", s.session), zap.Int("revives", s.revives))
	s.router.Publish(event.EventRevived, s.sessionPayload())
	s.router.DispatchAll()
	return true
}

// ClearAllLiveObstacles releases every active obstacle and drops every safety registration
// Returns the number of obstacles cleared
func (s *Simulation) ClearAllLiveObstacles() int {
	n := s.clearObstacles(true)
	s.router.DispatchAll()
	return n
}

func (s *Simulation) clearObstacles(announce bool) int {
	n := s.pool.ReleaseAll(func(h pool.Handle, o *pool.Obstacle) {
		if announce {
			s.router.Publish(event.EventObstacleCleared, &event.ObstacleClearedPayload{
				Handle: h, Archetype: o.Archetype.ID, Reason: event.ClearForced, Position: o.Position,
			})
		}
	})
	s.safety.Clear()
	if n > 0 {
		s.logger.Debug("cleared live obstacles", zap.Int("count", n))
	}
	return n
}

func (s *Simulation) onNearMiss(event.GameEvent) {
	if s.running && !s.over {
		s.score += s.cfg.Gameplay.NearMissBonus
	}
}

func (s *Simulation) sessionPayload() *event.SessionPayload {
	return &event.SessionPayload{Session: s.session, Elapsed: s.elapsed, Score: s.score}
}

func (s *Simulation) updateStatus() {
	s.statTicks.Store(s.tick)
	s.statActive.Store(int64(s.pool.ActiveCount()))
	s.statPooled.Store(int64(s.pool.TotalPooled()))
	s.statScore.Store(s.score)
	s.statDanger.Store(s.monitor.Danger())
	s.statOver.Store(s.over)
	if s.tick%30 == 0 {
		s.statFreeArc.Store(s.safety.LargestFreeArc())
	}
}

// Steer forwards the steering axis to the player
func (s *Simulation) Steer(input float64) { s.player.Steer(input) }

// NotifyOnboardingGateCleared releases a first spawn held by the onboarding gate
func (s *Simulation) NotifyOnboardingGateCleared() { s.scheduler.NotifyOnboardingGateCleared() }

// ForceSpawnImmediate spawns one obstacle now, bypassing the timer and cap
func (s *Simulation) ForceSpawnImmediate() (pool.Handle, bool) {
	h, ok := s.scheduler.ForceSpawnImmediate()
	if ok {
		s.router.DispatchAll()
	}
	return h, ok
}

// SetMaxDifficultyTier caps tier unlocking
func (s *Simulation) SetMaxDifficultyTier(t archetype.Tier) { s.scheduler.SetMaxDifficultyTier(t) }

// Stop ends the session without a game over
func (s *Simulation) Stop() {
	s.running = false
	s.scheduler.Stop()
	s.wave.Stop()
	s.deferred.Cancel()
}

func (s *Simulation) Router() *event.Router         { return s.router }
func (s *Simulation) Status() *status.Registry      { return s.status }
func (s *Simulation) Pool() *pool.Pool              { return s.pool }
func (s *Simulation) Safety() *safety.Analyzer      { return s.safety }
func (s *Simulation) Scheduler() *spawn.Scheduler   { return s.scheduler }
func (s *Simulation) Monitor() *nearmiss.Monitor    { return s.monitor }
func (s *Simulation) Wave() *wave.Trigger           { return s.wave }
func (s *Simulation) Registry() *archetype.Registry { return s.registry }
func (s *Simulation) Player() *Player               { return &s.player }
func (s *Simulation) Config() Config                { return s.cfg }

// Score returns the session score
func (s *Simulation) Score() float64 { return s.score }

// Elapsed returns alive time this session, seconds
func (s *Simulation) Elapsed() float64 { return s.elapsed }

// Over reports whether the player has been consumed and not revived
func (s *Simulation) Over() bool { return s.over }

// Running reports whether a session is in progress, including after game over
func (s *Simulation) Running() bool { return s.running }

// Ticks returns the tick counter
func (s *Simulation) Ticks() int64 { return s.tick }

// Session returns the 1-based session counter
func (s *Simulation) Session() int { return s.session }

// Revives returns the revive count this session
func (s *Simulation) Revives() int { return s.revives }
