// Package spawn decides when, where and what obstacles enter play
package spawn

import (
	"errors"
	"math/rand"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/lixenwraith/orbit-runner/archetype"
	"github.com/lixenwraith/orbit-runner/difficulty"
	"github.com/lixenwraith/orbit-runner/event"
	"github.com/lixenwraith/orbit-runner/pool"
	"github.com/lixenwraith/orbit-runner/safety"
	"github.com/lixenwraith/orbit-runner/status"
)

// Phase is the scheduler session state
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseWaitingFirstSpawn
	PhaseRunning
	// PhaseSuspended holds while the pacer's breathing room is active
	PhaseSuspended
	// PhaseGated holds while the onboarding gate blocks the first spawn
	PhaseGated
	PhaseStopped
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseWaitingFirstSpawn:
		return "waiting_first_spawn"
	case PhaseRunning:
		return "running"
	case PhaseSuspended:
		return "suspended"
	case PhaseGated:
		return "gated"
	case PhaseStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Pacer is the near-miss feedback the scheduler obeys; implemented by nearmiss.Monitor
type Pacer interface {
	Suspended() bool
	SpawnMultiplier() float64
}

// Gate is the external onboarding collaborator
type Gate interface {
	Active() bool
}

// Instances is the obstacle store; implemented by pool.Pool
type Instances interface {
	Acquire(a *archetype.Archetype) pool.Handle
	Get(h pool.Handle) (*pool.Obstacle, bool)
	ActiveCount() int
}

// Safety picks convergence angles and tracks spawned instances; implemented by safety.Analyzer
type Safety interface {
	Resolve(preferred float64) safety.Resolution
	RegisterObstacle(h pool.Handle)
	OrbitRadius() float64
}

// Deps are the scheduler collaborators, wired by the composition root
type Deps struct {
	Tracker  *difficulty.Tracker
	Registry *archetype.Registry
	Pool     Instances
	Safety   Safety
	// Pacer and Gate are optional
	Pacer  Pacer
	Gate   Gate
	Router *event.Router
	Status *status.Registry
	Logger *zap.Logger
	Rand   *rand.Rand
}

// Stats counts scheduler outcomes since construction
type Stats struct {
	Spawned          uint64 `json:"spawned"`
	Forced           uint64 `json:"forced"`
	Procedural       uint64 `json:"procedural"`
	SkippedBreathing uint64 `json:"skipped_breathing"`
	SkippedCap       uint64 `json:"skipped_cap"`
	UnsafeAngles     uint64 `json:"unsafe_angles"`
	ForceRejected    uint64 `json:"force_rejected"`
}

// Scheduler is the spawn orchestrator
type Scheduler struct {
	cfg      Config
	tracker  *difficulty.Tracker
	registry *archetype.Registry
	pool     Instances
	safety   Safety
	pacer    Pacer
	gate     Gate
	router   *event.Router
	logger   *zap.Logger
	rng      *rand.Rand

	phase Phase
	// resume is the phase restored when a suspension ends
	resume      Phase
	timer       float64
	gateCleared bool

	stats Stats

	// Cached metric pointers
	statPhase    *status.Text
	statTier     *status.Text
	statSpawned  *atomic.Int64
	statSkipRoom *atomic.Int64
	statSkipCap  *atomic.Int64
	statInterval *status.Float
}

var errMissingDep = errors.New("spawn: missing dependency")

// New validates cfg and wires the scheduler; it starts Idle
func New(cfg Config, deps Deps) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deps.Tracker == nil || deps.Registry == nil || deps.Pool == nil || deps.Safety == nil {
		return nil, errMissingDep
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewSource(1))
	}
	if deps.Status == nil {
		deps.Status = status.NewRegistry()
	}

	s := &Scheduler{
		cfg:      cfg,
		tracker:  deps.Tracker,
		registry: deps.Registry,
		pool:     deps.Pool,
		safety:   deps.Safety,
		pacer:    deps.Pacer,
		gate:     deps.Gate,
		router:   deps.Router,
		logger:   deps.Logger,
		rng:      deps.Rand,

		statPhase:    deps.Status.Strings.Get("spawn.phase"),
		statTier:     deps.Status.Strings.Get("difficulty.tier"),
		statSpawned:  deps.Status.Ints.Get("spawn.count"),
		statSkipRoom: deps.Status.Ints.Get("spawn.skip_breathing"),
		statSkipCap:  deps.Status.Ints.Get("spawn.skip_cap"),
		statInterval: deps.Status.Floats.Get("spawn.interval"),
	}
	s.setPhase(PhaseIdle)
	s.statTier.Store(s.tracker.Tier().String())
	return s, nil
}

func (s *Scheduler) setPhase(p Phase) {
	if s.phase != p {
		s.logger.Debug("spawn phase", zap.Stringer("from", s.phase), zap.Stringer("to", p))
	}
	s.phase = p
	s.statPhase.Store(p.String())
}

func (s *Scheduler) publish(t event.EventType, payload any) {
	if s.router != nil {
		s.router.Publish(t, payload)
	}
}

// Start begins a session: difficulty is reset and the first spawn is armed
func (s *Scheduler) Start() {
	s.tracker.Reset()
	s.statTier.Store(s.tracker.Tier().String())
	s.gateCleared = false
	s.timer = s.cfg.FirstDelay
	s.resume = PhaseWaitingFirstSpawn
	s.setPhase(PhaseWaitingFirstSpawn)
	s.logger.Info("spawn scheduler started", zap.Stringer("tier", s.tracker.Tier()))
}

// Stop ends the session; nothing spawns until the next Start
func (s *Scheduler) Stop() {
	if s.phase == PhaseStopped {
		return
	}
	s.setPhase(PhaseStopped)
	s.logger.Info("spawn scheduler stopped", zap.Uint64("spawned", s.stats.Spawned))
}

// Resume re-enters Running after a Stop, used by the revive flow
// The next timer spawn happens after delay seconds
func (s *Scheduler) Resume(delay float64) {
	s.timer = delay
	s.resume = PhaseRunning
	s.setPhase(PhaseRunning)
}

// UpdateDifficulty advances the session clock and observes the score
func (s *Scheduler) UpdateDifficulty(dt, score float64) {
	if s.phase == PhaseIdle || s.phase == PhaseStopped {
		return
	}
	if s.tracker.Advance(dt, score) {
		tier := s.tracker.Tier()
		s.statTier.Store(tier.String())
		s.publish(event.EventTierUnlocked, &event.TierPayload{Tier: tier})
		if s.registry.CountTier(tier) == 0 {
			s.logger.Warn("unlocked tier has no templates, procedural fallback armed",
				zap.Stringer("tier", tier),
				zap.Float64("chance", s.tracker.Curve().FallbackChance(tier)),
			)
		}
	}
}

// Tick runs spawn logic for one frame; returns true when an obstacle spawned
func (s *Scheduler) Tick(dt float64) bool {
	switch s.phase {
	case PhaseIdle, PhaseStopped, PhaseGated:
		return false
	}

	if s.pacer != nil && s.pacer.Suspended() {
		if s.phase != PhaseSuspended {
			s.resume = s.phase
			s.setPhase(PhaseSuspended)
		}
		s.stats.SkippedBreathing++
		s.statSkipRoom.Add(1)
		return false
	}
	if s.phase == PhaseSuspended {
		s.setPhase(s.resume)
	}

	if s.phase == PhaseWaitingFirstSpawn && !s.gateCleared && s.gate != nil && s.gate.Active() {
		s.setPhase(PhaseGated)
		s.logger.Info("first spawn held by onboarding gate")
		return false
	}

	s.timer -= dt
	if s.timer > 0 {
		return false
	}

	if s.pool.ActiveCount() >= s.cfg.MaxOnScreen {
		s.stats.SkippedCap++
		s.statSkipCap.Add(1)
		s.timer = s.cfg.CapRetryDelay
		return false
	}

	s.spawn(false)
	if s.phase == PhaseWaitingFirstSpawn {
		s.setPhase(PhaseRunning)
	}
	s.timer = s.nextInterval()
	return true
}

// NotifyOnboardingGateCleared releases a gated scheduler; the first spawn is retried next tick
func (s *Scheduler) NotifyOnboardingGateCleared() {
	s.gateCleared = true
	if s.phase != PhaseGated {
		return
	}
	s.timer = 0
	s.setPhase(PhaseWaitingFirstSpawn)
	s.logger.Info("onboarding gate cleared")
}

// ForceSpawnImmediate spawns now, ignoring the timer and the on-screen cap
// It is refused outside a live session and during breathing room
func (s *Scheduler) ForceSpawnImmediate() (pool.Handle, bool) {
	switch s.phase {
	case PhaseIdle, PhaseStopped, PhaseGated:
		s.stats.ForceRejected++
		return pool.Handle{}, false
	}
	if s.pacer != nil && s.pacer.Suspended() {
		s.stats.ForceRejected++
		return pool.Handle{}, false
	}
	return s.spawn(true), true
}

// SetMaxDifficultyTier caps unlocking for the rest of the session
func (s *Scheduler) SetMaxDifficultyTier(t archetype.Tier) {
	s.tracker.Curve().SetMaxTier(t)
	s.statTier.Store(s.tracker.Tier().String())
}

func (s *Scheduler) nextInterval() float64 {
	lo, hi := s.tracker.Bounds()
	interval := lo + s.rng.Float64()*(hi-lo)
	if s.pacer != nil {
		interval *= s.pacer.SpawnMultiplier()
	}
	s.statInterval.Store(interval)
	return interval
}

// pickArchetype draws from every unlocked template, substituting a procedural obstacle of the
// current tier when that tier has no templates
func (s *Scheduler) pickArchetype(tier archetype.Tier) (*archetype.Archetype, bool) {
	candidates := s.registry.UpTo(tier)
	if s.registry.CountTier(tier) == 0 {
		if len(candidates) == 0 || s.rng.Float64() < s.tracker.Curve().FallbackChance(tier) {
			return s.registry.Synthesize(tier, s.rng), true
		}
	}
	return candidates[s.rng.Intn(len(candidates))], false
}

func (s *Scheduler) spawn(forced bool) pool.Handle {
	tier := s.tracker.Tier()
	a, procedural := s.pickArchetype(tier)

	res := s.safety.Resolve(s.rng.Float64() * 360)
	if !res.Safe {
		s.stats.UnsafeAngles++
	}
	tr := s.cfg.roll(s.rng, res.Angle, s.safety.OrbitRadius())

	h := s.pool.Acquire(a)
	o, _ := s.pool.Get(h)
	o.Position = tr.position
	o.Velocity = tr.direction.Scale(tr.speed * o.Shape.SpeedScale)
	o.Scale = tr.scale
	o.Rotation = orientation(a.Family, tr.direction)
	o.TargetAngle = res.Angle
	o.Forced = forced
	o.Moving = true
	s.safety.RegisterObstacle(h)

	s.stats.Spawned++
	s.statSpawned.Add(1)
	if forced {
		s.stats.Forced++
	}
	if procedural {
		s.stats.Procedural++
	}

	s.logger.Debug("obstacle spawned",
		zap.String("archetype", a.ID),
		zap.Stringer("tier", a.Tier),
		zap.Float64("target", res.Angle),
		zap.Stringer("method", res.Method),
		zap.Bool("forced", forced),
	)
	s.publish(event.EventObstacleSpawned, &event.ObstacleSpawnedPayload{
		Handle:      h,
		Archetype:   a.ID,
		Tier:        a.Tier,
		Position:    o.Position,
		Velocity:    o.Velocity,
		Scale:       o.Scale,
		TargetAngle: res.Angle,
		Forced:      forced,
		Procedural:  procedural,
	})
	return h
}

// Phase returns the session state
func (s *Scheduler) Phase() Phase { return s.phase }

// Timer returns seconds until the next timer spawn attempt
func (s *Scheduler) Timer() float64 { return s.timer }

// Stats returns scheduler counters
func (s *Scheduler) Stats() Stats { return s.stats }

// Config returns the tunables
func (s *Scheduler) Config() Config { return s.cfg }

// Tracker exposes the difficulty state
func (s *Scheduler) Tracker() *difficulty.Tracker { return s.tracker }
