// Package wave runs the score-gated danger wave: telegraph, forced burst, cooldown
package wave

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/lixenwraith/orbit-runner/engine/fsm"
	"github.com/lixenwraith/orbit-runner/event"
	"github.com/lixenwraith/orbit-runner/parameter"
	"github.com/lixenwraith/orbit-runner/pool"
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid wave config")

// Config holds wave tunables; durations in seconds
type Config struct {
	ScoreInterval    float64 `mapstructure:"score_interval" json:"score_interval" jsonschema:"minimum=0,exclusiveMinimum=true"`
	MinScore         float64 `mapstructure:"min_score" json:"min_score" jsonschema:"minimum=0"`
	WarningDuration  float64 `mapstructure:"warning_duration" json:"warning_duration" jsonschema:"minimum=0"`
	BurstCount       int     `mapstructure:"burst_count" json:"burst_count" jsonschema:"minimum=1"`
	BurstSpacing     float64 `mapstructure:"burst_spacing" json:"burst_spacing" jsonschema:"minimum=0"`
	CooldownDuration float64 `mapstructure:"cooldown_duration" json:"cooldown_duration" jsonschema:"minimum=0"`
	// ForceAfterGames forces one early wave after this many sessions without one, 0 disables
	ForceAfterGames int     `mapstructure:"force_after_games" json:"force_after_games" jsonschema:"minimum=0"`
	ForcedDelay     float64 `mapstructure:"forced_delay" json:"forced_delay" jsonschema:"minimum=0"`
}

// DefaultConfig returns the stock wave tunables
func DefaultConfig() Config {
	return Config{
		ScoreInterval:    parameter.WaveScoreInterval,
		MinScore:         parameter.WaveMinScore,
		WarningDuration:  parameter.WaveWarningDuration,
		BurstCount:       parameter.WaveBurstCount,
		BurstSpacing:     parameter.WaveBurstSpacing,
		CooldownDuration: parameter.WaveCooldownDuration,
		ForceAfterGames:  parameter.WaveForceAfterGames,
		ForcedDelay:      parameter.WaveForcedDelay,
	}
}

// Validate checks ranges
func (c Config) Validate() error {
	switch {
	case c.ScoreInterval <= 0:
		return fmt.Errorf("%w: score_interval must be positive", ErrInvalid)
	case c.MinScore < 0:
		return fmt.Errorf("%w: min_score must be non-negative", ErrInvalid)
	case c.WarningDuration < 0 || c.BurstSpacing < 0 || c.CooldownDuration < 0 || c.ForcedDelay < 0:
		return fmt.Errorf("%w: durations must be non-negative", ErrInvalid)
	case c.BurstCount < 1:
		return fmt.Errorf("%w: burst_count must be at least 1", ErrInvalid)
	case c.ForceAfterGames < 0:
		return fmt.Errorf("%w: force_after_games must be non-negative", ErrInvalid)
	}
	return nil
}

// Spawner accepts forced spawns; implemented by spawn.Scheduler
type Spawner interface {
	ForceSpawnImmediate() (pool.Handle, bool)
}

// Wave states
const (
	StateIdle fsm.StateID = iota + 1
	StateWarning
	StateBurst
	StateCooldown
)

// Trigger commands bursts of forced spawns independent of the normal timer
type Trigger struct {
	cfg     Config
	spawner Spawner
	router  *event.Router
	logger  *zap.Logger
	machine *fsm.Machine[*Trigger]

	// Observed each tick
	dt      float64
	elapsed float64
	score   float64

	nextScore     float64
	forcedPending bool

	waves     int
	forced    bool
	remaining int
	spacing   float64
	spawned   int
}

// NewTrigger builds the wave state machine; it stays Idle until StartSession
func NewTrigger(cfg Config, spawner Spawner, router *event.Router, logger *zap.Logger) (*Trigger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Trigger{cfg: cfg, spawner: spawner, router: router, logger: logger}
	t.machine = t.build()
	if err := t.machine.Init(t); err != nil {
		return nil, err
	}
	t.machine.Pause()
	return t, nil
}

func (t *Trigger) build() *fsm.Machine[*Trigger] {
	m := fsm.NewMachine[*Trigger]()
	m.AddState(StateIdle, "idle")
	warning := m.AddState(StateWarning, "warning")
	burst := m.AddState(StateBurst, "burst")
	cooldown := m.AddState(StateCooldown, "cooldown")

	warning.OnEnter = append(warning.OnEnter, (*Trigger).enterWarning)
	burst.OnEnter = append(burst.OnEnter, (*Trigger).enterBurst)
	burst.OnUpdate = append(burst.OnUpdate, (*Trigger).updateBurst)
	cooldown.OnEnter = append(cooldown.OnEnter, (*Trigger).enterCooldown)

	m.AddTransition(StateIdle, StateWarning, fsm.When((*Trigger).due))
	m.AddTransition(StateWarning, StateBurst, fsm.After[*Trigger](t.cfg.WarningDuration))
	m.AddTransition(StateBurst, StateCooldown, fsm.When(func(w *Trigger) bool { return w.remaining == 0 }))
	m.AddTransition(StateCooldown, StateIdle, fsm.After[*Trigger](t.cfg.CooldownDuration))

	// Revive and game over abandon a wave in flight
	for _, s := range []fsm.StateID{StateWarning, StateBurst} {
		m.AddEventTransition(s, StateIdle, event.EventRevived, nil)
		m.AddEventTransition(s, StateIdle, event.EventGameOver, nil)
	}
	return m
}

// StartSession arms the trigger for a new session
// gamesWithoutWave is the host-persisted count of finished sessions that saw no wave
func (t *Trigger) StartSession(gamesWithoutWave int) {
	t.elapsed, t.score = 0, 0
	t.nextScore = t.cfg.MinScore
	t.waves = 0
	t.remaining = 0
	t.forcedPending = t.cfg.ForceAfterGames > 0 && gamesWithoutWave >= t.cfg.ForceAfterGames
	_ = t.machine.Reset(t)
	if t.forcedPending {
		t.logger.Info("early danger wave armed", zap.Int("games_without_wave", gamesWithoutWave))
	}
}

// Tick advances the wave by dt with the current score
func (t *Trigger) Tick(dt, score float64) {
	t.dt = dt
	t.elapsed += dt
	t.score = score
	t.machine.Update(t, dt)
}

// HandleEvent forwards session events that cancel a wave in flight
func (t *Trigger) HandleEvent(ev event.EventType) bool {
	return t.machine.HandleEvent(t, ev)
}

// Stop freezes the trigger until the next StartSession
func (t *Trigger) Stop() { t.machine.Pause() }

func (t *Trigger) due() bool {
	if t.forcedPending && t.elapsed >= t.cfg.ForcedDelay {
		return true
	}
	return t.score >= t.nextScore
}

func (t *Trigger) enterWarning() {
	t.waves++
	t.forced = t.forcedPending && t.score < t.nextScore
	t.forcedPending = false
	for t.nextScore <= t.score {
		t.nextScore += t.cfg.ScoreInterval
	}
	t.remaining = t.cfg.BurstCount
	t.spawned = 0

	t.logger.Info("danger wave warning", zap.Int("wave", t.waves), zap.Bool("forced", t.forced))
	t.publish(event.EventWaveWarning, &event.WavePayload{Wave: t.waves, Forced: t.forced, Count: t.remaining})
}

func (t *Trigger) enterBurst() {
	t.spacing = 0
	t.publish(event.EventWaveStarted, &event.WavePayload{Wave: t.waves, Forced: t.forced, Count: t.remaining})
}

func (t *Trigger) updateBurst() {
	t.spacing -= t.dt
	if t.spacing > 0 || t.remaining == 0 {
		return
	}
	if _, ok := t.spawner.ForceSpawnImmediate(); !ok {
		// Refused during breathing room; retry next tick
		return
	}
	t.remaining--
	t.spawned++
	t.spacing = t.cfg.BurstSpacing
}

func (t *Trigger) enterCooldown() {
	t.logger.Info("danger wave ended", zap.Int("wave", t.waves), zap.Int("spawned", t.spawned))
	t.publish(event.EventWaveEnded, &event.WavePayload{Wave: t.waves, Forced: t.forced, Count: t.spawned})
}

func (t *Trigger) publish(typ event.EventType, payload any) {
	if t.router != nil {
		t.router.Publish(typ, payload)
	}
}

// State returns the active wave state
func (t *Trigger) State() fsm.StateID { return t.machine.State() }

// StateName returns the active wave state name
func (t *Trigger) StateName() string { return t.machine.StateName() }

// Waves returns the number of waves started this session
func (t *Trigger) Waves() int { return t.waves }

// NextScore returns the score that arms the next wave
func (t *Trigger) NextScore() float64 { return t.nextScore }
