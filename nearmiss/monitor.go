// Package nearmiss watches player proximity and throttles spawning after close calls
package nearmiss

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/lixenwraith/orbit-runner/event"
	"github.com/lixenwraith/orbit-runner/parameter"
	"github.com/lixenwraith/orbit-runner/pool"
	"github.com/lixenwraith/orbit-runner/vmath"
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid near-miss config")

// Config holds proximity tolerances; distances in world units, durations in seconds
type Config struct {
	Distance         float64 `mapstructure:"distance" json:"distance" jsonschema:"minimum=0,exclusiveMinimum=true"`
	Cooldown         float64 `mapstructure:"cooldown" json:"cooldown" jsonschema:"minimum=0"`
	BreathingRoom    float64 `mapstructure:"breathing_room" json:"breathing_room" jsonschema:"minimum=0"`
	DangerCount      int     `mapstructure:"danger_count" json:"danger_count" jsonschema:"minimum=1"`
	DangerMultiplier float64 `mapstructure:"danger_multiplier" json:"danger_multiplier" jsonschema:"minimum=1"`
}

// DefaultConfig returns the stock tolerances
func DefaultConfig() Config {
	return Config{
		Distance:         parameter.NearMissDistance,
		Cooldown:         parameter.NearMissCooldown,
		BreathingRoom:    parameter.BreathingRoomDuration,
		DangerCount:      parameter.DangerCount,
		DangerMultiplier: parameter.DangerSpawnMultiplier,
	}
}

// Validate checks ranges
func (c Config) Validate() error {
	switch {
	case c.Distance <= 0:
		return fmt.Errorf("%w: distance must be positive", ErrInvalid)
	case c.Cooldown < 0 || c.BreathingRoom < 0:
		return fmt.Errorf("%w: durations must be non-negative", ErrInvalid)
	case c.DangerCount < 1:
		return fmt.Errorf("%w: danger_count must be at least 1", ErrInvalid)
	case c.DangerMultiplier < 1:
		return fmt.Errorf("%w: danger_multiplier must be >= 1", ErrInvalid)
	}
	return nil
}

// Field iterates live obstacles; implemented by pool.Pool
type Field interface {
	Each(fn func(h pool.Handle, o *pool.Obstacle) bool)
}

// Band reports whether a point is near the orbit radius; implemented by safety.Analyzer
type Band interface {
	InBand(p vmath.Vec2) bool
}

// Stats counts monitor outcomes
type Stats struct {
	NearMisses     uint64 `json:"near_misses"`
	Suppressed     uint64 `json:"suppressed"`
	DangerEntered  uint64 `json:"danger_entered"`
	BreathingTicks uint64 `json:"breathing_ticks"`
}

// Monitor detects near-misses and crowding each tick
// It is the spawn scheduler's pacer
type Monitor struct {
	cfg    Config
	field  Field
	band   Band
	router *event.Router
	logger *zap.Logger

	room      BreathingRoom
	sinceLast float64
	danger    bool
	nearby    int
	closest   float64

	stats Stats
}

// NewMonitor creates a monitor; router may be nil when no one listens
func NewMonitor(cfg Config, field Field, band Band, router *event.Router, logger *zap.Logger) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Monitor{cfg: cfg, field: field, band: band, router: router, logger: logger}
	m.Reset()
	return m
}

// Reset clears timers so the first close call of a session always fires
func (m *Monitor) Reset() {
	m.room.Stop()
	m.sinceLast = math.Inf(1)
	m.danger = false
	m.nearby = 0
	m.closest = math.Inf(1)
}

// Tick advances the breathing room, then scans for near-misses and crowding around player
// Returns true when a near-miss fired on this tick
func (m *Monitor) Tick(dt float64, player vmath.Vec2) bool {
	if m.room.Active() {
		m.stats.BreathingTicks++
	}
	if m.room.Tick(dt) {
		m.publish(event.EventBreathingRoomEnded, nil)
	}
	m.sinceLast += dt

	dangerRadius := 2 * m.cfg.Distance
	closest := math.Inf(1)
	var closestHandle pool.Handle
	nearby := 0

	m.field.Each(func(h pool.Handle, o *pool.Obstacle) bool {
		d := vmath.Distance(o.Position, player)
		if d < dangerRadius {
			nearby++
		}
		if d < closest && m.band.InBand(o.Position) {
			closest, closestHandle = d, h
		}
		return true
	})
	m.closest = closest
	m.updateDanger(nearby)

	if closest >= m.cfg.Distance {
		return false
	}
	if m.sinceLast < m.cfg.Cooldown {
		m.stats.Suppressed++
		return false
	}

	m.sinceLast = 0
	m.stats.NearMisses++
	m.logger.Debug("near miss",
		zap.Float64("distance", closest),
		zap.Stringer("obstacle", closestHandle),
	)
	m.publish(event.EventNearMiss, &event.NearMissPayload{
		PlayerPosition: player,
		Distance:       closest,
		Obstacle:       closestHandle,
	})
	if m.cfg.BreathingRoom > 0 {
		m.room.Start(m.cfg.BreathingRoom)
		m.publish(event.EventBreathingRoomStarted, &event.BreathingRoomPayload{Duration: m.cfg.BreathingRoom})
	}
	return true
}

func (m *Monitor) updateDanger(nearby int) {
	m.nearby = nearby
	danger := nearby >= m.cfg.DangerCount
	if danger == m.danger {
		return
	}
	m.danger = danger
	if danger {
		m.stats.DangerEntered++
	}
	m.logger.Debug("danger changed", zap.Bool("active", danger), zap.Int("nearby", nearby))
	m.publish(event.EventDangerChanged, &event.DangerPayload{Active: danger, Nearby: nearby})
}

func (m *Monitor) publish(t event.EventType, payload any) {
	if m.router != nil {
		m.router.Publish(t, payload)
	}
}

// Suspended reports whether spawning must pause this tick
func (m *Monitor) Suspended() bool { return m.room.Active() }

// SpawnMultiplier stretches the spawn interval while crowded
func (m *Monitor) SpawnMultiplier() float64 {
	if m.danger {
		return m.cfg.DangerMultiplier
	}
	return 1
}

// Danger reports the crowding state
func (m *Monitor) Danger() bool { return m.danger }

// Nearby returns obstacles inside the danger radius on the last tick
func (m *Monitor) Nearby() int { return m.nearby }

// Closest returns the closest in-band distance seen on the last tick, +Inf when none
func (m *Monitor) Closest() float64 { return m.closest }

// BreathingRoom exposes the countdown
func (m *Monitor) BreathingRoom() *BreathingRoom { return &m.room }

// Stats returns monitor counters
func (m *Monitor) Stats() Stats { return m.stats }
