// Package safety tracks which orbit bearings are blocked by live obstacles and picks spawn
// targets that keep a traversable corridor open
package safety

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/lixenwraith/orbit-runner/parameter"
	"github.com/lixenwraith/orbit-runner/pool"
	"github.com/lixenwraith/orbit-runner/vmath"
)

// Config holds the safety tolerances, angles in degrees
type Config struct {
	// CheckRadius is the radial band half-width around the orbit, world units
	CheckRadius float64 `mapstructure:"check_radius" json:"check_radius" jsonschema:"minimum=0,exclusiveMinimum=true"`
	// ObstacleBlockAngle is the angular half-width one obstacle claims
	ObstacleBlockAngle float64 `mapstructure:"obstacle_block_angle" json:"obstacle_block_angle" jsonschema:"minimum=0,maximum=180"`
	// MinFreeArcAngle is the corridor that must survive every spawn
	MinFreeArcAngle float64 `mapstructure:"min_free_arc_angle" json:"min_free_arc_angle" jsonschema:"minimum=0,maximum=360"`
}

// DefaultConfig returns the stock tolerances
func DefaultConfig() Config {
	return Config{
		CheckRadius:        parameter.SafetyCheckRadius,
		ObstacleBlockAngle: parameter.SafetyObstacleBlockAngle,
		MinFreeArcAngle:    parameter.SafetyMinFreeArcAngle,
	}
}

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid safety config")

// Validate checks ranges
func (c Config) Validate() error {
	switch {
	case c.CheckRadius <= 0:
		return fmt.Errorf("%w: check_radius must be positive", ErrInvalid)
	case c.ObstacleBlockAngle < 0 || c.ObstacleBlockAngle > 180:
		return fmt.Errorf("%w: obstacle_block_angle out of [0,180]", ErrInvalid)
	case c.MinFreeArcAngle < 0 || c.MinFreeArcAngle > 360:
		return fmt.Errorf("%w: min_free_arc_angle out of [0,360]", ErrInvalid)
	}
	return nil
}

// Locator resolves handles to live instances; implemented by pool.Pool
type Locator interface {
	Get(h pool.Handle) (*pool.Obstacle, bool)
}

// Analyzer maintains the registration list and answers angle queries
// Safety state is recomputed per query from current positions
type Analyzer struct {
	cfg         Config
	orbitRadius float64
	loc         Locator
	logger      *zap.Logger

	registered []pool.Handle
	index      map[pool.Handle]int

	stats Stats
}

// New creates an analyzer for an orbit of the given radius centered on the origin
func New(cfg Config, orbitRadius float64, loc Locator, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		cfg:         cfg,
		orbitRadius: orbitRadius,
		loc:         loc,
		logger:      logger,
		index:       make(map[pool.Handle]int),
	}
}

// Config returns the active tolerances
func (a *Analyzer) Config() Config { return a.cfg }

// SetOrbitRadius updates the band center when the player's orbit changes
func (a *Analyzer) SetOrbitRadius(r float64) { a.orbitRadius = r }

// OrbitRadius returns the band center radius
func (a *Analyzer) OrbitRadius() float64 { return a.orbitRadius }

// RegisterObstacle adds h to the tracked set; repeated or stale registrations are ignored
func (a *Analyzer) RegisterObstacle(h pool.Handle) {
	if _, ok := a.index[h]; ok {
		return
	}
	o, ok := a.loc.Get(h)
	if !ok || o.State != pool.StateActive {
		return
	}
	a.index[h] = len(a.registered)
	a.registered = append(a.registered, h)
	o.Registered = true
}

// UnregisterObstacle removes h; unknown or already removed handles are ignored
func (a *Analyzer) UnregisterObstacle(h pool.Handle) {
	i, ok := a.index[h]
	if !ok {
		return
	}
	a.removeAt(i)
	if o, ok := a.loc.Get(h); ok {
		o.Registered = false
	}
}

func (a *Analyzer) removeAt(i int) {
	h := a.registered[i]
	last := len(a.registered) - 1
	if i != last {
		moved := a.registered[last]
		a.registered[i] = moved
		a.index[moved] = i
	}
	a.registered = a.registered[:last]
	delete(a.index, h)
}

// Prune drops registrations whose instance is no longer active
// Returns the number of stale entries removed
func (a *Analyzer) Prune() int {
	removed := 0
	for i := len(a.registered) - 1; i >= 0; i-- {
		o, ok := a.loc.Get(a.registered[i])
		if ok && o.State == pool.StateActive {
			continue
		}
		a.removeAt(i)
		removed++
	}
	if removed > 0 {
		a.stats.Pruned += uint64(removed)
		a.logger.Debug("pruned stale safety registrations", zap.Int("count", removed))
	}
	return removed
}

// Clear drops every registration
func (a *Analyzer) Clear() {
	for _, h := range a.registered {
		if o, ok := a.loc.Get(h); ok {
			o.Registered = false
		}
	}
	a.registered = a.registered[:0]
	clear(a.index)
}

// Registered returns the registration count, including instances outside the band
func (a *Analyzer) Registered() int { return len(a.registered) }

// IsRegistered reports whether h is tracked
func (a *Analyzer) IsRegistered(h pool.Handle) bool {
	_, ok := a.index[h]
	return ok
}

// InBand reports whether a point lies within CheckRadius of the orbit
func (a *Analyzer) InBand(p vmath.Vec2) bool {
	d := p.Len() - a.orbitRadius
	if d < 0 {
		d = -d
	}
	return d <= a.cfg.CheckRadius
}

// BlockedAngles returns bearings of registered instances inside the orbit band, sorted ascending
// Stale handles are skipped
func (a *Analyzer) BlockedAngles() []float64 {
	blocked := make([]float64, 0, len(a.registered))
	for _, h := range a.registered {
		o, ok := a.loc.Get(h)
		if !ok || o.State != pool.StateActive {
			continue
		}
		if a.InBand(o.Position) {
			blocked = append(blocked, vmath.Bearing(o.Position))
		}
	}
	sort.Float64s(blocked)
	return blocked
}

// Stats returns query counters
func (a *Analyzer) Stats() Stats { return a.stats }
