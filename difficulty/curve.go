// Package difficulty maps session progress to spawn cadence and unlocked obstacle tiers
package difficulty

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/orbit-runner/archetype"
	"github.com/lixenwraith/orbit-runner/parameter"
	"github.com/lixenwraith/orbit-runner/vmath"
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid difficulty config")

// Mode selects the progress value that gates tiers
type Mode string

const (
	ModeTime  Mode = "time"
	ModeScore Mode = "score"
)

// Thresholds are the unlock points for tiers above Easy
type Thresholds struct {
	Medium   float64 `mapstructure:"medium" json:"medium" jsonschema:"minimum=0"`
	Hard     float64 `mapstructure:"hard" json:"hard" jsonschema:"minimum=0"`
	VeryHard float64 `mapstructure:"very_hard" json:"very_hard" jsonschema:"minimum=0"`
}

func (t Thresholds) validate(name string) error {
	if t.Medium < 0 {
		return fmt.Errorf("%w: %s thresholds must be non-negative", ErrInvalid, name)
	}
	if !(t.Medium < t.Hard && t.Hard < t.VeryHard) {
		return fmt.Errorf("%w: %s thresholds must be strictly increasing (%v, %v, %v)",
			ErrInvalid, name, t.Medium, t.Hard, t.VeryHard)
	}
	return nil
}

// Config describes the curve; durations in seconds
type Config struct {
	MaxDifficultyTime float64 `mapstructure:"max_difficulty_time" json:"max_difficulty_time" jsonschema:"minimum=0,exclusiveMinimum=true"`

	MinStart float64 `mapstructure:"min_start" json:"min_start" jsonschema:"minimum=0,exclusiveMinimum=true"`
	MaxStart float64 `mapstructure:"max_start" json:"max_start" jsonschema:"minimum=0,exclusiveMinimum=true"`
	MinFloor float64 `mapstructure:"min_floor" json:"min_floor" jsonschema:"minimum=0,exclusiveMinimum=true"`
	MaxFloor float64 `mapstructure:"max_floor" json:"max_floor" jsonschema:"minimum=0,exclusiveMinimum=true"`

	TierMode        Mode       `mapstructure:"tier_mode" json:"tier_mode" jsonschema:"enum=time,enum=score"`
	TimeThresholds  Thresholds `mapstructure:"time_thresholds" json:"time_thresholds"`
	ScoreThresholds Thresholds `mapstructure:"score_thresholds" json:"score_thresholds"`

	// MaxTier caps unlocking; empty means no cap
	MaxTier string `mapstructure:"max_tier" json:"max_tier,omitempty" jsonschema:"enum=,enum=easy,enum=medium,enum=hard,enum=very_hard"`

	FallbackHard     float64 `mapstructure:"fallback_hard" json:"fallback_hard" jsonschema:"minimum=0,maximum=1"`
	FallbackVeryHard float64 `mapstructure:"fallback_very_hard" json:"fallback_very_hard" jsonschema:"minimum=0,maximum=1"`
}

// DefaultConfig returns the stock curve
func DefaultConfig() Config {
	return Config{
		MaxDifficultyTime: parameter.DifficultyMaxTime,
		MinStart:          parameter.SpawnIntervalMinStart,
		MaxStart:          parameter.SpawnIntervalMaxStart,
		MinFloor:          parameter.SpawnIntervalMinFloor,
		MaxFloor:          parameter.SpawnIntervalMaxFloor,
		TierMode:          ModeTime,
		TimeThresholds: Thresholds{
			Medium:   parameter.TierMediumTime,
			Hard:     parameter.TierHardTime,
			VeryHard: parameter.TierVeryHardTime,
		},
		ScoreThresholds: Thresholds{
			Medium:   parameter.TierMediumScore,
			Hard:     parameter.TierHardScore,
			VeryHard: parameter.TierVeryHardScore,
		},
		FallbackHard:     parameter.FallbackChanceHard,
		FallbackVeryHard: parameter.FallbackChanceVeryHard,
	}
}

// Validate checks ranges and ordering
func (c Config) Validate() error {
	if c.MaxDifficultyTime <= 0 {
		return fmt.Errorf("%w: max_difficulty_time must be positive", ErrInvalid)
	}
	if c.MinStart <= 0 || c.MinFloor <= 0 {
		return fmt.Errorf("%w: intervals must be positive", ErrInvalid)
	}
	if c.MinStart > c.MaxStart || c.MinFloor > c.MaxFloor {
		return fmt.Errorf("%w: min interval exceeds max", ErrInvalid)
	}
	if c.MinFloor > c.MinStart || c.MaxFloor > c.MaxStart {
		return fmt.Errorf("%w: floor above start", ErrInvalid)
	}
	switch c.TierMode {
	case ModeTime, ModeScore:
	default:
		return fmt.Errorf("%w: unknown tier_mode %q", ErrInvalid, c.TierMode)
	}
	if err := c.TimeThresholds.validate("time"); err != nil {
		return err
	}
	if err := c.ScoreThresholds.validate("score"); err != nil {
		return err
	}
	if c.MaxTier != "" {
		if _, err := archetype.ParseTier(c.MaxTier); err != nil {
			return fmt.Errorf("%w: max_tier: %v", ErrInvalid, err)
		}
	}
	for _, p := range []float64{c.FallbackHard, c.FallbackVeryHard} {
		if p < 0 || p > 1 {
			return fmt.Errorf("%w: fallback chance %v outside [0,1]", ErrInvalid, p)
		}
	}
	return nil
}

// Curve is a pure mapping from progress to interval bounds and tier
type Curve struct {
	cfg     Config
	maxTier archetype.Tier
}

// NewCurve validates cfg and builds a curve
func NewCurve(cfg Config) (*Curve, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Curve{cfg: cfg, maxTier: archetype.TierVeryHard}
	if cfg.MaxTier != "" {
		c.maxTier, _ = archetype.ParseTier(cfg.MaxTier)
	}
	return c, nil
}

// MustCurve panics on invalid config; for defaults and tests
func MustCurve(cfg Config) *Curve {
	c, err := NewCurve(cfg)
	if err != nil {
		panic(err)
	}
	return c
}

// Config returns the curve parameters
func (c *Curve) Config() Config { return c.cfg }

// Mode returns the active tier gating mode
func (c *Curve) Mode() Mode { return c.cfg.TierMode }

// Progress returns the quadratic-smoothed progress in [0,1]
func (c *Curve) Progress(elapsed float64) float64 {
	p := vmath.Clamp01(elapsed / c.cfg.MaxDifficultyTime)
	return p * p
}

// SpawnIntervalBounds returns the spawn interval range at elapsed seconds
// Both bounds are non-increasing in elapsed
func (c *Curve) SpawnIntervalBounds(elapsed float64) (minInterval, maxInterval float64) {
	s := c.Progress(elapsed)
	minInterval = c.cfg.MinStart - (c.cfg.MinStart-c.cfg.MinFloor)*s
	maxInterval = c.cfg.MaxStart - (c.cfg.MaxStart-c.cfg.MaxFloor)*s
	return minInterval, maxInterval
}

// TierFor maps a progress value in the active mode's unit to a tier, honoring the cap
func (c *Curve) TierFor(value float64) archetype.Tier {
	th := c.cfg.TimeThresholds
	if c.cfg.TierMode == ModeScore {
		th = c.cfg.ScoreThresholds
	}
	t := archetype.TierEasy
	switch {
	case value >= th.VeryHard:
		t = archetype.TierVeryHard
	case value >= th.Hard:
		t = archetype.TierHard
	case value >= th.Medium:
		t = archetype.TierMedium
	}
	if t > c.maxTier {
		t = c.maxTier
	}
	return t
}

// UnlockedTier picks elapsed or score according to the mode
func (c *Curve) UnlockedTier(elapsed, score float64) archetype.Tier {
	if c.cfg.TierMode == ModeScore {
		return c.TierFor(score)
	}
	return c.TierFor(elapsed)
}

// MaxTier returns the unlock cap
func (c *Curve) MaxTier() archetype.Tier { return c.maxTier }

// SetMaxTier changes the unlock cap; invalid tiers are ignored
func (c *Curve) SetMaxTier(t archetype.Tier) {
	if t.Valid() {
		c.maxTier = t
	}
}

// FallbackChance is the probability of synthesizing a procedural obstacle for tier
func (c *Curve) FallbackChance(t archetype.Tier) float64 {
	switch t {
	case archetype.TierHard:
		return c.cfg.FallbackHard
	case archetype.TierVeryHard:
		return c.cfg.FallbackVeryHard
	default:
		return 0
	}
}
