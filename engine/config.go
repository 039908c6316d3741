package engine

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/orbit-runner/difficulty"
	"github.com/lixenwraith/orbit-runner/nearmiss"
	"github.com/lixenwraith/orbit-runner/parameter"
	"github.com/lixenwraith/orbit-runner/pool"
	"github.com/lixenwraith/orbit-runner/safety"
	"github.com/lixenwraith/orbit-runner/spawn"
	"github.com/lixenwraith/orbit-runner/wave"
)

// ErrInvalid is wrapped by gameplay validation failures
var ErrInvalid = errors.New("invalid gameplay config")

// GameplayConfig covers the player, scoring and revive tunables
type GameplayConfig struct {
	OrbitRadius  float64 `mapstructure:"orbit_radius" json:"orbit_radius" jsonschema:"minimum=0,exclusiveMinimum=true"`
	PlayerRadius float64 `mapstructure:"player_radius" json:"player_radius" jsonschema:"minimum=0,exclusiveMinimum=true"`
	// AngularSpeed is the steering rate in degrees per second
	AngularSpeed float64 `mapstructure:"angular_speed" json:"angular_speed" jsonschema:"minimum=0,exclusiveMinimum=true"`

	ReviveGrace       float64 `mapstructure:"revive_grace" json:"revive_grace" jsonschema:"minimum=0"`
	ReviveResumeTicks int     `mapstructure:"revive_resume_ticks" json:"revive_resume_ticks" jsonschema:"minimum=0"`

	ScorePerSecond float64 `mapstructure:"score_per_second" json:"score_per_second" jsonschema:"minimum=0"`
	NearMissBonus  float64 `mapstructure:"near_miss_bonus" json:"near_miss_bonus" jsonschema:"minimum=0"`

	// MaxTickDelta caps a single step, seconds
	MaxTickDelta float64 `mapstructure:"max_tick_delta" json:"max_tick_delta" jsonschema:"minimum=0,exclusiveMinimum=true"`
}

// DefaultGameplayConfig returns the stock gameplay tunables
func DefaultGameplayConfig() GameplayConfig {
	return GameplayConfig{
		OrbitRadius:       parameter.OrbitRadius,
		PlayerRadius:      parameter.PlayerRadius,
		AngularSpeed:      parameter.PlayerAngularSpeed,
		ReviveGrace:       parameter.ReviveGrace,
		ReviveResumeTicks: parameter.ReviveResumeTicks,
		ScorePerSecond:    parameter.ScorePerSecond,
		NearMissBonus:     parameter.ScoreNearMissBonus,
		MaxTickDelta:      parameter.MaxTickDelta,
	}
}

// Validate checks ranges
func (c GameplayConfig) Validate() error {
	switch {
	case c.OrbitRadius <= 0 || c.PlayerRadius <= 0:
		return fmt.Errorf("%w: radii must be positive", ErrInvalid)
	case c.AngularSpeed <= 0:
		return fmt.Errorf("%w: angular_speed must be positive", ErrInvalid)
	case c.ReviveGrace < 0 || c.ReviveResumeTicks < 0:
		return fmt.Errorf("%w: revive timings must be non-negative", ErrInvalid)
	case c.ScorePerSecond < 0 || c.NearMissBonus < 0:
		return fmt.Errorf("%w: score rates must be non-negative", ErrInvalid)
	case c.MaxTickDelta <= 0:
		return fmt.Errorf("%w: max_tick_delta must be positive", ErrInvalid)
	}
	return nil
}

// Config aggregates every engine component's tunables
type Config struct {
	Difficulty difficulty.Config `mapstructure:"difficulty" json:"difficulty"`
	Pool       pool.Config       `mapstructure:"pool" json:"pool"`
	Safety     safety.Config     `mapstructure:"safety" json:"safety"`
	Spawn      spawn.Config      `mapstructure:"spawn" json:"spawn"`
	NearMiss   nearmiss.Config   `mapstructure:"near_miss" json:"near_miss"`
	Wave       wave.Config       `mapstructure:"wave" json:"wave"`
	Gameplay   GameplayConfig    `mapstructure:"gameplay" json:"gameplay"`
}

// DefaultConfig returns the stock engine configuration
func DefaultConfig() Config {
	return Config{
		Difficulty: difficulty.DefaultConfig(),
		Pool:       pool.DefaultConfig(),
		Safety:     safety.DefaultConfig(),
		Spawn:      spawn.DefaultConfig(),
		NearMiss:   nearmiss.DefaultConfig(),
		Wave:       wave.DefaultConfig(),
		Gameplay:   DefaultGameplayConfig(),
	}
}

// Validate checks every section, the first failure is returned with its section name
func (c Config) Validate() error {
	sections := []struct {
		name string
		fn   func() error
	}{
		{"difficulty", c.Difficulty.Validate},
		{"pool", c.Pool.Validate},
		{"safety", c.Safety.Validate},
		{"spawn", c.Spawn.Validate},
		{"near_miss", c.NearMiss.Validate},
		{"wave", c.Wave.Validate},
		{"gameplay", c.Gameplay.Validate},
	}
	for _, s := range sections {
		if err := s.fn(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}
