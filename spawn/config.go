package spawn

import (
	"errors"
	"fmt"
	"math"

	"github.com/lixenwraith/orbit-runner/parameter"
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid spawn config")

// Config holds scheduler tunables; distances in world units, durations in seconds
type Config struct {
	FirstDelay     float64 `mapstructure:"first_delay" json:"first_delay" jsonschema:"minimum=0"`
	Margin         float64 `mapstructure:"margin" json:"margin" jsonschema:"minimum=0"`
	DespawnMargin  float64 `mapstructure:"despawn_margin" json:"despawn_margin" jsonschema:"minimum=0"`
	BaseSpeed      float64 `mapstructure:"base_speed" json:"base_speed" jsonschema:"minimum=0,exclusiveMinimum=true"`
	SpeedVariation float64 `mapstructure:"speed_variation" json:"speed_variation" jsonschema:"minimum=1"`
	SizeVariation  float64 `mapstructure:"size_variation" json:"size_variation" jsonschema:"minimum=1"`
	MaxOnScreen    int     `mapstructure:"max_on_screen" json:"max_on_screen" jsonschema:"minimum=1"`
	CapRetryDelay  float64 `mapstructure:"cap_retry_delay" json:"cap_retry_delay" jsonschema:"minimum=0"`
	ViewHalfWidth  float64 `mapstructure:"view_half_width" json:"view_half_width" jsonschema:"minimum=0,exclusiveMinimum=true"`
	ViewHalfHeight float64 `mapstructure:"view_half_height" json:"view_half_height" jsonschema:"minimum=0,exclusiveMinimum=true"`
}

// DefaultConfig returns the stock scheduler tunables
func DefaultConfig() Config {
	return Config{
		FirstDelay:     parameter.SpawnFirstDelay,
		Margin:         parameter.SpawnMargin,
		DespawnMargin:  parameter.SpawnDespawnMargin,
		BaseSpeed:      parameter.SpawnBaseSpeed,
		SpeedVariation: parameter.SpawnSpeedVariation,
		SizeVariation:  parameter.SpawnSizeVariation,
		MaxOnScreen:    parameter.SpawnMaxOnScreen,
		CapRetryDelay:  parameter.SpawnCapRetryDelay,
		ViewHalfWidth:  parameter.ViewHalfWidth,
		ViewHalfHeight: parameter.ViewHalfHeight,
	}
}

// Validate checks ranges
func (c Config) Validate() error {
	switch {
	case c.FirstDelay < 0 || c.CapRetryDelay < 0:
		return fmt.Errorf("%w: delays must be non-negative", ErrInvalid)
	case c.Margin < 0 || c.DespawnMargin < 0:
		return fmt.Errorf("%w: margins must be non-negative", ErrInvalid)
	case c.BaseSpeed <= 0:
		return fmt.Errorf("%w: base_speed must be positive", ErrInvalid)
	case c.SpeedVariation < 1 || c.SizeVariation < 1:
		return fmt.Errorf("%w: variations must be >= 1", ErrInvalid)
	case c.MaxOnScreen < 1:
		return fmt.Errorf("%w: max_on_screen must be at least 1", ErrInvalid)
	case c.ViewHalfWidth <= 0 || c.ViewHalfHeight <= 0:
		return fmt.Errorf("%w: view extents must be positive", ErrInvalid)
	}
	return nil
}

// SpawnDistance is the center distance of the spawn ring, just past the frustum corners
func (c Config) SpawnDistance() float64 {
	return math.Hypot(c.ViewHalfWidth, c.ViewHalfHeight) + c.Margin
}
