// Package config loads host and engine settings from file and environment with viper
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/lixenwraith/orbit-runner/engine"
	"github.com/lixenwraith/orbit-runner/parameter"
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid configuration")

// EnvPrefix namespaces environment overrides: spawn.max_on_screen is ORBIT_SPAWN_MAX_ON_SCREEN
const EnvPrefix = "ORBIT"

// Config is the root configuration; engine sections sit at the top level
type Config struct {
	engine.Config `mapstructure:",squash"`

	Session SessionConfig `mapstructure:"session" json:"session"`
	Log     LogConfig     `mapstructure:"log" json:"log"`
	Audio   AudioConfig   `mapstructure:"audio" json:"audio"`
	Serve   ServeConfig   `mapstructure:"serve" json:"serve"`
}

// SessionConfig holds host-owned session inputs
type SessionConfig struct {
	Seed int64 `mapstructure:"seed" json:"seed"`
	// GamesWithoutWave is the persisted count of finished sessions that saw no danger wave
	GamesWithoutWave int `mapstructure:"games_without_wave" json:"games_without_wave" jsonschema:"minimum=0"`
	// Onboarding holds the first spawn until the player steers once
	Onboarding bool `mapstructure:"onboarding" json:"onboarding"`
}

// LogConfig selects log level and destination
type LogConfig struct {
	Level string `mapstructure:"level" json:"level" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
	// Dir receives the play-mode log file, headless modes log to stderr
	Dir string `mapstructure:"dir" json:"dir"`
}

// AudioConfig controls cue playback in play mode
type AudioConfig struct {
	Enabled bool    `mapstructure:"enabled" json:"enabled"`
	Volume  float64 `mapstructure:"volume" json:"volume" jsonschema:"minimum=0,maximum=1"`
}

// ServeConfig controls the spectator stream
type ServeConfig struct {
	Addr             string        `mapstructure:"addr" json:"addr"`
	SnapshotInterval time.Duration `mapstructure:"snapshot_interval" json:"snapshot_interval"`
	ClientBuffer     int           `mapstructure:"client_buffer" json:"client_buffer" jsonschema:"minimum=1"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Config:  engine.DefaultConfig(),
		Session: SessionConfig{Seed: 1},
		Log:     LogConfig{Level: "info", Dir: "logs"},
		Audio:   AudioConfig{Enabled: true, Volume: parameter.AudioMasterVolume},
		Serve: ServeConfig{
			Addr:             parameter.DefaultServeAddr,
			SnapshotInterval: parameter.SnapshotInterval,
			ClientBuffer:     parameter.SnapshotBuffer,
		},
	}
}

// Validate checks the host sections and every engine section
func (c Config) Validate() error {
	if err := c.Config.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	switch {
	case c.Session.GamesWithoutWave < 0:
		return fmt.Errorf("%w: session.games_without_wave must be non-negative", ErrInvalid)
	case c.Audio.Volume < 0 || c.Audio.Volume > 1:
		return fmt.Errorf("%w: audio.volume out of [0,1]", ErrInvalid)
	case c.Serve.SnapshotInterval <= 0:
		return fmt.Errorf("%w: serve.snapshot_interval must be positive", ErrInvalid)
	case c.Serve.ClientBuffer < 1:
		return fmt.Errorf("%w: serve.client_buffer must be at least 1", ErrInvalid)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level %q", ErrInvalid, c.Log.Level)
	}
	return nil
}

// Load reads configuration from file and environment over the built-in defaults
// An empty path searches ./configs and the working directory for orbit-runner.{yaml,toml,json}
// and falls back to defaults when none exists
func Load(path string) (*Config, error) {
	v := viper.New()
	if err := setDefaults(v, Default()); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("orbit-runner")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every leaf of def as a viper default so each key is also bindable from env
func setDefaults(v *viper.Viper, def Config) error {
	raw, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("encode defaults: %w", err)
	}
	var tree map[string]any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return fmt.Errorf("decode defaults: %w", err)
	}
	flatten("", tree, v.SetDefault)

	// Optional keys omitted from the JSON form
	v.SetDefault("difficulty.max_tier", "")
	return nil
}

func flatten(prefix string, node map[string]any, set func(key string, value any)) {
	for k, val := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if child, ok := val.(map[string]any); ok && len(child) > 0 {
			flatten(key, child, set)
			continue
		}
		set(key, val)
	}
}
