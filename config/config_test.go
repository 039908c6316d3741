package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/orbit-runner/parameter"
	"github.com/lixenwraith/orbit-runner/wave"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.Spawn, cfg.Spawn)
	assert.Equal(t, def.Safety, cfg.Safety)
	assert.Equal(t, def.Wave, cfg.Wave)
	assert.Equal(t, def.Gameplay, cfg.Gameplay)
	assert.Equal(t, def.Difficulty.TierMode, cfg.Difficulty.TierMode)
	assert.Equal(t, def.Difficulty.TimeThresholds, cfg.Difficulty.TimeThresholds)
	assert.Equal(t, parameter.SnapshotInterval, cfg.Serve.SnapshotInterval)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadYAMLOverridesOnlyNamedKeys(t *testing.T) {
	path := writeFile(t, "orbit.yaml", `
spawn:
  max_on_screen: 5
wave:
  burst_count: 3
serve:
  snapshot_interval: 250ms
difficulty:
  tier_mode: score
  max_tier: hard
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Spawn.MaxOnScreen)
	assert.Equal(t, parameter.SpawnBaseSpeed, cfg.Spawn.BaseSpeed, "sibling keys keep defaults")
	assert.Equal(t, 3, cfg.Wave.BurstCount)
	assert.Equal(t, 250*time.Millisecond, cfg.Serve.SnapshotInterval)
	assert.EqualValues(t, "score", cfg.Difficulty.TierMode)
	assert.Equal(t, "hard", cfg.Difficulty.MaxTier)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "orbit.toml", "[safety]\nmin_free_arc_angle = 75.0\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 75.0, cfg.Safety.MinFreeArcAngle)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeFile(t, "orbit.yaml", "spawn:\n  max_on_screen: 5\n")
	t.Setenv("ORBIT_SPAWN_MAX_ON_SCREEN", "7")
	t.Setenv("ORBIT_SESSION_SEED", "99")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Spawn.MaxOnScreen)
	assert.Equal(t, int64(99), cfg.Session.Seed)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := writeFile(t, "orbit.yaml", "wave:\n  burst_count: 0\n")
	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.ErrorIs(t, err, wave.ErrInvalid)

	path = writeFile(t, "log.yaml", "log:\n  level: loud\n")
	_, err = Load(path)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestWriteSchema(t *testing.T) {
	out := filepath.Join(t.TempDir(), "schema", "config.json")
	require.NoError(t, WriteSchema(out))

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	body := string(raw)
	assert.Contains(t, body, `"max_on_screen"`)
	assert.Contains(t, body, `"min_free_arc_angle"`)
	assert.Contains(t, body, `"games_without_wave"`)
	assert.Contains(t, body, "orbit-runner configuration")
}
