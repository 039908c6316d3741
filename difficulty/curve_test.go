package difficulty

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/orbit-runner/archetype"
)

func TestSpawnIntervalBoundsCurve(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDifficultyTime = 120
	cfg.MinStart, cfg.MaxStart = 2, 4
	cfg.MinFloor, cfg.MaxFloor = 0.5, 1.0
	c := MustCurve(cfg)

	tests := []struct {
		elapsed  float64
		min, max float64
	}{
		{0, 2, 4},
		{60, 1.625, 3.25},
		{120, 0.5, 1.0},
		{500, 0.5, 1.0},
		{-5, 2, 4},
	}
	for _, tt := range tests {
		lo, hi := c.SpawnIntervalBounds(tt.elapsed)
		assert.InDelta(t, tt.min, lo, 1e-9, "min at %v", tt.elapsed)
		assert.InDelta(t, tt.max, hi, 1e-9, "max at %v", tt.elapsed)
	}
}

func TestCurveMonotonic(t *testing.T) {
	for _, mode := range []Mode{ModeTime, ModeScore} {
		cfg := DefaultConfig()
		cfg.TierMode = mode
		c := MustCurve(cfg)

		rng := rand.New(rand.NewSource(7))
		times := make([]float64, 200)
		for i := range times {
			times[i] = rng.Float64() * 200
		}
		sort.Float64s(times)

		prevLo, prevHi := c.SpawnIntervalBounds(times[0])
		prevTier := c.UnlockedTier(times[0], times[0]*10)
		for _, tm := range times[1:] {
			lo, hi := c.SpawnIntervalBounds(tm)
			tier := c.UnlockedTier(tm, tm*10)
			require.LessOrEqual(t, lo, prevLo)
			require.LessOrEqual(t, hi, prevHi)
			require.GreaterOrEqual(t, tier, prevTier)
			prevLo, prevHi, prevTier = lo, hi, tier
		}
	}
}

func TestTierModes(t *testing.T) {
	timed := MustCurve(DefaultConfig())
	assert.Equal(t, archetype.TierEasy, timed.UnlockedTier(0, 5000))
	assert.Equal(t, archetype.TierMedium, timed.UnlockedTier(20, 0))
	assert.Equal(t, archetype.TierHard, timed.UnlockedTier(50, 0))
	assert.Equal(t, archetype.TierVeryHard, timed.UnlockedTier(90, 0))

	cfg := DefaultConfig()
	cfg.TierMode = ModeScore
	scored := MustCurve(cfg)
	assert.Equal(t, archetype.TierEasy, scored.UnlockedTier(1000, 0))
	assert.Equal(t, archetype.TierMedium, scored.UnlockedTier(0, 200))
	assert.Equal(t, archetype.TierHard, scored.UnlockedTier(0, 600))
	assert.Equal(t, archetype.TierVeryHard, scored.UnlockedTier(0, 1200))
}

func TestMaxTierCap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxTier = "medium"
	c := MustCurve(cfg)
	assert.Equal(t, archetype.TierMedium, c.UnlockedTier(1000, 0))

	c.SetMaxTier(archetype.TierHard)
	assert.Equal(t, archetype.TierHard, c.UnlockedTier(1000, 0))

	c.SetMaxTier(archetype.Tier(9))
	assert.Equal(t, archetype.TierHard, c.MaxTier(), "invalid tier ignored")
}

func TestFallbackChance(t *testing.T) {
	c := MustCurve(DefaultConfig())
	assert.Zero(t, c.FallbackChance(archetype.TierEasy))
	assert.Zero(t, c.FallbackChance(archetype.TierMedium))
	assert.InDelta(t, 0.4, c.FallbackChance(archetype.TierHard), 1e-12)
	assert.InDelta(t, 0.6, c.FallbackChance(archetype.TierVeryHard), 1e-12)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero max time", func(c *Config) { c.MaxDifficultyTime = 0 }},
		{"min above max", func(c *Config) { c.MinStart = 5 }},
		{"floor above start", func(c *Config) { c.MinFloor = 3; c.MaxFloor = 3.5 }},
		{"unknown mode", func(c *Config) { c.TierMode = "waves" }},
		{"equal thresholds", func(c *Config) { c.TimeThresholds.Hard = c.TimeThresholds.Medium }},
		{"decreasing score thresholds", func(c *Config) { c.ScoreThresholds.VeryHard = 10 }},
		{"bad max tier", func(c *Config) { c.MaxTier = "nightmare" }},
		{"fallback above one", func(c *Config) { c.FallbackVeryHard = 1.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, err := NewCurve(cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestTrackerLatches(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TierMode = ModeScore
	tr := NewTracker(MustCurve(cfg), nil)

	assert.False(t, tr.Advance(1, 100))
	assert.True(t, tr.Advance(1, 250), "medium unlocked")
	assert.Equal(t, archetype.TierMedium, tr.Tier())

	// A lower observed score never relocks a tier
	assert.False(t, tr.Advance(1, 50))
	assert.Equal(t, archetype.TierMedium, tr.Tier())
	assert.Equal(t, 250.0, tr.Score())

	lo0, hi0 := tr.Bounds()
	tr.Advance(30, 250)
	lo1, hi1 := tr.Bounds()
	assert.Less(t, lo1, lo0)
	assert.Less(t, hi1, hi0)

	// Negative dt is ignored
	tr.Advance(-100, 0)
	assert.InDelta(t, 33, tr.Elapsed(), 1e-9)

	tr.Reset()
	assert.Zero(t, tr.Elapsed())
	assert.Equal(t, archetype.TierEasy, tr.Tier())
}

func TestTrackerRespectsLoweredCap(t *testing.T) {
	c := MustCurve(DefaultConfig())
	tr := NewTracker(c, nil)
	tr.Advance(100, 0)
	require.Equal(t, archetype.TierVeryHard, tr.Tier())

	c.SetMaxTier(archetype.TierMedium)
	assert.Equal(t, archetype.TierMedium, tr.Tier())
}
