package archetype

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierOrderingAndParse(t *testing.T) {
	assert.True(t, TierEasy < TierMedium && TierMedium < TierHard && TierHard < TierVeryHard)

	for _, in := range []string{"very_hard", "VeryHard", "very-hard", " Very Hard "} {
		got, err := ParseTier(in)
		require.NoError(t, err, in)
		assert.Equal(t, TierVeryHard, got)
	}
	_, err := ParseTier("nightmare")
	assert.ErrorIs(t, err, ErrUnknownTier)

	var tier Tier
	require.NoError(t, tier.UnmarshalText([]byte("hard")))
	assert.Equal(t, TierHard, tier)
	b, _ := TierMedium.MarshalText()
	assert.Equal(t, "medium", string(b))
}

func TestRegisterRejectsDuplicatesAndInvalid(t *testing.T) {
	r := NewRegistry()
	ok := &Archetype{ID: "x", Tier: TierEasy, Build: func(*Shape) {}}
	require.NoError(t, r.Register(ok))
	assert.ErrorIs(t, r.Register(ok), ErrDuplicate)
	assert.ErrorIs(t, r.Register(&Archetype{ID: "", Build: func(*Shape) {}}), ErrInvalid)
	assert.ErrorIs(t, r.Register(&Archetype{ID: "y", Tier: Tier(9), Build: func(*Shape) {}}), ErrInvalid)
	assert.ErrorIs(t, r.Register(&Archetype{ID: "z"}), ErrInvalid)
	assert.ErrorIs(t, r.Register(nil), ErrInvalid)
}

func TestDefaultRegistryTiers(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, 2, r.CountTier(TierEasy))
	assert.Equal(t, 2, r.CountTier(TierMedium))
	assert.Equal(t, 2, r.CountTier(TierHard))
	assert.Equal(t, 0, r.CountTier(TierVeryHard))
	assert.Len(t, r.UpTo(TierMedium), 4)
	assert.Equal(t, 6, r.Len())

	for _, a := range r.UpTo(TierVeryHard) {
		s := a.Construct()
		assert.Equal(t, a.Family, s.Family)
		assert.Greater(t, s.Radius, 0.0, a.ID)
		assert.Greater(t, s.SpeedScale, 0.0, a.ID)
	}
}

func TestSynthesizeKeepsTierAndCaches(t *testing.T) {
	r := DefaultRegistry()
	rng := rand.New(rand.NewSource(3))

	seen := map[string]*Archetype{}
	for i := 0; i < 64; i++ {
		a := r.Synthesize(TierVeryHard, rng)
		assert.Equal(t, TierVeryHard, a.Tier)
		assert.True(t, a.Dynamic)
		if prev, ok := seen[a.ID]; ok {
			assert.Same(t, prev, a)
		}
		seen[a.ID] = a
		got, ok := r.Get(a.ID)
		require.True(t, ok)
		assert.Same(t, a, got)
	}
	// Synthesized archetypes never become templates
	assert.Equal(t, 0, r.CountTier(TierVeryHard))
}
