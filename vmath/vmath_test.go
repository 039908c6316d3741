package vmath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAngle(t *testing.T) {
	cases := map[float64]float64{
		0:    0,
		360:  0,
		-90:  270,
		725:  5,
		-720: 0,
	}
	for in, want := range cases {
		assert.InDelta(t, want, NormalizeAngle(in), 1e-9, "input %v", in)
	}
}

func TestAngularDistanceWraps(t *testing.T) {
	assert.InDelta(t, 20, AngularDistance(350, 10), 1e-9)
	assert.InDelta(t, 20, AngularDistance(10, 350), 1e-9)
	assert.InDelta(t, 180, AngularDistance(0, 180), 1e-9)
	assert.InDelta(t, -20, AngleDiff(10, 350), 1e-9)
}

func TestBearingRoundTrip(t *testing.T) {
	for _, deg := range []float64{0, 45, 90, 179, 270, 359} {
		p := PointOnCircle(deg, 7)
		assert.InDelta(t, 7, p.Len(), 1e-9)
		assert.InDelta(t, deg, Bearing(p), 1e-9)
	}
}

func TestNormalizeZeroSafe(t *testing.T) {
	assert.Equal(t, Vec2{}, Vec2{}.Normalize())
	n := Vec2{X: 3, Y: 4}.Normalize()
	assert.InDelta(t, 1, n.Len(), 1e-12)
}

func TestSegmentDistance(t *testing.T) {
	a, b := Vec2{X: -1}, Vec2{X: 1}
	assert.InDelta(t, 2, SegmentDistance(Vec2{Y: 2}, a, b), 1e-12)
	assert.InDelta(t, 1, SegmentDistance(Vec2{X: 2}, a, b), 1e-12)
	assert.InDelta(t, math.Sqrt2, SegmentDistance(Vec2{X: 2, Y: 1}, a, a), 1e-12)
}

func TestCircularGapsWrapAround(t *testing.T) {
	gaps := CircularGaps([]float64{240, 0, 120})
	require.Len(t, gaps, 3)
	for _, g := range gaps {
		assert.InDelta(t, 120, g.Length, 1e-9)
	}
	assert.InDelta(t, 300, gaps[2].Midpoint(), 1e-9)

	single := CircularGaps([]float64{90})
	require.Len(t, single, 1)
	assert.InDelta(t, 360, single[0].Length, 1e-9)
	assert.InDelta(t, 270, single[0].Midpoint(), 1e-9)

	assert.Nil(t, CircularGaps(nil))
}

func TestLargestGapPicksWidest(t *testing.T) {
	g, ok := LargestGap([]float64{10, 30, 200})
	require.True(t, ok)
	assert.InDelta(t, 170, g.Length, 1e-9)
	assert.InDelta(t, 115, g.Midpoint(), 1e-9)

	_, ok = LargestGap(nil)
	assert.False(t, ok)
}

func TestLargestFreeArc(t *testing.T) {
	assert.Equal(t, FullCircle, LargestFreeArc(nil, 30))
	// 120 degree gaps lose 30 on each side
	assert.InDelta(t, 60, LargestFreeArc([]float64{0, 120, 240}, 30), 1e-9)
	// Overlapping claims clamp to zero
	assert.InDelta(t, 0, LargestFreeArc([]float64{0, 40, 80, 120, 160, 200, 240, 280, 320}, 30), 1e-9)
}
