// Package vmath holds the float geometry used by the spawn engine
// Angles are degrees in [0, 360), measured counter-clockwise from +X
package vmath

import "math"

const (
	FullCircle = 360.0
	HalfCircle = 180.0

	degToRad = math.Pi / HalfCircle
	radToDeg = HalfCircle / math.Pi
)

// Clamp01 limits v to [0, 1]
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Clamp limits v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp returns a + (b-a)*t without clamping t
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// DegToRad converts degrees to radians
func DegToRad(deg float64) float64 { return deg * degToRad }

// RadToDeg converts radians to degrees
func RadToDeg(rad float64) float64 { return rad * radToDeg }

// NormalizeAngle wraps deg to [0, 360)
func NormalizeAngle(deg float64) float64 {
	deg = math.Mod(deg, FullCircle)
	if deg < 0 {
		deg += FullCircle
	}
	// Mod of a tiny negative can round back up to exactly 360
	if deg >= FullCircle {
		deg -= FullCircle
	}
	return deg
}

// AngleDiff returns the shortest signed difference from -> to
// Result in (-180, 180]
func AngleDiff(from, to float64) float64 {
	diff := NormalizeAngle(to) - NormalizeAngle(from)
	if diff > HalfCircle {
		diff -= FullCircle
	} else if diff <= -HalfCircle {
		diff += FullCircle
	}
	return diff
}

// AngularDistance returns the unsigned shortest distance between two bearings, [0, 180]
func AngularDistance(a, b float64) float64 {
	return math.Abs(AngleDiff(a, b))
}

// Bearing returns the angle of p as seen from the origin, [0, 360)
func Bearing(p Vec2) float64 {
	if p.X == 0 && p.Y == 0 {
		return 0
	}
	return NormalizeAngle(RadToDeg(math.Atan2(p.Y, p.X)))
}

// PointOnCircle returns the point at deg on a circle of radius r around the origin
func PointOnCircle(deg, r float64) Vec2 {
	rad := DegToRad(deg)
	return Vec2{X: math.Cos(rad) * r, Y: math.Sin(rad) * r}
}
