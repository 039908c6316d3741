package vmath

import "math"

// Vec2 is a 2D world-space vector
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v + o
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v * s
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Dot returns the dot product
func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

// Len returns vector length
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// LenSq returns squared length without sqrt
func (v Vec2) LenSq() float64 { return v.X*v.X + v.Y*v.Y }

// Normalize returns the unit vector, zero-safe
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Perpendicular returns v rotated +90 degrees
func (v Vec2) Perpendicular() Vec2 { return Vec2{-v.Y, v.X} }

// Rotate returns v rotated by deg
func (v Vec2) Rotate(deg float64) Vec2 {
	rad := DegToRad(deg)
	c, s := math.Cos(rad), math.Sin(rad)
	return Vec2{v.X*c - v.Y*s, v.X*s + v.Y*c}
}

// Distance returns |a - b|
func Distance(a, b Vec2) float64 { return a.Sub(b).Len() }

// FromAngle returns the unit vector pointing at deg
func FromAngle(deg float64) Vec2 { return PointOnCircle(deg, 1) }

// SegmentDistance returns the distance from p to segment [a, b]
func SegmentDistance(p, a, b Vec2) float64 {
	ab := b.Sub(a)
	den := ab.LenSq()
	if den == 0 {
		return Distance(p, a)
	}
	t := Clamp01(p.Sub(a).Dot(ab) / den)
	return Distance(p, a.Add(ab.Scale(t)))
}
