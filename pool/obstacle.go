// Package pool owns obstacle instances in an arena and recycles them per archetype
package pool

import (
	"fmt"

	"github.com/lixenwraith/orbit-runner/archetype"
	"github.com/lixenwraith/orbit-runner/vmath"
)

// Handle addresses an arena slot; Gen invalidates handles once the instance is released
// The zero Handle is never issued
type Handle struct {
	Index uint32 `json:"index"`
	Gen   uint32 `json:"gen"`
}

// IsZero reports whether h is the unissued handle
func (h Handle) IsZero() bool { return h.Gen == 0 }

func (h Handle) String() string { return fmt.Sprintf("%d#%d", h.Index, h.Gen) }

// State is the lifecycle of an arena slot
type State int

const (
	// StateFree marks a slot whose instance was discarded; the slot is recyclable memory only
	StateFree State = iota
	StateActive
	StateDestroying
	StatePooled
)

func (s State) String() string {
	switch s {
	case StateFree:
		return "free"
	case StateActive:
		return "active"
	case StateDestroying:
		return "destroying"
	case StatePooled:
		return "pooled"
	default:
		return "unknown"
	}
}

// Obstacle is a live obstacle instance
type Obstacle struct {
	Archetype *archetype.Archetype
	// Shape is the unscaled geometry built once by the archetype constructor
	Shape archetype.Shape

	Position vmath.Vec2
	Velocity vmath.Vec2
	Scale    float64
	// Rotation is the body orientation in degrees
	Rotation float64
	// Moving gates position integration; acquired instances start disabled
	Moving bool

	State State
	// Registered mirrors membership in the safety analyzer
	Registered bool

	// Per-instance timers, all cleared on release
	Age         float64
	FlashTimer  float64
	TargetAngle float64
	Forced      bool
}

// Radius returns the scaled body radius
func (o *Obstacle) Radius() float64 { return o.Shape.Radius * o.Scale }

// Length returns the scaled length
func (o *Obstacle) Length() float64 { return o.Shape.Length * o.Scale }

// BoundingRadius returns a circle enclosing the whole body
func (o *Obstacle) BoundingRadius() float64 {
	switch o.Shape.Family {
	case archetype.FamilyBarrier, archetype.FamilyGate:
		return o.Length()/2 + o.Radius()
	default:
		return o.Radius()
	}
}

// resetFresh returns the instance to the canonical acquired state
func (o *Obstacle) resetFresh() {
	o.Position = vmath.Vec2{}
	o.Velocity = vmath.Vec2{}
	o.Scale = 1
	o.Rotation = 0
	o.Moving = false
	o.Registered = false
	o.stopTimers()
}

func (o *Obstacle) stopTimers() {
	o.Age = 0
	o.FlashTimer = 0
	o.TargetAngle = 0
	o.Forced = false
}
