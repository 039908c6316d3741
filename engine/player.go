package engine

import (
	"github.com/lixenwraith/orbit-runner/archetype"
	"github.com/lixenwraith/orbit-runner/pool"
	"github.com/lixenwraith/orbit-runner/vmath"
)

// Player is the orbiting body the engine keeps alive
type Player struct {
	orbitRadius float64
	bodyRadius  float64
	speed       float64

	angle float64
	// input is the steering axis in [-1, 1], positive is counter-clockwise
	input float64
	grace float64
}

// NewPlayer places a player at bearing 0 on the configured orbit
func NewPlayer(cfg GameplayConfig) Player {
	return Player{
		orbitRadius: cfg.OrbitRadius,
		bodyRadius:  cfg.PlayerRadius,
		speed:       cfg.AngularSpeed,
	}
}

// Reset puts the player back at angle with no input or grace
func (p *Player) Reset(angle float64) {
	p.angle = vmath.NormalizeAngle(angle)
	p.input = 0
	p.grace = 0
}

// Steer sets the steering axis, clamped to [-1, 1]
func (p *Player) Steer(input float64) {
	p.input = vmath.Clamp(input, -1, 1)
}

// Update moves the player along the orbit and counts down invulnerability
func (p *Player) Update(dt float64) {
	if p.input != 0 {
		p.angle = vmath.NormalizeAngle(p.angle + p.input*p.speed*dt)
	}
	if p.grace > 0 {
		p.grace -= dt
		if p.grace < 0 {
			p.grace = 0
		}
	}
}

// Grant starts an invulnerability window, an active longer window is kept
func (p *Player) Grant(seconds float64) {
	if seconds > p.grace {
		p.grace = seconds
	}
}

func (p *Player) Angle() float64       { return p.angle }
func (p *Player) Input() float64       { return p.input }
func (p *Player) OrbitRadius() float64 { return p.orbitRadius }
func (p *Player) BodyRadius() float64  { return p.bodyRadius }
func (p *Player) Invulnerable() bool   { return p.grace > 0 }
func (p *Player) Grace() float64       { return p.grace }

// Position returns the world position on the orbit
func (p *Player) Position() vmath.Vec2 {
	return vmath.PointOnCircle(p.angle, p.orbitRadius)
}

// Hits reports whether the player body overlaps the obstacle
func (p *Player) Hits(o *pool.Obstacle) bool {
	pos := p.Position()
	reach := o.Radius() + p.bodyRadius
	if vmath.Distance(pos, o.Position) > o.BoundingRadius()+p.bodyRadius {
		return false
	}

	switch o.Shape.Family {
	case archetype.FamilyBarrier:
		half := vmath.FromAngle(o.Rotation).Scale(o.Length() / 2)
		return vmath.SegmentDistance(pos, o.Position.Sub(half), o.Position.Add(half)) < reach
	case archetype.FamilyGate:
		// Only the posts collide, the opening between them is passable
		half := vmath.FromAngle(o.Rotation).Scale(o.Length() / 2)
		return vmath.Distance(pos, o.Position.Add(half)) < reach ||
			vmath.Distance(pos, o.Position.Sub(half)) < reach
	default:
		return vmath.Distance(pos, o.Position) < reach
	}
}
