package spawn

import (
	"math"
	"math/rand"

	"github.com/lixenwraith/orbit-runner/archetype"
	"github.com/lixenwraith/orbit-runner/vmath"
)

// transform is a rolled spawn trajectory before archetype speed scaling
type transform struct {
	position  vmath.Vec2
	direction vmath.Vec2
	speed     float64
	scale     float64
}

// roll rolls an off-screen start heading for the orbit point at targetAngle
func (c Config) roll(rng *rand.Rand, targetAngle, orbitRadius float64) transform {
	target := vmath.PointOnCircle(targetAngle, orbitRadius)
	pos := vmath.PointOnCircle(rng.Float64()*360, c.SpawnDistance())

	speed := c.BaseSpeed * (1 + rng.Float64()*(c.SpeedVariation-1))

	// Squared roll biases toward small obstacles
	u := rng.Float64()
	scale := 1 + (c.SizeVariation-1)*u*u

	return transform{
		position:  pos,
		direction: target.Sub(pos).Normalize(),
		speed:     speed,
		scale:     scale,
	}
}

// orientation returns the body rotation in degrees for a family moving along dir
func orientation(f archetype.Family, dir vmath.Vec2) float64 {
	heading := vmath.Bearing(dir)
	if f.OrientPerpendicular() {
		return vmath.NormalizeAngle(heading + 90)
	}
	return heading
}

// Outbound reports whether an obstacle has left the visible region for good:
// past the frustum plus the despawn margin and still moving away from the center
func (c Config) Outbound(pos, vel vmath.Vec2) bool {
	if math.Abs(pos.X) <= c.ViewHalfWidth+c.DespawnMargin && math.Abs(pos.Y) <= c.ViewHalfHeight+c.DespawnMargin {
		return false
	}
	return pos.Dot(vel) > 0
}
