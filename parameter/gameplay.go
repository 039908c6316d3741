package parameter

// Orbit Geometry (world units, origin at orbit center)
const (
	// OrbitRadius is the radius the player travels on
	OrbitRadius = 10.0

	// PlayerRadius is the player's collision radius
	PlayerRadius = 0.45

	// PlayerAngularSpeed is the steering speed in degrees per second
	PlayerAngularSpeed = 200.0

	// ViewHalfWidth and ViewHalfHeight describe the visible region around the center
	ViewHalfWidth  = 18.0
	ViewHalfHeight = 12.0
)

// Revive
const (
	// ReviveGrace is the invulnerability window after a revive, seconds
	ReviveGrace = 2.0

	// ReviveResumeTicks is how many ticks the scheduler waits after a revive before spawning again
	ReviveResumeTicks = 30
)

// Score
const (
	// ScorePerSecond is the survival reward rate
	ScorePerSecond = 10.0

	// ScoreNearMissBonus is awarded on each near-miss event
	ScoreNearMissBonus = 25.0
)
