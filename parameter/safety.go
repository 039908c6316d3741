package parameter

// Orbit Safety (degrees unless noted)
const (
	// SafetyCheckRadius is the radial tolerance around the orbit radius, world units
	SafetyCheckRadius = 2.5

	// SafetyObstacleBlockAngle is the half-width an obstacle occupies around its bearing
	SafetyObstacleBlockAngle = 20.0

	// SafetyMinFreeArcAngle is the smallest corridor that must survive a spawn
	SafetyMinFreeArcAngle = 60.0

	// SafetyAngleEpsilon absorbs float error at exact boundaries
	SafetyAngleEpsilon = 1e-9
)

// SafetyFanOffsets is the probe order around a rejected preferred angle
var SafetyFanOffsets = [...]float64{45, -45, 90, -90, 135, -135, 180}
