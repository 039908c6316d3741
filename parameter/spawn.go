package parameter

// Spawn Scheduler
const (
	// SpawnFirstDelay is the near-zero delay before the first obstacle of a session
	SpawnFirstDelay = 0.1

	// SpawnMargin is the distance beyond the visible frustum where obstacles appear
	SpawnMargin = 2.0

	// SpawnDespawnMargin is the extra distance past the frustum before an outbound obstacle is released
	SpawnDespawnMargin = 3.0

	// SpawnBaseSpeed is the obstacle speed before variation, units per second
	SpawnBaseSpeed = 6.0

	// SpawnSpeedVariation is the upper bound of the speed multiplier range [1, v]
	SpawnSpeedVariation = 1.6

	// SpawnSizeVariation is the upper bound of the scale range [1, v]
	SpawnSizeVariation = 2.2

	// SpawnMaxOnScreen is the live obstacle cap for timer spawns
	SpawnMaxOnScreen = 12

	// SpawnCapRetryDelay is the timer value set after a cap-blocked tick
	SpawnCapRetryDelay = 0.25
)

// Difficulty Curve (seconds)
const (
	DifficultyMaxTime = 120.0

	SpawnIntervalMinStart = 2.0
	SpawnIntervalMaxStart = 4.0
	SpawnIntervalMinFloor = 0.5
	SpawnIntervalMaxFloor = 1.0
)

// Tier unlock thresholds, time mode (seconds) and score mode (points)
const (
	TierMediumTime   = 20.0
	TierHardTime     = 50.0
	TierVeryHardTime = 90.0

	TierMediumScore   = 200.0
	TierHardScore     = 600.0
	TierVeryHardScore = 1200.0
)

// Procedural fallback chance when a tier has no registered templates
const (
	FallbackChanceHard     = 0.4
	FallbackChanceVeryHard = 0.6
)
