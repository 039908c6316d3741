package parameter

// Near-Miss & Breathing Room (seconds, world units)
const (
	// NearMissDistance is the center distance that counts as a close call
	NearMissDistance = 1.6

	// NearMissCooldown is the minimum gap between two near-miss events
	NearMissCooldown = 1.5

	// BreathingRoomDuration is the spawn suspension after a near-miss
	BreathingRoomDuration = 1.2

	// DangerCount is the crowding threshold within 2x near-miss distance
	DangerCount = 2

	// DangerSpawnMultiplier stretches the spawn interval while crowded
	DangerSpawnMultiplier = 1.5
)

// Danger Wave
const (
	// WaveScoreInterval is the score distance between two waves
	WaveScoreInterval = 500.0

	// WaveMinScore is the score before the first score-gated wave
	WaveMinScore = 300.0

	// WaveWarningDuration is the telegraph phase before the burst
	WaveWarningDuration = 1.5

	// WaveBurstCount is the number of forced spawns per wave
	WaveBurstCount = 5

	// WaveBurstSpacing is the delay between forced spawns inside a burst
	WaveBurstSpacing = 0.15

	// WaveCooldownDuration is the recovery phase after a burst
	WaveCooldownDuration = 3.0

	// WaveForceAfterGames forces an early wave after this many sessions without one, 0 disables
	WaveForceAfterGames = 3

	// WaveForcedDelay is the elapsed time at which a forced early wave begins
	WaveForcedDelay = 15.0
)

// Object Pool
const (
	// PoolMaxPerArchetype is the default cap on idle instances per archetype
	PoolMaxPerArchetype = 16
)
