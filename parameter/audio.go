package parameter

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate = 44100

	// AudioBufferDuration determines speaker latency
	AudioBufferDuration = 50 * time.Millisecond

	// AudioMasterVolume is the default master gain [0, 1]
	AudioMasterVolume = 0.5
)

// Near-Miss Cue
const (
	NearMissCueDuration = 120 * time.Millisecond
	NearMissCueAttack   = 5 * time.Millisecond
	NearMissCueRelease  = 60 * time.Millisecond
	NearMissCueFreq     = 1320.0
)

// Wave Warning Cue
const (
	WaveCueNoteDuration = 90 * time.Millisecond
	WaveCueAttack       = 5 * time.Millisecond
	WaveCueRelease      = 30 * time.Millisecond
	WaveCueLowFreq      = 440.0
	WaveCueHighFreq     = 660.0
)

// Hit Cue
const (
	HitCueDuration = 250 * time.Millisecond
	HitCueAttack   = 2 * time.Millisecond
	HitCueRelease  = 150 * time.Millisecond
	HitCueFreq     = 90.0
)
