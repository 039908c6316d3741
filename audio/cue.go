// Package audio synthesizes short gameplay cues with beep and plays them for engine events
package audio

import (
	"time"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/orbit-runner/parameter"
)

// Cue identifies a synthesized sound
type Cue int

const (
	CueNearMiss Cue = iota
	CueWaveWarning
	CueWaveStart
	CueHit
	CueTierUp
	CueRevive
	cueCount
)

var cueNames = [cueCount]string{"near_miss", "wave_warning", "wave_start", "hit", "tier_up", "revive"}

func (c Cue) String() string {
	if c < 0 || c >= cueCount {
		return "unknown"
	}
	return cueNames[c]
}

// Build returns a fresh streamer for the cue at unity gain
func Build(c Cue, rate beep.SampleRate) beep.Streamer {
	switch c {
	case CueNearMiss:
		// Short bright ping with an octave shimmer
		d := parameter.NearMissCueDuration
		fund := NewEnvelope(NewOscillator(parameter.NearMissCueFreq, d, WaveSine, rate), d,
			parameter.NearMissCueAttack, parameter.NearMissCueRelease, rate)
		over := NewEnvelope(NewOscillator(2*parameter.NearMissCueFreq, d, WaveSine, rate), d,
			parameter.NearMissCueAttack, parameter.NearMissCueRelease/2, rate)
		return beep.Mix(newVolume(fund, 0.7), newVolume(over, 0.3))

	case CueWaveWarning:
		// Two-tone siren, three alternations
		d := parameter.WaveCueNoteDuration
		var notes []beep.Streamer
		for i := 0; i < 3; i++ {
			for _, f := range []float64{parameter.WaveCueLowFreq, parameter.WaveCueHighFreq} {
				notes = append(notes, NewEnvelope(NewOscillator(f, d, WaveSquare, rate), d,
					parameter.WaveCueAttack, parameter.WaveCueRelease, rate))
			}
		}
		return newVolume(beep.Seq(notes...), 0.5)

	case CueWaveStart:
		d := 300 * time.Millisecond
		sweep := NewEnvelope(NewSweep(parameter.WaveCueHighFreq, parameter.WaveCueLowFreq/2, d, WaveSaw, rate), d,
			parameter.WaveCueAttack, d/2, rate)
		return newVolume(sweep, 0.5)

	case CueHit:
		d := parameter.HitCueDuration
		thud := NewEnvelope(NewOscillator(parameter.HitCueFreq, d, WaveSaw, rate), d,
			parameter.HitCueAttack, parameter.HitCueRelease, rate)
		crack := NewEnvelope(NewOscillator(0, d/2, WaveNoise, rate), d/2,
			parameter.HitCueAttack, d/3, rate)
		return beep.Mix(newVolume(thud, 0.8), newVolume(crack, 0.4))

	case CueTierUp:
		d := 80 * time.Millisecond
		return beep.Seq(
			tone(523.25, d, WaveSine, rate),
			tone(659.25, d, WaveSine, rate),
			tone(783.99, 2*d, WaveSine, rate),
		)

	case CueRevive:
		d := 400 * time.Millisecond
		rise := NewEnvelope(NewSweep(220, 880, d, WaveSine, rate), d, d/4, d/4, rate)
		return newVolume(rise, 0.7)
	}
	return beep.Silence(0)
}

// Duration returns the cue length at rate by draining a fresh build
func Duration(c Cue, rate beep.SampleRate) time.Duration {
	s := Build(c, rate)
	buf := make([][2]float64, 512)
	total := 0
	for {
		n, ok := s.Stream(buf)
		total += n
		if !ok {
			break
		}
	}
	return rate.D(total)
}
