package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/orbit-runner/event"
	"github.com/lixenwraith/orbit-runner/parameter"
)

const testRate = beep.SampleRate(parameter.AudioSampleRate)

// drain streams s to the end and returns the sample count and peak amplitude
func drain(s beep.Streamer) (int, float64) {
	buf := make([][2]float64, 256)
	total, peak := 0, 0.0
	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			peak = math.Max(peak, math.Abs(buf[i][0]))
		}
		total += n
		if !ok {
			return total, peak
		}
	}
}

type recordingSink struct {
	streams []beep.Streamer
}

func (r *recordingSink) Play(s beep.Streamer) { r.streams = append(r.streams, s) }

func TestOscillatorLengthAndRange(t *testing.T) {
	for _, w := range []WaveType{WaveSine, WaveSquare, WaveSaw, WaveNoise} {
		n, peak := drain(NewOscillator(440, 100*time.Millisecond, w, testRate))
		assert.Equal(t, testRate.N(100*time.Millisecond), n)
		assert.LessOrEqual(t, peak, 1.0)
		assert.Positive(t, peak)
	}
}

func TestEnvelopeSilencesEdges(t *testing.T) {
	d := 50 * time.Millisecond
	env := NewEnvelope(NewOscillator(0, d, WaveSquare, testRate), d, 10*time.Millisecond, 10*time.Millisecond, testRate)
	buf := make([][2]float64, testRate.N(d))
	n, _ := env.Stream(buf)
	require.Equal(t, len(buf), n)
	assert.Zero(t, buf[0][0], "attack starts from silence")
	assert.InDelta(t, 1.0, buf[n/2][0], 1e-9, "sustain at unity")
	assert.Less(t, math.Abs(buf[n-1][0]), 0.01, "release ends near silence")
}

func TestEveryCueIsFiniteAndAudible(t *testing.T) {
	for c := Cue(0); c < cueCount; c++ {
		n, peak := drain(Build(c, testRate))
		assert.Positive(t, n, c.String())
		assert.Positive(t, peak, c.String())
		assert.Less(t, Duration(c, testRate), time.Second, c.String())
	}
	assert.Equal(t, "unknown", Cue(-1).String())
}

func TestPlayerMapsEventsToCues(t *testing.T) {
	sink := &recordingSink{}
	p := NewPlayer(DefaultConfig(), sink, nil)

	router := event.NewRouter(event.NewEventQueue())
	router.Register(p)
	router.Publish(event.EventNearMiss, nil)
	router.Publish(event.EventWaveWarning, nil)
	router.Publish(event.EventPlayerHit, nil)
	router.Publish(event.EventObstacleSpawned, nil)
	router.DispatchAll()

	assert.Len(t, sink.streams, 3)
	assert.Equal(t, int64(1), p.Played(CueNearMiss))
	assert.Equal(t, int64(1), p.Played(CueWaveWarning))
	assert.Equal(t, int64(1), p.Played(CueHit))
	assert.Zero(t, p.Played(CueRevive))
}

func TestPlayerMute(t *testing.T) {
	sink := &recordingSink{}
	cfg := DefaultConfig()
	cfg.Enabled = false
	p := NewPlayer(cfg, sink, nil)
	assert.True(t, p.Muted())
	assert.False(t, p.Play(CueHit))

	assert.False(t, p.ToggleMute())
	assert.True(t, p.Play(CueHit))
	assert.Len(t, sink.streams, 1)

	n, peak := drain(sink.streams[0])
	assert.Positive(t, n)
	assert.Less(t, peak, 1.0)
}

func TestZeroVolumeIsSilent(t *testing.T) {
	_, peak := drain(newVolume(NewOscillator(440, 10*time.Millisecond, WaveSine, testRate), 0))
	assert.Zero(t, peak)
}
