package audio

import (
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/lixenwraith/orbit-runner/event"
	"github.com/lixenwraith/orbit-runner/parameter"
)

// Sink receives finished cue streamers
type Sink interface {
	Play(s beep.Streamer)
}

// SpeakerSink mixes cues into the system speaker
type SpeakerSink struct {
	mixer *beep.Mixer
}

var speakerOnce sync.Once

// NewSpeakerSink initializes the speaker once per process
func NewSpeakerSink(rate beep.SampleRate) (*SpeakerSink, error) {
	var err error
	sink := &SpeakerSink{mixer: &beep.Mixer{}}
	speakerOnce.Do(func() {
		err = speaker.Init(rate, rate.N(parameter.AudioBufferDuration))
	})
	if err != nil {
		return nil, err
	}
	speaker.Play(sink.mixer)
	return sink, nil
}

// Play adds s to the live mix
func (k *SpeakerSink) Play(s beep.Streamer) {
	speaker.Lock()
	k.mixer.Add(s)
	speaker.Unlock()
}

// Clear drops every playing cue
func (k *SpeakerSink) Clear() {
	speaker.Lock()
	k.mixer.Clear()
	speaker.Unlock()
}

// Config controls cue playback
type Config struct {
	Enabled bool
	Volume  float64
	Rate    beep.SampleRate
}

// DefaultConfig returns enabled playback at the stock master volume
func DefaultConfig() Config {
	return Config{Enabled: true, Volume: parameter.AudioMasterVolume, Rate: parameter.AudioSampleRate}
}

// Player turns engine events into cues; it is an event.Handler
type Player struct {
	cfg    Config
	sink   Sink
	logger *zap.Logger

	muted  atomic.Bool
	played [cueCount]atomic.Int64
}

// NewPlayer creates a cue player writing to sink
func NewPlayer(cfg Config, sink Sink, logger *zap.Logger) *Player {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Rate <= 0 {
		cfg.Rate = parameter.AudioSampleRate
	}
	p := &Player{cfg: cfg, sink: sink, logger: logger}
	p.muted.Store(!cfg.Enabled)
	return p
}

// EventTypes lists the events that have a cue
func (p *Player) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventNearMiss,
		event.EventWaveWarning,
		event.EventWaveStarted,
		event.EventPlayerHit,
		event.EventTierUnlocked,
		event.EventRevived,
	}
}

// HandleEvent plays the cue for ev
func (p *Player) HandleEvent(ev event.GameEvent) {
	switch ev.Type {
	case event.EventNearMiss:
		p.Play(CueNearMiss)
	case event.EventWaveWarning:
		p.Play(CueWaveWarning)
	case event.EventWaveStarted:
		p.Play(CueWaveStart)
	case event.EventPlayerHit:
		p.Play(CueHit)
	case event.EventTierUnlocked:
		p.Play(CueTierUp)
	case event.EventRevived:
		p.Play(CueRevive)
	}
}

// Play synthesizes and sends one cue unless muted
func (p *Player) Play(c Cue) bool {
	if p.muted.Load() || p.sink == nil || c < 0 || c >= cueCount {
		return false
	}
	p.sink.Play(newVolume(Build(c, p.cfg.Rate), p.cfg.Volume))
	p.played[c].Add(1)
	p.logger.Debug("cue", zap.Stringer("cue", c))
	return true
}

// ToggleMute flips mute and returns the new state
func (p *Player) ToggleMute() bool {
	for {
		old := p.muted.Load()
		if p.muted.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// Muted reports whether cues are dropped
func (p *Player) Muted() bool { return p.muted.Load() }

// Played returns how many times c was sent to the sink
func (p *Player) Played(c Cue) int64 {
	if c < 0 || c >= cueCount {
		return 0
	}
	return p.played[c].Load()
}
