package difficulty

import (
	"go.uber.org/zap"

	"github.com/lixenwraith/orbit-runner/archetype"
)

// Tracker is the per-session difficulty state
// Elapsed and score only grow; bounds and tier are latched so they never regress
type Tracker struct {
	curve  *Curve
	logger *zap.Logger

	elapsed float64
	score   float64

	minInterval float64
	maxInterval float64
	tier        archetype.Tier
}

// NewTracker creates a tracker positioned at session start
func NewTracker(curve *Curve, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Tracker{curve: curve, logger: logger}
	t.Reset()
	return t
}

// Reset returns to session start
func (t *Tracker) Reset() {
	t.elapsed = 0
	t.score = 0
	t.minInterval, t.maxInterval = t.curve.SpawnIntervalBounds(0)
	t.tier = t.curve.UnlockedTier(0, 0)
}

// Advance moves the session forward by dt and observes the current score
// Returns true when a higher tier was unlocked on this call
func (t *Tracker) Advance(dt, score float64) bool {
	if dt > 0 {
		t.elapsed += dt
	}
	if score > t.score {
		t.score = score
	}

	lo, hi := t.curve.SpawnIntervalBounds(t.elapsed)
	if lo < t.minInterval {
		t.minInterval = lo
	}
	if hi < t.maxInterval {
		t.maxInterval = hi
	}

	next := t.curve.UnlockedTier(t.elapsed, t.score)
	if next <= t.tier {
		return false
	}
	t.logger.Info("tier unlocked",
		zap.Stringer("from", t.tier),
		zap.Stringer("to", next),
		zap.Float64("elapsed", t.elapsed),
		zap.Float64("score", t.score),
	)
	t.tier = next
	return true
}

// Curve returns the underlying curve
func (t *Tracker) Curve() *Curve { return t.curve }

// Elapsed returns session seconds
func (t *Tracker) Elapsed() float64 { return t.elapsed }

// Score returns the highest observed score
func (t *Tracker) Score() float64 { return t.score }

// Bounds returns the current spawn interval range
func (t *Tracker) Bounds() (minInterval, maxInterval float64) {
	return t.minInterval, t.maxInterval
}

// Tier returns the unlocked tier, clamped to the curve's current cap
func (t *Tracker) Tier() archetype.Tier {
	if limit := t.curve.MaxTier(); t.tier > limit {
		return limit
	}
	return t.tier
}
