package nearmiss

// BreathingRoom is the post near-miss spawn suspension countdown
type BreathingRoom struct {
	remaining float64
}

// Start arms the countdown, extending it if a longer window is requested
func (b *BreathingRoom) Start(d float64) {
	if d > b.remaining {
		b.remaining = d
	}
}

// Stop cancels the countdown
func (b *BreathingRoom) Stop() { b.remaining = 0 }

// Tick counts down by dt; returns true on the tick the countdown reaches zero
func (b *BreathingRoom) Tick(dt float64) bool {
	if b.remaining <= 0 {
		return false
	}
	b.remaining -= dt
	if b.remaining <= 0 {
		b.remaining = 0
		return true
	}
	return false
}

// Active reports whether spawning is suspended
func (b *BreathingRoom) Active() bool { return b.remaining > 0 }

// Remaining returns seconds left
func (b *BreathingRoom) Remaining() float64 { return b.remaining }
