package engine

// Deferred holds one-shot actions that fire after a number of ticks or seconds
// Actions run on the simulation goroutine during the deferred step of Tick
type Deferred struct {
	pending []deferredAction
}

type deferredAction struct {
	byTicks bool
	ticks   int
	seconds float64
	fn      func()
}

// AfterTicks schedules fn to run once n ticks have elapsed, n <= 0 runs on the next tick
func (d *Deferred) AfterTicks(n int, fn func()) {
	d.pending = append(d.pending, deferredAction{byTicks: true, ticks: n, fn: fn})
}

// After schedules fn to run once seconds of simulation time have elapsed
func (d *Deferred) After(seconds float64, fn func()) {
	d.pending = append(d.pending, deferredAction{seconds: seconds, fn: fn})
}

// Tick advances every pending action and runs the due ones in scheduling order
// Actions scheduled from inside a running action wait for the next Tick
func (d *Deferred) Tick(dt float64) int {
	var due []func()
	n := 0
	for _, a := range d.pending {
		if a.byTicks {
			a.ticks--
			if a.ticks <= 0 {
				due = append(due, a.fn)
				continue
			}
		} else {
			a.seconds -= dt
			if a.seconds <= 0 {
				due = append(due, a.fn)
				continue
			}
		}
		d.pending[n] = a
		n++
	}
	clear(d.pending[n:])
	d.pending = d.pending[:n]

	for _, fn := range due {
		fn()
	}
	return len(due)
}

// Cancel drops every pending action
func (d *Deferred) Cancel() {
	clear(d.pending)
	d.pending = d.pending[:0]
}

// Len returns the pending action count
func (d *Deferred) Len() int { return len(d.pending) }
