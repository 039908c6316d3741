package engine

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Loop drives a Simulation on a fixed tick from a single goroutine
// Other goroutines reach the simulation only through Do
type Loop struct {
	sim      *Simulation
	interval time.Duration
	logger   *zap.Logger

	paused   atomic.Bool
	running  atomic.Bool
	ticks    atomic.Uint64
	commands chan func(*Simulation)

	onTick func(*Simulation)
}

const loopCommandBuffer = 64

// NewLoop creates a loop stepping sim every interval
func NewLoop(sim *Simulation, interval time.Duration, logger *zap.Logger) *Loop {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{
		sim:      sim,
		interval: interval,
		logger:   logger,
		commands: make(chan func(*Simulation), loopCommandBuffer),
	}
}

// OnTick registers a callback run on the loop goroutine after every tick, must be called before Run
func (l *Loop) OnTick(fn func(*Simulation)) {
	l.onTick = fn
}

// Do queues fn to run on the loop goroutine before the next tick
// Returns false when the command buffer is full
func (l *Loop) Do(fn func(*Simulation)) bool {
	select {
	case l.commands <- fn:
		return true
	default:
		l.logger.Warn("loop command dropped")
		return false
	}
}

// Pause stops simulation time; queued commands still run
func (l *Loop) Pause() { l.paused.Store(true) }

// Resume continues simulation time
func (l *Loop) Resume() { l.paused.Store(false) }

// TogglePause flips the pause state and returns the new value
func (l *Loop) TogglePause() bool {
	for {
		old := l.paused.Load()
		if l.paused.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

func (l *Loop) Paused() bool  { return l.paused.Load() }
func (l *Loop) Ticks() uint64 { return l.ticks.Load() }
func (l *Loop) Running() bool { return l.running.Load() }

// Run ticks until ctx is done; a second concurrent Run returns immediately
// Missed deadlines are caught up to two intervals, beyond that the schedule is reset
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return nil
	}
	defer l.running.Store(false)

	dt := l.interval.Seconds()
	next := time.Now().Add(l.interval)
	timer := time.NewTimer(l.interval)
	defer timer.Stop()

	l.logger.Debug("loop started", zap.Duration("interval", l.interval))
	for {
		select {
		case <-ctx.Done():
			l.logger.Debug("loop stopped", zap.Uint64("ticks", l.ticks.Load()))
			return nil
		case fn := <-l.commands:
			fn(l.sim)
			continue
		case <-timer.C:
		}

		now := time.Now()
		if l.paused.Load() {
			next = now.Add(l.interval)
			timer.Reset(2 * l.interval)
			continue
		}

		l.sim.Tick(dt)
		l.ticks.Add(1)
		if l.onTick != nil {
			l.onTick(l.sim)
		}

		next = next.Add(l.interval)
		now = time.Now()
		if now.Sub(next) > 2*l.interval {
			next = now.Add(l.interval)
		}
		wait := next.Sub(now)
		if wait < 0 {
			wait = 0
		}
		timer.Reset(wait)
	}
}
