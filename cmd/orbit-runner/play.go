package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/orbit-runner/audio"
	"github.com/lixenwraith/orbit-runner/config"
	"github.com/lixenwraith/orbit-runner/engine"
	"github.com/lixenwraith/orbit-runner/parameter"
	"github.com/lixenwraith/orbit-runner/render"
	"github.com/lixenwraith/orbit-runner/status"
)

// steerHold is how long one key press keeps steering; terminals report no key release
const steerHold = 120 * time.Millisecond

// onboardingGate holds the first spawn until the player steers once
type onboardingGate struct {
	active atomic.Bool
}

func (g *onboardingGate) Active() bool { return g.active.Load() }

func newPlayCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			// The terminal belongs to the renderer, logs go to a file
			logger, cleanup, err := newLogger(cfg.Log.Level, opts.debug, cfg.Log.Dir)
			if err != nil {
				return err
			}
			defer cleanup()
			return runPlay(cmd.Context(), cfg, opts.debug, logger)
		},
	}
}

// crashed restores the terminal and exits; deferred at the top of every play goroutine
func crashed(where string) {
	if r := recover(); r != nil {
		render.EmergencyReset(os.Stdout)
		// \r\n for raw mode compatibility
		fmt.Fprintf(os.Stderr, "\r\n\x1b[31m%s CRASHED: %v\x1b[0m\r\n", where, r)
		fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
		os.Exit(1)
	}
}

// game is the interactive host state owned by the UI goroutine
type game struct {
	cfg    *config.Config
	logger *zap.Logger
	debug  bool

	screen   tcell.Screen
	renderer *render.Renderer
	loop     *engine.Loop
	gate     *onboardingGate
	cues     *audio.Player

	latest    atomic.Pointer[engine.Snapshot]
	autopilot atomic.Bool
	tally     waveTally

	steerUntil time.Time
	steering   bool
	message    string
	messageTTL time.Time
}

func runPlay(ctx context.Context, cfg *config.Config, debugKeys bool, logger *zap.Logger) error {
	defer crashed("ORBIT-RUNNER")

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	screen.HideCursor()

	g := &game{
		cfg:    cfg,
		logger: logger,
		debug:  debugKeys,
		screen: screen,
		gate:   &onboardingGate{},
		tally:  waveTally{gamesWithoutWave: cfg.Session.GamesWithoutWave},
	}
	g.gate.active.Store(cfg.Session.Onboarding)

	sim, err := newSimulation(cfg, g.gate, status.NewRegistry(), logger)
	if err != nil {
		return err
	}

	acfg := audio.DefaultConfig()
	acfg.Enabled = cfg.Audio.Enabled
	acfg.Volume = cfg.Audio.Volume
	var sink audio.Sink
	if cfg.Audio.Enabled {
		if s, err := audio.NewSpeakerSink(beep.SampleRate(parameter.AudioSampleRate)); err == nil {
			sink = s
		} else {
			// Non-fatal, the game runs without sound
			logger.Warn("audio init failed", zap.Error(err))
		}
	}
	g.cues = audio.NewPlayer(acfg, sink, logger.Named("audio"))
	sim.Router().Register(g.cues)

	g.renderer = render.NewRenderer(screen, cfg.Spawn.ViewHalfWidth, cfg.Spawn.ViewHalfHeight)
	g.loop = engine.NewLoop(sim, parameter.TickInterval, logger.Named("loop"))
	pilot := engine.DefaultAutopilot()
	g.loop.OnTick(func(s *engine.Simulation) {
		if g.autopilot.Load() {
			pilot.Drive(s)
		}
		snap := s.Snapshot()
		g.latest.Store(&snap)
	})

	sim.Start(g.tally.gamesWithoutWave)
	first := sim.Snapshot()
	g.latest.Store(&first)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	grp, gctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		defer crashed("SIMULATION")
		return g.loop.Run(gctx)
	})

	// PollEvent blocks until Fini, so the poller is not part of the group
	events := make(chan tcell.Event, 256)
	go func() {
		defer crashed("EVENT POLLER")
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	frame := time.NewTicker(parameter.FrameUpdateInterval)
	defer frame.Stop()

	for {
		select {
		case <-gctx.Done():
			return grp.Wait()
		case ev := <-events:
			if !g.handleEvent(ev) {
				cancel()
				return grp.Wait()
			}
		case now := <-frame.C:
			g.releaseSteer(now)
			g.draw(now)
		}
	}
}

// handleEvent applies one terminal event; false means quit
func (g *game) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		g.screen.Sync()
		g.renderer.Resize()
	case *tcell.EventKey:
		return g.handleKey(ev)
	}
	return true
}

func (g *game) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		g.steer(1)
		return true
	case tcell.KeyRight:
		g.steer(-1)
		return true
	case tcell.KeyRune:
	default:
		return true
	}

	switch ev.Rune() {
	case 'q':
		return false
	case 'h', 'a':
		g.steer(1)
	case 'l', 'd':
		g.steer(-1)
	case 'p', ' ':
		g.loop.TogglePause()
	case 'm':
		if g.cues.ToggleMute() {
			g.flash("sound off")
		} else {
			g.flash("sound on")
		}
	case 'o':
		if !g.autopilot.Load() {
			g.autopilot.Store(true)
			g.clearGate()
			g.flash("autopilot on")
		} else {
			g.autopilot.Store(false)
			g.loop.Do(func(s *engine.Simulation) { s.Steer(0) })
			g.flash("autopilot off")
		}
	case 'r':
		g.loop.Do(func(s *engine.Simulation) {
			if s.Revive() {
				snap := s.Snapshot()
				g.latest.Store(&snap)
			}
		})
	case 'n':
		g.loop.Do(func(s *engine.Simulation) {
			g.tally.finish(s)
			g.gate.active.Store(g.cfg.Session.Onboarding)
			s.Start(g.tally.gamesWithoutWave)
			g.logger.Info("new run", zap.Int("games_without_wave", g.tally.gamesWithoutWave))
		})
	case 'f':
		if g.debug {
			g.loop.Do(func(s *engine.Simulation) {
				if _, ok := s.ForceSpawnImmediate(); !ok {
					g.logger.Debug("forced spawn refused", zap.String("phase", s.Scheduler().Phase().String()))
				}
			})
		}
	}
	return true
}

// steer applies input for steerHold; the first steer clears the onboarding gate
func (g *game) steer(dir float64) {
	g.clearGate()
	g.steerUntil = time.Now().Add(steerHold)
	g.steering = true
	g.loop.Do(func(s *engine.Simulation) { s.Steer(dir) })
}

func (g *game) clearGate() {
	if g.gate.active.CompareAndSwap(true, false) {
		g.loop.Do(func(s *engine.Simulation) { s.NotifyOnboardingGateCleared() })
	}
}

func (g *game) releaseSteer(now time.Time) {
	if !g.steering || now.Before(g.steerUntil) || g.autopilot.Load() {
		return
	}
	g.steering = false
	g.loop.Do(func(s *engine.Simulation) { s.Steer(0) })
}

func (g *game) flash(msg string) {
	g.message = msg
	g.messageTTL = time.Now().Add(2 * time.Second)
}

func (g *game) draw(now time.Time) {
	snap := g.latest.Load()
	if snap == nil {
		return
	}
	ov := render.Overlay{
		Paused:    g.loop.Paused(),
		Muted:     g.cues.Muted(),
		Autopilot: g.autopilot.Load(),
	}
	if now.Before(g.messageTTL) {
		ov.Message = g.message
	} else if snap.Phase == "gated" {
		ov.Message = "steer to begin"
	}
	g.renderer.RenderFrame(*snap, ov)
}
