package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lixenwraith/orbit-runner/config"
	"github.com/lixenwraith/orbit-runner/engine"
	"github.com/lixenwraith/orbit-runner/event"
	"github.com/lixenwraith/orbit-runner/parameter"
	"github.com/lixenwraith/orbit-runner/spawn"
)

type simulateOptions struct {
	duration time.Duration
	seed     int64
	revives  int
	asJSON   bool
}

// summary is the result of a headless run
type summary struct {
	Seed       int64       `json:"seed"`
	Simulated  float64     `json:"simulated_seconds"`
	Ticks      int64       `json:"ticks"`
	Sessions   int         `json:"sessions"`
	Deaths     int         `json:"deaths"`
	Revives    int         `json:"revives"`
	BestScore  float64     `json:"best_score"`
	Tier       string      `json:"tier"`
	Waves      int         `json:"waves"`
	NearMisses int         `json:"near_misses"`
	MinFreeArc float64     `json:"min_free_arc"`
	Spawn      spawn.Stats `json:"spawn"`
}

func newSimulateCmd(opts *options) *cobra.Command {
	so := &simulateOptions{}
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a headless autopilot session and print a summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				cfg.Session.Seed = so.seed
			}
			logger, cleanup, err := newLogger(cfg.Log.Level, opts.debug, "")
			if err != nil {
				return err
			}
			defer cleanup()

			sum, err := runSimulation(cfg, so.duration, so.revives, logger)
			if err != nil {
				return err
			}
			return printSummary(cmd.OutOrStdout(), sum, so.asJSON)
		},
	}
	cmd.Flags().DurationVarP(&so.duration, "duration", "d", 2*time.Minute, "Simulated time to run")
	cmd.Flags().Int64VarP(&so.seed, "seed", "s", 0, "RNG seed (default from config)")
	cmd.Flags().IntVar(&so.revives, "revives", 1, "Revives allowed per session before restarting")
	cmd.Flags().BoolVar(&so.asJSON, "json", false, "Print the summary as JSON")
	return cmd
}

// runSimulation steps an autopilot session at the fixed tick for the given simulated duration
// A game over revives up to maxRevives times, then a new session starts
func runSimulation(cfg *config.Config, duration time.Duration, maxRevives int, logger *zap.Logger) (summary, error) {
	sim, err := newSimulation(cfg, nil, nil, logger)
	if err != nil {
		return summary{}, err
	}

	sum := summary{Seed: cfg.Session.Seed, MinFreeArc: math.Inf(1)}
	sim.Router().Subscribe(func(ev event.GameEvent) {
		switch ev.Type {
		case event.EventGameOver:
			sum.Deaths++
		case event.EventNearMiss:
			sum.NearMisses++
		case event.EventRevived:
			sum.Revives++
		}
	}, event.EventGameOver, event.EventNearMiss, event.EventRevived)

	tally := waveTally{gamesWithoutWave: cfg.Session.GamesWithoutWave}
	pilot := engine.DefaultAutopilot()
	dt := parameter.TickInterval.Seconds()
	steps := int(duration / parameter.TickInterval)

	endSession := func() {
		sum.Sessions++
		sum.Waves += sim.Wave().Waves()
		sum.BestScore = math.Max(sum.BestScore, sim.Score())
		tally.finish(sim)
	}

	sim.Start(tally.gamesWithoutWave)
	for i := 0; i < steps; i++ {
		pilot.Drive(sim)
		sim.Tick(dt)

		if sim.Safety().Registered() > 0 {
			sum.MinFreeArc = math.Min(sum.MinFreeArc, sim.Safety().LargestFreeArc())
		}
		if !sim.Over() {
			continue
		}
		if sim.Revives() < maxRevives && sim.Revive() {
			continue
		}
		endSession()
		sim.Start(tally.gamesWithoutWave)
	}
	endSession()

	sum.Simulated = float64(steps) * dt
	sum.Ticks = sim.Ticks()
	sum.Tier = sim.Snapshot().Tier
	sum.Spawn = sim.Scheduler().Stats()
	if math.IsInf(sum.MinFreeArc, 1) {
		sum.MinFreeArc = 360
	}

	logger.Info("simulation finished",
		zap.Int64("seed", sum.Seed),
		zap.Int("sessions", sum.Sessions),
		zap.Int("deaths", sum.Deaths),
		zap.Uint64("spawned", sum.Spawn.Spawned))
	return sum, nil
}

func printSummary(w io.Writer, sum summary, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	}
	_, err := fmt.Fprintf(w,
		"seed %d  simulated %.1fs  ticks %d\n"+
			"sessions %d  deaths %d  revives %d  best score %.0f\n"+
			"tier %s  waves %d  near misses %d  min free arc %.1f°\n"+
			"spawned %d  forced %d  procedural %d  unsafe angles %d\n"+
			"skipped: breathing %d  cap %d  force rejected %d\n",
		sum.Seed, sum.Simulated, sum.Ticks,
		sum.Sessions, sum.Deaths, sum.Revives, sum.BestScore,
		sum.Tier, sum.Waves, sum.NearMisses, sum.MinFreeArc,
		sum.Spawn.Spawned, sum.Spawn.Forced, sum.Spawn.Procedural, sum.Spawn.UnsafeAngles,
		sum.Spawn.SkippedBreathing, sum.Spawn.SkippedCap, sum.Spawn.ForceRejected,
	)
	return err
}
