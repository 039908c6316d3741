// Command orbit-runner hosts the obstacle engine: an interactive terminal game,
// a headless simulator and a websocket spectator server
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lixenwraith/orbit-runner/config"
	"github.com/lixenwraith/orbit-runner/engine"
	"github.com/lixenwraith/orbit-runner/spawn"
	"github.com/lixenwraith/orbit-runner/status"
)

// options are the persistent flags shared by every subcommand
type options struct {
	configPath string
	debug      bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "orbit-runner",
		Short:         "Orbit runner: obstacle spawning with a guaranteed escape route",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to config file (default: configs/orbit-runner.yaml if present)")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Debug logging and developer keys")

	root.AddCommand(
		newPlayCmd(opts),
		newSimulateCmd(opts),
		newServeCmd(opts),
		newSchemaCmd(),
	)
	return root
}

func (o *options) load() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	return cfg, nil
}

// newSimulation wires the engine from loaded configuration; gate may be nil
func newSimulation(cfg *config.Config, gate spawn.Gate, reg *status.Registry, logger *zap.Logger) (*engine.Simulation, error) {
	sim, err := engine.NewSimulation(cfg.Config, engine.Deps{
		Gate:   gate,
		Status: reg,
		Logger: logger,
		Seed:   cfg.Session.Seed,
	})
	if err != nil {
		return nil, fmt.Errorf("engine init: %w", err)
	}
	return sim, nil
}

// waveTally tracks the persisted count of sessions that ended without a danger wave
type waveTally struct {
	gamesWithoutWave int
}

// finish records the outcome of a session
func (w *waveTally) finish(sim *engine.Simulation) {
	if sim.Wave().Waves() > 0 {
		w.gamesWithoutWave = 0
		return
	}
	w.gamesWithoutWave++
}
