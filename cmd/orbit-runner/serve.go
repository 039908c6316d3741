package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/orbit-runner/config"
	"github.com/lixenwraith/orbit-runner/engine"
	"github.com/lixenwraith/orbit-runner/network"
	"github.com/lixenwraith/orbit-runner/parameter"
	"github.com/lixenwraith/orbit-runner/status"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(opts *options) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run an autopilot session and stream snapshots to websocket spectators at /ws",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Serve.Addr = addr
			}
			logger, cleanup, err := newLogger(cfg.Log.Level, opts.debug, "")
			if err != nil {
				return err
			}
			defer cleanup()
			return runServe(cmd.Context(), cfg, logger)
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config)")
	return cmd
}

// server bundles the spectator stack so tests can drive it without a listener
type server struct {
	sim  *engine.Simulation
	loop *engine.Loop
	hub  *network.Hub
	mux  *http.ServeMux
}

func newServer(cfg *config.Config, logger *zap.Logger) (*server, error) {
	reg := status.NewRegistry()
	sim, err := newSimulation(cfg, nil, reg, logger)
	if err != nil {
		return nil, err
	}

	ncfg := network.DefaultConfig()
	ncfg.SendQueueSize = cfg.Serve.ClientBuffer
	hub := network.NewHub(ncfg, reg, logger.Named("network"))
	sim.Router().Register(hub)

	s := &server{
		sim:  sim,
		loop: engine.NewLoop(sim, parameter.TickInterval, logger.Named("loop")),
		hub:  hub,
		mux:  http.NewServeMux(),
	}

	pilot := engine.DefaultAutopilot()
	publish := hub.TickPublisher(cfg.Serve.SnapshotInterval, parameter.TickInterval)
	tally := waveTally{gamesWithoutWave: cfg.Session.GamesWithoutWave}
	s.loop.OnTick(func(sim *engine.Simulation) {
		// Spectator sessions revive once, then restart
		if sim.Over() {
			if sim.Revives() == 0 {
				sim.Revive()
			} else {
				tally.finish(sim)
				sim.Start(tally.gamesWithoutWave)
			}
		}
		pilot.Drive(sim)
		publish(sim)
	})
	sim.Start(tally.gamesWithoutWave)

	s.mux.Handle("/ws", hub)
	s.mux.Handle("/status", network.StatusHandler(reg))
	s.mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return s, nil
}

func runServe(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	s, err := newServer(cfg, logger)
	if err != nil {
		return err
	}
	httpSrv := &http.Server{
		Addr:              cfg.Serve.Addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	grp, gctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		return s.loop.Run(gctx)
	})
	grp.Go(func() error {
		logger.Info("spectator server listening", zap.String("addr", cfg.Serve.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	grp.Go(func() error {
		<-gctx.Done()
		s.hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
	return grp.Wait()
}
