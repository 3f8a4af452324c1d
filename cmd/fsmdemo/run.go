package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	fsm "github.com/stateforward/go-fsm"
	"github.com/stateforward/go-fsm/driver"
	"github.com/stateforward/go-fsm/internal/config"
	"github.com/stateforward/go-fsm/internal/logging"
	"github.com/stateforward/go-fsm/pkg/metrics"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the demo machine",
	Long:  `Ticks the demo character machine until the duration elapses or the process is interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("duration") {
			cfg.Duration, _ = cmd.Flags().GetDuration("duration")
		}
		if cmd.Flags().Changed("tick-rate") {
			cfg.TickRate, _ = cmd.Flags().GetDuration("tick-rate")
		}
		if cmd.Flags().Changed("metrics-addr") {
			cfg.MetricsAddr, _ = cmd.Flags().GetString("metrics-addr")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return run(ctx, cfg, logging.New(logging.ParseLevel(cfg.LogLevel)))
	},
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	return config.Load(envFile)
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	registry := prometheus.NewRegistry()
	collector, err := metrics.New("fsmdemo", registry)
	if err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}

	c := newCharacter(logger,
		fsm.WithObserver(collector),
		fsm.WithHistoryCapacity(cfg.HistoryCapacity),
	)
	defer c.machine.Teardown()

	if cfg.MetricsAddr != "" {
		srv, err := serveMetrics(cfg.MetricsAddr, registry, logger)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("metrics server shutdown", "err", err)
			}
		}()
	}

	if cfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Duration)
		defer cancel()
	}

	d := driver.New(c, driver.Config{TickRate: cfg.TickRate, MaxDelta: cfg.MaxDelta}, driver.WithLogger(logger))
	logger.Info("running", "machine", c.machine.ID(), "tick_rate", cfg.TickRate, "duration", cfg.Duration)
	err = d.Run(ctx)
	logger.Info("stopped",
		"ticks", d.Ticks(),
		"state", c.machine.CurrentState(),
		"history", c.machine.StateHistory(),
	)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

func serveMetrics(addr string, registry *prometheus.Registry, logger *slog.Logger) (*http.Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Info("serving metrics", "addr", listener.Addr().String())
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "err", err)
		}
	}()
	return srv, nil
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Duration("duration", 5*time.Second, "How long to run, zero runs until interrupted")
	runCmd.Flags().Duration("tick-rate", 16*time.Millisecond, "Interval between ticks")
	runCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address")
}
