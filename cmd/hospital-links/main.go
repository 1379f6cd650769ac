package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/ajitpratap0/hospital-links/internal/config"
	"github.com/ajitpratap0/hospital-links/internal/events"
	"github.com/ajitpratap0/hospital-links/internal/links"
)

var cfg *config.Config

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	rootCmd := &cobra.Command{
		Use:   "hospital-links",
		Short: "hospital-links: bidirectional link management for hospitals, rooms, staff and patients",
		Long:  "Runs YAML scenarios against an in-memory entity store in which every relationship is established and severed from both sides.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		runCmd(),
		demoCmd(),
		validateCmd(),
	)

	rootCmd.SetContext(ctx)

	err := rootCmd.Execute()
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if cfg != nil {
		switch strings.ToLower(cfg.Logging.Level) {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg != nil && cfg.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// newObserver builds the observer chain selected by the events config. The
// registry is nil unless Prometheus counting is enabled or forced.
func newObserver(logger *slog.Logger, forceProm bool) (links.Observer, *prometheus.Registry, error) {
	var obs []links.Observer
	if cfg.Events.Log {
		obs = append(obs, events.NewLogObserver(logger))
	}
	if cfg.Events.Metrics {
		obs = append(obs, events.MetricsObserver{})
	}
	var reg *prometheus.Registry
	if cfg.Events.Prometheus || forceProm {
		reg = prometheus.NewRegistry()
		po, err := events.NewPromObserver(reg)
		if err != nil {
			return nil, nil, err
		}
		obs = append(obs, po)
	}
	return events.Multi(obs...), reg, nil
}
