package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/samirrijal/haversine/internal/pkg/config"
	"github.com/samirrijal/haversine/internal/pkg/logging"
	"github.com/samirrijal/haversine/internal/pkg/metrics"
	"github.com/samirrijal/haversine/internal/pkg/telemetry"
)

const serviceName = "haversine"

// flagKeys maps configuration keys to the command line flags that override
// them. Commands that do not define a flag simply leave the key alone.
var flagKeys = map[string]string{
	"run.input":               "input",
	"run.expected":            "expected",
	"report.format":           "format",
	"generator.mode":          "mode",
	"generator.seed":          "seed",
	"generator.pairs":         "pairs",
	"generator.out_dir":       "out-dir",
	"timer.calibration_ms":    "calibration-ms",
	"timer.force_calibration": "force-calibration",
	"log.level":               "log-level",
	"log.format":              "log-format",
	"metrics.textfile":        "metrics-textfile",
}

// app carries the configuration resolved for the running command.
type app struct {
	cfg *config.Config
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "haversine: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           serviceName,
		Short:         "Generate coordinate pair files and time their haversine processing",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	root.PersistentFlags().String("config", "", "config file (default ./config.yaml or ./configs/config.yaml)")
	root.PersistentFlags().String("log-level", "info", "log level: debug, info, warn or error")
	root.PersistentFlags().String("log-format", "text", "log format: text or json")
	root.PersistentFlags().String("metrics-textfile", "", "write Prometheus metrics to this file after the run")

	root.AddCommand(
		newProcessCmd(a),
		newGenerateCmd(a),
		newTimerCmd(a),
	)
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")

	opts := []config.Option{config.WithFile(path)}
	for key, name := range flagKeys {
		opts = append(opts, config.WithFlag(key, cmd.Flags().Lookup(name)))
	}

	cfg, err := config.Load(serviceName, opts...)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logging.Setup(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	return nil
}

// startTracing installs the configured span exporter. The returned function
// is always safe to call.
func (a *app) startTracing(ctx context.Context) (func(), error) {
	t := a.cfg.Telemetry
	if !t.Enabled {
		return func() {}, nil
	}

	shutdown, err := telemetry.InitTracer(ctx, telemetry.Options{
		ServiceName: t.ServiceName,
		Exporter:    t.Exporter,
		Endpoint:    t.Endpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}

	return func() {
		if err := shutdown(context.Background()); err != nil {
			slog.Error("failed to flush traces", "error", err)
		}
	}, nil
}

// flushMetrics writes the metrics textfile when one is configured.
func (a *app) flushMetrics() {
	path := a.cfg.Metrics.Textfile
	if path == "" {
		return
	}
	if err := metrics.WriteTextfile(path); err != nil {
		slog.Error("failed to write metrics", "path", path, "error", err)
		return
	}
	slog.Debug("metrics written", "path", path)
}
