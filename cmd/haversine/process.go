package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/samirrijal/haversine/internal/adapters/pairfile"
	"github.com/samirrijal/haversine/internal/core/domain"
	"github.com/samirrijal/haversine/internal/core/ports"
	"github.com/samirrijal/haversine/internal/core/usecases"
	"github.com/samirrijal/haversine/internal/pkg/cycleclock"
	"github.com/samirrijal/haversine/internal/pkg/metrics"
)

func newProcessCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process",
		Short: "Average the haversine distance of a pairs file and report phase timings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runProcess(cmd)
		},
	}

	cmd.Flags().StringP("input", "i", "input.json", "pairs file to process")
	cmd.Flags().StringP("expected", "e", "expected.f64", "file holding the expected average")
	cmd.Flags().String("format", "text", "report format: text or yaml")
	cmd.Flags().Int("calibration-ms", 1000, "how long to calibrate the cycle counter, in milliseconds")
	cmd.Flags().Bool("force-calibration", false, "calibrate even when the CPU reports its counter frequency")
	return cmd
}

// processOutput is the yaml rendering of a processing run.
type processOutput struct {
	Input      string             `yaml:"input"`
	Pairs      int                `yaml:"pairs"`
	Result     float64            `yaml:"result"`
	Expected   float64            `yaml:"expected"`
	Difference float64            `yaml:"difference"`
	Elapsed    string             `yaml:"elapsed"`
	Report     domain.PhaseReport `yaml:"report"`
}

func (a *app) runProcess(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg := a.cfg

	stopTracing, err := a.startTracing(ctx)
	if err != nil {
		return err
	}
	defer stopTracing()
	defer a.flushMetrics()

	clock := newClock(a)
	metrics.ObserveClock(clock)
	store := pairfile.NewFileStore()
	newParser := func() ports.PairParser { return pairfile.NewParser() }
	svc := usecases.NewProcessService(store, clock, newParser, cfg.Run.EarthRadius)

	start := time.Now()
	result, err := svc.Process(ctx, cfg.Run.Input)
	elapsed := time.Since(start)
	if err != nil {
		metrics.ObserveFailure()
		return err
	}
	metrics.ObserveRun(result)

	expected, err := store.ReadExpected(ctx, cfg.Run.Expected)
	if err != nil {
		return err
	}

	out := processOutput{
		Input:      cfg.Run.Input,
		Pairs:      result.Count,
		Result:     result.Average,
		Expected:   expected,
		Difference: result.Average - expected,
		Elapsed:    elapsed.Round(time.Microsecond).String(),
		Report:     result.Report,
	}

	if cfg.Report.Format == "yaml" {
		return writeYAML(cmd.OutOrStdout(), out)
	}
	return out.writeText(cmd.OutOrStdout())
}

func (o processOutput) writeText(w io.Writer) error {
	if err := o.Report.WriteText(w); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nResult: %s\nExpected sum: %s\nDifference: %s\nElapsed time: %s\n",
		pairfile.FormatFloat(o.Result),
		pairfile.FormatFloat(o.Expected),
		pairfile.FormatFloat(o.Difference),
		o.Elapsed,
	)
	return err
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return enc.Close()
}

func newClock(a *app) *cycleclock.Hardware {
	opts := []cycleclock.Option{
		cycleclock.WithCalibrationWait(time.Duration(a.cfg.Timer.CalibrationMS) * time.Millisecond),
	}
	if a.cfg.Timer.ForceCalibration {
		opts = append(opts, cycleclock.ForceCalibration())
	}
	return cycleclock.New(opts...)
}
