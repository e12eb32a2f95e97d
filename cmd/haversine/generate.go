package main

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/samirrijal/haversine/internal/adapters/pairfile"
	"github.com/samirrijal/haversine/internal/core/usecases"
	"github.com/samirrijal/haversine/internal/pkg/metrics"
)

const (
	inputFileName    = "input.json"
	expectedFileName = "expected.f64"
)

func newGenerateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a random pairs file and its expected average distance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGenerate(cmd)
		},
	}

	cmd.Flags().StringP("mode", "m", usecases.ModeUniform, "point distribution: uniform or cluster")
	cmd.Flags().Uint64P("seed", "s", 0, "random seed")
	cmd.Flags().Uint64P("pairs", "p", 1000, "number of pairs to generate")
	cmd.Flags().String("out-dir", ".", "directory receiving "+inputFileName+" and "+expectedFileName)
	cmd.Flags().String("format", "text", "summary format: text or yaml")
	return cmd
}

func (a *app) runGenerate(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg := a.cfg

	stopTracing, err := a.startTracing(ctx)
	if err != nil {
		return err
	}
	defer stopTracing()
	defer a.flushMetrics()

	gen := cfg.Generator
	svc := usecases.NewGenerateService(pairfile.NewFileStore(), cfg.Run.EarthRadius, usecases.ClusterShape{
		Count:   gen.ClusterCount,
		RadiusX: gen.ClusterRadiusX,
		RadiusY: gen.ClusterRadiusY,
	})

	start := time.Now()
	result, err := svc.Generate(ctx, usecases.GenerateRequest{
		Mode:         gen.Mode,
		Seed:         gen.Seed,
		Pairs:        gen.Pairs,
		InputPath:    filepath.Join(gen.OutDir, inputFileName),
		ExpectedPath: filepath.Join(gen.OutDir, expectedFileName),
	})
	elapsed := time.Since(start)
	if err != nil {
		return err
	}
	metrics.ObserveGeneration(result.Mode, result.Pairs)

	if cfg.Report.Format == "yaml" {
		return writeYAML(cmd.OutOrStdout(), result)
	}
	return writeGenerateText(cmd.OutOrStdout(), result, gen.Pairs, elapsed)
}

func writeGenerateText(w io.Writer, r *usecases.GenerateResult, requested uint64, elapsed time.Duration) error {
	_, err := fmt.Fprintf(w, "Method: %s\nRandom seed: %d\nPair count: %d\nExpected sum: %s\nElapsed time: %s\n",
		r.Mode,
		r.Seed,
		requested,
		pairfile.FormatFloat(r.Average),
		elapsed.Round(time.Microsecond),
	)
	return err
}
