package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/samirrijal/haversine/internal/pkg/cycleclock"
)

func newTimerCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timer",
		Short: "Inspect the clocks used for phase timing",
	}
	cmd.PersistentFlags().Int("calibration-ms", 1000, "how long to calibrate the cycle counter, in milliseconds")
	cmd.PersistentFlags().Bool("force-calibration", false, "calibrate even when the CPU reports its counter frequency")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "cpu",
			Short: "Spin the cycle counter for one second of ticks",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				clock := newClock(a)
				freq := clock.FrequencyHint()
				w := cmd.OutOrStdout()

				fmt.Fprintf(w, "CPU Freq: %d (%s, %s)\n", freq, cycleclock.CounterName, clock.FrequencySource())
				start, end := cycleclock.Spin(clock.Sample, freq)
				fmt.Fprintf(w, "CPU Timer: %d -> %d = %d elapsed\n", start, end, end-start)
				_, err := fmt.Fprintf(w, "CPU Seconds: %.4f\n", float64(end-start)/float64(freq))
				return err
			},
		},
		&cobra.Command{
			Use:   "guess",
			Short: "Estimate the cycle counter frequency against the OS clock",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				clock := cycleclock.New()
				wait := time.Duration(a.cfg.Timer.CalibrationMS) * time.Millisecond
				freq := cycleclock.GuessFrequency(clock.Sample, cycleclock.WallClockMicros, wait)
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "CPU Freq: %d (guessed over %s)\n", freq, wait)
				return err
			},
		},
		&cobra.Command{
			Use:   "os",
			Short: "Spin the OS microsecond clock for one second",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				freq := cycleclock.WallClockFrequency
				w := cmd.OutOrStdout()

				fmt.Fprintf(w, "OS Freq: %d\n", freq)
				start, end := cycleclock.Spin(cycleclock.WallClockMicros, freq)
				fmt.Fprintf(w, "OS Timer: %d -> %d = %d elapsed\n", start, end, end-start)
				_, err := fmt.Fprintf(w, "OS Seconds: %.4f\n", float64(end-start)/float64(freq))
				return err
			},
		},
	)
	return cmd
}
