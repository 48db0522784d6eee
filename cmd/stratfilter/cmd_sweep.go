package main

import (
	"encoding/json"
	"fmt"
	"math"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/synaptecltd/stratfilter"
	"gonum.org/v1/gonum/floats"
)

type sweepPoint struct {
	Mean       float64                `json:"mean"`
	Spread     float64                `json:"spread"`
	Runs       int                    `json:"runs"`
	Statistics stratfilter.Statistics `json:"statistics"`
}

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Average the statistics across the range of mean values",
		Long: `Run a Monte Carlo batch for every mean value from mean_min to mean_max in
steps of --mean-step, holding the spread fixed, and print the batch means.

Examples:
  stratfilter sweep --runs 200 --workers 8
  stratfilter sweep --set mean_min=-0.5 --set mean_max=0.5 --mean-step 0.1 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			step, _ := cmd.Flags().GetFloat64("mean-step")
			if math.IsNaN(step) || step <= 0 {
				return fmt.Errorf("%w: mean-step must be greater than 0, got %v", stratfilter.ErrInvalidParameter, step)
			}

			sim, err := newSimulator(cmd)
			if err != nil {
				return err
			}
			cfg := sim.Config()
			means := sweepValues(cfg.MeanMin, cfg.MeanMax, step)

			points := make([]sweepPoint, 0, len(means))
			for _, mean := range means {
				p := stratfilter.Params{Mean: mean, Spread: cfg.Spread}
				batch, err := sim.RunBatch(p, cfg.RunCount)
				if err != nil {
					return err
				}
				points = append(points, sweepPoint{
					Mean:       mean,
					Spread:     cfg.Spread,
					Runs:       batch.Aggregate.Runs(),
					Statistics: batch.Aggregate.Mean(),
				})
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(points)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprint(tw, "mean")
			for _, name := range stratfilter.StatisticNames {
				fmt.Fprintf(tw, "\t%s", name)
			}
			fmt.Fprintln(tw)
			for _, pt := range points {
				fmt.Fprint(tw, formatValue(pt.Mean))
				for _, v := range pt.Statistics.Values() {
					fmt.Fprintf(tw, "\t%s", formatValue(v))
				}
				fmt.Fprintln(tw)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().Float64("mean-step", 0.05, "spacing of the swept mean values")
	return cmd
}

// sweepValues returns evenly spaced values from lo to hi inclusive, spaced by
// step or slightly less so that hi is always reached.
func sweepValues(lo, hi, step float64) []float64 {
	if lo == hi {
		return []float64{lo}
	}
	n := int(math.Ceil((hi-lo)/step-1e-9)) + 1
	return floats.Span(make([]float64, n), lo, hi)
}
