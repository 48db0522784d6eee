package main

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/synaptecltd/stratfilter"
)

type runOutput struct {
	SessionID uuid.UUID               `json:"session_id"`
	Seed      uint64                  `json:"seed"`
	Params    stratfilter.Params      `json:"params"`
	ThisRun   stratfilter.Statistics  `json:"this_run"`
	OfRuns    *stratfilter.Statistics `json:"of_runs,omitempty"`
	Runs      int                     `json:"runs,omitempty"`
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate one record and print its statistics",
		Long: `Simulate one elevation record, apply the stratigraphic filter and print
the summary statistics. With --aggregate the statistics are also averaged over
a Monte Carlo batch of --runs runs, the printed record being the first of them.

Examples:
  stratfilter run --mean 0.1 --spread 1
  stratfilter run --preset short --aggregate --runs 500 --workers 4
  stratfilter run --config column.yaml --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sim, err := newSimulator(cmd)
			if err != nil {
				return err
			}
			cfg := sim.Config()

			aggregate := cfg.Aggregate
			if cmd.Flags().Changed("aggregate") {
				aggregate, _ = cmd.Flags().GetBool("aggregate")
			}

			session := stratfilter.NewSession(sim)
			report, err := session.Run(cfg.Params(), aggregate, cfg.RunCount)
			if err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				out := runOutput{
					SessionID: report.SessionID,
					Seed:      sim.Seed(),
					Params:    report.Result.Params,
					ThisRun:   report.Result.Statistics,
				}
				if report.Aggregate != nil {
					mean := report.Aggregate.Mean()
					out.OfRuns = &mean
					out.Runs = report.Aggregate.Runs()
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			return writeStatsTable(cmd.OutOrStdout(), report.Rows(), cfg.RunCount)
		},
	}
	cmd.Flags().Bool("aggregate", false, "also average the statistics over a batch of --runs runs")
	return cmd
}
