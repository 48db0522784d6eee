package main

import (
	"encoding/csv"
	"encoding/json"
	"strconv"

	"github.com/spf13/cobra"
)

type seriesOutput struct {
	Seed         uint64    `json:"seed"`
	Time         []float64 `json:"time"`
	Elevation    []float64 `json:"elevation"`
	Stratigraphy []float64 `json:"stratigraphy"`
}

func newSeriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "series",
		Short: "Print the elevation and stratigraphy of one record",
		Long: `Simulate one record and print the time, elevation and stratigraphy
columns as CSV, ready for plotting.

Examples:
  stratfilter series --seed 7 > record.csv
  stratfilter series --mean -0.2 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sim, err := newSimulator(cmd)
			if err != nil {
				return err
			}
			res, err := sim.Run(sim.Config().Params())
			if err != nil {
				return err
			}
			times := res.Axis.Times()

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(seriesOutput{
					Seed:         sim.Seed(),
					Time:         times,
					Elevation:    res.Elevation,
					Stratigraphy: res.Stratigraphy,
				})
			}

			w := csv.NewWriter(cmd.OutOrStdout())
			if err := w.Write([]string{"time", "elevation", "stratigraphy"}); err != nil {
				return err
			}
			for j, t := range times {
				record := []string{
					strconv.FormatFloat(t, 'g', -1, 64),
					strconv.FormatFloat(res.Elevation[j], 'g', -1, 64),
					strconv.FormatFloat(res.Stratigraphy[j], 'g', -1, 64),
				}
				if err := w.Write(record); err != nil {
					return err
				}
			}
			w.Flush()
			return w.Error()
		},
	}
}
