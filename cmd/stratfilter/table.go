package main

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"text/tabwriter"

	"github.com/synaptecltd/stratfilter"
)

// writeStatsTable prints the statistics table with the baseline run and the
// batch mean side by side.
func writeStatsTable(w io.Writer, rows []stratfilter.Row, runCount int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "\tthis run\tof %d runs\n", runCount)
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", row.Name, formatValue(row.ThisRun), formatValue(row.OfRuns))
	}
	return tw.Flush()
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', 3, 64)
}
