package stratfilter

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Statistics summarises one elevation/stratigraphy pair, or the mean of
// several when held by an Aggregate.
type Statistics struct {
	FinalElevation        float64 `json:"final_elevation"`
	FractionTimePreserved float64 `json:"fraction_time_preserved"`
	MeanBedThickness      float64 `json:"mean_bed_thickness"`
}

// Display names of the statistics, in the order returned by Values.
var StatisticNames = [...]string{
	"final elevation",
	"fraction of time preserved",
	"mean bed thickness",
}

// Values returns the statistics in StatisticNames order.
func (s Statistics) Values() [len(StatisticNames)]float64 {
	return [...]float64{s.FinalElevation, s.FractionTimePreserved, s.MeanBedThickness}
}

// ComputeStatistics reduces a run to its summary statistics. The preserved
// fraction is normalised by the nominal horizon rather than the sample count,
// and ignores the final sample, which is preserved by construction.
func ComputeStatistics(elev, strat Series, horizon float64) (Statistics, error) {
	nt := len(elev)
	if nt == 0 || len(strat) != nt {
		return Statistics{}, fmt.Errorf("%w: series lengths %d and %d must match and be non-zero", ErrInvalidParameter, nt, len(strat))
	}
	if horizon == 0 {
		return Statistics{}, fmt.Errorf("%w: fraction of time preserved over a zero horizon", ErrNumericalDegeneracy)
	}
	if !isFinite(horizon) || horizon < 0 {
		return Statistics{}, fmt.Errorf("%w: horizon must be a finite value greater than 0, got %v", ErrInvalidParameter, horizon)
	}

	preserved := 0
	for j := 0; j < nt-1; j++ {
		if elev[j] == strat[j] {
			preserved++
		}
	}

	return Statistics{
		FinalElevation:        elev[nt-1],
		FractionTimePreserved: float64(preserved) / horizon,
		MeanBedThickness:      meanBedThickness(strat),
	}, nil
}

// meanBedThickness is the mean of the non-zero forward differences of the
// stratigraphy. Zero differences are hiatuses and are excluded; a record with
// no beds has a mean thickness of 0.
func meanBedThickness(strat Series) float64 {
	if len(strat) < 2 {
		return 0
	}
	diffs := make([]float64, len(strat)-1)
	floats.SubTo(diffs, strat[1:], strat[:len(strat)-1])

	beds := diffs[:0]
	for _, d := range diffs {
		if d != 0 {
			beds = append(beds, d)
		}
	}
	if len(beds) == 0 {
		return 0
	}
	return stat.Mean(beds, nil)
}
