package stratfilter_test

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/synaptecltd/stratfilter"
)

func pipeline(t testing.TB, rng *rand.Rand, mean, spread float64, axis *stratfilter.TimeAxis) (stratfilter.Series, stratfilter.Series, stratfilter.Statistics) {
	t.Helper()
	elev, err := stratfilter.GenerateElevation(rng, mean, spread, axis, nil)
	require.NoError(t, err)
	strat, err := stratfilter.GenerateStratigraphy(elev)
	require.NoError(t, err)
	stats, err := stratfilter.ComputeStatistics(elev, strat, axis.Horizon())
	require.NoError(t, err)
	return elev, strat, stats
}

func TestComputeStatistics_Example(t *testing.T) {
	elev := stratfilter.Series{0, 2, 1, 3, 2}
	strat := stratfilter.Series{0, 1, 1, 2, 2}

	stats, err := stratfilter.ComputeStatistics(elev, strat, 4)
	require.NoError(t, err)

	assert.Equal(t, 2.0, stats.FinalElevation)
	assert.Equal(t, 0.5, stats.FractionTimePreserved) // indices 0 and 2 of the first four
	assert.Equal(t, 1.0, stats.MeanBedThickness)      // differences 1,0,1,0 without the hiatuses
}

func TestComputeStatistics_FlatRecord(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 0))
	elev, strat, stats := pipeline(t, rng, 0, 0, mustAxis(t, 20, 1))

	assert.Len(t, elev, 21)
	for j := range elev {
		assert.Equal(t, 0.0, elev[j])
		assert.Equal(t, 0.0, strat[j])
	}
	assert.Equal(t, stratfilter.Statistics{FinalElevation: 0, FractionTimePreserved: 1, MeanBedThickness: 0}, stats)
}

func TestComputeStatistics_RisingRecord(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 0))
	elev, strat, stats := pipeline(t, rng, 0.5, 0, mustAxis(t, 20, 1))

	assert.Equal(t, elev, strat, "nothing is eroded from a rising record")
	assert.Equal(t, 10.0, stats.FinalElevation)
	assert.Equal(t, 1.0, stats.FractionTimePreserved)
	assert.Equal(t, 0.5, stats.MeanBedThickness)
}

func TestComputeStatistics_FallingRecord(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 0))
	elev, strat, stats := pipeline(t, rng, -1, 0, mustAxis(t, 20, 1))

	// every surface is later cut down to the final, lowest one
	for j := range elev {
		assert.Equal(t, -float64(j), elev[j])
		assert.Equal(t, -20.0, strat[j])
	}
	assert.Equal(t, -20.0, stats.FinalElevation)
	assert.Equal(t, 0.0, stats.FractionTimePreserved)
	assert.Equal(t, 0.0, stats.MeanBedThickness)
}

func TestComputeStatistics_Bounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 0))
	axis := mustAxis(t, 50, 1)

	for i := 0; i < 1000; i++ {
		_, strat, stats := pipeline(t, rng, rng.Float64()*2-1, rng.Float64()*5, axis)
		assert.GreaterOrEqual(t, stats.FractionTimePreserved, 0.0)
		assert.LessOrEqual(t, stats.FractionTimePreserved, 1.0)
		assert.GreaterOrEqual(t, stats.MeanBedThickness, 0.0)
		assert.Equal(t, strat.Last(), stats.FinalElevation)
	}
}

// The preserved fraction divides by the nominal horizon, not the number of
// samples. With a step below 1 the two diverge and the fraction can exceed 1.
func TestComputeStatistics_FractionNormalisedByHorizon(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 0))
	axis := mustAxis(t, 10, 0.5)
	_, _, stats := pipeline(t, rng, 0.1, 0, axis)

	assert.Equal(t, 21, axis.Len())
	assert.InDelta(t, 20.0/10.0, stats.FractionTimePreserved, 1e-12)
}

func TestComputeStatistics_Errors(t *testing.T) {
	elev := stratfilter.Series{0, 1, 2}
	strat := stratfilter.Series{0, 1, 2}

	_, err := stratfilter.ComputeStatistics(elev, strat, 0)
	assert.True(t, errors.Is(err, stratfilter.ErrNumericalDegeneracy))

	_, err = stratfilter.ComputeStatistics(elev, strat[:2], 2)
	assert.True(t, errors.Is(err, stratfilter.ErrInvalidParameter))

	_, err = stratfilter.ComputeStatistics(nil, nil, 2)
	assert.True(t, errors.Is(err, stratfilter.ErrInvalidParameter))

	_, err = stratfilter.ComputeStatistics(elev, strat, -2)
	assert.True(t, errors.Is(err, stratfilter.ErrInvalidParameter))
}

func TestStatisticsValues(t *testing.T) {
	stats := stratfilter.Statistics{FinalElevation: 1, FractionTimePreserved: 2, MeanBedThickness: 3}
	assert.Equal(t, [3]float64{1, 2, 3}, stats.Values())
	assert.Len(t, stratfilter.StatisticNames, 3)
}
