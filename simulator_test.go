package stratfilter

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/synaptecltd/stratfilter/internal/logging"
)

func newTestSimulator(t testing.TB, mutate func(*Config)) *Simulator {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Seed = 42
	if mutate != nil {
		mutate(&cfg)
	}
	sim, err := NewSimulator(cfg)
	require.NoError(t, err)
	return sim
}

// benchmark a full default batch
func BenchmarkRunBatch(b *testing.B) {
	sim := newTestSimulator(b, nil)
	for i := 0; i < b.N; i++ {
		if _, err := sim.RunBatch(Params{Mean: 0, Spread: 1}, DefaultRunCount); err != nil {
			b.Fatal(err)
		}
	}
}

func TestRun(t *testing.T) {
	sim := newTestSimulator(t, func(c *Config) { c.Horizon = 20 })

	res, err := sim.Run(Params{Mean: 0.2, Spread: 1})
	require.NoError(t, err)
	assert.Equal(t, 21, sim.Axis().Len())
	assert.Len(t, res.Elevation, 21)
	assert.Len(t, res.Stratigraphy, 21)
	assert.Same(t, sim.Axis(), res.Axis)
	assert.Equal(t, Params{Mean: 0.2, Spread: 1}, res.Params)
	assert.Equal(t, res.Elevation.Last(), res.Statistics.FinalElevation)
}

func TestRunBatch_SingleRunEqualsBaseline(t *testing.T) {
	sim := newTestSimulator(t, nil)

	batch, err := sim.RunBatch(Params{Mean: 0.1, Spread: 2}, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, batch.Aggregate.Runs())
	assert.Equal(t, batch.Baseline.Statistics, batch.Aggregate.Mean())
}

func TestRunBatch_MatchesStoredMean(t *testing.T) {
	sim := newTestSimulator(t, nil)
	p := Params{Mean: -0.2, Spread: 1.5}

	batch, err := sim.RunBatch(p, DefaultRunCount)
	require.NoError(t, err)
	assert.Equal(t, DefaultRunCount, batch.Aggregate.Runs())

	// replay the same streams, keeping every run
	replay := newTestSimulator(t, nil)
	var sum Statistics
	for i := 0; i < DefaultRunCount; i++ {
		res, err := replay.Run(p)
		require.NoError(t, err)
		if i == 0 {
			assert.Equal(t, batch.Baseline.Elevation, res.Elevation)
		}
		sum.FinalElevation += res.Statistics.FinalElevation
		sum.FractionTimePreserved += res.Statistics.FractionTimePreserved
		sum.MeanBedThickness += res.Statistics.MeanBedThickness
	}

	mean := batch.Aggregate.Mean()
	assert.InDelta(t, sum.FinalElevation/DefaultRunCount, mean.FinalElevation, 1e-9)
	assert.InDelta(t, sum.FractionTimePreserved/DefaultRunCount, mean.FractionTimePreserved, 1e-9)
	assert.InDelta(t, sum.MeanBedThickness/DefaultRunCount, mean.MeanBedThickness, 1e-9)
}

func TestRunBatch_Reproducible(t *testing.T) {
	p := Params{Mean: 0, Spread: 1}

	a, err := newTestSimulator(t, nil).RunBatch(p, 50)
	require.NoError(t, err)
	b, err := newTestSimulator(t, nil).RunBatch(p, 50)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	// a later batch on the same simulator uses fresh streams
	sim := newTestSimulator(t, nil)
	first, err := sim.RunBatch(p, 50)
	require.NoError(t, err)
	second, err := sim.RunBatch(p, 50)
	require.NoError(t, err)
	assert.NotEqual(t, first.Baseline.Elevation, second.Baseline.Elevation)
}

func TestRunBatch_WorkersAgree(t *testing.T) {
	p := Params{Mean: 0.3, Spread: 2.5}

	sequential, err := newTestSimulator(t, nil).RunBatch(p, 101)
	require.NoError(t, err)

	for _, workers := range []int{2, 3, 8, 200} {
		sim := newTestSimulator(t, func(c *Config) { c.Workers = workers })
		parallel, err := sim.RunBatch(p, 101)
		require.NoError(t, err)

		assert.Equal(t, sequential.Baseline, parallel.Baseline, "workers=%d", workers)
		assert.Equal(t, sequential.Aggregate.Runs(), parallel.Aggregate.Runs())
		s, q := sequential.Aggregate.Mean(), parallel.Aggregate.Mean()
		assert.InDelta(t, s.FinalElevation, q.FinalElevation, 1e-9, "workers=%d", workers)
		assert.InDelta(t, s.FractionTimePreserved, q.FractionTimePreserved, 1e-9, "workers=%d", workers)
		assert.InDelta(t, s.MeanBedThickness, q.MeanBedThickness, 1e-9, "workers=%d", workers)
	}
}

func TestRunBatch_Invalid(t *testing.T) {
	sim := newTestSimulator(t, nil)

	testCases := map[string]struct {
		params   Params
		runCount int
	}{
		"negative spread":    {Params{Mean: 0, Spread: -1}, 10},
		"spread above bound": {Params{Mean: 0, Spread: 5.5}, 10},
		"mean below bound":   {Params{Mean: -1.5, Spread: 1}, 10},
		"zero run count":     {Params{Mean: 0, Spread: 1}, 0},
		"negative run count": {Params{Mean: 0, Spread: 1}, -3},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			batch, err := sim.RunBatch(tc.params, tc.runCount)
			assert.Nil(t, batch)
			assert.True(t, errors.Is(err, ErrInvalidParameter))
		})
	}
	assert.Equal(t, uint64(0), sim.next, "rejected batches must not consume streams")
}

func TestNewSimulator(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 0
	sim, err := NewSimulator(cfg)
	require.NoError(t, err)
	assert.NotZero(t, sim.Seed())
	assert.Equal(t, cfg, sim.Config())

	cfg.Horizon = 0
	_, err = NewSimulator(cfg)
	assert.True(t, errors.Is(err, ErrInvalidParameter))
}

func TestRunBatch_Logging(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Seed = 42
	sim, err := NewSimulator(cfg, WithLogger(logging.NewLogger("trace", &buf)))
	require.NoError(t, err)

	_, err = sim.RunBatch(Params{Mean: 0, Spread: 1}, 3)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "batch started")
	assert.Contains(t, out, "run folded")
	assert.Contains(t, out, "batch finished")
}
