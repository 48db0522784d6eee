package stratfilter

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/synaptecltd/stratfilter/forcing"
	"github.com/synaptecltd/stratfilter/internal/logging"
	"github.com/synaptecltd/stratfilter/internal/random"
	"golang.org/x/sync/errgroup"
)

// Result is one pass of the pipeline: elevation, stratigraphy and their
// statistics over a shared time axis.
type Result struct {
	Params       Params
	Axis         *TimeAxis
	Elevation    Series
	Stratigraphy Series
	Statistics   Statistics
}

// Batch is the outcome of a Monte Carlo batch: the baseline run and the mean
// over all runs of the batch, the baseline included as the first.
// A batch of n runs therefore makes n-1 runs beyond the baseline, not n.
type Batch struct {
	Baseline  *Result
	Aggregate Aggregate
}

// Simulator drives the elevation, stratigraphy and statistics pipeline.
// Every run draws from its own random stream, numbered in call order, so a
// fixed seed reproduces the same sequence of results. A Simulator is not safe
// for concurrent use.
type Simulator struct {
	cfg      Config
	axis     *TimeAxis
	forcings forcing.Container
	seed     uint64
	next     uint64 // index of the next unused stream
	log      *slog.Logger
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithLogger sets the logger used for batch progress. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.log = l
		}
	}
}

// NewSimulator validates cfg and returns a Simulator for it. A zero seed is
// replaced by one drawn from the system's entropy source.
func NewSimulator(cfg Config, opts ...Option) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	axis, err := NewTimeAxis(cfg.Horizon, cfg.Step)
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		if seed, err = random.NewSeed(); err != nil {
			return nil, err
		}
	}

	s := &Simulator{
		cfg:      cfg,
		axis:     axis,
		forcings: cfg.Forcing,
		seed:     seed,
		log:      logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Axis returns the time axis shared by every run.
func (s *Simulator) Axis() *TimeAxis {
	return s.axis
}

// Seed returns the seed of the random streams.
func (s *Simulator) Seed() uint64 {
	return s.seed
}

// Config returns the configuration the Simulator was built with.
func (s *Simulator) Config() Config {
	return s.cfg
}

// Run performs a single pass of the pipeline.
func (s *Simulator) Run(p Params) (*Result, error) {
	if err := s.cfg.CheckParams(p); err != nil {
		return nil, err
	}
	stream := s.reserve(1)
	return s.run(p, stream)
}

// RunBatch performs runCount independent runs with the same parameters. The
// first is returned as the baseline and seeds the running mean; the rest are
// folded into it without keeping their series. Nothing is returned unless
// every run succeeds.
func (s *Simulator) RunBatch(p Params, runCount int) (*Batch, error) {
	if err := s.cfg.CheckParams(p); err != nil {
		return nil, err
	}
	if runCount <= 0 {
		return nil, fmt.Errorf("%w: run count must be greater than 0, got %d", ErrInvalidParameter, runCount)
	}

	first := s.reserve(runCount)
	s.log.Debug("batch started", "mean", p.Mean, "spread", p.Spread, "runs", runCount, "seed", s.seed, "stream", first)

	baseline, err := s.run(p, first)
	if err != nil {
		return nil, err
	}
	batch := &Batch{Baseline: baseline}
	batch.Aggregate.Add(baseline.Statistics)

	rest, err := s.fold(p, first+1, uint64(runCount-1))
	if err != nil {
		return nil, err
	}
	batch.Aggregate.Merge(rest)

	s.log.Debug("batch finished", "runs", batch.Aggregate.Runs(),
		"final_elevation", batch.Aggregate.Mean().FinalElevation,
		"fraction_time_preserved", batch.Aggregate.Mean().FractionTimePreserved,
		"mean_bed_thickness", batch.Aggregate.Mean().MeanBedThickness)
	return batch, nil
}

// fold runs streams [first, first+n) and returns their mean. With more than
// one worker each takes a contiguous chunk of streams and the partial means
// are merged in chunk order, so the result does not depend on scheduling.
func (s *Simulator) fold(p Params, first, n uint64) (Aggregate, error) {
	workers := uint64(s.cfg.Workers)
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		return s.foldRange(p, first, first+n)
	}

	partials := make([]Aggregate, workers)
	chunk := (n + workers - 1) / workers
	var g errgroup.Group
	for w := uint64(0); w < workers; w++ {
		lo := first + w*chunk
		hi := min(lo+chunk, first+n)
		if lo >= hi {
			continue
		}
		g.Go(func() error {
			agg, err := s.foldRange(p, lo, hi)
			partials[w] = agg
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Aggregate{}, err
	}

	var total Aggregate
	for _, partial := range partials {
		total.Merge(partial)
	}
	return total, nil
}

func (s *Simulator) foldRange(p Params, lo, hi uint64) (Aggregate, error) {
	var agg Aggregate
	for stream := lo; stream < hi; stream++ {
		res, err := s.run(p, stream)
		if err != nil {
			return Aggregate{}, err
		}
		agg.Add(res.Statistics)
		s.log.Log(context.Background(), logging.LevelTrace, "run folded", "stream", stream,
			"final_elevation", res.Statistics.FinalElevation)
	}
	return agg, nil
}

// run is one pass of the pipeline on the given stream.
func (s *Simulator) run(p Params, stream uint64) (*Result, error) {
	r := rand.New(random.Stream(s.seed, stream))

	elev, err := GenerateElevation(r, p.Mean, p.Spread, s.axis, s.forcings)
	if err != nil {
		return nil, err
	}
	strat, err := GenerateStratigraphy(elev)
	if err != nil {
		return nil, err
	}
	stats, err := ComputeStatistics(elev, strat, s.axis.Horizon())
	if err != nil {
		return nil, err
	}

	return &Result{
		Params:       p,
		Axis:         s.axis,
		Elevation:    elev,
		Stratigraphy: strat,
		Statistics:   stats,
	}, nil
}

// reserve claims n consecutive streams and returns the first.
func (s *Simulator) reserve(n int) uint64 {
	first := s.next
	s.next += uint64(n)
	return first
}
