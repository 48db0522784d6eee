package stratfilter

import (
	"math"

	"github.com/google/uuid"
)

// Session keeps a cumulative mean across repeated requests with the same
// parameters, as an interactive front end would issue them. The cumulative
// mean is discarded whenever the parameters change or Reset is called.
type Session struct {
	ID uuid.UUID

	sim        *Simulator
	params     Params
	hasParams  bool
	cumulative Aggregate
}

// Report is what a Session hands to its presentation layer.
type Report struct {
	SessionID  uuid.UUID
	Result     *Result    // the baseline run, for plotting
	Aggregate  *Aggregate // mean over this request's batch, nil if not requested
	Cumulative Aggregate  // mean over every run since the last reset
}

// Row is one line of the statistics table.
type Row struct {
	Name    string
	ThisRun float64
	OfRuns  float64 // NaN when no aggregate was requested
}

// NewSession returns a session driving sim.
func NewSession(sim *Simulator) *Session {
	return &Session{ID: uuid.New(), sim: sim}
}

// Run performs one request. With aggregate set, a batch of runCount runs is
// performed; otherwise a single run. A failed request leaves the session
// untouched.
func (s *Session) Run(p Params, aggregate bool, runCount int) (*Report, error) {
	report := &Report{SessionID: s.ID}
	var runs Aggregate

	if aggregate {
		batch, err := s.sim.RunBatch(p, runCount)
		if err != nil {
			return nil, err
		}
		report.Result = batch.Baseline
		report.Aggregate = &batch.Aggregate
		runs = batch.Aggregate
	} else {
		res, err := s.sim.Run(p)
		if err != nil {
			return nil, err
		}
		report.Result = res
		runs.Add(res.Statistics)
	}

	if !s.hasParams || p != s.params {
		s.cumulative.Reset()
		s.params = p
		s.hasParams = true
	}
	s.cumulative.Merge(runs)
	report.Cumulative = s.cumulative
	return report, nil
}

// Reset discards the cumulative mean.
func (s *Session) Reset() {
	s.cumulative.Reset()
	s.hasParams = false
}

// Cumulative returns the mean over every run since the last reset.
func (s *Session) Cumulative() Aggregate {
	return s.cumulative
}

// Rows returns the statistics table of the report: one row per statistic
// with the baseline run and the batch mean side by side.
func (r *Report) Rows() []Row {
	this := r.Result.Statistics.Values()
	of := [len(StatisticNames)]float64{math.NaN(), math.NaN(), math.NaN()}
	if r.Aggregate != nil {
		of = r.Aggregate.Mean().Values()
	}

	rows := make([]Row, len(StatisticNames))
	for i, name := range StatisticNames {
		rows[i] = Row{Name: name, ThisRun: this[i], OfRuns: of[i]}
	}
	return rows
}
