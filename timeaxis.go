package stratfilter

import (
	"fmt"
	"math"
)

// DefaultStep is the time step used when none is configured.
const DefaultStep = 1.0

// MaxPoints is the largest number of points a TimeAxis may hold.
const MaxPoints = 1 << 26

// tolerance absorbs representation error in horizon/step, e.g. 50/0.1.
const stepTolerance = 1e-9

// TimeAxis is an immutable sequence of evenly spaced times 0, dt, 2dt, ...
// up to the horizon. It is shared read-only by every series of a run.
type TimeAxis struct {
	horizon float64
	step    float64
	n       int
}

// NewTimeAxis returns an axis with floor(horizon/step)+1 points, at most
// MaxPoints.
func NewTimeAxis(horizon, step float64) (*TimeAxis, error) {
	if !isFinite(horizon) || horizon <= 0 {
		return nil, fmt.Errorf("%w: horizon must be a finite value greater than 0, got %v", ErrInvalidParameter, horizon)
	}
	if !isFinite(step) || step <= 0 {
		return nil, fmt.Errorf("%w: step must be a finite value greater than 0, got %v", ErrInvalidParameter, step)
	}
	intervals := math.Floor(horizon/step + stepTolerance)
	if intervals >= MaxPoints {
		return nil, fmt.Errorf("%w: horizon %v with step %v exceeds %d points", ErrInvalidParameter, horizon, step, MaxPoints)
	}
	return &TimeAxis{
		horizon: horizon,
		step:    step,
		n:       int(intervals) + 1,
	}, nil
}

// Len returns the number of time points.
func (a *TimeAxis) Len() int {
	return a.n
}

// Horizon returns the nominal length of the record.
func (a *TimeAxis) Horizon() float64 {
	return a.horizon
}

// Step returns the spacing between time points.
func (a *TimeAxis) Step() float64 {
	return a.step
}

// At returns the time of point j.
func (a *TimeAxis) At(j int) float64 {
	return float64(j) * a.step
}

// Times returns a fresh copy of all time points.
func (a *TimeAxis) Times() []float64 {
	times := make([]float64, a.n)
	for j := range times {
		times[j] = a.At(j)
	}
	return times
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
