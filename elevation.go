package stratfilter

import (
	"fmt"
	"math/rand/v2"

	"github.com/synaptecltd/stratfilter/forcing"
)

// Series is a sequence of values index-aligned to a TimeAxis. Series returned
// by this package are never modified after they are created.
type Series []float64

// Last returns the final value of the series.
func (s Series) Last() float64 {
	return s[len(s)-1]
}

// GenerateElevation returns a random walk with drift over the axis:
// elev[0] = 0 and each later point adds an independent Normal(mean, spread)
// increment, plus the contribution of any forcings at that time.
// A spread of 0 gives a straight line of slope mean per step.
func GenerateElevation(r *rand.Rand, mean, spread float64, axis *TimeAxis, forcings forcing.Container) (Series, error) {
	if err := validateWalk(mean, spread); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("%w: random source is nil", ErrInvalidParameter)
	}
	if axis == nil {
		return nil, fmt.Errorf("%w: time axis is nil", ErrInvalidParameter)
	}

	elev := make(Series, axis.Len())
	for j := 1; j < len(elev); j++ {
		increment := mean + spread*r.NormFloat64()
		if len(forcings) > 0 {
			increment += forcings.Delta(r, axis.At(j))
		}
		elev[j] = elev[j-1] + increment
	}
	return elev, nil
}

func validateWalk(mean, spread float64) error {
	if !isFinite(mean) {
		return fmt.Errorf("%w: mean must be finite, got %v", ErrInvalidParameter, mean)
	}
	if !isFinite(spread) || spread < 0 {
		return fmt.Errorf("%w: spread must be a finite value greater than or equal to 0, got %v", ErrInvalidParameter, spread)
	}
	return nil
}
