package stratfilter

import "errors"

var (
	// ErrInvalidParameter is returned when an input is rejected before any
	// simulation work starts.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrNumericalDegeneracy is returned when a statistic is undefined for
	// the given inputs, e.g. a preserved fraction over a zero horizon.
	ErrNumericalDegeneracy = errors.New("statistic undefined")
)
