package stratfilter

import "fmt"

// GenerateStratigraphy applies the stratigraphic filter to an elevation
// record. The preserved value at j is the minimum of all elevations from j to
// the end of the record: any surface later cut below is eroded away.
//
// Where strat[j] == elev[j] the moment is preserved; where strat[j] < elev[j]
// it was removed and replaced by a later, lower surface.
func GenerateStratigraphy(elev Series) (Series, error) {
	nt := len(elev)
	if nt == 0 {
		return nil, fmt.Errorf("%w: elevation series is empty", ErrInvalidParameter)
	}

	strat := make(Series, nt)
	strat[nt-1] = elev[nt-1]
	for j := nt - 2; j >= 0; j-- {
		strat[j] = min(elev[j], strat[j+1])
	}
	return strat, nil
}
