package stratfilter

// Aggregate is a running arithmetic mean of Statistics. Only the mean and the
// run count are kept, never the individual runs. The zero value is empty.
type Aggregate struct {
	mean Statistics
	runs int
}

// Add folds one run into the mean using agg_i = (agg_{i-1}*(i-1) + stat_i) / i.
func (a *Aggregate) Add(s Statistics) {
	a.runs++
	i := float64(a.runs)
	a.mean = Statistics{
		FinalElevation:        (a.mean.FinalElevation*(i-1) + s.FinalElevation) / i,
		FractionTimePreserved: (a.mean.FractionTimePreserved*(i-1) + s.FractionTimePreserved) / i,
		MeanBedThickness:      (a.mean.MeanBedThickness*(i-1) + s.MeanBedThickness) / i,
	}
}

// Merge folds another aggregate into this one, weighting each by its run count.
func (a *Aggregate) Merge(b Aggregate) {
	switch {
	case b.runs == 0:
		return
	case a.runs == 0:
		*a = b
		return
	}
	na, nb := float64(a.runs), float64(b.runs)
	n := na + nb
	a.mean = Statistics{
		FinalElevation:        (a.mean.FinalElevation*na + b.mean.FinalElevation*nb) / n,
		FractionTimePreserved: (a.mean.FractionTimePreserved*na + b.mean.FractionTimePreserved*nb) / n,
		MeanBedThickness:      (a.mean.MeanBedThickness*na + b.mean.MeanBedThickness*nb) / n,
	}
	a.runs += b.runs
}

// Reset discards all folded runs.
func (a *Aggregate) Reset() {
	*a = Aggregate{}
}

// Mean returns the current mean. It is the zero Statistics when empty.
func (a Aggregate) Mean() Statistics {
	return a.mean
}

// Runs returns the number of runs folded so far.
func (a Aggregate) Runs() int {
	return a.runs
}
