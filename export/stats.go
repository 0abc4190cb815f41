package export

import "github.com/GaryBoone/GoStats/stats"

// AgeBurnStats summarizes the age-at-burn histogram's mean and variance,
// reported alongside the required CSV histogram, grounded on the teacher's
// use of GaryBoone/GoStats for regression/summary statistics in eval.
type AgeBurnStats struct {
	MeanBurned, VarianceBurned     float64
	MeanBurnedSA, VarianceBurnedSA float64
}

// ComputeAgeBurnStats expands bins into per-cell age samples (one sample
// per burned cell, weighted by bin count) and computes their mean and
// variance.
func ComputeAgeBurnStats(bins []AgeBin) AgeBurnStats {
	var s, sSA stats.Stats
	for _, b := range bins {
		for i := 0; i < b.NumBurned; i++ {
			s.Update(float64(b.Age))
		}
		for i := 0; i < b.NumBurnedSA; i++ {
			sSA.Update(float64(b.Age))
		}
	}
	return AgeBurnStats{
		MeanBurned:     s.Mean(),
		VarianceBurned: s.SampleVariance(),
		MeanBurnedSA:   sSA.Mean(),
		VarianceBurnedSA: sSA.SampleVariance(),
	}
}
