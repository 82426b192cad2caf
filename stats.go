package qrng

import "math"

/*
DistributionStats summarizes how close one execution's counts came to the
ideal uniform distribution. Mean and standard deviation are taken across ALL
2^width possible outcomes, unseen bitstrings counting as zero, so a backend
that never produces half the outcome space is correctly penalized. On an
ideal backend the standard deviation shrinks toward zero as shots grow; a
noisy backend floors at a strictly positive value. Lower is better.
*/
type DistributionStats struct {
	// Outcomes is the size of the outcome space, 2^width.
	Outcomes float64
	// Observed is how many distinct bitstrings actually occurred.
	Observed int
	// MeanCount is shots / 2^width, the count every outcome would carry
	// under perfect uniformity.
	MeanCount float64
	// StdCount is the standard deviation of counts across the full
	// outcome space.
	StdCount float64
	// NormalizedStd is StdCount / MeanCount, rounded to nine decimal
	// places. Comparable across shot counts and widths.
	NormalizedStd float64
}

/*
summarize computes the distribution statistics without materializing the
outcome space: the sum of squared deviations over all 2^width outcomes
decomposes into the observed outcomes' contribution plus mean^2 for every
unseen one, so only observed outcomes are iterated.
*/
func summarize(values map[uint64]uint64, width int, shots uint64) DistributionStats {
	outcomes := math.Exp2(float64(width))
	mean := float64(shots) / outcomes

	// Σ_all (c-mean)² = Σ_observed ((c-mean)² - mean²) + outcomes·mean²
	var adjusted float64
	for _, n := range values {
		d := float64(n) - mean
		adjusted += d*d - mean*mean
	}
	variance := (adjusted + outcomes*mean*mean) / outcomes
	if variance < 0 {
		variance = 0 // Numerical drift only; the true value is nonnegative
	}
	std := math.Sqrt(variance)

	normalized := 0.0
	if mean > 0 {
		normalized = math.Round(std/mean*1e9) / 1e9
	}

	return DistributionStats{
		Outcomes:      outcomes,
		Observed:      len(values),
		MeanCount:     mean,
		StdCount:      std,
		NormalizedStd: normalized,
	}
}
