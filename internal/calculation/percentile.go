package calculation

import (
	"math"
	"slices"

	"github.com/rgehrsitz/corpusplan/internal/domain"
)

// Percentile returns the linearly interpolated p-th percentile (0-100) of
// values without modifying them. Empty input yields 0.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return percentileSorted(sortedCopy(values), p)
}

// Median is the 50th percentile.
func Median(values []float64) float64 {
	return Percentile(values, 50)
}

// Band computes the standard percentile band with a single sort.
func Band(values []float64) domain.PercentileBand {
	if len(values) == 0 {
		return domain.PercentileBand{}
	}
	sorted := sortedCopy(values)
	return domain.PercentileBand{
		P5:  percentileSorted(sorted, 5),
		P10: percentileSorted(sorted, 10),
		P25: percentileSorted(sorted, 25),
		P50: percentileSorted(sorted, 50),
		P75: percentileSorted(sorted, 75),
		P90: percentileSorted(sorted, 90),
		P95: percentileSorted(sorted, 95),
	}
}

// DepletionRate is the percentage (0-100) of values at or below zero.
func DepletionRate(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	depleted := 0
	for _, v := range values {
		if v <= 0 {
			depleted++
		}
	}
	return 100 * float64(depleted) / float64(len(values))
}

func sortedCopy(values []float64) []float64 {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return sorted
}

func percentileSorted(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[n-1]
	}
	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
