package calculation

import (
	"math"
	"math/rand/v2"
)

// ReturnSampler draws monthly returns from the lognormal model implied by an
// annual expected return and annual standard deviation.
type ReturnSampler struct {
	monthlyMean   float64
	monthlyStdDev float64
	mu            float64
	sigma         float64
}

// NewReturnSampler precomputes the lognormal parameters for monthly draws.
func NewReturnSampler(annualReturn, annualStdDev float64) ReturnSampler {
	m := math.Pow(1+annualReturn, 1.0/12) - 1
	s := annualStdDev / math.Sqrt(12)
	return ReturnSampler{
		monthlyMean:   m,
		monthlyStdDev: s,
		mu:            math.Log(1+m) - 0.5*s*s,
		sigma:         math.Sqrt(math.Log(1 + s*s/((1+m)*(1+m)))),
	}
}

// Sample returns one monthly return. The only state touched is rng.
func (s ReturnSampler) Sample(rng *rand.Rand) float64 {
	return math.Exp(s.mu+s.sigma*rng.NormFloat64()) - 1
}

// MonthlyMean is the monthly equivalent of the annual expected return.
func (s ReturnSampler) MonthlyMean() float64 { return s.monthlyMean }

// MonthlyStdDev is the annual standard deviation scaled to one month.
func (s ReturnSampler) MonthlyStdDev() float64 { return s.monthlyStdDev }
