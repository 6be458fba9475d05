package calculation

import (
	"math/rand/v2"

	"github.com/rgehrsitz/corpusplan/internal/domain"
)

const monthsPerYear = 12

// CashFlowSchedule describes the cash flows of a path, one entry per year.
type CashFlowSchedule struct {
	// YearStart is deposited before the first return of the year.
	YearStart []float64
	// Monthly is added after every month's return; withdrawals are negative.
	Monthly []float64
	// YearEnd is added after the last month's return of the year.
	YearEnd []float64
}

// Years is the schedule length.
func (s CashFlowSchedule) Years() int { return len(s.Monthly) }

// Months is the number of monthly steps.
func (s CashFlowSchedule) Months() int { return len(s.Monthly) * monthsPerYear }

func at(v []float64, i int) float64 {
	if i < len(v) {
		return v[i]
	}
	return 0
}

// PathSimulator advances one corpus through a schedule.
type PathSimulator struct {
	Sampler ReturnSampler
}

// Run returns the terminal corpus and whether the path survived. A path that
// reaches zero stops and stays at zero.
func (ps PathSimulator) Run(rng *rand.Rand, start float64, sched CashFlowSchedule) (float64, bool) {
	corpus := start
	for y := 0; y < sched.Years(); y++ {
		corpus += at(sched.YearStart, y)
		monthly := sched.Monthly[y]
		for m := 0; m < monthsPerYear; m++ {
			corpus *= 1 + ps.Sampler.Sample(rng)
			corpus += monthly
			if m == monthsPerYear-1 {
				corpus += at(sched.YearEnd, y)
			}
			if corpus <= 0 {
				return 0, false
			}
		}
	}
	if corpus <= 0 {
		return 0, false
	}
	return corpus, true
}

// DecumulationSchedule withdraws the net inflation-adjusted expense every
// month over the plan's retirement years.
func DecumulationSchedule(p domain.PlanParameters) CashFlowSchedule {
	years := p.RetirementYears()
	monthly := make([]float64, years)
	for y := range monthly {
		monthly[y] = -p.NetMonthlyExpense(y)
	}
	return CashFlowSchedule{Monthly: monthly}
}

// AgeSchedule covers current age up to (excluding) targetAge. With upfront
// set, each year's contribution, or the additional income once retired, is
// deposited at the start of the year and the full expense is withdrawn
// monthly; otherwise contributions and net expenses are spread monthly.
func AgeSchedule(p domain.PlanParameters, targetAge int, upfront bool) CashFlowSchedule {
	years := targetAge - p.CurrentAge
	if years < 0 {
		years = 0
	}
	sched := CashFlowSchedule{
		YearStart: make([]float64, years),
		Monthly:   make([]float64, years),
	}
	for y := 0; y < years; y++ {
		age := p.CurrentAge + y
		retired := age >= p.RetirementAge
		switch {
		case !retired && upfront:
			sched.YearStart[y] = p.AnnualContribution
		case !retired:
			sched.Monthly[y] = p.AnnualContribution / monthsPerYear
		case upfront:
			sched.YearStart[y] = p.AdditionalRetirementIncome
			sched.Monthly[y] = -p.AnnualExpense * p.InflationFactor(y) / monthsPerYear
		default:
			sched.Monthly[y] = -p.NetMonthlyExpense(y)
		}
	}
	return sched
}

// YearSchedule is a single year: contribution at the start, withdrawal at the end.
func YearSchedule(contribution, withdrawal float64) CashFlowSchedule {
	return CashFlowSchedule{
		YearStart: []float64{contribution},
		Monthly:   []float64{0},
		YearEnd:   []float64{-withdrawal},
	}
}
