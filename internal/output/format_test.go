package output

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/rgehrsitz/corpusplan/internal/domain"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   decimal.Decimal
		want string
	}{
		{decimal.Zero, "$0.00"},
		{decimal.NewFromFloat(999.5), "$999.50"},
		{decimal.NewFromInt(1234567).Div(decimal.NewFromInt(10)), "$123,456.70"},
		{decimal.NewFromInt(1000000), "$1.00M"},
		{decimal.NewFromInt(1234567890), "$1,234.57M"},
		{decimal.NewFromInt(-2500), "-$2,500.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCurrency(tt.in), tt.in.String())
	}
}

func TestFormatMoneyAndPercent(t *testing.T) {
	assert.Equal(t, "$60,000.00", FormatMoney(60000))
	assert.Equal(t, "n/a", FormatMoney(math.Inf(1)))
	assert.Equal(t, "85.3%", FormatPercentage(85.25))
	assert.Equal(t, "7.0%", FormatRate(0.07))
}

func TestRiskLevel(t *testing.T) {
	assert.Equal(t, "Very Low", RiskLevel(95))
	assert.Equal(t, "Low", RiskLevel(85))
	assert.Equal(t, "Moderate", RiskLevel(75))
	assert.Equal(t, "High", RiskLevel(74.9))
}

func TestYearStatus(t *testing.T) {
	assert.Equal(t, "OK", YearStatus(10))
	assert.Equal(t, "CAUTION", YearStatus(10.1))
	assert.Equal(t, "CAUTION", YearStatus(40))
	assert.Equal(t, "HIGH", YearStatus(40.1))
}

func TestKeyInsights(t *testing.T) {
	report := buildAdvancedReport()
	insights := KeyInsights(report.Params, report.Track)
	assert.Equal(t, []string{
		"At retirement (age 65), your projected corpus is $1.18M with a 95.0% point success rate.",
		"Depletion risk first exceeds 10% at age 66.",
		"RECOMMENDATION: Consider adjusting your plan to improve your long-term success rate.",
	}, insights)

	safe := &domain.CorpusTrack{Snapshots: []domain.YearlySnapshot{{Age: 65, StartCorpus: 100, PointSuccessRate: 99}}}
	insights = KeyInsights(report.Params, safe)
	assert.Contains(t, insights, "Your plan maintains a high success rate throughout your expected lifetime.")
	assert.Contains(t, insights, "Your plan appears sustainable through your expected lifetime.")

	assert.Nil(t, KeyInsights(report.Params, nil))
}
