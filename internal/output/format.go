package output

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var million = decimal.NewFromInt(1_000_000)

// FormatCurrency formats a decimal as grouped currency, e.g. $1,234.56.
// Amounts of a million or more are abbreviated: $1.25M.
func FormatCurrency(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}
	if amount.GreaterThanOrEqual(million) {
		return sign + "$" + groupDigits(amount.Div(million).StringFixed(2)) + "M"
	}
	return sign + "$" + groupDigits(amount.StringFixed(2))
}

// FormatMoney formats a float64 amount through FormatCurrency.
func FormatMoney(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "n/a"
	}
	return FormatCurrency(decimal.NewFromFloat(amount))
}

// FormatPercentage formats a percentage with one decimal, e.g. 85.3%.
func FormatPercentage(percent float64) string {
	return decimal.NewFromFloat(percent).StringFixed(1) + "%"
}

// FormatRate formats an annual fraction as a percentage, e.g. 0.07 as 7.0%.
func FormatRate(fraction float64) string {
	return FormatPercentage(fraction * 100)
}

// RiskLevel buckets a success rate (percent) into a risk label.
func RiskLevel(successRate float64) string {
	switch {
	case successRate >= 95:
		return "Very Low"
	case successRate >= 85:
		return "Low"
	case successRate >= 75:
		return "Moderate"
	default:
		return "High"
	}
}

// YearStatus labels a year's depletion risk (percent).
func YearStatus(depletionRisk float64) string {
	switch {
	case depletionRisk > 40:
		return "HIGH"
	case depletionRisk > 10:
		return "CAUTION"
	default:
		return "OK"
	}
}

// groupDigits inserts thousands separators into a fixed-point string.
func groupDigits(fixed string) string {
	intPart, frac, hasFrac := strings.Cut(fixed, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if hasFrac {
		return fmt.Sprintf("%s.%s", b.String(), frac)
	}
	return b.String()
}
