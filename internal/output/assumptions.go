package output

// DefaultAssumptions lists the modeling assumptions rendered in detailed outputs.
var DefaultAssumptions = []string{
	"Monthly returns are lognormal, calibrated to the annual mean and volatility",
	"Contributions are deposited at the start of each year before retirement",
	"Withdrawals are taken monthly and grow with inflation from the first retirement year",
	"A trial fails the month its corpus reaches zero and never recovers",
	"Additional retirement income offsets expenses and is not inflated",
}
