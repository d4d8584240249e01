package output

import (
	"fmt"

	"github.com/rpgo/wealth-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

// Assessment is a one-line verdict on a simulated plan.
type Assessment struct {
	Label       string          `json:"label"`
	SuccessRate decimal.Decimal `json:"success_rate"`
	Message     string          `json:"message"`
}

var assessmentLevels = []struct {
	min   float64
	label string
	text  string
}{
	{0.95, "robust", "the plan survives almost every simulated market"},
	{0.85, "adequate", "the plan survives most simulated markets"},
	{0.70, "fragile", "a meaningful share of simulated markets exhaust the plan"},
	{0, "at risk", "the plan runs out of money in many simulated markets"},
}

// AssessPlan grades a result by its success rate. Extracted from the report
// formatters for testability.
func AssessPlan(result *domain.SimulationResult) Assessment {
	rate := result.Statistics.SuccessRate()
	r := rate.InexactFloat64()

	a := Assessment{SuccessRate: rate}
	for _, lvl := range assessmentLevels {
		if r >= lvl.min {
			a.Label = lvl.label
			a.Message = lvl.text
			break
		}
	}
	if result.SustainableWithdrawal != nil {
		a.Message += fmt.Sprintf("; sustainable fixed withdrawal %s per year in today's money", FormatCurrency(*result.SustainableWithdrawal))
	} else if r < 0.85 && result.Parameters.Withdrawal.Strategy == domain.WithdrawalFixed {
		a.Message += "; consider a lower withdrawal or solve_sustainable"
	}
	return a
}
