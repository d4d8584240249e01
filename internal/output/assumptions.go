package output

import (
	"fmt"

	"github.com/rpgo/wealth-simulator/internal/domain"
)

// GenerateAssumptions lists the modelling assumptions behind a run, in the
// order they are rendered by the detailed formatters.
func GenerateAssumptions(p domain.SimulationParameters) []string {
	var out []string

	if model, err := p.ResolveModel(); err == nil && model != nil {
		out = append(out, fmt.Sprintf("Economic model: %s (%s)", model.Name, model.Description))
	} else {
		out = append(out, fmt.Sprintf("Equity returns: %s expected, %s volatility (log-normal, monthly)",
			formatRate(p.ExpectedReturn), formatRate(p.Volatility)))
		out = append(out, fmt.Sprintf("Inflation: %s expected, %s volatility",
			formatRate(p.InflationRate), formatRate(p.InflationVolatility)))
	}

	out = append(out, fmt.Sprintf("Horizon: age %d to %d, withdrawals from age %d",
		p.StartAge, p.StartAge+p.YearsTotal, p.RetirementAge()))

	w := p.Withdrawal
	switch w.Strategy {
	case domain.WithdrawalFixed:
		out = append(out, fmt.Sprintf("Withdrawal: fixed %s per year in today's money", FormatWhole(w.AnnualAmount)))
	case domain.WithdrawalPercent:
		out = append(out, fmt.Sprintf("Withdrawal: %s of liquid wealth each year", formatRate(w.Percentage)))
	case domain.WithdrawalGuardrail:
		out = append(out, fmt.Sprintf("Withdrawal: guardrail starting at %s, band ±%s",
			formatRate(w.Percentage), formatRate(w.GuardrailBand)))
	}

	switch r := p.Rebalancing; r.Strategy {
	case domain.RebalanceFixed:
		out = append(out, fmt.Sprintf("Rebalancing: equity capped at %s", formatRate(r.EquityAllocation)))
	case domain.RebalanceGlidepath:
		out = append(out, fmt.Sprintf("Rebalancing: glidepath %s at %d to %s at %d",
			formatRate(r.EquityAllocation), r.GlidepathStartAge, formatRate(r.GlidepathEndAllocation), r.GlidepathEndAge))
	}

	t := p.Taxes
	out = append(out, fmt.Sprintf("Taxes: %s on realised gains, %s securities tax, %s expense ratio",
		formatRate(t.CapitalGainsRate), formatRate(t.SecuritiesTaxRate), formatRate(t.ExpenseRatio)))

	if p.Pension.PublicAnnualAmount > 0 {
		out = append(out, fmt.Sprintf("Public pension: %s per year from age %d",
			FormatWhole(p.Pension.PublicAnnualAmount), p.Pension.PublicStartAge))
	}
	if f := p.Pension.Fund; f.Enabled {
		out = append(out, fmt.Sprintf("Pension fund: %s per year, paid out at %d (%s lump sum, rest annuitised to %d)",
			FormatWhole(f.AnnualContribution), f.PayoutAge, formatRate(f.LumpSumFraction), f.LifeExpectancyAge))
	}
	for _, s := range p.Shocks {
		out = append(out, fmt.Sprintf("Market shock: x%.2f in year %d month %d", s.Multiplier, s.Year, s.Month))
	}
	return out
}
