package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/rpgo/wealth-simulator/internal/domain"
)

// transitionTolerance is how far a transition row may drift from 1.
const transitionTolerance = 1e-6

// ValidationError names the first parameter that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func checkRate(field string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return invalid(field, "must be between 0 and 1, got %g", v)
	}
	return nil
}

func checkNonNegative(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return invalid(field, "cannot be negative, got %g", v)
	}
	return nil
}

// ValidateParameters checks every field of p against its declared range and
// returns a *ValidationError for the first offending field.
func ValidateParameters(p *domain.SimulationParameters) error {
	if p == nil {
		return invalid("parameters", "are required")
	}
	if p.StartAge < 0 || p.StartAge > 120 {
		return invalid("start_age", "must be between 0 and 120, got %d", p.StartAge)
	}
	if p.YearsTotal < 1 {
		return invalid("years_total", "must be at least 1, got %d", p.YearsTotal)
	}
	if p.YearsToWithdrawal < 0 || p.YearsToWithdrawal > p.YearsTotal {
		return invalid("years_to_withdrawal", "must be between 0 and years_total (%d), got %d", p.YearsTotal, p.YearsToWithdrawal)
	}

	money := []struct {
		field string
		value float64
	}{
		{"initial_cash", p.InitialCash},
		{"initial_equity", p.InitialEquity},
		{"monthly_cash_contribution", p.MonthlyCashContribution},
		{"monthly_equity_contribution", p.MonthlyEquityContribution},
	}
	for _, m := range money {
		if err := checkNonNegative(m.field, m.value); err != nil {
			return err
		}
	}

	rates := []struct {
		field string
		value float64
	}{
		{"expected_return", p.ExpectedReturn},
		{"volatility", p.Volatility},
		{"inflation_rate", p.InflationRate},
		{"inflation_volatility", p.InflationVolatility},
	}
	for _, r := range rates {
		if err := checkRate(r.field, r.value); err != nil {
			return err
		}
	}

	if err := validateEconomicModel(p); err != nil {
		return err
	}
	if err := validateWithdrawal(&p.Withdrawal); err != nil {
		return err
	}
	if err := validateRebalancing(&p.Rebalancing); err != nil {
		return err
	}
	if err := validateTaxes(&p.Taxes); err != nil {
		return err
	}
	if err := validatePension(p); err != nil {
		return err
	}

	for i, s := range p.Shocks {
		field := fmt.Sprintf("shocks[%d]", i)
		if s.Year < 1 || s.Year > p.YearsTotal {
			return invalid(field+".year", "must be between 1 and %d, got %d", p.YearsTotal, s.Year)
		}
		if s.Month < 1 || s.Month > 12 {
			return invalid(field+".month", "must be between 1 and 12, got %d", s.Month)
		}
		if !(s.Multiplier > 0) || math.IsInf(s.Multiplier, 0) {
			return invalid(field+".multiplier", "must be positive, got %g", s.Multiplier)
		}
	}

	if p.NumSimulations < 1 {
		return invalid("n_simulations", "must be at least 1, got %d", p.NumSimulations)
	}
	if err := checkNonNegative("failure_threshold", p.FailureThreshold); err != nil {
		return err
	}
	return nil
}

func validateEconomicModel(p *domain.SimulationParameters) error {
	if !p.UsesRegimeModel() {
		return nil
	}
	model, err := p.ResolveModel()
	if err != nil {
		return invalid("economic_model", "%v", err)
	}
	prefix := "economic_model"
	if strings.EqualFold(strings.TrimSpace(p.EconomicModel), domain.CustomModelName) {
		prefix = "custom_model"
	}
	if err := ValidateRegimeSet(prefix+".market", model.Market); err != nil {
		return err
	}
	return ValidateRegimeSet(prefix+".inflation", model.Inflation)
}

// ValidateRegimeSet checks that the chain is closed and every row is a
// probability distribution.
func ValidateRegimeSet(field string, set domain.RegimeSet) error {
	if len(set.Regimes) == 0 {
		return invalid(field+".regimes", "at least one regime is required")
	}
	if _, ok := set.Regimes[set.Initial]; !ok {
		return invalid(field+".initial", "unknown regime %q", set.Initial)
	}
	for _, name := range set.Names() {
		r := set.Regimes[name]
		rf := field + ".regimes." + name
		if math.IsNaN(r.Mean) || r.Mean <= -1 {
			return invalid(rf+".mean", "must be greater than -1, got %g", r.Mean)
		}
		if err := checkNonNegative(rf+".volatility", r.Volatility); err != nil {
			return err
		}
		if len(r.Transitions) == 0 {
			continue
		}
		sum := 0.0
		for target, prob := range r.Transitions {
			if _, ok := set.Regimes[target]; !ok {
				return invalid(rf+".transitions", "unknown target regime %q", target)
			}
			if err := checkRate(rf+".transitions."+target, prob); err != nil {
				return err
			}
			sum += prob
		}
		if math.Abs(sum-1) > transitionTolerance {
			return invalid(rf+".transitions", "probabilities must sum to 1, got %g", sum)
		}
	}
	return nil
}

func validateWithdrawal(w *domain.WithdrawalSettings) error {
	switch w.Strategy {
	case domain.WithdrawalFixed, domain.WithdrawalPercent, domain.WithdrawalGuardrail:
	default:
		return invalid("withdrawal.strategy", "unknown strategy %v", w.Strategy)
	}
	if err := checkNonNegative("withdrawal.annual_amount", w.AnnualAmount); err != nil {
		return err
	}
	if err := checkRate("withdrawal.percentage", w.Percentage); err != nil {
		return err
	}
	if err := checkRate("withdrawal.guardrail_band", w.GuardrailBand); err != nil {
		return err
	}
	if w.SolveSustainable && w.Strategy != domain.WithdrawalFixed {
		return invalid("withdrawal.solve_sustainable", "requires the fixed strategy, got %v", w.Strategy)
	}
	return nil
}

func validateRebalancing(r *domain.RebalanceSettings) error {
	switch r.Strategy {
	case domain.RebalanceNone, domain.RebalanceFixed, domain.RebalanceGlidepath:
	default:
		return invalid("rebalancing.strategy", "unknown strategy %v", r.Strategy)
	}
	if err := checkRate("rebalancing.equity_allocation", r.EquityAllocation); err != nil {
		return err
	}
	if err := checkRate("rebalancing.glidepath_end_allocation", r.GlidepathEndAllocation); err != nil {
		return err
	}
	if r.Strategy == domain.RebalanceGlidepath {
		if r.GlidepathStartAge < 0 {
			return invalid("rebalancing.glidepath_start_age", "cannot be negative, got %d", r.GlidepathStartAge)
		}
		if r.GlidepathEndAge <= r.GlidepathStartAge {
			return invalid("rebalancing.glidepath_end_age", "must be after glidepath_start_age (%d), got %d", r.GlidepathStartAge, r.GlidepathEndAge)
		}
	}
	return nil
}

func validateTaxes(t *domain.TaxSettings) error {
	for _, r := range []struct {
		field string
		value float64
	}{
		{"taxes.capital_gains_rate", t.CapitalGainsRate},
		{"taxes.expense_ratio", t.ExpenseRatio},
		{"taxes.securities_tax_rate", t.SecuritiesTaxRate},
	} {
		if err := checkRate(r.field, r.value); err != nil {
			return err
		}
	}
	for _, m := range []struct {
		field string
		value float64
	}{
		{"taxes.account_tax", t.AccountTax},
		{"taxes.account_tax_threshold", t.AccountTaxThreshold},
		{"taxes.custody_fee", t.CustodyFee},
	} {
		if err := checkNonNegative(m.field, m.value); err != nil {
			return err
		}
	}
	return nil
}

func validatePension(p *domain.SimulationParameters) error {
	pen := &p.Pension
	if pen.PublicStartAge < 0 {
		return invalid("pension.public_start_age", "cannot be negative, got %d", pen.PublicStartAge)
	}
	if err := checkNonNegative("pension.public_annual_amount", pen.PublicAnnualAmount); err != nil {
		return err
	}

	f := &pen.Fund
	if !f.Enabled {
		return nil
	}
	if err := checkNonNegative("pension.fund.annual_contribution", f.AnnualContribution); err != nil {
		return err
	}
	for _, r := range []struct {
		field string
		value float64
	}{
		{"pension.fund.expected_return", f.ExpectedReturn},
		{"pension.fund.volatility", f.Volatility},
		{"pension.fund.expense_ratio", f.ExpenseRatio},
		{"pension.fund.lump_sum_fraction", f.LumpSumFraction},
		{"pension.fund.final_tax_rate", f.FinalTaxRate},
	} {
		if err := checkRate(r.field, r.value); err != nil {
			return err
		}
	}
	if f.PayoutAge < p.StartAge {
		return invalid("pension.fund.payout_age", "must be at least start_age (%d), got %d", p.StartAge, f.PayoutAge)
	}
	if f.LifeExpectancyAge <= 0 {
		return invalid("pension.fund.life_expectancy_age", "must be positive, got %d", f.LifeExpectancyAge)
	}
	return nil
}
