package domain

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// WithdrawalKind selects how the annual withdrawal target is derived once
// the household enters the withdrawal phase.
type WithdrawalKind int

const (
	// WithdrawalFixed keeps a constant real annual amount.
	WithdrawalFixed WithdrawalKind = iota
	// WithdrawalPercent takes a fixed share of liquid wealth every year.
	WithdrawalPercent
	// WithdrawalGuardrail inflates the prior withdrawal and nudges it by 10%
	// whenever the implied rate leaves the band around the target percentage.
	WithdrawalGuardrail
)

var withdrawalKindNames = map[WithdrawalKind]string{
	WithdrawalFixed:     "fixed",
	WithdrawalPercent:   "percent",
	WithdrawalGuardrail: "guardrail",
}

func (k WithdrawalKind) String() string {
	if n, ok := withdrawalKindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("withdrawal(%d)", int(k))
}

// ParseWithdrawalKind resolves a configuration name to a WithdrawalKind.
func ParseWithdrawalKind(s string) (WithdrawalKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fixed", "fixed_amount":
		return WithdrawalFixed, nil
	case "percent", "percentage", "percent_of_wealth":
		return WithdrawalPercent, nil
	case "guardrail", "guardrails":
		return WithdrawalGuardrail, nil
	}
	return 0, fmt.Errorf("unknown withdrawal strategy %q", s)
}

// MarshalYAML writes the kind by name.
func (k WithdrawalKind) MarshalYAML() (interface{}, error) { return k.String(), nil }

// UnmarshalYAML parses the kind from its name.
func (k *WithdrawalKind) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseWithdrawalKind(value.Value)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// MarshalText lets encoding/json render the kind by name.
func (k WithdrawalKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText is the inverse of MarshalText.
func (k *WithdrawalKind) UnmarshalText(b []byte) error {
	parsed, err := ParseWithdrawalKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// RebalanceKind selects the year-end rebalancing rule.
type RebalanceKind int

const (
	RebalanceNone RebalanceKind = iota
	RebalanceFixed
	RebalanceGlidepath
)

var rebalanceKindNames = map[RebalanceKind]string{
	RebalanceNone:      "none",
	RebalanceFixed:     "fixed",
	RebalanceGlidepath: "glidepath",
}

func (k RebalanceKind) String() string {
	if n, ok := rebalanceKindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("rebalance(%d)", int(k))
}

// ParseRebalanceKind resolves a configuration name to a RebalanceKind.
func ParseRebalanceKind(s string) (RebalanceKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return RebalanceNone, nil
	case "fixed", "fixed_allocation":
		return RebalanceFixed, nil
	case "glidepath", "glide_path":
		return RebalanceGlidepath, nil
	}
	return 0, fmt.Errorf("unknown rebalancing strategy %q", s)
}

func (k RebalanceKind) MarshalYAML() (interface{}, error) { return k.String(), nil }

func (k *RebalanceKind) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseRebalanceKind(value.Value)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func (k RebalanceKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *RebalanceKind) UnmarshalText(b []byte) error {
	parsed, err := ParseRebalanceKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// WithdrawalSettings configures the withdrawal phase.
type WithdrawalSettings struct {
	Strategy WithdrawalKind `yaml:"strategy" json:"strategy"`
	// AnnualAmount is the real (today's money) yearly withdrawal for the fixed strategy.
	AnnualAmount float64 `yaml:"annual_amount" json:"annual_amount"`
	// Percentage is the share of liquid wealth for the percent and guardrail strategies.
	Percentage    float64 `yaml:"percentage" json:"percentage"`
	GuardrailBand float64 `yaml:"guardrail_band" json:"guardrail_band"`
	// SolveSustainable replaces AnnualAmount with the largest real amount
	// whose median final real wealth stays non-negative (fixed strategy only).
	SolveSustainable bool `yaml:"solve_sustainable,omitempty" json:"solve_sustainable,omitempty"`
}

// RebalanceSettings configures the year-end rebalancing rule.
type RebalanceSettings struct {
	Strategy RebalanceKind `yaml:"strategy" json:"strategy"`
	// EquityAllocation is the target share of liquid wealth held in equity.
	// For the glidepath it is the allocation at the start of the window.
	EquityAllocation       float64 `yaml:"equity_allocation" json:"equity_allocation"`
	GlidepathStartAge      int     `yaml:"glidepath_start_age" json:"glidepath_start_age"`
	GlidepathEndAge        int     `yaml:"glidepath_end_age" json:"glidepath_end_age"`
	GlidepathEndAllocation float64 `yaml:"glidepath_end_allocation" json:"glidepath_end_allocation"`
}

// TaxSettings groups the capital gains rate and the recurring year-end costs.
type TaxSettings struct {
	CapitalGainsRate    float64 `yaml:"capital_gains_rate" json:"capital_gains_rate"`
	ExpenseRatio        float64 `yaml:"expense_ratio" json:"expense_ratio"`
	AccountTax          float64 `yaml:"account_tax" json:"account_tax"`
	AccountTaxThreshold float64 `yaml:"account_tax_threshold" json:"account_tax_threshold"`
	SecuritiesTaxRate   float64 `yaml:"securities_tax_rate" json:"securities_tax_rate"`
	CustodyFee          float64 `yaml:"custody_fee" json:"custody_fee"`
}

// PensionFundSettings describes the private pension fund. Its fields are
// only validated when Enabled is set.
type PensionFundSettings struct {
	Enabled            bool    `yaml:"enabled" json:"enabled"`
	AnnualContribution float64 `yaml:"annual_contribution" json:"annual_contribution"`
	ExpectedReturn     float64 `yaml:"expected_return" json:"expected_return"`
	Volatility         float64 `yaml:"volatility" json:"volatility"`
	ExpenseRatio       float64 `yaml:"expense_ratio" json:"expense_ratio"`
	PayoutAge          int     `yaml:"payout_age" json:"payout_age"`
	LumpSumFraction    float64 `yaml:"lump_sum_fraction" json:"lump_sum_fraction"`
	FinalTaxRate       float64 `yaml:"final_tax_rate" json:"final_tax_rate"`
	// LifeExpectancyAge is the annuitization divisor basis: the residual
	// capital is spread over max(1, LifeExpectancyAge-age) years.
	LifeExpectancyAge int `yaml:"life_expectancy_age" json:"life_expectancy_age"`
}

// PensionSettings covers the public pension and the optional private fund.
type PensionSettings struct {
	PublicStartAge     int                 `yaml:"public_start_age" json:"public_start_age"`
	PublicAnnualAmount float64             `yaml:"public_annual_amount" json:"public_annual_amount"`
	Fund               PensionFundSettings `yaml:"fund" json:"fund"`
}

// MarketShock forces the equity multiplier of one month, e.g. 0.5 for a
// 50% crash. Year is 1-based within the horizon, Month is 1..12.
type MarketShock struct {
	Year       int     `yaml:"year" json:"year"`
	Month      int     `yaml:"month" json:"month"`
	Multiplier float64 `yaml:"multiplier" json:"multiplier"`
}

// MonthIndex returns the 1-based simulation month the shock applies to.
func (s MarketShock) MonthIndex() int { return (s.Year-1)*12 + s.Month }

// SimulationParameters is the immutable input of one simulation run.
type SimulationParameters struct {
	Name              string `yaml:"name,omitempty" json:"name,omitempty"`
	StartAge          int    `yaml:"start_age" json:"start_age"`
	YearsTotal        int    `yaml:"years_total" json:"years_total"`
	YearsToWithdrawal int    `yaml:"years_to_withdrawal" json:"years_to_withdrawal"`

	InitialCash               float64 `yaml:"initial_cash" json:"initial_cash"`
	InitialEquity             float64 `yaml:"initial_equity" json:"initial_equity"`
	MonthlyCashContribution   float64 `yaml:"monthly_cash_contribution" json:"monthly_cash_contribution"`
	MonthlyEquityContribution float64 `yaml:"monthly_equity_contribution" json:"monthly_equity_contribution"`

	ExpectedReturn float64 `yaml:"expected_return" json:"expected_return"`
	Volatility     float64 `yaml:"volatility" json:"volatility"`
	// EconomicModel names a regime model; empty means static expected return
	// and volatility. "custom" selects CustomModel.
	EconomicModel string         `yaml:"economic_model,omitempty" json:"economic_model,omitempty"`
	CustomModel   *EconomicModel `yaml:"custom_model,omitempty" json:"custom_model,omitempty"`

	InflationRate       float64 `yaml:"inflation_rate" json:"inflation_rate"`
	InflationVolatility float64 `yaml:"inflation_volatility" json:"inflation_volatility"`

	Withdrawal  WithdrawalSettings `yaml:"withdrawal" json:"withdrawal"`
	Rebalancing RebalanceSettings  `yaml:"rebalancing" json:"rebalancing"`
	Taxes       TaxSettings        `yaml:"taxes" json:"taxes"`
	Pension     PensionSettings    `yaml:"pension" json:"pension"`
	Shocks      []MarketShock      `yaml:"shocks,omitempty" json:"shocks,omitempty"`

	NumSimulations   int     `yaml:"n_simulations" json:"n_simulations"`
	Seed             uint64  `yaml:"seed,omitempty" json:"seed,omitempty"`
	FailureThreshold float64 `yaml:"failure_threshold" json:"failure_threshold"`
}

// CustomModelName selects SimulationParameters.CustomModel.
const CustomModelName = "custom"

// DefaultFailureThreshold is the real wealth at or below which a trajectory counts as failed.
const DefaultFailureThreshold = 1e-6

// DefaultLifeExpectancyAge is the annuitization divisor basis.
const DefaultLifeExpectancyAge = 95

// Months returns the simulated horizon in months.
func (p SimulationParameters) Months() int { return p.YearsTotal * 12 }

// RetirementAge is the age at which contributions stop and withdrawals begin.
func (p SimulationParameters) RetirementAge() int { return p.StartAge + p.YearsToWithdrawal }

// WithdrawalStartMonth is the first 1-based month of the withdrawal phase.
func (p SimulationParameters) WithdrawalStartMonth() int { return p.YearsToWithdrawal*12 + 1 }

// UsesRegimeModel reports whether returns come from a regime chain.
func (p SimulationParameters) UsesRegimeModel() bool { return strings.TrimSpace(p.EconomicModel) != "" }

// ResolveModel returns the economic model selected by the parameters.
func (p SimulationParameters) ResolveModel() (*EconomicModel, error) {
	if !p.UsesRegimeModel() {
		return nil, nil
	}
	if strings.EqualFold(strings.TrimSpace(p.EconomicModel), CustomModelName) {
		if p.CustomModel == nil {
			return nil, fmt.Errorf("economic model %q requires custom_model", CustomModelName)
		}
		return p.CustomModel, nil
	}
	m, ok := LookupModel(p.EconomicModel)
	if !ok {
		return nil, fmt.Errorf("unknown economic model %q", p.EconomicModel)
	}
	return m, nil
}

// DefaultParameters returns a balanced starting profile that passes validation.
func DefaultParameters() SimulationParameters {
	return SimulationParameters{
		Name:                      "default",
		StartAge:                  27,
		YearsTotal:                60,
		YearsToWithdrawal:         35,
		InitialCash:               17000,
		InitialEquity:             600,
		MonthlyCashContribution:   1300,
		MonthlyEquityContribution: 300,
		ExpectedReturn:            0.07,
		Volatility:                0.15,
		InflationRate:             0.025,
		InflationVolatility:       0.01,
		Withdrawal: WithdrawalSettings{
			Strategy:      WithdrawalFixed,
			AnnualAmount:  25000,
			Percentage:    0.04,
			GuardrailBand: 0.10,
		},
		Rebalancing: RebalanceSettings{
			Strategy:               RebalanceNone,
			EquityAllocation:       0.80,
			GlidepathStartAge:      47,
			GlidepathEndAge:        67,
			GlidepathEndAllocation: 0.40,
		},
		Taxes: TaxSettings{
			CapitalGainsRate:    0.26,
			ExpenseRatio:        0.0022,
			AccountTax:          34.20,
			AccountTaxThreshold: 5000,
			SecuritiesTaxRate:   0.002,
			CustodyFee:          0,
		},
		Pension: PensionSettings{
			PublicStartAge:     67,
			PublicAnnualAmount: 8400,
			Fund: PensionFundSettings{
				Enabled:            false,
				AnnualContribution: 3000,
				ExpectedReturn:     0.04,
				Volatility:         0.08,
				ExpenseRatio:       0.01,
				PayoutAge:          67,
				LumpSumFraction:    0.5,
				FinalTaxRate:       0.15,
				LifeExpectancyAge:  DefaultLifeExpectancyAge,
			},
		},
		NumSimulations:   1000,
		FailureThreshold: DefaultFailureThreshold,
	}
}
