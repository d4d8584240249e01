package domain

import (
	"github.com/shopspring/decimal"
)

// AnnualRecord is the year-end snapshot of one trajectory. Nominal flows are
// summed over the year's months; balances are real (deflated) year-end values.
type AnnualRecord struct {
	Year int `json:"year"`
	Age  int `json:"age"`

	TargetWithdrawalNominal    float64 `json:"target_withdrawal_nominal"`
	DeliveredWithdrawalNominal float64 `json:"delivered_withdrawal_nominal"`
	DeliveredWithdrawalReal    float64 `json:"delivered_withdrawal_real"`
	WithdrawalFromCash         float64 `json:"withdrawal_from_cash"`
	WithdrawalFromEquity       float64 `json:"withdrawal_from_equity"`
	RebalanceSale              float64 `json:"rebalance_sale"`

	// FundLumpSumNominal is the after-tax lump sum credited in the payout year.
	FundLumpSumNominal float64 `json:"fund_lump_sum_nominal"`
	PublicPensionReal  float64 `json:"public_pension_real"`
	AnnuityReal        float64 `json:"annuity_real"`

	CashReal   float64 `json:"cash_real"`
	EquityReal float64 `json:"equity_real"`
	FundReal   float64 `json:"fund_real"`
	PriceIndex float64 `json:"price_index"`

	Contributions float64 `json:"contributions"`
	TaxesPaid     float64 `json:"taxes_paid"`
	FeesPaid      float64 `json:"fees_paid"`

	// MarketRegime is the market regime of the year's last month; empty
	// without an economic model.
	MarketRegime string `json:"market_regime,omitempty"`
}

// InWithdrawalPhase reports whether the year lies in the withdrawal phase.
func (r AnnualRecord) InWithdrawalPhase(retirementAge int) bool { return r.Age >= retirementAge }

// TotalIncomeReal is withdrawal plus pension and annuity income for the year.
func (r AnnualRecord) TotalIncomeReal() float64 {
	return r.DeliveredWithdrawalReal + r.PublicPensionReal + r.AnnuityReal
}

// Ledger accumulates every nominal flow that changes total wealth, so the
// final balance can be reconciled against the starting capital.
type Ledger struct {
	Initial           float64 `json:"initial"`
	Contributions     float64 `json:"contributions"`
	PensionIncome     float64 `json:"pension_income"`
	AnnuityIncome     float64 `json:"annuity_income"`
	InvestmentGains   float64 `json:"investment_gains"`
	Withdrawals       float64 `json:"withdrawals"`
	Taxes             float64 `json:"taxes"`
	Fees              float64 `json:"fees"`
	AnnuitizedCapital float64 `json:"annuitized_capital"`
}

// Expected returns the wealth implied by the recorded flows.
func (l Ledger) Expected() float64 {
	return l.Initial + l.Contributions + l.PensionIncome + l.AnnuityIncome + l.InvestmentGains -
		l.Withdrawals - l.Taxes - l.Fees - l.AnnuitizedCapital
}

// TrajectoryResult is the output of one simulated path.
type TrajectoryResult struct {
	// Nominal and Real hold total wealth for months 0..N.
	Nominal []float64      `json:"nominal"`
	Real    []float64      `json:"real"`
	Years   []AnnualRecord `json:"years"`
	Ledger  Ledger         `json:"ledger"`

	// Accumulation snapshot taken when the withdrawal phase begins.
	RealWealthAtWithdrawal float64 `json:"real_wealth_at_withdrawal"`
	AccumulationGains      float64 `json:"accumulation_gains"`
	ShortfallMonths        int     `json:"shortfall_months"`
	// MaxDrawdown is measured on the monthly real series, so single-month
	// shocks show at full depth.
	MaxDrawdown float64 `json:"max_drawdown"`
}

// FinalNominal returns the last nominal wealth value.
func (t *TrajectoryResult) FinalNominal() float64 {
	if len(t.Nominal) == 0 {
		return 0
	}
	return t.Nominal[len(t.Nominal)-1]
}

// FinalReal returns the last real wealth value.
func (t *TrajectoryResult) FinalReal() float64 {
	if len(t.Real) == 0 {
		return 0
	}
	return t.Real[len(t.Real)-1]
}

// AnnualReal samples the real series at year boundaries (months 0, 12, 24...).
func (t *TrajectoryResult) AnnualReal() []float64 {
	out := make([]float64, 0, len(t.Real)/12+1)
	for i := 0; i < len(t.Real); i += 12 {
		out = append(out, t.Real[i])
	}
	return out
}

// PercentileRanges represents percentile ranges across the ensemble.
type PercentileRanges struct {
	P10 decimal.Decimal `json:"p10"`
	P25 decimal.Decimal `json:"p25"`
	P50 decimal.Decimal `json:"p50"`
	P75 decimal.Decimal `json:"p75"`
	P90 decimal.Decimal `json:"p90"`
}

// IncomeComposition is the median yearly real income by source during the withdrawal phase.
type IncomeComposition struct {
	Withdrawal    decimal.Decimal `json:"withdrawal"`
	PublicPension decimal.Decimal `json:"public_pension"`
	Annuity       decimal.Decimal `json:"annuity"`
}

// Total sums the three income sources.
func (ic IncomeComposition) Total() decimal.Decimal {
	return ic.Withdrawal.Add(ic.PublicPension).Add(ic.Annuity)
}

// AggregateStatistics summarises the full ensemble.
type AggregateStatistics struct {
	NumSimulations     int             `json:"num_simulations"`
	FailureProbability decimal.Decimal `json:"failure_probability"`
	FailureThreshold   float64         `json:"failure_threshold"`

	FinalNominal PercentileRanges `json:"final_nominal"`
	FinalReal    PercentileRanges `json:"final_real"`

	// MedianMaxDrawdown uses each trajectory's annual real series.
	MedianMaxDrawdown        decimal.Decimal `json:"median_max_drawdown"`
	WorstMaxDrawdown         decimal.Decimal `json:"worst_max_drawdown"`
	MedianMonthlyMaxDrawdown decimal.Decimal `json:"median_monthly_max_drawdown"`
	RiskAdjustedReturn       decimal.Decimal `json:"risk_adjusted_return"`
	MeanRollingGrowth        decimal.Decimal `json:"mean_rolling_growth"`
	StdDevRollingGrowth      decimal.Decimal `json:"std_dev_rolling_growth"`

	IncomeComposition IncomeComposition `json:"income_composition"`

	MedianRealWealthAtWithdrawal decimal.Decimal `json:"median_real_wealth_at_withdrawal"`
	MedianContributions          decimal.Decimal `json:"median_contributions"`
	MedianAccumulationGains      decimal.Decimal `json:"median_accumulation_gains"`
	ShortfallProbability         decimal.Decimal `json:"shortfall_probability"`
}

// SuccessRate is the complement of the failure probability.
func (s AggregateStatistics) SuccessRate() decimal.Decimal {
	return decimal.NewFromInt(1).Sub(s.FailureProbability)
}

// SimulationResult is the contract handed to reporting and persistence collaborators.
type SimulationResult struct {
	Parameters SimulationParameters `json:"parameters"`
	Statistics AggregateStatistics  `json:"statistics"`

	// NominalSeries and RealSeries hold every trajectory's monthly wealth.
	NominalSeries [][]float64 `json:"nominal_series"`
	RealSeries    [][]float64 `json:"real_series"`

	MedianIndex      int              `json:"median_index"`
	MedianTrajectory TrajectoryResult `json:"median_trajectory"`

	// SustainableWithdrawal is set when the run solved for the fixed amount.
	SustainableWithdrawal *decimal.Decimal `json:"sustainable_withdrawal,omitempty"`
}
