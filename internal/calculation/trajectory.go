package calculation

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/rpgo/wealth-simulator/internal/domain"
)

// shortfallTolerance absorbs rounding when comparing delivered and target withdrawals.
const shortfallTolerance = 1e-9

// TrajectorySimulator advances one household balance sheet month by month.
// It is immutable after construction and safe for concurrent use; all
// mutable state lives in the per-call PortfolioState.
type TrajectorySimulator struct {
	params     domain.SimulationParameters
	withdrawal WithdrawalStrategy
	rebalance  RebalanceStrategy
	economy    *EconomicTables
	shocks     map[int]float64
}

// NewTrajectorySimulator prepares strategies, regime tables and shocks for
// validated parameters.
func NewTrajectorySimulator(p domain.SimulationParameters) (*TrajectorySimulator, error) {
	w, err := NewWithdrawalStrategy(p.Withdrawal, p.InflationRate)
	if err != nil {
		return nil, err
	}
	r, err := NewRebalanceStrategy(p.Rebalancing)
	if err != nil {
		return nil, err
	}

	ts := &TrajectorySimulator{params: p, withdrawal: w, rebalance: r}

	model, err := p.ResolveModel()
	if err != nil {
		return nil, err
	}
	if model != nil {
		if ts.economy, err = CompileModel(model); err != nil {
			return nil, fmt.Errorf("economic model %s: %w", model.Name, err)
		}
	}

	if len(p.Shocks) > 0 {
		ts.shocks = make(map[int]float64, len(p.Shocks))
		for _, s := range p.Shocks {
			ts.shocks[s.MonthIndex()] = s.Multiplier
		}
	}
	return ts, nil
}

// Parameters returns the parameters the simulator was built with.
func (ts *TrajectorySimulator) Parameters() domain.SimulationParameters { return ts.params }

// WithFixedAmount returns a copy that withdraws a fixed real annual amount.
func (ts *TrajectorySimulator) WithFixedAmount(realAmount float64) *TrajectorySimulator {
	cp := *ts
	cp.params.Withdrawal.Strategy = domain.WithdrawalFixed
	cp.params.Withdrawal.AnnualAmount = realAmount
	cp.withdrawal = &FixedWithdrawal{RealAmount: realAmount}
	return &cp
}

func (ts *TrajectorySimulator) newMarket(rng *rand.Rand) MarketGenerator {
	if ts.economy != nil {
		return &regimeMarket{rng: rng, market: ts.economy.Market.Start(), inflation: ts.economy.Inflation.Start()}
	}
	return &staticMarket{
		rng:                 rng,
		expectedReturn:      ts.params.ExpectedReturn,
		volatility:          ts.params.Volatility,
		inflationRate:       ts.params.InflationRate,
		inflationVolatility: ts.params.InflationVolatility,
	}
}

// Simulate runs one trajectory with the given random source.
func (ts *TrajectorySimulator) Simulate(rng *rand.Rand) domain.TrajectoryResult {
	p := &ts.params
	fund := &p.Pension.Fund
	months := p.Months()
	retirementAge := p.RetirementAge()
	withdrawalStart := p.WithdrawalStartMonth()
	market := ts.newMarket(rng)

	st := PortfolioState{
		Cash:       p.InitialCash,
		Equity:     p.InitialEquity,
		CostBasis:  p.InitialEquity,
		PriceIndex: 1,
	}

	res := domain.TrajectoryResult{
		Nominal: make([]float64, months+1),
		Real:    make([]float64, months+1),
		Years:   make([]domain.AnnualRecord, 0, p.YearsTotal),
	}
	ledger := &res.Ledger
	ledger.Initial = st.Total()
	res.Nominal[0] = st.Total()
	res.Real[0] = st.Total()
	if withdrawalStart == 1 {
		res.RealWealthAtWithdrawal = res.Real[0]
	}

	var rec domain.AnnualRecord
	for m := 1; m <= months; m++ {
		yearIdx := (m - 1) / monthsPerYear
		age := p.StartAge + yearIdx
		if (m-1)%monthsPerYear == 0 {
			rec = domain.AnnualRecord{Year: yearIdx + 1, Age: age}
		}

		// Contributions land before the month's return.
		if age < retirementAge {
			st.Cash += p.MonthlyCashContribution
			st.Equity += p.MonthlyEquityContribution
			st.CostBasis += p.MonthlyEquityContribution
			c := p.MonthlyCashContribution + p.MonthlyEquityContribution
			ledger.Contributions += c
			rec.Contributions += c
		}

		if fund.Enabled && !st.Annuitized {
			c := fund.AnnualContribution / monthsPerYear
			st.Fund += c
			ledger.Contributions += c
			rec.Contributions += c
		}

		// Passive income is defined in real terms.
		if p.Pension.PublicAnnualAmount > 0 && age >= p.Pension.PublicStartAge {
			realMonthly := p.Pension.PublicAnnualAmount / monthsPerYear
			nominal := realMonthly * st.PriceIndex
			st.Cash += nominal
			ledger.PensionIncome += nominal
			rec.PublicPensionReal += realMonthly
		}
		if st.Annuitized && st.AnnuityReal > 0 {
			realMonthly := st.AnnuityReal / monthsPerYear
			nominal := realMonthly * st.PriceIndex
			st.Cash += nominal
			ledger.AnnuityIncome += nominal
			rec.AnnuityReal += realMonthly
		}

		if m >= withdrawalStart {
			if (m-withdrawalStart)%monthsPerYear == 0 {
				st.WithdrawalTarget = ts.withdrawal.AnnualTarget(WithdrawalContext{
					FirstYear:      m == withdrawalStart,
					LiquidWealth:   st.Liquid(),
					PriceIndex:     st.PriceIndex,
					PreviousTarget: st.WithdrawalTarget,
				})
			}
			ts.withdraw(&st, &rec, &res)
		}

		draw := market.Next()
		multiplier := draw.EquityMultiplier
		if forced, ok := ts.shocks[m]; ok {
			multiplier = forced
		}
		gain := st.Equity * (multiplier - 1)
		st.Equity += gain
		ledger.InvestmentGains += gain

		if fund.Enabled && !st.Annuitized {
			fundGain := st.Fund * (logNormalMultiplier(rng, fund.ExpectedReturn, fund.Volatility) - 1)
			st.Fund += fundGain
			ledger.InvestmentGains += fundGain
		}

		st.PriceIndex = math.Max(st.PriceIndex*(1+draw.Inflation), minPriceIndex)

		if m%monthsPerYear == 0 {
			rec.MarketRegime = draw.Regime
			ts.yearEnd(&st, &rec, ledger, age)
		}

		total := st.Total()
		res.Nominal[m] = total
		res.Real[m] = total / st.PriceIndex

		if m == withdrawalStart-1 {
			res.RealWealthAtWithdrawal = res.Real[m]
			res.AccumulationGains = ledger.InvestmentGains
		}

		if m%monthsPerYear == 0 {
			rec.CashReal = st.Cash / st.PriceIndex
			rec.EquityReal = st.Equity / st.PriceIndex
			rec.FundReal = st.Fund / st.PriceIndex
			rec.PriceIndex = st.PriceIndex
			res.Years = append(res.Years, rec)
		}
	}

	res.MaxDrawdown = MaxDrawdown(res.Real)
	return res
}

// withdraw executes one month of the withdrawal phase: cash first, then an
// equity sale grossed up for capital gains tax.
func (ts *TrajectorySimulator) withdraw(st *PortfolioState, rec *domain.AnnualRecord, res *domain.TrajectoryResult) {
	monthly := st.WithdrawalTarget / monthsPerYear
	if monthly <= 0 {
		return
	}

	fromCash := math.Min(monthly, math.Max(st.Cash, 0))
	st.Cash -= fromCash

	var sale Sale
	if shortfall := monthly - fromCash; shortfall > 0 {
		sale = st.SellForNet(shortfall, ts.params.Taxes.CapitalGainsRate)
	}
	delivered := fromCash + sale.Net

	res.Ledger.Withdrawals += delivered
	res.Ledger.Taxes += sale.Tax
	rec.TaxesPaid += sale.Tax
	rec.TargetWithdrawalNominal += monthly
	rec.DeliveredWithdrawalNominal += delivered
	rec.DeliveredWithdrawalReal += delivered / st.PriceIndex
	rec.WithdrawalFromCash += fromCash
	rec.WithdrawalFromEquity += sale.Net

	if delivered < monthly-shortfallTolerance {
		res.ShortfallMonths++
	}
}

// yearEnd applies, in order: running costs and taxes, pension fund
// liquidation, and rebalancing.
func (ts *TrajectorySimulator) yearEnd(st *PortfolioState, rec *domain.AnnualRecord, ledger *domain.Ledger, age int) {
	taxes := &ts.params.Taxes
	fund := &ts.params.Pension.Fund

	expense := st.Equity * taxes.ExpenseRatio
	st.Equity -= expense
	ledger.Fees += expense
	rec.FeesPaid += expense

	if st.Cash > taxes.AccountTaxThreshold && taxes.AccountTax > 0 {
		t := math.Min(taxes.AccountTax, st.Cash)
		st.Cash -= t
		ledger.Taxes += t
		rec.TaxesPaid += t
	}

	securities := st.Equity * taxes.SecuritiesTaxRate
	st.Equity -= securities
	ledger.Taxes += securities
	rec.TaxesPaid += securities

	if taxes.CustodyFee > 0 {
		fee := math.Min(taxes.CustodyFee, math.Max(st.Cash, 0))
		st.Cash -= fee
		ledger.Fees += fee
		rec.FeesPaid += fee
	}

	if fund.Enabled && !st.Annuitized {
		fundExpense := st.Fund * fund.ExpenseRatio
		st.Fund -= fundExpense
		ledger.Fees += fundExpense
		rec.FeesPaid += fundExpense

		if age >= fund.PayoutAge {
			ts.liquidateFund(st, rec, ledger, age)
		}
	}

	if target, ok := ts.rebalance.TargetAllocation(age); ok {
		excess := st.Equity - st.Liquid()*target
		if excess > 0 {
			sale := st.SellGross(excess, taxes.CapitalGainsRate)
			st.Cash += sale.Net
			ledger.Taxes += sale.Tax
			rec.TaxesPaid += sale.Tax
			rec.RebalanceSale += sale.Net
		}
	}
}

// liquidateFund pays the taxed lump sum into cash and converts the rest into
// a real annuity spread over the remaining life expectancy.
func (ts *TrajectorySimulator) liquidateFund(st *PortfolioState, rec *domain.AnnualRecord, ledger *domain.Ledger, age int) {
	fund := &ts.params.Pension.Fund

	lump := st.Fund * fund.LumpSumFraction
	tax := lump * fund.FinalTaxRate
	st.Cash += lump - tax
	ledger.Taxes += tax
	rec.TaxesPaid += tax
	rec.FundLumpSumNominal += lump - tax

	residual := st.Fund - lump
	years := math.Max(1, float64(fund.LifeExpectancyAge-age))
	st.AnnuityReal = residual / years / st.PriceIndex
	ledger.AnnuitizedCapital += residual

	st.Fund = 0
	st.Annuitized = true
}
