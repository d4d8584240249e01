package calculation

import (
	"math"
	"testing"

	"github.com/rpgo/wealth-simulator/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func simulate(t *testing.T, p domain.SimulationParameters, index int) domain.TrajectoryResult {
	t.Helper()
	sim, err := NewTrajectorySimulator(p)
	require.NoError(t, err)
	return sim.Simulate(newTrajectoryRNG(p.Seed, index))
}

func TestSimulate_DeterministicGrowth(t *testing.T) {
	res := simulate(t, quietParams(), 0)

	require.Len(t, res.Nominal, 481)
	require.Len(t, res.Real, 481)
	require.Len(t, res.Years, 40)
	assert.Equal(t, 100000.0, res.Nominal[0])
	assert.InEpsilon(t, 100000*math.Pow(1.07, 40), res.FinalNominal(), 1e-9)
	assert.InEpsilon(t, res.FinalNominal(), res.FinalReal(), 1e-12)
	assert.Zero(t, res.MaxDrawdown)
	assert.Equal(t, 41, res.Years[1].Age)
}

func TestSimulate_ForcedCrash(t *testing.T) {
	p := quietParams()
	p.Shocks = []domain.MarketShock{{Year: 10, Month: 6, Multiplier: 0.5}}
	res := simulate(t, p, 0)

	crash := p.Shocks[0].MonthIndex()
	assert.InDelta(t, 0.5, res.Nominal[crash]/res.Nominal[crash-1], 1e-12)
	assert.GreaterOrEqual(t, res.MaxDrawdown, 0.5-1e-12)
	// Year-end sampling dilutes the single-month loss with eleven months of growth.
	assert.Greater(t, MaxDrawdown(res.AnnualReal()), 0.45)
	// The shock replaces that month's growth.
	assert.InEpsilon(t, 0.5*100000*math.Pow(1.07, 40-1.0/12), res.FinalNominal(), 1e-9)
}

func TestSimulate_LedgerWithoutMarketNoise(t *testing.T) {
	p := busyParams()
	p.ExpectedReturn = 0
	p.Volatility = 0
	p.InflationRate = 0
	p.InflationVolatility = 0
	p.Pension.Fund.ExpectedReturn = 0
	p.Pension.Fund.Volatility = 0

	res := simulate(t, p, 0)
	final := res.FinalNominal()
	assert.Zero(t, res.Ledger.InvestmentGains)
	assert.InDelta(t, res.Ledger.Expected(), final, 1e-6*math.Max(1, final))
	assert.Positive(t, res.Ledger.Taxes)
	assert.Positive(t, res.Ledger.Fees)
	assert.Positive(t, res.Ledger.AnnuitizedCapital)
}

func TestSimulate_LedgerWithRandomDraws(t *testing.T) {
	p := busyParams()
	sim, err := NewTrajectorySimulator(p)
	require.NoError(t, err)

	for i := 0; i < 25; i++ {
		res := sim.Simulate(newTrajectoryRNG(p.Seed, i))
		final := res.FinalNominal()
		assert.InDelta(t, res.Ledger.Expected(), final, 1e-6*math.Max(1, math.Abs(final)), "trajectory %d", i)
		for _, y := range res.Years {
			assert.GreaterOrEqual(t, y.CashReal, 0.0)
			assert.GreaterOrEqual(t, y.EquityReal, 0.0)
			assert.Positive(t, y.PriceIndex)
		}
	}
}

func TestSimulate_LedgerUnderRegimeModel(t *testing.T) {
	p := busyParams()
	p.EconomicModel = "stagflation"
	res := simulate(t, p, 3)
	final := res.FinalNominal()
	assert.InDelta(t, res.Ledger.Expected(), final, 1e-6*math.Max(1, math.Abs(final)))
}

func TestSimulate_RecordsMarketRegime(t *testing.T) {
	p := busyParams()
	p.EconomicModel = "stagflation"
	model, ok := domain.LookupModel(p.EconomicModel)
	require.True(t, ok)

	res := simulate(t, p, 3)
	require.Len(t, res.Years, p.YearsTotal)
	for _, y := range res.Years {
		assert.Contains(t, model.Market.Names(), y.MarketRegime, "year %d", y.Year)
	}

	for _, y := range simulate(t, quietParams(), 0).Years {
		assert.Empty(t, y.MarketRegime)
	}
}

// With zero returns and inflation the year-end costs are the only flows, so
// balances after one year follow from the cost order alone.
func TestSimulate_YearEndCosts(t *testing.T) {
	tests := []struct {
		name      string
		cash      float64
		threshold float64
		wantCash  float64
		wantFees  float64
		wantTaxes float64
	}{
		// 1000 expense ratio, 198 securities tax, 25 custody.
		{"cash below threshold", 4990, 5000, 4965, 1025, 198},
		// Account tax is charged before custody takes cash below the threshold.
		{"cash above threshold", 5010, 5000, 4950.80, 1025, 232.20},
		{"custody capped at cash", 10, 5000, 0, 1010, 198},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := quietParams()
			p.YearsTotal = 1
			p.YearsToWithdrawal = 1
			p.ExpectedReturn = 0
			p.InitialCash = tt.cash
			p.Taxes = domain.TaxSettings{
				ExpenseRatio:        0.01,
				AccountTax:          34.20,
				AccountTaxThreshold: tt.threshold,
				SecuritiesTaxRate:   0.002,
				CustodyFee:          25,
			}

			res := simulate(t, p, 0)
			require.Len(t, res.Years, 1)
			y := res.Years[0]
			assert.Equal(t, 1.0, y.PriceIndex)
			assert.InDelta(t, 98802, y.EquityReal, 1e-9)
			assert.InDelta(t, tt.wantCash, y.CashReal, 1e-9)
			assert.InDelta(t, tt.wantFees, res.Ledger.Fees, 1e-9)
			assert.InDelta(t, tt.wantTaxes, res.Ledger.Taxes, 1e-9)
			assert.InDelta(t, tt.wantFees, y.FeesPaid, 1e-9)
			assert.InDelta(t, tt.wantTaxes, y.TaxesPaid, 1e-9)
			assert.Zero(t, y.DeliveredWithdrawalNominal)
		})
	}
}

func TestSimulate_Reproducible(t *testing.T) {
	p := busyParams()
	assert.Equal(t, simulate(t, p, 5), simulate(t, p, 5))
	assert.NotEqual(t, simulate(t, p, 5).Real, simulate(t, p, 6).Real)
}

func TestSimulate_ContributionsStopAtRetirement(t *testing.T) {
	p := quietParams()
	p.StartAge = 30
	p.YearsTotal = 5
	p.YearsToWithdrawal = 2
	p.InitialEquity = 0
	p.ExpectedReturn = 0
	p.MonthlyCashContribution = 100

	res := simulate(t, p, 0)
	assert.Equal(t, 2400.0, res.Ledger.Contributions)
	assert.Equal(t, 1200.0, res.Years[0].Contributions)
	assert.Equal(t, 1200.0, res.Years[1].Contributions)
	assert.Zero(t, res.Years[2].Contributions)
	assert.Equal(t, 2400.0, res.FinalNominal())
	assert.Equal(t, 2400.0, res.RealWealthAtWithdrawal)
}

func TestSimulate_CashFirstWithdrawal(t *testing.T) {
	p := quietParams()
	p.YearsTotal = 2
	p.YearsToWithdrawal = 0
	p.InitialCash = 6000
	p.ExpectedReturn = 0
	p.Withdrawal.AnnualAmount = 12000

	res := simulate(t, p, 0)
	assert.Equal(t, 106000.0, res.RealWealthAtWithdrawal)
	assert.InDelta(t, 6000, res.Years[0].WithdrawalFromCash, 1e-9)
	assert.InDelta(t, 6000, res.Years[0].WithdrawalFromEquity, 1e-9)
	assert.InDelta(t, 12000, res.Years[1].WithdrawalFromEquity, 1e-9)
	assert.InDelta(t, 12000, res.Years[1].TargetWithdrawalNominal, 1e-9)
	assert.InDelta(t, 82000, res.FinalNominal(), 1e-6)
	assert.Zero(t, res.ShortfallMonths)
	assert.Zero(t, res.Ledger.Taxes)
}

func TestSimulate_Shortfall(t *testing.T) {
	p := quietParams()
	p.YearsTotal = 1
	p.YearsToWithdrawal = 0
	p.InitialEquity = 5000
	p.ExpectedReturn = 0
	p.Withdrawal.AnnualAmount = 12000

	res := simulate(t, p, 0)
	assert.Equal(t, 7, res.ShortfallMonths)
	assert.InDelta(t, 5000, res.Years[0].DeliveredWithdrawalNominal, 1e-9)
	assert.InDelta(t, 0, res.FinalNominal(), 1e-9)
}

func TestSimulate_PublicPensionIsIndexed(t *testing.T) {
	p := quietParams()
	p.StartAge = 66
	p.YearsTotal = 3
	p.YearsToWithdrawal = 3
	p.InitialEquity = 0
	p.ExpectedReturn = 0
	p.InflationRate = 0.12
	p.Pension.PublicStartAge = 67
	p.Pension.PublicAnnualAmount = 12000

	res := simulate(t, p, 0)
	assert.Zero(t, res.Years[0].PublicPensionReal)
	assert.InDelta(t, 12000, res.Years[1].PublicPensionReal, 1e-9)
	assert.Greater(t, res.Ledger.PensionIncome, 24000.0)
	assert.InDelta(t, res.Ledger.PensionIncome, res.FinalNominal(), 1e-6)
}

func TestSimulate_FundLiquidation(t *testing.T) {
	p := quietParams()
	p.YearsTotal = 5
	p.YearsToWithdrawal = 5
	p.InitialEquity = 0
	p.ExpectedReturn = 0
	p.Pension.Fund = domain.PensionFundSettings{
		Enabled:            true,
		AnnualContribution: 12000,
		PayoutAge:          41,
		LumpSumFraction:    0.5,
		FinalTaxRate:       0.2,
		LifeExpectancyAge:  95,
	}

	res := simulate(t, p, 0)
	annuity := 12000.0 / 54

	assert.InDelta(t, 12000, res.Years[0].FundReal, 1e-9)
	assert.InDelta(t, 9600, res.Years[1].FundLumpSumNominal, 1e-9)
	assert.InDelta(t, 2400, res.Years[1].TaxesPaid, 1e-9)
	assert.Zero(t, res.Years[1].FundReal)
	assert.Zero(t, res.Years[2].Contributions)
	assert.InDelta(t, annuity, res.Years[2].AnnuityReal, 1e-9)
	assert.InDelta(t, 12000, res.Ledger.AnnuitizedCapital, 1e-9)
	assert.InDelta(t, 9600+3*annuity, res.FinalNominal(), 1e-6)
}

func TestSimulate_GlidepathSellsDown(t *testing.T) {
	p := quietParams()
	p.YearsTotal = 15
	p.ExpectedReturn = 0
	p.Rebalancing = domain.RebalanceSettings{
		Strategy:               domain.RebalanceGlidepath,
		EquityAllocation:       1,
		GlidepathStartAge:      40,
		GlidepathEndAge:        50,
		GlidepathEndAllocation: 0.5,
	}

	res := simulate(t, p, 0)
	assert.Zero(t, res.Years[0].RebalanceSale)
	assert.InDelta(t, 5000, res.Years[1].RebalanceSale, 1e-6)
	assert.InDelta(t, 50000, res.Years[10].EquityReal, 1e-6)
	assert.InDelta(t, 50000, res.Years[14].EquityReal, 1e-6)
	assert.Zero(t, res.Years[14].RebalanceSale)
	assert.InDelta(t, 100000, res.FinalNominal(), 1e-6)
}

func TestSimulate_GuardrailAdjustmentsAreBounded(t *testing.T) {
	p := busyParams()
	sim, err := NewTrajectorySimulator(p)
	require.NoError(t, err)
	retirementAge := p.RetirementAge()

	for i := 0; i < 10; i++ {
		res := sim.Simulate(newTrajectoryRNG(p.Seed, i))
		for y := 1; y < len(res.Years); y++ {
			prev, cur := res.Years[y-1], res.Years[y]
			if !prev.InWithdrawalPhase(retirementAge) || prev.TargetWithdrawalNominal <= 0 {
				continue
			}
			step := cur.TargetWithdrawalNominal / (prev.TargetWithdrawalNominal * (1 + p.InflationRate))
			assert.GreaterOrEqual(t, step, 1-GuardrailStep-1e-6)
			assert.LessOrEqual(t, step, 1+GuardrailStep+1e-6)
		}
	}
}

func TestWithFixedAmountLeavesOriginal(t *testing.T) {
	p := quietParams()
	p.Withdrawal.Strategy = domain.WithdrawalPercent
	sim, err := NewTrajectorySimulator(p)
	require.NoError(t, err)

	fixed := sim.WithFixedAmount(1234)
	assert.Equal(t, domain.WithdrawalPercent, sim.Parameters().Withdrawal.Strategy)
	assert.Equal(t, domain.WithdrawalFixed, fixed.Parameters().Withdrawal.Strategy)
	assert.Equal(t, 1234.0, fixed.Parameters().Withdrawal.AnnualAmount)
}
