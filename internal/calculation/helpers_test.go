package calculation

import (
	"github.com/rpgo/wealth-simulator/internal/domain"
)

// quietParams is a frictionless plan: no taxes, fees, pensions or market
// noise. Tests switch on only what they exercise.
func quietParams() domain.SimulationParameters {
	return domain.SimulationParameters{
		Name:              "test",
		StartAge:          40,
		YearsTotal:        40,
		YearsToWithdrawal: 40,
		InitialEquity:     100000,
		ExpectedReturn:    0.07,
		Withdrawal: domain.WithdrawalSettings{
			Strategy:      domain.WithdrawalFixed,
			Percentage:    0.04,
			GuardrailBand: 0.10,
		},
		Rebalancing: domain.RebalanceSettings{
			Strategy:         domain.RebalanceNone,
			EquityAllocation: 1,
		},
		Pension: domain.PensionSettings{
			Fund: domain.PensionFundSettings{LifeExpectancyAge: domain.DefaultLifeExpectancyAge},
		},
		NumSimulations:   8,
		Seed:             42,
		FailureThreshold: domain.DefaultFailureThreshold,
	}
}

// busyParams switches on every flow of the engine.
func busyParams() domain.SimulationParameters {
	p := quietParams()
	p.StartAge = 30
	p.YearsTotal = 50
	p.YearsToWithdrawal = 25
	p.InitialCash = 20000
	p.MonthlyCashContribution = 500
	p.MonthlyEquityContribution = 800
	p.Volatility = 0.18
	p.InflationRate = 0.025
	p.InflationVolatility = 0.01
	p.Withdrawal.Strategy = domain.WithdrawalGuardrail
	p.Rebalancing = domain.RebalanceSettings{
		Strategy:               domain.RebalanceGlidepath,
		EquityAllocation:       0.9,
		GlidepathStartAge:      45,
		GlidepathEndAge:        65,
		GlidepathEndAllocation: 0.4,
	}
	p.Taxes = domain.TaxSettings{
		CapitalGainsRate:    0.26,
		ExpenseRatio:        0.0022,
		AccountTax:          34.20,
		AccountTaxThreshold: 5000,
		SecuritiesTaxRate:   0.002,
		CustodyFee:          25,
	}
	p.Pension = domain.PensionSettings{
		PublicStartAge:     67,
		PublicAnnualAmount: 9000,
		Fund: domain.PensionFundSettings{
			Enabled:            true,
			AnnualContribution: 3000,
			ExpectedReturn:     0.04,
			Volatility:         0.08,
			ExpenseRatio:       0.01,
			PayoutAge:          67,
			LumpSumFraction:    0.5,
			FinalTaxRate:       0.15,
			LifeExpectancyAge:  95,
		},
	}
	return p
}
