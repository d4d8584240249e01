package output

import (
	"github.com/rpgo/wealth-simulator/internal/calculation"
	"github.com/rpgo/wealth-simulator/internal/domain"
)

func flatSeries(months int, v float64) []float64 {
	s := make([]float64, months+1)
	for i := range s {
		s[i] = v
	}
	return s
}

// buildTestResult returns three flat trajectories ending at 0, 50k and 100k.
func buildTestResult() *domain.SimulationResult {
	p := domain.DefaultParameters()
	p.Name = "Fixture"
	p.StartAge = 60
	p.YearsTotal = 2
	p.YearsToWithdrawal = 1
	p.Seed = 7
	p.Withdrawal.Strategy = domain.WithdrawalFixed
	p.Withdrawal.AnnualAmount = 10000

	months := p.Months()
	var ts []domain.TrajectoryResult
	for _, v := range []float64{0, 50000, 100000} {
		ts = append(ts, domain.TrajectoryResult{
			Nominal: flatSeries(months, v*1.05),
			Real:    flatSeries(months, v),
			Years: []domain.AnnualRecord{
				{Year: 1, Age: 60, EquityReal: v, PriceIndex: 1.02},
				{Year: 2, Age: 61, EquityReal: v, DeliveredWithdrawalReal: 10000, PublicPensionReal: 8400, PriceIndex: 1.05},
			},
		})
	}

	res := &domain.SimulationResult{
		Parameters:  p,
		Statistics:  calculation.CalculateStatistics(p, ts),
		MedianIndex: 1,
	}
	for _, t := range ts {
		res.NominalSeries = append(res.NominalSeries, t.Nominal)
		res.RealSeries = append(res.RealSeries, t.Real)
	}
	res.MedianTrajectory = ts[1]
	return res
}
