package calculation

import (
	"math"
	"sort"

	"github.com/rpgo/wealth-simulator/internal/domain"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// rollingWindow is the trailing window, in months, of the growth rates
// behind the risk-adjusted return.
const rollingWindow = 12

// Quantile returns the linearly interpolated p-quantile of sorted values,
// with the k-th of n values sitting at p = k/(n-1). gonum's LinInterp puts
// it at (k+1)/n, so p is remapped before delegating.
func Quantile(p float64, sorted []float64) float64 {
	n := float64(len(sorted))
	if n == 0 {
		return 0
	}
	return stat.Quantile(((n-1)*p+1)/n, stat.LinInterp, sorted, nil)
}

// calculatePercentile returns the interpolated p-quantile of values.
func calculatePercentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return Quantile(p, sorted)
}

// calculateMedian averages the two middle values for an even count. The
// representative trajectory is picked by medianIndex instead.
func calculateMedian(values []float64) float64 {
	return calculatePercentile(values, 0.5)
}

func calculatePercentileRanges(values []float64) domain.PercentileRanges {
	if len(values) == 0 {
		return domain.PercentileRanges{}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	q := func(p float64) decimal.Decimal {
		return decimal.NewFromFloat(Quantile(p, sorted))
	}
	return domain.PercentileRanges{P10: q(0.10), P25: q(0.25), P50: q(0.50), P75: q(0.75), P90: q(0.90)}
}

// MaxDrawdown is the largest peak-to-trough decline of a series, as a
// fraction of the running peak.
func MaxDrawdown(series []float64) float64 {
	peak := math.Inf(-1)
	worst := 0.0
	for _, v := range series {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			if dd := (peak - v) / peak; dd > worst {
				worst = dd
			}
		}
	}
	return worst
}

// appendRollingGrowth appends every trailing-window growth rate of series.
func appendRollingGrowth(dst, series []float64, window int) []float64 {
	for t := window; t < len(series); t++ {
		if base := series[t-window]; base > 0 {
			dst = append(dst, series[t]/base-1)
		}
	}
	return dst
}

// riskAdjusted returns mean/std of a pooled sample, or zero when the sample
// is too small or has no variance.
func riskAdjusted(sample []float64) (ratio, mean, std float64) {
	if len(sample) < 2 {
		return 0, 0, 0
	}
	mean, std = stat.MeanStdDev(sample, nil)
	if std == 0 || math.IsNaN(std) {
		return 0, mean, 0
	}
	return mean / std, mean, std
}

// incomeAverages averages real income by source over the withdrawal years.
func incomeAverages(years []domain.AnnualRecord, retirementAge int) (withdrawal, pension, annuity float64, ok bool) {
	n := 0
	for _, r := range years {
		if !r.InWithdrawalPhase(retirementAge) {
			continue
		}
		withdrawal += r.DeliveredWithdrawalReal
		pension += r.PublicPensionReal
		annuity += r.AnnuityReal
		n++
	}
	if n == 0 {
		return 0, 0, 0, false
	}
	fn := float64(n)
	return withdrawal / fn, pension / fn, annuity / fn, true
}

// medianIndex returns the trajectory whose final real wealth is middle-ranked.
func medianIndex(trajectories []domain.TrajectoryResult) int {
	if len(trajectories) == 0 {
		return -1
	}
	idx := make([]int, len(trajectories))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return trajectories[idx[a]].FinalReal() < trajectories[idx[b]].FinalReal()
	})
	return idx[(len(idx)-1)/2]
}

func fraction(count, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(count)).Div(decimal.NewFromInt(int64(total)))
}

// CalculateStatistics reduces a completed ensemble. It is a pure function
// of its inputs.
func CalculateStatistics(p domain.SimulationParameters, trajectories []domain.TrajectoryResult) domain.AggregateStatistics {
	n := len(trajectories)
	stats := domain.AggregateStatistics{
		NumSimulations:   n,
		FailureThreshold: p.FailureThreshold,
	}
	if n == 0 {
		return stats
	}

	retirementAge := p.RetirementAge()
	finalNominal := make([]float64, n)
	finalReal := make([]float64, n)
	drawdowns := make([]float64, n)
	monthlyDrawdowns := make([]float64, n)
	atWithdrawal := make([]float64, n)
	contributions := make([]float64, n)
	accumulation := make([]float64, n)
	var withdrawals, pensions, annuities []float64
	var growth []float64
	failures, shortfalls := 0, 0

	for i := range trajectories {
		t := &trajectories[i]
		finalNominal[i] = t.FinalNominal()
		finalReal[i] = t.FinalReal()
		if finalReal[i] <= p.FailureThreshold {
			failures++
		}
		if t.ShortfallMonths > 0 {
			shortfalls++
		}
		drawdowns[i] = MaxDrawdown(t.AnnualReal())
		monthlyDrawdowns[i] = t.MaxDrawdown
		growth = appendRollingGrowth(growth, t.Real, rollingWindow)
		atWithdrawal[i] = t.RealWealthAtWithdrawal
		contributions[i] = t.Ledger.Contributions
		accumulation[i] = t.AccumulationGains

		if w, pen, ann, ok := incomeAverages(t.Years, retirementAge); ok {
			withdrawals = append(withdrawals, w)
			pensions = append(pensions, pen)
			annuities = append(annuities, ann)
		}
	}

	stats.FailureProbability = fraction(failures, n)
	stats.ShortfallProbability = fraction(shortfalls, n)
	stats.FinalNominal = calculatePercentileRanges(finalNominal)
	stats.FinalReal = calculatePercentileRanges(finalReal)
	stats.MedianMaxDrawdown = decimal.NewFromFloat(calculateMedian(drawdowns))
	stats.WorstMaxDrawdown = decimal.NewFromFloat(calculatePercentile(drawdowns, 1))
	stats.MedianMonthlyMaxDrawdown = decimal.NewFromFloat(calculateMedian(monthlyDrawdowns))

	ratio, mean, std := riskAdjusted(growth)
	stats.RiskAdjustedReturn = decimal.NewFromFloat(ratio)
	stats.MeanRollingGrowth = decimal.NewFromFloat(mean)
	stats.StdDevRollingGrowth = decimal.NewFromFloat(std)

	stats.IncomeComposition = domain.IncomeComposition{
		Withdrawal:    decimal.NewFromFloat(calculateMedian(withdrawals)),
		PublicPension: decimal.NewFromFloat(calculateMedian(pensions)),
		Annuity:       decimal.NewFromFloat(calculateMedian(annuities)),
	}

	stats.MedianRealWealthAtWithdrawal = decimal.NewFromFloat(calculateMedian(atWithdrawal))
	stats.MedianContributions = decimal.NewFromFloat(calculateMedian(contributions))
	stats.MedianAccumulationGains = decimal.NewFromFloat(calculateMedian(accumulation))
	return stats
}
