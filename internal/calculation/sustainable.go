package calculation

import (
	"context"
)

const (
	sustainableIterations = 15
	minSearchSimulations  = 100
)

// solveSustainable binary-searches the largest fixed real annual withdrawal
// whose median final real wealth stays above the failure threshold. Every
// step reuses the run's seed, so successive steps differ only in the amount.
func (e *MonteCarloEngine) solveSustainable(ctx context.Context, sim *TrajectorySimulator) (float64, error) {
	p := sim.Parameters()
	log := withPrefix(e.logger(), "solver")

	withdrawalYears := p.YearsTotal - p.YearsToWithdrawal
	if withdrawalYears <= 0 {
		log.Warnf("no withdrawal years in horizon, sustainable amount is zero")
		return 0, nil
	}
	n := max(minSearchSimulations, p.NumSimulations/4)

	base, err := e.runEnsemble(ctx, sim.WithFixedAmount(0), n, p.Seed)
	if err != nil {
		return 0, err
	}
	atStart := make([]float64, len(base))
	for i := range base {
		atStart[i] = base[i].RealWealthAtWithdrawal
	}
	high := calculateMedian(atStart) / float64(withdrawalYears)
	if high <= 0 {
		return 0, nil
	}
	log.Debugf("searching [0, %.2f] with %d trajectories per step", high, n)

	low := 0.0
	finals := make([]float64, n)
	for i := 0; i < sustainableIterations; i++ {
		mid := (low + high) / 2
		trial, err := e.runEnsemble(ctx, sim.WithFixedAmount(mid), n, p.Seed)
		if err != nil {
			return 0, err
		}
		for j := range trial {
			finals[j] = trial[j].FinalReal()
		}
		median := calculateMedian(finals)
		if median > p.FailureThreshold {
			low = mid
		} else {
			high = mid
		}
		log.Debugf("step %d: %.2f -> median final real %.2f", i+1, mid, median)
	}
	return low, nil
}
