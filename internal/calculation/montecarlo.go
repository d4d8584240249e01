package calculation

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/rpgo/wealth-simulator/internal/config"
	"github.com/rpgo/wealth-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

// MonteCarloEngine runs many independent trajectories and reduces them to
// aggregate statistics.
type MonteCarloEngine struct {
	// Workers bounds concurrent trajectories; zero means runtime.NumCPU().
	Workers int
	Logger  Logger
}

// NewMonteCarloEngine creates an engine with one worker per CPU.
func NewMonteCarloEngine() *MonteCarloEngine {
	return &MonteCarloEngine{Workers: runtime.NumCPU(), Logger: NopLogger{}}
}

// SetLogger sets the engine logger (nil resets to a no-op).
func (e *MonteCarloEngine) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger{}
	}
	e.Logger = l
}

func (e *MonteCarloEngine) logger() Logger {
	if e.Logger == nil {
		return NopLogger{}
	}
	return e.Logger
}

func (e *MonteCarloEngine) workers() int {
	if e.Workers < 1 {
		return runtime.NumCPU()
	}
	return e.Workers
}

// Run validates the parameters, optionally solves for the sustainable fixed
// withdrawal, simulates params.NumSimulations trajectories and aggregates them.
// A zero seed is replaced by a fresh one, recorded in the result.
func (e *MonteCarloEngine) Run(ctx context.Context, params domain.SimulationParameters) (*domain.SimulationResult, error) {
	if err := config.ValidateParameters(&params); err != nil {
		return nil, err
	}
	if params.Seed == 0 {
		params.Seed = seedFunc()
	}
	log := e.logger()
	started := nowFunc()

	sim, err := NewTrajectorySimulator(params)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare simulator: %w", err)
	}

	result := &domain.SimulationResult{}
	if params.Withdrawal.SolveSustainable {
		amount, err := e.solveSustainable(ctx, sim)
		if err != nil {
			return nil, fmt.Errorf("sustainable withdrawal search failed: %w", err)
		}
		sim = sim.WithFixedAmount(amount)
		params = sim.Parameters()
		solved := decimal.NewFromFloat(amount).Round(2)
		result.SustainableWithdrawal = &solved
		log.Infof("sustainable real withdrawal: %s", solved.StringFixed(2))
	}

	log.Infof("simulating %d trajectories over %d years (%s withdrawal, %s rebalancing, seed %d, %d workers)",
		params.NumSimulations, params.YearsTotal, sim.withdrawal.Kind(), sim.rebalance.Kind(), params.Seed, e.workers())

	trajectories, err := e.runEnsemble(ctx, sim, params.NumSimulations, params.Seed)
	if err != nil {
		return nil, err
	}

	result.Parameters = params
	result.Statistics = CalculateStatistics(params, trajectories)
	result.NominalSeries = make([][]float64, len(trajectories))
	result.RealSeries = make([][]float64, len(trajectories))
	for i := range trajectories {
		result.NominalSeries[i] = trajectories[i].Nominal
		result.RealSeries[i] = trajectories[i].Real
	}
	result.MedianIndex = medianIndex(trajectories)
	result.MedianTrajectory = trajectories[result.MedianIndex]

	log.Debugf("ensemble reduced in %s", nowFunc().Sub(started))
	log.Infof("failure probability %s, median final real wealth %s",
		result.Statistics.FailureProbability.StringFixed(4),
		result.Statistics.FinalReal.P50.StringFixed(2))
	return result, nil
}

// runEnsemble simulates n trajectories in parallel. Trajectory i always uses
// the random stream (seed, i), so the ensemble does not depend on scheduling.
// Cancellation is observed between trajectories, never inside one.
func (e *MonteCarloEngine) runEnsemble(ctx context.Context, sim *TrajectorySimulator, n int, seed uint64) ([]domain.TrajectoryResult, error) {
	results := make([]domain.TrajectoryResult, n)

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, e.workers())

dispatch:
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			break dispatch
		case semaphore <- struct{}{}:
		}

		wg.Add(1)
		go func(simIndex int) {
			defer wg.Done()
			defer func() { <-semaphore }()
			if ctx.Err() != nil {
				return
			}
			results[simIndex] = sim.Simulate(newTrajectoryRNG(seed, simIndex))
		}(i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		e.logger().Warnf("simulation cancelled: %v", err)
		return nil, err
	}
	return results, nil
}
