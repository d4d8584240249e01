package calculation

import (
	"fmt"

	"github.com/rpgo/wealth-simulator/internal/domain"
)

// RebalanceStrategy yields the year-end target equity share of liquid wealth.
// Rebalancing only ever sells equity down to the target.
type RebalanceStrategy interface {
	TargetAllocation(age int) (float64, bool)
	Kind() domain.RebalanceKind
}

// NoRebalance never trades.
type NoRebalance struct{}

func (NoRebalance) TargetAllocation(int) (float64, bool) { return 0, false }
func (NoRebalance) Kind() domain.RebalanceKind          { return domain.RebalanceNone }

// FixedAllocation caps equity at a constant share every year.
type FixedAllocation struct {
	Equity float64
}

func (f FixedAllocation) TargetAllocation(int) (float64, bool) { return f.Equity, true }
func (f FixedAllocation) Kind() domain.RebalanceKind          { return domain.RebalanceFixed }

// Glidepath moves the target linearly from StartAllocation at StartAge to
// EndAllocation at EndAge. Outside the window there is no target.
type Glidepath struct {
	StartAge        int
	EndAge          int
	StartAllocation float64
	EndAllocation   float64
}

func (g Glidepath) TargetAllocation(age int) (float64, bool) {
	if age < g.StartAge || age > g.EndAge {
		return 0, false
	}
	progress := 1.0
	if span := g.EndAge - g.StartAge; span > 0 {
		progress = float64(age-g.StartAge) / float64(span)
	}
	return g.StartAllocation + (g.EndAllocation-g.StartAllocation)*progress, true
}

func (g Glidepath) Kind() domain.RebalanceKind { return domain.RebalanceGlidepath }

// NewRebalanceStrategy builds the strategy selected by the settings.
func NewRebalanceStrategy(rs domain.RebalanceSettings) (RebalanceStrategy, error) {
	switch rs.Strategy {
	case domain.RebalanceNone:
		return NoRebalance{}, nil
	case domain.RebalanceFixed:
		return FixedAllocation{Equity: rs.EquityAllocation}, nil
	case domain.RebalanceGlidepath:
		return Glidepath{
			StartAge:        rs.GlidepathStartAge,
			EndAge:          rs.GlidepathEndAge,
			StartAllocation: rs.EquityAllocation,
			EndAllocation:   rs.GlidepathEndAllocation,
		}, nil
	}
	return nil, fmt.Errorf("unsupported rebalancing strategy %v", rs.Strategy)
}
