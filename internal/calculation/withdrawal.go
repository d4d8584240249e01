package calculation

import (
	"fmt"

	"github.com/rpgo/wealth-simulator/internal/domain"
)

// GuardrailStep is the fractional cut or raise applied when the guardrail
// withdrawal rate leaves its band.
const GuardrailStep = 0.10

// WithdrawalContext is the portfolio snapshot a strategy sees at the start
// of each withdrawal year.
type WithdrawalContext struct {
	FirstYear      bool
	LiquidWealth   float64
	PriceIndex     float64
	PreviousTarget float64
}

// WithdrawalStrategy defines the interface for withdrawal strategies
type WithdrawalStrategy interface {
	// AnnualTarget returns the nominal amount to withdraw over the coming year.
	AnnualTarget(c WithdrawalContext) float64
	Kind() domain.WithdrawalKind
}

// FixedWithdrawal keeps the withdrawal constant in real terms.
type FixedWithdrawal struct {
	RealAmount float64
}

func (f *FixedWithdrawal) AnnualTarget(c WithdrawalContext) float64 {
	return f.RealAmount * c.PriceIndex
}

func (f *FixedWithdrawal) Kind() domain.WithdrawalKind { return domain.WithdrawalFixed }

// PercentOfWealthWithdrawal withdraws a fixed share of liquid wealth every year.
type PercentOfWealthWithdrawal struct {
	Percentage float64
}

func (p *PercentOfWealthWithdrawal) AnnualTarget(c WithdrawalContext) float64 {
	return nonNegative(c.LiquidWealth) * p.Percentage
}

func (p *PercentOfWealthWithdrawal) Kind() domain.WithdrawalKind { return domain.WithdrawalPercent }

// GuardrailWithdrawal starts like PercentOfWealthWithdrawal, then inflates
// the previous withdrawal each year and steps it by GuardrailStep when the
// inflated amount's rate falls outside Percentage*(1±Band).
type GuardrailWithdrawal struct {
	Percentage float64
	Band       float64
	Inflation  float64
}

// Bands returns the lower and upper withdrawal rates.
func (g *GuardrailWithdrawal) Bands() (lower, upper float64) {
	return g.Percentage * (1 - g.Band), g.Percentage * (1 + g.Band)
}

func (g *GuardrailWithdrawal) AnnualTarget(c WithdrawalContext) float64 {
	if c.FirstYear {
		return nonNegative(c.LiquidWealth) * g.Percentage
	}

	inflated := c.PreviousTarget * (1 + g.Inflation)
	lower, upper := g.Bands()

	// Empty portfolio: any positive withdrawal is above the upper band.
	if c.LiquidWealth <= 0 {
		return inflated * (1 - GuardrailStep)
	}

	rate := inflated / c.LiquidWealth
	switch {
	case rate > upper:
		return inflated * (1 - GuardrailStep)
	case rate < lower:
		return inflated * (1 + GuardrailStep)
	default:
		return inflated
	}
}

func (g *GuardrailWithdrawal) Kind() domain.WithdrawalKind { return domain.WithdrawalGuardrail }

// NewWithdrawalStrategy builds the strategy selected by the settings.
func NewWithdrawalStrategy(ws domain.WithdrawalSettings, inflationRate float64) (WithdrawalStrategy, error) {
	switch ws.Strategy {
	case domain.WithdrawalFixed:
		return &FixedWithdrawal{RealAmount: ws.AnnualAmount}, nil
	case domain.WithdrawalPercent:
		return &PercentOfWealthWithdrawal{Percentage: ws.Percentage}, nil
	case domain.WithdrawalGuardrail:
		return &GuardrailWithdrawal{Percentage: ws.Percentage, Band: ws.GuardrailBand, Inflation: inflationRate}, nil
	}
	return nil, fmt.Errorf("unsupported withdrawal strategy %v", ws.Strategy)
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
