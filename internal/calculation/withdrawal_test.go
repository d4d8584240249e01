package calculation

import (
	"testing"

	"github.com/rpgo/wealth-simulator/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithdrawalStrategies(t *testing.T) {
	guard := &GuardrailWithdrawal{Percentage: 0.04, Band: 0.10, Inflation: 0.02}

	tests := []struct {
		name     string
		strategy WithdrawalStrategy
		ctx      WithdrawalContext
		want     float64
	}{
		{
			name:     "fixed follows prices",
			strategy: &FixedWithdrawal{RealAmount: 20000},
			ctx:      WithdrawalContext{FirstYear: true, LiquidWealth: 1, PriceIndex: 1.5},
			want:     30000,
		},
		{
			name:     "percent of liquid wealth",
			strategy: &PercentOfWealthWithdrawal{Percentage: 0.04},
			ctx:      WithdrawalContext{LiquidWealth: 500000, PriceIndex: 2},
			want:     20000,
		},
		{
			name:     "percent of negative wealth",
			strategy: &PercentOfWealthWithdrawal{Percentage: 0.04},
			ctx:      WithdrawalContext{LiquidWealth: -10},
			want:     0,
		},
		{
			name:     "guardrail first year",
			strategy: guard,
			ctx:      WithdrawalContext{FirstYear: true, LiquidWealth: 1000000, PriceIndex: 1},
			want:     40000,
		},
		{
			name:     "guardrail inside band",
			strategy: guard,
			// 40800 / 1000000 = 4.08%, inside [3.6%, 4.4%]
			ctx:  WithdrawalContext{LiquidWealth: 1000000, PreviousTarget: 40000},
			want: 40800,
		},
		{
			name:     "guardrail above band cuts",
			strategy: guard,
			ctx:      WithdrawalContext{LiquidWealth: 800000, PreviousTarget: 40000},
			want:     40800 * 0.9,
		},
		{
			name:     "guardrail below band raises",
			strategy: guard,
			ctx:      WithdrawalContext{LiquidWealth: 1500000, PreviousTarget: 40000},
			want:     40800 * 1.1,
		},
		{
			name:     "guardrail with empty portfolio cuts",
			strategy: guard,
			ctx:      WithdrawalContext{LiquidWealth: 0, PreviousTarget: 40000},
			want:     40800 * 0.9,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.strategy.AnnualTarget(tt.ctx), 1e-6)
		})
	}
}

func TestGuardrailStepIsBounded(t *testing.T) {
	g := &GuardrailWithdrawal{Percentage: 0.05, Band: 0.2, Inflation: 0.03}
	prev := 50000.0
	for _, wealth := range []float64{1, 10000, 500000, 1000000, 5000000} {
		got := g.AnnualTarget(WithdrawalContext{LiquidWealth: wealth, PreviousTarget: prev})
		inflated := prev * 1.03
		assert.LessOrEqual(t, got, inflated*(1+GuardrailStep)+1e-9)
		assert.GreaterOrEqual(t, got, inflated*(1-GuardrailStep)-1e-9)
	}
}

func TestGuardrailBands(t *testing.T) {
	g := &GuardrailWithdrawal{Percentage: 0.04, Band: 0.25}
	lower, upper := g.Bands()
	assert.InDelta(t, 0.03, lower, 1e-12)
	assert.InDelta(t, 0.05, upper, 1e-12)
}

func TestNewWithdrawalStrategy(t *testing.T) {
	for _, kind := range []domain.WithdrawalKind{domain.WithdrawalFixed, domain.WithdrawalPercent, domain.WithdrawalGuardrail} {
		s, err := NewWithdrawalStrategy(domain.WithdrawalSettings{Strategy: kind, AnnualAmount: 1, Percentage: 0.04}, 0.02)
		require.NoError(t, err)
		assert.Equal(t, kind, s.Kind())
	}

	_, err := NewWithdrawalStrategy(domain.WithdrawalSettings{Strategy: domain.WithdrawalKind(99)}, 0)
	assert.Error(t, err)
}
