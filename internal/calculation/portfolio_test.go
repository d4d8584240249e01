package calculation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGainRatio(t *testing.T) {
	tests := []struct {
		name  string
		state PortfolioState
		want  float64
	}{
		{"no gain", PortfolioState{Equity: 1000, CostBasis: 1000}, 0},
		{"half gain", PortfolioState{Equity: 1000, CostBasis: 500}, 0.5},
		{"loss clamps to zero", PortfolioState{Equity: 800, CostBasis: 1000}, 0},
		{"empty", PortfolioState{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.state.GainRatio(), 1e-12)
		})
	}
}

func TestSellForNet_NoGainMeansNoTax(t *testing.T) {
	st := PortfolioState{Equity: 10000, CostBasis: 10000}
	sale := st.SellForNet(1000, 0.26)

	assert.InDelta(t, 1000, sale.Gross, 1e-9)
	assert.InDelta(t, 1000, sale.Net, 1e-9)
	assert.Zero(t, sale.Tax)
	assert.InDelta(t, 9000, st.Equity, 1e-9)
	assert.InDelta(t, 9000, st.CostBasis, 1e-9)
}

func TestSellForNet_GrossesUpForTax(t *testing.T) {
	// Half the value is gain, so a 20% rate costs 10% of the gross.
	st := PortfolioState{Equity: 10000, CostBasis: 5000}
	sale := st.SellForNet(900, 0.20)

	assert.InDelta(t, 1000, sale.Gross, 1e-9)
	assert.InDelta(t, 900, sale.Net, 1e-9)
	assert.InDelta(t, 100, sale.Tax, 1e-9)
	assert.InDelta(t, 9000, st.Equity, 1e-9)
	assert.InDelta(t, 4500, st.CostBasis, 1e-9)
	assert.InDelta(t, 0.5, st.GainRatio(), 1e-12, "selling keeps the gain ratio")
}

func TestSellForNet_CappedAtBalance(t *testing.T) {
	st := PortfolioState{Equity: 500, CostBasis: 250}
	sale := st.SellForNet(1000, 0.20)

	assert.InDelta(t, 500, sale.Gross, 1e-9)
	assert.InDelta(t, 50, sale.Tax, 1e-9)
	assert.InDelta(t, 450, sale.Net, 1e-9)
	assert.Zero(t, st.Equity)
	assert.Zero(t, st.CostBasis)
}

func TestSellForNet_NothingToSell(t *testing.T) {
	st := PortfolioState{Cash: 100}
	assert.Equal(t, Sale{}, st.SellForNet(50, 0.26))

	st = PortfolioState{Equity: 100, CostBasis: 100}
	assert.Equal(t, Sale{}, st.SellForNet(0, 0.26))
	assert.Equal(t, 100.0, st.Equity)
}

func TestPortfolioTotals(t *testing.T) {
	st := PortfolioState{Cash: 100, Equity: 200, Fund: 50}
	assert.Equal(t, 300.0, st.Liquid())
	assert.Equal(t, 350.0, st.Total())
}
