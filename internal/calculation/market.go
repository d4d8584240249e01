package calculation

import (
	"math"
	"math/rand/v2"

	"github.com/rpgo/wealth-simulator/internal/domain"
)

// monthsPerYear converts annual parameters to monthly ones.
const monthsPerYear = 12

// minPriceIndex keeps the price index strictly positive under deflation draws.
const minPriceIndex = 1e-10

var sqrtMonths = math.Sqrt(monthsPerYear)

// MarketDraw is one month of market randomness.
type MarketDraw struct {
	// EquityMultiplier is the gross monthly equity return, e.g. 1.01.
	EquityMultiplier float64
	// Inflation is the monthly change of the price index, e.g. 0.002.
	Inflation float64
	// Regime names the market regime the draw came from, if any.
	Regime string
}

// MarketGenerator produces the monthly draws of a single trajectory.
type MarketGenerator interface {
	Next() MarketDraw
}

// logNormalMultiplier draws a gross monthly return whose compounded annual
// expectation is 1+annualMean with annualized volatility annualVol.
func logNormalMultiplier(rng *rand.Rand, annualMean, annualVol float64) float64 {
	sigma := annualVol / sqrtMonths
	mu := math.Log1p(annualMean)/monthsPerYear - 0.5*sigma*sigma
	return math.Exp(mu + sigma*rng.NormFloat64())
}

func monthlyInflation(rng *rand.Rand, annualMean, annualVol float64) float64 {
	return annualMean/monthsPerYear + annualVol/sqrtMonths*rng.NormFloat64()
}

// staticMarket uses one fixed mean and volatility for the whole horizon.
type staticMarket struct {
	rng                 *rand.Rand
	expectedReturn      float64
	volatility          float64
	inflationRate       float64
	inflationVolatility float64
}

func (m *staticMarket) Next() MarketDraw {
	return MarketDraw{
		EquityMultiplier: logNormalMultiplier(m.rng, m.expectedReturn, m.volatility),
		Inflation:        monthlyInflation(m.rng, m.inflationRate, m.inflationVolatility),
	}
}

// regimeMarket conditions each draw on the current market and inflation
// regimes, then advances both chains.
type regimeMarket struct {
	rng       *rand.Rand
	market    *RegimeChain
	inflation *RegimeChain
}

func (m *regimeMarket) Next() MarketDraw {
	mr := m.market.Current()
	ir := m.inflation.Current()
	draw := MarketDraw{
		EquityMultiplier: logNormalMultiplier(m.rng, mr.Mean, mr.Volatility),
		Inflation:        monthlyInflation(m.rng, ir.Mean, ir.Volatility),
		Regime:           m.market.CurrentName(),
	}
	m.market.Advance(m.rng.Float64())
	m.inflation.Advance(m.rng.Float64())
	return draw
}

// EconomicTables holds the compiled chains of an economic model.
type EconomicTables struct {
	Model     *domain.EconomicModel
	Market    *RegimeTable
	Inflation *RegimeTable
}

// CompileModel compiles both chains of an economic model.
func CompileModel(m *domain.EconomicModel) (*EconomicTables, error) {
	market, err := NewRegimeTable(m.Market)
	if err != nil {
		return nil, err
	}
	inflation, err := NewRegimeTable(m.Inflation)
	if err != nil {
		return nil, err
	}
	return &EconomicTables{Model: m, Market: market, Inflation: inflation}, nil
}
