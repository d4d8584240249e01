package output

import (
	"sort"

	"github.com/rpgo/wealth-simulator/internal/calculation"
	"github.com/rpgo/wealth-simulator/internal/domain"
)

// YearBand is the cross-trajectory distribution of real wealth at one year end.
type YearBand struct {
	Year int     `json:"year"`
	Age  int     `json:"age"`
	P10  float64 `json:"p10"`
	P25  float64 `json:"p25"`
	P50  float64 `json:"p50"`
	P75  float64 `json:"p75"`
	P90  float64 `json:"p90"`
}

// RealWealthBands samples every trajectory's real series at year ends
// (year 0 is the starting balance) and returns the percentile fan.
func RealWealthBands(result *domain.SimulationResult) []YearBand {
	if len(result.RealSeries) == 0 {
		return nil
	}
	months := len(result.RealSeries[0]) - 1
	bands := make([]YearBand, 0, months/12+1)
	column := make([]float64, len(result.RealSeries))

	for m := 0; m <= months; m += 12 {
		for i, series := range result.RealSeries {
			column[i] = series[m]
		}
		sort.Float64s(column)
		q := func(p float64) float64 { return calculation.Quantile(p, column) }
		year := m / 12
		bands = append(bands, YearBand{
			Year: year,
			Age:  result.Parameters.StartAge + year,
			P10:  q(0.10),
			P25:  q(0.25),
			P50:  q(0.50),
			P75:  q(0.75),
			P90:  q(0.90),
		})
	}
	return bands
}
