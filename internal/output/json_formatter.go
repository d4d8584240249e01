package output

import (
	"encoding/json"

	"github.com/rpgo/wealth-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

// JSONFormatter serializes the result as pretty-printed JSON. Without
// IncludeSeries the per-trajectory monthly series are replaced by the
// year-end percentile fan.
type JSONFormatter struct {
	IncludeSeries bool
}

func (j JSONFormatter) Name() string {
	if j.IncludeSeries {
		return "json-full"
	}
	return "json"
}

type jsonReport struct {
	Parameters            domain.SimulationParameters `json:"parameters"`
	Statistics            domain.AggregateStatistics  `json:"statistics"`
	Assessment            Assessment                  `json:"assessment"`
	SustainableWithdrawal *decimal.Decimal            `json:"sustainable_withdrawal,omitempty"`
	RealWealthBands       []YearBand                  `json:"real_wealth_bands"`
	MedianIndex           int                         `json:"median_index"`
	MedianYears           []domain.AnnualRecord       `json:"median_years"`
	MedianLedger          domain.Ledger               `json:"median_ledger"`
	NominalSeries         [][]float64                 `json:"nominal_series,omitempty"`
	RealSeries            [][]float64                 `json:"real_series,omitempty"`
}

func (j JSONFormatter) Format(result *domain.SimulationResult) ([]byte, error) {
	report := jsonReport{
		Parameters:            result.Parameters,
		Statistics:            result.Statistics,
		Assessment:            AssessPlan(result),
		SustainableWithdrawal: result.SustainableWithdrawal,
		RealWealthBands:       RealWealthBands(result),
		MedianIndex:           result.MedianIndex,
		MedianYears:           result.MedianTrajectory.Years,
		MedianLedger:          result.MedianTrajectory.Ledger,
	}
	if j.IncludeSeries {
		report.NominalSeries = result.NominalSeries
		report.RealSeries = result.RealSeries
	}
	return json.MarshalIndent(report, "", "  ")
}
