package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rpgo/wealth-simulator/internal/calculation"
	"github.com/rpgo/wealth-simulator/internal/domain"
)

// BandsCSV exports the year-end percentile fan of real wealth.
type BandsCSV struct{}

func (BandsCSV) Name() string { return "bands-csv" }

func (BandsCSV) Format(result *domain.SimulationResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"Year", "Age", "P10", "P25", "P50", "P75", "P90"}); err != nil {
		return nil, err
	}
	for _, b := range RealWealthBands(result) {
		row := []string{
			strconv.Itoa(b.Year), strconv.Itoa(b.Age),
			fixed(b.P10), fixed(b.P25), fixed(b.P50), fixed(b.P75), fixed(b.P90),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// TrajectoriesCSV exports one row per simulated trajectory.
type TrajectoriesCSV struct{}

func (TrajectoriesCSV) Name() string { return "trajectories-csv" }

func (TrajectoriesCSV) Format(result *domain.SimulationResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"SimulationID", "Success", "FinalNominal", "FinalReal", "MaxDrawdown", "MonthlyMaxDrawdown", "IsMedian"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	threshold := result.Statistics.FailureThreshold
	for i, series := range result.RealSeries {
		final := series[len(series)-1]
		nominal := result.NominalSeries[i]
		annual := make([]float64, 0, len(series)/12+1)
		for m := 0; m < len(series); m += 12 {
			annual = append(annual, series[m])
		}
		row := []string{
			strconv.Itoa(i),
			strconv.FormatBool(final > threshold),
			fixed(nominal[len(nominal)-1]),
			fixed(final),
			strconv.FormatFloat(calculation.MaxDrawdown(annual), 'f', 4, 64),
			strconv.FormatFloat(calculation.MaxDrawdown(series), 'f', 4, 64),
			strconv.FormatBool(i == result.MedianIndex),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
