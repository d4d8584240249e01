package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rpgo/wealth-simulator/internal/domain"
)

// CSVSummarizer implements the summary CSV output (one row per metric).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(result *domain.SimulationResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"Metric", "Value", "Description"}); err != nil {
		return nil, err
	}

	s := result.Statistics
	rows := [][]string{
		{"Simulations", strconv.Itoa(s.NumSimulations), "Number of trajectories"},
		{"Seed", strconv.FormatUint(result.Parameters.Seed, 10), "Base seed of the random streams"},
		{"SuccessRate", s.SuccessRate().StringFixed(4), "Share of trajectories ending above the failure threshold"},
		{"FailureProbability", s.FailureProbability.StringFixed(4), "Share of trajectories ending at or below the failure threshold"},
		{"ShortfallProbability", s.ShortfallProbability.StringFixed(4), "Share of trajectories with at least one underfunded month"},
		{"FinalRealP10", s.FinalReal.P10.StringFixed(2), "10th percentile of final real wealth"},
		{"FinalRealP25", s.FinalReal.P25.StringFixed(2), "25th percentile of final real wealth"},
		{"FinalRealP50", s.FinalReal.P50.StringFixed(2), "Median final real wealth"},
		{"FinalRealP75", s.FinalReal.P75.StringFixed(2), "75th percentile of final real wealth"},
		{"FinalRealP90", s.FinalReal.P90.StringFixed(2), "90th percentile of final real wealth"},
		{"FinalNominalP50", s.FinalNominal.P50.StringFixed(2), "Median final nominal wealth"},
		{"MedianMaxDrawdown", s.MedianMaxDrawdown.StringFixed(4), "Median per-trajectory max drawdown, year-end real series"},
		{"MedianMonthlyMaxDrawdown", s.MedianMonthlyMaxDrawdown.StringFixed(4), "Median per-trajectory max drawdown, month-end real series"},
		{"WorstMaxDrawdown", s.WorstMaxDrawdown.StringFixed(4), "Largest per-trajectory max drawdown, year-end real series"},
		{"RiskAdjustedReturn", s.RiskAdjustedReturn.StringFixed(4), "Mean over std dev of 12-month real growth"},
		{"MedianRealWealthAtWithdrawal", s.MedianRealWealthAtWithdrawal.StringFixed(2), "Median real wealth when withdrawals begin"},
		{"MedianContributions", s.MedianContributions.StringFixed(2), "Median total contributions"},
		{"MedianAccumulationGains", s.MedianAccumulationGains.StringFixed(2), "Median investment gains before withdrawals"},
		{"IncomeWithdrawal", s.IncomeComposition.Withdrawal.StringFixed(2), "Median yearly real portfolio withdrawal"},
		{"IncomePublicPension", s.IncomeComposition.PublicPension.StringFixed(2), "Median yearly real public pension"},
		{"IncomeAnnuity", s.IncomeComposition.Annuity.StringFixed(2), "Median yearly real fund annuity"},
	}
	if result.SustainableWithdrawal != nil {
		rows = append(rows, []string{"SustainableWithdrawal", result.SustainableWithdrawal.StringFixed(2), "Largest fixed real withdrawal keeping median final wealth positive"})
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
