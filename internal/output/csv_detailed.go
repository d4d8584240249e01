package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rpgo/wealth-simulator/internal/domain"
)

// CSVDetailedExporter writes the median trajectory's annual records, one row per year.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string { return "detailed-csv" }

func (c CSVDetailedExporter) Format(result *domain.SimulationResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{
		"Year", "Age", "Phase",
		"TargetWithdrawalNominal", "DeliveredWithdrawalNominal", "DeliveredWithdrawalReal",
		"WithdrawalFromCash", "WithdrawalFromEquity", "RebalanceSale", "FundLumpSumNominal",
		"PublicPensionReal", "AnnuityReal", "TotalIncomeReal", "CashReal", "EquityReal", "FundReal",
		"PriceIndex", "Contributions", "TaxesPaid", "FeesPaid", "MarketRegime",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	retirementAge := result.Parameters.RetirementAge()
	for _, y := range result.MedianTrajectory.Years {
		phase := "accumulation"
		if y.InWithdrawalPhase(retirementAge) {
			phase = "withdrawal"
		}
		row := []string{
			strconv.Itoa(y.Year),
			strconv.Itoa(y.Age),
			phase,
			fixed(y.TargetWithdrawalNominal),
			fixed(y.DeliveredWithdrawalNominal),
			fixed(y.DeliveredWithdrawalReal),
			fixed(y.WithdrawalFromCash),
			fixed(y.WithdrawalFromEquity),
			fixed(y.RebalanceSale),
			fixed(y.FundLumpSumNominal),
			fixed(y.PublicPensionReal),
			fixed(y.AnnuityReal),
			fixed(y.TotalIncomeReal()),
			fixed(y.CashReal),
			fixed(y.EquityReal),
			fixed(y.FundReal),
			strconv.FormatFloat(y.PriceIndex, 'f', 6, 64),
			fixed(y.Contributions),
			fixed(y.TaxesPaid),
			fixed(y.FeesPaid),
			y.MarketRegime,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
