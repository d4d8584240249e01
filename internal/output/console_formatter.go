package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rpgo/wealth-simulator/internal/domain"
	money "github.com/rpgo/wealth-simulator/pkg/decimal"
	"github.com/shopspring/decimal"
)

// ConsoleFormatter provides a concise console style summary via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(result *domain.SimulationResult) ([]byte, error) {
	var buf bytes.Buffer
	s := result.Statistics
	p := result.Parameters

	fmt.Fprintln(&buf, "WEALTH SIMULATION SUMMARY")
	fmt.Fprintln(&buf, "================================")
	if p.Name != "" {
		fmt.Fprintf(&buf, "Plan: %s\n", p.Name)
	}
	fmt.Fprintf(&buf, "Simulations: %d (seed %d)\n", s.NumSimulations, p.Seed)
	fmt.Fprintf(&buf, "Success rate: %s\n", FormatPercentage(s.SuccessRate()))
	fmt.Fprintf(&buf, "Final real wealth: P10=%s P50=%s P90=%s\n",
		FormatCurrency(s.FinalReal.P10), FormatCurrency(s.FinalReal.P50), FormatCurrency(s.FinalReal.P90))
	if result.SustainableWithdrawal != nil {
		fmt.Fprintf(&buf, "Sustainable withdrawal: %s\n", FormatCurrency(*result.SustainableWithdrawal))
	}
	a := AssessPlan(result)
	fmt.Fprintf(&buf, "Verdict: %s (%s)\n", strings.ToUpper(a.Label), a.Message)
	return buf.Bytes(), nil
}

// ConsoleVerboseFormatter renders the detailed console report: assumptions,
// ensemble statistics and the median trajectory year by year.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(result *domain.SimulationResult) ([]byte, error) {
	var buf bytes.Buffer
	s := result.Statistics
	p := result.Parameters
	rule := strings.Repeat("=", 96)

	fmt.Fprintln(&buf, rule)
	fmt.Fprintln(&buf, "MONTE CARLO WEALTH PROJECTION")
	fmt.Fprintln(&buf, rule)
	if p.Name != "" {
		fmt.Fprintf(&buf, "Plan: %s\n", p.Name)
	}
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	for _, a := range GenerateAssumptions(p) {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "OUTCOMES")
	fmt.Fprintln(&buf, strings.Repeat("-", 40))
	fmt.Fprintf(&buf, "Simulations:              %d (seed %d)\n", s.NumSimulations, p.Seed)
	fmt.Fprintf(&buf, "Success rate:             %s\n", FormatPercentage(s.SuccessRate()))
	fmt.Fprintf(&buf, "Failure probability:      %s\n", FormatPercentage(s.FailureProbability))
	fmt.Fprintf(&buf, "Shortfall probability:    %s\n", FormatPercentage(s.ShortfallProbability))
	if result.SustainableWithdrawal != nil {
		fmt.Fprintf(&buf, "Sustainable withdrawal:   %s per year\n", FormatCurrency(*result.SustainableWithdrawal))
	}
	fmt.Fprintln(&buf)

	fmt.Fprintf(&buf, "%-22s %16s %16s %16s %16s %16s\n", "Final wealth", "P10", "P25", "P50", "P75", "P90")
	writeRanges(&buf, "Nominal", s.FinalNominal)
	writeRanges(&buf, "Real (today's money)", s.FinalReal)
	fmt.Fprintln(&buf)

	fmt.Fprintf(&buf, "Median max drawdown:      %s (year-end real series, worst %s)\n",
		FormatPercentage(s.MedianMaxDrawdown), FormatPercentage(s.WorstMaxDrawdown))
	fmt.Fprintf(&buf, "Median monthly drawdown:  %s (month-end real series)\n", FormatPercentage(s.MedianMonthlyMaxDrawdown))
	fmt.Fprintf(&buf, "Risk-adjusted return:     %s (mean %s, std dev %s over 12 months)\n",
		s.RiskAdjustedReturn.StringFixed(3), FormatPercentage(s.MeanRollingGrowth), FormatPercentage(s.StdDevRollingGrowth))
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "ACCUMULATION")
	fmt.Fprintln(&buf, strings.Repeat("-", 40))
	fmt.Fprintf(&buf, "Real wealth at withdrawal: %s\n", FormatCurrency(s.MedianRealWealthAtWithdrawal))
	fmt.Fprintf(&buf, "Contributions:             %s\n", FormatCurrency(s.MedianContributions))
	fmt.Fprintf(&buf, "Investment gains:          %s\n", FormatCurrency(s.MedianAccumulationGains))
	fmt.Fprintln(&buf)

	ic := s.IncomeComposition
	fmt.Fprintln(&buf, "MEDIAN YEARLY RETIREMENT INCOME (today's money)")
	fmt.Fprintln(&buf, strings.Repeat("-", 40))
	total := money.NewMoneyFromDecimal(ic.Total())
	writeIncome(&buf, "Portfolio withdrawals:", ic.Withdrawal, total)
	writeIncome(&buf, "Public pension:", ic.PublicPension, total)
	writeIncome(&buf, "Fund annuity:", ic.Annuity, total)
	fmt.Fprintf(&buf, "%-26s %16s (%s per month)\n", "Total:", total.Format(), total.Monthly().Format())
	fmt.Fprintln(&buf)

	fmt.Fprintf(&buf, "MEDIAN TRAJECTORY (#%d)\n", result.MedianIndex)
	fmt.Fprintln(&buf, rule)
	fmt.Fprintf(&buf, "%4s %4s %12s %12s %12s %12s %12s %12s %12s %10s\n",
		"Year", "Age", "Withdrawn", "Pension", "Annuity", "Lump sum", "Cash", "Equity", "Fund", "Taxes")
	for _, y := range result.MedianTrajectory.Years {
		fmt.Fprintf(&buf, "%4d %4d %12s %12s %12s %12s %12s %12s %12s %10s\n",
			y.Year, y.Age,
			FormatWhole(y.DeliveredWithdrawalReal),
			FormatWhole(y.PublicPensionReal),
			FormatWhole(y.AnnuityReal),
			money.NewMoney(y.FundLumpSumNominal).Deflate(y.PriceIndex).FormatWhole(),
			FormatWhole(y.CashReal),
			FormatWhole(y.EquityReal),
			FormatWhole(y.FundReal),
			FormatWhole(y.TaxesPaid),
		)
	}
	fmt.Fprintln(&buf)

	a := AssessPlan(result)
	fmt.Fprintf(&buf, "VERDICT: %s, %s\n", strings.ToUpper(a.Label), a.Message)
	return buf.Bytes(), nil
}

func writeRanges(buf *bytes.Buffer, label string, r domain.PercentileRanges) {
	fmt.Fprintf(buf, "%-22s %16s %16s %16s %16s %16s\n", label,
		FormatCurrency(r.P10.Round(0)), FormatCurrency(r.P25.Round(0)), FormatCurrency(r.P50.Round(0)),
		FormatCurrency(r.P75.Round(0)), FormatCurrency(r.P90.Round(0)))
}

// writeIncome prints one income source with its share of the total.
func writeIncome(buf *bytes.Buffer, label string, amount decimal.Decimal, total money.Money) {
	m := money.NewMoneyFromDecimal(amount)
	fmt.Fprintf(buf, "%-26s %16s (%s%%)\n", label, m.Format(), m.Share(total).StringFixed(1))
}
