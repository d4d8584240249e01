package output

import (
	"bytes"
	_ "embed"
	"encoding/base64"
	"html/template"

	"github.com/rpgo/wealth-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

// HTMLFormatter produces a self-contained HTML report with the fan chart inlined.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr":  FormatCurrency,
	"whole": FormatWhole,
	"pct":   FormatPercentage,
	"dec":   func(d decimal.Decimal) string { return d.StringFixed(3) },
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(result *domain.SimulationResult) ([]byte, error) {
	var chart template.URL
	if png, err := (ChartFormatter{}).Format(result); err == nil {
		chart = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
	}

	data := struct {
		*domain.SimulationResult
		Assessment    Assessment
		Assumptions   []string
		Bands         []YearBand
		Chart         template.URL
		RetirementAge int
	}{
		SimulationResult: result,
		Assessment:       AssessPlan(result),
		Assumptions:      GenerateAssumptions(result.Parameters),
		Bands:            RealWealthBands(result),
		Chart:            chart,
		RetirementAge:    result.Parameters.RetirementAge(),
	}

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
