package output

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"

	"github.com/rpgo/wealth-simulator/internal/domain"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ChartFormatter renders the real wealth fan chart as a PNG image.
type ChartFormatter struct {
	Width  vg.Length
	Height vg.Length
}

func (c ChartFormatter) Name() string { return "png" }

var (
	outerBandColor = color.RGBA{R: 0, G: 128, B: 255, A: 40}
	innerBandColor = color.RGBA{R: 0, G: 128, B: 255, A: 90}
	medianColor    = color.RGBA{R: 0, G: 70, B: 160, A: 255}
	pathColor      = color.RGBA{R: 220, G: 90, B: 0, A: 255}
)

func (c ChartFormatter) Format(result *domain.SimulationResult) ([]byte, error) {
	bands := RealWealthBands(result)
	if len(bands) == 0 {
		return nil, errors.New("no trajectories to chart")
	}

	p := plot.New()
	p.Title.Text = "Real wealth by age"
	if name := result.Parameters.Name; name != "" {
		p.Title.Text = name + ": real wealth by age"
	}
	p.X.Label.Text = "Age"
	p.Y.Label.Text = "Wealth (EUR, today's money)"
	p.Add(plotter.NewGrid())

	outer, err := bandPolygon(bands, func(b YearBand) (float64, float64) { return b.P10, b.P90 })
	if err != nil {
		return nil, err
	}
	outer.Color = outerBandColor
	outer.LineStyle.Width = 0

	inner, err := bandPolygon(bands, func(b YearBand) (float64, float64) { return b.P25, b.P75 })
	if err != nil {
		return nil, err
	}
	inner.Color = innerBandColor
	inner.LineStyle.Width = 0

	medianPts := make(plotter.XYs, len(bands))
	for i, b := range bands {
		medianPts[i].X = float64(b.Age)
		medianPts[i].Y = b.P50
	}
	median, err := plotter.NewLine(medianPts)
	if err != nil {
		return nil, fmt.Errorf("failed to build median line: %w", err)
	}
	median.Color = medianColor
	median.Width = vg.Points(2)

	path := result.MedianTrajectory.AnnualReal()
	pathPts := make(plotter.XYs, len(path))
	for i, v := range path {
		pathPts[i].X = float64(result.Parameters.StartAge + i)
		pathPts[i].Y = v
	}
	representative, err := plotter.NewLine(pathPts)
	if err != nil {
		return nil, fmt.Errorf("failed to build median trajectory line: %w", err)
	}
	representative.Color = pathColor
	representative.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}

	p.Add(outer, inner, median, representative)
	p.Legend.Add("P10-P90", outer)
	p.Legend.Add("P25-P75", inner)
	p.Legend.Add("P50", median)
	p.Legend.Add("median trajectory", representative)
	p.Legend.Top = true
	p.Legend.Left = true

	width, height := c.Width, c.Height
	if width <= 0 {
		width = 8 * vg.Inch
	}
	if height <= 0 {
		height = 4 * vg.Inch
	}
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode chart: %w", err)
	}
	return buf.Bytes(), nil
}

// bandPolygon traces the upper edge left to right and the lower edge back.
func bandPolygon(bands []YearBand, edges func(YearBand) (float64, float64)) (*plotter.Polygon, error) {
	pts := make(plotter.XYs, 0, 2*len(bands))
	for _, b := range bands {
		_, hi := edges(b)
		pts = append(pts, plotter.XY{X: float64(b.Age), Y: hi})
	}
	for i := len(bands) - 1; i >= 0; i-- {
		lo, _ := edges(bands[i])
		pts = append(pts, plotter.XY{X: float64(bands[i].Age), Y: lo})
	}
	poly, err := plotter.NewPolygon(pts)
	if err != nil {
		return nil, fmt.Errorf("failed to build percentile band: %w", err)
	}
	return poly, nil
}
