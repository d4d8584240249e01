package calculation

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rpgo/wealth-simulator/internal/domain"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

const (
	equityReturnsFile = "equity-returns.csv"
	inflationFile     = "inflation.csv"
)

// HistoricalDataPoint represents a single year's historical data
type HistoricalDataPoint struct {
	Year int             `json:"year"`
	Data decimal.Decimal `json:"data"`
}

// HistoricalDataSet represents a complete dataset with metadata
type HistoricalDataSet struct {
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Source      string                `json:"source"`
	DataPoints  []HistoricalDataPoint `json:"data_points"`
	MinYear     int                   `json:"min_year"`
	MaxYear     int                   `json:"max_year"`
	Statistics  HistoricalStatistics  `json:"statistics"`
}

// HistoricalStatistics provides statistical summary of the dataset
type HistoricalStatistics struct {
	Mean         decimal.Decimal `json:"mean"`
	Median       decimal.Decimal `json:"median"`
	StdDev       decimal.Decimal `json:"std_dev"`
	Min          decimal.Decimal `json:"min"`
	Max          decimal.Decimal `json:"max"`
	Count        int             `json:"count"`
	MissingYears []int           `json:"missing_years"`
}

// HistoricalDataManager provides yearly equity return and inflation series.
type HistoricalDataManager struct {
	EquityReturns *HistoricalDataSet `json:"equity_returns"`
	Inflation     *HistoricalDataSet `json:"inflation"`
	DataPath      string             `json:"data_path"`
	IsLoaded      bool               `json:"is_loaded"`
}

// NewHistoricalDataManager creates a manager reading from dataPath.
func NewHistoricalDataManager(dataPath string) *HistoricalDataManager {
	return &HistoricalDataManager{DataPath: dataPath}
}

// LoadAllData loads the equity return and inflation series.
func (hdm *HistoricalDataManager) LoadAllData() error {
	if hdm.IsLoaded {
		return nil
	}

	equity, err := loadCSVData(filepath.Join(hdm.DataPath, equityReturnsFile), "equity", "Annual equity index total returns", hdm.DataPath)
	if err != nil {
		return fmt.Errorf("failed to load equity returns: %w", err)
	}
	inflation, err := loadCSVData(filepath.Join(hdm.DataPath, inflationFile), "inflation", "Annual consumer price inflation", hdm.DataPath)
	if err != nil {
		return fmt.Errorf("failed to load inflation data: %w", err)
	}

	hdm.EquityReturns = equity
	hdm.Inflation = inflation
	hdm.IsLoaded = true
	return nil
}

// loadCSVData reads a "year,value" CSV with a header row. Malformed rows are skipped.
func loadCSVData(filePath, name, description, source string) (*HistoricalDataSet, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("invalid CSV format: expected at least 2 columns")
	}

	var points []HistoricalDataPoint
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read data row: %w", err)
		}
		if len(record) < 2 {
			continue
		}
		year, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			continue
		}
		value, err := decimal.NewFromString(strings.TrimSpace(record[1]))
		if err != nil {
			continue
		}
		points = append(points, HistoricalDataPoint{Year: year, Data: value})
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("no valid data points found in %s", filePath)
	}
	return newDataSet(name, description, source, points), nil
}

func newDataSet(name, description, source string, points []HistoricalDataPoint) *HistoricalDataSet {
	sort.Slice(points, func(i, j int) bool { return points[i].Year < points[j].Year })
	return &HistoricalDataSet{
		Name:        name,
		Description: description,
		Source:      source,
		DataPoints:  points,
		MinYear:     points[0].Year,
		MaxYear:     points[len(points)-1].Year,
		Statistics:  calculateHistoricalStatistics(points),
	}
}

// calculateHistoricalStatistics summarises a dataset sorted by year.
func calculateHistoricalStatistics(points []HistoricalDataPoint) HistoricalStatistics {
	if len(points) == 0 {
		return HistoricalStatistics{}
	}

	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Data.InexactFloat64()
	}
	mean, std := stat.MeanStdDev(values, nil)
	if math.IsNaN(std) {
		std = 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	var missing []int
	present := make(map[int]bool, len(points))
	for _, p := range points {
		present[p.Year] = true
	}
	for y := points[0].Year; y <= points[len(points)-1].Year; y++ {
		if !present[y] {
			missing = append(missing, y)
		}
	}

	return HistoricalStatistics{
		Mean:         decimal.NewFromFloat(mean),
		Median:       decimal.NewFromFloat(Quantile(0.5, sorted)),
		StdDev:       decimal.NewFromFloat(std),
		Min:          decimal.NewFromFloat(sorted[0]),
		Max:          decimal.NewFromFloat(sorted[len(sorted)-1]),
		Count:        len(values),
		MissingYears: missing,
	}
}

func lookupYear(ds *HistoricalDataSet, year int) (decimal.Decimal, bool) {
	i := sort.Search(len(ds.DataPoints), func(i int) bool { return ds.DataPoints[i].Year >= year })
	if i < len(ds.DataPoints) && ds.DataPoints[i].Year == year {
		return ds.DataPoints[i].Data, true
	}
	return decimal.Zero, false
}

// GetEquityReturn returns the equity return for a specific year
func (hdm *HistoricalDataManager) GetEquityReturn(year int) (decimal.Decimal, error) {
	if !hdm.IsLoaded || hdm.EquityReturns == nil {
		return decimal.Zero, fmt.Errorf("equity return data not loaded")
	}
	if v, ok := lookupYear(hdm.EquityReturns, year); ok {
		return v, nil
	}
	return decimal.Zero, fmt.Errorf("no equity return data found for year %d", year)
}

// GetInflationRate returns the inflation rate for a specific year
func (hdm *HistoricalDataManager) GetInflationRate(year int) (decimal.Decimal, error) {
	if !hdm.IsLoaded || hdm.Inflation == nil {
		return decimal.Zero, fmt.Errorf("inflation data not loaded")
	}
	if v, ok := lookupYear(hdm.Inflation, year); ok {
		return v, nil
	}
	return decimal.Zero, fmt.Errorf("no inflation data found for year %d", year)
}

// GetAvailableYears returns the year range covered by both series.
func (hdm *HistoricalDataManager) GetAvailableYears() (int, int, error) {
	if !hdm.IsLoaded || hdm.EquityReturns == nil || hdm.Inflation == nil {
		return 0, 0, fmt.Errorf("historical data not loaded")
	}
	first := max(hdm.EquityReturns.MinYear, hdm.Inflation.MinYear)
	last := min(hdm.EquityReturns.MaxYear, hdm.Inflation.MaxYear)
	if first > last {
		return 0, 0, fmt.Errorf("equity and inflation series do not overlap")
	}
	return first, last, nil
}

// ValidateDataQuality performs quality checks on the loaded data
func (hdm *HistoricalDataManager) ValidateDataQuality() ([]string, error) {
	if !hdm.IsLoaded {
		return nil, fmt.Errorf("historical data not loaded")
	}

	var issues []string
	for _, ds := range []*HistoricalDataSet{hdm.EquityReturns, hdm.Inflation} {
		if len(ds.Statistics.MissingYears) > 0 {
			issues = append(issues, fmt.Sprintf("Missing years in %s data: %v", ds.Name, ds.Statistics.MissingYears))
		}
	}
	for _, dp := range hdm.EquityReturns.DataPoints {
		if dp.Data.GreaterThan(decimal.NewFromInt(1)) {
			issues = append(issues, fmt.Sprintf("Extreme positive equity return for year %d: %s", dp.Year, dp.Data.String()))
		}
		if dp.Data.LessThan(decimal.NewFromFloat(-0.5)) {
			issues = append(issues, fmt.Sprintf("Extreme negative equity return for year %d: %s", dp.Year, dp.Data.String()))
		}
	}
	return issues, nil
}

// Calibrate overwrites the static market assumptions of params with the
// historical mean and standard deviation of both series. Values are clamped
// into [0,1] so the result still validates.
func (hdm *HistoricalDataManager) Calibrate(params *domain.SimulationParameters) error {
	if !hdm.IsLoaded || hdm.EquityReturns == nil || hdm.Inflation == nil {
		return fmt.Errorf("historical data not loaded")
	}
	if hdm.EquityReturns.Statistics.Count < 2 || hdm.Inflation.Statistics.Count < 2 {
		return fmt.Errorf("calibration needs at least two years of data")
	}
	eq := hdm.EquityReturns.Statistics
	inf := hdm.Inflation.Statistics

	params.ExpectedReturn = clampUnit(eq.Mean.InexactFloat64())
	params.Volatility = clampUnit(eq.StdDev.InexactFloat64())
	params.InflationRate = clampUnit(inf.Mean.InexactFloat64())
	params.InflationVolatility = clampUnit(inf.StdDev.InexactFloat64())
	params.EconomicModel = ""
	return nil
}

// GenerateSampleData fills the manager with a reproducible synthetic history
// of the given length ending in lastYear.
func GenerateSampleData(lastYear, years int, seed uint64) *HistoricalDataManager {
	rng := newTrajectoryRNG(seed, 0)
	equity := make([]HistoricalDataPoint, 0, years)
	inflation := make([]HistoricalDataPoint, 0, years)
	for i := 0; i < years; i++ {
		year := lastYear - years + 1 + i
		annual := 1.0
		for m := 0; m < monthsPerYear; m++ {
			annual *= logNormalMultiplier(rng, 0.07, 0.15)
		}
		equity = append(equity, HistoricalDataPoint{Year: year, Data: decimal.NewFromFloat(annual - 1).Round(4)})
		inflation = append(inflation, HistoricalDataPoint{Year: year, Data: decimal.NewFromFloat(0.025 + 0.01*rng.NormFloat64()).Round(4)})
	}
	return &HistoricalDataManager{
		EquityReturns: newDataSet("equity", "Synthetic equity returns", "sample", equity),
		Inflation:     newDataSet("inflation", "Synthetic inflation", "sample", inflation),
		DataPath:      "",
		IsLoaded:      true,
	}
}

// WriteCSV stores both series under dir in the layout LoadAllData reads.
func (hdm *HistoricalDataManager) WriteCSV(dir string) error {
	if !hdm.IsLoaded {
		return fmt.Errorf("historical data not loaded")
	}
	for file, ds := range map[string]*HistoricalDataSet{equityReturnsFile: hdm.EquityReturns, inflationFile: hdm.Inflation} {
		f, err := os.Create(filepath.Join(dir, file))
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", file, err)
		}
		w := csv.NewWriter(f)
		_ = w.Write([]string{"year", "value"})
		for _, dp := range ds.DataPoints {
			_ = w.Write([]string{strconv.Itoa(dp.Year), dp.Data.String()})
		}
		w.Flush()
		if err := w.Error(); err != nil {
			f.Close()
			return fmt.Errorf("failed to write %s: %w", file, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}

func clampUnit(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
