package calculation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rpgo/wealth-simulator/internal/config"
	"github.com/shopspring/decimal"
)

func createTestDataFiles(dir string) error {
	equity := "year,return\n2018,-0.05\n2019,0.28\n2020,0.16\nbad,row\n2022,-0.18\n2021,0.27\n"
	inflation := "year,rate\n2017,0.021\n2018,0.019\n2019,0.023\n2020,0.012\n2021,0.047\n2022,0.080\n"
	if err := os.WriteFile(filepath.Join(dir, equityReturnsFile), []byte(equity), 0o644); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, inflationFile), []byte(inflation), 0o644)
}

func TestHistoricalDataManager(t *testing.T) {
	testDataPath := t.TempDir()
	if err := createTestDataFiles(testDataPath); err != nil {
		t.Fatalf("Failed to create test data files: %v", err)
	}

	hdm := NewHistoricalDataManager(testDataPath)
	if hdm.IsLoaded {
		t.Error("Manager should not be loaded initially")
	}
	if err := hdm.LoadAllData(); err != nil {
		t.Fatalf("Failed to load all data: %v", err)
	}
	if !hdm.IsLoaded {
		t.Error("Manager should be loaded after LoadAllData")
	}

	// The malformed row is skipped and rows come back sorted.
	if got := hdm.EquityReturns.Statistics.Count; got != 5 {
		t.Errorf("Expected 5 equity points, got %d", got)
	}
	if hdm.EquityReturns.DataPoints[3].Year != 2021 {
		t.Errorf("Expected data sorted by year, got %v", hdm.EquityReturns.DataPoints)
	}

	first, last, err := hdm.GetAvailableYears()
	if err != nil {
		t.Fatalf("GetAvailableYears failed: %v", err)
	}
	if first != 2018 || last != 2022 {
		t.Errorf("Expected overlap 2018-2022, got %d-%d", first, last)
	}
}

func TestGetHistoricalValues(t *testing.T) {
	testDataPath := t.TempDir()
	if err := createTestDataFiles(testDataPath); err != nil {
		t.Fatalf("Failed to create test data files: %v", err)
	}
	hdm := NewHistoricalDataManager(testDataPath)
	if err := hdm.LoadAllData(); err != nil {
		t.Fatalf("Failed to load data: %v", err)
	}

	testCases := []struct {
		year      int
		equity    string
		inflation string
		wantErr   bool
	}{
		{2019, "0.28", "0.023", false},
		{2022, "-0.18", "0.08", false},
		{1990, "", "", true},
	}
	for _, tc := range testCases {
		eq, err := hdm.GetEquityReturn(tc.year)
		if tc.wantErr {
			if err == nil {
				t.Errorf("Expected error for year %d", tc.year)
			}
			continue
		}
		if err != nil {
			t.Errorf("Unexpected error for year %d: %v", tc.year, err)
			continue
		}
		if !eq.Equal(decimal.RequireFromString(tc.equity)) {
			t.Errorf("Year %d: expected equity %s, got %s", tc.year, tc.equity, eq)
		}
		inf, err := hdm.GetInflationRate(tc.year)
		if err != nil {
			t.Errorf("Unexpected inflation error for year %d: %v", tc.year, err)
			continue
		}
		if !inf.Equal(decimal.RequireFromString(tc.inflation)) {
			t.Errorf("Year %d: expected inflation %s, got %s", tc.year, tc.inflation, inf)
		}
	}
}

func TestHistoricalStatistics(t *testing.T) {
	points := []HistoricalDataPoint{
		{Year: 2000, Data: decimal.NewFromFloat(0.1)},
		{Year: 2001, Data: decimal.NewFromFloat(0.3)},
		{Year: 2003, Data: decimal.NewFromFloat(0.2)},
	}
	stats := calculateHistoricalStatistics(points)

	if stats.Count != 3 {
		t.Errorf("Expected count 3, got %d", stats.Count)
	}
	if !stats.Mean.Round(6).Equal(decimal.NewFromFloat(0.2)) {
		t.Errorf("Expected mean 0.2, got %s", stats.Mean)
	}
	if !stats.StdDev.Round(6).Equal(decimal.NewFromFloat(0.1)) {
		t.Errorf("Expected std dev 0.1, got %s", stats.StdDev)
	}
	if !stats.Median.Round(6).Equal(decimal.NewFromFloat(0.2)) {
		t.Errorf("Expected median 0.2, got %s", stats.Median)
	}
	if len(stats.MissingYears) != 1 || stats.MissingYears[0] != 2002 {
		t.Errorf("Expected missing year 2002, got %v", stats.MissingYears)
	}
}

func TestValidateDataQuality(t *testing.T) {
	testDataPath := t.TempDir()
	if err := createTestDataFiles(testDataPath); err != nil {
		t.Fatalf("Failed to create test data files: %v", err)
	}
	hdm := NewHistoricalDataManager(testDataPath)
	if _, err := hdm.ValidateDataQuality(); err == nil {
		t.Error("Expected error before loading")
	}
	if err := hdm.LoadAllData(); err != nil {
		t.Fatalf("Failed to load data: %v", err)
	}
	issues, err := hdm.ValidateDataQuality()
	if err != nil {
		t.Fatalf("ValidateDataQuality failed: %v", err)
	}
	if len(issues) != 0 {
		t.Errorf("Expected no issues, got %v", issues)
	}
}

func TestLoadAllDataMissingFiles(t *testing.T) {
	hdm := NewHistoricalDataManager(t.TempDir())
	if err := hdm.LoadAllData(); err == nil {
		t.Error("Expected error for missing data files")
	}
	if hdm.IsLoaded {
		t.Error("Manager should not be loaded after a failed load")
	}
}

func TestCalibrate(t *testing.T) {
	testDataPath := t.TempDir()
	if err := createTestDataFiles(testDataPath); err != nil {
		t.Fatalf("Failed to create test data files: %v", err)
	}
	hdm := NewHistoricalDataManager(testDataPath)
	if err := hdm.LoadAllData(); err != nil {
		t.Fatalf("Failed to load data: %v", err)
	}

	params := busyParams()
	params.EconomicModel = "volatile"
	if err := hdm.Calibrate(&params); err != nil {
		t.Fatalf("Calibrate failed: %v", err)
	}

	if params.EconomicModel != "" {
		t.Errorf("Expected calibration to select the static market, got %q", params.EconomicModel)
	}
	wantReturn := hdm.EquityReturns.Statistics.Mean.InexactFloat64()
	if params.ExpectedReturn != wantReturn {
		t.Errorf("Expected return %v, got %v", wantReturn, params.ExpectedReturn)
	}
	if params.Volatility <= 0 || params.InflationVolatility <= 0 {
		t.Errorf("Expected positive volatilities, got %v and %v", params.Volatility, params.InflationVolatility)
	}
	if err := config.ValidateParameters(&params); err != nil {
		t.Errorf("Calibrated parameters should validate: %v", err)
	}
}

func TestGenerateSampleDataRoundTrip(t *testing.T) {
	sample := GenerateSampleData(2024, 30, 7)
	again := GenerateSampleData(2024, 30, 7)
	for i, dp := range sample.EquityReturns.DataPoints {
		if !dp.Data.Equal(again.EquityReturns.DataPoints[i].Data) {
			t.Fatalf("Sample data should be reproducible, year %d differs", dp.Year)
		}
	}

	dir := t.TempDir()
	if err := sample.WriteCSV(dir); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	loaded := NewHistoricalDataManager(dir)
	if err := loaded.LoadAllData(); err != nil {
		t.Fatalf("Failed to reload sample data: %v", err)
	}

	first, last, err := loaded.GetAvailableYears()
	if err != nil {
		t.Fatalf("GetAvailableYears failed: %v", err)
	}
	if first != 1995 || last != 2024 {
		t.Errorf("Expected 1995-2024, got %d-%d", first, last)
	}
	if !loaded.EquityReturns.Statistics.Mean.Equal(sample.EquityReturns.Statistics.Mean) {
		t.Errorf("Reloaded mean %s differs from generated %s", loaded.EquityReturns.Statistics.Mean, sample.EquityReturns.Statistics.Mean)
	}
}
