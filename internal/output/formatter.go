package output

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rpgo/wealth-simulator/internal/domain"
)

// Formatter renders a simulation result. Format must not touch the
// filesystem; WriteFormatted owns file output.
type Formatter interface {
	Format(result *domain.SimulationResult) ([]byte, error)
	// Name is the canonical format name and part of the report file name.
	Name() string
}

// nowFunc stamps report file names (override in tests).
var nowFunc = time.Now

// WriteFormatted runs a formatter and writes its output to a timestamped file
// in dir, creating dir when needed.
func WriteFormatted(f Formatter, result *domain.SimulationResult, dir, ext string) (string, error) {
	data, err := f.Format(result)
	if err != nil {
		return "", fmt.Errorf("%s formatter: %w", f.Name(), err)
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	filename := filepath.Join(dir, fmt.Sprintf("wealth_%s_%s.%s", f.Name(), nowFunc().Format("20060102_150405"), ext))
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return "", err
	}
	return filename, nil
}

// builtInFormatters stores available formatters.
var builtInFormatters = []Formatter{
	ConsoleVerboseFormatter{},
	ConsoleFormatter{},
	CSVSummarizer{},
	CSVDetailedExporter{},
	BandsCSV{},
	TrajectoriesCSV{},
	JSONFormatter{},
	JSONFormatter{IncludeSeries: true},
	HTMLFormatter{},
	ChartFormatter{},
}

// GetFormatterByName fetches a registered formatter by name or alias.
func GetFormatterByName(name string) Formatter {
	n := NormalizeFormatName(name)
	for _, f := range builtInFormatters {
		if f.Name() == n {
			return f
		}
	}
	return nil
}

// aliasMap maps accepted spellings onto canonical format names.
var aliasMap = map[string]string{
	"console-verbose": "console",
	"verbose":         "console",
	"summary":         "console-lite",
	"csv-summary":     "csv",
	"csv-detailed":    "detailed-csv",
	"csv-bands":       "bands-csv",
	"percentiles":     "bands-csv",
	"html-report":     "html",
	"json-pretty":     "json",
	"chart":           "png",
}

// NormalizeFormatName trims, lower-cases and resolves aliases.
func NormalizeFormatName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if mapped, ok := aliasMap[n]; ok {
		return mapped
	}
	return n
}

// AvailableFormatterNames returns the canonical formatter names.
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(builtInFormatters))
	for _, f := range builtInFormatters {
		names = append(names, f.Name())
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases returns the supported alias keys.
func AvailableFormatAliases() []string {
	keys := make([]string, 0, len(aliasMap))
	for k := range aliasMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsConsoleFormat reports whether the formatter produces terminal text.
func IsConsoleFormat(name string) bool {
	return strings.HasPrefix(NormalizeFormatName(name), "console")
}

// Extension returns the file extension for a formatter name.
func Extension(name string) string {
	n := NormalizeFormatName(name)
	switch {
	case strings.HasPrefix(n, "console"):
		return "txt"
	case strings.HasSuffix(n, "csv"):
		return "csv"
	case strings.HasPrefix(n, "json"):
		return "json"
	}
	return n
}
