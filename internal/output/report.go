package output

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rpgo/wealth-simulator/internal/domain"
)

// ErrUnsupportedFormat is returned for unknown report formats.
var ErrUnsupportedFormat = errors.New("unsupported report format")

// allFormats is what "all" expands to; json-full is left out because of its size.
var allFormats = []string{"console", "csv", "detailed-csv", "bands-csv", "json", "html", "png"}

// GenerateReport writes the result in the given format (or "all") to dir and
// returns the written paths.
func GenerateReport(result *domain.SimulationResult, format, dir string) ([]string, error) {
	if NormalizeFormatName(format) == "all" {
		var paths []string
		for _, name := range allFormats {
			p, err := WriteFormatted(GetFormatterByName(name), result, dir, Extension(name))
			if err != nil {
				return paths, err
			}
			paths = append(paths, p)
		}
		return paths, nil
	}

	f := GetFormatterByName(format)
	if f == nil {
		return nil, fmt.Errorf("%w: %q. Try one of: %s, all (aliases: %s)", ErrUnsupportedFormat, format,
			strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
	}
	p, err := WriteFormatted(f, result, dir, Extension(f.Name()))
	if err != nil {
		return nil, err
	}
	return []string{p}, nil
}
