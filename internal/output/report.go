package output

import (
	"fmt"
	"os"

	"github.com/fireplan/fire-simulator/internal/domain"
	"gopkg.in/yaml.v3"
)

// GenerateReport writes results in the named format to path (or a timestamped
// file when path is empty) and returns the file written. "all" writes the
// console, monthly CSV and JSON reports side by side and ignores path.
func GenerateReport(results *domain.ScenarioComparison, format, path string) ([]string, error) {
	if NormalizeFormatName(format) == "all" {
		var written []string
		for _, f := range []Formatter{ConsoleVerboseFormatter{}, MonthlyCSVExporter{}, JSONFormatter{}} {
			file, err := WriteFormatted(f, results, "", Extension(f.Name()))
			if err != nil {
				return written, err
			}
			written = append(written, file)
		}
		return written, nil
	}
	f, err := LookupFormatter(format)
	if err != nil {
		return nil, err
	}
	file, err := WriteFormatted(f, results, path, Extension(f.Name()))
	if err != nil {
		return nil, err
	}
	return []string{file}, nil
}

// SaveConfiguration writes config as YAML.
func SaveConfiguration(config *domain.Configuration, filename string) error {
	b, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshal configuration: %w", err)
	}
	return os.WriteFile(filename, b, 0644)
}
