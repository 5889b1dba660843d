package output

import (
	"io"
	"os"

	"github.com/mapension/retirement-calculator/internal/domain"
	"gopkg.in/yaml.v3"
)

// Render formats results with the named formatter and writes them to w.
func Render(w io.Writer, results *domain.ScenarioComparison, format string) error {
	f := GetFormatterByName(format)
	if f == nil {
		return UnsupportedFormatError(format)
	}
	data, err := f.Format(results)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// GenerateReport writes a timestamped report file in dir and returns its path.
func GenerateReport(results *domain.ScenarioComparison, format, dir string) (string, error) {
	f := GetFormatterByName(format)
	if f == nil {
		return "", UnsupportedFormatError(format)
	}
	return WriteFormatted(f, results, dir)
}

// SaveConfiguration writes a configuration as YAML.
func SaveConfiguration(config *domain.Configuration, filename string) error {
	b, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0644)
}
