package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/mapension/retirement-calculator/internal/domain"
)

// CSVProjectionExporter provides the COLA projection per scenario/year.
type CSVProjectionExporter struct{}

func (c CSVProjectionExporter) Name() string      { return "projection-csv" }
func (c CSVProjectionExporter) Extension() string { return "csv" }

func (c CSVProjectionExporter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "Year", "MemberAge", "AnnualPension", "SurvivorPension", "AnnualSocialSecurity", "TotalAnnualIncome"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, sc := range results.Scenarios {
		for _, yr := range sc.Projection {
			row := []string{
				sc.Name,
				strconv.Itoa(yr.Year),
				yr.MemberAge.StringFixed(2),
				yr.AnnualPension.StringFixed(2),
				yr.SurvivorPension.StringFixed(2),
				yr.AnnualSocialSecurity.StringFixed(2),
				yr.TotalAnnualIncome.StringFixed(2),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
