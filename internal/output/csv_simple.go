package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/mapension/retirement-calculator/internal/domain"
)

// CSVSummarizer implements the simple summary CSV output (one row per scenario, input order).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string      { return "csv" }
func (c CSVSummarizer) Extension() string { return "csv" }

func (c CSVSummarizer) Format(results *domain.ScenarioComparison) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "Eligible", "Option", "AnnualPension", "MonthlyPension", "SurvivorPension",
		"MonthlySocialSecurity", "AnnualOtherIncome", "TotalAnnualIncome", "FederalTax", "StateTax", "TotalTax",
		"EffectiveRate", "MarginalRate", "NetAnnualIncome", "NetMonthlyIncome", "AnnualMedicare", "NetAfterMedicare", "LifetimeIncome"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, sc := range results.Scenarios {
		c := sc.Combined
		row := []string{
			sc.Name,
			strconv.FormatBool(sc.Pension.Eligible),
			sc.Pension.Option.String(),
			c.AnnualPension.StringFixed(2),
			c.MonthlyPension.StringFixed(2),
			sc.Pension.SurvivorAnnualPension.StringFixed(2),
			c.MonthlySocialSecurity.StringFixed(2),
			c.AnnualOtherIncome.StringFixed(2),
			c.TotalAnnualIncome.StringFixed(2),
			c.Tax.FederalTax.StringFixed(2),
			c.Tax.StateTax.StringFixed(2),
			c.Tax.TotalTax.StringFixed(2),
			c.Tax.EffectiveRate.StringFixed(4),
			c.Tax.MarginalRate.StringFixed(4),
			c.NetAnnualIncome.StringFixed(2),
			c.NetMonthlyIncome.StringFixed(2),
			c.AnnualMedicarePremium.StringFixed(2),
			c.NetAnnualAfterMedicare.StringFixed(2),
			sc.LifetimeIncome().StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
