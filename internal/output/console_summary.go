package output

import (
	"bytes"
	"fmt"

	"github.com/mapension/retirement-calculator/internal/domain"
)

// ConsoleSummaryFormatter provides a concise console style summary via the formatter interface.
type ConsoleSummaryFormatter struct{}

func (c ConsoleSummaryFormatter) Name() string      { return "summary" }
func (c ConsoleSummaryFormatter) Extension() string { return "txt" }

func (c ConsoleSummaryFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "RETIREMENT SCENARIO SUMMARY")
	fmt.Fprintln(&buf, "================================")
	for _, sc := range results.Scenarios {
		fmt.Fprintf(&buf, "%s: Pension=%s SocialSecurity=%s Tax=%s Net=%s\n",
			sc.Name,
			FormatCurrency(sc.Combined.AnnualPension),
			FormatCurrency(sc.Combined.AnnualSocialSecurity),
			FormatCurrency(sc.Combined.Tax.TotalTax),
			FormatCurrency(sc.Combined.NetAnnualIncome),
		)
		fmt.Fprintf(&buf, "  NetMonthly=%s Lifetime=%s\n", FormatCurrency(sc.Combined.NetMonthlyIncome), FormatCurrency(sc.LifetimeIncome()))
	}
	rec := AnalyzeScenarios(results)
	if rec.ScenarioName != "" {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "Recommended: %s (Δ %s / %s)\n", rec.ScenarioName, FormatCurrency(rec.NetIncomeChange), FormatPercentage(rec.PercentageChange))
	}
	return buf.Bytes(), nil
}
