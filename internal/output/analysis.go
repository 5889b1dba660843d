package output

import (
	"github.com/mapension/retirement-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// Recommendation encapsulates the selection result of the best scenario.
type Recommendation struct {
	ScenarioName     string
	BaselineName     string
	NetAnnualIncome  decimal.Decimal
	NetIncomeChange  decimal.Decimal
	PercentageChange decimal.Decimal
}

// AnalyzeScenarios picks the scenario with the highest net annual income and compares
// it with the first scenario in the file.
func AnalyzeScenarios(results *domain.ScenarioComparison) Recommendation {
	best := results.Best()
	if best == nil {
		return Recommendation{}
	}
	baseline := results.Scenarios[0]
	delta := best.Combined.NetAnnualIncome.Sub(baseline.Combined.NetAnnualIncome)
	pct := decimal.Zero
	if !baseline.Combined.NetAnnualIncome.IsZero() {
		pct = delta.Div(baseline.Combined.NetAnnualIncome)
	}
	return Recommendation{
		ScenarioName:     best.Name,
		BaselineName:     baseline.Name,
		NetAnnualIncome:  best.Combined.NetAnnualIncome,
		NetIncomeChange:  delta,
		PercentageChange: pct,
	}
}
