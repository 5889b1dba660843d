package output

import (
	"testing"

	"github.com/mapension/retirement-calculator/internal/domain"
)

func TestAnalyzeScenarios_SelectsHighestNetIncome(t *testing.T) {
	rec := AnalyzeScenarios(buildTestComparison())
	if rec.ScenarioName != "A at 65" {
		t.Fatalf("expected A at 65, got %q", rec.ScenarioName)
	}
	if rec.BaselineName != "B at 62" {
		t.Fatalf("baseline should be the first scenario, got %q", rec.BaselineName)
	}
	if !rec.NetIncomeChange.Equal(d("6789.2")) {
		t.Fatalf("unexpected change %s", rec.NetIncomeChange)
	}
	if rec.PercentageChange.StringFixed(4) != "0.1091" {
		t.Fatalf("unexpected percentage %s", rec.PercentageChange)
	}
}

func TestAnalyzeScenarios_Empty(t *testing.T) {
	rec := AnalyzeScenarios(&domain.ScenarioComparison{})
	if rec.ScenarioName != "" {
		t.Fatalf("expected no recommendation, got %q", rec.ScenarioName)
	}
}

func TestAnalyzeScenarios_ZeroBaseline(t *testing.T) {
	cmp := buildTestComparison()
	cmp.Scenarios[0].Combined.NetAnnualIncome = d("0")
	rec := AnalyzeScenarios(cmp)
	if !rec.PercentageChange.IsZero() {
		t.Fatalf("percentage against a zero baseline should be zero, got %s", rec.PercentageChange)
	}
}
