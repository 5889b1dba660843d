package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mapension/retirement-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// consoleProjectionRows limits the projection table in the console report.
const consoleProjectionRows = 10

// ConsoleFormatter renders the detailed console report.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string      { return "console" }
func (c ConsoleFormatter) Extension() string { return "txt" }

func (c ConsoleFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, strings.Repeat("=", 81))
	fmt.Fprintln(&buf, "MASSACHUSETTS RETIREMENT INCOME ANALYSIS")
	fmt.Fprintln(&buf, strings.Repeat("=", 81))
	fmt.Fprintln(&buf)
	if len(results.Assumptions) > 0 {
		fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
		for _, a := range results.Assumptions {
			fmt.Fprintf(&buf, "• %s\n", a)
		}
		fmt.Fprintln(&buf)
	}

	for i := range results.Scenarios {
		writeScenario(&buf, i+1, &results.Scenarios[i])
	}

	rec := AnalyzeScenarios(results)
	if rec.ScenarioName != "" && len(results.Scenarios) > 1 {
		fmt.Fprintln(&buf, "SUMMARY & RECOMMENDATIONS")
		fmt.Fprintln(&buf, "=========================")
		fmt.Fprintf(&buf, "Best scenario: %s\n", rec.ScenarioName)
		fmt.Fprintf(&buf, "Net Income Change vs %s: %s (%s)\n", rec.BaselineName, signedCurrency(rec.NetIncomeChange), FormatPercentage(rec.PercentageChange))
		fmt.Fprintf(&buf, "Monthly Change: %s\n", signedCurrency(rec.NetIncomeChange.Div(decimal.NewFromInt(12))))
	}

	return buf.Bytes(), nil
}

func writeScenario(buf *bytes.Buffer, n int, sc *domain.ScenarioResult) {
	title := fmt.Sprintf("SCENARIO %d: %s", n, sc.Name)
	fmt.Fprintln(buf, title)
	fmt.Fprintln(buf, strings.Repeat("=", len(title)))

	p := sc.Pension
	fmt.Fprintf(buf, "PENSION (option %s):\n", p.Option)
	fmt.Fprintf(buf, "  Eligible:                %s\n", yesNo(p.Eligible))
	if p.Eligible {
		fmt.Fprintf(buf, "  Average Salary:          %s\n", FormatCurrency(p.AverageSalary))
		fmt.Fprintf(buf, "  Benefit Factor:          %s\n", FormatPercentage(p.BenefitFactor))
		fmt.Fprintf(buf, "  Benefit Percentage:      %s\n", FormatPercentage(p.TotalBenefitPercentage))
		if p.CapApplied {
			fmt.Fprintf(buf, "  80%% Cap Applied:         %s -> %s\n", FormatCurrency(p.UncappedAnnualPension), FormatCurrency(p.CappedAnnualPension))
		}
		if p.Option != domain.OptionA {
			fmt.Fprintf(buf, "  Option Factor:           %s\n", p.OptionFactor.StringFixed(4))
		}
		fmt.Fprintf(buf, "  Annual Pension:          %s\n", FormatCurrency(p.AnnualPension))
		fmt.Fprintf(buf, "  Monthly Pension:         %s\n", FormatCurrency(p.MonthlyPension))
		if p.SurvivorAnnualPension.IsPositive() {
			fmt.Fprintf(buf, "  Survivor Pension:        %s / yr\n", FormatCurrency(p.SurvivorAnnualPension))
		}
	}
	fmt.Fprintln(buf)

	if ss := sc.SocialSecurity; ss != nil {
		fmt.Fprintln(buf, "SOCIAL SECURITY:")
		fmt.Fprintf(buf, "  Claiming Age:            %s (FRA %s)\n", ss.ClaimingAge.StringFixed(1), ss.FullRetirementAge.StringFixed(2))
		fmt.Fprintf(buf, "  PIA:                     %s\n", FormatCurrency(ss.PIA))
		switch {
		case ss.EarlyReductionPercentage.IsPositive():
			fmt.Fprintf(buf, "  Early Reduction:         %s\n", FormatPercentage(ss.EarlyReductionPercentage))
		case ss.DelayedCreditPercentage.IsPositive():
			fmt.Fprintf(buf, "  Delayed Credits:         %s\n", FormatPercentage(ss.DelayedCreditPercentage))
		}
		fmt.Fprintf(buf, "  Monthly Benefit:         %s\n", FormatCurrency(ss.MonthlyBenefit))
		if sp := sc.Spousal; sp != nil {
			fmt.Fprintf(buf, "  Spousal Benefit:         %s (receives %s)\n", FormatCurrency(sp.SpousalBenefit), FormatCurrency(sp.TotalBenefit))
		}
		fmt.Fprintln(buf)
	}

	c := sc.Combined
	fmt.Fprintln(buf, "INCOME & TAXES:")
	fmt.Fprintf(buf, "  Total Annual Income:     %s\n", FormatCurrency(c.TotalAnnualIncome))
	fmt.Fprintf(buf, "  Taxable Social Security: %s\n", FormatCurrency(c.Tax.TaxableSocialSecurity))
	fmt.Fprintf(buf, "  Federal Tax:             %s (taxable %s)\n", FormatCurrency(c.Tax.FederalTax), FormatCurrency(c.Tax.FederalTaxableIncome))
	fmt.Fprintf(buf, "  Massachusetts Tax:       %s (taxable %s)\n", FormatCurrency(c.Tax.StateTax), FormatCurrency(c.Tax.StateTaxableIncome))
	fmt.Fprintf(buf, "  Total Tax:               %s\n", FormatCurrency(c.Tax.TotalTax))
	fmt.Fprintf(buf, "  Effective / Marginal:    %s / %s\n", FormatPercentage(c.Tax.EffectiveRate), FormatPercentage(c.Tax.MarginalRate))
	fmt.Fprintf(buf, "  Net Annual Income:       %s\n", FormatCurrency(c.NetAnnualIncome))
	fmt.Fprintf(buf, "  Net Monthly Income:      %s\n", FormatCurrency(c.NetMonthlyIncome))
	if m := sc.Medicare; m != nil {
		fmt.Fprintf(buf, "  Medicare Part B:         %s / mo (IRMAA tier %d)\n", FormatCurrency(m.TotalPremium), m.Tier)
		fmt.Fprintf(buf, "  Net After Medicare:      %s\n", FormatCurrency(c.NetAnnualAfterMedicare))
	}
	fmt.Fprintln(buf)

	if cl := sc.Claiming; cl != nil {
		fmt.Fprintln(buf, "CLAIMING ANALYSIS:")
		fmt.Fprintf(buf, "  Recommended Age:         %d\n", cl.RecommendedAge)
		fmt.Fprintf(buf, "  Lifetime Benefit:        %s\n", FormatCurrency(cl.TotalLifetimeBenefit))
		fmt.Fprintf(buf, "  %s\n", cl.Reasoning)
		fmt.Fprintln(buf)
	}

	if len(sc.Projection) > 0 {
		fmt.Fprintln(buf, "PROJECTION:")
		fmt.Fprintf(buf, "  %-6s %-6s %15s %15s %15s\n", "YEAR", "AGE", "PENSION", "SOCIAL SEC", "TOTAL")
		for i, y := range sc.Projection {
			if i == consoleProjectionRows {
				fmt.Fprintf(buf, "  ... %d more years\n", len(sc.Projection)-consoleProjectionRows)
				break
			}
			fmt.Fprintf(buf, "  %-6d %-6s %15s %15s %15s\n", y.Year, y.MemberAge.StringFixed(1),
				FormatCurrency(y.AnnualPension), FormatCurrency(y.AnnualSocialSecurity), FormatCurrency(y.TotalAnnualIncome))
		}
		fmt.Fprintf(buf, "  Total Projected Income:  %s\n", FormatCurrency(sc.LifetimeIncome()))
	}
	fmt.Fprintln(buf)
	fmt.Fprintln(buf)
}

func signedCurrency(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+" + FormatCurrency(d)
	}
	return FormatCurrency(d)
}
