package calculation

import (
	"github.com/mapension/retirement-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// Combiner merges engine results into one income, tax and net-income summary.
type Combiner struct {
	TaxCalc *TaxCalculator
}

// NewCombiner creates a combiner using the 2024 tax tables.
func NewCombiner() *Combiner {
	return &Combiner{TaxCalc: NewTaxCalculator()}
}

// Combine sums pension, Social Security and other income, taxes the annual total and
// returns the net figures. A spousal result replaces the worker's own benefit with the
// larger of the two; a Medicare premium is subtracted only from the after-Medicare totals.
func (c *Combiner) Combine(input domain.CombineInput) (domain.CombinedResult, error) {
	var monthlyPension, monthlySS decimal.Decimal
	if input.Pension != nil {
		monthlyPension = input.Pension.MonthlyPension
	}
	if input.SocialSecurity != nil {
		monthlySS = input.SocialSecurity.MonthlyBenefit
	}
	if input.Spousal != nil {
		monthlySS = input.Spousal.TotalBenefit
	}

	annualPension := monthlyPension.Mul(twelve)
	if input.Pension != nil {
		annualPension = input.Pension.AnnualPension
	}
	annualSS := monthlySS.Mul(twelve)
	annualOther := input.OtherAnnualIncome
	totalAnnual := annualPension.Add(annualSS).Add(annualOther)

	tax, err := c.TaxCalc.CalculateRetirementTaxes(domain.TaxParams{
		GrossPension:        annualPension,
		GrossSocialSecurity: annualSS,
		OtherIncome:         annualOther,
		FilingStatus:        input.FilingStatus,
		Age65OrOlder:        input.Age65OrOlder,
		PensionTaxableInMA:  input.PensionTaxableInMA,
	})
	if err != nil {
		return domain.CombinedResult{}, err
	}

	netAnnual := totalAnnual.Sub(tax.TotalTax)
	medicareAnnual := decimal.Zero
	if input.Medicare != nil {
		medicareAnnual = input.Medicare.TotalPremium.Mul(twelve)
	}
	netAfterMedicare := netAnnual.Sub(medicareAnnual)

	return domain.CombinedResult{
		MonthlyPension:          monthlyPension,
		MonthlySocialSecurity:   monthlySS,
		MonthlyOtherIncome:      annualOther.Div(twelve),
		TotalMonthlyIncome:      totalAnnual.Div(twelve),
		AnnualPension:           annualPension,
		AnnualSocialSecurity:    annualSS,
		AnnualOtherIncome:       annualOther,
		TotalAnnualIncome:       totalAnnual,
		Tax:                     tax,
		NetAnnualIncome:         netAnnual,
		NetMonthlyIncome:        netAnnual.Div(twelve),
		AnnualMedicarePremium:   medicareAnnual,
		NetAnnualAfterMedicare:  netAfterMedicare,
		NetMonthlyAfterMedicare: netAfterMedicare.Div(twelve),
	}, nil
}

// Combine merges engine results with the default combiner.
func Combine(input domain.CombineInput) (domain.CombinedResult, error) {
	return NewCombiner().Combine(input)
}
