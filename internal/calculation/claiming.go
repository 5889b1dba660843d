package calculation

import (
	"fmt"
	"strings"

	"github.com/mapension/retirement-calculator/internal/domain"
	money "github.com/mapension/retirement-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
)

// OptimalClaimingAge compares claiming at every whole age from max(62, currentAge) to 70
// and recommends the one with the highest cumulative benefit up to lifeExpectancy.
// Ties go to the earlier age. BreakEvenAge is the age at which the recommended claim
// catches up with claiming at the earliest candidate age; it is zero when the earliest
// age is recommended.
func OptimalClaimingAge(birthYear, lifeExpectancy int, aime, currentAge decimal.Decimal) (domain.ClaimingAnalysis, error) {
	if err := validateBirthYear(birthYear); err != nil {
		return domain.ClaimingAnalysis{}, err
	}

	ssc := NewSocialSecurityCalculator(birthYear, PrimaryInsuranceAmount(aime))
	startAge := EarliestClaimingAge
	if ceil := int(currentAge.Ceil().IntPart()); ceil > startAge {
		startAge = ceil
	}
	if startAge > MaxCreditAge {
		startAge = MaxCreditAge
	}

	life := decimal.NewFromInt(int64(lifeExpectancy))
	candidates := make([]domain.ClaimingOption, 0, MaxCreditAge-startAge+1)
	best := -1
	for age := startAge; age <= MaxCreditAge; age++ {
		claimAge := decimal.NewFromInt(int64(age))
		monthly := ssc.BenefitAtAge(claimAge)
		yearsPaid := decimal.Max(life.Sub(claimAge), decimal.Zero)
		option := domain.ClaimingOption{
			Age:                  age,
			MonthlyBenefit:       monthly,
			TotalLifetimeBenefit: monthly.Mul(twelve).Mul(yearsPaid),
		}
		candidates = append(candidates, option)
		if best < 0 || option.TotalLifetimeBenefit.GreaterThan(candidates[best].TotalLifetimeBenefit) {
			best = len(candidates) - 1
		}
	}

	recommended := candidates[best]
	earliest := candidates[0]
	analysis := domain.ClaimingAnalysis{
		RecommendedAge:       recommended.Age,
		MonthlyBenefit:       recommended.MonthlyBenefit,
		TotalLifetimeBenefit: recommended.TotalLifetimeBenefit,
		Candidates:           candidates,
	}
	if best > 0 {
		analysis.BreakEvenAge = breakEvenAge(earliest, recommended)
	}
	analysis.Reasoning = claimingReasoning(analysis, earliest, lifeExpectancy, ssc.FullRetirementAge)
	return analysis, nil
}

// breakEvenAge solves early.Monthly*(x - early.Age) == later.Monthly*(x - later.Age).
func breakEvenAge(early, later domain.ClaimingOption) decimal.Decimal {
	denom := later.MonthlyBenefit.Sub(early.MonthlyBenefit)
	if !denom.IsPositive() {
		return decimal.Zero
	}
	num := later.MonthlyBenefit.Mul(decimal.NewFromInt(int64(later.Age))).
		Sub(early.MonthlyBenefit.Mul(decimal.NewFromInt(int64(early.Age))))
	return num.Div(denom)
}

func claimingReasoning(a domain.ClaimingAnalysis, earliest domain.ClaimingOption, lifeExpectancy int, fra decimal.Decimal) string {
	if !a.MonthlyBenefit.IsPositive() {
		return "No retirement benefit is payable for this earnings record, so the claiming age does not change lifetime benefits."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Claiming at %d pays %s per month and %s in total through age %d.",
		a.RecommendedAge,
		money.NewMoneyFromDecimal(a.MonthlyBenefit).Format(),
		money.NewMoneyFromDecimal(a.TotalLifetimeBenefit).Format(),
		lifeExpectancy)

	if a.RecommendedAge == earliest.Age {
		fmt.Fprintf(&b, " With a life expectancy of %d, the extra years of payments from claiming early outweigh the larger checks from waiting.", lifeExpectancy)
		return b.String()
	}

	fmt.Fprintf(&b, " Claiming at %d instead pays %s per month but only %s in total.",
		earliest.Age,
		money.NewMoneyFromDecimal(earliest.MonthlyBenefit).Format(),
		money.NewMoneyFromDecimal(earliest.TotalLifetimeBenefit).Format())
	fmt.Fprintf(&b, " Waiting breaks even at age %s, so with a life expectancy of %d the larger benefit more than makes up for the payments skipped.",
		a.BreakEvenAge.StringFixed(1), lifeExpectancy)
	if decimal.NewFromInt(int64(a.RecommendedAge)).GreaterThan(fra) {
		fmt.Fprintf(&b, " Delayed retirement credits add %s above the full retirement age benefit.",
			money.FormatRate(DelayedRetirementCredits(fra, decimal.NewFromInt(int64(a.RecommendedAge)), decimal.NewFromInt(1)).CreditsPercentage, 1))
	}
	return b.String()
}
