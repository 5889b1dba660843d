package calculation

import (
	"fmt"

	"github.com/mapension/retirement-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// MaxBenefitPercentage caps the allowance at 80% of the average salary.
var MaxBenefitPercentage = dec("0.80")

// DefaultMSRBCOLABase is the portion of the annual allowance the MA COLA applies to.
var DefaultMSRBCOLABase = decimal.NewFromInt(13000)

var (
	twelve = decimal.NewFromInt(12)
	two    = decimal.NewFromInt(2)
	three  = decimal.NewFromInt(3)
)

// OptionPension is an allowance after the option reduction.
type OptionPension struct {
	Factor          decimal.Decimal
	Pension         decimal.Decimal
	SurvivorPension decimal.Decimal
}

// BenefitFactor returns the age-based benefit factor for a member.
// Ages below the group's minimum give 0; a negative age is clamped to the group minimum;
// ages above the ceiling keep the ceiling factor. Fractional ages use the completed year.
func BenefitFactor(age decimal.Decimal, group domain.RetirementGroup, era domain.ServiceEra, yearsOfService decimal.Decimal) (decimal.Decimal, error) {
	if !group.Valid() {
		return decimal.Zero, fmt.Errorf("%w: unknown retirement group %d", domain.ErrInvalidInput, int(group))
	}
	if yearsOfService.IsNegative() {
		return decimal.Zero, nil
	}

	table := factorTableFor(group, era)
	years := int(age.Floor().IntPart())
	if age.IsNegative() {
		years = table.minAge
	}
	return table.rateAt(years), nil
}

// CalculateBenefitMultiplier parses a group name and returns factor × years of service,
// the share of the average salary paid before the 80% cap.
func CalculateBenefitMultiplier(group string, age, yearsOfService decimal.Decimal, era domain.ServiceEra) (decimal.Decimal, error) {
	g, err := domain.ParseRetirementGroup(group)
	if err != nil {
		return decimal.Zero, err
	}
	factor, err := BenefitFactor(age, g, era, yearsOfService)
	if err != nil {
		return decimal.Zero, err
	}
	return factor.Mul(yearsOfService), nil
}

// CheckEligibility reports whether a member may retire with a superannuation allowance.
// It never fails; unknown groups and negative inputs are simply not eligible.
func CheckEligibility(age, yearsOfService decimal.Decimal, group domain.RetirementGroup, era domain.ServiceEra) bool {
	if !group.Valid() || age.IsNegative() || yearsOfService.IsNegative() {
		return false
	}
	if group == domain.Group3 {
		return yearsOfService.GreaterThanOrEqual(decimal.NewFromInt(group3MinService))
	}

	rule := eligibilityRules[era][group]
	if age.GreaterThanOrEqual(decimal.NewFromInt(int64(rule.reducedAge))) &&
		yearsOfService.GreaterThanOrEqual(decimal.NewFromInt(int64(rule.minService))) {
		return true
	}
	return age.GreaterThanOrEqual(decimal.NewFromInt(int64(rule.anyServiceAge))) && yearsOfService.IsPositive()
}

// AverageHighestSalary returns the arithmetic mean of the supplied salaries, 0 when empty.
func AverageHighestSalary(salaries []decimal.Decimal) decimal.Decimal {
	if len(salaries) == 0 {
		return decimal.Zero
	}
	return decimal.Sum(decimal.Zero, salaries...).Div(decimal.NewFromInt(int64(len(salaries))))
}

// SalaryWindowForEra is the number of consecutive years averaged for the allowance:
// three for members hired before the 2012 reform, five after.
func SalaryWindowForEra(era domain.ServiceEra) int {
	if era == domain.EraPre2012 {
		return 3
	}
	return 5
}

// HighestConsecutiveAverage returns the highest average of window consecutive salaries in
// a full history. Histories no longer than the window are averaged whole.
func HighestConsecutiveAverage(history []decimal.Decimal, window int) decimal.Decimal {
	if window <= 0 || len(history) <= window {
		return AverageHighestSalary(history)
	}

	sum := decimal.Sum(decimal.Zero, history[:window]...)
	best := sum
	for i := window; i < len(history); i++ {
		sum = sum.Add(history[i]).Sub(history[i-window])
		if sum.GreaterThan(best) {
			best = sum
		}
	}
	return best.Div(decimal.NewFromInt(int64(window)))
}

// CalculatePensionBenefit computes the allowance for a member profile. The 80% cap is
// applied to the Option A allowance first; the capped amount is the basis every option
// reduction works from.
func CalculatePensionBenefit(profile domain.MemberProfile) (domain.PensionResult, error) {
	if !profile.Group.Valid() {
		return domain.PensionResult{}, fmt.Errorf("%w: unknown retirement group %d", domain.ErrInvalidInput, int(profile.Group))
	}
	if !profile.Option.Valid() {
		return domain.PensionResult{}, fmt.Errorf("%w: unknown retirement option %d", domain.ErrInvalidInput, int(profile.Option))
	}

	average := AverageHighestSalary(profile.Salaries)
	factor, err := BenefitFactor(profile.Age, profile.Group, profile.Era, profile.YearsOfService)
	if err != nil {
		return domain.PensionResult{}, err
	}

	totalPercentage := factor.Mul(profile.YearsOfService)
	result := domain.PensionResult{
		AverageSalary:          average,
		BenefitFactor:          factor,
		TotalBenefitPercentage: decimal.Min(totalPercentage, MaxBenefitPercentage),
		Option:                 profile.Option,
		OptionFactor:           decimal.NewFromInt(1),
		Eligible:               CheckEligibility(profile.Age, profile.YearsOfService, profile.Group, profile.Era),
	}
	if !result.Eligible {
		return result, nil
	}

	uncapped := average.Mul(totalPercentage)
	maxPension := average.Mul(MaxBenefitPercentage)
	capped := decimal.Min(uncapped, maxPension)

	withOption, err := PensionWithOption(capped, profile.Option, profile.Age, profile.BeneficiaryAge)
	if err != nil {
		return domain.PensionResult{}, err
	}

	result.UncappedAnnualPension = uncapped
	result.CappedAnnualPension = capped
	result.CapApplied = uncapped.GreaterThan(maxPension)
	result.OptionFactor = withOption.Factor
	result.AnnualPension = withOption.Pension
	result.MonthlyPension = withOption.Pension.Div(twelve)
	result.SurvivorAnnualPension = withOption.SurvivorPension
	result.SurvivorMonthlyPension = withOption.SurvivorPension.Div(twelve)
	return result, nil
}

// PensionWithOption applies a retirement option to the capped Option A allowance.
// Option C pays two thirds of the member's reduced allowance to the beneficiary.
func PensionWithOption(basePension decimal.Decimal, option domain.RetirementOption, memberAge, beneficiaryAge decimal.Decimal) (OptionPension, error) {
	switch option {
	case domain.OptionA:
		return OptionPension{Factor: decimal.NewFromInt(1), Pension: basePension, SurvivorPension: decimal.Zero}, nil
	case domain.OptionB:
		factor := decimal.NewFromInt(1).Sub(optionBReduction(memberAge))
		return OptionPension{Factor: factor, Pension: basePension.Mul(factor), SurvivorPension: decimal.Zero}, nil
	case domain.OptionC:
		factor := optionCFactor(memberAge, beneficiaryAge)
		pension := basePension.Mul(factor)
		return OptionPension{Factor: factor, Pension: pension, SurvivorPension: SurvivorShare(pension)}, nil
	default:
		return OptionPension{}, fmt.Errorf("%w: unknown retirement option %d", domain.ErrInvalidInput, int(option))
	}
}

// SurvivorShare is the two-thirds of an Option C allowance that continues to the beneficiary.
func SurvivorShare(memberPension decimal.Decimal) decimal.Decimal {
	return memberPension.Mul(two).Div(three)
}

// COLAProjection compounds a benefit for a number of years: base × (1+rate)^years.
// Zero or negative years return the base unchanged.
func COLAProjection(baseBenefit decimal.Decimal, years int, colaRate decimal.Decimal) decimal.Decimal {
	if years <= 0 {
		return baseBenefit
	}
	growth := decimal.NewFromInt(1).Add(colaRate).Pow(decimal.NewFromInt(int64(years)))
	return baseBenefit.Mul(growth)
}

// MSRBCOLAProjection projects an MA allowance where each year's COLA is paid only on the
// first colaBase dollars. A non-positive colaBase compounds the whole allowance.
func MSRBCOLAProjection(baseBenefit decimal.Decimal, years int, colaRate, colaBase decimal.Decimal) decimal.Decimal {
	if !colaBase.IsPositive() {
		return COLAProjection(baseBenefit, years, colaRate)
	}
	current := baseBenefit
	for y := 0; y < years; y++ {
		eligible := decimal.Min(current, colaBase)
		if eligible.IsNegative() {
			break
		}
		current = current.Add(eligible.Mul(colaRate))
	}
	return current
}
