package calculation

import (
	"fmt"
	"sort"

	"github.com/mapension/retirement-calculator/internal/domain"
	"github.com/mapension/retirement-calculator/pkg/dateutil"
	"github.com/shopspring/decimal"
)

const (
	// EarliestClaimingAge is the first age retirement benefits can be claimed.
	EarliestClaimingAge = 62
	// MaxCreditAge is the age after which delayed retirement credits stop accruing.
	MaxCreditAge = 70

	minPlausibleBirthYear = 1900
	aimeComputationYears  = 35

	// 5/9 of 1% per month for the first 36 months early, 5/12 of 1% beyond that.
	earlyReductionFirstMonths = 36
)

var (
	// 2024 PIA bend points.
	bendPoint1 = decimal.NewFromInt(1174)
	bendPoint2 = decimal.NewFromInt(7078)

	piaRate1 = dec("0.90")
	piaRate2 = dec("0.32")
	piaRate3 = dec("0.15")

	delayedCreditPerYear = dec("0.08")

	survivorReducedShare = dec("0.715")
	survivorMinimumAge   = decimal.NewFromInt(60)
	spousalShare         = dec("0.5")
)

// SocialSecurityCalculator computes benefits for one worker: a birth year and a PIA.
type SocialSecurityCalculator struct {
	BirthYear         int
	FullRetirementAge decimal.Decimal
	PIA               decimal.Decimal
}

// NewSocialSecurityCalculator creates a calculator for a worker with the given PIA.
func NewSocialSecurityCalculator(birthYear int, pia decimal.Decimal) *SocialSecurityCalculator {
	return &SocialSecurityCalculator{
		BirthYear:         birthYear,
		FullRetirementAge: dateutil.FullRetirementAge(birthYear),
		PIA:               pia,
	}
}

// EarlyReduction returns the fraction of PIA lost by claiming at claimingAge, 0 at or
// after FRA. Months early are counted to the nearest whole month.
func (ssc *SocialSecurityCalculator) EarlyReduction(claimingAge decimal.Decimal) decimal.Decimal {
	claimMonths := claimingAge.Mul(twelve).Round(0).IntPart()
	monthsEarly := int64(dateutil.FullRetirementAgeMonths(ssc.BirthYear)) - claimMonths
	if monthsEarly <= 0 {
		return decimal.Zero
	}
	first := monthsEarly
	if first > earlyReductionFirstMonths {
		first = earlyReductionFirstMonths
	}
	reduction := decimal.NewFromInt(5 * first).Div(decimal.NewFromInt(900))
	if later := monthsEarly - first; later > 0 {
		reduction = reduction.Add(decimal.NewFromInt(5 * later).Div(decimal.NewFromInt(1200)))
	}
	return reduction
}

// BenefitAtAge returns the monthly benefit when claiming at claimingAge. Claiming before
// 62 pays nothing.
func (ssc *SocialSecurityCalculator) BenefitAtAge(claimingAge decimal.Decimal) decimal.Decimal {
	if claimingAge.LessThan(decimal.NewFromInt(EarliestClaimingAge)) || !ssc.PIA.IsPositive() {
		return decimal.Zero
	}
	if claimingAge.LessThan(ssc.FullRetirementAge) {
		return ssc.PIA.Mul(decimal.NewFromInt(1).Sub(ssc.EarlyReduction(claimingAge)))
	}
	return DelayedRetirementCredits(ssc.FullRetirementAge, claimingAge, ssc.PIA).TotalBenefit
}

// CalculateSocialSecurityBenefit computes the worker's own retirement benefit.
// An implausible birth year is an error; claiming before 62 or a non-positive AIME
// returns a zero benefit.
func CalculateSocialSecurityBenefit(params domain.SocialSecurityParams) (domain.SocialSecurityResult, error) {
	if err := validateBirthYear(params.BirthYear); err != nil {
		return domain.SocialSecurityResult{}, err
	}

	aime := params.AIME
	if aime.IsZero() && len(params.EarningsHistory) > 0 {
		aime = AIMEFromEarnings(params.EarningsHistory)
	}

	pia := PrimaryInsuranceAmount(aime)
	ssc := NewSocialSecurityCalculator(params.BirthYear, pia)

	result := domain.SocialSecurityResult{
		BirthYear:         params.BirthYear,
		ClaimingAge:       params.ClaimingAge,
		FullRetirementAge: ssc.FullRetirementAge,
		AIME:              aime,
		PIA:               pia,
	}
	if params.ClaimingAge.LessThan(decimal.NewFromInt(EarliestClaimingAge)) || !aime.IsPositive() {
		return result, nil
	}

	result.Eligible = true
	result.EarlyReductionPercentage = ssc.EarlyReduction(params.ClaimingAge)
	result.DelayedCreditPercentage = DelayedRetirementCredits(ssc.FullRetirementAge, params.ClaimingAge, pia).CreditsPercentage
	result.MonthlyBenefit = ssc.BenefitAtAge(params.ClaimingAge)
	result.AnnualBenefit = result.MonthlyBenefit.Mul(twelve)
	return result, nil
}

func validateBirthYear(birthYear int) error {
	if birthYear <= minPlausibleBirthYear || birthYear > nowFunc().Year() {
		return fmt.Errorf("%w: implausible birth year %d", domain.ErrInvalidInput, birthYear)
	}
	return nil
}

// PrimaryInsuranceAmount applies the 2024 bend-point formula to AIME and rounds down to
// the dime. Non-positive AIME gives 0.
func PrimaryInsuranceAmount(aime decimal.Decimal) decimal.Decimal {
	if !aime.IsPositive() {
		return decimal.Zero
	}
	pia := piaRate1.Mul(decimal.Min(aime, bendPoint1))
	if aime.GreaterThan(bendPoint1) {
		pia = pia.Add(piaRate2.Mul(decimal.Min(aime, bendPoint2).Sub(bendPoint1)))
	}
	if aime.GreaterThan(bendPoint2) {
		pia = pia.Add(piaRate3.Mul(aime.Sub(bendPoint2)))
	}
	return pia.Mul(decimal.NewFromInt(10)).Floor().Div(decimal.NewFromInt(10))
}

// AIMEFromEarnings averages the highest 35 years of indexed earnings over 420 months.
// Fewer than 35 years count the missing years as zero.
func AIMEFromEarnings(earnings []decimal.Decimal) decimal.Decimal {
	sorted := make([]decimal.Decimal, len(earnings))
	copy(sorted, earnings)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].GreaterThan(sorted[j]) })
	if len(sorted) > aimeComputationYears {
		sorted = sorted[:aimeComputationYears]
	}
	total := decimal.Sum(decimal.Zero, sorted...)
	if !total.IsPositive() {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(aimeComputationYears * 12))
}

// DelayedRetirementCredits adds 8% per year claimed after FRA, counted in whole or
// fractional years and stopping at 70.
func DelayedRetirementCredits(fra, claimingAge, baseBenefit decimal.Decimal) domain.DelayedCredits {
	if claimingAge.LessThanOrEqual(fra) {
		return domain.DelayedCredits{CreditsPercentage: decimal.Zero, AdditionalBenefit: decimal.Zero, TotalBenefit: baseBenefit}
	}
	years := decimal.Min(claimingAge, decimal.NewFromInt(MaxCreditAge)).Sub(fra)
	if years.IsNegative() {
		years = decimal.Zero
	}
	credits := delayedCreditPerYear.Mul(years)
	additional := baseBenefit.Mul(credits)
	return domain.DelayedCredits{
		CreditsPercentage: credits,
		AdditionalBenefit: additional,
		TotalBenefit:      baseBenefit.Add(additional),
	}
}

// SpousalBenefit is half the higher earner's benefit. The claimant receives the greater
// of that and their own benefit.
func SpousalBenefit(higherEarnerBenefit, ownBenefit decimal.Decimal) domain.SpousalResult {
	spousal := higherEarnerBenefit.Mul(spousalShare)
	return domain.SpousalResult{
		SpousalBenefit: spousal,
		TotalBenefit:   decimal.Max(ownBenefit, spousal),
	}
}

// SurvivorBenefit returns the monthly survivor benefit from the deceased worker's
// benefit: 71.5% at 60 rising linearly to 100% at the survivor's FRA. Nothing is paid
// before 60.
func SurvivorBenefit(deceasedBenefit, survivorAge, survivorFRA decimal.Decimal) decimal.Decimal {
	if survivorAge.LessThan(survivorMinimumAge) {
		return decimal.Zero
	}
	if survivorAge.GreaterThanOrEqual(survivorFRA) || !survivorFRA.GreaterThan(survivorMinimumAge) {
		return deceasedBenefit
	}
	progress := survivorAge.Sub(survivorMinimumAge).Div(survivorFRA.Sub(survivorMinimumAge))
	share := survivorReducedShare.Add(decimal.NewFromInt(1).Sub(survivorReducedShare).Mul(progress))
	return deceasedBenefit.Mul(share)
}

// SocialSecurityCOLA compounds a benefit by the SS COLA. It shares the pension
// contract but is kept separate since the two rates are set independently.
func SocialSecurityCOLA(baseBenefit decimal.Decimal, years int, colaRate decimal.Decimal) decimal.Decimal {
	if years <= 0 {
		return baseBenefit
	}
	return baseBenefit.Mul(decimal.NewFromInt(1).Add(colaRate).Pow(decimal.NewFromInt(int64(years))))
}
