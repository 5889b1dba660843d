package calculation

import (
	"testing"
	"time"

	"github.com/mapension/retirement-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimaryInsuranceAmount(t *testing.T) {
	tests := []struct {
		name     string
		aime     string
		expected string
	}{
		{"Below first bend point", "1000", "900"},
		{"At first bend point", "1174", "1056.6"},
		{"Between bend points", "3000", "1640.9"},
		{"Above second bend point", "10000", "3384.1"},
		{"Zero AIME", "0", "0"},
		{"Negative AIME", "-50", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PrimaryInsuranceAmount(dec(tt.aime))
			assert.True(t, got.Equal(dec(tt.expected)), "Expected %s, got %s", tt.expected, got)
		})
	}
}

func TestCalculateSocialSecurityBenefit(t *testing.T) {
	// Born 1960: FRA 67. AIME 3000 gives a PIA of 1640.90.
	tests := []struct {
		name              string
		claimingAge       string
		aime              string
		expectedMonthly   string
		expectedReduction string
		expectedCredit    string
		expectedEligible  bool
	}{
		{"At FRA", "67", "3000", "1640.9", "0", "0", true},
		{"At 62, 60 months early", "62", "3000", "1148.63", "0.3", "0", true},
		{"At 64, 36 months early", "64", "3000", "1312.72", "0.2", "0", true},
		{"At 70", "70", "3000", "2034.716", "0", "0.24", true},
		{"After 70 credits stop", "72", "3000", "2034.716", "0", "0.24", true},
		{"Before 62 pays nothing", "61", "3000", "0", "0", "0", false},
		{"Zero AIME pays nothing", "67", "0", "0", "0", "0", false},
		{"Negative AIME pays nothing", "67", "-10", "0", "0", "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := CalculateSocialSecurityBenefit(domain.SocialSecurityParams{
				BirthYear:   1960,
				ClaimingAge: dec(tt.claimingAge),
				AIME:        dec(tt.aime),
			})
			require.NoError(t, err)

			assert.Equal(t, tt.expectedEligible, result.Eligible)
			assert.True(t, result.FullRetirementAge.Equal(dec("67")))
			assert.True(t, result.MonthlyBenefit.Equal(dec(tt.expectedMonthly)), "Expected %s, got %s", tt.expectedMonthly, result.MonthlyBenefit)
			assert.True(t, result.AnnualBenefit.Equal(result.MonthlyBenefit.Mul(twelve)))
			assert.True(t, result.EarlyReductionPercentage.Equal(dec(tt.expectedReduction)), "reduction %s", result.EarlyReductionPercentage)
			assert.True(t, result.DelayedCreditPercentage.Equal(dec(tt.expectedCredit)), "credit %s", result.DelayedCreditPercentage)
		})
	}
}

func TestCalculateSocialSecurityBenefit_FractionalFRA(t *testing.T) {
	result, err := CalculateSocialSecurityBenefit(domain.SocialSecurityParams{BirthYear: 1955, ClaimingAge: dec("62"), AIME: dec("3000")})
	require.NoError(t, err)

	// 66 years 2 months
	assert.InDelta(t, 66.1667, result.FullRetirementAge.InexactFloat64(), 0.0001)
	// 50 months early: 36 × 5/9% + 14 × 5/12%
	assert.InDelta(t, 0.258333, result.EarlyReductionPercentage.InexactFloat64(), 0.000001)
}

func TestCalculateSocialSecurityBenefit_InvalidBirthYear(t *testing.T) {
	SetNowFunc(func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) })
	defer SetNowFunc(time.Now)

	for _, year := range []int{0, 1850, 1900, 2025, 2100} {
		_, err := CalculateSocialSecurityBenefit(domain.SocialSecurityParams{BirthYear: year, ClaimingAge: dec("67"), AIME: dec("3000")})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "birth year %d", year)
	}

	_, err := CalculateSocialSecurityBenefit(domain.SocialSecurityParams{BirthYear: 1901, ClaimingAge: dec("67"), AIME: dec("3000")})
	assert.NoError(t, err)
}

func TestEarlyClaimingLessAndDelayedClaimingMore(t *testing.T) {
	for birthYear := 1943; birthYear <= 1990; birthYear++ {
		for _, aime := range []string{"250", "1174", "4200.55", "7078", "12000"} {
			benefitAt := func(age decimal.Decimal) decimal.Decimal {
				result, err := CalculateSocialSecurityBenefit(domain.SocialSecurityParams{BirthYear: birthYear, ClaimingAge: age, AIME: dec(aime)})
				require.NoError(t, err)
				return result.MonthlyBenefit
			}

			fra := NewSocialSecurityCalculator(birthYear, decimal.Zero).FullRetirementAge
			atEarly := benefitAt(decimal.NewFromInt(62))
			atFRA := benefitAt(fra)
			atLate := benefitAt(decimal.NewFromInt(70))

			assert.True(t, atEarly.LessThan(atFRA), "born %d AIME %s: 62 %s vs FRA %s", birthYear, aime, atEarly, atFRA)
			assert.True(t, atLate.GreaterThan(atFRA), "born %d AIME %s: 70 %s vs FRA %s", birthYear, aime, atLate, atFRA)
		}
	}
}

func TestAIMEFromEarnings(t *testing.T) {
	full := make([]decimal.Decimal, 0, 40)
	for i := 0; i < 35; i++ {
		full = append(full, dec("60000"))
	}
	for i := 0; i < 5; i++ {
		full = append([]decimal.Decimal{dec("1000")}, full...)
	}
	assert.True(t, AIMEFromEarnings(full).Equal(dec("5000")), "only the highest 35 years count")

	short := []decimal.Decimal{dec("42000"), dec("42000"), dec("42000"), dec("42000"), dec("42000"),
		dec("42000"), dec("42000"), dec("42000"), dec("42000"), dec("42000")}
	assert.True(t, AIMEFromEarnings(short).Equal(dec("1000")), "missing years count as zero")
	assert.True(t, AIMEFromEarnings(nil).IsZero())

	result, err := CalculateSocialSecurityBenefit(domain.SocialSecurityParams{BirthYear: 1960, ClaimingAge: dec("67"), EarningsHistory: short})
	require.NoError(t, err)
	assert.True(t, result.AIME.Equal(dec("1000")))
	assert.True(t, result.MonthlyBenefit.Equal(dec("900")))
}

func TestDelayedRetirementCredits(t *testing.T) {
	tests := []struct {
		name               string
		claimingAge        string
		expectedCredits    string
		expectedAdditional string
	}{
		{"At FRA", "67", "0", "0"},
		{"Before FRA", "64", "0", "0"},
		{"Eighteen months late", "68.5", "0.12", "120"},
		{"At 70", "70", "0.24", "240"},
		{"Past 70 is capped", "71", "0.24", "240"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DelayedRetirementCredits(dec("67"), dec(tt.claimingAge), dec("1000"))
			assert.True(t, got.CreditsPercentage.Equal(dec(tt.expectedCredits)), "credits %s", got.CreditsPercentage)
			assert.True(t, got.AdditionalBenefit.Equal(dec(tt.expectedAdditional)), "additional %s", got.AdditionalBenefit)
			assert.True(t, got.TotalBenefit.Equal(dec("1000").Add(got.AdditionalBenefit)))
		})
	}
}

func TestSpousalBenefit(t *testing.T) {
	tests := []struct {
		name            string
		higher          string
		own             string
		expectedSpousal string
		expectedTotal   string
	}{
		{"Spousal exceeds own", "3000", "1000", "1500", "1500"},
		{"Own exceeds spousal", "3000", "2000", "1500", "2000"},
		{"Equal", "3000", "1500", "1500", "1500"},
		{"No own benefit", "2400", "0", "1200", "1200"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SpousalBenefit(dec(tt.higher), dec(tt.own))
			assert.True(t, got.SpousalBenefit.Equal(dec(tt.higher).Mul(dec("0.5"))))
			assert.True(t, got.SpousalBenefit.Equal(dec(tt.expectedSpousal)))
			assert.True(t, got.TotalBenefit.Equal(dec(tt.expectedTotal)), "total %s", got.TotalBenefit)
		})
	}
}

func TestSurvivorBenefit(t *testing.T) {
	fra := dec("67")
	assert.True(t, SurvivorBenefit(dec("2000"), dec("59"), fra).IsZero())
	assert.True(t, SurvivorBenefit(dec("2000"), dec("60"), fra).Equal(dec("1430")))
	assert.True(t, SurvivorBenefit(dec("2000"), dec("63.5"), fra).Equal(dec("1715")))
	assert.True(t, SurvivorBenefit(dec("2000"), dec("67"), fra).Equal(dec("2000")))
	assert.True(t, SurvivorBenefit(dec("2000"), dec("75"), fra).Equal(dec("2000")))
}

func TestSocialSecurityCOLA(t *testing.T) {
	assert.True(t, SocialSecurityCOLA(dec("1000"), 0, dec("0.03")).Equal(dec("1000")))
	assert.True(t, SocialSecurityCOLA(dec("1000"), 5, decimal.Zero).Equal(dec("1000")))
	assert.True(t, SocialSecurityCOLA(dec("1000"), 2, dec("0.025")).Equal(dec("1050.625")))
	assert.True(t, SocialSecurityCOLA(dec("1000"), -1, dec("0.025")).Equal(dec("1000")))
}
