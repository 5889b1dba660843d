package calculation

import (
	"testing"

	"github.com/mapension/retirement-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFederalTaxCalculation tests federal income tax on taxable income using 2024 brackets
func TestFederalTaxCalculation(t *testing.T) {
	calculator := NewFederalTaxCalculator2024()

	tests := []struct {
		name             string
		taxableIncome    string
		status           domain.FilingStatus
		expectedTax      string
		expectedMarginal string
	}{
		{"Zero income", "0", domain.Single, "0", "0"},
		{"Ten percent bracket only", "10000", domain.Single, "1000", "0.10"},
		{"Two single brackets", "32920", domain.Single, "3718.4", "0.12"},
		{"Top of the single 12% bracket", "47150", domain.Single, "5426", "0.12"},
		{"Joint filer spanning brackets", "70000", domain.MarriedFilingJointly, "7936", "0.12"},
		{"Head of household", "70000", domain.HeadOfHousehold, "8759", "0.22"},
		{"Separate filer top bracket", "400000", domain.MarriedFilingSeparately, "111062.75", "0.37"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tax, breakdown, marginal := calculator.CalculateFederalTax(dec(tt.taxableIncome), tt.status)
			assert.True(t, tax.Equal(dec(tt.expectedTax)), "Expected %s, got %s", tt.expectedTax, tax)
			assert.True(t, marginal.Equal(dec(tt.expectedMarginal)), "marginal %s", marginal)

			sum := decimal.Zero
			amount := decimal.Zero
			for _, b := range breakdown {
				sum = sum.Add(b.Tax)
				amount = amount.Add(b.TaxableAmount)
			}
			assert.True(t, sum.Equal(tax), "breakdown sums to %s", sum)
			assert.True(t, amount.Equal(dec(tt.taxableIncome)), "breakdown covers %s", amount)
		})
	}
}

func TestFederalStandardDeduction(t *testing.T) {
	calculator := NewFederalTaxCalculator2024()
	assert.True(t, calculator.StandardDeduction(domain.Single, false).Equal(dec("14600")))
	assert.True(t, calculator.StandardDeduction(domain.Single, true).Equal(dec("16550")))
	assert.True(t, calculator.StandardDeduction(domain.MarriedFilingJointly, false).Equal(dec("29200")))
	assert.True(t, calculator.StandardDeduction(domain.MarriedFilingJointly, true).Equal(dec("30750")))
	assert.True(t, calculator.StandardDeduction(domain.HeadOfHousehold, false).Equal(dec("21900")))
	assert.True(t, calculator.StandardDeduction(domain.MarriedFilingSeparately, true).Equal(dec("16150")))
}

func TestCalculateTaxableSocialSecurity(t *testing.T) {
	ssCalc := NewSSTaxCalculator()

	tests := []struct {
		name        string
		ss          string
		other       string
		status      domain.FilingStatus
		expectedTax string
	}{
		{"Below base amount", "20000", "5000", domain.Single, "0"},
		{"Between base amounts", "20000", "20000", domain.Single, "2500"},
		{"Between base amounts capped by half the benefit", "24000", "20000", domain.Single, "3500"},
		{"Above adjusted base amount", "20000", "30000", domain.Single, "9600"},
		{"Capped at 85% of benefits", "40000", "50000", domain.Single, "34000"},
		{"Joint below base amount", "30000", "15000", domain.MarriedFilingJointly, "0"},
		{"Joint above adjusted base amount", "30000", "70000", domain.MarriedFilingJointly, "25500"},
		{"Separate filers have no base amount", "20000", "1000", domain.MarriedFilingSeparately, "9350"},
		{"No benefits", "0", "90000", domain.Single, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ssCalc.CalculateTaxableSocialSecurity(dec(tt.ss), dec(tt.other), tt.status)
			assert.True(t, got.Equal(dec(tt.expectedTax)), "Expected %s, got %s", tt.expectedTax, got)
		})
	}
}

func TestCalculateRetirementTaxes_SinglePensioner(t *testing.T) {
	result, err := CalculateRetirementTaxes(dec("47520"), decimal.Zero, decimal.Zero, domain.Single, false)
	require.NoError(t, err)

	assert.True(t, result.GrossIncome.Equal(dec("47520")))
	assert.True(t, result.StandardDeduction.Equal(dec("14600")))
	assert.True(t, result.FederalTaxableIncome.Equal(dec("32920")))
	assert.True(t, result.FederalTax.Equal(dec("3718.4")), "federal %s", result.FederalTax)
	require.Len(t, result.FederalBrackets, 2)
	assert.True(t, result.FederalBrackets[1].TaxableAmount.Equal(dec("21320")))

	// MA public pension is exempt; nothing left after the exemption
	assert.True(t, result.StateTaxableIncome.IsZero())
	assert.True(t, result.StateTax.IsZero())
	assert.Empty(t, result.StateBrackets)

	assert.True(t, result.TotalTax.Equal(dec("3718.4")))
	assert.True(t, result.NetIncome.Equal(dec("43801.6")))
	assert.True(t, result.MarginalRate.Equal(dec("0.12")))
	assert.InDelta(t, 0.07825, result.EffectiveRate.InexactFloat64(), 0.0001)
}

func TestCalculateRetirementTaxes_JointWithSocialSecurity(t *testing.T) {
	tc := NewTaxCalculator()
	result, err := tc.CalculateRetirementTaxes(domain.TaxParams{
		GrossPension:        dec("60000"),
		GrossSocialSecurity: dec("30000"),
		OtherIncome:         dec("10000"),
		FilingStatus:        domain.MarriedFilingJointly,
		Age65OrOlder:        true,
	})
	require.NoError(t, err)

	assert.True(t, result.GrossIncome.Equal(dec("100000")))
	assert.True(t, result.TaxableSocialSecurity.Equal(dec("25500")), "taxable SS %s", result.TaxableSocialSecurity)
	assert.True(t, result.StandardDeduction.Equal(dec("30750")))
	assert.True(t, result.FederalTaxableIncome.Equal(dec("64750")))
	assert.True(t, result.FederalTax.Equal(dec("7306")), "federal %s", result.FederalTax)

	// MA taxes only the other income: 10,000 less the 8,800 + 700 exemption
	assert.True(t, result.StateExemption.Equal(dec("9500")))
	assert.True(t, result.StateTaxableIncome.Equal(dec("500")))
	assert.True(t, result.StateTax.Equal(dec("25")))

	assert.True(t, result.TotalTax.Equal(dec("7331")))
	assert.True(t, result.EffectiveRate.Equal(dec("0.07331")))
	assert.True(t, result.MarginalRate.Equal(dec("0.17")))
}

func TestCalculateRetirementTaxes_MassachusettsSurtax(t *testing.T) {
	result, err := CalculateRetirementTaxes(decimal.Zero, decimal.Zero, dec("2000000"), domain.Single, false)
	require.NoError(t, err)

	assert.True(t, result.StateTaxableIncome.Equal(dec("1995600")))
	assert.True(t, result.StateTax.Equal(dec("137454")), "state %s", result.StateTax)
	require.Len(t, result.StateBrackets, 2)
	assert.True(t, result.StateBrackets[1].Max.IsZero(), "surtax bracket is unbounded")
	assert.True(t, result.StateMarginalRate.Equal(dec("0.09")))
}

func TestCalculateRetirementTaxes_PensionTaxableInMA(t *testing.T) {
	result, err := NewTaxCalculator().CalculateRetirementTaxes(domain.TaxParams{
		GrossPension:       dec("50000"),
		FilingStatus:       domain.Single,
		PensionTaxableInMA: true,
	})
	require.NoError(t, err)
	assert.True(t, result.StateTaxableIncome.Equal(dec("45600")))
	assert.True(t, result.StateTax.Equal(dec("2280")))
}

func TestCalculateRetirementTaxes_ZeroIncome(t *testing.T) {
	result, err := CalculateRetirementTaxes(decimal.Zero, decimal.Zero, decimal.Zero, domain.HeadOfHousehold, true)
	require.NoError(t, err)
	assert.True(t, result.TotalTax.IsZero())
	assert.True(t, result.EffectiveRate.IsZero())
	assert.True(t, result.MarginalRate.IsZero())
	assert.Empty(t, result.FederalBrackets)
}

func TestCalculateRetirementTaxes_InvalidFilingStatus(t *testing.T) {
	_, err := CalculateRetirementTaxes(dec("50000"), decimal.Zero, decimal.Zero, domain.FilingStatus(9), false)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTaxRatesAndTotals(t *testing.T) {
	tc := NewTaxCalculator()
	statuses := []domain.FilingStatus{domain.Single, domain.MarriedFilingJointly, domain.MarriedFilingSeparately, domain.HeadOfHousehold}
	amounts := []string{"0", "9999.99", "25000", "47520", "120000", "650000", "1500000"}

	for _, status := range statuses {
		for _, pension := range amounts {
			for _, ss := range []string{"0", "18000", "42000"} {
				for _, other := range []string{"0", "12000", "1200000"} {
					for _, age65 := range []bool{false, true} {
						result, err := tc.CalculateRetirementTaxes(domain.TaxParams{
							GrossPension:        dec(pension),
							GrossSocialSecurity: dec(ss),
							OtherIncome:         dec(other),
							FilingStatus:        status,
							Age65OrOlder:        age65,
							PensionTaxableInMA:  pension == "650000",
						})
						require.NoError(t, err)
						assert.True(t, result.TotalTax.Equal(result.FederalTax.Add(result.StateTax)))
						assert.True(t, result.EffectiveRate.LessThanOrEqual(result.MarginalRate),
							"%s pension %s ss %s other %s: effective %s > marginal %s", status, pension, ss, other, result.EffectiveRate, result.MarginalRate)
						assert.True(t, result.NetIncome.Equal(result.GrossIncome.Sub(result.TotalTax)))
					}
				}
			}
		}
	}
}
