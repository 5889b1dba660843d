package calculation

import (
	"fmt"

	"github.com/mapension/retirement-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. Federal: 2024 brackets and standard deductions for every filing status. The extra
//    deduction for age 65+ is taken once (one taxpayer per calculation).
//
// 2. Social Security: the taxable share follows the IRS provisional income worksheet
//    (0%, up to 50%, up to 85%). Married filing separately has zero base amounts.
//
// 3. Massachusetts: 5.0% on MA taxable income plus the 4% surtax above $1,053,750.
//    Social Security and contributory MA public pensions are exempt. The personal
//    exemption is $4,400 single/MFS, $6,800 HoH, $8,800 MFJ, plus $700 at 65+.

// TaxBracket is one progressive bracket. A zero Max means the bracket is unbounded.
type TaxBracket struct {
	Min  decimal.Decimal
	Max  decimal.Decimal
	Rate decimal.Decimal
}

func brackets(rates []string, bounds ...int64) []TaxBracket {
	out := make([]TaxBracket, len(rates))
	lower := decimal.Zero
	for i, r := range rates {
		out[i] = TaxBracket{Min: lower, Rate: dec(r)}
		if i < len(bounds) {
			out[i].Max = decimal.NewFromInt(bounds[i])
			lower = out[i].Max
		}
	}
	return out
}

var (
	ssHalf            = dec("0.5")
	ssMaxTaxableShare = dec("0.85")
)

var federalRates2024 = []string{"0.10", "0.12", "0.22", "0.24", "0.32", "0.35", "0.37"}

// applyBrackets taxes income progressively. It returns the tax, the per-bracket breakdown
// for every bracket the income reaches, and the rate of the highest bracket reached.
func applyBrackets(income decimal.Decimal, table []TaxBracket) (decimal.Decimal, []domain.BracketBreakdown, decimal.Decimal) {
	total := decimal.Zero
	marginal := decimal.Zero
	breakdown := make([]domain.BracketBreakdown, 0, len(table))
	if !income.IsPositive() {
		return total, breakdown, marginal
	}

	for _, bracket := range table {
		if income.LessThanOrEqual(bracket.Min) {
			break
		}
		upper := income
		if !bracket.Max.IsZero() {
			upper = decimal.Min(income, bracket.Max)
		}
		amount := upper.Sub(bracket.Min)
		tax := amount.Mul(bracket.Rate)
		total = total.Add(tax)
		marginal = bracket.Rate
		breakdown = append(breakdown, domain.BracketBreakdown{
			Min:           bracket.Min,
			Max:           bracket.Max,
			Rate:          bracket.Rate,
			TaxableAmount: amount,
			Tax:           tax,
		})
	}
	return total, breakdown, marginal
}

// FederalTaxCalculator handles federal income tax calculations
type FederalTaxCalculator struct {
	Year               int
	StandardDeductions map[domain.FilingStatus]decimal.Decimal
	// AdditionalStdDed is the extra deduction for a taxpayer aged 65 or older.
	AdditionalStdDed map[domain.FilingStatus]decimal.Decimal
	Brackets         map[domain.FilingStatus][]TaxBracket
}

// NewFederalTaxCalculator2024 creates a new federal tax calculator for 2024
func NewFederalTaxCalculator2024() *FederalTaxCalculator {
	return &FederalTaxCalculator{
		Year: 2024,
		StandardDeductions: map[domain.FilingStatus]decimal.Decimal{
			domain.Single:                  decimal.NewFromInt(14600),
			domain.MarriedFilingJointly:    decimal.NewFromInt(29200),
			domain.MarriedFilingSeparately: decimal.NewFromInt(14600),
			domain.HeadOfHousehold:         decimal.NewFromInt(21900),
		},
		AdditionalStdDed: map[domain.FilingStatus]decimal.Decimal{
			domain.Single:                  decimal.NewFromInt(1950),
			domain.MarriedFilingJointly:    decimal.NewFromInt(1550),
			domain.MarriedFilingSeparately: decimal.NewFromInt(1550),
			domain.HeadOfHousehold:         decimal.NewFromInt(1950),
		},
		Brackets: map[domain.FilingStatus][]TaxBracket{
			domain.Single:                  brackets(federalRates2024, 11600, 47150, 100525, 191950, 243725, 609350),
			domain.MarriedFilingJointly:    brackets(federalRates2024, 23200, 94300, 201050, 383900, 487450, 731200),
			domain.MarriedFilingSeparately: brackets(federalRates2024, 11600, 47150, 100525, 191950, 243725, 365600),
			domain.HeadOfHousehold:         brackets(federalRates2024, 16550, 63100, 100500, 191950, 243700, 609350),
		},
	}
}

// StandardDeduction returns the standard deduction for a filing status.
func (ftc *FederalTaxCalculator) StandardDeduction(status domain.FilingStatus, age65OrOlder bool) decimal.Decimal {
	deduction := ftc.StandardDeductions[status]
	if age65OrOlder {
		deduction = deduction.Add(ftc.AdditionalStdDed[status])
	}
	return deduction
}

// CalculateFederalTax taxes already-deducted taxable income.
func (ftc *FederalTaxCalculator) CalculateFederalTax(taxableIncome decimal.Decimal, status domain.FilingStatus) (decimal.Decimal, []domain.BracketBreakdown, decimal.Decimal) {
	return applyBrackets(taxableIncome, ftc.Brackets[status])
}

// MassachusettsTaxCalculator handles Massachusetts personal income tax
type MassachusettsTaxCalculator struct {
	Year         int
	Brackets     []TaxBracket
	Exemptions   map[domain.FilingStatus]decimal.Decimal
	AgeExemption decimal.Decimal
}

// NewMassachusettsTaxCalculator2024 creates a new Massachusetts calculator for 2024
func NewMassachusettsTaxCalculator2024() *MassachusettsTaxCalculator {
	return &MassachusettsTaxCalculator{
		Year: 2024,
		// 5.0% flat, 9.0% once the 4% surtax applies
		Brackets: brackets([]string{"0.05", "0.09"}, 1053750),
		Exemptions: map[domain.FilingStatus]decimal.Decimal{
			domain.Single:                  decimal.NewFromInt(4400),
			domain.MarriedFilingJointly:    decimal.NewFromInt(8800),
			domain.MarriedFilingSeparately: decimal.NewFromInt(4400),
			domain.HeadOfHousehold:         decimal.NewFromInt(6800),
		},
		AgeExemption: decimal.NewFromInt(700),
	}
}

// Exemption returns the MA personal exemption.
func (mtc *MassachusettsTaxCalculator) Exemption(status domain.FilingStatus, age65OrOlder bool) decimal.Decimal {
	exemption := mtc.Exemptions[status]
	if age65OrOlder {
		exemption = exemption.Add(mtc.AgeExemption)
	}
	return exemption
}

// SSTaxCalculator handles Social Security taxation calculations
type SSTaxCalculator struct {
	BaseAmounts         map[domain.FilingStatus]decimal.Decimal
	AdjustedBaseAmounts map[domain.FilingStatus]decimal.Decimal
}

// NewSSTaxCalculator creates a new Social Security tax calculator
func NewSSTaxCalculator() *SSTaxCalculator {
	return &SSTaxCalculator{
		BaseAmounts: map[domain.FilingStatus]decimal.Decimal{
			domain.Single:                  decimal.NewFromInt(25000),
			domain.MarriedFilingJointly:    decimal.NewFromInt(32000),
			domain.MarriedFilingSeparately: decimal.Zero,
			domain.HeadOfHousehold:         decimal.NewFromInt(25000),
		},
		AdjustedBaseAmounts: map[domain.FilingStatus]decimal.Decimal{
			domain.Single:                  decimal.NewFromInt(34000),
			domain.MarriedFilingJointly:    decimal.NewFromInt(44000),
			domain.MarriedFilingSeparately: decimal.Zero,
			domain.HeadOfHousehold:         decimal.NewFromInt(34000),
		},
	}
}

// CalculateProvisionalIncome is other income plus half of the Social Security benefits.
func (sstc *SSTaxCalculator) CalculateProvisionalIncome(otherIncome, ssBenefits decimal.Decimal) decimal.Decimal {
	return otherIncome.Add(ssBenefits.Mul(ssHalf))
}

// CalculateTaxableSocialSecurity determines the federally taxable portion of annual
// Social Security benefits, never more than 85% of them.
func (sstc *SSTaxCalculator) CalculateTaxableSocialSecurity(ssBenefits, otherIncome decimal.Decimal, status domain.FilingStatus) decimal.Decimal {
	if !ssBenefits.IsPositive() {
		return decimal.Zero
	}
	provisional := sstc.CalculateProvisionalIncome(otherIncome, ssBenefits)
	base := sstc.BaseAmounts[status]
	adjusted := sstc.AdjustedBaseAmounts[status]

	if provisional.LessThanOrEqual(base) {
		return decimal.Zero
	}
	if provisional.LessThanOrEqual(adjusted) {
		return decimal.Min(provisional.Sub(base).Mul(ssHalf), ssBenefits.Mul(ssHalf))
	}
	firstTier := decimal.Min(adjusted.Sub(base).Mul(ssHalf), ssBenefits.Mul(ssHalf))
	taxable := provisional.Sub(adjusted).Mul(ssMaxTaxableShare).Add(firstTier)
	return decimal.Min(taxable, ssBenefits.Mul(ssMaxTaxableShare))
}

// TaxCalculator combines the federal, Massachusetts and Social Security rules.
type TaxCalculator struct {
	Federal   *FederalTaxCalculator
	State     *MassachusettsTaxCalculator
	SSTaxCalc *SSTaxCalculator
}

// NewTaxCalculator creates a tax calculator with the 2024 tables.
func NewTaxCalculator() *TaxCalculator {
	return &TaxCalculator{
		Federal:   NewFederalTaxCalculator2024(),
		State:     NewMassachusettsTaxCalculator2024(),
		SSTaxCalc: NewSSTaxCalculator(),
	}
}

// CalculateRetirementTaxes computes federal and Massachusetts tax on annual retirement
// income. Negative amounts are treated as zero.
func (tc *TaxCalculator) CalculateRetirementTaxes(params domain.TaxParams) (domain.TaxResult, error) {
	if !params.FilingStatus.Valid() {
		return domain.TaxResult{}, fmt.Errorf("%w: unknown filing status %d", domain.ErrInvalidInput, int(params.FilingStatus))
	}

	pension := decimal.Max(params.GrossPension, decimal.Zero)
	ss := decimal.Max(params.GrossSocialSecurity, decimal.Zero)
	other := decimal.Max(params.OtherIncome, decimal.Zero)
	gross := pension.Add(ss).Add(other)

	taxableSS := tc.SSTaxCalc.CalculateTaxableSocialSecurity(ss, pension.Add(other), params.FilingStatus)
	deduction := tc.Federal.StandardDeduction(params.FilingStatus, params.Age65OrOlder)
	federalTaxable := decimal.Max(pension.Add(other).Add(taxableSS).Sub(deduction), decimal.Zero)
	federalTax, federalBrackets, federalMarginal := tc.Federal.CalculateFederalTax(federalTaxable, params.FilingStatus)

	stateIncome := other
	if params.PensionTaxableInMA {
		stateIncome = stateIncome.Add(pension)
	}
	exemption := tc.State.Exemption(params.FilingStatus, params.Age65OrOlder)
	stateTaxable := decimal.Max(stateIncome.Sub(exemption), decimal.Zero)
	stateTax, stateBrackets, stateMarginal := applyBrackets(stateTaxable, tc.State.Brackets)

	total := federalTax.Add(stateTax)
	effective := decimal.Zero
	if gross.IsPositive() {
		effective = total.Div(gross)
	}

	return domain.TaxResult{
		GrossIncome:           gross,
		FilingStatus:          params.FilingStatus,
		TaxableSocialSecurity: taxableSS,
		StandardDeduction:     deduction,
		FederalTaxableIncome:  federalTaxable,
		FederalTax:            federalTax,
		FederalMarginalRate:   federalMarginal,
		FederalBrackets:       federalBrackets,
		StateExemption:        exemption,
		StateTaxableIncome:    stateTaxable,
		StateTax:              stateTax,
		StateMarginalRate:     stateMarginal,
		StateBrackets:         stateBrackets,
		TotalTax:              total,
		NetIncome:             gross.Sub(total),
		EffectiveRate:         effective,
		MarginalRate:          federalMarginal.Add(stateMarginal),
	}, nil
}

// CalculateRetirementTaxes is a convenience wrapper using the 2024 tables; the pension is
// treated as an MA public pension.
func CalculateRetirementTaxes(grossPension, grossSS, otherIncome decimal.Decimal, status domain.FilingStatus, age65OrOlder bool) (domain.TaxResult, error) {
	return NewTaxCalculator().CalculateRetirementTaxes(domain.TaxParams{
		GrossPension:        grossPension,
		GrossSocialSecurity: grossSS,
		OtherIncome:         otherIncome,
		FilingStatus:        status,
		Age65OrOlder:        age65OrOlder,
	})
}
