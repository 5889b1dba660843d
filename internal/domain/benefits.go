package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// SocialSecurityParams are the inputs to the Social Security engine.
// AIME is average indexed monthly earnings; when it is zero and EarningsHistory is
// supplied the engine derives AIME from the history.
type SocialSecurityParams struct {
	BirthYear       int               `yaml:"birth_year" json:"birth_year"`
	ClaimingAge     decimal.Decimal   `yaml:"claiming_age" json:"claiming_age"`
	AIME            decimal.Decimal   `yaml:"aime" json:"aime" validate:"gte=0"`
	EarningsHistory []decimal.Decimal `yaml:"earnings_history,omitempty" json:"earnings_history,omitempty" validate:"dive,gte=0"`
}

// SocialSecurityResult is the output of the Social Security engine.
// At most one of EarlyReductionPercentage and DelayedCreditPercentage is non-zero.
type SocialSecurityResult struct {
	BirthYear                int             `json:"birth_year"`
	ClaimingAge              decimal.Decimal `json:"claiming_age"`
	FullRetirementAge        decimal.Decimal `json:"full_retirement_age"`
	AIME                     decimal.Decimal `json:"aime"`
	PIA                      decimal.Decimal `json:"pia"`
	MonthlyBenefit           decimal.Decimal `json:"monthly_benefit"`
	AnnualBenefit            decimal.Decimal `json:"annual_benefit"`
	Eligible                 bool            `json:"eligible"`
	EarlyReductionPercentage decimal.Decimal `json:"early_reduction_percentage"`
	DelayedCreditPercentage  decimal.Decimal `json:"delayed_credit_percentage"`
}

// DelayedCredits is the result of applying delayed retirement credits to a benefit.
type DelayedCredits struct {
	CreditsPercentage decimal.Decimal `json:"credits_percentage"`
	AdditionalBenefit decimal.Decimal `json:"additional_benefit"`
	TotalBenefit      decimal.Decimal `json:"total_benefit"`
}

// SpousalResult holds the spousal benefit and what the claimant actually receives.
type SpousalResult struct {
	SpousalBenefit decimal.Decimal `json:"spousal_benefit"`
	TotalBenefit   decimal.Decimal `json:"total_benefit"`
}

// MedicarePremium is the monthly Part B cost for one beneficiary.
type MedicarePremium struct {
	PartB           decimal.Decimal `json:"part_b"`
	IRMAAAdjustment decimal.Decimal `json:"irmaa_adjustment"`
	TotalPremium    decimal.Decimal `json:"total_premium"`
	Tier            int             `json:"tier"`
}

// ClaimingOption is one candidate claiming age in a break-even analysis.
type ClaimingOption struct {
	Age                  int             `json:"age"`
	MonthlyBenefit       decimal.Decimal `json:"monthly_benefit"`
	TotalLifetimeBenefit decimal.Decimal `json:"total_lifetime_benefit"`
}

// ClaimingAnalysis is the recommendation produced by the claiming-age optimiser.
type ClaimingAnalysis struct {
	RecommendedAge       int              `json:"recommended_age"`
	MonthlyBenefit       decimal.Decimal  `json:"monthly_benefit"`
	TotalLifetimeBenefit decimal.Decimal  `json:"total_lifetime_benefit"`
	BreakEvenAge         decimal.Decimal  `json:"break_even_age"`
	Candidates           []ClaimingOption `json:"candidates"`
	Reasoning            string           `json:"reasoning"`
}

// FilingStatus is the federal filing status; MA follows the same status.
type FilingStatus int

const (
	Single FilingStatus = iota
	MarriedFilingJointly
	MarriedFilingSeparately
	HeadOfHousehold
)

func (f FilingStatus) Valid() bool {
	return f >= Single && f <= HeadOfHousehold
}

func (f FilingStatus) String() string {
	switch f {
	case Single:
		return "single"
	case MarriedFilingJointly:
		return "married_filing_jointly"
	case MarriedFilingSeparately:
		return "married_filing_separately"
	case HeadOfHousehold:
		return "head_of_household"
	default:
		return fmt.Sprintf("filing_status(%d)", int(f))
	}
}

// ParseFilingStatus accepts the canonical names plus "mfj", "mfs", "hoh".
func ParseFilingStatus(s string) (FilingStatus, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	n = strings.NewReplacer("-", "_", " ", "_").Replace(n)
	switch n {
	case "", "single":
		return Single, nil
	case "married_filing_jointly", "mfj", "joint":
		return MarriedFilingJointly, nil
	case "married_filing_separately", "mfs", "separate":
		return MarriedFilingSeparately, nil
	case "head_of_household", "hoh":
		return HeadOfHousehold, nil
	}
	return 0, fmt.Errorf("%w: unknown filing status %q", ErrInvalidInput, s)
}

func (f FilingStatus) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("%w: unknown filing status %d", ErrInvalidInput, int(f))
	}
	return []byte(f.String()), nil
}

func (f *FilingStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseFilingStatus(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// TaxParams are the inputs to the tax engine. All amounts are annual.
type TaxParams struct {
	GrossPension        decimal.Decimal `yaml:"gross_pension" json:"gross_pension"`
	GrossSocialSecurity decimal.Decimal `yaml:"gross_social_security" json:"gross_social_security"`
	OtherIncome         decimal.Decimal `yaml:"other_income" json:"other_income"`
	FilingStatus        FilingStatus    `yaml:"filing_status" json:"filing_status"`
	Age65OrOlder        bool            `yaml:"age_65_or_older" json:"age_65_or_older"`
	// PensionTaxableInMA is set for pensions that are not MA contributory public
	// pensions; those are part of MA taxable income.
	PensionTaxableInMA bool `yaml:"pension_taxable_in_ma,omitempty" json:"pension_taxable_in_ma,omitempty"`
}

// BracketBreakdown is the tax owed on the slice of income falling in one bracket.
type BracketBreakdown struct {
	Min           decimal.Decimal `json:"min"`
	Max           decimal.Decimal `json:"max"` // zero means unbounded
	Rate          decimal.Decimal `json:"rate"`
	TaxableAmount decimal.Decimal `json:"taxable_amount"`
	Tax           decimal.Decimal `json:"tax"`
}

// TaxResult is the output of the tax engine.
type TaxResult struct {
	GrossIncome           decimal.Decimal    `json:"gross_income"`
	FilingStatus          FilingStatus       `json:"filing_status"`
	TaxableSocialSecurity decimal.Decimal    `json:"taxable_social_security"`
	StandardDeduction     decimal.Decimal    `json:"standard_deduction"`
	FederalTaxableIncome  decimal.Decimal    `json:"federal_taxable_income"`
	FederalTax            decimal.Decimal    `json:"federal_tax"`
	FederalMarginalRate   decimal.Decimal    `json:"federal_marginal_rate"`
	FederalBrackets       []BracketBreakdown `json:"federal_brackets"`
	StateExemption        decimal.Decimal    `json:"state_exemption"`
	StateTaxableIncome    decimal.Decimal    `json:"state_taxable_income"`
	StateTax              decimal.Decimal    `json:"state_tax"`
	StateMarginalRate     decimal.Decimal    `json:"state_marginal_rate"`
	StateBrackets         []BracketBreakdown `json:"state_brackets"`
	TotalTax              decimal.Decimal    `json:"total_tax"`
	NetIncome             decimal.Decimal    `json:"net_income"`
	EffectiveRate         decimal.Decimal    `json:"effective_rate"`
	MarginalRate          decimal.Decimal    `json:"marginal_rate"`
}

// CombineInput gathers the engine results the combiner merges. Spousal and Medicare
// are optional; when Spousal is set its TotalBenefit replaces the own SS benefit.
type CombineInput struct {
	Pension            *PensionResult
	SocialSecurity     *SocialSecurityResult
	Spousal            *SpousalResult
	Medicare           *MedicarePremium
	OtherAnnualIncome  decimal.Decimal
	FilingStatus       FilingStatus
	Age65OrOlder       bool
	PensionTaxableInMA bool
}

// CombinedResult is the single income, tax and net-income summary for one calculation.
type CombinedResult struct {
	MonthlyPension          decimal.Decimal `json:"monthly_pension"`
	MonthlySocialSecurity   decimal.Decimal `json:"monthly_social_security"`
	MonthlyOtherIncome      decimal.Decimal `json:"monthly_other_income"`
	TotalMonthlyIncome      decimal.Decimal `json:"total_monthly_income"`
	AnnualPension           decimal.Decimal `json:"annual_pension"`
	AnnualSocialSecurity    decimal.Decimal `json:"annual_social_security"`
	AnnualOtherIncome       decimal.Decimal `json:"annual_other_income"`
	TotalAnnualIncome       decimal.Decimal `json:"total_annual_income"`
	Tax                     TaxResult       `json:"tax"`
	NetAnnualIncome         decimal.Decimal `json:"net_annual_income"`
	NetMonthlyIncome        decimal.Decimal `json:"net_monthly_income"`
	AnnualMedicarePremium   decimal.Decimal `json:"annual_medicare_premium"`
	NetAnnualAfterMedicare  decimal.Decimal `json:"net_annual_after_medicare"`
	NetMonthlyAfterMedicare decimal.Decimal `json:"net_monthly_after_medicare"`
}
