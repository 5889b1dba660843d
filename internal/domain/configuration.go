package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Configuration is the contents of a scenario file.
type Configuration struct {
	Assumptions Assumptions `yaml:"assumptions" json:"assumptions" validate:"required"`
	Scenarios   []Scenario  `yaml:"scenarios" json:"scenarios" validate:"required,min=1,dive"`
}

// Assumptions are the projection parameters shared by every scenario in a file.
type Assumptions struct {
	PensionCOLARate decimal.Decimal `yaml:"pension_cola_rate" json:"pension_cola_rate" validate:"gte=0,lte=0.2"`
	// PensionCOLABase is the portion of the annual allowance the MA COLA applies to.
	// Zero compounds the whole allowance.
	PensionCOLABase decimal.Decimal `yaml:"pension_cola_base" json:"pension_cola_base" validate:"gte=0"`
	SSCOLARate      decimal.Decimal `yaml:"ss_cola_rate" json:"ss_cola_rate" validate:"gte=0,lte=0.2"`
	ProjectionYears int             `yaml:"projection_years" json:"projection_years" validate:"gte=1,lte=50"`
}

// GenerateAssumptions lists the assumptions in a human readable form for reports.
func (a *Assumptions) GenerateAssumptions() []string {
	pct := decimal.NewFromInt(100)
	colaBase := "full allowance"
	if a.PensionCOLABase.IsPositive() {
		colaBase = "first $" + a.PensionCOLABase.StringFixed(0) + " of allowance"
	}
	return []string{
		fmt.Sprintf("Pension COLA: %s%% annually on %s", a.PensionCOLARate.Mul(pct).StringFixed(1), colaBase),
		fmt.Sprintf("Social Security COLA: %s%% annually", a.SSCOLARate.Mul(pct).StringFixed(1)),
		fmt.Sprintf("Projection horizon: %d years", a.ProjectionYears),
		"Federal brackets, standard deductions and Part B/IRMAA: 2024 values",
		"Massachusetts income tax: 5.0% plus 4% surtax above $1,053,750; SS and MA public pensions exempt",
	}
}

// Scenario is one retirement what-if: a member profile plus optional Social Security,
// spousal and tax settings.
type Scenario struct {
	Name   string        `yaml:"name" json:"name" validate:"required"`
	Member MemberProfile `yaml:"member" json:"member"`
	// Dates, when present, derive the member's age, years of service and era.
	Dates *MemberDates `yaml:"dates,omitempty" json:"dates,omitempty"`
	// SalaryHistory, when present, replaces Member.Salaries with the highest
	// consecutive window average for the member's era.
	SalaryHistory  []decimal.Decimal     `yaml:"salary_history,omitempty" json:"salary_history,omitempty" validate:"dive,gte=0"`
	SocialSecurity *SocialSecurityParams `yaml:"social_security,omitempty" json:"social_security,omitempty"`
	Spouse         *SpouseSettings       `yaml:"spouse,omitempty" json:"spouse,omitempty"`
	Tax            TaxSettings           `yaml:"tax" json:"tax"`
	Medicare       bool                  `yaml:"medicare,omitempty" json:"medicare,omitempty"`
	Claiming       *ClaimingSettings     `yaml:"claiming,omitempty" json:"claiming,omitempty"`
}

// SpouseSettings describe the higher-earning spouse for a spousal benefit comparison.
type SpouseSettings struct {
	MonthlyBenefit decimal.Decimal `yaml:"monthly_benefit" json:"monthly_benefit" validate:"gte=0"`
}

// TaxSettings are the per-scenario tax inputs; pension and SS amounts come from the engines.
type TaxSettings struct {
	FilingStatus       FilingStatus    `yaml:"filing_status" json:"filing_status"`
	Age65OrOlder       bool            `yaml:"age_65_or_older" json:"age_65_or_older"`
	OtherIncome        decimal.Decimal `yaml:"other_income" json:"other_income" validate:"gte=0"`
	PensionTaxableInMA bool            `yaml:"pension_taxable_in_ma,omitempty" json:"pension_taxable_in_ma,omitempty"`
}

// ClaimingSettings request a claiming-age break-even analysis for the scenario.
type ClaimingSettings struct {
	LifeExpectancy int             `yaml:"life_expectancy" json:"life_expectancy" validate:"gte=62,lte=120"`
	CurrentAge     decimal.Decimal `yaml:"current_age" json:"current_age" validate:"gte=0"`
}

// DateLayout is the layout of every date in a scenario file.
const DateLayout = "2006-01-02"

// MemberDates are the calendar dates a member profile can be derived from.
type MemberDates struct {
	BirthDate      string `yaml:"birth_date" json:"birth_date" validate:"required,datetime=2006-01-02"`
	HireDate       string `yaml:"hire_date" json:"hire_date" validate:"required,datetime=2006-01-02"`
	RetirementDate string `yaml:"retirement_date" json:"retirement_date" validate:"required,datetime=2006-01-02"`
}

// Parse returns the birth, hire and retirement dates.
func (md MemberDates) Parse() (birth, hire, retirement time.Time, err error) {
	if birth, err = time.Parse(DateLayout, md.BirthDate); err != nil {
		return birth, hire, retirement, fmt.Errorf("%w: birth_date: %v", ErrInvalidInput, err)
	}
	if hire, err = time.Parse(DateLayout, md.HireDate); err != nil {
		return birth, hire, retirement, fmt.Errorf("%w: hire_date: %v", ErrInvalidInput, err)
	}
	if retirement, err = time.Parse(DateLayout, md.RetirementDate); err != nil {
		return birth, hire, retirement, fmt.Errorf("%w: retirement_date: %v", ErrInvalidInput, err)
	}
	return birth, hire, retirement, nil
}
