package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidInput marks malformed input: an unknown enum value or an implausible
// birth year. Business inputs that are merely incomplete never produce it.
var ErrInvalidInput = errors.New("invalid input")

// RetirementGroup is the MA retirement classification of a member's position.
type RetirementGroup int

const (
	Group1 RetirementGroup = iota + 1 // general employees
	Group2                            // certain hazardous duty positions
	Group3                            // state police
	Group4                            // public safety (police, fire)
)

// Valid reports whether g is one of the four MA groups.
func (g RetirementGroup) Valid() bool {
	return g >= Group1 && g <= Group4
}

func (g RetirementGroup) String() string {
	switch g {
	case Group1:
		return "group1"
	case Group2:
		return "group2"
	case Group3:
		return "group3"
	case Group4:
		return "group4"
	default:
		return fmt.Sprintf("group(%d)", int(g))
	}
}

// ParseRetirementGroup accepts "1", "group1", "GROUP_1", "Group 1" and similar spellings.
func ParseRetirementGroup(s string) (RetirementGroup, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	n = strings.NewReplacer("_", "", "-", "", " ", "").Replace(n)
	n = strings.TrimPrefix(n, "group")
	switch n {
	case "1":
		return Group1, nil
	case "2":
		return Group2, nil
	case "3":
		return Group3, nil
	case "4":
		return Group4, nil
	}
	return 0, fmt.Errorf("%w: unknown retirement group %q", ErrInvalidInput, s)
}

func (g RetirementGroup) MarshalText() ([]byte, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("%w: unknown retirement group %d", ErrInvalidInput, int(g))
	}
	return []byte(g.String()), nil
}

func (g *RetirementGroup) UnmarshalText(text []byte) error {
	parsed, err := ParseRetirementGroup(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// ServiceEra separates members hired before April 2, 2012 from those hired on or after
// it; pension reform changed eligibility ages and the benefit-factor tables.
type ServiceEra int

const (
	EraPost2012 ServiceEra = iota
	EraPre2012
)

// ReformDate is the first day of membership under the 2012 pension reform.
var ReformDate = time.Date(2012, time.April, 2, 0, 0, 0, 0, time.UTC)

// ServiceEraForHireDate returns the era for a membership start date.
func ServiceEraForHireDate(hireDate time.Time) ServiceEra {
	if hireDate.Before(ReformDate) {
		return EraPre2012
	}
	return EraPost2012
}

func (e ServiceEra) String() string {
	if e == EraPre2012 {
		return "pre_2012"
	}
	return "post_2012"
}

func (e ServiceEra) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

func (e *ServiceEra) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "post_2012", "post2012", "after_2012":
		*e = EraPost2012
	case "pre_2012", "pre2012", "before_2012":
		*e = EraPre2012
	default:
		return fmt.Errorf("%w: unknown service era %q", ErrInvalidInput, string(text))
	}
	return nil
}

// RetirementOption is the benefit payment option elected at retirement.
type RetirementOption int

const (
	OptionA RetirementOption = iota // full allowance, nothing to a survivor
	OptionB                         // reduced allowance, refund of remaining contributions
	OptionC                         // joint and survivor, 2/3 continues to the beneficiary
)

func (o RetirementOption) Valid() bool {
	return o >= OptionA && o <= OptionC
}

func (o RetirementOption) String() string {
	switch o {
	case OptionA:
		return "A"
	case OptionB:
		return "B"
	case OptionC:
		return "C"
	default:
		return fmt.Sprintf("option(%d)", int(o))
	}
}

// ParseRetirementOption accepts "A", "b", "option c".
func ParseRetirementOption(s string) (RetirementOption, error) {
	n := strings.ToUpper(strings.TrimSpace(s))
	n = strings.TrimSpace(strings.TrimPrefix(n, "OPTION"))
	switch n {
	case "", "A":
		return OptionA, nil
	case "B":
		return OptionB, nil
	case "C":
		return OptionC, nil
	}
	return 0, fmt.Errorf("%w: unknown retirement option %q", ErrInvalidInput, s)
}

func (o RetirementOption) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("%w: unknown retirement option %d", ErrInvalidInput, int(o))
	}
	return []byte(o.String()), nil
}

func (o *RetirementOption) UnmarshalText(text []byte) error {
	parsed, err := ParseRetirementOption(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// MemberProfile carries the career facts needed for a pension calculation.
// Age may be fractional when projecting a future retirement date.
type MemberProfile struct {
	Age            decimal.Decimal   `yaml:"age" json:"age" validate:"gte=0"`
	YearsOfService decimal.Decimal   `yaml:"years_of_service" json:"years_of_service" validate:"gte=0"`
	Group          RetirementGroup   `yaml:"group" json:"group" validate:"required"`
	Era            ServiceEra        `yaml:"service_era,omitempty" json:"service_era,omitempty"`
	Salaries       []decimal.Decimal `yaml:"salaries" json:"salaries" validate:"dive,gte=0"`
	Option         RetirementOption  `yaml:"option" json:"option"`
	BeneficiaryAge decimal.Decimal   `yaml:"beneficiary_age,omitempty" json:"beneficiary_age,omitempty" validate:"gte=0"`
}

// PensionResult is the output of the pension engine.
type PensionResult struct {
	AverageSalary          decimal.Decimal  `json:"average_salary"`
	BenefitFactor          decimal.Decimal  `json:"benefit_factor"`
	TotalBenefitPercentage decimal.Decimal  `json:"total_benefit_percentage"`
	UncappedAnnualPension  decimal.Decimal  `json:"uncapped_annual_pension"`
	CappedAnnualPension    decimal.Decimal  `json:"capped_annual_pension"`
	CapApplied             bool             `json:"cap_applied"`
	Option                 RetirementOption `json:"option"`
	OptionFactor           decimal.Decimal  `json:"option_factor"`
	AnnualPension          decimal.Decimal  `json:"annual_pension"`
	MonthlyPension         decimal.Decimal  `json:"monthly_pension"`
	SurvivorAnnualPension  decimal.Decimal  `json:"survivor_annual_pension"`
	SurvivorMonthlyPension decimal.Decimal  `json:"survivor_monthly_pension"`
	Eligible               bool             `json:"eligible"`
}
