package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mapension/retirement-calculator/internal/calculation"
	"github.com/mapension/retirement-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of input configuration files
type InputParser struct {
	validate *validator.Validate
}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{validate: NewValidator()}
}

// NewValidator returns a validator that compares decimal fields as numbers, so tags
// such as gte=0 work on decimal.Decimal.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.InexactFloat64()
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes and validates a YAML configuration document.
func (ip *InputParser) Parse(data []byte) (*domain.Configuration, error) {
	var config domain.Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if err := ip.validate.Struct(config); err != nil {
		return describeValidationError(err)
	}

	seen := make(map[string]bool, len(config.Scenarios))
	for i := range config.Scenarios {
		scenario := &config.Scenarios[i]
		if seen[scenario.Name] {
			return fmt.Errorf("scenario %d: duplicate scenario name %q", i, scenario.Name)
		}
		seen[scenario.Name] = true

		if err := ip.validateScenario(scenario); err != nil {
			return fmt.Errorf("scenario %q validation failed: %w", scenario.Name, err)
		}
	}

	return nil
}

// validateScenario checks the rules struct tags cannot express.
func (ip *InputParser) validateScenario(scenario *domain.Scenario) error {
	member := scenario.Member
	if !member.Group.Valid() {
		return fmt.Errorf("%w: unknown retirement group %d", domain.ErrInvalidInput, int(member.Group))
	}
	if !member.Option.Valid() {
		return fmt.Errorf("%w: unknown retirement option %d", domain.ErrInvalidInput, int(member.Option))
	}
	if !scenario.Tax.FilingStatus.Valid() {
		return fmt.Errorf("%w: unknown filing status %d", domain.ErrInvalidInput, int(scenario.Tax.FilingStatus))
	}

	if scenario.Dates != nil {
		birth, hire, retirement, err := scenario.Dates.Parse()
		if err != nil {
			return err
		}
		if hire.Before(birth) {
			return fmt.Errorf("hire date cannot be before birth date")
		}
		if retirement.Before(hire) {
			return fmt.Errorf("retirement date cannot be before hire date")
		}
	}
	if len(member.Salaries) == 0 && len(scenario.SalaryHistory) == 0 {
		return fmt.Errorf("member salaries or a salary history are required")
	}

	if member.Option == domain.OptionC && member.BeneficiaryAge.IsZero() {
		return fmt.Errorf("beneficiary age is required for option C")
	}

	if ss := scenario.SocialSecurity; ss != nil {
		if ss.BirthYear == 0 && scenario.Dates == nil {
			return fmt.Errorf("social security birth year is required without member dates")
		}
		if ss.ClaimingAge.LessThan(decimal.NewFromInt(calculation.EarliestClaimingAge)) ||
			ss.ClaimingAge.GreaterThan(decimal.NewFromInt(calculation.MaxCreditAge)) {
			return fmt.Errorf("social security claiming age must be between %d and %d",
				calculation.EarliestClaimingAge, calculation.MaxCreditAge)
		}
		if ss.AIME.IsZero() && len(ss.EarningsHistory) == 0 {
			return fmt.Errorf("social security needs an AIME or an earnings history")
		}
	}

	if scenario.Spouse != nil && scenario.SocialSecurity == nil {
		return fmt.Errorf("a spousal comparison needs the member's social security settings")
	}
	if scenario.Claiming != nil && scenario.SocialSecurity == nil {
		return fmt.Errorf("a claiming analysis needs the member's social security settings")
	}

	return nil
}

// describeValidationError flattens validator errors into one readable message.
func describeValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Configuration.")
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", field, fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// Marshal renders a configuration as YAML.
func Marshal(config *domain.Configuration) ([]byte, error) {
	return yaml.Marshal(config)
}

// CreateExampleConfiguration creates an example configuration file
func (ip *InputParser) CreateExampleConfiguration() *domain.Configuration {
	d := decimal.RequireFromString

	return &domain.Configuration{
		Assumptions: domain.Assumptions{
			PensionCOLARate: d("0.03"),
			PensionCOLABase: calculation.DefaultMSRBCOLABase,
			SSCOLARate:      d("0.025"),
			ProjectionYears: 25,
		},
		Scenarios: []domain.Scenario{
			{
				Name: "Group 1 at 62, Option A",
				Member: domain.MemberProfile{
					Age:            d("62"),
					YearsOfService: d("30"),
					Group:          domain.Group1,
					Era:            domain.EraPost2012,
					Salaries:       []decimal.Decimal{d("70000"), d("72000"), d("74000")},
					Option:         domain.OptionA,
				},
				SocialSecurity: &domain.SocialSecurityParams{BirthYear: 1962, ClaimingAge: d("67"), AIME: d("3000")},
				Tax:            domain.TaxSettings{FilingStatus: domain.Single, OtherIncome: d("5000")},
				Medicare:       true,
				Claiming:       &domain.ClaimingSettings{LifeExpectancy: 88},
			},
			{
				Name: "Hired 1994, Option C, married",
				Member: domain.MemberProfile{
					Group:          domain.Group1,
					Option:         domain.OptionC,
					BeneficiaryAge: d("60"),
				},
				Dates: &domain.MemberDates{
					BirthDate:      "1962-03-15",
					HireDate:       "1994-07-01",
					RetirementDate: "2026-06-30",
				},
				SalaryHistory: []decimal.Decimal{
					d("78000"), d("81000"), d("84000"), d("86500"), d("88000"),
				},
				SocialSecurity: &domain.SocialSecurityParams{ClaimingAge: d("67"), AIME: d("3400")},
				Spouse:         &domain.SpouseSettings{MonthlyBenefit: d("2600")},
				Tax:            domain.TaxSettings{FilingStatus: domain.MarriedFilingJointly, Age65OrOlder: false, OtherIncome: d("12000")},
				Medicare:       true,
			},
			{
				Name: "Group 4 at 55",
				Member: domain.MemberProfile{
					Age:            d("55"),
					YearsOfService: d("32"),
					Group:          domain.Group4,
					Era:            domain.EraPost2012,
					Salaries:       []decimal.Decimal{d("98000"), d("101000"), d("104000"), d("106000"), d("109000")},
					Option:         domain.OptionB,
				},
				Tax: domain.TaxSettings{FilingStatus: domain.MarriedFilingJointly},
			},
		},
	}
}
