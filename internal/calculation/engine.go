package calculation

import (
	"context"
	"fmt"

	"github.com/mapension/retirement-calculator/internal/domain"
	"github.com/mapension/retirement-calculator/pkg/dateutil"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// CalculationEngine orchestrates all retirement calculations
type CalculationEngine struct {
	TaxCalc      *TaxCalculator
	MedicareCalc *MedicareCalculator
	Combiner     *Combiner
	Logger       Logger
}

// NewCalculationEngine creates a new calculation engine
func NewCalculationEngine() *CalculationEngine {
	taxCalc := NewTaxCalculator()
	return &CalculationEngine{
		TaxCalc:      taxCalc,
		MedicareCalc: NewMedicareCalculator(),
		Combiner:     &Combiner{TaxCalc: taxCalc},
		Logger:       NopLogger{},
	}
}

// SetLogger sets the logger for the calculation engine. If nil is provided, a no-op logger is used.
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

// ResolveMember returns the member profile a scenario describes. Dates override the
// age, service and era fields; a salary history is reduced to the highest consecutive
// average for the member's era.
func ResolveMember(scenario *domain.Scenario) (domain.MemberProfile, error) {
	profile := scenario.Member
	if scenario.Dates != nil {
		birth, hire, retirement, err := scenario.Dates.Parse()
		if err != nil {
			return domain.MemberProfile{}, err
		}
		profile.Age = dateutil.ExactAge(birth, retirement)
		profile.YearsOfService = dateutil.YearsOfService(hire, retirement)
		profile.Era = domain.ServiceEraForHireDate(hire)
	}
	if len(scenario.SalaryHistory) > 0 {
		window := SalaryWindowForEra(profile.Era)
		profile.Salaries = []decimal.Decimal{HighestConsecutiveAverage(scenario.SalaryHistory, window)}
	}
	return profile, nil
}

// RunScenario calculates a complete retirement scenario
func (ce *CalculationEngine) RunScenario(ctx context.Context, assumptions *domain.Assumptions, scenario *domain.Scenario) (*domain.ScenarioResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	profile, err := ResolveMember(scenario)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}

	pension, err := CalculatePensionBenefit(profile)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: pension: %w", scenario.Name, err)
	}
	if !pension.Eligible {
		ce.Logger.Warnf("scenario %q: member is not eligible for a superannuation allowance (%s, age %s, %s years)",
			scenario.Name, profile.Group, profile.Age.StringFixed(2), profile.YearsOfService.StringFixed(2))
	}

	result := &domain.ScenarioResult{Name: scenario.Name, Pension: pension}

	if scenario.SocialSecurity != nil {
		params := *scenario.SocialSecurity
		if params.BirthYear == 0 && scenario.Dates != nil {
			if birth, _, _, err := scenario.Dates.Parse(); err == nil {
				params.BirthYear = birth.Year()
			}
		}
		ss, err := CalculateSocialSecurityBenefit(params)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: social security: %w", scenario.Name, err)
		}
		result.SocialSecurity = &ss

		if scenario.Spouse != nil {
			spousal := SpousalBenefit(scenario.Spouse.MonthlyBenefit, ss.MonthlyBenefit)
			result.Spousal = &spousal
		}

		if scenario.Claiming != nil {
			currentAge := scenario.Claiming.CurrentAge
			if currentAge.IsZero() {
				currentAge = profile.Age
			}
			claiming, err := OptimalClaimingAge(params.BirthYear, scenario.Claiming.LifeExpectancy, ss.AIME, currentAge)
			if err != nil {
				return nil, fmt.Errorf("scenario %q: claiming analysis: %w", scenario.Name, err)
			}
			result.Claiming = &claiming
		}
	}

	if scenario.Medicare {
		premium := ce.medicarePremium(result, scenario.Tax)
		result.Medicare = &premium
	}

	combined, err := ce.Combiner.Combine(domain.CombineInput{
		Pension:            &result.Pension,
		SocialSecurity:     result.SocialSecurity,
		Spousal:            result.Spousal,
		Medicare:           result.Medicare,
		OtherAnnualIncome:  scenario.Tax.OtherIncome,
		FilingStatus:       scenario.Tax.FilingStatus,
		Age65OrOlder:       scenario.Tax.Age65OrOlder,
		PensionTaxableInMA: scenario.Tax.PensionTaxableInMA,
	})
	if err != nil {
		return nil, fmt.Errorf("scenario %q: combine: %w", scenario.Name, err)
	}
	result.Combined = combined
	result.Projection = ce.projectIncome(assumptions, scenario, profile, result)

	ce.Logger.Debugf("scenario %q: pension %s, social security %s, total tax %s, net %s",
		scenario.Name,
		combined.AnnualPension.StringFixed(2),
		combined.AnnualSocialSecurity.StringFixed(2),
		combined.Tax.TotalTax.StringFixed(2),
		combined.NetAnnualIncome.StringFixed(2))
	return result, nil
}

// medicarePremium estimates MAGI from the scenario's income and prices Part B.
func (ce *CalculationEngine) medicarePremium(result *domain.ScenarioResult, tax domain.TaxSettings) domain.MedicarePremium {
	annualSS := decimal.Zero
	if result.SocialSecurity != nil {
		annualSS = result.SocialSecurity.AnnualBenefit
	}
	if result.Spousal != nil {
		annualSS = result.Spousal.TotalBenefit.Mul(twelve)
	}
	nonSS := result.Pension.AnnualPension.Add(tax.OtherIncome)
	taxableSS := ce.TaxCalc.SSTaxCalc.CalculateTaxableSocialSecurity(annualSS, nonSS, tax.FilingStatus)
	magi := EstimateMAGI(result.Pension.AnnualPension, taxableSS, tax.OtherIncome)
	return ce.MedicareCalc.Premium(magi, tax.FilingStatus)
}

// projectIncome builds the COLA-adjusted yearly income rows. Social Security starts in
// the first year the member has reached the claiming age.
func (ce *CalculationEngine) projectIncome(assumptions *domain.Assumptions, scenario *domain.Scenario, profile domain.MemberProfile, result *domain.ScenarioResult) []domain.ProjectionYear {
	startYear := nowFunc().Year()
	if scenario.Dates != nil {
		if _, _, retirement, err := scenario.Dates.Parse(); err == nil {
			startYear = retirement.Year()
		}
	}

	ssStart := 0
	if result.SocialSecurity != nil {
		if wait := result.SocialSecurity.ClaimingAge.Sub(profile.Age).Ceil(); wait.IsPositive() {
			ssStart = int(wait.IntPart())
		}
	}

	annualPension := result.Pension.AnnualPension
	annualSS := result.Combined.AnnualSocialSecurity
	other := result.Combined.AnnualOtherIncome

	rows := make([]domain.ProjectionYear, 0, assumptions.ProjectionYears)
	for y := 0; y < assumptions.ProjectionYears; y++ {
		pension := MSRBCOLAProjection(annualPension, y, assumptions.PensionCOLARate, assumptions.PensionCOLABase)
		survivor := decimal.Zero
		if result.Pension.Option == domain.OptionC {
			survivor = SurvivorShare(pension)
		}
		ss := decimal.Zero
		if y >= ssStart {
			ss = SocialSecurityCOLA(annualSS, y-ssStart, assumptions.SSCOLARate)
		}
		rows = append(rows, domain.ProjectionYear{
			Year:                 startYear + y,
			MemberAge:            profile.Age.Add(decimal.NewFromInt(int64(y))),
			AnnualPension:        pension,
			SurvivorPension:      survivor,
			AnnualSocialSecurity: ss,
			TotalAnnualIncome:    pension.Add(ss).Add(other),
		})
	}
	return rows
}

// RunScenarios runs all scenarios concurrently and returns a comparison in input order.
func (ce *CalculationEngine) RunScenarios(ctx context.Context, config *domain.Configuration) (*domain.ScenarioComparison, error) {
	results := make([]domain.ScenarioResult, len(config.Scenarios))
	g, gctx := errgroup.WithContext(ctx)

	for i := range config.Scenarios {
		i := i
		g.Go(func() error {
			result, err := ce.RunScenario(gctx, &config.Assumptions, &config.Scenarios[i])
			if err != nil {
				return fmt.Errorf("RunScenario failed: %w", err)
			}
			results[i] = *result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ce.Logger.Infof("calculated %d scenarios", len(results))
	return &domain.ScenarioComparison{
		Scenarios:   results,
		Assumptions: config.Assumptions.GenerateAssumptions(),
	}, nil
}
