package domain

import (
	"github.com/shopspring/decimal"
)

// ProjectionYear is one year of the COLA-adjusted income projection.
type ProjectionYear struct {
	Year                 int             `json:"year"`
	MemberAge            decimal.Decimal `json:"member_age"`
	AnnualPension        decimal.Decimal `json:"annual_pension"`
	SurvivorPension      decimal.Decimal `json:"survivor_pension"`
	AnnualSocialSecurity decimal.Decimal `json:"annual_social_security"`
	TotalAnnualIncome    decimal.Decimal `json:"total_annual_income"`
}

// ScenarioResult is the full calculation for one scenario.
type ScenarioResult struct {
	Name           string                `json:"name"`
	Pension        PensionResult         `json:"pension"`
	SocialSecurity *SocialSecurityResult `json:"social_security,omitempty"`
	Spousal        *SpousalResult        `json:"spousal,omitempty"`
	Medicare       *MedicarePremium      `json:"medicare,omitempty"`
	Combined       CombinedResult        `json:"combined"`
	Projection     []ProjectionYear      `json:"projection"`
	Claiming       *ClaimingAnalysis     `json:"claiming,omitempty"`
}

// LifetimeIncome sums the projected total income across all projection years.
func (sr *ScenarioResult) LifetimeIncome() decimal.Decimal {
	total := decimal.Zero
	for _, y := range sr.Projection {
		total = total.Add(y.TotalAnnualIncome)
	}
	return total
}

// ScenarioComparison holds every scenario result from one configuration, in input order.
type ScenarioComparison struct {
	Scenarios   []ScenarioResult `json:"scenarios"`
	Assumptions []string         `json:"assumptions"`
}

// Best returns the scenario with the highest net annual income, or nil when empty.
func (sc *ScenarioComparison) Best() *ScenarioResult {
	var best *ScenarioResult
	for i := range sc.Scenarios {
		if best == nil || sc.Scenarios[i].Combined.NetAnnualIncome.GreaterThan(best.Combined.NetAnnualIncome) {
			best = &sc.Scenarios[i]
		}
	}
	return best
}
