package api

import (
	"github.com/mapension/retirement-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// Calculation outcomes reported in the response metadata.
const (
	OutcomeSuccess = "SUCCESS"
	OutcomeFailure = "FAILURE"
)

// CalculationMetadata identifies one calculation so a caller can persist or audit it.
type CalculationMetadata struct {
	CalculationID          string `json:"calculation_id"`
	CalculationStartedAt   string `json:"calculation_started_at"`
	CalculationCompletedAt string `json:"calculation_completed_at"`
	CalculationDurationMs  int64  `json:"calculation_duration_ms"`
	CalculationOutcome     string `json:"calculation_outcome"`
}

// CalculationResponse wraps every successful calculation.
type CalculationResponse struct {
	CalculationMetadata CalculationMetadata `json:"calculation_metadata"`
	CalculationResult   any                 `json:"calculation_result"`
}

type ErrorResponse struct {
	Status        int    `json:"status"`
	Message       string `json:"message"`
	CalculationID string `json:"calculation_id,omitempty"`
}

// SocialSecurityRequest is the body of POST /v1/social-security. A spouse benefit adds a
// spousal comparison; a life expectancy adds a claiming-age analysis.
type SocialSecurityRequest struct {
	domain.SocialSecurityParams
	SpouseMonthlyBenefit decimal.Decimal `json:"spouse_monthly_benefit" validate:"gte=0"`
	LifeExpectancy       int             `json:"life_expectancy,omitempty" validate:"omitempty,gte=62,lte=120"`
	CurrentAge           decimal.Decimal `json:"current_age" validate:"gte=0"`
}

type SocialSecurityResponse struct {
	Benefit  domain.SocialSecurityResult `json:"benefit"`
	Spousal  *domain.SpousalResult       `json:"spousal,omitempty"`
	Claiming *domain.ClaimingAnalysis    `json:"claiming,omitempty"`
}

// TaxRequest is the body of POST /v1/taxes. With Medicare set the response also prices
// Part B from the same income.
type TaxRequest struct {
	domain.TaxParams
	Medicare bool `json:"medicare,omitempty"`
}

type TaxResponse struct {
	Tax      domain.TaxResult        `json:"tax"`
	Medicare *domain.MedicarePremium `json:"medicare,omitempty"`
}
