package api

import (
	"context"

	"github.com/mapension/retirement-calculator/internal/calculation"
	"github.com/mapension/retirement-calculator/internal/domain"
)

func (s *Server) handleScenarios(body []byte) (any, error) {
	var cfg domain.Configuration
	if err := s.decode(body, &cfg); err != nil {
		return nil, err
	}
	if err := s.parser.ValidateConfiguration(&cfg); err != nil {
		return nil, requestError{err}
	}

	ctx, cancel := context.WithTimeout(s.baseCtx, s.timeout)
	defer cancel()
	return s.engine.RunScenarios(ctx, &cfg)
}

func (s *Server) handlePension(body []byte) (any, error) {
	var profile domain.MemberProfile
	if err := s.decode(body, &profile); err != nil {
		return nil, err
	}
	return calculation.CalculatePensionBenefit(profile)
}

func (s *Server) handleSocialSecurity(body []byte) (any, error) {
	var req SocialSecurityRequest
	if err := s.decode(body, &req); err != nil {
		return nil, err
	}

	benefit, err := calculation.CalculateSocialSecurityBenefit(req.SocialSecurityParams)
	if err != nil {
		return nil, err
	}
	resp := SocialSecurityResponse{Benefit: benefit}

	if req.SpouseMonthlyBenefit.IsPositive() {
		spousal := calculation.SpousalBenefit(req.SpouseMonthlyBenefit, benefit.MonthlyBenefit)
		resp.Spousal = &spousal
	}
	if req.LifeExpectancy > 0 {
		analysis, err := calculation.OptimalClaimingAge(req.BirthYear, req.LifeExpectancy, benefit.AIME, req.CurrentAge)
		if err != nil {
			return nil, err
		}
		resp.Claiming = &analysis
	}
	return resp, nil
}

func (s *Server) handleTaxes(body []byte) (any, error) {
	var req TaxRequest
	if err := s.decode(body, &req); err != nil {
		return nil, err
	}

	tax, err := s.engine.TaxCalc.CalculateRetirementTaxes(req.TaxParams)
	if err != nil {
		return nil, err
	}
	resp := TaxResponse{Tax: tax}

	if req.Medicare {
		magi := calculation.EstimateMAGI(req.GrossPension, tax.TaxableSocialSecurity, req.OtherIncome)
		premium := s.engine.MedicareCalc.Premium(magi, req.FilingStatus)
		resp.Medicare = &premium
	}
	return resp, nil
}
