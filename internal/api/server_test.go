package api

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/mapension/retirement-calculator/internal/calculation"
	"github.com/mapension/retirement-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

func do(t *testing.T, h fasthttp.RequestHandler, method, path, body string) (int, []byte) {
	t.Helper()
	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(path)
	if body != "" {
		req.Header.SetContentType("application/json")
		req.SetBodyString(body)
	}

	var ctx fasthttp.RequestCtx
	ctx.Init(&req, nil, nil)
	h(&ctx)
	return ctx.Response.StatusCode(), append([]byte(nil), ctx.Response.Body()...)
}

type envelope[T any] struct {
	CalculationMetadata CalculationMetadata `json:"calculation_metadata"`
	CalculationResult   T                   `json:"calculation_result"`
}

func decodeEnvelope[T any](t *testing.T, body []byte) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(body, &env), "body: %s", body)
	return env
}

func newTestServer() *Server {
	return NewServer(calculation.NewCalculationEngine())
}

func TestHealthz(t *testing.T) {
	h := newTestServer().Handler()

	status, body := do(t, h, "GET", "/healthz", "")
	assert.Equal(t, fasthttp.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	status, _ = do(t, h, "POST", "/healthz", "{}")
	assert.Equal(t, fasthttp.StatusMethodNotAllowed, status)
}

func TestPension(t *testing.T) {
	h := newTestServer().Handler()
	status, body := do(t, h, "POST", "/v1/pension", `{
		"age": 62, "years_of_service": 30, "group": "group1",
		"salaries": [70000, 72000, 74000], "option": "A"
	}`)
	require.Equal(t, fasthttp.StatusOK, status, "body: %s", body)

	env := decodeEnvelope[domain.PensionResult](t, body)
	_, err := uuid.Parse(env.CalculationMetadata.CalculationID)
	assert.NoError(t, err, "calculation IDs are UUIDs")
	assert.Equal(t, OutcomeSuccess, env.CalculationMetadata.CalculationOutcome)
	assert.True(t, env.CalculationResult.AnnualPension.Equal(decimal.NewFromInt(47520)))
	assert.True(t, env.CalculationResult.MonthlyPension.Equal(decimal.NewFromInt(3960)))
}

func TestPension_BadRequests(t *testing.T) {
	h := newTestServer().Handler()

	tests := []struct {
		name string
		body string
	}{
		{"malformed JSON", `{"age": 62,`},
		{"unknown group", `{"age": 62, "years_of_service": 30, "group": "group9", "salaries": [70000]}`},
		{"unknown option", `{"age": 62, "years_of_service": 30, "group": "group1", "salaries": [70000], "option": "D"}`},
		{"missing group", `{"age": 62, "years_of_service": 30, "salaries": [70000]}`},
		{"negative salary", `{"age": 62, "years_of_service": 30, "group": "group1", "salaries": [-5]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, h, "POST", "/v1/pension", tt.body)
			assert.Equal(t, fasthttp.StatusBadRequest, status, "body: %s", body)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(body, &resp))
			assert.Equal(t, fasthttp.StatusBadRequest, resp.Status)
			assert.NotEmpty(t, resp.Message)
			assert.NotEmpty(t, resp.CalculationID)
		})
	}
}

func TestSocialSecurity(t *testing.T) {
	h := newTestServer().Handler()
	status, body := do(t, h, "POST", "/v1/social-security", `{
		"birth_year": 1960, "claiming_age": 64, "aime": 3000,
		"spouse_monthly_benefit": 3000, "life_expectancy": 90, "current_age": 60
	}`)
	require.Equal(t, fasthttp.StatusOK, status, "body: %s", body)

	env := decodeEnvelope[SocialSecurityResponse](t, body)
	assert.True(t, env.CalculationResult.Benefit.MonthlyBenefit.Equal(decimal.RequireFromString("1312.72")))
	require.NotNil(t, env.CalculationResult.Spousal)
	assert.True(t, env.CalculationResult.Spousal.TotalBenefit.Equal(decimal.NewFromInt(1500)))
	require.NotNil(t, env.CalculationResult.Claiming)
	assert.Equal(t, 70, env.CalculationResult.Claiming.RecommendedAge)
}

func TestSocialSecurity_InvalidBirthYear(t *testing.T) {
	h := newTestServer().Handler()
	status, _ := do(t, h, "POST", "/v1/social-security", `{"birth_year": 1850, "claiming_age": 67, "aime": 3000}`)
	assert.Equal(t, fasthttp.StatusBadRequest, status)
}

func TestTaxes(t *testing.T) {
	h := newTestServer().Handler()
	status, body := do(t, h, "POST", "/v1/taxes", `{
		"gross_pension": 60000, "gross_social_security": 30000, "other_income": 10000,
		"filing_status": "married_filing_jointly", "age_65_or_older": true, "medicare": true
	}`)
	require.Equal(t, fasthttp.StatusOK, status, "body: %s", body)

	env := decodeEnvelope[TaxResponse](t, body)
	assert.True(t, env.CalculationResult.Tax.TotalTax.Equal(decimal.NewFromInt(7331)), "total %s", env.CalculationResult.Tax.TotalTax)
	require.NotNil(t, env.CalculationResult.Medicare)
	assert.Equal(t, 0, env.CalculationResult.Medicare.Tier)
}

func TestTaxes_UnknownFilingStatus(t *testing.T) {
	h := newTestServer().Handler()
	status, _ := do(t, h, "POST", "/v1/taxes", `{"gross_pension": 60000, "filing_status": "widow"}`)
	assert.Equal(t, fasthttp.StatusBadRequest, status)
}

func TestScenarios(t *testing.T) {
	h := NewServer(calculation.NewCalculationEngine(), WithIDGenerator(func() string { return "calc-1" })).Handler()
	status, body := do(t, h, "POST", "/v1/scenarios", `{
		"assumptions": {"pension_cola_rate": 0.03, "pension_cola_base": 13000, "ss_cola_rate": 0.025, "projection_years": 3},
		"scenarios": [
			{"name": "first", "member": {"age": 62, "years_of_service": 30, "group": "group1", "salaries": [72000]},
			 "tax": {"filing_status": "single"}},
			{"name": "second", "member": {"age": 65, "years_of_service": 35, "group": "group1", "salaries": [72000]},
			 "tax": {"filing_status": "single"}}
		]
	}`)
	require.Equal(t, fasthttp.StatusOK, status, "body: %s", body)

	env := decodeEnvelope[domain.ScenarioComparison](t, body)
	assert.Equal(t, "calc-1", env.CalculationMetadata.CalculationID)
	require.Len(t, env.CalculationResult.Scenarios, 2)
	assert.Equal(t, "first", env.CalculationResult.Scenarios[0].Name)
	assert.Equal(t, "second", env.CalculationResult.Scenarios[1].Name)
	assert.Len(t, env.CalculationResult.Scenarios[0].Projection, 3)
}

func TestScenarios_ValidationFailure(t *testing.T) {
	h := newTestServer().Handler()
	status, body := do(t, h, "POST", "/v1/scenarios", `{"assumptions": {"projection_years": 3}, "scenarios": []}`)
	assert.Equal(t, fasthttp.StatusBadRequest, status, "body: %s", body)
}

func TestMethodAndRouteErrors(t *testing.T) {
	h := newTestServer().Handler()

	status, _ := do(t, h, "GET", "/v1/pension", "")
	assert.Equal(t, fasthttp.StatusMethodNotAllowed, status)

	status, _ = do(t, h, "GET", "/v2/unknown", "")
	assert.Equal(t, fasthttp.StatusNotFound, status)
}

func TestMetrics(t *testing.T) {
	h := newTestServer().Handler()
	do(t, h, "GET", "/healthz", "")
	do(t, h, "POST", "/v1/pension", `{"age": 62, "years_of_service": 30, "group": "group1", "salaries": [72000]}`)

	status, body := do(t, h, "GET", "/metrics", "")
	require.Equal(t, fasthttp.StatusOK, status)
	assert.Contains(t, string(body), `mapension_http_requests_total{route="/healthz",status="200"} 1`)
	assert.Contains(t, string(body), `mapension_calculations_total{kind="pension",outcome="SUCCESS"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
