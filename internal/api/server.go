package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/mapension/retirement-calculator/internal/calculation"
	"github.com/mapension/retirement-calculator/internal/config"
	"github.com/mapension/retirement-calculator/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const (
	defaultTimeout     = 10 * time.Second
	maxRequestBodySize = 1 << 20
)

// Server exposes the calculation engines over HTTP.
type Server struct {
	engine         *calculation.CalculationEngine
	parser         *config.InputParser
	validate       *validator.Validate
	logger         calculation.Logger
	metrics        *metrics
	metricsHandler fasthttp.RequestHandler
	baseCtx        context.Context
	timeout        time.Duration
	newID          func() string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger. Nil keeps the no-op logger.
func WithLogger(l calculation.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTimeout bounds each scenario run.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) { s.timeout = d }
}

// WithIDGenerator replaces the UUID calculation IDs (tests).
func WithIDGenerator(f func() string) Option {
	return func(s *Server) { s.newID = f }
}

// NewServer creates a server around an engine. Each server has its own metrics registry.
func NewServer(engine *calculation.CalculationEngine, opts ...Option) *Server {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	s := &Server{
		engine:         engine,
		parser:         config.NewInputParser(),
		validate:       config.NewValidator(),
		logger:         calculation.NopLogger{},
		metrics:        newMetrics(reg),
		metricsHandler: fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
		baseCtx:        context.Background(),
		timeout:        defaultTimeout,
		newID:          func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routing handler with request metrics.
func (s *Server) Handler() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		route := s.route(ctx)
		s.metrics.observe(route, ctx.Response.StatusCode(), time.Since(start))
	}
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.baseCtx = ctx
	srv := &fasthttp.Server{
		Handler:            s.Handler(),
		Name:               "mapension",
		ReadTimeout:        s.timeout,
		WriteTimeout:       s.timeout,
		MaxRequestBodySize: maxRequestBodySize,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe(addr) }()
	s.logger.Infof("listening on %s", addr)

	select {
	case <-ctx.Done():
		s.logger.Infof("shutting down")
		return srv.ShutdownWithContext(context.Background())
	case err := <-errCh:
		return err
	}
}

// route dispatches a request and returns the route label for metrics.
func (s *Server) route(ctx *fasthttp.RequestCtx) string {
	path := string(ctx.Path())
	switch path {
	case "/healthz":
		if !ctx.IsGet() {
			s.writeError(ctx, fasthttp.StatusMethodNotAllowed, "", errors.New("method not allowed"))
			return path
		}
		s.writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
	case "/metrics":
		s.metricsHandler(ctx)
	case "/v1/scenarios":
		s.calculate(ctx, "scenarios", s.handleScenarios)
	case "/v1/pension":
		s.calculate(ctx, "pension", s.handlePension)
	case "/v1/social-security":
		s.calculate(ctx, "social_security", s.handleSocialSecurity)
	case "/v1/taxes":
		s.calculate(ctx, "taxes", s.handleTaxes)
	default:
		s.writeError(ctx, fasthttp.StatusNotFound, "", fmt.Errorf("no route for %s", path))
		return "other"
	}
	return path
}

// calculate runs one POST calculation and wraps the result with its metadata.
func (s *Server) calculate(ctx *fasthttp.RequestCtx, kind string, fn func(body []byte) (any, error)) {
	if !ctx.IsPost() {
		s.writeError(ctx, fasthttp.StatusMethodNotAllowed, "", errors.New("method not allowed"))
		return
	}

	id := s.newID()
	started := time.Now().UTC()
	result, err := fn(ctx.PostBody())
	if err != nil {
		s.metrics.calculations.WithLabelValues(kind, OutcomeFailure).Inc()
		s.writeError(ctx, statusFor(err), id, err)
		return
	}
	completed := time.Now().UTC()
	s.metrics.calculations.WithLabelValues(kind, OutcomeSuccess).Inc()
	s.logger.Debugf("%s calculation %s completed in %s", kind, id, completed.Sub(started))

	s.writeJSON(ctx, fasthttp.StatusOK, CalculationResponse{
		CalculationMetadata: CalculationMetadata{
			CalculationID:          id,
			CalculationStartedAt:   started.Format(time.RFC3339Nano),
			CalculationCompletedAt: completed.Format(time.RFC3339Nano),
			CalculationDurationMs:  completed.Sub(started).Milliseconds(),
			CalculationOutcome:     OutcomeSuccess,
		},
		CalculationResult: result,
	})
}

// requestError marks a body that could not be decoded or failed validation.
type requestError struct{ err error }

func (e requestError) Error() string { return e.err.Error() }
func (e requestError) Unwrap() error { return e.err }

func statusFor(err error) int {
	var re requestError
	switch {
	case errors.As(err, &re), errors.Is(err, domain.ErrInvalidInput):
		return fasthttp.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return fasthttp.StatusGatewayTimeout
	default:
		return fasthttp.StatusInternalServerError
	}
}

func (s *Server) decode(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return requestError{fmt.Errorf("invalid request body: %w", err)}
	}
	if err := s.validate.Struct(v); err != nil {
		return requestError{fmt.Errorf("invalid request: %w", err)}
	}
	return nil
}

func (s *Server) writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Errorf("encode response: %v", err)
		ctx.Error(`{"status":500,"message":"failed to encode response"}`, fasthttp.StatusInternalServerError)
		ctx.SetContentType("application/json")
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(data)
}

func (s *Server) writeError(ctx *fasthttp.RequestCtx, status int, id string, err error) {
	if status >= fasthttp.StatusInternalServerError {
		s.logger.Errorf("%s %s: %v", ctx.Method(), ctx.Path(), err)
	} else {
		s.logger.Warnf("%s %s: %v", ctx.Method(), ctx.Path(), err)
	}
	s.writeJSON(ctx, status, ErrorResponse{Status: status, Message: err.Error(), CalculationID: id})
}
