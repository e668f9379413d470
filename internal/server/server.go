package server

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/purchase-compare/internal/metrics"
	"github.com/iwvelando/purchase-compare/internal/report"
	"github.com/iwvelando/purchase-compare/pkg/comparator"
	"github.com/iwvelando/purchase-compare/pkg/constants"
	"github.com/iwvelando/purchase-compare/pkg/format"
	"github.com/iwvelando/purchase-compare/pkg/output"
	"github.com/iwvelando/purchase-compare/pkg/validation"
	"go.uber.org/zap"
)

//go:embed static/* templates/*
var assets embed.FS

type handler struct {
	logger      *zap.Logger
	maxBodySize int64
	version     string
	metrics     *metrics.Registry
	page        *template.Template
}

// NewHandler constructs the HTTP handler that serves the web UI and comparison API.
func NewHandler(logger *zap.Logger, cfg *Config, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}

	maxBodySize := cfg.BodySizeBytes()
	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	page, err := template.New("index.html.tmpl").Funcs(templateFuncs).ParseFS(assets, "templates/index.html.tmpl")
	if err != nil {
		panic(fmt.Sprintf("failed to parse embedded templates: %v", err))
	}

	h := &handler{
		logger:      logger,
		maxBodySize: maxBodySize,
		version:     trimmedVersion,
		metrics:     metrics.New(),
		page:        page,
	}

	app := http.NewServeMux()

	// Web UI
	app.HandleFunc("/", h.handleIndex)
	app.Handle("/static/", http.FileServer(http.FS(assets)))

	// Comparison API endpoint (query string or JSON body)
	app.HandleFunc("/api/compare", h.handleCompare)

	// Version endpoint for UI metadata
	app.HandleFunc("/api/version", h.handleVersion)

	var limited http.Handler = app
	if cfg.RateLimit.RequestsPerSecond > 0 {
		limited = rateLimitMiddleware(h, newClientLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst), app)
	}

	// Health checks and scrapes bypass the per-client limiter.
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.handleHealth)
	mux.Handle("/metrics", h.metrics.Handler())
	mux.Handle("/", limited)

	var wrapped http.Handler = mux
	wrapped = loggingMiddleware(logger, h.metrics, wrapped)
	wrapped = tracingMiddleware(wrapped)
	return requestIDMiddleware(wrapped)
}

const errOverflow = "result overflows a float64; lower the monthly rate or the number of installments"

// compareRequest carries optional inputs; missing values take the defaults.
type compareRequest struct {
	ProductValue       *float64 `json:"productValue"`
	DiscountPercent    *float64 `json:"discountPercent"`
	MonthlyRatePercent *float64 `json:"monthlyRatePercent"`
	InstallmentCount   *int     `json:"installmentCount"`
	Locale             string   `json:"locale"`
}

func (req compareRequest) inputs() comparator.Inputs {
	in := comparator.Inputs{
		ProductValue:       constants.DefaultProductValue,
		DiscountPercent:    constants.DefaultDiscountPercent,
		MonthlyRatePercent: constants.DefaultMonthlyRatePercent,
		InstallmentCount:   constants.DefaultInstallmentCount,
	}
	if req.ProductValue != nil {
		in.ProductValue = *req.ProductValue
	}
	if req.DiscountPercent != nil {
		in.DiscountPercent = *req.DiscountPercent
	}
	if req.MonthlyRatePercent != nil {
		in.MonthlyRatePercent = *req.MonthlyRatePercent
	}
	if req.InstallmentCount != nil {
		in.InstallmentCount = *req.InstallmentCount
	}
	return in
}

type compareResponse struct {
	RequestID string        `json:"requestId,omitempty"`
	Report    report.Report `json:"report"`
	CSV       string        `json:"csv"`
	Duration  string        `json:"duration"`
}

func (h *handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCompare"

	start := time.Now()
	var req compareRequest
	var err error

	switch r.Method {
	case http.MethodGet:
		req, err = parseQuery(r.URL.Query())
	case http.MethodPost:
		req, err = h.decodeBody(w, r)
	default:
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	loc := format.MatchLocale(r.URL.Query().Get("locale"), req.Locale, r.Header.Get("Accept-Language"))

	rep, err := h.evaluate(req.inputs(), loc, start)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, h.errorMessage(err, loc), op)
		return
	}
	if !rep.Comparison.Finite() {
		// JSON cannot carry infinities or NaN.
		h.respondErrorWithOp(w, http.StatusUnprocessableEntity, errOverflow, op)
		return
	}

	h.writeJSON(w, http.StatusOK, compareResponse{
		RequestID: RequestID(r.Context()),
		Report:    rep,
		CSV:       output.CsvString(rep),
		Duration:  time.Since(start).String(),
	})
}

func (h *handler) decodeBody(w http.ResponseWriter, r *http.Request) (compareRequest, error) {
	var req compareRequest
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			// An empty body compares the defaults.
			return req, nil
		}
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return req, err
		}
		return req, fmt.Errorf("failed to decode request: %w", err)
	}
	return req, nil
}

// parseQuery reads the inputs from URL parameters. Absent or empty
// parameters keep their defaults.
func parseQuery(values url.Values) (compareRequest, error) {
	req := compareRequest{Locale: values.Get("locale")}

	floats := []struct {
		key    string
		target **float64
	}{
		{"productValue", &req.ProductValue},
		{"discountPercent", &req.DiscountPercent},
		{"monthlyRatePercent", &req.MonthlyRatePercent},
	}
	for _, f := range floats {
		raw := strings.TrimSpace(values.Get(f.key))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
		if err != nil {
			return req, fmt.Errorf("invalid %s %q", f.key, raw)
		}
		*f.target = &v
	}

	if raw := strings.TrimSpace(values.Get("installmentCount")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return req, fmt.Errorf("invalid installmentCount %q", raw)
		}
		req.InstallmentCount = &n
	}
	return req, nil
}

// evaluate validates, computes and formats one comparison.
func (h *handler) evaluate(in comparator.Inputs, loc format.Locale, start time.Time) (report.Report, error) {
	if err := in.Validate(); err != nil {
		h.metrics.ObserveInvalid()
		return report.Report{}, err
	}
	if err := validation.ValidateInputs(in); err != nil {
		h.metrics.ObserveInvalid()
		return report.Report{}, err
	}

	c, err := comparator.Evaluate(in)
	if err != nil {
		h.metrics.ObserveInvalid()
		return report.Report{}, err
	}

	rep := report.New(c, loc)
	h.metrics.ObserveEvaluation(string(c.Outcome.Kind), in.InstallmentCount, time.Since(start))
	h.logger.Debug("comparison evaluated",
		zap.String("op", "server.evaluate"),
		zap.String("outcome", string(c.Outcome.Kind)),
		zap.Float64("savings", c.Outcome.Savings),
		zap.Int("installments", in.InstallmentCount),
	)
	return rep, nil
}

func (h *handler) errorMessage(err error, loc format.Locale) string {
	if errors.Is(err, comparator.ErrInvalidInput) {
		return report.InvalidInstallmentsMessage(loc)
	}
	return err.Error()
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	if h.logger != nil {
		h.logger.Error("comparison request failed",
			zap.String("op", op),
			zap.Int("status", status),
			zap.String("error", msg),
		)
	}

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && h.logger != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
