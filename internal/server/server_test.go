package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/purchase-compare/internal/report"
	"github.com/iwvelando/purchase-compare/pkg/comparator"
	"github.com/iwvelando/purchase-compare/pkg/format"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	cfg := DefaultConfig()
	cfg.RateLimit.RequestsPerSecond = 0
	return NewHandler(zap.NewNop(), cfg, "test-version")
}

func decodeCompare(t *testing.T, rr *httptest.ResponseRecorder) compareResponse {
	t.Helper()
	var resp compareResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func TestHandleCompareDefaults(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/compare", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	resp := decodeCompare(t, rr)
	if resp.Report.Verdict.Kind != comparator.CashBetter {
		t.Fatalf("expected cash verdict, got %q", resp.Report.Verdict.Kind)
	}
	if resp.Report.Cash.NetCost != "R$ 969,40" {
		t.Fatalf("expected cash net cost R$ 969,40, got %q", resp.Report.Cash.NetCost)
	}
	if resp.Report.Installment.NetCost != "R$ 984,90" {
		t.Fatalf("expected installment net cost R$ 984,90, got %q", resp.Report.Installment.NetCost)
	}
	if len(resp.Report.Table) != 2 {
		t.Fatalf("expected 2 table rows, got %d", len(resp.Report.Table))
	}
	if resp.CSV == "" {
		t.Fatal("expected CSV data in response")
	}
	if resp.Duration == "" {
		t.Fatal("expected duration in response")
	}
	if resp.RequestID == "" || rr.Header().Get(RequestIDHeader) != resp.RequestID {
		t.Fatalf("expected request id echoed in header and body, got %q / %q", rr.Header().Get(RequestIDHeader), resp.RequestID)
	}
}

func TestHandleCompareQuery(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/compare?productValue=1200&discountPercent=0&monthlyRatePercent=1&installmentCount=3", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	resp := decodeCompare(t, rr)
	if resp.Report.Verdict.Kind != comparator.InstallmentBetter {
		t.Fatalf("expected installment verdict, got %q", resp.Report.Verdict.Kind)
	}
	if resp.Report.Inputs.InstallmentCount != 3 {
		t.Fatalf("expected 3 installments, got %d", resp.Report.Inputs.InstallmentCount)
	}
}

func TestHandleComparePostJSON(t *testing.T) {
	handler := newTestHandler(t)

	body := strings.NewReader(`{"productValue": 1000, "discountPercent": 0, "monthlyRatePercent": 0, "installmentCount": 4, "locale": "en-US"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/compare", body)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	resp := decodeCompare(t, rr)
	if resp.Report.Verdict.Kind != comparator.Tie {
		t.Fatalf("expected tie verdict, got %q", resp.Report.Verdict.Kind)
	}
	if resp.Report.Locale != "en-US" {
		t.Fatalf("expected en-US report, got %q", resp.Report.Locale)
	}
	if resp.Report.Installment.InstallmentAmount != "R$ 250.00" {
		t.Fatalf("expected R$ 250.00 installments, got %q", resp.Report.Installment.InstallmentAmount)
	}
}

func TestHandleComparePostEmptyBody(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/compare", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if resp := decodeCompare(t, rr); resp.Report.Inputs.InstallmentCount != 2 {
		t.Fatalf("expected default installment count, got %d", resp.Report.Inputs.InstallmentCount)
	}
}

func TestHandleCompareErrors(t *testing.T) {
	tests := []struct {
		name          string
		method        string
		target        string
		body          string
		header        map[string]string
		expected      int
		errorContains string
	}{
		{
			name:          "zero installments",
			method:        http.MethodGet,
			target:        "/api/compare?installmentCount=0",
			expected:      http.StatusBadRequest,
			errorContains: "O número de parcelas deve ser maior que zero.",
		},
		{
			name:          "negative installments in English",
			method:        http.MethodGet,
			target:        "/api/compare?installmentCount=-3",
			header:        map[string]string{"Accept-Language": "en-US,en;q=0.9"},
			expected:      http.StatusBadRequest,
			errorContains: "The number of installments must be greater than zero.",
		},
		{
			name:          "product below minimum",
			method:        http.MethodGet,
			target:        "/api/compare?productValue=50",
			expected:      http.StatusBadRequest,
			errorContains: "product value must be at least",
		},
		{
			name:          "infinite product value",
			method:        http.MethodGet,
			target:        "/api/compare?productValue=Inf",
			expected:      http.StatusBadRequest,
			errorContains: "product value must be a finite number",
		},
		{
			name:          "NaN rate",
			method:        http.MethodGet,
			target:        "/api/compare?monthlyRatePercent=NaN",
			expected:      http.StatusBadRequest,
			errorContains: "monthly rate percent must be a finite number",
		},
		{
			name:          "installments above maximum",
			method:        http.MethodGet,
			target:        "/api/compare?installmentCount=3000000&monthlyRatePercent=0",
			expected:      http.StatusBadRequest,
			errorContains: "installment count must be at most 1200",
		},
		{
			name:          "installments above maximum in JSON",
			method:        http.MethodPost,
			target:        "/api/compare",
			body:          `{"installmentCount": 1201}`,
			expected:      http.StatusBadRequest,
			errorContains: "installment count must be at most 1200",
		},
		{
			name:          "result overflows",
			method:        http.MethodGet,
			target:        "/api/compare?monthlyRatePercent=1000&installmentCount=400",
			expected:      http.StatusUnprocessableEntity,
			errorContains: "result overflows",
		},
		{
			name:          "malformed number",
			method:        http.MethodGet,
			target:        "/api/compare?discountPercent=abc",
			expected:      http.StatusBadRequest,
			errorContains: "invalid discountPercent",
		},
		{
			name:          "malformed JSON",
			method:        http.MethodPost,
			target:        "/api/compare",
			body:          `{"productValue":`,
			expected:      http.StatusBadRequest,
			errorContains: "failed to decode request",
		},
		{
			name:          "unknown field",
			method:        http.MethodPost,
			target:        "/api/compare",
			body:          `{"price": 10}`,
			expected:      http.StatusBadRequest,
			errorContains: "failed to decode request",
		},
	}

	handler := newTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.expected {
				t.Fatalf("expected status %d, got %d: %s", tt.expected, rr.Code, rr.Body.String())
			}

			var resp map[string]string
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}
			if !strings.Contains(resp["error"], tt.errorContains) {
				t.Fatalf("expected error containing %q, got %q", tt.errorContains, resp["error"])
			}
		})
	}
}

func TestHandleCompareBodyTooLarge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimit.RequestsPerSecond = 0
	cfg.SetBodySizeBytes(32)
	handler := NewHandler(zap.NewNop(), cfg, "")

	payload := `{"productValue": 1000, "discountPercent": 3, "monthlyRatePercent": 1, "installmentCount": 2}`
	req := httptest.NewRequest(http.MethodPost, "/api/compare", bytes.NewBufferString(payload))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status 413, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestHandleCompareMethodNotAllowed(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/compare", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rr.Code)
	}
}

func TestHandleVersion(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["version"] != "test-version" {
		t.Fatalf("expected version test-version, got %q", resp["version"])
	}
}

func TestHandleVersionDefaultsToDev(t *testing.T) {
	handler := NewHandler(nil, nil, "  ")

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if !strings.Contains(rr.Body.String(), `"dev"`) {
		t.Fatalf("expected dev version, got %s", rr.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "ok") {
		t.Fatalf("unexpected health response %d: %s", rr.Code, rr.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	handler := newTestHandler(t)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/compare", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/compare?installmentCount=0", nil))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{
		`purchase_compare_evaluations_total{outcome="cash"} 1`,
		`purchase_compare_evaluations_total{outcome="invalid"} 1`,
		`purchase_compare_http_requests_total{code="200",route="/api/compare"} 1`,
		`purchase_compare_http_requests_total{code="400",route="/api/compare"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected metrics to contain %q", want)
		}
	}
}

func TestRequestIDPreserved(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if got := rr.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Fatalf("expected request id abc-123, got %q", got)
	}
}

func TestRateLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimit = RateLimitConfig{RequestsPerSecond: 0.001, Burst: 2}
	handler := NewHandler(zap.NewNop(), cfg, "")

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
		req.RemoteAddr = "192.0.2.10:5000"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Fatalf("expected burst requests to succeed, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Fatalf("expected third request to be limited, got %v", codes)
	}

	// A different client has its own bucket.
	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	req.RemoteAddr = "192.0.2.11:5000"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected other client to pass, got %d", rr.Code)
	}
}

func TestHealthAndMetricsBypassRateLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimit = RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1}
	handler := NewHandler(zap.NewNop(), cfg, "")

	for i := 0; i < 5; i++ {
		for _, path := range []string{"/healthz", "/metrics"} {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			req.RemoteAddr = "192.0.2.20:5000"
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			if rr.Code != http.StatusOK {
				t.Fatalf("request %d to %s: expected status 200, got %d", i, path, rr.Code)
			}
		}
	}

	// The same client is still limited on the API.
	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
		req.RemoteAddr = "192.0.2.20:5000"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("expected API requests to be limited after the burst, got %v", codes)
	}
}

func TestClientLimiterDropsIdleClients(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter := newClientLimiter(1, 1)
	limiter.now = func() time.Time { return now }

	limiter.Allow("a")
	limiter.Allow("b")
	if limiter.size() != 2 {
		t.Fatalf("expected 2 tracked clients, got %d", limiter.size())
	}

	now = now.Add(2 * clientIdleTTL)
	limiter.Allow("c")
	if limiter.size() != 1 {
		t.Fatalf("expected idle clients to be dropped, got %d", limiter.size())
	}
}

func TestIndexPage(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected HTML content type, got %q", ct)
	}

	body := rr.Body.String()
	for _, want := range []string{
		"Comprar à Vista ou Parcelado?",
		`name="productValue" value="1000" min="100"`,
		`name="installmentCount" value="2" min="1" max="1200"`,
		"R$ 969,40",
		"R$ 984,90",
		"Comprar à vista é a melhor opção! Você economiza R$ 15,50",
		"<polyline",
		"<table>",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected page to contain %q", want)
		}
	}
}

func TestIndexPageInvalidInstallments(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/?installmentCount=0", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}

	body := rr.Body.String()
	if !strings.Contains(body, "O número de parcelas deve ser maior que zero.") {
		t.Fatal("expected installment error on page")
	}
	for _, unwanted := range []string{"<polyline", "<table>", "R$ 969,40"} {
		if strings.Contains(body, unwanted) {
			t.Fatalf("expected no results on error page, found %q", unwanted)
		}
	}
}

func TestIndexPageOverflowRendersInfinity(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/?monthlyRatePercent=1000&installmentCount=400", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "-R$ ∞") {
		t.Fatal("expected overflowed net cost rendered as infinity")
	}
	if strings.Contains(body, "<polyline") {
		t.Fatal("expected no chart for a non-finite series")
	}
}

func TestIndexPageInstallmentsAboveMaximum(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/?installmentCount=1201", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "installment count must be at most 1200") {
		t.Fatal("expected maximum installment error on page")
	}
	if strings.Contains(rr.Body.String(), "<table>") {
		t.Fatal("expected no results on error page")
	}
}

func TestIndexPageEnglish(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/?locale=en-US", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	body := rr.Body.String()
	if !strings.Contains(body, `<html lang="en-US">`) {
		t.Fatal("expected English page")
	}
	if !strings.Contains(body, "Pay in Full or in Installments?") {
		t.Fatal("expected English title")
	}
	if !strings.Contains(body, `name="locale" value="en-US"`) {
		t.Fatal("expected locale to be carried by the form")
	}
}

func TestIndexPageNotFound(t *testing.T) {
	handler := newTestHandler(t)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/missing", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
}

func TestStaticAssets(t *testing.T) {
	handler := newTestHandler(t)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/static/styles.css", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), ".verdict") {
		t.Fatal("expected stylesheet content")
	}
}

func TestParseQueryAcceptsDecimalComma(t *testing.T) {
	req, err := parseQuery(map[string][]string{"discountPercent": {"2,5"}})
	if err != nil {
		t.Fatalf("parseQuery() error = %v", err)
	}
	if req.DiscountPercent == nil || *req.DiscountPercent != 2.5 {
		t.Fatalf("expected discount 2.5, got %v", req.DiscountPercent)
	}
	if in := req.inputs(); in.ProductValue != 1000 || in.InstallmentCount != 2 {
		t.Fatalf("expected defaults for missing values, got %+v", in)
	}
}

func TestBuildChart(t *testing.T) {
	c, err := comparator.Evaluate(comparator.Inputs{ProductValue: 1000, DiscountPercent: 3, MonthlyRatePercent: 1, InstallmentCount: 3})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	rep := report.New(c, format.BrazilianPortuguese)

	chart := buildChart(rep, format.BrazilianPortuguese)
	if chart == nil {
		t.Fatal("expected chart")
	}
	if len(chart.Points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(chart.Points))
	}
	if chart.Points[0].X != "48.0" {
		t.Fatalf("expected first point at left edge, got %s", chart.Points[0].X)
	}
	if chart.Points[2].X != "592.0" || chart.Points[2].Y != "24.0" {
		t.Fatalf("expected last point at top right, got %s,%s", chart.Points[2].X, chart.Points[2].Y)
	}
	if chart.MinLabel != "R$ 0,00" {
		t.Fatalf("expected zero baseline, got %s", chart.MinLabel)
	}
	if !strings.HasPrefix(chart.Points[0].Title, "Mês 1: R$ ") {
		t.Fatalf("unexpected point title %q", chart.Points[0].Title)
	}

	rep.Series = nil
	if buildChart(rep, format.BrazilianPortuguese) != nil {
		t.Fatal("expected no chart without series")
	}
}
