// Package metrics exposes prometheus collectors for comparisons served over HTTP.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label for evaluations rejected before any computation.
const OutcomeInvalid = "invalid"

// Registry holds every collector on its own prometheus registry, so several
// handlers can coexist in one process (tests, embedded servers).
type Registry struct {
	Evaluations        *prometheus.CounterVec
	EvaluationDuration prometheus.Histogram
	InstallmentCount   prometheus.Histogram
	Requests           *prometheus.CounterVec
	RateLimited        prometheus.Counter

	registry *prometheus.Registry
}

// New creates and registers all collectors.
func New() *Registry {
	r := &Registry{
		Evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "purchase_compare_evaluations_total",
				Help: "Total number of evaluations by outcome (cash, installment, tie, invalid)",
			},
			[]string{"outcome"},
		),

		EvaluationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "purchase_compare_evaluation_duration_seconds",
				Help:    "Time spent computing and rendering one comparison",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
			},
		),

		InstallmentCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "purchase_compare_installments",
				Help:    "Installment counts requested",
				Buckets: []float64{1, 2, 3, 6, 10, 12, 18, 24, 36, 48, 60, 120},
			},
		),

		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "purchase_compare_http_requests_total",
				Help: "HTTP requests by route and status code",
			},
			[]string{"route", "code"},
		),

		RateLimited: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "purchase_compare_rate_limited_total",
				Help: "Requests rejected by the per-client rate limiter",
			},
		),

		registry: prometheus.NewRegistry(),
	}

	r.registry.MustRegister(
		r.Evaluations,
		r.EvaluationDuration,
		r.InstallmentCount,
		r.Requests,
		r.RateLimited,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// ObserveEvaluation records a completed evaluation.
func (r *Registry) ObserveEvaluation(outcome string, installments int, elapsed time.Duration) {
	r.Evaluations.WithLabelValues(outcome).Inc()
	r.EvaluationDuration.Observe(elapsed.Seconds())
	if installments > 0 {
		r.InstallmentCount.Observe(float64(installments))
	}
}

// ObserveInvalid records an evaluation rejected by input validation.
func (r *Registry) ObserveInvalid() {
	r.Evaluations.WithLabelValues(OutcomeInvalid).Inc()
}

// Handler serves the registry in the prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
