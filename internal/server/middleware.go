package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/purchase-compare/internal/metrics"
	"github.com/iwvelando/purchase-compare/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RequestIDHeader carries the per-request identifier.
const RequestIDHeader = "X-Request-ID"

// Idle client limiters are dropped after this long.
const clientIdleTTL = 3 * time.Minute

type contextKey string

const requestIDKey contextKey = "request_id"

// RequestID returns the identifier assigned to the request, if any.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// statusRecorder captures the response code for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// requestIDMiddleware keeps an incoming X-Request-ID or assigns a new one.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// tracingMiddleware opens a server span around each request.
func tracingMiddleware(next http.Handler) http.Handler {
	tracer := tracing.Tracer("github.com/iwvelando/purchase-compare/internal/server")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), r.Method+" "+r.URL.Path,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", r.Method),
				attribute.String("url.path", r.URL.Path),
				attribute.String("request.id", RequestID(r.Context())),
			),
		)
		defer span.End()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		span.SetAttributes(attribute.Int("http.response.status_code", rec.status))
		if rec.status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(rec.status))
		}
	})
}

// loggingMiddleware writes one access log entry per request and counts it.
func loggingMiddleware(logger *zap.Logger, registry *metrics.Registry, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		registry.Requests.WithLabelValues(r.URL.Path, strconv.Itoa(rec.status)).Inc()
		logger.Info("request served",
			zap.String("op", "server.access"),
			zap.String("request_id", RequestID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", r.RemoteAddr),
		)
	})
}

// clientLimiter hands out one token bucket per client IP.
type clientLimiter struct {
	mu          sync.Mutex
	clients     map[string]*clientEntry
	rps         float64
	burst       int
	lastCleanup time.Time
	now         func() time.Time
}

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newClientLimiter(rps float64, burst int) *clientLimiter {
	return &clientLimiter{
		clients: make(map[string]*clientEntry),
		rps:     rps,
		burst:   burst,
		now:     time.Now,
	}
}

// Allow reports whether the client may make another request now.
func (l *clientLimiter) Allow(client string) bool {
	l.mu.Lock()
	now := l.now()
	if now.Sub(l.lastCleanup) > clientIdleTTL {
		for key, entry := range l.clients {
			if now.Sub(entry.lastSeen) > clientIdleTTL {
				delete(l.clients, key)
			}
		}
		l.lastCleanup = now
	}

	entry, ok := l.clients[client]
	if !ok {
		entry = &clientEntry{limiter: rate.NewLimiter(rate.Limit(l.rps), l.burst)}
		l.clients[client] = entry
	}
	entry.lastSeen = now
	l.mu.Unlock()

	return entry.limiter.AllowN(now, 1)
}

func (l *clientLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// rateLimitMiddleware rejects clients that exceed their bucket with 429.
func rateLimitMiddleware(h *handler, limiter *clientLimiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := clientIP(r)
		if !limiter.Allow(client) {
			h.metrics.RateLimited.Inc()
			w.Header().Set("Retry-After", "1")
			h.respondErrorWithOp(w, http.StatusTooManyRequests,
				fmt.Sprintf("rate limit exceeded for %s", client), "server.rateLimit")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
