// Package metrics exposes Prometheus collectors for the HTTP surface and the
// scoring pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	// Scoring metrics
	scoresComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "health_scores_computed_total",
			Help: "Total number of health scores computed",
		},
		[]string{"outcome"},
	)

	healthScoreDistribution = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "health_score_value",
			Help:    "Distribution of computed health scores",
			Buckets: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)

	baselineRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "baseline_refreshes_total",
			Help: "Total number of baseline refresh operations",
		},
		[]string{"status"},
	)

	synopsesGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "synopses_generated_total",
			Help: "Total number of synopsis classifications",
		},
		[]string{"conclusion_class"},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request counts and latencies per route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		// The chi route pattern keeps patient IDs out of the label set.
		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}

		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// RecordScore records one computed health score.
func RecordScore(score int) {
	scoresComputed.WithLabelValues("success").Inc()
	healthScoreDistribution.Observe(float64(score))
}

// RecordScoreFailure records a scoring attempt that errored.
func RecordScoreFailure() {
	scoresComputed.WithLabelValues("error").Inc()
}

// RecordBaselineRefresh records a baseline refresh outcome.
func RecordBaselineRefresh(status string) {
	baselineRefreshes.WithLabelValues(status).Inc()
}

// RecordSynopsis records a generated synopsis by conclusion class.
func RecordSynopsis(conclusionClass string) {
	synopsesGenerated.WithLabelValues(conclusionClass).Inc()
}
