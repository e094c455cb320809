// internal/app/system/metrics/metrics.go
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Tracking lookup outcomes.
const (
	TrackOK       = "ok"
	TrackInvalid  = "invalid"
	TrackNotFound = "not_found"
	TrackError    = "error"
	TrackLimited  = "rate_limited"
)

var (
	TrackLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scholarhub_track_lookups_total",
			Help: "Application tracking lookups by outcome",
		},
		[]string{"outcome"},
	)

	ApplicationsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scholarhub_applications_submitted_total",
			Help: "Applications successfully submitted",
		},
	)

	VerificationsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scholarhub_verifications_submitted_total",
			Help: "Identity verifications successfully submitted",
		},
	)

	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scholarhub_emails_total",
			Help: "Outbound emails by template and result",
		},
		[]string{"template", "result"},
	)

	JobRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scholarhub_job_runs_total",
			Help: "Background job runs by job and result",
		},
		[]string{"job", "result"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scholarhub_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "code"},
	)
)

// Handler serves the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request latency labelled by chi route pattern, so
// per-id paths do not explode the label set.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		HTTPDuration.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	})
}

// Result turns an error into a "ok"/"error" label value.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
