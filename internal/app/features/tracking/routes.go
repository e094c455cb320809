// internal/app/features/tracking/routes.go
package tracking

import (
	"net/http"

	"github.com/dalemusser/scholarhub/internal/app/system/metrics"
	"github.com/dalemusser/scholarhub/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

// Routes serves /api/track. Lookups are public and limited per client IP.
func Routes(h *Handler, limiter ratelimit.Limiter) chi.Router {
	r := chi.NewRouter()
	if limiter != nil {
		r.Use(ratelimit.Middleware(limiter, h.Log, func(*http.Request) {
			metrics.TrackLookups.WithLabelValues(metrics.TrackLimited).Inc()
		}))
	}
	r.Get("/", h.ServeTrack)
	r.Get("/{code}", h.ServeTrack)
	return r
}
