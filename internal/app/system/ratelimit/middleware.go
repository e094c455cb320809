// internal/app/system/ratelimit/middleware.go
package ratelimit

import (
	"net/http"

	"github.com/dalemusser/scholarhub/internal/app/system/apperr"
	"github.com/dalemusser/scholarhub/internal/app/system/respond"
	"go.uber.org/zap"
)

// Middleware limits requests per client IP. When the limiter itself fails
// (Redis down) the request is let through and the failure logged.
func Middleware(l Limiter, log *zap.Logger, onLimited func(r *http.Request)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r)
			ok, err := l.Allow(r.Context(), ip)
			if err != nil {
				log.Warn("rate limiter unavailable, allowing request", zap.Error(err), zap.String("ip", ip))
				next.ServeHTTP(w, r)
				return
			}
			if !ok {
				if onLimited != nil {
					onLimited(r)
				}
				w.Header().Set("Retry-After", "60")
				respond.Error(w, apperr.RateLimited("Too many requests. Please wait a minute and try again."))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
