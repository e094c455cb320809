// internal/app/system/ratelimit/realip.go
package ratelimit

import (
	"net"
	"net/http"
	"strings"
)

// TrustedProxies rewrites r.RemoteAddr to the client address recorded by the
// reverse proxies in front of the app. hops is how many proxies append to
// X-Forwarded-For; the client is the entry hops places from the right.
// Entries further left are client-supplied and ignored. With hops <= 0 the
// header is ignored entirely.
func TrustedProxies(hops int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if hops <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ip := forwardedFor(r.Header.Values("X-Forwarded-For"), hops); ip != "" {
				r.RemoteAddr = net.JoinHostPort(ip, "0")
			}
			next.ServeHTTP(w, r)
		})
	}
}

func forwardedFor(headers []string, hops int) string {
	var entries []string
	for _, h := range headers {
		for _, part := range strings.Split(h, ",") {
			entries = append(entries, strings.TrimSpace(part))
		}
	}
	if len(entries) < hops {
		return ""
	}
	ip := entries[len(entries)-hops]
	if net.ParseIP(ip) == nil {
		return ""
	}
	return ip
}
