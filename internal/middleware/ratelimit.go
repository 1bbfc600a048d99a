package middleware

import (
	"net"
	"net/http"
	"time"

	"github.com/SARVESHVARADKAR123/bottle/internal/transport"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

// RateLimit limits requests per client IP. Non-positive requests disables it.
func RateLimit(requests int, window time.Duration) func(next http.Handler) http.Handler {
	if requests <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if window <= 0 {
		window = time.Minute
	}

	return httprate.Limit(requests, window,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			return ClientIP(r), nil
		}),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			transport.WriteError(w, http.StatusTooManyRequests, "rate_limited", "too many requests, try again later")
		}),
	)
}

// ClientIP is the host part of the connection address. Forwarding headers
// count only when TrustProxy has rewritten RemoteAddr upstream.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// TrustProxy rewrites RemoteAddr from True-Client-IP, X-Real-IP or the first
// X-Forwarded-For hop. Enable it only behind a reverse proxy that sets them.
func TrustProxy(enabled bool) func(http.Handler) http.Handler {
	if !enabled {
		return func(next http.Handler) http.Handler { return next }
	}
	return chimw.RealIP
}
