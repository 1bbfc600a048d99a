package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/SARVESHVARADKAR123/bottle/internal/observability"
	"go.uber.org/zap"
)

// Timeout bounds the request context by d. A non-positive d disables it.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	if d <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))

			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				observability.GetLogger(ctx).Warn("request_deadline_exceeded",
					zap.Duration("limit", d),
					zap.String("path", r.URL.Path),
					zap.String("request_id", RequestIDFromContext(ctx)),
				)
			}
		})
	}
}
