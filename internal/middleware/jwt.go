package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/SARVESHVARADKAR123/bottle/internal/observability"
	"github.com/SARVESHVARADKAR123/bottle/internal/security"
	"github.com/SARVESHVARADKAR123/bottle/internal/transport"
	"go.uber.org/zap"
)

func JWT(secret, issuer, audience string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := extractToken(r)
			if err != nil {
				transport.WriteError(w, http.StatusUnauthorized, "unauthorized", err.Error())
				return
			}

			claims, err := security.ParseAccess(tokenString, secret, issuer, audience)
			if err != nil {
				observability.GetLogger(r.Context()).Debug("jwt_rejected",
					zap.Error(err),
					zap.String("request_id", RequestIDFromContext(r.Context())),
				)
				transport.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
				return
			}

			ctx := InjectModerator(r.Context(), Moderator{ID: claims.Subject, Username: claims.Name})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errors.New("missing token")
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", errors.New("invalid token format")
	}

	return token, nil
}
