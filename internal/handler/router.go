package handler

import (
	"net/http"
	"time"

	"github.com/SARVESHVARADKAR123/bottle/internal/application"
	"github.com/SARVESHVARADKAR123/bottle/internal/middleware"
	"github.com/SARVESHVARADKAR123/bottle/internal/moderator"
	"github.com/SARVESHVARADKAR123/bottle/internal/observability"
	"github.com/SARVESHVARADKAR123/bottle/internal/transport"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type RouterConfig struct {
	ServiceName      string
	BasePath         string
	JWTSecret        string
	JWTIssuer        string
	JWTAudience      string
	RequestTimeout   time.Duration
	SubmitRateLimit  int
	SubmitRateWindow time.Duration
	TrustProxy       bool
}

func NewRouter(
	msgs *application.Service,
	mods *moderator.Service,
	db observability.Pinger,
	cfg RouterConfig,
) http.Handler {

	msgH := NewMessageHandler(msgs)
	adminH := NewAdminHandler(msgs)
	authH := NewAuthHandler(mods)

	r := chi.NewRouter()

	r.Use(middleware.TrustProxy(cfg.TrustProxy))
	r.Use(middleware.RequestID)
	r.Use(observability.MetricsMiddleware(cfg.ServiceName))
	r.Use(middleware.Recovery())
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		transport.WriteError(w, http.StatusNotFound, "not_found", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		transport.WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	r.Route(cfg.BasePath, func(api chi.Router) {
		api.Get("/health", Health(msgs, db))

		api.With(middleware.RateLimit(cfg.SubmitRateLimit, cfg.SubmitRateWindow)).
			Post("/messages", msgH.Submit)
		api.Get("/messages/random", msgH.Random)

		api.Post("/auth/setup", authH.Setup)
		api.Post("/auth/login", authH.Login)

		api.Route("/admin", func(admin chi.Router) {
			admin.Use(middleware.JWT(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience))

			admin.Get("/messages", adminH.ListAll)
			admin.Get("/messages/pending", adminH.ListPending)
			admin.Post("/messages/{id}/moderate", adminH.Moderate)
			admin.Delete("/messages/{id}", adminH.Delete)
		})
	})

	return otelhttp.NewHandler(r, cfg.ServiceName)
}
