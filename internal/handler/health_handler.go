package handler

import (
	"net/http"

	"github.com/SARVESHVARADKAR123/bottle/internal/application"
	"github.com/SARVESHVARADKAR123/bottle/internal/observability"
	"github.com/SARVESHVARADKAR123/bottle/internal/transport"
	"go.uber.org/zap"
)

type healthResponse struct {
	Status       string `json:"status"`
	Database     string `json:"database"`
	MessageCount *int64 `json:"messageCount,omitempty"`
}

// Health reports store connectivity and the number of stored messages.
func Health(svc *application.Service, db observability.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			observability.GetLogger(r.Context()).Warn("health_db_unreachable", zap.Error(err))
			transport.WriteJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "degraded", Database: "unreachable"})
			return
		}

		n, err := svc.MessageCount(r.Context())
		if err != nil {
			observability.GetLogger(r.Context()).Warn("health_count_failed", zap.Error(err))
			transport.WriteJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "degraded", Database: "connected"})
			return
		}

		transport.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok", Database: "connected", MessageCount: &n})
	}
}
