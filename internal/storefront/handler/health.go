package handler

import (
	"context"
	"net/http"
	"time"

	"storefront/internal/checkout/session"
	httputil "storefront/pkg/http"
	"storefront/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type HealthResponse struct {
	Status   string         `json:"status"`
	Sessions string         `json:"sessions,omitempty"`
	Events   map[string]any `json:"events,omitempty"`
}

// MetricsSource reports publisher counters for /ready.
type MetricsSource interface {
	Snapshot() map[string]any
}

type HealthHandler struct {
	sessions session.Store
	metrics  MetricsSource
	log      *logger.Logger
}

// NewHealthHandler builds the probe handler. metrics may be nil when
// booking events are disabled.
func NewHealthHandler(sessions session.Store, metrics MetricsSource, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		sessions: sessions,
		metrics:  metrics,
		log:      log,
	}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Health", "operation", "WriteJSON", "error", err)
	}
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	var events map[string]any
	if h.metrics != nil {
		events = h.metrics.Snapshot()
	}

	if err := h.sessions.Ping(ctx); err != nil {
		h.log.Error("Session store health check failed",
			"error", err,
			"path", r.URL.Path,
		)
		if writeErr := httputil.WriteJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:   "unavailable",
			Sessions: "error",
			Events:   events,
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Ready", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, HealthResponse{
		Status:   "ready",
		Sessions: "ok",
		Events:   events,
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Ready", "operation", "WriteJSON", "error", err)
	}
}

func (h *HealthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}
