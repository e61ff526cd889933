package handler

import (
	"net/http"
	"time"

	"github.com/Pratham1708/lyftr-ai-backend/internal/metrics"
	"github.com/Pratham1708/lyftr-ai-backend/internal/response"
	"github.com/Pratham1708/lyftr-ai-backend/internal/service"
)

// HomeHandler serves the root, health and metrics endpoints.
type HomeHandler struct {
	svc              service.MessageService
	secretConfigured bool
	metrics          *metrics.Registry
}

// NewHomeHandler returns a new HomeHandler. secretConfigured feeds the
// readiness probe: without a webhook secret the service cannot accept
// traffic and must report not-ready.
func NewHomeHandler(svc service.MessageService, secretConfigured bool, m *metrics.Registry) *HomeHandler {
	return &HomeHandler{
		svc:              svc,
		secretConfigured: secretConfigured,
		metrics:          m,
	}
}

// Index godoc
// @Summary     Service index
// @Description Lists the service name, version and available endpoints.
// @Tags        home
// @Produce     json
// @Success     200 {object} response.IndexPayload
// @Router      / [get]
func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	payload := response.IndexPayload{
		Service: "Lyftr AI Webhook Service",
		Version: "1.0.0",
		Endpoints: map[string]string{
			"webhook":   "POST /webhook",
			"messages":  "GET /messages",
			"stats":     "GET /stats",
			"liveness":  "GET /health/live",
			"readiness": "GET /health/ready",
			"metrics":   "GET /metrics",
		},
	}

	response.RespondJSON(w, http.StatusOK, payload)
}

// Live godoc
// @Summary     Liveness probe
// @Description Always returns 200 while the process is serving requests.
// @Tags        health
// @Produce     json
// @Success     200 {object} response.HealthPayload
// @Router      /health/live [get]
func (h *HomeHandler) Live(w http.ResponseWriter, r *http.Request) {
	payload := response.HealthPayload{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
	}

	response.RespondJSON(w, http.StatusOK, payload)
}

// Ready godoc
// @Summary     Readiness probe
// @Description Returns 200 only when the webhook secret is configured and storage answers a trivial read, otherwise 503.
// @Tags        health
// @Produce     json
// @Success     200 {object} response.HealthPayload
// @Failure     503 {object} response.ErrorBody
// @Router      /health/ready [get]
func (h *HomeHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if !h.secretConfigured {
		response.RespondError(w, http.StatusServiceUnavailable, "webhook secret not configured")
		return
	}

	if err := h.svc.Ping(r.Context()); err != nil {
		response.RespondError(w, http.StatusServiceUnavailable, "database not ready")
		return
	}

	payload := response.HealthPayload{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Database:  "connected",
	}

	response.RespondJSON(w, http.StatusOK, payload)
}

// Metrics godoc
// @Summary     Prometheus metrics
// @Description Exposes request and webhook counters in Prometheus text format. Hidden when metrics are disabled.
// @Tags        metrics
// @Produce     plain
// @Success     200 {string} string "metrics"
// @Failure     404 {object} response.ErrorBody
// @Router      /metrics [get]
func (h *HomeHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if !h.metrics.Enabled() {
		response.RespondError(w, http.StatusNotFound, "metrics disabled")
		return
	}

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.metrics.Render())
}
