package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	domain "github.com/Pratham1708/lyftr-ai-backend/internal/domain/message"
	"github.com/Pratham1708/lyftr-ai-backend/internal/metrics"
	"github.com/Pratham1708/lyftr-ai-backend/internal/middleware"
	"github.com/Pratham1708/lyftr-ai-backend/internal/request"
	"github.com/Pratham1708/lyftr-ai-backend/internal/response"
	"github.com/Pratham1708/lyftr-ai-backend/internal/service"
	"github.com/Pratham1708/lyftr-ai-backend/internal/signature"
	"go.uber.org/zap"
)

// WebhookHandler ingests signed webhook payloads.
type WebhookHandler struct {
	svc     service.MessageService
	secret  string
	logger  *zap.Logger
	metrics *metrics.Registry
}

// NewWebhookHandler constructs a WebhookHandler with its dependencies.
// The secret comes from configuration; when empty, every request is
// rejected as unauthenticated.
func NewWebhookHandler(svc service.MessageService, secret string, logger *zap.Logger, m *metrics.Registry) *WebhookHandler {
	return &WebhookHandler{
		svc:     svc,
		secret:  secret,
		logger:  logger,
		metrics: m,
	}
}

// Receive godoc
// @Summary     Ingest a webhook message
// @Description Verifies the X-Signature HMAC over the raw body, validates the payload and stores it idempotently. Duplicate message_ids acknowledge with 200 as well.
// @Tags        webhook
// @Accept      json
// @Produce     json
// @Param       X-Signature header string true "Hex-encoded HMAC-SHA256 of the raw request body"
// @Param       payload body request.WebhookPayload true "Message payload"
// @Success     200 {object} response.WebhookAck
// @Failure     401 {object} response.ErrorBody
// @Failure     422 {object} response.ErrorBody
// @Failure     500 {object} response.ErrorBody
// @Router      /webhook [post]
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	// The signature is computed over the exact bytes on the wire, so the
	// body has to be read before any JSON decoding.
	body, err := io.ReadAll(r.Body)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to read request body")
		return
	}

	if !signature.Verify(body, r.Header.Get("X-Signature"), h.secret) {
		h.observe(r, "", false, "invalid_signature", http.StatusUnauthorized, start)
		response.RespondError(w, http.StatusUnauthorized, "invalid signature")
		return
	}

	var payload request.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		h.observe(r, payload.MessageID, false, "validation_error", http.StatusUnprocessableEntity, start)
		response.RespondError(w, http.StatusUnprocessableEntity, "malformed JSON body")
		return
	}

	msg, err := domain.New(payload.MessageID, payload.From, payload.To, payload.TS, payload.Text)
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			h.observe(r, payload.MessageID, false, "validation_error", http.StatusUnprocessableEntity, start)
			response.RespondValidationError(w, vErr.Error(), vErr.Fields)
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	outcome, err := h.svc.Ingest(r.Context(), msg)
	if err != nil {
		h.observe(r, msg.MessageID, false, "validation_error", http.StatusInternalServerError, start)
		response.RespondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	dup := outcome == domain.OutcomeDuplicate
	h.observe(r, msg.MessageID, dup, outcome.String(), http.StatusOK, start)

	response.RespondJSON(w, http.StatusOK, response.WebhookAck{Status: "ok"})
}

// observe emits the per-ingestion outcome signal: one metrics sample and one
// structured log record carrying the idempotency outcome.
func (h *WebhookHandler) observe(r *http.Request, messageID string, dup bool, result string, status int, start time.Time) {
	latencyMS := float64(time.Since(start)) / float64(time.Millisecond)

	h.metrics.RecordWebhook(result)

	if h.logger != nil {
		h.logger.Info("webhook",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Float64("latency_ms", latencyMS),
			zap.String("message_id", messageID),
			zap.Bool("dup", dup),
			zap.String("result", result),
			zap.String("request_id", middleware.RequestIDFromContext(r.Context())),
		)
	}
}
