package handler

import (
	"net/http"
	"strconv"
	"time"

	domain "github.com/Pratham1708/lyftr-ai-backend/internal/domain/message"
	"github.com/Pratham1708/lyftr-ai-backend/internal/response"
	"github.com/Pratham1708/lyftr-ai-backend/internal/service"
)

// MessageHandler serves the read side: filtered listings and aggregates.
type MessageHandler struct {
	svc          service.MessageService
	defaultLimit int
	maxLimit     int
}

// NewMessageHandler constructs a MessageHandler. Non-positive pagination
// bounds fall back to the package defaults.
func NewMessageHandler(svc service.MessageService, defaultLimit, maxLimit int) *MessageHandler {
	if defaultLimit <= 0 {
		defaultLimit = domain.DefaultPageLimit
	}
	if maxLimit <= 0 {
		maxLimit = domain.MaxPageLimit
	}

	return &MessageHandler{
		svc:          svc,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// List godoc
// @Summary     List messages
// @Description Returns stored messages ordered by (ts ASC, message_id ASC) with pagination and optional filters.
// @Tags        messages
// @Produce     json
// @Param       limit  query int    false "Page size (1-100)" default(50)
// @Param       offset query int    false "Page offset"       default(0)
// @Param       from   query string false "Exact sender filter"
// @Param       since  query string false "Inclusive ISO-8601 lower bound on ts"
// @Param       q      query string false "Case-sensitive substring search on text"
// @Success     200 {object} response.MessageListPayload
// @Failure     422 {object} response.ErrorBody
// @Failure     500 {object} response.ErrorBody
// @Router      /messages [get]
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := h.defaultLimit
	if raw := query.Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > h.maxLimit {
			response.RespondValidationError(w, "limit must be between 1 and "+strconv.Itoa(h.maxLimit), []string{"limit"})
			return
		}
		limit = v
	}

	offset := 0
	if raw := query.Get("offset"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			response.RespondValidationError(w, "offset must be zero or positive", []string{"offset"})
			return
		}
		offset = v
	}

	var since *time.Time
	if raw := query.Get("since"); raw != "" {
		t, err := domain.ParseTimestamp(raw)
		if err != nil {
			response.RespondValidationError(w, "since must be an ISO-8601 date-time", []string{"since"})
			return
		}
		since = &t
	}

	filter := domain.Filter{
		From:     query.Get("from"),
		Since:    since,
		Contains: query.Get("q"),
	}

	items, total, err := h.svc.List(r.Context(), filter, domain.Page{Limit: limit, Offset: offset})
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	payload := response.MessageListPayload{
		Data:   response.FromDomainMessages(items),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}

	response.RespondJSON(w, http.StatusOK, payload)
}

// Stats godoc
// @Summary     Message analytics
// @Description Returns message totals, distinct sender count, the top-10 senders and the first/last message timestamps.
// @Tags        stats
// @Produce     json
// @Success     200 {object} response.StatsPayload
// @Failure     500 {object} response.ErrorBody
// @Router      /stats [get]
func (h *MessageHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	response.RespondJSON(w, http.StatusOK, response.FromDomainStats(stats))
}
