package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	domain "github.com/Pratham1708/lyftr-ai-backend/internal/domain/message"
	"github.com/Pratham1708/lyftr-ai-backend/internal/metrics"
	memrepo "github.com/Pratham1708/lyftr-ai-backend/internal/repository/memory/message"
	"github.com/Pratham1708/lyftr-ai-backend/internal/response"
	"github.com/Pratham1708/lyftr-ai-backend/internal/service"
	"github.com/Pratham1708/lyftr-ai-backend/internal/signature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "testsecret"

// countingRepo wraps a repository and counts insert attempts, so tests can
// prove that rejected requests never reach storage.
type countingRepo struct {
	domain.Repository
	inserts int32
}

func (r *countingRepo) Insert(ctx context.Context, m *domain.Message) (domain.InsertOutcome, error) {
	atomic.AddInt32(&r.inserts, 1)
	return r.Repository.Insert(ctx, m)
}

type webhookFixture struct {
	handler *WebhookHandler
	repo    *countingRepo
	svc     service.MessageService
	metrics *metrics.Registry
}

func newWebhookFixture(t *testing.T, secret string) *webhookFixture {
	t.Helper()

	repo := &countingRepo{Repository: memrepo.NewRepository()}
	svc := service.NewMessageService(repo, nil, time.Minute)
	registry := metrics.NewRegistry(true)

	return &webhookFixture{
		handler: NewWebhookHandler(svc, secret, zap.NewNop(), registry),
		repo:    repo,
		svc:     svc,
		metrics: registry,
	}
}

func postWebhook(t *testing.T, h *WebhookHandler, body []byte, sig string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	if sig != "" {
		req.Header.Set("X-Signature", sig)
	}

	rec := httptest.NewRecorder()
	h.Receive(rec, req)
	return rec
}

func signedPayload(t *testing.T, payload map[string]any) ([]byte, string) {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return body, signature.Compute(body, testSecret)
}

func validPayload() map[string]any {
	return map[string]any{
		"message_id": "m1",
		"from":       "+919876543210",
		"to":         "+14155550100",
		"ts":         "2025-01-15T10:00:00Z",
		"text":       "Hello",
	}
}

func TestWebhook_ValidSignature(t *testing.T) {
	f := newWebhookFixture(t, testSecret)

	body, sig := signedPayload(t, validPayload())
	rec := postWebhook(t, f.handler, body, sig)

	assert.Equal(t, http.StatusOK, rec.Code)

	var ack response.WebhookAck
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ack))
	assert.Equal(t, "ok", ack.Status)
}

func TestWebhook_InvalidSignatureSkipsStorage(t *testing.T) {
	f := newWebhookFixture(t, testSecret)

	body, _ := signedPayload(t, validPayload())
	rec := postWebhook(t, f.handler, body, "invalid_signature")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.EqualValues(t, 0, atomic.LoadInt32(&f.repo.inserts), "no storage mutation on auth failure")

	var errBody response.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errBody))
	assert.Equal(t, "invalid signature", errBody.Detail)
}

func TestWebhook_MissingSignatureHeader(t *testing.T) {
	f := newWebhookFixture(t, testSecret)

	body, _ := signedPayload(t, validPayload())
	rec := postWebhook(t, f.handler, body, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.EqualValues(t, 0, atomic.LoadInt32(&f.repo.inserts))
}

func TestWebhook_FailsClosedWithoutSecret(t *testing.T) {
	f := newWebhookFixture(t, "")

	// Even a signature computed with the empty secret must be rejected.
	body, err := json.Marshal(validPayload())
	require.NoError(t, err)
	rec := postWebhook(t, f.handler, body, signature.Compute(body, ""))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.EqualValues(t, 0, atomic.LoadInt32(&f.repo.inserts))
}

func TestWebhook_Idempotency(t *testing.T) {
	f := newWebhookFixture(t, testSecret)

	body, sig := signedPayload(t, validPayload())

	rec1 := postWebhook(t, f.handler, body, sig)
	assert.Equal(t, http.StatusOK, rec1.Code)

	// The duplicate acknowledges with 200 as well but stores nothing new.
	rec2 := postWebhook(t, f.handler, body, sig)
	assert.Equal(t, http.StatusOK, rec2.Code)

	stats, err := f.svc.Stats(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalMessages)
}

func TestWebhook_IdempotencyIgnoresSecondPayload(t *testing.T) {
	f := newWebhookFixture(t, testSecret)

	body, sig := signedPayload(t, validPayload())
	rec := postWebhook(t, f.handler, body, sig)
	require.Equal(t, http.StatusOK, rec.Code)

	altered := validPayload()
	altered["text"] = "rewritten"
	altered["ts"] = "2030-01-01T00:00:00Z"
	body2, sig2 := signedPayload(t, altered)
	rec = postWebhook(t, f.handler, body2, sig2)
	require.Equal(t, http.StatusOK, rec.Code)

	items, total, err := f.svc.List(context.Background(), domain.Filter{}, domain.Page{Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Text)
	assert.Equal(t, "Hello", *items[0].Text)
	assert.Equal(t, 2025, items[0].TS.Year())
}

func TestWebhook_InvalidE164(t *testing.T) {
	f := newWebhookFixture(t, testSecret)

	payload := validPayload()
	payload["from"] = "919876543210" // no leading +
	body, sig := signedPayload(t, payload)
	rec := postWebhook(t, f.handler, body, sig)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.EqualValues(t, 0, atomic.LoadInt32(&f.repo.inserts), "no storage mutation on validation failure")

	var errBody response.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errBody))
	assert.Contains(t, errBody.Fields, "from")
}

func TestWebhook_MissingRequiredFields(t *testing.T) {
	f := newWebhookFixture(t, testSecret)

	body, sig := signedPayload(t, map[string]any{
		"message_id": "m5",
		"from":       "+919876543210",
	})
	rec := postWebhook(t, f.handler, body, sig)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var errBody response.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errBody))
	assert.Contains(t, errBody.Fields, "to")
	assert.Contains(t, errBody.Fields, "ts")
}

func TestWebhook_TextOptional(t *testing.T) {
	f := newWebhookFixture(t, testSecret)

	payload := validPayload()
	delete(payload, "text")
	body, sig := signedPayload(t, payload)
	rec := postWebhook(t, f.handler, body, sig)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWebhook_TextTooLong(t *testing.T) {
	f := newWebhookFixture(t, testSecret)

	payload := validPayload()
	payload["text"] = strings.Repeat("x", 5000)
	body, sig := signedPayload(t, payload)
	rec := postWebhook(t, f.handler, body, sig)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var errBody response.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errBody))
	assert.Contains(t, errBody.Fields, "text")
}

func TestWebhook_UnknownFieldsIgnored(t *testing.T) {
	f := newWebhookFixture(t, testSecret)

	payload := validPayload()
	payload["unexpected"] = "extra"
	body, sig := signedPayload(t, payload)
	rec := postWebhook(t, f.handler, body, sig)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWebhook_MalformedJSON(t *testing.T) {
	f := newWebhookFixture(t, testSecret)

	body := []byte(`{"message_id": `)
	rec := postWebhook(t, f.handler, body, signature.Compute(body, testSecret))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.EqualValues(t, 0, atomic.LoadInt32(&f.repo.inserts))
}

func TestWebhook_RecordsResultMetrics(t *testing.T) {
	f := newWebhookFixture(t, testSecret)

	body, sig := signedPayload(t, validPayload())
	postWebhook(t, f.handler, body, sig)
	postWebhook(t, f.handler, body, sig)
	postWebhook(t, f.handler, body, "wrong")

	rendered := string(f.metrics.Render())
	assert.Contains(t, rendered, `webhook_requests_total{result="created"} 1`)
	assert.Contains(t, rendered, `webhook_requests_total{result="duplicate"} 1`)
	assert.Contains(t, rendered, `webhook_requests_total{result="invalid_signature"} 1`)
}
