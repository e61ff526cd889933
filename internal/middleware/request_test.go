package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordedRequest struct {
	path       string
	status     int
	durationMS float64
}

type fakeRecorder struct {
	requests []recordedRequest
}

func (f *fakeRecorder) RecordHTTPRequest(path string, status int, durationMS float64) {
	f.requests = append(f.requests, recordedRequest{path: path, status: status, durationMS: durationMS})
}

func TestRequestContext_AssignsRequestID(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	RequestContext(zap.NewNop(), nil)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/messages", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))
}

func TestRequestContext_UniquePerRequest(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	wrapped := RequestContext(zap.NewNop(), nil)(next)

	rec1 := httptest.NewRecorder()
	wrapped.ServeHTTP(rec1, httptest.NewRequest(http.MethodGet, "/", nil))
	rec2 := httptest.NewRecorder()
	wrapped.ServeHTTP(rec2, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEqual(t, rec1.Header().Get("X-Request-ID"), rec2.Header().Get("X-Request-ID"))
}

func TestRequestContext_RecordsMetrics(t *testing.T) {
	recorder := &fakeRecorder{}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})

	rec := httptest.NewRecorder()
	RequestContext(zap.NewNop(), recorder)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/messages", nil))

	require.Len(t, recorder.requests, 1)
	assert.Equal(t, "/messages", recorder.requests[0].path)
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.requests[0].status)
	assert.GreaterOrEqual(t, recorder.requests[0].durationMS, 0.0)
}

func TestRequestContext_DefaultsStatusTo200(t *testing.T) {
	recorder := &fakeRecorder{}
	// Handler writes a body without an explicit WriteHeader call.
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	rec := httptest.NewRecorder()
	RequestContext(nil, recorder)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Len(t, recorder.requests, 1)
	assert.Equal(t, http.StatusOK, recorder.requests[0].status)
}

func TestRequestIDFromContext_EmptyOutsideRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, RequestIDFromContext(req.Context()))
}
