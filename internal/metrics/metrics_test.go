package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_HTTPCounters(t *testing.T) {
	r := NewRegistry(true)

	r.RecordHTTPRequest("/messages", 200, 42)
	r.RecordHTTPRequest("/messages", 200, 7)
	r.RecordHTTPRequest("/messages", 422, 3)
	r.RecordHTTPRequest("/webhook", 200, 15)

	out := string(r.Render())
	assert.Contains(t, out, `http_requests_total{path="/messages",status="200"} 2`)
	assert.Contains(t, out, `http_requests_total{path="/messages",status="422"} 1`)
	assert.Contains(t, out, `http_requests_total{path="/webhook",status="200"} 1`)
}

func TestRegistry_WebhookCounters(t *testing.T) {
	r := NewRegistry(true)

	r.RecordWebhook("created")
	r.RecordWebhook("created")
	r.RecordWebhook("duplicate")
	r.RecordWebhook("invalid_signature")

	out := string(r.Render())
	assert.Contains(t, out, `webhook_requests_total{result="created"} 2`)
	assert.Contains(t, out, `webhook_requests_total{result="duplicate"} 1`)
	assert.Contains(t, out, `webhook_requests_total{result="invalid_signature"} 1`)
}

func TestRegistry_LatencyHistogram(t *testing.T) {
	r := NewRegistry(true)

	// 50ms lands in every bucket, 700ms only from the 1000ms bound upward.
	r.RecordHTTPRequest("/stats", 200, 50)
	r.RecordHTTPRequest("/stats", 200, 700)

	out := string(r.Render())
	assert.Contains(t, out, `request_latency_ms_bucket{path="/stats",le="100"} 1`)
	assert.Contains(t, out, `request_latency_ms_bucket{path="/stats",le="500"} 1`)
	assert.Contains(t, out, `request_latency_ms_bucket{path="/stats",le="1000"} 2`)
	assert.Contains(t, out, `request_latency_ms_bucket{path="/stats",le="10000"} 2`)
	assert.Contains(t, out, `request_latency_ms_bucket{path="/stats",le="+Inf"} 2`)
	assert.Contains(t, out, `request_latency_ms_sum{path="/stats"} 750`)
	assert.Contains(t, out, `request_latency_ms_count{path="/stats"} 2`)
}

func TestRegistry_DisabledIsNoop(t *testing.T) {
	r := NewRegistry(false)

	r.RecordHTTPRequest("/messages", 200, 5)
	r.RecordWebhook("created")

	assert.False(t, r.Enabled())
	out := string(r.Render())
	assert.NotContains(t, out, "/messages")
	assert.NotContains(t, out, "created")
}

func TestRegistry_NilSafe(t *testing.T) {
	var r *Registry

	assert.False(t, r.Enabled())
	assert.NotPanics(t, func() {
		r.RecordHTTPRequest("/messages", 200, 5)
		r.RecordWebhook("created")
	})
}
