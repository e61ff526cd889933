// Package metrics keeps in-process request counters and latency histograms
// and renders them in the Prometheus text exposition format.
package metrics

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"sync"
)

// latencyBuckets are the histogram upper bounds in milliseconds.
var latencyBuckets = []float64{100, 500, 1000, 2500, 5000, 10000}

type httpKey struct {
	path   string
	status int
}

type histogram struct {
	bucketCounts []uint64
	sum          float64
	count        uint64
}

// Registry collects HTTP and webhook counters. It is constructed once in
// main and injected into the middleware and handlers; a disabled registry
// turns every call into a no-op.
type Registry struct {
	enabled bool

	mu             sync.Mutex
	httpRequests   map[httpKey]uint64
	webhookResults map[string]uint64
	latency        map[string]*histogram
}

// NewRegistry returns a registry. When enabled is false, recording and
// rendering are no-ops (the /metrics endpoint is hidden by the handler).
func NewRegistry(enabled bool) *Registry {
	return &Registry{
		enabled:        enabled,
		httpRequests:   make(map[httpKey]uint64),
		webhookResults: make(map[string]uint64),
		latency:        make(map[string]*histogram),
	}
}

// Enabled reports whether the registry records and exposes metrics.
func (r *Registry) Enabled() bool {
	return r != nil && r.enabled
}

// RecordHTTPRequest counts one request and its latency for the given path.
func (r *Registry) RecordHTTPRequest(path string, status int, durationMS float64) {
	if !r.Enabled() {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.httpRequests[httpKey{path: path, status: status}]++

	h, ok := r.latency[path]
	if !ok {
		h = &histogram{bucketCounts: make([]uint64, len(latencyBuckets))}
		r.latency[path] = h
	}
	for i, bound := range latencyBuckets {
		if durationMS <= bound {
			h.bucketCounts[i]++
		}
	}
	h.sum += durationMS
	h.count++
}

// RecordWebhook counts one webhook ingestion by result
// (created, duplicate, invalid_signature, validation_error).
func (r *Registry) RecordWebhook(result string) {
	if !r.Enabled() {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.webhookResults[result]++
}

// Render produces the Prometheus text exposition of all collected series,
// with label sets sorted for a stable output.
func (r *Registry) Render() []byte {
	var buf bytes.Buffer

	r.mu.Lock()
	defer r.mu.Unlock()

	buf.WriteString("# HELP http_requests_total Total number of HTTP requests\n")
	buf.WriteString("# TYPE http_requests_total counter\n")
	httpKeys := make([]httpKey, 0, len(r.httpRequests))
	for k := range r.httpRequests {
		httpKeys = append(httpKeys, k)
	}
	sort.Slice(httpKeys, func(i, j int) bool {
		if httpKeys[i].path != httpKeys[j].path {
			return httpKeys[i].path < httpKeys[j].path
		}
		return httpKeys[i].status < httpKeys[j].status
	})
	for _, k := range httpKeys {
		fmt.Fprintf(&buf, "http_requests_total{path=%q,status=%q} %d\n",
			k.path, strconv.Itoa(k.status), r.httpRequests[k])
	}

	buf.WriteString("# HELP webhook_requests_total Total number of webhook requests\n")
	buf.WriteString("# TYPE webhook_requests_total counter\n")
	results := make([]string, 0, len(r.webhookResults))
	for result := range r.webhookResults {
		results = append(results, result)
	}
	sort.Strings(results)
	for _, result := range results {
		fmt.Fprintf(&buf, "webhook_requests_total{result=%q} %d\n",
			result, r.webhookResults[result])
	}

	buf.WriteString("# HELP request_latency_ms Request latency in milliseconds\n")
	buf.WriteString("# TYPE request_latency_ms histogram\n")
	paths := make([]string, 0, len(r.latency))
	for path := range r.latency {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		h := r.latency[path]
		for i, bound := range latencyBuckets {
			fmt.Fprintf(&buf, "request_latency_ms_bucket{path=%q,le=%q} %d\n",
				path, strconv.FormatFloat(bound, 'f', -1, 64), h.bucketCounts[i])
		}
		fmt.Fprintf(&buf, "request_latency_ms_bucket{path=%q,le=\"+Inf\"} %d\n", path, h.count)
		fmt.Fprintf(&buf, "request_latency_ms_sum{path=%q} %s\n",
			path, strconv.FormatFloat(h.sum, 'f', -1, 64))
		fmt.Fprintf(&buf, "request_latency_ms_count{path=%q} %d\n", path, h.count)
	}

	return buf.Bytes()
}
