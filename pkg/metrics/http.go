package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics records request counts and latencies per route.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inflight prometheus.Gauge
}

// NewHTTPMetrics registers the HTTP metrics on the provided registerer.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests processed, partitioned by method, route, and status.",
	}, []string{"method", "route", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	inflight := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "HTTP requests currently being served.",
	})
	reg.MustRegister(requests, duration, inflight)
	return &HTTPMetrics{
		requests: requests,
		duration: duration,
		inflight: inflight,
	}
}

// ObserveRequest records one completed request.
func (h *HTTPMetrics) ObserveRequest(method, route, status string, elapsed time.Duration) {
	if h == nil || h.requests == nil {
		return
	}
	route = normalizeLabel(route)
	h.requests.WithLabelValues(method, route, status).Inc()
	h.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// IncInFlight marks a request as started.
func (h *HTTPMetrics) IncInFlight() {
	if h == nil || h.inflight == nil {
		return
	}
	h.inflight.Inc()
}

// DecInFlight marks a request as finished.
func (h *HTTPMetrics) DecInFlight() {
	if h == nil || h.inflight == nil {
		return
	}
	h.inflight.Dec()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
