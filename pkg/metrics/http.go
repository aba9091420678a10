package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RequestMetrics records per-route request counts and latencies.
type RequestMetrics struct {
	duration *prometheus.HistogramVec
	total    *prometheus.CounterVec
}

// NewRequestMetrics registers the HTTP metrics on the provided registerer.
func NewRequestMetrics(reg prometheus.Registerer) *RequestMetrics {
	if reg == nil {
		return &RequestMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})
	total := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Completed HTTP requests.",
	}, []string{"route", "method", "status"})
	reg.MustRegister(duration, total)
	return &RequestMetrics{
		duration: duration,
		total:    total,
	}
}

// Observe records one completed request.
func (m *RequestMetrics) Observe(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	route = normalizeLabel(route)
	if m.duration != nil {
		m.duration.WithLabelValues(route, method).Observe(duration.Seconds())
	}
	if m.total != nil {
		m.total.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	}
}

func normalizeLabel(route string) string {
	if route == "" {
		return "unknown"
	}
	return route
}
