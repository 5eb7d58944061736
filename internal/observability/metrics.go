// Package observability provides metrics collection for the WildSnap server.
package observability

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all the metric collectors for the application.
type Metrics struct {
	registry *prometheus.Registry

	// Identification pipeline
	IdentifyRequests *prometheus.CounterVec
	VisionAPICalls   prometheus.Counter
	VisionAPIErrors  prometheus.Counter
	VisionDuration   prometheus.Histogram

	// HTTP surface
	HTTPRequests *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all collectors registered.
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		IdentifyRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wildsnap_identify_requests_total",
			Help: "Total identification requests by outcome",
		}, []string{"status"}),
		VisionAPICalls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wildsnap_vision_api_calls_total",
			Help: "Total calls to the external vision model",
		}),
		VisionAPIErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wildsnap_vision_api_errors_total",
			Help: "Total failed calls to the external vision model",
		}),
		VisionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "wildsnap_vision_call_duration_seconds",
			Help:    "Duration of external vision model calls",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wildsnap_http_requests_total",
			Help: "Total HTTP requests by method, path and status",
		}, []string{"method", "path", "status"}),
	}

	collectors := []prometheus.Collector{
		m.IdentifyRequests,
		m.VisionAPICalls,
		m.VisionAPIErrors,
		m.VisionDuration,
		m.HTTPRequests,
	}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metrics collector: %w", err)
		}
	}

	return m, nil
}

// Handler returns an HTTP handler exposing the metrics registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTPRequest records a completed HTTP request.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int) {
	m.HTTPRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}
