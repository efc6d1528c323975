package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// RequestMetricsCollector handles mediator request metrics
type RequestMetricsCollector struct {
	requestDuration *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
}

// NewRequestMetricsCollector creates a new request metrics collector
func NewRequestMetricsCollector() *RequestMetricsCollector {
	return &RequestMetricsCollector{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "mediator",
				Name:      "request_duration_seconds",
				Help:      "Request handling duration distribution",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
			[]string{"request", "status"},
		),

		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "mediator",
				Name:      "requests_total",
				Help:      "Total number of requests handled by type and status",
			},
			[]string{"request", "status"},
		),
	}
}

// Register registers all request metrics with the Prometheus registry
func (c *RequestMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.requestDuration,
		c.requestsTotal,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// RecordRequest records one handled request
func (c *RequestMetricsCollector) RecordRequest(requestName string, duration float64, success bool) {
	status := "success"
	if !success {
		status = "error"
	}

	c.requestDuration.WithLabelValues(requestName, status).Observe(duration)
	c.requestsTotal.WithLabelValues(requestName, status).Inc()
}
