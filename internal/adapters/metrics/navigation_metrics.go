package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// NavigationMetricsCollector handles path search metrics
type NavigationMetricsCollector struct {
	searchesTotal    *prometheus.CounterVec
	searchExpansions *prometheus.HistogramVec
	routeLength      prometheus.Histogram
}

// NewNavigationMetricsCollector creates a new navigation metrics collector
func NewNavigationMetricsCollector() *NavigationMetricsCollector {
	return &NavigationMetricsCollector{
		searchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "navigation",
				Name:      "path_searches_total",
				Help:      "Total number of A* searches by result",
			},
			[]string{"result"},
		),

		searchExpansions: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "navigation",
				Name:      "path_search_expansions",
				Help:      "Nodes expanded per A* search",
				Buckets:   []float64{1, 5, 10, 25, 50, 100, 200, 400},
			},
			[]string{"result"},
		),

		routeLength: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "navigation",
				Name:      "route_length_cells",
				Help:      "Length of routes found by A*",
				Buckets:   []float64{1, 2, 4, 8, 12, 16, 24, 32},
			},
		),
	}
}

// Register registers all navigation metrics with the Prometheus registry
func (c *NavigationMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.searchesTotal,
		c.searchExpansions,
		c.routeLength,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// RecordPathSearch records one search
func (c *NavigationMetricsCollector) RecordPathSearch(result string, expansions int, length int) {
	c.searchesTotal.WithLabelValues(result).Inc()
	c.searchExpansions.WithLabelValues(result).Observe(float64(expansions))
	if length > 0 {
		c.routeLength.Observe(float64(length))
	}
}
