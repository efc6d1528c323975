package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace for all metrics
	namespace = "antbot"

	// Subsystem for turn engine metrics
	subsystem = "engine"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalEngineCollector is the singleton turn engine collector
	// Set by SetGlobalEngineCollector() when metrics are enabled
	globalEngineCollector EngineMetricsRecorder

	// globalNavigationCollector is the singleton path search collector
	// Set by SetGlobalNavigationCollector() when metrics are enabled
	globalNavigationCollector NavigationMetricsRecorder
)

// TurnSample is what the engine reports after every processed turn
type TurnSample struct {
	Duration  time.Duration
	Commands  map[string]int // by task tag
	Outcomes  map[string]int // by decision outcome
	Skipped   int
	Degraded  bool
	Sanitized int
}

// EngineMetricsRecorder defines the interface for recording turn engine events
type EngineMetricsRecorder interface {
	RecordTurn(sample TurnSample)
	RecordReservationRelease(reason string)
	RecordOrphanAssignments(count int)
}

// NavigationMetricsRecorder defines the interface for recording path searches
type NavigationMetricsRecorder interface {
	RecordPathSearch(result string, expansions int, length int)
}

// InitRegistry initializes the Prometheus registry
// Should be called once at application startup if metrics are enabled
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global Prometheus registry
// Returns nil if metrics are not initialized
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// SetGlobalEngineCollector sets the global engine metrics collector
func SetGlobalEngineCollector(collector EngineMetricsRecorder) {
	globalEngineCollector = collector
}

// RecordTurn records a processed turn globally
func RecordTurn(sample TurnSample) {
	if globalEngineCollector != nil {
		globalEngineCollector.RecordTurn(sample)
	}
}

// RecordReservationRelease records a released reservation globally
func RecordReservationRelease(reason string) {
	if globalEngineCollector != nil {
		globalEngineCollector.RecordReservationRelease(reason)
	}
}

// RecordOrphanAssignments records reservations granted by orphan reassignment globally
func RecordOrphanAssignments(count int) {
	if globalEngineCollector != nil {
		globalEngineCollector.RecordOrphanAssignments(count)
	}
}

// SetGlobalNavigationCollector sets the global navigation metrics collector
func SetGlobalNavigationCollector(collector NavigationMetricsRecorder) {
	globalNavigationCollector = collector
}

// RecordPathSearch records one A* search globally
func RecordPathSearch(result string, expansions int, length int) {
	if globalNavigationCollector != nil {
		globalNavigationCollector.RecordPathSearch(result, expansions, length)
	}
}

// Collectors are the registered collectors returned by Enable
type Collectors struct {
	Engine     *EngineMetricsCollector
	Navigation *NavigationMetricsCollector
	Requests   *RequestMetricsCollector
}

// Enable creates a fresh registry, registers every collector on it and
// installs the global recorders. getState feeds the engine state gauges.
func Enable(getState func() EngineState) (*Collectors, error) {
	InitRegistry()

	c := &Collectors{
		Engine:     NewEngineMetricsCollector(getState),
		Navigation: NewNavigationMetricsCollector(),
		Requests:   NewRequestMetricsCollector(),
	}
	if err := c.Engine.Register(); err != nil {
		return nil, fmt.Errorf("failed to register engine metrics: %w", err)
	}
	if err := c.Navigation.Register(); err != nil {
		return nil, fmt.Errorf("failed to register navigation metrics: %w", err)
	}
	if err := c.Requests.Register(); err != nil {
		return nil, fmt.Errorf("failed to register request metrics: %w", err)
	}

	SetGlobalEngineCollector(c.Engine)
	SetGlobalNavigationCollector(c.Navigation)
	return c, nil
}

// Disable drops the registry and the global recorders
func Disable() {
	Registry = nil
	globalEngineCollector = nil
	globalNavigationCollector = nil
}
