package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// EngineState is the cross-turn state exposed as gauges
type EngineState struct {
	Reservations int
	TasksByKind  map[string]int
	LastTurn     int
}

// EngineMetricsCollector handles turn engine metrics
type EngineMetricsCollector struct {
	// Dependencies
	getState func() EngineState

	// Turn metrics
	turnsTotal        *prometheus.CounterVec
	turnDuration      prometheus.Histogram
	commandsTotal     *prometheus.CounterVec
	outcomesTotal     *prometheus.CounterVec
	unitsSkipped      prometheus.Counter
	recordsSanitized  prometheus.Counter
	releasesTotal     *prometheus.CounterVec
	orphansAssigned   prometheus.Counter
	reservationsGauge prometheus.Gauge
	tasksGauge        *prometheus.GaugeVec
	lastTurnGauge     prometheus.Gauge

	// Lifecycle
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewEngineMetricsCollector creates a collector. getState, if non-nil, is
// polled for the state gauges once Start is called.
func NewEngineMetricsCollector(getState func() EngineState) *EngineMetricsCollector {
	return &EngineMetricsCollector{
		getState: getState,

		turnsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "turns_total",
				Help:      "Total number of turns processed by mode",
			},
			[]string{"mode"},
		),

		turnDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "turn_duration_seconds",
				Help:      "Wall-clock time spent deciding one turn",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
			},
		),

		commandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "commands_total",
				Help:      "Total number of unit commands emitted by task tag",
			},
			[]string{"tag"},
		),

		outcomesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "unit_decisions_total",
				Help:      "Total number of unit decisions by outcome",
			},
			[]string{"outcome"},
		),

		unitsSkipped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "units_skipped_total",
				Help:      "Units left without a decision because the turn deadline ran out",
			},
		),

		recordsSanitized: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "snapshot_records_dropped_total",
				Help:      "Malformed snapshot records dropped before processing",
			},
		),

		releasesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "reservations",
				Name:      "released_total",
				Help:      "Total number of reservations released by reason",
			},
			[]string{"reason"},
		),

		orphansAssigned: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "reservations",
				Name:      "orphans_assigned_total",
				Help:      "Reservations granted by orphan reassignment",
			},
		),

		reservationsGauge: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "reservations",
				Name:      "active",
				Help:      "Live reservations in the table",
			},
		),

		tasksGauge: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tasks_active",
				Help:      "Cached unit tasks by kind",
			},
			[]string{"kind"},
		),

		lastTurnGauge: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "last_turn",
				Help:      "Number of the last processed turn",
			},
		),
	}
}

// Register registers all engine metrics with the Prometheus registry
func (c *EngineMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.turnsTotal,
		c.turnDuration,
		c.commandsTotal,
		c.outcomesTotal,
		c.unitsSkipped,
		c.recordsSanitized,
		c.releasesTotal,
		c.orphansAssigned,
		c.reservationsGauge,
		c.tasksGauge,
		c.lastTurnGauge,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// Start begins polling engine state every interval
func (c *EngineMetricsCollector) Start(ctx context.Context, interval time.Duration) {
	c.ctx, c.cancelFunc = context.WithCancel(ctx)

	if c.getState != nil {
		c.wg.Add(1)
		go c.collectState(interval)
	}
}

// Stop gracefully stops the metrics collection
func (c *EngineMetricsCollector) Stop() {
	if c.cancelFunc != nil {
		c.cancelFunc()
	}
	c.wg.Wait()
}

func (c *EngineMetricsCollector) collectState(interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.UpdateState()
		}
	}
}

// UpdateState reads the engine state once and refreshes the gauges
func (c *EngineMetricsCollector) UpdateState() {
	if c.getState == nil {
		return
	}
	state := c.getState()

	c.reservationsGauge.Set(float64(state.Reservations))
	c.lastTurnGauge.Set(float64(state.LastTurn))

	// Reset to drop kinds that no longer have tasks
	c.tasksGauge.Reset()
	for kind, n := range state.TasksByKind {
		c.tasksGauge.WithLabelValues(kind).Set(float64(n))
	}
}

// RecordTurn records one processed turn
func (c *EngineMetricsCollector) RecordTurn(sample TurnSample) {
	mode := "normal"
	if sample.Degraded {
		mode = "degraded"
	}
	c.turnsTotal.WithLabelValues(mode).Inc()
	c.turnDuration.Observe(sample.Duration.Seconds())

	for tag, n := range sample.Commands {
		c.commandsTotal.WithLabelValues(tag).Add(float64(n))
	}
	for outcome, n := range sample.Outcomes {
		c.outcomesTotal.WithLabelValues(outcome).Add(float64(n))
	}
	c.unitsSkipped.Add(float64(sample.Skipped))
	c.recordsSanitized.Add(float64(sample.Sanitized))
}

// RecordReservationRelease records one released reservation
func (c *EngineMetricsCollector) RecordReservationRelease(reason string) {
	c.releasesTotal.WithLabelValues(reason).Inc()
}

// RecordOrphanAssignments records reservations granted by orphan reassignment
func (c *EngineMetricsCollector) RecordOrphanAssignments(count int) {
	c.orphansAssigned.Add(float64(count))
}
