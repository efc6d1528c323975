package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/antbot-go/internal/application/common"
)

func TestGlobalRecorders_NoOpWhenDisabled(t *testing.T) {
	Disable()

	assert.False(t, IsEnabled())
	assert.NotPanics(t, func() {
		RecordTurn(TurnSample{Commands: map[string]int{"COLLECT": 1}})
		RecordReservationRelease("preempted")
		RecordOrphanAssignments(2)
		RecordPathSearch("found", 10, 4)
	})
}

func TestEnable_RecordsTurnsThroughGlobals(t *testing.T) {
	// Arrange
	collectors, err := Enable(nil)
	require.NoError(t, err)
	defer Disable()

	// Act
	RecordTurn(TurnSample{
		Duration: 20 * time.Millisecond,
		Commands: map[string]int{"COLLECT": 3, "PATROL": 1},
		Outcomes: map[string]int{"assigned": 4},
		Skipped:  2,
		Degraded: true,
	})
	RecordTurn(TurnSample{Duration: 5 * time.Millisecond})
	RecordReservationRelease("preempted")
	RecordOrphanAssignments(2)
	RecordPathSearch("found", 12, 5)
	RecordPathSearch("no_route", 40, 0)

	// Assert
	e := collectors.Engine
	assert.Equal(t, 1.0, testutil.ToFloat64(e.turnsTotal.WithLabelValues("degraded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.turnsTotal.WithLabelValues("normal")))
	assert.Equal(t, 3.0, testutil.ToFloat64(e.commandsTotal.WithLabelValues("COLLECT")))
	assert.Equal(t, 2.0, testutil.ToFloat64(e.unitsSkipped))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.releasesTotal.WithLabelValues("preempted")))
	assert.Equal(t, 2.0, testutil.ToFloat64(e.orphansAssigned))

	n := collectors.Navigation
	assert.Equal(t, 1.0, testutil.ToFloat64(n.searchesTotal.WithLabelValues("found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(n.searchesTotal.WithLabelValues("no_route")))
	assert.Equal(t, 1, testutil.CollectAndCount(n.routeLength))
}

func TestEngineCollector_UpdateStateSetsGauges(t *testing.T) {
	// Arrange
	state := EngineState{Reservations: 4, LastTurn: 17, TasksByKind: map[string]int{"COLLECT": 4, "RAID": 1}}
	collectors, err := Enable(func() EngineState { return state })
	require.NoError(t, err)
	defer Disable()

	// Act
	collectors.Engine.UpdateState()

	// Assert
	e := collectors.Engine
	assert.Equal(t, 4.0, testutil.ToFloat64(e.reservationsGauge))
	assert.Equal(t, 17.0, testutil.ToFloat64(e.lastTurnGauge))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.tasksGauge.WithLabelValues("RAID")))

	// Act: a kind with no tasks left disappears
	state.TasksByKind = map[string]int{"COLLECT": 2}
	collectors.Engine.UpdateState()

	// Assert
	assert.Equal(t, 1, testutil.CollectAndCount(e.tasksGauge))
}

type fakeRequest struct{}

func TestPrometheusMiddleware_RecordsStatus(t *testing.T) {
	// Arrange
	collectors, err := Enable(nil)
	require.NoError(t, err)
	defer Disable()
	mw := PrometheusMiddleware(collectors.Requests)

	// Act
	_, _ = mw(context.Background(), &fakeRequest{}, func(context.Context, common.Request) (common.Response, error) {
		return nil, nil
	})
	_, _ = mw(context.Background(), &fakeRequest{}, func(context.Context, common.Request) (common.Response, error) {
		return nil, errors.New("boom")
	})

	// Assert
	r := collectors.Requests
	assert.Equal(t, 1.0, testutil.ToFloat64(r.requestsTotal.WithLabelValues("fakeRequest", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.requestsTotal.WithLabelValues("fakeRequest", "error")))
}

func TestEngineCollector_StartStopPolls(t *testing.T) {
	// Arrange
	polled := make(chan struct{}, 1)
	collectors, err := Enable(func() EngineState {
		select {
		case polled <- struct{}{}:
		default:
		}
		return EngineState{}
	})
	require.NoError(t, err)
	defer Disable()

	// Act
	collectors.Engine.Start(context.Background(), 5*time.Millisecond)
	defer collectors.Engine.Stop()

	// Assert
	select {
	case <-polled:
	case <-time.After(2 * time.Second):
		t.Fatal("state was never polled")
	}
}
