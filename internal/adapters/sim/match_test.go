package sim_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/andrescamacho/antbot-go/internal/adapters/sim"
	"github.com/andrescamacho/antbot-go/internal/application/scheduler"
	"github.com/andrescamacho/antbot-go/internal/domain/shared"
	"github.com/andrescamacho/antbot-go/internal/domain/tuning"
)

func newEngine() *scheduler.TurnEngine {
	return scheduler.NewTurnEngine(tuning.Default(), scheduler.WithClock(shared.NewMockClock(time.Unix(0, 0))))
}

func TestPlayMatch_ReservationsStayExclusive(t *testing.T) {
	// Arrange
	arena, err := sim.GenerateArena(sim.ArenaConfig{
		Seed: 42, Radius: 14, MaxTurns: 120,
		Workers: 8, Soldiers: 2, Scouts: 2, Resources: 20, Enemies: 3,
	})
	require.NoError(t, err)
	engine := newEngine()

	violations := 0
	hook := func(result *scheduler.TurnResult, _ sim.ApplyReport) {
		keys := make(map[string]bool)
		holders := make(map[string]bool)
		for _, r := range engine.Reservations() {
			if keys[r.ResourceKey] || holders[r.Holder] {
				violations++
			}
			keys[r.ResourceKey] = true
			holders[r.Holder] = true
		}

		seen := make(map[string]bool)
		for _, c := range result.Commands {
			if seen[c.UnitID] || len(c.Path) == 0 {
				violations++
			}
			seen[c.UnitID] = true
		}
	}

	// Act
	total, err := sim.PlayMatch(context.Background(), engine, arena, sim.WithTurnHook(hook))

	// Assert
	require.NoError(t, err)
	assert.Zero(t, violations)
	assert.Equal(t, 120, total.Turns)
	assert.Positive(t, total.Commands)
	assert.Zero(t, total.Skipped)
}

func TestPlayMatch_StopsOnCancel(t *testing.T) {
	// Arrange
	arena, err := sim.GenerateArena(sim.ArenaConfig{Seed: 1, Radius: 8, MaxTurns: 1000, Workers: 2, Resources: 4})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())

	turns := 0
	hook := func(*scheduler.TurnResult, sim.ApplyReport) {
		turns++
		if turns == 5 {
			cancel()
		}
	}

	// Act
	total, err := sim.PlayMatch(ctx, newEngine(), arena, sim.WithTurnHook(hook), sim.WithLimiter(rate.NewLimiter(rate.Inf, 1)))

	// Assert
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 5, total.Turns)
}
