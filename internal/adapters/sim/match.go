package sim

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/antbot-go/internal/application/common"
	"github.com/andrescamacho/antbot-go/internal/application/scheduler"
)

// MatchResult totals a played match
type MatchResult struct {
	Turns      int
	Calories   int
	Commands   int
	Skipped    int
	Degraded   int
	Casualties int
	Kills      int
}

// TurnHook observes each turn after the arena applied it
type TurnHook func(result *scheduler.TurnResult, applied ApplyReport)

// MatchOption configures PlayMatch
type MatchOption func(*matchSettings)

type matchSettings struct {
	limiter *rate.Limiter
	hook    TurnHook
}

// WithLimiter paces turns; each turn waits for a token
func WithLimiter(l *rate.Limiter) MatchOption {
	return func(s *matchSettings) { s.limiter = l }
}

// WithTurnHook calls hook after every turn
func WithTurnHook(hook TurnHook) MatchOption {
	return func(s *matchSettings) { s.hook = hook }
}

// PlayMatch runs the engine against the arena until the match ends or ctx is
// cancelled. Cancellation returns the partial result with ctx's error.
func PlayMatch(ctx context.Context, engine *scheduler.TurnEngine, arena *Arena, opts ...MatchOption) (MatchResult, error) {
	settings := matchSettings{}
	for _, opt := range opts {
		opt(&settings)
	}

	logger := common.LoggerFromContext(ctx)
	var total MatchResult

	for !arena.Finished() {
		if settings.limiter != nil {
			if err := settings.limiter.Wait(ctx); err != nil {
				return total, err
			}
		}
		if err := ctx.Err(); err != nil {
			return total, err
		}

		result, err := engine.ProcessTurn(ctx, arena.Snapshot())
		if err != nil {
			return total, fmt.Errorf("turn %d: %w", arena.Turn(), err)
		}
		applied := arena.Apply(result.Commands)

		total.Turns++
		total.Commands += len(result.Commands)
		total.Skipped += len(result.Skipped)
		if result.Degraded {
			total.Degraded++
		}
		total.Casualties += len(applied.Casualties)
		total.Kills += len(applied.Kills)
		total.Calories = arena.Calories()

		if len(applied.Casualties) > 0 {
			logger.Log(common.LevelInfo, fmt.Sprintf("[Arena] Turn %d: lost %v", applied.Turn, applied.Casualties), map[string]interface{}{
				"turn": applied.Turn,
			})
		}
		if settings.hook != nil {
			settings.hook(result, applied)
		}
	}

	logger.Log(common.LevelInfo, fmt.Sprintf("[Arena] Match over after %d turns, %d calories delivered", total.Turns, total.Calories), map[string]interface{}{
		"turns":      total.Turns,
		"calories":   total.Calories,
		"commands":   total.Commands,
		"casualties": total.Casualties,
		"kills":      total.Kills,
	})
	return total, nil
}
