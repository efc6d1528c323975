package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/andrescamacho/antbot-go/internal/adapters/metrics"
	"github.com/andrescamacho/antbot-go/internal/application/common"
	"github.com/andrescamacho/antbot-go/internal/domain/navigation"
	"github.com/andrescamacho/antbot-go/internal/domain/reservation"
	"github.com/andrescamacho/antbot-go/internal/domain/shared"
	"github.com/andrescamacho/antbot-go/internal/domain/task"
	"github.com/andrescamacho/antbot-go/internal/domain/threat"
	"github.com/andrescamacho/antbot-go/internal/domain/tuning"
	"github.com/andrescamacho/antbot-go/internal/domain/world"
)

// TurnResult is everything decided in one turn
type TurnResult struct {
	Turn      int
	Phase     Phase
	Commands  []task.Command
	Decisions []Decision
	// Skipped lists units left undecided because the deadline ran out
	Skipped  []string
	Degraded bool
	Duration time.Duration

	Sanitize     world.SanitizeReport
	Reservations reservation.ReconcileReport
	Tasks        task.ReconcileReport
	Orphans      []reservation.Assignment
}

// CommandFor returns the command emitted for a unit
func (r *TurnResult) CommandFor(unitID string) (task.Command, bool) {
	for _, c := range r.Commands {
		if c.UnitID == unitID {
			return c, true
		}
	}
	return task.Command{}, false
}

// DecisionFor returns the decision taken for a unit
func (r *TurnResult) DecisionFor(unitID string) (Decision, bool) {
	for _, d := range r.Decisions {
		if d.UnitID == unitID {
			return d, true
		}
	}
	return Decision{}, false
}

// EngineOption configures a TurnEngine
type EngineOption func(*TurnEngine)

// WithClock sets the clock used for the turn deadline
func WithClock(clock shared.Clock) EngineOption {
	return func(e *TurnEngine) { e.clock = clock }
}

// WithJournal records every processed turn
func WithJournal(journal common.TurnJournal) EngineOption {
	return func(e *TurnEngine) { e.journal = journal }
}

// WithSessionID tags journal entries
func WithSessionID(id string) EngineOption {
	return func(e *TurnEngine) { e.sessionID = id }
}

// WithPathfinder replaces the A* pathfinder
func WithPathfinder(pf navigation.Pathfinder) EngineOption {
	return func(e *TurnEngine) { e.pathfinder = pf }
}

// TurnEngine runs the per-turn pipeline: sanitize, reconcile, reassign
// orphans, decide every unit, journal. The reservation table and task cache
// persist across calls.
type TurnEngine struct {
	mu sync.Mutex

	tuning     tuning.Tuning
	clock      shared.Clock
	pathfinder navigation.Pathfinder
	scorer     *threat.Scorer
	journal    common.TurnJournal
	sessionID  string

	table     *reservation.Table
	cache     *task.Cache
	scheduler *UnitTaskScheduler
	lastTurn  int
}

// NewTurnEngine creates an engine with empty cross-turn state. The tuning is
// used as given; start from tuning.Default() or a loaded config.
func NewTurnEngine(t tuning.Tuning, opts ...EngineOption) *TurnEngine {
	e := &TurnEngine{
		tuning: t,
		clock:  shared.NewRealClock(),
		scorer: threat.NewScorer(t.Threat),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.pathfinder == nil {
		e.pathfinder = navigation.NewHexPathfinder(func(s navigation.SearchStats) {
			metrics.RecordPathSearch(string(s.Result), s.Expansions, s.Length)
		})
	}

	e.resetState()
	return e
}

func (e *TurnEngine) resetState() {
	e.table = reservation.NewTable(e.tuning.ReservationStaleTurns)
	e.cache = task.NewCache(e.tuning.TaskStaleTurns)
	e.table.OnRelease(e.onReservationReleased)
	e.scheduler = NewUnitTaskScheduler(e.tuning, e.table, e.cache, e.pathfinder)
	e.lastTurn = 0
}

// Reset forgets all reservations and tasks, for a new game
func (e *TurnEngine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resetState()
}

// Tuning returns the engine's effective tuning
func (e *TurnEngine) Tuning() tuning.Tuning {
	return e.tuning
}

// onReservationReleased keeps the task cache consistent with the table: a
// collect task never outlives its reservation
func (e *TurnEngine) onReservationReleased(res reservation.Reservation, reason reservation.ReleaseReason) {
	metrics.RecordReservationRelease(string(reason))

	cached, ok := e.cache.Get(res.Holder())
	if !ok {
		return
	}
	if collect, isCollect := cached.(*task.Collect); isCollect && collect.Resource == res.Key() {
		e.cache.Drop(res.Holder())
	}
}

// ProcessTurn decides every unit of the snapshot. Only a nil snapshot is an
// error; everything else degrades to fewer commands.
func (e *TurnEngine) ProcessTurn(ctx context.Context, snap *world.Snapshot) (*TurnResult, error) {
	if snap == nil {
		return nil, fmt.Errorf("process turn: snapshot is nil")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	logger := common.LoggerFromContext(ctx)
	budget := NewTurnBudget(e.clock, e.tuning.TurnDeadline, e.tuning.DeadlineRiskFraction)

	clean, sanitized := snap.Sanitize()
	for _, dropped := range sanitized.Dropped {
		logger.Log(common.LevelWarn, fmt.Sprintf("[TurnEngine] %s", dropped.Error()), map[string]interface{}{
			"turn": clean.Turn,
			"kind": dropped.Kind,
			"id":   dropped.ID,
		})
	}

	result := &TurnResult{
		Turn:     clean.Turn,
		Phase:    PhaseOf(clean, e.tuning),
		Sanitize: sanitized,
	}

	alive := clean.UnitIDs()
	result.Reservations = e.table.Reconcile(clean.Turn, alive, clean.ResourceKeys())
	result.Tasks = e.cache.Reconcile(clean.Turn, alive)
	// A unit whose task went stale is treated as stuck and gives up its hold
	for _, unitID := range result.Tasks.StaleUnitIDs {
		if held, holds := e.table.HolderOf(unitID); holds {
			e.table.Release(unitID)
			logger.Log(common.LevelInfo, "[TurnEngine] Stale task dropped, reservation released", map[string]interface{}{
				"turn":     clean.Turn,
				"unit_id":  unitID,
				"resource": held.Key().String(),
			})
		}
	}
	for _, released := range result.Reservations.Released {
		stale := shared.NewStaleReferenceError(released.Holder(), released.Key().String())
		logger.Log(common.LevelDebug, fmt.Sprintf("[TurnEngine] %s", stale.Error()), map[string]interface{}{
			"turn":    clean.Turn,
			"unit_id": stale.UnitID,
			"target":  stale.Target,
		})
	}

	ranked := e.scorer.Rank(clean.Enemies, clean.Units, clean.Base)
	ts := newTurnState(clean, result.Phase, ranked)
	for _, unitID := range result.Tasks.StaleUnitIDs {
		ts.stuck[unitID] = true
	}

	result.Orphans = e.table.ReassignOrphans(clean.Units, clean.Resources, e.scheduler.orphanScore(ts))
	for _, a := range result.Orphans {
		e.cache.Put(a.UnitID, task.NewCollect(a.Resource.Key(), a.Score, clean.Turn))
	}

	for i, unit := range clean.Units {
		state := budget.Check(ctx)
		if state == BudgetExhausted {
			for _, rest := range clean.Units[i:] {
				result.Skipped = append(result.Skipped, rest.ID)
				result.Decisions = append(result.Decisions, Decision{UnitID: rest.ID, Rule: RuleNone, Outcome: OutcomeSkipped})
			}
			logger.Log(common.LevelWarn, "[TurnEngine] Turn budget exhausted, remaining units skipped", map[string]interface{}{
				"turn":    clean.Turn,
				"skipped": len(result.Skipped),
				"elapsed": budget.Elapsed().String(),
			})
			break
		}
		if state == BudgetAtRisk && !ts.degraded {
			ts.degraded = true
			logger.Log(common.LevelWarn, "[TurnEngine] Turn budget at risk, shedding patrols", map[string]interface{}{
				"turn":    clean.Turn,
				"elapsed": budget.Elapsed().String(),
			})
		}

		d := e.scheduler.Decide(ts, unit)
		result.Decisions = append(result.Decisions, d)
		if d.HasCommand() {
			result.Commands = append(result.Commands, d.Command())
		}

		logger.Log(common.LevelDebug, fmt.Sprintf("[Scheduler] %s -> %s", unit, describe(d)), map[string]interface{}{
			"turn":    clean.Turn,
			"unit_id": unit.ID,
			"rule":    string(d.Rule),
			"outcome": string(d.Outcome),
			"steps":   d.Route.Len(),
		})
	}

	result.Degraded = ts.degraded
	result.Duration = budget.Elapsed()
	e.lastTurn = clean.Turn

	e.record(ctx, result)
	return result, nil
}

// record journals and reports metrics; failures are logged only
func (e *TurnEngine) record(ctx context.Context, result *TurnResult) {
	logger := common.LoggerFromContext(ctx)

	sample := metrics.TurnSample{
		Duration:  result.Duration,
		Commands:  make(map[string]int),
		Outcomes:  make(map[string]int),
		Skipped:   len(result.Skipped),
		Degraded:  result.Degraded,
		Sanitized: result.Sanitize.Count(),
	}
	for _, c := range result.Commands {
		sample.Commands[string(c.Tag)]++
	}
	for _, d := range result.Decisions {
		sample.Outcomes[string(d.Outcome)]++
	}
	metrics.RecordTurn(sample)
	metrics.RecordOrphanAssignments(len(result.Orphans))

	logger.Log(common.LevelInfo, fmt.Sprintf("[TurnEngine] Turn %d: %d commands, %d units", result.Turn, len(result.Commands), len(result.Decisions)), map[string]interface{}{
		"turn":         result.Turn,
		"phase":        string(result.Phase),
		"commands":     len(result.Commands),
		"skipped":      len(result.Skipped),
		"degraded":     result.Degraded,
		"released":     result.Reservations.Total(),
		"orphans":      len(result.Orphans),
		"reservations": e.table.Len(),
		"duration_ms":  result.Duration.Milliseconds(),
	})

	if e.journal == nil {
		return
	}

	entry := &common.JournalEntry{
		SessionID:    e.sessionID,
		Turn:         result.Turn,
		RecordedAt:   e.clock.Now(),
		Duration:     result.Duration,
		Degraded:     result.Degraded,
		Commands:     result.Commands,
		Skipped:      result.Skipped,
		Reservations: e.table.Dump(),
		Tasks:        e.cache.Dump(result.Turn),
	}
	for _, d := range result.Sanitize.Dropped {
		entry.Dropped = append(entry.Dropped, d.Error())
	}

	if err := e.journal.Record(ctx, entry); err != nil {
		logger.Log(common.LevelError, fmt.Sprintf("[TurnEngine] Failed to journal turn %d: %v", result.Turn, err), map[string]interface{}{
			"turn": result.Turn,
		})
	}
}

// Reservations returns the debugging view of the reservation table
func (e *TurnEngine) Reservations() []reservation.ReservationView {
	return e.table.Dump()
}

// Tasks returns the debugging view of the task cache at the last processed turn
func (e *TurnEngine) Tasks() []task.View {
	e.mu.Lock()
	turn := e.lastTurn
	e.mu.Unlock()
	return e.cache.Dump(turn)
}

// State reports cross-turn state for metrics gauges
func (e *TurnEngine) State() metrics.EngineState {
	e.mu.Lock()
	defer e.mu.Unlock()

	byKind := make(map[string]int)
	for kind, n := range e.cache.CountByKind() {
		byKind[string(kind)] = n
	}
	return metrics.EngineState{
		Reservations: e.table.Len(),
		TasksByKind:  byKind,
		LastTurn:     e.lastTurn,
	}
}

func describe(d Decision) string {
	if d.Task == nil {
		return string(d.Outcome)
	}
	return fmt.Sprintf("%s (%s, %d steps)", d.Task, d.Rule, d.Route.Len())
}
