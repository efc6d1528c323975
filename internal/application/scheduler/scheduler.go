package scheduler

import (
	"github.com/andrescamacho/antbot-go/internal/domain/navigation"
	"github.com/andrescamacho/antbot-go/internal/domain/reservation"
	"github.com/andrescamacho/antbot-go/internal/domain/shared"
	"github.com/andrescamacho/antbot-go/internal/domain/task"
	"github.com/andrescamacho/antbot-go/internal/domain/tuning"
	"github.com/andrescamacho/antbot-go/internal/domain/world"
)

// Rule names the step of the decision order that produced a decision
type Rule string

const (
	RuleReturn   Rule = "return"
	RuleHorizon  Rule = "horizon"
	RuleContinue Rule = "continue"
	RuleAssign   Rule = "assign"
	RulePatrol   Rule = "patrol"
	RuleShed     Rule = "shed"
	RuleNone     Rule = "none"
)

// Outcome is what the unit does this turn
type Outcome string

const (
	OutcomeMoved   Outcome = "moved"
	OutcomeHolding Outcome = "holding"
	OutcomeIdle    Outcome = "idle"
	OutcomeSkipped Outcome = "skipped"
)

// Decision is the scheduler's verdict for one unit
type Decision struct {
	UnitID  string
	Task    task.Task
	Route   navigation.Route
	Rule    Rule
	Outcome Outcome
}

// HasCommand reports whether the decision produces a command
func (d Decision) HasCommand() bool {
	return d.Task != nil && !d.Route.IsEmpty()
}

// Command converts the decision to the emitted order
func (d Decision) Command() task.Command {
	return task.NewCommand(d.UnitID, d.Route, d.Task)
}

// UnitTaskScheduler picks one task per unit per turn.
//
// Decision order, first applicable wins:
//  1. return to base with valuable or near-full cargo
//  2. return to base when the end-of-game horizon says the unit must head home
//  3. continue a cached task whose target is still valid
//  4. the first candidate of the unit's type and phase that yields a route
//  5. patrol near the anthill
type UnitTaskScheduler struct {
	tuning     tuning.Tuning
	table      *reservation.Table
	cache      *task.Cache
	pathfinder navigation.Pathfinder
}

// NewUnitTaskScheduler creates a scheduler over the shared reservation table and task cache
func NewUnitTaskScheduler(t tuning.Tuning, table *reservation.Table, cache *task.Cache, pathfinder navigation.Pathfinder) *UnitTaskScheduler {
	return &UnitTaskScheduler{
		tuning:     t,
		table:      table,
		cache:      cache,
		pathfinder: pathfinder,
	}
}

// Decide runs the decision order for one unit and settles the reservation
// table, the task cache and the turn's occupancy accordingly
func (s *UnitTaskScheduler) Decide(ts *turnState, unit world.Unit) Decision {
	d := s.decide(ts, unit)
	d.UnitID = unit.ID
	s.settle(ts, unit, &d)
	return d
}

func (s *UnitTaskScheduler) decide(ts *turnState, unit world.Unit) Decision {
	if reason, ok := s.mustReturn(unit); ok {
		return s.returnHome(ts, unit, reason, RuleReturn)
	}

	if s.beyondHorizon(ts, unit) {
		return s.returnHome(ts, unit, task.ReturnHorizon, RuleHorizon)
	}

	if d, ok := s.continueTask(ts, unit); ok {
		return d
	}

	for _, kind := range Candidates(unit.Type, ts.phase) {
		if d, ok := s.assign(ts, unit, kind); ok {
			return d
		}
	}

	if ts.degraded {
		return Decision{Rule: RuleShed, Outcome: OutcomeIdle}
	}
	return s.patrol(ts, unit)
}

func (s *UnitTaskScheduler) assign(ts *turnState, unit world.Unit, kind task.Kind) (Decision, bool) {
	switch kind {
	case task.KindCollect:
		return s.assignCollect(ts, unit)
	case task.KindDefend:
		return s.assignDefend(ts, unit)
	case task.KindExplore:
		return s.assignExplore(ts, unit)
	case task.KindRaid:
		return s.assignRaid(ts, unit)
	default:
		return Decision{}, false
	}
}

// mustReturn reports whether cargo alone sends the unit home
func (s *UnitTaskScheduler) mustReturn(unit world.Unit) (task.ReturnReason, bool) {
	if unit.Cargo.IsEmpty() {
		return "", false
	}
	if unit.Cargo.Type == world.HighestValueResource() {
		return task.ReturnCargoValuable, true
	}
	if unit.CargoFraction() >= s.tuning.ReturnCargoFraction {
		return task.ReturnCargoFull, true
	}
	return "", false
}

// beyondHorizon reports whether the unit must start home to arrive before the
// game ends: distance > floor(turnsLeft * speed / 2) - safety margin
func (s *UnitTaskScheduler) beyondHorizon(ts *turnState, unit world.Unit) bool {
	turnsLeft := ts.snap.TurnsLeft()
	if turnsLeft >= s.tuning.EndgameTurnThreshold {
		return false
	}
	_, distance := ts.nearestHome(unit.Position)
	limit := turnsLeft*unit.MovementBudget()/2 - s.tuning.HorizonSafetyMargin
	return distance > limit
}

func (s *UnitTaskScheduler) returnHome(ts *turnState, unit world.Unit, reason task.ReturnReason, rule Rule) Decision {
	home, _ := ts.nearestHome(unit.Position)
	t := task.NewReturnToBase(home, reason, ts.snap.Turn)

	route, _, ok := s.plan(ts, unit, home, true)
	if !ok {
		// Stays committed to going home even when boxed in this turn
		return Decision{Task: t, Rule: rule, Outcome: OutcomeHolding}
	}
	return decision(t, route, rule)
}

// continueTask keeps a cached task whose target is still valid, recomputing
// only the route. An invalid or unroutable task is dropped.
func (s *UnitTaskScheduler) continueTask(ts *turnState, unit world.Unit) (Decision, bool) {
	cached, ok := s.cache.Get(unit.ID)
	if !ok {
		return Decision{}, false
	}

	var (
		route  navigation.Route
		routed bool
	)

	switch t := cached.(type) {
	case *task.Collect:
		r, priority, valid := s.collectStillValid(ts, unit, t)
		if !valid {
			break
		}
		if route, _, routed = s.plan(ts, unit, t.Resource.Position, false); routed {
			// Same holder: refreshes the priority as the unit closes in
			s.table.Reserve(unit.ID, r, priority, map[string]string{"source": "continue"})
			t.Priority = priority
		}
	case *task.Defend:
		enemy, visible := ts.snap.EnemyByID(t.EnemyID)
		if !visible || !s.stillThreatening(ts, unit, enemy) {
			break
		}
		t.LastSeen = enemy.Position
		route, _, routed = s.plan(ts, unit, enemy.Position, true)
	case *task.Explore:
		if ts.snap.Visible(t.Cell) || unit.Position == t.Cell {
			break
		}
		route, _, routed = s.plan(ts, unit, t.Cell, false)
	case *task.Raid:
		if !containsCell(ts.snap.EnemyBases, t.EnemyBase) {
			break
		}
		route, _, routed = s.plan(ts, unit, t.EnemyBase, true)
	case *task.ReturnToBase, *task.Patrol:
		// Re-evaluated from scratch every turn
	}

	if !routed {
		s.dropTask(unit.ID)
		return Decision{}, false
	}
	return decision(cached, route, RuleContinue), true
}

// plan searches for a route to goal and cuts it to the legal prefix for this
// turn. ok=false when no route exists or the first step is blocked.
func (s *UnitTaskScheduler) plan(ts *turnState, unit world.Unit, goal shared.Cell, alternative bool) (navigation.Route, shared.Cell, bool) {
	if unit.Position == goal {
		return navigation.Route{}, goal, true
	}

	maxDistance := s.tuning.SearchDistance(shared.Distance(unit.Position, goal), ts.degraded)
	walkable := ts.walkableFor(unit, goal)

	var (
		raw     navigation.Route
		reached = goal
		err     error
	)
	if alternative {
		raw, reached, err = s.pathfinder.FindAlternativePath(unit.Position, goal, walkable, maxDistance)
	} else {
		raw, err = s.pathfinder.FindPath(unit.Position, goal, walkable, maxDistance)
	}
	if err != nil {
		return nil, goal, false
	}

	valid := ts.validator.ValidateAndCorrect(unit, raw, ts.occupancy)
	if valid.IsEmpty() && !raw.IsEmpty() {
		return nil, reached, false
	}
	return valid, reached, true
}

// settle applies a decision to the shared state: only a collect task may hold a
// reservation, the cache mirrors the decision and occupancy follows the route
func (s *UnitTaskScheduler) settle(ts *turnState, unit world.Unit, d *Decision) {
	switch {
	case d.Task == nil:
		s.dropTask(unit.ID)
	case d.Task.Kind() == task.KindCollect:
		s.cache.Put(unit.ID, d.Task)
	default:
		s.table.Release(unit.ID)
		s.cache.Put(unit.ID, d.Task)
	}
	ts.commit(unit, d.Route)
}

func (s *UnitTaskScheduler) dropTask(unitID string) {
	s.cache.Drop(unitID)
	s.table.Release(unitID)
}

func decision(t task.Task, route navigation.Route, rule Rule) Decision {
	outcome := OutcomeMoved
	if route.IsEmpty() {
		outcome = OutcomeHolding
	}
	return Decision{Task: t, Route: route, Rule: rule, Outcome: outcome}
}

func containsCell(cells []shared.Cell, c shared.Cell) bool {
	for _, x := range cells {
		if x == c {
			return true
		}
	}
	return false
}
