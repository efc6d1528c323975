package scheduler

import (
	"github.com/andrescamacho/antbot-go/internal/domain/shared"
	"github.com/andrescamacho/antbot-go/internal/domain/task"
	"github.com/andrescamacho/antbot-go/internal/domain/threat"
	"github.com/andrescamacho/antbot-go/internal/domain/world"
)

// defendRadius is how far from the anthill a unit type answers threats.
// Workers only react to enemies already at the anthill's edge.
func (s *UnitTaskScheduler) defendRadius(unitType world.UnitType) int {
	if unitType == world.UnitTypeWorker {
		return 1
	}
	return s.tuning.DefendRadius
}

// defendTarget picks the enemy a unit should engage, highest threat first
func (s *UnitTaskScheduler) defendTarget(ts *turnState, unit world.Unit) (threat.ScoredEnemy, bool) {
	if target, ok := threat.NearestWithin(ts.ranked, ts.homes, s.defendRadius(unit.Type)); ok {
		return target, true
	}
	if !unit.Type.IsCombatant() {
		return threat.ScoredEnemy{}, false
	}
	for _, se := range ts.ranked {
		if se.InMelee {
			return se, true
		}
	}
	return threat.ScoredEnemy{}, false
}

// stillThreatening decides whether a defend task keeps its target. A little
// slack over the assignment radius stops units flapping at the boundary.
func (s *UnitTaskScheduler) stillThreatening(ts *turnState, unit world.Unit, enemy world.Unit) bool {
	_, toHome := ts.nearestHome(enemy.Position)
	if toHome <= s.defendRadius(unit.Type)+1 {
		return true
	}
	if !unit.Type.IsCombatant() {
		return false
	}
	for _, u := range ts.snap.Units {
		if shared.IsAdjacent(u.Position, enemy.Position) {
			return true
		}
	}
	return false
}

func (s *UnitTaskScheduler) assignDefend(ts *turnState, unit world.Unit) (Decision, bool) {
	target, ok := s.defendTarget(ts, unit)
	if !ok {
		return Decision{}, false
	}

	route, _, routed := s.plan(ts, unit, target.Enemy.Position, true)
	if !routed {
		return Decision{}, false
	}
	t := task.NewDefend(target.Enemy.ID, target.Enemy.Position, ts.snap.Turn)
	return decision(t, route, RuleAssign), true
}

func (s *UnitTaskScheduler) assignRaid(ts *turnState, unit world.Unit) (Decision, bool) {
	target, _, known := shared.FindNearestCell(unit.Position, ts.snap.EnemyBases)
	if !known {
		return Decision{}, false
	}

	route, _, routed := s.plan(ts, unit, target, true)
	if !routed {
		return Decision{}, false
	}
	return decision(task.NewRaid(target, ts.snap.Turn), route, RuleAssign), true
}
