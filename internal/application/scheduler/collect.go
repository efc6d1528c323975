package scheduler

import (
	"sort"

	"github.com/andrescamacho/antbot-go/internal/domain/shared"
	"github.com/andrescamacho/antbot-go/internal/domain/task"
	"github.com/andrescamacho/antbot-go/internal/domain/threat"
	"github.com/andrescamacho/antbot-go/internal/domain/world"
	"github.com/andrescamacho/antbot-go/pkg/utils"
)

type scoredResource struct {
	resource world.Resource
	priority float64
}

// restricted reports whether the unit may only pick up its current cargo type
func (s *UnitTaskScheduler) restricted(unit world.Unit) bool {
	return !unit.Cargo.IsEmpty() && unit.CargoFraction() >= s.tuning.RestrictedCargoFraction
}

// CollectPriority scores a resource for a unit:
//
//	value × amount / (distance + 1), × bonus for matching cargo, ÷ (1 + discount × local threat)
//
// The amount counted is capped by the unit's free capacity. ok=false when the
// unit cannot collect the resource at all.
func (s *UnitTaskScheduler) CollectPriority(unit world.Unit, r world.Resource, ranked []threat.ScoredEnemy) (float64, bool) {
	if unit.Type.IsCombatant() || unit.FreeCapacity() <= 0 {
		return 0, false
	}
	value, known := world.CaloricValue(r.Type)
	if !known || r.Amount <= 0 {
		return 0, false
	}
	compatible := !unit.Cargo.IsEmpty() && unit.Cargo.Type == r.Type
	if s.restricted(unit) && !compatible {
		return 0, false
	}

	amount := utils.Min(r.Amount, unit.FreeCapacity())

	distance := shared.Distance(unit.Position, r.Position)
	priority := float64(value*amount) / float64(distance+1)
	if compatible {
		priority *= s.tuning.CompatibleCargoBonus
	}

	local := threat.ThreatAt(r.Position, ranked, s.tuning.ThreatRadius)
	priority /= 1 + s.tuning.ThreatDiscount*local

	return priority, priority > 0
}

// collectStillValid checks a cached collect task against this turn's snapshot
// and returns the resource with its current priority
func (s *UnitTaskScheduler) collectStillValid(ts *turnState, unit world.Unit, t *task.Collect) (world.Resource, float64, bool) {
	held, holds := s.table.HolderOf(unit.ID)
	if !holds || held.Key() != t.Resource {
		return world.Resource{}, 0, false
	}
	r, visible := ts.snap.ResourceByKey(t.Resource)
	if !visible {
		return world.Resource{}, 0, false
	}
	priority, ok := s.CollectPriority(unit, r, ts.ranked)
	return r, priority, ok
}

// rankResources lists the resources the unit could win, best first. Resources
// held by a unit already decided this turn, or by a holder of equal or higher
// priority, are left out.
func (s *UnitTaskScheduler) rankResources(ts *turnState, unit world.Unit) []scoredResource {
	var ranked []scoredResource
	for _, r := range ts.snap.Resources {
		priority, ok := s.CollectPriority(unit, r, ts.ranked)
		if !ok {
			continue
		}
		if res, held := s.table.Get(r.Key()); held && res.Holder() != unit.ID {
			if ts.processed[res.Holder()] || res.Priority() >= priority {
				continue
			}
		}
		ranked = append(ranked, scoredResource{resource: r, priority: priority})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].priority > ranked[j].priority
	})
	if len(ranked) > s.tuning.CollectCandidates {
		ranked = ranked[:s.tuning.CollectCandidates]
	}
	return ranked
}

func (s *UnitTaskScheduler) assignCollect(ts *turnState, unit world.Unit) (Decision, bool) {
	for _, c := range s.rankResources(ts, unit) {
		route, _, ok := s.plan(ts, unit, c.resource.Position, false)
		if !ok {
			continue
		}
		if !s.table.Reserve(unit.ID, c.resource, c.priority, map[string]string{"source": "scheduler"}) {
			continue
		}
		t := task.NewCollect(c.resource.Key(), c.priority, ts.snap.Turn)
		return decision(t, route, RuleAssign), true
	}
	return Decision{}, false
}

// orphanScore is the ReassignOrphans score function for this turn: only units
// whose first choice is collection and that are free to collect take part
func (s *UnitTaskScheduler) orphanScore(ts *turnState) func(world.Unit, world.Resource) (float64, bool) {
	return func(unit world.Unit, r world.Resource) (float64, bool) {
		if !prefersCollect(unit.Type, ts.phase) || ts.stuck[unit.ID] {
			return 0, false
		}
		if cached, ok := s.cache.Get(unit.ID); ok && !reassignable(cached) {
			return 0, false
		}
		if _, mustReturn := s.mustReturn(unit); mustReturn || s.beyondHorizon(ts, unit) {
			return 0, false
		}
		return s.CollectPriority(unit, r, ts.ranked)
	}
}

// reassignable reports whether a cached task may be replaced by an orphan
// assignment; patrol and return are re-decided every turn anyway
func reassignable(t task.Task) bool {
	switch t.Kind() {
	case task.KindPatrol, task.KindReturnToBase:
		return true
	default:
		return false
	}
}
