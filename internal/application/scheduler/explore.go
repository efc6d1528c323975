package scheduler

import (
	"sort"

	"github.com/andrescamacho/antbot-go/internal/domain/shared"
	"github.com/andrescamacho/antbot-go/internal/domain/task"
	"github.com/andrescamacho/antbot-go/internal/domain/world"
)

const (
	exploreRingSteps     = 3
	exploreRingSpacing   = 2
	exploreRouteAttempts = 3
)

func (s *UnitTaskScheduler) exploreRadius(unitType world.UnitType) int {
	if unitType == world.UnitTypeScout {
		return s.tuning.ScoutExploreRadius
	}
	return s.tuning.ExploreRadius
}

// exploreTargets lists unseen, unclaimed cells on rings around the base,
// nearest to the unit first. Rings widen when the inner one is exhausted.
func (s *UnitTaskScheduler) exploreTargets(ts *turnState, unit world.Unit) []shared.Cell {
	claimed := s.cache.ClaimedTargets(task.KindExplore, unit.ID)
	base := s.exploreRadius(unit.Type)

	for step := 0; step < exploreRingSteps; step++ {
		var targets []shared.Cell
		for _, c := range shared.Ring(ts.snap.Base, base+step*exploreRingSpacing) {
			if ts.snap.Visible(c) || claimed[c] {
				continue
			}
			targets = append(targets, c)
		}
		if len(targets) == 0 {
			continue
		}
		sort.SliceStable(targets, func(i, j int) bool {
			return shared.Distance(unit.Position, targets[i]) < shared.Distance(unit.Position, targets[j])
		})
		return targets
	}
	return nil
}

func (s *UnitTaskScheduler) assignExplore(ts *turnState, unit world.Unit) (Decision, bool) {
	targets := s.exploreTargets(ts, unit)
	for i, target := range targets {
		if i >= exploreRouteAttempts {
			break
		}
		route, _, ok := s.plan(ts, unit, target, false)
		if !ok || route.IsEmpty() {
			continue
		}
		return decision(task.NewExplore(target, ts.snap.Turn), route, RuleAssign), true
	}
	return Decision{}, false
}
