package scheduler

import (
	"github.com/andrescamacho/antbot-go/internal/domain/shared"
	"github.com/andrescamacho/antbot-go/internal/domain/task"
	"github.com/andrescamacho/antbot-go/internal/domain/world"
)

// patrol sends the unit to a post on the ring around the base. Posts are
// spread by the unit's position in the snapshot so units fan out; the first
// reachable post from there wins.
func (s *UnitTaskScheduler) patrol(ts *turnState, unit world.Unit) Decision {
	posts := shared.Ring(ts.snap.Base, s.tuning.PatrolRadius)
	if len(posts) == 0 {
		return Decision{Rule: RuleNone, Outcome: OutcomeIdle}
	}

	start := ts.unitIndex[unit.ID] % len(posts)
	for i := 0; i < len(posts); i++ {
		post := posts[(start+i)%len(posts)]
		if !ts.snap.TerrainAt(post).IsPassable() {
			continue
		}
		if post != unit.Position && ts.occupancy.Blocks(unit, post) {
			continue
		}
		route, _, ok := s.plan(ts, unit, post, false)
		if !ok {
			continue
		}
		return decision(task.NewPatrol(post, ts.snap.Turn), route, RulePatrol)
	}
	return Decision{Rule: RuleNone, Outcome: OutcomeIdle}
}
