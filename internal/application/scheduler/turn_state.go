package scheduler

import (
	"github.com/andrescamacho/antbot-go/internal/domain/navigation"
	"github.com/andrescamacho/antbot-go/internal/domain/shared"
	"github.com/andrescamacho/antbot-go/internal/domain/threat"
	"github.com/andrescamacho/antbot-go/internal/domain/world"
)

// turnState is everything the scheduler knows while deciding one turn
type turnState struct {
	snap      *world.Snapshot
	phase     Phase
	homes     []shared.Cell
	ranked    []threat.ScoredEnemy
	occupancy *navigation.Occupancy
	validator *navigation.PathValidator

	// processed holds units already decided this turn; their reservations
	// cannot be preempted by later units
	processed map[string]bool
	// unitIndex is each unit's position in the snapshot list
	unitIndex map[string]int
	// stuck holds units whose task went stale this turn; they sit out orphan
	// reassignment so they do not win their old resource straight back
	stuck map[string]bool

	degraded bool
}

func newTurnState(snap *world.Snapshot, phase Phase, ranked []threat.ScoredEnemy) *turnState {
	ts := &turnState{
		snap:      snap,
		phase:     phase,
		homes:     snap.Homes(),
		ranked:    ranked,
		occupancy: navigation.NewOccupancy(snap.Units, snap.Enemies),
		processed: make(map[string]bool, len(snap.Units)),
		unitIndex: make(map[string]int, len(snap.Units)),
		stuck:     make(map[string]bool),
	}
	ts.validator = navigation.NewPathValidator(ts.stepCost)
	for i, u := range snap.Units {
		ts.unitIndex[u.ID] = i
	}
	return ts
}

func (ts *turnState) stepCost(c shared.Cell) int {
	return ts.snap.TerrainAt(c).MoveCost()
}

// walkableFor returns the A* predicate for one unit heading to goal: impassable
// terrain and enemies always block; friendlies of the unit's type block every
// cell but the goal, where the validator has the final say
func (ts *turnState) walkableFor(unit world.Unit, goal shared.Cell) navigation.WalkableFunc {
	return func(c shared.Cell) bool {
		if !ts.snap.TerrainAt(c).IsPassable() {
			return false
		}
		if c == goal {
			return !ts.occupancy.HasEnemy(c)
		}
		return !ts.occupancy.Blocks(unit, c)
	}
}

// nearestHome returns the closest anthill hex to a cell
func (ts *turnState) nearestHome(from shared.Cell) (shared.Cell, int) {
	home, d, ok := shared.FindNearestCell(from, ts.homes)
	if !ok {
		return ts.snap.Base, shared.Distance(from, ts.snap.Base)
	}
	return home, d
}

// commit records a unit as decided and moves its occupancy entry to the route end
func (ts *turnState) commit(unit world.Unit, route navigation.Route) {
	ts.processed[unit.ID] = true
	if !route.IsEmpty() {
		ts.occupancy.Move(unit, unit.Position, route.Destination(unit.Position))
	}
}
