package scheduler

import (
	"github.com/andrescamacho/antbot-go/internal/domain/task"
	"github.com/andrescamacho/antbot-go/internal/domain/tuning"
	"github.com/andrescamacho/antbot-go/internal/domain/world"
)

// Phase is the stage of the game used to pick candidate lists
type Phase string

const (
	PhaseEarly Phase = "early"
	PhaseMid   Phase = "mid"
	PhaseLate  Phase = "late"
)

// PhaseOf classifies the snapshot's turn
func PhaseOf(snap *world.Snapshot, t tuning.Tuning) Phase {
	switch {
	case snap.TurnsLeft() < t.EndgameTurnThreshold:
		return PhaseLate
	case snap.Turn < t.EarlyPhaseTurns:
		return PhaseEarly
	default:
		return PhaseMid
	}
}

// Candidates returns the ordered task kinds a unit considers for a new
// assignment. Patrol is the default and is never listed.
func Candidates(unitType world.UnitType, phase Phase) []task.Kind {
	switch unitType {
	case world.UnitTypeWorker:
		kinds := []task.Kind{task.KindCollect, task.KindDefend}
		if phase != PhaseLate {
			kinds = append(kinds, task.KindExplore)
		}
		return kinds
	case world.UnitTypeScout:
		return []task.Kind{task.KindExplore, task.KindCollect, task.KindRaid}
	case world.UnitTypeSoldier:
		kinds := []task.Kind{task.KindDefend}
		if phase != PhaseEarly {
			kinds = append(kinds, task.KindRaid)
		}
		return append(kinds, task.KindExplore)
	default:
		return nil
	}
}

// prefersCollect reports whether collection heads the unit's candidate list
func prefersCollect(unitType world.UnitType, phase Phase) bool {
	kinds := Candidates(unitType, phase)
	return len(kinds) > 0 && kinds[0] == task.KindCollect
}
