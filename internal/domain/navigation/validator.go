package navigation

import (
	"github.com/andrescamacho/antbot-go/internal/domain/shared"
	"github.com/andrescamacho/antbot-go/internal/domain/world"
)

// RejectReason explains where a route was cut
type RejectReason string

const (
	RejectNone        RejectReason = ""
	RejectNotAdjacent RejectReason = "not_adjacent"
	RejectBudget      RejectReason = "budget_exhausted"
	RejectOccupied    RejectReason = "occupied"
)

// Validation is the outcome of checking a raw route
type Validation struct {
	Route    Route
	Reason   RejectReason
	Spent    int
	CutIndex int // index of the first rejected step, -1 when nothing was cut
}

// PathValidator turns a raw way-point list into the longest legally executable prefix
type PathValidator struct {
	stepCost StepCostFunc
}

// NewPathValidator creates a validator. A nil stepCost charges one point per step.
func NewPathValidator(stepCost StepCostFunc) *PathValidator {
	if stepCost == nil {
		stepCost = UniformCost
	}
	return &PathValidator{stepCost: stepCost}
}

// ValidateAndCorrect returns the longest valid prefix of rawRoute for the unit.
// An empty result means the route is entirely blocked.
func (v *PathValidator) ValidateAndCorrect(unit world.Unit, rawRoute Route, occupancy *Occupancy) Route {
	return v.Validate(unit, rawRoute, occupancy).Route
}

// Validate is ValidateAndCorrect with the reason the route was cut
func (v *PathValidator) Validate(unit world.Unit, rawRoute Route, occupancy *Occupancy) Validation {
	budget := unit.MovementBudget()
	pos := unit.Position
	valid := make(Route, 0, len(rawRoute))
	spent := 0

	for i, next := range rawRoute {
		if !shared.IsAdjacent(pos, next) {
			return Validation{Route: valid, Reason: RejectNotAdjacent, Spent: spent, CutIndex: i}
		}
		cost := v.stepCost(next)
		if cost < 1 {
			cost = 1
		}
		if spent+cost > budget {
			return Validation{Route: valid, Reason: RejectBudget, Spent: spent, CutIndex: i}
		}
		if occupancy != nil && occupancy.Blocks(unit, next) {
			return Validation{Route: valid, Reason: RejectOccupied, Spent: spent, CutIndex: i}
		}

		spent += cost
		valid = append(valid, next)
		pos = next
	}

	return Validation{Route: valid, Reason: RejectNone, Spent: spent, CutIndex: -1}
}
