package navigation

import (
	"fmt"
	"strings"

	"github.com/andrescamacho/antbot-go/internal/domain/shared"
)

// Route is an ordered list of cells from a unit's position (exclusive) to its
// target (inclusive).
//
// Invariants once validated:
// - every consecutive pair (including start → first) is hex-adjacent
// - the total step cost fits the unit's movement budget
type Route []shared.Cell

// Len returns the number of steps
func (r Route) Len() int {
	return len(r)
}

// IsEmpty reports whether the route has no steps
func (r Route) IsEmpty() bool {
	return len(r) == 0
}

// Destination returns the last cell of the route, or start when empty
func (r Route) Destination(start shared.Cell) shared.Cell {
	if len(r) == 0 {
		return start
	}
	return r[len(r)-1]
}

// Contains reports whether the route passes through the cell
func (r Route) Contains(c shared.Cell) bool {
	for _, step := range r {
		if step == c {
			return true
		}
	}
	return false
}

// IsConnectedFrom reports whether every step is adjacent to the previous one
func (r Route) IsConnectedFrom(start shared.Cell) bool {
	prev := start
	for _, step := range r {
		if !shared.IsAdjacent(prev, step) {
			return false
		}
		prev = step
	}
	return true
}

// Cost sums the step cost of every cell in the route
func (r Route) Cost(stepCost StepCostFunc) int {
	if stepCost == nil {
		return len(r)
	}
	total := 0
	for _, step := range r {
		total += stepCost(step)
	}
	return total
}

func (r Route) String() string {
	parts := make([]string, len(r))
	for i, step := range r {
		parts[i] = step.String()
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, " → "))
}
