package navigation

import (
	"github.com/andrescamacho/antbot-go/internal/domain/shared"
)

// WalkableFunc answers whether a cell can currently be entered.
// Supplied by the caller; the pathfinder has no terrain knowledge of its own.
type WalkableFunc func(shared.Cell) bool

// StepCostFunc returns the movement points consumed by entering a cell
type StepCostFunc func(shared.Cell) int

// UniformCost charges one movement point per step
func UniformCost(shared.Cell) int {
	return 1
}

// AllWalkable treats every cell as enterable
func AllWalkable(shared.Cell) bool {
	return true
}

// Pathfinder is the search contract the scheduler depends on
type Pathfinder interface {
	FindPath(start, goal shared.Cell, isWalkable WalkableFunc, maxDistance int) (Route, error)
	FindAlternativePath(start, goal shared.Cell, isWalkable WalkableFunc, maxDistance int) (Route, shared.Cell, error)
}
