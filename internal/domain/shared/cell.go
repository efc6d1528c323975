package shared

import "fmt"

// Cell is an immutable position on the hex grid in axial coordinates.
// The third cube coordinate is derived (s = -q - r) and only used for distance math.
type Cell struct {
	Q int `json:"q" yaml:"q"`
	R int `json:"r" yaml:"r"`
}

// NewCell creates a cell from axial coordinates
func NewCell(q, r int) Cell {
	return Cell{Q: q, R: r}
}

// S returns the implicit third cube coordinate
func (c Cell) S() int {
	return -c.Q - c.R
}

// Add returns the cell offset by another cell treated as a vector
func (c Cell) Add(d Cell) Cell {
	return Cell{Q: c.Q + d.Q, R: c.R + d.R}
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Q, c.R)
}

// Directions is the canonical six-direction axial offset table.
// Neighbor enumeration, adjacency checks and alternative-goal search all use this order.
var Directions = [6]Cell{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// Neighbors returns the six adjacent cells in direction-table order
func (c Cell) Neighbors() [6]Cell {
	var result [6]Cell
	for i, dir := range Directions {
		result[i] = c.Add(dir)
	}
	return result
}

// Distance returns the hex distance: max(|dq|, |dr|, |ds|)
func Distance(a, b Cell) int {
	dq := abs(a.Q - b.Q)
	dr := abs(a.R - b.R)
	ds := abs(a.S() - b.S())

	result := dq
	if dr > result {
		result = dr
	}
	if ds > result {
		result = ds
	}
	return result
}

// DistanceTo is the method form of Distance
func (c Cell) DistanceTo(other Cell) int {
	return Distance(c, other)
}

// IsAdjacent reports whether b is one of the six direction-table neighbours of a
func IsAdjacent(a, b Cell) bool {
	for _, dir := range Directions {
		if a.Add(dir) == b {
			return true
		}
	}
	return false
}

// Ring returns the cells at exactly the given distance from center, walking the
// ring starting from the direction-4 corner. Radius 0 returns the center itself.
func Ring(center Cell, radius int) []Cell {
	if radius <= 0 {
		return []Cell{center}
	}

	cells := make([]Cell, 0, 6*radius)
	cur := Cell{
		Q: center.Q + Directions[4].Q*radius,
		R: center.R + Directions[4].R*radius,
	}
	for side := 0; side < 6; side++ {
		for step := 0; step < radius; step++ {
			cells = append(cells, cur)
			cur = cur.Add(Directions[side])
		}
	}
	return cells
}

// Spiral returns every cell within radius of center, ordered by ring
func Spiral(center Cell, radius int) []Cell {
	cells := []Cell{center}
	for r := 1; r <= radius; r++ {
		cells = append(cells, Ring(center, r)...)
	}
	return cells
}

// FindNearestCell returns the target closest to from and its distance.
// The first of equally distant targets wins. Returns false if targets is empty.
func FindNearestCell(from Cell, targets []Cell) (Cell, int, bool) {
	if len(targets) == 0 {
		return Cell{}, 0, false
	}

	nearest := targets[0]
	best := Distance(from, nearest)
	for _, target := range targets[1:] {
		if d := Distance(from, target); d < best {
			best = d
			nearest = target
		}
	}
	return nearest, best, true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
