package navigation_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/antbot-go/internal/domain/navigation"
	"github.com/andrescamacho/antbot-go/internal/domain/shared"
)

func cell(q, r int) shared.Cell { return shared.NewCell(q, r) }

func TestFindPath_StraightLine(t *testing.T) {
	// Arrange
	pf := navigation.NewHexPathfinder(nil)

	// Act
	route, err := pf.FindPath(cell(0, 0), cell(3, 0), navigation.AllWalkable, 10)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, navigation.Route{cell(1, 0), cell(2, 0), cell(3, 0)}, route)
}

func TestFindPath_SameCellIsEmptyRoute(t *testing.T) {
	pf := navigation.NewHexPathfinder(nil)

	route, err := pf.FindPath(cell(2, 2), cell(2, 2), navigation.AllWalkable, 5)

	require.NoError(t, err)
	assert.True(t, route.IsEmpty())
}

func TestFindPath_UnwalkableGoalFailsWithoutSearch(t *testing.T) {
	// Arrange
	goal := cell(3, 0)
	var asked []shared.Cell
	walkable := func(c shared.Cell) bool {
		asked = append(asked, c)
		return c != goal
	}

	// Act
	route, stats := navigation.FindPathWithStats(cell(0, 0), goal, walkable, 10)

	// Assert
	assert.Nil(t, route)
	assert.Equal(t, navigation.SearchGoalBlocked, stats.Result)
	assert.Equal(t, 0, stats.Expansions)
	assert.Equal(t, []shared.Cell{goal}, asked, "only the goal may be inspected")

	_, err := navigation.NewHexPathfinder(nil).FindPath(cell(0, 0), goal, walkable, 10)
	assert.True(t, errors.Is(err, navigation.ErrNoRoute))
}

func TestFindPath_DetoursAroundWall(t *testing.T) {
	// A wall on q=1 from r=-2..1 forces a detour
	wall := map[shared.Cell]bool{cell(1, -2): true, cell(1, -1): true, cell(1, 0): true, cell(1, 1): true}
	walkable := func(c shared.Cell) bool { return !wall[c] }

	route, err := navigation.NewHexPathfinder(nil).FindPath(cell(0, 0), cell(2, 0), walkable, 12)

	require.NoError(t, err)
	assert.True(t, route.IsConnectedFrom(cell(0, 0)))
	for _, c := range route {
		assert.False(t, wall[c])
	}
	assert.Equal(t, cell(2, 0), route.Destination(cell(0, 0)))
	assert.Equal(t, bfsDistance(cell(0, 0), cell(2, 0), walkable, 12), route.Len())
}

func TestFindPath_ExpansionCapIsNotFound(t *testing.T) {
	// Goal enclosed by rock: the search floods until the cap
	goal := cell(6, 0)
	ring := map[shared.Cell]bool{}
	for _, c := range shared.Ring(goal, 1) {
		ring[c] = true
	}
	walkable := func(c shared.Cell) bool { return !ring[c] }

	route, stats := navigation.FindPathWithStats(cell(0, 0), goal, walkable, 8)

	assert.Nil(t, route)
	assert.Contains(t, []navigation.SearchResult{navigation.SearchCapExceeded, navigation.SearchExhausted}, stats.Result)
	assert.LessOrEqual(t, stats.Expansions, 8*navigation.ExpansionFactor+1)
}

func TestFindPath_OutOfRange(t *testing.T) {
	_, stats := navigation.FindPathWithStats(cell(0, 0), cell(20, 0), navigation.AllWalkable, 5)
	assert.Equal(t, navigation.SearchOutOfRange, stats.Result)
}

func TestFindAlternativePath_UsesNeighbourInDirectionOrder(t *testing.T) {
	// Arrange: the goal itself is blocked
	goal := cell(4, 0)
	walkable := func(c shared.Cell) bool { return c != goal }
	pf := navigation.NewHexPathfinder(nil)

	// Act
	route, reached, err := pf.FindAlternativePath(cell(0, 0), goal, walkable, 10)

	// Assert: first direction-table neighbour of the goal is (5,0)
	require.NoError(t, err)
	assert.Equal(t, cell(5, 0), reached)
	assert.Equal(t, reached, route.Destination(cell(0, 0)))
	assert.False(t, route.Contains(goal))
}

func TestFindAlternativePath_NothingReachable(t *testing.T) {
	walkable := func(c shared.Cell) bool { return shared.Distance(c, cell(0, 0)) <= 1 }

	_, _, err := navigation.NewHexPathfinder(nil).FindAlternativePath(cell(0, 0), cell(5, 0), walkable, 10)

	assert.ErrorIs(t, err, navigation.ErrNoRoute)
}

func TestFindPath_ObserverSeesEverySearch(t *testing.T) {
	var seen []navigation.SearchStats
	pf := navigation.NewHexPathfinder(func(s navigation.SearchStats) { seen = append(seen, s) })

	_, _ = pf.FindPath(cell(0, 0), cell(2, 0), navigation.AllWalkable, 5)
	_, _ = pf.FindPath(cell(0, 0), cell(9, 0), navigation.AllWalkable, 5)

	require.Len(t, seen, 2)
	assert.Equal(t, navigation.SearchFound, seen[0].Result)
	assert.Equal(t, 2, seen[0].Length)
	assert.Equal(t, navigation.SearchOutOfRange, seen[1].Result)
}

// Routes are legal and never longer than the true shortest path.
func TestFindPath_LegalityAndOptimalityOnRandomMaps(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pf := navigation.NewHexPathfinder(nil)

	for trial := 0; trial < 200; trial++ {
		blocked := map[shared.Cell]bool{}
		for _, c := range shared.Spiral(cell(0, 0), 7) {
			if rng.Float64() < 0.25 {
				blocked[c] = true
			}
		}
		start := cell(rng.Intn(9)-4, rng.Intn(9)-4)
		goal := cell(rng.Intn(9)-4, rng.Intn(9)-4)
		delete(blocked, start)
		walkable := func(c shared.Cell) bool { return !blocked[c] && shared.Distance(c, cell(0, 0)) <= 7 }
		maxDistance := 16

		route, err := pf.FindPath(start, goal, walkable, maxDistance)
		want := bfsDistance(start, goal, walkable, maxDistance)

		if want < 0 {
			assert.ErrorIs(t, err, navigation.ErrNoRoute, "trial %d", trial)
			continue
		}
		if err != nil {
			// The expansion cap may cut a search that BFS completes; that is a legal NotFound
			assert.ErrorIs(t, err, navigation.ErrNoRoute)
			continue
		}
		assert.True(t, route.IsConnectedFrom(start), "trial %d", trial)
		for _, c := range route {
			assert.True(t, walkable(c), "trial %d: route enters blocked cell %s", trial, c)
		}
		assert.Equal(t, want, route.Len(), "trial %d", trial)
	}
}

// bfsDistance is a reference shortest-path length, -1 when unreachable within bound
func bfsDistance(start, goal shared.Cell, walkable navigation.WalkableFunc, bound int) int {
	if start == goal {
		return 0
	}
	if !walkable(goal) {
		return -1
	}
	dist := map[shared.Cell]int{start: 0}
	queue := []shared.Cell{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if dist[cur] >= bound {
			continue
		}
		for _, n := range cur.Neighbors() {
			if _, seen := dist[n]; seen || !walkable(n) {
				continue
			}
			dist[n] = dist[cur] + 1
			if n == goal {
				return dist[n]
			}
			queue = append(queue, n)
		}
	}
	return -1
}
