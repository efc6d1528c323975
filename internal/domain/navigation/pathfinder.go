package navigation

import (
	"container/heap"

	"github.com/andrescamacho/antbot-go/internal/domain/shared"
)

// ErrNoRoute is the normal negative result of a search: no legal route exists
// within the search bound. Callers test for it with errors.Is.
var ErrNoRoute = shared.NewDomainError("no route within search bound")

// ExpansionFactor bounds node expansions to maxDistance * ExpansionFactor
const ExpansionFactor = 6

// SearchResult classifies how a search ended
type SearchResult string

const (
	SearchFound       SearchResult = "found"
	SearchTrivial     SearchResult = "trivial"
	SearchGoalBlocked SearchResult = "goal_blocked"
	SearchOutOfRange  SearchResult = "out_of_range"
	SearchCapExceeded SearchResult = "cap_exceeded"
	SearchExhausted   SearchResult = "exhausted"
)

// SearchStats describes a single FindPath call
type SearchStats struct {
	Result     SearchResult
	Expansions int
	Length     int
}

// HexPathfinder runs A* over the six hex directions with uniform edge cost.
// Terrain cost is the validator's concern, not the search's.
type HexPathfinder struct {
	onSearch func(SearchStats)
}

// NewHexPathfinder creates a pathfinder. onSearch, if non-nil, observes every search.
func NewHexPathfinder(onSearch func(SearchStats)) *HexPathfinder {
	return &HexPathfinder{onSearch: onSearch}
}

// FindPath returns the shortest route from start to goal, or ErrNoRoute
func (p *HexPathfinder) FindPath(start, goal shared.Cell, isWalkable WalkableFunc, maxDistance int) (Route, error) {
	route, stats := FindPathWithStats(start, goal, isWalkable, maxDistance)
	if p != nil && p.onSearch != nil {
		p.onSearch(stats)
	}
	if stats.Result != SearchFound && stats.Result != SearchTrivial {
		return nil, ErrNoRoute
	}
	return route, nil
}

// FindAlternativePath tries goal first, then each neighbour of goal in
// direction-table order, returning the first route found and the goal it reached.
func (p *HexPathfinder) FindAlternativePath(start, goal shared.Cell, isWalkable WalkableFunc, maxDistance int) (Route, shared.Cell, error) {
	if route, err := p.FindPath(start, goal, isWalkable, maxDistance); err == nil {
		return route, goal, nil
	}

	for _, substitute := range goal.Neighbors() {
		if route, err := p.FindPath(start, substitute, isWalkable, maxDistance); err == nil {
			return route, substitute, nil
		}
	}

	return nil, goal, ErrNoRoute
}

// FindPathWithStats is the search itself.
//
// Ordering among open nodes: lowest f, then lowest h, then insertion order.
// Neighbours are pushed in direction-table order, so results are reproducible.
func FindPathWithStats(start, goal shared.Cell, isWalkable WalkableFunc, maxDistance int) (Route, SearchStats) {
	if start == goal {
		return Route{}, SearchStats{Result: SearchTrivial}
	}
	if isWalkable == nil {
		isWalkable = AllWalkable
	}
	if !isWalkable(goal) {
		return nil, SearchStats{Result: SearchGoalBlocked}
	}
	if shared.Distance(start, goal) > maxDistance {
		return nil, SearchStats{Result: SearchOutOfRange}
	}

	expansionCap := maxDistance * ExpansionFactor

	open := &nodeQueue{}
	heap.Init(open)

	gScore := map[shared.Cell]int{start: 0}
	cameFrom := make(map[shared.Cell]shared.Cell)
	closed := make(map[shared.Cell]bool)
	seq := 0

	heap.Push(open, &searchNode{cell: start, g: 0, h: shared.Distance(start, goal), seq: seq})

	expansions := 0
	for open.Len() > 0 {
		current := heap.Pop(open).(*searchNode)
		if closed[current.cell] {
			continue
		}
		if current.cell == goal {
			route := reconstruct(cameFrom, start, goal)
			return route, SearchStats{Result: SearchFound, Expansions: expansions, Length: len(route)}
		}

		closed[current.cell] = true
		expansions++
		if expansions > expansionCap {
			return nil, SearchStats{Result: SearchCapExceeded, Expansions: expansions}
		}

		for _, next := range current.cell.Neighbors() {
			if closed[next] || !isWalkable(next) {
				continue
			}
			g := current.g + 1
			h := shared.Distance(next, goal)
			if g+h > maxDistance {
				continue
			}
			if known, ok := gScore[next]; ok && known <= g {
				continue
			}
			gScore[next] = g
			cameFrom[next] = current.cell
			seq++
			heap.Push(open, &searchNode{cell: next, g: g, h: h, seq: seq})
		}
	}

	return nil, SearchStats{Result: SearchExhausted, Expansions: expansions}
}

func reconstruct(cameFrom map[shared.Cell]shared.Cell, start, goal shared.Cell) Route {
	var reversed []shared.Cell
	for cur := goal; cur != start; cur = cameFrom[cur] {
		reversed = append(reversed, cur)
	}

	route := make(Route, len(reversed))
	for i, c := range reversed {
		route[len(reversed)-1-i] = c
	}
	return route
}

type searchNode struct {
	cell shared.Cell
	g    int
	h    int
	seq  int
}

type nodeQueue []*searchNode

func (q nodeQueue) Len() int { return len(q) }

func (q nodeQueue) Less(i, j int) bool {
	fi, fj := q[i].g+q[i].h, q[j].g+q[j].h
	if fi != fj {
		return fi < fj
	}
	if q[i].h != q[j].h {
		return q[i].h < q[j].h
	}
	return q[i].seq < q[j].seq
}

func (q nodeQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *nodeQueue) Push(x interface{}) {
	*q = append(*q, x.(*searchNode))
}

func (q *nodeQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
