package steps

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/antbot-go/internal/domain/navigation"
	"github.com/andrescamacho/antbot-go/internal/domain/shared"
)

type pathfindingContext struct {
	blocked map[shared.Cell]bool
	route   navigation.Route
	stats   navigation.SearchStats
	err     error
	found   bool
}

func (pc *pathfindingContext) reset() {
	pc.blocked = make(map[shared.Cell]bool)
	pc.route = nil
	pc.stats = navigation.SearchStats{}
	pc.err = nil
	pc.found = false
}

func (pc *pathfindingContext) walkable(c shared.Cell) bool {
	return !pc.blocked[c]
}

func parseCell(q, r string) (shared.Cell, error) {
	qi, err := strconv.Atoi(q)
	if err != nil {
		return shared.Cell{}, err
	}
	ri, err := strconv.Atoi(r)
	if err != nil {
		return shared.Cell{}, err
	}
	return shared.NewCell(qi, ri), nil
}

func (pc *pathfindingContext) anOpenHexField() error {
	pc.reset()
	return nil
}

func (pc *pathfindingContext) theCellIsRock(q, r string) error {
	c, err := parseCell(q, r)
	if err != nil {
		return err
	}
	pc.blocked[c] = true
	return nil
}

func (pc *pathfindingContext) iSearchForAPath(fq, fr, tq, tr string, maxDistance int) error {
	from, err := parseCell(fq, fr)
	if err != nil {
		return err
	}
	to, err := parseCell(tq, tr)
	if err != nil {
		return err
	}

	pc.route, pc.stats = navigation.FindPathWithStats(from, to, pc.walkable, maxDistance)
	pc.found = pc.stats.Result == navigation.SearchFound || pc.stats.Result == navigation.SearchTrivial
	return nil
}

func (pc *pathfindingContext) iSearchForAnAlternativePath(fq, fr, tq, tr string, maxDistance int) error {
	from, err := parseCell(fq, fr)
	if err != nil {
		return err
	}
	to, err := parseCell(tq, tr)
	if err != nil {
		return err
	}

	pf := navigation.NewHexPathfinder(nil)
	pc.route, _, pc.err = pf.FindAlternativePath(from, to, pc.walkable, maxDistance)
	pc.found = pc.err == nil
	return nil
}

func (pc *pathfindingContext) theRouteShouldBe(expected string) error {
	if !pc.found {
		return fmt.Errorf("expected a route, search ended as %s", pc.stats.Result)
	}
	got := strings.Join(cellStrings(pc.route), " ")
	want := strings.Join(strings.Fields(strings.ReplaceAll(expected, ", ", ",")), " ")
	if got != want {
		return fmt.Errorf("expected route %s, got %s", want, got)
	}
	return nil
}

func (pc *pathfindingContext) theRouteShouldBeEmpty() error {
	if !pc.found {
		return fmt.Errorf("expected an empty route, search ended as %s", pc.stats.Result)
	}
	if !pc.route.IsEmpty() {
		return fmt.Errorf("expected empty route, got %s", pc.route)
	}
	return nil
}

func (pc *pathfindingContext) noRouteShouldBeFound() error {
	if pc.found {
		return fmt.Errorf("expected no route, got %s", pc.route)
	}
	return nil
}

func (pc *pathfindingContext) theSearchShouldEndAs(result string) error {
	if string(pc.stats.Result) != result {
		return fmt.Errorf("expected search result %s, got %s", result, pc.stats.Result)
	}
	return nil
}

func (pc *pathfindingContext) theSearchShouldHaveExpanded(n int) error {
	if pc.stats.Expansions != n {
		return fmt.Errorf("expected %d expansions, got %d", n, pc.stats.Expansions)
	}
	return nil
}

func (pc *pathfindingContext) theRouteShouldHaveSteps(n int) error {
	if pc.route.Len() != n {
		return fmt.Errorf("expected %d steps, got %d (%s)", n, pc.route.Len(), pc.route)
	}
	return nil
}

func (pc *pathfindingContext) theRouteShouldNotPassThrough(q, r string) error {
	c, err := parseCell(q, r)
	if err != nil {
		return err
	}
	if pc.route.Contains(c) {
		return fmt.Errorf("route %s passes through %s", pc.route, c)
	}
	return nil
}

func (pc *pathfindingContext) theRouteShouldEndAt(q, r string) error {
	c, err := parseCell(q, r)
	if err != nil {
		return err
	}
	if pc.route.IsEmpty() || pc.route[len(pc.route)-1] != c {
		return fmt.Errorf("expected route ending at %s, got %s", c, pc.route)
	}
	return nil
}

func cellStrings(cells []shared.Cell) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = c.String()
	}
	return out
}

// InitializePathfindingScenario registers the hex pathfinding steps
func InitializePathfindingScenario(sc *godog.ScenarioContext) {
	pc := &pathfindingContext{}

	sc.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		pc.reset()
		return ctx, nil
	})

	sc.Step(`^an open hex field$`, pc.anOpenHexField)
	sc.Step(`^the cell `+cellPattern+` is rock$`, pc.theCellIsRock)
	sc.Step(`^I search for a path from `+cellPattern+` to `+cellPattern+` within (\d+)$`, pc.iSearchForAPath)
	sc.Step(`^I search for an alternative path from `+cellPattern+` to `+cellPattern+` within (\d+)$`, pc.iSearchForAnAlternativePath)
	sc.Step(`^the route should be ((?:\(-?\d+,-?\d+\)\s*)+)$`, pc.theRouteShouldBe)
	sc.Step(`^the route should be empty$`, pc.theRouteShouldBeEmpty)
	sc.Step(`^no route should be found$`, pc.noRouteShouldBeFound)
	sc.Step(`^the search should end as "([^"]*)"$`, pc.theSearchShouldEndAs)
	sc.Step(`^the search should have expanded (\d+) cells$`, pc.theSearchShouldHaveExpanded)
	sc.Step(`^the route should have (\d+) steps$`, pc.theRouteShouldHaveSteps)
	sc.Step(`^the route should not pass through `+cellPattern+`$`, pc.theRouteShouldNotPassThrough)
	sc.Step(`^the route should end at `+cellPattern+`$`, pc.theRouteShouldEndAt)
}
