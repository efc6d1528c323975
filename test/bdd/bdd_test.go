package bdd

import (
	"testing"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/antbot-go/test/bdd/steps"
	"github.com/andrescamacho/antbot-go/test/helpers"
)

// Each area runs as its own suite: the reservation and engine features share
// step wording ("the resources:") but keep separate scenario state.

func runSuite(t *testing.T, name string, paths []string, initializer func(*godog.ScenarioContext), suiteInit func(*godog.TestSuiteContext)) {
	suite := godog.TestSuite{
		Name:                 name,
		ScenarioInitializer:  initializer,
		TestSuiteInitializer: suiteInit,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    paths,
			Strict:   true,
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatalf("non-zero status returned, failed to run %s features", name)
	}
}

func TestPathfindingFeatures(t *testing.T) {
	runSuite(t, "pathfinding", []string{"features/domain/pathfinding.feature"}, steps.InitializePathfindingScenario, nil)
}

func TestReservationFeatures(t *testing.T) {
	runSuite(t, "reservation", []string{"features/domain/reservation_table.feature"}, steps.InitializeReservationScenario, nil)
}

func TestTurnEngineFeatures(t *testing.T) {
	runSuite(t, "turn engine", []string{"features/application"}, steps.InitializeTurnEngineScenario, func(ctx *godog.TestSuiteContext) {
		ctx.BeforeSuite(func() {
			if err := helpers.InitializeSharedTestDB(); err != nil {
				panic(err)
			}
		})
		ctx.AfterSuite(func() {
			_ = helpers.CloseSharedTestDB()
		})
	})
}
