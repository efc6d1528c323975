package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/cucumber/godog"
	messages "github.com/cucumber/messages/go/v21"

	"github.com/andrescamacho/antbot-go/internal/adapters/persistence"
	"github.com/andrescamacho/antbot-go/internal/application/common"
	"github.com/andrescamacho/antbot-go/internal/application/scheduler"
	"github.com/andrescamacho/antbot-go/internal/domain/shared"
	"github.com/andrescamacho/antbot-go/internal/domain/task"
	"github.com/andrescamacho/antbot-go/internal/domain/tuning"
	"github.com/andrescamacho/antbot-go/internal/domain/world"
	"github.com/andrescamacho/antbot-go/test/helpers"
)

type turnEngineContext struct {
	base      shared.Cell
	radius    int
	units     []world.Unit
	enemies   []world.Unit
	resources []world.Resource

	tuning  tuning.Tuning
	options []scheduler.EngineOption
	engine  *scheduler.TurnEngine
	result  *scheduler.TurnResult
	logger  *common.RecordingLogger

	repository *persistence.GormTurnJournalRepository
}

func (ec *turnEngineContext) reset() {
	ec.base = shared.Cell{}
	ec.radius = 0
	ec.units = nil
	ec.enemies = nil
	ec.resources = nil
	ec.tuning = tuning.Default()
	ec.options = nil
	ec.engine = nil
	ec.result = nil
	ec.logger = &common.RecordingLogger{}
	ec.repository = nil
}

// engineFor builds the engine lazily so Given steps can still add options
func (ec *turnEngineContext) engineFor() *scheduler.TurnEngine {
	if ec.engine == nil {
		ec.engine = scheduler.NewTurnEngine(ec.tuning, ec.options...)
	}
	return ec.engine
}

func (ec *turnEngineContext) snapshot(turn int) *world.Snapshot {
	b := helpers.NewPlainSnapshot(ec.base, ec.radius).AtTurn(turn, 0)
	for _, r := range ec.resources {
		b.WithResource(r.ID, r.Type, r.Position, r.Amount)
	}
	for _, e := range ec.enemies {
		b.WithEnemy(e.ID, e.Type, e.Position)
	}
	snap := b.Build()
	snap.Units = append(snap.Units, ec.units...)
	return snap
}

func (ec *turnEngineContext) aPlainWorld(radius int, q, r string) error {
	base, err := parseCell(q, r)
	if err != nil {
		return err
	}
	ec.base = base
	ec.radius = radius
	return nil
}

func (ec *turnEngineContext) theUnits(table *messages.PickleTable) error {
	units, err := unitsFromTable(table)
	if err != nil {
		return err
	}
	ec.units = units
	return nil
}

func (ec *turnEngineContext) theResources(table *messages.PickleTable) error {
	resources, err := resourcesFromTable(table)
	if err != nil {
		return err
	}
	ec.resources = resources
	return nil
}

func (ec *turnEngineContext) theEnemies(table *messages.PickleTable) error {
	enemies, err := enemiesFromTable(table)
	if err != nil {
		return err
	}
	ec.enemies = enemies
	return nil
}

func (ec *turnEngineContext) aTurnDeadline(deadlineMs, perReadMs int) error {
	clock := shared.NewMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	clock.AutoAdvance = time.Duration(perReadMs) * time.Millisecond
	ec.tuning.TurnDeadline = time.Duration(deadlineMs) * time.Millisecond
	ec.options = append(ec.options, scheduler.WithClock(clock))
	return nil
}

func (ec *turnEngineContext) theEngineJournalsToTheDatabase(sessionID string) error {
	if helpers.SharedTestDB == nil {
		return fmt.Errorf("shared test database not initialized")
	}
	ec.repository = persistence.NewGormTurnJournalRepository(helpers.SharedTestDB, "bdd")
	if err := ec.repository.StartSession(context.Background(), sessionID, time.Now(), nil); err != nil {
		return err
	}
	ec.options = append(ec.options, scheduler.WithJournal(ec.repository), scheduler.WithSessionID(sessionID))
	return nil
}

func (ec *turnEngineContext) theEngineProcessesTurn(turn int) error {
	ctx := common.WithLogger(context.Background(), ec.logger)
	result, err := ec.engineFor().ProcessTurn(ctx, ec.snapshot(turn))
	if err != nil {
		return err
	}
	ec.result = result
	return nil
}

func (ec *turnEngineContext) theUnitsAreReplacedBy(table *messages.PickleTable) error {
	return ec.theUnits(table)
}

func (ec *turnEngineContext) command(unitID string) (task.Command, error) {
	if ec.result == nil {
		return task.Command{}, fmt.Errorf("no turn processed yet")
	}
	cmd, ok := ec.result.CommandFor(unitID)
	if !ok {
		d, _ := ec.result.DecisionFor(unitID)
		return task.Command{}, fmt.Errorf("unit %s has no command (outcome %s, rule %s)", unitID, d.Outcome, d.Rule)
	}
	return cmd, nil
}

func (ec *turnEngineContext) unitShouldBeCommandedTo(unitID, tag string) error {
	cmd, err := ec.command(unitID)
	if err != nil {
		return err
	}
	if string(cmd.Tag) != tag {
		return fmt.Errorf("expected %s to be commanded to %s, got %s", unitID, tag, cmd.Tag)
	}
	return nil
}

func (ec *turnEngineContext) unitShouldNotBeCommandedTo(unitID, tag string) error {
	if cmd, ok := ec.result.CommandFor(unitID); ok && string(cmd.Tag) == tag {
		return fmt.Errorf("expected %s not to be commanded to %s", unitID, tag)
	}
	return nil
}

func (ec *turnEngineContext) exactlyUnitsShouldBeCommandedTo(n int, tag string) error {
	count := 0
	for _, cmd := range ec.result.Commands {
		if string(cmd.Tag) == tag {
			count++
		}
	}
	if count != n {
		return fmt.Errorf("expected %d %s commands, got %d", n, tag, count)
	}
	return nil
}

func (ec *turnEngineContext) theRouteOfShouldEndAt(unitID, q, r string) error {
	cmd, err := ec.command(unitID)
	if err != nil {
		return err
	}
	want, err := parseCell(q, r)
	if err != nil {
		return err
	}
	if len(cmd.Path) == 0 || cmd.Path[len(cmd.Path)-1] != want {
		return fmt.Errorf("expected %s's route to end at %s, got %v", unitID, want, cellStrings(cmd.Path))
	}
	return nil
}

func (ec *turnEngineContext) reservedHolder(resourceID string) (string, bool, error) {
	r, err := resourceByID(ec.resources, resourceID)
	if err != nil {
		return "", false, err
	}
	for _, view := range ec.engineFor().Reservations() {
		if view.ResourceKey == r.Key().String() {
			return view.Holder, true, nil
		}
	}
	return "", false, nil
}

func (ec *turnEngineContext) resourceShouldBeReservedBy(resourceID, unitID string) error {
	holder, held, err := ec.reservedHolder(resourceID)
	if err != nil {
		return err
	}
	if !held || holder != unitID {
		return fmt.Errorf("expected %s to be reserved by %s, got %q", resourceID, unitID, holder)
	}
	return nil
}

func (ec *turnEngineContext) noReservationShouldBeHeldBy(unitID string) error {
	for _, view := range ec.engineFor().Reservations() {
		if view.Holder == unitID {
			return fmt.Errorf("expected %s to hold nothing, holds %s", unitID, view.ResourceKey)
		}
	}
	return nil
}

func (ec *turnEngineContext) theTurnShouldBeDegraded() error {
	if !ec.result.Degraded {
		return fmt.Errorf("expected a degraded turn")
	}
	return nil
}

func (ec *turnEngineContext) unitsShouldBeSkipped(list string) error {
	want := splitIDs(list)
	if fmt.Sprint(want) != fmt.Sprint(ec.result.Skipped) {
		return fmt.Errorf("expected skipped %v, got %v", want, ec.result.Skipped)
	}
	return nil
}

func (ec *turnEngineContext) unitShouldHaveNoCommand(unitID string) error {
	if _, ok := ec.result.CommandFor(unitID); ok {
		return fmt.Errorf("expected %s to have no command", unitID)
	}
	return nil
}

func (ec *turnEngineContext) theTurnShouldReportOrphans(n int) error {
	if len(ec.result.Orphans) != n {
		return fmt.Errorf("expected %d orphan assignments, got %d", n, len(ec.result.Orphans))
	}
	return nil
}

func (ec *turnEngineContext) theJournalShouldHoldTurn(turn int, sessionID string, commands int) error {
	entry, err := ec.repository.FindTurn(context.Background(), sessionID, turn)
	if err != nil {
		return err
	}
	if entry == nil {
		return fmt.Errorf("turn %d of %s not journalled", turn, sessionID)
	}
	if len(entry.Commands) != commands {
		return fmt.Errorf("expected %d journalled commands, got %d", commands, len(entry.Commands))
	}
	return nil
}

// InitializeTurnEngineScenario registers the turn engine steps
func InitializeTurnEngineScenario(sc *godog.ScenarioContext) {
	ec := &turnEngineContext{}

	sc.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		ec.reset()
		return ctx, helpers.TruncateAllTables()
	})

	sc.Step(`^a plain world of radius (\d+) around `+cellPattern+`$`, ec.aPlainWorld)
	sc.Step(`^the units:$`, ec.theUnits)
	sc.Step(`^the resources:$`, ec.theResources)
	sc.Step(`^the enemies:$`, ec.theEnemies)
	sc.Step(`^a turn deadline of (\d+)ms where every clock read takes (\d+)ms$`, ec.aTurnDeadline)
	sc.Step(`^the engine journals to the database as session "([^"]*)"$`, ec.theEngineJournalsToTheDatabase)
	sc.Step(`^the engine (?:processes|has processed) turn (\d+)$`, ec.theEngineProcessesTurn)
	sc.Step(`^the units are replaced by:$`, ec.theUnitsAreReplacedBy)

	sc.Step(`^unit "([^"]*)" should be commanded to "([^"]*)"$`, ec.unitShouldBeCommandedTo)
	sc.Step(`^unit "([^"]*)" should not be commanded to "([^"]*)"$`, ec.unitShouldNotBeCommandedTo)
	sc.Step(`^exactly (\d+) units? should be commanded to "([^"]*)"$`, ec.exactlyUnitsShouldBeCommandedTo)
	sc.Step(`^the route of "([^"]*)" should end at `+cellPattern+`$`, ec.theRouteOfShouldEndAt)
	sc.Step(`^"([^"]*)" should be reserved by "([^"]*)"$`, ec.resourceShouldBeReservedBy)
	sc.Step(`^no reservation should be held by "([^"]*)"$`, ec.noReservationShouldBeHeldBy)
	sc.Step(`^the turn should be degraded$`, ec.theTurnShouldBeDegraded)
	sc.Step(`^units "([^"]*)" should be skipped$`, ec.unitsShouldBeSkipped)
	sc.Step(`^unit "([^"]*)" should have no command$`, ec.unitShouldHaveNoCommand)
	sc.Step(`^the turn should report (\d+) orphans? reassigned$`, ec.theTurnShouldReportOrphans)
	sc.Step(`^the journal should hold turn (\d+) of session "([^"]*)" with (\d+) commands?$`, ec.theJournalShouldHoldTurn)
}
