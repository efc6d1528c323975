package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
	messages "github.com/cucumber/messages/go/v21"

	"github.com/andrescamacho/antbot-go/internal/domain/reservation"
	"github.com/andrescamacho/antbot-go/internal/domain/world"
)

type releaseRecord struct {
	holder string
	reason reservation.ReleaseReason
}

type reservationContext struct {
	table     *reservation.Table
	resources []world.Resource
	releases  []releaseRecord
	granted   bool
}

func (rc *reservationContext) reset() {
	rc.table = nil
	rc.resources = nil
	rc.releases = nil
	rc.granted = false
}

func (rc *reservationContext) aReservationTable(turn, staleAfter int) error {
	rc.table = reservation.NewTable(staleAfter)
	rc.table.OnRelease(func(released reservation.Reservation, reason reservation.ReleaseReason) {
		rc.releases = append(rc.releases, releaseRecord{holder: released.Holder(), reason: reason})
	})
	rc.table.Reconcile(turn, nil, nil)
	return nil
}

func (rc *reservationContext) theResources(table *messages.PickleTable) error {
	resources, err := resourcesFromTable(table)
	if err != nil {
		return err
	}
	rc.resources = resources
	return nil
}

func (rc *reservationContext) unitReserves(unitID, resourceID string, priority float64) error {
	r, err := resourceByID(rc.resources, resourceID)
	if err != nil {
		return err
	}
	rc.granted = rc.table.Reserve(unitID, r, priority, nil)
	return nil
}

func (rc *reservationContext) theLastReservationShouldHaveBeenRefused() error {
	if rc.granted {
		return fmt.Errorf("expected the reservation to be refused")
	}
	return nil
}

func (rc *reservationContext) resourceShouldBeHeldBy(resourceID, unitID string) error {
	r, err := resourceByID(rc.resources, resourceID)
	if err != nil {
		return err
	}
	holder, held := rc.table.ReserverOf(r.Key())
	if !held {
		return fmt.Errorf("expected %s to be held by %s, it is free", resourceID, unitID)
	}
	if holder != unitID {
		return fmt.Errorf("expected %s to be held by %s, got %s", resourceID, unitID, holder)
	}
	return nil
}

func (rc *reservationContext) unitShouldHoldNothing(unitID string) error {
	if res, holds := rc.table.HolderOf(unitID); holds {
		return fmt.Errorf("expected %s to hold nothing, holds %s", unitID, res)
	}
	return nil
}

func (rc *reservationContext) resourceShouldBeAvailable(resourceID string) error {
	r, err := resourceByID(rc.resources, resourceID)
	if err != nil {
		return err
	}
	for _, available := range rc.table.AvailableOf(rc.resources) {
		if available.ID == r.ID {
			return nil
		}
	}
	return fmt.Errorf("expected %s to be available", resourceID)
}

func (rc *reservationContext) aReleaseShouldHaveBeenReported(reason, unitID string) error {
	for _, rel := range rc.releases {
		if rel.holder == unitID && string(rel.reason) == reason {
			return nil
		}
	}
	return fmt.Errorf("no %s release reported for %s (got %v)", reason, unitID, rc.releases)
}

func (rc *reservationContext) reconcile(turn int, alive []string, visible []world.Resource) {
	aliveIDs := make(map[string]bool, len(alive))
	for _, id := range alive {
		aliveIDs[id] = true
	}
	keys := make(map[world.ResourceKey]bool, len(visible))
	for _, r := range visible {
		keys[r.Key()] = true
	}
	rc.table.Reconcile(turn, aliveIDs, keys)
}

func (rc *reservationContext) theTableIsReconciled(turn int, alive string) error {
	rc.reconcile(turn, splitIDs(alive), rc.resources)
	return nil
}

func (rc *reservationContext) theTableIsReconciledWithVisible(turn int, alive, visible string) error {
	var shown []world.Resource
	for _, id := range splitIDs(visible) {
		r, err := resourceByID(rc.resources, id)
		if err != nil {
			return err
		}
		shown = append(shown, r)
	}
	rc.reconcile(turn, splitIDs(alive), shown)
	return nil
}

// InitializeReservationScenario registers the reservation table steps
func InitializeReservationScenario(sc *godog.ScenarioContext) {
	rc := &reservationContext{}

	sc.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		rc.reset()
		return ctx, nil
	})

	sc.Step(`^a reservation table at turn (\d+) with staleness (\d+)$`, rc.aReservationTable)
	sc.Step(`^the resources:$`, rc.theResources)
	sc.Step(`^unit "([^"]*)" reserves "([^"]*)" with priority (\d+(?:\.\d+)?)$`, rc.unitReserves)
	sc.Step(`^the last reservation should have been refused$`, rc.theLastReservationShouldHaveBeenRefused)
	sc.Step(`^"([^"]*)" should be held by "([^"]*)"$`, rc.resourceShouldBeHeldBy)
	sc.Step(`^unit "([^"]*)" should hold nothing$`, rc.unitShouldHoldNothing)
	sc.Step(`^"([^"]*)" should be available$`, rc.resourceShouldBeAvailable)
	sc.Step(`^a "([^"]*)" release should have been reported for "([^"]*)"$`, rc.aReleaseShouldHaveBeenReported)
	sc.Step(`^the table is reconciled at turn (\d+) with alive units "([^"]*)"$`, rc.theTableIsReconciled)
	sc.Step(`^the table is reconciled at turn (\d+) with alive units "([^"]*)" and visible resources "([^"]*)"$`, rc.theTableIsReconciledWithVisible)
}
