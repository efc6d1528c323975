package reservation_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/antbot-go/internal/domain/reservation"
	"github.com/andrescamacho/antbot-go/internal/domain/shared"
	"github.com/andrescamacho/antbot-go/internal/domain/world"
)

func apple(q, r int) world.Resource {
	return world.Resource{ID: fmt.Sprintf("apple-%d-%d", q, r), Type: world.ResourceTypeApple, Position: shared.NewCell(q, r), Amount: 3}
}

type releaseLog struct {
	entries []string
}

func (l *releaseLog) listen(res reservation.Reservation, reason reservation.ReleaseReason) {
	l.entries = append(l.entries, fmt.Sprintf("%s:%s", res.Holder(), reason))
}

func TestReserve_UnreservedResourceIsGranted(t *testing.T) {
	table := reservation.NewTable(60)
	r := apple(1, 1)

	ok := table.Reserve("u1", r, 3, nil)

	assert.True(t, ok)
	assert.True(t, table.IsReserved(r.Key()))
	holder, held := table.ReserverOf(r.Key())
	require.True(t, held)
	assert.Equal(t, "u1", holder)
}

func TestReserve_HigherPriorityPreemptsAndReleasesLoser(t *testing.T) {
	// Arrange
	table := reservation.NewTable(60)
	log := &releaseLog{}
	table.OnRelease(log.listen)
	r := apple(2, 0)

	// Act: priorities 5 then 9
	first := table.Reserve("u5", r, 5, nil)
	second := table.Reserve("u9", r, 9, nil)

	// Assert
	assert.True(t, first)
	assert.True(t, second)
	holder, _ := table.ReserverOf(r.Key())
	assert.Equal(t, "u9", holder)
	_, loserHolds := table.HolderOf("u5")
	assert.False(t, loserHolds)
	assert.Equal(t, []string{"u5:preempted"}, log.entries)
}

func TestReserve_EqualOrLowerPriorityIsRefused(t *testing.T) {
	table := reservation.NewTable(60)
	r := apple(2, 0)
	other := apple(4, 0)
	require.True(t, table.Reserve("holder", r, 7, nil))
	require.True(t, table.Reserve("challenger", other, 1, nil))

	assert.False(t, table.Reserve("challenger", r, 7, nil))
	assert.False(t, table.Reserve("challenger", r, 2, nil))

	holder, _ := table.ReserverOf(r.Key())
	assert.Equal(t, "holder", holder)
	res, holds := table.HolderOf("challenger")
	require.True(t, holds, "a refused request keeps the caller's existing reservation")
	assert.Equal(t, other.Key(), res.Key())
}

func TestReserve_SecondResourceSupersedesFirst(t *testing.T) {
	table := reservation.NewTable(60)
	log := &releaseLog{}
	table.OnRelease(log.listen)
	a, b := apple(1, 0), apple(0, 1)

	require.True(t, table.Reserve("u1", a, 1, nil))
	require.True(t, table.Reserve("u1", b, 1, nil))

	assert.False(t, table.IsReserved(a.Key()))
	assert.True(t, table.IsReserved(b.Key()))
	assert.Equal(t, 1, table.Len())
	assert.Equal(t, []string{"u1:superseded"}, log.entries)
}

func TestReserve_SameUnitSameResourceRefreshesPriority(t *testing.T) {
	table := reservation.NewTable(60)
	r := apple(1, 0)
	table.Reconcile(10, map[string]bool{}, map[world.ResourceKey]bool{})

	require.True(t, table.Reserve("u1", r, 1, nil))
	table.Reconcile(12, map[string]bool{"u1": true}, map[world.ResourceKey]bool{r.Key(): true})
	require.True(t, table.Reserve("u1", r, 4, map[string]string{"why": "refresh"}))

	res, ok := table.Get(r.Key())
	require.True(t, ok)
	assert.Equal(t, 4.0, res.Priority())
	assert.Equal(t, 10, res.CreatedTurn(), "refresh keeps the original creation turn")
	assert.Equal(t, "refresh", res.Metadata()["why"])
}

func TestRelease_IsIdempotent(t *testing.T) {
	table := reservation.NewTable(60)
	log := &releaseLog{}
	table.OnRelease(log.listen)
	r := apple(1, 0)
	require.True(t, table.Reserve("u1", r, 1, nil))

	table.Release("u1")
	table.Release("u1")
	table.Release("never-held")

	assert.False(t, table.IsReserved(r.Key()))
	assert.Equal(t, []string{"u1:explicit"}, log.entries)
}

func TestAvailableOf_FiltersReservedPreservingOrder(t *testing.T) {
	table := reservation.NewTable(60)
	rs := []world.Resource{apple(0, 1), apple(0, 2), apple(0, 3)}
	require.True(t, table.Reserve("u1", rs[1], 1, nil))

	assert.Equal(t, []world.Resource{rs[0], rs[2]}, table.AvailableOf(rs))
}

func TestReconcile_DeadHolderIsReleasedAndResourceBecomesAvailable(t *testing.T) {
	// Arrange
	table := reservation.NewTable(60)
	r := apple(3, -1)
	require.True(t, table.Reserve("dead", r, 2, nil))

	// Act
	report := table.Reconcile(5, map[string]bool{"alive": true}, map[world.ResourceKey]bool{r.Key(): true})

	// Assert
	assert.Equal(t, 1, report.HolderDead)
	_, holds := table.HolderOf("dead")
	assert.False(t, holds)
	assert.Equal(t, []world.Resource{r}, table.AvailableOf([]world.Resource{r}))
}

func TestReconcile_VanishedAndStale(t *testing.T) {
	table := reservation.NewTable(3)
	log := &releaseLog{}
	table.OnRelease(log.listen)
	gone, old, fresh := apple(1, 0), apple(2, 0), apple(3, 0)

	table.Reconcile(1, nil, nil)
	require.True(t, table.Reserve("a", gone, 1, nil))
	require.True(t, table.Reserve("b", old, 1, nil))
	table.Reconcile(4, map[string]bool{"a": true, "b": true}, map[world.ResourceKey]bool{gone.Key(): true, old.Key(): true})
	require.True(t, table.Reserve("c", fresh, 1, nil))

	alive := map[string]bool{"a": true, "b": true, "c": true}
	visible := map[world.ResourceKey]bool{old.Key(): true, fresh.Key(): true}
	report := table.Reconcile(5, alive, visible)

	assert.Equal(t, 1, report.Vanished)
	assert.Equal(t, 1, report.Stale)
	assert.Equal(t, 2, report.Total())
	assert.True(t, table.IsReserved(fresh.Key()))
	assert.ElementsMatch(t, []string{"a:resource_vanished", "b:stale"}, log.entries)
}

func TestReassignOrphans_GreedyByDescendingScore(t *testing.T) {
	// Arrange: u1 is the best candidate for both resources; the higher score wins it
	table := reservation.NewTable(60)
	units := []world.Unit{
		{ID: "u1", Type: world.UnitTypeWorker, Position: shared.NewCell(0, 0)},
		{ID: "u2", Type: world.UnitTypeWorker, Position: shared.NewCell(9, 9)},
	}
	near, far := apple(1, 0), apple(5, 0)
	score := func(u world.Unit, r world.Resource) (float64, bool) {
		return 100 - float64(shared.Distance(u.Position, r.Position)), true
	}

	// Act
	granted := table.ReassignOrphans(units, []world.Resource{far, near}, score)

	// Assert: u1 takes near; far's best candidate was u1 too, so it starves this pass
	require.Len(t, granted, 1)
	assert.Equal(t, "u1", granted[0].UnitID)
	assert.Equal(t, near.Key(), granted[0].Resource.Key())
	assert.False(t, table.IsReserved(far.Key()))
}

func TestReassignOrphans_SkipsAssignedUnitsReservedResourcesAndIneligiblePairs(t *testing.T) {
	table := reservation.NewTable(60)
	held := apple(1, 1)
	require.True(t, table.Reserve("busy", held, 1, nil))
	units := []world.Unit{{ID: "busy"}, {ID: "picky"}, {ID: "free"}}
	open := apple(2, 2)

	granted := table.ReassignOrphans(units, []world.Resource{held, open}, func(u world.Unit, r world.Resource) (float64, bool) {
		if u.ID == "picky" {
			return 0, false
		}
		return 1, true
	})

	require.Len(t, granted, 1)
	assert.Equal(t, "free", granted[0].UnitID)
	holder, _ := table.ReserverOf(held.Key())
	assert.Equal(t, "busy", holder)
}

func TestDump_ReportsAgeInTurns(t *testing.T) {
	table := reservation.NewTable(60)
	r := apple(0, 1)
	table.Reconcile(3, nil, nil)
	require.True(t, table.Reserve("u1", r, 2.5, nil))
	table.Reconcile(7, map[string]bool{"u1": true}, map[world.ResourceKey]bool{r.Key(): true})

	views := table.Dump()

	require.Len(t, views, 1)
	assert.Equal(t, reservation.ReservationView{ResourceKey: r.Key().String(), Holder: "u1", Priority: 2.5, AgeInTurns: 4}, views[0])
}

// At most one holder per resource and at most one resource per unit, under any
// interleaving of reserve, release and reconcile.
func TestTable_ExclusivityUnderRandomOperations(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	table := reservation.NewTable(5)
	resources := make([]world.Resource, 8)
	for i := range resources {
		resources[i] = apple(i, -i)
	}
	unitIDs := []string{"a", "b", "c", "d", "e", "f"}

	for step := 0; step < 2000; step++ {
		switch rng.Intn(10) {
		case 0:
			table.Release(unitIDs[rng.Intn(len(unitIDs))])
		case 1:
			alive := map[string]bool{}
			for _, id := range unitIDs {
				alive[id] = rng.Float64() < 0.9
			}
			visible := map[world.ResourceKey]bool{}
			for _, r := range resources {
				visible[r.Key()] = rng.Float64() < 0.9
			}
			table.Reconcile(step/20, alive, visible)
		default:
			table.Reserve(unitIDs[rng.Intn(len(unitIDs))], resources[rng.Intn(len(resources))], float64(rng.Intn(10)), nil)
		}

		holders := map[string]int{}
		for _, v := range table.Dump() {
			holders[v.Holder]++
		}
		for id, n := range holders {
			require.Equal(t, 1, n, "step %d: unit %s holds %d reservations", step, id, n)
		}
		for _, id := range unitIDs {
			if res, ok := table.HolderOf(id); ok {
				holder, held := table.ReserverOf(res.Key())
				require.True(t, held)
				require.Equal(t, id, holder)
			}
		}
	}
}
