package reservation

import (
	"sort"
	"sync"

	"github.com/andrescamacho/antbot-go/internal/domain/world"
)

// ReleaseListener observes every reservation that ends
type ReleaseListener func(released Reservation, reason ReleaseReason)

// ScoreFunc rates a unit for a resource; ok=false means the pair is ineligible
type ScoreFunc func(unit world.Unit, resource world.Resource) (score float64, ok bool)

// Assignment is a reservation granted by ReassignOrphans
type Assignment struct {
	UnitID   string
	Resource world.Resource
	Score    float64
}

// ReconcileReport summarises one reconciliation pass
type ReconcileReport struct {
	HolderDead int
	Vanished   int
	Stale      int
	Released   []Reservation
}

// Total returns the number of reservations released
func (r ReconcileReport) Total() int {
	return r.HolderDead + r.Vanished + r.Stale
}

type releaseEvent struct {
	reservation Reservation
	reason      ReleaseReason
}

// Table is the shared ledger mapping each resource to the single unit
// committed to collecting it.
//
// Invariants:
// - at most one live reservation per resource key
// - a unit holds at most one reservation
//
// Every operation is atomic under the table's mutex, so preemption (a
// read-modify-write on one key) is safe even if several workers share the table.
// Release listeners run after the mutex is released.
type Table struct {
	mu         sync.Mutex
	byKey      map[world.ResourceKey]Reservation
	byUnit     map[string]world.ResourceKey
	turn       int
	staleAfter int
	listeners  []ReleaseListener
}

// NewTable creates an empty table whose reservations go stale after staleAfterTurns
func NewTable(staleAfterTurns int) *Table {
	return &Table{
		byKey:      make(map[world.ResourceKey]Reservation),
		byUnit:     make(map[string]world.ResourceKey),
		staleAfter: staleAfterTurns,
	}
}

// OnRelease registers a listener for released reservations
func (t *Table) OnRelease(listener ReleaseListener) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, listener)
}

// Turn returns the turn the table was last reconciled at
func (t *Table) Turn() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.turn
}

// Reserve claims resource for unitID.
//
// An unreserved resource is granted. A resource held by a lower-priority unit is
// preempted: the holder's reservation is fully released before the new one is
// installed. Equal or higher priority holders win and Reserve returns false,
// leaving the caller's current reservation untouched. Reserving a second resource
// silently releases the unit's first one.
func (t *Table) Reserve(unitID string, resource world.Resource, priority float64, metadata map[string]string) bool {
	t.mu.Lock()
	granted, events := t.reserveLocked(unitID, resource.Key(), priority, metadata)
	listeners := t.listeners
	t.mu.Unlock()

	notify(listeners, events)
	return granted
}

func (t *Table) reserveLocked(unitID string, key world.ResourceKey, priority float64, metadata map[string]string) (bool, []releaseEvent) {
	var events []releaseEvent

	if existing, held := t.byKey[key]; held {
		if existing.holder == unitID {
			t.byKey[key] = NewReservation(key, unitID, priority, existing.createdTurn, metadata)
			return true, nil
		}
		if existing.priority >= priority {
			return false, nil
		}
		t.removeLocked(existing)
		events = append(events, releaseEvent{reservation: existing, reason: ReleasePreempted})
	}

	if currentKey, holds := t.byUnit[unitID]; holds {
		current := t.byKey[currentKey]
		t.removeLocked(current)
		events = append(events, releaseEvent{reservation: current, reason: ReleaseSuperseded})
	}

	t.byKey[key] = NewReservation(key, unitID, priority, t.turn, metadata)
	t.byUnit[unitID] = key
	return true, events
}

// Release removes the unit's reservation if present. Idempotent.
func (t *Table) Release(unitID string) {
	t.release(unitID, ReleaseExplicit)
}

func (t *Table) release(unitID string, reason ReleaseReason) {
	t.mu.Lock()
	key, holds := t.byUnit[unitID]
	if !holds {
		t.mu.Unlock()
		return
	}
	res := t.byKey[key]
	t.removeLocked(res)
	listeners := t.listeners
	t.mu.Unlock()

	notify(listeners, []releaseEvent{{reservation: res, reason: reason}})
}

func (t *Table) removeLocked(res Reservation) {
	delete(t.byKey, res.key)
	if t.byUnit[res.holder] == res.key {
		delete(t.byUnit, res.holder)
	}
}

// IsReserved reports whether any unit holds the resource
func (t *Table) IsReserved(key world.ResourceKey) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, held := t.byKey[key]
	return held
}

// ReserverOf returns the unit holding the resource
func (t *Table) ReserverOf(key world.ResourceKey) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	res, held := t.byKey[key]
	if !held {
		return "", false
	}
	return res.holder, true
}

// Get returns the reservation on a resource
func (t *Table) Get(key world.ResourceKey) (Reservation, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	res, held := t.byKey[key]
	return res, held
}

// HolderOf returns the reservation a unit holds
func (t *Table) HolderOf(unitID string) (Reservation, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	key, holds := t.byUnit[unitID]
	if !holds {
		return Reservation{}, false
	}
	return t.byKey[key], true
}

// AvailableOf filters out reserved resources, preserving order
func (t *Table) AvailableOf(resources []world.Resource) []world.Resource {
	t.mu.Lock()
	defer t.mu.Unlock()

	available := make([]world.Resource, 0, len(resources))
	for _, r := range resources {
		if _, held := t.byKey[r.Key()]; !held {
			available = append(available, r)
		}
	}
	return available
}

// Len returns the number of live reservations
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.byKey)
}

// Reconcile advances the table to turn and releases reservations whose holder is
// not alive, whose resource is not visible, or whose age exceeds the staleness
// bound. Must run before any new reservation decision in the turn.
func (t *Table) Reconcile(turn int, aliveUnitIDs map[string]bool, visibleKeys map[world.ResourceKey]bool) ReconcileReport {
	t.mu.Lock()
	t.turn = turn

	var report ReconcileReport
	var events []releaseEvent

	for _, res := range t.sortedLocked() {
		var reason ReleaseReason
		switch {
		case !aliveUnitIDs[res.holder]:
			reason = ReleaseHolderDead
			report.HolderDead++
		case !visibleKeys[res.key]:
			reason = ReleaseResourceVanished
			report.Vanished++
		case res.IsStaleAt(turn, t.staleAfter):
			reason = ReleaseStale
			report.Stale++
		default:
			continue
		}
		t.removeLocked(res)
		report.Released = append(report.Released, res)
		events = append(events, releaseEvent{reservation: res, reason: reason})
	}

	listeners := t.listeners
	t.mu.Unlock()

	notify(listeners, events)
	return report
}

// ReassignOrphans greedily matches unassigned units to available resources.
//
// For every available resource the best-scoring eligible unit is found (ties keep
// unit input order); the (resource, unit) pairs are then reserved in descending
// score order (ties keep resource input order). This is a heuristic, not an
// optimal assignment: a unit consumed by an earlier pair is not offered again, so
// later resources may go unassigned this pass.
func (t *Table) ReassignOrphans(units []world.Unit, resources []world.Resource, scoreFn ScoreFunc) []Assignment {
	t.mu.Lock()
	unassigned := make([]world.Unit, 0, len(units))
	for _, u := range units {
		if _, holds := t.byUnit[u.ID]; !holds {
			unassigned = append(unassigned, u)
		}
	}
	t.mu.Unlock()

	available := t.AvailableOf(resources)

	var pairs []Assignment
	for _, r := range available {
		bestScore := 0.0
		bestUnit := ""
		for _, u := range unassigned {
			score, ok := scoreFn(u, r)
			if !ok {
				continue
			}
			if bestUnit == "" || score > bestScore {
				bestScore = score
				bestUnit = u.ID
			}
		}
		if bestUnit != "" {
			pairs = append(pairs, Assignment{UnitID: bestUnit, Resource: r, Score: bestScore})
		}
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Score > pairs[j].Score
	})

	taken := make(map[string]bool, len(pairs))
	var granted []Assignment
	for _, p := range pairs {
		if taken[p.UnitID] {
			continue
		}
		if t.Reserve(p.UnitID, p.Resource, p.Score, map[string]string{"source": "orphan"}) {
			taken[p.UnitID] = true
			granted = append(granted, p)
		}
	}
	return granted
}

// Dump returns every live reservation in resource order for debugging
func (t *Table) Dump() []ReservationView {
	t.mu.Lock()
	defer t.mu.Unlock()

	views := make([]ReservationView, 0, len(t.byKey))
	for _, res := range t.sortedLocked() {
		views = append(views, ReservationView{
			ResourceKey: res.key.String(),
			Holder:      res.holder,
			Priority:    res.priority,
			AgeInTurns:  res.AgeAt(t.turn),
		})
	}
	return views
}

func (t *Table) sortedLocked() []Reservation {
	all := make([]Reservation, 0, len(t.byKey))
	for _, res := range t.byKey {
		all = append(all, res)
	}
	sort.Slice(all, func(i, j int) bool {
		a, b := all[i].key, all[j].key
		if a.Position.Q != b.Position.Q {
			return a.Position.Q < b.Position.Q
		}
		if a.Position.R != b.Position.R {
			return a.Position.R < b.Position.R
		}
		return a.Type < b.Type
	})
	return all
}

func notify(listeners []ReleaseListener, events []releaseEvent) {
	for _, e := range events {
		for _, l := range listeners {
			l(e.reservation, e.reason)
		}
	}
}
