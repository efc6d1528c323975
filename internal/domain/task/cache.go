package task

import (
	"sort"
	"sync"

	"github.com/andrescamacho/antbot-go/internal/domain/shared"
)

// DropReason records why a task left the cache
type DropReason string

const (
	DropCompleted   DropReason = "completed"
	DropInvalid     DropReason = "invalid"
	DropReplaced    DropReason = "replaced"
	DropUnitDead    DropReason = "unit_dead"
	DropStale       DropReason = "stale"
	DropReservation DropReason = "reservation_lost"
)

// View is the debugging form of a cached task
type View struct {
	UnitID     string `json:"unit_id"`
	Kind       Kind   `json:"kind"`
	Target     string `json:"target"`
	AgeInTurns int    `json:"age_in_turns"`
}

// ReconcileReport summarises one cache reconciliation
type ReconcileReport struct {
	UnitDead int
	Stale    int

	// StaleUnitIDs are the live units whose task went stale, sorted
	StaleUnitIDs []string
}

// Cache holds the committed task of every unit across turns
type Cache struct {
	mu         sync.Mutex
	tasks      map[string]Task
	staleAfter int
}

// NewCache creates an empty cache whose tasks go stale after staleAfterTurns
func NewCache(staleAfterTurns int) *Cache {
	return &Cache{
		tasks:      make(map[string]Task),
		staleAfter: staleAfterTurns,
	}
}

// Get returns the unit's task
func (c *Cache) Get(unitID string) (Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.tasks[unitID]
	return t, ok
}

// Put stores the unit's task, replacing any previous one
func (c *Cache) Put(unitID string, t Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks[unitID] = t
}

// Drop removes the unit's task and reports whether one was present
func (c *Cache) Drop(unitID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.tasks[unitID]
	delete(c.tasks, unitID)
	return ok
}

// Len returns the number of cached tasks
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tasks)
}

// Reconcile drops tasks of units not alive and tasks older than the staleness window
func (c *Cache) Reconcile(turn int, aliveUnitIDs map[string]bool) ReconcileReport {
	c.mu.Lock()
	defer c.mu.Unlock()

	var report ReconcileReport
	for id, t := range c.tasks {
		switch {
		case !aliveUnitIDs[id]:
			delete(c.tasks, id)
			report.UnitDead++
		case AgeAt(t, turn) > c.staleAfter:
			delete(c.tasks, id)
			report.Stale++
			report.StaleUnitIDs = append(report.StaleUnitIDs, id)
		}
	}
	sort.Strings(report.StaleUnitIDs)
	return report
}

// ClaimedTargets returns target cells of tasks of the given kind, excluding one unit
func (c *Cache) ClaimedTargets(kind Kind, exceptUnitID string) map[shared.Cell]bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	claimed := make(map[shared.Cell]bool)
	for id, t := range c.tasks {
		if id != exceptUnitID && t.Kind() == kind {
			claimed[t.Target()] = true
		}
	}
	return claimed
}

// CountByKind returns the number of cached tasks per kind
func (c *Cache) CountByKind() map[Kind]int {
	c.mu.Lock()
	defer c.mu.Unlock()

	counts := make(map[Kind]int, len(Kinds))
	for _, t := range c.tasks {
		counts[t.Kind()]++
	}
	return counts
}

// Dump returns every cached task ordered by unit id
func (c *Cache) Dump(turn int) []View {
	c.mu.Lock()
	defer c.mu.Unlock()

	views := make([]View, 0, len(c.tasks))
	for id, t := range c.tasks {
		views = append(views, View{
			UnitID:     id,
			Kind:       t.Kind(),
			Target:     t.Target().String(),
			AgeInTurns: AgeAt(t, turn),
		})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].UnitID < views[j].UnitID })
	return views
}
