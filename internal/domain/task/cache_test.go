package task_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/antbot-go/internal/domain/shared"
	"github.com/andrescamacho/antbot-go/internal/domain/task"
	"github.com/andrescamacho/antbot-go/internal/domain/world"
)

func TestTaskVariants_ExposeKindAndTarget(t *testing.T) {
	key := world.ResourceKey{Position: shared.NewCell(2, -1), Type: world.ResourceTypeBread}

	tests := []struct {
		task   task.Task
		kind   task.Kind
		target shared.Cell
	}{
		{task.NewReturnToBase(shared.NewCell(0, 0), task.ReturnCargoFull, 1), task.KindReturnToBase, shared.NewCell(0, 0)},
		{task.NewDefend("e1", shared.NewCell(1, 1), 1), task.KindDefend, shared.NewCell(1, 1)},
		{task.NewCollect(key, 3.5, 1), task.KindCollect, shared.NewCell(2, -1)},
		{task.NewExplore(shared.NewCell(8, 0), 1), task.KindExplore, shared.NewCell(8, 0)},
		{task.NewRaid(shared.NewCell(-9, 4), 1), task.KindRaid, shared.NewCell(-9, 4)},
		{task.NewPatrol(shared.NewCell(0, 2), 1), task.KindPatrol, shared.NewCell(0, 2)},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.task.Kind())
			assert.Equal(t, tt.target, tt.task.Target())
			assert.Equal(t, 1, tt.task.CreatedTurn())
			assert.NotEmpty(t, tt.task.String())
		})
	}
}

func TestCache_PutGetDrop(t *testing.T) {
	cache := task.NewCache(40)
	patrol := task.NewPatrol(shared.NewCell(1, 0), 3)

	cache.Put("u1", patrol)
	got, ok := cache.Get("u1")

	require.True(t, ok)
	assert.Same(t, patrol, got)
	assert.True(t, cache.Drop("u1"))
	assert.False(t, cache.Drop("u1"))
	_, ok = cache.Get("u1")
	assert.False(t, ok)
}

func TestCache_ReconcileDropsDeadAndStale(t *testing.T) {
	// Arrange
	cache := task.NewCache(10)
	cache.Put("dead", task.NewExplore(shared.NewCell(5, 0), 20))
	cache.Put("old", task.NewPatrol(shared.NewCell(1, 0), 5))
	cache.Put("fresh", task.NewPatrol(shared.NewCell(0, 1), 18))

	// Act
	report := cache.Reconcile(20, map[string]bool{"old": true, "fresh": true})

	// Assert
	assert.Equal(t, task.ReconcileReport{UnitDead: 1, Stale: 1, StaleUnitIDs: []string{"old"}}, report)
	assert.Equal(t, 1, cache.Len())
	_, ok := cache.Get("fresh")
	assert.True(t, ok)
}

func TestCache_ClaimedTargetsExcludesAskingUnit(t *testing.T) {
	cache := task.NewCache(40)
	cache.Put("a", task.NewExplore(shared.NewCell(8, 0), 1))
	cache.Put("b", task.NewExplore(shared.NewCell(0, 8), 1))
	cache.Put("c", task.NewPatrol(shared.NewCell(1, 0), 1))

	claimed := cache.ClaimedTargets(task.KindExplore, "a")

	assert.Equal(t, map[shared.Cell]bool{shared.NewCell(0, 8): true}, claimed)
}

func TestCache_DumpIsSortedWithAges(t *testing.T) {
	cache := task.NewCache(40)
	cache.Put("z", task.NewPatrol(shared.NewCell(1, 0), 4))
	cache.Put("a", task.NewRaid(shared.NewCell(9, 9), 6))

	views := cache.Dump(10)

	assert.Equal(t, []task.View{
		{UnitID: "a", Kind: task.KindRaid, Target: shared.NewCell(9, 9).String(), AgeInTurns: 4},
		{UnitID: "z", Kind: task.KindPatrol, Target: shared.NewCell(1, 0).String(), AgeInTurns: 6},
	}, views)
	assert.Equal(t, map[task.Kind]int{task.KindRaid: 1, task.KindPatrol: 1}, cache.CountByKind())
}
