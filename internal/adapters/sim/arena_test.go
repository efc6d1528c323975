package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/antbot-go/internal/domain/shared"
	"github.com/andrescamacho/antbot-go/internal/domain/task"
	"github.com/andrescamacho/antbot-go/internal/domain/world"
)

func testConfig() ArenaConfig {
	return ArenaConfig{Seed: 7, Radius: 10, MaxTurns: 50, Workers: 3, Soldiers: 1, Scouts: 1, Resources: 8, Enemies: 2}
}

func TestGenerateArena_IsDeterministic(t *testing.T) {
	// Act
	a, err := GenerateArena(testConfig())
	require.NoError(t, err)
	b, err := GenerateArena(testConfig())
	require.NoError(t, err)

	// Assert
	assert.Equal(t, a.Snapshot(), b.Snapshot())
	assert.Equal(t, a.Resources(), b.Resources())
}

func TestGenerateArena_RejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Radius = 3
	_, err := GenerateArena(cfg)
	assert.Error(t, err)

	cfg = testConfig()
	cfg.Workers, cfg.Soldiers, cfg.Scouts = 0, 0, 0
	_, err = GenerateArena(cfg)
	assert.Error(t, err)

	cfg = testConfig()
	cfg.MaxTurns = 0
	_, err = GenerateArena(cfg)
	assert.Error(t, err)
}

func TestGenerateArena_BasesAreClear(t *testing.T) {
	// Arrange
	a, err := GenerateArena(testConfig())
	require.NoError(t, err)

	// Assert
	for _, c := range shared.Spiral(a.base, clearRange) {
		assert.True(t, a.TerrainAt(c).IsPassable(), "cell %s near base", c)
	}
	for _, h := range a.home {
		assert.Equal(t, world.TerrainHome, a.TerrainAt(h))
	}
	assert.Equal(t, world.TerrainRock, a.TerrainAt(shared.NewCell(50, 0)))
}

func TestSnapshot_LimitedToVision(t *testing.T) {
	// Arrange
	a, err := GenerateArena(testConfig())
	require.NoError(t, err)
	a.enemies = []world.Unit{newUnit("near", world.UnitTypeSoldier, shared.NewCell(2, 0)), newUnit("far", world.UnitTypeSoldier, shared.NewCell(8, 0))}

	// Act
	snap := a.Snapshot()

	// Assert
	require.Len(t, snap.Enemies, 1, "scout vision 4 reaches (2,0) only")
	assert.Equal(t, "near", snap.Enemies[0].ID)
	assert.True(t, snap.Visible(shared.NewCell(4, 0)))
	assert.False(t, snap.Visible(shared.NewCell(8, 0)))
	assert.Empty(t, snap.EnemyBases)
}

func TestApply_PickupReplacesCargoAndDeliveryScores(t *testing.T) {
	// Arrange
	a, err := GenerateArena(testConfig())
	require.NoError(t, err)
	a.enemies = nil
	a.terrain[shared.NewCell(-1, 0)] = world.TerrainPlain
	a.units = []world.Unit{newUnit("w1", world.UnitTypeWorker, shared.NewCell(-1, 1))}
	a.units[0].Cargo = world.Cargo{Type: world.ResourceTypeApple, Amount: 2}
	a.resources = []world.Resource{{ID: "n", Type: world.ResourceTypeNectar, Position: shared.NewCell(-1, 0), Amount: 3}}
	a.cfg.Resources = 0

	// Act: step onto the nectar
	first := a.Apply([]task.Command{{UnitID: "w1", Path: []shared.Cell{shared.NewCell(-1, 0)}, Tag: task.KindCollect}})

	// Assert
	assert.Equal(t, 3, first.PickedUp)
	assert.Equal(t, world.Cargo{Type: world.ResourceTypeNectar, Amount: 3}, a.units[0].Cargo)
	assert.Empty(t, a.resources)

	// Act: walk home
	second := a.Apply([]task.Command{{UnitID: "w1", Path: []shared.Cell{shared.NewCell(0, 0)}, Tag: task.KindReturnToBase}})

	// Assert
	assert.Equal(t, 180, second.Calories)
	assert.Equal(t, 180, a.Calories())
	assert.True(t, a.units[0].Cargo.IsEmpty())
	assert.Equal(t, 3, a.Turn())
}

func TestApply_CutsRouteAtRock(t *testing.T) {
	// Arrange
	a, err := GenerateArena(testConfig())
	require.NoError(t, err)
	a.enemies = nil
	a.units = []world.Unit{newUnit("w1", world.UnitTypeWorker, shared.NewCell(0, 0))}
	a.terrain[shared.NewCell(1, 0)] = world.TerrainPlain
	a.terrain[shared.NewCell(2, 0)] = world.TerrainRock

	// Act
	report := a.Apply([]task.Command{{UnitID: "w1", Path: []shared.Cell{shared.NewCell(1, 0), shared.NewCell(2, 0), shared.NewCell(3, 0)}, Tag: task.KindExplore}})

	// Assert
	assert.Equal(t, 1, report.Cut)
	assert.Equal(t, shared.NewCell(1, 0), a.units[0].Position)
}

func TestApply_UnknownUnitIgnored(t *testing.T) {
	a, err := GenerateArena(testConfig())
	require.NoError(t, err)

	report := a.Apply([]task.Command{{UnitID: "ghost", Path: []shared.Cell{shared.NewCell(1, 0)}}})

	assert.Equal(t, 1, report.Unknown)
	assert.Zero(t, report.Moved)
}

func TestApply_CombatRemovesTheFallen(t *testing.T) {
	// Arrange
	a, err := GenerateArena(testConfig())
	require.NoError(t, err)
	a.units = []world.Unit{newUnit("s1", world.UnitTypeSoldier, shared.NewCell(3, 0))}
	weak := newUnit("e1", world.UnitTypeWorker, shared.NewCell(4, 0))
	weak.Health = 10
	a.enemies = []world.Unit{weak}

	// Act
	report := a.Apply(nil)

	// Assert
	assert.Equal(t, []string{"e1"}, report.Kills)
	assert.Empty(t, report.Casualties)
	assert.Empty(t, a.enemies)
	assert.Equal(t, 180-30, a.units[0].Health)
}
