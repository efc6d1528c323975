package world_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/antbot-go/internal/domain/shared"
	"github.com/andrescamacho/antbot-go/internal/domain/world"
)

func TestUnit_DerivedStats(t *testing.T) {
	worker := world.Unit{ID: "w1", Type: world.UnitTypeWorker, Health: 65,
		Cargo: world.Cargo{Type: world.ResourceTypeApple, Amount: 4}}

	assert.Equal(t, 5, worker.MovementBudget())
	assert.Equal(t, 8, worker.CarryCapacity())
	assert.InDelta(t, 0.5, worker.CargoFraction(), 1e-9)
	assert.InDelta(t, 0.5, worker.HealthFraction(), 1e-9)
	assert.Equal(t, 4, worker.FreeCapacity())
}

func TestUnit_UnknownTypeFailsClosed(t *testing.T) {
	u := world.Unit{ID: "x", Type: world.UnitType(9), Health: 10}

	assert.False(t, u.Type.IsValid())
	assert.Equal(t, 0, u.MovementBudget())
	assert.Equal(t, 0.0, u.CargoFraction())
	assert.Equal(t, 0.0, u.HealthFraction())
}

func TestResource_Values(t *testing.T) {
	assert.Equal(t, world.ResourceTypeNectar, world.HighestValueResource())

	r := world.Resource{ID: "r", Type: world.ResourceTypeBread, Amount: 3, Position: shared.NewCell(1, 2)}
	assert.Equal(t, 60, r.Value())
	assert.Equal(t, world.ResourceKey{Position: shared.NewCell(1, 2), Type: world.ResourceTypeBread}, r.Key())

	_, ok := world.CaloricValue(world.ResourceType(42))
	assert.False(t, ok)
}

func TestSnapshot_TurnsLeft(t *testing.T) {
	s := &world.Snapshot{Turn: 400, MaxTurns: 420}
	assert.Equal(t, 20, s.TurnsLeft())

	s.Turn = 500
	assert.Equal(t, 0, s.TurnsLeft())

	s.MaxTurns = 0
	assert.Greater(t, s.TurnsLeft(), 100000)
}

func TestSnapshot_Sanitize(t *testing.T) {
	// Arrange
	s := &world.Snapshot{
		Units: []world.Unit{
			{ID: "ok", Type: world.UnitTypeWorker},
			{ID: "", Type: world.UnitTypeWorker},
			{ID: "bad-type", Type: world.UnitType(7)},
			{ID: "ok", Type: world.UnitTypeScout},
			{ID: "weird-cargo", Type: world.UnitTypeWorker, Cargo: world.Cargo{Type: world.ResourceType(8), Amount: 3}},
		},
		Resources: []world.Resource{
			{ID: "r1", Type: world.ResourceTypeApple, Amount: 2},
			{ID: "r2", Type: world.ResourceType(0), Amount: 2},
			{ID: "r3", Type: world.ResourceTypeApple, Amount: 0, Position: shared.NewCell(1, 1)},
		},
	}

	// Act
	clean, report := s.Sanitize()

	// Assert
	require.Len(t, clean.Units, 2)
	assert.Equal(t, "ok", clean.Units[0].ID)
	assert.True(t, clean.Units[1].Cargo.IsEmpty())
	assert.Len(t, clean.Resources, 1)
	assert.Equal(t, 5, report.Count())
	assert.NotNil(t, clean.Tiles)
	assert.Len(t, s.Units, 5, "original snapshot must not be modified")
}

func TestSnapshot_Homes(t *testing.T) {
	base := shared.NewCell(0, 0)
	s := &world.Snapshot{Base: base, HomeCells: []shared.Cell{base, shared.NewCell(1, 0)}}

	assert.Equal(t, []shared.Cell{base, shared.NewCell(1, 0)}, s.Homes())
	assert.True(t, s.IsHome(shared.NewCell(1, 0)))
	assert.False(t, s.IsHome(shared.NewCell(2, 0)))
}

func TestParseTypes(t *testing.T) {
	unitType, err := world.ParseUnitType("scout")
	require.NoError(t, err)
	assert.Equal(t, world.UnitTypeScout, unitType)

	food, err := world.ParseResourceType("Nectar")
	require.NoError(t, err)
	assert.Equal(t, world.ResourceTypeNectar, food)

	_, err = world.ParseUnitType("queen")
	assert.Error(t, err)
	_, err = world.ParseResourceType("NONE")
	assert.Error(t, err)
}
