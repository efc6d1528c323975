package navigation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/antbot-go/internal/domain/navigation"
	"github.com/andrescamacho/antbot-go/internal/domain/shared"
	"github.com/andrescamacho/antbot-go/internal/domain/world"
)

func worker(id string, at shared.Cell) world.Unit {
	return world.Unit{ID: id, Type: world.UnitTypeWorker, Position: at, Health: 130}
}

func TestValidateAndCorrect_FullRouteWithinBudget(t *testing.T) {
	v := navigation.NewPathValidator(nil)
	u := worker("w1", cell(0, 0))
	raw := navigation.Route{cell(1, 0), cell(2, 0), cell(3, 0)}

	got := v.ValidateAndCorrect(u, raw, navigation.NewOccupancy(nil, nil))

	assert.Equal(t, raw, got)
}

func TestValidateAndCorrect_TruncatesAtBudget(t *testing.T) {
	// Worker speed is 5
	v := navigation.NewPathValidator(nil)
	u := worker("w1", cell(0, 0))
	raw := navigation.Route{cell(1, 0), cell(2, 0), cell(3, 0), cell(4, 0), cell(5, 0), cell(6, 0), cell(7, 0)}

	res := v.Validate(u, raw, nil)

	assert.Equal(t, raw[:5], res.Route)
	assert.Equal(t, navigation.RejectBudget, res.Reason)
	assert.Equal(t, 5, res.CutIndex)
}

func TestValidateAndCorrect_TerrainCostConsumesBudget(t *testing.T) {
	dirt := map[shared.Cell]bool{cell(2, 0): true, cell(3, 0): true}
	v := navigation.NewPathValidator(func(c shared.Cell) int {
		if dirt[c] {
			return 2
		}
		return 1
	})
	u := worker("w1", cell(0, 0))

	res := v.Validate(u, navigation.Route{cell(1, 0), cell(2, 0), cell(3, 0), cell(4, 0)}, nil)

	// 1 + 2 + 2 uses the whole budget of 5
	assert.Equal(t, navigation.Route{cell(1, 0), cell(2, 0), cell(3, 0)}, res.Route)
	assert.Equal(t, 5, res.Spent)
	assert.Equal(t, navigation.RejectBudget, res.Reason)
}

func TestValidateAndCorrect_RejectsNonAdjacentStep(t *testing.T) {
	v := navigation.NewPathValidator(nil)
	u := worker("w1", cell(0, 0))

	res := v.Validate(u, navigation.Route{cell(1, 0), cell(3, 0)}, nil)

	assert.Equal(t, navigation.Route{cell(1, 0)}, res.Route)
	assert.Equal(t, navigation.RejectNotAdjacent, res.Reason)
}

func TestValidateAndCorrect_FirstStepMustBeAdjacentToUnit(t *testing.T) {
	v := navigation.NewPathValidator(nil)
	u := worker("w1", cell(0, 0))

	got := v.ValidateAndCorrect(u, navigation.Route{cell(2, 0), cell(3, 0)}, nil)

	assert.Empty(t, got)
}

func TestValidateAndCorrect_OccupancyRules(t *testing.T) {
	route := navigation.Route{cell(1, 0), cell(2, 0), cell(3, 0)}
	v := navigation.NewPathValidator(nil)
	u := worker("w1", cell(0, 0))

	tests := []struct {
		name     string
		friendly []world.Unit
		enemies  []world.Unit
		want     navigation.Route
	}{
		{
			name:    "enemy always blocks",
			enemies: []world.Unit{{ID: "e1", Type: world.UnitTypeScout, Position: cell(2, 0)}},
			want:    route[:1],
		},
		{
			name:     "same-type friendly blocks",
			friendly: []world.Unit{u, worker("w2", cell(1, 0))},
			want:     navigation.Route{},
		},
		{
			name:     "different-type friendly never blocks",
			friendly: []world.Unit{u, {ID: "s1", Type: world.UnitTypeSoldier, Position: cell(2, 0)}},
			want:     route,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			occ := navigation.NewOccupancy(tt.friendly, tt.enemies)
			assert.Equal(t, tt.want, v.ValidateAndCorrect(u, route, occ))
		})
	}
}

func TestOccupancy_MoveFollowsCommittedRoute(t *testing.T) {
	a := worker("w1", cell(0, 0))
	b := worker("w2", cell(0, 1))
	occ := navigation.NewOccupancy([]world.Unit{a, b}, nil)

	occ.Move(a, cell(0, 0), cell(2, 0))

	assert.False(t, occ.Blocks(b, cell(0, 0)), "vacated cell is free")
	assert.True(t, occ.Blocks(b, cell(2, 0)), "same type cannot share the destination")
	assert.False(t, occ.Blocks(a, cell(2, 0)), "a unit never blocks itself")
}
