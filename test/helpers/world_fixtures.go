package helpers

import (
	"github.com/andrescamacho/antbot-go/internal/domain/shared"
	"github.com/andrescamacho/antbot-go/internal/domain/world"
)

// SnapshotBuilder assembles world snapshots for scenarios
type SnapshotBuilder struct {
	snap *world.Snapshot
}

// NewPlainSnapshot starts a snapshot whose vision covers every cell within
// radius of the base, all plain ground except the base itself
func NewPlainSnapshot(base shared.Cell, radius int) *SnapshotBuilder {
	tiles := make(map[shared.Cell]world.TerrainType)
	for _, c := range shared.Spiral(base, radius) {
		tiles[c] = world.TerrainPlain
	}
	tiles[base] = world.TerrainHome

	return &SnapshotBuilder{snap: &world.Snapshot{
		Base:      base,
		HomeCells: []shared.Cell{base},
		Tiles:     tiles,
	}}
}

// AtTurn sets the turn counter and the match length
func (b *SnapshotBuilder) AtTurn(turn, maxTurns int) *SnapshotBuilder {
	b.snap.Turn = turn
	b.snap.MaxTurns = maxTurns
	return b
}

// WithTerrain overrides one tile
func (b *SnapshotBuilder) WithTerrain(c shared.Cell, terrain world.TerrainType) *SnapshotBuilder {
	b.snap.Tiles[c] = terrain
	return b
}

// WithUnit adds a friendly unit at full health
func (b *SnapshotBuilder) WithUnit(id string, kind world.UnitType, at shared.Cell, cargo world.Cargo) *SnapshotBuilder {
	stats, _ := world.StatsFor(kind)
	b.snap.Units = append(b.snap.Units, world.Unit{
		ID:       id,
		Type:     kind,
		Position: at,
		Health:   stats.MaxHealth,
		Cargo:    cargo,
	})
	return b
}

// WithEnemy adds an enemy unit at full health
func (b *SnapshotBuilder) WithEnemy(id string, kind world.UnitType, at shared.Cell) *SnapshotBuilder {
	stats, _ := world.StatsFor(kind)
	b.snap.Enemies = append(b.snap.Enemies, world.Unit{ID: id, Type: kind, Position: at, Health: stats.MaxHealth})
	return b
}

// WithResource adds a food pile
func (b *SnapshotBuilder) WithResource(id string, kind world.ResourceType, at shared.Cell, amount int) *SnapshotBuilder {
	b.snap.Resources = append(b.snap.Resources, world.Resource{ID: id, Type: kind, Position: at, Amount: amount})
	return b
}

// Build returns the snapshot; the builder must not be reused afterwards
func (b *SnapshotBuilder) Build() *world.Snapshot {
	return b.snap
}
