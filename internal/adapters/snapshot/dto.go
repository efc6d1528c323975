// Package snapshot decodes turn snapshots from JSON and YAML into the engine's
// world model.
package snapshot

import (
	"sort"

	"github.com/andrescamacho/antbot-go/internal/domain/shared"
	"github.com/andrescamacho/antbot-go/internal/domain/world"
)

// SnapshotDTO is the wire form of a world.Snapshot
type SnapshotDTO struct {
	Turn       int              `json:"turn" yaml:"turn"`
	MaxTurns   int              `json:"max_turns,omitempty" yaml:"max_turns,omitempty"`
	Base       shared.Cell      `json:"base" yaml:"base"`
	Home       []shared.Cell    `json:"home,omitempty" yaml:"home,omitempty"`
	Units      []world.Unit     `json:"units" yaml:"units"`
	Enemies    []world.Unit     `json:"enemies,omitempty" yaml:"enemies,omitempty"`
	Resources  []world.Resource `json:"resources,omitempty" yaml:"resources,omitempty"`
	Tiles      []TileDTO        `json:"tiles,omitempty" yaml:"tiles,omitempty"`
	Fill       *FillDTO         `json:"fill,omitempty" yaml:"fill,omitempty"`
	EnemyBases []shared.Cell    `json:"enemy_bases,omitempty" yaml:"enemy_bases,omitempty"`
}

// TileDTO is one visible cell
type TileDTO struct {
	Q    int               `json:"q" yaml:"q"`
	R    int               `json:"r" yaml:"r"`
	Type world.TerrainType `json:"type" yaml:"type"`
}

// FillDTO marks every cell within Radius of the base as visible with one
// terrain. Explicit tiles override it. Meant for hand-written fixtures.
type FillDTO struct {
	Radius  int               `json:"radius" yaml:"radius"`
	Terrain world.TerrainType `json:"terrain" yaml:"terrain"`
}

// ToDomain builds the engine's snapshot
func (d *SnapshotDTO) ToDomain() *world.Snapshot {
	tiles := make(map[shared.Cell]world.TerrainType, len(d.Tiles))
	if d.Fill != nil {
		for _, c := range shared.Spiral(d.Base, d.Fill.Radius) {
			tiles[c] = d.Fill.Terrain
		}
	}
	for _, t := range d.Tiles {
		tiles[shared.NewCell(t.Q, t.R)] = t.Type
	}

	return &world.Snapshot{
		Turn:       d.Turn,
		MaxTurns:   d.MaxTurns,
		Base:       d.Base,
		HomeCells:  append([]shared.Cell(nil), d.Home...),
		Units:      withHealth(d.Units),
		Enemies:    withHealth(d.Enemies),
		Resources:  append([]world.Resource(nil), d.Resources...),
		Tiles:      tiles,
		EnemyBases: append([]shared.Cell(nil), d.EnemyBases...),
	}
}

// FromDomain converts a snapshot to its wire form. Tiles are listed in
// (q, r) order so the encoding is stable.
func FromDomain(s *world.Snapshot) *SnapshotDTO {
	tiles := make([]TileDTO, 0, len(s.Tiles))
	for c, t := range s.Tiles {
		tiles = append(tiles, TileDTO{Q: c.Q, R: c.R, Type: t})
	}
	sort.Slice(tiles, func(i, j int) bool {
		if tiles[i].Q != tiles[j].Q {
			return tiles[i].Q < tiles[j].Q
		}
		return tiles[i].R < tiles[j].R
	})

	units := s.Units
	if units == nil {
		units = []world.Unit{}
	}

	return &SnapshotDTO{
		Turn:       s.Turn,
		MaxTurns:   s.MaxTurns,
		Base:       s.Base,
		Home:       s.HomeCells,
		Units:      units,
		Enemies:    s.Enemies,
		Resources:  s.Resources,
		Tiles:      tiles,
		EnemyBases: s.EnemyBases,
	}
}

// withHealth copies units, taking an omitted (zero) health as full health
func withHealth(units []world.Unit) []world.Unit {
	if units == nil {
		return nil
	}
	out := make([]world.Unit, len(units))
	for i, u := range units {
		if u.Health == 0 {
			if stats, ok := world.StatsFor(u.Type); ok {
				u.Health = stats.MaxHealth
			}
		}
		out[i] = u
	}
	return out
}
