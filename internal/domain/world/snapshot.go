package world

import (
	"github.com/andrescamacho/antbot-go/internal/domain/shared"
)

// Snapshot is the read-only world state the engine receives each turn
type Snapshot struct {
	Turn     int
	MaxTurns int

	// Base is the main anthill hex; HomeCells lists every anthill hex including Base
	Base      shared.Cell
	HomeCells []shared.Cell

	Units     []Unit
	Enemies   []Unit
	Resources []Resource

	// Tiles holds the terrain of every currently visible cell
	Tiles map[shared.Cell]TerrainType

	// EnemyBases lists anthill hexes of the opponent seen so far
	EnemyBases []shared.Cell
}

// TurnsLeft returns the number of turns remaining, never negative.
// Zero MaxTurns means the horizon is unknown and reports a large value.
func (s *Snapshot) TurnsLeft() int {
	if s.MaxTurns <= 0 {
		return 1 << 30
	}
	left := s.MaxTurns - s.Turn
	if left < 0 {
		return 0
	}
	return left
}

// IsHome reports whether the cell is one of our anthill hexes
func (s *Snapshot) IsHome(c shared.Cell) bool {
	if c == s.Base {
		return true
	}
	for _, h := range s.HomeCells {
		if h == c {
			return true
		}
	}
	return false
}

// Homes returns all anthill hexes, Base first
func (s *Snapshot) Homes() []shared.Cell {
	homes := []shared.Cell{s.Base}
	for _, h := range s.HomeCells {
		if h != s.Base {
			homes = append(homes, h)
		}
	}
	return homes
}

// Visible reports whether the cell is inside current vision
func (s *Snapshot) Visible(c shared.Cell) bool {
	_, ok := s.Tiles[c]
	return ok
}

// TerrainAt returns the terrain at a cell; TerrainUnknown if not visible
func (s *Snapshot) TerrainAt(c shared.Cell) TerrainType {
	if t, ok := s.Tiles[c]; ok {
		return t
	}
	return TerrainUnknown
}

// UnitIDs returns the set of friendly unit ids
func (s *Snapshot) UnitIDs() map[string]bool {
	ids := make(map[string]bool, len(s.Units))
	for _, u := range s.Units {
		ids[u.ID] = true
	}
	return ids
}

// ResourceKeys returns the set of visible resource keys
func (s *Snapshot) ResourceKeys() map[ResourceKey]bool {
	keys := make(map[ResourceKey]bool, len(s.Resources))
	for _, r := range s.Resources {
		keys[r.Key()] = true
	}
	return keys
}

// ResourceByKey looks up a visible resource
func (s *Snapshot) ResourceByKey(key ResourceKey) (Resource, bool) {
	for _, r := range s.Resources {
		if r.Key() == key {
			return r, true
		}
	}
	return Resource{}, false
}

// EnemyByID looks up a visible enemy unit
func (s *Snapshot) EnemyByID(id string) (Unit, bool) {
	for _, e := range s.Enemies {
		if e.ID == id {
			return e, true
		}
	}
	return Unit{}, false
}
