package navigation

import (
	"github.com/andrescamacho/antbot-go/internal/domain/shared"
	"github.com/andrescamacho/antbot-go/internal/domain/world"
)

// Occupant is a unit standing on a cell
type Occupant struct {
	UnitID string
	Type   world.UnitType
	Enemy  bool
}

// Occupancy tracks which units stand on which cells during a turn.
// Friendly entries move as the turn commits routes, so a later unit sees where
// earlier units will end up rather than where they started.
type Occupancy struct {
	cells map[shared.Cell][]Occupant
}

// NewOccupancy builds occupancy from the snapshot's friendly and enemy units
func NewOccupancy(friendly, enemies []world.Unit) *Occupancy {
	o := &Occupancy{cells: make(map[shared.Cell][]Occupant, len(friendly)+len(enemies))}
	for _, u := range friendly {
		o.add(u.Position, Occupant{UnitID: u.ID, Type: u.Type})
	}
	for _, e := range enemies {
		o.add(e.Position, Occupant{UnitID: e.ID, Type: e.Type, Enemy: true})
	}
	return o
}

func (o *Occupancy) add(c shared.Cell, occ Occupant) {
	o.cells[c] = append(o.cells[c], occ)
}

// At returns the occupants of a cell
func (o *Occupancy) At(c shared.Cell) []Occupant {
	return o.cells[c]
}

// HasEnemy reports whether an enemy unit stands on the cell
func (o *Occupancy) HasEnemy(c shared.Cell) bool {
	for _, occ := range o.cells[c] {
		if occ.Enemy {
			return true
		}
	}
	return false
}

// Blocks reports whether the unit may not enter the cell: any enemy blocks, a
// friendly of the same type blocks, friendlies of a different type never do.
func (o *Occupancy) Blocks(unit world.Unit, c shared.Cell) bool {
	for _, occ := range o.cells[c] {
		if occ.Enemy {
			return true
		}
		if occ.UnitID != unit.ID && occ.Type == unit.Type {
			return true
		}
	}
	return false
}

// Move relocates a friendly unit's entry once its route is committed
func (o *Occupancy) Move(unit world.Unit, from, to shared.Cell) {
	if from == to {
		return
	}

	occupants := o.cells[from]
	kept := occupants[:0]
	found := false
	for _, occ := range occupants {
		if !found && !occ.Enemy && occ.UnitID == unit.ID {
			found = true
			continue
		}
		kept = append(kept, occ)
	}
	if len(kept) == 0 {
		delete(o.cells, from)
	} else {
		o.cells[from] = kept
	}

	o.add(to, Occupant{UnitID: unit.ID, Type: unit.Type})
}
