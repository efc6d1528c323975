package world

import (
	"fmt"
	"strings"

	"github.com/andrescamacho/antbot-go/internal/domain/shared"
	"github.com/andrescamacho/antbot-go/pkg/utils"
)

// UnitType is the closed set of unit kinds
type UnitType int

const (
	UnitTypeWorker  UnitType = 0
	UnitTypeSoldier UnitType = 1
	UnitTypeScout   UnitType = 2
)

// UnitStats holds the per-type constants the game publishes
type UnitStats struct {
	Speed     int
	Capacity  int
	MaxHealth int
	Attack    int
	Vision    int
}

var unitStats = map[UnitType]UnitStats{
	UnitTypeWorker:  {Speed: 5, Capacity: 8, MaxHealth: 130, Attack: 30, Vision: 1},
	UnitTypeSoldier: {Speed: 4, Capacity: 2, MaxHealth: 180, Attack: 70, Vision: 1},
	UnitTypeScout:   {Speed: 7, Capacity: 2, MaxHealth: 80, Attack: 20, Vision: 4},
}

// StatsFor returns the stats for a unit type. Unknown types report ok=false.
func StatsFor(t UnitType) (UnitStats, bool) {
	s, ok := unitStats[t]
	return s, ok
}

// IsValid reports whether the type belongs to the closed set
func (t UnitType) IsValid() bool {
	_, ok := unitStats[t]
	return ok
}

// IsCombatant reports whether the type is built for fighting
func (t UnitType) IsCombatant() bool {
	return t == UnitTypeSoldier
}

func (t UnitType) String() string {
	switch t {
	case UnitTypeWorker:
		return "WORKER"
	case UnitTypeSoldier:
		return "SOLDIER"
	case UnitTypeScout:
		return "SCOUT"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(t))
	}
}

// Cargo is what a unit is carrying. At most one resource type at a time.
type Cargo struct {
	Type   ResourceType `json:"type" yaml:"type"`
	Amount int          `json:"amount" yaml:"amount"`
}

// IsEmpty reports whether nothing is carried
func (c Cargo) IsEmpty() bool {
	return c.Amount <= 0
}

// Unit is a read-only view of a unit in the snapshot. The engine never mutates units.
type Unit struct {
	ID       string      `json:"id" yaml:"id"`
	Type     UnitType    `json:"type" yaml:"type"`
	Position shared.Cell `json:"position" yaml:"position"`
	Health   int         `json:"health" yaml:"health"`
	Cargo    Cargo       `json:"cargo" yaml:"cargo"`
}

// Stats returns the unit's type stats; zero stats for unknown types
func (u Unit) Stats() UnitStats {
	s, _ := StatsFor(u.Type)
	return s
}

// MovementBudget is the number of movement points available this turn
func (u Unit) MovementBudget() int {
	return u.Stats().Speed
}

// CarryCapacity is the maximum cargo amount
func (u Unit) CarryCapacity() int {
	return u.Stats().Capacity
}

// CargoFraction returns carried amount over capacity, in [0,1]
func (u Unit) CargoFraction() float64 {
	capacity := u.CarryCapacity()
	if capacity <= 0 || u.Cargo.IsEmpty() {
		return 0
	}
	return utils.ClampFloat(float64(u.Cargo.Amount)/float64(capacity), 0, 1)
}

// HealthFraction returns current health over the type's max health, in [0,1]
func (u Unit) HealthFraction() float64 {
	maxHealth := u.Stats().MaxHealth
	if maxHealth <= 0 {
		return 0
	}
	return utils.ClampFloat(float64(u.Health)/float64(maxHealth), 0, 1)
}

// FreeCapacity returns how much more the unit can carry
func (u Unit) FreeCapacity() int {
	return utils.Max(u.CarryCapacity()-u.Cargo.Amount, 0)
}

func (u Unit) String() string {
	return fmt.Sprintf("%s[%s@%s]", u.Type, u.ID, u.Position)
}

// ParseUnitType reads a type name as printed by String, case-insensitively
func ParseUnitType(name string) (UnitType, error) {
	for t := range unitStats {
		if strings.EqualFold(t.String(), name) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown unit type: %s", name)
}
