package sim

import (
	"github.com/andrescamacho/antbot-go/internal/domain/navigation"
	"github.com/andrescamacho/antbot-go/internal/domain/shared"
	"github.com/andrescamacho/antbot-go/internal/domain/task"
	"github.com/andrescamacho/antbot-go/internal/domain/world"
	"github.com/andrescamacho/antbot-go/pkg/utils"
)

// ApplyReport summarises one simulated turn
type ApplyReport struct {
	Turn       int
	Moved      int
	Cut        int // commands the arena shortened
	Unknown    int // commands for units that do not exist
	PickedUp   int
	Delivered  int
	Calories   int
	Casualties []string
	Kills      []string
}

// Apply executes the colony's commands in order, then resolves pickups,
// deliveries, combat, enemy movement and food respawn, and advances the turn.
func (a *Arena) Apply(commands []task.Command) ApplyReport {
	report := ApplyReport{Turn: a.turn}

	validator := navigation.NewPathValidator(a.stepCost)
	occupancy := navigation.NewOccupancy(a.units, a.enemies)
	moved := make(map[string]bool, len(commands))

	for _, cmd := range commands {
		idx := a.unitIndex(cmd.UnitID)
		if idx < 0 || moved[cmd.UnitID] {
			report.Unknown++
			continue
		}
		unit := a.units[idx]

		route := a.passablePrefix(navigation.Route(cmd.Path))
		route = validator.ValidateAndCorrect(unit, route, occupancy)
		if len(route) < len(cmd.Path) {
			report.Cut++
		}
		if route.IsEmpty() {
			continue
		}

		dest := route.Destination(unit.Position)
		occupancy.Move(unit, unit.Position, dest)
		for _, c := range route {
			if a.TerrainAt(c) == world.TerrainAcid {
				unit.Health -= acidDamage
			}
		}
		unit.Position = dest
		a.units[idx] = unit
		moved[unit.ID] = true
		report.Moved++
	}

	a.resolvePickups(&report)
	a.resolveDeliveries(&report)
	a.resolveCombat(&report)
	a.wanderEnemies()
	if len(a.resources) < a.cfg.Resources {
		a.spawnResource()
	}

	a.turn++
	return report
}

func (a *Arena) unitIndex(id string) int {
	for i, u := range a.units {
		if u.ID == id {
			return i
		}
	}
	return -1
}

// passablePrefix cuts a route at the first rock or off-arena cell
func (a *Arena) passablePrefix(route navigation.Route) navigation.Route {
	for i, c := range route {
		if !a.TerrainAt(c).IsPassable() {
			return route[:i]
		}
	}
	return route
}

// resolvePickups loads food under each unit. Picking up a different type
// than the one carried replaces the cargo.
func (a *Arena) resolvePickups(report *ApplyReport) {
	for i, u := range a.units {
		ri := a.resourceAt(u.Position)
		if ri < 0 {
			continue
		}
		r := a.resources[ri]
		if !u.Cargo.IsEmpty() && u.Cargo.Type != r.Type {
			u.Cargo = world.Cargo{}
		}

		take := utils.Min(r.Amount, u.CarryCapacity()-u.Cargo.Amount)
		if take <= 0 {
			continue
		}
		u.Cargo = world.Cargo{Type: r.Type, Amount: u.Cargo.Amount + take}
		a.units[i] = u
		report.PickedUp += take

		r.Amount -= take
		if r.Amount <= 0 {
			a.resources = append(a.resources[:ri], a.resources[ri+1:]...)
		} else {
			a.resources[ri] = r
		}
	}
}

func (a *Arena) resolveDeliveries(report *ApplyReport) {
	for i, u := range a.units {
		if u.Cargo.IsEmpty() || !a.isHome(u.Position) {
			continue
		}
		value, _ := world.CaloricValue(u.Cargo.Type)
		report.Delivered += u.Cargo.Amount
		report.Calories += value * u.Cargo.Amount
		a.calories += value * u.Cargo.Amount
		u.Cargo = world.Cargo{}
		a.units[i] = u
	}
}

// resolveCombat: every unit strikes each adjacent or co-located foe, all at once
func (a *Arena) resolveCombat(report *ApplyReport) {
	friendlyDamage := make([]int, len(a.units))
	enemyDamage := make([]int, len(a.enemies))

	for i, u := range a.units {
		for j, e := range a.enemies {
			if shared.Distance(u.Position, e.Position) > 1 {
				continue
			}
			enemyDamage[j] += u.Stats().Attack
			friendlyDamage[i] += e.Stats().Attack
		}
	}

	survivors := a.units[:0]
	for i, u := range a.units {
		u.Health -= friendlyDamage[i]
		if u.Health <= 0 {
			report.Casualties = append(report.Casualties, u.ID)
			continue
		}
		survivors = append(survivors, u)
	}
	a.units = survivors

	remaining := a.enemies[:0]
	for j, e := range a.enemies {
		e.Health -= enemyDamage[j]
		if e.Health <= 0 {
			report.Kills = append(report.Kills, e.ID)
			continue
		}
		remaining = append(remaining, e)
	}
	a.enemies = remaining
}

// wanderEnemies moves each enemy one step, drifting toward the colony's base
func (a *Arena) wanderEnemies() {
	for i, e := range a.enemies {
		neighbors := e.Position.Neighbors()
		var options []shared.Cell
		for _, n := range neighbors {
			if a.TerrainAt(n).IsPassable() && !a.isHome(n) {
				options = append(options, n)
			}
		}
		if len(options) == 0 {
			continue
		}

		next := options[a.rng.Intn(len(options))]
		if a.rng.Float64() < 0.3 {
			if closer, _, ok := shared.FindNearestCell(a.base, options); ok {
				next = closer
			}
		}
		e.Position = next
		a.enemies[i] = e
	}
}
