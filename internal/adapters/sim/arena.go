// Package sim is a local hex arena that plays the engine against wandering
// enemies. It stands in for the game server in soak runs and integration tests.
package sim

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/andrescamacho/antbot-go/internal/domain/shared"
	"github.com/andrescamacho/antbot-go/internal/domain/world"
	"github.com/andrescamacho/antbot-go/pkg/utils"
)

const (
	minRadius   = 6
	acidDamage  = 10
	homeSize    = 3
	maxResource = 6
)

// ArenaConfig sizes a generated arena
type ArenaConfig struct {
	Seed      int64
	Radius    int
	MaxTurns  int
	Workers   int
	Soldiers  int
	Scouts    int
	Resources int
	Enemies   int
}

// Arena is the full world state; the engine only ever sees Snapshot()
type Arena struct {
	cfg ArenaConfig
	rng *rand.Rand

	terrain   map[shared.Cell]world.TerrainType
	base      shared.Cell
	home      []shared.Cell
	enemyBase shared.Cell
	baseSeen  bool

	units     []world.Unit
	enemies   []world.Unit
	resources []world.Resource

	turn     int
	calories int
	nextID   int
}

// GenerateArena builds a deterministic arena for the seed
func GenerateArena(cfg ArenaConfig) (*Arena, error) {
	if cfg.Radius < minRadius {
		return nil, fmt.Errorf("arena radius %d is below the minimum of %d", cfg.Radius, minRadius)
	}
	if cfg.MaxTurns <= 0 {
		return nil, fmt.Errorf("arena needs a positive turn limit")
	}
	if cfg.Workers+cfg.Soldiers+cfg.Scouts == 0 {
		return nil, fmt.Errorf("arena needs at least one friendly unit")
	}

	base := shared.NewCell(0, 0)
	enemyBase := shared.NewCell(cfg.Radius-2, -(cfg.Radius-2)/2)

	a := &Arena{
		cfg:       cfg,
		rng:       rand.New(rand.NewSource(cfg.Seed)),
		terrain:   generateTerrain(cfg.Seed, cfg.Radius, base, enemyBase),
		base:      base,
		enemyBase: enemyBase,
		turn:      1,
	}

	neighbors := base.Neighbors()
	a.home = []shared.Cell{base}
	for i := 0; i < homeSize-1; i++ {
		a.home = append(a.home, neighbors[i])
	}
	for _, c := range a.home {
		a.terrain[c] = world.TerrainHome
	}

	a.spawnColony(world.UnitTypeWorker, "w", cfg.Workers)
	a.spawnColony(world.UnitTypeSoldier, "s", cfg.Soldiers)
	a.spawnColony(world.UnitTypeScout, "x", cfg.Scouts)

	enemyCells := shared.Spiral(enemyBase, 1)
	for i := 0; i < cfg.Enemies; i++ {
		kind := world.UnitTypeWorker
		if i%2 == 0 {
			kind = world.UnitTypeSoldier
		}
		a.enemies = append(a.enemies, newUnit(fmt.Sprintf("e%d", i+1), kind, enemyCells[i%len(enemyCells)]))
	}

	for i := 0; i < cfg.Resources; i++ {
		a.spawnResource()
	}
	return a, nil
}

func (a *Arena) spawnColony(kind world.UnitType, prefix string, n int) {
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("%s%d", prefix, i+1)
		a.units = append(a.units, newUnit(id, kind, a.home[i%len(a.home)]))
	}
}

func newUnit(id string, kind world.UnitType, at shared.Cell) world.Unit {
	stats, _ := world.StatsFor(kind)
	return world.Unit{ID: id, Type: kind, Position: at, Health: stats.MaxHealth}
}

// spawnResource drops food on a random free passable cell away from both bases
func (a *Arena) spawnResource() {
	occupied := make(map[shared.Cell]bool, len(a.resources))
	for _, r := range a.resources {
		occupied[r.Position] = true
	}

	cells := a.cells()
	for attempt := 0; attempt < 32; attempt++ {
		c := cells[a.rng.Intn(len(cells))]
		if occupied[c] || !a.terrain[c].IsPassable() || a.terrain[c] == world.TerrainHome {
			continue
		}
		if shared.Distance(c, a.base) < 2 || shared.Distance(c, a.enemyBase) < 2 {
			continue
		}

		kind := world.ResourceTypeApple
		switch roll := a.rng.Float64(); {
		case roll < 0.1:
			kind = world.ResourceTypeNectar
		case roll < 0.4:
			kind = world.ResourceTypeBread
		}

		a.nextID++
		a.resources = append(a.resources, world.Resource{
			ID:       fmt.Sprintf("f%d", a.nextID),
			Type:     kind,
			Position: c,
			Amount:   1 + a.rng.Intn(maxResource),
		})
		return
	}
}

// cells lists every arena cell in a stable order
func (a *Arena) cells() []shared.Cell {
	return shared.Spiral(shared.NewCell(0, 0), a.cfg.Radius)
}

// Snapshot is what the colony can see this turn: cells within vision of a
// friendly unit or a home cell. Cells outside the arena read as rock.
func (a *Arena) Snapshot() *world.Snapshot {
	visible := make(map[shared.Cell]bool)
	for _, c := range a.home {
		for _, v := range shared.Spiral(c, 1) {
			visible[v] = true
		}
	}
	for _, u := range a.units {
		for _, v := range shared.Spiral(u.Position, u.Stats().Vision) {
			visible[v] = true
		}
	}

	tiles := make(map[shared.Cell]world.TerrainType, len(visible))
	for c := range visible {
		t, inside := a.terrain[c]
		if !inside {
			t = world.TerrainRock
		}
		tiles[c] = t
	}
	if visible[a.enemyBase] {
		a.baseSeen = true
	}

	snap := &world.Snapshot{
		Turn:      a.turn,
		MaxTurns:  a.cfg.MaxTurns,
		Base:      a.base,
		HomeCells: append([]shared.Cell(nil), a.home...),
		Units:     append([]world.Unit(nil), a.units...),
		Tiles:     tiles,
	}
	for _, e := range a.enemies {
		if visible[e.Position] {
			snap.Enemies = append(snap.Enemies, e)
		}
	}
	for _, r := range a.resources {
		if visible[r.Position] {
			snap.Resources = append(snap.Resources, r)
		}
	}
	if a.baseSeen {
		snap.EnemyBases = []shared.Cell{a.enemyBase}
	}
	return snap
}

// Turn returns the turn the next snapshot describes
func (a *Arena) Turn() int { return a.turn }

// Calories returns the food value delivered home so far
func (a *Arena) Calories() int { return a.calories }

// Finished reports whether the match horizon is reached or the colony is gone
func (a *Arena) Finished() bool {
	return len(a.units) == 0 || (a.cfg.MaxTurns > 0 && a.turn > a.cfg.MaxTurns)
}

// Units returns a copy of the friendly units
func (a *Arena) Units() []world.Unit {
	return append([]world.Unit(nil), a.units...)
}

// Resources returns a copy of the food on the map, ordered by id
func (a *Arena) Resources() []world.Resource {
	out := append([]world.Resource(nil), a.resources...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// TerrainAt returns the true terrain of a cell, rock outside the arena
func (a *Arena) TerrainAt(c shared.Cell) world.TerrainType {
	t, inside := a.terrain[c]
	if !inside {
		return world.TerrainRock
	}
	return t
}

func (a *Arena) isHome(c shared.Cell) bool {
	for _, h := range a.home {
		if h == c {
			return true
		}
	}
	return false
}

func (a *Arena) resourceAt(c shared.Cell) int {
	for i, r := range a.resources {
		if r.Position == c {
			return i
		}
	}
	return -1
}

func (a *Arena) stepCost(c shared.Cell) int {
	return utils.Max(a.TerrainAt(c).MoveCost(), 1)
}
