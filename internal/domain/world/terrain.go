package world

// TerrainType classifies a hex tile
type TerrainType int

const (
	TerrainUnknown TerrainType = 0 // never observed
	TerrainHome    TerrainType = 1 // anthill hex
	TerrainPlain   TerrainType = 2
	TerrainDirt    TerrainType = 3 // slow ground
	TerrainAcid    TerrainType = 4 // damaging but passable
	TerrainRock    TerrainType = 5 // impassable
)

// IsPassable reports whether a unit may enter the tile.
// Unknown tiles are optimistically passable.
func (t TerrainType) IsPassable() bool {
	return t != TerrainRock
}

// MoveCost returns the movement points consumed by entering the tile
func (t TerrainType) MoveCost() int {
	if t == TerrainDirt {
		return 2
	}
	return 1
}

func (t TerrainType) String() string {
	switch t {
	case TerrainHome:
		return "HOME"
	case TerrainPlain:
		return "PLAIN"
	case TerrainDirt:
		return "DIRT"
	case TerrainAcid:
		return "ACID"
	case TerrainRock:
		return "ROCK"
	default:
		return "UNKNOWN"
	}
}
