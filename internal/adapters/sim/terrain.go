package sim

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/andrescamacho/antbot-go/internal/domain/shared"
	"github.com/andrescamacho/antbot-go/internal/domain/world"
)

// Terrain thresholds on normalized noise
const (
	rockLevel  = 0.70
	dirtLevel  = 0.66
	acidLevel  = 0.22
	clearRange = 2
)

// generateTerrain fills every cell within radius of the origin from two
// noise layers: elevation raises rock, moisture lays dirt and acid pools.
// Cells near either base are kept plain so both colonies can leave home.
func generateTerrain(seed int64, radius int, bases ...shared.Cell) map[shared.Cell]world.TerrainType {
	elevNoise := opensimplex.NewNormalized(seed)
	moistNoise := opensimplex.NewNormalized(seed + 1)

	origin := shared.NewCell(0, 0)
	cells := shared.Spiral(origin, radius)
	terrain := make(map[shared.Cell]world.TerrainType, len(cells))

	for _, c := range cells {
		// Axial to cartesian: x = q + r/2, y = r·√3/2
		x := float64(c.Q) + float64(c.R)*0.5
		y := float64(c.R) * math.Sqrt(3.0) / 2.0

		elev := octaveNoise(elevNoise, x, y, 3, 0.12, 0.5)
		moist := octaveNoise(moistNoise, x, y, 2, 0.09, 0.5)

		t := world.TerrainPlain
		switch {
		case elev > rockLevel:
			t = world.TerrainRock
		case moist > dirtLevel:
			t = world.TerrainDirt
		case moist < acidLevel:
			t = world.TerrainAcid
		}
		terrain[c] = t
	}

	for _, b := range bases {
		for _, c := range shared.Spiral(b, clearRange) {
			if _, inside := terrain[c]; inside {
				terrain[c] = world.TerrainPlain
			}
		}
	}
	return terrain
}

func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
