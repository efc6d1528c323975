package snapshot_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/antbot-go/internal/adapters/snapshot"
	"github.com/andrescamacho/antbot-go/internal/domain/shared"
	"github.com/andrescamacho/antbot-go/internal/domain/world"
)

const validJSON = `{
  "turn": 12,
  "max_turns": 100,
  "base": {"q": 0, "r": 0},
  "home": [{"q": 0, "r": 0}],
  "units": [
    {"id": "w1", "type": 0, "position": {"q": 1, "r": 0}, "health": 100, "cargo": {"type": 1, "amount": 3}}
  ],
  "enemies": [
    {"id": "e1", "type": 1, "position": {"q": 4, "r": 0}, "health": 180}
  ],
  "resources": [
    {"id": "r1", "type": 3, "position": {"q": 2, "r": 0}, "amount": 2}
  ],
  "tiles": [
    {"q": 0, "r": 0, "type": 1},
    {"q": 1, "r": 0, "type": 2},
    {"q": 2, "r": 0, "type": 3}
  ],
  "enemy_bases": [{"q": 9, "r": -3}]
}`

func TestDecodeJSON_ValidSnapshot(t *testing.T) {
	// Act
	snap, err := snapshot.DecodeJSON([]byte(validJSON))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 12, snap.Turn)
	assert.Equal(t, 100, snap.MaxTurns)
	assert.Equal(t, shared.NewCell(0, 0), snap.Base)
	require.Len(t, snap.Units, 1)
	assert.Equal(t, world.Cargo{Type: world.ResourceTypeApple, Amount: 3}, snap.Units[0].Cargo)
	require.Len(t, snap.Resources, 1)
	assert.Equal(t, world.ResourceTypeNectar, snap.Resources[0].Type)
	assert.Equal(t, world.TerrainDirt, snap.TerrainAt(shared.NewCell(2, 0)))
	assert.Equal(t, []shared.Cell{shared.NewCell(9, -3)}, snap.EnemyBases)
}

func TestDecodeJSON_RejectsStructuralErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{"turn":`},
		{"missing base", `{"turn": 1, "units": []}`},
		{"string turn", `{"turn": "one", "base": {"q": 0, "r": 0}, "units": []}`},
		{"unit without position", `{"turn": 1, "base": {"q": 0, "r": 0}, "units": [{"id": "w1", "type": 0}]}`},
		{"unknown field", `{"turn": 1, "base": {"q": 0, "r": 0}, "units": [], "weather": "rain"}`},
		{"tile terrain out of range", `{"turn": 1, "base": {"q": 0, "r": 0}, "units": [], "tiles": [{"q": 0, "r": 0, "type": 9}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := snapshot.DecodeJSON([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestDecodeJSON_SemanticErrorsLeftToSanitize(t *testing.T) {
	// Arrange: unit type 7 and a zero-amount resource are structurally fine
	doc := `{"turn": 1, "base": {"q": 0, "r": 0},
	  "units": [{"id": "w1", "type": 7, "position": {"q": 0, "r": 0}}],
	  "resources": [{"id": "r1", "type": 1, "position": {"q": 1, "r": 0}, "amount": 0}]}`

	// Act
	snap, err := snapshot.DecodeJSON([]byte(doc))
	require.NoError(t, err)
	_, report := snap.Sanitize()

	// Assert
	assert.Equal(t, 2, report.Count())
}

func TestEncodeJSON_RoundTrip(t *testing.T) {
	// Arrange
	original, err := snapshot.DecodeJSON([]byte(validJSON))
	require.NoError(t, err)

	// Act
	data, err := snapshot.EncodeJSON(original)
	require.NoError(t, err)
	decoded, err := snapshot.DecodeJSON(data)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestLoadFile_YAMLFixtureWithFill(t *testing.T) {
	// Act
	snap, err := snapshot.LoadFile(filepath.Join("testdata", "opening.yaml"))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Turn)
	assert.Len(t, snap.Tiles, 61, "radius 4 hexagon")
	assert.Equal(t, world.TerrainHome, snap.TerrainAt(shared.NewCell(1, 0)))
	assert.Equal(t, world.TerrainRock, snap.TerrainAt(shared.NewCell(2, -1)))
	assert.Equal(t, world.TerrainPlain, snap.TerrainAt(shared.NewCell(3, 0)))

	require.Len(t, snap.Units, 2)
	assert.Equal(t, 130, snap.Units[0].Health, "omitted health means full health")
	assert.Equal(t, 90, snap.Units[1].Health)
}

func TestLoadFile_UnsupportedExtension(t *testing.T) {
	_, err := snapshot.LoadFile(filepath.Join("testdata", "opening.txt"))
	assert.Error(t, err)
}
