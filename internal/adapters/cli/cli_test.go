package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/antbot-go/internal/adapters/journal"
	"github.com/andrescamacho/antbot-go/internal/application/scheduler"
	"github.com/andrescamacho/antbot-go/internal/domain/shared"
	"github.com/andrescamacho/antbot-go/internal/domain/task"
	"github.com/andrescamacho/antbot-go/internal/domain/world"
	"github.com/andrescamacho/antbot-go/internal/infrastructure/config"
)

func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	cfg := &config.Config{}
	config.SetDefaults(cfg)
	cfg.Database.Type = "sqlite"
	cfg.Database.Path = filepath.Join(dir, "journal.db")
	cfg.Logging.Output = "file"
	cfg.Logging.FilePath = filepath.Join(dir, "antbot.log")
	cfg.Journal.Enabled = true
	cfg.Journal.Database = true
	cfg.Journal.FilePath = filepath.Join(dir, "journal.jsonl.zst")
	return cfg
}

func openingSnapshot() *world.Snapshot {
	base := shared.NewCell(0, 0)
	tiles := make(map[shared.Cell]world.TerrainType)
	for _, c := range shared.Spiral(base, 6) {
		tiles[c] = world.TerrainPlain
	}
	tiles[base] = world.TerrainHome

	return &world.Snapshot{
		Turn:      3,
		MaxTurns:  300,
		Base:      base,
		HomeCells: []shared.Cell{base},
		Units: []world.Unit{
			{ID: "w1", Type: world.UnitTypeWorker, Position: base, Health: 130},
		},
		Resources: []world.Resource{
			{ID: "r1", Type: world.ResourceTypeBread, Position: shared.NewCell(3, 0), Amount: 4},
		},
		Tiles: tiles,
	}
}

func TestRuntime_ProcessTurnJournalsToBothSinks(t *testing.T) {
	// Arrange
	cfg := testConfig(t)
	rt, err := NewRuntime(cfg, "decide", "test")
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, rt.StartSession(ctx, map[string]interface{}{"source": "test"}))

	// Act
	result, err := rt.ProcessTurn(ctx, openingSnapshot())
	require.NoError(t, err)

	// Assert: the worker heads for the bread
	cmd, ok := result.CommandFor("w1")
	require.True(t, ok)
	assert.Equal(t, task.KindCollect, cmd.Tag)

	stored, err := rt.Repository.FindTurn(ctx, rt.SessionID, 3)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Len(t, stored.Commands, 1)

	require.NoError(t, rt.Close())
	entries, err := journal.ReadEntries(cfg.Journal.FilePath, rt.SessionID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 3, entries[0].Turn)
}

func TestRuntime_ResetClearsReservations(t *testing.T) {
	// Arrange
	cfg := testConfig(t)
	cfg.Journal.Enabled = false
	rt, err := NewRuntime(cfg, "decide", "")
	require.NoError(t, err)
	defer rt.Close()

	_, err = rt.ProcessTurn(context.Background(), openingSnapshot())
	require.NoError(t, err)
	require.NotEmpty(t, rt.Engine.Reservations())

	// Act
	require.NoError(t, rt.Reset(context.Background()))

	// Assert
	assert.Empty(t, rt.Engine.Reservations())
}

func TestTurnFormatter_FormatTurn(t *testing.T) {
	// Arrange
	route := []shared.Cell{shared.NewCell(1, 0), shared.NewCell(2, 0)}
	result := &scheduler.TurnResult{
		Turn:  4,
		Phase: scheduler.PhaseEarly,
		Decisions: []scheduler.Decision{
			{UnitID: "w1", Task: task.NewExplore(shared.NewCell(2, 0), 4), Route: route, Rule: scheduler.RuleAssign, Outcome: scheduler.OutcomeMoved},
			{UnitID: "w2", Rule: scheduler.RuleNone, Outcome: scheduler.OutcomeSkipped},
		},
		Skipped:  []string{"w2"},
		Degraded: true,
	}

	// Act
	out := NewTurnFormatter(false, true).FormatTurn(result)

	// Assert
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "Turn 4 [early]")
	assert.Contains(t, lines[0], "(degraded)")
	assert.Equal(t, "├── [✓] w1 explore (assign) 2 steps → (2,0)", lines[1])
	assert.Contains(t, lines[2], "path (1,0) (2,0)")
	assert.Equal(t, "└── [!] w2 skipped", lines[3])
}

func TestMaskPassword(t *testing.T) {
	assert.Equal(t, "postgresql://ant:****@db:5432/antbot", maskPassword("postgresql://ant:secret@db:5432/antbot"))
	assert.Equal(t, "postgresql://db:5432/antbot", maskPassword("postgresql://db:5432/antbot"))
	assert.Equal(t, "", maskPassword(""))
}

func TestCollectSnapshotFiles_SortsDirectoryEntries(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	for _, name := range []string{"t2.json", "t1.yaml", "notes.txt", "t3.yml"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644))
	}
	extra := filepath.Join(t.TempDir(), "t0.json")
	require.NoError(t, os.WriteFile(extra, []byte("{}"), 0o644))

	// Act
	files, err := collectSnapshotFiles([]string{extra, dir})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{
		extra,
		filepath.Join(dir, "t1.yaml"),
		filepath.Join(dir, "t2.json"),
		filepath.Join(dir, "t3.yml"),
	}, files)
}
