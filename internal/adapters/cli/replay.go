package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/andrescamacho/antbot-go/internal/adapters/snapshot"
)

// NewReplayCommand creates the replay command
func NewReplayCommand() *cobra.Command {
	var (
		turnRate float64
		label    string
	)

	cmd := &cobra.Command{
		Use:   "replay <snapshot-file-or-dir>...",
		Short: "Replay a recorded sequence of snapshots",
		Long: `Feed snapshots to one engine in order, keeping reservations and tasks
across turns as in a live game. Directories contribute their .json, .yaml
and .yml files in name order.

Examples:
  antbot replay recorded/
  antbot replay t1.json t2.json t3.json --rate 2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			files, err := collectSnapshotFiles(args)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no snapshot files found")
			}

			rt, err := NewRuntime(cfg, "replay", label)
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := rt.StartSession(ctx, map[string]interface{}{"files": len(files)}); err != nil {
				return fmt.Errorf("failed to start session: %w", err)
			}

			var limiter *rate.Limiter
			if turnRate > 0 {
				limiter = rate.NewLimiter(rate.Limit(turnRate), 1)
			}

			formatter := NewTurnFormatter(false, false)
			for _, path := range files {
				if limiter != nil {
					if err := limiter.Wait(ctx); err != nil {
						return err
					}
				}

				snap, err := snapshot.LoadFile(path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				result, err := rt.ProcessTurn(ctx, snap)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}

				if jsonOutput {
					if err := printJSON(map[string]interface{}{"file": path, "turn": result.Turn, "commands": result.Commands}); err != nil {
						return err
					}
					continue
				}
				fmt.Printf("%s  %s\n", filepath.Base(path), formatter.FormatSummary(result))
			}

			fmt.Fprintf(os.Stderr, "Replayed %d snapshots (session %s)\n", len(files), rt.SessionID)
			return nil
		},
	}

	cmd.Flags().Float64Var(&turnRate, "rate", 0, "Turns per second, 0 for as fast as possible")
	cmd.Flags().StringVar(&label, "label", "", "Label folded into the session id")

	return cmd
}

// collectSnapshotFiles expands directories into their snapshot files
func collectSnapshotFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		var inDir []string
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			switch strings.ToLower(filepath.Ext(e.Name())) {
			case ".json", ".yaml", ".yml":
				inDir = append(inDir, filepath.Join(arg, e.Name()))
			}
		}
		sort.Strings(inDir)
		files = append(files, inDir...)
	}
	return files, nil
}
