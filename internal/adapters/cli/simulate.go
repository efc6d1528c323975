package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/andrescamacho/antbot-go/internal/adapters/sim"
	"github.com/andrescamacho/antbot-go/internal/application/scheduler"
	"github.com/andrescamacho/antbot-go/internal/infrastructure/config"
)

// ArenaConfigFrom maps the simulation section onto an arena configuration
func ArenaConfigFrom(sc config.SimulationConfig) sim.ArenaConfig {
	return sim.ArenaConfig{
		Seed:      sc.Seed,
		Radius:    sc.Radius,
		MaxTurns:  sc.Turns,
		Workers:   sc.Workers,
		Soldiers:  sc.Soldiers,
		Scouts:    sc.Scouts,
		Resources: sc.Resources,
		Enemies:   sc.Enemies,
	}
}

// NewSimulateCommand creates the simulate command
func NewSimulateCommand() *cobra.Command {
	var (
		seed     int64
		turns    int
		radius   int
		turnRate float64
		showTree bool
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play a match in the local arena",
		Long: `Generate an arena from a seed and let the engine play it turn by turn
against wandering enemies. Sizes default to the simulation section of the config.

Examples:
  antbot simulate --seed 42
  antbot simulate --turns 100 --radius 12 --tree`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				cfg.Simulation.Seed = seed
			}
			if cmd.Flags().Changed("turns") {
				cfg.Simulation.Turns = turns
			}
			if cmd.Flags().Changed("radius") {
				cfg.Simulation.Radius = radius
			}

			arena, err := sim.GenerateArena(ArenaConfigFrom(cfg.Simulation))
			if err != nil {
				return err
			}

			rt, err := NewRuntime(cfg, "simulate", fmt.Sprintf("seed%d", cfg.Simulation.Seed))
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx = rt.Context(ctx)

			if err := rt.StartSession(ctx, map[string]interface{}{
				"seed":   cfg.Simulation.Seed,
				"radius": cfg.Simulation.Radius,
				"turns":  cfg.Simulation.Turns,
			}); err != nil {
				return fmt.Errorf("failed to start session: %w", err)
			}

			opts := []sim.MatchOption{}
			if turnRate > 0 {
				opts = append(opts, sim.WithLimiter(rate.NewLimiter(rate.Limit(turnRate), 1)))
			}
			if showTree {
				formatter := NewTurnFormatter(true, false)
				opts = append(opts, sim.WithTurnHook(func(result *scheduler.TurnResult, _ sim.ApplyReport) {
					fmt.Print(formatter.FormatTurn(result))
				}))
			}

			total, err := sim.PlayMatch(ctx, rt.Engine, arena, opts...)
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(map[string]interface{}{"session_id": rt.SessionID, "result": total})
			}
			fmt.Printf("Session:     %s\n", rt.SessionID)
			fmt.Printf("Turns:       %d\n", total.Turns)
			fmt.Printf("Calories:    %d\n", total.Calories)
			fmt.Printf("Commands:    %d\n", total.Commands)
			fmt.Printf("Skipped:     %d (degraded turns: %d)\n", total.Skipped, total.Degraded)
			fmt.Printf("Casualties:  %d\n", total.Casualties)
			fmt.Printf("Kills:       %d\n", total.Kills)
			return nil
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 0, "Arena seed")
	cmd.Flags().IntVar(&turns, "turns", 0, "Match length in turns")
	cmd.Flags().IntVar(&radius, "radius", 0, "Arena radius")
	cmd.Flags().Float64Var(&turnRate, "rate", 0, "Turns per second, 0 for as fast as possible")
	cmd.Flags().BoolVar(&showTree, "tree", false, "Print every turn's decisions")

	return cmd
}
