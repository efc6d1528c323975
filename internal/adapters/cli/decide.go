package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/antbot-go/internal/adapters/snapshot"
	"github.com/andrescamacho/antbot-go/internal/domain/task"
)

// NewDecideCommand creates the decide command
func NewDecideCommand() *cobra.Command {
	var (
		showTree  bool
		showPaths bool
	)

	cmd := &cobra.Command{
		Use:   "decide <snapshot-file>",
		Short: "Decide one turn from a snapshot file",
		Long: `Read a JSON or YAML snapshot, run one turn and print the commands.

The commands are printed as JSON, the shape the game server accepts.
With --tree the per-unit decisions are shown instead.

Examples:
  antbot decide turn.json
  antbot decide fixtures/opening.yaml --tree --paths`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			snap, err := snapshot.LoadFile(args[0])
			if err != nil {
				return err
			}

			rt, err := NewRuntime(cfg, "decide", "")
			if err != nil {
				return err
			}
			defer rt.Close()

			result, err := rt.ProcessTurn(context.Background(), snap)
			if err != nil {
				return err
			}

			if showTree && !jsonOutput {
				fmt.Print(NewTurnFormatter(true, showPaths).FormatTurn(result))
				return nil
			}
			commands := result.Commands
			if commands == nil {
				commands = []task.Command{}
			}
			return printJSON(commands)
		},
	}

	cmd.Flags().BoolVar(&showTree, "tree", false, "Show per-unit decisions as a tree")
	cmd.Flags().BoolVar(&showPaths, "paths", false, "Include each route's cells in the tree")

	return cmd
}
