package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/antbot-go/internal/infrastructure/config"
)

var (
	// Global flags
	configPath string
	verbose    bool
	jsonOutput bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "antbot",
		Short: "antbot - per-turn decision engine for a hex-grid ant colony",
		Long: `antbot turns a snapshot of the visible world into one command per unit.

Examples:
  antbot decide snapshots/turn-0042.json
  antbot replay snapshots/ --rate 5
  antbot simulate --seed 42 --turns 300
  antbot journal sessions
  antbot journal show --file journal.jsonl.zst
  antbot config show
  antbot health`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: search ., ./configs, /etc/antbot)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Log at debug level, including per-unit decisions")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Print machine-readable JSON")

	// Add command groups
	rootCmd.AddCommand(NewDecideCommand())
	rootCmd.AddCommand(NewReplayCommand())
	rootCmd.AddCommand(NewSimulateCommand())
	rootCmd.AddCommand(NewJournalCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewHealthCommand())

	return rootCmd
}

// loadConfig reads the configuration and applies global flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Logging.Level = "debug"
		cfg.Logging.LogDecisions = true
	}
	return cfg, nil
}

// printJSON writes v as indented JSON to stdout
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
