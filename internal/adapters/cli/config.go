package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/andrescamacho/antbot-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration settings",
		Long: `Inspect antbot configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (ANTBOT_* prefix, DATABASE_URL)
2. Config file (config.yaml)
3. Default values

Examples:
  antbot config show
  antbot config show --yaml`,
	}

	cmd.AddCommand(newConfigShowCommand())
	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				fmt.Printf("Warning: Failed to load config: %v\n", err)
				fmt.Println("Using default configuration.")
				cfg = config.LoadConfigOrDefault("")
			}
			cfg.Database.URL = maskPassword(cfg.Database.URL)
			if cfg.Database.Password != "" {
				cfg.Database.Password = "****"
			}

			if jsonOutput {
				return printJSON(cfg)
			}
			if asYAML {
				out, err := yaml.Marshal(cfg)
				if err != nil {
					return err
				}
				fmt.Print(string(out))
				return nil
			}

			fmt.Println("antbot Configuration")
			fmt.Println("====================")

			fmt.Println("\nEngine:")
			fmt.Printf("  Turn Deadline:    %s (at risk after %.0f%%)\n", cfg.Engine.TurnDeadline, cfg.Engine.DeadlineRiskFraction*100)
			fmt.Printf("  Return Cargo:     %.0f%% of capacity\n", cfg.Engine.ReturnCargoFraction*100)
			fmt.Printf("  Restricted Cargo: %.0f%% of capacity\n", cfg.Engine.RestrictedCargoFraction*100)
			fmt.Printf("  Stale After:      %d turns (reservations), %d turns (tasks)\n", cfg.Engine.ReservationStaleTurns, cfg.Engine.TaskStaleTurns)
			fmt.Printf("  Search Slack:     %d (degraded %d)\n", cfg.Engine.PathSearchSlack, cfg.Engine.DegradedSearchSlack)

			fmt.Println("\nDatabase:")
			fmt.Printf("  Type:             %s\n", cfg.Database.Type)
			if cfg.Database.URL != "" {
				fmt.Printf("  URL:              %s\n", cfg.Database.URL)
			} else if cfg.Database.Type == "sqlite" {
				fmt.Printf("  Path:             %s\n", cfg.Database.Path)
			} else {
				fmt.Printf("  Host:             %s\n", cfg.Database.Host)
				fmt.Printf("  Port:             %d\n", cfg.Database.Port)
				fmt.Printf("  Database:         %s\n", cfg.Database.Name)
				fmt.Printf("  User:             %s\n", cfg.Database.User)
			}

			fmt.Println("\nJournal:")
			fmt.Printf("  Enabled:          %v\n", cfg.Journal.Enabled)
			fmt.Printf("  Database:         %v\n", cfg.Journal.Database)
			fmt.Printf("  File:             %s (%s)\n", cfg.Journal.FilePath, cfg.Journal.CompressionLevel)

			fmt.Println("\nMetrics:")
			fmt.Printf("  Enabled:          %v\n", cfg.Metrics.Enabled)
			fmt.Printf("  Endpoint:         %s:%d%s\n", cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)

			fmt.Println("\nDaemon:")
			fmt.Printf("  Health Address:   %s\n", cfg.Daemon.HealthAddress)
			fmt.Printf("  PID File:         %s\n", cfg.Daemon.PIDFile)
			fmt.Printf("  Turn Rate:        %.1f/s\n", cfg.Daemon.TurnRate)

			fmt.Println("\nSimulation:")
			fmt.Printf("  Seed:             %d\n", cfg.Simulation.Seed)
			fmt.Printf("  Arena:            radius %d, %d turns\n", cfg.Simulation.Radius, cfg.Simulation.Turns)
			fmt.Printf("  Colony:           %d workers, %d soldiers, %d scouts\n", cfg.Simulation.Workers, cfg.Simulation.Soldiers, cfg.Simulation.Scouts)

			fmt.Println("\nLogging:")
			fmt.Printf("  Level:            %s\n", cfg.Logging.Level)
			fmt.Printf("  Format:           %s\n", cfg.Logging.Format)
			fmt.Printf("  Output:           %s\n", cfg.Logging.Output)

			return nil
		},
	}

	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print the effective configuration as YAML")
	return cmd
}

// maskPassword hides the password of a connection URL
func maskPassword(raw string) string {
	if raw == "" {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, has := u.User.Password(); !has {
		return raw
	}
	u.User = url.UserPassword(u.User.Username(), "****")
	return u.String()
}
