package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	daemongrpc "github.com/andrescamacho/antbot-go/internal/adapters/grpc"
	"github.com/andrescamacho/antbot-go/internal/infrastructure/pidfile"
)

// NewHealthCommand creates the health command
func NewHealthCommand() *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check daemon health status",
		Long:  `Verify that the soak daemon is running and its engine is serving.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if address == "" {
				address = cfg.Daemon.HealthAddress
			}

			if cfg.Daemon.PIDFile != "" {
				if pid, running := pidfile.New(cfg.Daemon.PIDFile).Running(); running {
					fmt.Printf("  PID:               %d\n", pid)
				} else {
					fmt.Printf("  PID:               (no live daemon at %s)\n", cfg.Daemon.PIDFile)
				}
			}

			client, err := daemongrpc.NewHealthClient(address)
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if jsonOutput {
				raw, err := client.CheckJSON(ctx)
				if err != nil {
					return err
				}
				fmt.Println(string(raw))
				return nil
			}

			status, err := client.Check(ctx)
			if err != nil {
				return err
			}
			if status != "SERVING" {
				return fmt.Errorf("daemon at %s is %s", address, status)
			}

			fmt.Println("✓ Daemon is healthy")
			fmt.Printf("  Address:           %s\n", address)
			fmt.Printf("  Status:            %s\n", status)
			return nil
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "Daemon health address (default: daemon.health_address)")
	return cmd
}
