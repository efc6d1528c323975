package config

import "time"

// DaemonConfig holds the soak daemon configuration
type DaemonConfig struct {
	// gRPC health endpoint (host:port)
	HealthAddress string `mapstructure:"health_address" validate:"required,hostname_port"`

	// PID file location
	PIDFile string `mapstructure:"pid_file"`

	// Turns per second; the game server's own cadence when replaying live
	TurnRate float64 `mapstructure:"turn_rate" validate:"gt=0"`

	// Number of simulated matches to play, 0 for unbounded
	Matches int `mapstructure:"matches" validate:"min=0"`

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required"`
}
