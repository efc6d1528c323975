package config

import (
	"time"

	"github.com/andrescamacho/antbot-go/internal/domain/tuning"
)

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Engine tuning is defaulted as a block: zero is a legal value for several
	// fields, so only a wholly unset tuning takes the shipped values
	if cfg.Engine == (tuning.Tuning{}) {
		cfg.Engine = tuning.Default()
	}

	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "antbot.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "antbot"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "antbot"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 10
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 2
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}

	// Metrics defaults
	if cfg.Metrics.Host == "" {
		cfg.Metrics.Host = "localhost"
	}
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9464
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.PollInterval == 0 {
		cfg.Metrics.PollInterval = 15 * time.Second
	}

	// Daemon defaults
	if cfg.Daemon.HealthAddress == "" {
		cfg.Daemon.HealthAddress = "localhost:50061"
	}
	if cfg.Daemon.PIDFile == "" {
		cfg.Daemon.PIDFile = "/tmp/antbot-daemon.pid"
	}
	if cfg.Daemon.TurnRate == 0 {
		cfg.Daemon.TurnRate = 5
	}
	if cfg.Daemon.ShutdownTimeout == 0 {
		cfg.Daemon.ShutdownTimeout = 10 * time.Second
	}

	// Journal defaults
	if cfg.Journal.CompressionLevel == "" {
		cfg.Journal.CompressionLevel = "default"
	}

	// Simulation defaults
	if cfg.Simulation.Seed == 0 {
		cfg.Simulation.Seed = 1
	}
	if cfg.Simulation.Radius == 0 {
		cfg.Simulation.Radius = 20
	}
	if cfg.Simulation.Turns == 0 {
		cfg.Simulation.Turns = 300
	}
	if cfg.Simulation.Workers == 0 {
		cfg.Simulation.Workers = 6
	}
	if cfg.Simulation.Soldiers == 0 {
		cfg.Simulation.Soldiers = 2
	}
	if cfg.Simulation.Scouts == 0 {
		cfg.Simulation.Scouts = 1
	}
	if cfg.Simulation.Resources == 0 {
		cfg.Simulation.Resources = 24
	}
	if cfg.Simulation.Enemies == 0 {
		cfg.Simulation.Enemies = 3
	}
}
