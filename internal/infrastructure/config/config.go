package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/andrescamacho/antbot-go/internal/domain/tuning"
)

// Config is the main configuration struct combining all sub-configs
type Config struct {
	Engine     tuning.Tuning    `mapstructure:"engine"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Daemon     DaemonConfig     `mapstructure:"daemon"`
	Journal    JournalConfig    `mapstructure:"journal"`
	Simulation SimulationConfig `mapstructure:"simulation"`
}

// LoadConfig loads configuration from multiple sources with priority:
// 1. Environment variables (highest priority)
// 2. Config file (config.yaml)
// 3. Defaults (lowest priority)
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (doesn't error if missing)
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/antbot")
	}

	v.SetEnvPrefix("ANTBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK - we'll use env vars and defaults
	}

	// DATABASE_URL without prefix, as most hosting platforms set it
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		v.Set("database.url", dbURL)
	}

	// Unmarshal only overwrites keys present in the file or environment, so
	// seeding the tuning keeps an explicit 0 apart from an omitted key
	cfg := Config{Engine: tuning.Default()}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	SetDefaults(&cfg)

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// bindEnvKeys registers the keys that are commonly set from the environment.
// AutomaticEnv alone only sees keys viper already knows about, so without a
// config file these would never be read.
func bindEnvKeys(v *viper.Viper) {
	for _, key := range []string{
		"database.type", "database.url", "database.path",
		"logging.level", "logging.format", "logging.output", "logging.file_path",
		"metrics.enabled", "metrics.host", "metrics.port",
		"daemon.health_address", "daemon.turn_rate",
		"journal.enabled", "journal.file_path",
		"simulation.seed", "simulation.radius", "simulation.turns",
		"engine.turn_deadline",
	} {
		_ = v.BindEnv(key)
	}
}

// LoadConfigOrDefault loads configuration or returns a default config on error
func LoadConfigOrDefault(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		defaultCfg := &Config{}
		SetDefaults(defaultCfg)
		return defaultCfg
	}
	return cfg
}

// MustLoadConfig loads configuration and panics on error (for use in main.go)
func MustLoadConfig(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}
