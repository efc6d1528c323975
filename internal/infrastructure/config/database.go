package config

import "time"

// DatabaseConfig points the decision journal at its database
type DatabaseConfig struct {
	// Type selects the gorm driver: "sqlite" for local runs, "postgres" for shared soak runs
	Type string `mapstructure:"type" validate:"required,oneof=postgres sqlite"`

	// URL is a full postgres DSN and wins over the individual fields.
	// DATABASE_URL is honoured as well.
	URL string `mapstructure:"url" validate:"omitempty,url"`

	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode" validate:"omitempty,oneof=disable require verify-ca verify-full"`

	// Path is the sqlite journal file, or ":memory:" for a throwaway journal
	Path string `mapstructure:"path" validate:"required_if=Type sqlite"`

	// Pool only applies to postgres; sqlite serializes writes
	Pool PoolConfig `mapstructure:"pool"`
}

// PoolConfig sizes the postgres connection pool
type PoolConfig struct {
	MaxOpen     int           `mapstructure:"max_open" validate:"min=1"`
	MaxIdle     int           `mapstructure:"max_idle" validate:"min=1,ltefield=MaxOpen"`
	MaxLifetime time.Duration `mapstructure:"max_lifetime" validate:"gte=0"`
}
