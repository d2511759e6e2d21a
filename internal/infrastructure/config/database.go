package config

import "time"

// DatabaseConfig holds the prototype store connection configuration
type DatabaseConfig struct {
	// Connection type: "postgres" or "sqlite"
	Type string `mapstructure:"type" yaml:"type" validate:"required,oneof=postgres sqlite"`

	// Full connection URL, takes precedence over the individual postgres fields
	URL string `mapstructure:"url" yaml:"url"`

	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port" validate:"omitempty,min=1,max=65535"`
	User     string `mapstructure:"user" yaml:"user"`
	Password string `mapstructure:"password" yaml:"password"`
	Name     string `mapstructure:"name" yaml:"name"`
	SSLMode  string `mapstructure:"sslmode" yaml:"sslmode" validate:"omitempty,oneof=disable require verify-ca verify-full"`

	// SQLite file path or ":memory:"
	Path string `mapstructure:"path" yaml:"path"`

	Pool PoolConfig `mapstructure:"pool" yaml:"pool"`
}

// PoolConfig holds connection pool configuration
type PoolConfig struct {
	MaxOpen     int           `mapstructure:"max_open" yaml:"max_open" validate:"min=1"`
	MaxIdle     int           `mapstructure:"max_idle" yaml:"max_idle" validate:"min=1,ltefield=MaxOpen"`
	MaxLifetime time.Duration `mapstructure:"max_lifetime" yaml:"max_lifetime"`
}
