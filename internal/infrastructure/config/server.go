package config

import "time"

// ServerConfig holds the HTTP plan service configuration
type ServerConfig struct {
	// Address to listen on, host:port
	Address string `mapstructure:"address" yaml:"address" validate:"required,hostname_port"`

	// ShutdownTimeout bounds graceful shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`

	// PIDFile, when set, keeps a second server from starting
	PIDFile string `mapstructure:"pid_file" yaml:"pid_file"`

	// AllowedOrigins lists cross-origin pages admitted to the plan websocket
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}
