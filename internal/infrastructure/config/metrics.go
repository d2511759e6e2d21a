package config

// MetricsConfig holds metrics collection and exposure configuration
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Port of the standalone metrics listener used by batch commands
	Port int `mapstructure:"port" yaml:"port" validate:"omitempty,min=1024,max=65535"`

	// Host to bind the metrics listener
	Host string `mapstructure:"host" yaml:"host"`

	// Path for the metrics endpoint
	Path string `mapstructure:"path" yaml:"path" validate:"omitempty,startswith=/"`
}
