package config

import "time"

// Catalog defaults of the shipped game data
const (
	DefaultRace               = "technocracy"
	DefaultNeutralTransportID = 3039831041
)

// DefaultIgnoredIDs are prototypes the planner never uses: event and
// campaign-only entries that share names with regular units.
var DefaultIgnoredIDs = []int64{
	3145327874,
	3000128952,
	3778878457,
	3356655882,
	3709603756,
	2867524795,
	3360801550,
	3226437573,
}

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Catalog defaults
	if cfg.Catalog.Source == "" {
		cfg.Catalog.Source = "file"
	}
	if cfg.Catalog.Path == "" && cfg.Catalog.Source == "file" {
		cfg.Catalog.Path = "prototypes.json"
	}
	if cfg.Catalog.Format == "" {
		cfg.Catalog.Format = "auto"
	}
	if cfg.Catalog.Race == "" {
		cfg.Catalog.Race = DefaultRace
	}
	if cfg.Catalog.IgnoredIDs == nil {
		cfg.Catalog.IgnoredIDs = append([]int64(nil), DefaultIgnoredIDs...)
	}
	if cfg.Catalog.NeutralTransportID == 0 {
		cfg.Catalog.NeutralTransportID = DefaultNeutralTransportID
	}

	// Planner defaults
	if cfg.Planner.MaxDepth == 0 {
		cfg.Planner.MaxDepth = 512
	}
	if cfg.Planner.BaseName == "" {
		cfg.Planner.BaseName = "control core"
	}
	if cfg.Planner.CommandRate == 0 {
		cfg.Planner.CommandRate = 10
	}
	if cfg.Planner.CommandBurst == 0 {
		cfg.Planner.CommandBurst = 5
	}

	// Report defaults
	if cfg.Reports.OutputDir == "" {
		cfg.Reports.OutputDir = "."
	}
	if cfg.Reports.BuildingsFile == "" {
		cfg.Reports.BuildingsFile = "info_buildings.json"
	}
	if cfg.Reports.CombatFile == "" {
		cfg.Reports.CombatFile = "info_combat.json"
	}
	if cfg.Reports.ResourcesFile == "" {
		cfg.Reports.ResourcesFile = "info_resource.json"
	}

	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Type == "sqlite" && cfg.Database.Path == "" {
		cfg.Database.Path = "uwapi.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "uwapi"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "uwapi"
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
		cfg.Metrics.Port = 9090
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	// Server defaults
	if cfg.Server.Address == "" {
		cfg.Server.Address = "localhost:8080"
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
}
