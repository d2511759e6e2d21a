package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
	"github.com/alesfranek-maf/uwapi/internal/infrastructure/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSetDefaults(t *testing.T) {
	// Arrange
	cfg := &config.Config{}

	// Act
	config.SetDefaults(cfg)

	// Assert
	assert.Equal(t, "file", cfg.Catalog.Source)
	assert.Equal(t, "prototypes.json", cfg.Catalog.Path)
	assert.Equal(t, config.DefaultRace, cfg.Catalog.Race)
	assert.Equal(t, config.DefaultIgnoredIDs, cfg.Catalog.IgnoredIDs)
	assert.Equal(t, 512, cfg.Planner.MaxDepth)
	assert.Equal(t, "control core", cfg.Planner.BaseName)
	assert.Equal(t, "info_resource.json", cfg.Reports.ResourcesFile)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, 5*time.Minute, cfg.Database.Pool.MaxLifetime)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.NoError(t, config.ValidateConfig(cfg))
}

func TestSetDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &config.Config{}
	cfg.Catalog.IgnoredIDs = []int64{}
	cfg.Planner.MaxDepth = 64
	cfg.Database.Type = "postgres"

	config.SetDefaults(cfg)

	assert.Empty(t, cfg.Catalog.IgnoredIDs, "an explicit empty ignore list stays empty")
	assert.Equal(t, 64, cfg.Planner.MaxDepth)
	assert.Empty(t, cfg.Database.Path)
}

func TestLoadConfig_FromFile(t *testing.T) {
	// Arrange
	path := writeConfig(t, `
catalog:
  path: data/prototypes.yaml
  race: kislamite
  ignored_ids: [5, 6]
  neutral_transport_id: -1
planner:
  limit_per_building: 2
reports:
  output_dir: out
`)

	// Act
	cfg, err := config.LoadConfig(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "data/prototypes.yaml", cfg.Catalog.Path)
	assert.Equal(t, "kislamite", cfg.Catalog.Race)
	assert.Equal(t, catalog.Options{IgnoredIDs: []catalog.ID{5, 6}}, cfg.Catalog.Options())
	assert.Equal(t, catalog.NoID, cfg.Catalog.NeutralTransport())
	assert.Equal(t, 2, cfg.Planner.LimitPerBuilding)
	assert.Equal(t, "out", cfg.Reports.OutputDir)
	assert.Equal(t, "info_buildings.json", cfg.Reports.BuildingsFile)
}

func TestLoadConfig_EnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, "planner:\n  max_depth: 32\n")
	t.Setenv("UW_PLANNER_MAX_DEPTH", "64")
	t.Setenv("UW_LOGGING_LEVEL", "debug")

	cfg, err := config.LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Planner.MaxDepth)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfig_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"unknown catalog source", "catalog:\n  source: ftp\n", "Catalog.Source"},
		{"unknown log level", "logging:\n  level: verbose\n", "Logging.Level"},
		{"file output without path", "logging:\n  output: file\n", "Logging.FilePath"},
		{"negative limit", "planner:\n  limit_per_building: -1\n", "Planner.LimitPerBuilding"},
		{"negative ignored id", "catalog:\n  ignored_ids: [-4]\n", "Catalog.IgnoredIDs"},
		{"idle pool above open pool", "database:\n  pool:\n    max_open: 2\n    max_idle: 5\n", "Database.Pool.MaxIdle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.LoadConfig(writeConfig(t, tt.content))

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestLoadConfigOrDefault_FallsBackOnError(t *testing.T) {
	cfg := config.LoadConfigOrDefault(writeConfig(t, "catalog:\n  source: ftp\n"))

	assert.Equal(t, "file", cfg.Catalog.Source)
}

func TestMustLoadConfig_PanicsOnError(t *testing.T) {
	path := writeConfig(t, "logging:\n  format: xml\n")

	assert.Panics(t, func() { config.MustLoadConfig(path) })
}
