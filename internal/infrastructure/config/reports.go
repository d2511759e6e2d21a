package config

// ReportsConfig names the catalog dependency report files
type ReportsConfig struct {
	OutputDir     string `mapstructure:"output_dir" yaml:"output_dir"`
	BuildingsFile string `mapstructure:"buildings_file" yaml:"buildings_file" validate:"required"`
	CombatFile    string `mapstructure:"combat_file" yaml:"combat_file" validate:"required"`
	ResourcesFile string `mapstructure:"resources_file" yaml:"resources_file" validate:"required"`
}
