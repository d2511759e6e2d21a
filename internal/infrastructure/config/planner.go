package config

// PlannerConfig tunes plan resolution and execution
type PlannerConfig struct {
	// MaxDepth is the hard recursion ceiling of one resolution
	MaxDepth int `mapstructure:"max_depth" yaml:"max_depth" validate:"min=1"`

	// LimitPerBuilding caps finished plus in-progress copies per plan step. Zero disables the cap.
	LimitPerBuilding int `mapstructure:"limit_per_building" yaml:"limit_per_building" validate:"min=0"`

	// BaseName is the building placements are anchored at
	BaseName string `mapstructure:"base_name" yaml:"base_name" validate:"required"`

	// CommandRate is the number of world commands per second
	CommandRate float64 `mapstructure:"command_rate" yaml:"command_rate" validate:"gt=0"`

	// CommandBurst is the limiter burst size
	CommandBurst int `mapstructure:"command_burst" yaml:"command_burst" validate:"min=1"`
}
