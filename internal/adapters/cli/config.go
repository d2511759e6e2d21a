package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/alesfranek-maf/uwapi/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration settings",
		Long: `Inspect uwplan configuration settings.

Configuration is loaded from multiple sources with priority:
1. Command line flags (--catalog, --race, --verbose)
2. Environment variables (UW_* prefix, DATABASE_URL)
3. Config file (config.yaml)
4. Default values

Examples:
  uwplan config show
  UW_CATALOG_RACE=kislamite uwplan config show`,
	}

	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Long: `Display the effective configuration as YAML, after defaults,
config file, environment and flags have been applied.

Example:
  uwplan config show`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Failed to load config: %v\n", err)
				fmt.Fprintln(os.Stderr, "Using default configuration.")
				cfg = config.LoadConfigOrDefault("")
			}

			shown := *cfg
			if shown.Database.Password != "" {
				shown.Database.Password = "********"
			}

			if outputFormat == "json" {
				return printJSON(shown)
			}

			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(shown)
		},
	}
}
