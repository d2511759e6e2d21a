package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath   string
	catalogPath  string
	raceName     string
	outputFormat string
	verbose      bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "uwplan",
		Short: "uwplan - production planner for the Unnatural Worlds catalog",
		Long: `uwplan resolves the production chain of combat units from the game's
prototype catalog: the buildings and recipes to run, and the base resources
nobody in scope can produce.

Configuration is read from config.yaml and UW_* environment variables.

Examples:
  uwplan plan resolve tank --qty 5
  uwplan plan resolve 1234 --race global --output json
  uwplan plan build tank
  uwplan plan execute tank --sandbox --limit 2
  uwplan catalog lookup factory
  uwplan catalog list --where 'Category == "Unit" && len(Recipes) > 0'
  uwplan catalog import prototypes.json
  uwplan analyze
  uwplan serve`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if outputFormat != "text" && outputFormat != "json" {
				return fmt.Errorf("--output must be text or json")
			}
			return nil
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "",
		"Prototypes file, overrides catalog.path")
	rootCmd.PersistentFlags().StringVar(&raceName, "race", "",
		"Race to plan for, or 'global' (default: catalog.race)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text",
		"Output format: text or json")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")

	// Add command groups
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewPlanCommand())
	rootCmd.AddCommand(NewCatalogCommand())
	rootCmd.AddCommand(NewAnalyzeCommand())
	rootCmd.AddCommand(NewServeCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
