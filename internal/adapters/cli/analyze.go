package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	catalogCommands "github.com/alesfranek-maf/uwapi/internal/application/catalog/commands"
)

// NewAnalyzeCommand creates the analyze command writing the dependency reports
func NewAnalyzeCommand() *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Write the building, combat and resource dependency reports",
		Long: `Write one JSON report per product kind: every building with its
construction inputs and recipes, every combat unit and every resource with
the recipes producing them. Existing report files are overwritten.

Examples:
  uwplan analyze
  uwplan analyze --dir reports/`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			rt, err := newRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()

			dir := rt.cfg.Reports.OutputDir
			if outputDir != "" {
				dir = outputDir
			}

			resp, err := rt.mediator.Send(rt.Context(ctx), &catalogCommands.BuildReportsCommand{
				OutputDir:     dir,
				BuildingsFile: rt.cfg.Reports.BuildingsFile,
				CombatFile:    rt.cfg.Reports.CombatFile,
				ResourcesFile: rt.cfg.Reports.ResourcesFile,
			})
			if err != nil {
				return err
			}
			result := resp.(*catalogCommands.BuildReportsResponse)

			if outputFormat == "json" {
				return printJSON(result.Reports)
			}
			for _, r := range result.Reports {
				fmt.Printf("%-10s %4d entries  %s\n", r.Kind, r.Entries, r.Path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outputDir, "dir", "", "Output directory (default: reports.output_dir)")

	return cmd
}
