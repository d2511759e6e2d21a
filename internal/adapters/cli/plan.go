package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alesfranek-maf/uwapi/internal/adapters/sandbox"
	"github.com/alesfranek-maf/uwapi/internal/application/planning/commands"
	"github.com/alesfranek-maf/uwapi/internal/application/planning/queries"
	"github.com/alesfranek-maf/uwapi/internal/application/planning/services"
	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
	"github.com/alesfranek-maf/uwapi/internal/domain/world"
)

// NewPlanCommand creates the plan command with subcommands
func NewPlanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Resolve and execute production plans",
		Long: `Resolve the production chain of a combat unit.

Units are given by catalog name or numeric prototype id. Plans are resolved
for the configured race unless --race overrides it ('global' disables race
restrictions).

Examples:
  uwplan plan resolve tank --qty 5
  uwplan plan build tank
  uwplan plan execute tank --sandbox`,
	}

	cmd.AddCommand(newPlanResolveCommand())
	cmd.AddCommand(newPlanBuildCommand())
	cmd.AddCommand(newPlanExecuteCommand())

	return cmd
}

func newPlanResolveCommand() *cobra.Command {
	var quantity int

	cmd := &cobra.Command{
		Use:   "resolve <unit>",
		Short: "Resolve the full production plan of a unit",
		Long: `Resolve every building, recipe and base resource needed to produce
a combat unit, recursing through intermediate resources and building
construction costs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			rt, err := newRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()
			ctx = rt.Context(ctx)

			id, name := unitArg(args[0])
			resp, err := rt.mediator.Send(ctx, &queries.ResolvePlanQuery{
				UnitID:   id,
				UnitName: name,
				Quantity: quantity,
				Scope:    rt.scope,
			})
			if err != nil {
				return err
			}
			plan := resp.(*queries.ResolvePlanResponse).Plan

			if outputFormat == "json" {
				return printJSON(plan)
			}
			fmt.Print(NewPlanFormatter(rt.catalog, true).Format(plan))
			if !plan.IsComplete() {
				return fmt.Errorf("plan incomplete: %s", plan.Error)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&quantity, "qty", 1, "Number of units to produce")

	return cmd
}

func newPlanBuildCommand() *cobra.Command {
	var quantity int

	cmd := &cobra.Command{
		Use:   "build <unit>",
		Short: "Show the single-level build plan of a unit",
		Long: `Show the building producing a unit, its construction cost, the unit's
recipe cost and their total, without recursing into intermediate resources.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			rt, err := newRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()
			ctx = rt.Context(ctx)

			id, name := unitArg(args[0])
			resp, err := rt.mediator.Send(ctx, &queries.GetBuildPlanQuery{
				UnitID:   id,
				UnitName: name,
				Quantity: quantity,
				Scope:    rt.scope,
			})
			if err != nil {
				return err
			}
			bp := resp.(*queries.GetBuildPlanResponse).BuildPlan

			if outputFormat == "json" {
				return printJSON(bp)
			}
			fmt.Print(NewPlanFormatter(rt.catalog, true).FormatBuildPlan(bp))
			return nil
		},
	}

	cmd.Flags().IntVar(&quantity, "qty", 1, "Number of units to produce")

	return cmd
}

func newPlanExecuteCommand() *cobra.Command {
	var (
		quantity   int
		useSandbox bool
		force      uint32
		limit      int
		baseEntity uint32
		complete   bool
	)

	cmd := &cobra.Command{
		Use:   "execute <unit>",
		Short: "Place the constructions of a unit's plan",
		Long: `Resolve a unit's plan and order every missing building near the base,
presetting its recipe. Steps whose building already exists up to the
per-building limit are skipped.

Only the in-memory sandbox world is available from the command line; it
starts with the configured base building owned by --force.

Examples:
  uwplan plan execute tank --sandbox
  uwplan plan execute tank --sandbox --limit 2 --complete`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !useSandbox {
				return fmt.Errorf("no live world connection configured; use --sandbox")
			}

			ctx := context.Background()
			rt, err := newRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()
			ctx = rt.Context(ctx)

			session := world.Session{Force: world.ForceID(force), Race: catalog.NoID}
			if race, ok := rt.scope.Race(); ok {
				session.Race = race
			}

			sb, err := seedSandbox(rt, session.Force)
			if err != nil {
				return err
			}
			if err := rt.buildMediator(sb); err != nil {
				return err
			}

			if !cmd.Flags().Changed("limit") {
				limit = rt.cfg.Planner.LimitPerBuilding
			}

			id, name := unitArg(args[0])
			resp, err := rt.mediator.Send(ctx, &commands.ExecutePlanCommand{
				Session:  session,
				UnitID:   id,
				UnitName: name,
				Quantity: quantity,
				Options: services.ExecuteOptions{
					Near:             world.EntityID(baseEntity),
					BaseName:         rt.cfg.Planner.BaseName,
					LimitPerBuilding: limit,
					Priority:         world.PriorityNormal,
				},
			})
			if err != nil {
				return err
			}
			result := resp.(*commands.ExecutePlanResponse)

			completed := 0
			if complete {
				completed = sb.CompleteConstructions(rt.catalog)
			}

			if outputFormat == "json" {
				return printJSON(map[string]interface{}{
					"plan":      result.Plan,
					"report":    result.Report,
					"commands":  sb.Commands(),
					"completed": completed,
				})
			}

			formatter := NewPlanFormatter(rt.catalog, true)
			fmt.Print(formatter.Format(result.Plan))
			fmt.Print(formatter.FormatReport(result.Report))
			fmt.Printf("  Commands issued: %d\n", len(sb.Commands()))
			if complete {
				fmt.Printf("  Constructions completed: %d\n", completed)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&quantity, "qty", 1, "Number of units to produce")
	cmd.Flags().BoolVar(&useSandbox, "sandbox", false, "Execute against an in-memory sandbox world")
	cmd.Flags().Uint32Var(&force, "force", 1, "Force id acting in the world")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max buildings per type, 0 for unlimited (default: planner.limit_per_building)")
	cmd.Flags().Uint32Var(&baseEntity, "base-entity", 0, "Entity id to place constructions near")
	cmd.Flags().BoolVar(&complete, "complete", false, "Finish every sandbox construction after execution")

	return cmd
}

// seedSandbox creates a sandbox world holding the force's base building
func seedSandbox(rt *runtime, force world.ForceID) (*sandbox.World, error) {
	baseID, ok := rt.catalog.ResolveID(rt.cfg.Planner.BaseName)
	if !ok {
		return nil, fmt.Errorf("base building %q not found in catalog", rt.cfg.Planner.BaseName)
	}
	sb := sandbox.NewWorld(force)
	sb.Spawn(force, baseID, catalog.NoID, true)
	return sb, nil
}
