package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/cucumber/godog"

	"github.com/alesfranek-maf/uwapi/internal/adapters/sandbox"
	"github.com/alesfranek-maf/uwapi/internal/application/planning/commands"
	"github.com/alesfranek-maf/uwapi/internal/application/planning/services"
	"github.com/alesfranek-maf/uwapi/internal/application/setup"
	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
	"github.com/alesfranek-maf/uwapi/internal/domain/world"
)

type planExecutionContext struct {
	force   world.ForceID
	race    string
	world   *sandbox.World
	reports []*services.ExecutionReport
	execErr error
}

func (ctx *planExecutionContext) reset() {
	ctx.force = 0
	ctx.race = ""
	ctx.world = nil
	ctx.reports = nil
	ctx.execErr = nil
}

func (ctx *planExecutionContext) lastReport() (*services.ExecutionReport, error) {
	if ctx.execErr != nil {
		return nil, fmt.Errorf("execution failed: %w", ctx.execErr)
	}
	if len(ctx.reports) == 0 {
		return nil, fmt.Errorf("no plan has been executed")
	}
	return ctx.reports[len(ctx.reports)-1], nil
}

// Given steps

func (ctx *planExecutionContext) aSandboxWorldForForcePlaying(force int, race string) error {
	ctx.force = world.ForceID(force)
	ctx.race = race
	ctx.world = sandbox.NewWorld(ctx.force)
	return nil
}

func (ctx *planExecutionContext) theForceOwnsA(name string) error {
	id, err := globalCatalogContext.id(name)
	if err != nil {
		return err
	}
	ctx.world.Spawn(ctx.force, id, catalog.NoID, true)
	return nil
}

func (ctx *planExecutionContext) theForceOwnsARunning(name, recipe string) error {
	id, err := globalCatalogContext.id(name)
	if err != nil {
		return err
	}
	recipeID, err := globalCatalogContext.id(recipe)
	if err != nil {
		return err
	}
	ctx.world.Spawn(ctx.force, id, recipeID, true)
	return nil
}

func (ctx *planExecutionContext) constructionIsUnplaceable(name string) error {
	id, err := globalCatalogContext.id(name)
	if err != nil {
		return err
	}
	ctx.world.MarkUnplaceable(id)
	return nil
}

// When steps

func (ctx *planExecutionContext) iExecuteThePlanWithALimitOf(qty int, unit string, limit int) error {
	cat := globalCatalogContext.current()
	graph := globalCatalogContext.productionGraph()
	scope, err := services.ScopeFor(cat, ctx.race)
	if err != nil {
		return err
	}
	race, ok := scope.Race()
	if !ok {
		race = catalog.NoID
	}

	resolver := services.NewPlanResolver(graph)
	executor := services.NewPlanExecutor(graph, ctx.world, nil)
	m, err := setup.NewHandlerRegistry(cat, graph, resolver, executor).CreateConfiguredMediator()
	if err != nil {
		return err
	}

	resp, err := m.Send(context.Background(), &commands.ExecutePlanCommand{
		Session:  world.Session{Force: ctx.force, Race: race},
		UnitName: unit,
		Quantity: qty,
		Options: services.ExecuteOptions{
			LimitPerBuilding: limit,
			Priority:         world.PriorityNormal,
		},
	})
	if err != nil {
		ctx.execErr = err
		return nil
	}
	ctx.reports = append(ctx.reports, resp.(*commands.ExecutePlanResponse).Report)
	return nil
}

func (ctx *planExecutionContext) theConstructionsComplete() error {
	ctx.world.CompleteConstructions(globalCatalogContext.current())
	return nil
}

// Then steps

func (ctx *planExecutionContext) constructionsShouldHaveBeenPlaced(n int) error {
	report, err := ctx.lastReport()
	if err != nil {
		return err
	}
	if len(report.Placed) != n {
		return fmt.Errorf("expected %d placements, got %d (errors: %v)", n, len(report.Placed), report.Errors)
	}
	return nil
}

func (ctx *planExecutionContext) stepsShouldHaveBeenSkipped(n int) error {
	report, err := ctx.lastReport()
	if err != nil {
		return err
	}
	if len(report.Skipped) != n {
		return fmt.Errorf("expected %d skipped steps, got %d", n, len(report.Skipped))
	}
	return nil
}

func (ctx *planExecutionContext) theExecutionShouldReport(message string) error {
	report, err := ctx.lastReport()
	if err != nil {
		return err
	}
	for _, e := range report.Errors {
		if strings.HasPrefix(e, message) {
			return nil
		}
	}
	return fmt.Errorf("expected error %q in report, got %v", message, report.Errors)
}

func (ctx *planExecutionContext) theExecutionShouldReportNoErrors() error {
	report, err := ctx.lastReport()
	if err != nil {
		return err
	}
	if len(report.Errors) != 0 {
		return fmt.Errorf("expected no errors, got %v", report.Errors)
	}
	return nil
}

func (ctx *planExecutionContext) theForceShouldOwnRunning(n int, building, recipe string) error {
	cat := globalCatalogContext.current()
	buildingID, err := globalCatalogContext.id(building)
	if err != nil {
		return err
	}
	recipeID, err := globalCatalogContext.id(recipe)
	if err != nil {
		return err
	}
	entities, err := ctx.world.OwnEntities(context.Background(), ctx.force)
	if err != nil {
		return err
	}
	if got := len(world.Buildings(cat, entities, buildingID, recipeID)); got != n {
		return fmt.Errorf("expected %d %s running %s, got %d", n, building, recipe, got)
	}
	return nil
}

func (ctx *planExecutionContext) noWorldCommandsShouldHaveBeenIssued() error {
	if cmds := ctx.world.Commands(); len(cmds) != 0 {
		return fmt.Errorf("expected no commands, got %d", len(cmds))
	}
	return nil
}

// InitializePlanExecutionScenario registers plan execution steps
func InitializePlanExecutionScenario(sc *godog.ScenarioContext) {
	executionCtx := &planExecutionContext{}

	sc.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		executionCtx.reset()
		return ctx, nil
	})

	// Given steps
	sc.Step(`^a sandbox world for force (\d+) playing "([^"]*)"$`, executionCtx.aSandboxWorldForForcePlaying)
	sc.Step(`^the force owns a "([^"]*)"$`, executionCtx.theForceOwnsA)
	sc.Step(`^the force owns a "([^"]*)" running "([^"]*)"$`, executionCtx.theForceOwnsARunning)
	sc.Step(`^"([^"]*)" cannot be placed anywhere$`, executionCtx.constructionIsUnplaceable)

	// When steps
	sc.Step(`^I execute the plan for (\d+) "([^"]*)" with a limit of (\d+) per building$`, executionCtx.iExecuteThePlanWithALimitOf)
	sc.Step(`^the constructions complete$`, executionCtx.theConstructionsComplete)

	// Then steps
	sc.Step(`^(\d+) constructions? should have been placed$`, executionCtx.constructionsShouldHaveBeenPlaced)
	sc.Step(`^(\d+) steps? should have been skipped$`, executionCtx.stepsShouldHaveBeenSkipped)
	sc.Step(`^the execution should report "([^"]*)"$`, executionCtx.theExecutionShouldReport)
	sc.Step(`^the execution should report no errors$`, executionCtx.theExecutionShouldReportNoErrors)
	sc.Step(`^the force should own (\d+) "([^"]*)" running "([^"]*)"$`, executionCtx.theForceShouldOwnRunning)
	sc.Step(`^no world commands should have been issued$`, executionCtx.noWorldCommandsShouldHaveBeenIssued)
}
