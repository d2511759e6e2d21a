package steps

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/cucumber/godog"

	"github.com/alesfranek-maf/uwapi/internal/application/mediator"
	"github.com/alesfranek-maf/uwapi/internal/application/planning/queries"
	"github.com/alesfranek-maf/uwapi/internal/application/planning/services"
	"github.com/alesfranek-maf/uwapi/internal/application/setup"
	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
	"github.com/alesfranek-maf/uwapi/internal/domain/production"
)

type planResolutionContext struct {
	plan       *production.Plan
	buildPlan  *production.BuildPlan
	resolveErr error
}

func (ctx *planResolutionContext) reset() {
	ctx.plan = nil
	ctx.buildPlan = nil
	ctx.resolveErr = nil
}

func (ctx *planResolutionContext) newMediator() (mediator.Mediator, error) {
	cat := globalCatalogContext.current()
	graph := globalCatalogContext.productionGraph()
	return setup.NewHandlerRegistry(cat, graph, services.NewPlanResolver(graph), nil).CreateConfiguredMediator()
}

// When steps

func (ctx *planResolutionContext) iResolveForRace(qty int, unit, race string) error {
	m, err := ctx.newMediator()
	if err != nil {
		return err
	}
	scope, err := services.ScopeFor(globalCatalogContext.current(), race)
	if err != nil {
		return err
	}
	resp, err := m.Send(context.Background(), &queries.ResolvePlanQuery{UnitName: unit, Quantity: qty, Scope: scope})
	if err != nil {
		ctx.resolveErr = err
		return nil
	}
	ctx.plan = resp.(*queries.ResolvePlanResponse).Plan
	return nil
}

func (ctx *planResolutionContext) iRequestTheBuildPlanFor(qty int, unit, race string) error {
	m, err := ctx.newMediator()
	if err != nil {
		return err
	}
	scope, err := services.ScopeFor(globalCatalogContext.current(), race)
	if err != nil {
		return err
	}
	resp, err := m.Send(context.Background(), &queries.GetBuildPlanQuery{UnitName: unit, Quantity: qty, Scope: scope})
	if err != nil {
		ctx.resolveErr = err
		return nil
	}
	ctx.buildPlan = resp.(*queries.GetBuildPlanResponse).BuildPlan
	return nil
}

// Then steps

func (ctx *planResolutionContext) thePlanShouldBeComplete() error {
	if ctx.resolveErr != nil {
		return fmt.Errorf("resolution failed: %w", ctx.resolveErr)
	}
	if !ctx.plan.IsComplete() {
		return fmt.Errorf("expected a complete plan, got marker %q", ctx.plan.Error)
	}
	return nil
}

func (ctx *planResolutionContext) thePlanShouldRequireTheBuildings(table *godog.Table) error {
	if err := ctx.thePlanShouldBeComplete(); err != nil {
		return err
	}
	var want []production.Step
	for _, row := range table.Rows[1:] {
		building, err := globalCatalogContext.id(row.Cells[0].Value)
		if err != nil {
			return err
		}
		recipe := catalog.NoID
		if name := row.Cells[1].Value; name != "-" {
			if recipe, err = globalCatalogContext.id(name); err != nil {
				return err
			}
		}
		want = append(want, production.Step{Building: building, Recipe: recipe})
	}
	if len(want) != len(ctx.plan.Steps) {
		return fmt.Errorf("expected %d steps, got %d: %v", len(want), len(ctx.plan.Steps), ctx.plan.Steps)
	}
	for i := range want {
		if want[i] != ctx.plan.Steps[i] {
			return fmt.Errorf("step %d: expected %v, got %v", i, want[i], ctx.plan.Steps[i])
		}
	}
	return nil
}

func (ctx *planResolutionContext) theBaseResourcesShouldBe(table *godog.Table) error {
	if err := ctx.thePlanShouldBeComplete(); err != nil {
		return err
	}
	want, err := costTable(table)
	if err != nil {
		return err
	}
	return sameCost("base resources", want, ctx.plan.BaseResources)
}

func (ctx *planResolutionContext) thePlanShouldCarryTheMarker(marker string) error {
	if ctx.resolveErr != nil {
		return fmt.Errorf("resolution failed: %w", ctx.resolveErr)
	}
	if ctx.plan.Error != marker {
		return fmt.Errorf("expected marker %q, got %q", marker, ctx.plan.Error)
	}
	if len(ctx.plan.Steps) != 0 || len(ctx.plan.BaseResources) != 0 {
		return fmt.Errorf("an incomplete plan must be empty")
	}
	return nil
}

func (ctx *planResolutionContext) resolutionShouldFailWithAnInvalidQuantity() error {
	var invalid *production.ErrInvalidQuantity
	if !errors.As(ctx.resolveErr, &invalid) {
		return fmt.Errorf("expected an invalid quantity error, got %v", ctx.resolveErr)
	}
	return nil
}

func (ctx *planResolutionContext) theBuildPlanTotalCostShouldBe(table *godog.Table) error {
	if ctx.resolveErr != nil {
		return fmt.Errorf("build plan failed: %w", ctx.resolveErr)
	}
	want, err := costTable(table)
	if err != nil {
		return err
	}
	return sameCost("total cost", want, ctx.buildPlan.TotalCost)
}

func (ctx *planResolutionContext) theBuildPlanShouldBeProducedAt(building string) error {
	id, err := globalCatalogContext.id(building)
	if err != nil {
		return err
	}
	if ctx.buildPlan.Building != id {
		return fmt.Errorf("expected building %d, got %d", id, ctx.buildPlan.Building)
	}
	return nil
}

// costTable reads a | resource | quantity | table keyed by registered names
func costTable(table *godog.Table) (production.Cost, error) {
	out := production.Cost{}
	for _, row := range table.Rows[1:] {
		id, err := globalCatalogContext.id(row.Cells[0].Value)
		if err != nil {
			return nil, err
		}
		qty, err := strconv.Atoi(row.Cells[1].Value)
		if err != nil {
			return nil, fmt.Errorf("invalid quantity %q", row.Cells[1].Value)
		}
		out[id] = qty
	}
	return out, nil
}

func sameCost(what string, want, got production.Cost) error {
	if len(want) != len(got) {
		return fmt.Errorf("expected %s %v, got %v", what, want, got)
	}
	for id, qty := range want {
		if got[id] != qty {
			return fmt.Errorf("expected %s %v, got %v", what, want, got)
		}
	}
	return nil
}

// InitializePlanResolutionScenario registers plan resolution steps
func InitializePlanResolutionScenario(sc *godog.ScenarioContext) {
	resolutionCtx := &planResolutionContext{}

	sc.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		resolutionCtx.reset()
		return ctx, nil
	})

	// When steps
	sc.Step(`^I resolve (-?\d+) "([^"]*)" for race "([^"]*)"$`, resolutionCtx.iResolveForRace)
	sc.Step(`^I request the build plan for (\d+) "([^"]*)" for race "([^"]*)"$`, resolutionCtx.iRequestTheBuildPlanFor)

	// Then steps
	sc.Step(`^the plan should be complete$`, resolutionCtx.thePlanShouldBeComplete)
	sc.Step(`^the plan should require the buildings:$`, resolutionCtx.thePlanShouldRequireTheBuildings)
	sc.Step(`^the base resources should be:$`, resolutionCtx.theBaseResourcesShouldBe)
	sc.Step(`^the plan should carry the marker "([^"]*)"$`, resolutionCtx.thePlanShouldCarryTheMarker)
	sc.Step(`^resolution should fail with an invalid quantity$`, resolutionCtx.resolutionShouldFailWithAnInvalidQuantity)
	sc.Step(`^the build plan should be produced at "([^"]*)"$`, resolutionCtx.theBuildPlanShouldBeProducedAt)
	sc.Step(`^the build plan total cost should be:$`, resolutionCtx.theBuildPlanTotalCostShouldBe)
}
