package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/alesfranek-maf/uwapi/internal/adapters/metrics"
	"github.com/alesfranek-maf/uwapi/internal/application/logging"
	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
	"github.com/alesfranek-maf/uwapi/internal/domain/production"
	"github.com/alesfranek-maf/uwapi/internal/domain/world"
)

// DefaultBaseName is the building construction sites are placed around
const DefaultBaseName = "control core"

// ExecuteOptions tunes one plan execution
type ExecuteOptions struct {
	// Near anchors placements at this entity. Zero picks the base automatically.
	Near world.EntityID
	// BaseName is the building looked up when Near is zero
	BaseName string
	// LimitPerBuilding caps finished plus in-progress copies of a step. Zero means no cap.
	LimitPerBuilding int
	Priority         world.Priority
}

// Placement is one construction ordered by the executor
type Placement struct {
	Building     catalog.ID     `json:"building_id"`
	Construction catalog.ID     `json:"construction_id"`
	Recipe       catalog.ID     `json:"recipe_id"`
	Position     world.Position `json:"position"`
}

// RecipeAssignment is one set-recipe command issued by the executor
type RecipeAssignment struct {
	Entity world.EntityID `json:"entity_id"`
	Recipe catalog.ID     `json:"recipe_id"`
}

// ExecutionReport collects what an execution did. Step failures never abort
// the remaining steps; they are listed in Errors.
type ExecutionReport struct {
	ID         string             `json:"id"`
	Target     catalog.ID         `json:"combat_id"`
	Base       world.EntityID     `json:"base_entity_id"`
	Placed     []Placement        `json:"placed"`
	Skipped    []production.Step  `json:"skipped"`
	RecipesSet []RecipeAssignment `json:"recipes_set"`
	Errors     []string           `json:"errors"`

	failures []error
}

// Failures returns the typed errors behind Errors
func (r *ExecutionReport) Failures() []error {
	return r.failures
}

func (r *ExecutionReport) fail(err error) {
	r.failures = append(r.failures, err)
	r.Errors = append(r.Errors, err.Error())
}

// PlanExecutor turns a resolved plan into placement and recipe commands
// against the live world. Commands are throttled by a shared rate limiter.
type PlanExecutor struct {
	graph   *production.Graph
	gateway world.Gateway
	limiter *rate.Limiter
}

// NewPlanExecutor creates an executor. A nil limiter means no throttling.
func NewPlanExecutor(graph *production.Graph, gateway world.Gateway, limiter *rate.Limiter) *PlanExecutor {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &PlanExecutor{
		graph:   graph,
		gateway: gateway,
		limiter: limiter,
	}
}

// Execute places every step of plan for the session's force.
// Only gateway failures while listing entities and context cancellation are
// returned as errors; everything else lands in the report.
func (e *PlanExecutor) Execute(
	ctx context.Context,
	session world.Session,
	plan *production.Plan,
	opts ExecuteOptions,
) (*ExecutionReport, error) {
	logger := logging.LoggerFromContext(ctx)
	report := &ExecutionReport{
		ID:         uuid.New().String(),
		Placed:     []Placement{},
		Skipped:    []production.Step{},
		RecipesSet: []RecipeAssignment{},
		Errors:     []string{},
	}
	if plan == nil {
		report.fail(fmt.Errorf("empty_plan"))
		return report, nil
	}
	report.Target = plan.Target
	if !plan.IsComplete() {
		report.fail(fmt.Errorf("%s", plan.Error))
		return report, nil
	}

	entities, err := e.gateway.OwnEntities(ctx, session.Force)
	if err != nil {
		return nil, fmt.Errorf("failed to list own entities: %w", err)
	}
	base, err := e.findBase(entities, opts, session.Force)
	if err != nil {
		report.fail(err)
		return report, nil
	}
	report.Base = base.ID

	logger.Log(logging.LevelInfo, "Executing production plan", map[string]interface{}{
		"execution_id": report.ID,
		"target":       int64(plan.Target),
		"steps":        len(plan.Steps),
		"base_entity":  uint32(base.ID),
		"force":        uint32(session.Force),
	})

	for _, step := range plan.Steps {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		// The world changes with every command: refresh before each step
		entities, err = e.gateway.OwnEntities(ctx, session.Force)
		if err != nil {
			return report, fmt.Errorf("failed to list own entities: %w", err)
		}
		if err := e.executeStep(ctx, step, base, entities, opts, report); err != nil {
			return report, err
		}
	}

	logger.Log(logging.LevelInfo, "Production plan executed", map[string]interface{}{
		"execution_id": report.ID,
		"placed":       len(report.Placed),
		"skipped":      len(report.Skipped),
		"recipes_set":  len(report.RecipesSet),
		"errors":       len(report.Errors),
	})
	return report, nil
}

// executeStep places the step's construction, then hands the step's recipe to
// an idle own building. The recipe is assigned whatever the placement outcome.
func (e *PlanExecutor) executeStep(
	ctx context.Context,
	step production.Step,
	base world.Entity,
	entities []world.Entity,
	opts ExecuteOptions,
	report *ExecutionReport,
) error {
	construction, ok := e.graph.ConstructionFor(step.Building)
	if !ok {
		report.fail(&world.PlacementFailed{
			Building:     step.Building,
			Construction: catalog.NoID,
			Reason:       world.ReasonNoConstruction,
		})
		metrics.RecordPlacement(metrics.PlacementFailed)
		return nil
	}

	if err := e.placeStep(ctx, step, construction.ID, base, entities, opts, report); err != nil {
		return err
	}

	if step.HasRecipe() {
		return e.setRecipeOnAny(ctx, step.Recipe, entities, report)
	}
	return nil
}

// placeStep orders one construction for step unless the building limit is
// reached. Only context errors are returned; failures land in the report.
func (e *PlanExecutor) placeStep(
	ctx context.Context,
	step production.Step,
	construction catalog.ID,
	base world.Entity,
	entities []world.Entity,
	opts ExecuteOptions,
	report *ExecutionReport,
) error {
	logger := logging.LoggerFromContext(ctx)
	cat := e.graph.Catalog()

	if opts.LimitPerBuilding > 0 {
		finished := len(world.Buildings(cat, entities, step.Building, step.Recipe))
		active := len(world.Constructions(cat, entities, construction, step.Recipe))
		if finished+active >= opts.LimitPerBuilding {
			logger.Log(logging.LevelDebug, "Building limit reached, skipping step", map[string]interface{}{
				"building": int64(step.Building),
				"recipe":   int64(step.Recipe),
				"finished": finished,
				"active":   active,
				"limit":    opts.LimitPerBuilding,
			})
			report.Skipped = append(report.Skipped, step)
			metrics.RecordPlacement(metrics.PlacementSkipped)
			return nil
		}
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return err
	}
	pos, found, err := e.gateway.FindConstructionPlacement(ctx, construction, base.Position, step.Recipe)
	if err != nil || !found || !pos.Valid() {
		failure := &world.PlacementFailed{
			Building:     step.Building,
			Construction: construction,
			Reason:       world.ReasonNoPlacement,
			Err:          err,
		}
		if err != nil {
			failure.Reason = world.ReasonCommandFailed
		}
		report.fail(failure)
		metrics.RecordPlacement(metrics.PlacementFailed)
		return nil
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return err
	}
	if err := e.gateway.PlaceConstruction(ctx, construction, pos, step.Recipe, opts.Priority); err != nil {
		report.fail(&world.PlacementFailed{
			Building:     step.Building,
			Construction: construction,
			Reason:       world.ReasonCommandFailed,
			Err:          err,
		})
		metrics.RecordPlacement(metrics.PlacementFailed)
		return nil
	}
	report.Placed = append(report.Placed, Placement{
		Building:     step.Building,
		Construction: construction,
		Recipe:       step.Recipe,
		Position:     pos,
	})
	metrics.RecordPlacement(metrics.PlacementPlaced)
	return nil
}

// setRecipeOnAny assigns recipe to the first own building able to run it that
// has no recipe yet
func (e *PlanExecutor) setRecipeOnAny(
	ctx context.Context,
	recipe catalog.ID,
	entities []world.Entity,
	report *ExecutionReport,
) error {
	cat := e.graph.Catalog()
	for _, b := range world.Buildings(cat, entities, catalog.NoID, catalog.NoID) {
		if b.HasRecipe() || !cat.Units()[b.Proto].CanRun(recipe) {
			continue
		}
		if err := e.limiter.Wait(ctx); err != nil {
			return err
		}
		if err := e.gateway.SetRecipe(ctx, b.ID, recipe); err != nil {
			report.fail(fmt.Errorf("set_recipe_failed:%d: %w", b.ID, err))
			metrics.RecordRecipeAssignment(false)
			return nil
		}
		report.RecipesSet = append(report.RecipesSet, RecipeAssignment{Entity: b.ID, Recipe: recipe})
		metrics.RecordRecipeAssignment(true)
		return nil
	}
	return nil
}

// findBase picks the entity placements are anchored at: the explicit entity,
// else an own building named opts.BaseName, else any own unit
func (e *PlanExecutor) findBase(entities []world.Entity, opts ExecuteOptions, force world.ForceID) (world.Entity, error) {
	if opts.Near != 0 {
		for _, ent := range entities {
			if ent.ID == opts.Near {
				return ent, nil
			}
		}
		return world.Entity{}, &world.ErrNoBaseEntity{Force: force}
	}

	name := opts.BaseName
	if name == "" {
		name = DefaultBaseName
	}
	if id, ok := e.graph.Catalog().ResolveID(name); ok {
		if found := world.Buildings(e.graph.Catalog(), entities, id, catalog.NoID); len(found) > 0 {
			return found[0], nil
		}
	}
	for _, ent := range entities {
		if ent.IsUnit {
			return ent, nil
		}
	}
	return world.Entity{}, &world.ErrNoBaseEntity{Force: force}
}
