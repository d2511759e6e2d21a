package services

import (
	"context"
	"time"

	"github.com/alesfranek-maf/uwapi/internal/adapters/metrics"
	"github.com/alesfranek-maf/uwapi/internal/application/logging"
	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
	"github.com/alesfranek-maf/uwapi/internal/domain/production"
)

// DefaultMaxDepth bounds the recursion of a single resolution. A well-formed
// catalog never gets close: every resource appears at most once per path.
const DefaultMaxDepth = 512

// PlanResolver expands a combat unit into the buildings, recipes and base
// resources needed to produce it.
//
// The algorithm:
// 1. Look up the unit's recipe and the building running it; the building is always required
// 2. Expand every recipe input, scaled by the requested quantity
// 3. A resource with a buildable producer adds (building, recipe) and recurses into its inputs
// 4. A building's construction cost is expanded once, in a fresh cycle scope
// 5. A resource without producer, or one closing a cycle on the current path, becomes base
//
// Each Resolve call owns its state; a resolver can serve concurrent calls.
type PlanResolver struct {
	graph    *production.Graph
	maxDepth int
}

// NewPlanResolver creates a resolver with the default depth ceiling
func NewPlanResolver(graph *production.Graph) *PlanResolver {
	return NewPlanResolverWithMaxDepth(graph, DefaultMaxDepth)
}

// NewPlanResolverWithMaxDepth creates a resolver with a custom depth ceiling
func NewPlanResolverWithMaxDepth(graph *production.Graph, maxDepth int) *PlanResolver {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &PlanResolver{
		graph:    graph,
		maxDepth: maxDepth,
	}
}

// Graph returns the production graph the resolver queries
func (r *PlanResolver) Graph() *production.Graph {
	return r.graph
}

// Resolve builds the full plan for quantity copies of target.
// A unit without building and recipe yields a plan with the
// missing_building_or_recipe marker, not an error.
func (r *PlanResolver) Resolve(
	ctx context.Context,
	target catalog.ID,
	quantity int,
	scope catalog.Scope,
) (*production.Plan, error) {
	start := time.Now()
	plan, err := r.resolve(ctx, target, quantity, scope)

	status := metrics.ResolutionComplete
	steps, base := 0, 0
	switch {
	case err != nil:
		status = metrics.ResolutionFailed
	case !plan.IsComplete():
		status = metrics.ResolutionIncomplete
	default:
		steps, base = len(plan.Steps), len(plan.BaseResources)
	}
	metrics.RecordPlanResolution(scope.String(), status, time.Since(start).Seconds(), steps, base)

	return plan, err
}

func (r *PlanResolver) resolve(
	ctx context.Context,
	target catalog.ID,
	quantity int,
	scope catalog.Scope,
) (*production.Plan, error) {
	if quantity < 1 {
		return nil, &production.ErrInvalidQuantity{Quantity: quantity}
	}
	logger := logging.LoggerFromContext(ctx)

	rootRecipe, hasRecipe := r.graph.RecipeProducing(target, scope)
	var rootBuilding *catalog.Unit
	hasBuilding := false
	if hasRecipe {
		rootBuilding, hasBuilding = r.graph.BuildingForRecipe(rootRecipe.ID, scope)
	}
	if !hasRecipe && !hasBuilding {
		logger.Log(logging.LevelWarn, "No building or recipe produces target unit", map[string]interface{}{
			"target": int64(target),
			"scope":  scope.String(),
		})
		return production.NewIncompletePlan(target, quantity, scope, production.ErrorMissingBuildingOrRecipe), nil
	}

	res := &resolution{
		graph:             r.graph,
		target:            target,
		scope:             scope,
		maxDepth:          r.maxDepth,
		logger:            logger,
		required:          make(map[production.Step]struct{}),
		baseResources:     make(production.Cost),
		expandedBuildings: make(map[catalog.ID]struct{}),
	}

	plan := &production.Plan{
		Target:       target,
		Quantity:     quantity,
		Scope:        scope.String(),
		RootBuilding: catalog.NoID,
		RootRecipe:   catalog.NoID,
	}

	if hasBuilding {
		plan.RootBuilding = rootBuilding.ID
		recipeID := catalog.NoID
		if hasRecipe {
			recipeID = rootRecipe.ID
		}
		if err := res.addBuilding(rootBuilding.ID, recipeID, 0); err != nil {
			return nil, err
		}
	}

	if hasRecipe {
		plan.RootRecipe = rootRecipe.ID
		for _, input := range rootRecipe.Inputs.SortedIDs() {
			qty, err := production.ScaleQuantity(input, rootRecipe.Inputs[input], quantity)
			if err != nil {
				return nil, err
			}
			if err := res.expandResource(input, qty, newPath(), 0); err != nil {
				return nil, err
			}
		}
	}

	plan.Steps = res.steps()
	plan.BaseResources = res.baseResources

	logger.Log(logging.LevelDebug, "Resolved production plan", map[string]interface{}{
		"target":         int64(target),
		"quantity":       quantity,
		"scope":          scope.String(),
		"steps":          len(plan.Steps),
		"base_resources": len(plan.BaseResources),
	})

	return plan, nil
}

// ResolveByName resolves a unit by its catalog name. An unknown name yields a
// plan carrying the unknown_unit_name marker.
func (r *PlanResolver) ResolveByName(
	ctx context.Context,
	name string,
	quantity int,
	scope catalog.Scope,
) (*production.Plan, error) {
	id, ok := r.graph.Catalog().ResolveID(name)
	if !ok {
		logging.LoggerFromContext(ctx).Log(logging.LevelWarn, "Unknown unit name", map[string]interface{}{
			"name": name,
		})
		return production.NewIncompletePlan(catalog.NoID, quantity, scope, production.ErrorUnknownUnitPrefix+name), nil
	}
	return r.Resolve(ctx, id, quantity, scope)
}

// resolution is the state of one Resolve call
type resolution struct {
	graph    *production.Graph
	target   catalog.ID
	scope    catalog.Scope
	maxDepth int
	logger   logging.ContainerLogger

	required          map[production.Step]struct{}
	baseResources     production.Cost
	expandedBuildings map[catalog.ID]struct{}
}

// path is the set of resources being expanded on the current call chain
type path map[catalog.ID]struct{}

func newPath() path {
	return make(path)
}

func (p path) with(id catalog.ID) path {
	out := make(path, len(p)+1)
	for k := range p {
		out[k] = struct{}{}
	}
	out[id] = struct{}{}
	return out
}

// addBuilding records a production step and expands the building's construction
// cost the first time the building is seen
func (s *resolution) addBuilding(building, recipe catalog.ID, depth int) error {
	s.required[production.Step{Building: building, Recipe: recipe}] = struct{}{}
	if _, done := s.expandedBuildings[building]; done {
		return nil
	}
	s.expandedBuildings[building] = struct{}{}

	cost := s.graph.ConstructionCost(building)
	for _, input := range cost.SortedIDs() {
		// Construction inputs are a separate demand chain: fresh cycle scope
		if err := s.expandResource(input, cost[input], newPath(), depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (s *resolution) expandResource(id catalog.ID, qty int, current path, depth int) error {
	if qty <= 0 {
		return nil
	}
	if depth > s.maxDepth {
		return &production.ErrDepthExceeded{Target: s.target, Resource: id, Limit: s.maxDepth}
	}
	if s.graph.Catalog().IsIgnored(id) {
		s.logger.Log(logging.LevelDebug, "Dropping demand for ignored prototype", map[string]interface{}{
			"resource": int64(id),
			"quantity": qty,
		})
		return nil
	}
	if _, cycle := current[id]; cycle {
		s.logger.Log(logging.LevelDebug, "Cycle closed, treating demand as base resource", map[string]interface{}{
			"resource": int64(id),
			"quantity": qty,
		})
		return s.addBase(id, qty)
	}

	recipe, ok := s.graph.RecipeProducing(id, s.scope)
	if !ok {
		return s.addBase(id, qty)
	}
	building, ok := s.graph.BuildingForRecipe(recipe.ID, s.scope)
	if !ok {
		return s.addBase(id, qty)
	}

	if err := s.addBuilding(building.ID, recipe.ID, depth); err != nil {
		return err
	}

	next := current.with(id)
	for _, input := range recipe.Inputs.SortedIDs() {
		scaled, err := production.ScaleQuantity(input, recipe.Inputs[input], qty)
		if err != nil {
			return err
		}
		if err := s.expandResource(input, scaled, next, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (s *resolution) addBase(id catalog.ID, qty int) error {
	total, err := production.AddQuantity(id, s.baseResources[id], qty)
	if err != nil {
		return err
	}
	s.baseResources[id] = total
	return nil
}

func (s *resolution) steps() []production.Step {
	out := make([]production.Step, 0, len(s.required))
	for step := range s.required {
		out = append(out, step)
	}
	production.SortSteps(out)
	return out
}
