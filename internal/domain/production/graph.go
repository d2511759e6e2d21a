package production

import (
	"sync"

	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
)

// GraphOptions configures production-graph queries
type GraphOptions struct {
	// NeutralTransportID is a unit produced by recipes that is never reported
	// as a combat unit or resource (the race-neutral transport). NoID disables it.
	NeutralTransportID catalog.ID
}

// Graph answers "who produces what" over an immutable catalog. Scoped views
// are computed on first use and cached; all methods are safe for concurrent use.
type Graph struct {
	cat  *catalog.Catalog
	opts GraphOptions

	// constructionOf maps a building to the lowest-id non-ignored construction producing it
	constructionOf map[catalog.ID]catalog.ID

	mu    sync.Mutex
	views map[catalog.Scope]*scopeView
}

// scopeView is the precomputed, read-only index for one scope
type scopeView struct {
	buildings map[catalog.ID]*catalog.Unit
	combat    map[catalog.ID]*catalog.Unit
	resources map[catalog.ID]*catalog.Resource

	// producer maps an output id to the lowest candidate recipe producing it
	producer map[catalog.ID]catalog.ID
	// runner maps a recipe to the lowest candidate building listing it
	runner map[catalog.ID]catalog.ID
}

// NewGraph indexes constructions and prepares the scope cache
func NewGraph(cat *catalog.Catalog, opts GraphOptions) *Graph {
	g := &Graph{
		cat:            cat,
		opts:           opts,
		constructionOf: make(map[catalog.ID]catalog.ID),
		views:          make(map[catalog.Scope]*scopeView),
	}
	constructions := cat.Constructions()
	for _, id := range catalog.SortedKeys(constructions) {
		if cat.IsIgnored(id) {
			continue
		}
		c := constructions[id]
		if _, ok := g.constructionOf[c.Output]; !ok {
			g.constructionOf[c.Output] = id
		}
	}
	return g
}

// Catalog returns the underlying catalog
func (g *Graph) Catalog() *catalog.Catalog {
	return g.cat
}

// BuildingsFor returns the buildings constructible in scope
func (g *Graph) BuildingsFor(scope catalog.Scope) map[catalog.ID]*catalog.Unit {
	return copyMap(g.view(scope).buildings)
}

// CombatUnitsFor returns units produced by the scope's recipes
func (g *Graph) CombatUnitsFor(scope catalog.Scope) map[catalog.ID]*catalog.Unit {
	return copyMap(g.view(scope).combat)
}

// ResourcesFor returns resources produced by the scope's recipes
func (g *Graph) ResourcesFor(scope catalog.Scope) map[catalog.ID]*catalog.Resource {
	return copyMap(g.view(scope).resources)
}

// RecipeProducing returns the lowest-id candidate recipe whose outputs contain target.
// Other recipes producing the same id are never returned.
func (g *Graph) RecipeProducing(target catalog.ID, scope catalog.Scope) (*catalog.Recipe, bool) {
	if g.cat.IsIgnored(target) {
		return nil, false
	}
	id, ok := g.view(scope).producer[target]
	if !ok {
		return nil, false
	}
	return g.cat.Recipes()[id], true
}

// BuildingForRecipe returns the lowest-id candidate building able to run recipe
func (g *Graph) BuildingForRecipe(recipe catalog.ID, scope catalog.Scope) (*catalog.Unit, bool) {
	if g.cat.IsIgnored(recipe) {
		return nil, false
	}
	id, ok := g.view(scope).runner[recipe]
	if !ok {
		return nil, false
	}
	return g.cat.Units()[id], true
}

// BuildingForCombat returns the building running the recipe that produces unit
func (g *Graph) BuildingForCombat(unit catalog.ID, scope catalog.Scope) (*catalog.Unit, bool) {
	recipe, ok := g.RecipeProducing(unit, scope)
	if !ok {
		return nil, false
	}
	return g.BuildingForRecipe(recipe.ID, scope)
}

// ResourceProducers returns the building producing a resource, keyed by id.
// The map is empty when the resource has no producer in scope.
func (g *Graph) ResourceProducers(resource catalog.ID, scope catalog.Scope) map[catalog.ID]*catalog.Unit {
	out := make(map[catalog.ID]*catalog.Unit, 1)
	recipe, ok := g.RecipeProducing(resource, scope)
	if !ok {
		return out
	}
	if b, ok := g.BuildingForRecipe(recipe.ID, scope); ok {
		out[b.ID] = b
	}
	return out
}

// ConstructionFor returns the lowest-id construction building the given unit
func (g *Graph) ConstructionFor(building catalog.ID) (*catalog.Construction, bool) {
	if g.cat.IsIgnored(building) {
		return nil, false
	}
	id, ok := g.constructionOf[building]
	if !ok {
		return nil, false
	}
	return g.cat.Constructions()[id], true
}

// ConstructionCost returns the one-time input cost of a building. Empty when the
// building has no construction or is ignored.
func (g *Graph) ConstructionCost(building catalog.ID) Cost {
	c, ok := g.ConstructionFor(building)
	if !ok {
		return Cost{}
	}
	return CostOf(c.Inputs)
}

// CombatCost returns the recipe inputs of a unit scaled by qty
func (g *Graph) CombatCost(unit catalog.ID, qty int, scope catalog.Scope) (Cost, error) {
	recipe, ok := g.RecipeProducing(unit, scope)
	if !ok {
		return Cost{}, nil
	}
	return Scale(CostOf(recipe.Inputs), qty)
}

// BuildPlan returns the single-level plan for a unit: its producing building,
// the building's construction cost, the unit cost and their merged total.
func (g *Graph) BuildPlan(unit catalog.ID, qty int, scope catalog.Scope) (*BuildPlan, error) {
	recipe, hasRecipe := g.RecipeProducing(unit, scope)
	building, hasBuilding := g.BuildingForCombat(unit, scope)
	if !hasRecipe || !hasBuilding {
		return &BuildPlan{
			Target:   unit,
			Building: catalog.NoID,
			Recipe:   catalog.NoID,
			Error:    ErrorMissingBuildingOrRecipe,
		}, nil
	}

	buildingCost := g.ConstructionCost(building.ID)
	unitCost, err := Scale(CostOf(recipe.Inputs), qty)
	if err != nil {
		return nil, err
	}
	total := Merge(buildingCost, unitCost)

	producers := make(map[catalog.ID]catalog.ID)
	for _, rid := range total.SortedIDs() {
		for bid := range g.ResourceProducers(rid, scope) {
			producers[rid] = bid
		}
	}

	return &BuildPlan{
		Target:       unit,
		Building:     building.ID,
		Recipe:       recipe.ID,
		BuildingCost: buildingCost,
		CombatCost:   unitCost,
		TotalCost:    total,
		Producers:    producers,
	}, nil
}

func (g *Graph) view(scope catalog.Scope) *scopeView {
	g.mu.Lock()
	defer g.mu.Unlock()
	if v, ok := g.views[scope]; ok {
		return v
	}
	v := g.buildView(scope)
	g.views[scope] = v
	return v
}

func (g *Graph) buildView(scope catalog.Scope) *scopeView {
	v := &scopeView{
		buildings: make(map[catalog.ID]*catalog.Unit),
		combat:    make(map[catalog.ID]*catalog.Unit),
		resources: make(map[catalog.ID]*catalog.Resource),
		producer:  make(map[catalog.ID]catalog.ID),
		runner:    make(map[catalog.ID]catalog.ID),
	}
	units := g.cat.Units()
	recipes := g.cat.Recipes()

	for _, cid := range g.scopeConstructions(scope) {
		if g.cat.IsIgnored(cid) {
			continue
		}
		c, ok := g.cat.Constructions()[cid]
		if !ok || g.cat.IsIgnored(c.Output) {
			continue
		}
		if u, ok := units[c.Output]; ok {
			v.buildings[u.ID] = u
		}
	}

	// Candidate runners: the scope's buildings, or every unit listing recipes
	runners := v.buildings
	if scope.IsGlobal() {
		runners = make(map[catalog.ID]*catalog.Unit)
		for id, u := range units {
			if len(u.Recipes) > 0 {
				runners[id] = u
			}
		}
	}
	candidateRecipes := make(map[catalog.ID]struct{})
	for _, bid := range catalog.SortedKeys(runners) {
		if g.cat.IsIgnored(bid) {
			continue
		}
		for _, rid := range runners[bid].Recipes {
			if g.cat.IsIgnored(rid) {
				continue
			}
			if _, ok := v.runner[rid]; !ok {
				v.runner[rid] = bid
			}
			if !scope.IsGlobal() {
				candidateRecipes[rid] = struct{}{}
			}
		}
	}
	if scope.IsGlobal() {
		for rid := range recipes {
			if !g.cat.IsIgnored(rid) {
				candidateRecipes[rid] = struct{}{}
			}
		}
	}

	for _, rid := range catalog.SortedKeys(candidateRecipes) {
		r, ok := recipes[rid]
		if !ok {
			continue
		}
		for _, out := range r.Outputs {
			if _, ok := v.producer[out]; !ok {
				v.producer[out] = rid
			}
			if g.cat.IsIgnored(out) || out == g.opts.NeutralTransportID {
				continue
			}
			if u, ok := units[out]; ok {
				v.combat[out] = u
			}
			if res, ok := g.cat.Resources()[out]; ok {
				v.resources[out] = res
			}
		}
	}
	return v
}

func (g *Graph) scopeConstructions(scope catalog.Scope) []catalog.ID {
	race, restricted := scope.Race()
	if !restricted {
		return catalog.SortedKeys(g.cat.Constructions())
	}
	r, ok := g.cat.Races()[race]
	if !ok {
		return nil
	}
	return r.Constructions
}

func copyMap[T any](m map[catalog.ID]T) map[catalog.ID]T {
	out := make(map[catalog.ID]T, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
