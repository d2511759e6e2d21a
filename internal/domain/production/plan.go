package production

import (
	"sort"

	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
)

// Plan error markers. A plan carrying one of these is a reported outcome,
// not a failure of the resolver.
const (
	ErrorMissingBuildingOrRecipe = "missing_building_or_recipe"
	ErrorUnknownUnitPrefix       = "unknown_unit_name:"
)

// Step is a building that must exist, running Recipe. Recipe is catalog.NoID
// when the building only contributes its construction cost.
type Step struct {
	Building catalog.ID `json:"building_id"`
	Recipe   catalog.ID `json:"recipe_id"`
}

// HasRecipe reports whether the step runs a recipe
func (s Step) HasRecipe() bool {
	return s.Recipe.Valid()
}

// Less orders steps by building id, then recipe id
func (s Step) Less(other Step) bool {
	if s.Building != other.Building {
		return s.Building < other.Building
	}
	return s.Recipe < other.Recipe
}

// SortSteps orders steps ascending by building then recipe
func SortSteps(steps []Step) {
	sort.Slice(steps, func(i, j int) bool { return steps[i].Less(steps[j]) })
}

// Plan is the resolved production chain for Quantity copies of Target
type Plan struct {
	Target       catalog.ID `json:"combat_id"`
	Quantity     int        `json:"quantity"`
	Scope        string     `json:"scope"`
	RootBuilding catalog.ID `json:"root_building_id"`
	RootRecipe   catalog.ID `json:"root_recipe_id"`

	// Steps are sorted by building id then recipe id
	Steps []Step `json:"buildings"`

	// BaseResources are quantities with no in-scope producer, including
	// cycle-truncated demand
	BaseResources Cost `json:"base_resources"`

	Error string `json:"error,omitempty"`
}

// NewIncompletePlan returns a plan carrying an error marker and empty collections
func NewIncompletePlan(target catalog.ID, quantity int, scope catalog.Scope, marker string) *Plan {
	return &Plan{
		Target:        target,
		Quantity:      quantity,
		Scope:         scope.String(),
		RootBuilding:  catalog.NoID,
		RootRecipe:    catalog.NoID,
		Steps:         []Step{},
		BaseResources: Cost{},
		Error:         marker,
	}
}

// HasRootBuilding reports whether a building producing the target was found
func (p *Plan) HasRootBuilding() bool {
	return p.RootBuilding.Valid()
}

// IsComplete reports whether the plan carries no error marker
func (p *Plan) IsComplete() bool {
	return p.Error == ""
}

// Buildings returns the distinct building ids of the plan in step order,
// ascending for resolved plans since their steps are sorted
func (p *Plan) Buildings() []catalog.ID {
	seen := make(map[catalog.ID]struct{}, len(p.Steps))
	out := make([]catalog.ID, 0, len(p.Steps))
	for _, s := range p.Steps {
		if _, ok := seen[s.Building]; ok {
			continue
		}
		seen[s.Building] = struct{}{}
		out = append(out, s.Building)
	}
	return out
}

// BuildPlan is the single-level plan: the producing building and recipe of a
// unit, their costs and the building producing each cost resource.
type BuildPlan struct {
	Target       catalog.ID                `json:"combat_id"`
	Building     catalog.ID                `json:"building_id"`
	Recipe       catalog.ID                `json:"recipe_id"`
	BuildingCost Cost                      `json:"building_cost"`
	CombatCost   Cost                      `json:"combat_cost"`
	TotalCost    Cost                      `json:"total_cost"`
	Producers    map[catalog.ID]catalog.ID `json:"producers"`
	Error        string                    `json:"error,omitempty"`
}
