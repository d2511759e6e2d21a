package production_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
	"github.com/alesfranek-maf/uwapi/internal/domain/production"
	"github.com/alesfranek-maf/uwapi/test/helpers"
)

var raceScope = catalog.RaceScope(helpers.TestRaceID)

func newGraph(b *helpers.CatalogBuilder) *production.Graph {
	return production.NewGraph(b.Build(), production.GraphOptions{NeutralTransportID: catalog.NoID})
}

func keys[T any](m map[catalog.ID]T) []catalog.ID {
	return catalog.SortedKeys(m)
}

func TestGraph_ScopedViews(t *testing.T) {
	// Arrange
	g := newGraph(helpers.DroneScenario())

	// Act & Assert
	assert.Equal(t, []catalog.ID{helpers.SmelterID, helpers.FactoryID}, keys(g.BuildingsFor(raceScope)))
	assert.Equal(t, []catalog.ID{helpers.DroneID}, keys(g.CombatUnitsFor(raceScope)))
	assert.Equal(t, []catalog.ID{helpers.PlateID}, keys(g.ResourcesFor(raceScope)))

	other := catalog.RaceScope(helpers.OtherRaceID)
	assert.Empty(t, g.BuildingsFor(other))
	assert.Empty(t, g.CombatUnitsFor(other))
}

func TestGraph_RecipeAndBuildingLookup(t *testing.T) {
	// Arrange
	g := newGraph(helpers.DroneScenario())

	// Act
	recipe, ok := g.RecipeProducing(helpers.DroneID, raceScope)
	require.True(t, ok)
	building, ok := g.BuildingForRecipe(recipe.ID, raceScope)
	require.True(t, ok)
	combatBuilding, ok := g.BuildingForCombat(helpers.DroneID, raceScope)
	require.True(t, ok)

	// Assert
	assert.Equal(t, helpers.DroneRecipeID, recipe.ID)
	assert.Equal(t, helpers.FactoryID, building.ID)
	assert.Equal(t, helpers.FactoryID, combatBuilding.ID)

	_, ok = g.RecipeProducing(helpers.OreID, raceScope)
	assert.False(t, ok, "ore has no producer")

	_, ok = g.RecipeProducing(helpers.DroneID, catalog.RaceScope(helpers.OtherRaceID))
	assert.False(t, ok, "the other race owns no factory")
}

func TestGraph_LowestIDWinsTies(t *testing.T) {
	// Arrange: two recipes produce plate, two buildings run the lower one,
	// two constructions build the forge
	b := helpers.NewCatalogBuilder().
		Resource(1, "ore").
		Resource(2, "plate").
		Recipe(15, "plate b", catalog.Quantities{1: 1}, 2).
		Recipe(12, "plate a", catalog.Quantities{1: 9}, 2).
		Building(33, "forge b", 12, 15).
		Building(32, "forge a", 15, 12).
		Construction(26, "forge b", 33, nil).
		Construction(25, "forge a", 32, nil).
		Construction(24, "forge a again", 32, catalog.Quantities{1: 1}).
		Race(60, "technocracy", 26, 25, 24)
	g := newGraph(b)
	scope := catalog.RaceScope(60)

	// Act
	recipe, ok := g.RecipeProducing(2, scope)
	require.True(t, ok)
	building, ok := g.BuildingForRecipe(recipe.ID, scope)
	require.True(t, ok)
	construction, ok := g.ConstructionFor(32)
	require.True(t, ok)

	// Assert
	assert.Equal(t, catalog.ID(12), recipe.ID)
	assert.Equal(t, catalog.ID(32), building.ID)
	assert.Equal(t, catalog.ID(24), construction.ID)
	assert.Equal(t, production.Cost{1: 1}, g.ConstructionCost(32))
}

func TestGraph_GlobalScopeUsesEveryRunner(t *testing.T) {
	// Arrange: the forge has no construction, so no race can build it
	b := helpers.DroneScenario().
		Resource(80, "armor").
		Recipe(12, "armor", catalog.Quantities{helpers.OreID: 1}, 80).
		Building(70, "forge", 12)
	g := newGraph(b)

	// Act
	_, raceOK := g.RecipeProducing(80, raceScope)
	recipe, globalOK := g.RecipeProducing(80, catalog.Global())

	// Assert
	assert.False(t, raceOK)
	require.True(t, globalOK)
	assert.Equal(t, catalog.ID(12), recipe.ID)

	building, ok := g.BuildingForRecipe(12, catalog.Global())
	require.True(t, ok)
	assert.Equal(t, catalog.ID(70), building.ID)
	assert.Contains(t, g.ResourcesFor(catalog.Global()), catalog.ID(80))
	assert.NotContains(t, g.BuildingsFor(catalog.Global()), catalog.ID(70))
}

func TestGraph_IgnoredIDsAreInvisible(t *testing.T) {
	tests := []struct {
		name    string
		ignored catalog.ID
	}{
		{"ignored recipe", helpers.DroneRecipeID},
		{"ignored target", helpers.DroneID},
		{"ignored building", helpers.FactoryID},
		{"ignored construction", helpers.FactorySiteID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			g := newGraph(helpers.DroneScenario().Ignore(tt.ignored))

			// Act
			_, ok := g.BuildingForCombat(helpers.DroneID, raceScope)

			// Assert
			assert.False(t, ok)
			assert.NotContains(t, g.CombatUnitsFor(raceScope), helpers.DroneID)
		})
	}
}

func TestGraph_NeutralTransportIsNotCombat(t *testing.T) {
	// Arrange
	b := helpers.DroneScenario().
		Unit(90, "transport").
		Recipe(13, "transport", catalog.Quantities{helpers.OreID: 4}, 90).
		Building(31, "factory", helpers.DroneRecipeID, 13)
	g := production.NewGraph(b.Build(), production.GraphOptions{NeutralTransportID: 90})

	// Act
	combat := g.CombatUnitsFor(raceScope)
	_, producible := g.RecipeProducing(90, raceScope)

	// Assert
	assert.NotContains(t, combat, catalog.ID(90))
	assert.Contains(t, combat, helpers.DroneID)
	assert.True(t, producible)
}

func TestGraph_ResourceProducers(t *testing.T) {
	g := newGraph(helpers.DroneScenario())

	producers := g.ResourceProducers(helpers.PlateID, raceScope)

	assert.Equal(t, []catalog.ID{helpers.SmelterID}, keys(producers))
	assert.Empty(t, g.ResourceProducers(helpers.OreID, raceScope))
}

func TestGraph_CombatCost(t *testing.T) {
	g := newGraph(helpers.DroneScenario())

	cost, err := g.CombatCost(helpers.DroneID, 2, raceScope)
	require.NoError(t, err)
	assert.Equal(t, production.Cost{helpers.PlateID: 6}, cost)

	_, err = g.CombatCost(helpers.DroneID, 0, raceScope)
	assert.Error(t, err)
}

func TestGraph_BuildPlan(t *testing.T) {
	// Arrange
	g := newGraph(helpers.DroneScenario())

	// Act
	bp, err := g.BuildPlan(helpers.DroneID, 2, raceScope)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, bp.Error)
	assert.Equal(t, helpers.FactoryID, bp.Building)
	assert.Equal(t, helpers.DroneRecipeID, bp.Recipe)
	assert.Equal(t, production.Cost{helpers.OreID: 10}, bp.BuildingCost)
	assert.Equal(t, production.Cost{helpers.PlateID: 6}, bp.CombatCost)
	assert.Equal(t, production.Cost{helpers.OreID: 10, helpers.PlateID: 6}, bp.TotalCost)
	assert.Equal(t, map[catalog.ID]catalog.ID{helpers.PlateID: helpers.SmelterID}, bp.Producers)
}

func TestGraph_BuildPlanWithoutProducer(t *testing.T) {
	g := newGraph(helpers.DroneScenario())

	bp, err := g.BuildPlan(helpers.DroneID, 1, catalog.RaceScope(helpers.OtherRaceID))

	require.NoError(t, err)
	assert.Equal(t, production.ErrorMissingBuildingOrRecipe, bp.Error)
	assert.Equal(t, catalog.NoID, bp.Building)
}

func TestGraph_ConcurrentViews(t *testing.T) {
	// Arrange
	g := newGraph(helpers.DroneScenario())
	var wg sync.WaitGroup

	// Act
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			scope := raceScope
			if i%2 == 0 {
				scope = catalog.Global()
			}
			_, ok := g.BuildingForCombat(helpers.DroneID, scope)
			assert.True(t, ok)
		}(i)
	}
	wg.Wait()
}
