package queries_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alesfranek-maf/uwapi/internal/application/planning/queries"
	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
	"github.com/alesfranek-maf/uwapi/internal/domain/production"
	"github.com/alesfranek-maf/uwapi/test/helpers"
)

func TestGetBuildPlanHandler_ByName(t *testing.T) {
	// Arrange
	handler := queries.NewGetBuildPlanHandler(newGraph())

	// Act
	resp, err := handler.Handle(context.Background(), &queries.GetBuildPlanQuery{UnitName: "drone", Quantity: 2, Scope: raceScope()})

	// Assert
	require.NoError(t, err)
	plan := resp.(*queries.GetBuildPlanResponse).BuildPlan
	assert.Empty(t, plan.Error)
	assert.Equal(t, helpers.FactoryID, plan.Building)
	assert.Equal(t, helpers.DroneRecipeID, plan.Recipe)
	assert.Equal(t, production.Cost{helpers.OreID: 10}, plan.BuildingCost)
	assert.Equal(t, production.Cost{helpers.PlateID: 6}, plan.CombatCost)
	assert.Equal(t, production.Cost{helpers.OreID: 10, helpers.PlateID: 6}, plan.TotalCost)
	assert.Equal(t, map[catalog.ID]catalog.ID{helpers.PlateID: helpers.SmelterID}, plan.Producers)
}

func TestGetBuildPlanHandler_NoProducer(t *testing.T) {
	handler := queries.NewGetBuildPlanHandler(newGraph())
	id := helpers.DroneID

	resp, err := handler.Handle(context.Background(), &queries.GetBuildPlanQuery{
		UnitID:   &id,
		Quantity: 1,
		Scope:    catalog.RaceScope(helpers.OtherRaceID),
	})

	require.NoError(t, err)
	assert.Equal(t, production.ErrorMissingBuildingOrRecipe, resp.(*queries.GetBuildPlanResponse).BuildPlan.Error)
}

func TestGetBuildPlanHandler_UnknownName(t *testing.T) {
	handler := queries.NewGetBuildPlanHandler(newGraph())

	resp, err := handler.Handle(context.Background(), &queries.GetBuildPlanQuery{UnitName: "mothership", Quantity: 1})

	require.NoError(t, err)
	plan := resp.(*queries.GetBuildPlanResponse).BuildPlan
	assert.Equal(t, "unknown_unit_name:mothership", plan.Error)
	assert.Equal(t, catalog.NoID, plan.Target)
}

func TestGetBuildPlanHandler_InvalidQuantity(t *testing.T) {
	handler := queries.NewGetBuildPlanHandler(newGraph())

	_, err := handler.Handle(context.Background(), &queries.GetBuildPlanQuery{UnitName: "drone", Quantity: -1})

	var invalid *production.ErrInvalidQuantity
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, -1, invalid.Quantity)
}
