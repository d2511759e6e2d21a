package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alesfranek-maf/uwapi/internal/adapters/sandbox"
	"github.com/alesfranek-maf/uwapi/internal/application/planning/commands"
	"github.com/alesfranek-maf/uwapi/internal/application/planning/services"
	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
	"github.com/alesfranek-maf/uwapi/internal/domain/production"
	"github.com/alesfranek-maf/uwapi/internal/domain/world"
	"github.com/alesfranek-maf/uwapi/test/helpers"
)

const force world.ForceID = 3

func newHandler(gateway world.Gateway) *commands.ExecutePlanHandler {
	graph := production.NewGraph(helpers.DroneScenario().Build(), production.GraphOptions{})
	return commands.NewExecutePlanHandler(
		services.NewPlanResolver(graph),
		services.NewPlanExecutor(graph, gateway, nil),
	)
}

func TestExecutePlanHandler_ResolvesForSessionRaceAndPlaces(t *testing.T) {
	// Arrange
	w := sandbox.NewWorld(force)
	w.Spawn(force, helpers.ControlCoreID, catalog.NoID, true)
	handler := newHandler(w)

	// Act
	resp, err := handler.Handle(context.Background(), &commands.ExecutePlanCommand{
		Session:  world.Session{Force: force, Race: helpers.TestRaceID},
		UnitName: "drone",
		Quantity: 1,
		Options:  services.ExecuteOptions{BaseName: services.DefaultBaseName, Priority: world.PriorityNormal},
	})

	// Assert
	require.NoError(t, err)
	executed := resp.(*commands.ExecutePlanResponse)
	assert.Equal(t, "race:60", executed.Plan.Scope)
	assert.Len(t, executed.Report.Placed, 2)
	assert.Empty(t, executed.Report.Errors)
	assert.Len(t, w.Commands(), 2)
}

func TestExecutePlanHandler_IncompletePlanIsReported(t *testing.T) {
	w := sandbox.NewWorld(force)
	w.Spawn(force, helpers.ControlCoreID, catalog.NoID, true)
	id := helpers.DroneID

	resp, err := newHandler(w).Handle(context.Background(), &commands.ExecutePlanCommand{
		Session:  world.Session{Force: force, Race: helpers.OtherRaceID},
		UnitID:   &id,
		Quantity: 1,
	})

	require.NoError(t, err)
	executed := resp.(*commands.ExecutePlanResponse)
	assert.Equal(t, []string{production.ErrorMissingBuildingOrRecipe}, executed.Report.Errors)
	assert.Empty(t, w.Commands())
}

func TestExecutePlanHandler_Errors(t *testing.T) {
	gateway := helpers.NewMockWorldGateway()
	gateway.EntitiesErr = errors.New("connection lost")
	handler := newHandler(gateway)

	t.Run("missing unit", func(t *testing.T) {
		_, err := handler.Handle(context.Background(), &commands.ExecutePlanCommand{Quantity: 1})
		assert.EqualError(t, err, "either unit_id or unit_name must be provided")
	})

	t.Run("invalid quantity", func(t *testing.T) {
		_, err := handler.Handle(context.Background(), &commands.ExecutePlanCommand{UnitName: "drone"})
		var invalid *production.ErrInvalidQuantity
		assert.True(t, errors.As(err, &invalid))
	})

	t.Run("gateway failure", func(t *testing.T) {
		_, err := handler.Handle(context.Background(), &commands.ExecutePlanCommand{
			Session:  world.Session{Force: force, Race: helpers.TestRaceID},
			UnitName: "drone",
			Quantity: 1,
		})
		assert.ErrorIs(t, err, gateway.EntitiesErr)
	})
}
