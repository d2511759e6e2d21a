package setup_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alesfranek-maf/uwapi/internal/adapters/sandbox"
	catalogCommands "github.com/alesfranek-maf/uwapi/internal/application/catalog/commands"
	catalogQueries "github.com/alesfranek-maf/uwapi/internal/application/catalog/queries"
	"github.com/alesfranek-maf/uwapi/internal/application/mediator"
	planningCommands "github.com/alesfranek-maf/uwapi/internal/application/planning/commands"
	planningQueries "github.com/alesfranek-maf/uwapi/internal/application/planning/queries"
	"github.com/alesfranek-maf/uwapi/internal/application/planning/services"
	"github.com/alesfranek-maf/uwapi/internal/application/setup"
	"github.com/alesfranek-maf/uwapi/internal/domain/production"
	"github.com/alesfranek-maf/uwapi/test/helpers"
)

func newRegistry(withExecutor bool) *setup.HandlerRegistry {
	cat := helpers.DroneScenario().Build()
	graph := production.NewGraph(cat, production.GraphOptions{})
	resolver := services.NewPlanResolver(graph)
	var executor *services.PlanExecutor
	if withExecutor {
		executor = services.NewPlanExecutor(graph, sandbox.NewWorld(1), nil)
	}
	return setup.NewHandlerRegistry(cat, graph, resolver, executor)
}

func TestHandlerRegistry_RoutesQueries(t *testing.T) {
	// Arrange
	m, err := newRegistry(false).CreateConfiguredMediator()
	require.NoError(t, err)

	// Act
	resolved, resolveErr := m.Send(context.Background(), &planningQueries.ResolvePlanQuery{UnitName: "drone", Quantity: 1})
	lookup, lookupErr := m.Send(context.Background(), &catalogQueries.LookupQuery{Name: "drone"})

	// Assert
	require.NoError(t, resolveErr)
	assert.IsType(t, &planningQueries.ResolvePlanResponse{}, resolved)
	require.NoError(t, lookupErr)
	assert.Equal(t, helpers.DroneID, lookup.(*catalogQueries.LookupResponse).ID)
}

func TestHandlerRegistry_OptionalHandlers(t *testing.T) {
	t.Run("no executor and no store", func(t *testing.T) {
		m, err := newRegistry(false).CreateConfiguredMediator()
		require.NoError(t, err)

		_, execErr := m.Send(context.Background(), &planningCommands.ExecutePlanCommand{UnitName: "drone", Quantity: 1})
		_, importErr := m.Send(context.Background(), &catalogCommands.ImportCatalogCommand{})

		assert.ErrorContains(t, execErr, "no handler registered")
		assert.ErrorContains(t, importErr, "no handler registered")
	})

	t.Run("with executor and store", func(t *testing.T) {
		repo := helpers.NewTestStore(t, nil)
		m, err := newRegistry(true).WithStore(repo, repo).CreateConfiguredMediator()
		require.NoError(t, err)

		_, execErr := m.Send(context.Background(), &planningCommands.ExecutePlanCommand{UnitName: "drone", Quantity: 1})
		_, importErr := m.Send(context.Background(), &catalogCommands.ImportCatalogCommand{})

		assert.NoError(t, execErr)
		assert.EqualError(t, importErr, "source must be provided")
	})
}

func TestHandlerRegistry_InstallsMiddlewaresInOrder(t *testing.T) {
	// Arrange
	var calls []string
	record := func(name string) mediator.Middleware {
		return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
			calls = append(calls, name)
			return next(ctx, request)
		}
	}
	m, err := newRegistry(false).CreateConfiguredMediator(record("first"), record("second"))
	require.NoError(t, err)

	// Act
	_, err = m.Send(context.Background(), &catalogQueries.LookupQuery{Name: "ore"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestHandlerRegistry_RejectsDoubleRegistration(t *testing.T) {
	registry := newRegistry(false)
	m := mediator.NewMediator()
	require.NoError(t, registry.RegisterCatalogHandlers(m))

	err := registry.RegisterCatalogHandlers(m)

	assert.ErrorContains(t, err, "handler already registered")
}
