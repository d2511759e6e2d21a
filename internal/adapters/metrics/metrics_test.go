package metrics_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alesfranek-maf/uwapi/internal/adapters/metrics"
	"github.com/alesfranek-maf/uwapi/internal/application/catalog/queries"
	"github.com/alesfranek-maf/uwapi/internal/application/mediator"
)

// withRegistry installs a fresh global registry for one test
func withRegistry(t *testing.T) {
	t.Helper()
	metrics.InitRegistry()
	t.Cleanup(func() {
		metrics.Registry = nil
		metrics.SetGlobalPlanningCollector(nil)
	})
}

func TestPrometheusMiddleware_RecordsEveryRequest(t *testing.T) {
	// Arrange
	withRegistry(t)
	collector := metrics.NewCommandMetricsCollector()
	require.NoError(t, collector.Register())
	mw := metrics.PrometheusMiddleware(collector)
	ok := func(ctx context.Context, request mediator.Request) (mediator.Response, error) { return "done", nil }
	failing := func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		return nil, errors.New("boom")
	}

	// Act
	resp, err := mw(context.Background(), &queries.LookupQuery{Name: "ore"}, ok)
	_, failErr := mw(context.Background(), &queries.ListEntriesQuery{}, failing)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "done", resp)
	assert.EqualError(t, failErr, "boom")
	count, err := testutil.GatherAndCount(metrics.Registry, "uwapi_mediator_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per request type and status")
}

func TestPrometheusMiddleware_NilCollectorPassesThrough(t *testing.T) {
	mw := metrics.PrometheusMiddleware(nil)
	called := false

	_, err := mw(context.Background(), &queries.LookupQuery{}, func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		called = true
		return nil, nil
	})

	require.NoError(t, err)
	assert.True(t, called)
}

func TestPlanningMetricsCollector_RecordsThroughGlobalHooks(t *testing.T) {
	// Arrange
	withRegistry(t)
	collector := metrics.NewPlanningMetricsCollector()
	require.NoError(t, collector.Register())
	metrics.SetGlobalPlanningCollector(collector)

	// Act
	metrics.RecordPlanResolution("race:60", metrics.ResolutionComplete, 0.001, 2, 1)
	metrics.RecordPlanResolution("global", metrics.ResolutionIncomplete, 0.001, 0, 0)
	metrics.RecordPlacement(metrics.PlacementPlaced)
	metrics.RecordRecipeAssignment(false)
	metrics.RecordCatalogLoad("prototypes.json", 12, true)

	// Assert
	resolutions, err := testutil.GatherAndCount(metrics.Registry, "uwapi_planner_resolutions_total")
	require.NoError(t, err)
	assert.Equal(t, 2, resolutions)
	steps, err := testutil.GatherAndCount(metrics.Registry, "uwapi_planner_plan_steps")
	require.NoError(t, err)
	assert.Equal(t, 1, steps, "only complete plans observe their size")
}

func TestRegister_WithoutRegistryIsNoop(t *testing.T) {
	metrics.Registry = nil

	assert.NoError(t, metrics.NewPlanningMetricsCollector().Register())
	assert.NoError(t, metrics.NewCommandMetricsCollector().Register())
	assert.False(t, metrics.IsEnabled())
}

func TestHandler(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		metrics.Registry = nil
		rec := httptest.NewRecorder()

		metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("enabled", func(t *testing.T) {
		withRegistry(t)
		collector := metrics.NewCommandMetricsCollector()
		require.NoError(t, collector.Register())
		collector.RecordCommandExecution("LookupQuery", 0.01, true)
		rec := httptest.NewRecorder()

		metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `uwapi_mediator_requests_total{request="LookupQuery",status="success"} 1`)
	})
}
