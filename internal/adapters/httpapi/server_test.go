package httpapi_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alesfranek-maf/uwapi/internal/adapters/httpapi"
	planningQueries "github.com/alesfranek-maf/uwapi/internal/application/planning/queries"
	"github.com/alesfranek-maf/uwapi/internal/application/planning/services"
	"github.com/alesfranek-maf/uwapi/internal/application/setup"
	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
	"github.com/alesfranek-maf/uwapi/internal/domain/production"
	"github.com/alesfranek-maf/uwapi/test/helpers"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cat := helpers.DroneScenario().Build()
	graph := production.NewGraph(cat, production.GraphOptions{})
	m, err := setup.NewHandlerRegistry(cat, graph, services.NewPlanResolver(graph), nil).CreateConfiguredMediator()
	require.NoError(t, err)

	srv := httptest.NewServer(httpapi.NewServer(m, cat, nil, "").WithDefaultRace("technocracy").Handler())
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, out interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

func TestServer_ResolvePlan(t *testing.T) {
	// Arrange
	srv := newTestServer(t)
	var view httpapi.PlanView

	// Act
	status := getJSON(t, srv.URL+"/v1/plans/drone?qty=2", &view)

	// Assert
	assert.Equal(t, http.StatusOK, status)
	require.NotNil(t, view.Plan)
	assert.Equal(t, "race:60", view.Plan.Scope)
	assert.Equal(t, production.Cost{helpers.OreID: 50}, view.Plan.BaseResources)
	assert.Equal(t, "smelter", view.Names["30"])
	assert.Equal(t, "plate-recipe", view.Names["10"])
	assert.Equal(t, "ore", view.Names["1"])
	assert.Equal(t, []catalog.ID{helpers.SmelterID, helpers.FactoryID}, view.Buildings)
}

func TestServer_ResolvePlanByIDAndRace(t *testing.T) {
	srv := newTestServer(t)
	var view httpapi.PlanView

	status := getJSON(t, srv.URL+"/v1/plans/40?race=kislamite", &view)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, helpers.DroneID, view.Plan.Target)
	assert.Equal(t, production.ErrorMissingBuildingOrRecipe, view.Plan.Error)
}

func TestServer_BuildPlan(t *testing.T) {
	srv := newTestServer(t)
	var view httpapi.BuildPlanView

	status := getJSON(t, srv.URL+"/v1/build-plans/drone?race=global", &view)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, helpers.FactoryID, view.BuildPlan.Building)
	assert.Equal(t, production.Cost{helpers.OreID: 10, helpers.PlateID: 3}, view.BuildPlan.TotalCost)
	assert.Equal(t, "factory", view.Names["31"])
}

func TestServer_BadRequests(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name    string
		path    string
		message string
	}{
		{"non numeric qty", "/v1/plans/drone?qty=many", "qty must be an integer"},
		{"zero qty", "/v1/plans/drone?qty=0", "invalid quantity"},
		{"unknown race", "/v1/plans/drone?race=martians", "unknown race: martians"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body map[string]string
			status := getJSON(t, srv.URL+tt.path, &body)

			assert.Equal(t, http.StatusBadRequest, status)
			assert.Contains(t, body["error"], tt.message)
		})
	}
}

func TestServer_Lookup(t *testing.T) {
	srv := newTestServer(t)

	t.Run("by name", func(t *testing.T) {
		var body map[string]interface{}
		status := getJSON(t, srv.URL+"/v1/names/factory-construction", &body)

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, float64(helpers.FactorySiteID), body["id"])
		assert.Equal(t, "Construction", body["category"])
	})

	t.Run("by id", func(t *testing.T) {
		var body map[string]interface{}
		status := getJSON(t, srv.URL+"/v1/names/2", &body)

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "plate", body["name"])
	})

	t.Run("unknown", func(t *testing.T) {
		var body map[string]string
		status := getJSON(t, srv.URL+"/v1/names/mothership", &body)

		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "unknown prototype name: mothership", body["error"])
	})
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t)
	var body map[string]interface{}

	status := getJSON(t, srv.URL+"/healthz", &body)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(12), body["entries"])
}

func TestServer_DepthExceededIsUnprocessable(t *testing.T) {
	// Arrange
	mock := helpers.NewMockMediator().On(&planningQueries.ResolvePlanQuery{}, nil,
		fmt.Errorf("failed to resolve plan: %w", &production.ErrDepthExceeded{Target: 40, Resource: 2, Limit: 4}))
	srv := httptest.NewServer(httpapi.NewServer(mock, helpers.DroneScenario().Build(), nil, "").Handler())
	defer srv.Close()

	// Act
	var body map[string]string
	status := getJSON(t, srv.URL+"/v1/plans/drone", &body)

	// Assert
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, body["error"], "exceeded depth limit 4")
	require.Len(t, mock.Sent(), 1)
	query := mock.Sent()[0].(*planningQueries.ResolvePlanQuery)
	assert.Equal(t, "drone", query.UnitName)
	assert.Equal(t, 1, query.Quantity)
}

func TestServer_QuantityOverflowIsUnprocessable(t *testing.T) {
	// Arrange
	mock := helpers.NewMockMediator().On(&planningQueries.GetBuildPlanQuery{}, nil,
		&production.ErrQuantityOverflow{Resource: 1, Quantity: 5, Factor: 1 << 62})
	srv := httptest.NewServer(httpapi.NewServer(mock, helpers.DroneScenario().Build(), nil, "").Handler())
	defer srv.Close()

	// Act
	var body map[string]string
	status := getJSON(t, srv.URL+"/v1/build-plans/drone?qty=2", &body)

	// Assert
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, body["error"], "overflows")
}

func TestServer_PlanStream(t *testing.T) {
	// Arrange
	srv := newTestServer(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/ws/plans"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	type reply struct {
		Plan  *production.Plan  `json:"plan"`
		Names map[string]string `json:"names"`
		Error string            `json:"error"`
	}

	// Act
	require.NoError(t, conn.WriteJSON(map[string]interface{}{"unit": "drone", "qty": 2}))
	var first reply
	require.NoError(t, conn.ReadJSON(&first))

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"unit": "drone", "race": "martians"}))
	var second reply
	require.NoError(t, conn.ReadJSON(&second))

	// Assert
	require.NotNil(t, first.Plan)
	assert.Equal(t, 2, first.Plan.Quantity)
	assert.Equal(t, production.Cost{helpers.OreID: 50}, first.Plan.BaseResources)
	assert.Nil(t, second.Plan)
	assert.Equal(t, (&catalog.ErrUnknownRace{Name: "martians"}).Error(), second.Error)
}

func TestServer_PlanStreamDefaultsQuantity(t *testing.T) {
	// Arrange
	srv := newTestServer(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/ws/plans"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var reply struct {
		Request struct {
			Unit     string `json:"unit"`
			Quantity int    `json:"qty"`
		} `json:"request"`
		Plan *production.Plan `json:"plan"`
	}

	// Act
	require.NoError(t, conn.WriteJSON(map[string]interface{}{"unit": "drone", "qty": 0}))
	require.NoError(t, conn.ReadJSON(&reply))

	// Assert
	assert.Equal(t, "drone", reply.Request.Unit)
	assert.Equal(t, 1, reply.Request.Quantity)
	require.NotNil(t, reply.Plan)
	assert.Equal(t, 1, reply.Plan.Quantity)
}

func TestServer_PlanStreamOrigins(t *testing.T) {
	cat := helpers.DroneScenario().Build()
	graph := production.NewGraph(cat, production.GraphOptions{})
	m, err := setup.NewHandlerRegistry(cat, graph, services.NewPlanResolver(graph), nil).CreateConfiguredMediator()
	require.NoError(t, err)

	tests := []struct {
		name    string
		allowed []string
		origin  func(srvURL string) string
		wantOK  bool
	}{
		{"no origin header", nil, func(string) string { return "" }, true},
		{"same origin", nil, func(u string) string { return u }, true},
		{"foreign origin", nil, func(string) string { return "https://evil.example" }, false},
		{"listed origin", []string{"https://dashboard.example"}, func(string) string { return "https://dashboard.example" }, true},
		{"unlisted origin", []string{"https://dashboard.example"}, func(string) string { return "https://evil.example" }, false},
		{"wildcard", []string{"*"}, func(string) string { return "https://evil.example" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			srv := httptest.NewServer(httpapi.NewServer(m, cat, nil, "").WithAllowedOrigins(tt.allowed...).Handler())
			defer srv.Close()
			url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/ws/plans"
			header := http.Header{}
			if origin := tt.origin(srv.URL); origin != "" {
				header.Set("Origin", origin)
			}

			// Act
			conn, resp, err := websocket.DefaultDialer.Dial(url, header)

			// Assert
			if tt.wantOK {
				require.NoError(t, err)
				conn.Close()
				return
			}
			require.ErrorIs(t, err, websocket.ErrBadHandshake)
			require.NotNil(t, resp)
			assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		})
	}
}
