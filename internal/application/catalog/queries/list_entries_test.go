package queries_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alesfranek-maf/uwapi/internal/application/catalog/queries"
	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
	"github.com/alesfranek-maf/uwapi/test/helpers"
)

func listIDs(t *testing.T, query *queries.ListEntriesQuery, cat *catalog.Catalog) []catalog.ID {
	t.Helper()
	resp, err := queries.NewListEntriesHandler(cat).Handle(context.Background(), query)
	require.NoError(t, err)
	entries := resp.(*queries.ListEntriesResponse).Entries
	ids := make([]catalog.ID, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}

func TestListEntriesHandler_Filters(t *testing.T) {
	b := helpers.DroneScenario()
	b.Document().Units[helpers.DroneID].Attributes["dps"] = 12.5
	cat := b.Ignore(helpers.ControlCoreID).Build()

	tests := []struct {
		name  string
		query queries.ListEntriesQuery
		want  []catalog.ID
	}{
		{
			name:  "every entry ordered by id",
			query: queries.ListEntriesQuery{},
			want: []catalog.ID{
				helpers.OreID, helpers.PlateID, helpers.PlateRecipeID, helpers.DroneRecipeID,
				helpers.SmelterSiteID, helpers.FactorySiteID, helpers.SmelterID, helpers.FactoryID,
				helpers.DroneID, helpers.ControlCoreID, helpers.TestRaceID, helpers.OtherRaceID,
			},
		},
		{
			name:  "one category",
			query: queries.ListEntriesQuery{Category: catalog.CategoryResource},
			want:  []catalog.ID{helpers.OreID, helpers.PlateID},
		},
		{
			name:  "units running recipes",
			query: queries.ListEntriesQuery{Category: catalog.CategoryUnit, Where: "len(Recipes) > 0"},
			want:  []catalog.ID{helpers.SmelterID, helpers.FactoryID},
		},
		{
			name:  "attribute presence",
			query: queries.ListEntriesQuery{Where: `Has("dps")`},
			want:  []catalog.ID{helpers.DroneID},
		},
		{
			name:  "inputs keyed by id",
			query: queries.ListEntriesQuery{Where: `Inputs["1"] >= 5`},
			want:  []catalog.ID{helpers.PlateRecipeID, helpers.FactorySiteID},
		},
		{
			name:  "ignored flag",
			query: queries.ListEntriesQuery{Where: "Ignored"},
			want:  []catalog.ID{helpers.ControlCoreID},
		},
		{
			name:  "outputs",
			query: queries.ListEntriesQuery{Category: catalog.CategoryRecipe, Where: "40 in Outputs"},
			want:  []catalog.ID{helpers.DroneRecipeID},
		},
		{
			name:  "no match",
			query: queries.ListEntriesQuery{Where: `Name == "mothership"`},
			want:  []catalog.ID{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query := tt.query
			assert.Equal(t, tt.want, listIDs(t, &query, cat))
		})
	}
}

func TestListEntriesHandler_CompileError(t *testing.T) {
	// Arrange
	handler := queries.NewListEntriesHandler(helpers.DroneScenario().Build())

	// Act
	_, err := handler.Handle(context.Background(), &queries.ListEntriesQuery{Where: "ID +"})

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), `compile filter "ID +"`)
}

func TestListEntriesHandler_RejectsNonBooleanFilter(t *testing.T) {
	handler := queries.NewListEntriesHandler(helpers.DroneScenario().Build())

	_, err := handler.Handle(context.Background(), &queries.ListEntriesQuery{Where: "ID * 2"})

	assert.Error(t, err)
}
