package catalog_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
	"github.com/alesfranek-maf/uwapi/test/helpers"
)

func decode(t *testing.T, raw string) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return out
}

func TestParseDocument_DroneScenario(t *testing.T) {
	// Arrange
	raw := decode(t, helpers.DroneScenarioJSON)

	// Act
	doc, err := catalog.ParseDocument("fixture", raw)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 12, doc.Size())

	recipe := doc.Recipes[helpers.DroneRecipeID]
	require.NotNil(t, recipe)
	assert.Equal(t, catalog.Quantities{helpers.PlateID: 3}, recipe.Inputs)
	assert.Equal(t, []catalog.ID{helpers.DroneID}, recipe.Outputs)
	assert.Equal(t, catalog.NoID, recipe.PlaceOver)

	smelter := doc.Units[helpers.SmelterID]
	require.NotNil(t, smelter)
	assert.True(t, smelter.IsBuilding())
	assert.True(t, smelter.CanRun(helpers.PlateRecipeID))

	drone := doc.Units[helpers.DroneID]
	require.NotNil(t, drone)
	assert.False(t, drone.IsBuilding())
	assert.Equal(t, 12.5, drone.Attributes["dps"])

	site := doc.Constructions[helpers.SmelterSiteID]
	require.NotNil(t, site)
	assert.Equal(t, helpers.SmelterID, site.Output)

	assert.Equal(t, []catalog.ID{helpers.SmelterSiteID, helpers.FactorySiteID}, doc.Races[helpers.TestRaceID].Constructions)
}

func TestParseDocument_SkipsUnknownGroups(t *testing.T) {
	// Arrange
	raw := decode(t, `{"Resource": {"1": {"name": "ore"}}, "Sound": {"5": {"name": "boom"}}}`)

	// Act
	doc, err := catalog.ParseDocument("fixture", raw)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Size())
}

func TestParseDocument_RejectsMalformedEntries(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"non-numeric key", `{"Resource": {"ore": {"name": "ore"}}}`},
		{"id mismatch", `{"Resource": {"1": {"id": 2, "name": "ore"}}}`},
		{"fractional quantity", `{"Recipe": {"10": {"inputs": {"1": 2.5}, "outputs": {"2": 1}}}}`},
		{"negative quantity", `{"Recipe": {"10": {"inputs": {"1": -1}, "outputs": {"2": 1}}}}`},
		{"zero recipe input", `{"Recipe": {"10": {"inputs": {"1": 0}, "outputs": {"2": 1}}}}`},
		{"zero construction input", `{"Construction": {"20": {"inputs": {"2": 0}, "output": 30}}}`},
		{"inputs not a mapping", `{"Construction": {"20": {"inputs": [1, 2], "output": 30}}}`},
		{"recipes not a list", `{"Unit": {"30": {"recipes": {"10": 1}}}}`},
		{"group not a mapping", `{"Unit": [1, 2, 3]}`},
		{"entry not an object", `{"Unit": {"30": "smelter"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			raw := decode(t, tt.raw)

			// Act
			doc, err := catalog.ParseDocument("fixture", raw)

			// Assert
			assert.Nil(t, doc)
			var loadErr *catalog.LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Equal(t, "fixture", loadErr.Source)
		})
	}
}

func TestParseDocument_AcceptsYAMLStyleKeys(t *testing.T) {
	// Arrange: yaml decodes numeric keys into interface-keyed maps
	raw := map[string]any{
		"Recipe": map[any]any{
			10: map[string]any{
				"name":    "plate",
				"inputs":  map[any]any{1: 5},
				"outputs": map[any]any{2: 1},
			},
		},
	}

	// Act
	doc, err := catalog.ParseDocument("yaml", raw)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, catalog.Quantities{1: 5}, doc.Recipes[10].Inputs)
	assert.Equal(t, []catalog.ID{2}, doc.Recipes[10].Outputs)
}

func TestDocument_FieldsRoundTrip(t *testing.T) {
	// Arrange
	original, err := catalog.ParseDocument("fixture", decode(t, helpers.DroneScenarioJSON))
	require.NoError(t, err)
	rebuilt := catalog.NewDocument()

	// Act
	for _, category := range catalog.RegistrationOrder {
		for _, id := range original.IDs(category) {
			fields, ok := original.Fields(category, id)
			require.True(t, ok)
			require.NoError(t, rebuilt.ParseEntry(category, id.String(), fields))
		}
	}

	// Assert
	assert.Equal(t, original, rebuilt)
}

func TestDocument_FieldsUnknownID(t *testing.T) {
	doc := helpers.DroneScenario().Document()

	_, ok := doc.Fields(catalog.CategoryUnit, 999)

	assert.False(t, ok)
}

func TestParseID(t *testing.T) {
	id, err := catalog.ParseID(" 42 ")
	require.NoError(t, err)
	assert.Equal(t, catalog.ID(42), id)

	_, err = catalog.ParseID("-3")
	assert.Error(t, err)

	_, err = catalog.ParseID("tank")
	assert.Error(t, err)
}

func TestParseCategory(t *testing.T) {
	c, ok := catalog.ParseCategory("construction")
	assert.True(t, ok)
	assert.Equal(t, catalog.CategoryConstruction, c)

	_, ok = catalog.ParseCategory("Sound")
	assert.False(t, ok)
}
