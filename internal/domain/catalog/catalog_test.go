package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
	"github.com/alesfranek-maf/uwapi/test/helpers"
)

func TestCatalog_ResolvesNamesWithCategorySuffixes(t *testing.T) {
	// Arrange
	cat := helpers.DroneScenario().Build()

	// Act & Assert
	id, ok := cat.ResolveID("smelter")
	require.True(t, ok)
	assert.Equal(t, helpers.SmelterID, id)

	id, ok = cat.ResolveID("smelter-construction")
	require.True(t, ok)
	assert.Equal(t, helpers.SmelterSiteID, id)

	id, ok = cat.ResolveID("plate-recipe")
	require.True(t, ok)
	assert.Equal(t, helpers.PlateRecipeID, id)

	id, ok = cat.ResolveID("plate")
	require.True(t, ok)
	assert.Equal(t, helpers.PlateID, id)

	name, ok := cat.ResolveName(helpers.FactorySiteID)
	require.True(t, ok)
	assert.Equal(t, "factory-construction", name)
}

func TestCatalog_EntryKeepsRawName(t *testing.T) {
	// Arrange
	cat := helpers.DroneScenario().Build()

	// Act
	entry, ok := cat.Entry(helpers.DroneRecipeID)

	// Assert
	require.True(t, ok)
	assert.Equal(t, catalog.CategoryRecipe, entry.Category)
	assert.Equal(t, "drone", entry.Name)
}

func TestCatalog_FirstRegisteredNameWins(t *testing.T) {
	// Arrange: a resource and a unit share a name, and two units share a name
	cat := helpers.NewCatalogBuilder().
		Resource(7, "crystal").
		Unit(3, "crystal").
		Unit(9, "scout").
		Unit(8, "scout").
		Build()

	// Act
	crystal, _ := cat.ResolveID("crystal")
	scout, _ := cat.ResolveID("scout")

	// Assert
	assert.Equal(t, catalog.ID(7), crystal, "resources register before units")
	assert.Equal(t, catalog.ID(8), scout, "lower id registers first within a category")

	// Both ids still translate back to their name
	name, ok := cat.ResolveName(3)
	require.True(t, ok)
	assert.Equal(t, "crystal", name)
}

func TestCatalog_UnnamedEntriesAreNotIndexed(t *testing.T) {
	// Arrange
	cat := helpers.NewCatalogBuilder().Resource(5, "").Build()

	// Act
	_, named := cat.ResolveName(5)
	entry, known := cat.Entry(5)

	// Assert
	assert.False(t, named)
	assert.True(t, known)
	assert.Equal(t, catalog.CategoryResource, entry.Category)
	assert.Equal(t, "?", cat.NameOr(5, "?"))
}

func TestCatalog_IgnoredIDs(t *testing.T) {
	// Arrange
	cat := helpers.DroneScenario().Ignore(helpers.PlateID, helpers.OreID).Build()

	// Act & Assert
	assert.True(t, cat.IsIgnored(helpers.PlateID))
	assert.False(t, cat.IsIgnored(helpers.DroneID))
	assert.Equal(t, []catalog.ID{helpers.OreID, helpers.PlateID}, cat.IgnoredIDs())
}

func TestCatalog_RaceByNameIsCaseInsensitive(t *testing.T) {
	// Arrange
	cat := helpers.DroneScenario().Build()

	// Act
	race, ok := cat.RaceByName("TechnoCracy")

	// Assert
	require.True(t, ok)
	assert.Equal(t, helpers.TestRaceID, race.ID)

	_, ok = cat.RaceByName("nobody")
	assert.False(t, ok)
}

type stubSource struct {
	doc *catalog.Document
	err error
}

func (s *stubSource) Load(ctx context.Context) (*catalog.Document, error) { return s.doc, s.err }
func (s *stubSource) Describe() string                                   { return "stub" }

func TestLoad_WrapsSourceFailureInLoadError(t *testing.T) {
	// Arrange
	cause := errors.New("disk on fire")
	src := &stubSource{err: cause}

	// Act
	cat, err := catalog.Load(context.Background(), src, catalog.Options{})

	// Assert
	assert.Nil(t, cat)
	var loadErr *catalog.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "stub", loadErr.Source)
	assert.ErrorIs(t, err, cause)
}

func TestLoad_RejectsEmptyDocument(t *testing.T) {
	// Arrange
	src := &stubSource{doc: catalog.NewDocument()}

	// Act
	_, err := catalog.Load(context.Background(), src, catalog.Options{})

	// Assert
	var loadErr *catalog.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, err.Error(), "no prototypes")
}

func TestLoad_IndexesDocument(t *testing.T) {
	// Arrange
	src := &stubSource{doc: helpers.DroneScenario().Document()}

	// Act
	cat, err := catalog.Load(context.Background(), src, catalog.Options{IgnoredIDs: []catalog.ID{99}})

	// Assert
	require.NoError(t, err)
	assert.Len(t, cat.Units(), 4)
	assert.True(t, cat.IsIgnored(99))
}

func TestScope_String(t *testing.T) {
	assert.Equal(t, "global", catalog.Global().String())
	assert.Equal(t, "race:60", catalog.RaceScope(60).String())

	race, restricted := catalog.RaceScope(60).Race()
	assert.True(t, restricted)
	assert.Equal(t, catalog.ID(60), race)
	assert.True(t, catalog.Scope{}.IsGlobal())
}
