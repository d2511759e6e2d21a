package helpers

import (
	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
)

// Ids of the drone scenario catalog
const (
	OreID         catalog.ID = 1
	PlateID       catalog.ID = 2
	PlateRecipeID catalog.ID = 10
	DroneRecipeID catalog.ID = 11
	SmelterSiteID catalog.ID = 20
	FactorySiteID catalog.ID = 21
	SmelterID     catalog.ID = 30
	FactoryID     catalog.ID = 31
	DroneID       catalog.ID = 40
	ControlCoreID catalog.ID = 50
	TestRaceID    catalog.ID = 60
	OtherRaceID   catalog.ID = 61
)

// CatalogBuilder assembles small catalogs for tests
type CatalogBuilder struct {
	doc     *catalog.Document
	ignored []catalog.ID
}

// NewCatalogBuilder creates an empty builder
func NewCatalogBuilder() *CatalogBuilder {
	return &CatalogBuilder{doc: catalog.NewDocument()}
}

// Resource adds a resource
func (b *CatalogBuilder) Resource(id catalog.ID, name string) *CatalogBuilder {
	b.doc.Resources[id] = &catalog.Resource{ID: id, Name: name}
	return b
}

// Recipe adds a recipe
func (b *CatalogBuilder) Recipe(id catalog.ID, name string, inputs catalog.Quantities, outputs ...catalog.ID) *CatalogBuilder {
	if inputs == nil {
		inputs = catalog.Quantities{}
	}
	b.doc.Recipes[id] = &catalog.Recipe{
		ID:        id,
		Name:      name,
		Inputs:    inputs,
		Outputs:   outputs,
		PlaceOver: catalog.NoID,
	}
	return b
}

// Construction adds a construction building output
func (b *CatalogBuilder) Construction(id catalog.ID, name string, output catalog.ID, inputs catalog.Quantities) *CatalogBuilder {
	if inputs == nil {
		inputs = catalog.Quantities{}
	}
	b.doc.Constructions[id] = &catalog.Construction{
		ID:        id,
		Name:      name,
		Output:    output,
		Inputs:    inputs,
		PlaceOver: catalog.NoID,
	}
	return b
}

// Building adds a unit with building traits running recipes
func (b *CatalogBuilder) Building(id catalog.ID, name string, recipes ...catalog.ID) *CatalogBuilder {
	radius := 2.0
	b.doc.Units[id] = &catalog.Unit{
		ID:             id,
		Name:           name,
		Recipes:        recipes,
		BuildingRadius: &radius,
		Attributes:     map[string]any{},
	}
	return b
}

// Unit adds a combat unit
func (b *CatalogBuilder) Unit(id catalog.ID, name string) *CatalogBuilder {
	b.doc.Units[id] = &catalog.Unit{ID: id, Name: name, Attributes: map[string]any{}}
	return b
}

// Race adds a race owning constructions
func (b *CatalogBuilder) Race(id catalog.ID, name string, constructions ...catalog.ID) *CatalogBuilder {
	b.doc.Races[id] = &catalog.Race{ID: id, Name: name, Constructions: constructions}
	return b
}

// Upgrade adds an upgrade
func (b *CatalogBuilder) Upgrade(id catalog.ID, name string) *CatalogBuilder {
	b.doc.Upgrades[id] = &catalog.Upgrade{ID: id, Name: name}
	return b
}

// Ignore adds ids to the ignore set of the built catalog
func (b *CatalogBuilder) Ignore(ids ...catalog.ID) *CatalogBuilder {
	b.ignored = append(b.ignored, ids...)
	return b
}

// Document returns the assembled document
func (b *CatalogBuilder) Document() *catalog.Document {
	return b.doc
}

// Build indexes the assembled document
func (b *CatalogBuilder) Build() *catalog.Catalog {
	return catalog.New(b.doc, catalog.Options{IgnoredIDs: b.ignored})
}

// DroneScenario is the smallest complete production chain: a factory builds
// drones from plates, a smelter turns ore into plates and ore has no producer.
// The control core is a base building without recipes.
func DroneScenario() *CatalogBuilder {
	return NewCatalogBuilder().
		Resource(OreID, "ore").
		Resource(PlateID, "plate").
		Recipe(PlateRecipeID, "plate", catalog.Quantities{OreID: 5}, PlateID).
		Recipe(DroneRecipeID, "drone", catalog.Quantities{PlateID: 3}, DroneID).
		Construction(SmelterSiteID, "smelter", SmelterID, catalog.Quantities{PlateID: 2}).
		Construction(FactorySiteID, "factory", FactoryID, catalog.Quantities{OreID: 10}).
		Building(SmelterID, "smelter", PlateRecipeID).
		Building(FactoryID, "factory", DroneRecipeID).
		Building(ControlCoreID, "control core").
		Unit(DroneID, "drone").
		Race(TestRaceID, "technocracy", SmelterSiteID, FactorySiteID).
		Race(OtherRaceID, "kislamite")
}

// DroneScenarioJSON is the drone scenario in prototypes file form
const DroneScenarioJSON = `{
  "Resource": {
    "1": {"id": 1, "name": "ore"},
    "2": {"id": 2, "name": "plate"}
  },
  "Recipe": {
    "10": {"id": 10, "name": "plate", "inputs": {"1": 5}, "outputs": {"2": 1}},
    "11": {"id": 11, "name": "drone", "inputs": {"2": 3}, "outputs": {"40": 1}}
  },
  "Construction": {
    "20": {"id": 20, "name": "smelter", "output": 30, "inputs": {"2": 2}},
    "21": {"id": 21, "name": "factory", "output": 31, "inputs": {"1": 10}}
  },
  "Unit": {
    "30": {"id": 30, "name": "smelter", "recipes": [10], "buildingRadius": 2},
    "31": {"id": 31, "name": "factory", "recipes": [11], "buildingRadius": 2},
    "40": {"id": 40, "name": "drone", "dps": 12.5},
    "50": {"id": 50, "name": "control core", "buildingRadius": 3}
  },
  "Race": {
    "60": {"id": 60, "name": "technocracy", "constructions": [20, 21]},
    "61": {"id": 61, "name": "kislamite", "constructions": []}
  }
}`
