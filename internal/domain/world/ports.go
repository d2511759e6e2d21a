package world

import (
	"context"

	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
)

// Gateway is the live world and command layer of the game connection
type Gateway interface {
	// OwnEntities lists entities owned by force
	OwnEntities(ctx context.Context, force ForceID) ([]Entity, error)

	// FindConstructionPlacement looks for a valid spot near a position.
	// ok is false when no placement exists.
	FindConstructionPlacement(ctx context.Context, construction catalog.ID, near Position, recipe catalog.ID) (pos Position, ok bool, err error)

	// PlaceConstruction orders a construction at pos, optionally preset with a recipe
	PlaceConstruction(ctx context.Context, construction catalog.ID, pos Position, recipe catalog.ID, priority Priority) error

	// SetRecipe assigns a recipe to an entity
	SetRecipe(ctx context.Context, entity EntityID, recipe catalog.ID) error
}
