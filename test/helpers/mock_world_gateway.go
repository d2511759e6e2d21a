package helpers

import (
	"context"
	"sync"

	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
	"github.com/alesfranek-maf/uwapi/internal/domain/world"
)

// MockWorldGateway is a scripted world.Gateway. Entities are returned as set;
// placements succeed at Position unless an error or NotFound is configured.
type MockWorldGateway struct {
	mu sync.Mutex

	Entities     []world.Entity
	EntitiesErr  error
	Position     world.Position
	NotFound     bool
	PlacementErr error
	PlaceErr     error
	RecipeErr    error

	Placed     []catalog.ID
	RecipesSet map[world.EntityID]catalog.ID
}

// NewMockWorldGateway creates a gateway returning entities and placing at tile 1
func NewMockWorldGateway(entities ...world.Entity) *MockWorldGateway {
	return &MockWorldGateway{
		Entities:   entities,
		Position:   1,
		RecipesSet: make(map[world.EntityID]catalog.ID),
	}
}

// OwnEntities implements world.Gateway
func (m *MockWorldGateway) OwnEntities(ctx context.Context, force world.ForceID) ([]world.Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.EntitiesErr != nil {
		return nil, m.EntitiesErr
	}
	out := make([]world.Entity, 0, len(m.Entities))
	for _, e := range m.Entities {
		if e.Owner == force {
			out = append(out, e)
		}
	}
	return out, nil
}

// FindConstructionPlacement implements world.Gateway
func (m *MockWorldGateway) FindConstructionPlacement(ctx context.Context, construction catalog.ID, near world.Position, recipe catalog.ID) (world.Position, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PlacementErr != nil {
		return 0, false, m.PlacementErr
	}
	if m.NotFound {
		return 0, false, nil
	}
	return m.Position, true, nil
}

// PlaceConstruction implements world.Gateway
func (m *MockWorldGateway) PlaceConstruction(ctx context.Context, construction catalog.ID, pos world.Position, recipe catalog.ID, priority world.Priority) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PlaceErr != nil {
		return m.PlaceErr
	}
	m.Placed = append(m.Placed, construction)
	return nil
}

// SetRecipe implements world.Gateway
func (m *MockWorldGateway) SetRecipe(ctx context.Context, entity world.EntityID, recipe catalog.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RecipeErr != nil {
		return m.RecipeErr
	}
	m.RecipesSet[entity] = recipe
	return nil
}
