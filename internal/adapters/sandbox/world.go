package sandbox

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
	"github.com/alesfranek-maf/uwapi/internal/domain/world"
)

// Command kinds recorded by the sandbox
const (
	CommandPlace     = "place_construction"
	CommandSetRecipe = "set_recipe"
)

// Command is one world command accepted by the sandbox
type Command struct {
	ID           string
	Kind         string
	Entity       world.EntityID
	Construction catalog.ID
	Recipe       catalog.ID
	Position     world.Position
	Priority     world.Priority
}

// World is an in-memory world.Gateway. Placements always succeed at the
// next free tile unless a construction is marked unplaceable.
type World struct {
	mu sync.Mutex

	force    world.ForceID
	entities map[world.EntityID]*world.Entity
	nextID   world.EntityID
	nextTile world.Position

	unplaceable map[catalog.ID]struct{}
	failNext    error
	commands    []Command
}

// NewWorld creates an empty world in which placed constructions belong to force
func NewWorld(force world.ForceID) *World {
	return &World{
		force:       force,
		entities:    make(map[world.EntityID]*world.Entity),
		nextID:      1,
		nextTile:    1,
		unplaceable: make(map[catalog.ID]struct{}),
	}
}

// Spawn adds an entity owned by owner and returns its id
func (s *World) Spawn(owner world.ForceID, proto catalog.ID, recipe catalog.ID, isUnit bool) world.EntityID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spawn(owner, proto, recipe, isUnit)
}

func (s *World) spawn(owner world.ForceID, proto catalog.ID, recipe catalog.ID, isUnit bool) world.EntityID {
	id := s.nextID
	s.nextID++
	s.entities[id] = &world.Entity{
		ID:       id,
		Owner:    owner,
		Proto:    proto,
		Recipe:   recipe,
		Position: s.allocateTile(),
		IsUnit:   isUnit,
	}
	return id
}

// MarkUnplaceable makes FindConstructionPlacement report no spot for construction
func (s *World) MarkUnplaceable(construction catalog.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unplaceable[construction] = struct{}{}
}

// FailNextCommand makes the next place or set-recipe command return err
func (s *World) FailNextCommand(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = err
}

// Commands returns the accepted commands in order
func (s *World) Commands() []Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Command(nil), s.commands...)
}

// Entity returns a snapshot of one entity
func (s *World) Entity(id world.EntityID) (world.Entity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entities[id]
	if !ok {
		return world.Entity{}, false
	}
	return *e, true
}

// CompleteConstructions turns every construction site into its finished
// building, keeping the preset recipe. Returns the number completed.
func (s *World) CompleteConstructions(cat *catalog.Catalog) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.entities {
		if e.IsUnit {
			continue
		}
		c, ok := cat.Constructions()[e.Proto]
		if !ok || !c.Output.Valid() {
			continue
		}
		e.Proto = c.Output
		e.IsUnit = true
		n++
	}
	return n
}

// OwnEntities lists entities owned by force, ordered by id
func (s *World) OwnEntities(ctx context.Context, force world.ForceID) ([]world.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]world.Entity, 0, len(s.entities))
	for _, e := range s.entities {
		if e.Owner == force {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// FindConstructionPlacement returns the next free tile
func (s *World) FindConstructionPlacement(
	ctx context.Context,
	construction catalog.ID,
	near world.Position,
	recipe catalog.ID,
) (world.Position, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, blocked := s.unplaceable[construction]; blocked {
		return 0, false, nil
	}
	if s.nextTile <= near {
		s.nextTile = near + 1
	}
	return s.nextTile, true, nil
}

// PlaceConstruction creates a construction site owned by the sandbox force
func (s *World) PlaceConstruction(
	ctx context.Context,
	construction catalog.ID,
	pos world.Position,
	recipe catalog.ID,
	priority world.Priority,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return err
	}
	if !pos.Valid() {
		return fmt.Errorf("invalid position %d", pos)
	}
	id := s.spawn(s.force, construction, recipe, false)
	s.entities[id].Position = pos
	s.commands = append(s.commands, Command{
		ID:           uuid.New().String(),
		Kind:         CommandPlace,
		Entity:       id,
		Construction: construction,
		Recipe:       recipe,
		Position:     pos,
		Priority:     priority,
	})
	return nil
}

// SetRecipe assigns a recipe to an existing entity
func (s *World) SetRecipe(ctx context.Context, entity world.EntityID, recipe catalog.ID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return err
	}
	e, ok := s.entities[entity]
	if !ok {
		return fmt.Errorf("entity %d not found", entity)
	}
	e.Recipe = recipe
	s.commands = append(s.commands, Command{
		ID:     uuid.New().String(),
		Kind:   CommandSetRecipe,
		Entity: entity,
		Recipe: recipe,
	})
	return nil
}

func (s *World) takeFailure() error {
	err := s.failNext
	s.failNext = nil
	return err
}

func (s *World) allocateTile() world.Position {
	p := s.nextTile
	s.nextTile++
	return p
}
