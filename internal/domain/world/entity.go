package world

import (
	"fmt"

	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
)

// EntityID identifies a live entity in the game world
type EntityID uint32

// ForceID identifies a player's force
type ForceID uint32

// Position is a map tile handle. Zero is never a valid placement.
type Position uint32

// Valid reports whether the position can be used for placement
func (p Position) Valid() bool {
	return p > 0
}

// Priority of a placed construction
type Priority int

const (
	PriorityDisabled Priority = iota
	PriorityNormal
	PriorityHigh
)

// Entity is the plain snapshot of a live entity. Gateways convert their own
// handles into this shape before anything reaches the planner.
type Entity struct {
	ID       EntityID
	Owner    ForceID
	Proto    catalog.ID
	Recipe   catalog.ID // catalog.NoID when the entity runs no recipe
	Position Position
	IsUnit   bool
}

// HasRecipe reports whether the entity has a recipe assigned
func (e Entity) HasRecipe() bool {
	return e.Recipe.Valid()
}

func (e Entity) String() string {
	return fmt.Sprintf("entity %d (proto %d)", e.ID, e.Proto)
}

// Session carries the force and race a bot acts for. It is created by the
// session owner once the game has been configured.
type Session struct {
	Force ForceID
	Race  catalog.ID
}

// Scope returns the race scope of the session
func (s Session) Scope() catalog.Scope {
	if !s.Race.Valid() {
		return catalog.Global()
	}
	return catalog.RaceScope(s.Race)
}
