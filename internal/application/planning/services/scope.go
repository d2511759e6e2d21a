package services

import (
	"strings"

	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
)

// ScopeFor maps a race name to its scope. An empty name or "global" plans
// over the whole catalog.
func ScopeFor(cat *catalog.Catalog, race string) (catalog.Scope, error) {
	race = strings.TrimSpace(race)
	if race == "" || strings.EqualFold(race, "global") {
		return catalog.Global(), nil
	}
	r, ok := cat.RaceByName(race)
	if !ok {
		return catalog.Global(), &catalog.ErrUnknownRace{Name: race}
	}
	return catalog.RaceScope(r.ID), nil
}
