package world

import "github.com/alesfranek-maf/uwapi/internal/domain/catalog"

// EntityKind classifies a live entity by its prototype
type EntityKind int

const (
	KindOther EntityKind = iota
	KindBuilding
	KindConstruction
	KindCombat
)

// KindOf classifies e against the catalog. Construction sites are never units;
// a unit is a building when its prototype carries building traits.
func KindOf(cat *catalog.Catalog, e Entity) EntityKind {
	if !e.IsUnit {
		if _, ok := cat.Constructions()[e.Proto]; ok {
			return KindConstruction
		}
		return KindOther
	}
	u, ok := cat.Units()[e.Proto]
	if !ok {
		return KindOther
	}
	if u.IsBuilding() {
		return KindBuilding
	}
	return KindCombat
}

// Filter selects entities of one kind. NoID proto or recipe matches anything.
type Filter struct {
	Kind   EntityKind
	Proto  catalog.ID
	Recipe catalog.ID
}

// Select returns the entities matching f, in input order
func Select(cat *catalog.Catalog, entities []Entity, f Filter) []Entity {
	var out []Entity
	for _, e := range entities {
		if KindOf(cat, e) != f.Kind {
			continue
		}
		if f.Proto.Valid() && e.Proto != f.Proto {
			continue
		}
		if f.Recipe.Valid() && e.Recipe != f.Recipe {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Buildings returns own finished buildings, optionally of one proto running one recipe
func Buildings(cat *catalog.Catalog, entities []Entity, proto, recipe catalog.ID) []Entity {
	return Select(cat, entities, Filter{Kind: KindBuilding, Proto: proto, Recipe: recipe})
}

// Constructions returns active construction sites, optionally of one proto preset with one recipe
func Constructions(cat *catalog.Catalog, entities []Entity, proto, recipe catalog.ID) []Entity {
	return Select(cat, entities, Filter{Kind: KindConstruction, Proto: proto, Recipe: recipe})
}

// CombatUnits returns own combat units, optionally of one proto
func CombatUnits(cat *catalog.Catalog, entities []Entity, proto catalog.ID) []Entity {
	return Select(cat, entities, Filter{Kind: KindCombat, Proto: proto, Recipe: catalog.NoID})
}
