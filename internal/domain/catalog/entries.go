package catalog

import "sort"

// Quantities maps a resource or unit id to an integer amount
type Quantities map[ID]int

// Clone returns an independent copy
func (q Quantities) Clone() Quantities {
	out := make(Quantities, len(q))
	for id, n := range q {
		out[id] = n
	}
	return out
}

// SortedIDs returns the keys in ascending order
func (q Quantities) SortedIDs() []ID {
	ids := make([]ID, 0, len(q))
	for id := range q {
		ids = append(ids, id)
	}
	sortIDs(ids)
	return ids
}

// Unit is a unit prototype: either a static building that runs recipes or a
// combat unit produced by a recipe.
type Unit struct {
	ID             ID
	Name           string
	Recipes        []ID
	BuildingRadius *float64

	// Attributes keeps the remaining prototype fields (dps, speed, ...)
	Attributes map[string]any
}

// IsBuilding reports whether the unit carries building traits
func (u *Unit) IsBuilding() bool {
	return u.BuildingRadius != nil || len(u.Recipes) > 0
}

// CanRun reports whether the building lists the recipe
func (u *Unit) CanRun(recipe ID) bool {
	for _, r := range u.Recipes {
		if r == recipe {
			return true
		}
	}
	return false
}

// Construction is the one-time build of a building
type Construction struct {
	ID        ID
	Name      string
	Output    ID
	Inputs    Quantities
	PlaceOver ID
}

// Recipe consumes Inputs per production cycle and yields Outputs
type Recipe struct {
	ID        ID
	Name      string
	Inputs    Quantities
	Outputs   []ID
	PlaceOver ID
}

// Produces reports whether the recipe lists id among its outputs
func (r *Recipe) Produces(id ID) bool {
	for _, out := range r.Outputs {
		if out == id {
			return true
		}
	}
	return false
}

// Resource is a consumable produced by recipes or supplied from outside
type Resource struct {
	ID   ID
	Name string
}

// Race owns a list of constructions available to its players
type Race struct {
	ID            ID
	Name          string
	Constructions []ID
}

// Upgrade is only tracked for name resolution
type Upgrade struct {
	ID   ID
	Name string
}

func sortIDs(ids []ID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
