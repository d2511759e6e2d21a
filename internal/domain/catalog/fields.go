package catalog

// Fields renders an entry back into the raw document shape accepted by
// ParseEntry. Recipe output counts are not kept by the typed model and are
// rendered as 1.
func (d *Document) Fields(category Category, id ID) (map[string]any, bool) {
	switch category {
	case CategoryUnit:
		u, ok := d.Units[id]
		if !ok {
			return nil, false
		}
		fields := make(map[string]any, len(u.Attributes)+4)
		for k, v := range u.Attributes {
			fields[k] = v
		}
		fields["id"] = int64(u.ID)
		fields["name"] = u.Name
		if len(u.Recipes) > 0 {
			fields["recipes"] = idsToList(u.Recipes)
		}
		if u.BuildingRadius != nil {
			fields["buildingRadius"] = *u.BuildingRadius
		}
		return fields, true

	case CategoryConstruction:
		c, ok := d.Constructions[id]
		if !ok {
			return nil, false
		}
		fields := map[string]any{
			"id":     int64(c.ID),
			"name":   c.Name,
			"inputs": quantitiesToMap(c.Inputs),
		}
		if c.Output.Valid() {
			fields["output"] = int64(c.Output)
		}
		if c.PlaceOver.Valid() {
			fields["placeOver"] = int64(c.PlaceOver)
		}
		return fields, true

	case CategoryRecipe:
		r, ok := d.Recipes[id]
		if !ok {
			return nil, false
		}
		outputs := make(map[string]any, len(r.Outputs))
		for _, out := range r.Outputs {
			outputs[out.String()] = 1
		}
		fields := map[string]any{
			"id":      int64(r.ID),
			"name":    r.Name,
			"inputs":  quantitiesToMap(r.Inputs),
			"outputs": outputs,
		}
		if r.PlaceOver.Valid() {
			fields["placeOver"] = int64(r.PlaceOver)
		}
		return fields, true

	case CategoryResource:
		r, ok := d.Resources[id]
		if !ok {
			return nil, false
		}
		return map[string]any{"id": int64(r.ID), "name": r.Name}, true

	case CategoryRace:
		r, ok := d.Races[id]
		if !ok {
			return nil, false
		}
		return map[string]any{
			"id":            int64(r.ID),
			"name":          r.Name,
			"constructions": idsToList(r.Constructions),
		}, true

	case CategoryUpgrade:
		u, ok := d.Upgrades[id]
		if !ok {
			return nil, false
		}
		return map[string]any{"id": int64(u.ID), "name": u.Name}, true
	}
	return nil, false
}

// IDs returns the entry ids of one category in ascending order
func (d *Document) IDs(category Category) []ID {
	switch category {
	case CategoryUnit:
		return SortedKeys(d.Units)
	case CategoryConstruction:
		return SortedKeys(d.Constructions)
	case CategoryRecipe:
		return SortedKeys(d.Recipes)
	case CategoryResource:
		return SortedKeys(d.Resources)
	case CategoryRace:
		return SortedKeys(d.Races)
	case CategoryUpgrade:
		return SortedKeys(d.Upgrades)
	}
	return nil
}

func idsToList(ids []ID) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}

func quantitiesToMap(q Quantities) map[string]any {
	out := make(map[string]any, len(q))
	for id, n := range q {
		out[id.String()] = n
	}
	return out
}
