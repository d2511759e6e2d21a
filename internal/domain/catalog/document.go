package catalog

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Document is the typed form of a catalog source, before indexing
type Document struct {
	Units         map[ID]*Unit
	Constructions map[ID]*Construction
	Recipes       map[ID]*Recipe
	Resources     map[ID]*Resource
	Races         map[ID]*Race
	Upgrades      map[ID]*Upgrade
}

// NewDocument returns an empty document
func NewDocument() *Document {
	return &Document{
		Units:         make(map[ID]*Unit),
		Constructions: make(map[ID]*Construction),
		Recipes:       make(map[ID]*Recipe),
		Resources:     make(map[ID]*Resource),
		Races:         make(map[ID]*Race),
		Upgrades:      make(map[ID]*Upgrade),
	}
}

// Size returns the number of entries across all categories
func (d *Document) Size() int {
	return len(d.Units) + len(d.Constructions) + len(d.Recipes) +
		len(d.Resources) + len(d.Races) + len(d.Upgrades)
}

// ParseDocument converts a decoded prototypes document
// ({"Unit": {"<id>": {...}}, ...}) into typed entries. Unknown groups are
// skipped; malformed entries fail the whole document.
func ParseDocument(source string, raw map[string]any) (*Document, error) {
	doc := NewDocument()
	for group, rawItems := range raw {
		category, ok := ParseCategory(group)
		if !ok {
			continue
		}
		items, ok := asMap(rawItems)
		if !ok {
			return nil, &LoadError{Source: source, Reason: fmt.Sprintf("group %s is not a mapping", group)}
		}
		for key, rawEntry := range items {
			fields, ok := asMap(rawEntry)
			if !ok {
				return nil, &LoadError{Source: source, Reason: fmt.Sprintf("%s %s is not an object", category, key)}
			}
			if err := doc.add(category, key, fields); err != nil {
				return nil, &LoadError{Source: source, Reason: fmt.Sprintf("%s %s", category, key), Err: err}
			}
		}
	}
	return doc, nil
}

// ParseEntry decodes a single entry of a category. Used by row-based sources.
func (d *Document) ParseEntry(category Category, key string, fields map[string]any) error {
	return d.add(category, key, fields)
}

func (d *Document) add(category Category, key string, fields map[string]any) error {
	id, err := entryID(key, fields)
	if err != nil {
		return err
	}
	name, _ := fields["name"].(string)

	switch category {
	case CategoryUnit:
		recipes, err := idList(fields["recipes"])
		if err != nil {
			return fmt.Errorf("recipes: %w", err)
		}
		unit := &Unit{ID: id, Name: name, Recipes: recipes, Attributes: make(map[string]any)}
		if v, ok := fields["buildingRadius"]; ok && v != nil {
			radius, err := toFloat(v)
			if err != nil {
				return fmt.Errorf("buildingRadius: %w", err)
			}
			unit.BuildingRadius = &radius
		}
		for k, v := range fields {
			switch k {
			case "id", "name", "recipes", "buildingRadius":
			default:
				unit.Attributes[k] = v
			}
		}
		d.Units[id] = unit

	case CategoryConstruction:
		inputs, err := quantities(fields["inputs"])
		if err != nil {
			return fmt.Errorf("inputs: %w", err)
		}
		output := NoID
		if v, ok := fields["output"]; ok && v != nil {
			n, err := toInt(v)
			if err != nil {
				return fmt.Errorf("output: %w", err)
			}
			output = ID(n)
		}
		placeOver, err := optionalID(fields["placeOver"])
		if err != nil {
			return fmt.Errorf("placeOver: %w", err)
		}
		d.Constructions[id] = &Construction{ID: id, Name: name, Output: output, Inputs: inputs, PlaceOver: placeOver}

	case CategoryRecipe:
		inputs, err := quantities(fields["inputs"])
		if err != nil {
			return fmt.Errorf("inputs: %w", err)
		}
		outputs, err := keyIDs(fields["outputs"])
		if err != nil {
			return fmt.Errorf("outputs: %w", err)
		}
		placeOver, err := optionalID(fields["placeOver"])
		if err != nil {
			return fmt.Errorf("placeOver: %w", err)
		}
		d.Recipes[id] = &Recipe{ID: id, Name: name, Inputs: inputs, Outputs: outputs, PlaceOver: placeOver}

	case CategoryResource:
		d.Resources[id] = &Resource{ID: id, Name: name}

	case CategoryRace:
		constructions, err := idList(fields["constructions"])
		if err != nil {
			return fmt.Errorf("constructions: %w", err)
		}
		d.Races[id] = &Race{ID: id, Name: name, Constructions: constructions}

	case CategoryUpgrade:
		d.Upgrades[id] = &Upgrade{ID: id, Name: name}
	}
	return nil
}

func entryID(key string, fields map[string]any) (ID, error) {
	keyID, err := ParseID(key)
	if err != nil {
		return NoID, err
	}
	v, ok := fields["id"]
	if !ok || v == nil {
		return keyID, nil
	}
	n, err := toInt(v)
	if err != nil {
		return NoID, fmt.Errorf("id: %w", err)
	}
	if ID(n) != keyID {
		return NoID, fmt.Errorf("id %d does not match key %s", n, key)
	}
	return keyID, nil
}

func optionalID(v any) (ID, error) {
	if v == nil {
		return NoID, nil
	}
	n, err := toInt(v)
	if err != nil {
		return NoID, err
	}
	return ID(n), nil
}

// quantities decodes an {"<id>": count} input mapping. Counts must be positive integers.
func quantities(v any) (Quantities, error) {
	out := make(Quantities)
	if v == nil {
		return out, nil
	}
	m, ok := asMap(v)
	if !ok {
		return nil, fmt.Errorf("expected mapping, got %T", v)
	}
	for k, raw := range m {
		id, err := ParseID(k)
		if err != nil {
			return nil, err
		}
		n, err := toInt(raw)
		if err != nil {
			return nil, fmt.Errorf("quantity for %s: %w", k, err)
		}
		if n < 1 {
			return nil, fmt.Errorf("quantity for %s: must be positive, got %d", k, n)
		}
		out[id] = int(n)
	}
	return out, nil
}

func keyIDs(v any) ([]ID, error) {
	if v == nil {
		return nil, nil
	}
	m, ok := asMap(v)
	if !ok {
		return nil, fmt.Errorf("expected mapping, got %T", v)
	}
	ids := make([]ID, 0, len(m))
	for k := range m {
		id, err := ParseID(k)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	sortIDs(ids)
	return ids, nil
}

func idList(v any) ([]ID, error) {
	if v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected list, got %T", v)
	}
	ids := make([]ID, 0, len(items))
	for _, item := range items {
		n, err := toInt(item)
		if err != nil {
			return nil, err
		}
		ids = append(ids, ID(n))
	}
	return ids, nil
}

// asMap accepts both string-keyed maps (JSON) and the interface-keyed maps
// yaml produces for numeric keys.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func toInt(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint32:
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("value %d out of range", n)
		}
		return int64(n), nil
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, fmt.Errorf("non-integer value %v", n)
		}
		return int64(n), nil
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		f, err := n.Float64()
		if err != nil {
			return 0, err
		}
		return toInt(f)
	case string:
		return strconv.ParseInt(n, 10, 64)
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	default:
		return 0, fmt.Errorf("expected number, got %T", v)
	}
}
