package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// ID identifies a prototype. Ids are unique across all categories.
type ID int64

// NoID marks an absent identifier (e.g. a production step without a recipe).
const NoID ID = -1

// Valid reports whether the id refers to a prototype slot
func (id ID) Valid() bool {
	return id >= 0
}

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseID parses the string-encoded ids used as document keys
func ParseID(s string) (ID, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return NoID, fmt.Errorf("invalid prototype id %q: %w", s, err)
	}
	if n < 0 {
		return NoID, fmt.Errorf("invalid prototype id %q: negative", s)
	}
	return ID(n), nil
}

// Category is the prototype group an entry belongs to
type Category string

const (
	CategoryUnit         Category = "Unit"
	CategoryConstruction Category = "Construction"
	CategoryRecipe       Category = "Recipe"
	CategoryResource     Category = "Resource"
	CategoryRace         Category = "Race"
	CategoryUpgrade      Category = "Upgrade"
)

// RegistrationOrder is the category priority used when building the name index.
// A name registered by an earlier category keeps its id when a later category
// registers the same name.
var RegistrationOrder = []Category{
	CategoryUpgrade,
	CategoryRecipe,
	CategoryConstruction,
	CategoryResource,
	CategoryRace,
	CategoryUnit,
}

// ParseCategory matches a document group name case-insensitively
func ParseCategory(name string) (Category, bool) {
	for _, c := range RegistrationOrder {
		if strings.EqualFold(string(c), name) {
			return c, true
		}
	}
	return "", false
}

// nameSuffix disambiguates categories whose entries commonly share the name
// of the unit they produce.
func nameSuffix(c Category) string {
	switch c {
	case CategoryConstruction:
		return "-construction"
	case CategoryRecipe:
		return "-recipe"
	default:
		return ""
	}
}
