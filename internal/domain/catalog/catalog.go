package catalog

import (
	"context"
	"errors"
	"strings"
)

// Source loads a prototypes document (file, database, ...)
type Source interface {
	Load(ctx context.Context) (*Document, error)
	// Describe names the source for log and error messages
	Describe() string
}

// Options configures catalog indexing
type Options struct {
	// IgnoredIDs are treated as nonexistent by every query
	IgnoredIDs []ID
}

// EntryRef is the category and raw name of a prototype
type EntryRef struct {
	ID       ID
	Category Category
	Name     string
}

// Catalog is the immutable prototype index. It is safe for concurrent reads.
type Catalog struct {
	doc     *Document
	ignored map[ID]struct{}

	idToName map[ID]string
	nameToID map[string]ID
	entries  map[ID]EntryRef
}

// New indexes a document. The document must not be modified afterwards.
func New(doc *Document, opts Options) *Catalog {
	if doc == nil {
		doc = NewDocument()
	}
	c := &Catalog{
		doc:      doc,
		ignored:  make(map[ID]struct{}, len(opts.IgnoredIDs)),
		idToName: make(map[ID]string, doc.Size()),
		nameToID: make(map[string]ID, doc.Size()),
		entries:  make(map[ID]EntryRef, doc.Size()),
	}
	for _, id := range opts.IgnoredIDs {
		c.ignored[id] = struct{}{}
	}
	for _, category := range RegistrationOrder {
		c.register(category)
	}
	return c
}

// register adds one category to the name index, in ascending id order
func (c *Catalog) register(category Category) {
	names := c.rawNames(category)
	ids := make([]ID, 0, len(names))
	for id := range names {
		ids = append(ids, id)
	}
	sortIDs(ids)

	for _, id := range ids {
		raw := names[id]
		c.entries[id] = EntryRef{ID: id, Category: category, Name: raw}
		if raw == "" {
			continue
		}
		name := raw + nameSuffix(category)
		c.idToName[id] = name
		if _, taken := c.nameToID[name]; !taken {
			c.nameToID[name] = id
		}
	}
}

func (c *Catalog) rawNames(category Category) map[ID]string {
	out := make(map[ID]string)
	switch category {
	case CategoryUnit:
		for id, e := range c.doc.Units {
			out[id] = e.Name
		}
	case CategoryConstruction:
		for id, e := range c.doc.Constructions {
			out[id] = e.Name
		}
	case CategoryRecipe:
		for id, e := range c.doc.Recipes {
			out[id] = e.Name
		}
	case CategoryResource:
		for id, e := range c.doc.Resources {
			out[id] = e.Name
		}
	case CategoryRace:
		for id, e := range c.doc.Races {
			out[id] = e.Name
		}
	case CategoryUpgrade:
		for id, e := range c.doc.Upgrades {
			out[id] = e.Name
		}
	}
	return out
}

// ResolveName returns the registered name of an id. Constructions and recipes
// carry their category suffix.
func (c *Catalog) ResolveName(id ID) (string, bool) {
	name, ok := c.idToName[id]
	return name, ok
}

// NameOr returns the registered name or fallback
func (c *Catalog) NameOr(id ID, fallback string) string {
	if name, ok := c.idToName[id]; ok {
		return name
	}
	return fallback
}

// ResolveID returns the first-registered id for a name
func (c *Catalog) ResolveID(name string) (ID, bool) {
	id, ok := c.nameToID[name]
	return id, ok
}

// Names returns a copy of the name index
func (c *Catalog) Names() map[string]ID {
	out := make(map[string]ID, len(c.nameToID))
	for k, v := range c.nameToID {
		out[k] = v
	}
	return out
}

// Entry returns the category and raw (unsuffixed) name of an id
func (c *Catalog) Entry(id ID) (EntryRef, bool) {
	e, ok := c.entries[id]
	return e, ok
}

// IsIgnored reports whether the id is in the ignore set
func (c *Catalog) IsIgnored(id ID) bool {
	_, ok := c.ignored[id]
	return ok
}

// IgnoredIDs returns the ignore set in ascending order
func (c *Catalog) IgnoredIDs() []ID {
	ids := make([]ID, 0, len(c.ignored))
	for id := range c.ignored {
		ids = append(ids, id)
	}
	sortIDs(ids)
	return ids
}

// Units returns the raw unit mapping. Callers must not modify it.
func (c *Catalog) Units() map[ID]*Unit { return c.doc.Units }

// Constructions returns the raw construction mapping. Callers must not modify it.
func (c *Catalog) Constructions() map[ID]*Construction { return c.doc.Constructions }

// Recipes returns the raw recipe mapping. Callers must not modify it.
func (c *Catalog) Recipes() map[ID]*Recipe { return c.doc.Recipes }

// Resources returns the raw resource mapping. Callers must not modify it.
func (c *Catalog) Resources() map[ID]*Resource { return c.doc.Resources }

// Races returns the raw race mapping. Callers must not modify it.
func (c *Catalog) Races() map[ID]*Race { return c.doc.Races }

// Upgrades returns the raw upgrade mapping. Callers must not modify it.
func (c *Catalog) Upgrades() map[ID]*Upgrade { return c.doc.Upgrades }

// RaceByName finds a race by its raw name, case-insensitively
func (c *Catalog) RaceByName(name string) (*Race, bool) {
	for _, id := range SortedKeys(c.doc.Races) {
		race := c.doc.Races[id]
		if strings.EqualFold(race.Name, name) {
			return race, true
		}
	}
	return nil, false
}

// SortedKeys returns the ids of an entry mapping in ascending order
func SortedKeys[T any](m map[ID]T) []ID {
	ids := make([]ID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sortIDs(ids)
	return ids
}

// Load reads a source and indexes it. Every failure is reported as *LoadError.
func Load(ctx context.Context, src Source, opts Options) (*Catalog, error) {
	doc, err := src.Load(ctx)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			return nil, err
		}
		return nil, &LoadError{Source: src.Describe(), Reason: "source failed", Err: err}
	}
	if doc == nil || doc.Size() == 0 {
		return nil, &LoadError{Source: src.Describe(), Reason: "document has no prototypes"}
	}
	return New(doc, opts), nil
}
