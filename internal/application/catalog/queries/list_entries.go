package queries

import (
	"context"
	"fmt"
	"sort"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/alesfranek-maf/uwapi/internal/application/mediator"
	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
)

// EntryEnv is what a --where filter expression sees for one prototype
type EntryEnv struct {
	ID       int64
	Name     string
	Category string
	Ignored  bool
	Recipes  []int64
	Inputs   map[string]int
	Outputs  []int64
	Attrs    map[string]any
}

// Has reports whether a unit attribute is present
func (e EntryEnv) Has(attr string) bool {
	_, ok := e.Attrs[attr]
	return ok
}

// ListEntriesQuery lists catalog entries, optionally of one category and
// matching a boolean expr-lang expression
type ListEntriesQuery struct {
	Category catalog.Category // empty lists every category
	Where    string
}

// ListEntriesResponse holds matching entries ordered by id
type ListEntriesResponse struct {
	Entries []catalog.EntryRef
}

// ListEntriesHandler handles the ListEntries query
type ListEntriesHandler struct {
	cat *catalog.Catalog
}

// NewListEntriesHandler creates a new ListEntriesHandler
func NewListEntriesHandler(cat *catalog.Catalog) *ListEntriesHandler {
	return &ListEntriesHandler{cat: cat}
}

// Handle executes the ListEntries query
func (h *ListEntriesHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ListEntriesQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListEntriesQuery")
	}

	var program *vm.Program
	if query.Where != "" {
		prog, err := expr.Compile(query.Where, expr.Env(EntryEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile filter %q: %w", query.Where, err)
		}
		program = prog
	}

	entries := make([]catalog.EntryRef, 0)
	for _, env := range h.envs(query.Category) {
		if program != nil {
			out, err := expr.Run(program, env)
			if err != nil {
				return nil, fmt.Errorf("evaluate filter on %d: %w", env.ID, err)
			}
			if match, _ := out.(bool); !match {
				continue
			}
		}
		entry, _ := h.cat.Entry(catalog.ID(env.ID))
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })

	return &ListEntriesResponse{Entries: entries}, nil
}

func (h *ListEntriesHandler) envs(category catalog.Category) []EntryEnv {
	var out []EntryEnv
	want := func(c catalog.Category) bool { return category == "" || category == c }

	if want(catalog.CategoryUnit) {
		for id, u := range h.cat.Units() {
			env := h.base(id, catalog.CategoryUnit, u.Name)
			env.Recipes = toInt64s(u.Recipes)
			env.Attrs = u.Attributes
			out = append(out, env)
		}
	}
	if want(catalog.CategoryConstruction) {
		for id, c := range h.cat.Constructions() {
			env := h.base(id, catalog.CategoryConstruction, c.Name)
			env.Inputs = toCounts(c.Inputs)
			if c.Output.Valid() {
				env.Outputs = []int64{int64(c.Output)}
			}
			out = append(out, env)
		}
	}
	if want(catalog.CategoryRecipe) {
		for id, r := range h.cat.Recipes() {
			env := h.base(id, catalog.CategoryRecipe, r.Name)
			env.Inputs = toCounts(r.Inputs)
			env.Outputs = toInt64s(r.Outputs)
			out = append(out, env)
		}
	}
	if want(catalog.CategoryResource) {
		for id, r := range h.cat.Resources() {
			out = append(out, h.base(id, catalog.CategoryResource, r.Name))
		}
	}
	if want(catalog.CategoryRace) {
		for id, r := range h.cat.Races() {
			out = append(out, h.base(id, catalog.CategoryRace, r.Name))
		}
	}
	if want(catalog.CategoryUpgrade) {
		for id, u := range h.cat.Upgrades() {
			out = append(out, h.base(id, catalog.CategoryUpgrade, u.Name))
		}
	}
	return out
}

func (h *ListEntriesHandler) base(id catalog.ID, category catalog.Category, name string) EntryEnv {
	return EntryEnv{
		ID:       int64(id),
		Name:     name,
		Category: string(category),
		Ignored:  h.cat.IsIgnored(id),
		Attrs:    map[string]any{},
		Inputs:   map[string]int{},
	}
}

func toInt64s(ids []catalog.ID) []int64 {
	out := make([]int64, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}

func toCounts(q catalog.Quantities) map[string]int {
	out := make(map[string]int, len(q))
	for id, n := range q {
		out[id.String()] = n
	}
	return out
}
