package queries

import (
	"context"
	"fmt"

	"github.com/alesfranek-maf/uwapi/internal/application/mediator"
	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
)

// LookupQuery resolves a name to an id or an id to a name
type LookupQuery struct {
	ID   *catalog.ID // Optional: id to name
	Name string      // Optional: name to id
}

// LookupResponse describes the matched prototype. Found is false when the
// lookup has no match; that is not an error.
type LookupResponse struct {
	Found    bool
	ID       catalog.ID
	Name     string
	Category catalog.Category
	Ignored  bool
}

// LookupHandler handles the Lookup query
type LookupHandler struct {
	cat *catalog.Catalog
}

// NewLookupHandler creates a new LookupHandler
func NewLookupHandler(cat *catalog.Catalog) *LookupHandler {
	return &LookupHandler{cat: cat}
}

// Handle executes the Lookup query
func (h *LookupHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*LookupQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *LookupQuery")
	}
	if query.ID == nil && query.Name == "" {
		return nil, fmt.Errorf("either id or name must be provided")
	}

	id := catalog.NoID
	if query.ID != nil {
		id = *query.ID
	} else if resolved, found := h.cat.ResolveID(query.Name); found {
		id = resolved
	}

	name, found := h.cat.ResolveName(id)
	if !found {
		return &LookupResponse{Found: false, ID: id, Name: query.Name}, nil
	}
	entry, _ := h.cat.Entry(id)
	return &LookupResponse{
		Found:    true,
		ID:       id,
		Name:     name,
		Category: entry.Category,
		Ignored:  h.cat.IsIgnored(id),
	}, nil
}
