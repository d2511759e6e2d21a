package queries

import (
	"context"
	"fmt"

	"github.com/alesfranek-maf/uwapi/internal/application/mediator"
	"github.com/alesfranek-maf/uwapi/internal/application/planning/services"
	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
	"github.com/alesfranek-maf/uwapi/internal/domain/production"
)

// ResolvePlanQuery asks for the full production plan of a unit, by id or by name
type ResolvePlanQuery struct {
	UnitID   *catalog.ID // Optional: resolve by id
	UnitName string      // Optional: resolve by catalog name
	Quantity int
	Scope    catalog.Scope
}

// ResolvePlanResponse carries the resolved plan. A plan with an error marker
// is a valid response.
type ResolvePlanResponse struct {
	Plan *production.Plan
}

// ResolvePlanHandler handles the ResolvePlan query
type ResolvePlanHandler struct {
	resolver *services.PlanResolver
}

// NewResolvePlanHandler creates a new ResolvePlanHandler
func NewResolvePlanHandler(resolver *services.PlanResolver) *ResolvePlanHandler {
	return &ResolvePlanHandler{resolver: resolver}
}

// Handle executes the ResolvePlan query
func (h *ResolvePlanHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ResolvePlanQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ResolvePlanQuery")
	}
	if query.UnitID == nil && query.UnitName == "" {
		return nil, fmt.Errorf("either unit_id or unit_name must be provided")
	}

	var plan *production.Plan
	var err error

	// Priority: UnitID > UnitName
	if query.UnitID != nil {
		plan, err = h.resolver.Resolve(ctx, *query.UnitID, query.Quantity, query.Scope)
	} else {
		plan, err = h.resolver.ResolveByName(ctx, query.UnitName, query.Quantity, query.Scope)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve plan: %w", err)
	}

	return &ResolvePlanResponse{Plan: plan}, nil
}
