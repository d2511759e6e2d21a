package queries

import (
	"context"
	"fmt"

	"github.com/alesfranek-maf/uwapi/internal/application/mediator"
	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
	"github.com/alesfranek-maf/uwapi/internal/domain/production"
)

// GetBuildPlanQuery asks for the single-level build plan of a unit
type GetBuildPlanQuery struct {
	UnitID   *catalog.ID
	UnitName string
	Quantity int
	Scope    catalog.Scope
}

// GetBuildPlanResponse carries the single-level plan
type GetBuildPlanResponse struct {
	BuildPlan *production.BuildPlan
}

// GetBuildPlanHandler handles the GetBuildPlan query
type GetBuildPlanHandler struct {
	graph *production.Graph
}

// NewGetBuildPlanHandler creates a new GetBuildPlanHandler
func NewGetBuildPlanHandler(graph *production.Graph) *GetBuildPlanHandler {
	return &GetBuildPlanHandler{graph: graph}
}

// Handle executes the GetBuildPlan query
func (h *GetBuildPlanHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetBuildPlanQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetBuildPlanQuery")
	}
	if query.UnitID == nil && query.UnitName == "" {
		return nil, fmt.Errorf("either unit_id or unit_name must be provided")
	}
	if query.Quantity < 1 {
		return nil, &production.ErrInvalidQuantity{Quantity: query.Quantity}
	}

	unit := catalog.NoID
	if query.UnitID != nil {
		unit = *query.UnitID
	} else {
		id, ok := h.graph.Catalog().ResolveID(query.UnitName)
		if !ok {
			return &GetBuildPlanResponse{BuildPlan: &production.BuildPlan{
				Target:   catalog.NoID,
				Building: catalog.NoID,
				Recipe:   catalog.NoID,
				Error:    production.ErrorUnknownUnitPrefix + query.UnitName,
			}}, nil
		}
		unit = id
	}

	plan, err := h.graph.BuildPlan(unit, query.Quantity, query.Scope)
	if err != nil {
		return nil, fmt.Errorf("failed to build plan: %w", err)
	}
	return &GetBuildPlanResponse{BuildPlan: plan}, nil
}
