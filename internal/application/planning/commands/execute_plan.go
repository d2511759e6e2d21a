package commands

import (
	"context"
	"fmt"

	"github.com/alesfranek-maf/uwapi/internal/application/mediator"
	"github.com/alesfranek-maf/uwapi/internal/application/planning/services"
	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
	"github.com/alesfranek-maf/uwapi/internal/domain/production"
	"github.com/alesfranek-maf/uwapi/internal/domain/world"
)

// ExecutePlanCommand resolves a unit's plan for the session's race and
// places it in the world
type ExecutePlanCommand struct {
	Session  world.Session
	UnitID   *catalog.ID
	UnitName string
	Quantity int
	Options  services.ExecuteOptions
}

// ExecutePlanResponse carries the plan that was executed and what happened
type ExecutePlanResponse struct {
	Plan   *production.Plan
	Report *services.ExecutionReport
}

// ExecutePlanHandler handles the ExecutePlan command
type ExecutePlanHandler struct {
	resolver *services.PlanResolver
	executor *services.PlanExecutor
}

// NewExecutePlanHandler creates a new ExecutePlanHandler
func NewExecutePlanHandler(resolver *services.PlanResolver, executor *services.PlanExecutor) *ExecutePlanHandler {
	return &ExecutePlanHandler{
		resolver: resolver,
		executor: executor,
	}
}

// Handle executes the ExecutePlan command
func (h *ExecutePlanHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*ExecutePlanCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ExecutePlanCommand")
	}
	if cmd.UnitID == nil && cmd.UnitName == "" {
		return nil, fmt.Errorf("either unit_id or unit_name must be provided")
	}

	var plan *production.Plan
	var err error
	if cmd.UnitID != nil {
		plan, err = h.resolver.Resolve(ctx, *cmd.UnitID, cmd.Quantity, cmd.Session.Scope())
	} else {
		plan, err = h.resolver.ResolveByName(ctx, cmd.UnitName, cmd.Quantity, cmd.Session.Scope())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve plan: %w", err)
	}

	report, err := h.executor.Execute(ctx, cmd.Session, plan, cmd.Options)
	if err != nil {
		return nil, fmt.Errorf("failed to execute plan: %w", err)
	}

	return &ExecutePlanResponse{
		Plan:   plan,
		Report: report,
	}, nil
}
