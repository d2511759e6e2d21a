package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	catalogQueries "github.com/alesfranek-maf/uwapi/internal/application/catalog/queries"
	"github.com/alesfranek-maf/uwapi/internal/application/planning/queries"
	"github.com/alesfranek-maf/uwapi/internal/application/planning/services"
	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
	"github.com/alesfranek-maf/uwapi/internal/domain/production"
)

// PlanView is a plan with the names of every id it mentions
type PlanView struct {
	Plan      *production.Plan  `json:"plan"`
	Buildings []catalog.ID      `json:"buildings"`
	Names     map[string]string `json:"names"`
}

// BuildPlanView is a single-level plan with names
type BuildPlanView struct {
	BuildPlan *production.BuildPlan `json:"build_plan"`
	Names     map[string]string     `json:"names"`
}

// planRequest is the parsed form of a plan request
type planRequest struct {
	UnitID   *catalog.ID
	UnitName string
	Quantity int
	Scope    catalog.Scope
}

func (s *Server) parsePlanRequest(unit, qty, race string) (*planRequest, error) {
	req := &planRequest{Quantity: 1}
	req.UnitID, req.UnitName = unitParam(unit)
	if qty != "" {
		n, err := strconv.Atoi(qty)
		if err != nil {
			return nil, errors.New("qty must be an integer")
		}
		req.Quantity = n
	}
	if race == "" {
		race = s.defaultRace
	}
	scope, err := services.ScopeFor(s.catalog, race)
	if err != nil {
		return nil, err
	}
	req.Scope = scope
	return req, nil
}

func (s *Server) resolve(ctx context.Context, req *planRequest) (*PlanView, error) {
	resp, err := s.mediator.Send(ctx, &queries.ResolvePlanQuery{
		UnitID:   req.UnitID,
		UnitName: req.UnitName,
		Quantity: req.Quantity,
		Scope:    req.Scope,
	})
	if err != nil {
		return nil, err
	}
	plan := resp.(*queries.ResolvePlanResponse).Plan
	return &PlanView{Plan: plan, Buildings: plan.Buildings(), Names: s.planNames(plan)}, nil
}

func (s *Server) handleResolvePlan(w http.ResponseWriter, r *http.Request) {
	req, err := s.parsePlanRequest(r.PathValue("unit"), r.URL.Query().Get("qty"), r.URL.Query().Get("race"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := s.resolve(r.Context(), req)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleBuildPlan(w http.ResponseWriter, r *http.Request) {
	req, err := s.parsePlanRequest(r.PathValue("unit"), r.URL.Query().Get("qty"), r.URL.Query().Get("race"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := s.mediator.Send(r.Context(), &queries.GetBuildPlanQuery{
		UnitID:   req.UnitID,
		UnitName: req.UnitName,
		Quantity: req.Quantity,
		Scope:    req.Scope,
	})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	bp := resp.(*queries.GetBuildPlanResponse).BuildPlan

	ids := []catalog.ID{bp.Target, bp.Building, bp.Recipe}
	for id, producer := range bp.Producers {
		ids = append(ids, id, producer)
	}
	ids = append(ids, bp.TotalCost.SortedIDs()...)
	writeJSON(w, http.StatusOK, &BuildPlanView{BuildPlan: bp, Names: s.names(ids)})
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	id, name := unitParam(r.PathValue("name"))
	resp, err := s.mediator.Send(r.Context(), &catalogQueries.LookupQuery{ID: id, Name: name})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	lookup := resp.(*catalogQueries.LookupResponse)
	if !lookup.Found {
		writeError(w, http.StatusNotFound, (&catalog.ErrUnknownName{Name: r.PathValue("name")}).Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":       lookup.ID,
		"name":     lookup.Name,
		"category": lookup.Category,
		"ignored":  lookup.Ignored,
	})
}

func (s *Server) planNames(plan *production.Plan) map[string]string {
	ids := []catalog.ID{plan.Target, plan.RootBuilding, plan.RootRecipe}
	for _, step := range plan.Steps {
		ids = append(ids, step.Building, step.Recipe)
	}
	ids = append(ids, plan.BaseResources.SortedIDs()...)
	return s.names(ids)
}

func (s *Server) names(ids []catalog.ID) map[string]string {
	out := make(map[string]string, len(ids))
	for _, id := range ids {
		if !id.Valid() {
			continue
		}
		out[id.String()] = s.catalog.NameOr(id, "?")
	}
	return out
}

// statusFor maps application errors to HTTP status codes
func statusFor(err error) int {
	var invalidQty *production.ErrInvalidQuantity
	var unknownRace *catalog.ErrUnknownRace
	var depth *production.ErrDepthExceeded
	var overflow *production.ErrQuantityOverflow
	switch {
	case errors.As(err, &invalidQty), errors.As(err, &unknownRace):
		return http.StatusBadRequest
	case errors.As(err, &depth), errors.As(err, &overflow):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
