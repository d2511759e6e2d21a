package world

import (
	"fmt"

	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
)

// Placement failure reasons
const (
	ReasonNoConstruction = "no_construction_for_building"
	ReasonNoPlacement    = "no_valid_placement"
	ReasonCommandFailed  = "command_failed"
)

// PlacementFailed reports one plan step that could not be placed. It never
// aborts the remaining steps.
type PlacementFailed struct {
	Building     catalog.ID
	Construction catalog.ID
	Reason       string
	Err          error
}

func (e *PlacementFailed) Error() string {
	switch {
	case e.Reason == ReasonNoConstruction:
		return fmt.Sprintf("%s:%d", e.Reason, e.Building)
	case e.Err != nil:
		return fmt.Sprintf("%s:%d: %v", e.Reason, e.Construction, e.Err)
	default:
		return fmt.Sprintf("%s:%d", e.Reason, e.Construction)
	}
}

func (e *PlacementFailed) Unwrap() error {
	return e.Err
}

// ErrNoBaseEntity indicates no own entity could anchor construction placement
type ErrNoBaseEntity struct {
	Force ForceID
}

func (e *ErrNoBaseEntity) Error() string {
	return "no_base_entity_found"
}
