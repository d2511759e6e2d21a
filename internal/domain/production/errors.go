package production

import (
	"fmt"

	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
)

// ErrInvalidScaleFactor indicates a cost was scaled by a non-positive factor
type ErrInvalidScaleFactor struct {
	Factor int
}

func (e *ErrInvalidScaleFactor) Error() string {
	return fmt.Sprintf("invalid scale factor %d: must be positive", e.Factor)
}

// ErrInvalidQuantity indicates a plan was requested for fewer than one unit
type ErrInvalidQuantity struct {
	Quantity int
}

func (e *ErrInvalidQuantity) Error() string {
	return fmt.Sprintf("invalid quantity %d: must be at least 1", e.Quantity)
}

// ErrDepthExceeded indicates resource expansion went deeper than the configured
// ceiling, which only happens on a malformed catalog
type ErrDepthExceeded struct {
	Target   catalog.ID
	Resource catalog.ID
	Limit    int
}

func (e *ErrDepthExceeded) Error() string {
	return fmt.Sprintf("expansion of %d exceeded depth limit %d at resource %d", e.Target, e.Limit, e.Resource)
}

// ErrQuantityOverflow indicates a scaled or summed quantity does not fit in an int
type ErrQuantityOverflow struct {
	Resource catalog.ID
	Quantity int
	Factor   int
}

func (e *ErrQuantityOverflow) Error() string {
	return fmt.Sprintf("quantity of resource %d overflows: %d x %d", e.Resource, e.Quantity, e.Factor)
}
