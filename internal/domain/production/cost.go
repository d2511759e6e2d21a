package production

import (
	"math"

	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
)

// Cost maps a resource id to a quantity
type Cost map[catalog.ID]int

// CostOf copies catalog quantities into a cost
func CostOf(q catalog.Quantities) Cost {
	out := make(Cost, len(q))
	for id, n := range q {
		out[id] = n
	}
	return out
}

// SortedIDs returns the resource ids in ascending order
func (c Cost) SortedIDs() []catalog.ID {
	return catalog.SortedKeys(map[catalog.ID]int(c))
}

// Total sums every quantity
func (c Cost) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Scale multiplies every quantity by factor. Factors below 1 are rejected.
func Scale(cost Cost, factor int) (Cost, error) {
	if factor <= 0 {
		return nil, &ErrInvalidScaleFactor{Factor: factor}
	}
	out := make(Cost, len(cost))
	for id, n := range cost {
		scaled, err := ScaleQuantity(id, n, factor)
		if err != nil {
			return nil, err
		}
		out[id] = scaled
	}
	return out, nil
}

// ScaleQuantity multiplies two non-negative quantities of resource, failing
// with *ErrQuantityOverflow instead of wrapping
func ScaleQuantity(resource catalog.ID, qty, factor int) (int, error) {
	if qty != 0 && factor > math.MaxInt/qty {
		return 0, &ErrQuantityOverflow{Resource: resource, Quantity: qty, Factor: factor}
	}
	return qty * factor, nil
}

// AddQuantity sums two non-negative quantities of resource, failing with
// *ErrQuantityOverflow instead of wrapping
func AddQuantity(resource catalog.ID, a, b int) (int, error) {
	if a > math.MaxInt-b {
		return 0, &ErrQuantityOverflow{Resource: resource, Quantity: a, Factor: 1}
	}
	return a + b, nil
}

// Merge sums quantities per id. Inputs are not modified; nil costs are skipped.
func Merge(costs ...Cost) Cost {
	out := make(Cost)
	for _, c := range costs {
		for id, n := range c {
			out[id] += n
		}
	}
	return out
}
