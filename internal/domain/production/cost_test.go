package production_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
	"github.com/alesfranek-maf/uwapi/internal/domain/production"
)

func TestScale_MultipliesEveryQuantity(t *testing.T) {
	// Arrange
	cost := production.Cost{1: 3, 2: 5}

	// Act
	scaled, err := production.Scale(cost, 4)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, production.Cost{1: 12, 2: 20}, scaled)
	assert.Equal(t, production.Cost{1: 3, 2: 5}, cost, "input must not be modified")
}

func TestScale_RejectsNonPositiveFactor(t *testing.T) {
	for _, factor := range []int{0, -2} {
		_, err := production.Scale(production.Cost{1: 1}, factor)

		var scaleErr *production.ErrInvalidScaleFactor
		require.ErrorAs(t, err, &scaleErr)
		assert.Equal(t, factor, scaleErr.Factor)
	}
}

func TestScale_RejectsOverflow(t *testing.T) {
	_, err := production.Scale(production.Cost{7: math.MaxInt / 2}, 3)

	var overflow *production.ErrQuantityOverflow
	require.ErrorAs(t, err, &overflow)
	assert.Equal(t, catalog.ID(7), overflow.Resource)
	assert.Equal(t, 3, overflow.Factor)
}

func TestQuantityArithmetic(t *testing.T) {
	tests := []struct {
		name     string
		op       func() (int, error)
		expected int
		overflow bool
	}{
		{"scale", func() (int, error) { return production.ScaleQuantity(1, 6, 7) }, 42, false},
		{"scale by zero quantity", func() (int, error) { return production.ScaleQuantity(1, 0, math.MaxInt) }, 0, false},
		{"scale at the limit", func() (int, error) { return production.ScaleQuantity(1, math.MaxInt, 1) }, math.MaxInt, false},
		{"scale overflow", func() (int, error) { return production.ScaleQuantity(1, math.MaxInt/2+1, 2) }, 0, true},
		{"add", func() (int, error) { return production.AddQuantity(1, 40, 2) }, 42, false},
		{"add overflow", func() (int, error) { return production.AddQuantity(1, math.MaxInt, 1) }, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op()

			if tt.overflow {
				var overflow *production.ErrQuantityOverflow
				assert.ErrorAs(t, err, &overflow)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMerge_SumsPerID(t *testing.T) {
	// Arrange
	a := production.Cost{1: 10}
	b := production.Cost{1: 5, 2: 6}

	// Act
	merged := production.Merge(a, nil, b)

	// Assert
	assert.Equal(t, production.Cost{1: 15, 2: 6}, merged)
	assert.Equal(t, 21, merged.Total())
	assert.Equal(t, []catalog.ID{1, 2}, merged.SortedIDs())
	assert.Equal(t, production.Cost{1: 10}, a)
}

func TestCostOf_CopiesQuantities(t *testing.T) {
	q := catalog.Quantities{4: 2}

	cost := production.CostOf(q)
	cost[4] = 99

	assert.Equal(t, 2, q[4])
}

func TestSortSteps_OrdersByBuildingThenRecipe(t *testing.T) {
	steps := []production.Step{
		{Building: 31, Recipe: 11},
		{Building: 30, Recipe: catalog.NoID},
		{Building: 30, Recipe: 10},
	}

	production.SortSteps(steps)

	assert.Equal(t, []production.Step{
		{Building: 30, Recipe: catalog.NoID},
		{Building: 30, Recipe: 10},
		{Building: 31, Recipe: 11},
	}, steps)
	assert.False(t, steps[0].HasRecipe())
}

func TestPlan_BuildingsAreDistinct(t *testing.T) {
	plan := &production.Plan{Steps: []production.Step{
		{Building: 30, Recipe: catalog.NoID},
		{Building: 30, Recipe: 10},
		{Building: 31, Recipe: 11},
	}}

	assert.Equal(t, []catalog.ID{30, 31}, plan.Buildings())
	assert.Empty(t, production.NewIncompletePlan(40, 1, catalog.Global(), production.ErrorMissingBuildingOrRecipe).Buildings())
}
