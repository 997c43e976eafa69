package geos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Prepared(t *testing.T) {
	square := mustWKT(t, "POLYGON ((0 0, 10 0, 10 10, 0 10, 0 0))")
	prepared, err := Prepare(square)
	require.NoError(t, err)
	defer prepared.Release()

	// the prepared geometry owns its copy
	square.Release()

	tests := []struct {
		pred   Predicate
		other  string
		expect bool
	}{
		{pred: PredicateIntersects, other: "POINT (5 5)", expect: true},
		{pred: PredicateIntersects, other: "POINT (50 5)", expect: false},
		{pred: PredicateContains, other: "POINT (5 5)", expect: true},
		{pred: PredicateContains, other: "POINT (0 5)", expect: false},
		{pred: PredicateContainsProperly, other: "POLYGON ((1 1, 2 1, 2 2, 1 2, 1 1))", expect: true},
		{pred: PredicateContainsProperly, other: "POLYGON ((0 0, 2 0, 2 2, 0 2, 0 0))", expect: false},
		{pred: PredicateCovers, other: "POINT (0 5)", expect: true},
		{pred: PredicateCoveredBy, other: "POLYGON ((-1 -1, 11 -1, 11 11, -1 11, -1 -1))", expect: true},
		{pred: PredicateCrosses, other: "LINESTRING (-1 5, 11 5)", expect: true},
		{pred: PredicateOverlaps, other: "POLYGON ((5 5, 15 5, 15 15, 5 15, 5 5))", expect: true},
		{pred: PredicateTouches, other: "POINT (10 10)", expect: true},
		{pred: PredicateWithin, other: "POLYGON ((-1 -1, 11 -1, 11 11, -1 11, -1 -1))", expect: true},
	}

	for _, tc := range tests {
		other := mustWKT(t, tc.other)
		ok, err := prepared.Test(tc.pred, other)
		require.NoError(t, err)
		assert.Equal(t, tc.expect, ok, "%s %s", tc.pred, tc.other)
		other.Release()
	}

	far := mustWKT(t, "POINT (50 50)")
	defer far.Release()
	disjoint, err := prepared.Disjoint(far)
	require.NoError(t, err)
	assert.True(t, disjoint)
}

func Test_PreparedGeometry(t *testing.T) {
	square := mustWKT(t, "POLYGON ((0 0, 1 0, 1 1, 0 1, 0 0))")
	defer square.Release()

	prepared, err := Prepare(square)
	require.NoError(t, err)

	g, err := prepared.Geometry()
	require.NoError(t, err)
	assert.False(t, g.Owned())
	area, err := g.Area()
	require.NoError(t, err)
	assert.Equal(t, 1.0, area)

	prepared.Release()
	prepared.Release()
	_, err = g.Area()
	assert.ErrorIs(t, err, ErrReleased)
	_, err = prepared.Intersects(square)
	assert.ErrorIs(t, err, ErrReleased)
}

func Test_ParsePredicate(t *testing.T) {
	p, err := ParsePredicate(" Intersects ")
	require.NoError(t, err)
	assert.Equal(t, PredicateIntersects, p)

	p, err = ParsePredicate("contains_properly")
	require.NoError(t, err)
	assert.Equal(t, PredicateContainsProperly, p)

	_, err = ParsePredicate("disjoint")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
