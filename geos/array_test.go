package geos

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestArray(t *testing.T) *GeometryArray {
	t.Helper()
	ctx, err := NewContext()
	require.NoError(t, err)
	defer ctx.Release()

	a, err := ctx.NewGeometryArrayFromWKT([]string{
		"POINT (1 1)",
		"LINESTRING (0 0, 10 10)",
		"",
		"POLYGON ((20 20, 30 20, 30 30, 20 30, 20 20))",
		"POINT (25 25)",
	})
	require.NoError(t, err)
	return a
}

func Test_GeometryArrayFromWKT(t *testing.T) {
	a := newTestArray(t)
	defer a.Release()

	assert.Equal(t, 5, a.Size())

	g, err := a.At(2)
	require.NoError(t, err)
	assert.Nil(t, g)

	_, err = a.At(5)
	var indexErr *IndexError
	assert.True(t, errors.As(err, &indexErr))

	wkts, err := a.ToWKT(1)
	require.NoError(t, err)
	assert.Equal(t, "POINT (1 1)", wkts[0])
	assert.Equal(t, "", wkts[2])

	s := a.String()
	assert.Contains(t, s, "<POINT (1 1)>")
	assert.Contains(t, s, "<>")
}

func Test_GeometryArrayFromWKB(t *testing.T) {
	pt := mustWKT(t, "POINT (3 4)")
	wkb, err := pt.ToWKB()
	require.NoError(t, err)
	ctx := pt.Context()

	a, err := ctx.NewGeometryArrayFromWKB([][]byte{wkb, nil})
	pt.Release()
	require.NoError(t, err)
	defer a.Release()

	assert.Equal(t, 2, a.Size())
	g, err := a.At(0)
	require.NoError(t, err)
	x, err := g.X()
	require.NoError(t, err)
	assert.Equal(t, 3.0, x)

	_, err = ctx.NewGeometryArrayFromWKB([][]byte{{1, 2, 3}})
	assert.Error(t, err)
}

func Test_GeometryArrayTotalBounds(t *testing.T) {
	a := newTestArray(t)
	defer a.Release()

	bounds, err := a.TotalBounds()
	require.NoError(t, err)
	assert.Equal(t, [4]float64{0, 0, 30, 30}, bounds)

	empty, err := NewGeometryArray([]*Geometry{nil})
	require.NoError(t, err)
	_, err = empty.TotalBounds()
	assert.Error(t, err)
}

func Test_GeometryArrayQuery(t *testing.T) {
	a := newTestArray(t)
	defer a.Release()

	tests := []struct {
		bounds [4]float64
		expect []int
	}{
		{bounds: [4]float64{0, 0, 2, 2}, expect: []int{0, 1}},
		{bounds: [4]float64{24, 24, 26, 26}, expect: []int{3, 4}},
		{bounds: [4]float64{-10, -10, 50, 50}, expect: []int{0, 1, 3, 4}},
		{bounds: [4]float64{100, 100, 110, 110}, expect: nil},
	}

	for _, tc := range tests {
		hits, err := a.Query(tc.bounds[0], tc.bounds[1], tc.bounds[2], tc.bounds[3])
		require.NoError(t, err)
		assert.Equal(t, tc.expect, hits, "%v", tc.bounds)
	}
}

func Test_GeometryArrayQueryGeometry(t *testing.T) {
	a := newTestArray(t)
	defer a.Release()
	require.NoError(t, a.SetNodeCapacity(2))

	area := mustWKT(t, "POLYGON ((19 19, 31 19, 31 31, 19 31, 19 19))")
	defer area.Release()

	hits, err := a.QueryGeometry(area, PredicateContains)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4}, hits)

	// the line's envelope overlaps, but the line itself misses the square
	corner := mustWKT(t, "POLYGON ((8 0, 10 0, 10 2, 8 2, 8 0))")
	defer corner.Release()
	hits, err = a.QueryGeometry(corner, PredicateIntersects)
	require.NoError(t, err)
	assert.Nil(t, hits)

	_, err = a.QueryGeometry(area, Predicate("disjoint"))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	assert.ErrorIs(t, a.SetNodeCapacity(1), ErrInvalidArgument)
}
