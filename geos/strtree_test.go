package geos

import (
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_STRtreeQueryIterate(t *testing.T) {
	tree, err := NewSTRtree[string](nil, 10)
	require.NoError(t, err)
	defer tree.Release()

	point := mustWKT(t, "POINT (5 5)")
	defer point.Release()
	line := mustWKT(t, "LINESTRING (0 0, 10 0)")
	defer line.Release()
	polygon := mustWKT(t, "POLYGON ((2 2, 8 2, 8 8, 2 8, 2 2))")
	defer polygon.Release()

	require.NoError(t, tree.Insert(point, "Point"))
	require.NoError(t, tree.Insert(line, "Line"))
	require.NoError(t, tree.Insert(polygon, "Polygon"))
	assert.Equal(t, 3, tree.Len())

	var items []string
	require.NoError(t, tree.Iterate(func(item string) { items = append(items, item) }))
	sort.Strings(items)
	assert.Equal(t, []string{"Line", "Point", "Polygon"}, items)

	items = nil
	require.NoError(t, tree.Query(point, func(item string) { items = append(items, item) }))
	sort.Strings(items)
	assert.Equal(t, []string{"Point", "Polygon"}, items)

	assert.ErrorIs(t, tree.Insert(point, "late"), ErrTreeBuilt)
}

func Test_STRtreeReclaim(t *testing.T) {
	for _, query := range []bool{false, true} {
		t.Run(fmt.Sprintf("query %v", query), func(t *testing.T) {
			const n = 25

			tree, err := NewSTRtree[int](nil, 4)
			require.NoError(t, err)

			reclaimed := 0
			tree.SetReclaimHook(func(int) { reclaimed++ })

			for i := 0; i < n; i++ {
				pt := mustWKT(t, fmt.Sprintf("POINT (%d %d)", i, i))
				require.NoError(t, tree.Insert(pt, i))
				pt.Release()
			}
			if query {
				box := mustWKT(t, "POLYGON ((0 0, 5 0, 5 5, 0 5, 0 0))")
				require.NoError(t, tree.Query(box, func(int) {}))
				box.Release()
			}
			assert.Equal(t, 0, reclaimed)

			tree.Release()
			assert.Equal(t, n, reclaimed)
			assert.Equal(t, 0, tree.Len())

			tree.Release()
			assert.Equal(t, n, reclaimed)
		})
	}
}

func Test_STRtreeReclaimEmpty(t *testing.T) {
	tree, err := NewSTRtree[int](nil, 10)
	require.NoError(t, err)

	reclaimed := 0
	tree.SetReclaimHook(func(int) { reclaimed++ })

	empty, err := CreateEmptyPoint()
	require.NoError(t, err)
	defer empty.Release()
	pt := mustWKT(t, "POINT (1 1)")
	defer pt.Release()

	require.NoError(t, tree.Insert(empty, 0))
	require.NoError(t, tree.Insert(pt, 1))

	// the empty envelope never reaches the native tree but is still visited
	var items []int
	require.NoError(t, tree.Iterate(func(i int) { items = append(items, i) }))
	sort.Ints(items)
	assert.Equal(t, []int{0, 1}, items)

	items = nil
	require.NoError(t, tree.Query(pt, func(i int) { items = append(items, i) }))
	assert.Equal(t, []int{1}, items)

	tree.Release()
	assert.Equal(t, 2, reclaimed)
}

func Test_STRtreeRemove(t *testing.T) {
	tree, err := NewSTRtree[int](nil, 10)
	require.NoError(t, err)
	defer tree.Release()

	var removed []int
	tree.SetReclaimHook(func(i int) { removed = append(removed, i) })

	pt := mustWKT(t, "POINT (1 1)")
	defer pt.Release()
	other := mustWKT(t, "POINT (9 9)")
	defer other.Release()

	require.NoError(t, tree.Insert(pt, 1))
	require.NoError(t, tree.Insert(pt, 2))
	require.NoError(t, tree.Insert(other, 3))

	ok, err := tree.Remove(pt, func(i int) bool { return i == 2 })
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []int{2}, removed)
	assert.Equal(t, 2, tree.Len())

	ok, err = tree.Remove(pt, func(i int) bool { return i == 3 })
	require.NoError(t, err)
	assert.False(t, ok)

	var items []int
	require.NoError(t, tree.Query(pt, func(i int) { items = append(items, i) }))
	assert.Equal(t, []int{1}, items)
}

func Test_STRtreeVisitorReentrant(t *testing.T) {
	tree, err := NewSTRtree[*Geometry](nil, 10)
	require.NoError(t, err)
	tree.SetReclaimHook(func(g *Geometry) { g.Release() })
	defer tree.Release()

	for _, wkt := range []string{"POINT (0 0)", "POINT (3 4)"} {
		g := mustWKT(t, wkt)
		require.NoError(t, tree.Insert(g, g))
	}

	origin := mustWKT(t, "POINT (0 0)")
	defer origin.Release()
	box := mustWKT(t, "POLYGON ((-1 -1, 5 -1, 5 5, -1 5, -1 -1))")
	defer box.Release()

	var distances []float64
	require.NoError(t, tree.Query(box, func(g *Geometry) {
		d, err := g.Distance(origin)
		require.NoError(t, err)
		distances = append(distances, d)
	}))
	sort.Float64s(distances)
	assert.Equal(t, []float64{0, 5}, distances)
}

func Test_STRtreeNodeCapacity(t *testing.T) {
	_, err := NewSTRtree[int](nil, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
