package geos

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_CloseRing(t *testing.T) {
	tests := []struct {
		name   string
		coords [][]float64
		expect [][]float64
	}{
		{
			name:   "empty",
			coords: [][]float64{},
			expect: [][]float64{},
		},
		{
			name:   "closed",
			coords: [][]float64{{0, 0}, {0, 1}, {1, 1}, {0, 0}},
			expect: [][]float64{{0, 0}, {0, 1}, {1, 1}, {0, 0}},
		},
		{
			name:   "open",
			coords: [][]float64{{0, 0}, {0, 1}, {1, 2}},
			expect: [][]float64{{0, 0}, {0, 1}, {1, 2}, {0, 0}},
		},
		{
			name:   "closed with 3 coordinates",
			coords: [][]float64{{0, 0}, {0, 1}, {0, 0}},
			expect: [][]float64{{0, 0}, {0, 1}, {0, 0}, {0, 0}},
		},
		{
			name:   "3D open",
			coords: [][]float64{{0, 0, 1}, {0, 1, 1}, {1, 1, 1}, {0, 0, 2}},
			expect: [][]float64{{0, 0, 1}, {0, 1, 1}, {1, 1, 1}, {0, 0, 2}, {0, 0, 1}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := CloseRing(tc.coords)
			require.NoError(t, err)
			assert.Equal(t, tc.expect, out)
		})
	}
}

func Test_CloseRingTooShort(t *testing.T) {
	for _, coords := range [][][]float64{
		{{0, 0}},
		{{0, 0}, {1, 1}},
	} {
		_, err := CloseRing(coords)
		var invalid *InvalidGeometryError
		assert.True(t, errors.As(err, &invalid), "%v", coords)
	}
}

func Test_CloseRingDoesNotModifyInput(t *testing.T) {
	coords := [][]float64{{0, 0}, {0, 1}, {1, 2}}
	out, err := CloseRing(coords)
	require.NoError(t, err)
	out[3][0] = 99
	assert.Equal(t, [][]float64{{0, 0}, {0, 1}, {1, 2}}, coords)
}

func newRing(t *testing.T, coords [][]float64) (*Geometry, error) {
	t.Helper()
	seq, err := NewCoordSeqFromSlice(coords)
	require.NoError(t, err)
	return CreateClosedLinearRing(seq)
}

func Test_CreateClosedLinearRing(t *testing.T) {
	t.Run("open", func(t *testing.T) {
		ring, err := newRing(t, [][]float64{{0, 0}, {0, 1}, {1, 2}})
		require.NoError(t, err)
		defer ring.Release()

		n, err := ring.NumPoints()
		require.NoError(t, err)
		assert.Equal(t, 4, n)

		isRing, err := ring.IsRing()
		require.NoError(t, err)
		assert.True(t, isRing)
	})

	t.Run("closed", func(t *testing.T) {
		coords := [][]float64{{0, 0}, {0, 1}, {1, 1}, {0, 0}}
		ring, err := newRing(t, coords)
		require.NoError(t, err)
		defer ring.Release()

		seq, err := ring.CoordSeq()
		require.NoError(t, err)
		defer seq.Release()
		out, err := seq.ToSlice()
		require.NoError(t, err)
		assert.Equal(t, coords, out)
	})

	t.Run("closed with 3 coordinates", func(t *testing.T) {
		ring, err := newRing(t, [][]float64{{0, 0}, {0, 1}, {0, 0}})
		require.NoError(t, err)
		defer ring.Release()

		n, err := ring.NumPoints()
		require.NoError(t, err)
		assert.Equal(t, 4, n)

		closed, err := ring.IsClosed()
		require.NoError(t, err)
		assert.True(t, closed)

		// [A, B, A, A] doubles back on itself, which GEOS does not treat as simple
		isRing, err := ring.IsRing()
		require.NoError(t, err)
		assert.False(t, isRing)
	})

	t.Run("empty", func(t *testing.T) {
		ring, err := newRing(t, [][]float64{})
		require.NoError(t, err)
		defer ring.Release()

		empty, err := ring.IsEmpty()
		require.NoError(t, err)
		assert.True(t, empty)
	})

	t.Run("too short", func(t *testing.T) {
		seq, err := NewCoordSeqFromSlice([][]float64{{0, 0}, {1, 1}})
		require.NoError(t, err)
		_, err = CreateClosedLinearRing(seq)
		var invalid *InvalidGeometryError
		assert.True(t, errors.As(err, &invalid))

		// the sequence was consumed
		_, err = seq.X(0)
		assert.ErrorIs(t, err, ErrReleased)
		seq.Release()
	})
}

func Test_CreatePoint(t *testing.T) {
	seq, err := NewCoordSeqFromSlice([][]float64{{1.5, 2.5}})
	require.NoError(t, err)

	pt, err := CreatePoint(seq)
	require.NoError(t, err)
	defer pt.Release()

	_, err = seq.X(0)
	assert.ErrorIs(t, err, ErrReleased)
	seq.Release()

	x, err := pt.X()
	require.NoError(t, err)
	assert.Equal(t, 1.5, x)
	y, err := pt.Y()
	require.NoError(t, err)
	assert.Equal(t, 2.5, y)
}

func Test_CreatePolygon(t *testing.T) {
	shell, err := newRing(t, [][]float64{{0, 0}, {10, 0}, {10, 10}, {0, 10}})
	require.NoError(t, err)
	hole, err := newRing(t, [][]float64{{2, 2}, {4, 2}, {4, 4}, {2, 4}})
	require.NoError(t, err)

	poly, err := CreatePolygon(shell, []*Geometry{hole})
	require.NoError(t, err)
	defer poly.Release()

	_, err = shell.NumPoints()
	assert.ErrorIs(t, err, ErrReleased)

	area, err := poly.Area()
	require.NoError(t, err)
	assert.Equal(t, 96.0, area)

	holes, err := poly.NumInteriorRings()
	require.NoError(t, err)
	assert.Equal(t, 1, holes)
}

func Test_CreatePolygonRejectsNonRing(t *testing.T) {
	line, err := FromWKT("LINESTRING (0 0, 1 0, 1 1, 0 0)")
	require.NoError(t, err)
	defer line.Release()

	_, err = CreatePolygon(line, nil)
	assert.ErrorIs(t, err, ErrTypeMismatch)

	// rejected inputs are not consumed
	n, err := line.NumPoints()
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func Test_CreateMultiPoint(t *testing.T) {
	t.Run("type mismatch", func(t *testing.T) {
		pt, err := FromWKT("POINT (1 2)")
		require.NoError(t, err)
		defer pt.Release()
		line, err := FromWKT("LINESTRING (0 0, 1 1)")
		require.NoError(t, err)
		defer line.Release()

		_, err = CreateMultiPoint([]*Geometry{pt, line})
		require.ErrorIs(t, err, ErrTypeMismatch)
		var invalid *InvalidGeometryError
		assert.True(t, errors.As(err, &invalid))

		_, err = pt.X()
		assert.NoError(t, err)
	})

	t.Run("points", func(t *testing.T) {
		var points []*Geometry
		for _, wkt := range []string{"POINT (1.3 2.4)", "POINT (2.1 0.3)", "POINT (3.1 4.7)", "POINT (0.4 4.1)"} {
			pt, err := FromWKT(wkt)
			require.NoError(t, err)
			points = append(points, pt)
		}

		multi, err := CreateMultiPoint(points)
		require.NoError(t, err)
		defer multi.Release()

		for _, pt := range points {
			_, err := pt.X()
			assert.ErrorIs(t, err, ErrReleased)
			pt.Release()
		}

		wkt, err := multi.ToWKT()
		require.NoError(t, err)
		assert.Contains(t, []string{
			"MULTIPOINT (1.3 2.4, 2.1 0.3, 3.1 4.7, 0.4 4.1)",
			"MULTIPOINT ((1.3 2.4), (2.1 0.3), (3.1 4.7), (0.4 4.1))",
		}, wkt)
	})
}

func Test_CreateCollectionRejectsBorrowed(t *testing.T) {
	multi, err := FromWKT("MULTILINESTRING ((0 0, 1 1), (2 2, 3 3))")
	require.NoError(t, err)
	defer multi.Release()

	part, err := multi.GeometryN(0)
	require.NoError(t, err)

	_, err = CreateMultiLineString([]*Geometry{part})
	var invalid *InvalidGeometryError
	require.True(t, errors.As(err, &invalid))
	assert.NotErrorIs(t, err, ErrTypeMismatch)
}

func Test_CreateCollectionRejectsDuplicates(t *testing.T) {
	pt, err := FromWKT("POINT (1 2)")
	require.NoError(t, err)
	defer pt.Release()

	_, err = CreateGeometryCollection([]*Geometry{pt, pt})
	var invalid *InvalidGeometryError
	assert.True(t, errors.As(err, &invalid))
}

func Test_CreateEmpty(t *testing.T) {
	tests := []struct {
		create func() (*Geometry, error)
		expect GeometryType
	}{
		{create: CreateEmptyPoint, expect: Point},
		{create: CreateEmptyLineString, expect: LineString},
		{create: CreateEmptyPolygon, expect: Polygon},
		{create: func() (*Geometry, error) { return CreateEmptyCollection(MultiPolygon) }, expect: MultiPolygon},
		{create: func() (*Geometry, error) { return CreateGeometryCollection(nil) }, expect: GeometryCollection},
	}

	for _, tc := range tests {
		g, err := tc.create()
		require.NoError(t, err)

		typ, err := g.Type()
		require.NoError(t, err)
		assert.Equal(t, tc.expect, typ)

		empty, err := g.IsEmpty()
		require.NoError(t, err)
		assert.True(t, empty)
		g.Release()
	}

	_, err := CreateEmptyCollection(Polygon)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}
