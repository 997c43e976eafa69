package geos

// #cgo LDFLAGS: -lgeos_c
// #include "geos.h"
import "C"

// CloseRing applies the ring closure policy to coords:
//
//   - no coordinates: the empty ring, returned as is
//   - 1 or 2 coordinates: rejected
//   - open sequences get the first coordinate appended
//   - 3 coordinates whose ends coincide ([A, B, A]) are closed again into
//     [A, B, A, A] so the ring has the 4 coordinates GEOS requires
//   - closed sequences of 4 or more coordinates are returned as is
//
// The input is never modified.
func CloseRing(coords [][]float64) ([][]float64, error) {
	n := len(coords)
	if n == 0 {
		return coords, nil
	}
	if n < 3 {
		return nil, &InvalidGeometryError{Reason: "ring needs >= 3 coordinates"}
	}
	closed := equalCoords(coords[0], coords[n-1])
	if closed && n != 3 {
		return coords, nil
	}
	out := make([][]float64, n+1)
	copy(out, coords)
	out[n] = append([]float64(nil), coords[0]...)
	return out, nil
}

func equalCoords(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// fromSeq builds a geometry that takes ownership of s.
func fromSeq(op string, s *CoordSeq, fn func(h C.GEOSContextHandle_t, p *C.GEOSCoordSequence) *C.GEOSGeometry) (*Geometry, error) {
	p, err := s.raw()
	if err != nil {
		return nil, err
	}
	ctx := s.ctx
	ctx.retain()
	defer ctx.release()

	s.consume()
	return ctx.construct(op, func(h C.GEOSContextHandle_t) *C.GEOSGeometry { return fn(h, p) })
}

// CreatePoint builds a Point from a sequence of 0 or 1 coordinates,
// consuming s.
func CreatePoint(s *CoordSeq) (*Geometry, error) {
	return fromSeq("CreatePoint", s, func(h C.GEOSContextHandle_t, p *C.GEOSCoordSequence) *C.GEOSGeometry {
		return C.GEOSGeom_createPoint_r(h, p)
	})
}

// CreateLineString builds a LineString, consuming s.
func CreateLineString(s *CoordSeq) (*Geometry, error) {
	return fromSeq("CreateLineString", s, func(h C.GEOSContextHandle_t, p *C.GEOSCoordSequence) *C.GEOSGeometry {
		return C.GEOSGeom_createLineString_r(h, p)
	})
}

// CreateLinearRing builds a LinearRing from s as given, consuming s. GEOS
// rejects sequences that are not closed; see CreateClosedLinearRing.
func CreateLinearRing(s *CoordSeq) (*Geometry, error) {
	return fromSeq("CreateLinearRing", s, func(h C.GEOSContextHandle_t, p *C.GEOSCoordSequence) *C.GEOSGeometry {
		return C.GEOSGeom_createLinearRing_r(h, p)
	})
}

// CreateClosedLinearRing builds a LinearRing from s after applying
// CloseRing, consuming s.
func CreateClosedLinearRing(s *CoordSeq) (*Geometry, error) {
	coords, err := s.ToSlice()
	if err != nil {
		s.Release()
		return nil, err
	}
	closed, err := CloseRing(coords)
	if err != nil {
		s.Release()
		return nil, err
	}
	if len(closed) == len(coords) {
		return CreateLinearRing(s)
	}

	rebuilt, err := s.ctx.NewCoordSeqFromSlice(closed)
	s.Release()
	if err != nil {
		return nil, err
	}
	return CreateLinearRing(rebuilt)
}

// CreateEmptyPoint returns POINT EMPTY on the default context.
func CreateEmptyPoint() (*Geometry, error) {
	return withDefault(func(c *Context) (*Geometry, error) { return c.CreateEmptyPoint() })
}

// CreateEmptyLineString returns LINESTRING EMPTY on the default context.
func CreateEmptyLineString() (*Geometry, error) {
	return withDefault(func(c *Context) (*Geometry, error) { return c.CreateEmptyLineString() })
}

// CreateEmptyPolygon returns POLYGON EMPTY on the default context.
func CreateEmptyPolygon() (*Geometry, error) {
	return withDefault(func(c *Context) (*Geometry, error) { return c.CreateEmptyPolygon() })
}

// CreateEmptyCollection returns an empty collection of the given type on the
// default context.
func CreateEmptyCollection(t GeometryType) (*Geometry, error) {
	return withDefault(func(c *Context) (*Geometry, error) { return c.CreateEmptyCollection(t) })
}

func (c *Context) CreateEmptyPoint() (*Geometry, error) {
	return c.construct("CreateEmptyPoint", func(h C.GEOSContextHandle_t) *C.GEOSGeometry {
		return C.GEOSGeom_createEmptyPoint_r(h)
	})
}

func (c *Context) CreateEmptyLineString() (*Geometry, error) {
	return c.construct("CreateEmptyLineString", func(h C.GEOSContextHandle_t) *C.GEOSGeometry {
		return C.GEOSGeom_createEmptyLineString_r(h)
	})
}

func (c *Context) CreateEmptyPolygon() (*Geometry, error) {
	return c.construct("CreateEmptyPolygon", func(h C.GEOSContextHandle_t) *C.GEOSGeometry {
		return C.GEOSGeom_createEmptyPolygon_r(h)
	})
}

// CreateEmptyCollection returns an empty MultiPoint, MultiLineString,
// MultiPolygon or GeometryCollection.
func (c *Context) CreateEmptyCollection(t GeometryType) (*Geometry, error) {
	if !isCollection(t) {
		return nil, &InvalidGeometryError{Reason: t.String() + " is not a collection type", Err: ErrTypeMismatch}
	}
	return c.construct("CreateEmptyCollection", func(h C.GEOSContextHandle_t) *C.GEOSGeometry {
		return C.GEOSGeom_createEmptyCollection_r(h, C.int(t))
	})
}

func isCollection(t GeometryType) bool {
	switch t {
	case MultiPoint, MultiLineString, MultiPolygon, GeometryCollection:
		return true
	}
	return false
}

// checkParts verifies that parts can be handed over to a new geometry: each
// must be live, owned, distinct and, if want is not nil, of type *want.
func checkParts(parts []*Geometry, want *GeometryType) ([]*C.GEOSGeometry, error) {
	ptrs := make([]*C.GEOSGeometry, len(parts))
	seen := make(map[*Geometry]bool, len(parts))
	for i, part := range parts {
		p, err := part.raw()
		if err != nil {
			return nil, err
		}
		if !part.owned {
			return nil, &InvalidGeometryError{Reason: "cannot take ownership of a borrowed geometry"}
		}
		if seen[part] {
			return nil, &InvalidGeometryError{Reason: "geometry passed more than once"}
		}
		seen[part] = true
		if want != nil {
			got, err := part.Type()
			if err != nil {
				return nil, err
			}
			if got != *want {
				return nil, typeMismatch(*want, got)
			}
		}
		ptrs[i] = p
	}
	return ptrs, nil
}

// CreatePolygon builds a Polygon from a LinearRing shell and LinearRing
// holes. On success, and on any failure reported by GEOS, the shell and holes
// are consumed. Inputs rejected before calling GEOS (wrong type, borrowed or
// released handles) are left untouched.
func CreatePolygon(shell *Geometry, holes []*Geometry) (*Geometry, error) {
	ring := LinearRing
	all := append([]*Geometry{shell}, holes...)
	ptrs, err := checkParts(all, &ring)
	if err != nil {
		return nil, err
	}

	ctx := shell.ctx
	ctx.retain()
	defer ctx.release()

	var holePtrs **C.GEOSGeometry
	if len(holes) > 0 {
		holePtrs = &ptrs[1]
	}
	g, err := ctx.construct("CreatePolygon", func(h C.GEOSContextHandle_t) *C.GEOSGeometry {
		return C.GEOSGeom_createPolygon_r(h, ptrs[0], holePtrs, C.uint(len(holes)))
	})
	for _, part := range all {
		part.consume()
	}
	return g, err
}

func createCollection(op string, t GeometryType, parts []*Geometry, want *GeometryType) (*Geometry, error) {
	ptrs, err := checkParts(parts, want)
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return CreateEmptyCollection(t)
	}

	ctx := parts[0].ctx
	ctx.retain()
	defer ctx.release()

	g, err := ctx.construct(op, func(h C.GEOSContextHandle_t) *C.GEOSGeometry {
		return C.GEOSGeom_createCollection_r(h, C.int(t), &ptrs[0], C.uint(len(ptrs)))
	})
	for _, part := range parts {
		part.consume()
	}
	return g, err
}

// CreateMultiPoint builds a MultiPoint, consuming points. Every part must be
// a Point; otherwise the error wraps ErrTypeMismatch and nothing is consumed.
func CreateMultiPoint(points []*Geometry) (*Geometry, error) {
	want := Point
	return createCollection("CreateMultiPoint", MultiPoint, points, &want)
}

// CreateMultiLineString builds a MultiLineString, consuming lines.
func CreateMultiLineString(lines []*Geometry) (*Geometry, error) {
	want := LineString
	return createCollection("CreateMultiLineString", MultiLineString, lines, &want)
}

// CreateMultiPolygon builds a MultiPolygon, consuming polygons.
func CreateMultiPolygon(polygons []*Geometry) (*Geometry, error) {
	want := Polygon
	return createCollection("CreateMultiPolygon", MultiPolygon, polygons, &want)
}

// CreateGeometryCollection builds a GeometryCollection of any parts,
// consuming them.
func CreateGeometryCollection(parts []*Geometry) (*Geometry, error) {
	return createCollection("CreateGeometryCollection", GeometryCollection, parts, nil)
}
