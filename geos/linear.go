package geos

// #cgo LDFLAGS: -lgeos_c
// #include "geos.h"
import "C"

// PointN returns an owned copy of the n-th point of a LineString.
func (g *Geometry) PointN(n int) (*Geometry, error) {
	size, err := g.NumPoints()
	if err != nil {
		return nil, err
	}
	if n < 0 || n >= size {
		return nil, &IndexError{Kind: "point", Index: n, Len: size}
	}
	return g.unary("PointN", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry) *C.GEOSGeometry {
		return C.GEOSGeomGetPointN_r(h, p, C.int(n))
	})
}

func (g *Geometry) StartPoint() (*Geometry, error) {
	return g.unary("StartPoint", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry) *C.GEOSGeometry {
		return C.GEOSGeomGetStartPoint_r(h, p)
	})
}

func (g *Geometry) EndPoint() (*Geometry, error) {
	return g.unary("EndPoint", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry) *C.GEOSGeometry {
		return C.GEOSGeomGetEndPoint_r(h, p)
	})
}

// Interpolate returns the point at distance d along a linear geometry.
func (g *Geometry) Interpolate(d float64) (*Geometry, error) {
	return g.unary("Interpolate", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry) *C.GEOSGeometry {
		return C.GEOSInterpolate_r(h, p, C.double(d))
	})
}

// InterpolateNormalized is Interpolate with d given as a fraction of the
// length of g.
func (g *Geometry) InterpolateNormalized(d float64) (*Geometry, error) {
	return g.unary("InterpolateNormalized", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry) *C.GEOSGeometry {
		return C.GEOSInterpolateNormalized_r(h, p, C.double(d))
	})
}

func (g *Geometry) project(op string, point *Geometry, fn func(h C.GEOSContextHandle_t, a, b *C.GEOSGeometry) C.double) (float64, error) {
	a, err := g.raw()
	if err != nil {
		return 0, err
	}
	t, err := point.Type()
	if err != nil {
		return 0, err
	}
	if t != Point {
		return 0, typeMismatch(Point, t)
	}
	b, err := point.raw()
	if err != nil {
		return 0, err
	}
	return g.ctx.value(op, func(h C.GEOSContextHandle_t) C.double { return fn(h, a, b) })
}

// Project returns the distance along g of the point of g nearest to point.
func (g *Geometry) Project(point *Geometry) (float64, error) {
	return g.project("Project", point, func(h C.GEOSContextHandle_t, a, b *C.GEOSGeometry) C.double {
		return C.GEOSProject_r(h, a, b)
	})
}

// ProjectNormalized is Project as a fraction of the length of g.
func (g *Geometry) ProjectNormalized(point *Geometry) (float64, error) {
	return g.project("ProjectNormalized", point, func(h C.GEOSContextHandle_t, a, b *C.GEOSGeometry) C.double {
		return C.GEOSProjectNormalized_r(h, a, b)
	})
}

// NearestPoints returns the nearest point of g and of other, in that order,
// as an owned two-coordinate sequence.
func (g *Geometry) NearestPoints(other *Geometry) (*CoordSeq, error) {
	a, err := g.raw()
	if err != nil {
		return nil, err
	}
	b, err := other.raw()
	if err != nil {
		return nil, err
	}
	var seq *C.GEOSCoordSequence
	if err := g.ctx.do(func(h C.GEOSContextHandle_t) { seq = C.GEOSNearestPoints_r(h, a, b) }); err != nil {
		return nil, err
	}
	if seq == nil {
		return nil, g.ctx.nullConstruction("NearestPoints")
	}
	return wrapCoordSeq(g.ctx, seq)
}

// OffsetCurve returns a line parallel to g at width; negative widths offset
// to the right.
func (g *Geometry) OffsetCurve(width float64, quadrantSegments int, join JoinStyle, mitreLimit float64) (*Geometry, error) {
	if quadrantSegments <= 0 {
		return nil, errQuadrantSegments(quadrantSegments)
	}
	return g.unary("OffsetCurve", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry) *C.GEOSGeometry {
		return C.GEOSOffsetCurve_r(h, p, C.double(width), C.int(quadrantSegments), C.int(join), C.double(mitreLimit))
	})
}

// SharedPaths returns the paths shared by two linear geometries as a
// collection of the same-direction and opposite-direction parts.
func (g *Geometry) SharedPaths(other *Geometry) (*Geometry, error) {
	return g.binary("SharedPaths", other, func(h C.GEOSContextHandle_t, a, b *C.GEOSGeometry) *C.GEOSGeometry {
		return C.GEOSSharedPaths_r(h, a, b)
	})
}

// Node returns the fully noded linework of g.
func (g *Geometry) Node() (*Geometry, error) {
	return g.unary("Node", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry) *C.GEOSGeometry {
		return C.GEOSNode_r(h, p)
	})
}
