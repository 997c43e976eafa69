package geos

// #cgo LDFLAGS: -lgeos_c
// #include "geos.h"
import "C"
import "fmt"

func (g *Geometry) unary(op string, fn func(h C.GEOSContextHandle_t, p *C.GEOSGeometry) *C.GEOSGeometry) (*Geometry, error) {
	p, err := g.raw()
	if err != nil {
		return nil, err
	}
	return g.ctx.construct(op, func(h C.GEOSContextHandle_t) *C.GEOSGeometry { return fn(h, p) })
}

// binary derives a new geometry from g and other. The result shares the
// context of g.
func (g *Geometry) binary(op string, other *Geometry, fn func(h C.GEOSContextHandle_t, a, b *C.GEOSGeometry) *C.GEOSGeometry) (*Geometry, error) {
	a, err := g.raw()
	if err != nil {
		return nil, err
	}
	b, err := other.raw()
	if err != nil {
		return nil, err
	}
	return g.ctx.construct(op, func(h C.GEOSContextHandle_t) *C.GEOSGeometry { return fn(h, a, b) })
}

func (g *Geometry) Union(other *Geometry) (*Geometry, error) {
	return g.binary("Union", other, func(h C.GEOSContextHandle_t, a, b *C.GEOSGeometry) *C.GEOSGeometry {
		return C.GEOSUnion_r(h, a, b)
	})
}

func (g *Geometry) Intersection(other *Geometry) (*Geometry, error) {
	return g.binary("Intersection", other, func(h C.GEOSContextHandle_t, a, b *C.GEOSGeometry) *C.GEOSGeometry {
		return C.GEOSIntersection_r(h, a, b)
	})
}

func (g *Geometry) Difference(other *Geometry) (*Geometry, error) {
	return g.binary("Difference", other, func(h C.GEOSContextHandle_t, a, b *C.GEOSGeometry) *C.GEOSGeometry {
		return C.GEOSDifference_r(h, a, b)
	})
}

func (g *Geometry) SymDifference(other *Geometry) (*Geometry, error) {
	return g.binary("SymDifference", other, func(h C.GEOSContextHandle_t, a, b *C.GEOSGeometry) *C.GEOSGeometry {
		return C.GEOSSymDifference_r(h, a, b)
	})
}

// UnaryUnion dissolves the parts of g.
func (g *Geometry) UnaryUnion() (*Geometry, error) {
	return g.unary("UnaryUnion", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry) *C.GEOSGeometry {
		return C.GEOSUnaryUnion_r(h, p)
	})
}

// Envelope returns the bounding rectangle of g as a Polygon (or a Point for
// degenerate input).
func (g *Geometry) Envelope() (*Geometry, error) {
	return g.unary("Envelope", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry) *C.GEOSGeometry {
		return C.GEOSEnvelope_r(h, p)
	})
}

func (g *Geometry) ConvexHull() (*Geometry, error) {
	return g.unary("ConvexHull", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry) *C.GEOSGeometry {
		return C.GEOSConvexHull_r(h, p)
	})
}

func (g *Geometry) Boundary() (*Geometry, error) {
	return g.unary("Boundary", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry) *C.GEOSGeometry {
		return C.GEOSBoundary_r(h, p)
	})
}

func (g *Geometry) Centroid() (*Geometry, error) {
	return g.unary("Centroid", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry) *C.GEOSGeometry {
		return C.GEOSGetCentroid_r(h, p)
	})
}

// PointOnSurface returns a point guaranteed to lie in the interior of g.
func (g *Geometry) PointOnSurface() (*Geometry, error) {
	return g.unary("PointOnSurface", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry) *C.GEOSGeometry {
		return C.GEOSPointOnSurface_r(h, p)
	})
}

// Buffer returns g grown by width, approximating quarter circles with
// quadrantSegments segments. quadrantSegments must be positive.
func (g *Geometry) Buffer(width float64, quadrantSegments int) (*Geometry, error) {
	if quadrantSegments <= 0 {
		return nil, errQuadrantSegments(quadrantSegments)
	}
	return g.unary("Buffer", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry) *C.GEOSGeometry {
		return C.GEOSBuffer_r(h, p, C.double(width), C.int(quadrantSegments))
	})
}

func errQuadrantSegments(n int) error {
	return fmt.Errorf("%w: quadrant segments must be > 0, got %d", ErrInvalidArgument, n)
}

// BufferWithParams buffers g using the styles configured in params.
func (g *Geometry) BufferWithParams(params *BufferParams, width float64) (*Geometry, error) {
	bp, err := params.raw()
	if err != nil {
		return nil, err
	}
	return g.unary("BufferWithParams", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry) *C.GEOSGeometry {
		return C.GEOSBufferWithParams_r(h, p, bp, C.double(width))
	})
}

// Simplify applies Douglas-Peucker simplification; the result may be invalid.
func (g *Geometry) Simplify(tolerance float64) (*Geometry, error) {
	return g.unary("Simplify", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry) *C.GEOSGeometry {
		return C.GEOSSimplify_r(h, p, C.double(tolerance))
	})
}

// TopologyPreserveSimplify simplifies g without changing its topology.
func (g *Geometry) TopologyPreserveSimplify(tolerance float64) (*Geometry, error) {
	return g.unary("TopologyPreserveSimplify", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry) *C.GEOSGeometry {
		return C.GEOSTopologyPreserveSimplify_r(h, p, C.double(tolerance))
	})
}

// BuildArea builds the polygons formed by the linework of g.
func (g *Geometry) BuildArea() (*Geometry, error) {
	return g.unary("BuildArea", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry) *C.GEOSGeometry {
		return C.GEOSBuildArea_r(h, p)
	})
}

func (g *Geometry) MakeValid() (*Geometry, error) {
	return g.unary("MakeValid", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry) *C.GEOSGeometry {
		return C.GEOSMakeValid_r(h, p)
	})
}

func (g *Geometry) MakeValidWithParams(params *MakeValidParams) (*Geometry, error) {
	mp, err := params.raw()
	if err != nil {
		return nil, err
	}
	return g.unary("MakeValidWithParams", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry) *C.GEOSGeometry {
		return C.GEOSMakeValidWithParams_r(h, p, mp)
	})
}

func (g *Geometry) LineMerge() (*Geometry, error) {
	return g.unary("LineMerge", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry) *C.GEOSGeometry {
		return C.GEOSLineMerge_r(h, p)
	})
}

func (g *Geometry) Reverse() (*Geometry, error) {
	return g.unary("Reverse", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry) *C.GEOSGeometry {
		return C.GEOSReverse_r(h, p)
	})
}

// VoronoiDiagram computes the Voronoi diagram of the vertices of g. envelope
// may be nil; when set it extends the clipping area of the diagram.
func (g *Geometry) VoronoiDiagram(envelope *Geometry, tolerance float64, onlyEdges bool) (*Geometry, error) {
	var env *C.GEOSGeometry
	if envelope != nil {
		var err error
		if env, err = envelope.raw(); err != nil {
			return nil, err
		}
	}
	return g.unary("VoronoiDiagram", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry) *C.GEOSGeometry {
		return C.GEOSVoronoiDiagram_r(h, p, env, C.double(tolerance), C.int(boolToInt(onlyEdges)))
	})
}

// DelaunayTriangulation triangulates the vertices of g.
func (g *Geometry) DelaunayTriangulation(tolerance float64, onlyEdges bool) (*Geometry, error) {
	return g.unary("DelaunayTriangulation", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry) *C.GEOSGeometry {
		return C.GEOSDelaunayTriangulation_r(h, p, C.double(tolerance), C.int(boolToInt(onlyEdges)))
	})
}

// Polygonize builds a GeometryCollection of the polygons formed by the
// linework of geometries. The inputs are not consumed.
func Polygonize(geometries []*Geometry) (*Geometry, error) {
	if len(geometries) == 0 {
		return nil, &InvalidGeometryError{Reason: "polygonize needs at least one geometry"}
	}
	ptrs := make([]*C.GEOSGeometry, len(geometries))
	for i, g := range geometries {
		p, err := g.raw()
		if err != nil {
			return nil, err
		}
		ptrs[i] = p
	}
	return geometries[0].ctx.construct("Polygonize", func(h C.GEOSContextHandle_t) *C.GEOSGeometry {
		return C.GEOSPolygonize_r(h, &ptrs[0], C.uint(len(ptrs)))
	})
}

func (g *Geometry) unaryMeasure(op string, fn func(h C.GEOSContextHandle_t, p *C.GEOSGeometry, out *C.double) C.int) (float64, error) {
	p, err := g.raw()
	if err != nil {
		return 0, err
	}
	return g.ctx.measure(op, func(h C.GEOSContextHandle_t, out *C.double) C.int { return fn(h, p, out) })
}

func (g *Geometry) binaryMeasure(op string, other *Geometry, fn func(h C.GEOSContextHandle_t, a, b *C.GEOSGeometry, out *C.double) C.int) (float64, error) {
	a, err := g.raw()
	if err != nil {
		return 0, err
	}
	b, err := other.raw()
	if err != nil {
		return 0, err
	}
	return g.ctx.measure(op, func(h C.GEOSContextHandle_t, out *C.double) C.int { return fn(h, a, b, out) })
}

func (g *Geometry) Area() (float64, error) {
	return g.unaryMeasure("Area", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry, out *C.double) C.int {
		return C.GEOSArea_r(h, p, out)
	})
}

func (g *Geometry) Length() (float64, error) {
	return g.unaryMeasure("Length", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry, out *C.double) C.int {
		return C.GEOSLength_r(h, p, out)
	})
}

// X returns the x coordinate of a Point.
func (g *Geometry) X() (float64, error) {
	return g.unaryMeasure("X", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry, out *C.double) C.int {
		return C.GEOSGeomGetX_r(h, p, out)
	})
}

// Y returns the y coordinate of a Point.
func (g *Geometry) Y() (float64, error) {
	return g.unaryMeasure("Y", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry, out *C.double) C.int {
		return C.GEOSGeomGetY_r(h, p, out)
	})
}

// Z returns the z coordinate of a Point, NaN when it has none.
func (g *Geometry) Z() (float64, error) {
	return g.unaryMeasure("Z", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry, out *C.double) C.int {
		return C.GEOSGeomGetZ_r(h, p, out)
	})
}

func (g *Geometry) Distance(other *Geometry) (float64, error) {
	return g.binaryMeasure("Distance", other, func(h C.GEOSContextHandle_t, a, b *C.GEOSGeometry, out *C.double) C.int {
		return C.GEOSDistance_r(h, a, b, out)
	})
}

func (g *Geometry) HausdorffDistance(other *Geometry) (float64, error) {
	return g.binaryMeasure("HausdorffDistance", other, func(h C.GEOSContextHandle_t, a, b *C.GEOSGeometry, out *C.double) C.int {
		return C.GEOSHausdorffDistance_r(h, a, b, out)
	})
}

// HausdorffDistanceDensify is HausdorffDistance computed on segments
// densified by densifyFrac, which must be in (0, 1].
func (g *Geometry) HausdorffDistanceDensify(other *Geometry, densifyFrac float64) (float64, error) {
	if densifyFrac <= 0 || densifyFrac > 1 {
		return 0, errDensifyFraction(densifyFrac)
	}
	return g.binaryMeasure("HausdorffDistanceDensify", other, func(h C.GEOSContextHandle_t, a, b *C.GEOSGeometry, out *C.double) C.int {
		return C.GEOSHausdorffDistanceDensify_r(h, a, b, C.double(densifyFrac), out)
	})
}

func (g *Geometry) FrechetDistance(other *Geometry) (float64, error) {
	return g.binaryMeasure("FrechetDistance", other, func(h C.GEOSContextHandle_t, a, b *C.GEOSGeometry, out *C.double) C.int {
		return C.GEOSFrechetDistance_r(h, a, b, out)
	})
}

// FrechetDistanceDensify is FrechetDistance computed on segments densified by
// densifyFrac, which must be in (0, 1].
func (g *Geometry) FrechetDistanceDensify(other *Geometry, densifyFrac float64) (float64, error) {
	if densifyFrac <= 0 || densifyFrac > 1 {
		return 0, errDensifyFraction(densifyFrac)
	}
	return g.binaryMeasure("FrechetDistanceDensify", other, func(h C.GEOSContextHandle_t, a, b *C.GEOSGeometry, out *C.double) C.int {
		return C.GEOSFrechetDistanceDensify_r(h, a, b, C.double(densifyFrac), out)
	})
}

func errDensifyFraction(f float64) error {
	return fmt.Errorf("%w: densify fraction must be in (0, 1], got %v", ErrInvalidArgument, f)
}

// MinimumClearance returns the smallest distance by which a vertex of g could
// move to produce an invalid geometry. It is +Inf when no such move exists.
func (g *Geometry) MinimumClearance() (float64, error) {
	p, err := g.raw()
	if err != nil {
		return 0, err
	}
	var v C.double
	var ret C.int
	if err := g.ctx.do(func(h C.GEOSContextHandle_t) { ret = C.GEOSMinimumClearance_r(h, p, &v) }); err != nil {
		return 0, err
	}
	// 0 on success, 2 on exception
	if ret != 0 {
		return 0, &OperationError{Op: "MinimumClearance", Code: int(ret), Message: g.ctx.lastErrorText()}
	}
	return float64(v), nil
}

// MinimumClearanceLine returns the two-point line spanning the minimum
// clearance of g.
func (g *Geometry) MinimumClearanceLine() (*Geometry, error) {
	return g.unary("MinimumClearanceLine", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry) *C.GEOSGeometry {
		return C.GEOSMinimumClearanceLine_r(h, p)
	})
}

// MinimumRotatedRectangle returns the smallest rectangle of any orientation
// enclosing g.
func (g *Geometry) MinimumRotatedRectangle() (*Geometry, error) {
	return g.unary("MinimumRotatedRectangle", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry) *C.GEOSGeometry {
		return C.GEOSMinimumRotatedRectangle_r(h, p)
	})
}

// MinimumWidth returns the line spanning the minimum width of g.
func (g *Geometry) MinimumWidth() (*Geometry, error) {
	return g.unary("MinimumWidth", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry) *C.GEOSGeometry {
		return C.GEOSMinimumWidth_r(h, p)
	})
}

// Snap snaps the vertices and segments of g to the vertices of other within
// tolerance.
func (g *Geometry) Snap(other *Geometry, tolerance float64) (*Geometry, error) {
	return g.binary("Snap", other, func(h C.GEOSContextHandle_t, a, b *C.GEOSGeometry) *C.GEOSGeometry {
		return C.GEOSSnap_r(h, a, b, C.double(tolerance))
	})
}

// ExtractUniquePoints returns the distinct vertices of g as a MultiPoint.
func (g *Geometry) ExtractUniquePoints() (*Geometry, error) {
	return g.unary("ExtractUniquePoints", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry) *C.GEOSGeometry {
		return C.GEOSGeom_extractUniquePoints_r(h, p)
	})
}

// PrecisionOption controls how SetPrecision treats the snapped geometry.
type PrecisionOption int

const (
	// PrecisionValidOutput snaps and repairs the result into a valid geometry.
	PrecisionValidOutput PrecisionOption = 0
	// PrecisionNoTopology snaps coordinates only, without fixing topology.
	PrecisionNoTopology PrecisionOption = C.GEOS_PREC_NO_TOPO
	// PrecisionKeepCollapsed keeps components collapsed by snapping.
	PrecisionKeepCollapsed PrecisionOption = C.GEOS_PREC_KEEP_COLLAPSED
)

// SetPrecision returns a copy of g snapped to a grid of gridSize. A gridSize
// of 0 means floating precision.
func (g *Geometry) SetPrecision(gridSize float64, option PrecisionOption) (*Geometry, error) {
	if gridSize < 0 {
		return nil, fmt.Errorf("%w: grid size must be >= 0, got %v", ErrInvalidArgument, gridSize)
	}
	return g.unary("SetPrecision", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry) *C.GEOSGeometry {
		return C.GEOSGeom_setPrecision_r(h, p, C.double(gridSize), C.int(option))
	})
}

// Precision returns the grid size of g, 0 for floating precision.
func (g *Geometry) Precision() (float64, error) {
	p, err := g.raw()
	if err != nil {
		return 0, err
	}
	return g.ctx.value("Precision", func(h C.GEOSContextHandle_t) C.double { return C.GEOSGeom_getPrecision_r(h, p) })
}

// Bounds returns the envelope of g as [xmin, ymin, xmax, ymax].
func (g *Geometry) Bounds() ([4]float64, error) {
	bounds := [4]float64{}
	getters := []struct {
		op string
		fn func(h C.GEOSContextHandle_t, p *C.GEOSGeometry, out *C.double) C.int
	}{
		{"XMin", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry, out *C.double) C.int { return C.GEOSGeom_getXMin_r(h, p, out) }},
		{"YMin", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry, out *C.double) C.int { return C.GEOSGeom_getYMin_r(h, p, out) }},
		{"XMax", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry, out *C.double) C.int { return C.GEOSGeom_getXMax_r(h, p, out) }},
		{"YMax", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry, out *C.double) C.int { return C.GEOSGeom_getYMax_r(h, p, out) }},
	}
	for i, getter := range getters {
		v, err := g.unaryMeasure(getter.op, getter.fn)
		if err != nil {
			return bounds, err
		}
		bounds[i] = v
	}
	return bounds, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
