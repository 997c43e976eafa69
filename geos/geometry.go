package geos

// #cgo LDFLAGS: -lgeos_c
// #include "geos.h"
import "C"
import (
	"fmt"
	"unsafe"
)

// GeometryType is the GEOS geometry type id.
type GeometryType int

const (
	Point GeometryType = iota
	LineString
	LinearRing
	Polygon
	MultiPoint
	MultiLineString
	MultiPolygon
	GeometryCollection
)

func (t GeometryType) String() string {
	switch t {
	case Point:
		return "Point"
	case LineString:
		return "LineString"
	case LinearRing:
		return "LinearRing"
	case Polygon:
		return "Polygon"
	case MultiPoint:
		return "MultiPoint"
	case MultiLineString:
		return "MultiLineString"
	case MultiPolygon:
		return "MultiPolygon"
	case GeometryCollection:
		return "GeometryCollection"
	default:
		return fmt.Sprintf("GeometryType(%d)", int(t))
	}
}

// Geometry wraps one GEOS geometry.
//
// An owned Geometry frees its native geometry on Release. A borrowed Geometry,
// returned by GeometryN, ExteriorRing and InteriorRingN, points into its
// parent: Release never frees it, and it reports ErrReleased once the parent
// was released or consumed.
//
// Methods that read a Geometry may be called concurrently. Normalize and
// SetSRID modify it and need exclusive access.
type Geometry struct {
	ptr      *C.GEOSGeometry
	ctx      *Context
	owned    bool
	parent   *Geometry
	released bool
}

// newOwned wraps ptr and takes a reference on ctx.
func newOwned(ctx *Context, ptr *C.GEOSGeometry) *Geometry {
	ctx.retain()
	return &Geometry{ptr: ptr, ctx: ctx, owned: true}
}

// raw returns the native pointer, or ErrReleased if g or one of its
// ancestors was released.
func (g *Geometry) raw() (*C.GEOSGeometry, error) {
	if g == nil || g.released || g.ptr == nil {
		return nil, ErrReleased
	}
	if g.parent != nil {
		if _, err := g.parent.raw(); err != nil {
			return nil, err
		}
	}
	return g.ptr, nil
}

// Release frees the native geometry if g owns it. It is safe to call more
// than once, and on borrowed geometries.
func (g *Geometry) Release() {
	if g == nil || g.released {
		return
	}
	g.released = true
	if g.owned {
		if g.ptr != nil {
			ptr := g.ptr
			g.ctx.do(func(h C.GEOSContextHandle_t) { C.GEOSGeom_destroy_r(h, ptr) })
		}
		g.ctx.release()
	}
	g.ptr = nil
}

// consume hands the native geometry to a new owner.
func (g *Geometry) consume() {
	g.released = true
	g.ptr = nil
	if g.owned {
		g.ctx.release()
	}
}

// Owned reports whether Release frees the native geometry.
func (g *Geometry) Owned() bool {
	return g.owned
}

// Context returns the context g was created from.
func (g *Geometry) Context() *Context {
	return g.ctx
}

// Clone returns an owned deep copy of g. It panics if GEOS fails to copy a
// live geometry.
func (g *Geometry) Clone() (*Geometry, error) {
	p, err := g.raw()
	if err != nil {
		return nil, err
	}
	var ptr *C.GEOSGeometry
	if err := g.ctx.do(func(h C.GEOSContextHandle_t) { ptr = C.GEOSGeom_clone_r(h, p) }); err != nil {
		return nil, err
	}
	if ptr == nil {
		panic("geos: could not clone geometry")
	}
	return newOwned(g.ctx, ptr), nil
}

// FromWKT parses Well-Known Text using the default context.
func FromWKT(wkt string) (*Geometry, error) {
	return withDefault(func(c *Context) (*Geometry, error) { return c.FromWKT(wkt) })
}

// FromWKB parses Well-Known Binary using the default context.
func FromWKB(wkb []byte) (*Geometry, error) {
	return withDefault(func(c *Context) (*Geometry, error) { return c.FromWKB(wkb) })
}

// FromHex parses hex encoded WKB using the default context.
func FromHex(hex []byte) (*Geometry, error) {
	return withDefault(func(c *Context) (*Geometry, error) { return c.FromHex(hex) })
}

// FromGeoJSON parses a GeoJSON geometry using the default context.
func FromGeoJSON(json string) (*Geometry, error) {
	return withDefault(func(c *Context) (*Geometry, error) { return c.FromGeoJSON(json) })
}

// FromWKT parses Well-Known Text.
func (c *Context) FromWKT(wkt string) (*Geometry, error) {
	cs := C.CString(wkt)
	defer C.free(unsafe.Pointer(cs))

	return c.construct("FromWKT", func(h C.GEOSContextHandle_t) *C.GEOSGeometry {
		r := C.GEOSWKTReader_create_r(h)
		if r == nil {
			return nil
		}
		defer C.GEOSWKTReader_destroy_r(h, r)
		return C.GEOSWKTReader_read_r(h, r, cs)
	})
}

// FromWKB parses Well-Known Binary.
func (c *Context) FromWKB(wkb []byte) (*Geometry, error) {
	if len(wkb) == 0 {
		return nil, &NullConstructionError{Op: "FromWKB", Message: "empty input"}
	}
	return c.construct("FromWKB", func(h C.GEOSContextHandle_t) *C.GEOSGeometry {
		r := C.GEOSWKBReader_create_r(h)
		if r == nil {
			return nil
		}
		defer C.GEOSWKBReader_destroy_r(h, r)
		return C.GEOSWKBReader_read_r(h, r, (*C.uchar)(unsafe.Pointer(&wkb[0])), C.size_t(len(wkb)))
	})
}

// FromHex parses hex encoded WKB.
func (c *Context) FromHex(hex []byte) (*Geometry, error) {
	if len(hex) == 0 {
		return nil, &NullConstructionError{Op: "FromHex", Message: "empty input"}
	}
	return c.construct("FromHex", func(h C.GEOSContextHandle_t) *C.GEOSGeometry {
		r := C.GEOSWKBReader_create_r(h)
		if r == nil {
			return nil
		}
		defer C.GEOSWKBReader_destroy_r(h, r)
		return C.GEOSWKBReader_readHEX_r(h, r, (*C.uchar)(unsafe.Pointer(&hex[0])), C.size_t(len(hex)))
	})
}

// FromGeoJSON parses a GeoJSON geometry.
func (c *Context) FromGeoJSON(json string) (*Geometry, error) {
	cs := C.CString(json)
	defer C.free(unsafe.Pointer(cs))

	return c.construct("FromGeoJSON", func(h C.GEOSContextHandle_t) *C.GEOSGeometry {
		r := C.GEOSGeoJSONReader_create_r(h)
		if r == nil {
			return nil
		}
		defer C.GEOSGeoJSONReader_destroy_r(h, r)
		return C.GEOSGeoJSONReader_readGeometry_r(h, r, cs)
	})
}

// Type returns the geometry type id.
func (g *Geometry) Type() (GeometryType, error) {
	p, err := g.raw()
	if err != nil {
		return 0, err
	}
	n, err := g.ctx.count("Type", func(h C.GEOSContextHandle_t) C.int { return C.GEOSGeomTypeId_r(h, p) })
	return GeometryType(n), err
}

// TypeName returns the GEOS name of the geometry type, such as "Polygon".
func (g *Geometry) TypeName() (string, error) {
	p, err := g.raw()
	if err != nil {
		return "", err
	}
	return g.ctx.text("TypeName", func(h C.GEOSContextHandle_t) *C.char { return C.GEOSGeomType_r(h, p) })
}

// String returns the WKT of g, or a marker if g cannot be written.
func (g *Geometry) String() string {
	wkt, err := g.ToWKT()
	if err != nil {
		return "<invalid geometry>"
	}
	return wkt
}

// NumGeometries returns the number of parts of a collection, or 1.
func (g *Geometry) NumGeometries() (int, error) {
	p, err := g.raw()
	if err != nil {
		return 0, err
	}
	return g.ctx.count("NumGeometries", func(h C.GEOSContextHandle_t) C.int { return C.GEOSGetNumGeometries_r(h, p) })
}

// NumInteriorRings returns the number of holes of a polygon.
func (g *Geometry) NumInteriorRings() (int, error) {
	p, err := g.raw()
	if err != nil {
		return 0, err
	}
	return g.ctx.count("NumInteriorRings", func(h C.GEOSContextHandle_t) C.int { return C.GEOSGetNumInteriorRings_r(h, p) })
}

// NumPoints returns the number of points of a LineString or LinearRing.
func (g *Geometry) NumPoints() (int, error) {
	p, err := g.raw()
	if err != nil {
		return 0, err
	}
	return g.ctx.count("NumPoints", func(h C.GEOSContextHandle_t) C.int { return C.GEOSGeomGetNumPoints_r(h, p) })
}

// NumCoordinates returns the total number of coordinates of g.
func (g *Geometry) NumCoordinates() (int, error) {
	p, err := g.raw()
	if err != nil {
		return 0, err
	}
	return g.ctx.count("NumCoordinates", func(h C.GEOSContextHandle_t) C.int { return C.GEOSGetNumCoordinates_r(h, p) })
}

// NumDimensions returns the topological dimension of g: 0 for points, 1 for
// lines, 2 for polygons.
func (g *Geometry) NumDimensions() (int, error) {
	p, err := g.raw()
	if err != nil {
		return 0, err
	}
	return g.ctx.count("NumDimensions", func(h C.GEOSContextHandle_t) C.int { return C.GEOSGeom_getDimensions_r(h, p) })
}

// CoordinateDimension returns the number of ordinates of the coordinates of
// g: 2, 3 or 4.
func (g *Geometry) CoordinateDimension() (int, error) {
	p, err := g.raw()
	if err != nil {
		return 0, err
	}
	n, err := g.ctx.count("CoordinateDimension", func(h C.GEOSContextHandle_t) C.int {
		return C.GEOSGeom_getCoordinateDimension_r(h, p)
	})
	if err != nil {
		return 0, err
	}
	if n < 2 || n > 4 {
		return 0, &OperationError{Op: "CoordinateDimension", Code: n, Message: g.ctx.lastErrorText()}
	}
	return n, nil
}

// borrow wraps a pointer into g as a borrowed Geometry.
//
// The result is only valid while g is alive. Using it afterwards returns
// ErrReleased instead of reading freed memory.
func (g *Geometry) borrow(op string, fn func(h C.GEOSContextHandle_t, p *C.GEOSGeometry) *C.GEOSGeometry) (*Geometry, error) {
	p, err := g.raw()
	if err != nil {
		return nil, err
	}
	var child *C.GEOSGeometry
	if err := g.ctx.do(func(h C.GEOSContextHandle_t) { child = fn(h, p) }); err != nil {
		return nil, err
	}
	if child == nil {
		return nil, g.ctx.nullConstruction(op)
	}
	return &Geometry{ptr: child, ctx: g.ctx, parent: g}, nil
}

// GeometryN returns a borrowed reference to the i-th part of g, valid only
// while g is alive.
func (g *Geometry) GeometryN(i int) (*Geometry, error) {
	n, err := g.NumGeometries()
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= n {
		return nil, &IndexError{Kind: "geometry", Index: i, Len: n}
	}
	return g.borrow("GeometryN", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry) *C.GEOSGeometry {
		return C.GEOSGetGeometryN_r(h, p, C.int(i))
	})
}

// ExteriorRing returns a borrowed reference to the shell of a polygon, valid
// only while g is alive.
func (g *Geometry) ExteriorRing() (*Geometry, error) {
	return g.borrow("ExteriorRing", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry) *C.GEOSGeometry {
		return C.GEOSGetExteriorRing_r(h, p)
	})
}

// InteriorRingN returns a borrowed reference to the i-th hole of a polygon,
// valid only while g is alive.
func (g *Geometry) InteriorRingN(i int) (*Geometry, error) {
	n, err := g.NumInteriorRings()
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= n {
		return nil, &IndexError{Kind: "interior ring", Index: i, Len: n}
	}
	return g.borrow("InteriorRingN", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry) *C.GEOSGeometry {
		return C.GEOSGetInteriorRingN_r(h, p, C.int(i))
	})
}

// CoordSeq returns an owned copy of the coordinates of a Point, LineString or
// LinearRing.
func (g *Geometry) CoordSeq() (*CoordSeq, error) {
	p, err := g.raw()
	if err != nil {
		return nil, err
	}
	var seq *C.GEOSCoordSequence
	err = g.ctx.do(func(h C.GEOSContextHandle_t) {
		if s := C.GEOSGeom_getCoordSeq_r(h, p); s != nil {
			seq = C.GEOSCoordSeq_clone_r(h, s)
		}
	})
	if err != nil {
		return nil, err
	}
	if seq == nil {
		return nil, g.ctx.nullConstruction("CoordSeq")
	}
	return wrapCoordSeq(g.ctx, seq)
}

// SRID returns the spatial reference id of g.
func (g *Geometry) SRID() (int, error) {
	p, err := g.raw()
	if err != nil {
		return 0, err
	}
	var srid C.int
	err = g.ctx.do(func(h C.GEOSContextHandle_t) { srid = C.GEOSGetSRID_r(h, p) })
	return int(srid), err
}

// SetSRID sets the spatial reference id of g.
func (g *Geometry) SetSRID(srid int) error {
	p, err := g.raw()
	if err != nil {
		return err
	}
	return g.ctx.do(func(h C.GEOSContextHandle_t) { C.GEOSSetSRID_r(h, p, C.int(srid)) })
}

// Normalize rewrites g in place into its normal form.
func (g *Geometry) Normalize() error {
	p, err := g.raw()
	if err != nil {
		return err
	}
	var ret C.int
	if err := g.ctx.do(func(h C.GEOSContextHandle_t) { ret = C.GEOSNormalize_r(h, p) }); err != nil {
		return err
	}
	if ret != 0 {
		return &OperationError{Op: "Normalize", Code: int(ret), Message: g.ctx.lastErrorText()}
	}
	return nil
}

// ToWKT writes g as trimmed WKT with full precision.
func (g *Geometry) ToWKT() (string, error) {
	if _, err := g.raw(); err != nil {
		return "", err
	}
	w, err := g.ctx.NewWKTWriter()
	if err != nil {
		return "", err
	}
	defer w.Release()
	if err := w.SetTrim(true); err != nil {
		return "", err
	}
	return w.Write(g)
}

// ToWKB writes g as little endian WKB, keeping its coordinate dimension.
func (g *Geometry) ToWKB() ([]byte, error) {
	if _, err := g.raw(); err != nil {
		return nil, err
	}
	w, err := g.ctx.NewWKBWriter()
	if err != nil {
		return nil, err
	}
	defer w.Release()
	return w.Write(g)
}

// ToHex writes g as hex encoded WKB.
func (g *Geometry) ToHex() (string, error) {
	if _, err := g.raw(); err != nil {
		return "", err
	}
	w, err := g.ctx.NewWKBWriter()
	if err != nil {
		return "", err
	}
	defer w.Release()
	return w.WriteHex(g)
}

// ToGeoJSON writes g as an unindented GeoJSON geometry.
func (g *Geometry) ToGeoJSON() (string, error) {
	if _, err := g.raw(); err != nil {
		return "", err
	}
	w, err := g.ctx.NewGeoJSONWriter()
	if err != nil {
		return "", err
	}
	defer w.Release()
	return w.Write(g, -1)
}
