package geos

// #cgo LDFLAGS: -lgeos_c
// #include "geos.h"
import "C"

type binaryPredicateFunc func(h C.GEOSContextHandle_t, a, b *C.GEOSGeometry) C.char

func (g *Geometry) binaryPredicate(op string, other *Geometry, fn binaryPredicateFunc) (bool, error) {
	a, err := g.raw()
	if err != nil {
		return false, err
	}
	b, err := other.raw()
	if err != nil {
		return false, err
	}
	return g.ctx.predicate(op, func(h C.GEOSContextHandle_t) C.char { return fn(h, a, b) })
}

func (g *Geometry) unaryPredicate(op string, fn func(h C.GEOSContextHandle_t, p *C.GEOSGeometry) C.char) (bool, error) {
	p, err := g.raw()
	if err != nil {
		return false, err
	}
	return g.ctx.predicate(op, func(h C.GEOSContextHandle_t) C.char { return fn(h, p) })
}

// Intersects reports whether g and other share at least one point.
func (g *Geometry) Intersects(other *Geometry) (bool, error) {
	return g.binaryPredicate("Intersects", other, func(h C.GEOSContextHandle_t, a, b *C.GEOSGeometry) C.char {
		return C.GEOSIntersects_r(h, a, b)
	})
}

func (g *Geometry) Contains(other *Geometry) (bool, error) {
	return g.binaryPredicate("Contains", other, func(h C.GEOSContextHandle_t, a, b *C.GEOSGeometry) C.char {
		return C.GEOSContains_r(h, a, b)
	})
}

func (g *Geometry) Covers(other *Geometry) (bool, error) {
	return g.binaryPredicate("Covers", other, func(h C.GEOSContextHandle_t, a, b *C.GEOSGeometry) C.char {
		return C.GEOSCovers_r(h, a, b)
	})
}

func (g *Geometry) CoveredBy(other *Geometry) (bool, error) {
	return g.binaryPredicate("CoveredBy", other, func(h C.GEOSContextHandle_t, a, b *C.GEOSGeometry) C.char {
		return C.GEOSCoveredBy_r(h, a, b)
	})
}

func (g *Geometry) Touches(other *Geometry) (bool, error) {
	return g.binaryPredicate("Touches", other, func(h C.GEOSContextHandle_t, a, b *C.GEOSGeometry) C.char {
		return C.GEOSTouches_r(h, a, b)
	})
}

func (g *Geometry) Crosses(other *Geometry) (bool, error) {
	return g.binaryPredicate("Crosses", other, func(h C.GEOSContextHandle_t, a, b *C.GEOSGeometry) C.char {
		return C.GEOSCrosses_r(h, a, b)
	})
}

func (g *Geometry) Overlaps(other *Geometry) (bool, error) {
	return g.binaryPredicate("Overlaps", other, func(h C.GEOSContextHandle_t, a, b *C.GEOSGeometry) C.char {
		return C.GEOSOverlaps_r(h, a, b)
	})
}

// Equals reports topological equality.
func (g *Geometry) Equals(other *Geometry) (bool, error) {
	return g.binaryPredicate("Equals", other, func(h C.GEOSContextHandle_t, a, b *C.GEOSGeometry) C.char {
		return C.GEOSEquals_r(h, a, b)
	})
}

// EqualsExact reports structural equality with every coordinate within
// tolerance.
func (g *Geometry) EqualsExact(other *Geometry, tolerance float64) (bool, error) {
	return g.binaryPredicate("EqualsExact", other, func(h C.GEOSContextHandle_t, a, b *C.GEOSGeometry) C.char {
		return C.GEOSEqualsExact_r(h, a, b, C.double(tolerance))
	})
}

func (g *Geometry) Within(other *Geometry) (bool, error) {
	return g.binaryPredicate("Within", other, func(h C.GEOSContextHandle_t, a, b *C.GEOSGeometry) C.char {
		return C.GEOSWithin_r(h, a, b)
	})
}

func (g *Geometry) Disjoint(other *Geometry) (bool, error) {
	return g.binaryPredicate("Disjoint", other, func(h C.GEOSContextHandle_t, a, b *C.GEOSGeometry) C.char {
		return C.GEOSDisjoint_r(h, a, b)
	})
}

func (g *Geometry) IsValid() (bool, error) {
	return g.unaryPredicate("IsValid", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry) C.char {
		return C.GEOSisValid_r(h, p)
	})
}

// IsValidReason describes why g is invalid, or returns "Valid Geometry".
func (g *Geometry) IsValidReason() (string, error) {
	p, err := g.raw()
	if err != nil {
		return "", err
	}
	return g.ctx.text("IsValidReason", func(h C.GEOSContextHandle_t) *C.char { return C.GEOSisValidReason_r(h, p) })
}

func (g *Geometry) IsSimple() (bool, error) {
	return g.unaryPredicate("IsSimple", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry) C.char {
		return C.GEOSisSimple_r(h, p)
	})
}

// IsRing reports whether g is a closed and simple LineString.
func (g *Geometry) IsRing() (bool, error) {
	return g.unaryPredicate("IsRing", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry) C.char {
		return C.GEOSisRing_r(h, p)
	})
}

func (g *Geometry) IsEmpty() (bool, error) {
	return g.unaryPredicate("IsEmpty", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry) C.char {
		return C.GEOSisEmpty_r(h, p)
	})
}

// IsClosed reports whether the first and last points of a LineString or
// LinearRing (or every part of a MultiLineString) coincide.
func (g *Geometry) IsClosed() (bool, error) {
	return g.unaryPredicate("IsClosed", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry) C.char {
		return C.GEOSisClosed_r(h, p)
	})
}

func (g *Geometry) HasZ() (bool, error) {
	return g.unaryPredicate("HasZ", func(h C.GEOSContextHandle_t, p *C.GEOSGeometry) C.char {
		return C.GEOSHasZ_r(h, p)
	})
}
