package geos

// #cgo LDFLAGS: -lgeos_c
// #include "geos.h"
import "C"
import (
	"fmt"
	"strings"
)

// PreparedGeometry indexes a geometry to speed up repeated predicate tests
// against it.
//
// Prepare works on its own deep copy of the source, so the source may be
// modified or released while the PreparedGeometry is in use.
type PreparedGeometry struct {
	ptr    *C.GEOSPreparedGeometry
	source *Geometry
}

// Prepare builds a PreparedGeometry from a copy of g.
func Prepare(g *Geometry) (*PreparedGeometry, error) {
	clone, err := g.Clone()
	if err != nil {
		return nil, err
	}
	p := clone.ptr
	var ptr *C.GEOSPreparedGeometry
	if err := clone.ctx.do(func(h C.GEOSContextHandle_t) { ptr = C.GEOSPrepare_r(h, p) }); err != nil {
		clone.Release()
		return nil, err
	}
	if ptr == nil {
		err := clone.ctx.nullConstruction("Prepare")
		clone.Release()
		return nil, err
	}
	return &PreparedGeometry{ptr: ptr, source: clone}, nil
}

// Geometry returns a borrowed reference to the prepared copy.
func (pg *PreparedGeometry) Geometry() (*Geometry, error) {
	if pg == nil || pg.ptr == nil {
		return nil, ErrReleased
	}
	return &Geometry{ptr: pg.source.ptr, ctx: pg.source.ctx, parent: pg.source}, nil
}

// Release frees the index and its copy of the source. It is safe to call more
// than once.
func (pg *PreparedGeometry) Release() {
	if pg == nil || pg.ptr == nil {
		return
	}
	ptr := pg.ptr
	pg.ptr = nil
	pg.source.ctx.do(func(h C.GEOSContextHandle_t) { C.GEOSPreparedGeom_destroy_r(h, ptr) })
	pg.source.Release()
}

func (pg *PreparedGeometry) predicate(op string, other *Geometry, fn func(h C.GEOSContextHandle_t, p *C.GEOSPreparedGeometry, g *C.GEOSGeometry) C.char) (bool, error) {
	if pg == nil || pg.ptr == nil {
		return false, ErrReleased
	}
	p := pg.ptr
	g, err := other.raw()
	if err != nil {
		return false, err
	}
	return pg.source.ctx.predicate(op, func(h C.GEOSContextHandle_t) C.char { return fn(h, p, g) })
}

func (pg *PreparedGeometry) Contains(g *Geometry) (bool, error) {
	return pg.predicate("PreparedContains", g, func(h C.GEOSContextHandle_t, p *C.GEOSPreparedGeometry, g *C.GEOSGeometry) C.char {
		return C.GEOSPreparedContains_r(h, p, g)
	})
}

// ContainsProperly reports whether g lies in the interior of the prepared
// geometry, touching neither its boundary nor its exterior.
func (pg *PreparedGeometry) ContainsProperly(g *Geometry) (bool, error) {
	return pg.predicate("PreparedContainsProperly", g, func(h C.GEOSContextHandle_t, p *C.GEOSPreparedGeometry, g *C.GEOSGeometry) C.char {
		return C.GEOSPreparedContainsProperly_r(h, p, g)
	})
}

func (pg *PreparedGeometry) CoveredBy(g *Geometry) (bool, error) {
	return pg.predicate("PreparedCoveredBy", g, func(h C.GEOSContextHandle_t, p *C.GEOSPreparedGeometry, g *C.GEOSGeometry) C.char {
		return C.GEOSPreparedCoveredBy_r(h, p, g)
	})
}

func (pg *PreparedGeometry) Covers(g *Geometry) (bool, error) {
	return pg.predicate("PreparedCovers", g, func(h C.GEOSContextHandle_t, p *C.GEOSPreparedGeometry, g *C.GEOSGeometry) C.char {
		return C.GEOSPreparedCovers_r(h, p, g)
	})
}

func (pg *PreparedGeometry) Crosses(g *Geometry) (bool, error) {
	return pg.predicate("PreparedCrosses", g, func(h C.GEOSContextHandle_t, p *C.GEOSPreparedGeometry, g *C.GEOSGeometry) C.char {
		return C.GEOSPreparedCrosses_r(h, p, g)
	})
}

func (pg *PreparedGeometry) Disjoint(g *Geometry) (bool, error) {
	return pg.predicate("PreparedDisjoint", g, func(h C.GEOSContextHandle_t, p *C.GEOSPreparedGeometry, g *C.GEOSGeometry) C.char {
		return C.GEOSPreparedDisjoint_r(h, p, g)
	})
}

func (pg *PreparedGeometry) Intersects(g *Geometry) (bool, error) {
	return pg.predicate("PreparedIntersects", g, func(h C.GEOSContextHandle_t, p *C.GEOSPreparedGeometry, g *C.GEOSGeometry) C.char {
		return C.GEOSPreparedIntersects_r(h, p, g)
	})
}

func (pg *PreparedGeometry) Overlaps(g *Geometry) (bool, error) {
	return pg.predicate("PreparedOverlaps", g, func(h C.GEOSContextHandle_t, p *C.GEOSPreparedGeometry, g *C.GEOSGeometry) C.char {
		return C.GEOSPreparedOverlaps_r(h, p, g)
	})
}

func (pg *PreparedGeometry) Touches(g *Geometry) (bool, error) {
	return pg.predicate("PreparedTouches", g, func(h C.GEOSContextHandle_t, p *C.GEOSPreparedGeometry, g *C.GEOSGeometry) C.char {
		return C.GEOSPreparedTouches_r(h, p, g)
	})
}

func (pg *PreparedGeometry) Within(g *Geometry) (bool, error) {
	return pg.predicate("PreparedWithin", g, func(h C.GEOSContextHandle_t, p *C.GEOSPreparedGeometry, g *C.GEOSGeometry) C.char {
		return C.GEOSPreparedWithin_r(h, p, g)
	})
}

// Predicate names a relation usable for spatial queries. Disjoint is
// excluded: its matches are exactly the geometries an index cannot return.
type Predicate string

const (
	PredicateIntersects       Predicate = "intersects"
	PredicateContains         Predicate = "contains"
	PredicateContainsProperly Predicate = "contains_properly"
	PredicateCovers           Predicate = "covers"
	PredicateCoveredBy        Predicate = "covered_by"
	PredicateCrosses          Predicate = "crosses"
	PredicateOverlaps         Predicate = "overlaps"
	PredicateTouches          Predicate = "touches"
	PredicateWithin           Predicate = "within"
)

var predicates = []Predicate{
	PredicateIntersects,
	PredicateContains,
	PredicateContainsProperly,
	PredicateCovers,
	PredicateCoveredBy,
	PredicateCrosses,
	PredicateOverlaps,
	PredicateTouches,
	PredicateWithin,
}

// ParsePredicate looks up a predicate by name, ignoring case.
func ParsePredicate(name string) (Predicate, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, p := range predicates {
		if string(p) == name {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: unknown predicate %q", ErrInvalidArgument, name)
}

// Test evaluates pred with the prepared geometry as the first operand.
func (pg *PreparedGeometry) Test(pred Predicate, g *Geometry) (bool, error) {
	switch pred {
	case PredicateIntersects:
		return pg.Intersects(g)
	case PredicateContains:
		return pg.Contains(g)
	case PredicateContainsProperly:
		return pg.ContainsProperly(g)
	case PredicateCovers:
		return pg.Covers(g)
	case PredicateCoveredBy:
		return pg.CoveredBy(g)
	case PredicateCrosses:
		return pg.Crosses(g)
	case PredicateOverlaps:
		return pg.Overlaps(g)
	case PredicateTouches:
		return pg.Touches(g)
	case PredicateWithin:
		return pg.Within(g)
	default:
		return false, fmt.Errorf("%w: unknown predicate %q", ErrInvalidArgument, pred)
	}
}
