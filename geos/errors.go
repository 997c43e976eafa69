package geos

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionInit is returned when GEOS could not create a session.
	ErrSessionInit = errors.New("geos: could not initialize GEOS session")

	// ErrReleased is returned when a handle is used after it was released,
	// consumed by a constructor, or when a borrowed handle outlived its parent.
	ErrReleased = errors.New("geos: use of released handle")

	// ErrTypeMismatch is wrapped by InvalidGeometryError when a part does not
	// have the geometry type a constructor requires.
	ErrTypeMismatch = errors.New("geos: geometry type mismatch")

	// ErrInvalidArgument marks a precondition on a scalar argument that failed
	// before GEOS was called.
	ErrInvalidArgument = errors.New("geos: invalid argument")

	// ErrTreeBuilt is returned when inserting into an STRtree that has
	// already been queried; GEOS trees are immutable once built.
	ErrTreeBuilt = errors.New("geos: STRtree already built")
)

// NullConstructionError is returned when a GEOS constructor or derivation
// returned a null pointer.
type NullConstructionError struct {
	Op      string
	Message string // last error reported by GEOS, may be empty
}

func (e *NullConstructionError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("geos: %s failed", e.Op)
	}
	return fmt.Sprintf("geos: %s failed: %s", e.Op, e.Message)
}

// Unwrap exposes the GEOS message as a GEOSError.
func (e *NullConstructionError) Unwrap() error {
	if e.Message == "" {
		return nil
	}
	return GEOSError(e.Message)
}

// OperationError is returned when a predicate or measure returned a code
// that is neither true nor false (or the failure sentinel of a measure).
type OperationError struct {
	Op      string
	Code    int
	Message string
}

func (e *OperationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("geos: %s returned %d", e.Op, e.Code)
	}
	return fmt.Sprintf("geos: %s returned %d: %s", e.Op, e.Code, e.Message)
}

// InvalidGeometryError reports a structural precondition checked before
// calling GEOS, such as the vertex count of a ring.
type InvalidGeometryError struct {
	Reason string
	Err    error
}

func (e *InvalidGeometryError) Error() string {
	return "geos: invalid geometry: " + e.Reason
}

func (e *InvalidGeometryError) Unwrap() error {
	return e.Err
}

// IndexError reports an out of bounds coordinate, ordinate or sub-geometry
// index.
type IndexError struct {
	Kind  string
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("geos: %s index %d out of range [0, %d)", e.Kind, e.Index, e.Len)
}

func typeMismatch(want, got GeometryType) error {
	return &InvalidGeometryError{
		Reason: fmt.Sprintf("expected %v, got %v", want, got),
		Err:    ErrTypeMismatch,
	}
}
