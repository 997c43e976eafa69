package geos

// #cgo LDFLAGS: -lgeos_c
// #include "geos.h"
import "C"
import "fmt"

// Ordinate indexes the axes of a coordinate.
type Ordinate int

const (
	OrdinateX Ordinate = iota
	OrdinateY
	OrdinateZ
	OrdinateM
)

// CoordSeq is an owned, mutable sequence of coordinates with 2 (XY),
// 3 (XYZ) or 4 (XYZM) ordinates each.
//
// A CoordSeq passed to CreatePoint, CreateLineString, CreateLinearRing or
// CreateClosedLinearRing is consumed whether or not construction succeeds;
// afterwards it reports ErrReleased and Release does nothing.
type CoordSeq struct {
	ptr      *C.GEOSCoordSequence
	ctx      *Context
	size     int
	dims     int
	released bool
}

// NewCoordSeq creates a zero-filled sequence on the default context.
func NewCoordSeq(size, dims int) (*CoordSeq, error) {
	return withDefault(func(c *Context) (*CoordSeq, error) { return c.NewCoordSeq(size, dims) })
}

// NewCoordSeqFromSlice creates a sequence on the default context from one
// slice per coordinate.
func NewCoordSeqFromSlice(coords [][]float64) (*CoordSeq, error) {
	return withDefault(func(c *Context) (*CoordSeq, error) { return c.NewCoordSeqFromSlice(coords) })
}

// NewCoordSeq creates a zero-filled sequence of size coordinates with dims
// ordinates each.
func (c *Context) NewCoordSeq(size, dims int) (*CoordSeq, error) {
	if size < 0 {
		return nil, fmt.Errorf("%w: coordinate sequence size must be >= 0, got %d", ErrInvalidArgument, size)
	}
	if dims < 2 || dims > 4 {
		return nil, fmt.Errorf("%w: coordinate dimensions must be 2, 3 or 4, got %d", ErrInvalidArgument, dims)
	}
	var ptr *C.GEOSCoordSequence
	if err := c.do(func(h C.GEOSContextHandle_t) { ptr = C.GEOSCoordSeq_create_r(h, C.uint(size), C.uint(dims)) }); err != nil {
		return nil, err
	}
	if ptr == nil {
		return nil, c.nullConstruction("NewCoordSeq")
	}
	c.retain()
	return &CoordSeq{ptr: ptr, ctx: c, size: size, dims: dims}, nil
}

// NewCoordSeqFromSlice creates a sequence from one slice per coordinate. All
// coordinates must have the same number of ordinates; an empty input yields
// an empty XY sequence.
func (c *Context) NewCoordSeqFromSlice(coords [][]float64) (*CoordSeq, error) {
	dims := 2
	if len(coords) > 0 {
		dims = len(coords[0])
	}
	for i, coord := range coords {
		if len(coord) != dims {
			return nil, fmt.Errorf("%w: coordinate %d has %d ordinates, expected %d", ErrInvalidArgument, i, len(coord), dims)
		}
	}
	s, err := c.NewCoordSeq(len(coords), dims)
	if err != nil {
		return nil, err
	}
	failed := -1
	err = c.do(func(h C.GEOSContextHandle_t) {
		for i, coord := range coords {
			for j, v := range coord {
				if C.GEOSCoordSeq_setOrdinate_r(h, s.ptr, C.uint(i), C.uint(j), C.double(v)) == 0 {
					failed = i
					return
				}
			}
		}
	})
	if err != nil {
		s.Release()
		return nil, err
	}
	if failed >= 0 {
		s.Release()
		return nil, &OperationError{Op: "SetOrdinate", Code: 0, Message: fmt.Sprintf("coordinate %d: %s", failed, c.lastErrorText())}
	}
	return s, nil
}

// wrapCoordSeq takes ownership of ptr.
func wrapCoordSeq(c *Context, ptr *C.GEOSCoordSequence) (*CoordSeq, error) {
	var size, dims C.uint
	var ok bool
	err := c.do(func(h C.GEOSContextHandle_t) {
		ok = C.GEOSCoordSeq_getSize_r(h, ptr, &size) != 0 && C.GEOSCoordSeq_getDimensions_r(h, ptr, &dims) != 0
		if !ok {
			C.GEOSCoordSeq_destroy_r(h, ptr)
		}
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, c.nullConstruction("CoordSeq")
	}
	c.retain()
	return &CoordSeq{ptr: ptr, ctx: c, size: int(size), dims: int(dims)}, nil
}

func (s *CoordSeq) raw() (*C.GEOSCoordSequence, error) {
	if s == nil || s.released || s.ptr == nil {
		return nil, ErrReleased
	}
	return s.ptr, nil
}

// Release frees the sequence unless it was consumed. It is safe to call more
// than once.
func (s *CoordSeq) Release() {
	if s == nil || s.released {
		return
	}
	s.released = true
	ptr := s.ptr
	s.ptr = nil
	s.ctx.do(func(h C.GEOSContextHandle_t) { C.GEOSCoordSeq_destroy_r(h, ptr) })
	s.ctx.release()
}

// consume hands the native sequence to a new owner.
func (s *CoordSeq) consume() {
	s.released = true
	s.ptr = nil
	s.ctx.release()
}

// Size returns the number of coordinates.
func (s *CoordSeq) Size() int {
	return s.size
}

// Dimensions returns the number of ordinates per coordinate.
func (s *CoordSeq) Dimensions() int {
	return s.dims
}

func (s *CoordSeq) check(index int, ordinate Ordinate) (*C.GEOSCoordSequence, error) {
	p, err := s.raw()
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= s.size {
		return nil, &IndexError{Kind: "coordinate", Index: index, Len: s.size}
	}
	if ordinate < 0 || int(ordinate) >= s.dims {
		return nil, &IndexError{Kind: "ordinate", Index: int(ordinate), Len: s.dims}
	}
	return p, nil
}

// SetOrdinate sets one ordinate of the coordinate at index.
func (s *CoordSeq) SetOrdinate(index int, ordinate Ordinate, value float64) error {
	p, err := s.check(index, ordinate)
	if err != nil {
		return err
	}
	var ret C.int
	if err := s.ctx.do(func(h C.GEOSContextHandle_t) {
		ret = C.GEOSCoordSeq_setOrdinate_r(h, p, C.uint(index), C.uint(ordinate), C.double(value))
	}); err != nil {
		return err
	}
	if ret == 0 {
		return &OperationError{Op: "SetOrdinate", Code: int(ret), Message: s.ctx.lastErrorText()}
	}
	return nil
}

// Ordinate returns one ordinate of the coordinate at index.
func (s *CoordSeq) Ordinate(index int, ordinate Ordinate) (float64, error) {
	p, err := s.check(index, ordinate)
	if err != nil {
		return 0, err
	}
	return s.ctx.measure("Ordinate", func(h C.GEOSContextHandle_t, out *C.double) C.int {
		return C.GEOSCoordSeq_getOrdinate_r(h, p, C.uint(index), C.uint(ordinate), out)
	})
}

func (s *CoordSeq) SetX(index int, v float64) error { return s.SetOrdinate(index, OrdinateX, v) }
func (s *CoordSeq) SetY(index int, v float64) error { return s.SetOrdinate(index, OrdinateY, v) }
func (s *CoordSeq) SetZ(index int, v float64) error { return s.SetOrdinate(index, OrdinateZ, v) }
func (s *CoordSeq) SetM(index int, v float64) error { return s.SetOrdinate(index, OrdinateM, v) }

func (s *CoordSeq) X(index int) (float64, error) { return s.Ordinate(index, OrdinateX) }
func (s *CoordSeq) Y(index int) (float64, error) { return s.Ordinate(index, OrdinateY) }
func (s *CoordSeq) Z(index int) (float64, error) { return s.Ordinate(index, OrdinateZ) }
func (s *CoordSeq) M(index int) (float64, error) { return s.Ordinate(index, OrdinateM) }

// ToSlice copies the coordinates into Go memory.
func (s *CoordSeq) ToSlice() ([][]float64, error) {
	p, err := s.raw()
	if err != nil {
		return nil, err
	}
	coords := make([][]float64, s.size)
	failed := false
	err = s.ctx.do(func(h C.GEOSContextHandle_t) {
		for i := range coords {
			coords[i] = make([]float64, s.dims)
			for j := range coords[i] {
				var v C.double
				if C.GEOSCoordSeq_getOrdinate_r(h, p, C.uint(i), C.uint(j), &v) == 0 {
					failed = true
					return
				}
				coords[i][j] = float64(v)
			}
		}
	})
	if err != nil {
		return nil, err
	}
	if failed {
		return nil, &OperationError{Op: "ToSlice", Message: s.ctx.lastErrorText()}
	}
	return coords, nil
}

// Clone returns an owned copy of s.
func (s *CoordSeq) Clone() (*CoordSeq, error) {
	p, err := s.raw()
	if err != nil {
		return nil, err
	}
	var ptr *C.GEOSCoordSequence
	if err := s.ctx.do(func(h C.GEOSContextHandle_t) { ptr = C.GEOSCoordSeq_clone_r(h, p) }); err != nil {
		return nil, err
	}
	if ptr == nil {
		return nil, s.ctx.nullConstruction("CoordSeq.Clone")
	}
	s.ctx.retain()
	return &CoordSeq{ptr: ptr, ctx: s.ctx, size: s.size, dims: s.dims}, nil
}

// IsCCW reports whether the sequence forms a counter-clockwise ring. It
// needs at least four coordinates.
func (s *CoordSeq) IsCCW() (bool, error) {
	p, err := s.raw()
	if err != nil {
		return false, err
	}
	if s.size < 4 {
		return false, &InvalidGeometryError{Reason: "ring needs >= 4 coordinates to test orientation"}
	}
	var ccw C.char
	var ret C.int
	if err := s.ctx.do(func(h C.GEOSContextHandle_t) { ret = C.GEOSCoordSeq_isCCW_r(h, p, &ccw) }); err != nil {
		return false, err
	}
	if ret != 1 {
		return false, &OperationError{Op: "IsCCW", Code: int(ret), Message: s.ctx.lastErrorText()}
	}
	return ccw == 1, nil
}
