package geos

// #cgo LDFLAGS: -lgeos_c
// #include "geos.h"
import "C"
import "fmt"

type CapStyle int

const (
	CapRound  CapStyle = C.GEOSBUF_CAP_ROUND
	CapFlat   CapStyle = C.GEOSBUF_CAP_FLAT
	CapSquare CapStyle = C.GEOSBUF_CAP_SQUARE
)

type JoinStyle int

const (
	JoinRound JoinStyle = C.GEOSBUF_JOIN_ROUND
	JoinMitre JoinStyle = C.GEOSBUF_JOIN_MITRE
	JoinBevel JoinStyle = C.GEOSBUF_JOIN_BEVEL
)

// BufferParams configures BufferWithParams.
type BufferParams struct {
	ptr *C.GEOSBufferParams
	ctx *Context
}

// NewBufferParams creates buffer parameters on the default context.
func NewBufferParams() (*BufferParams, error) {
	return withDefault(func(c *Context) (*BufferParams, error) { return c.NewBufferParams() })
}

// NewBufferParams creates buffer parameters with round caps and joins and 8
// quadrant segments.
func (c *Context) NewBufferParams() (*BufferParams, error) {
	if !c.tryRetain() {
		return nil, ErrReleased
	}
	var ptr *C.GEOSBufferParams
	if err := c.do(func(h C.GEOSContextHandle_t) { ptr = C.GEOSBufferParams_create_r(h) }); err != nil {
		c.release()
		return nil, err
	}
	if ptr == nil {
		c.release()
		return nil, c.nullConstruction("NewBufferParams")
	}
	return &BufferParams{ptr: ptr, ctx: c}, nil
}

func (p *BufferParams) raw() (*C.GEOSBufferParams, error) {
	if p == nil || p.ptr == nil {
		return nil, ErrReleased
	}
	return p.ptr, nil
}

func (p *BufferParams) set(op string, fn func(h C.GEOSContextHandle_t, bp *C.GEOSBufferParams) C.int) error {
	bp, err := p.raw()
	if err != nil {
		return err
	}
	var ret C.int
	if err := p.ctx.do(func(h C.GEOSContextHandle_t) { ret = fn(h, bp) }); err != nil {
		return err
	}
	if ret == 0 {
		return &OperationError{Op: op, Code: int(ret), Message: p.ctx.lastErrorText()}
	}
	return nil
}

func (p *BufferParams) SetEndCapStyle(style CapStyle) error {
	return p.set("SetEndCapStyle", func(h C.GEOSContextHandle_t, bp *C.GEOSBufferParams) C.int {
		return C.GEOSBufferParams_setEndCapStyle_r(h, bp, C.int(style))
	})
}

func (p *BufferParams) SetJoinStyle(style JoinStyle) error {
	return p.set("SetJoinStyle", func(h C.GEOSContextHandle_t, bp *C.GEOSBufferParams) C.int {
		return C.GEOSBufferParams_setJoinStyle_r(h, bp, C.int(style))
	})
}

// SetMitreLimit bounds the length of mitre joins, as a ratio of the buffer
// width.
func (p *BufferParams) SetMitreLimit(limit float64) error {
	return p.set("SetMitreLimit", func(h C.GEOSContextHandle_t, bp *C.GEOSBufferParams) C.int {
		return C.GEOSBufferParams_setMitreLimit_r(h, bp, C.double(limit))
	})
}

// SetQuadrantSegments sets the number of segments used to approximate a
// quarter circle; it must be > 0.
func (p *BufferParams) SetQuadrantSegments(quadsegs int) error {
	if quadsegs <= 0 {
		return fmt.Errorf("%w: quadrant segments must be > 0, got %d", ErrInvalidArgument, quadsegs)
	}
	return p.set("SetQuadrantSegments", func(h C.GEOSContextHandle_t, bp *C.GEOSBufferParams) C.int {
		return C.GEOSBufferParams_setQuadrantSegments_r(h, bp, C.int(quadsegs))
	})
}

// SetSingleSided buffers lines on one side only: left for positive widths,
// right for negative ones.
func (p *BufferParams) SetSingleSided(singleSided bool) error {
	return p.set("SetSingleSided", func(h C.GEOSContextHandle_t, bp *C.GEOSBufferParams) C.int {
		return C.GEOSBufferParams_setSingleSided_r(h, bp, C.int(boolToInt(singleSided)))
	})
}

// Release frees the parameters. It is safe to call more than once.
func (p *BufferParams) Release() {
	if p == nil || p.ptr == nil {
		return
	}
	ptr := p.ptr
	p.ptr = nil
	p.ctx.do(func(h C.GEOSContextHandle_t) { C.GEOSBufferParams_destroy_r(h, ptr) })
	p.ctx.release()
}

// MakeValidMethod selects the algorithm of MakeValidWithParams.
type MakeValidMethod int

const (
	MakeValidLinework  MakeValidMethod = C.GEOS_MAKE_VALID_LINEWORK
	MakeValidStructure MakeValidMethod = C.GEOS_MAKE_VALID_STRUCTURE
)

// MakeValidParams configures MakeValidWithParams.
type MakeValidParams struct {
	ptr *C.GEOSMakeValidParams
	ctx *Context
}

// NewMakeValidParams creates make-valid parameters on the default context.
func NewMakeValidParams() (*MakeValidParams, error) {
	return withDefault(func(c *Context) (*MakeValidParams, error) { return c.NewMakeValidParams() })
}

func (c *Context) NewMakeValidParams() (*MakeValidParams, error) {
	if !c.tryRetain() {
		return nil, ErrReleased
	}
	var ptr *C.GEOSMakeValidParams
	if err := c.do(func(h C.GEOSContextHandle_t) { ptr = C.GEOSMakeValidParams_create_r(h) }); err != nil {
		c.release()
		return nil, err
	}
	if ptr == nil {
		c.release()
		return nil, c.nullConstruction("NewMakeValidParams")
	}
	return &MakeValidParams{ptr: ptr, ctx: c}, nil
}

func (p *MakeValidParams) raw() (*C.GEOSMakeValidParams, error) {
	if p == nil || p.ptr == nil {
		return nil, ErrReleased
	}
	return p.ptr, nil
}

func (p *MakeValidParams) set(op string, fn func(h C.GEOSContextHandle_t, mp *C.GEOSMakeValidParams) C.int) error {
	mp, err := p.raw()
	if err != nil {
		return err
	}
	var ret C.int
	if err := p.ctx.do(func(h C.GEOSContextHandle_t) { ret = fn(h, mp) }); err != nil {
		return err
	}
	if ret == 0 {
		return &OperationError{Op: op, Code: int(ret), Message: p.ctx.lastErrorText()}
	}
	return nil
}

func (p *MakeValidParams) SetMethod(method MakeValidMethod) error {
	return p.set("SetMethod", func(h C.GEOSContextHandle_t, mp *C.GEOSMakeValidParams) C.int {
		return C.GEOSMakeValidParams_setMethod_r(h, mp, C.enum_GEOSMakeValidMethods(method))
	})
}

// SetKeepCollapsed keeps components that collapse to a lower dimension, such
// as zero-area polygons turning into lines. Only used by MakeValidStructure.
func (p *MakeValidParams) SetKeepCollapsed(keep bool) error {
	return p.set("SetKeepCollapsed", func(h C.GEOSContextHandle_t, mp *C.GEOSMakeValidParams) C.int {
		return C.GEOSMakeValidParams_setKeepCollapsed_r(h, mp, C.int(boolToInt(keep)))
	})
}

// Release frees the parameters. It is safe to call more than once.
func (p *MakeValidParams) Release() {
	if p == nil || p.ptr == nil {
		return
	}
	ptr := p.ptr
	p.ptr = nil
	p.ctx.do(func(h C.GEOSContextHandle_t) { C.GEOSMakeValidParams_destroy_r(h, ptr) })
	p.ctx.release()
}
