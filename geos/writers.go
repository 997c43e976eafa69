package geos

// #cgo LDFLAGS: -lgeos_c
// #include "geos.h"
import "C"
import "fmt"

// ByteOrder of WKB output.
type ByteOrder int

const (
	BigEndian    ByteOrder = 0
	LittleEndian ByteOrder = 1
)

func checkOutputDimension(dims int) error {
	if dims < 2 || dims > 4 {
		return fmt.Errorf("%w: output dimension must be 2, 3 or 4, got %d", ErrInvalidArgument, dims)
	}
	return nil
}

// WKTWriter serializes geometries as Well-Known Text.
type WKTWriter struct {
	ptr *C.GEOSWKTWriter
	ctx *Context
}

// NewWKTWriter creates a WKT writer on the default context.
func NewWKTWriter() (*WKTWriter, error) {
	return withDefault(func(c *Context) (*WKTWriter, error) { return c.NewWKTWriter() })
}

// NewWKTWriter creates a WKT writer with GEOS defaults: full precision,
// trimming enabled, output dimension 4.
func (c *Context) NewWKTWriter() (*WKTWriter, error) {
	if !c.tryRetain() {
		return nil, ErrReleased
	}
	var ptr *C.GEOSWKTWriter
	if err := c.do(func(h C.GEOSContextHandle_t) { ptr = C.GEOSWKTWriter_create_r(h) }); err != nil {
		c.release()
		return nil, err
	}
	if ptr == nil {
		c.release()
		return nil, c.nullConstruction("NewWKTWriter")
	}
	return &WKTWriter{ptr: ptr, ctx: c}, nil
}

func (w *WKTWriter) raw() (*C.GEOSWKTWriter, error) {
	if w == nil || w.ptr == nil {
		return nil, ErrReleased
	}
	return w.ptr, nil
}

func (w *WKTWriter) set(fn func(h C.GEOSContextHandle_t, p *C.GEOSWKTWriter)) error {
	p, err := w.raw()
	if err != nil {
		return err
	}
	return w.ctx.do(func(h C.GEOSContextHandle_t) { fn(h, p) })
}

// SetRoundingPrecision sets the number of decimals written; -1 writes full
// precision.
func (w *WKTWriter) SetRoundingPrecision(precision int) error {
	return w.set(func(h C.GEOSContextHandle_t, p *C.GEOSWKTWriter) {
		C.GEOSWKTWriter_setRoundingPrecision_r(h, p, C.int(precision))
	})
}

// SetTrim drops trailing zeros from written coordinates.
func (w *WKTWriter) SetTrim(trim bool) error {
	return w.set(func(h C.GEOSContextHandle_t, p *C.GEOSWKTWriter) {
		C.GEOSWKTWriter_setTrim_r(h, p, C.char(boolToInt(trim)))
	})
}

func (w *WKTWriter) SetOutputDimension(dims int) error {
	if err := checkOutputDimension(dims); err != nil {
		return err
	}
	return w.set(func(h C.GEOSContextHandle_t, p *C.GEOSWKTWriter) {
		C.GEOSWKTWriter_setOutputDimension_r(h, p, C.int(dims))
	})
}

func (w *WKTWriter) OutputDimension() (int, error) {
	p, err := w.raw()
	if err != nil {
		return 0, err
	}
	return w.ctx.count("OutputDimension", func(h C.GEOSContextHandle_t) C.int {
		return C.GEOSWKTWriter_getOutputDimension_r(h, p)
	})
}

// SetOld3D writes 3D geometries as "POINT (1 2 3)" instead of
// "POINT Z (1 2 3)".
func (w *WKTWriter) SetOld3D(old3D bool) error {
	return w.set(func(h C.GEOSContextHandle_t, p *C.GEOSWKTWriter) {
		C.GEOSWKTWriter_setOld3D_r(h, p, C.int(boolToInt(old3D)))
	})
}

func (w *WKTWriter) Write(g *Geometry) (string, error) {
	p, err := w.raw()
	if err != nil {
		return "", err
	}
	gp, err := g.raw()
	if err != nil {
		return "", err
	}
	return w.ctx.text("WKTWriter.Write", func(h C.GEOSContextHandle_t) *C.char {
		return C.GEOSWKTWriter_write_r(h, p, gp)
	})
}

// Release frees the writer. It is safe to call more than once.
func (w *WKTWriter) Release() {
	if w == nil || w.ptr == nil {
		return
	}
	ptr := w.ptr
	w.ptr = nil
	w.ctx.do(func(h C.GEOSContextHandle_t) { C.GEOSWKTWriter_destroy_r(h, ptr) })
	w.ctx.release()
}

// WKBWriter serializes geometries as Well-Known Binary or hex encoded WKB.
type WKBWriter struct {
	ptr *C.GEOSWKBWriter
	ctx *Context
}

// NewWKBWriter creates a WKB writer on the default context.
func NewWKBWriter() (*WKBWriter, error) {
	return withDefault(func(c *Context) (*WKBWriter, error) { return c.NewWKBWriter() })
}

// NewWKBWriter creates a WKB writer with GEOS defaults: machine byte order,
// output dimension 4, no SRID.
func (c *Context) NewWKBWriter() (*WKBWriter, error) {
	if !c.tryRetain() {
		return nil, ErrReleased
	}
	var ptr *C.GEOSWKBWriter
	if err := c.do(func(h C.GEOSContextHandle_t) { ptr = C.GEOSWKBWriter_create_r(h) }); err != nil {
		c.release()
		return nil, err
	}
	if ptr == nil {
		c.release()
		return nil, c.nullConstruction("NewWKBWriter")
	}
	return &WKBWriter{ptr: ptr, ctx: c}, nil
}

func (w *WKBWriter) raw() (*C.GEOSWKBWriter, error) {
	if w == nil || w.ptr == nil {
		return nil, ErrReleased
	}
	return w.ptr, nil
}

func (w *WKBWriter) set(fn func(h C.GEOSContextHandle_t, p *C.GEOSWKBWriter)) error {
	p, err := w.raw()
	if err != nil {
		return err
	}
	return w.ctx.do(func(h C.GEOSContextHandle_t) { fn(h, p) })
}

func (w *WKBWriter) SetOutputDimension(dims int) error {
	if err := checkOutputDimension(dims); err != nil {
		return err
	}
	return w.set(func(h C.GEOSContextHandle_t, p *C.GEOSWKBWriter) {
		C.GEOSWKBWriter_setOutputDimension_r(h, p, C.int(dims))
	})
}

func (w *WKBWriter) SetByteOrder(order ByteOrder) error {
	if order != BigEndian && order != LittleEndian {
		return fmt.Errorf("%w: unknown byte order %d", ErrInvalidArgument, order)
	}
	return w.set(func(h C.GEOSContextHandle_t, p *C.GEOSWKBWriter) {
		C.GEOSWKBWriter_setByteOrder_r(h, p, C.int(order))
	})
}

// SetIncludeSRID writes extended WKB carrying the geometry SRID.
func (w *WKBWriter) SetIncludeSRID(include bool) error {
	return w.set(func(h C.GEOSContextHandle_t, p *C.GEOSWKBWriter) {
		C.GEOSWKBWriter_setIncludeSRID_r(h, p, C.char(boolToInt(include)))
	})
}

func (w *WKBWriter) Write(g *Geometry) ([]byte, error) {
	p, err := w.raw()
	if err != nil {
		return nil, err
	}
	gp, err := g.raw()
	if err != nil {
		return nil, err
	}
	return w.ctx.bytes("WKBWriter.Write", func(h C.GEOSContextHandle_t, size *C.size_t) *C.uchar {
		return C.GEOSWKBWriter_write_r(h, p, gp, size)
	})
}

// WriteHex writes g as upper case hex encoded WKB.
func (w *WKBWriter) WriteHex(g *Geometry) (string, error) {
	p, err := w.raw()
	if err != nil {
		return "", err
	}
	gp, err := g.raw()
	if err != nil {
		return "", err
	}
	b, err := w.ctx.bytes("WKBWriter.WriteHex", func(h C.GEOSContextHandle_t, size *C.size_t) *C.uchar {
		return C.GEOSWKBWriter_writeHEX_r(h, p, gp, size)
	})
	return string(b), err
}

// Release frees the writer. It is safe to call more than once.
func (w *WKBWriter) Release() {
	if w == nil || w.ptr == nil {
		return
	}
	ptr := w.ptr
	w.ptr = nil
	w.ctx.do(func(h C.GEOSContextHandle_t) { C.GEOSWKBWriter_destroy_r(h, ptr) })
	w.ctx.release()
}

// GeoJSONWriter serializes geometries as GeoJSON geometry objects.
type GeoJSONWriter struct {
	ptr *C.GEOSGeoJSONWriter
	ctx *Context
}

// NewGeoJSONWriter creates a GeoJSON writer on the default context.
func NewGeoJSONWriter() (*GeoJSONWriter, error) {
	return withDefault(func(c *Context) (*GeoJSONWriter, error) { return c.NewGeoJSONWriter() })
}

func (c *Context) NewGeoJSONWriter() (*GeoJSONWriter, error) {
	if !c.tryRetain() {
		return nil, ErrReleased
	}
	var ptr *C.GEOSGeoJSONWriter
	if err := c.do(func(h C.GEOSContextHandle_t) { ptr = C.GEOSGeoJSONWriter_create_r(h) }); err != nil {
		c.release()
		return nil, err
	}
	if ptr == nil {
		c.release()
		return nil, c.nullConstruction("NewGeoJSONWriter")
	}
	return &GeoJSONWriter{ptr: ptr, ctx: c}, nil
}

// Write serializes g; indent < 0 writes a single line.
func (w *GeoJSONWriter) Write(g *Geometry, indent int) (string, error) {
	if w == nil || w.ptr == nil {
		return "", ErrReleased
	}
	p := w.ptr
	gp, err := g.raw()
	if err != nil {
		return "", err
	}
	return w.ctx.text("GeoJSONWriter.Write", func(h C.GEOSContextHandle_t) *C.char {
		return C.GEOSGeoJSONWriter_writeGeometry_r(h, p, gp, C.int(indent))
	})
}

// Release frees the writer. It is safe to call more than once.
func (w *GeoJSONWriter) Release() {
	if w == nil || w.ptr == nil {
		return
	}
	ptr := w.ptr
	w.ptr = nil
	w.ctx.do(func(h C.GEOSContextHandle_t) { C.GEOSGeoJSONWriter_destroy_r(h, ptr) })
	w.ctx.release()
}
