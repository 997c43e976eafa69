package geos

// #cgo LDFLAGS: -lgeos_c
// #include "geos.h"
import "C"
import (
	"runtime/cgo"
	"sync"
	"sync/atomic"
	"unsafe"
)

// MessageHandler receives notice or error messages emitted by GEOS.
type MessageHandler func(message string)

type messageKind int

const (
	noticeMessage messageKind = iota
	errorMessage
)

// Context owns one GEOS session.
//
// A Context is reference counted: every Geometry, CoordSeq, PreparedGeometry,
// STRtree and writer created from it holds a reference, and the session is
// finished when the last reference is dropped. NewContext returns a Context
// holding one reference for the caller, dropped by Release.
//
// GEOS reports notices and errors per session, not per call: every object
// sharing a Context feeds the same handlers and the same last-message slots.
//
// Engine calls on one Context are serialized, so objects sharing a Context
// may be used from several goroutines. Handlers run while that lock is held
// and must not call back into objects of the same Context.
type Context struct {
	h    C.GEOSContextHandle_t
	self cgo.Handle

	refs     atomic.Int32
	released atomic.Bool

	mu sync.Mutex // guards h and every engine call

	hmu        sync.Mutex // guards handlers and captured messages
	onNotice   MessageHandler
	onError    MessageHandler
	lastNotice *string
	lastError  *string
}

// NewContext creates a new GEOS session with no-op message handlers.
func NewContext() (*Context, error) {
	c, err := newContext()
	if err != nil {
		return nil, err
	}
	c.refs.Store(1)
	return c, nil
}

func newContext() (*Context, error) {
	c := &Context{}
	c.self = cgo.NewHandle(c)
	c.h = C.init_context(C.uintptr_t(c.self))
	if c.h == nil {
		c.self.Delete()
		return nil, ErrSessionInit
	}
	return c, nil
}

// Release drops the reference returned by NewContext. Objects created from
// the Context keep the session alive until they are released as well.
// Calling Release more than once has no further effect.
func (c *Context) Release() {
	if c == nil || !c.released.CompareAndSwap(false, true) {
		return
	}
	c.release()
}

// SetNoticeHandler replaces the notice handler; nil restores the no-op
// handler.
func (c *Context) SetNoticeHandler(fn MessageHandler) {
	c.hmu.Lock()
	c.onNotice = fn
	c.hmu.Unlock()
}

// SetErrorHandler replaces the error handler; nil restores the no-op
// handler.
func (c *Context) SetErrorHandler(fn MessageHandler) {
	c.hmu.Lock()
	c.onError = fn
	c.hmu.Unlock()
}

// TakeLastNotice returns and clears the most recent notice.
func (c *Context) TakeLastNotice() (string, bool) {
	c.hmu.Lock()
	defer c.hmu.Unlock()
	return take(&c.lastNotice)
}

// TakeLastError returns and clears the most recent error message.
func (c *Context) TakeLastError() (string, bool) {
	c.hmu.Lock()
	defer c.hmu.Unlock()
	return take(&c.lastError)
}

func take(slot **string) (string, bool) {
	if *slot == nil {
		return "", false
	}
	s := **slot
	*slot = nil
	return s, true
}

func (c *Context) dispatch(kind messageKind, message string) {
	c.hmu.Lock()
	var fn MessageHandler
	switch kind {
	case noticeMessage:
		c.lastNotice = &message
		fn = c.onNotice
	case errorMessage:
		c.lastError = &message
		fn = c.onError
	}
	c.hmu.Unlock()

	if fn != nil {
		fn(message)
	}
}

func (c *Context) retain() {
	if c.refs.Add(1) <= 1 {
		panic("geos: retain of finished context")
	}
}

// tryRetain takes a reference unless the session was already finished.
func (c *Context) tryRetain() bool {
	for {
		n := c.refs.Load()
		if n <= 0 {
			return false
		}
		if c.refs.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

func (c *Context) release() {
	n := c.refs.Add(-1)
	switch {
	case n == 0:
		c.finish()
	case n < 0:
		panic("geos: context released more often than retained")
	}
}

func (c *Context) finish() {
	c.mu.Lock()
	C.GEOS_finish_r(c.h)
	c.h = nil
	c.mu.Unlock()
	c.self.Delete()
}

func (c *Context) finished() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.h == nil
}

// lazy is the context used by package level constructors. The package never
// holds a reference itself: the session ends with its last object and the
// next package level call starts a new one.
var lazy struct {
	sync.Mutex
	ctx *Context
}

func acquireDefault() (*Context, error) {
	lazy.Lock()
	defer lazy.Unlock()

	if lazy.ctx != nil && lazy.ctx.tryRetain() {
		return lazy.ctx, nil
	}
	c, err := newContext()
	if err != nil {
		return nil, err
	}
	c.refs.Store(1)
	lazy.ctx = c
	return c, nil
}

// withDefault runs fn against the default context. Objects created by fn
// take their own reference.
func withDefault[T any](fn func(c *Context) (T, error)) (T, error) {
	c, err := acquireDefault()
	if err != nil {
		var zero T
		return zero, err
	}
	defer c.release()
	return fn(c)
}

// do runs fn under the engine lock.
func (c *Context) do(fn func(h C.GEOSContextHandle_t)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.h == nil {
		return ErrReleased
	}
	fn(c.h)
	return nil
}

func (c *Context) lastErrorText() string {
	s, _ := c.TakeLastError()
	return s
}

func (c *Context) nullConstruction(op string) error {
	return &NullConstructionError{Op: op, Message: c.lastErrorText()}
}

// predicate translates the GEOS tri-state char result: 1 true, 0 false,
// anything else an exception.
func (c *Context) predicate(op string, fn func(h C.GEOSContextHandle_t) C.char) (bool, error) {
	var ret C.char
	if err := c.do(func(h C.GEOSContextHandle_t) { ret = fn(h) }); err != nil {
		return false, err
	}
	switch ret {
	case 1:
		return true, nil
	case 0:
		return false, nil
	default:
		return false, &OperationError{Op: op, Code: int(ret), Message: c.lastErrorText()}
	}
}

// construct wraps the result of a GEOS constructor as an owned Geometry.
func (c *Context) construct(op string, fn func(h C.GEOSContextHandle_t) *C.GEOSGeometry) (*Geometry, error) {
	var ptr *C.GEOSGeometry
	if err := c.do(func(h C.GEOSContextHandle_t) { ptr = fn(h) }); err != nil {
		return nil, err
	}
	if ptr == nil {
		return nil, c.nullConstruction(op)
	}
	return newOwned(c, ptr), nil
}

// measure translates GEOS functions writing to an out parameter and
// returning 1 on success, 0 on exception.
func (c *Context) measure(op string, fn func(h C.GEOSContextHandle_t, out *C.double) C.int) (float64, error) {
	var v C.double
	var ret C.int
	if err := c.do(func(h C.GEOSContextHandle_t) { ret = fn(h, &v) }); err != nil {
		return 0, err
	}
	if ret != 1 {
		return 0, &OperationError{Op: op, Code: int(ret), Message: c.lastErrorText()}
	}
	return float64(v), nil
}

// value translates GEOS functions returning the result directly, -1 on
// exception.
func (c *Context) value(op string, fn func(h C.GEOSContextHandle_t) C.double) (float64, error) {
	var v C.double
	if err := c.do(func(h C.GEOSContextHandle_t) { v = fn(h) }); err != nil {
		return 0, err
	}
	if v == -1 {
		return 0, &OperationError{Op: op, Code: -1, Message: c.lastErrorText()}
	}
	return float64(v), nil
}

// count translates GEOS functions returning a non-negative count or -1.
func (c *Context) count(op string, fn func(h C.GEOSContextHandle_t) C.int) (int, error) {
	var ret C.int
	if err := c.do(func(h C.GEOSContextHandle_t) { ret = fn(h) }); err != nil {
		return 0, err
	}
	if ret < 0 {
		return 0, &OperationError{Op: op, Code: int(ret), Message: c.lastErrorText()}
	}
	return int(ret), nil
}

// text copies and frees a string allocated by GEOS.
func (c *Context) text(op string, fn func(h C.GEOSContextHandle_t) *C.char) (string, error) {
	var s string
	var ok bool
	err := c.do(func(h C.GEOSContextHandle_t) {
		p := fn(h)
		if p == nil {
			return
		}
		s, ok = C.GoString(p), true
		C.GEOSFree_r(h, unsafe.Pointer(p))
	})
	if err != nil {
		return "", err
	}
	if !ok {
		return "", c.nullConstruction(op)
	}
	return s, nil
}

// bytes copies and frees a buffer allocated by GEOS.
func (c *Context) bytes(op string, fn func(h C.GEOSContextHandle_t, size *C.size_t) *C.uchar) ([]byte, error) {
	var b []byte
	err := c.do(func(h C.GEOSContextHandle_t) {
		var size C.size_t
		p := fn(h, &size)
		if p == nil {
			return
		}
		b = C.GoBytes(unsafe.Pointer(p), C.int(size))
		C.GEOSFree_r(h, unsafe.Pointer(p))
	})
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, c.nullConstruction(op)
	}
	return b, nil
}
