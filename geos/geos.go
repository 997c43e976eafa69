// Package geos is a memory-safe wrapper around the reentrant GEOS C API.
//
// Every native object is owned by exactly one Go value and must be freed with
// Release(); garbage collection never frees native memory. Objects share the
// Context they were created from, and the GEOS session behind a Context is
// finished only once every object created from it has been released.
//
// Requires GEOS >= 3.12.
package geos

// #cgo LDFLAGS: -lgeos_c
// #include "geos.h"
import "C"
import (
	"runtime/cgo"
)

// GEOSError is the message reported by GEOS through a context's error handler.
type GEOSError string

// Note: can't use components because GEOS_VERSION_PATCH may be int or string-like
const GEOSVersion string = C.GEOS_VERSION

func (e GEOSError) Error() string {
	return string(e)
}

// Version returns the version of the GEOS library loaded at runtime.
func Version() string {
	return C.GoString(C.GEOSversion())
}

// Interrupt requests that the running GEOS operation stops at the next
// check point. The flag is process-wide: it affects every context and
// every goroutine, not a single call.
func Interrupt() {
	C.GEOS_interruptRequest()
}

// CancelInterrupt clears a pending Interrupt request.
func CancelInterrupt() {
	C.GEOS_interruptCancel()
}

// Export callbacks to be able to call from C.

//export geos_noticeMessageHandlerCallback
func geos_noticeMessageHandlerCallback(message *C.char, handle C.uintptr_t) {
	ctx := cgo.Handle(handle).Value().(*Context)
	ctx.dispatch(noticeMessage, C.GoString(message))
}

//export geos_errorMessageHandlerCallback
func geos_errorMessageHandlerCallback(message *C.char, handle C.uintptr_t) {
	ctx := cgo.Handle(handle).Value().(*Context)
	ctx.dispatch(errorMessage, C.GoString(message))
}

//export geos_strtreeVisitCallback
func geos_strtreeVisitCallback(item C.uintptr_t, visitor C.uintptr_t) {
	c := cgo.Handle(visitor).Value().(*itemCollector)
	c.items = append(c.items, cgo.Handle(item))
}
