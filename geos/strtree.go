package geos

// #cgo LDFLAGS: -lgeos_c
// #include "geos.h"
import "C"
import (
	"fmt"
	"runtime/cgo"
)

// itemCollector gathers the items visited during one native traversal.
type itemCollector struct {
	items []cgo.Handle
}

// STRtree is a packed R-tree over the envelopes of geometries, carrying one
// item of type T per entry.
//
// Items are boxed in a cgo.Handle before being handed to GEOS. Every item
// is reclaimed exactly once: when it is removed, or when the tree is
// released. SetReclaimHook observes reclamation, for instance to release
// a Geometry stored as the item.
//
// GEOS builds the tree on the first Query, Iterate or Remove; afterwards
// Insert fails with ErrTreeBuilt. An STRtree is not safe for concurrent use.
type STRtree[T any] struct {
	ptr   *C.GEOSSTRtree
	ctx   *Context
	built bool
	items map[cgo.Handle]struct{}
	hook  func(T)
}

// NewSTRtree creates an empty tree with the given node capacity, which must
// be >= 2. A nil ctx uses the default context.
func NewSTRtree[T any](ctx *Context, nodeCapacity int) (*STRtree[T], error) {
	if nodeCapacity < 2 {
		return nil, fmt.Errorf("%w: node capacity must be >= 2, got %d", ErrInvalidArgument, nodeCapacity)
	}
	if ctx == nil {
		c, err := acquireDefault()
		if err != nil {
			return nil, err
		}
		defer c.release()
		ctx = c
	}
	if !ctx.tryRetain() {
		return nil, ErrReleased
	}
	var ptr *C.GEOSSTRtree
	if err := ctx.do(func(h C.GEOSContextHandle_t) { ptr = C.GEOSSTRtree_create_r(h, C.size_t(nodeCapacity)) }); err != nil {
		ctx.release()
		return nil, err
	}
	if ptr == nil {
		ctx.release()
		return nil, ctx.nullConstruction("NewSTRtree")
	}
	return &STRtree[T]{ptr: ptr, ctx: ctx, items: make(map[cgo.Handle]struct{})}, nil
}

// SetReclaimHook registers fn to be called once for every item the tree
// reclaims.
func (t *STRtree[T]) SetReclaimHook(fn func(item T)) {
	t.hook = fn
}

func (t *STRtree[T]) raw() (*C.GEOSSTRtree, error) {
	if t == nil || t.ptr == nil {
		return nil, ErrReleased
	}
	return t.ptr, nil
}

// Len returns the number of items held by the tree.
func (t *STRtree[T]) Len() int {
	return len(t.items)
}

// Insert adds item under the envelope of g. Only the envelope is stored; g
// may be released afterwards.
func (t *STRtree[T]) Insert(g *Geometry, item T) error {
	p, err := t.raw()
	if err != nil {
		return err
	}
	if t.built {
		return ErrTreeBuilt
	}
	gp, err := g.raw()
	if err != nil {
		return err
	}
	h := cgo.NewHandle(item)
	if err := t.ctx.do(func(ch C.GEOSContextHandle_t) { C.strtree_insert(ch, p, gp, C.uintptr_t(h)) }); err != nil {
		h.Delete()
		return err
	}
	t.items[h] = struct{}{}
	return nil
}

func (t *STRtree[T]) collect(fn func(ch C.GEOSContextHandle_t, visitor C.uintptr_t)) ([]cgo.Handle, error) {
	collector := &itemCollector{}
	v := cgo.NewHandle(collector)
	defer v.Delete()

	t.built = true
	if err := t.ctx.do(func(ch C.GEOSContextHandle_t) { fn(ch, C.uintptr_t(v)) }); err != nil {
		return nil, err
	}
	return collector.items, nil
}

// Query calls visit for every item whose envelope intersects the envelope of
// g. visit runs after the native traversal, so it may use the engine.
func (t *STRtree[T]) Query(g *Geometry, visit func(item T)) error {
	p, err := t.raw()
	if err != nil {
		return err
	}
	gp, err := g.raw()
	if err != nil {
		return err
	}
	handles, err := t.collect(func(ch C.GEOSContextHandle_t, visitor C.uintptr_t) {
		C.strtree_query(ch, p, gp, visitor)
	})
	if err != nil {
		return err
	}
	for _, h := range handles {
		visit(itemOf[T](h))
	}
	return nil
}

// Iterate calls visit once for every stored item. Items inserted with an
// empty envelope are not kept by the native tree; they are visited after the
// others.
func (t *STRtree[T]) Iterate(visit func(item T)) error {
	p, err := t.raw()
	if err != nil {
		return err
	}
	handles, err := t.collect(func(ch C.GEOSContextHandle_t, visitor C.uintptr_t) {
		C.strtree_iterate(ch, p, visitor)
	})
	if err != nil {
		return err
	}
	if len(handles) < len(t.items) {
		seen := make(map[cgo.Handle]struct{}, len(handles))
		for _, h := range handles {
			seen[h] = struct{}{}
		}
		for h := range t.items {
			if _, ok := seen[h]; !ok {
				handles = append(handles, h)
			}
		}
	}
	for _, h := range handles {
		visit(itemOf[T](h))
	}
	return nil
}

// Remove deletes the first item under the envelope of g for which match
// returns true, reclaiming it. It reports whether an item was removed.
func (t *STRtree[T]) Remove(g *Geometry, match func(item T) bool) (bool, error) {
	p, err := t.raw()
	if err != nil {
		return false, err
	}
	gp, err := g.raw()
	if err != nil {
		return false, err
	}
	handles, err := t.collect(func(ch C.GEOSContextHandle_t, visitor C.uintptr_t) {
		C.strtree_query(ch, p, gp, visitor)
	})
	if err != nil {
		return false, err
	}

	for _, h := range handles {
		if !match(itemOf[T](h)) {
			continue
		}
		var ret C.char
		if err := t.ctx.do(func(ch C.GEOSContextHandle_t) { ret = C.strtree_remove(ch, p, gp, C.uintptr_t(h)) }); err != nil {
			return false, err
		}
		switch ret {
		case 1:
			t.reclaim(h)
			return true, nil
		case 0:
			continue
		default:
			return false, &OperationError{Op: "STRtree.Remove", Code: int(ret), Message: t.ctx.lastErrorText()}
		}
	}
	return false, nil
}

func itemOf[T any](h cgo.Handle) T {
	item, _ := h.Value().(T)
	return item
}

func (t *STRtree[T]) reclaim(h cgo.Handle) {
	if _, ok := t.items[h]; !ok {
		return
	}
	delete(t.items, h)
	item := itemOf[T](h)
	h.Delete()
	if t.hook != nil {
		t.hook(item)
	}
}

// Release reclaims every remaining item and frees the tree. It is safe to
// call more than once.
func (t *STRtree[T]) Release() {
	p, err := t.raw()
	if err != nil {
		return
	}
	handles, _ := t.collect(func(ch C.GEOSContextHandle_t, visitor C.uintptr_t) {
		C.strtree_iterate(ch, p, visitor)
	})
	t.ptr = nil
	t.ctx.do(func(ch C.GEOSContextHandle_t) { C.GEOSSTRtree_destroy_r(ch, p) })

	for _, h := range handles {
		t.reclaim(h)
	}
	// items GEOS never stored natively, such as those inserted with an
	// empty envelope
	for h := range t.items {
		t.reclaim(h)
	}
	t.ctx.release()
}
