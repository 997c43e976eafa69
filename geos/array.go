package geos

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// DefaultNodeCapacity is the STRtree node capacity used by GeometryArray
// unless SetNodeCapacity was called.
const DefaultNodeCapacity = 10

// GeometryArray holds owned geometries and a tree (STRtree) that is created as
// part of the first Query() call. Slots may be nil.
// GeometryArray must be manually freed using Release()
type GeometryArray struct {
	geometries   []*Geometry
	tree         *STRtree[int]
	nodeCapacity int
}

// NewGeometryArray takes ownership of geometries. Borrowed geometries are
// rejected, since the array frees every geometry it holds.
func NewGeometryArray(geometries []*Geometry) (*GeometryArray, error) {
	for i, g := range geometries {
		if g != nil && !g.owned {
			return nil, &InvalidGeometryError{Reason: fmt.Sprintf("geometry %d is borrowed", i)}
		}
	}
	return &GeometryArray{geometries: geometries, nodeCapacity: DefaultNodeCapacity}, nil
}

// Create a new GeometryArray from a slice of Geometry Well-Known Text strings.
// Empty strings produce nil slots.
// The GeometryArray must be freed manually be calling Release().
func (c *Context) NewGeometryArrayFromWKT(wkts []string) (*GeometryArray, error) {
	geometries := make([]*Geometry, len(wkts))
	for i, wkt := range wkts {
		if wkt == "" {
			continue
		}
		g, err := c.FromWKT(wkt)
		if err != nil {
			releaseGeometries(geometries)
			return nil, fmt.Errorf("could not parse WKT %d: %w", i, err)
		}
		geometries[i] = g
	}
	return NewGeometryArray(geometries)
}

// Create a new GeometryArray from a slice of Geometry Well-Known Binary byte
// slices. Nil or empty values produce nil slots.
// The GeometryArray must be freed manually be calling Release().
func (c *Context) NewGeometryArrayFromWKB(wkbs [][]byte) (*GeometryArray, error) {
	geometries := make([]*Geometry, len(wkbs))
	for i, wkb := range wkbs {
		if len(wkb) == 0 {
			continue
		}
		g, err := c.FromWKB(wkb)
		if err != nil {
			releaseGeometries(geometries)
			return nil, fmt.Errorf("could not parse WKB %d: %w", i, err)
		}
		geometries[i] = g
	}
	return NewGeometryArray(geometries)
}

func releaseGeometries(geometries []*Geometry) {
	for _, g := range geometries {
		g.Release()
	}
}

// Release GEOS Geometry objects and the tree.
func (a *GeometryArray) Release() {
	if a == nil {
		return
	}
	if a.tree != nil {
		a.tree.Release()
	}
	releaseGeometries(a.geometries)

	// clear out previous references
	*a = GeometryArray{}
}

// SetNodeCapacity sets the node capacity of the tree built by the next Query.
func (a *GeometryArray) SetNodeCapacity(nodeCapacity int) error {
	if nodeCapacity < 2 {
		return fmt.Errorf("%w: node capacity must be >= 2, got %d", ErrInvalidArgument, nodeCapacity)
	}
	a.nodeCapacity = nodeCapacity
	return nil
}

func (a *GeometryArray) Size() int {
	if a == nil {
		return 0
	}

	return len(a.geometries)
}

// At returns the geometry at index i, which stays owned by the array. The
// result is nil for nil slots.
func (a *GeometryArray) At(i int) (*Geometry, error) {
	if i < 0 || i >= a.Size() {
		return nil, &IndexError{Kind: "geometry", Index: i, Len: a.Size()}
	}
	return a.geometries[i], nil
}

// ToWKT writes the GEOS Geometries using Well-Known Text, according to the
// specified decimal precision. Nil slots are written as empty strings.
func (a *GeometryArray) ToWKT(precision int) ([]string, error) {
	size := a.Size()
	if size == 0 {
		return nil, nil
	}

	var w *WKTWriter
	out := make([]string, size)
	for i, g := range a.geometries {
		if g == nil {
			continue
		}
		if w == nil {
			var err error
			if w, err = g.ctx.NewWKTWriter(); err != nil {
				return nil, err
			}
			defer w.Release()
			if err := w.SetRoundingPrecision(precision); err != nil {
				return nil, err
			}
		}
		wkt, err := w.Write(g)
		if err != nil {
			return nil, fmt.Errorf("could not write geometry %d to WKT: %w", i, err)
		}
		out[i] = wkt
	}

	return out, nil
}

func (a *GeometryArray) String() string {
	if a.Size() == 0 {
		return ""
	}

	truncate := 60

	wkts, err := a.ToWKT(2)
	if err != nil {
		panic(err)
	}
	var b strings.Builder

	b.WriteString("[")

	for i := 0; i < len(wkts); i++ {
		b.WriteString("<")
		if len(wkts[i]) > truncate {
			b.WriteString(wkts[i][:truncate-3] + "...")
		} else {
			b.WriteString(wkts[i])
		}
		b.WriteString(">")
		if i < len(wkts)-1 {
			b.WriteString(", ")
		}
	}
	b.WriteString("]")
	return b.String()
}

// TotalBounds returns the union of the envelopes of all non-empty
// geometries as [xmin, ymin, xmax, ymax].
func (a *GeometryArray) TotalBounds() ([4]float64, error) {
	bounds := [4]float64{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
	found := false
	for i, g := range a.geometries {
		if g == nil {
			continue
		}
		empty, err := g.IsEmpty()
		if err != nil {
			return bounds, err
		}
		if empty {
			continue
		}
		b, err := g.Bounds()
		if err != nil {
			return bounds, fmt.Errorf("could not calculate bounds of geometry %d: %w", i, err)
		}
		bounds[0] = math.Min(bounds[0], b[0])
		bounds[1] = math.Min(bounds[1], b[1])
		bounds[2] = math.Max(bounds[2], b[2])
		bounds[3] = math.Max(bounds[3], b[3])
		found = true
	}
	if !found {
		return bounds, errors.New("could not calculate outer bounds of GeometryArray: no non-empty geometries")
	}
	return bounds, nil
}

func (a *GeometryArray) context() *Context {
	for _, g := range a.geometries {
		if g != nil {
			return g.ctx
		}
	}
	return nil
}

func (a *GeometryArray) createTree() error {
	tree, err := NewSTRtree[int](a.context(), a.nodeCapacity)
	if err != nil {
		return fmt.Errorf("could not create tree for GeometryArray: %w", err)
	}
	for i, g := range a.geometries {
		if g == nil {
			continue
		}
		if err := tree.Insert(g, i); err != nil {
			tree.Release()
			return fmt.Errorf("could not create tree for GeometryArray: %w", err)
		}
	}
	a.tree = tree
	return nil
}

func (a *GeometryArray) candidates(g *Geometry) ([]int, error) {
	if a.tree == nil {
		if err := a.createTree(); err != nil {
			return nil, err
		}
	}

	var indexes []int
	if err := a.tree.Query(g, func(i int) { indexes = append(indexes, i) }); err != nil {
		return nil, fmt.Errorf("failed during query of tree: %w", err)
	}

	// results are in tree-traversal order; put them into incremental order
	sort.Ints(indexes)
	return indexes, nil
}

// Query returns a slice of integer indexes into GeometryArray that overlap with
// the bounds defined by xmin, ymin, xmax, ymax.
// Will return nil if there are no results.
func (a *GeometryArray) Query(xmin, ymin, xmax, ymax float64) ([]int, error) {
	if a.Size() == 0 || a.context() == nil {
		return nil, nil
	}

	box, err := envelopePolygon(a.context(), xmin, ymin, xmax, ymax)
	if err != nil {
		return nil, err
	}
	defer box.Release()

	return a.candidates(box)
}

// QueryGeometry returns the sorted indexes of geometries for which
// pred(g, geometry) holds, using the tree to select candidates and a
// prepared copy of g for the exact test.
func (a *GeometryArray) QueryGeometry(g *Geometry, pred Predicate) ([]int, error) {
	if a.Size() == 0 || a.context() == nil {
		return nil, nil
	}

	hits, err := a.candidates(g)
	if err != nil || len(hits) == 0 {
		return nil, err
	}

	prepared, err := Prepare(g)
	if err != nil {
		return nil, err
	}
	defer prepared.Release()

	var indexes []int
	for _, i := range hits {
		ok, err := prepared.Test(pred, a.geometries[i])
		if err != nil {
			return nil, fmt.Errorf("could not test geometry %d: %w", i, err)
		}
		if ok {
			indexes = append(indexes, i)
		}
	}
	return indexes, nil
}

// envelopePolygon builds the rectangle xmin, ymin, xmax, ymax as a Polygon.
func envelopePolygon(c *Context, xmin, ymin, xmax, ymax float64) (*Geometry, error) {
	seq, err := c.NewCoordSeqFromSlice([][]float64{
		{xmin, ymin},
		{xmax, ymin},
		{xmax, ymax},
		{xmin, ymax},
		{xmin, ymin},
	})
	if err != nil {
		return nil, err
	}
	shell, err := CreateLinearRing(seq)
	if err != nil {
		return nil, err
	}
	box, err := CreatePolygon(shell, nil)
	if err != nil {
		shell.Release()
		return nil, err
	}
	return box, nil
}
