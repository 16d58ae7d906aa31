/*
	Package intensity provides a labeled multidimensional table of
	measurement values, e.g., per-feature intensities across imaging rounds,
	channels, and z planes, plus lossless persistence of tables to disk.
*/
package intensity

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// CoordKind discriminates the value type of a coordinate label array.
type CoordKind uint8

const (
	FloatKind CoordKind = iota
	IntKind
	LabelKind
)

func (kind CoordKind) String() string {
	switch kind {
	case FloatKind:
		return "float64 coordinate"
	case IntKind:
		return "int64 coordinate"
	case LabelKind:
		return "string coordinate"
	default:
		return "unknown coordinate"
	}
}

// Coord is a coordinate label array bound to one named axis of a Table.
// Exactly one of the value slices is used, selected by Kind.
type Coord struct {
	Dim    string
	Kind   CoordKind
	Floats []float64
	Ints   []int64
	Labels []string
}

// FloatCoord returns a float64-valued coordinate label array for an axis.
func FloatCoord(dim string, values []float64) Coord {
	return Coord{Dim: dim, Kind: FloatKind, Floats: values}
}

// IntCoord returns an int64-valued coordinate label array for an axis.
func IntCoord(dim string, values []int64) Coord {
	return Coord{Dim: dim, Kind: IntKind, Ints: values}
}

// LabelCoord returns a string-valued coordinate label array for an axis.
func LabelCoord(dim string, values []string) Coord {
	return Coord{Dim: dim, Kind: LabelKind, Labels: values}
}

// Len returns the number of labels in the coordinate array.
func (c Coord) Len() int {
	switch c.Kind {
	case FloatKind:
		return len(c.Floats)
	case IntKind:
		return len(c.Ints)
	case LabelKind:
		return len(c.Labels)
	default:
		return 0
	}
}

func coordsEqual(a, b Coord) bool {
	if a.Dim != b.Dim || a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case FloatKind:
		// NaN-aware comparison so NaN labels survive round-trip checks.
		return floats.Same(a.Floats, b.Floats)
	case IntKind:
		if len(a.Ints) != len(b.Ints) {
			return false
		}
		for i, v := range a.Ints {
			if b.Ints[i] != v {
				return false
			}
		}
		return true
	case LabelKind:
		if len(a.Labels) != len(b.Labels) {
			return false
		}
		for i, v := range a.Labels {
			if b.Labels[i] != v {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Table is an n-dimensional array of float32 measurement values with named
// axes, coordinate label arrays attached to those axes, and free-form
// attributes.  Values are stored in row-major order over the axes in Dims
// order.
type Table struct {
	dims   []string
	shape  []int
	values []float32
	coords map[string]Coord
	attrs  map[string]interface{}
}

// NewTable returns a zero-filled table over the given named axes.  The
// number of axis names must match the number of shape extents, axis names
// must be unique and non-empty, and extents must be non-negative.
func NewTable(dims []string, shape []int) (*Table, error) {
	if len(dims) != len(shape) {
		return nil, fmt.Errorf("got %d axis names for %d shape extents", len(dims), len(shape))
	}
	seen := make(map[string]struct{}, len(dims))
	numValues := 1
	for i, dim := range dims {
		if dim == "" {
			return nil, fmt.Errorf("axis %d has empty name", i)
		}
		if _, found := seen[dim]; found {
			return nil, fmt.Errorf("duplicated axis name %q", dim)
		}
		seen[dim] = struct{}{}
		if shape[i] < 0 {
			return nil, fmt.Errorf("axis %q has negative extent %d", dim, shape[i])
		}
		numValues *= shape[i]
	}
	t := &Table{
		dims:   append([]string(nil), dims...),
		shape:  append([]int(nil), shape...),
		values: make([]float32, numValues),
		coords: make(map[string]Coord),
		attrs:  make(map[string]interface{}),
	}
	return t, nil
}

// NewTableFromValues is like NewTable but adopts the given row-major value
// slice instead of allocating zeros.
func NewTableFromValues(dims []string, shape []int, values []float32) (*Table, error) {
	t, err := NewTable(dims, shape)
	if err != nil {
		return nil, err
	}
	if len(values) != len(t.values) {
		return nil, fmt.Errorf("shape %s requires %d values, got %d", shapeString(shape), len(t.values), len(values))
	}
	t.values = values
	return t, nil
}

// Dims returns the axis names in storage order.
func (t *Table) Dims() []string {
	return append([]string(nil), t.dims...)
}

// Shape returns the extent of each axis in storage order.
func (t *Table) Shape() []int {
	return append([]int(nil), t.shape...)
}

// Size returns the total number of values in the table.
func (t *Table) Size() int {
	return len(t.values)
}

// Values returns the backing row-major value slice, not a copy.  Bulk
// loaders fill measurement values through it.
func (t *Table) Values() []float32 {
	return t.values
}

// offset maps an index per axis to a position in the row-major value slice.
func (t *Table) offset(ix []int) (int, error) {
	if len(ix) != len(t.shape) {
		return 0, fmt.Errorf("got %d indices for %d axes", len(ix), len(t.shape))
	}
	off := 0
	for i, x := range ix {
		if x < 0 || x >= t.shape[i] {
			return 0, fmt.Errorf("index %d out of bounds for axis %q with extent %d", x, t.dims[i], t.shape[i])
		}
		off = off*t.shape[i] + x
	}
	return off, nil
}

// At returns the value at one index per axis.
func (t *Table) At(ix ...int) (float32, error) {
	off, err := t.offset(ix)
	if err != nil {
		return 0, err
	}
	return t.values[off], nil
}

// Set stores a value at one index per axis.
func (t *Table) Set(value float32, ix ...int) error {
	off, err := t.offset(ix)
	if err != nil {
		return err
	}
	t.values[off] = value
	return nil
}

// SetCoord attaches a named coordinate label array to the table.  The
// coordinate's axis must be one of the table's axes and its length must
// match that axis extent.
func (t *Table) SetCoord(name string, c Coord) error {
	if name == "" {
		return fmt.Errorf("coordinate must have a name")
	}
	axis := -1
	for i, dim := range t.dims {
		if dim == c.Dim {
			axis = i
			break
		}
	}
	if axis < 0 {
		return fmt.Errorf("coordinate %q references unknown axis %q", name, c.Dim)
	}
	if c.Len() != t.shape[axis] {
		return fmt.Errorf("coordinate %q has %d labels for axis %q with extent %d",
			name, c.Len(), c.Dim, t.shape[axis])
	}
	t.coords[name] = c
	return nil
}

// Coord returns the named coordinate label array, if attached.
func (t *Table) Coord(name string) (Coord, bool) {
	c, found := t.coords[name]
	return c, found
}

// CoordNames returns the name of every attached coordinate label array.
// Order is unspecified.
func (t *Table) CoordNames() []string {
	names := make([]string, 0, len(t.coords))
	for name := range t.coords {
		names = append(names, name)
	}
	return names
}

// SetAttr stores a free-form attribute.  Values are restricted to the kinds
// that survive persistence: string, bool, int, int64, float64, and nested
// []interface{} or map[string]interface{} of those.
func (t *Table) SetAttr(name string, value interface{}) error {
	if name == "" {
		return fmt.Errorf("attribute must have a name")
	}
	if err := checkAttrValue(value); err != nil {
		return fmt.Errorf("attribute %q: %v", name, err)
	}
	t.attrs[name] = value
	return nil
}

// Attr returns the named attribute, if set.
func (t *Table) Attr(name string) (interface{}, bool) {
	value, found := t.attrs[name]
	return value, found
}

// AttrNames returns the name of every attribute.  Order is unspecified.
func (t *Table) AttrNames() []string {
	names := make([]string, 0, len(t.attrs))
	for name := range t.attrs {
		names = append(names, name)
	}
	return names
}

func checkAttrValue(value interface{}) error {
	switch v := value.(type) {
	case string, bool, int, int64, float64:
		return nil
	case []interface{}:
		for _, elem := range v {
			if err := checkAttrValue(elem); err != nil {
				return err
			}
		}
		return nil
	case map[string]interface{}:
		for _, elem := range v {
			if err := checkAttrValue(elem); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported attribute value type %T", value)
	}
}

// Equals reports whether two tables are equivalent: identical axis names and
// shape, bit-identical values at every index, identical sets of coordinate
// label arrays, and identical attributes.  This relation is what persistence
// guarantees across a save/load cycle.
func (t *Table) Equals(other *Table) bool {
	if t == nil || other == nil {
		return t == other
	}
	if len(t.dims) != len(other.dims) {
		return false
	}
	for i, dim := range t.dims {
		if other.dims[i] != dim || other.shape[i] != t.shape[i] {
			return false
		}
	}
	if len(t.values) != len(other.values) {
		return false
	}
	for i, v := range t.values {
		// Bit comparison keeps NaN payloads significant and is exact for
		// all stored values.
		if math.Float32bits(other.values[i]) != math.Float32bits(v) {
			return false
		}
	}
	if len(t.coords) != len(other.coords) {
		return false
	}
	for name, c := range t.coords {
		oc, found := other.coords[name]
		if !found || !coordsEqual(c, oc) {
			return false
		}
	}
	if len(t.attrs) != len(other.attrs) {
		return false
	}
	for name, value := range t.attrs {
		ovalue, found := other.attrs[name]
		if !found || !reflect.DeepEqual(value, ovalue) {
			return false
		}
	}
	return true
}

func (t *Table) String() string {
	return fmt.Sprintf("intensity table %v %s, %d coords, %d attrs",
		t.dims, shapeString(t.shape), len(t.coords), len(t.attrs))
}

func shapeString(shape []int) string {
	parts := make([]string, len(shape))
	for i, extent := range shape {
		parts[i] = fmt.Sprintf("%d", extent)
	}
	return "(" + strings.Join(parts, ",") + ")"
}
