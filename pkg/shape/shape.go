package shape

import (
	"strconv"
	"strings"
)

// Shape is the dimensional description derived from a [Form]. It is either
// regular, when every nesting level collapses uniformly, or ragged, when
// sibling elements differ in structure. Shapes are always recomputed from
// forms, never stored.
type Shape struct {
	// Elem is the elemental type of a regular shape's values.
	Elem Elem
	// Dims is the dimension tuple of a regular shape, outermost first.
	// Scalars have an empty (but non-nil) tuple. Nil when ragged.
	Dims []int
	// Branches holds the per-element shapes of a ragged value. Nil when
	// regular.
	Branches []Shape
}

// Ragged reports whether the shape could not be expressed as a single
// regular dimension tuple.
func (s Shape) Ragged() bool { return s.Branches != nil }

// String renders a regular shape as its dimension tuple, e.g. "(2, 3)" or
// "()" for a scalar, and a ragged shape as the bracketed list of its branch
// shapes, e.g. "[(1), (2)]".
func (s Shape) String() string {
	if s.Ragged() {
		parts := make([]string, len(s.Branches))
		for i, b := range s.Branches {
			parts[i] = b.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	parts := make([]string, len(s.Dims))
	for i, d := range s.Dims {
		parts[i] = strconv.Itoa(d)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// ShapeOf derives the dimensional description of a form. Collapsed pairs
// contribute one dimension per nesting level; a bare leaf is a scalar with
// the empty dimension tuple; a heterogeneous form is ragged with one branch
// shape per element. A collapsed pair over a ragged inner form repeats the
// inner branch count times.
func ShapeOf(f Form) Shape {
	if elem, ok := f.Leaf(); ok {
		return Shape{Elem: elem, Dims: []int{}}
	}
	if inner, count, ok := f.Collapsed(); ok {
		is := ShapeOf(inner)
		if is.Ragged() {
			branches := make([]Shape, count)
			for i := range branches {
				branches[i] = is
			}
			return Shape{Branches: branches}
		}
		return Shape{Elem: is.Elem, Dims: append([]int{count}, is.Dims...)}
	}
	items := f.Items()
	branches := make([]Shape, len(items))
	for i, item := range items {
		branches[i] = ShapeOf(item)
	}
	return Shape{Branches: branches}
}

// Of derives the shape of an arbitrarily nested value. It is shorthand for
// ShapeOf(FormOf(v)); the only error is [ErrTooDeep].
func Of(v any) (Shape, error) {
	f, err := FormOf(v)
	if err != nil {
		return Shape{}, err
	}
	return ShapeOf(f), nil
}

// Dims derives the plain dimensional description of a value. For regular
// values it returns the dimension tuple and a nil ragged list; for ragged
// values it returns a nil tuple and the per-branch dimension tuples.
// A ragged branch that is itself ragged contributes a nil tuple.
//
//	Dims([[1,2,3],[4,5,6]])  →  [2 3], nil
//	Dims([[1],[2,3]])        →  nil, [[1] [2]]
//	Dims(5)                  →  [], nil
//	Dims([])                 →  [0], nil
func Dims(v any) ([]int, [][]int, error) {
	s, err := Of(v)
	if err != nil {
		return nil, nil, err
	}
	if !s.Ragged() {
		return s.Dims, nil, nil
	}
	ragged := make([][]int, len(s.Branches))
	for i, b := range s.Branches {
		if !b.Ragged() {
			ragged[i] = b.Dims
		}
	}
	return nil, ragged, nil
}
