package shape

import (
	"errors"
	"reflect"
)

// MaxNesting caps the nesting depth [TypesOf] will descend into. Recursion
// depth is bound by input nesting, so adversarially deep input would
// otherwise exhaust the call stack.
const MaxNesting = 1000

// ErrTooDeep is returned by [TypesOf], [FormOf] and [Of] when the input
// nests deeper than [MaxNesting] levels.
var ErrTooDeep = errors.New("input nests deeper than the maximum depth")

// TypesOf derives the raw type structure of an arbitrarily nested value.
// The result may still contain uniform runs that [Collapse] merges; callers
// normally use [FormOf], which composes the two.
//
// The rules mirror what the form vocabulary can express:
//
//   - Numeric scalars of any kind become a number leaf; text becomes an
//     atomic string leaf (never decomposed character-by-character); any
//     other scalar keeps its raw type tag.
//   - An empty sequence becomes the collapsed pair [none, 0].
//   - A sequence whose elements are uniformly numeric or uniformly text is
//     collapsed directly to [elem, length] without per-element recursion.
//   - Any other sequence recurses per element.
//
// TypesOf never fails on well-formed nested data; the only error is
// [ErrTooDeep].
func TypesOf(v any) (Form, error) {
	return typesOf(reflect.ValueOf(v), 0)
}

func typesOf(rv reflect.Value, depth int) (Form, error) {
	if depth > MaxNesting {
		return Form{}, ErrTooDeep
	}
	rv = indirect(rv)
	if !rv.IsValid() {
		return Leaf(ElemOther("nil")), nil
	}

	switch rv.Kind() {
	case reflect.String:
		return Leaf(ElemString), nil
	case reflect.Slice, reflect.Array:
		n := rv.Len()
		if n == 0 {
			return Collapsed(Leaf(ElemNone), 0), nil
		}
		if elem, ok := uniformScalars(rv); ok {
			return Collapsed(Leaf(elem), n), nil
		}
		items := make([]Form, n)
		for i := 0; i < n; i++ {
			item, err := typesOf(rv.Index(i), depth+1)
			if err != nil {
				return Form{}, err
			}
			items[i] = item
		}
		return Heterogeneous(items), nil
	default:
		return Leaf(scalarElem(rv)), nil
	}
}

// uniformScalars reports whether every element of a sequence is a scalar of
// one numeric or text elemental kind, returning that kind. This is the fast
// path: a flat uniform sequence collapses in one pass instead of recursing
// per element.
func uniformScalars(rv reflect.Value) (Elem, bool) {
	var elem Elem
	for i := 0; i < rv.Len(); i++ {
		item := indirect(rv.Index(i))
		if !item.IsValid() {
			return Elem{}, false
		}
		var e Elem
		switch item.Kind() {
		case reflect.String:
			e = ElemString
		case reflect.Slice, reflect.Array:
			return Elem{}, false
		default:
			e = scalarElem(item)
			if e.Kind != KindNumber {
				return Elem{}, false
			}
		}
		if i == 0 {
			elem = e
		} else if e != elem {
			return Elem{}, false
		}
	}
	return elem, true
}

// scalarElem maps a non-sequence value to its elemental type. All integer,
// unsigned and floating-point kinds normalize to number.
func scalarElem(rv reflect.Value) Elem {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return ElemNumber
	case reflect.String:
		return ElemString
	default:
		return ElemOther(rv.Type().String())
	}
}

// indirect unwraps interfaces and pointers down to the concrete value.
func indirect(rv reflect.Value) reflect.Value {
	for rv.IsValid() && (rv.Kind() == reflect.Interface || rv.Kind() == reflect.Pointer) {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}

// Collapse merges repeated structure bottom-up: a sequence whose element
// forms are all structurally equal becomes the pair [first, length], and
// anything else is left as an (individually collapsed) heterogeneous
// sequence. Leaves and already-collapsed pairs are returned unchanged, so
// Collapse(Collapse(f)) == Collapse(f) for every form.
func Collapse(f Form) Form {
	if !f.IsHeterogeneous() {
		return f
	}
	items := make([]Form, len(f.items))
	for i, item := range f.items {
		items[i] = Collapse(item)
	}
	if len(items) > 0 && allEqual(items) {
		return Collapsed(items[0], len(items))
	}
	return Heterogeneous(items)
}

func allEqual(items []Form) bool {
	for _, item := range items[1:] {
		if !items[0].Equal(item) {
			return false
		}
	}
	return true
}

// FormOf is the canonical entry point: it derives the raw type structure of
// v and collapses repeated structure. The only error is [ErrTooDeep].
func FormOf(v any) (Form, error) {
	f, err := TypesOf(v)
	if err != nil {
		return Form{}, err
	}
	return Collapse(f), nil
}

// FormatCollapse builds the collapsed form of a uniform multi-dimensional
// array from its leaf elemental type and flat dimension tuple (outermost
// first). The innermost dimension is collapsed first:
//
//	FormatCollapse(ElemNumber, []int{1, 2, 3})  →  [[[number, 3], 2], 1]
//
// An empty dims tuple yields a bare leaf. This expresses declared array
// shapes in the same vocabulary the general recursive case produces, so the
// two can be compared directly.
func FormatCollapse(elem Elem, dims []int) Form {
	f := Leaf(elem)
	for i := len(dims) - 1; i >= 0; i-- {
		f = Collapsed(f, dims[i])
	}
	return f
}
