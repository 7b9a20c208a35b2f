package shape

import (
	"fmt"
	"strings"
)

// Kind is the elemental type category of a leaf value.
type Kind int

const (
	// KindNone is the empty-sequence sentinel: the element type of a
	// sequence with no elements.
	KindNone Kind = iota
	// KindNumber covers all numeric leaf values. Integer, unsigned and
	// floating-point kinds are conflated so that descriptors stay
	// comparable across data mixing numeric representations. The
	// conflation is lossy: precision and signedness are not recoverable.
	KindNumber
	// KindString covers text. Text is atomic: it is never decomposed into
	// its characters.
	KindString
	// KindOther covers everything else, carrying a raw type tag.
	KindOther
)

// Elem is a leaf's elemental type.
type Elem struct {
	Kind Kind
	Tag  string // raw type name, set for KindOther only
}

// Canonical elemental types.
var (
	ElemNone   = Elem{Kind: KindNone}
	ElemNumber = Elem{Kind: KindNumber}
	ElemString = Elem{Kind: KindString}
)

// ElemOther returns the elemental type for a value outside the numeric and
// text categories, tagged with its raw type name.
func ElemOther(tag string) Elem { return Elem{Kind: KindOther, Tag: tag} }

// String returns the lower-case elemental type name.
func (e Elem) String() string {
	switch e.Kind {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindOther:
		return e.Tag
	default:
		return "none"
	}
}

type formKind int

const (
	formLeaf formKind = iota
	formCollapsed
	formHeterogeneous
)

// Form is the canonical recursive descriptor of a nested value's elemental
// type and repetition structure. It has three variants:
//
//   - Leaf: a scalar of some elemental type
//   - Collapsed: count structurally-identical repetitions of an inner form
//   - Heterogeneous: a sequence whose elements are not all identical
//
// A Collapsed form's inner form is always fully collapsed itself; [Collapse]
// works bottom-up and only wraps finished sub-forms, so collapsing is
// idempotent.
type Form struct {
	kind  formKind
	elem  Elem
	inner *Form
	count int
	items []Form
}

// Leaf returns the Form describing a scalar of elemental type e.
func Leaf(e Elem) Form { return Form{kind: formLeaf, elem: e} }

// Collapsed returns the Form describing count structurally-identical
// repetitions of inner.
func Collapsed(inner Form, count int) Form {
	return Form{kind: formCollapsed, inner: &inner, count: count}
}

// Heterogeneous returns the Form describing a sequence whose element forms
// are given in order.
func Heterogeneous(items []Form) Form {
	return Form{kind: formHeterogeneous, items: items}
}

// IsLeaf reports whether the form describes a scalar.
func (f Form) IsLeaf() bool { return f.kind == formLeaf }

// IsCollapsed reports whether the form is a collapsed repetition pair.
func (f Form) IsCollapsed() bool { return f.kind == formCollapsed }

// IsHeterogeneous reports whether the form is a non-uniform sequence.
func (f Form) IsHeterogeneous() bool { return f.kind == formHeterogeneous }

// Leaf returns the elemental type and true when the form is a scalar leaf.
func (f Form) Leaf() (Elem, bool) {
	if f.kind != formLeaf {
		return Elem{}, false
	}
	return f.elem, true
}

// Collapsed returns the inner form, the repetition count, and true when the
// form is a collapsed pair.
func (f Form) Collapsed() (Form, int, bool) {
	if f.kind != formCollapsed {
		return Form{}, 0, false
	}
	return *f.inner, f.count, true
}

// Items returns the element forms of a heterogeneous sequence, or nil.
// The returned slice is a read-only view.
func (f Form) Items() []Form {
	if f.kind != formHeterogeneous {
		return nil
	}
	return f.items
}

// Equal reports deep structural equality between two forms. Collapsed pairs
// compare inner form and count; heterogeneous sequences compare element-wise.
func (f Form) Equal(other Form) bool {
	if f.kind != other.kind {
		return false
	}
	switch f.kind {
	case formLeaf:
		return f.elem == other.elem
	case formCollapsed:
		return f.count == other.count && f.inner.Equal(*other.inner)
	default:
		if len(f.items) != len(other.items) {
			return false
		}
		for i := range f.items {
			if !f.items[i].Equal(other.items[i]) {
				return false
			}
		}
		return true
	}
}

// String renders the form in the compact pair notation: leaves as their
// elemental type name, collapsed pairs as "[inner, count]", and
// heterogeneous sequences as "[a, b, ...]".
func (f Form) String() string {
	switch f.kind {
	case formLeaf:
		return f.elem.String()
	case formCollapsed:
		return fmt.Sprintf("[%s, %d]", f.inner, f.count)
	default:
		parts := make([]string, len(f.items))
		for i, item := range f.items {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
}
