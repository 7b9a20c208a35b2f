// Package shape infers the structural shape of arbitrarily nested values.
//
// # Overview
//
// The package answers the question "what shape is this data" for values
// built from sequences and scalars, the way one would describe an array:
// a 2x3 matrix of numbers, a vector of five strings, a scalar. It works in
// two stages. [TypesOf] walks the value and produces a [Form], a recursive
// descriptor of elemental types and repetition. [Collapse] then merges
// runs of structurally identical elements bottom-up, so a uniform matrix
// becomes a nested pair like [[number, 3], 2] instead of an element-wise
// listing. [FormOf] composes the two.
//
// # Shapes
//
// [ShapeOf] reads a dimension tuple off a collapsed form. Values whose
// nesting is uniform at every level get a regular shape such as (2, 3);
// values whose siblings differ in structure get a ragged shape listing
// one branch per element. [Dims] returns the same information as plain
// int slices for callers that do not need the full descriptor.
//
//	dims, _, _ := shape.Dims([][]int{{1, 2, 3}, {4, 5, 6}}) // [2 3]
//	_, ragged, _ := shape.Dims([][]int{{1}, {2, 3}})        // [[1] [2]]
//
// # Conventions
//
// All numeric kinds are treated as one elemental number type, and text is
// atomic. A scalar has the empty dimension tuple () and an empty sequence
// has shape (0). Inputs nesting deeper than [MaxNesting] levels fail with
// [ErrTooDeep].
//
// # Concurrency
//
// Forms and shapes are immutable values; all functions in this package are
// safe for concurrent use.
package shape
