// Package layout maps multi-dimensional indices onto flat row-major storage.
//
// Arrays keep all of their elements in a single contiguous buffer. This
// package owns the arithmetic between an index tuple and a buffer offset;
// it never touches elements itself, except through the copy callbacks of
// [Hyperslab] and [Scatter].
//
// # Shapes
//
// A [Shape] is built from a dimension count and up to that many sizes:
//
//	s, err := layout.NewShape(3, []int{4, 2}) // (4, 2, 2)
//
// Validation fails with, in this order:
//
//   - [ErrDimensionCount] when the count is below 1
//   - [ErrTooManySizes] when more sizes than dimensions are given
//   - [ErrDimensionSize] when no size is given, a size is below 1, or the
//     volume would overflow an int
//
// Missing trailing sizes repeat the last given size, so NewShape(3, []int{5})
// is (5, 5, 5).
//
// # Flattening
//
// Offsets are row-major with the first dimension most significant, computed
// with Horner's scheme:
//
//	offset = i1
//	offset = offset*d2 + i2
//	...
//	offset = offset*dD + iD
//
// A partial index (fewer than D indices) leaves the omitted trailing
// indices at 0, so it addresses the first slot of a contiguous block of
// [Shape.BlockLen] slots. For (4, 2, 2), the index (1, 0, 1) is offset 5 and
// the partial index (1) is the block [4, 8).
//
// [Shape.Flatten] does no checking. [Shape.Offset] rejects too many indices
// with [ErrTooManyIndices] and any index outside its dimension with
// [ErrIndexOutOfRange].
//
// # Hyperslabs
//
// [Hyperslab] gathers a rectangular region, given as per-dimension start and
// count, into a dense row-major buffer; [Scatter] writes one back. Both
// recurse over the outer dimensions and copy the innermost dimension as one
// contiguous row:
//
//  1. For each position in the current dimension, advance the offsets in
//     the full buffer and in the region by their strides
//  2. Recurse until the innermost dimension
//  3. Copy the whole innermost row in one call
package layout
