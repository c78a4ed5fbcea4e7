package container

import (
	"fmt"
	"iter"
	"slices"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/exp/constraints"

	"github.com/robert-malhotra/go-containers/internal/alloc"
	"github.com/robert-malhotra/go-containers/internal/layout"
	"github.com/robert-malhotra/go-containers/internal/traits"
)

// Extents is an unvalidated dimension count with up to that many sizes.
// Build one with Dims and pass it to an Array constructor.
type Extents struct {
	d     int
	sizes []int
}

// Dims describes an array of d dimensions. Dimensions without a size take
// the last size given, so Dims(3, 5) is a 5x5x5 array.
func Dims[N constraints.Integer](d int, sizes ...N) Extents {
	ints := make([]int, len(sizes))
	for i, s := range sizes {
		ints[i] = int(s)
	}
	return Extents{d: d, sizes: ints}
}

// Array is a fixed-shape N-dimensional array stored in row-major order.
// Every slot always holds an element; a new Array holds zero values.
//
// Indices address dimensions from the most significant one. Passing fewer
// indices than dimensions addresses the first element of the sub-array the
// partial index selects.
//
// An Array is not safe for concurrent use.
type Array[T any] struct {
	buf   *alloc.Buffer[T]
	shape layout.Shape
	ops   traits.Ops[T]
	opts  *options
}

// NewArray creates an array of the given extents holding zero values.
func NewArray[T any](ext Extents, opts ...Option) (*Array[T], error) {
	shape, err := layout.NewShape(ext.d, ext.sizes)
	if err != nil {
		return nil, err
	}
	return newArray[T](shape, buildOptions("array", opts)), nil
}

// NewArrayFrom creates an array whose leading elements, in row-major order,
// are copies of src. The remaining elements are zero values.
func NewArrayFrom[T any](src []T, ext Extents, opts ...Option) (*Array[T], error) {
	shape, err := layout.NewShape(ext.d, ext.sizes)
	if err != nil {
		return nil, err
	}
	if len(src) > shape.Volume() {
		return nil, errors.Wrapf(ErrTooManyInitialElements, "%d elements for shape %s", len(src), shape)
	}

	a := newArray[T](shape, buildOptions("array", opts))
	if err := a.ops.CopyAll(a.buf.Slots(), src); err != nil {
		a.buf.Release()
		return nil, err
	}
	return a, nil
}

// NewArrayFromSeq creates an array whose leading elements, in row-major
// order, are copies of the values produced by seq. If a copy fails or seq
// yields more values than the array holds, the copies made so far are
// destroyed.
func NewArrayFromSeq[T any](seq iter.Seq[T], ext Extents, opts ...Option) (*Array[T], error) {
	shape, err := layout.NewShape(ext.d, ext.sizes)
	if err != nil {
		return nil, err
	}

	a := newArray[T](shape, buildOptions("array", opts))
	slots := a.buf.Slots()
	n := 0
	for v := range seq {
		if n == len(slots) {
			a.ops.DestroyAll(slots[:n])
			a.buf.Release()
			return nil, errors.Wrapf(ErrTooManyInitialElements, "sequence is longer than shape %s", shape)
		}
		c, err := a.ops.Copy(&v)
		if err != nil {
			a.ops.DestroyAll(slots[:n])
			a.buf.Release()
			return nil, errors.Wrapf(err, "copying element %d", n)
		}
		slots[n] = c
		n++
	}
	return a, nil
}

func newArray[T any](shape layout.Shape, o *options) *Array[T] {
	a := &Array[T]{
		buf:   alloc.NewBuffer[T](shape.Volume(), o.tracker, o.tag),
		shape: shape,
		ops:   traits.For[T](),
		opts:  o,
	}
	if ce := o.logger.Check(zap.DebugLevel, "array allocated"); ce != nil {
		ce.Write(
			zap.String("tag", o.tag),
			zap.Stringer("shape", shape),
			zap.Uint64("bytes", a.buf.Bytes()),
		)
	}
	return a
}

// Clone returns a deep copy of a. A failing element copy is rolled back.
func (a *Array[T]) Clone() (*Array[T], error) {
	c := newArray[T](a.shape, a.opts)
	if err := c.ops.CopyAll(c.buf.Slots(), a.buf.Slots()); err != nil {
		c.buf.Release()
		return nil, err
	}
	return c, nil
}

// Move returns an array that owns a's shape and elements. a is left with
// no dimensions and no elements.
func (a *Array[T]) Move() *Array[T] {
	m := &Array[T]{
		buf:  alloc.NewBuffer[T](0, nil, ""),
		ops:  a.ops,
		opts: a.opts,
	}
	m.Swap(a)
	return m
}

// MoveFrom exchanges the contents of a and src.
func (a *Array[T]) MoveFrom(src *Array[T]) {
	if a != src {
		a.Swap(src)
	}
}

// Swap exchanges the shapes and elements of a and o in constant time.
func (a *Array[T]) Swap(o *Array[T]) {
	*a, *o = *o, *a
}

// Ref returns a pointer to the element at idx without bounds checking.
// Out of range indices address the wrong element or panic.
func (a *Array[T]) Ref(idx ...int) *T {
	return &a.buf.Slots()[a.shape.Flatten(idx)]
}

// Get returns the element at idx without bounds checking.
func (a *Array[T]) Get(idx ...int) T {
	return a.buf.Slots()[a.shape.Flatten(idx)]
}

// At returns a pointer to the element at idx. It fails with
// ErrTooManyIndices or ErrIndexOutOfRange.
func (a *Array[T]) At(idx ...int) (*T, error) {
	off, err := a.shape.Offset(idx)
	if err != nil {
		return nil, err
	}
	return &a.buf.Slots()[off], nil
}

// Set destroys the element at idx and stores value in its place.
func (a *Array[T]) Set(value T, idx ...int) error {
	p, err := a.At(idx...)
	if err != nil {
		return err
	}
	a.ops.Replace(p, value)
	return nil
}

// Offset returns the row-major offset of idx into Data.
func (a *Array[T]) Offset(idx ...int) (int, error) {
	return a.shape.Offset(idx)
}

// Clear resets every element to the zero value, destroying the old values.
func (a *Array[T]) Clear() {
	a.ops.ResetAll(a.buf.Slots())
}

// ClearAt resets the sub-array addressed by a partial index. With no
// indices it clears the whole array; with one index per dimension it
// clears a single element.
func (a *Array[T]) ClearAt(idx ...int) error {
	start, n, err := a.shape.Block(idx)
	if err != nil {
		return err
	}
	a.ops.ResetAll(a.buf.Slots()[start : start+n])
	return nil
}

// Dimensions returns the number of dimensions.
func (a *Array[T]) Dimensions() int {
	return a.shape.Rank()
}

// LengthOfDimension returns the size of dimension d, counted from 1.
func (a *Array[T]) LengthOfDimension(d int) (int, error) {
	if d < 1 || d > a.shape.Rank() {
		return 0, errors.Wrapf(ErrIndexOutOfRange, "dimension %d of %d", d, a.shape.Rank())
	}
	return a.shape.Dim(d - 1), nil
}

// Size returns the number of elements.
func (a *Array[T]) Size() int {
	return a.shape.Volume()
}

// Shape returns the size of every dimension.
func (a *Array[T]) Shape() []int {
	return a.shape.Dims()
}

// Strides returns, per dimension, the distance in Data between neighbours
// along that dimension.
func (a *Array[T]) Strides() []int {
	return a.shape.Strides()
}

// Data returns every element in row-major order. The slice aliases the
// array.
func (a *Array[T]) Data() []T {
	return a.buf.Slots()
}

// All iterates over the elements in row-major order together with their
// full index. The index slice is reused between iterations.
func (a *Array[T]) All() iter.Seq2[[]int, T] {
	return func(yield func([]int, T) bool) {
		slots := a.buf.Slots()
		if len(slots) == 0 {
			return
		}
		idx := make([]int, a.shape.Rank())
		for _, v := range slots {
			if !yield(idx, v) {
				return
			}
			a.shape.Next(idx)
		}
	}
}

// Block returns a view of the contiguous sub-array addressed by a partial
// index.
func (a *Array[T]) Block(idx ...int) ([]T, error) {
	start, n, err := a.shape.Block(idx)
	if err != nil {
		return nil, err
	}
	return a.buf.Slots()[start : start+n], nil
}

// Slab returns copies of the elements in the box that starts at start and
// spans count elements per dimension, in row-major order.
func (a *Array[T]) Slab(start, count []int) ([]T, error) {
	n, err := layout.CheckSlab(a.shape, start, count)
	if err != nil {
		return nil, err
	}

	out := make([]T, n)
	done := 0
	err = layout.Hyperslab(out, a.buf.Slots(), a.shape, start, count, func(dst, src []T) error {
		if err := a.ops.CopyAll(dst, src); err != nil {
			return err
		}
		done += len(src)
		return nil
	})
	if err != nil {
		a.ops.DestroyAll(out[:done])
		return nil, err
	}
	return out, nil
}

// PutSlab replaces the elements in the box that starts at start and spans
// count elements per dimension with copies of src, given in row-major order.
// If a copy fails the array is unchanged.
func (a *Array[T]) PutSlab(start, count []int, src []T) error {
	n, err := layout.CheckSlab(a.shape, start, count)
	if err != nil {
		return err
	}
	if len(src) > n {
		return errors.Wrapf(ErrTooManyInitialElements, "%d elements for a slab of %d", len(src), n)
	}
	if len(src) < n {
		return errors.Newf("slab of %d elements needs as many values, got %d", n, len(src))
	}

	staged := make([]T, n)
	if err := a.ops.CopyAll(staged, src); err != nil {
		return err
	}
	return layout.Scatter(a.buf.Slots(), staged, a.shape, start, count, func(dst, src []T) error {
		a.ops.DestroyAll(dst)
		copy(dst, src)
		return nil
	})
}

// EqualArrays reports whether a and b have the same shape and equal
// elements.
func EqualArrays[T comparable](a, b *Array[T]) bool {
	return a.shape.Equal(b.shape) && slices.Equal(a.buf.Slots(), b.buf.Slots())
}

// Release destroys every element and returns the buffer. a is left with no
// dimensions and no elements.
func (a *Array[T]) Release() {
	a.ops.DestroyAll(a.buf.Slots())
	a.buf.Release()
	a.buf = alloc.NewBuffer[T](0, nil, "")
	a.shape = layout.Shape{}
}

// String formats the shape followed by the elements in row-major order.
func (a *Array[T]) String() string {
	return fmt.Sprintf("Array%s %v", a.shape, a.buf.Slots())
}
