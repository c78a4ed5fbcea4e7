package container

import (
	"fmt"
	"iter"
	"math"
	"slices"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/robert-malhotra/go-containers/internal/alloc"
	"github.com/robert-malhotra/go-containers/internal/traits"
)

// minCapacity is the smallest buffer a Vector ever holds, even when empty.
const minCapacity = 2

// Vector is a contiguous, growth-amortized sequence of T.
//
// Live elements occupy slots [0, Len()); the remaining slots up to Cap()
// are uninitialized storage. A full Vector grows its buffer to
// floor(Cap()*1.6) before appending. Operations that may move elements
// between slots return an error, because moving a Pinned element copies it
// through Clone.
//
// A Vector is not safe for concurrent use. Vectors must be created with one
// of the constructors; the zero value is not usable.
type Vector[T any] struct {
	buf  *alloc.Buffer[T]
	n    int
	ops  traits.Ops[T]
	opts *options
}

// NewVector creates an empty vector with room for two elements.
func NewVector[T any](opts ...Option) *Vector[T] {
	return newVector[T](minCapacity, buildOptions("vector", opts))
}

// NewVectorSized creates an empty vector with room for at least c elements.
func NewVectorSized[T any](c int, opts ...Option) *Vector[T] {
	return newVector[T](c, buildOptions("vector", opts))
}

// NewVectorFrom creates a vector holding copies of items. If copying an
// element fails, the copies made so far are destroyed and no buffer is left
// allocated.
func NewVectorFrom[T any](items []T, opts ...Option) (*Vector[T], error) {
	v := newVector[T](len(items), buildOptions("vector", opts))
	if err := v.ops.CopyAll(v.buf.Slots(), items); err != nil {
		v.buf.Release()
		return nil, err
	}
	v.n = len(items)
	return v, nil
}

// VectorOf creates a vector holding copies of items.
func VectorOf[T any](items ...T) (*Vector[T], error) {
	return NewVectorFrom(items)
}

func newVector[T any](c int, o *options) *Vector[T] {
	return &Vector[T]{
		buf:  alloc.NewBuffer[T](max(minCapacity, c), o.tracker, o.tag),
		ops:  traits.For[T](),
		opts: o,
	}
}

// Clone returns a deep copy of v with the same capacity and options. A
// failing element copy is rolled back.
func (v *Vector[T]) Clone() (*Vector[T], error) {
	c := newVector[T](v.Cap(), v.opts)
	if err := c.ops.CopyAll(c.buf.Slots(), v.live()); err != nil {
		c.buf.Release()
		return nil, err
	}
	c.n = v.n
	return c, nil
}

// Move returns a vector that owns v's elements and buffer. v is left as a
// fresh empty vector.
func (v *Vector[T]) Move() *Vector[T] {
	m := newVector[T](minCapacity, v.opts)
	m.Swap(v)
	return m
}

// MoveFrom exchanges the contents of v and src, so v takes over src's
// elements and src takes whatever v held. The caller typically releases
// src afterwards.
func (v *Vector[T]) MoveFrom(src *Vector[T]) {
	if v != src {
		v.Swap(src)
	}
}

// Assign replaces the contents of v with copies of src's elements. When v
// already has room, its buffer is reused and a failing copy leaves v empty;
// otherwise the copy is made into a fresh buffer and v is unchanged on
// failure.
func (v *Vector[T]) Assign(src *Vector[T]) error {
	if v == src {
		return nil
	}
	return v.assign(src.live(), src.Cap())
}

// AssignItems replaces the contents of v with copies of items. items must
// not alias v's buffer.
func (v *Vector[T]) AssignItems(items ...T) error {
	return v.assign(items, len(items))
}

func (v *Vector[T]) assign(items []T, c int) error {
	if len(items) <= v.Cap() {
		v.Clear()
		if err := v.ops.CopyAll(v.buf.Slots(), items); err != nil {
			return err
		}
		v.n = len(items)
		return nil
	}

	buf := alloc.NewBuffer[T](max(minCapacity, c), v.opts.tracker, v.opts.tag)
	if err := v.ops.CopyAll(buf.Slots(), items); err != nil {
		buf.Release()
		return err
	}
	v.Clear()
	v.buf.Release()
	v.buf = buf
	v.n = len(items)
	return nil
}

// Ref returns a pointer to slot i. The index is not checked against Len.
func (v *Vector[T]) Ref(i int) *T {
	return &v.buf.Slots()[i]
}

// Get returns the value in slot i. The index is not checked against Len.
func (v *Vector[T]) Get(i int) T {
	return v.buf.Slots()[i]
}

// At returns a pointer to element i, or ErrIndexOutOfRange.
func (v *Vector[T]) At(i int) (*T, error) {
	if err := v.checkIndex(i); err != nil {
		return nil, err
	}
	return &v.buf.Slots()[i], nil
}

// Front returns a pointer to the first element. It panics if v is empty.
func (v *Vector[T]) Front() *T {
	return &v.live()[0]
}

// Back returns a pointer to the last element. It panics if v is empty.
func (v *Vector[T]) Back() *T {
	return &v.live()[v.n-1]
}

// Len returns the number of elements.
func (v *Vector[T]) Len() int {
	return v.n
}

// Cap returns the number of slots in the buffer.
func (v *Vector[T]) Cap() int {
	return v.buf.Len()
}

// Empty reports whether v holds no elements.
func (v *Vector[T]) Empty() bool {
	return v.n == 0
}

// MaxCapacity returns the largest capacity a vector of T can address.
func (v *Vector[T]) MaxCapacity() int {
	return maxCapacity[T]()
}

func maxCapacity[T any]() int {
	size := alloc.SlotBytes[T](1)
	if size == 0 {
		return math.MaxInt
	}
	return int(uint64(math.MaxInt) / size)
}

// Data returns the live elements. The slice aliases the buffer and is
// invalidated by any operation that reallocates.
func (v *Vector[T]) Data() []T {
	return v.live()
}

// All iterates over the elements from front to back.
func (v *Vector[T]) All() iter.Seq2[int, T] {
	return slices.All(v.live())
}

// Backward iterates over the elements from back to front.
func (v *Vector[T]) Backward() iter.Seq2[int, T] {
	return slices.Backward(v.live())
}

// Reserve grows the buffer to n slots if it is smaller. The capacity never
// drops below two.
func (v *Vector[T]) Reserve(n int) error {
	if n <= v.Cap() {
		return nil
	}
	return v.reallocate(n)
}

// ShrinkToFit reallocates the buffer to the smallest capacity that holds
// the current elements.
func (v *Vector[T]) ShrinkToFit() error {
	c := max(minCapacity, v.n)
	if c == v.Cap() {
		return nil
	}
	return v.reallocate(c)
}

// Clear destroys every element. The capacity is kept.
func (v *Vector[T]) Clear() {
	v.ops.DestroyAll(v.live())
	v.n = 0
}

// Erase destroys element i and moves the following elements one slot to
// the left.
func (v *Vector[T]) Erase(i int) error {
	if err := v.checkIndex(i); err != nil {
		return err
	}
	if err := v.ops.ShiftLeft(v.buf.Slots(), i, v.n); err != nil {
		return err
	}
	v.n--
	return nil
}

// EraseUnordered destroys element i and moves the last element into its
// slot, so it runs in constant time but does not keep the order. If moving
// the last element fails, v is unchanged.
func (v *Vector[T]) EraseUnordered(i int) error {
	if err := v.checkIndex(i); err != nil {
		return err
	}
	last := v.n - 1
	if i < last {
		var tmp T
		if err := v.ops.RelocateOne(&tmp, &v.buf.Slots()[last]); err != nil {
			return err
		}
		v.ops.Replace(&v.buf.Slots()[i], tmp)
	} else {
		v.ops.PopBack(v.live())
	}
	v.n--
	return nil
}

// Insert stores item at position i, moving elements i and up one slot to
// the right. i must index an existing element; use PushBack to append. On
// error item has not been stored and still belongs to the caller.
func (v *Vector[T]) Insert(i int, item T) error {
	if err := v.checkIndex(i); err != nil {
		return err
	}
	if err := v.growIfFull(); err != nil {
		return err
	}
	if err := v.ops.Insert(v.buf.Slots(), i, v.n, item); err != nil {
		return err
	}
	v.n++
	return nil
}

// InsertCopy inserts a copy of item at position i.
func (v *Vector[T]) InsertCopy(i int, item T) error {
	if err := v.checkIndex(i); err != nil {
		return err
	}
	c, err := v.ops.Copy(&item)
	if err != nil {
		return err
	}
	if err := v.Insert(i, c); err != nil {
		v.ops.Destroy(&c)
		return err
	}
	return nil
}

// Emplace constructs a new element with fn and inserts it at position i.
// If the insertion fails after fn succeeded, the new element is destroyed.
func (v *Vector[T]) Emplace(i int, fn func(*T) error) error {
	if err := v.checkIndex(i); err != nil {
		return err
	}
	var item T
	if err := fn(&item); err != nil {
		return err
	}
	if err := v.Insert(i, item); err != nil {
		v.ops.Destroy(&item)
		return err
	}
	return nil
}

// PushBack appends item.
func (v *Vector[T]) PushBack(item T) error {
	if err := v.growIfFull(); err != nil {
		return err
	}
	v.buf.Slots()[v.n] = item
	v.n++
	return nil
}

// PushBackCopy appends a copy of item.
func (v *Vector[T]) PushBackCopy(item T) error {
	c, err := v.ops.Copy(&item)
	if err != nil {
		return err
	}
	if err := v.PushBack(c); err != nil {
		v.ops.Destroy(&c)
		return err
	}
	return nil
}

// EmplaceBack constructs a new element in place at the end with fn. fn
// receives a pointer to a zero value. If fn fails, the slot is reset and
// the length is unchanged.
func (v *Vector[T]) EmplaceBack(fn func(*T) error) error {
	if err := v.growIfFull(); err != nil {
		return err
	}
	var zero T
	p := &v.buf.Slots()[v.n]
	*p = zero
	if err := fn(p); err != nil {
		*p = zero
		return err
	}
	v.n++
	return nil
}

// PopBack destroys the last element. It panics if v is empty.
func (v *Vector[T]) PopBack() {
	if v.n == 0 {
		panic("container: PopBack on empty Vector")
	}
	v.ops.PopBack(v.live())
	v.n--
}

// Replace destroys element i and stores item in its place.
func (v *Vector[T]) Replace(i int, item T) error {
	if err := v.checkIndex(i); err != nil {
		return err
	}
	v.ops.Replace(&v.buf.Slots()[i], item)
	return nil
}

// ReplaceCopy destroys element i and stores a copy of item in its place.
// If the copy fails, element i is left untouched.
func (v *Vector[T]) ReplaceCopy(i int, item T) error {
	if err := v.checkIndex(i); err != nil {
		return err
	}
	c, err := v.ops.Copy(&item)
	if err != nil {
		return err
	}
	v.ops.Replace(&v.buf.Slots()[i], c)
	return nil
}

// ReplaceWith constructs a new element with fn and replaces element i with
// it. If fn fails, element i is left untouched.
func (v *Vector[T]) ReplaceWith(i int, fn func(*T) error) error {
	if err := v.checkIndex(i); err != nil {
		return err
	}
	var item T
	if err := fn(&item); err != nil {
		return err
	}
	v.ops.Replace(&v.buf.Slots()[i], item)
	return nil
}

// SwapItems exchanges elements a and b.
func (v *Vector[T]) SwapItems(a, b int) error {
	if err := v.checkIndex(a); err != nil {
		return err
	}
	if err := v.checkIndex(b); err != nil {
		return err
	}
	return v.ops.SwapItems(v.buf.Slots(), a, b)
}

// Resize pops elements until at most n remain. It never grows the vector:
// a request for more than Len elements leaves v unchanged.
func (v *Vector[T]) Resize(n int) {
	n = max(n, 0)
	for v.n > n {
		v.PopBack()
	}
}

// Swap exchanges the contents of v and o in constant time.
func (v *Vector[T]) Swap(o *Vector[T]) {
	*v, *o = *o, *v
}

// EqualFunc reports whether v and o have the same length and eq holds for
// every pair of elements at the same position.
func (v *Vector[T]) EqualFunc(o *Vector[T], eq func(a, b T) bool) bool {
	return slices.EqualFunc(v.live(), o.live(), eq)
}

// EqualVectors reports whether a and b hold equal elements in the same
// order.
func EqualVectors[T comparable](a, b *Vector[T]) bool {
	return slices.Equal(a.live(), b.live())
}

// Release destroys every element and returns the buffer to the tracker.
// v is left empty with a fresh two-slot buffer that the tracker does not
// account for; growing past it allocates tracked buffers again.
func (v *Vector[T]) Release() {
	v.Clear()
	v.buf.Release()
	v.buf = alloc.NewBuffer[T](minCapacity, nil, "")
}

// String formats the elements like a slice.
func (v *Vector[T]) String() string {
	return fmt.Sprint(v.live())
}

func (v *Vector[T]) live() []T {
	return v.buf.Slots()[:v.n]
}

func (v *Vector[T]) checkIndex(i int) error {
	if i < 0 || i >= v.n {
		return errors.Wrapf(ErrIndexOutOfRange, "index %d, length %d", i, v.n)
	}
	return nil
}

func (v *Vector[T]) growIfFull() error {
	if v.n < v.Cap() {
		return nil
	}
	return v.reallocate(grownCapacity(v.Cap(), maxCapacity[T]()))
}

// grownCapacity returns floor(c*1.6), at least minCapacity and at most
// limit.
func grownCapacity(c, limit int) int {
	if c >= limit/8*5 {
		return limit
	}
	return max(minCapacity, c/5*8+c%5*8/5)
}

// reallocate moves the elements into a new buffer of c slots, at least
// minCapacity. On failure v is unchanged.
func (v *Vector[T]) reallocate(c int) error {
	c = max(minCapacity, c)
	buf := alloc.NewBuffer[T](c, v.opts.tracker, v.opts.tag)
	if err := v.ops.Relocate(buf.Slots(), v.live()); err != nil {
		buf.Release()
		return errors.Wrapf(err, "reallocating to %d slots", c)
	}
	if ce := v.opts.logger.Check(zap.DebugLevel, "vector reallocated"); ce != nil {
		ce.Write(
			zap.String("tag", v.opts.tag),
			zap.Int("from", v.buf.Len()),
			zap.Int("to", c),
			zap.Int("len", v.n),
		)
	}
	v.buf.Release()
	v.buf = buf
	return nil
}
