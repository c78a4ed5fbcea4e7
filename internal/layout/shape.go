// Package layout maps multi-dimensional indices onto flat row-major storage.
package layout

import (
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Shape is a validated set of dimension sizes. The zero Shape has no
// dimensions and is only useful as a placeholder.
type Shape struct {
	dims []int
	size int
}

// NewShape validates a dimension count and its sizes. When fewer than d
// sizes are given, the remaining dimensions take the last given size.
func NewShape(d int, sizes []int) (Shape, error) {
	if d < 1 {
		return Shape{}, errors.Wrapf(ErrDimensionCount, "got %d", d)
	}
	if len(sizes) > d {
		return Shape{}, errors.Wrapf(ErrTooManySizes, "%d sizes for %d dimensions", len(sizes), d)
	}
	if len(sizes) == 0 {
		return Shape{}, errors.Wrapf(ErrDimensionSize, "no size given for %d dimensions", d)
	}
	for k, n := range sizes {
		if n < 1 {
			return Shape{}, errors.Wrapf(ErrDimensionSize, "dimension %d has size %d", k+1, n)
		}
	}

	dims := make([]int, d)
	size := 1
	for k := range dims {
		n := sizes[min(k, len(sizes)-1)]
		if size > math.MaxInt/n {
			return Shape{}, errors.Wrapf(ErrDimensionSize, "volume overflows at dimension %d", k+1)
		}
		dims[k] = n
		size *= n
	}
	return Shape{dims: dims, size: size}, nil
}

// Rank returns the number of dimensions.
func (s Shape) Rank() int {
	return len(s.dims)
}

// Volume returns the number of slots the shape addresses.
func (s Shape) Volume() int {
	return s.size
}

// Dim returns the size of dimension k, counted from 0.
func (s Shape) Dim(k int) int {
	return s.dims[k]
}

// Dims returns a copy of the dimension sizes.
func (s Shape) Dims() []int {
	return append([]int(nil), s.dims...)
}

// Equal reports whether both shapes have the same dimension sizes.
func (s Shape) Equal(o Shape) bool {
	if len(s.dims) != len(o.dims) {
		return false
	}
	for k := range s.dims {
		if s.dims[k] != o.dims[k] {
			return false
		}
	}
	return true
}

// Flatten maps a possibly partial index to its row-major offset using
// Horner's scheme. Omitted trailing indices count as 0 and indices beyond
// the rank are ignored. Nothing is bounds checked.
func (s Shape) Flatten(idx []int) int {
	off := 0
	for j, n := range s.dims {
		off *= n
		if j < len(idx) {
			off += idx[j]
		}
	}
	return off
}

// Offset is the checked form of Flatten.
func (s Shape) Offset(idx []int) (int, error) {
	if err := s.Check(idx); err != nil {
		return 0, err
	}
	return s.Flatten(idx), nil
}

// Check validates a possibly partial index against the shape.
func (s Shape) Check(idx []int) error {
	if s.size == 0 {
		return errors.Wrap(ErrIndexOutOfRange, "shape has no slots")
	}
	if len(idx) > len(s.dims) {
		return errors.Wrapf(ErrTooManyIndices, "%d indices for %d dimensions", len(idx), len(s.dims))
	}
	for j, i := range idx {
		if i < 0 || i >= s.dims[j] {
			return errors.Wrapf(ErrIndexOutOfRange, "index %d is %d, dimension size is %d", j+1, i, s.dims[j])
		}
	}
	return nil
}

// BlockLen returns the number of slots addressed by a partial index of
// length k: the product of the sizes of dimensions k and up.
func (s Shape) BlockLen(k int) int {
	n := 1
	for _, d := range s.dims[k:] {
		n *= d
	}
	return n
}

// Block returns the contiguous slot range [start, start+n) addressed by a
// partial index. An empty index addresses every slot; a full index
// addresses one.
func (s Shape) Block(idx []int) (start, n int, err error) {
	start, err = s.Offset(idx)
	if err != nil {
		return 0, 0, err
	}
	return start, s.BlockLen(len(idx)), nil
}

// Strides returns, per dimension, the offset distance between neighbours
// along that dimension.
func (s Shape) Strides() []int {
	return strides(s.dims)
}

func strides(dims []int) []int {
	if len(dims) == 0 {
		return nil
	}
	out := make([]int, len(dims))
	out[len(dims)-1] = 1
	for d := len(dims) - 2; d >= 0; d-- {
		out[d] = out[d+1] * dims[d+1]
	}
	return out
}

// Unravel is the inverse of Flatten for a full index. off must lie in
// [0, Volume()).
func (s Shape) Unravel(off int) []int {
	idx := make([]int, len(s.dims))
	s.unravelInto(off, idx)
	return idx
}

func (s Shape) unravelInto(off int, idx []int) {
	for d := len(s.dims) - 1; d >= 0; d-- {
		idx[d] = off % s.dims[d]
		off /= s.dims[d]
	}
}

// Next advances a full index to its row-major successor in place and
// reports false once the index wraps around past the last slot.
func (s Shape) Next(idx []int) bool {
	for d := len(s.dims) - 1; d >= 0; d-- {
		idx[d]++
		if idx[d] < s.dims[d] {
			return true
		}
		idx[d] = 0
	}
	return false
}

// String formats the shape as "(4, 2, 2)".
func (s Shape) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for k, d := range s.dims {
		if k > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Itoa(d))
	}
	b.WriteByte(')')
	return b.String()
}
