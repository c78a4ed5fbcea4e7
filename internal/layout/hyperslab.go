package layout

import "github.com/cockroachdb/errors"

// CopyFunc copies len(src) elements into dst.
type CopyFunc[T any] func(dst, src []T) error

// Hyperslab gathers the rectangular region of src selected by start and
// count into dst, which receives the region in row-major order. src is laid
// out by s. The region is copied one innermost row at a time through
// copyRow, or with the builtin copy when copyRow is nil. Rows are written
// to dst in increasing order, so after a failure the rows already copied
// form a prefix of dst.
func Hyperslab[T any](dst, src []T, s Shape, start, count []int, copyRow CopyFunc[T]) error {
	n, err := CheckSlab(s, start, count)
	if err != nil {
		return err
	}
	if len(dst) < n {
		return errors.AssertionFailedf("hyperslab of %d elements into %d slots", n, len(dst))
	}
	if copyRow == nil {
		copyRow = plainCopy[T]
	}
	return walkSlab(s, start, count, func(big, small, row int) error {
		return copyRow(dst[small:small+row], src[big:big+row])
	})
}

// Scatter is the inverse of Hyperslab: it writes src, holding a region in
// row-major order, into the region of dst selected by start and count.
func Scatter[T any](dst, src []T, s Shape, start, count []int, copyRow CopyFunc[T]) error {
	n, err := CheckSlab(s, start, count)
	if err != nil {
		return err
	}
	if len(src) < n {
		return errors.AssertionFailedf("scatter of %d elements from %d slots", n, len(src))
	}
	if copyRow == nil {
		copyRow = plainCopy[T]
	}
	return walkSlab(s, start, count, func(big, small, row int) error {
		return copyRow(dst[big:big+row], src[small:small+row])
	})
}

// SlabLen returns the number of elements in a region of the given counts.
func SlabLen(count []int) int {
	n := 1
	for _, c := range count {
		n *= c
	}
	return n
}

func plainCopy[T any](dst, src []T) error {
	copy(dst, src)
	return nil
}

// CheckSlab validates a region against s and returns its element count.
func CheckSlab(s Shape, start, count []int) (int, error) {
	ndims := s.Rank()
	if ndims == 0 {
		return 0, errors.Wrap(ErrDimensionCount, "hyperslab of a shape without dimensions")
	}
	if len(start) != ndims || len(count) != ndims {
		return 0, errors.Wrapf(ErrTooManyIndices, "start and count must have %d dimensions, got %d and %d",
			ndims, len(start), len(count))
	}
	for d := 0; d < ndims; d++ {
		if start[d] < 0 || count[d] < 0 || start[d]+count[d] > s.dims[d] {
			return 0, errors.Wrapf(ErrIndexOutOfRange, "slab out of bounds: dimension %d, start=%d, count=%d, size=%d",
				d+1, start[d], count[d], s.dims[d])
		}
	}
	return SlabLen(count), nil
}

// walkSlab calls row once per innermost row of the region, with the row's
// offset in the full shape, its offset in the region, and its length.
func walkSlab(s Shape, start, count []int, row func(big, small, n int) error) error {
	if SlabLen(count) == 0 {
		return nil
	}
	return walkSlabRecursive(start, count, s.Strides(), strides(count), 0, 0, 0, row)
}

// walkSlabRecursive iterates the outer dimensions and hands the innermost
// dimension, which is contiguous in both layouts, to row as one block.
func walkSlabRecursive(
	start, count []int,
	bigStrides, smallStrides []int,
	bigOffset, smallOffset int,
	dim int,
	row func(big, small, n int) error,
) error {
	if dim == len(count)-1 {
		return row(bigOffset+start[dim], smallOffset, count[dim])
	}

	for i := 0; i < count[dim]; i++ {
		err := walkSlabRecursive(
			start, count,
			bigStrides, smallStrides,
			bigOffset+(start[dim]+i)*bigStrides[dim],
			smallOffset+i*smallStrides[dim],
			dim+1,
			row,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
