// Package container provides a growth-amortized vector and a fixed-shape
// N-dimensional array with explicit element lifecycles.
package container

import "github.com/robert-malhotra/go-containers/internal/layout"

// Errors returned by checked operations. Test for them with errors.Is.
var (
	ErrDimensionCount         = layout.ErrDimensionCount
	ErrDimensionSize          = layout.ErrDimensionSize
	ErrTooManySizes           = layout.ErrTooManySizes
	ErrTooManyIndices         = layout.ErrTooManyIndices
	ErrIndexOutOfRange        = layout.ErrIndexOutOfRange
	ErrTooManyInitialElements = layout.ErrTooManyInitialElements
)
