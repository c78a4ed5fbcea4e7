package layout

import "github.com/cockroachdb/errors"

// Errors reported by shape validation and checked access.
var (
	ErrDimensionCount         = errors.New("dimension count must be at least 1")
	ErrDimensionSize          = errors.New("dimension size must be at least 1")
	ErrTooManySizes           = errors.New("more sizes than dimensions")
	ErrTooManyIndices         = errors.New("more indices than dimensions")
	ErrIndexOutOfRange        = errors.New("index out of range")
	ErrTooManyInitialElements = errors.New("more initial elements than slots")
)
