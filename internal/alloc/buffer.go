package alloc

import "unsafe"

// Buffer owns a fixed number of element slots. It manages memory only:
// which slots hold live elements is tracked by the owner, and the buffer
// never constructs or destroys elements on its own. Fresh slots hold the
// zero value of T, which owners treat as uninitialized.
type Buffer[T any] struct {
	slots    []T
	tracker  *Tracker
	id       uint64
	released bool
}

// NewBuffer allocates n slots. When t is non-nil the allocation is recorded
// under tag.
func NewBuffer[T any](n int, t *Tracker, tag string) *Buffer[T] {
	if n < 0 {
		panic("negative buffer size")
	}
	b := &Buffer[T]{
		slots:   make([]T, n),
		tracker: t,
	}
	if t != nil {
		b.id = t.Alloc(SlotBytes[T](n), tag)
	}
	return b
}

// SlotBytes returns the number of bytes n slots of T occupy.
func SlotBytes[T any](n int) uint64 {
	var zero T
	return uint64(unsafe.Sizeof(zero)) * uint64(n)
}

// Slots returns every slot of the buffer, live or not.
func (b *Buffer[T]) Slots() []T {
	return b.slots
}

// Len returns the slot count.
func (b *Buffer[T]) Len() int {
	return len(b.slots)
}

// Bytes returns the size of the buffer in bytes.
func (b *Buffer[T]) Bytes() uint64 {
	return SlotBytes[T](len(b.slots))
}

// Released reports whether Release has been called.
func (b *Buffer[T]) Released() bool {
	return b.released
}

// Release drops the slots. Elements still living in them are not destroyed;
// the owner must have torn them down first. Calling Release twice is
// reported to the tracker.
func (b *Buffer[T]) Release() {
	if b.tracker != nil {
		b.tracker.Free(b.id)
	}
	b.slots = nil
	b.released = true
}
