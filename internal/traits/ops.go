package traits

import "github.com/cockroachdb/errors"

// Ops is the algorithm family selected for one element type. Every method
// delegates to the variant chosen by For, so the bodies never inspect the
// traits again.
//
// Slices passed to Ops are raw slot ranges: callers guarantee which slots
// are live.
type Ops[T any] struct {
	traits   Traits
	destroy  destroyPolicy[T]
	relocate relocatePolicy[T]
}

// For returns the algorithms for T.
func For[T any]() Ops[T] {
	tr := Of[T]()
	o := Ops[T]{traits: tr}
	if tr.TriviallyDestructible {
		o.destroy = trivialDestroy[T]{}
	} else {
		o.destroy = managedDestroy[T]{}
	}
	if tr.NothrowRelocatable {
		o.relocate = moveRelocate[T]{}
	} else {
		o.relocate = copyRelocate[T]{}
	}
	return o
}

// Traits returns the traits the algorithms were selected from.
func (o Ops[T]) Traits() Traits {
	return o.traits
}

// Destroy ends the life of the element at p.
func (o Ops[T]) Destroy(p *T) {
	o.destroy.destroy(p)
}

// DestroyAll ends the life of every element in live.
func (o Ops[T]) DestroyAll(live []T) {
	o.destroy.destroyAll(live)
}

// ResetAll re-default-constructs every slot in s, destroying the previous
// values first.
func (o Ops[T]) ResetAll(s []T) {
	o.destroy.reset(s)
}

// Copy duplicates the element at p, through Clone when T implements Cloner.
func (o Ops[T]) Copy(p *T) (T, error) {
	return copyOf(p)
}

// CopyAll copy constructs src into the uninitialized slots of dst. On
// failure the copies already made are destroyed, so dst holds no live
// element.
func (o Ops[T]) CopyAll(dst, src []T) error {
	if len(dst) < len(src) {
		return errors.AssertionFailedf("copying %d elements into %d slots", len(src), len(dst))
	}
	return copyAll(dst, src, o.destroy)
}

// Relocate transfers the live elements of src into the uninitialized slots
// of dst. On failure dst holds no live element and src is untouched.
func (o Ops[T]) Relocate(dst, src []T) error {
	if len(dst) < len(src) {
		return errors.AssertionFailedf("relocating %d elements into %d slots", len(src), len(dst))
	}
	return o.relocate.relocate(dst[:len(src)], src, o.destroy)
}

// RelocateOne transfers the element at src into the uninitialized slot dst.
func (o Ops[T]) RelocateOne(dst, src *T) error {
	return o.relocate.relocateOne(dst, src, o.destroy)
}

// ShiftLeft destroys s[i] and closes the gap, so s[:n-1] are live
// afterwards.
func (o Ops[T]) ShiftLeft(s []T, i, n int) error {
	return o.relocate.shiftLeft(s, i, n, o.destroy)
}

// ShiftRight opens an uninitialized hole at s[i], moving s[i:n] one slot to
// the right. s must have room for n+1 elements.
func (o Ops[T]) ShiftRight(s []T, i, n int) error {
	return o.relocate.shiftRight(s, i, n, o.destroy)
}

// Insert places v at s[i], moving s[i:n] one slot to the right. On failure
// the slots are unchanged and v is not consumed.
func (o Ops[T]) Insert(s []T, i, n int, v T) error {
	if err := o.ShiftRight(s, i, n); err != nil {
		return err
	}
	s[i] = v
	return nil
}

// PopBack destroys the last live element of live.
func (o Ops[T]) PopBack(live []T) {
	o.destroy.destroy(&live[len(live)-1])
}

// Replace destroys the element at p and constructs v in its place.
func (o Ops[T]) Replace(p *T, v T) {
	o.destroy.destroy(p)
	*p = v
}

// SwapItems exchanges s[a] and s[b]. On failure both are unchanged.
func (o Ops[T]) SwapItems(s []T, a, b int) error {
	if a == b {
		return nil
	}
	return o.relocate.swap(s, a, b, o.destroy)
}
