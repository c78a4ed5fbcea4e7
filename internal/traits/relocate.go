package traits

import "github.com/cockroachdb/errors"

// relocatePolicy moves elements between slots.
type relocatePolicy[T any] interface {
	// relocate transfers src[i] into dst[i] for every i. On failure dst
	// holds no live element and src is untouched.
	relocate(dst, src []T, d destroyPolicy[T]) error

	// relocateOne transfers *src into the uninitialized slot dst.
	relocateOne(dst, src *T, d destroyPolicy[T]) error

	// shiftLeft destroys s[i] and moves s[i+1:n] one slot to the left.
	shiftLeft(s []T, i, n int, d destroyPolicy[T]) error

	// shiftRight moves s[i:n] one slot to the right, leaving s[i] as a
	// hole ready for construction. s must have room for n+1 elements.
	shiftRight(s []T, i, n int, d destroyPolicy[T]) error

	// swap exchanges s[a] and s[b].
	swap(s []T, a, b int, d destroyPolicy[T]) error
}

// moveRelocate serves types whose move cannot fail: values are assigned
// to their new slot and the old slot is vacated.
type moveRelocate[T any] struct{}

func (moveRelocate[T]) relocate(dst, src []T, d destroyPolicy[T]) error {
	copy(dst, src)
	for i := range src {
		d.vacate(&src[i])
	}
	return nil
}

func (moveRelocate[T]) relocateOne(dst, src *T, d destroyPolicy[T]) error {
	*dst = *src
	d.vacate(src)
	return nil
}

func (moveRelocate[T]) shiftLeft(s []T, i, n int, d destroyPolicy[T]) error {
	d.destroy(&s[i])
	copy(s[i:n-1], s[i+1:n])
	d.vacate(&s[n-1])
	return nil
}

func (moveRelocate[T]) shiftRight(s []T, i, n int, d destroyPolicy[T]) error {
	copy(s[i+1:n+1], s[i:n])
	d.vacate(&s[i])
	return nil
}

func (moveRelocate[T]) swap(s []T, a, b int, _ destroyPolicy[T]) error {
	s[a], s[b] = s[b], s[a]
	return nil
}

// copyRelocate serves pinned types. Every moved element is copy
// constructed first; originals are destroyed only once all copies exist,
// so a failing copy leaves the slots exactly as they were.
type copyRelocate[T any] struct{}

func (copyRelocate[T]) relocate(dst, src []T, d destroyPolicy[T]) error {
	if err := copyAll(dst, src, d); err != nil {
		return err
	}
	d.destroyAll(src)
	return nil
}

func (copyRelocate[T]) relocateOne(dst, src *T, d destroyPolicy[T]) error {
	v, err := copyOf(src)
	if err != nil {
		return err
	}
	*dst = v
	d.destroy(src)
	return nil
}

func (copyRelocate[T]) shiftLeft(s []T, i, n int, d destroyPolicy[T]) error {
	staged := make([]T, n-i-1)
	if err := copyAll(staged, s[i+1:n], d); err != nil {
		return err
	}
	d.destroyAll(s[i:n])
	copy(s[i:n-1], staged)
	d.vacate(&s[n-1])
	return nil
}

func (copyRelocate[T]) shiftRight(s []T, i, n int, d destroyPolicy[T]) error {
	staged := make([]T, n-i)
	if err := copyAll(staged, s[i:n], d); err != nil {
		return err
	}
	d.destroyAll(s[i:n])
	copy(s[i+1:n+1], staged)
	d.vacate(&s[i])
	return nil
}

func (copyRelocate[T]) swap(s []T, a, b int, d destroyPolicy[T]) error {
	ta, err := copyOf(&s[a])
	if err != nil {
		return errors.Wrapf(err, "copying element %d", a)
	}
	tb, err := copyOf(&s[b])
	if err != nil {
		d.destroy(&ta)
		return errors.Wrapf(err, "copying element %d", b)
	}
	d.destroy(&s[a])
	s[a] = tb
	d.destroy(&s[b])
	s[b] = ta
	return nil
}

// copyOf duplicates the element at p.
func copyOf[T any](p *T) (T, error) {
	if c, ok := any(p).(Cloner[T]); ok {
		return c.Clone()
	}
	return *p, nil
}

// copyAll copy constructs src into dst. If a copy fails, the copies made so
// far are destroyed before the error is returned.
func copyAll[T any](dst, src []T, d destroyPolicy[T]) error {
	for i := range src {
		v, err := copyOf(&src[i])
		if err != nil {
			d.destroyAll(dst[:i])
			return errors.Wrapf(err, "copying element %d", i)
		}
		dst[i] = v
	}
	return nil
}
