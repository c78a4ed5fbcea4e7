package traits

// destroyPolicy tears down elements living in slots.
type destroyPolicy[T any] interface {
	// destroy ends the life of the element at p.
	destroy(p *T)

	// destroyAll ends the life of every element in live.
	destroyAll(live []T)

	// vacate drops a slot whose value now lives elsewhere. It must not run
	// the Destroy hook and may leave the old bits behind.
	vacate(p *T)

	// reset re-default-constructs every slot in s.
	reset(s []T)
}

// trivialDestroy serves types whose destruction is a no-op.
type trivialDestroy[T any] struct{}

func (trivialDestroy[T]) destroy(*T) {}
func (trivialDestroy[T]) destroyAll([]T) {}
func (trivialDestroy[T]) vacate(*T) {}
func (trivialDestroy[T]) reset(s []T) { clear(s) }

// managedDestroy runs the Destroy hook, if any, and zeroes the slot so the
// garbage collector can reclaim whatever the element referenced.
type managedDestroy[T any] struct{}

func (managedDestroy[T]) destroy(p *T) {
	if d, ok := any(p).(Destroyer); ok {
		d.Destroy()
	}
	var zero T
	*p = zero
}

func (m managedDestroy[T]) destroyAll(live []T) {
	for i := range live {
		m.destroy(&live[i])
	}
}

func (managedDestroy[T]) vacate(p *T) {
	var zero T
	*p = zero
}

func (m managedDestroy[T]) reset(s []T) {
	m.destroyAll(s)
}
