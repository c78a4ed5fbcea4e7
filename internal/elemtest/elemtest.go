// Package elemtest provides element types that audit their own lifecycle,
// for testing container algorithms.
package elemtest

import "github.com/cockroachdb/errors"

// ErrCloneFailed is returned by Clone once a ledger's failure point is hit.
var ErrCloneFailed = errors.New("clone failed")

// Ledger records every construction and destruction of the resources it
// issued.
type Ledger struct {
	// FailAt makes the FailAt-th call to Clone fail. Zero disables failures.
	FailAt int

	Clones    int
	Destroyed int
	Faults    int // destroys of an element that was not live

	next uint64
	live map[uint64]bool
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{live: make(map[uint64]bool)}
}

// Live returns the number of resources constructed and not yet destroyed.
func (l *Ledger) Live() int {
	return len(l.live)
}

func (l *Ledger) issue() uint64 {
	l.next++
	l.live[l.next] = true
	return l.next
}

// New constructs a resource carrying value v.
func (l *Ledger) New(v int) Resource {
	return Resource{V: v, token: l.issue(), ledger: l}
}

// Pinned constructs a pinned resource carrying value v.
func (l *Ledger) Pinned(v int) PinnedResource {
	return PinnedResource{l.New(v)}
}

// Resource is an element with an explicit destructor and a fallible copy.
// The zero value is an empty slot and is ignored by the ledger.
type Resource struct {
	V      int
	token  uint64
	ledger *Ledger
}

// Clone issues a new resource with the same value.
func (r Resource) Clone() (Resource, error) {
	if r.ledger == nil {
		return r, nil
	}
	l := r.ledger
	l.Clones++
	if l.FailAt > 0 && l.Clones == l.FailAt {
		return Resource{}, ErrCloneFailed
	}
	return Resource{V: r.V, token: l.issue(), ledger: l}, nil
}

// Destroy retires the resource.
func (r *Resource) Destroy() {
	if r.ledger == nil {
		return
	}
	l := r.ledger
	if !l.live[r.token] {
		l.Faults++
		return
	}
	delete(l.live, r.token)
	l.Destroyed++
}

// PinnedResource is a Resource that must not be moved between slots.
type PinnedResource struct {
	Resource
}

// Pinned marks the type as address-sensitive.
func (PinnedResource) Pinned() {}

// Clone issues a new pinned resource with the same value.
func (p PinnedResource) Clone() (PinnedResource, error) {
	r, err := p.Resource.Clone()
	return PinnedResource{r}, err
}

// Cell is a pinned element type with trivial destruction.
type Cell struct {
	V int
}

// Pinned marks the type as address-sensitive.
func (Cell) Pinned() {}

// Values extracts V from a slice of resources.
func Values[R interface{ Value() int }](rs []R) []int {
	out := make([]int, len(rs))
	for i, r := range rs {
		out[i] = r.Value()
	}
	return out
}

// Value returns the carried value.
func (r Resource) Value() int { return r.V }

// Value returns the carried value.
func (c Cell) Value() int { return c.V }
