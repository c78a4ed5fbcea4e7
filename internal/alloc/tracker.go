// Package alloc provides slot buffers and allocation accounting for containers.
package alloc

import (
	"fmt"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
)

// Tracker records buffer allocations and releases made by containers.
// A single tracker may observe containers owned by different goroutines,
// so unlike the containers themselves it is safe for concurrent use.
type Tracker struct {
	mu sync.Mutex

	// nextID is handed out to the next allocation. IDs start at 1 so the
	// zero ID always means "untracked".
	nextID uint64

	// allocations tracks every allocation made, in order
	allocations []Allocation

	// index maps an allocation ID to its position in allocations
	index map[uint64]int

	// faults collects misuse such as releasing a buffer twice
	faults []error

	stats Stats
}

// Allocation represents a single buffer allocation.
type Allocation struct {
	ID       uint64
	Size     uint64 // bytes
	Tag      string // Optional tag for debugging
	Released bool
}

// Stats contains allocation statistics.
type Stats struct {
	TotalAllocations uint64 // Number of buffers allocated
	TotalReleases    uint64 // Number of buffers released
	TotalBytesAlloc  uint64 // Total bytes allocated
	TotalBytesFree   uint64 // Total bytes released
	LargestAlloc     uint64 // Largest single allocation
	LiveBuffers      uint64 // Buffers allocated but not yet released
	LiveBytes        uint64 // Bytes held by live buffers
}

// String renders the statistics with human readable byte counts.
func (s Stats) String() string {
	return fmt.Sprintf("%d allocs (%s), %d releases (%s), %d live (%s), largest %s",
		s.TotalAllocations, humanize.IBytes(s.TotalBytesAlloc),
		s.TotalReleases, humanize.IBytes(s.TotalBytesFree),
		s.LiveBuffers, humanize.IBytes(s.LiveBytes),
		humanize.IBytes(s.LargestAlloc))
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{
		nextID: 1,
		index:  make(map[uint64]int),
	}
}

// Alloc records an allocation of size bytes and returns its ID.
func (t *Tracker) Alloc(size uint64, tag string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.nextID
	t.nextID++

	t.index[id] = len(t.allocations)
	t.allocations = append(t.allocations, Allocation{
		ID:   id,
		Size: size,
		Tag:  tag,
	})

	// Update stats
	t.stats.TotalAllocations++
	t.stats.TotalBytesAlloc += size
	t.stats.LiveBuffers++
	t.stats.LiveBytes += size
	if size > t.stats.LargestAlloc {
		t.stats.LargestAlloc = size
	}

	return id
}

// Free records the release of the allocation with the given ID.
// Releasing an unknown ID or releasing twice is recorded as a fault and
// reported by Validate.
func (t *Tracker) Free(id uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	pos, ok := t.index[id]
	if !ok {
		t.faults = append(t.faults, errors.AssertionFailedf("release of unknown allocation %d", id))
		return
	}
	a := &t.allocations[pos]
	if a.Released {
		t.faults = append(t.faults, errors.AssertionFailedf("allocation %d (%s) released twice", id, a.Tag))
		return
	}
	a.Released = true

	t.stats.TotalReleases++
	t.stats.TotalBytesFree += a.Size
	t.stats.LiveBuffers--
	t.stats.LiveBytes -= a.Size
}

// Stats returns a copy of the allocation statistics.
func (t *Tracker) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}

// Allocations returns a copy of all allocations made (for debugging).
func (t *Tracker) Allocations() []Allocation {
	t.mu.Lock()
	defer t.mu.Unlock()
	result := make([]Allocation, len(t.allocations))
	copy(result, t.allocations)
	return result
}

// Live returns the allocations that have not been released yet.
func (t *Tracker) Live() []Allocation {
	t.mu.Lock()
	defer t.mu.Unlock()
	var result []Allocation
	for _, a := range t.allocations {
		if !a.Released {
			result = append(result, a)
		}
	}
	return result
}

// Validate reports every fault recorded so far.
func (t *Tracker) Validate() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var err error
	for _, f := range t.faults {
		err = errors.CombineErrors(err, f)
	}
	return err
}

// CheckReleased returns an error naming the first live allocation, if any.
// Callers use it after tearing down their containers to detect leaks.
func (t *Tracker) CheckReleased() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stats.LiveBuffers == 0 {
		return nil
	}
	for _, a := range t.allocations {
		if !a.Released {
			return errors.Newf("%d buffers still live, first is allocation %d (%s, %s)",
				t.stats.LiveBuffers, a.ID, a.Tag, humanize.IBytes(a.Size))
		}
	}
	return nil
}

// Reset resets the tracker to its initial state.
// This is primarily useful for testing.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextID = 1
	t.allocations = nil
	t.index = make(map[uint64]int)
	t.faults = nil
	t.stats = Stats{}
}
