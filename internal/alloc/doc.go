// Package alloc provides slot buffers and allocation accounting for containers.
//
// Containers separate two concerns that Go normally fuses: obtaining memory
// for element slots, and bringing elements to life inside those slots. This
// package handles the first one only.
//
// # Buffer
//
// A [Buffer] owns a fixed number of slots of one element type. It never
// constructs, copies or destroys elements; the owning container decides which
// slots are live and pairs every construction with exactly one destruction.
// Buffers are sized once and replaced, never grown in place:
//
//	buf := alloc.NewBuffer[int](16, tracker, "vector")
//	slots := buf.Slots()
//	// ... construct elements into slots ...
//	buf.Release()
//
// # Tracker
//
// The [Tracker] type records allocations and releases:
//
//   - Allocation tracking: every buffer gets an ID, a size in bytes and an
//     optional tag.
//   - Statistics: totals, live counts and the largest allocation.
//   - Fault detection: releasing a buffer twice, or releasing an unknown ID,
//     is recorded and surfaced by [Tracker.Validate].
//   - Leak detection: [Tracker.CheckReleased] fails while buffers are live.
//
// Buffers created with a nil tracker are simply untracked.
//
// # Metrics
//
// [Collector] adapts a tracker to the Prometheus collector interface:
//
//	reg := prometheus.NewRegistry()
//	reg.MustRegister(alloc.NewCollector(tracker, "containers"))
package alloc
