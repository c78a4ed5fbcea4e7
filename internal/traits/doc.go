// Package traits chooses how containers construct, move and destroy their
// elements.
//
// # Element Capabilities
//
// Go has no destructors or copy constructors, so element types opt in to
// richer lifecycles through small interfaces, all checked on the pointer
// type:
//
//   - Destroyer: the container calls Destroy exactly once when it discards
//     an element (erase, pop, overwrite, clear, release).
//   - Cloner: copies go through Clone, which may fail. Types without it are
//     copied by assignment.
//   - Pinned: the value must not change slot. Moves become copy followed by
//     destroy of the source.
//
// # Traits
//
// Of reports two properties per type, computed once and cached:
//
//	TriviallyDestructible  no Destroyer, no pointers in the layout
//	NothrowRelocatable     not Pinned
//
// # Algorithm Variants
//
// For picks one implementation of each algorithm family from the traits.
// The choice is made when a container is built, never inside the loops:
//
//	destroy:  trivial (no-op)          managed (hook, then zero the slot)
//	relocate: move (assign, vacate)    copy (stage copies, destroy originals)
//
// The copy variant stages every copy before it destroys anything, so a
// failing Clone leaves the slots exactly as they were. The move variant
// cannot fail.
//
// Vacating a slot never runs Destroy: its value lives on in another slot.
// The managed variant zeroes the slot so the garbage collector can reclaim
// what it referenced; the trivial variant leaves the old bits in place.
// Slots outside a container's live range are therefore uninitialized
// storage and hold no meaningful value.
package traits
