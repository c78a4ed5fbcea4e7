// Package traits selects element algorithms from static properties of the element type.
package traits

import (
	"reflect"
	"sync"
)

// Destroyer is implemented by element types that need explicit teardown
// when a container discards them.
type Destroyer interface {
	Destroy()
}

// Cloner is implemented by element types whose duplication is more than a
// plain assignment and may fail.
type Cloner[T any] interface {
	Clone() (T, error)
}

// Pinned marks address-sensitive element types. Containers never move a
// pinned value to another slot; they copy it and destroy the original.
// Pinned types whose Destroy hook releases resources should implement Cloner.
type Pinned interface {
	Pinned()
}

// Traits describes what an element type requires from the algorithms.
type Traits struct {
	// TriviallyDestructible is set for types without a Destroy hook whose
	// layout holds no references, so dropping them needs no work at all.
	TriviallyDestructible bool

	// NothrowRelocatable is set for types that can be moved between slots
	// with a plain assignment.
	NothrowRelocatable bool

	// Cloneable is set for types implementing Cloner.
	Cloneable bool
}

var cache sync.Map // map[reflect.Type]Traits

// Of returns the traits of T. The answer depends on T only and is computed
// once per type.
func Of[T any]() Traits {
	ptr := reflect.TypeOf((*T)(nil))
	if v, ok := cache.Load(ptr); ok {
		return v.(Traits)
	}

	_, destroyer := any((*T)(nil)).(Destroyer)
	_, pinned := any((*T)(nil)).(Pinned)
	_, cloner := any((*T)(nil)).(Cloner[T])

	tr := Traits{
		TriviallyDestructible: !destroyer && pointerFree(ptr.Elem()),
		NothrowRelocatable:    !pinned,
		Cloneable:             cloner,
	}
	cache.Store(ptr, tr)
	return tr
}

// pointerFree reports whether values of t hold no references the garbage
// collector would follow.
func pointerFree(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		return t.Len() == 0 || pointerFree(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if !pointerFree(t.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		// Pointers, slices, maps, strings, interfaces, channels and funcs
		return false
	}
}
