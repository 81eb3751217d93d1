// Package relation reconciles the options of a relationship picker with the
// value currently bound to the entity being edited.
//
// Every edit form that lets a user pick related entities (a single device for a
// characteristic, several add-ons for a device) shows a list of candidates
// fetched from a listing query. That list may lag behind the record under edit:
// a referenced entity may have been paginated out, renamed or soft deleted.
// Merge guarantees the current selection is always part of the options so the
// control never silently drops it.
//
// Example usage:
//
//	options := relation.Merge[int64](fetched, device.AddOns)
//	same := relation.Equal[int64](options[0], device.AddOns[0])
package relation

import "reflect"

// Identifier is the set of types an entity identifier may have.
type Identifier interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~string
}

// Ref is any value exposing an identifier. Identity is defined solely by the
// identifier; every other attribute is display data.
type Ref[ID Identifier] interface {
	RefID() ID
}

// Merge returns existing followed by the candidates not already present,
// deduplicated by identifier.
//
// When an identifier appears in both inputs the existing value is kept, since
// it carries whatever shape is already bound to the form. Nil entries contribute
// nothing. The result is never nil and neither input is modified.
func Merge[ID Identifier, T Ref[ID]](candidates, existing []T) []T {
	return MergeBy(candidates, existing, Key[ID, T])
}

// MergeBy is Merge for values that do not implement Ref. key reports the
// identifier of a value and false when the value should be skipped.
func MergeBy[T any, K comparable](candidates, existing []T, key func(T) (K, bool)) []T {
	out := make([]T, 0, len(existing)+len(candidates))
	seen := make(map[K]struct{}, len(existing)+len(candidates))

	add := func(items []T) {
		for _, item := range items {
			k, ok := key(item)
			if !ok {
				continue
			}
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, item)
		}
	}

	add(existing)
	add(candidates)
	return out
}

// Key returns the identifier of v, or false when v is nil.
func Key[ID Identifier, T Ref[ID]](v T) (ID, bool) {
	if absent(v) {
		var zero ID
		return zero, false
	}
	return v.RefID(), true
}

// Equal reports whether a and b reference the same entity. Two nil references
// are equal; a nil and a non-nil reference never are.
func Equal[ID Identifier, T Ref[ID]](a, b T) bool {
	na, nb := absent(a), absent(b)
	if na || nb {
		return na && nb
	}
	return a.RefID() == b.RefID()
}

// Comparator returns Equal instantiated for T. The returned function has no
// state, so every call hands out the same comparison.
func Comparator[ID Identifier, T Ref[ID]]() func(a, b T) bool {
	return Equal[ID, T]
}

// One wraps a to-one relationship value so it can be merged like a to-many one.
// A nil value yields an empty slice.
func One[T any](v T) []T {
	if absent(v) {
		return []T{}
	}
	return []T{v}
}

// Find returns the first item whose identifier is id.
func Find[ID Identifier, T Ref[ID]](items []T, id ID) (T, bool) {
	for _, item := range items {
		if k, ok := Key[ID](item); ok && k == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Contains reports whether items holds an entry with identifier id.
func Contains[ID Identifier, T Ref[ID]](items []T, id ID) bool {
	_, ok := Find[ID](items, id)
	return ok
}

// IDs returns the identifiers of items in order, skipping nil entries.
func IDs[ID Identifier, T Ref[ID]](items []T) []ID {
	ids := make([]ID, 0, len(items))
	for _, item := range items {
		if k, ok := Key[ID](item); ok {
			ids = append(ids, k)
		}
	}
	return ids
}

// absent reports whether v is a nil pointer, interface, map, slice, func or chan.
func absent[T any](v T) bool {
	a := any(v)
	if a == nil {
		return true
	}
	switch rv := reflect.ValueOf(a); rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
