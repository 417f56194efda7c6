package models

import "encoding/json"

// Ref is a relation to another record. It either carries only the related
// record's identifier or the resolved record itself, and callers have to
// branch on Resolved to find out which.
type Ref[T any] struct {
	id    string
	value *T
}

// RefTo returns an unresolved reference.
func RefTo[T any](id string) Ref[T] {
	return Ref[T]{id: id}
}

// ResolvedRef returns a reference that carries the related record.
func ResolvedRef[T any](id string, value *T) Ref[T] {
	return Ref[T]{id: id, value: value}
}

func (r Ref[T]) ID() string {
	return r.id
}

func (r Ref[T]) IsZero() bool {
	return r.id == ""
}

// Resolved returns the related record when it was loaded.
func (r Ref[T]) Resolved() (*T, bool) {
	return r.value, r.value != nil
}

// Resolve returns a copy of r pointing at value. A nil value keeps the
// reference unresolved.
func (r Ref[T]) Resolve(value *T) Ref[T] {
	return Ref[T]{id: r.id, value: value}
}

// MarshalJSON writes the record when resolved, the bare id otherwise, and
// null for an empty reference.
func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.value != nil {
		return json.Marshal(r.value)
	}
	if r.id == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.id)
}
