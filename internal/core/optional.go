package core

import (
	"bytes"
	"encoding/json"
)

// Optional is a presence-aware value for merge-patch requests.
//
// A field of this type distinguishes three states when decoded from JSON:
//   - key absent:   Set == false
//   - key is null:  Set == true, Null == true
//   - key has value: Set == true, Null == false, Value holds it
//
// It plays the same role for request bodies that pgtype's Valid flag plays
// for database columns.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Null returns an Optional that was explicitly set to null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// Present reports whether the field was supplied with a non-null value.
func (o Optional[T]) Present() bool {
	return o.Set && !o.Null
}

// Ptr returns a pointer to the value, or nil when the field is absent or null.
func (o Optional[T]) Ptr() *T {
	if !o.Present() {
		return nil
	}
	v := o.Value
	return &v
}

// UnmarshalJSON is only invoked for keys that appear in the document, which
// is what makes Set meaningful.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		o.Null = true
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}
