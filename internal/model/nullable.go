package model

import "encoding/json"

// Nullable distinguishes an absent JSON field from an explicit null in
// partial updates. Set is false when the field was not supplied.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// NullableOf returns a supplied, non-null value.
func NullableOf[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}
