package service

import (
	"bytes"
	"encoding/json"
)

// Field is one key of a partial update payload. Set is true when the key was
// present in the JSON document; Null is true when it was present as null.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	return json.Unmarshal(data, &f.Value)
}

// Of builds a Field holding v, as if the key had been sent.
func Of[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// merger applies update fields to a row and collects null assignments to
// required columns.
type merger struct {
	entity string
	errs   []string
}

func required[T any](m *merger, name string, f Field[T], dst *T) {
	if !f.Set {
		return
	}
	if f.Null {
		m.errs = append(m.errs, name+" must not be null")
		return
	}
	*dst = f.Value
}

func optional[T any](f Field[T], dst **T) {
	if !f.Set {
		return
	}
	if f.Null {
		*dst = nil
		return
	}
	v := f.Value
	*dst = &v
}

func (m *merger) err() error {
	if len(m.errs) == 0 {
		return nil
	}
	return &ValidationError{Entity: m.entity, Fields: m.errs}
}
