package request

import (
	"bytes"
	"encoding/json"
)

// Optional is a JSON patch field that distinguishes "absent" from "set to null".
// A field left out of the body has Set=false; an explicit null has Set=true and
// Valid=false; any other value has both true.
type Optional[T any] struct {
	Set   bool
	Valid bool
	Value T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, []byte("null")) {
		o.Valid = false
		var zero T
		o.Value = zero
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

// Ptr returns a pointer to the value, or nil when the field was null.
func (o Optional[T]) Ptr() *T {
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}
