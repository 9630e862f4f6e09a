package simplecms

import (
	"bytes"
	"encoding/json"
)

// Optional tracks whether a field was supplied by the caller, which a plain
// value cannot express:
//   - Set=false: field absent (or JSON null), leave the stored value alone
//   - Set=true: field present with Value, which may be the zero value
type Optional[T any] struct {
	Set   bool
	Value T
}

// Some returns a supplied Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// UnmarshalJSON implements json.Unmarshaler.
// It is only called when the key is present in the JSON object.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		*o = Optional[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Set = true
	o.Value = v
	return nil
}

// MarshalJSON writes Value, or null when the field was not supplied.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
