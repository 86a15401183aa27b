// Package field provides an explicit presence/absence wrapper for partial
// update payloads. A zero Optional means the field was absent from the
// request; a present field carries Set=true even when the value is null's
// zero value. Patches are applied with explicit merge functions, never by
// reflection.
package field

import "encoding/json"

// Optional wraps a value together with a presence flag.
type Optional[T any] struct {
	Value T
	Set   bool
}

// Some returns a present Optional carrying v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// Get returns the value and whether it was present.
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Set
}

// UnmarshalJSON marks the field as present. It is only invoked by
// encoding/json when the key exists in the payload, which is exactly the
// presence signal we want.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Set = true
	return nil
}

// MarshalJSON emits the wrapped value; absent fields marshal as null.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Value)
}
