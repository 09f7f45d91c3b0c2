package question

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Value holds a JSON scalar verbatim for display. Strings render without
// quotes, numbers and booleans as their JSON text, and null or a missing
// field as the empty string.
type Value struct {
	raw json.RawMessage
}

// String returns the display form of v.
func (v Value) String() string {
	if len(v.raw) == 0 || bytes.Equal(v.raw, []byte("null")) {
		return ""
	}
	if v.raw[0] == '"' {
		var s string
		if err := json.Unmarshal(v.raw, &s); err == nil {
			return s
		}
	}
	return string(v.raw)
}

// IsZero reports whether v is null or was never set.
func (v Value) IsZero() bool {
	return len(v.raw) == 0 || bytes.Equal(v.raw, []byte("null"))
}

// MarshalJSON writes the held JSON text unchanged, or null when unset.
func (v Value) MarshalJSON() ([]byte, error) {
	if len(v.raw) == 0 {
		return []byte("null"), nil
	}
	return v.raw, nil
}

// UnmarshalJSON accepts strings, numbers, booleans and null. Objects and
// arrays are rejected so that a shape mismatch surfaces as a decode error.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty JSON value")
	}
	switch data[0] {
	case '{', '[':
		return fmt.Errorf("expected JSON scalar, got %s", kindOf(data[0]))
	}
	if !json.Valid(data) {
		return fmt.Errorf("invalid JSON value %q", data)
	}
	v.raw = append(v.raw[:0], data...)
	return nil
}

// StringValue returns a Value holding s as a JSON string.
func StringValue(s string) Value {
	b, _ := json.Marshal(s)
	return Value{raw: b}
}

// RawValue returns a Value holding literal JSON text such as 42 or true.
func RawValue(text string) Value {
	return Value{raw: json.RawMessage(text)}
}

func kindOf(c byte) string {
	if c == '{' {
		return "object"
	}
	return "array"
}
