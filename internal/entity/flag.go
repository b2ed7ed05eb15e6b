package entity

import (
	"bytes"
	"encoding/json"
	"strings"
)

var jsonTrue = []byte("true")

// Flag holds a boolean-like column exactly as the store returned it (JSON boolean, string or null).
type Flag json.RawMessage

// BoolFlag builds a flag holding a JSON boolean.
func BoolFlag(v bool) Flag {
	if v {
		return Flag("true")
	}
	return Flag("false")
}

// StringFlag builds a flag holding a JSON string.
func StringFlag(v string) Flag {
	raw, _ := json.Marshal(v)
	return Flag(raw)
}

// StrictTrue reports whether the flag is the JSON boolean true. The string "true" does not count.
func (f Flag) StrictTrue() bool {
	return bytes.Equal(bytes.TrimSpace(f), jsonTrue)
}

// Truthy reports whether the flag is the JSON boolean true or the string "true" in any case.
func (f Flag) Truthy() bool {
	if f.StrictTrue() {
		return true
	}
	var s string
	if err := json.Unmarshal(f, &s); err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(s), "true")
}

// IsNull reports whether the flag is absent or JSON null.
func (f Flag) IsNull() bool {
	trimmed := bytes.TrimSpace(f)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// MarshalJSON emits the stored value verbatim.
func (f Flag) MarshalJSON() ([]byte, error) {
	if f.IsNull() {
		return []byte("null"), nil
	}
	return []byte(f), nil
}

// UnmarshalJSON keeps a copy of the raw value.
func (f *Flag) UnmarshalJSON(data []byte) error {
	*f = append((*f)[:0], data...)
	return nil
}
