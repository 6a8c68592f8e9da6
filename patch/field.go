// ABOUTME: Tri-state optional field used by every create and update payload
// ABOUTME: Distinguishes an absent key from an explicit null from a supplied value
package patch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/harperreed/crmcore/crmerr"
)

type state uint8

const (
	absent state = iota
	null
	present
)

// Field holds one payload key. The zero value is absent.
type Field[T any] struct {
	state state
	val   T
}

func Value[T any](v T) Field[T] {
	return Field[T]{state: present, val: v}
}

func Null[T any]() Field[T] {
	return Field[T]{state: null}
}

// IsSet reports whether the key was present, null or not.
func (f Field[T]) IsSet() bool { return f.state != absent }

func (f Field[T]) IsNull() bool { return f.state == null }

func (f Field[T]) HasValue() bool { return f.state == present }

func (f Field[T]) Get() (T, bool) {
	return f.val, f.state == present
}

// Ptr returns a copy of the value, or nil when absent or null.
func (f Field[T]) Ptr() *T {
	if f.state != present {
		return nil
	}
	v := f.val
	return &v
}

// Or returns the value when present, otherwise def.
func (f Field[T]) Or(def T) T {
	if f.state == present {
		return f.val
	}
	return def
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if f.state != present {
		return []byte("null"), nil
	}
	return json.Marshal(f.val)
}

// UnmarshalJSON only runs for keys present in the payload, so absent survives untouched.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		f.state, f.val = null, zero
		return nil
	}

	var v T
	if err := coerce(data, &v); err != nil {
		return err
	}
	f.state, f.val = present, v
	return nil
}

func coerce(data []byte, dst any) error {
	switch p := dst.(type) {
	case *float64:
		n, err := parseNumber(data)
		if err != nil {
			return err
		}
		*p = n
	case *int:
		n, err := parseNumber(data)
		if err != nil {
			return err
		}
		if n != math.Trunc(n) || n > math.MaxInt32 || n < math.MinInt32 {
			return fmt.Errorf("expected a whole number, got %s", data)
		}
		*p = int(n)
	case *time.Time:
		ts, err := parseTime(data)
		if err != nil {
			return err
		}
		*p = ts
	case *string:
		if err := json.Unmarshal(data, p); err != nil {
			return fmt.Errorf("expected a string, got %s", data)
		}
	default:
		return json.Unmarshal(data, dst)
	}
	return nil
}

// parseNumber accepts a JSON number or a string holding one.
func parseNumber(data []byte) (float64, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return 0, fmt.Errorf("expected a number, got %s", data)
	}

	var n float64
	switch v := raw.(type) {
	case float64:
		n = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("expected a number, got %q", v)
		}
		n = parsed
	default:
		return 0, fmt.Errorf("expected a number, got %s", data)
	}

	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, errors.New("expected a finite number")
	}
	return n, nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTime(data []byte) (time.Time, error) {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return time.Time{}, fmt.Errorf("expected a timestamp string, got %s", data)
	}
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// Required merges f into a non-nullable field. An explicit null is rejected.
func Required[T any](dst *T, f Field[T], name string) error {
	switch f.state {
	case null:
		return crmerr.Validation(name, "cannot be null")
	case present:
		*dst = f.val
	}
	return nil
}

// Optional merges f into a nullable field: null clears, a value overwrites.
func Optional[T any](dst **T, f Field[T]) {
	switch f.state {
	case null:
		*dst = nil
	case present:
		v := f.val
		*dst = &v
	}
}
