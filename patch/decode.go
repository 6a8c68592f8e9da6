// ABOUTME: Decodes loosely typed payloads into structs of Field values
// ABOUTME: Reports unknown keys and coercion failures as validation errors naming the key
package patch

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/harperreed/crmcore/crmerr"
)

// DecodeMap fills dst, a pointer to a struct of Field values, from payload.
func DecodeMap(payload map[string]any, dst any) error {
	raw := make(map[string]json.RawMessage, len(payload))
	for k, v := range payload {
		b, err := json.Marshal(v)
		if err != nil {
			return crmerr.Validation(k, "unsupported value: %v", err)
		}
		raw[k] = b
	}
	return decodeRaw(raw, dst)
}

// DecodeJSON fills dst from a JSON object.
func DecodeJSON(data []byte, dst any) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return crmerr.Validation("", "payload must be a JSON object: %v", err)
	}
	return decodeRaw(raw, dst)
}

// Keys lists the payload keys dst accepts.
func Keys(dst any) []string {
	fields := fieldIndex(reflect.TypeOf(dst).Elem())
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func decodeRaw(raw map[string]json.RawMessage, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		panic(fmt.Sprintf("patch: decode target must be a struct pointer, got %T", dst))
	}
	fields := fieldIndex(rv.Elem().Type())

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		idx, ok := fields[k]
		if !ok {
			return crmerr.Validation(k, "unknown or read-only field")
		}
		target, ok := rv.Elem().Field(idx).Addr().Interface().(json.Unmarshaler)
		if !ok {
			panic(fmt.Sprintf("patch: field %q does not implement json.Unmarshaler", k))
		}
		if err := target.UnmarshalJSON(raw[k]); err != nil {
			return crmerr.Validation(k, "%v", err)
		}
	}
	return nil
}

func fieldIndex(t reflect.Type) map[string]int {
	out := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = sf.Name
		}
		out[name] = i
	}
	return out
}
