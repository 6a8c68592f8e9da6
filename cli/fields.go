// ABOUTME: Flag helpers shared by the record commands
// ABOUTME: Collects --set, --unset, and --data into one field payload
package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"strings"
)

// assignments is a repeatable key=value flag.
type assignments []string

func (a *assignments) String() string { return strings.Join(*a, ",") }

func (a *assignments) Set(v string) error {
	if !strings.Contains(v, "=") {
		return fmt.Errorf("expected key=value, got %q", v)
	}
	*a = append(*a, v)
	return nil
}

// keys is a repeatable field-name flag.
type keys []string

func (k *keys) String() string { return strings.Join(*k, ",") }

func (k *keys) Set(v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("field name cannot be empty")
	}
	*k = append(*k, strings.TrimSpace(v))
	return nil
}

type fieldFlags struct {
	set   assignments
	unset keys
	data  string
}

func addFieldFlags(fs *flag.FlagSet) *fieldFlags {
	ff := &fieldFlags{}
	fs.Var(&ff.set, "set", "Set a field: --set key=value (repeatable)")
	fs.Var(&ff.unset, "unset", "Clear an optional field: --unset key (repeatable)")
	fs.StringVar(&ff.data, "data", "", "Fields as a JSON object; --set and --unset apply on top")
	return ff
}

// payload merges --data, then --set, then --unset.
func (ff *fieldFlags) payload() (map[string]any, error) {
	out := map[string]any{}
	if ff.data != "" {
		if err := json.Unmarshal([]byte(ff.data), &out); err != nil {
			return nil, fmt.Errorf("invalid --data: %w", err)
		}
		if out == nil {
			out = map[string]any{}
		}
	}
	for _, kv := range ff.set {
		k, v, _ := strings.Cut(kv, "=")
		out[strings.TrimSpace(k)] = v
	}
	for _, k := range ff.unset {
		out[k] = nil
	}
	return out, nil
}
