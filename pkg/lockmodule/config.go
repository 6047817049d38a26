// Package lockmodule rewrites the module path of side-effect-only import
// declarations in a program tree.
//
// The package is the pure core of the transform. It never performs I/O or
// logging, and configuration problems never surface as errors: a payload that
// cannot be understood turns the transform into a no-op.
package lockmodule

import (
	"encoding/json"
)

// Config controls whether and how import paths are rewritten.
type Config struct {
	Enable bool   `json:"enable"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// DisabledConfig is the configuration used whenever the payload is absent or
// cannot be parsed. It never rewrites anything.
func DisabledConfig() Config {
	return Config{Enable: false, Source: "", Target: ""}
}

// ParseConfig decodes a configuration payload. The payload must be a JSON
// object carrying enable (boolean), source and target (strings); unknown
// fields are ignored. Any other input yields DisabledConfig.
func ParseConfig(raw string) Config {
	if ValidateConfig(raw) != nil {
		return DisabledConfig()
	}

	// encoding/json folds key case when decoding into a struct, so the fields
	// are read by exact key from a map instead.
	var fields map[string]json.RawMessage

	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return DisabledConfig()
	}

	var cfg Config

	if !decodeField(fields, "enable", &cfg.Enable) ||
		!decodeField(fields, "source", &cfg.Source) ||
		!decodeField(fields, "target", &cfg.Target) {
		return DisabledConfig()
	}

	return cfg
}

func decodeField(fields map[string]json.RawMessage, key string, dst any) bool {
	value, ok := fields[key]
	if !ok {
		return false
	}

	return json.Unmarshal(value, dst) == nil
}
