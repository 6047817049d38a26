package lockmodule

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed config.schema.json
var configSchemaJSON []byte

// ErrInvalidConfig reports a payload that does not have the configuration shape.
var ErrInvalidConfig = errors.New("invalid plugin configuration")

//nolint:gochecknoglobals // compiled once, read-only afterwards.
var configSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(configSchemaJSON))
})

// ConfigSchema returns the JSON schema the configuration payload must satisfy.
func ConfigSchema() []byte {
	return configSchemaJSON
}

// ValidateConfig checks raw against the configuration schema. It returns nil
// when raw would be accepted by ParseConfig, and an error wrapping
// ErrInvalidConfig describing every problem otherwise.
func ValidateConfig(raw string) error {
	// The schema loader stops after the first JSON value; trailing data must
	// still be rejected.
	if !json.Valid([]byte(raw)) {
		return fmt.Errorf("%w: malformed JSON", ErrInvalidConfig)
	}

	schema, err := configSchema()
	if err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if result.Valid() {
		return nil
	}

	problems := make([]error, 0, len(result.Errors()))
	for _, resultErr := range result.Errors() {
		problems = append(problems, fmt.Errorf("%w: %s", ErrInvalidConfig, resultErr.String()))
	}

	return errors.Join(problems...)
}
