package lockmodule_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheinsight/lockmodule/pkg/lockmodule"
)

func TestParseConfig_WellFormed(t *testing.T) {
	t.Parallel()

	cfg := lockmodule.ParseConfig(`{"enable": true, "source": "a", "target": "x"}`)

	assert.Equal(t, lockmodule.Config{Enable: true, Source: "a", Target: "x"}, cfg)
}

func TestParseConfig_KeepsStringsVerbatim(t *testing.T) {
	t.Parallel()

	cfg := lockmodule.ParseConfig(`{"enable": true, "source": "  lodash ", "target": ""}`)

	assert.True(t, cfg.Enable)
	assert.Equal(t, "  lodash ", cfg.Source)
	assert.Empty(t, cfg.Target)
}

func TestParseConfig_IgnoresUnknownFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want lockmodule.Config
	}{
		{
			"extra field",
			`{"enable": false, "source": "a", "target": "b", "extra": [1, 2]}`,
			lockmodule.Config{Enable: false, Source: "a", Target: "b"},
		},
		{
			"upper case enable",
			`{"enable": false, "source": "a", "target": "x", "ENABLE": true}`,
			lockmodule.Config{Enable: false, Source: "a", Target: "x"},
		},
		{
			"title case target",
			`{"enable": true, "source": "a", "target": "x", "Target": "evil"}`,
			lockmodule.Config{Enable: true, Source: "a", Target: "x"},
		},
		{
			"title case source of another type",
			`{"enable": true, "source": "a", "target": "x", "Source": 1}`,
			lockmodule.Config{Enable: true, Source: "a", Target: "x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, lockmodule.ParseConfig(tt.raw))
		})
	}
}

func TestParseConfig_FallsBackToDisabled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"garbage", "not json"},
		{"truncated", `{"enable": true, "source": "a"`},
		{"null", "null"},
		{"array", `[true, "a", "x"]`},
		{"string", `"enable"`},
		{"missing enable", `{"source": "a", "target": "x"}`},
		{"missing source", `{"enable": true, "target": "x"}`},
		{"missing target", `{"enable": true, "source": "a"}`},
		{"enable as string", `{"enable": "true", "source": "a", "target": "x"}`},
		{"enable as number", `{"enable": 1, "source": "a", "target": "x"}`},
		{"source as number", `{"enable": true, "source": 1, "target": "x"}`},
		{"target as null", `{"enable": true, "source": "a", "target": null}`},
		{"trailing data", `{"enable": true, "source": "a", "target": "x"} {}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, lockmodule.DisabledConfig(), lockmodule.ParseConfig(tt.raw))
		})
	}
}

func TestDisabledConfig(t *testing.T) {
	t.Parallel()

	cfg := lockmodule.DisabledConfig()

	assert.False(t, cfg.Enable)
	assert.Empty(t, cfg.Source)
	assert.Empty(t, cfg.Target)
}

func TestValidateConfig(t *testing.T) {
	t.Parallel()

	require.NoError(t, lockmodule.ValidateConfig(`{"enable": true, "source": "", "target": ""}`))

	err := lockmodule.ValidateConfig(`{"enable": "yes"}`)
	require.Error(t, err)
	require.ErrorIs(t, err, lockmodule.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "enable")

	err = lockmodule.ValidateConfig(`{`)
	require.ErrorIs(t, err, lockmodule.ErrInvalidConfig)
}

func TestConfigSchemaIsEmbedded(t *testing.T) {
	t.Parallel()

	assert.Contains(t, string(lockmodule.ConfigSchema()), `"required"`)
}
