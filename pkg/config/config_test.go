package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheinsight/lockmodule/pkg/config"
	"github.com/sheinsight/lockmodule/pkg/lockmodule"
)

const testMaxFileSize = 2_000_000

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	cfgPath := filepath.Join(t.TempDir(), ".lockmodule.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o600))

	return cfgPath
}

func TestLoadConfig_EmptyFile_UsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, config.DefaultWorkers, cfg.Workers)
	assert.Equal(t, config.DefaultExtensions, cfg.Files.Extensions)
	assert.Equal(t, config.DefaultMaxFileSize, cfg.Files.MaxFileSize)
	assert.Equal(t, config.DefaultLogLevel, cfg.Logging.Level)
	assert.Equal(t, config.DefaultLogFormat, cfg.Logging.Format)
	assert.Empty(t, cfg.Telemetry.OTLPEndpoint)
	assert.False(t, cfg.Plugin.IsSet())

	_, ok := cfg.Plugin.PluginConfig()
	assert.False(t, ok)
}

func TestLoadConfig_ValidFile_Unmarshals(t *testing.T) {
	t.Parallel()

	cfgPath := writeConfig(t, `plugin:
  enable: true
  source: "a"
  target: "x"
files:
  extensions: [".js", ".ts"]
  max_file_size: "2MB"
workers: 4
logging:
  level: debug
  format: json
telemetry:
  otlp_endpoint: "localhost:4317"
  otlp_insecure: true
`)

	cfg, err := config.LoadConfig(cfgPath)
	require.NoError(t, err)

	require.NotNil(t, cfg.Plugin.Enable)
	assert.True(t, *cfg.Plugin.Enable)
	assert.Equal(t, "a", *cfg.Plugin.Source)
	assert.Equal(t, "x", *cfg.Plugin.Target)
	assert.Equal(t, []string{".js", ".ts"}, cfg.Files.Extensions)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "localhost:4317", cfg.Telemetry.OTLPEndpoint)
	assert.True(t, cfg.Telemetry.OTLPInsecure)

	size, err := cfg.Files.MaxFileSizeBytes()
	require.NoError(t, err)
	assert.Equal(t, uint64(testMaxFileSize), size)
}

func TestLoadConfig_PluginPayload(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, `plugin:
  enable: true
  source: "@scope/lib"
  target: "@scope/lib-legacy"
`))
	require.NoError(t, err)

	raw, ok := cfg.Plugin.PluginConfig()
	require.True(t, ok)
	assert.JSONEq(t, `{"enable":true,"source":"@scope/lib","target":"@scope/lib-legacy"}`, raw)

	assert.Equal(t, lockmodule.Config{Enable: true, Source: "@scope/lib", Target: "@scope/lib-legacy"},
		lockmodule.ResolveConfig(cfg.Plugin))
}

func TestLoadConfig_PartialPlugin_FallsBackToDisabled(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, `plugin:
  enable: true
  source: "a"
`))
	require.NoError(t, err)

	raw, ok := cfg.Plugin.PluginConfig()
	require.True(t, ok)
	assert.JSONEq(t, `{"enable":true,"source":"a"}`, raw)
	assert.Equal(t, lockmodule.DisabledConfig(), lockmodule.ResolveConfig(cfg.Plugin))
}

func TestLoadConfig_EmptyStringsArePreserved(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, `plugin:
  enable: false
  source: ""
  target: ""
`))
	require.NoError(t, err)

	raw, ok := cfg.Plugin.PluginConfig()
	require.True(t, ok)
	assert.JSONEq(t, `{"enable":false,"source":"","target":""}`, raw)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	cfgPath := writeConfig(t, "")

	t.Setenv("LOCKMODULE_WORKERS", "3")
	t.Setenv("LOCKMODULE_LOGGING_LEVEL", "warn")
	t.Setenv("LOCKMODULE_PLUGIN_ENABLE", "true")
	t.Setenv("LOCKMODULE_PLUGIN_SOURCE", "a")
	t.Setenv("LOCKMODULE_PLUGIN_TARGET", "x")

	cfg, err := config.LoadConfig(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, lockmodule.Config{Enable: true, Source: "a", Target: "x"}, lockmodule.ResolveConfig(cfg.Plugin))
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"negative workers", "workers: -1\n", config.ErrInvalidWorkers},
		{"bad size", "files:\n  max_file_size: \"lots\"\n", config.ErrInvalidMaxFileSize},
		{"bad extension", "files:\n  extensions: [\"js\"]\n", config.ErrInvalidExtension},
		{"bad level", "logging:\n  level: loud\n", config.ErrInvalidLogLevel},
		{"bad format", "logging:\n  format: xml\n", config.ErrInvalidLogFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := config.LoadConfig(writeConfig(t, tt.content))
			require.ErrorIs(t, err, tt.want)
			assert.Nil(t, cfg)
		})
	}
}

func TestLoadConfig_MalformedYAML_ReturnsError(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, "workers: [invalid yaml\n"))
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoadConfig_UnknownKeys_NoError(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, "unknown_section:\n  key: value\nworkers: 2\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Workers)
}

func TestMaxFileSizeBytes_Empty(t *testing.T) {
	t.Parallel()

	size, err := config.FilesConfig{}.MaxFileSizeBytes()
	require.NoError(t, err)
	assert.Zero(t, size)
}
