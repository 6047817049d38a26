// Package config provides YAML-based host configuration for lockmodule.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidWorkers     = errors.New("workers must not be negative")
	ErrInvalidMaxFileSize = errors.New("invalid max file size")
	ErrInvalidLogLevel    = errors.New("invalid log level")
	ErrInvalidLogFormat   = errors.New("invalid log format")
	ErrInvalidExtension   = errors.New("file extension must start with a dot")
)

const (
	configName = ".lockmodule"
	envPrefix  = "LOCKMODULE"
)

var (
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"text", "json"}
)

// Config holds all configuration for the lockmodule host tool.
type Config struct {
	Plugin    PluginConfig    `mapstructure:"plugin"`
	Files     FilesConfig     `mapstructure:"files"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Workers   int             `mapstructure:"workers"`
}

// PluginConfig is the rewrite payload handed to the transform. Fields left
// unset are omitted from the rendered payload.
type PluginConfig struct {
	Enable *bool   `mapstructure:"enable" json:"enable,omitempty"`
	Source *string `mapstructure:"source" json:"source,omitempty"`
	Target *string `mapstructure:"target" json:"target,omitempty"`
}

// FilesConfig selects which files the transform command visits.
type FilesConfig struct {
	MaxFileSize string   `mapstructure:"max_file_size"`
	Extensions  []string `mapstructure:"extensions"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig holds tracing export configuration.
type TelemetryConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool   `mapstructure:"otlp_insecure"`
}

// LoadConfig loads configuration from file and environment variables. An
// empty configPath searches for .lockmodule.yaml in the working directory.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
	}

	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// The plugin keys have no defaults, so they must be bound for env to apply.
	for _, key := range []string{"plugin.enable", "plugin.source", "plugin.target"} {
		bindErr := viperCfg.BindEnv(key)
		if bindErr != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, bindErr)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("workers", DefaultWorkers)

	viperCfg.SetDefault("files.extensions", DefaultExtensions)
	viperCfg.SetDefault("files.max_file_size", DefaultMaxFileSize)

	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.format", DefaultLogFormat)

	viperCfg.SetDefault("telemetry.otlp_endpoint", DefaultOTLPEndpoint)
	viperCfg.SetDefault("telemetry.otlp_insecure", DefaultOTLPInsecure)
}

// validateConfig validates the configuration.
func validateConfig(config *Config) error {
	if config.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, config.Workers)
	}

	_, sizeErr := config.Files.MaxFileSizeBytes()
	if sizeErr != nil {
		return sizeErr
	}

	for _, ext := range config.Files.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("%w: %q", ErrInvalidExtension, ext)
		}
	}

	if !slices.Contains(validLogLevels, strings.ToLower(config.Logging.Level)) {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, config.Logging.Level)
	}

	if !slices.Contains(validLogFormats, strings.ToLower(config.Logging.Format)) {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, config.Logging.Format)
	}

	return nil
}

// MaxFileSizeBytes parses MaxFileSize. An empty value means no limit.
func (files FilesConfig) MaxFileSizeBytes() (uint64, error) {
	trimmed := strings.TrimSpace(files.MaxFileSize)
	if trimmed == "" {
		return 0, nil
	}

	size, err := humanize.ParseBytes(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidMaxFileSize, files.MaxFileSize, err)
	}

	return size, nil
}

// IsSet reports whether any plugin key was configured.
func (plugin PluginConfig) IsSet() bool {
	return plugin.Enable != nil || plugin.Source != nil || plugin.Target != nil
}

// PluginConfig renders the plugin section as the raw transform payload. No
// payload is offered when the section is absent.
func (plugin PluginConfig) PluginConfig() (string, bool) {
	if !plugin.IsSet() {
		return "", false
	}

	data, err := json.Marshal(plugin)
	if err != nil {
		return "", false
	}

	return string(data), true
}
