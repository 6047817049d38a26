package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"

	"github.com/sheinsight/lockmodule/pkg/config"
	"github.com/sheinsight/lockmodule/pkg/lockmodule"
	"github.com/sheinsight/lockmodule/pkg/observability"
	"github.com/sheinsight/lockmodule/pkg/version"
)

// app bundles what every command needs: the loaded host configuration and
// the observability providers built from it.
type app struct {
	cfg       *config.Config
	providers observability.Providers
	logger    *slog.Logger
	colored   bool
}

func newApp(flags *globalFlags, mode observability.AppMode, logOutput io.Writer) (*app, error) {
	cfg, err := config.LoadConfig(flags.cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level, err := observability.ParseLogLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}

	switch {
	case flags.quiet:
		level = slog.LevelError
	case flags.verbose:
		level = slog.LevelDebug
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Mode = mode
	obsCfg.LogLevel = level
	obsCfg.LogJSON = cfg.Logging.Format == "json"
	obsCfg.LogOutput = logOutput
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return nil, fmt.Errorf("observability init failed: %w", err)
	}

	return &app{
		cfg:       cfg,
		providers: providers,
		logger:    providers.Logger,
		colored:   !flags.noColor && !color.NoColor,
	}, nil
}

// configSource returns the rewrite payload: the --plugin-config override
// when given, otherwise the plugin section of the config file.
func (application *app) configSource(override string, overridden bool) lockmodule.ConfigSource {
	if overridden {
		return lockmodule.Payload(override)
	}

	return application.cfg.Plugin
}

func (application *app) close() {
	err := application.providers.Shutdown(context.Background())
	if err != nil {
		application.logger.Warn("observability shutdown failed", "error", err)
	}
}
