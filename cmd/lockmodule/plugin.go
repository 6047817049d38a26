package main

import (
	"github.com/spf13/cobra"

	"github.com/sheinsight/lockmodule/pkg/observability"
	"github.com/sheinsight/lockmodule/pkg/plugin"
)

func pluginCmd(global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "plugin",
		Short: "Transform one exchange envelope read from stdin",
		Long: `Read one plugin exchange envelope from stdin, run the rewrite and write the
response envelope to stdout.

Request:  {"program": <tree>, "metadata": {"filename": "...", "plugin_config": "<payload>"}}
Response: {"program": <tree>} or {"error": "..."}

Examples:
  lockmodule parse --envelope index.js | lockmodule plugin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := newApp(global, observability.ModePlugin, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer application.close()

			ctx, span := application.providers.Tracer.Start(cmd.Context(), "lockmodule.plugin.serve")
			defer span.End()

			application.logger.DebugContext(ctx, "serving plugin envelope")

			return plugin.Serve(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
