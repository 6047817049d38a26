package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sheinsight/lockmodule/pkg/observability"
	"github.com/sheinsight/lockmodule/pkg/rewrite"
)

// Sentinel errors for the transform command.
var (
	ErrFilesFailed   = errors.New("some files could not be transformed")
	ErrPendingChange = errors.New("some files would be rewritten")
	ErrWriteStdin    = errors.New("--write cannot be used with stdin")
)

const stdinArg = "-"

type transformFlags struct {
	pluginConfig  string
	report        string
	metricsFile   string
	stdinFilename string
	workers       int
	write         bool
	check         bool
	diff          bool
}

func transformCmd(global *globalFlags) *cobra.Command {
	flags := &transformFlags{}

	cmd := &cobra.Command{
		Use:   "transform [files...|-]",
		Short: "Rewrite side-effect import paths in source files",
		Long: `Rewrite the module path of side-effect-only imports in JavaScript and
TypeScript sources. Directories are walked recursively.

Without --write the run is a dry run: files are left untouched and a report is
printed. Reading from stdin prints the transformed source to stdout.

Examples:
  lockmodule transform src/                       # Dry run over a tree
  lockmodule transform -w src/                    # Rewrite files in place
  lockmodule transform --check src/               # Fail when files would change
  lockmodule transform --diff src/index.js        # Show what would change
  cat index.js | lockmodule transform -           # Filter stdin to stdout
  lockmodule transform --plugin-config '{"enable":true,"source":"a","target":"x"}' src/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransform(cmd, global, flags, args)
		},
	}

	cmd.Flags().BoolVarP(&flags.write, "write", "w", false, "write changes back to the files")
	cmd.Flags().BoolVar(&flags.check, "check", false, "exit non-zero when any file would change")
	cmd.Flags().BoolVar(&flags.diff, "diff", false, "print a unified diff of each change")
	cmd.Flags().IntVarP(&flags.workers, "workers", "j", -1, "number of parallel workers (default: from config, 0 = NumCPU)")
	cmd.Flags().StringVar(&flags.report, "report", rewrite.FormatTable, "report format (table, json, yaml, none)")
	cmd.Flags().StringVar(&flags.metricsFile, "metrics-file", "", "write Prometheus metrics to this file")
	cmd.Flags().StringVar(&flags.pluginConfig, "plugin-config", "", "raw rewrite payload, overrides the config file")
	cmd.Flags().StringVar(&flags.stdinFilename, "stdin-filename", "stdin.js", "file name used to pick the grammar for stdin")

	return cmd
}

func runTransform(cmd *cobra.Command, global *globalFlags, flags *transformFlags, args []string) error {
	application, err := newApp(global, observability.ModeCLI, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer application.close()

	fromStdin := len(args) == 0 || (len(args) == 1 && args[0] == stdinArg)
	if fromStdin && flags.write {
		return ErrWriteStdin
	}

	maxSize, err := application.cfg.Files.MaxFileSizeBytes()
	if err != nil {
		return err
	}

	workers := application.cfg.Workers
	if flags.workers >= 0 {
		workers = flags.workers
	}

	metrics := observability.NewRunMetrics()

	runner, err := rewrite.NewRunner(rewrite.Options{
		Config:      application.configSource(flags.pluginConfig, cmd.Flags().Changed("plugin-config")),
		Logger:      application.logger,
		Tracer:      application.providers.Tracer,
		Metrics:     metrics,
		Workers:     workers,
		MaxFileSize: maxSize,
		Write:       flags.write,
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	reportOut := out

	var results []rewrite.FileResult

	if fromStdin {
		content, readErr := io.ReadAll(cmd.InOrStdin())
		if readErr != nil {
			return fmt.Errorf("failed to read stdin: %w", readErr)
		}

		res := runner.Process(ctx, flags.stdinFilename, content)
		if res.Err != nil {
			return fmt.Errorf("transform %s: %w", flags.stdinFilename, res.Err)
		}

		results = []rewrite.FileResult{res}
		reportOut = cmd.ErrOrStderr()

		if !flags.check && !flags.diff {
			_, err = out.Write(res.Output)
			if err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
	} else {
		files, collectErr := rewrite.Collect(args, application.cfg.Files.Extensions)
		if collectErr != nil {
			return collectErr
		}

		results, err = runner.Run(ctx, files)
		if err != nil {
			return err
		}
	}

	if flags.diff {
		err = writeDiffs(out, results, application.colored)
		if err != nil {
			return err
		}
	}

	if !global.quiet {
		err = rewrite.WriteReport(reportOut, flags.report, results)
		if err != nil {
			return err
		}
	}

	if flags.metricsFile != "" {
		err = metrics.WriteFile(flags.metricsFile)
		if err != nil {
			return err
		}
	}

	return transformOutcome(results, flags.check)
}

func writeDiffs(out io.Writer, results []rewrite.FileResult, colored bool) error {
	for idx := range results {
		res := &results[idx]
		if !res.Changed {
			continue
		}

		err := rewrite.WriteDiff(out, rewrite.UnifiedDiff(res.Path, res.Original, res.Output), colored)
		if err != nil {
			return err
		}
	}

	return nil
}

func transformOutcome(results []rewrite.FileResult, check bool) error {
	summary := rewrite.Summarize(results)

	if summary.Errors > 0 {
		return fmt.Errorf("%w: %d of %d", ErrFilesFailed, summary.Errors, summary.Files)
	}

	if check && summary.Changed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrPendingChange, summary.Changed, summary.Files)
	}

	return nil
}
