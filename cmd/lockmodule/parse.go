package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sheinsight/lockmodule/pkg/observability"
	"github.com/sheinsight/lockmodule/pkg/plugin"
	"github.com/sheinsight/lockmodule/pkg/rewrite"
	"github.com/sheinsight/lockmodule/pkg/uast"
)

// ErrUnknownLanguage is returned for --language values no grammar handles.
var ErrUnknownLanguage = errors.New("unknown language")

type parseFlags struct {
	language      string
	stdinFilename string
	pluginConfig  string
	envelope      bool
	compact       bool
}

func parseCmd(global *globalFlags) *cobra.Command {
	flags := &parseFlags{}

	cmd := &cobra.Command{
		Use:   "parse <file|->",
		Short: "Print the program tree of a source file as JSON",
		Long: `Parse a JavaScript or TypeScript file and print its program tree as JSON.
With --envelope the tree is wrapped in a plugin request carrying the
configured payload, ready to pipe into "lockmodule plugin".

Examples:
  lockmodule parse index.js
  lockmodule parse -l ts - < types.d.ts
  lockmodule parse --envelope index.js | lockmodule plugin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, global, flags, args[0])
		},
	}

	cmd.Flags().StringVarP(&flags.language, "language", "l", "", "force the grammar (javascript, typescript, tsx)")
	cmd.Flags().StringVar(&flags.stdinFilename, "stdin-filename", "stdin.js", "file name used to pick the grammar for stdin")
	cmd.Flags().BoolVar(&flags.envelope, "envelope", false, "wrap the tree in a plugin request")
	cmd.Flags().StringVar(&flags.pluginConfig, "plugin-config", "", "raw payload for --envelope, overrides the config file")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "print compact JSON")

	return cmd
}

func runParse(cmd *cobra.Command, global *globalFlags, flags *parseFlags, input string) error {
	application, err := newApp(global, observability.ModeCLI, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer application.close()

	filename, content, err := readParseInput(cmd.InOrStdin(), input, flags.stdinFilename, application)
	if err != nil {
		return err
	}

	parser, err := uast.NewParser()
	if err != nil {
		return fmt.Errorf("failed to initialize parser: %w", err)
	}

	lang := parser.GetLanguage(filename, content)
	if flags.language != "" {
		lang = uast.NormalizeLanguage(flags.language)
		if lang == "" {
			return fmt.Errorf("%w: %s", ErrUnknownLanguage, flags.language)
		}
	}

	if lang == "" {
		return fmt.Errorf("%w: %s", uast.ErrUnsupportedLanguage, filename)
	}

	program, err := parser.ParseLanguage(cmd.Context(), lang, content)
	if err != nil {
		return fmt.Errorf("parse error in %s: %w", filename, err)
	}

	var value any = program

	if flags.envelope {
		req := plugin.Request{Program: program, Metadata: plugin.Metadata{Filename: filepath.ToSlash(filename)}}

		source := application.configSource(flags.pluginConfig, cmd.Flags().Changed("plugin-config"))
		if raw, ok := source.PluginConfig(); ok {
			req.Metadata.RawConfig = &raw
		}

		value = req
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	if !flags.compact {
		enc.SetIndent("", "  ")
	}

	err = enc.Encode(value)
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

func readParseInput(stdin io.Reader, input, stdinFilename string, application *app) (string, []byte, error) {
	if strings.TrimSpace(input) == stdinArg {
		content, err := io.ReadAll(stdin)
		if err != nil {
			return "", nil, fmt.Errorf("failed to read stdin: %w", err)
		}

		return stdinFilename, content, nil
	}

	maxSize, err := application.cfg.Files.MaxFileSizeBytes()
	if err != nil {
		return "", nil, err
	}

	content, err := rewrite.ReadFile(input, maxSize)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read file %s: %w", input, err)
	}

	return input, content, nil
}
