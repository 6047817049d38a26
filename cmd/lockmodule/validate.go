package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sheinsight/lockmodule/pkg/lockmodule"
)

// exitCodeFallback is the exit code when a payload falls back to disabled.
const exitCodeFallback = 2

// Sentinel errors for the validate-config command.
var (
	ErrConfigFallback = errors.New("payload falls back to the disabled configuration")
	ErrMissingPayload = errors.New("requires a payload argument or - for stdin")
)

func validateConfigCmd(global *globalFlags) *cobra.Command {
	var showSchema bool

	cmd := &cobra.Command{
		Use:   "validate-config [payload|-]",
		Short: "Check a rewrite payload and print the configuration it resolves to",
		Long: `Check a rewrite payload against the configuration schema and print the
configuration the transform would use. A payload that does not match falls
back to the disabled configuration and exits with status 2.

Examples:
  lockmodule validate-config '{"enable":true,"source":"a","target":"x"}'
  echo '{"enable":true}' | lockmodule validate-config -
  lockmodule validate-config --schema`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if showSchema {
				_, err := cmd.OutOrStdout().Write(lockmodule.ConfigSchema())
				if err != nil {
					return fmt.Errorf("failed to write schema: %w", err)
				}

				return nil
			}

			if len(args) == 0 {
				return ErrMissingPayload
			}

			raw, err := readPayload(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			return runValidateConfig(cmd.OutOrStdout(), raw, !global.noColor && !color.NoColor, global.quiet)
		},
	}

	cmd.Flags().BoolVar(&showSchema, "schema", false, "print the configuration schema and exit")

	return cmd
}

func readPayload(stdin io.Reader, arg string) (string, error) {
	if arg != stdinArg {
		return arg, nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}

	return strings.TrimRight(string(data), "\r\n"), nil
}

func runValidateConfig(out io.Writer, raw string, colored, quiet bool) error {
	ok := color.New(color.FgGreen)
	bad := color.New(color.FgRed)
	note := color.New(color.FgYellow)

	for _, c := range []*color.Color{ok, bad, note} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	validateErr := lockmodule.ValidateConfig(raw)
	cfg := lockmodule.ParseConfig(raw)

	if validateErr == nil {
		if !quiet {
			ok.Fprintln(out, "Payload is valid")
			printConfig(out, cfg)
		}

		return nil
	}

	bad.Fprintln(out, "Payload rejected")

	for _, problem := range unjoin(validateErr) {
		bad.Fprintf(out, "  - %s\n", strings.TrimPrefix(problem.Error(), lockmodule.ErrInvalidConfig.Error()+": "))
	}

	note.Fprintln(out, "Falling back to the disabled configuration:")
	printConfig(out, cfg)

	return &exitError{err: ErrConfigFallback, code: exitCodeFallback}
}

func printConfig(out io.Writer, cfg lockmodule.Config) {
	fmt.Fprintf(out, "  enable: %t\n  source: %q\n  target: %q\n", cfg.Enable, cfg.Source, cfg.Target)
}

func unjoin(err error) []error {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		return joined.Unwrap()
	}

	return []error{err}
}
