// Package main provides the lockmodule CLI entry point.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sheinsight/lockmodule/pkg/version"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	cfgFile string
	verbose bool
	quiet   bool
	noColor bool
}

// exitError carries a process exit code other than 1.
type exitError struct {
	err  error
	code int
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

func main() {
	err := newRootCmd().Execute()
	if err == nil {
		return
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.code)
	}

	os.Exit(1)
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "lockmodule",
		Short: "Rewrite side-effect import paths in JavaScript and TypeScript sources",
		Long: `lockmodule rewrites the module path of bare import statements such as
import "a/b" by replacing a configured substring with a replacement.

Imports that bind names, re-exports, dynamic import() and require() calls are
never touched.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.cfgFile, "config", "", "config file (default is ./.lockmodule.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&flags.quiet, "quiet", "q", false, "suppress output")
	rootCmd.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(transformCmd(flags))
	rootCmd.AddCommand(pluginCmd(flags))
	rootCmd.AddCommand(parseCmd(flags))
	rootCmd.AddCommand(validateConfigCmd(flags))
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "lockmodule %s\n", version.String())
		},
	}
}
