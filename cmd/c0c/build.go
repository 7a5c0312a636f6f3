package main

import (
	goerrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/c0lang/c0"
)

// moduleExt is the extension given to compiled modules.
const moduleExt = ".o0"

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [flags] file...",
		Short: "Compile c0 source files into modules",
		Long: `Compile each source file into a module next to it, replacing the
file extension with .o0. Every file is attempted and all errors are
reported together.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runBuild,
	}
	cmd.Flags().StringP("output", "o", "", "Output path (single input file only)")
	cmd.Flags().BoolP("watch", "w", false, "Rebuild whenever an input file changes")
	return cmd
}

func runBuild(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	if output != "" && len(args) > 1 {
		return goerrors.New("--output cannot be used with multiple input files")
	}
	log := newLogger(cmd.ErrOrStderr())
	err := buildAll(args, output, log)

	watch, _ := cmd.Flags().GetBool("watch")
	if !watch {
		return err
	}
	if err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), formatError(err, useColor(os.Stderr)))
	}
	w, err := newFileWatcher(args, log)
	if err != nil {
		return err
	}
	defer w.Close()
	return w.Run(cmd.Context(), func(path string) {
		out := output
		if out == "" {
			out = outputPath(path)
		}
		if err := buildFile(path, out, log); err != nil {
			fmt.Fprint(cmd.ErrOrStderr(), formatError(err, useColor(os.Stderr)))
		}
	})
}

// buildAll builds every path, collecting the errors of all that fail.
func buildAll(paths []string, output string, log zerolog.Logger) error {
	var result *multierror.Error
	for _, path := range paths {
		out := output
		if out == "" {
			out = outputPath(path)
		}
		if err := buildFile(path, out, log); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// buildFile compiles path and writes the module to out. Nothing is written
// if compilation fails.
func buildFile(path, out string, log zerolog.Logger) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	data, err := c0.Build(string(source), c0Options(path, log)...)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return err
	}
	log.Info().
		Str("source", path).
		Str("output", out).
		Int("bytes", len(data)).
		Msg("built module")
	return nil
}

func outputPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + moduleExt
}
