package main

import (
	"encoding/json"
	goerrors "errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/c0lang/c0"
	"github.com/c0lang/c0/errors"
)

var red = color.New(color.FgRed).SprintFunc()

func fatal(msg interface{}) {
	var s string
	switch msg := msg.(type) {
	case string:
		s = msg
	case error:
		s = msg.Error()
	default:
		s = fmt.Sprintf("%v", msg)
	}
	fmt.Fprintf(os.Stderr, "%s\n", red(s))
	os.Exit(1)
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// useColor reports whether output written to f should be colored.
func useColor(f *os.File) bool {
	return !viper.GetBool("no-color") && isTerminal(f)
}

// Reads global flags from Viper and adjusts the environment accordingly.
func processGlobalFlags() {
	if viper.GetBool("no-color") {
		color.NoColor = true
	}
}

// newLogger returns a console logger. Compiler debug events are shown only
// with --verbose.
func newLogger(w io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	if viper.GetBool("verbose") {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    !useColor(os.Stderr),
		TimeFormat: time.Kitchen,
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func c0Options(filename string, log zerolog.Logger) []c0.Option {
	opts := []c0.Option{
		c0.WithFilename(filename),
		c0.WithLogger(log),
	}
	if depth := viper.GetInt("max-depth"); depth > 0 {
		opts = append(opts, c0.WithMaxDepth(depth))
	}
	return opts
}

// formatError renders compile errors with source context. Errors collected
// from several files are numbered.
func formatError(err error, colorize bool) string {
	f := errors.NewFormatter(colorize)
	var merr *multierror.Error
	if goerrors.As(err, &merr) && len(merr.Errors) > 1 {
		list := make([]*errors.FormattedError, 0, len(merr.Errors))
		for _, e := range merr.Errors {
			list = append(list, toFormatted(e))
		}
		return f.FormatMultiple(list)
	}
	return f.Format(toFormatted(err))
}

func toFormatted(err error) *errors.FormattedError {
	var fe errors.FormattableError
	if goerrors.As(err, &fe) {
		return fe.ToFormatted()
	}
	return &errors.FormattedError{Message: err.Error()}
}

// marshalJSON indents v, with syntax colors when writing to a terminal.
func marshalJSON(v any, colorize bool) ([]byte, error) {
	if colorize {
		return prettyjson.Marshal(v)
	}
	return json.MarshalIndent(v, "", "  ")
}
