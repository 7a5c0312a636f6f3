// Package errors defines the diagnostics produced while compiling c0 source.
//
// Every failure in the pipeline is fatal: the first error aborts the
// compilation and is returned as a *CompileError carrying an ErrorCode and
// the source position where it was detected.
package errors

import (
	goerrors "errors"
	"fmt"
)

// FriendlyError is an interface for errors that have a human friendly message
// in addition to a the lower level default error message.
type FriendlyError interface {
	Error() string
	FriendlyErrorMessage() string
}

// FormattableError is an interface for errors that can be formatted with
// the enhanced error formatter (with colors, source context, etc).
type FormattableError interface {
	Error() string
	ToFormatted() *FormattedError
}

// CodeOf returns the ErrorCode of the first *CompileError found in err's
// chain, or the empty code if there is none.
func CodeOf(err error) ErrorCode {
	var ce *CompileError
	if goerrors.As(err, &ce) {
		return ce.Code
	}
	var oe *OutputError
	if goerrors.As(err, &oe) {
		return oe.Code
	}
	return ""
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// OutputError is returned by the module serializer. It has no source
// position since the module has already been compiled.
type OutputError struct {
	Code ErrorCode
	Err  error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("output error: %s", e.Err)
}

func (e *OutputError) Unwrap() error {
	return e.Err
}

// OutputErrorf returns a new OutputError with a formatted message.
func OutputErrorf(code ErrorCode, format string, args ...any) *OutputError {
	return &OutputError{Code: code, Err: fmt.Errorf(format, args...)}
}
