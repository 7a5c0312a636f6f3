package errors

import (
	"fmt"
	"strings"

	"github.com/c0lang/c0/token"
)

// CompileError represents a compilation error with rich context.
type CompileError struct {
	Code        ErrorCode
	Message     string
	Filename    string
	Line        int // 1-based
	Column      int // 1-based
	EndColumn   int
	SourceLine  string
	Expected    []token.Type // Set only for ExpectedToken errors
	Found       token.Token  // Token that triggered the error, if any
	Suggestions []Suggestion
	Note        string
}

// ErrorOpts holds the data used to build a CompileError. All fields except
// Code and Message are optional.
type ErrorOpts struct {
	Code          ErrorCode
	Message       string
	StartPosition token.Position
	EndPosition   token.Position
	SourceCode    string
	Expected      []token.Type
	Found         token.Token
	Suggestions   []Suggestion
	Note          string
}

// New returns a CompileError located at opts.StartPosition.
func New(opts ErrorOpts) *CompileError {
	start := opts.StartPosition
	end := opts.EndPosition
	// EndColumn is only meaningful if the end is on the same line
	endColumn := 0
	if end.IsValid() && end.Line == start.Line {
		endColumn = end.ColumnNumber()
	}
	return &CompileError{
		Code:        opts.Code,
		Message:     opts.Message,
		Filename:    start.File,
		Line:        start.LineNumber(),
		Column:      start.ColumnNumber(),
		EndColumn:   endColumn,
		SourceLine:  opts.SourceCode,
		Expected:    opts.Expected,
		Found:       opts.Found,
		Suggestions: opts.Suggestions,
		Note:        opts.Note,
	}
}

// Errorf returns a CompileError with a formatted message at the given position.
func Errorf(code ErrorCode, pos token.Position, format string, args ...any) *CompileError {
	return New(ErrorOpts{
		Code:          code,
		Message:       fmt.Sprintf(format, args...),
		StartPosition: pos,
	})
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	var b strings.Builder
	b.WriteString(e.Code.Category())
	b.WriteString(" error: ")
	b.WriteString(e.Message)
	if e.Filename != "" || e.Line > 0 {
		b.WriteString("\n\nlocation: ")
		if e.Filename != "" {
			b.WriteString(e.Filename)
			b.WriteString(":")
		}
		fmt.Fprintf(&b, "%d:%d", e.Line, e.Column)
		fmt.Fprintf(&b, " (line %d, column %d)", e.Line, e.Column)
	}
	return b.String()
}

// Position returns the 0-indexed source position of the error.
func (e *CompileError) Position() token.Position {
	return token.Position{
		Line:   e.Line - 1,
		Column: e.Column - 1,
		File:   e.Filename,
	}
}

// FriendlyErrorMessage returns a human-friendly error message.
func (e *CompileError) FriendlyErrorMessage() string {
	formatter := NewFormatter(false)
	return formatter.Format(e.ToFormatted())
}

// ToFormatted converts to the FormattedError type for display.
func (e *CompileError) ToFormatted() *FormattedError {
	fe := &FormattedError{
		Code:      e.Code,
		Kind:      e.Code.Category() + " error",
		Message:   e.Message,
		Filename:  e.Filename,
		Line:      e.Line,
		Column:    e.Column,
		EndColumn: e.EndColumn,
		Note:      e.Note,
	}
	if e.SourceLine != "" {
		fe.SourceLines = []SourceLineEntry{
			{Number: e.Line, Text: e.SourceLine, IsMain: true},
		}
	}
	if len(e.Suggestions) > 0 {
		fe.Hint = FormatSuggestions(e.Suggestions)
	}
	return fe
}

// DescribeExpected renders an expected-token set as "a, b or c".
func DescribeExpected(expected []token.Type) string {
	parts := make([]string, len(expected))
	for i, t := range expected {
		parts[i] = token.Describe(t)
	}
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + " or " + parts[len(parts)-1]
}
