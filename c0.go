// Package c0 compiles c0 source code into the binary module format read by
// the c0 stack machine.
//
// The pipeline is a single pass: source text is tokenized, parsed and
// compiled into an immutable *bytecode.Module, which Build serializes:
//
//	data, err := c0.Build(source, c0.WithFilename("main.c0"))
package c0

import (
	"bytes"
	"io"

	"github.com/rs/zerolog"

	"github.com/c0lang/c0/bytecode"
	"github.com/c0lang/c0/compiler"
	"github.com/c0lang/c0/internal/lexer"
	"github.com/c0lang/c0/token"
)

// Option configures a compilation.
type Option func(*options)

type options struct {
	filename string
	maxDepth int
	logger   *zerolog.Logger
}

func collectOptions(opts ...Option) *options {
	o := &options{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) compilerConfig() *compiler.Config {
	return &compiler.Config{
		Filename: o.filename,
		MaxDepth: o.maxDepth,
		Logger:   o.logger,
	}
}

// WithFilename sets the filename reported in diagnostics and recorded on
// the module.
func WithFilename(filename string) Option {
	return func(o *options) {
		o.filename = filename
	}
}

// WithMaxDepth bounds the nesting of blocks and expressions. Deeper input
// fails with errors.MaxDepth instead of exhausting the stack.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// WithLogger routes the compiler's debug events to the given logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &logger
	}
}

// Compile parses and compiles source code into a module. The returned
// Module is immutable and safe for concurrent use.
func Compile(source string, opts ...Option) (*bytecode.Module, error) {
	o := collectOptions(opts...)
	return compiler.Compile(source, o.compilerConfig())
}

// Build compiles source code and serializes the module. Nothing is
// returned unless both steps succeed.
func Build(source string, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := BuildTo(&buf, source, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildTo compiles source code and writes the serialized module to w. A
// compile or serialization error leaves w untouched.
func BuildTo(w io.Writer, source string, opts ...Option) error {
	module, err := Compile(source, opts...)
	if err != nil {
		return err
	}
	_, err = module.WriteTo(w)
	return err
}

// Tokenize returns the tokens of source, ending with a single EOF token.
func Tokenize(source string, opts ...Option) ([]token.Token, error) {
	o := collectOptions(opts...)
	return lexer.New(source, lexer.WithFile(o.filename)).Tokens()
}
