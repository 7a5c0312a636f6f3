// Package compiler turns c0 source text into a bytecode module in a single
// pass.
//
// # Single-Pass Compilation
//
// There is no syntax tree. The parser pulls tokens from the lexer one at a
// time, resolves names against the symbol table as it meets them, and
// appends instructions for the function being parsed as soon as each
// construct is recognized. A name must therefore be declared before it is
// used; a function may call itself and any function declared above it.
//
// # Symbol Scopes
//
// The compiler tracks three kinds of variable storage:
//
//   - Global: top-level let/const, accessed via LoadGlobal/StoreGlobal
//   - Param: function parameters, accessed via LoadArg/StoreArg
//   - Local: variables declared inside a function, accessed via
//     LoadLocal/StoreLocal
//
// Parameter and local offsets restart at zero in every function. Every
// local declared anywhere in a function gets its own offset, so sibling
// blocks never share slots.
//
// # Entry Function
//
// Global initializers are compiled into a synthetic function named
// "_start", which finishes by calling main when the program declares one.
// It is serialized ahead of the user functions, so a user function's call
// operand is its position in the module plus one.
//
// # Errors
//
// Compilation stops at the first error, which is returned as an
// *errors.CompileError carrying the position of the offending token.
package compiler

import (
	goerrors "errors"

	"github.com/rs/zerolog"

	"github.com/c0lang/c0/bytecode"
	"github.com/c0lang/c0/errors"
	"github.com/c0lang/c0/internal/lexer"
	"github.com/c0lang/c0/op"
	"github.com/c0lang/c0/token"
)

// DefaultMaxDepth is the default maximum nesting depth of blocks and
// expressions.
const DefaultMaxDepth = 500

// MainName is the function the entry function calls, if declared.
const MainName = "main"

// Config holds compiler configuration options.
type Config struct {
	// Filename is the source filename, used for error messages.
	Filename string

	// MaxDepth bounds the nesting of blocks and expressions. Zero means
	// DefaultMaxDepth.
	MaxDepth int

	// Logger receives debug events as functions and globals are compiled.
	// Defaults to a disabled logger.
	Logger *zerolog.Logger
}

type (
	prefixParseFn func(tok token.Token, precedence int) (ValueType, error)
	infixParseFn  func(left ValueType, tok token.Token) (ValueType, error)
)

// function is the compilation state of the function being parsed.
type function struct {
	name      string
	signature *Signature
	code      *emitter
}

// returnSlots is the number of stack slots reserved by callers for the
// function's result.
func (f *function) returnSlots() int {
	return f.signature.Return.Slots()
}

// Compiler compiles one c0 source file. It is not safe for concurrent use
// and should be used for a single compilation.
type Compiler struct {
	l *lexer.Lexer

	// peeked is the one-token lookahead slot. peek fills it lazily and
	// next drains it.
	peeked *token.Token

	// last is the most recently consumed token.
	last token.Token

	symbols *SymbolTable

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn

	// entry receives global initializers; current is the function whose
	// body is being parsed, or entry at the top level.
	entry   *function
	current *function

	globals   []bytecode.Global
	functions []*bytecode.Function
	mainTok   token.Token

	filename string
	depth    int
	maxDepth int
	log      zerolog.Logger
}

// Compile compiles the given source and returns the resulting module.
// Pass nil for cfg to use default settings.
func Compile(source string, cfg *Config) (*bytecode.Module, error) {
	return New(source, cfg).Compile()
}

// New creates a Compiler for the given source. Pass nil for cfg to use
// defaults.
func New(source string, cfg *Config) *Compiler {
	c := &Compiler{
		symbols:        NewSymbolTable(),
		prefixParseFns: map[token.Type]prefixParseFn{},
		infixParseFns:  map[token.Type]infixParseFn{},
		maxDepth:       DefaultMaxDepth,
		log:            zerolog.Nop(),
	}
	if cfg != nil {
		c.filename = cfg.Filename
		if cfg.MaxDepth > 0 {
			c.maxDepth = cfg.MaxDepth
		}
		if cfg.Logger != nil {
			c.log = *cfg.Logger
		}
	}
	c.l = lexer.New(source, lexer.WithFile(c.filename))
	c.entry = &function{
		name:      bytecode.EntryName,
		signature: &Signature{Return: Void},
		code:      newEmitter(),
	}
	c.current = c.entry
	c.symbols.reserve(bytecode.EntryName)
	for _, b := range builtins {
		c.symbols.declareBuiltin(b)
	}

	c.registerPrefix(token.IDENT, c.parseIdent)
	c.registerPrefix(token.UINT_LITERAL, c.parseUint)
	c.registerPrefix(token.DOUBLE_LITERAL, c.parseDouble)
	c.registerPrefix(token.STRING_LITERAL, c.parseString)
	c.registerPrefix(token.LPAREN, c.parseGroupedExpr)
	c.registerPrefix(token.MINUS, c.parseNegation)

	c.registerInfix(token.PLUS, c.parseArithmetic)
	c.registerInfix(token.MINUS, c.parseArithmetic)
	c.registerInfix(token.ASTERISK, c.parseArithmetic)
	c.registerInfix(token.SLASH, c.parseArithmetic)
	c.registerInfix(token.EQ, c.parseComparison)
	c.registerInfix(token.NOT_EQ, c.parseComparison)
	c.registerInfix(token.LT, c.parseComparison)
	c.registerInfix(token.GT, c.parseComparison)
	c.registerInfix(token.LT_EQUALS, c.parseComparison)
	c.registerInfix(token.GT_EQUALS, c.parseComparison)
	c.registerInfix(token.AS, c.parseCast)
	c.registerInfix(token.ASSIGN, c.parseInvalidAssign)
	return c
}

func (c *Compiler) registerPrefix(tokenType token.Type, fn prefixParseFn) {
	c.prefixParseFns[tokenType] = fn
}

func (c *Compiler) registerInfix(tokenType token.Type, fn infixParseFn) {
	c.infixParseFns[tokenType] = fn
}

// Compile parses the whole program and assembles the module. It returns
// the first error encountered.
func (c *Compiler) Compile() (*bytecode.Module, error) {
	if err := c.parseProgram(); err != nil {
		return nil, err
	}
	entry, err := c.finishEntry()
	if err != nil {
		return nil, err
	}
	module := bytecode.NewModule(bytecode.ModuleParams{
		Globals:   c.globals,
		Functions: c.functions,
		Entry:     entry,
		Filename:  c.filename,
	})
	stats := module.Stats()
	c.log.Debug().
		Str("file", c.filename).
		Int("globals", stats.GlobalCount).
		Int("strings", stats.StringCount).
		Int("functions", stats.FunctionCount).
		Int("instructions", stats.InstructionCount).
		Msg("compiled module")
	return module, nil
}

// finishEntry appends the call to main, if any, to the global initializers.
func (c *Compiler) finishEntry() (*bytecode.Function, error) {
	e := c.entry
	c.current = e
	if sym, ok := c.symbols.Resolve(MainName); ok && sym.Scope() == Function {
		if len(sym.Signature().Params) > 0 {
			return nil, c.errorAt(c.mainTok, errors.ArgumentCount,
				"%s must not take parameters", MainName)
		}
		retSlots := sym.Signature().Return.Slots()
		c.emitOperand(op.StackAlloc, uint64(retSlots))
		c.emitOperand(op.Call, callOperand(sym.Index()))
		if retSlots > 0 {
			c.emitOperand(op.PopN, uint64(retSlots))
		}
	}
	c.emit(op.Ret)
	code := e.code.finish()
	return bytecode.NewFunction(bytecode.FunctionParams{
		Name:         e.name,
		Instructions: code.instructions,
		Locations:    code.locations,
	}), nil
}

// callOperand converts a position in the user function table into the
// operand of a call instruction. The entry function occupies index 0.
func callOperand(index int) uint64 {
	return uint64(index + 1)
}

// Globals returns the globals declared so far.
func (c *Compiler) Globals() []bytecode.Global {
	return c.globals
}

// Symbols returns the compiler's symbol table.
func (c *Compiler) Symbols() *SymbolTable {
	return c.symbols
}

// locate attaches the position of tok to an error returned by the symbol
// table, which does not know where names appear.
func (c *Compiler) locate(err error, tok token.Token) error {
	var ce *errors.CompileError
	if !goerrors.As(err, &ce) {
		return err
	}
	return errors.New(errors.ErrorOpts{
		Code:          ce.Code,
		Message:       ce.Message,
		StartPosition: tok.StartPosition,
		EndPosition:   tok.EndPosition,
		SourceCode:    c.l.GetLineText(tok),
		Found:         tok,
		Suggestions:   ce.Suggestions,
		Note:          ce.Note,
	})
}
