package compiler

import (
	"fmt"

	"github.com/c0lang/c0/bytecode"
	"github.com/c0lang/c0/errors"
	"github.com/c0lang/c0/op"
	"github.com/c0lang/c0/token"
)

// peek returns the next token without consuming it.
func (c *Compiler) peek() (token.Token, error) {
	if c.peeked == nil {
		tok, err := c.l.Next()
		if err != nil {
			return token.Token{}, err
		}
		c.peeked = &tok
	}
	return *c.peeked, nil
}

// next consumes and returns the next token.
func (c *Compiler) next() (token.Token, error) {
	tok, err := c.peek()
	if err != nil {
		return tok, err
	}
	c.peeked = nil
	c.last = tok
	return tok, nil
}

// peekIs reports whether the next token has the given type.
func (c *Compiler) peekIs(t token.Type) (bool, error) {
	tok, err := c.peek()
	if err != nil {
		return false, err
	}
	return tok.Type == t, nil
}

// accept consumes the next token if it has the given type.
func (c *Compiler) accept(t token.Type) (bool, error) {
	ok, err := c.peekIs(t)
	if err != nil || !ok {
		return false, err
	}
	_, err = c.next()
	return true, err
}

// expect consumes the next token, failing with ExpectedToken unless its
// type is one of expected.
func (c *Compiler) expect(expected ...token.Type) (token.Token, error) {
	tok, err := c.peek()
	if err != nil {
		return tok, err
	}
	for _, t := range expected {
		if tok.Type == t {
			return c.next()
		}
	}
	return tok, c.expectedError(tok, expected...)
}

func (c *Compiler) expectedError(found token.Token, expected ...token.Type) error {
	return errors.New(errors.ErrorOpts{
		Code: errors.ExpectedToken,
		Message: fmt.Sprintf("expected %s, found %s",
			errors.DescribeExpected(expected), describe(found)),
		StartPosition: found.StartPosition,
		EndPosition:   found.EndPosition,
		SourceCode:    c.l.GetLineText(found),
		Expected:      expected,
		Found:         found,
	})
}

func (c *Compiler) errorAt(tok token.Token, code errors.ErrorCode, format string, args ...any) error {
	return errors.New(errors.ErrorOpts{
		Code:          code,
		Message:       fmt.Sprintf(format, args...),
		StartPosition: tok.StartPosition,
		EndPosition:   tok.EndPosition,
		SourceCode:    c.l.GetLineText(tok),
		Found:         tok,
	})
}

func (c *Compiler) unexpected(tok token.Token, context string) error {
	return c.errorAt(tok, errors.UnexpectedToken, "unexpected %s %s", describe(tok), context)
}

// describe renders a token for diagnostics, using its spelling when it has
// one.
func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of file"
	case token.IDENT:
		return fmt.Sprintf("identifier %q", tok.Literal)
	case token.UINT_LITERAL, token.DOUBLE_LITERAL:
		return fmt.Sprintf("number %s", tok.Literal)
	case token.STRING_LITERAL:
		return "string literal"
	default:
		return fmt.Sprintf("%q", tok.Literal)
	}
}

// enter guards against unbounded recursion on deeply nested input.
func (c *Compiler) enter(tok token.Token) error {
	c.depth++
	if c.depth > c.maxDepth {
		return c.errorAt(tok, errors.MaxDepth, "maximum nesting depth of %d exceeded", c.maxDepth)
	}
	return nil
}

func (c *Compiler) leave() {
	c.depth--
}

// location returns the source location of the most recently consumed
// token, recorded against emitted instructions.
func (c *Compiler) location() bytecode.SourceLocation {
	pos := c.last.StartPosition
	if c.last.Type == "" {
		return bytecode.SourceLocation{}
	}
	return bytecode.SourceLocation{Line: pos.LineNumber(), Column: pos.ColumnNumber()}
}

func (c *Compiler) emit(code op.Code) int {
	return c.current.code.emit(bytecode.Inst(code), c.location())
}

func (c *Compiler) emitOperand(code op.Code, operand uint64) int {
	return c.current.code.emit(bytecode.InstWith(code, operand), c.location())
}

// emitBranch emits a branch whose offset is relative to the instruction
// that follows it.
func (c *Compiler) emitBranch(code op.Code, offset int) int {
	return c.emitOperand(code, uint64(uint32(int32(offset))))
}

// emitLoad emits the load instruction matching the symbol's storage.
func (c *Compiler) emitLoad(sym *Symbol) {
	switch sym.Scope() {
	case Global:
		c.emitOperand(op.LoadGlobal, uint64(sym.Index()))
	case Param:
		c.emitOperand(op.LoadArg, uint64(c.argSlot(sym)))
	case Local:
		c.emitOperand(op.LoadLocal, uint64(sym.Index()))
	}
}

// emitStore emits the store instruction matching the symbol's storage.
func (c *Compiler) emitStore(sym *Symbol) {
	switch sym.Scope() {
	case Global:
		c.emitOperand(op.StoreGlobal, uint64(sym.Index()))
	case Param:
		c.emitOperand(op.StoreArg, uint64(c.argSlot(sym)))
	case Local:
		c.emitOperand(op.StoreLocal, uint64(sym.Index()))
	}
}

// argSlot maps a parameter to its argument slot. The return slots sit
// below the parameters in the caller-built frame.
func (c *Compiler) argSlot(sym *Symbol) int {
	return c.current.returnSlots() + sym.Index()
}
