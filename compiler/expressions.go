package compiler

import (
	"math"
	"strconv"

	"github.com/c0lang/c0/bytecode"
	"github.com/c0lang/c0/errors"
	"github.com/c0lang/c0/op"
	"github.com/c0lang/c0/token"
)

// parseExpression parses an expression whose operators all bind tighter
// than precedence.
func (c *Compiler) parseExpression(precedence int) (ValueType, error) {
	tok, err := c.next()
	if err != nil {
		return Void, err
	}
	if err := c.enter(tok); err != nil {
		return Void, err
	}
	defer c.leave()

	prefix := c.prefixParseFns[tok.Type]
	if prefix == nil {
		return Void, c.unexpected(tok, "where an expression was expected")
	}
	left, err := prefix(tok, precedence)
	if err != nil {
		return Void, err
	}
	for {
		peek, err := c.peek()
		if err != nil {
			return Void, err
		}
		if precedence >= precedenceOf(peek.Type) {
			return left, nil
		}
		infix := c.infixParseFns[peek.Type]
		if infix == nil {
			return left, nil
		}
		opTok, err := c.next()
		if err != nil {
			return Void, err
		}
		if left, err = infix(left, opTok); err != nil {
			return Void, err
		}
	}
}

// parseValue parses an expression that must produce a value.
func (c *Compiler) parseValue() (ValueType, error) {
	start, err := c.peek()
	if err != nil {
		return Void, err
	}
	typ, err := c.parseExpression(LOWEST)
	if err != nil {
		return Void, err
	}
	if typ == Void {
		return Void, c.errorAt(start, errors.VoidValue, "expression has no value")
	}
	return typ, nil
}

func (c *Compiler) parseIdent(tok token.Token, precedence int) (ValueType, error) {
	next, err := c.peek()
	if err != nil {
		return Void, err
	}
	switch {
	case next.Type == token.LPAREN:
		return c.parseCall(tok)
	case next.Type == token.ASSIGN && precedence == LOWEST:
		return c.parseAssign(tok)
	}
	sym, err := c.symbols.ResolveRead(tok.Literal)
	if err != nil {
		return Void, c.locate(err, tok)
	}
	c.emitLoad(sym)
	return sym.Type(), nil
}

// parseAssign compiles name = expr. An assignment has no value, so it can
// only appear as a whole expression statement.
func (c *Compiler) parseAssign(name token.Token) (ValueType, error) {
	sym, err := c.symbols.ResolveAssign(name.Literal)
	if err != nil {
		return Void, c.locate(err, name)
	}
	if _, err := c.expect(token.ASSIGN); err != nil {
		return Void, err
	}
	if _, err := c.parseValue(); err != nil {
		return Void, err
	}
	c.emitStore(sym)
	if err := c.symbols.MarkInitialized(name.Literal); err != nil {
		return Void, c.locate(err, name)
	}
	return Void, nil
}

func (c *Compiler) parseInvalidAssign(left ValueType, tok token.Token) (ValueType, error) {
	return Void, c.errorAt(tok, errors.InvalidAssignment,
		"the left side of an assignment must be a variable name")
}

// parseCall compiles a call to a user function or builtin. User functions
// get their return slots reserved before the arguments are pushed; builtins
// lower to a single instruction after their arguments.
func (c *Compiler) parseCall(name token.Token) (ValueType, error) {
	sym, err := c.symbols.ResolveCall(name.Literal)
	if err != nil {
		return Void, c.locate(err, name)
	}
	sig := sym.Signature()
	if _, err := c.expect(token.LPAREN); err != nil {
		return Void, err
	}
	if sym.Scope() == Function {
		c.emitOperand(op.StackAlloc, uint64(sig.Return.Slots()))
	}
	argc := 0
	closed, err := c.accept(token.RPAREN)
	if err != nil {
		return Void, err
	}
	for !closed {
		if _, err := c.parseValue(); err != nil {
			return Void, err
		}
		argc++
		tok, err := c.expect(token.COMMA, token.RPAREN)
		if err != nil {
			return Void, err
		}
		closed = tok.Type == token.RPAREN
	}
	if argc != len(sig.Params) {
		return Void, c.errorAt(name, errors.ArgumentCount,
			"%s expects %d argument(s), got %d", name.Literal, len(sig.Params), argc)
	}
	if sym.Scope() == Builtin {
		c.emit(sym.builtin.code)
	} else {
		c.emitOperand(op.Call, callOperand(sym.Index()))
	}
	return sig.Return, nil
}

func (c *Compiler) parseUint(tok token.Token, precedence int) (ValueType, error) {
	value, err := strconv.ParseUint(tok.Literal, 10, 64)
	if err != nil {
		return Void, c.errorAt(tok, errors.InvalidInput,
			"integer literal %s does not fit in 64 bits", tok.Literal)
	}
	c.emitOperand(op.Push, value)
	return Int, nil
}

func (c *Compiler) parseDouble(tok token.Token, precedence int) (ValueType, error) {
	value, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		return Void, c.errorAt(tok, errors.InvalidInput,
			"floating point literal %s is out of range", tok.Literal)
	}
	c.emitOperand(op.Push, math.Float64bits(value))
	return Double, nil
}

// parseString interns the literal as a global and pushes its index.
func (c *Compiler) parseString(tok token.Token, precedence int) (ValueType, error) {
	index := c.symbols.ClaimSlot()
	c.globals = append(c.globals, bytecode.NewString(tok.Literal))
	c.emitOperand(op.Push, uint64(index))
	return String, nil
}

func (c *Compiler) parseGroupedExpr(tok token.Token, precedence int) (ValueType, error) {
	typ, err := c.parseExpression(LOWEST)
	if err != nil {
		return Void, err
	}
	if _, err := c.expect(token.RPAREN); err != nil {
		return Void, err
	}
	return typ, nil
}

// parseNegation compiles -x as 0 - x.
func (c *Compiler) parseNegation(tok token.Token, precedence int) (ValueType, error) {
	c.emitOperand(op.Push, 0)
	typ, err := c.parseExpression(PREFIX)
	if err != nil {
		return Void, err
	}
	switch typ {
	case Int:
		c.emit(op.SubI)
	case Double:
		c.emit(op.SubF)
	case Void:
		return Void, c.errorAt(tok, errors.VoidValue, "cannot negate a void value")
	default:
		return Void, c.errorAt(tok, errors.TypeMismatch, "cannot negate a %s", typ)
	}
	return typ, nil
}

// numericOperands checks the operands of a binary operator and returns
// their common type.
func (c *Compiler) numericOperands(left, right ValueType, tok token.Token) (ValueType, error) {
	if left == Void || right == Void {
		return Void, c.errorAt(tok, errors.VoidValue,
			"void value used as an operand of %s", tok.Literal)
	}
	if left != right {
		return Void, c.errorAt(tok, errors.TypeMismatch,
			"mismatched types %s and %s for %s", left, right, tok.Literal)
	}
	if left == String {
		return Void, c.errorAt(tok, errors.TypeMismatch,
			"operator %s is not defined for strings", tok.Literal)
	}
	return left, nil
}

// arithmeticOps maps each arithmetic operator to its int and double opcode.
var arithmeticOps = map[token.Type][2]op.Code{
	token.PLUS:     {op.AddI, op.AddF},
	token.MINUS:    {op.SubI, op.SubF},
	token.ASTERISK: {op.MulI, op.MulF},
	token.SLASH:    {op.DivI, op.DivF},
}

func (c *Compiler) parseArithmetic(left ValueType, tok token.Token) (ValueType, error) {
	if left == Void {
		return Void, c.errorAt(tok, errors.VoidValue,
			"void value used as an operand of %s", tok.Literal)
	}
	right, err := c.parseExpression(precedenceOf(tok.Type))
	if err != nil {
		return Void, err
	}
	typ, err := c.numericOperands(left, right, tok)
	if err != nil {
		return Void, err
	}
	codes := arithmeticOps[tok.Type]
	if typ == Double {
		c.emit(codes[1])
	} else {
		c.emit(codes[0])
	}
	return typ, nil
}

// comparisonOps lists what follows the compare instruction for each
// operator. The compare leaves zero when the operands are equal, so
// equality is tested by negating it.
var comparisonOps = map[token.Type][]op.Code{
	token.EQ:        {op.Not},
	token.NOT_EQ:    nil,
	token.LT:        {op.SetLt},
	token.GT:        {op.SetGt},
	token.LT_EQUALS: {op.SetGt, op.Not},
	token.GT_EQUALS: {op.SetLt, op.Not},
}

func (c *Compiler) parseComparison(left ValueType, tok token.Token) (ValueType, error) {
	if left == Void {
		return Void, c.errorAt(tok, errors.VoidValue,
			"void value used as an operand of %s", tok.Literal)
	}
	right, err := c.parseExpression(precedenceOf(tok.Type))
	if err != nil {
		return Void, err
	}
	typ, err := c.numericOperands(left, right, tok)
	if err != nil {
		return Void, err
	}
	if typ == Double {
		c.emit(op.CmpF)
	} else {
		c.emit(op.CmpI)
	}
	for _, code := range comparisonOps[tok.Type] {
		c.emit(code)
	}
	return Int, nil
}

// parseCast compiles x as T. Converting a value to its own type emits
// nothing.
func (c *Compiler) parseCast(left ValueType, tok token.Token) (ValueType, error) {
	typTok, err := c.expect(variableTypes...)
	if err != nil {
		return Void, err
	}
	target := typeNames[typTok.Type]
	switch {
	case left == Void:
		return Void, c.errorAt(tok, errors.VoidValue, "cannot convert a void value")
	case left == String:
		return Void, c.errorAt(tok, errors.TypeMismatch, "cannot convert a string to %s", target)
	case left == Int && target == Double:
		c.emit(op.ItoF)
	case left == Double && target == Int:
		c.emit(op.FtoI)
	}
	return target, nil
}
