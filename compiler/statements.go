package compiler

import (
	"github.com/c0lang/c0/bytecode"
	"github.com/c0lang/c0/errors"
	"github.com/c0lang/c0/op"
	"github.com/c0lang/c0/token"
)

// parseProgram parses top-level function and variable declarations until
// the end of input.
func (c *Compiler) parseProgram() error {
	for {
		tok, err := c.peek()
		if err != nil {
			return err
		}
		switch tok.Type {
		case token.EOF:
			return nil
		case token.FN:
			err = c.parseFunction()
		case token.LET, token.CONST:
			err = c.parseDeclaration()
		default:
			return c.unexpected(tok, "at top level (expected a function or declaration)")
		}
		if err != nil {
			return err
		}
	}
}

type param struct {
	name    token.Token
	isConst bool
	typ     ValueType
}

func (c *Compiler) parseParams() ([]param, error) {
	if closed, err := c.peekIs(token.RPAREN); err != nil || closed {
		return nil, err
	}
	var params []param
	for {
		isConst, err := c.accept(token.CONST)
		if err != nil {
			return nil, err
		}
		name, err := c.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := c.expect(token.COLON); err != nil {
			return nil, err
		}
		typ, err := c.expect(variableTypes...)
		if err != nil {
			return nil, err
		}
		params = append(params, param{name: name, isConst: isConst, typ: typeNames[typ.Type]})
		more, err := c.accept(token.COMMA)
		if err != nil || !more {
			return params, err
		}
	}
}

func (c *Compiler) parseFunction() error {
	if _, err := c.expect(token.FN); err != nil {
		return err
	}
	name, err := c.expect(token.IDENT)
	if err != nil {
		return err
	}
	if _, err := c.expect(token.LPAREN); err != nil {
		return err
	}
	params, err := c.parseParams()
	if err != nil {
		return err
	}
	if _, err := c.expect(token.RPAREN); err != nil {
		return err
	}
	if _, err := c.expect(token.ARROW); err != nil {
		return err
	}
	ret, err := c.expect(returnTypes...)
	if err != nil {
		return err
	}
	sig := &Signature{Return: typeNames[ret.Type]}
	for _, p := range params {
		sig.Params = append(sig.Params, p.typ)
	}

	// Declared before the body is parsed so the function may call itself
	index := len(c.functions)
	if _, err := c.symbols.DeclareFunction(name.Literal, index, sig); err != nil {
		return c.locate(err, name)
	}
	if name.Literal == MainName {
		c.mainTok = name
	}
	c.functions = append(c.functions, nil)

	fn := &function{name: name.Literal, signature: sig, code: newEmitter()}
	c.current = fn
	c.symbols.EnterFunction()
	for _, p := range params {
		if _, err := c.symbols.DeclareParam(p.name.Literal, p.isConst, p.typ); err != nil {
			return c.locate(err, p.name)
		}
	}
	returned, err := c.parseBlockBody()
	if err != nil {
		return err
	}
	if !returned {
		c.emit(op.Ret)
	}
	code := fn.code.finish()
	c.functions[index] = bytecode.NewFunction(bytecode.FunctionParams{
		Name:         fn.name,
		ReturnSlots:  sig.Return.Slots(),
		ParamSlots:   len(params),
		LocalSlots:   c.symbols.LocalCount(),
		Instructions: code.instructions,
		Locations:    code.locations,
	})
	c.log.Debug().
		Str("function", fn.name).
		Int("index", index).
		Int("params", len(params)).
		Int("locals", c.symbols.LocalCount()).
		Int("instructions", code.len()).
		Msg("compiled function")

	c.symbols.PopScope()
	c.current = c.entry
	return nil
}

// parseDeclaration parses a let or const declaration. The initializer is
// compiled before the name is declared, so it cannot refer to the variable
// being declared.
func (c *Compiler) parseDeclaration() error {
	kw, err := c.expect(token.LET, token.CONST)
	if err != nil {
		return err
	}
	isConst := kw.Type == token.CONST
	name, err := c.expect(token.IDENT)
	if err != nil {
		return err
	}
	if _, err := c.expect(token.COLON); err != nil {
		return err
	}
	typTok, err := c.expect(variableTypes...)
	if err != nil {
		return err
	}
	var initialized bool
	if isConst {
		if _, err := c.expect(token.ASSIGN); err != nil {
			return err
		}
		initialized = true
	} else if initialized, err = c.accept(token.ASSIGN); err != nil {
		return err
	}
	if initialized {
		if _, err := c.parseValue(); err != nil {
			return err
		}
	} else {
		c.emitOperand(op.Push, 0)
	}
	sym, err := c.symbols.Declare(name.Literal, isConst, initialized, typeNames[typTok.Type])
	if err != nil {
		return c.locate(err, name)
	}
	if sym.Scope() == Global {
		c.globals = append(c.globals, bytecode.NewVariable(name.Literal, isConst))
		c.log.Debug().
			Str("global", name.Literal).
			Int("index", sym.Index()).
			Bool("const", isConst).
			Msg("declared global")
	}
	c.emitStore(sym)
	_, err = c.expect(token.SEMICOLON)
	return err
}

// parseStatement parses one statement and reports whether it always ends
// in a return at this level.
func (c *Compiler) parseStatement() (bool, error) {
	tok, err := c.peek()
	if err != nil {
		return false, err
	}
	if err := c.enter(tok); err != nil {
		return false, err
	}
	defer c.leave()

	switch tok.Type {
	case token.LET, token.CONST:
		return false, c.parseDeclaration()
	case token.IF:
		return false, c.parseIf()
	case token.WHILE:
		return false, c.parseWhile()
	case token.RETURN:
		return true, c.parseReturn()
	case token.LBRACE:
		return c.parseBlock()
	case token.SEMICOLON:
		_, err := c.next()
		return false, err
	default:
		return false, c.parseExpressionStatement()
	}
}

// parseBlock parses a block in a scope of its own.
func (c *Compiler) parseBlock() (bool, error) {
	c.symbols.PushScope()
	defer c.symbols.PopScope()
	return c.parseBlockBody()
}

// parseBlockBody parses '{' stmt+ '}' in the current scope and reports
// whether its last statement returns.
func (c *Compiler) parseBlockBody() (bool, error) {
	if _, err := c.expect(token.LBRACE); err != nil {
		return false, err
	}
	if tok, err := c.peek(); err != nil {
		return false, err
	} else if tok.Type == token.RBRACE {
		return false, c.errorAt(tok, errors.UnexpectedToken,
			"a block must contain at least one statement")
	}
	var returned bool
	for {
		done, err := c.accept(token.RBRACE)
		if err != nil {
			return false, err
		}
		if done {
			return returned, nil
		}
		if returned, err = c.parseStatement(); err != nil {
			return false, err
		}
	}
}

func (c *Compiler) parseExpressionStatement() error {
	typ, err := c.parseExpression(LOWEST)
	if err != nil {
		return err
	}
	if typ != Void {
		c.emit(op.Pop)
	}
	_, err = c.expect(token.SEMICOLON)
	return err
}

// parseIf compiles
//
//	cond; br.false L1; then; br L2; L1: else; L2:
//
// with the bodies emitted into nested buffers first so both branch offsets
// are known when the branches are appended.
func (c *Compiler) parseIf() error {
	ifTok, err := c.expect(token.IF)
	if err != nil {
		return err
	}
	if err := c.enter(ifTok); err != nil {
		return err
	}
	defer c.leave()

	if _, err := c.parseValue(); err != nil {
		return err
	}
	code := c.current.code
	code.begin()
	if _, err := c.parseBlock(); err != nil {
		return err
	}
	then := code.end()

	hasElse, err := c.accept(token.ELSE)
	if err != nil {
		return err
	}
	if !hasElse {
		c.emitBranch(op.BrFalse, then.len())
		code.splice(then)
		return nil
	}

	code.begin()
	if elseIf, err := c.peekIs(token.IF); err != nil {
		return err
	} else if elseIf {
		err = c.parseIf()
	} else {
		_, err = c.parseBlock()
	}
	if err != nil {
		return err
	}
	alt := code.end()

	c.emitBranch(op.BrFalse, then.len()+1)
	code.splice(then)
	c.emitBranch(op.Br, alt.len())
	code.splice(alt)
	return nil
}

// parseWhile compiles
//
//	L1: cond; br.false L2; body; br L1; L2:
func (c *Compiler) parseWhile() error {
	if _, err := c.expect(token.WHILE); err != nil {
		return err
	}
	code := c.current.code
	start := code.len()
	if _, err := c.parseValue(); err != nil {
		return err
	}
	code.begin()
	if _, err := c.parseBlock(); err != nil {
		return err
	}
	body := code.end()
	c.emitBranch(op.BrFalse, body.len()+1)
	code.splice(body)
	c.emitBranch(op.Br, start-(code.len()+1))
	return nil
}

// parseReturn stores the result, if any, into return slot 0 and returns.
func (c *Compiler) parseReturn() error {
	ret, err := c.expect(token.RETURN)
	if err != nil {
		return err
	}
	fn := c.current
	bare, err := c.peekIs(token.SEMICOLON)
	if err != nil {
		return err
	}
	switch {
	case bare && fn.signature.Return != Void:
		return c.errorAt(ret, errors.InvalidReturn,
			"function %q must return a %s value", fn.name, fn.signature.Return)
	case !bare && fn.signature.Return == Void:
		return c.errorAt(ret, errors.InvalidReturn,
			"function %q returns void and cannot return a value", fn.name)
	case !bare:
		if _, err := c.parseValue(); err != nil {
			return err
		}
		c.emitOperand(op.StoreArg, 0)
	}
	c.emit(op.Ret)
	_, err = c.expect(token.SEMICOLON)
	return err
}
