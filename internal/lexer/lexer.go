// Package lexer converts c0 source text into a stream of tokens.
package lexer

import (
	"strings"
	"unicode"

	"github.com/c0lang/c0/errors"
	"github.com/c0lang/c0/token"
)

// Lexer produces tokens from c0 source text on demand. It holds no
// lookahead beyond the cursor's current rune.
type Lexer struct {
	cursor *Cursor
}

// Option is a configuration function for a Lexer.
type Option func(*Lexer)

// WithFile sets the filename reported in token positions.
func WithFile(file string) Option {
	return func(l *Lexer) {
		l.SetFilename(file)
	}
}

// New returns a Lexer for the given input.
func New(input string, opts ...Option) *Lexer {
	l := &Lexer{cursor: NewCursor(input)}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Filename returns the name of the file being lexed.
func (l *Lexer) Filename() string {
	return l.cursor.file
}

// SetFilename sets the name of the file being lexed.
func (l *Lexer) SetFilename(file string) {
	l.cursor.file = file
}

// Position returns the position of the next rune to be read.
func (l *Lexer) Position() token.Position {
	return l.cursor.Position()
}

// GetLineText returns the full source line on which tok starts.
func (l *Lexer) GetLineText(tok token.Token) string {
	return l.cursor.Line(tok.StartPosition.LineStart)
}

// Next returns the next token. Once the input is exhausted every call
// returns an EOF token.
func (l *Lexer) Next() (token.Token, error) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return token.Token{}, err
	}
	c := l.cursor
	if c.EOF() {
		pos := c.Position()
		return token.Token{Type: token.EOF, StartPosition: pos, EndPosition: pos}, nil
	}
	ch := c.Peek()
	switch {
	case ch == '"':
		return l.readString()
	case isDigit(ch):
		return l.readNumber()
	case isLetter(ch):
		return l.readIdentifier(), nil
	default:
		return l.readOperator()
	}
}

// Tokens lexes the remaining input, returning every token up to and
// including EOF.
func (l *Lexer) Tokens() ([]token.Token, error) {
	var tokens []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) skipWhitespaceAndComments() error {
	c := l.cursor
	for !c.EOF() {
		ch := c.Peek()
		switch {
		case unicode.IsSpace(ch):
			c.Next()
		case ch == '/' && c.PeekAt(1) == '/':
			for !c.EOF() && c.Peek() != '\n' {
				c.Next()
			}
		default:
			return nil
		}
	}
	return nil
}

func (l *Lexer) readIdentifier() token.Token {
	c := l.cursor
	start := c.Position()
	var sb strings.Builder
	for isLetter(c.Peek()) || isDigit(c.Peek()) {
		sb.WriteRune(c.Next())
	}
	literal := sb.String()
	return token.Token{
		Type:          token.LookupIdentifier(literal),
		Literal:       literal,
		StartPosition: start,
		EndPosition:   c.PreviousPosition(),
	}
}

// readNumber reads an unsigned integer or a double literal. A '.' must be
// followed by at least one digit. An exponent marker may only follow the
// fraction and must itself be followed by a digit.
func (l *Lexer) readNumber() (token.Token, error) {
	c := l.cursor
	start := c.Position()
	var sb strings.Builder
	isDouble := false
	readDigits := func() {
		for isDigit(c.Peek()) {
			sb.WriteRune(c.Next())
		}
	}
	readDigits()
	if c.Peek() == '.' {
		isDouble = true
		sb.WriteRune(c.Next())
		if !isDigit(c.Peek()) {
			return token.Token{}, l.numberError(start, sb.String(), "expected digit after '.'")
		}
		readDigits()
		if ch := c.Peek(); ch == 'e' || ch == 'E' {
			sb.WriteRune(c.Next())
			if !isDigit(c.Peek()) {
				return token.Token{}, l.numberError(start, sb.String(), "expected digit in exponent")
			}
			readDigits()
		}
	}
	tokenType := token.UINT_LITERAL
	if isDouble {
		tokenType = token.DOUBLE_LITERAL
	}
	return token.Token{
		Type:          tokenType,
		Literal:       sb.String(),
		StartPosition: start,
		EndPosition:   c.PreviousPosition(),
	}, nil
}

func (l *Lexer) numberError(start token.Position, literal, msg string) error {
	pos := l.cursor.Position()
	return errors.New(errors.ErrorOpts{
		Code:          errors.InvalidInput,
		Message:       "invalid number literal " + quote(literal) + ": " + msg,
		StartPosition: pos,
		SourceCode:    l.cursor.Line(pos.LineStart),
		Found:         token.Token{Literal: literal, StartPosition: start, EndPosition: l.cursor.PreviousPosition()},
	})
}

func (l *Lexer) readString() (token.Token, error) {
	c := l.cursor
	start := c.Position()
	c.Next() // opening quote
	var sb strings.Builder
	for {
		if c.EOF() || isLineControl(c.Peek()) {
			return token.Token{}, errors.New(errors.ErrorOpts{
				Code:          errors.UnterminatedString,
				Message:       "unterminated string literal",
				StartPosition: start,
				EndPosition:   c.PreviousPosition(),
				SourceCode:    c.Line(start.LineStart),
			})
		}
		ch := c.Next()
		if ch == '"' {
			break
		}
		if ch != '\\' {
			sb.WriteRune(ch)
			continue
		}
		escPos := c.PreviousPosition()
		esc := c.Next()
		switch esc {
		case '\\', '"', '\'':
			sb.WriteRune(esc)
		case 'n':
			sb.WriteRune('\n')
		case 'r':
			sb.WriteRune('\r')
		case 't':
			sb.WriteRune('\t')
		default:
			if esc == 0 {
				continue // reported as unterminated on the next iteration
			}
			return token.Token{}, errors.New(errors.ErrorOpts{
				Code:          errors.InvalidEscapeSequence,
				Message:       "invalid escape sequence " + quote("\\"+string(esc)),
				StartPosition: escPos,
				EndPosition:   c.PreviousPosition(),
				SourceCode:    c.Line(escPos.LineStart),
			})
		}
	}
	return token.Token{
		Type:          token.STRING_LITERAL,
		Literal:       sb.String(),
		StartPosition: start,
		EndPosition:   c.PreviousPosition(),
	}, nil
}

// twoChar maps the first rune of an operator to the second runes that
// extend it and the resulting token types.
var twoChar = map[rune]map[rune]token.Type{
	'-': {'>': token.ARROW},
	'=': {'=': token.EQ},
	'!': {'=': token.NOT_EQ},
	'<': {'=': token.LT_EQUALS},
	'>': {'=': token.GT_EQUALS},
}

var oneChar = map[rune]token.Type{
	'+': token.PLUS,
	'-': token.MINUS,
	'*': token.ASTERISK,
	'/': token.SLASH,
	'=': token.ASSIGN,
	'<': token.LT,
	'>': token.GT,
	'(': token.LPAREN,
	')': token.RPAREN,
	'{': token.LBRACE,
	'}': token.RBRACE,
	',': token.COMMA,
	':': token.COLON,
	';': token.SEMICOLON,
}

func (l *Lexer) readOperator() (token.Token, error) {
	c := l.cursor
	start := c.Position()
	ch := c.Next()
	if ext, ok := twoChar[ch]; ok {
		if tokenType, ok := ext[c.Peek()]; ok {
			second := c.Next()
			return token.Token{
				Type:          tokenType,
				Literal:       string([]rune{ch, second}),
				StartPosition: start,
				EndPosition:   c.PreviousPosition(),
			}, nil
		}
	}
	if tokenType, ok := oneChar[ch]; ok {
		return token.Token{
			Type:          tokenType,
			Literal:       string(ch),
			StartPosition: start,
			EndPosition:   start,
		}, nil
	}
	return token.Token{}, errors.New(errors.ErrorOpts{
		Code:          errors.InvalidInput,
		Message:       "invalid character " + quote(string(ch)),
		StartPosition: start,
		SourceCode:    c.Line(start.LineStart),
		Found:         token.Token{Literal: string(ch), StartPosition: start, EndPosition: start},
	})
}

func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

// isLineControl reports whether ch may not appear raw inside a string
// literal.
func isLineControl(ch rune) bool {
	return ch == '\n' || ch == '\r' || ch == '\t'
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func quote(s string) string {
	return "'" + s + "'"
}
