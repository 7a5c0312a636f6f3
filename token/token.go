// Package token defines language keywords and tokens used when lexing source code.
package token

import (
	"fmt"
	"sort"
)

// Type describes the type of a token as a string.
type Type string

// Position points to a particular location in an input string.
type Position struct {
	Char      int    // rune offset within the input
	LineStart int    // rune offset of the start of the current line
	Line      int    // 0-indexed line number
	Column    int    // 0-indexed column number
	File      string // filename
}

// LineNumber returns the 1-indexed line number for this position in the input.
func (p Position) LineNumber() int {
	return p.Line + 1
}

// ColumnNumber returns the 1-indexed column number for this position in the input.
func (p Position) ColumnNumber() int {
	return p.Column + 1
}

// IsValid returns true if this position has been set.
func (p Position) IsValid() bool {
	return p.File != "" || p.Line > 0 || p.Column > 0 || p.Char > 0
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.LineNumber(), p.ColumnNumber())
	}
	return fmt.Sprintf("%d:%d", p.LineNumber(), p.ColumnNumber())
}

// NoPos is the zero value Position, representing an invalid/unset position.
var NoPos = Position{}

// Token represents one token lexed from the input source code.
type Token struct {
	Type          Type
	Literal       string
	StartPosition Position
	EndPosition   Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q", t.Type, t.Literal)
}

// Token types
const (
	EOF   Type = "EOF"
	IDENT Type = "IDENT"

	// Literals
	UINT_LITERAL   Type = "UINT_LITERAL"
	DOUBLE_LITERAL Type = "DOUBLE_LITERAL"
	STRING_LITERAL Type = "STRING_LITERAL"

	// Keywords
	AS     Type = "as"
	CONST  Type = "const"
	DOUBLE Type = "double"
	ELSE   Type = "else"
	FN     Type = "fn"
	IF     Type = "if"
	INT    Type = "int"
	LET    Type = "let"
	RETURN Type = "return"
	STRING Type = "string"
	VOID   Type = "void"
	WHILE  Type = "while"

	// Operators and punctuation
	ARROW     Type = "->"
	ASSIGN    Type = "="
	ASTERISK  Type = "*"
	COLON     Type = ":"
	COMMA     Type = ","
	EQ        Type = "=="
	GT        Type = ">"
	GT_EQUALS Type = ">="
	LBRACE    Type = "{"
	LPAREN    Type = "("
	LT        Type = "<"
	LT_EQUALS Type = "<="
	MINUS     Type = "-"
	NOT_EQ    Type = "!="
	PLUS      Type = "+"
	RBRACE    Type = "}"
	RPAREN    Type = ")"
	SEMICOLON Type = ";"
	SLASH     Type = "/"
)

// Reserved keywords
var keywords = map[string]Type{
	"as":     AS,
	"const":  CONST,
	"double": DOUBLE,
	"else":   ELSE,
	"fn":     FN,
	"if":     IF,
	"int":    INT,
	"let":    LET,
	"return": RETURN,
	"string": STRING,
	"void":   VOID,
	"while":  WHILE,
}

// LookupIdentifier used to determinate whether identifier is keyword nor not
func LookupIdentifier(identifier string) Type {
	if tok, ok := keywords[identifier]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword reports whether the given type is a reserved keyword.
func IsKeyword(t Type) bool {
	_, ok := keywords[string(t)]
	return ok
}

// Keywords returns the reserved keywords.
func Keywords() []string {
	names := make([]string, 0, len(keywords))
	for name := range keywords {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe returns a human readable description of a token type, suitable
// for "expected ..." diagnostics.
func Describe(t Type) string {
	switch t {
	case EOF:
		return "end of file"
	case IDENT:
		return "identifier"
	case UINT_LITERAL:
		return "integer literal"
	case DOUBLE_LITERAL:
		return "double literal"
	case STRING_LITERAL:
		return "string literal"
	default:
		return fmt.Sprintf("%q", string(t))
	}
}
