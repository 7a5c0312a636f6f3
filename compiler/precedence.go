package compiler

import "github.com/c0lang/c0/token"

// Precedence order for operators
const (
	_ int = iota
	LOWEST
	ASSIGN  // =
	COMPARE // == != < > <= >=
	SUM     // + or -
	PRODUCT // * or /
	PREFIX  // -X
	CAST    // X as T
)

// Precedences for each infix token type
var precedences = map[token.Type]int{
	token.ASSIGN:    ASSIGN,
	token.EQ:        COMPARE,
	token.NOT_EQ:    COMPARE,
	token.LT:        COMPARE,
	token.LT_EQUALS: COMPARE,
	token.GT:        COMPARE,
	token.GT_EQUALS: COMPARE,
	token.PLUS:      SUM,
	token.MINUS:     SUM,
	token.ASTERISK:  PRODUCT,
	token.SLASH:     PRODUCT,
	token.AS:        CAST,
}

func precedenceOf(t token.Type) int {
	if p, ok := precedences[t]; ok {
		return p
	}
	return LOWEST
}
