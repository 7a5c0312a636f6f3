package compiler

import "github.com/c0lang/c0/token"

// ValueType is the kind of value an expression leaves on the stack. It is
// used to choose between integer and floating point opcodes and to reject
// void values where a value is required.
type ValueType int

const (
	Void ValueType = iota
	Int
	Double
	String
)

func (t ValueType) String() string {
	switch t {
	case Void:
		return "void"
	case Int:
		return "int"
	case Double:
		return "double"
	case String:
		return "string"
	default:
		return "unknown"
	}
}

// Slots returns the number of stack slots a value of this type occupies.
func (t ValueType) Slots() int {
	if t == Void {
		return 0
	}
	return 1
}

// Signature describes the parameters and result of a callable.
type Signature struct {
	Params []ValueType
	Return ValueType
}

var typeNames = map[token.Type]ValueType{
	token.INT:    Int,
	token.DOUBLE: Double,
	token.VOID:   Void,
}

// variableTypes are the annotations accepted for variables and parameters.
var variableTypes = []token.Type{token.INT, token.DOUBLE}

// returnTypes are the annotations accepted after '->'.
var returnTypes = []token.Type{token.INT, token.DOUBLE, token.VOID}
