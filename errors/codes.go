package errors

// ErrorCode represents a unique identifier for error types.
// Codes are organized by category:
//   - E1xxx: Lexical and syntax errors
//   - E2xxx: Semantic errors found while resolving names
//   - E3xxx: Module output errors
type ErrorCode string

const (
	// Lexical and syntax errors (E1xxx)
	InvalidInput          ErrorCode = "E1001" // Unrecognized character or malformed literal
	UnterminatedString    ErrorCode = "E1002" // String literal without closing quote
	InvalidEscapeSequence ErrorCode = "E1003" // Unknown escape in a string literal
	ExpectedToken         ErrorCode = "E1004" // Token did not match the expected set
	UnexpectedToken       ErrorCode = "E1005" // Token cannot start a statement or expression
	InvalidAssignment     ErrorCode = "E1006" // Assignment to something other than a name
	MaxDepth              ErrorCode = "E1007" // Maximum nesting depth exceeded

	// Semantic errors (E2xxx)
	NotDeclared          ErrorCode = "E2001" // Undefined name
	DuplicateDeclaration ErrorCode = "E2002" // Name declared twice in one scope
	NotInitialized       ErrorCode = "E2003" // Read before first assignment
	AssignToConstant     ErrorCode = "E2004" // Assignment to a const
	InvalidReturn        ErrorCode = "E2005" // Return value does not match the function
	ArgumentCount        ErrorCode = "E2006" // Wrong number of call arguments
	VoidValue            ErrorCode = "E2007" // Void expression used as a value
	TypeMismatch         ErrorCode = "E2008" // Operands of different types
	InvalidCall          ErrorCode = "E2009" // Calling a variable or reading a function

	// Output errors (E3xxx)
	StringTooLong ErrorCode = "E3001" // String payload exceeds the 1-byte length field
	InvalidModule ErrorCode = "E3002" // Malformed or truncated module bytes
)

// codeDescriptions maps error codes to their short descriptions.
var codeDescriptions = map[ErrorCode]string{
	InvalidInput:          "invalid input",
	UnterminatedString:    "unterminated string literal",
	InvalidEscapeSequence: "invalid escape sequence",
	ExpectedToken:         "expected token",
	UnexpectedToken:       "unexpected token",
	InvalidAssignment:     "invalid assignment target",
	MaxDepth:              "maximum nesting depth exceeded",

	NotDeclared:          "not declared",
	DuplicateDeclaration: "duplicate declaration",
	NotInitialized:       "not initialized",
	AssignToConstant:     "assignment to constant",
	InvalidReturn:        "invalid return statement",
	ArgumentCount:        "wrong argument count",
	VoidValue:            "void value used as operand",
	TypeMismatch:         "mismatched types",
	InvalidCall:          "invalid use of function",

	StringTooLong: "string too long",
	InvalidModule: "invalid module",
}

// Description returns the short description for an error code.
func (c ErrorCode) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}

// String returns the error code as a string.
func (c ErrorCode) String() string {
	return string(c)
}

// Category returns the error category based on the code prefix.
func (c ErrorCode) Category() string {
	if len(c) < 2 {
		return "unknown"
	}
	switch c[1] {
	case '1':
		return "syntax"
	case '2':
		return "compile"
	case '3':
		return "output"
	default:
		return "unknown"
	}
}
