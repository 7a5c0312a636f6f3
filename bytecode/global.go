package bytecode

import "fmt"

// GlobalKind distinguishes the two shapes a global can take on the wire.
type GlobalKind uint8

const (
	// GlobalVariable is an 8-byte slot for a global variable.
	GlobalVariable GlobalKind = iota
	// GlobalString is a raw string payload, used for string literals and
	// function names.
	GlobalString
)

func (k GlobalKind) String() string {
	switch k {
	case GlobalVariable:
		return "variable"
	case GlobalString:
		return "string"
	default:
		return fmt.Sprintf("GlobalKind(%d)", uint8(k))
	}
}

// Global is one entry of the module's global table.
type Global struct {
	Kind GlobalKind
	// Name is the declared name of a variable global. It is not serialized.
	Name string
	// Const marks a variable global declared with const.
	Const bool
	// Value is the payload of a string global.
	Value string
}

// NewVariable returns a variable global placeholder.
func NewVariable(name string, isConst bool) Global {
	return Global{Kind: GlobalVariable, Name: name, Const: isConst}
}

// NewString returns a string global with the given payload.
func NewString(value string) Global {
	return Global{Kind: GlobalString, Value: value}
}

// KindByte returns the kind byte written for this global: 1 for string
// payloads and const variables, 0 for mutable variables.
func (g Global) KindByte() byte {
	if g.Kind == GlobalString || g.Const {
		return 1
	}
	return 0
}

func (g Global) String() string {
	switch g.Kind {
	case GlobalString:
		return fmt.Sprintf("string %q", g.Value)
	default:
		if g.Const {
			return "const " + g.Name
		}
		return "let " + g.Name
	}
}
