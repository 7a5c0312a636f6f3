package compiler

import "github.com/c0lang/c0/op"

// builtin is a standard library function that lowers to a single I/O
// instruction emitted after its arguments.
type builtin struct {
	name      string
	signature Signature
	code      op.Code
}

var builtins = []*builtin{
	{"getint", Signature{Return: Int}, op.ScanI},
	{"getdouble", Signature{Return: Double}, op.ScanF},
	{"getchar", Signature{Return: Int}, op.ScanC},
	{"putint", Signature{Params: []ValueType{Int}, Return: Void}, op.PrintI},
	{"putdouble", Signature{Params: []ValueType{Double}, Return: Void}, op.PrintF},
	{"putchar", Signature{Params: []ValueType{Int}, Return: Void}, op.PrintC},
	{"putstr", Signature{Params: []ValueType{String}, Return: Void}, op.PrintS},
	{"putln", Signature{Return: Void}, op.PrintLn},
}

// BuiltinNames returns the names of the standard library functions.
func BuiltinNames() []string {
	names := make([]string, len(builtins))
	for i, b := range builtins {
		names[i] = b.name
	}
	return names
}
