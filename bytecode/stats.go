package bytecode

// Stats contains statistics about a compiled module.
type Stats struct {
	// InstructionCount is the total number of instructions across all
	// functions, including the entry function.
	InstructionCount int

	// GlobalCount is the number of variable globals.
	GlobalCount int

	// StringCount is the number of string literal globals.
	StringCount int

	// FunctionCount is the number of functions, including the entry function.
	FunctionCount int
}
