package bytecode

func copyInstructions(src []Instruction) []Instruction {
	if src == nil {
		return nil
	}
	dst := make([]Instruction, len(src))
	copy(dst, src)
	return dst
}

func copyLocations(src []SourceLocation) []SourceLocation {
	if src == nil {
		return nil
	}
	dst := make([]SourceLocation, len(src))
	copy(dst, src)
	return dst
}

func copyGlobals(src []Global) []Global {
	if src == nil {
		return nil
	}
	dst := make([]Global, len(src))
	copy(dst, src)
	return dst
}

func copyFunctions(src []*Function) []*Function {
	if src == nil {
		return nil
	}
	dst := make([]*Function, len(src))
	copy(dst, src)
	return dst
}
