package bytecode

import (
	"fmt"
	"strings"
)

// Function is one compiled function record. It is immutable after creation.
type Function struct {
	name         string
	returnSlots  int
	paramSlots   int
	localSlots   int
	instructions []Instruction
	locations    []SourceLocation
}

// FunctionParams contains parameters for creating a new Function.
type FunctionParams struct {
	Name         string
	ReturnSlots  int
	ParamSlots   int
	LocalSlots   int
	Instructions []Instruction
	// Locations optionally maps each instruction to its source location.
	Locations []SourceLocation
}

// NewFunction creates a new immutable Function from the given parameters.
// Input slices are copied.
func NewFunction(params FunctionParams) *Function {
	return &Function{
		name:         params.Name,
		returnSlots:  params.ReturnSlots,
		paramSlots:   params.ParamSlots,
		localSlots:   params.LocalSlots,
		instructions: copyInstructions(params.Instructions),
		locations:    copyLocations(params.Locations),
	}
}

// Name returns the function name.
func (f *Function) Name() string {
	return f.name
}

// ReturnSlots returns the number of stack slots reserved for the return value.
func (f *Function) ReturnSlots() int {
	return f.returnSlots
}

// ParamSlots returns the number of parameter slots.
func (f *Function) ParamSlots() int {
	return f.paramSlots
}

// LocalSlots returns the number of local variable slots.
func (f *Function) LocalSlots() int {
	return f.localSlots
}

// InstructionCount returns the number of instructions in the body.
func (f *Function) InstructionCount() int {
	return len(f.instructions)
}

// InstructionAt returns the instruction at the given index.
func (f *Function) InstructionAt(index int) Instruction {
	return f.instructions[index]
}

// Instructions returns a copy of the function body.
func (f *Function) Instructions() []Instruction {
	return copyInstructions(f.instructions)
}

// LocationAt returns the source location of the instruction at ip, or the
// zero location if none was recorded.
func (f *Function) LocationAt(ip int) SourceLocation {
	if ip < 0 || ip >= len(f.locations) {
		return SourceLocation{}
	}
	return f.locations[ip]
}

func (f *Function) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "fn %s [ret %d, params %d, locals %d] {",
		f.name, f.returnSlots, f.paramSlots, f.localSlots)
	for _, inst := range f.instructions {
		b.WriteString("\n    ")
		b.WriteString(inst.String())
	}
	if len(f.instructions) > 0 {
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}
