package bytecode

import (
	"fmt"
	"math"

	"github.com/c0lang/c0/op"
)

// Instruction is a single opcode together with its operand. The operand is
// ignored for opcodes that do not take one.
type Instruction struct {
	Op      op.Code
	Operand uint64
}

// Inst returns an instruction with no operand.
func Inst(code op.Code) Instruction {
	return Instruction{Op: code}
}

// InstWith returns an instruction with the given operand.
func InstWith(code op.Code, operand uint64) Instruction {
	return Instruction{Op: code, Operand: operand}
}

// Offset returns the operand interpreted as a signed 32-bit branch offset.
func (i Instruction) Offset() int32 {
	return int32(uint32(i.Operand))
}

// Float returns the operand interpreted as the bits of a float64.
func (i Instruction) Float() float64 {
	return math.Float64frombits(i.Operand)
}

func (i Instruction) String() string {
	info := op.GetInfo(i.Op)
	switch {
	case !info.HasOperand():
		return i.Op.String()
	case info.Signed:
		return fmt.Sprintf("%s %d", i.Op, i.Offset())
	default:
		return fmt.Sprintf("%s %d", i.Op, i.Operand)
	}
}
