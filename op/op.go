// Package op defines the opcodes of the stack machine that runs compiled c0
// modules.
package op

// Code is a one-byte opcode that indicates an operation to execute.
type Code uint8

const (
	Nop Code = 0x00

	// Stack
	Push       Code = 0x01 // push the 8-byte operand
	Pop        Code = 0x02
	PopN       Code = 0x03
	StackAlloc Code = 0x1a // reserve operand slots on the stack

	// Load
	LoadLocal  Code = 0x0a
	LoadArg    Code = 0x0b
	LoadGlobal Code = 0x0c

	// Store
	StoreLocal  Code = 0x0d
	StoreArg    Code = 0x0e
	StoreGlobal Code = 0x0f

	// Integer arithmetic
	AddI Code = 0x20
	SubI Code = 0x21
	MulI Code = 0x22
	DivI Code = 0x23

	// Floating point arithmetic
	AddF Code = 0x24
	SubF Code = 0x25
	MulF Code = 0x26
	DivF Code = 0x27

	// Comparison. Cmp pushes -1, 0 or 1; the Set ops turn that into 0 or 1.
	Not   Code = 0x2e
	CmpI  Code = 0x30
	CmpF  Code = 0x32
	SetLt Code = 0x39
	SetGt Code = 0x3a

	// Conversion
	ItoF Code = 0x36
	FtoI Code = 0x37

	// Control flow. Branch offsets are relative to the next instruction.
	Br      Code = 0x41
	BrFalse Code = 0x42
	BrTrue  Code = 0x43
	Call    Code = 0x48
	Ret     Code = 0x49

	// I/O
	ScanI   Code = 0x50
	ScanC   Code = 0x51
	ScanF   Code = 0x52
	PrintI  Code = 0x54
	PrintC  Code = 0x55
	PrintF  Code = 0x56
	PrintS  Code = 0x57
	PrintLn Code = 0x58

	Panic Code = 0xfe
)

// Operand widths in bytes.
const (
	NoOperand     = 0
	NarrowOperand = 4
	WideOperand   = 8
)

// Info contains information about an opcode.
type Info struct {
	Code        Code
	Name        string
	OperandSize int  // 0, 4 or 8 bytes
	Signed      bool // operand is a two's complement offset
}

// HasOperand reports whether the opcode is followed by an operand.
func (i Info) HasOperand() bool {
	return i.OperandSize > 0
}

var infos = make([]Info, 256)

func init() {
	type opInfo struct {
		op     Code
		name   string
		size   int
		signed bool
	}
	ops := []opInfo{
		{Nop, "nop", NoOperand, false},
		{Push, "push", WideOperand, false},
		{Pop, "pop", NoOperand, false},
		{PopN, "popn", NarrowOperand, false},
		{LoadLocal, "load.local", NarrowOperand, false},
		{LoadArg, "load.arg", NarrowOperand, false},
		{LoadGlobal, "load.global", NarrowOperand, false},
		{StoreLocal, "store.local", NarrowOperand, false},
		{StoreArg, "store.arg", NarrowOperand, false},
		{StoreGlobal, "store.global", NarrowOperand, false},
		{StackAlloc, "stackalloc", NarrowOperand, false},
		{AddI, "add.i", NoOperand, false},
		{SubI, "sub.i", NoOperand, false},
		{MulI, "mul.i", NoOperand, false},
		{DivI, "div.i", NoOperand, false},
		{AddF, "add.f", NoOperand, false},
		{SubF, "sub.f", NoOperand, false},
		{MulF, "mul.f", NoOperand, false},
		{DivF, "div.f", NoOperand, false},
		{Not, "not", NoOperand, false},
		{CmpI, "cmp.i", NoOperand, false},
		{CmpF, "cmp.f", NoOperand, false},
		{ItoF, "itof", NoOperand, false},
		{FtoI, "ftoi", NoOperand, false},
		{SetLt, "set.lt", NoOperand, false},
		{SetGt, "set.gt", NoOperand, false},
		{Br, "br", NarrowOperand, true},
		{BrFalse, "br.false", NarrowOperand, true},
		{BrTrue, "br.true", NarrowOperand, true},
		{Call, "call", NarrowOperand, false},
		{Ret, "ret", NoOperand, false},
		{ScanI, "scan.i", NoOperand, false},
		{ScanC, "scan.c", NoOperand, false},
		{ScanF, "scan.f", NoOperand, false},
		{PrintI, "print.i", NoOperand, false},
		{PrintC, "print.c", NoOperand, false},
		{PrintF, "print.f", NoOperand, false},
		{PrintS, "print.s", NoOperand, false},
		{PrintLn, "println", NoOperand, false},
		{Panic, "panic", NoOperand, false},
	}
	for _, o := range ops {
		infos[o.op] = Info{
			Code:        o.op,
			Name:        o.name,
			OperandSize: o.size,
			Signed:      o.signed,
		}
	}
}

// GetInfo returns information about the given opcode. Unknown opcodes have
// an empty Name.
func GetInfo(op Code) Info {
	return infos[op]
}

// IsValid reports whether op is a known opcode.
func IsValid(op Code) bool {
	return op == Nop || infos[op].Name != ""
}

func (c Code) String() string {
	if name := infos[c].Name; name != "" {
		return name
	}
	return "unknown"
}
