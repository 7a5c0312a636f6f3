package op

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo(Push)
	assert.Equal(t, "push", info.Name)
	assert.Equal(t, WideOperand, info.OperandSize)
	assert.Equal(t, Push, info.Code)
	assert.True(t, info.HasOperand())
}

func TestGetInfoAllOpcodes(t *testing.T) {
	tests := []struct {
		code   Code
		value  uint8
		name   string
		size   int
		signed bool
	}{
		{Nop, 0x00, "nop", 0, false},
		{Push, 0x01, "push", 8, false},
		{Pop, 0x02, "pop", 0, false},
		{PopN, 0x03, "popn", 4, false},
		{LoadLocal, 0x0a, "load.local", 4, false},
		{LoadArg, 0x0b, "load.arg", 4, false},
		{LoadGlobal, 0x0c, "load.global", 4, false},
		{StoreLocal, 0x0d, "store.local", 4, false},
		{StoreArg, 0x0e, "store.arg", 4, false},
		{StoreGlobal, 0x0f, "store.global", 4, false},
		{StackAlloc, 0x1a, "stackalloc", 4, false},
		{AddI, 0x20, "add.i", 0, false},
		{SubI, 0x21, "sub.i", 0, false},
		{MulI, 0x22, "mul.i", 0, false},
		{DivI, 0x23, "div.i", 0, false},
		{AddF, 0x24, "add.f", 0, false},
		{SubF, 0x25, "sub.f", 0, false},
		{MulF, 0x26, "mul.f", 0, false},
		{DivF, 0x27, "div.f", 0, false},
		{Not, 0x2e, "not", 0, false},
		{CmpI, 0x30, "cmp.i", 0, false},
		{CmpF, 0x32, "cmp.f", 0, false},
		{ItoF, 0x36, "itof", 0, false},
		{FtoI, 0x37, "ftoi", 0, false},
		{SetLt, 0x39, "set.lt", 0, false},
		{SetGt, 0x3a, "set.gt", 0, false},
		{Br, 0x41, "br", 4, true},
		{BrFalse, 0x42, "br.false", 4, true},
		{BrTrue, 0x43, "br.true", 4, true},
		{Call, 0x48, "call", 4, false},
		{Ret, 0x49, "ret", 0, false},
		{ScanI, 0x50, "scan.i", 0, false},
		{ScanC, 0x51, "scan.c", 0, false},
		{ScanF, 0x52, "scan.f", 0, false},
		{PrintI, 0x54, "print.i", 0, false},
		{PrintC, 0x55, "print.c", 0, false},
		{PrintF, 0x56, "print.f", 0, false},
		{PrintS, 0x57, "print.s", 0, false},
		{PrintLn, 0x58, "println", 0, false},
		{Panic, 0xfe, "panic", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := GetInfo(tt.code)
			assert.Equal(t, tt.value, uint8(tt.code))
			assert.Equal(t, tt.code, info.Code)
			assert.Equal(t, tt.name, info.Name)
			assert.Equal(t, tt.size, info.OperandSize)
			assert.Equal(t, tt.signed, info.Signed)
			assert.True(t, IsValid(tt.code))
			assert.Equal(t, tt.name, tt.code.String())
		})
	}
}

func TestUnknownOpcode(t *testing.T) {
	assert.False(t, IsValid(Code(0x99)))
	assert.Equal(t, "unknown", Code(0x99).String())
	assert.Equal(t, "", GetInfo(Code(0x99)).Name)
}
