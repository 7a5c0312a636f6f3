// Package bytecode provides the in-memory and on-disk representations of a
// compiled c0 module.
//
// The compiler produces a [Module]: a table of globals plus a table of
// functions, each holding an ordered list of [Instruction] values for the
// target stack machine. Modules are immutable once built and may be shared
// freely between goroutines.
//
// # Key Types
//
//   - [Module]: globals, functions and the entry function
//   - [Function]: one compiled function record (slots plus instructions)
//   - [Global]: a variable placeholder or a string payload
//   - [Instruction]: an opcode with an optional operand
//
// # Wire Format
//
// [Marshal] writes the module in the fixed big-endian layout understood by
// the interpreter:
//
//	magic        u32 = 0x72303b3e
//	version      u32 = 1
//	globals      u32 count, then per global:
//	               u8 kind, then either u32 8 + 8 zero bytes (variable)
//	               or u8 length + raw bytes (string)
//	functions    u32 count, then per function:
//	               u32 name index, u32 return slots, u32 param slots,
//	               u32 local slots, u32 instruction count, instructions
//	instruction  u8 opcode, then a u64 operand for push, a u32 operand for
//	             other opcodes that take one, and nothing otherwise
//
// Function names are interned as string globals after the module's own
// globals, so the wire global table is longer than [Module.GlobalCount].
// [Unmarshal] reads the same layout back into a [DecodedModule].
package bytecode
