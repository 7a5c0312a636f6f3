package dis

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/c0lang/c0/bytecode"
	"github.com/c0lang/c0/compiler"
	"github.com/c0lang/c0/errors"
	"github.com/c0lang/c0/op"
)

func TestFunctionDisassembly(t *testing.T) {
	src := `
let g: int = 1;
fn f() -> void {
	if g { putstr("hi"); }
}`
	m, err := compiler.Compile(src, nil)
	require.Nil(t, err)
	require.Equal(t, 2, m.GlobalCount())

	fn, ok := m.Function("f")
	require.True(t, ok)
	instructions, err := Disassemble(fn.Instructions(), ModuleNames(m))
	require.Nil(t, err)

	var buf bytes.Buffer
	require.Nil(t, Print(instructions, &buf))

	expected := strings.TrimSpace(`
+--------+-------------+---------+------+
| OFFSET |   OPCODE    | OPERAND | INFO |
+--------+-------------+---------+------+
|      0 | load.global |       0 | g    |
|      1 | br.false    |       2 | -> 4 |
|      2 | push        |       1 |      |
|      3 | print.s     |         |      |
|      4 | ret         |         |      |
+--------+-------------+---------+------+
`)
	require.Equal(t, expected+"\n", buf.String())
}

func TestDisassembleAnnotations(t *testing.T) {
	src := `
fn f() -> void { putstr("x"); }
fn main() -> void {
	let i: int = 0;
	while i < 2 { f(); i = i + 1; }
}`
	m, err := compiler.Compile(src, nil)
	require.Nil(t, err)

	instructions, err := Disassemble(m.Entry().Instructions(), ModuleNames(m))
	require.Nil(t, err)
	require.Equal(t, Instruction{Offset: 1, Name: "call", Operand: "2", Info: "main"}, instructions[1])

	main, _ := m.Function("main")
	instructions, err = Disassemble(main.Instructions(), ModuleNames(m))
	require.Nil(t, err)
	var call, back Instruction
	for _, inst := range instructions {
		switch inst.Name {
		case "call":
			call = inst
		case "br":
			back = inst
		}
	}
	require.Equal(t, "f", call.Info)
	require.Equal(t, "-> 2", back.Info)
	require.True(t, strings.HasPrefix(back.Operand, "-"))
}

func TestDisassembleInvalidOpcode(t *testing.T) {
	_, err := Disassemble([]bytecode.Instruction{{Op: op.Code(0xee)}}, Names{})
	require.True(t, errors.Is(err, errors.InvalidModule))
}

func TestPrintModule(t *testing.T) {
	m, err := compiler.Compile(`const c: int = 1; fn main() -> void { putstr("hi"); }`, nil)
	require.Nil(t, err)

	var buf bytes.Buffer
	require.Nil(t, PrintModule(m, &buf))
	out := buf.String()
	require.Contains(t, out, "globals:")
	require.Contains(t, out, `| "hi"`)
	require.Contains(t, out, "| const")
	require.Contains(t, out, "fn _start (#0) [ret 0, params 0, locals 0]:")
	require.Contains(t, out, "fn main (#1) [ret 0, params 0, locals 0]:")
}

func TestPrintDecoded(t *testing.T) {
	m, err := compiler.Compile(`fn main() -> void { putstr("hi"); }`, nil)
	require.Nil(t, err)
	data, err := bytecode.Marshal(m)
	require.Nil(t, err)
	decoded, err := bytecode.Unmarshal(data)
	require.Nil(t, err)

	var buf bytes.Buffer
	require.Nil(t, PrintDecoded(decoded, &buf))
	out := buf.String()
	require.Contains(t, out, "version 1, 3 globals, 2 functions")
	require.Contains(t, out, "fn main (#1)")
	require.Regexp(t, `\| call +\| +1 \| main \|`, out)
}
