package bytecode

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c0lang/c0/errors"
	"github.com/c0lang/c0/op"
)

func testModule() *Module {
	entry := NewFunction(FunctionParams{
		Name: EntryName,
		Instructions: []Instruction{
			InstWith(op.Push, 1),
			InstWith(op.StoreGlobal, 0),
			InstWith(op.StackAlloc, 0),
			InstWith(op.Call, 1),
			Inst(op.Ret),
		},
	})
	main := NewFunction(FunctionParams{
		Name:       "main",
		LocalSlots: 1,
		Instructions: []Instruction{
			InstWith(op.LoadGlobal, 0),
			InstWith(op.StoreLocal, 0),
			Inst(op.Ret),
		},
	})
	return NewModule(ModuleParams{
		Globals:   []Global{NewVariable("a", true)},
		Functions: []*Function{main},
		Entry:     entry,
	})
}

func TestMarshalGolden(t *testing.T) {
	data, err := Marshal(testModule())
	require.NoError(t, err)

	expected := []byte{
		0x72, 0x30, 0x3b, 0x3e, // magic
		0x00, 0x00, 0x00, 0x01, // version
		0x00, 0x00, 0x00, 0x03, // globals
		0x01, 0x00, 0x00, 0x00, 0x08, 0, 0, 0, 0, 0, 0, 0, 0, // const a
		0x01, 0x06, '_', 's', 't', 'a', 'r', 't',
		0x01, 0x04, 'm', 'a', 'i', 'n',
		0x00, 0x00, 0x00, 0x02, // functions
		// _start
		0x00, 0x00, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x05,
		0x01, 0, 0, 0, 0, 0, 0, 0, 0x01,
		0x0f, 0, 0, 0, 0,
		0x1a, 0, 0, 0, 0,
		0x48, 0, 0, 0, 0x01,
		0x49,
		// main
		0x00, 0x00, 0x00, 0x02,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x03,
		0x0c, 0, 0, 0, 0,
		0x0d, 0, 0, 0, 0,
		0x49,
	}
	assert.Equal(t, expected, data)
}

func TestWriteToMatchesMarshal(t *testing.T) {
	m := testModule()
	data, err := Marshal(m)
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), n)
	assert.Equal(t, data, buf.Bytes())
}

func TestMarshalLetGlobal(t *testing.T) {
	m := NewModule(ModuleParams{Globals: []Global{NewVariable("x", false)}})
	data, err := Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, []byte{
		0x72, 0x30, 0x3b, 0x3e,
		0x00, 0x00, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x00, 0x08, 0, 0, 0, 0, 0, 0, 0, 0,
		0x00, 0x00, 0x00, 0x00,
	}, data)
}

func TestMarshalStringTooLong(t *testing.T) {
	m := NewModule(ModuleParams{Globals: []Global{NewString(strings.Repeat("x", 256))}})
	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.StringTooLong))
	assert.Equal(t, 0, buf.Len())

	m = NewModule(ModuleParams{Globals: []Global{NewString(strings.Repeat("x", 255))}})
	_, err = Marshal(m)
	assert.NoError(t, err)
}

func TestMarshalSignedOffset(t *testing.T) {
	offset := int32(-3)
	fn := NewFunction(FunctionParams{
		Name:         "loop",
		Instructions: []Instruction{InstWith(op.Br, uint64(uint32(offset)))},
	})
	data, err := Marshal(NewModule(ModuleParams{Functions: []*Function{fn}}))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x41, 0xff, 0xff, 0xff, 0xfd}, data[len(data)-5:])
}

func TestUnmarshal(t *testing.T) {
	m := testModule()
	data, err := Marshal(m)
	require.NoError(t, err)

	decoded, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, Version, decoded.Version)

	require.Len(t, decoded.Globals, 3)
	assert.Equal(t, byte(1), decoded.Globals[0].Kind)
	assert.False(t, decoded.Globals[0].IsString)
	assert.Equal(t, make([]byte, 8), decoded.Globals[0].Data)
	assert.True(t, decoded.Globals[1].IsString)
	assert.Equal(t, "_start", string(decoded.Globals[1].Data))

	require.Len(t, decoded.Functions, 2)
	assert.Equal(t, "_start", decoded.FunctionName(0))
	assert.Equal(t, "main", decoded.FunctionName(1))
	assert.Equal(t, m.Entry().Instructions(), decoded.Functions[0].Instructions)
	assert.Equal(t, m.FunctionAt(0).Instructions(), decoded.Functions[1].Instructions)
	assert.Equal(t, uint32(1), decoded.Functions[1].LocalSlots)
}

func TestUnmarshalErrors(t *testing.T) {
	good, err := Marshal(testModule())
	require.NoError(t, err)

	badMagic := append([]byte{}, good...)
	badMagic[0] = 0
	badVersion := append([]byte{}, good...)
	badVersion[7] = 2
	badOpcode := append([]byte{}, good...)
	badOpcode[len(badOpcode)-1] = 0x99

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"bad magic", badMagic},
		{"bad version", badVersion},
		{"truncated", good[:len(good)-1]},
		{"trailing", append(append([]byte{}, good...), 0)},
		{"bad opcode", badOpcode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal(tt.data)
			require.Error(t, err)
			assert.Equal(t, errors.InvalidModule, errors.CodeOf(err))
		})
	}
}

func TestModuleAccessors(t *testing.T) {
	m := testModule()
	assert.Equal(t, 1, m.GlobalCount())
	assert.Equal(t, 1, m.FunctionCount())
	fns := m.Functions()
	require.Len(t, fns, 2)
	assert.Equal(t, EntryName, fns[0].Name())

	main, ok := m.Function("main")
	require.True(t, ok)
	assert.Equal(t, 3, main.InstructionCount())
	_, ok = m.Function("missing")
	assert.False(t, ok)

	assert.Equal(t, Stats{
		InstructionCount: 8,
		GlobalCount:      1,
		FunctionCount:    2,
	}, m.Stats())
}

func TestModuleJSON(t *testing.T) {
	data, err := json.Marshal(testModule())
	require.NoError(t, err)

	var out struct {
		Globals []struct {
			Kind  string `json:"kind"`
			Name  string `json:"name"`
			Const bool   `json:"const"`
		} `json:"globals"`
		Functions []struct {
			Name         string   `json:"name"`
			Instructions []string `json:"instructions"`
		} `json:"functions"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	require.Len(t, out.Globals, 1)
	assert.Equal(t, "variable", out.Globals[0].Kind)
	assert.Equal(t, "a", out.Globals[0].Name)
	assert.True(t, out.Globals[0].Const)
	require.Len(t, out.Functions, 2)
	assert.Equal(t, []string{"load.global 0", "store.local 0", "ret"}, out.Functions[1].Instructions)
}

func TestInstructionString(t *testing.T) {
	assert.Equal(t, "ret", Inst(op.Ret).String())
	assert.Equal(t, "push 42", InstWith(op.Push, 42).String())
	brOffset := int32(-2)
	assert.Equal(t, "br.false -2", InstWith(op.BrFalse, uint64(uint32(brOffset))).String())
	assert.Equal(t, 2.5, InstWith(op.Push, math.Float64bits(2.5)).Float())
}

func TestFunctionImmutable(t *testing.T) {
	insts := []Instruction{Inst(op.Ret)}
	fn := NewFunction(FunctionParams{Name: "f", Instructions: insts})
	insts[0] = Inst(op.Nop)
	assert.Equal(t, op.Ret, fn.InstructionAt(0).Op)

	copied := fn.Instructions()
	copied[0] = Inst(op.Nop)
	assert.Equal(t, op.Ret, fn.InstructionAt(0).Op)
	assert.Equal(t, "fn f [ret 0, params 0, locals 0] {\n    ret\n}", fn.String())
}
