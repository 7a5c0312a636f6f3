package c0

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/c0lang/c0/bytecode"
	"github.com/c0lang/c0/errors"
	"github.com/c0lang/c0/token"
)

func u32(v uint32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func TestBuildEmptyMain(t *testing.T) {
	data, err := Build(`fn main() -> void { ; }`)
	require.Nil(t, err)

	expected := concat(
		u32(0x72303b3e), u32(1),
		u32(2),
		[]byte{1, 6}, []byte("_start"),
		[]byte{1, 4}, []byte("main"),
		u32(2),
		u32(0), u32(0), u32(0), u32(0), u32(3),
		[]byte{0x1a}, u32(0),
		[]byte{0x48}, u32(1),
		[]byte{0x49},
		u32(1), u32(0), u32(0), u32(0), u32(1),
		[]byte{0x49},
	)
	require.Equal(t, expected, data)
}

func TestBuildRoundTrip(t *testing.T) {
	src := `
const limit: int = 3;
let scale: double = 2.5;

fn square(x: int) -> int {
	return x * x;
}

fn main() -> void {
	let i: int = 0;
	while i < limit {
		putint(square(i));
		putln();
		i = i + 1;
	}
	putdouble(scale * 2.0);
	putstr("done");
}`
	data, err := Build(src, WithFilename("loop.c0"))
	require.Nil(t, err)

	decoded, err := bytecode.Unmarshal(data)
	require.Nil(t, err)
	require.Equal(t, bytecode.Version, decoded.Version)
	// limit, scale, "done", then the names of _start, square and main
	require.Len(t, decoded.Globals, 6)
	require.Equal(t, byte(1), decoded.Globals[0].Kind)
	require.False(t, decoded.Globals[0].IsString)
	require.Equal(t, byte(0), decoded.Globals[1].Kind)
	require.Equal(t, "done", string(decoded.Globals[2].Data))
	require.Len(t, decoded.Functions, 3)
	require.Equal(t, "_start", decoded.FunctionName(0))
	require.Equal(t, "square", decoded.FunctionName(1))
	require.Equal(t, "main", decoded.FunctionName(2))
	require.Equal(t, uint32(1), decoded.Functions[1].ReturnSlots)
	require.Equal(t, uint32(1), decoded.Functions[1].ParamSlots)
	require.Equal(t, uint32(1), decoded.Functions[2].LocalSlots)

	module, err := Compile(src)
	require.Nil(t, err)
	for i, fn := range module.Functions() {
		require.Equal(t, fn.Instructions(), decoded.Functions[i].Instructions)
	}
}

func TestBuildCompileError(t *testing.T) {
	var buf bytes.Buffer
	err := BuildTo(&buf, "fn main() -> void {\n  putint(x);\n}", WithFilename("bad.c0"))
	require.True(t, errors.Is(err, errors.NotDeclared))
	require.Equal(t, 0, buf.Len())

	var ce *errors.CompileError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, "bad.c0", ce.Filename)
	require.Equal(t, 2, ce.Line)
	require.Equal(t, 10, ce.Column)
}

func TestBuildStringTooLong(t *testing.T) {
	long := strings.Repeat("a", bytecode.MaxStringLength+1)
	var buf bytes.Buffer
	err := BuildTo(&buf, `fn main() -> void { putstr("`+long+`"); }`)
	require.True(t, errors.Is(err, errors.StringTooLong))
	require.Equal(t, 0, buf.Len())

	_, err = Build(`fn main() -> void { putstr("` + long[1:] + `"); }`)
	require.Nil(t, err)
}

func TestTokenize(t *testing.T) {
	tokens, err := Tokenize("let x: int = 1;", WithFilename("t.c0"))
	require.Nil(t, err)
	var types []token.Type
	for _, tok := range tokens {
		types = append(types, tok.Type)
	}
	require.Equal(t, []token.Type{
		token.LET, token.IDENT, token.COLON, token.INT, token.ASSIGN,
		token.UINT_LITERAL, token.SEMICOLON, token.EOF,
	}, types)
	require.Equal(t, "t.c0", tokens[0].StartPosition.File)

	again, err := Tokenize("let x: int = 1;", WithFilename("t.c0"))
	require.Nil(t, err)
	require.Equal(t, tokens, again)

	_, err = Tokenize(`"abc`)
	require.True(t, errors.Is(err, errors.UnterminatedString))
}

func TestWithMaxDepth(t *testing.T) {
	src := "fn main() -> void { " + strings.Repeat("{ ", 10) + ";" + strings.Repeat(" }", 10) + " }"
	_, err := Compile(src)
	require.Nil(t, err)
	_, err = Compile(src, WithMaxDepth(5))
	require.True(t, errors.Is(err, errors.MaxDepth))
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	_, err := Compile(`fn main() -> void { ; }`, WithLogger(logger), WithFilename("log.c0"))
	require.Nil(t, err)
	require.Contains(t, buf.String(), `"file":"log.c0"`)
	require.Contains(t, buf.String(), `"message":"compiled module"`)
}

func TestNilOption(t *testing.T) {
	_, err := Compile(`fn main() -> void { ; }`, nil)
	require.Nil(t, err)
}

func TestConcurrentBuilds(t *testing.T) {
	src := `fn main() -> void { let a: int = 1; if a { putint(a); } else { putln(); } }`
	expected, err := Build(src)
	require.Nil(t, err)

	var wg sync.WaitGroup
	results := make([][]byte, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = Build(src)
		}(i)
	}
	wg.Wait()
	for _, r := range results {
		require.Equal(t, expected, r)
	}
}
