package c0

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/c0lang/c0/bytecode"
)

func TestExamples(t *testing.T) {
	paths, err := filepath.Glob("examples/*.c0")
	require.Nil(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			source, err := os.ReadFile(path)
			require.Nil(t, err)

			module, err := Compile(string(source), WithFilename(path))
			require.Nil(t, err)
			_, ok := module.Function("main")
			require.True(t, ok)

			data, err := Build(string(source), WithFilename(path))
			require.Nil(t, err)
			decoded, err := bytecode.Unmarshal(data)
			require.Nil(t, err)
			require.Len(t, decoded.Functions, module.FunctionCount()+1)
			require.Equal(t, bytecode.EntryName, decoded.FunctionName(0))
		})
	}
}

func TestExampleFib(t *testing.T) {
	source, err := os.ReadFile("examples/fib.c0")
	require.Nil(t, err)
	module, err := Compile(string(source))
	require.Nil(t, err)

	fib, ok := module.Function("fib")
	require.True(t, ok)
	require.Equal(t, 1, fib.ReturnSlots())
	require.Equal(t, 1, fib.ParamSlots())
	require.Equal(t, 0, fib.LocalSlots())

	main, ok := module.Function("main")
	require.True(t, ok)
	require.Equal(t, 1, main.LocalSlots())
}
