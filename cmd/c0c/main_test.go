package main

import (
	"bytes"
	"context"
	"encoding/json"
	goerrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/c0lang/c0"
	"github.com/c0lang/c0/errors"
)

const helloSource = `
fn main() -> void {
	putint(42);
	putln();
}
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(append(args, "--no-color"))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.Nil(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "hello.c0", helloSource)

	_, err := execute(t, "build", path)
	require.Nil(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "hello.o0"))
	require.Nil(t, err)
	expected, err := c0.Build(helloSource)
	require.Nil(t, err)
	require.Equal(t, expected, data)
}

func TestBuildOutputFlag(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "hello.c0", helloSource)
	out := filepath.Join(dir, "custom.bin")

	_, err := execute(t, "build", path, "-o", out)
	require.Nil(t, err)
	_, err = os.Stat(out)
	require.Nil(t, err)
}

func TestBuildOutputWithMultipleFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.c0", helloSource)
	b := writeFile(t, dir, "b.c0", helloSource)
	_, err := execute(t, "build", a, b, "-o", filepath.Join(dir, "out.o0"))
	require.EqualError(t, err, "--output cannot be used with multiple input files")
}

func TestBuildCollectsErrors(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.c0", helloSource)
	bad1 := writeFile(t, dir, "bad1.c0", "fn main() -> void { putint(x); }")
	bad2 := writeFile(t, dir, "bad2.c0", "let a: int = 1;\nlet a: int = 2;")

	_, err := execute(t, "build", bad1, good, bad2)
	require.NotNil(t, err)

	var merr *multierror.Error
	require.True(t, goerrors.As(err, &merr))
	require.Len(t, merr.Errors, 2)
	require.True(t, errors.Is(merr.Errors[0], errors.NotDeclared))
	require.True(t, errors.Is(merr.Errors[1], errors.DuplicateDeclaration))

	// The good file is still built; the bad ones produce nothing
	_, err = os.Stat(filepath.Join(dir, "good.o0"))
	require.Nil(t, err)
	_, err = os.Stat(filepath.Join(dir, "bad1.o0"))
	require.True(t, os.IsNotExist(err))

	formatted := formatError(merr, false)
	require.Contains(t, formatted, "compile error[1/2]")
	require.Contains(t, formatted, "compile error[2/2]")
	require.Contains(t, formatted, "found 2 errors")
	require.Contains(t, formatted, bad2+":2:5")
}

func TestFormatError(t *testing.T) {
	_, err := c0.Compile("fn main() -> void { putint(total); }\n", c0.WithFilename("t.c0"))
	require.NotNil(t, err)
	formatted := formatError(err, false)
	require.Contains(t, formatted, "compile error[E2001]: \"total\" is not declared")
	require.Contains(t, formatted, "--> t.c0:1:28")
	require.Contains(t, formatted, " 1 | fn main() -> void { putint(total); }")
	require.Contains(t, formatted, "^^^^^")

	formatted = formatError(goerrors.New("plain failure"), false)
	require.Equal(t, "error: plain failure\n", formatted)
}

func TestDisSource(t *testing.T) {
	out, err := execute(t, "dis", "-c", helloSource)
	require.Nil(t, err)
	require.Contains(t, out, "fn _start (#0)")
	require.Contains(t, out, "fn main (#1)")
	require.Contains(t, out, "print.i")
}

func TestDisModule(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "hello.c0", helloSource)
	_, err := execute(t, "build", path)
	require.Nil(t, err)

	out, err := execute(t, "dis", filepath.Join(dir, "hello.o0"), "--func", "main")
	require.Nil(t, err)
	require.Contains(t, out, "| push")
	require.Contains(t, out, "| println")
	require.NotContains(t, out, "stackalloc")

	_, err = execute(t, "dis", filepath.Join(dir, "hello.o0"), "--func", "missing")
	require.EqualError(t, err, `function "missing" not found`)
}

func TestInputConflicts(t *testing.T) {
	_, err := execute(t, "dis", "-c", helloSource, "file.c0")
	require.EqualError(t, err, "multiple input sources specified")

	_, err = execute(t, "dump")
	require.EqualError(t, err, "no input provided")
}

func TestTokensJSON(t *testing.T) {
	out, err := execute(t, "tokens", "-c", "let x: int = 1;", "-o", "json")
	require.Nil(t, err)
	var tokens []tokenJSON
	require.Nil(t, json.Unmarshal([]byte(out), &tokens))
	require.Len(t, tokens, 8)
	require.Equal(t, tokenJSON{Type: "let", Literal: "let", Line: 1, Column: 1}, tokens[0])
	require.Equal(t, "EOF", tokens[7].Type)
}

func TestTokensText(t *testing.T) {
	out, err := execute(t, "tokens", "-c", "x")
	require.Nil(t, err)
	require.Contains(t, out, "| POSITION | TYPE  | LITERAL |")
	require.Contains(t, out, "| 1:1      | IDENT | x       |")
}

func TestDump(t *testing.T) {
	out, err := execute(t, "dump", "-c", helloSource)
	require.Nil(t, err)
	var module struct {
		Functions []struct {
			Name         string   `json:"name"`
			Instructions []string `json:"instructions"`
		} `json:"functions"`
	}
	require.Nil(t, json.Unmarshal([]byte(out), &module))
	require.Len(t, module.Functions, 2)
	require.Equal(t, "main", module.Functions[1].Name)
	require.Equal(t, []string{"push 42", "print.i", "println", "ret"}, module.Functions[1].Instructions)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.Nil(t, err)
	require.Equal(t, "c0c dev (commit unknown, built unknown)\n", out)

	out, err = execute(t, "version", "-o", "json")
	require.Nil(t, err)
	require.JSONEq(t, `{"version":"dev","commit":"unknown","date":"unknown"}`, out)
}

func TestOutputPath(t *testing.T) {
	require.Equal(t, "dir/main.o0", outputPath("dir/main.c0"))
	require.Equal(t, "noext.o0", outputPath("noext"))
}

func TestFileWatcher(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "watched.c0", helloSource)
	writeFile(t, dir, "other.c0", helloSource)

	w, err := newFileWatcher([]string{path}, zerolog.Nop())
	require.Nil(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changed := make(chan string, 16)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(p string) { changed <- p })
	}()

	writeFile(t, dir, "other.c0", "ignored")
	writeFile(t, dir, "watched.c0", helloSource+"\n")

	select {
	case p := <-changed:
		require.Equal(t, path, p)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	select {
	case err := <-done:
		require.Nil(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
