package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/cottle/log"
)

// testCLI holds the commands that run without a terminal.
type testCLI struct {
	Render Render `cmd:"" default:"withargs"`
	Fmt    Fmt    `cmd:""`
	Ast    Ast    `cmd:""`
	Check  Check  `cmd:""`
}

// execute parses args and runs the selected command, reading stdin for "-"
// and returning what the command wrote.
func execute(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var (
		cli     testCLI
		out     bytes.Buffer
		errOut  bytes.Buffer
		exitErr = func(code int) { t.Fatalf("unexpected exit with code %d", code) }
	)

	ctx := WithStdin(t.Context(), strings.NewReader(stdin))

	parser, err := kong.New(&cli,
		Vars(),
		kong.Writers(&out, &errOut),
		kong.Exit(exitErr),
		kong.BindSingletonProvider(func() context.Context { return ctx }),
	)
	require.NoError(t, err)

	ktx, err := parser.Parse(args)
	if err != nil {
		return "", "", err
	}

	ctx = WithContext(ctx, ktx)

	err = ktx.Run()

	return out.String(), errOut.String(), err
}

// writeFile creates a file named name holding content in dir and returns
// its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func readAll(t *testing.T, r io.Reader) string {
	t.Helper()

	data, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(data)
}

func TestOpenSources_Stdin(t *testing.T) {
	ctx := WithStdin(t.Context(), strings.NewReader("from stdin"))

	src, err := openSources(ctx, nil)
	require.NoError(t, err)

	defer src.Close()

	assert.Equal(t, []string{stdinSource}, src.Names())
	assert.Equal(t, "from stdin", readAll(t, src.Reader()))
}

func TestOpenSources_Order(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.tmpl", "A")
	b := writeFile(t, dir, "b.tmpl", "B")

	ctx := WithStdin(t.Context(), strings.NewReader("S"))

	// Standard input is read last, however often and wherever it appears.
	src, err := openSources(ctx, []string{"-", b, "-", a})
	require.NoError(t, err)

	defer src.Close()

	assert.Equal(t, []string{b, a, stdinSource}, src.Names())
	assert.Equal(t, "BAS", readAll(t, src.Reader()))
}

func TestOpenSources_Dedupe(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.tmpl", "A")

	link := filepath.Join(dir, "link.tmpl")
	require.NoError(t, os.Symlink(a, link))

	src, err := openSources(t.Context(), []string{a, link, a})
	require.NoError(t, err)

	defer src.Close()

	assert.Equal(t, []string{a}, src.Names())
	assert.Equal(t, "A", readAll(t, src.Reader()))
}

func TestOpenSources_Missing(t *testing.T) {
	_, err := openSources(t.Context(), []string{filepath.Join(t.TempDir(), "absent")})
	require.ErrorIs(t, err, ErrOpenSource)
}

func TestWriters_Default(t *testing.T) {
	assert.Equal(t, os.Stdout, stdoutFrom(t.Context()))
	assert.Equal(t, os.Stderr, stderrFrom(t.Context()))
	assert.Equal(t, os.Stdin, stdinFrom(t.Context()))
	assert.Nil(t, kongContextFrom(t.Context()))
}

func TestVars(t *testing.T) {
	vars := Vars()

	assert.Equal(t, "nothing,blank-lines,enclosing,collapse", vars["trimEnum"])
	assert.Equal(t, "interpret,compile", vars["strategyEnum"])
	assert.Equal(t, "{", vars["begin"])
	assert.Equal(t, "|", vars["continue"])
	assert.Equal(t, "}", vars["end"])
}

func testLogger() log.Logger { return log.Logger{} }
