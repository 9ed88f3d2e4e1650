package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	dir := t.TempDir()
	set := writeFile(t, dir, "set.tmpl", "{set x to 2}")
	use := writeFile(t, dir, "use.tmpl", "x={x}")
	vars := writeFile(t, dir, "vars.yaml", "user:\n  name: Ada\n  langs: [go, c]\nn: 3\n")

	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{
			name:  "stdin",
			stdin: "Hello {name}!",
			args:  []string{"-D", "name=World"},
			want:  "Hello World!",
		},
		{
			name:  "explicit command",
			stdin: "{add(1, 2)}",
			args:  []string{"render", "-"},
			want:  "3",
		},
		{
			name: "files share one scope",
			args: []string{set, use},
			want: "x=2",
		},
		{
			name: "duplicate files are read once",
			args: []string{set, use, use},
			want: "x=2",
		},
		{
			name:  "files before stdin",
			stdin: "!",
			args:  []string{"-", use, set},
			want:  "x=!",
		},
		{
			name:  "variables file",
			stdin: "{user.name}:{len(user.langs)}:{add(n, 1)}",
			args:  []string{"-f", vars},
			want:  "Ada:2:4",
		},
		{
			name:  "set overrides variables file",
			stdin: "{n}",
			args:  []string{"-f", vars, "-D", "n=x"},
			want:  "x",
		},
		{
			name:  "without library",
			stdin: "a{len('xyz')}b",
			args:  []string{"--no-lib"},
			want:  "ab",
		},
		{
			name:  "custom delimiters",
			stdin: "{<<echo 1>>}",
			args:  []string{"--begin", "<<", "--end", ">>"},
			want:  "{1}",
		},
		{
			name:  "compile strategy",
			stdin: "{for i in range(3):{i}}",
			args:  []string{"--strategy", "compile"},
			want:  "012",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(t, tt.stdin, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stdout)
		})
	}
}

func TestRender_ShowReturn(t *testing.T) {
	stdout, stderr, err := execute(t, "a{return add(2, 3)}b", "--show-return")
	require.NoError(t, err)
	assert.Equal(t, "a", stdout)
	assert.Equal(t, "5\n", stderr)

	_, stderr, err = execute(t, "a", "-r")
	require.NoError(t, err)
	assert.Empty(t, stderr)
}

func TestRender_Strict(t *testing.T) {
	stdout, _, err := execute(t, "a{div(1, 0)}b")
	require.NoError(t, err)
	assert.Equal(t, "ab", stdout)

	_, _, err = execute(t, "a{div(1, 0)}b", "--strict")
	require.ErrorIs(t, err, ErrStrictRender)
}

func TestRender_ParseError(t *testing.T) {
	_, _, err := execute(t, "{echo")
	require.Error(t, err)
}

func TestRender_InvalidDelimiters(t *testing.T) {
	_, _, err := execute(t, "x", "--begin", "|")
	require.Error(t, err)
}

func TestRender_MissingFile(t *testing.T) {
	_, _, err := execute(t, "", "does-not-exist.tmpl")
	require.Error(t, err)
}
