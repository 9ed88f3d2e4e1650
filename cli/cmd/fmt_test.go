package cmd

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFmt_Stdout(t *testing.T) {
	stdout, _, err := execute(t, "Hi {name}!{set c}", "fmt")
	require.NoError(t, err)
	assert.Equal(t, `Hi {echo name}!{set c to ""}`, stdout)
}

func TestFmt_CustomDelimiters(t *testing.T) {
	stdout, _, err := execute(t, "<%x%>", "fmt", "--begin", "<%", "--continue", "%|", "--end", "%>")
	require.NoError(t, err)
	assert.Equal(t, "<%echo x%>", stdout)
}

func TestFmt_Write(t *testing.T) {
	dir := t.TempDir()
	messy := writeFile(t, dir, "messy.tmpl", "{if a:x|else:{b}}")
	clean := writeFile(t, dir, "clean.tmpl", "{echo a}")

	info, err := os.Stat(clean)
	require.NoError(t, err)

	stdout, _, err := execute(t, "", "fmt", "-w", messy, clean)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(messy)
	require.NoError(t, err)
	assert.Equal(t, "{if a:x|else:{echo b}}", string(data))

	after, err := os.Stat(clean)
	require.NoError(t, err)
	assert.Equal(t, info.ModTime(), after.ModTime(), "formatted file was rewritten")
}

func TestFmt_WriteParseError(t *testing.T) {
	dir := t.TempDir()
	broken := writeFile(t, dir, "broken.tmpl", "{if a:x")

	_, _, err := execute(t, "", "fmt", "-w", broken)
	require.Error(t, err)

	data, err := os.ReadFile(broken)
	require.NoError(t, err)
	assert.Equal(t, "{if a:x", string(data))
}
