package repl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_AddPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	h := NewHistory(path)
	require.NoError(t, h.Load())
	assert.Zero(t, h.Len())

	require.NoError(t, h.Add("{set x to 1}", modeEval))
	require.NoError(t, h.Add("vars", modeCtrl))
	require.NoError(t, h.Add("   ", modeEval))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "E:{set x to 1}\nC:vars\n", string(data))

	reloaded := NewHistory(path)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, h.Entries(), reloaded.Entries())
}

func TestHistory_Dedupe(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	h := NewHistory(path)

	for _, line := range []string{"a", "b", "b", "a"} {
		require.NoError(t, h.Add(line, modeEval))
	}

	// The same line in another mode is a distinct entry.
	require.NoError(t, h.Add("a", modeCtrl))

	want := []HistoryEntry{
		{Line: "b", Mode: modeEval},
		{Line: "a", Mode: modeEval},
		{Line: "a", Mode: modeCtrl},
	}
	assert.Equal(t, want, h.Entries())

	reloaded := NewHistory(path)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, want, reloaded.Entries())
}

func TestHistory_LoadLegacyLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	require.NoError(t, os.WriteFile(path, []byte("{echo 1}\n\nC:quit\nE:\n"), 0o600))

	h := NewHistory(path)
	require.NoError(t, h.Load())

	assert.Equal(t, []HistoryEntry{
		{Line: "{echo 1}", Mode: modeEval},
		{Line: "quit", Mode: modeCtrl},
	}, h.Entries())
}

func TestHistory_Entry(t *testing.T) {
	h := NewHistory("")
	require.NoError(t, h.Load())
	require.NoError(t, h.Add("x", modeEval))

	entry, err := h.Entry(0)
	require.NoError(t, err)
	assert.Equal(t, "x", entry.Line)

	_, err = h.Entry(1)
	require.ErrorIs(t, err, ErrOutOfBounds)

	_, err = h.Entry(-1)
	require.ErrorIs(t, err, ErrOutOfBounds)
}

func TestHistory_MissingFile(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "absent", baseHistory))
	require.NoError(t, h.Load())
	assert.Zero(t, h.Len())
}
