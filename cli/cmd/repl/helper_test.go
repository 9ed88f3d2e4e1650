package repl

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/cottle/lang"
	"github.com/ardnew/cottle/lib"
	"github.com/ardnew/cottle/log"
)

// testScope returns a factory for scopes holding the common library and a
// user record.
func testScope() func() (*lang.Scope, error) {
	return func() (*lang.Scope, error) {
		scope := lib.Scope()
		scope.Assign("user", lang.FromNative(map[string]any{
			"name":    "Ada",
			"address": map[string]any{"city": "London", "zip": "N1"},
		}))

		return scope, nil
	}
}

func newTestSession(t *testing.T, opts ...lang.Option) *session {
	t.Helper()

	s, err := newSession(t.Context(), testScope(), log.Logger{}, opts...)
	require.NoError(t, err)

	return s
}

func newTestModel(t *testing.T) model {
	t.Helper()

	return newModel(t.Context(), newTestSession(t), NewHistory(""), log.Logger{})
}

// typeText sends text to m one rune at a time, as if typed.
func typeText(m model, text string) model {
	for _, r := range text {
		m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	return m
}

func press(m model, key tea.KeyType) model {
	m, _ = m.handleKey(tea.KeyMsg{Type: key})

	return m
}
