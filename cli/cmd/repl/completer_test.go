package repl

import (
	"strings"
	"testing"

	"github.com/sahilm/fuzzy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/cottle/lang"
)

func TestWordBounds(t *testing.T) {
	s := newTestSession(t)

	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"after_keyword", "{echo us", 8, "us", 6, 8},
		{"after_dot", "{echo user.na", 13, "na", 11, 13},
		{"after_paren", "{cat(a, b", 9, "b", 8, 9},
		{"after_bracket", "{[us", 4, "us", 2, 4},
		{"after_continue", "{if ok|fo", 9, "fo", 7, 9},
		{"after_end", "{echo x}", 8, "", 8, 8},
		{"mid_word", "{echo username}", 9, "username", 6, 14},
		{"empty_after_dot", "{user.", 6, "", 6, 6},
		{"cursor_past_end", "{ab", 10, "ab", 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor, s.isBoundary)
			assert.Equal(t, tt.wantWord, word)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestWordBounds_CustomDelimiters(t *testing.T) {
	s := newTestSession(t, lang.WithDelimiters(lang.Delimiters{
		Begin: "<%", Continue: "%|", End: "%>",
	}))

	word, start, end := wordBounds("<%echo us", 9, s.isBoundary)
	assert.Equal(t, "us", word)
	assert.Equal(t, 7, start)
	assert.Equal(t, 9, end)

	word, _, _ = wordBounds("<%us%>", 4, s.isBoundary)
	assert.Equal(t, "us", word)
}

func TestParentPath(t *testing.T) {
	s := newTestSession(t)

	tests := []struct {
		name      string
		input     string
		wordStart int
		want      string
	}{
		{"top_level", "{echo us", 6, ""},
		{"simple", "{echo user.", 11, "user"},
		{"deep", "{echo user.address.", 19, "user.address"},
		{"partial_word", "{echo user.address.ci", 19, "user.address"},
		{"in_call", "{cat(x.y.", 9, "x.y"},
		{"after_comma", "{cat(a, user.", 13, "user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parentPath(tt.input, tt.wordStart, s.isBoundary))
		})
	}
}

func TestChildCandidates(t *testing.T) {
	s := newTestSession(t)

	top := s.childCandidates("")
	assert.Contains(t, top, "echo")
	assert.Contains(t, top, "user")
	assert.Contains(t, top, "slice")

	assert.ElementsMatch(t, []string{"name", "address"}, s.childCandidates("user"))
	assert.ElementsMatch(t, []string{"city", "zip"}, s.childCandidates("user.address"))
	assert.Empty(t, s.childCandidates("user.nothing"))
	assert.Empty(t, s.childCandidates("missing"))
}

func TestComputeMatches(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		ctrl   bool
		want   string // expected best match, empty for none
		parent string
	}{
		{name: "symbol", input: "{echo use", want: "user"},
		{name: "field", input: "{echo user.ci", want: "", parent: "user"},
		{name: "nested_field", input: "{echo user.address.ci", want: "city", parent: "user.address"},
		{name: "outside_block", input: "use"},
		{name: "closed_block", input: "{echo x} use"},
		{name: "empty_word", input: "{echo "},
		{name: "command", input: "he", ctrl: true, want: "help"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t)
			if tt.ctrl {
				m = m.switchToMode(modeCtrl)
			}

			m.input.SetValue(tt.input)
			m.input.SetCursor(len(tt.input))

			matches, parent, _, _ := m.computeMatches()
			assert.Equal(t, tt.parent, parent)

			if tt.want == "" {
				assert.Empty(t, matches)

				return
			}

			require.NotEmpty(t, matches)
			assert.Equal(t, tt.want, matches[0].Str)
		})
	}
}

func TestComputeMatches_AllFieldsAfterDot(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("{echo user.")
	m.input.SetCursor(11)

	matches, parent, start, end := m.computeMatches()
	assert.Equal(t, "user", parent)
	assert.Equal(t, 11, start)
	assert.Equal(t, 11, end)

	var names []string
	for _, match := range matches {
		names = append(names, match.Str)
	}

	assert.ElementsMatch(t, []string{"name", "address"}, names)
}

func TestRenderCandidateBar(t *testing.T) {
	m := newTestModel(t)
	m.matches = fuzzy.Matches{{Str: "alpha"}, {Str: "beta"}, {Str: "gamma"}}

	assert.Equal(t, "alpha  beta  gamma", m.renderCandidateBar())

	m.width = 16
	bar := m.renderCandidateBar()
	assert.True(t, strings.HasSuffix(bar, "..."), "expected ellipsis in %q", bar)
	assert.LessOrEqual(t, len(bar), 16)

	m.matches = nil
	assert.Empty(t, m.renderCandidateBar())
}

func TestRenderCandidate_FunctionSuffix(t *testing.T) {
	m := newTestModel(t)

	assert.Equal(t, "slice()", m.renderCandidate(fuzzy.Match{Str: "slice"}, false))
	assert.Equal(t, "user", m.renderCandidate(fuzzy.Match{Str: "user"}, false))

	m.parent = "user"
	assert.Equal(t, "name", m.renderCandidate(fuzzy.Match{Str: "name"}, true))
}
