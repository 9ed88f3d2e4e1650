package repl

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/cottle/lang"
)

// ctrlCommands are the available control-mode commands.
//
//nolint:gochecknoglobals
var ctrlCommands = []string{"help", "vars", "reset", "edit", "clear", "quit"}

// wordBounds returns the word at the cursor position and its byte
// boundaries within input. An empty word is returned when the cursor sits
// on a boundary.
func wordBounds(input string, cursor int, boundary func(rune) bool) (word string, start, end int) {
	cursor = min(cursor, len(input))

	for start = cursor; start > 0; {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if boundary(r) {
			break
		}

		start -= size
	}

	for end = cursor; end < len(input); {
		r, size := utf8.DecodeRuneInString(input[end:])
		if boundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the chain of field accesses leading up to the word
// starting at wordStart. For "{echo user.address.ci" with the word "ci" it
// returns "user.address". Top-level words have no parent.
func parentPath(input string, wordStart int, boundary func(rune) bool) string {
	prefix := input[:wordStart]
	if !strings.HasSuffix(prefix, ".") {
		return ""
	}

	prefix = strings.TrimRight(prefix, ".")

	pos := len(prefix)
	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if r != '.' && boundary(r) {
			break
		}

		pos -= size
	}

	return prefix[pos:]
}

// childCandidates returns the names that complete a word below parent: the
// string keys of the value at parent, or the keywords and visible symbols
// at the top level.
func (s *session) childCandidates(parent string) []string {
	if parent == "" {
		names := slices.Clone(keywords)

		for _, name := range s.scope.Symbols() {
			if !slices.Contains(names, name) {
				names = append(names, name)
			}
		}

		return names
	}

	value, ok := s.resolve(parent)
	if !ok {
		return nil
	}

	var names []string

	for key := range value.Fields().All() {
		if key.Kind() == lang.KindString {
			names = append(names, key.AsString())
		}
	}

	return names
}

// isFunction reports whether the name at path is bound to a function.
func (s *session) isFunction(path string) bool {
	value, ok := s.resolve(path)

	return ok && value.Kind() == lang.KindFunction
}

// computeMatches calculates the fuzzy matches for the word at the cursor.
// Only words inside a block are completed in eval mode. An empty word
// matches nothing, except after a dot, where every field is offered.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	parent string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()
	cursor := m.input.Position()

	word, wordStart, wordEnd := wordBounds(input, cursor, m.session.isBoundary)

	var candidates []string

	if m.mode == modeCtrl {
		if word == "" {
			return nil, "", wordStart, wordEnd
		}

		candidates = ctrlCommands
	} else {
		if !m.session.inBlock(input[:wordStart]) {
			return nil, "", wordStart, wordEnd
		}

		parent = parentPath(input, wordStart, m.session.isBoundary)
		candidates = m.session.childCandidates(parent)

		if word == "" {
			if parent == "" {
				return nil, "", wordStart, wordEnd
			}

			matches = make(fuzzy.Matches, len(candidates))
			for i, c := range candidates {
				matches[i] = fuzzy.Match{Str: c, Index: i}
			}

			return matches, parent, wordStart, wordEnd
		}
	}

	if len(candidates) == 0 {
		return nil, parent, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), parent, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to
// fit within width. The selected candidate (when tabbing) is highlighted.
func (m model) renderCandidateBar() string {
	if len(m.matches) == 0 || m.width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")
	reserve := lipgloss.Width(sep) + lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range m.matches {
		rendered := m.renderCandidate(match, m.tabActive && i == m.suggIdx)

		width := lipgloss.Width(rendered)
		if i > 0 {
			width += lipgloss.Width(sep)
		}

		need := width
		if i < len(m.matches)-1 {
			need += reserve
		}

		if i > 0 && used+need > m.width {
			b.WriteString(sep + ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += width
	}

	return b.String()
}

// renderCandidate renders one candidate with its matched characters
// highlighted. Functions are displayed with a "()" suffix.
func (m model) renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	path := match.Str
	if m.parent != "" {
		path = m.parent + "." + match.Str
	}

	if m.mode == modeEval && m.session.isFunction(path) {
		b.WriteString(base.Render("()"))
	}

	return b.String()
}
