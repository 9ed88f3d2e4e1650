package lang

import (
	"log/slog"
	"strings"
	"unicode"
)

// Trimmer selects how literal template text is transformed before it is
// written. Only TrimNothing preserves literal text verbatim.
type Trimmer int

const (
	// TrimNothing writes literal text unchanged.
	TrimNothing Trimmer = iota

	// TrimBlankLines drops a leading line and a trailing line of each literal
	// when they contain only whitespace.
	TrimBlankLines

	// TrimEnclosing removes leading and trailing whitespace of each literal.
	TrimEnclosing

	// TrimCollapse replaces each run of whitespace with a single space.
	TrimCollapse
)

// String returns the name of the trimmer.
func (t Trimmer) String() string {
	switch t {
	case TrimNothing:
		return "nothing"

	case TrimBlankLines:
		return "blank-lines"

	case TrimEnclosing:
		return "enclosing"

	case TrimCollapse:
		return "collapse"

	default:
		return "unknown"
	}
}

// ParseTrimmer returns the trimmer with the given name.
func ParseTrimmer(name string) (Trimmer, error) {
	for _, t := range []Trimmer{TrimNothing, TrimBlankLines, TrimEnclosing, TrimCollapse} {
		if t.String() == name {
			return t, nil
		}
	}

	return TrimNothing, ErrUnknownTrimmer.With(slog.String("name", name))
}

// Apply transforms literal text.
func (t Trimmer) Apply(text string) string {
	switch t {
	case TrimBlankLines:
		return trimBlankLines(text)

	case TrimEnclosing:
		return strings.TrimSpace(text)

	case TrimCollapse:
		return collapseSpace(text)

	default:
		return text
	}
}

func trimBlankLines(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 && strings.TrimSpace(text[:i]) == "" {
		text = text[i+1:]
	}

	if i := strings.LastIndexByte(text, '\n'); i >= 0 && strings.TrimSpace(text[i+1:]) == "" {
		text = text[:i]
	}

	return text
}

func collapseSpace(text string) string {
	var buf strings.Builder

	buf.Grow(len(text))

	space := false

	for _, r := range text {
		if unicode.IsSpace(r) {
			if !space {
				buf.WriteByte(' ')
			}

			space = true

			continue
		}

		space = false

		buf.WriteRune(r)
	}

	return buf.String()
}
