package lang

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// FuzzParse checks that parsing never panics and that the canonical source
// of a template parses back to the same canonical source.
func FuzzParse(f *testing.F) {
	f.Add("plain text")
	f.Add("Hi {name}!")
	f.Add("{declare a as 1}{set b to 'x'}{set c}")
	f.Add("{define f(a b):{return a}}{declare g() as:x}")
	f.Add("{if a:x|elif b:y|else:z}{for k, v in m:{k}|empty:-}{while c:w}")
	f.Add(`{dump [1, "k": m["a b"].c(2)[0]]}`)
	f.Add(`a \{ \| \} \\ b`)
	f.Add("a{_ note}b")
	f.Add("{")
	f.Add("{echo")
	f.Add("}|")

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		root, err := parse(input, DefaultDelimiters)
		if err != nil {
			if _, ok := err.(*ParseError); !ok {
				t.Fatalf("unexpected error type %T: %v", err, err)
			}

			return
		}

		var first strings.Builder
		if err := FormatSource(root, DefaultDelimiters, &first); err != nil {
			t.Fatalf("format error: %v", err)
		}

		again, err := parse(first.String(), DefaultDelimiters)
		if err != nil {
			t.Fatalf("canonical source %q does not parse: %v", first.String(), err)
		}

		var second strings.Builder
		if err := FormatSource(again, DefaultDelimiters, &second); err != nil {
			t.Fatalf("format error: %v", err)
		}

		if first.String() != second.String() {
			t.Errorf("canonical source is not stable: %q then %q", first.String(), second.String())
		}
	})
}
