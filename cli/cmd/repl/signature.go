package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/ardnew/cottle/lang"
	"github.com/ardnew/cottle/lib"
)

// functionCall describes the call whose argument list holds the cursor.
type functionCall struct {
	name     string // dotted path of the invoked value
	argIndex int    // 0-based index of the argument at the cursor
	inCall   bool
}

// detectFunctionCall finds the innermost unclosed '(' before cursor and
// returns the name preceding it and the index of the current argument.
// Arguments may be separated by commas or whitespace; only commas are
// counted.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(cursor, len(input))

	open, depth := -1, 0

	for i := cursor; i > 0 && open < 0; {
		r, size := utf8.DecodeLastRuneInString(input[:i])
		i -= size

		switch r {
		case ')', ']':
			depth++

		case '[':
			depth--

		case '(':
			if depth == 0 {
				open = i
			} else {
				depth--
			}
		}
	}

	if open < 0 {
		return functionCall{}
	}

	start := open
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if r != '.' && r != '_' && !isAlnum(r) {
			break
		}

		start -= size
	}

	name := input[start:open]
	if name == "" || strings.HasPrefix(name, ".") {
		return functionCall{}
	}

	index, depth := 0, 0

	for _, r := range input[open+1 : cursor] {
		switch r {
		case '(', '[':
			depth++

		case ')', ']':
			depth--

		case ',':
			if depth == 0 {
				index++
			}
		}
	}

	return functionCall{name: name, argIndex: index, inCall: true}
}

func isAlnum(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
}

// signature returns the display signature and parameter names of the
// function at name: the parameters of a template-defined function, or of
// the library function with that name.
func (s *session) signature(name string) (string, []string) {
	value, ok := s.resolve(name)
	if !ok || value.Kind() != lang.KindFunction {
		return "", nil
	}

	params, ok := lang.Params(value.AsFunction())
	if !ok {
		if params, ok = lib.Params(name); !ok {
			return name + "(...)", nil
		}
	}

	return name + "(" + strings.Join(params, ", ") + ")", params
}

// renderSignatureHint renders a signature with the parameter at argIndex
// highlighted. A variadic parameter stays highlighted for every argument
// from its position on.
func renderSignatureHint(name string, params []string, argIndex int) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		variadic := strings.HasPrefix(param, "...")
		if i == argIndex || variadic && argIndex >= i {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
