package lang

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// outline renders a command tree compactly for structural comparisons.
func outline(c *Command) string {
	if c == nil {
		return "nil"
	}

	switch c.Type {
	case CommandLiteral:
		return "Literal(" + c.Text + ")"

	case CommandEcho, CommandDump, CommandReturn:
		return c.Type.String() + "(" + c.Expr.String() + ")"

	case CommandAssignValue:
		return "AssignValue(" + c.Name + ", " + c.Expr.String() + ", " + c.Mode.String() + ")"

	case CommandAssignFunction:
		return "AssignFunction(" + c.Name + ", [" + strings.Join(c.Params, " ") + "], " +
			outline(c.Body) + ", " + c.Mode.String() + ")"

	case CommandIf:
		return "If(" + c.Expr.String() + ", " + outline(c.Body) + ", " + outline(c.Next) + ")"

	case CommandFor:
		return "For(" + c.Key + ", " + c.Name + ", " + c.Expr.String() + ", " +
			outline(c.Body) + ", " + outline(c.Next) + ")"

	case CommandWhile:
		return "While(" + c.Expr.String() + ", " + outline(c.Body) + ")"

	case CommandComposite:
		return "Composite(" + outline(c.Body) + ", " + outline(c.Next) + ")"

	default:
		return "?"
	}
}

func TestParse_Structure(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty document",
			input: "",
			want:  "Literal()",
		},
		{
			name:  "text and implicit echo",
			input: "Hello {name}!",
			want:  "Composite(Literal(Hello ), Composite(Echo(name), Literal(!)))",
		},
		{
			name:  "comment is dropped",
			input: "{_ a comment}x",
			want:  "Literal(x)",
		},
		{
			name:  "explicit echo and dump",
			input: "{echo a}{dump b}",
			want:  "Composite(Echo(a), Dump(b))",
		},
		{
			name:  "declare is local",
			input: "{declare x as 1}",
			want:  "AssignValue(x, 1, Local)",
		},
		{
			name:  "set is closest",
			input: "{set x to 1}",
			want:  "AssignValue(x, 1, Closest)",
		},
		{
			name:  "set with as is local",
			input: "{set x as 1}",
			want:  "AssignValue(x, 1, Local)",
		},
		{
			name:  "bare set binds the empty string",
			input: "{set x}",
			want:  `AssignValue(x, "", Closest)`,
		},
		{
			name:  "bare declare binds the empty string",
			input: "{declare x}",
			want:  `AssignValue(x, "", Local)`,
		},
		{
			name:  "function definition",
			input: "{define f(a, b):{return a}}",
			want:  "AssignFunction(f, [a b], Return(a), Closest)",
		},
		{
			name:  "function definition with keyword",
			input: "{declare f(a b) as:x}",
			want:  "AssignFunction(f, [a b], Literal(x), Local)",
		},
		{
			name:  "postfix chain",
			input: "{a.b[c](d, e)}",
			want:  "Echo(a.b[c](d, e))",
		},
		{
			name:  "map literal synthesizes keys",
			input: `{dump [1, "k": 2, 3]}`,
			want:  `Dump([0: 1, "k": 2, 1: 3])`,
		},
		{
			name:  "string subscript prints as field",
			input: `{m["a"]}`,
			want:  "Echo(m.a)",
		},
		{
			name:  "if chain",
			input: "{if a:x|elif b:y|else:z}",
			want:  "If(a, Literal(x), If(b, Literal(y), Literal(z)))",
		},
		{
			name:  "for with key and empty",
			input: "{for k, v in m:x|empty:y}",
			want:  "For(k, v, m, Literal(x), Literal(y))",
		},
		{
			name:  "for with value only",
			input: "{for v in m:x}",
			want:  "For(, v, m, Literal(x), nil)",
		},
		{
			name:  "while",
			input: "{while c:x}",
			want:  "While(c, Literal(x))",
		},
		{
			name:  "empty body",
			input: "{if a:}",
			want:  "If(a, Literal(), nil)",
		},
		{
			name:  "malformed number is zero",
			input: "{1.2.3}",
			want:  "Echo(0)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := parse(tt.input, DefaultDelimiters)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			if diff := cmp.Diff(tt.want, outline(root)); diff != "" {
				t.Errorf("unexpected tree (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		line     int
		column   int
		found    string
		expected string
	}{
		{
			name:     "missing body separator",
			input:    "{if x}",
			line:     1,
			column:   6,
			found:    "}",
			expected: "body separator (':')",
		},
		{
			name:     "missing expression",
			input:    "{set x to}",
			line:     1,
			column:   10,
			found:    "}",
			expected: "expression",
		},
		{
			name:     "declare with to",
			input:    "{declare x to 1}",
			line:     1,
			column:   12,
			found:    "to",
			expected: "'as' keyword",
		},
		{
			name:     "set with unknown keyword",
			input:    "{set x be 1}",
			line:     1,
			column:   8,
			found:    "be",
			expected: "'to' keyword",
		},
		{
			name:     "stray end delimiter",
			input:    "a}b",
			line:     1,
			column:   2,
			found:    "}",
			expected: "end of file",
		},
		{
			name:     "unclosed block",
			input:    "{x",
			line:     1,
			column:   3,
			found:    "",
			expected: "end of block",
		},
		{
			name:     "two expressions",
			input:    "{x y}",
			line:     1,
			column:   4,
			found:    "y",
			expected: "end of block",
		},
		{
			name:     "for without in",
			input:    "{for x of y:z}",
			line:     1,
			column:   8,
			found:    "of",
			expected: "'in' keyword",
		},
		{
			name:     "bad continuation",
			input:    "{if a:x|other:y}",
			line:     1,
			column:   9,
			found:    "other",
			expected: "'elif' or 'else' keyword",
		},
		{
			name:     "unknown character",
			input:    "{?}",
			line:     1,
			column:   2,
			found:    "?",
			expected: "expression",
		},
		{
			name:     "second line",
			input:    "line1\n{if}",
			line:     2,
			column:   4,
			found:    "}",
			expected: "expression",
		},
		{
			name:     "field name must be a symbol",
			input:    "{a.1}",
			line:     1,
			column:   4,
			found:    "1",
			expected: "field name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(tt.input, DefaultDelimiters)
			if err == nil {
				t.Fatal("expected parse error")
			}

			if !errors.Is(err, ErrParse) {
				t.Errorf("expected error to match ErrParse, got %v", err)
			}

			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %T", err)
			}

			if pe.Line != tt.line || pe.Column != tt.column {
				t.Errorf("expected position %d:%d, got %d:%d",
					tt.line, tt.column, pe.Line, pe.Column)
			}

			if pe.Found != tt.found {
				t.Errorf("expected found %q, got %q", tt.found, pe.Found)
			}

			if pe.Expected != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, pe.Expected)
			}
		})
	}
}

func TestParseError_Message(t *testing.T) {
	_, err := Compile(t.Context(), "Hi {if x}")
	if err == nil {
		t.Fatal("expected parse error")
	}

	msg := err.Error()

	for _, want := range []string{
		"line 1, column 9",
		`found "}"`,
		"expected body separator (':')",
		"  1 | Hi {if x}",
		"\n" + strings.Repeat(" ", 6+8) + "^",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected message to contain %q, got:\n%s", want, msg)
		}
	}
}

func TestParseError_EndOfFile(t *testing.T) {
	_, err := Compile(t.Context(), "{echo")

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}

	if !strings.Contains(pe.Error(), "found end of file") {
		t.Errorf("expected end of file in message, got %q", pe.Error())
	}
}

func TestCommand_Print(t *testing.T) {
	doc, err := Compile(t.Context(), "a{if x:{set y to 1}|else:b}{for v in m:{v}}")
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}

	var buf strings.Builder
	if err := doc.Print(&buf); err != nil {
		t.Fatalf("print error: %v", err)
	}

	want := `Literal: "a"
If: x
  Then
    AssignValue: y (Closest)
      Value: 1
  Else
    Literal: "b"
For: v in m
  Body
    Echo: v
`

	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("unexpected output (-want +got):\n%s", diff)
	}
}

func TestCommand_Statements(t *testing.T) {
	root, err := parse("a{b}c", DefaultDelimiters)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	stmts := root.Statements()
	if len(stmts) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(stmts))
	}

	for i, want := range []CommandType{CommandLiteral, CommandEcho, CommandLiteral} {
		if stmts[i].Type != want {
			t.Errorf("statement %d: expected %v, got %v", i, want, stmts[i].Type)
		}
	}
}
