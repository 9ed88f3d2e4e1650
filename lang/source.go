package lang

import (
	"io"
	"strings"
	"unicode/utf8"
)

// FormatSource writes the template source of a command tree using the given
// delimiters. Parsing the output yields a tree that renders identically.
//
// The output is canonical rather than faithful: echo is always explicit, map
// literals always spell out their keys, and comments are gone.
func FormatSource(c *Command, delims Delimiters, w io.Writer) error {
	var buf strings.Builder

	f := formatter{delims: delims, buf: &buf}
	f.command(c)

	_, err := io.WriteString(w, buf.String())

	return err
}

type formatter struct {
	delims Delimiters
	buf    *strings.Builder
}

func (f formatter) command(c *Command) {
	switch c.Type {
	case CommandLiteral:
		f.literal(c.Text)

	case CommandEcho:
		f.block("echo ", c.Expr)

	case CommandDump:
		f.block("dump ", c.Expr)

	case CommandReturn:
		f.block("return ", c.Expr)

	case CommandAssignValue:
		f.buf.WriteString(f.delims.Begin)
		f.assignee(c)
		f.buf.WriteByte(' ')
		writeExpression(f.buf, c.Expr)
		f.buf.WriteString(f.delims.End)

	case CommandAssignFunction:
		f.buf.WriteString(f.delims.Begin)
		f.assignee(c)
		f.body(c.Body)
		f.buf.WriteString(f.delims.End)

	case CommandIf:
		f.buf.WriteString(f.delims.Begin)
		f.buf.WriteString("if ")
		writeExpression(f.buf, c.Expr)
		f.body(c.Body)

		for next := c.Next; next != nil; next = next.Next {
			f.buf.WriteString(f.delims.Continue)

			if next.Type != CommandIf {
				f.buf.WriteString("else")
				f.body(next)

				break
			}

			f.buf.WriteString("elif ")
			writeExpression(f.buf, next.Expr)
			f.body(next.Body)
		}

		f.buf.WriteString(f.delims.End)

	case CommandFor:
		f.buf.WriteString(f.delims.Begin)
		f.buf.WriteString("for ")

		if c.Key != "" {
			f.buf.WriteString(c.Key)
			f.buf.WriteString(", ")
		}

		f.buf.WriteString(c.Name)
		f.buf.WriteString(" in ")
		writeExpression(f.buf, c.Expr)
		f.body(c.Body)

		if c.Next != nil {
			f.buf.WriteString(f.delims.Continue)
			f.buf.WriteString("empty")
			f.body(c.Next)
		}

		f.buf.WriteString(f.delims.End)

	case CommandWhile:
		f.buf.WriteString(f.delims.Begin)
		f.buf.WriteString("while ")
		writeExpression(f.buf, c.Expr)
		f.body(c.Body)
		f.buf.WriteString(f.delims.End)

	case CommandComposite:
		for _, stmt := range c.Statements() {
			f.command(stmt)
		}
	}
}

func (f formatter) block(keyword string, e *Expression) {
	f.buf.WriteString(f.delims.Begin)
	f.buf.WriteString(keyword)
	writeExpression(f.buf, e)
	f.buf.WriteString(f.delims.End)
}

// assignee writes the statement keyword, the name, any parameters and the
// visibility keyword of an assignment.
func (f formatter) assignee(c *Command) {
	if c.Mode == ModeLocal {
		f.buf.WriteString("declare ")
	} else {
		f.buf.WriteString("set ")
	}

	f.buf.WriteString(c.Name)

	if c.Type == CommandAssignFunction {
		f.buf.WriteByte('(')
		f.buf.WriteString(strings.Join(c.Params, ", "))
		f.buf.WriteByte(')')
	}

	if c.Mode == ModeLocal {
		f.buf.WriteString(" as")
	} else {
		f.buf.WriteString(" to")
	}
}

func (f formatter) body(c *Command) {
	f.buf.WriteByte(':')
	f.command(c)
}

// literal writes text, escaping backslashes and every position where a
// delimiter would otherwise be recognized.
func (f formatter) literal(text string) {
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])

		if r == '\\' || f.delimiterAt(text[i:]) {
			f.buf.WriteByte('\\')
		}

		f.buf.WriteString(text[i : i+size])
		i += size
	}
}

// delimiterAt reports whether text starts with a delimiter, or is the start
// of one that the next statement could complete.
func (f formatter) delimiterAt(text string) bool {
	for _, d := range []string{f.delims.Begin, f.delims.Continue, f.delims.End} {
		if strings.HasPrefix(text, d) || strings.HasPrefix(d, text) {
			return true
		}
	}

	return false
}

// writeExpression writes e in template syntax.
func writeExpression(buf *strings.Builder, e *Expression) {
	switch e.Type {
	case ExprConstant:
		writeValue(buf, e.Value)

	case ExprSymbol:
		buf.WriteString(e.Name)

	case ExprAccess:
		writeExpression(buf, e.Source)

		// A dot after a number literal would be read as a decimal point.
		numeric := e.Source.Type == ExprConstant && e.Source.Value.Kind() == KindNumber

		if sub := e.Subscript; !numeric && sub.Type == ExprConstant &&
			sub.Value.Kind() == KindString && isSymbol(sub.Value.AsString()) {
			buf.WriteByte('.')
			buf.WriteString(sub.Value.AsString())

			return
		}

		buf.WriteByte('[')
		writeExpression(buf, e.Subscript)
		buf.WriteByte(']')

	case ExprInvoke:
		writeExpression(buf, e.Source)
		buf.WriteByte('(')

		for i, arg := range e.Args {
			if i > 0 {
				buf.WriteString(", ")
			}

			writeExpression(buf, arg)
		}

		buf.WriteByte(')')

	case ExprMap:
		buf.WriteByte('[')

		for i, entry := range e.Entries {
			if i > 0 {
				buf.WriteString(", ")
			}

			writeExpression(buf, entry.Key)
			buf.WriteString(": ")
			writeExpression(buf, entry.Value)
		}

		buf.WriteByte(']')

	default:
		buf.WriteString(voidSource)
	}
}

// voidSource is an expression that always evaluates to Void: any subscript
// of an empty map is missing.
const voidSource = "[][0]"

// writeValue writes a constant. Booleans have no literal form and are
// written as the symbols true and false, which the common library binds.
func writeValue(buf *strings.Builder, v Value) {
	switch v.Kind() {
	case KindBoolean, KindNumber, KindString:
		buf.WriteString(v.String())

	case KindMap:
		buf.WriteByte('[')

		for i := range v.Fields().Len() {
			if i > 0 {
				buf.WriteString(", ")
			}

			p := v.Fields().At(i)
			writeValue(buf, p.Key)
			buf.WriteString(": ")
			writeValue(buf, p.Value)
		}

		buf.WriteByte(']')

	default:
		buf.WriteString(voidSource)
	}
}

func isSymbol(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if !isSymbolStart(r) && (i == 0 || !isDigit(r)) {
			return false
		}
	}

	return true
}
