package lang

import (
	"io"
	"strconv"
	"strings"
)

// CommandType indicates the variant of a [Command].
type CommandType int

const (
	// CommandLiteral writes Text verbatim.
	CommandLiteral CommandType = iota

	// CommandEcho writes the string form of Expr.
	CommandEcho

	// CommandDump writes the debug form of Expr.
	CommandDump

	// CommandAssignValue binds Name to the value of Expr.
	CommandAssignValue

	// CommandAssignFunction binds Name to a function of Params running Body.
	CommandAssignFunction

	// CommandIf runs Body when Expr is true, else Next (an elif chain or the
	// else body).
	CommandIf

	// CommandFor runs Body for each entry of Expr, binding Key and Name, or
	// Next when there are no entries.
	CommandFor

	// CommandWhile runs Body as long as Expr is true.
	CommandWhile

	// CommandReturn stops the render with the value of Expr.
	CommandReturn

	// CommandComposite runs Body then Next.
	CommandComposite
)

// String returns a string representation of the command type.
func (t CommandType) String() string {
	switch t {
	case CommandLiteral:
		return "Literal"

	case CommandEcho:
		return "Echo"

	case CommandDump:
		return "Dump"

	case CommandAssignValue:
		return "AssignValue"

	case CommandAssignFunction:
		return "AssignFunction"

	case CommandIf:
		return "If"

	case CommandFor:
		return "For"

	case CommandWhile:
		return "While"

	case CommandReturn:
		return "Return"

	case CommandComposite:
		return "Composite"

	default:
		return "Unknown"
	}
}

// Command is a statement node. Which fields are meaningful depends on Type.
//
// A tree of commands is immutable once parsed and may be rendered by many
// goroutines at once.
type Command struct {
	Type CommandType

	Text   string      // Literal
	Expr   *Expression // Operand of Echo, Dump, AssignValue, If, For, While, Return
	Name   string      // Assigned symbol, or the value name of For
	Key    string      // Key name of For, empty if absent
	Params []string    // Parameter names of AssignFunction
	Mode   Mode        // Visibility of assignments

	Body *Command // Nested body; first statement of Composite
	Next *Command // Else branch of If, empty body of For, rest of Composite
}

// ExpressionType indicates the variant of an [Expression].
type ExpressionType int

const (
	// ExprVoid yields Void.
	ExprVoid ExpressionType = iota

	// ExprConstant yields Value.
	ExprConstant

	// ExprSymbol yields the binding of Name.
	ExprSymbol

	// ExprAccess yields the entry of Source keyed by Subscript.
	ExprAccess

	// ExprInvoke calls Source with Args.
	ExprInvoke

	// ExprMap builds a map from Entries.
	ExprMap
)

// String returns a string representation of the expression type.
func (t ExpressionType) String() string {
	switch t {
	case ExprVoid:
		return "Void"

	case ExprConstant:
		return "Constant"

	case ExprSymbol:
		return "Symbol"

	case ExprAccess:
		return "Access"

	case ExprInvoke:
		return "Invoke"

	case ExprMap:
		return "Map"

	default:
		return "Unknown"
	}
}

// Expression is a value node. Which fields are meaningful depends on Type.
type Expression struct {
	Type ExpressionType

	Value     Value         // Constant
	Name      string        // Symbol
	Source    *Expression   // Access, Invoke
	Subscript *Expression   // Access
	Args      []*Expression // Invoke
	Entries   []Entry       // Map, in declaration order
}

// Entry is a key/value pair of a map literal.
type Entry struct {
	Key   *Expression
	Value *Expression
}

// String returns the expression in template syntax.
func (e *Expression) String() string {
	var buf strings.Builder

	writeExpression(&buf, e)

	return buf.String()
}

// Print writes an indented representation of the command tree to w.
func (c *Command) Print(w io.Writer) error {
	p := &printer{w: w}
	c.print(p, 0)

	return p.err
}

func (c *Command) print(p *printer, indent int) {
	prefix := strings.Repeat("  ", indent)

	switch c.Type {
	case CommandLiteral:
		p.put(prefix, "Literal: ", strconv.Quote(c.Text))

	case CommandEcho, CommandDump, CommandReturn:
		p.put(prefix, c.Type.String(), ": ", c.Expr.String())

	case CommandAssignValue:
		p.put(prefix, "AssignValue: ", c.Name, " (", c.Mode.String(), ")")
		p.put(prefix, "  Value: ", c.Expr.String())

	case CommandAssignFunction:
		p.put(prefix, "AssignFunction: ", c.Name,
			"(", strings.Join(c.Params, ", "), ") (", c.Mode.String(), ")")
		p.put(prefix, "  Body")
		c.Body.print(p, indent+2)

	case CommandIf:
		p.put(prefix, "If: ", c.Expr.String())
		p.put(prefix, "  Then")
		c.Body.print(p, indent+2)

		if c.Next != nil {
			p.put(prefix, "  Else")
			c.Next.print(p, indent+2)
		}

	case CommandFor:
		names := c.Name
		if c.Key != "" {
			names = c.Key + ", " + c.Name
		}

		p.put(prefix, "For: ", names, " in ", c.Expr.String())
		p.put(prefix, "  Body")
		c.Body.print(p, indent+2)

		if c.Next != nil {
			p.put(prefix, "  Empty")
			c.Next.print(p, indent+2)
		}

	case CommandWhile:
		p.put(prefix, "While: ", c.Expr.String())
		p.put(prefix, "  Body")
		c.Body.print(p, indent+2)

	case CommandComposite:
		// Flatten the cons list so sequences print at one level.
		for cur := c; ; cur = cur.Next {
			if cur.Type != CommandComposite {
				cur.print(p, indent)

				break
			}

			cur.Body.print(p, indent)
		}

	default:
		p.put(prefix, c.Type.String())
	}
}

// Statements returns the statements of a composite chain in order. Any other
// command is returned as the only statement.
func (c *Command) Statements() []*Command {
	var out []*Command

	cur := c
	for cur.Type == CommandComposite {
		out = append(out, cur.Body)
		cur = cur.Next
	}

	return append(out, cur)
}

// printer writes lines and keeps the first write error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) put(items ...string) {
	if p.err != nil {
		return
	}

	_, p.err = io.WriteString(p.w, strings.Join(items, "")+"\n")
}
