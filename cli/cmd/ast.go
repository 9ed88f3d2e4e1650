package cmd

import (
	"context"
	"log/slog"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/cottle/lang"
	"github.com/ardnew/cottle/log"
)

// Ast prints the syntax tree of templates.
type Ast struct {
	Syntax `embed:""`

	YAML   bool `help:"Print the tree as YAML."`
	Indent int  `default:"2" help:"Indent width of YAML output." short:"i"`

	Files []string `arg:"" help:"Template file(s), or '-' for stdin (default)." name:"file" optional:"" type:"existingfile"`
}

// Run executes the ast command.
func (a *Ast) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	logger := log.Default().With(slog.String("command", "ast"))

	src, err := openSources(ctx, a.Files)
	if err != nil {
		return err
	}
	defer src.Close()

	doc, err := lang.CompileReader(ctx, src.Reader(),
		lang.WithDelimiters(a.Delimiters()),
		lang.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	if !a.YAML {
		return doc.Print(stdoutFrom(ctx))
	}

	out, err := yaml.MarshalWithOptions(exportCommands(doc.Root()),
		yaml.Indent(a.Indent),
		yaml.IndentSequence(true),
	)
	if err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	if _, err := stdoutFrom(ctx).Write(out); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// exportCommands returns the statements of c as YAML nodes.
func exportCommands(c *lang.Command) []yaml.MapSlice {
	stmts := c.Statements()

	out := make([]yaml.MapSlice, len(stmts))
	for i, s := range stmts {
		out[i] = exportCommand(s)
	}

	return out
}

// exportCommand returns a single command as an ordered YAML mapping. Keys
// are emitted only when meaningful for the command type.
func exportCommand(c *lang.Command) yaml.MapSlice {
	node := yaml.MapSlice{{Key: "type", Value: c.Type.String()}}

	add := func(key string, value any) {
		node = append(node, yaml.MapItem{Key: key, Value: value})
	}

	switch c.Type {
	case lang.CommandLiteral:
		add("text", c.Text)

	case lang.CommandEcho, lang.CommandDump, lang.CommandReturn, lang.CommandWhile:
		add("expr", c.Expr.String())

	case lang.CommandAssignValue:
		add("name", c.Name)
		add("mode", c.Mode.String())
		add("expr", c.Expr.String())

	case lang.CommandAssignFunction:
		add("name", c.Name)
		add("mode", c.Mode.String())
		add("params", c.Params)

	case lang.CommandIf:
		add("expr", c.Expr.String())

	case lang.CommandFor:
		if c.Key != "" {
			add("key", c.Key)
		}

		add("value", c.Name)
		add("expr", c.Expr.String())
	}

	if c.Body != nil && c.Type != lang.CommandComposite {
		add("body", exportCommands(c.Body))
	}

	if c.Next != nil && c.Type != lang.CommandComposite {
		add(nextKey(c.Type), exportCommands(c.Next))
	}

	return node
}

func nextKey(t lang.CommandType) string {
	if t == lang.CommandFor {
		return "empty"
	}

	return "else"
}
