package cmd

import (
	"context"
	"log/slog"
	"maps"
	"slices"

	"github.com/ardnew/cottle/lang"
	"github.com/ardnew/cottle/lib"
	"github.com/ardnew/cottle/log"
)

// Syntax holds the delimiter flags shared by every command.
type Syntax struct {
	Begin    string `default:"${begin}"    help:"Delimiter opening a block."         placeholder:"TEXT"`
	Continue string `default:"${continue}" help:"Delimiter separating block bodies." placeholder:"TEXT"`
	End      string `default:"${end}"      help:"Delimiter closing a block."         placeholder:"TEXT"`
}

// Delimiters returns the delimiters named by the flags.
func (s Syntax) Delimiters() lang.Delimiters {
	return lang.Delimiters{Begin: s.Begin, Continue: s.Continue, End: s.End}
}

// Evaluation holds the flags controlling how templates are rendered.
type Evaluation struct {
	Trim     string `default:"nothing"   enum:"${trimEnum}"     help:"Transform literal text (${enum})."   short:"t"`
	Strategy string `default:"interpret" enum:"${strategyEnum}" help:"Evaluation strategy (${enum})."`
}

// options returns the document options for the flags, logging through
// logger.
func (e Evaluation) options(syntax Syntax, logger log.Logger) ([]lang.Option, error) {
	trim, err := lang.ParseTrimmer(e.Trim)
	if err != nil {
		return nil, ErrInvalidOption.Wrap(err)
	}

	strategy, err := lang.ParseStrategy(e.Strategy)
	if err != nil {
		return nil, ErrInvalidOption.Wrap(err)
	}

	return []lang.Option{
		lang.WithDelimiters(syntax.Delimiters()),
		lang.WithTrimmer(trim),
		lang.WithStrategy(strategy),
		lang.WithLogger(logger),
	}, nil
}

// Environment holds the flags that populate the render scope.
type Environment struct {
	Vars  []string          `help:"YAML file of variables to bind (repeatable)." placeholder:"FILE" short:"f" type:"existingfile"`
	Set   map[string]string `help:"Bind a variable to a string."                 placeholder:"NAME=VALUE" short:"D"`
	NoLib bool              `help:"Do not bind the common function library."`
}

// scope returns a new scope holding the common library, then the variables
// of each file in order, then the --set bindings.
func (e Environment) scope(ctx context.Context, logger log.Logger) (*lang.Scope, error) {
	scope := lang.NewScope()

	if !e.NoLib {
		lib.Populate(scope)
	}

	for _, path := range e.Vars {
		n, err := loadVarsFile(path, scope)
		if err != nil {
			return nil, err
		}

		logger.DebugContext(ctx, "variables loaded",
			slog.String("path", path),
			slog.Int("count", n),
		)
	}

	for _, name := range slices.Sorted(maps.Keys(e.Set)) {
		scope.Set(lang.String(name), lang.String(e.Set[name]), lang.ModeLocal)
	}

	return scope, nil
}
