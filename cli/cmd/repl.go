package cmd

import (
	"context"
	"io"
	"log/slog"
	"slices"

	"github.com/ardnew/cottle/cli/cmd/repl"
	"github.com/ardnew/cottle/lang"
	"github.com/ardnew/cottle/log"
)

// Repl renders template lines interactively against one shared scope.
type Repl struct {
	Syntax      `embed:""`
	Evaluation  `embed:""`
	Environment `embed:""`

	Cache     string `default:"${cache}" help:"Directory of the persistent line history." placeholder:"DIR"`
	NoHistory bool   `help:"Keep the line history in memory only."`

	Files []string `arg:"" help:"Template file(s) rendered before the first prompt." name:"file" optional:"" type:"existingfile"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	logger := log.Default().With(slog.String("command", "repl"))

	if slices.Contains(r.Files, stdinSource) {
		return ErrInvalidOption.With(slog.String("file", stdinSource),
			slog.String("reason", "standard input is the terminal"))
	}

	opts, err := r.options(r.Syntax, logger)
	if err != nil {
		return err
	}

	var prelude io.Reader

	if len(r.Files) > 0 {
		src, err := openSources(ctx, r.Files)
		if err != nil {
			return err
		}
		defer src.Close()

		prelude = src.Reader()
	}

	cacheDir := r.Cache
	if r.NoHistory {
		cacheDir = ""
	}

	newScope := func() (*lang.Scope, error) {
		return r.scope(ctx, logger)
	}

	return repl.Run(ctx, newScope, prelude, cacheDir, logger, opts...)
}
