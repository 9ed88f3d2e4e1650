package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/ardnew/cottle/lang"
	"github.com/ardnew/cottle/log"
)

// Render renders the concatenation of its source files to standard output.
type Render struct {
	Syntax      `embed:""`
	Evaluation  `embed:""`
	Environment `embed:""`

	ShowReturn bool `help:"Print the value of a return statement to standard error." short:"r"`
	Strict     bool `help:"Fail when a function call fails during the render."`

	Files []string `arg:"" help:"Template file(s), or '-' for stdin (default)." name:"file" optional:"" type:"existingfile"`
}

// Run executes the render command.
func (r *Render) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	logger := log.Default().With(slog.String("command", "render"))

	src, err := openSources(ctx, r.Files)
	if err != nil {
		return err
	}
	defer src.Close()

	opts, err := r.options(r.Syntax, logger)
	if err != nil {
		return err
	}

	var failures atomic.Int64

	opts = append(opts, lang.WithErrorHandler(
		func(source lang.Value, message string, err error) {
			failures.Add(1)
			logger.WarnContext(ctx, message,
				slog.String("function", source.String()),
				slog.Any("error", err),
			)
		}),
	)

	doc, err := lang.CompileReader(ctx, src.Reader(), opts...)
	if err != nil {
		return err
	}

	scope, err := r.scope(ctx, logger)
	if err != nil {
		return err
	}

	value, err := doc.Render(scope, stdoutFrom(ctx))
	if err != nil {
		return err
	}

	logger.DebugContext(ctx, "render complete",
		slog.Any("sources", src.Names()),
		slog.String("return", value.String()),
		slog.Int64("failures", failures.Load()),
	)

	if r.ShowReturn && value.Kind() != lang.KindVoid {
		if err := writeReturn(stderrFrom(ctx), value); err != nil {
			return err
		}
	}

	if n := failures.Load(); r.Strict && n > 0 {
		return ErrStrictRender.With(slog.Int64("count", n))
	}

	return nil
}

func writeReturn(w io.Writer, value lang.Value) error {
	if _, err := fmt.Fprintln(w, value.String()); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
