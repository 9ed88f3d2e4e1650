package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/ardnew/cottle/lang"
	"github.com/ardnew/cottle/log"
)

// Check compiles each template separately and reports its first syntax
// error.
type Check struct {
	Syntax `embed:""`

	Quiet bool `help:"Only report templates with errors." short:"q"`

	Files []string `arg:"" help:"Template file(s), or '-' for stdin." name:"file" type:"existingfile"`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	logger := log.Default().With(slog.String("command", "check"))
	stdout, stderr := stdoutFrom(ctx), stderrFrom(ctx)

	failed := 0

	for _, path := range c.Files {
		err := c.check(ctx, path, logger)

		var perr *lang.ParseError

		switch {
		case err == nil:
			if !c.Quiet {
				fmt.Fprintf(stdout, "%s: ok\n", path)
			}

		case errors.As(err, &perr):
			failed++

			fmt.Fprintf(stderr, "%s:%d:%d: found %s, expected %s\n",
				path, perr.Line, perr.Column, foundText(perr), perr.Expected)

			if snippet := perr.Snippet(); snippet != "" {
				fmt.Fprintln(stderr, snippet)
			}

		default:
			return err
		}
	}

	if failed > 0 {
		return ErrCheckFailed.With(
			slog.Int("failed", failed),
			slog.Int("total", len(c.Files)),
		)
	}

	return nil
}

func (c *Check) check(ctx context.Context, path string, logger log.Logger) error {
	opts := []lang.Option{
		lang.WithDelimiters(c.Delimiters()),
		lang.WithLogger(logger.With(slog.String("path", path))),
	}

	if path == stdinSource {
		_, err := lang.CompileReader(ctx, stdinFrom(ctx), opts...)

		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return ErrOpenSource.Wrap(err).With(slog.String("path", path))
	}
	defer f.Close()

	_, err = lang.CompileReader(ctx, f, opts...)

	return err
}

func foundText(e *lang.ParseError) string {
	if e.Found == "" {
		return "end of file"
	}

	return fmt.Sprintf("%q", e.Found)
}
