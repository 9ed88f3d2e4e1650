package cmd

import (
	"bytes"
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/cottle/lang"
	"github.com/ardnew/cottle/log"
)

// Fmt prints templates in canonical source form.
type Fmt struct {
	Syntax `embed:""`

	Write bool `help:"Rewrite each file in place instead of printing." short:"w"`

	Files []string `arg:"" help:"Template file(s), or '-' for stdin (default)." name:"file" optional:"" type:"existingfile"`
}

// Run executes the fmt command.
func (f *Fmt) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	logger := log.Default().With(slog.String("command", "fmt"))
	opts := []lang.Option{
		lang.WithDelimiters(f.Delimiters()),
		lang.WithLogger(logger),
	}

	if !f.Write {
		src, err := openSources(ctx, f.Files)
		if err != nil {
			return err
		}
		defer src.Close()

		doc, err := lang.CompileReader(ctx, src.Reader(), opts...)
		if err != nil {
			return err
		}

		return doc.Source(stdoutFrom(ctx))
	}

	for _, path := range f.Files {
		if path == stdinSource {
			continue
		}

		changed, err := rewrite(ctx, path, opts)
		if err != nil {
			return err
		}

		logger.DebugContext(ctx, "formatted",
			slog.String("path", path),
			slog.Bool("changed", changed),
		)
	}

	return nil
}

// rewrite replaces the content of the template at path with its canonical
// form, reporting whether the content changed.
func rewrite(ctx context.Context, path string, opts []lang.Option) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, ErrOpenSource.Wrap(err).With(slog.String("path", path))
	}

	doc, err := lang.Compile(ctx, string(data), opts...)
	if err != nil {
		return false, err
	}

	var buf bytes.Buffer
	if err := doc.Source(&buf); err != nil {
		return false, err
	}

	if bytes.Equal(buf.Bytes(), data) {
		return false, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, ErrWriteOutput.Wrap(err).With(slog.String("path", path))
	}

	if err := os.WriteFile(path, buf.Bytes(), info.Mode().Perm()); err != nil {
		return false, ErrWriteOutput.Wrap(err).With(slog.String("path", path))
	}

	return true, nil
}
