package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
)

type (
	contextKey struct{}
	stdinKey   struct{}
)

// WithContext returns a new context.Context containing the given kong.Context.
// Commands write to the writers of the kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

// WithStdin returns a new context.Context whose commands read "-" from r
// instead of os.Stdin.
func WithStdin(ctx context.Context, r io.Reader) context.Context {
	return context.WithValue(ctx, stdinKey{}, r)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

func stdinFrom(ctx context.Context) io.Reader {
	if r, ok := ctx.Value(stdinKey{}).(io.Reader); ok && r != nil {
		return r
	}

	return os.Stdin
}

// stdoutFrom returns the standard output of the kong.Context in ctx.
func stdoutFrom(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// stderrFrom returns the standard error of the kong.Context in ctx.
func stderrFrom(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stderr != nil {
		return ktx.Stderr
	}

	return os.Stderr
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// fileKey identifies a file by its device and inode numbers, so the same
// file named through symlinks or different relative paths is read once.
type fileKey struct {
	dev uint64
	ino uint64
}

// sources reads the concatenation of several inputs.
type sources struct {
	names []string
	files []*os.File
	stdin io.Reader // nil unless stdin is one of the sources
}

// openSources opens paths for reading in order. Duplicate files are opened
// once. Every occurrence of "-" refers to a single stdin reader, which is
// read after all regular files. No paths at all means stdin alone.
func openSources(ctx context.Context, paths []string) (*sources, error) {
	var src sources

	if len(paths) == 0 {
		paths = []string{stdinSource}
	}

	seen := make(map[fileKey]struct{})

	for _, path := range paths {
		if path == stdinSource {
			src.stdin = stdinFrom(ctx)

			continue
		}

		file, err := openUnique(path, seen)
		if err != nil {
			_ = src.Close()

			return nil, ErrOpenSource.Wrap(err).With(slog.String("path", path))
		}

		if file != nil {
			src.names = append(src.names, path)
			src.files = append(src.files, file)
		}
	}

	if src.stdin != nil {
		src.names = append(src.names, stdinSource)
	}

	return &src, nil
}

// Names returns the sources in the order they are read.
func (s *sources) Names() []string { return s.names }

func (s *sources) readers() []io.Reader {
	readers := make([]io.Reader, 0, len(s.files)+1)
	for _, f := range s.files {
		readers = append(readers, f)
	}

	if s.stdin != nil {
		readers = append(readers, s.stdin)
	}

	return readers
}

// Reader returns a reader over the concatenated sources.
func (s *sources) Reader() io.Reader {
	return io.MultiReader(s.readers()...)
}

// Close closes every opened file.
func (s *sources) Close() error {
	errs := make([]error, 0, len(s.files))
	for _, f := range s.files {
		errs = append(errs, f.Close())
	}

	return errors.Join(errs...)
}

// openUnique opens the file at path unless a file with the same identity is
// in seen. It returns a nil file for duplicates.
func openUnique(path string, seen map[fileKey]struct{}) (*os.File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, err
	}

	if key, ok := makeFileKey(info); ok {
		if _, dup := seen[key]; dup {
			return nil, nil //nolint:nilnil
		}

		seen[key] = struct{}{}
	}

	return os.Open(resolved)
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}
