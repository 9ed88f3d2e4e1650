package repl

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/ardnew/cottle/lang"
	"github.com/ardnew/cottle/log"
)

// keywords are the statement keywords offered as completions.
//
//nolint:gochecknoglobals
var keywords = []string{
	"as", "declare", "define", "dump", "echo", "elif", "else", "empty",
	"for", "if", "in", "return", "set", "to", "while",
}

// session holds the state shared by every line of a REPL: one scope that
// each rendered template reads and updates.
type session struct {
	scope    *lang.Scope
	newScope func() (*lang.Scope, error)
	opts     []lang.Option
	delims   lang.Delimiters
	logger   log.Logger
}

// result is the outcome of rendering one template.
type result struct {
	output   string
	value    lang.Value
	failures []string
}

func newSession(
	ctx context.Context,
	newScope func() (*lang.Scope, error),
	logger log.Logger,
	opts ...lang.Option,
) (*session, error) {
	if newScope == nil {
		return nil, ErrNoScope
	}

	scope, err := newScope()
	if err != nil {
		return nil, err
	}

	// An empty template validates the options and reports the delimiters.
	base, err := lang.Compile(ctx, "", opts...)
	if err != nil {
		return nil, err
	}

	return &session{
		scope:    scope,
		newScope: newScope,
		opts:     opts,
		delims:   base.Delimiters(),
		logger:   logger,
	}, nil
}

// eval compiles and renders source against the session scope.
func (s *session) eval(ctx context.Context, source string) (result, error) {
	var res result

	opts := append(slices.Clip(s.opts), lang.WithErrorHandler(
		func(fn lang.Value, message string, err error) {
			res.failures = append(res.failures, message+": "+err.Error())

			s.logger.DebugContext(ctx, message,
				slog.String("function", fn.String()),
				slog.Any("error", err),
			)
		}),
	)

	// Not CompileCached: the cache never evicts, and a session is long.
	doc, err := lang.Compile(ctx, source, opts...)
	if err != nil {
		return res, err
	}

	var out strings.Builder

	res.value, err = doc.Render(s.scope, &out)
	res.output = out.String()

	return res, err
}

// reset replaces the scope with a fresh one from the factory.
func (s *session) reset() error {
	scope, err := s.newScope()
	if err != nil {
		return err
	}

	s.scope = scope

	return nil
}

// resolve returns the value at a dotted path of symbol and field names.
func (s *session) resolve(path string) (lang.Value, bool) {
	segments := strings.Split(path, ".")

	value, ok := s.scope.Get(lang.String(segments[0]))
	for _, seg := range segments[1:] {
		if !ok {
			break
		}

		value, ok = value.Fields().Get(lang.String(seg))
	}

	return value, ok
}

// inBlock reports whether text ends inside an unclosed block.
func (s *session) inBlock(text string) bool {
	return strings.LastIndex(text, s.delims.Begin) >
		strings.LastIndex(text, s.delims.End)
}

// isBoundary reports whether r separates words: whitespace, punctuation of
// the language or a character of a delimiter.
func (s *session) isBoundary(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '.', ',', ':', '(', ')', '[', ']', '"', '\'', '\\':
		return true
	}

	return strings.ContainsRune(s.delims.Begin, r) ||
		strings.ContainsRune(s.delims.Continue, r) ||
		strings.ContainsRune(s.delims.End, r)
}
