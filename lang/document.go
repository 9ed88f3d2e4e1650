package lang

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/ardnew/cottle/log"
)

// Strategy selects how a document is evaluated.
type Strategy int

const (
	// StrategyInterpret walks the command tree on every render.
	StrategyInterpret Strategy = iota

	// StrategyCompile lowers the command tree into Go closures once, when the
	// document is compiled. Output is identical to StrategyInterpret.
	StrategyCompile
)

// String returns the name of the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyInterpret:
		return "interpret"

	case StrategyCompile:
		return "compile"

	default:
		return "unknown"
	}
}

// ParseStrategy returns the strategy with the given name.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case StrategyInterpret.String():
		return StrategyInterpret, nil

	case StrategyCompile.String():
		return StrategyCompile, nil

	default:
		return StrategyInterpret, ErrUnknownStrat.With(slog.String("name", name))
	}
}

// optionsKey holds the options that affect parsing.
// It is gob-encoded to key the compile cache.
type optionsKey struct {
	delims Delimiters
}

// config holds every document option.
type config struct {
	key      optionsKey
	trim     Trimmer
	strategy Strategy
	handler  ErrorHandler
	logger   log.Logger // zero value discards everything
}

// Option configures how a document is compiled and rendered.
type Option func(*config)

// WithDelimiters sets the block delimiters. The default is
// [DefaultDelimiters].
func WithDelimiters(d Delimiters) Option {
	return func(c *config) {
		c.key.delims = d
	}
}

// WithTrimmer sets how literal text is transformed. The default is
// [TrimNothing].
func WithTrimmer(t Trimmer) Option {
	return func(c *config) {
		c.trim = t
	}
}

// WithStrategy sets the evaluation strategy. The default is
// [StrategyInterpret].
func WithStrategy(s Strategy) Option {
	return func(c *config) {
		c.strategy = s
	}
}

// WithErrorHandler sets the callback receiving invocation failures. Without
// one, failures are logged at debug level.
func WithErrorHandler(h ErrorHandler) Option {
	return func(c *config) {
		c.handler = h
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

func makeConfig(opts ...Option) config {
	cfg := config{key: optionsKey{delims: DefaultDelimiters}}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// Document is a compiled template. It is immutable and may be rendered
// concurrently, provided each render uses its own [Scope] and writer.
type Document struct {
	root    *Command
	source  string
	delims  Delimiters
	rt      *runtime
	program body // nil unless compiled with StrategyCompile
}

// Compile parses source into a document.
// A structural error in source is reported as a [*ParseError].
func Compile(ctx context.Context, source string, opts ...Option) (*Document, error) {
	cfg := makeConfig(opts...)

	if err := cfg.key.delims.Validate(); err != nil {
		return nil, err
	}

	cfg.logger.TraceContext(
		ctx,
		"parse start",
		slog.Int("source_length", len(source)),
	)

	root, err := parse(source, cfg.key.delims)
	if err != nil {
		cfg.logger.TraceContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	cfg.logger.TraceContext(ctx, "parse complete")

	return newDocument(ctx, root, source, cfg), nil
}

func newDocument(
	ctx context.Context,
	root *Command,
	source string,
	cfg config,
) *Document {
	doc := &Document{
		root:   root,
		source: source,
		delims: cfg.key.delims,
		rt: &runtime{
			trim:    cfg.trim,
			handler: cfg.handler,
			logger:  cfg.logger,
		},
	}

	if cfg.strategy == StrategyCompile {
		doc.program = doc.rt.compile(root)

		cfg.logger.TraceContext(ctx, "program compiled")
	}

	return doc
}

// Root returns the command tree of the document.
func (d *Document) Root() *Command { return d.root }

// Text returns the template source the document was compiled from.
func (d *Document) Text() string { return d.source }

// Delimiters returns the delimiters the document was parsed with.
func (d *Document) Delimiters() Delimiters { return d.delims }

// Render evaluates the document against scope, writing output to w. A nil
// scope is replaced with an empty one.
//
// The result is the operand of the first return statement reached, or Void.
// Missing data never fails a render; the only errors wrap [ErrRender] and
// report output failures or an unbalanced scope.
func (d *Document) Render(scope *Scope, w io.Writer) (Value, error) {
	if scope == nil {
		scope = NewScope()
	}

	out := &sink{w: w}

	var (
		value Value
		err   error
	)

	if d.program != nil {
		value, _, err = d.program(scope, out)
	} else {
		value, _, err = d.rt.exec(d.root, scope, out)
	}

	// Output written by a failing function body is only visible here.
	if err == nil && out.err != nil {
		err = ErrWriteOutput.Wrap(out.err)
	}

	if err != nil {
		return Void, ErrRender.Wrap(err)
	}

	return value, nil
}

// RenderString renders the document into a string.
func (d *Document) RenderString(scope *Scope) (string, Value, error) {
	var buf strings.Builder

	value, err := d.Render(scope, &buf)

	return buf.String(), value, err
}

// Print writes an indented representation of the command tree to w.
func (d *Document) Print(w io.Writer) error { return d.root.Print(w) }

// Source writes the canonical template source of the document to w.
func (d *Document) Source(w io.Writer) error {
	return FormatSource(d.root, d.delims, w)
}

// sink forwards writes and keeps the first error. After a failure every
// write fails, so a render stops producing output.
type sink struct {
	w   io.Writer
	err error
}

func (s *sink) Write(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}

	n, err := s.w.Write(p)
	if err != nil {
		s.err = err
	}

	return n, err
}
