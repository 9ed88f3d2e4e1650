package lang

import (
	"bytes"
	"context"
	"encoding/gob"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// globalCache stores parsed command trees keyed by the hash of their source
// and parse options. Trees are immutable, so documents share them.
//
//nolint:gochecknoglobals
var globalCache sync.Map

// entry is the parse result of one source, computed at most once.
type entry struct {
	once sync.Once
	root *Command
	err  error
}

// hashOptions encodes options using gob and hashes with xxh3.
// Returns a hash that uniquely identifies the options configuration.
func hashOptions(opts optionsKey) uint64 {
	var buf bytes.Buffer

	enc := gob.NewEncoder(&buf)

	_ = enc.Encode(opts.delims.Begin)
	_ = enc.Encode(opts.delims.Continue)
	_ = enc.Encode(opts.delims.End)

	return xxh3.Hash(buf.Bytes())
}

// CompileCached is like [Compile], but reuses the command tree of an earlier
// call with the same source and delimiters. Other options (trimmer,
// strategy, error handler, logger) apply to the returned document only.
func CompileCached(
	ctx context.Context,
	source string,
	opts ...Option,
) (*Document, error) {
	cfg := makeConfig(opts...)

	if err := cfg.key.delims.Validate(); err != nil {
		return nil, err
	}

	sourceHash := xxh3.HashString(source)
	optsHash := hashOptions(cfg.key)
	key := sourceHash ^ optsHash

	value, hit := globalCache.LoadOrStore(key, new(entry))

	cached, ok := value.(*entry)
	if !ok {
		return nil, ErrInvalidCache.
			With(slog.String("key", strconv.FormatUint(key, 36)))
	}

	cfg.logger.TraceContext(
		ctx,
		"cache lookup",
		slog.String("source_hash", strconv.FormatUint(sourceHash, 16)),
		slog.String("opts_hash", strconv.FormatUint(optsHash, 16)),
		slog.Bool("cache_hit", hit),
	)

	cached.once.Do(func() {
		cached.root, cached.err = parse(source, cfg.key.delims)
	})

	if cached.err != nil {
		return nil, cached.err
	}

	return newDocument(ctx, cached.root, source, cfg), nil
}

// CompileReader reads a template from r and compiles it through the cache.
func CompileReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Document, error) {
	// Wrap reader with async read-ahead for concurrent I/O.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	makeConfig(opts...).logger.TraceContext(
		ctx,
		"read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true),
	)

	return CompileCached(ctx, string(data), opts...)
}

// CacheLen returns the number of cached command trees.
func CacheLen() int {
	n := 0

	globalCache.Range(func(any, any) bool {
		n++

		return true
	})

	return n
}

// ClearCache removes every cached command tree.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	globalCache.Clear()
}
