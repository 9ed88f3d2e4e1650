package lang

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileCached_SharesTree(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	a, err := CompileCached(t.Context(), "Hello {name}")
	require.NoError(t, err)

	b, err := CompileCached(t.Context(), "Hello {name}", WithTrimmer(TrimCollapse))
	require.NoError(t, err)

	assert.Same(t, a.Root(), b.Root())

	c, err := CompileCached(t.Context(), "Hello <name>",
		WithDelimiters(Delimiters{Begin: "<", Continue: "|", End: ">"}))
	require.NoError(t, err)

	assert.NotSame(t, a.Root(), c.Root())

	scope := NewScopeFrom(map[string]Value{"name": String("you")})

	for _, doc := range []*Document{a, c} {
		out, _, err := doc.RenderString(scope)
		require.NoError(t, err)
		assert.Equal(t, "Hello you", out)
	}
}

func TestCompileCached_DelimitersChangeKey(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	source := "{x}<x>"

	a, err := CompileCached(t.Context(), source)
	require.NoError(t, err)

	b, err := CompileCached(t.Context(), source,
		WithDelimiters(Delimiters{Begin: "<", Continue: "|", End: ">"}))
	require.NoError(t, err)

	assert.NotSame(t, a.Root(), b.Root())
	assert.Equal(t, CommandEcho, a.Root().Body.Type)
	assert.Equal(t, CommandLiteral, b.Root().Body.Type)
}

func TestCompileCached_ParseErrorIsCached(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	_, first := CompileCached(t.Context(), "{if x}")
	_, second := CompileCached(t.Context(), "{if x}")

	require.Error(t, first)
	assert.Same(t, first, second)
	assert.True(t, errors.Is(second, ErrParse))
}

func TestClearCache(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	a, err := CompileCached(t.Context(), "text")
	require.NoError(t, err)

	ClearCache()

	assert.Zero(t, CacheLen())

	b, err := CompileCached(t.Context(), "text")
	require.NoError(t, err)

	assert.NotSame(t, a.Root(), b.Root())
	assert.Equal(t, 1, CacheLen())

	_, err = CompileCached(t.Context(), "text", WithDelimiters(Delimiters{Begin: "<", Continue: "|", End: ">"}))
	require.NoError(t, err)
	assert.Equal(t, 2, CacheLen())
}

func TestCompileCached_InvalidDelimiters(t *testing.T) {
	_, err := CompileCached(t.Context(), "x", WithDelimiters(Delimiters{Begin: "{", Continue: "{", End: "}"}))
	assert.True(t, errors.Is(err, ErrInvalidDelims))

	_, err = Compile(t.Context(), "x", WithDelimiters(Delimiters{}))
	assert.True(t, errors.Is(err, ErrInvalidDelims))
}

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) { return 0, errBoom }

func TestCompileReader(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	doc, err := CompileReader(t.Context(), strings.NewReader("{for v in [1, 2]:{v}}"),
		WithStrategy(StrategyCompile))
	require.NoError(t, err)

	out, _, err := doc.RenderString(nil)
	require.NoError(t, err)
	assert.Equal(t, "12", out)
	assert.Equal(t, "{for v in [1, 2]:{v}}", doc.Text())

	_, err = CompileReader(t.Context(), brokenReader{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrReadInput))
	assert.True(t, errors.Is(err, errBoom))
}

func BenchmarkCompileCached(b *testing.B) {
	source := strings.Repeat("{for k, v in data:{k}={v}|empty:none}\n", 32)

	b.Run("cold", func(b *testing.B) {
		for b.Loop() {
			if _, err := Compile(b.Context(), source); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("cached", func(b *testing.B) {
		ClearCache()

		for b.Loop() {
			if _, err := CompileCached(b.Context(), source); err != nil {
				b.Fatal(err)
			}
		}
	})
}
