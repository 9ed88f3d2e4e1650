package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/cottle/lang"
)

func TestDecodeVars(t *testing.T) {
	vars, err := decodeVars(strings.NewReader(`
zeta: 1
alpha:
  list: [a, 2, true]
  nested: {k: v}
when: 2024-05-06T07:08:09Z
empty: null
`))
	require.NoError(t, err)

	var keys []string
	for key := range vars.All() {
		keys = append(keys, key.AsString())
	}

	assert.Equal(t, []string{"zeta", "alpha", "when", "empty"}, keys, "document order is kept")

	alpha, ok := vars.Get(lang.String("alpha"))
	require.True(t, ok)

	list, ok := alpha.Fields().Get(lang.String("list"))
	require.True(t, ok)
	assert.Equal(t, lang.KindMap, list.Kind())
	assert.Equal(t, 3, list.Fields().Len())

	first, _ := list.Fields().Get(lang.NumberFromInt(0))
	assert.Equal(t, "a", first.AsString())

	nested, _ := alpha.Fields().Get(lang.String("nested"))
	k, _ := nested.Fields().Get(lang.String("k"))
	assert.Equal(t, "v", k.AsString())

	when, _ := vars.Get(lang.String("when"))
	assert.Equal(t, "2024-05-06T07:08:09Z", when.AsString())

	empty, _ := vars.Get(lang.String("empty"))
	assert.Equal(t, lang.KindVoid, empty.Kind())
}

func TestDecodeVars_Empty(t *testing.T) {
	vars, err := decodeVars(strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, vars.Len())
}

func TestDecodeVars_NotMap(t *testing.T) {
	_, err := decodeVars(strings.NewReader("- 1\n- 2\n"))
	require.ErrorIs(t, err, ErrVarsNotMap)

	_, err = decodeVars(strings.NewReader("key: [unclosed"))
	require.Error(t, err)
}

func TestLoadVarsFile(t *testing.T) {
	dir := t.TempDir()
	scope := lang.NewScope()

	n, err := loadVarsFile(writeFile(t, dir, "v.yaml", "a: 1\nb: two\n"), scope)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "1", scope.Lookup("a").AsString())
	assert.Equal(t, "two", scope.Lookup("b").AsString())

	_, err = loadVarsFile(writeFile(t, dir, "list.yaml", "[1]"), scope)
	require.ErrorIs(t, err, ErrLoadVars)
	require.ErrorIs(t, err, ErrVarsNotMap)
}

func TestEnvironmentScope(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "first.yaml", "a: 1\nb: 1\n")
	second := writeFile(t, dir, "second.yaml", "b: 2\n")

	env := Environment{
		Vars: []string{first, second},
		Set:  map[string]string{"a": "set"},
	}

	scope, err := env.scope(t.Context(), testLogger())
	require.NoError(t, err)
	assert.Equal(t, "set", scope.Lookup("a").AsString())
	assert.Equal(t, "2", scope.Lookup("b").AsString())
	assert.Equal(t, lang.KindFunction, scope.Lookup("add").Kind())

	env.NoLib = true

	scope, err = env.scope(t.Context(), testLogger())
	require.NoError(t, err)
	assert.Equal(t, lang.KindVoid, scope.Lookup("add").Kind())
}

func TestEvaluationOptions(t *testing.T) {
	opts, err := Evaluation{Trim: "collapse", Strategy: "compile"}.
		options(Syntax{Begin: "<<", Continue: "|", End: ">>"}, testLogger())
	require.NoError(t, err)

	doc, err := lang.Compile(t.Context(), "<<echo 1>>", opts...)
	require.NoError(t, err)
	assert.Equal(t, lang.Delimiters{Begin: "<<", Continue: "|", End: ">>"}, doc.Delimiters())

	_, err = Evaluation{Trim: "bogus", Strategy: "compile"}.options(Syntax{}, testLogger())
	require.ErrorIs(t, err, ErrInvalidOption)

	_, err = Evaluation{Trim: "nothing", Strategy: "bogus"}.options(Syntax{}, testLogger())
	require.ErrorIs(t, err, ErrInvalidOption)
}
