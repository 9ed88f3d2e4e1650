package lang

import (
	"io"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nop() Value {
	return FunctionOf(FunctionFunc(func([]Value, *Scope, io.Writer) (Value, error) {
		return Void, nil
	}))
}

func TestValue_CrossKindOrder(t *testing.T) {
	ordered := []Value{
		Void,
		Bool(false),
		Bool(true),
		NumberFromInt(-1),
		NumberFromInt(0),
		String(""),
		String("a"),
		MapOf(nil),
		List(NumberFromInt(1)),
		nop(),
	}

	for i := range ordered {
		for j := range ordered {
			got := Compare(ordered[i], ordered[j])

			switch {
			case i < j:
				assert.Negative(t, got, "%v < %v", ordered[i], ordered[j])
			case i > j:
				assert.Positive(t, got, "%v > %v", ordered[i], ordered[j])
			default:
				assert.Zero(t, got, "%v == %v", ordered[i], ordered[j])
			}
		}
	}
}

func TestValue_NonFiniteIsVoid(t *testing.T) {
	for _, f := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		assert.Equal(t, KindVoid, NumberFromFloat(f).Kind())
		assert.Equal(t, KindVoid, FromNative(f).Kind())
		assert.Equal(t, KindVoid, FromNative(float32(f)).Kind())
	}

	assert.Equal(t, "1.5", NumberFromFloat(1.5).AsString())
	assert.Equal(t, "0.1", NumberFromFloat(0.1).AsString())
}

func TestValue_AsBoolean(t *testing.T) {
	tests := []struct {
		value Value
		want  bool
	}{
		{Void, false},
		{Bool(false), false},
		{Bool(true), true},
		{NumberFromInt(0), false},
		{NumberFromInt(2), true},
		{String(""), false},
		{String("0"), true},
		{MapOf(nil), false},
		{List(Void), true},
		{nop(), true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.value.AsBoolean(), "%v", tt.value)
	}
}

func TestValue_AsNumber(t *testing.T) {
	tests := []struct {
		value Value
		want  string
	}{
		{Void, "0"},
		{Bool(true), "1"},
		{Bool(false), "0"},
		{String("12.50"), "12.5"},
		{String(" 7 "), "7"},
		{String("abc"), "0"},
		{List(Void, Void, Void), "3"},
		{nop(), "0"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.value.AsNumber().String(), "%v", tt.value)
	}
}

func TestValue_AsStringAndDump(t *testing.T) {
	tests := []struct {
		value  Value
		str    string
		dumped string
	}{
		{Void, "", "<void>"},
		{Bool(true), "true", "true"},
		{Number(decimal.RequireFromString("1.500")), "1.5", "1.5"},
		{String(`a"b`), `a"b`, `"a\"b"`},
		{List(String("x")), `[0: "x"]`, `[0: "x"]`},
		{nop(), "", "<function>"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.str, tt.value.AsString())
		assert.Equal(t, tt.dumped, tt.value.String())
	}
}

func TestValue_Views(t *testing.T) {
	assert.Nil(t, String("f").AsFunction())
	assert.NotNil(t, nop().AsFunction())

	assert.Zero(t, String("abc").Fields().Len())
	assert.Zero(t, Void.Fields().Len())
	assert.Equal(t, 2, List(Void, Void).Fields().Len())
}

func TestValue_FunctionIdentity(t *testing.T) {
	fn := FunctionFunc(func([]Value, *Scope, io.Writer) (Value, error) { return Void, nil })

	a, b := FunctionOf(fn), FunctionOf(fn)

	assert.True(t, Equal(a, a))
	assert.False(t, Equal(a, b))
	assert.Equal(t, KindVoid, FunctionOf(nil).Kind())
}

func TestMap_DuplicateKeys(t *testing.T) {
	m := NewMap(
		Pair{Key: NumberFromInt(1), Value: String("a")},
		Pair{Key: String("x"), Value: String("b")},
		Pair{Key: Number(decimal.RequireFromString("1.0")), Value: String("c")},
	)

	require.Equal(t, 2, m.Len())
	assert.Equal(t, "1", m.At(0).Key.AsString())
	assert.Equal(t, "c", m.At(0).Value.AsString())
	assert.Equal(t, "x", m.At(1).Key.AsString())
}

func TestMap_KeysAreTyped(t *testing.T) {
	m := NewMap(
		Pair{Key: NumberFromInt(1), Value: String("number")},
		Pair{Key: String("1"), Value: String("string")},
		Pair{Key: Bool(true), Value: String("boolean")},
	)

	require.Equal(t, 3, m.Len())

	v, ok := m.Get(String("1"))
	require.True(t, ok)
	assert.Equal(t, "string", v.AsString())

	v, ok = m.Get(NumberFromInt(1))
	require.True(t, ok)
	assert.Equal(t, "number", v.AsString())

	v, ok = m.Get(Void)
	assert.False(t, ok)
	assert.Equal(t, KindVoid, v.Kind())
}

func TestMap_CompositeKeys(t *testing.T) {
	key := List(NumberFromInt(1), NumberFromInt(2))
	m := NewMap(Pair{Key: key, Value: String("pair")})

	v, ok := m.Get(List(NumberFromInt(1), NumberFromInt(2)))
	require.True(t, ok)
	assert.Equal(t, "pair", v.AsString())

	assert.False(t, m.Has(List(NumberFromInt(2), NumberFromInt(1))))
}

func TestMap_Iteration(t *testing.T) {
	m := NewMap(
		Pair{Key: String("b"), Value: NumberFromInt(2)},
		Pair{Key: String("a"), Value: NumberFromInt(1)},
	)

	var keys []string
	for k := range m.All() {
		keys = append(keys, k.AsString())
	}

	assert.Equal(t, []string{"b", "a"}, keys)
	assert.Len(t, m.Keys(), 2)
	assert.Len(t, m.Values(), 2)
	assert.Len(t, m.Pairs(), 2)
	assert.Nil(t, NewMap().Pairs())
	assert.Equal(t, `["b": 2, "a": 1]`, m.String())
}

func TestFromNative(t *testing.T) {
	v := FromNative(map[string]any{
		"name":  "cottle",
		"count": 3,
		"tags":  []string{"x", "y"},
		"ratio": 0.25,
		"nil":   nil,
		"ok":    true,
	})

	require.Equal(t, KindMap, v.Kind())

	fields := v.Fields()
	assert.Equal(t,
		[]Value{String("count"), String("name"), String("nil"), String("ok"), String("ratio"), String("tags")},
		fields.Keys(),
	)

	tags, _ := fields.Get(String("tags"))
	assert.Equal(t, `[0: "x", 1: "y"]`, tags.String())

	ratio, _ := fields.Get(String("ratio"))
	assert.Equal(t, "0.25", ratio.AsString())

	assert.Equal(t, "18446744073709551615", FromNative(uint64(math.MaxUint64)).AsString())
	assert.Equal(t, KindVoid, FromNative(struct{}{}).Kind())
	assert.Equal(t, KindVoid, FromNative(map[int]int{1: 1}).Kind())
	assert.Equal(t, `["a": 1]`, FromNative(map[string]int{"a": 1}).String())
}

func TestKind_String(t *testing.T) {
	for kind, want := range map[Kind]string{
		KindVoid:     "Void",
		KindBoolean:  "Boolean",
		KindNumber:   "Number",
		KindString:   "String",
		KindMap:      "Map",
		KindFunction: "Function",
		Kind(99):     "Unknown",
	} {
		assert.Equal(t, want, kind.String())
	}
}
