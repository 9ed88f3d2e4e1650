package lang

import (
	"cmp"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/shopspring/decimal"
)

// Kind identifies the variant of a [Value].
//
// The order of the constants is significant: values of different kinds are
// ordered by kind, so that map keys of mixed kinds remain totally ordered.
type Kind int

const (
	KindVoid Kind = iota
	KindBoolean
	KindNumber
	KindString
	KindMap
	KindFunction
)

// String returns a string representation of the value kind.
func (k Kind) String() string {
	switch k {
	case KindVoid:
		return "Void"

	case KindBoolean:
		return "Boolean"

	case KindNumber:
		return "Number"

	case KindString:
		return "String"

	case KindMap:
		return "Map"

	case KindFunction:
		return "Function"

	default:
		return "Unknown"
	}
}

// Value is the runtime datum manipulated by templates, and the payload of
// constant expressions in the AST.
//
// Every value exposes the same derived views regardless of its kind, so the
// evaluator never has to fail on a type mismatch. The String method returns
// the debug representation written by the dump statement.
type Value interface {
	fmt.Stringer

	// Kind returns the variant of the value.
	Kind() Kind

	// AsBoolean reports the truthiness of the value. Void, false, zero, the
	// empty string and the empty map are false.
	AsBoolean() bool

	// AsNumber returns the numeric view of the value. Strings are parsed,
	// with unparsable text yielding zero.
	AsNumber() decimal.Decimal

	// AsString returns the canonical rendering of the value.
	AsString() string

	// AsFunction returns the executable capability of the value, or nil.
	AsFunction() Function

	// Fields returns the ordered key/value view of the value. Non-map values
	// return an empty map.
	Fields() *Map

	value() // sealed
}

// Void is the absent value.
//
//nolint:gochecknoglobals
var Void Value = voidValue{}

type voidValue struct{}

func (voidValue) value() {}

func (voidValue) Kind() Kind                { return KindVoid }
func (voidValue) AsBoolean() bool           { return false }
func (voidValue) AsNumber() decimal.Decimal { return decimal.Zero }
func (voidValue) AsString() string          { return "" }
func (voidValue) AsFunction() Function      { return nil }
func (voidValue) Fields() *Map              { return emptyMap }
func (voidValue) String() string            { return "<void>" }

// Bool returns a Boolean value.
func Bool(b bool) Value { return boolValue(b) }

type boolValue bool

func (boolValue) value() {}

func (boolValue) Kind() Kind           { return KindBoolean }
func (b boolValue) AsBoolean() bool    { return bool(b) }
func (boolValue) AsFunction() Function { return nil }
func (boolValue) Fields() *Map         { return emptyMap }

func (b boolValue) AsNumber() decimal.Decimal {
	if b {
		return decimal.NewFromInt(1)
	}

	return decimal.Zero
}

func (b boolValue) AsString() string {
	if b {
		return "true"
	}

	return "false"
}

func (b boolValue) String() string { return b.AsString() }

// Number returns a Number value holding d.
func Number(d decimal.Decimal) Value { return numberValue{d: d} }

// NumberFromInt returns a Number value holding i.
func NumberFromInt(i int64) Value { return numberValue{d: decimal.NewFromInt(i)} }

// NumberFromFloat returns a Number value holding f, or [Void] if f is
// infinite or NaN. Templates never render "Infinity" or "NaN".
func NumberFromFloat(f float64) Value {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return Void
	}

	return numberValue{d: decimal.NewFromFloat(f)}
}

// NumberFromString parses s as a decimal number. The second result is false
// if s is not a valid number, in which case the value is zero.
func NumberFromString(s string) (Value, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return numberValue{d: decimal.Zero}, false
	}

	return numberValue{d: d}, true
}

type numberValue struct {
	d decimal.Decimal
}

func (numberValue) value() {}

func (numberValue) Kind() Kind                  { return KindNumber }
func (n numberValue) AsBoolean() bool           { return !n.d.IsZero() }
func (n numberValue) AsNumber() decimal.Decimal { return n.d }
func (n numberValue) AsString() string          { return n.d.String() }
func (numberValue) AsFunction() Function        { return nil }
func (numberValue) Fields() *Map                { return emptyMap }
func (n numberValue) String() string            { return n.d.String() }

// String returns a String value.
func String(s string) Value { return stringValue(s) }

type stringValue string

func (stringValue) value() {}

func (stringValue) Kind() Kind           { return KindString }
func (s stringValue) AsBoolean() bool    { return s != "" }
func (s stringValue) AsString() string   { return string(s) }
func (stringValue) AsFunction() Function { return nil }
func (stringValue) Fields() *Map         { return emptyMap }
func (s stringValue) String() string     { return quote(string(s)) }

func (s stringValue) AsNumber() decimal.Decimal {
	n, _ := NumberFromString(string(s))

	return n.AsNumber()
}

// MapOf returns a Map value wrapping m. A nil map is treated as empty.
func MapOf(m *Map) Value {
	if m == nil {
		m = emptyMap
	}

	return mapValue{m: m}
}

// List returns a Map value whose keys are the integers 0, 1, 2, … in the
// order of the given values.
func List(values ...Value) Value {
	pairs := make([]Pair, len(values))
	for i, v := range values {
		pairs[i] = Pair{Key: NumberFromInt(int64(i)), Value: v}
	}

	return MapOf(NewMap(pairs...))
}

type mapValue struct {
	m *Map
}

func (mapValue) value() {}

func (mapValue) Kind() Kind                  { return KindMap }
func (v mapValue) AsBoolean() bool           { return v.m.Len() > 0 }
func (v mapValue) AsNumber() decimal.Decimal { return decimal.NewFromInt(int64(v.m.Len())) }
func (v mapValue) AsString() string          { return v.m.String() }
func (mapValue) AsFunction() Function        { return nil }
func (v mapValue) Fields() *Map              { return v.m }
func (v mapValue) String() string            { return v.m.String() }

// functionSeq hands out identities to function values so that they can be
// ordered and compared without comparing the underlying capability.
//
//nolint:gochecknoglobals
var functionSeq atomic.Uint64

// FunctionOf returns a Function value exposing fn. A nil fn yields [Void].
func FunctionOf(fn Function) Value {
	if fn == nil {
		return Void
	}

	return functionValue{fn: fn, id: functionSeq.Add(1)}
}

type functionValue struct {
	fn Function
	id uint64
}

func (functionValue) value() {}

func (functionValue) Kind() Kind                { return KindFunction }
func (functionValue) AsBoolean() bool           { return true }
func (functionValue) AsNumber() decimal.Decimal { return decimal.Zero }
func (functionValue) AsString() string          { return "" }
func (f functionValue) AsFunction() Function    { return f.fn }
func (functionValue) Fields() *Map              { return emptyMap }
func (functionValue) String() string            { return "<function>" }

// Compare orders two values. Values of different kinds are ordered
// Void < Boolean < Number < String < Map < Function; values of the same
// kind are ordered naturally (maps entry by entry, functions by identity).
func Compare(a, b Value) int {
	ka, kb := a.Kind(), b.Kind()
	if ka != kb {
		return cmp.Compare(ka, kb)
	}

	switch ka {
	case KindBoolean:
		return cmp.Compare(boolRank(a.AsBoolean()), boolRank(b.AsBoolean()))

	case KindNumber:
		return a.AsNumber().Cmp(b.AsNumber())

	case KindString:
		return strings.Compare(a.AsString(), b.AsString())

	case KindMap:
		return compareMaps(a.Fields(), b.Fields())

	case KindFunction:
		return cmp.Compare(functionID(a), functionID(b))

	default:
		return 0
	}
}

// Equal reports whether a and b compare equal.
func Equal(a, b Value) bool { return Compare(a, b) == 0 }

func boolRank(b bool) int {
	if b {
		return 1
	}

	return 0
}

func functionID(v Value) uint64 {
	if f, ok := v.(functionValue); ok {
		return f.id
	}

	return 0
}

func compareMaps(a, b *Map) int {
	if c := cmp.Compare(a.Len(), b.Len()); c != 0 {
		return c
	}

	for i := range a.Len() {
		pa, pb := a.At(i), b.At(i)

		if c := Compare(pa.Key, pb.Key); c != 0 {
			return c
		}

		if c := Compare(pa.Value, pb.Value); c != 0 {
			return c
		}
	}

	return 0
}

// FromNative converts a host value into a [Value].
//
// Supported inputs are nil, Value, Function, *Map, bool, all integer and
// floating-point kinds, decimal.Decimal, string, slices and arrays (which
// become lists) and maps with string keys (whose entries are ordered by
// key). Floating-point values that are not finite become Void, as does any
// unsupported input.
func FromNative(v any) Value {
	switch val := v.(type) {
	case nil:
		return Void

	case Value:
		return val

	case Function:
		return FunctionOf(val)

	case *Map:
		return MapOf(val)

	case bool:
		return Bool(val)

	case int:
		return NumberFromInt(int64(val))

	case int8:
		return NumberFromInt(int64(val))

	case int16:
		return NumberFromInt(int64(val))

	case int32:
		return NumberFromInt(int64(val))

	case int64:
		return NumberFromInt(val)

	case uint:
		return numberFromUint(uint64(val))

	case uint8:
		return NumberFromInt(int64(val))

	case uint16:
		return NumberFromInt(int64(val))

	case uint32:
		return NumberFromInt(int64(val))

	case uint64:
		return numberFromUint(val)

	case float32:
		return NumberFromFloat(float64(val))

	case float64:
		return NumberFromFloat(val)

	case decimal.Decimal:
		return Number(val)

	case string:
		return String(val)

	case []Value:
		return List(val...)

	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}

		slices.Sort(keys)

		pairs := make([]Pair, len(keys))
		for i, k := range keys {
			pairs[i] = Pair{Key: String(k), Value: FromNative(val[k])}
		}

		return MapOf(NewMap(pairs...))
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		values := make([]Value, rv.Len())
		for i := range rv.Len() {
			values[i] = FromNative(rv.Index(i).Interface())
		}

		return List(values...)

	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Void
		}

		keys := rv.MapKeys()
		slices.SortFunc(keys, func(a, b reflect.Value) int {
			return strings.Compare(a.String(), b.String())
		})

		pairs := make([]Pair, len(keys))
		for i, k := range keys {
			pairs[i] = Pair{
				Key:   String(k.String()),
				Value: FromNative(rv.MapIndex(k).Interface()),
			}
		}

		return MapOf(NewMap(pairs...))

	default:
		return Void
	}
}

func numberFromUint(u uint64) Value {
	return Number(decimal.NewFromBigInt(new(big.Int).SetUint64(u), 0))
}

// quote renders s as a string literal that the lexer reads back verbatim.
func quote(s string) string {
	var buf strings.Builder

	buf.Grow(len(s) + 2)
	buf.WriteByte('"')

	for _, r := range s {
		if r == '"' || r == '\\' {
			buf.WriteByte('\\')
		}

		buf.WriteRune(r)
	}

	buf.WriteByte('"')

	return buf.String()
}
