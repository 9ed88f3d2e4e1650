package lang

import (
	"iter"
	"strings"
)

// Pair is a single key/value entry of a [Map].
type Pair struct {
	Key   Value
	Value Value
}

// Map is an ordered collection of key/value pairs with unique keys.
//
// Entries keep the order in which their keys were first inserted. Keys
// compare by [Compare], so the number 1 and the string "1" are distinct keys.
// A Map reachable from a [Value] is never modified; only scope frames are
// mutated, through their owning [Scope].
type Map struct {
	pairs []Pair
	index map[mapKey]int // position of scalar keys in pairs
}

// mapKey is the canonical form of a scalar key. Map and function keys have no
// canonical form and are located by linear search.
type mapKey struct {
	kind Kind
	text string
}

//nolint:gochecknoglobals
var emptyMap = &Map{}

// NewMap returns a map holding the given pairs. When a key occurs more than
// once, the last value wins and the entry keeps its first position.
func NewMap(pairs ...Pair) *Map {
	m := &Map{pairs: make([]Pair, 0, len(pairs))}
	for _, p := range pairs {
		m.set(p.Key, p.Value)
	}

	return m
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}

	return len(m.pairs)
}

// At returns the i'th entry in insertion order.
func (m *Map) At(i int) Pair { return m.pairs[i] }

// Get returns the value bound to key, or [Void] and false if key is absent.
func (m *Map) Get(key Value) (Value, bool) {
	if i := m.find(key); i >= 0 {
		return m.pairs[i].Value, true
	}

	return Void, false
}

// Has reports whether key is present.
func (m *Map) Has(key Value) bool { return m.find(key) >= 0 }

// All iterates over the entries in insertion order.
func (m *Map) All() iter.Seq2[Value, Value] {
	return func(yield func(Value, Value) bool) {
		for i := range m.Len() {
			if !yield(m.pairs[i].Key, m.pairs[i].Value) {
				return
			}
		}
	}
}

// Pairs returns a copy of the entries in insertion order.
func (m *Map) Pairs() []Pair {
	if m.Len() == 0 {
		return nil
	}

	out := make([]Pair, len(m.pairs))
	copy(out, m.pairs)

	return out
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []Value {
	out := make([]Value, m.Len())
	for i := range out {
		out[i] = m.pairs[i].Key
	}

	return out
}

// Values returns the values in insertion order.
func (m *Map) Values() []Value {
	out := make([]Value, m.Len())
	for i := range out {
		out[i] = m.pairs[i].Value
	}

	return out
}

// String returns the debug representation "[k: v, ...]".
func (m *Map) String() string {
	var buf strings.Builder

	buf.WriteByte('[')

	for i := range m.Len() {
		if i > 0 {
			buf.WriteString(", ")
		}

		buf.WriteString(m.pairs[i].Key.String())
		buf.WriteString(": ")
		buf.WriteString(m.pairs[i].Value.String())
	}

	buf.WriteByte(']')

	return buf.String()
}

func (m *Map) find(key Value) int {
	if m.Len() == 0 {
		return -1
	}

	if k, ok := canonicalKey(key); ok {
		if i, ok := m.index[k]; ok {
			return i
		}

		return -1
	}

	for i, p := range m.pairs {
		if Compare(p.Key, key) == 0 {
			return i
		}
	}

	return -1
}

func (m *Map) set(key, value Value) {
	if i := m.find(key); i >= 0 {
		m.pairs[i].Value = value

		return
	}

	if k, ok := canonicalKey(key); ok {
		if m.index == nil {
			m.index = make(map[mapKey]int)
		}

		m.index[k] = len(m.pairs)
	}

	m.pairs = append(m.pairs, Pair{Key: key, Value: value})
}

func canonicalKey(key Value) (mapKey, bool) {
	switch key.Kind() {
	case KindVoid:
		return mapKey{kind: KindVoid}, true

	case KindBoolean, KindString:
		return mapKey{kind: key.Kind(), text: key.AsString()}, true

	case KindNumber:
		// Decimal strings omit trailing zeros, so equal numbers share a key.
		return mapKey{kind: KindNumber, text: key.AsNumber().String()}, true

	default:
		return mapKey{}, false
	}
}
