package lib

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/ardnew/cottle/lang"
	"github.com/shopspring/decimal"
)

// length counts the entries of a map or the characters of any other value's
// string view.
func length(args []lang.Value) lang.Value {
	v := arg(args, 0)

	if v.Kind() == lang.KindMap {
		return lang.NumberFromInt(int64(v.Fields().Len()))
	}

	return lang.NumberFromInt(int64(utf8.RuneCountInString(v.AsString())))
}

// cat concatenates the string views of its arguments. When every argument
// is a map, the result is instead a list of all their values, in order.
func cat(args []lang.Value) lang.Value {
	lists := len(args) > 0

	for _, a := range args {
		if a.Kind() != lang.KindMap {
			lists = false

			break
		}
	}

	if lists {
		var items []lang.Value
		for _, a := range args {
			items = append(items, a.Fields().Values()...)
		}

		return lang.List(items...)
	}

	var buf strings.Builder
	for _, a := range args {
		buf.WriteString(a.AsString())
	}

	return lang.String(buf.String())
}

// join concatenates the string views of the values of a map, separated by
// the second argument.
func join(args []lang.Value) lang.Value {
	fields := arg(args, 0).Fields()

	parts := make([]string, 0, fields.Len())
	for _, v := range fields.All() {
		parts = append(parts, v.AsString())
	}

	return lang.String(strings.Join(parts, arg(args, 1).AsString()))
}

func upper(args []lang.Value) lang.Value {
	return lang.String(strings.ToUpper(arg(args, 0).AsString()))
}

func lower(args []lang.Value) lang.Value {
	return lang.String(strings.ToLower(arg(args, 0).AsString()))
}

// slice returns count elements of a map (keeping their keys) or count
// characters of a string, starting at offset. A missing count extends to
// the end.
func slice(args []lang.Value) lang.Value {
	v := arg(args, 0)

	size := v.Fields().Len()
	if v.Kind() != lang.KindMap {
		size = utf8.RuneCountInString(v.AsString())
	}

	lo, hi := bounds(size, arg(args, 1), arg(args, 2))

	if v.Kind() == lang.KindMap {
		pairs := make([]lang.Pair, 0, hi-lo)
		for i := lo; i < hi; i++ {
			pairs = append(pairs, v.Fields().At(i))
		}

		return lang.MapOf(lang.NewMap(pairs...))
	}

	runes := []rune(v.AsString())

	return lang.String(string(runes[lo:hi]))
}

// bounds clamps offset and count to [0, size].
func bounds(size int, offset, count lang.Value) (int, int) {
	lo := clamp(offset.AsNumber(), size)

	hi := size
	if count.Kind() != lang.KindVoid {
		hi = min(lo+clamp(count.AsNumber(), size), size)
	}

	return lo, max(lo, hi)
}

// clamp truncates n to an integer in [0, size]. The comparison happens
// before conversion, so numbers beyond the range of int never wrap.
func clamp(n decimal.Decimal, size int) int {
	switch {
	case n.Sign() <= 0:
		return 0

	case n.GreaterThanOrEqual(decimal.NewFromInt(int64(size))):
		return size

	default:
		return int(n.IntPart())
	}
}

func has(args []lang.Value) lang.Value {
	return lang.Bool(arg(args, 0).Fields().Has(arg(args, 1)))
}

func keys(args []lang.Value) lang.Value {
	return lang.List(arg(args, 0).Fields().Keys()...)
}

func values(args []lang.Value) lang.Value {
	return lang.List(arg(args, 0).Fields().Values()...)
}

// span returns the list of numbers range(n) = 0, 1, …, n-1, or
// range(from, to[, step]) counting from from towards to, excluding to.
func span(args []lang.Value) (lang.Value, error) {
	from, to, step := decimal.Zero, arg(args, 0).AsNumber(), decimal.NewFromInt(1)

	if len(args) > 1 {
		from, to = arg(args, 0).AsNumber(), arg(args, 1).AsNumber()
	}

	if len(args) > 2 {
		step = arg(args, 2).AsNumber()
	}

	if step.IsZero() {
		return lang.Void, ErrInvalidStep.With(slog.String("step", step.String()))
	}

	count := to.Sub(from).Div(step).Ceil()
	if count.Sign() <= 0 {
		return lang.List(), nil
	}

	if count.GreaterThan(decimal.NewFromInt(MaxRange)) {
		return lang.Void, ErrRangeLimit.With(
			slog.String("count", count.String()),
			slog.Int("limit", MaxRange),
		)
	}

	n := int(count.IntPart())

	items := make([]lang.Value, 0, n)
	for cur := from; len(items) < n; cur = cur.Add(step) {
		items = append(items, lang.Number(cur))
	}

	return lang.List(items...), nil
}

// typeOf returns the lowercase kind name of its argument.
func typeOf(args []lang.Value) lang.Value {
	return lang.String(strings.ToLower(arg(args, 0).Kind().String()))
}
