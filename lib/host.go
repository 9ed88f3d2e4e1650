package lib

import (
	"log/slog"
	"os"

	"github.com/ardnew/cottle/lang"
	"github.com/ardnew/mung"
	"github.com/expr-lang/expr"
)

// evalExpr compiles and runs an expr-lang expression. The optional second
// argument is a map whose string keys become the expression's variables.
func evalExpr(args []lang.Value) (lang.Value, error) {
	source := arg(args, 0).AsString()

	env := map[string]any{}

	for k, v := range arg(args, 1).Fields().All() {
		if k.Kind() == lang.KindString {
			env[k.AsString()] = Native(v)
		}
	}

	program, err := expr.Compile(source, expr.Env(env))
	if err != nil {
		return lang.Void, ErrExprCompile.Wrap(err).
			With(slog.String("source", source))
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return lang.Void, ErrExprRun.Wrap(err).
			With(slog.String("source", source))
	}

	return lang.FromNative(out), nil
}

// pathPrefix prepends items to a PATH-like list, removing duplicates.
func pathPrefix(args []lang.Value) lang.Value {
	items := make([]string, 0, len(args))
	for _, a := range args[min(1, len(args)):] {
		items = append(items, a.AsString())
	}

	return lang.String(mung.Make(
		mung.WithSubjectItems(arg(args, 0).AsString()),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(items...),
	).String())
}

// Native converts a value to a plain Go value: nil, bool, int64 (for
// integral numbers), float64, string, []any (for maps whose keys are not all
// strings) or map[string]any. Functions become nil.
func Native(v lang.Value) any {
	switch v.Kind() {
	case lang.KindBoolean:
		return v.AsBoolean()

	case lang.KindNumber:
		d := v.AsNumber()
		if d.IsInteger() {
			return d.IntPart()
		}

		return d.InexactFloat64()

	case lang.KindString:
		return v.AsString()

	case lang.KindMap:
		fields := v.Fields()

		named := true
		for _, k := range fields.Keys() {
			if k.Kind() != lang.KindString {
				named = false

				break
			}
		}

		if named {
			m := make(map[string]any, fields.Len())
			for k, val := range fields.All() {
				m[k.AsString()] = Native(val)
			}

			return m
		}

		list := make([]any, 0, fields.Len())
		for _, val := range fields.All() {
			list = append(list, Native(val))
		}

		return list

	default:
		return nil
	}
}
