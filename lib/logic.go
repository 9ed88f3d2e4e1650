package lib

import (
	"github.com/ardnew/cottle/lang"
)

// eq reports whether every argument equals the first.
func eq(args []lang.Value) lang.Value {
	for _, a := range args[min(1, len(args)):] {
		if !lang.Equal(args[0], a) {
			return lang.Bool(false)
		}
	}

	return lang.Bool(true)
}

// ne reports whether no other argument equals the first.
func ne(args []lang.Value) lang.Value {
	for _, a := range args[min(1, len(args)):] {
		if lang.Equal(args[0], a) {
			return lang.Bool(false)
		}
	}

	return lang.Bool(true)
}

// compare returns a function reporting whether each argument is ordered
// against its successor as accepted by ok.
func compare(ok func(int) bool) lang.Function {
	return pure(func(args []lang.Value) lang.Value {
		for i := 1; i < len(args); i++ {
			if !ok(lang.Compare(args[i-1], args[i])) {
				return lang.Bool(false)
			}
		}

		return lang.Bool(true)
	})
}

func and(args []lang.Value) lang.Value {
	for _, a := range args {
		if !a.AsBoolean() {
			return lang.Bool(false)
		}
	}

	return lang.Bool(true)
}

func or(args []lang.Value) lang.Value {
	for _, a := range args {
		if a.AsBoolean() {
			return lang.Bool(true)
		}
	}

	return lang.Bool(false)
}

func not(args []lang.Value) lang.Value {
	return lang.Bool(!arg(args, 0).AsBoolean())
}

// when returns its second argument if the first is true, else its third.
// Both branches are evaluated by the caller.
func when(args []lang.Value) lang.Value {
	if arg(args, 0).AsBoolean() {
		return arg(args, 1)
	}

	return arg(args, 2)
}

// fallback returns its first argument unless it is Void.
func fallback(args []lang.Value) lang.Value {
	if v := arg(args, 0); v.Kind() != lang.KindVoid {
		return v
	}

	return arg(args, 1)
}
