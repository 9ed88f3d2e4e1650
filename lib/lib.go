package lib

import (
	"io"
	"maps"
	"slices"
	"sync"

	"github.com/ardnew/cottle/lang"
)

// Predefined errors (sentinel values).
var (
	ErrDivideByZero = lang.NewError("division by zero")
	ErrInvalidStep  = lang.NewError("invalid range step")
	ErrRangeLimit   = lang.NewError("range exceeds element limit")
	ErrExprCompile  = lang.NewError("failed to compile expression")
	ErrExprRun      = lang.NewError("failed to evaluate expression")
)

// MaxRange is the largest number of elements range will produce.
const MaxRange = 1 << 20

// call is the shape of most library functions: they only need their
// arguments.
type call func(args []lang.Value) (lang.Value, error)

func (c call) Execute(args []lang.Value, _ *lang.Scope, _ io.Writer) (lang.Value, error) {
	return c(args)
}

// pure adapts a function that cannot fail.
func pure(f func(args []lang.Value) lang.Value) lang.Function {
	return call(func(args []lang.Value) (lang.Value, error) {
		return f(args), nil
	})
}

// Private singleton cache.
//
//nolint:gochecknoglobals
var (
	functionsOnce sync.Once
	functions     map[string]lang.Function
)

// Functions returns the common library: a fresh map from name to function
// that callers may extend or trim before binding it.
func Functions() map[string]lang.Function {
	functionsOnce.Do(func() {
		functions = map[string]lang.Function{
			// Arithmetic.
			"add": call(add),
			"sub": call(sub),
			"mul": call(mul),
			"div": call(div),
			"mod": call(mod),

			// Comparison.
			"eq": pure(eq),
			"ne": pure(ne),
			"lt": compare(func(c int) bool { return c < 0 }),
			"le": compare(func(c int) bool { return c <= 0 }),
			"gt": compare(func(c int) bool { return c > 0 }),
			"ge": compare(func(c int) bool { return c >= 0 }),

			// Logic.
			"and":     pure(and),
			"or":      pure(or),
			"not":     pure(not),
			"when":    pure(when),
			"default": pure(fallback),

			// Strings and collections.
			"len":    pure(length),
			"cat":    pure(cat),
			"join":   pure(join),
			"upper":  pure(upper),
			"lower":  pure(lower),
			"slice":  pure(slice),
			"has":    pure(has),
			"keys":   pure(keys),
			"values": pure(values),
			"range":  call(span),
			"type":   pure(typeOf),

			// Host integrations.
			"expr":       call(evalExpr),
			"pathprefix": pure(pathPrefix),
		}
	})

	return maps.Clone(functions)
}

// params names the arguments of each library function. A leading "..."
// marks a parameter that takes any number of arguments.
//
//nolint:gochecknoglobals
var params = map[string][]string{
	"add": {"...number"}, "sub": {"...number"}, "mul": {"...number"},
	"div": {"dividend", "divisor"}, "mod": {"dividend", "divisor"},

	"eq": {"a", "...b"}, "ne": {"a", "...b"},
	"lt": {"a", "...b"}, "le": {"a", "...b"}, "gt": {"a", "...b"}, "ge": {"a", "...b"},

	"and": {"...value"}, "or": {"...value"}, "not": {"value"},
	"when":    {"cond", "then", "else"},
	"default": {"value", "fallback"},

	"len":    {"value"},
	"cat":    {"...value"},
	"join":   {"map", "separator"},
	"upper":  {"string"},
	"lower":  {"string"},
	"slice":  {"value", "offset", "count"},
	"has":    {"map", "key"},
	"keys":   {"map"},
	"values": {"map"},
	"range":  {"from", "to", "step"},
	"type":   {"value"},

	"expr":       {"source", "env"},
	"pathprefix": {"value", "...items"},
}

// Params returns the parameter names of the library function name.
func Params(name string) ([]string, bool) {
	p, ok := params[name]

	return slices.Clone(p), ok
}

// Constants returns the values bound by name alongside the functions.
// Templates have no boolean literal, so true and false are symbols.
func Constants() map[string]lang.Value {
	return map[string]lang.Value{
		"true":  lang.Bool(true),
		"false": lang.Bool(false),
	}
}

// Names returns the sorted names of every function and constant.
func Names() []string {
	names := slices.Collect(maps.Keys(Functions()))
	names = append(names, slices.Collect(maps.Keys(Constants()))...)

	slices.Sort(names)

	return names
}

// Populate binds the common library in the innermost frame of scope.
func Populate(scope *lang.Scope) {
	fns := Functions()
	for _, name := range slices.Sorted(maps.Keys(fns)) {
		scope.Set(lang.String(name), lang.FunctionOf(fns[name]), lang.ModeLocal)
	}

	consts := Constants()
	for _, name := range slices.Sorted(maps.Keys(consts)) {
		scope.Set(lang.String(name), consts[name], lang.ModeLocal)
	}
}

// Scope returns a new scope holding the common library in its root frame.
func Scope() *lang.Scope {
	scope := lang.NewScope()

	Populate(scope)

	return scope
}

// arg returns the i-th argument, or Void.
func arg(args []lang.Value, i int) lang.Value {
	if i < len(args) {
		return args[i]
	}

	return lang.Void
}
