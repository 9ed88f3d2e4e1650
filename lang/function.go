package lang

import (
	"io"
	"log/slog"
	"slices"
)

// Function is the capability of a value to be invoked from a template.
//
// Execute receives the evaluated arguments in order, the scope of the caller
// and the output of the render. A returned error (or a panic) never aborts
// the render: it is reported to the document's [ErrorHandler] and the call
// yields Void.
type Function interface {
	Execute(args []Value, scope *Scope, w io.Writer) (Value, error)
}

// FunctionFunc adapts an ordinary function to the [Function] interface.
type FunctionFunc func(args []Value, scope *Scope, w io.Writer) (Value, error)

// Execute calls f(args, scope, w).
func (f FunctionFunc) Execute(
	args []Value,
	scope *Scope,
	w io.Writer,
) (Value, error) {
	return f(args, scope, w)
}

// ErrorHandler receives invocation failures: the value that was invoked, a
// short description and the underlying error. The render always continues
// with Void, whatever the handler does.
type ErrorHandler func(source Value, message string, err error)

// body runs a function body against a scope. It is produced by either
// evaluation strategy.
type body func(scope *Scope, w io.Writer) (Value, bool, error)

// closure is a function defined by a template. It runs in the frames that
// were visible where it was defined, extended with a frame holding its
// parameters.
type closure struct {
	name   string
	params []string
	frames []*Map
	run    body
}

// Execute binds the arguments to the parameters and runs the body. Missing
// arguments are Void and extra arguments are ignored. The result is the
// operand of the first return statement reached, or Void.
func (c *closure) Execute(args []Value, _ *Scope, w io.Writer) (Value, error) {
	scope := call(c.frames)

	for i, name := range c.params {
		arg := Void
		if i < len(args) {
			arg = args[i]
		}

		scope.Set(String(name), arg, ModeLocal)
	}

	value, stop, err := c.run(scope, w)
	if err != nil {
		return Void, ErrInvocation.With(slog.String("function", c.name)).Wrap(err)
	}

	if !stop {
		return Void, nil
	}

	return value, nil
}

// Params returns the parameter names of fn if it was defined by a template.
func Params(fn Function) ([]string, bool) {
	c, ok := fn.(*closure)
	if !ok {
		return nil, false
	}

	return slices.Clone(c.params), true
}

// invoke calls the function capability of source. Values without the
// capability yield Void silently; failures are reported and yield Void.
func (rt *runtime) invoke(
	source Value,
	args []Value,
	scope *Scope,
	w io.Writer,
) (result Value) {
	fn := source.AsFunction()
	if fn == nil {
		return Void
	}

	defer func() {
		if r := recover(); r != nil {
			rt.report(source, "function call raised a panic",
				ErrFunctionPanic.With(slog.Any("panic", r)))

			result = Void
		}
	}()

	value, err := fn.Execute(args, scope, w)
	if err != nil {
		rt.report(source, "function call raised an error", err)

		return Void
	}

	if value == nil {
		return Void
	}

	return value
}

func (rt *runtime) report(source Value, message string, err error) {
	if rt.handler != nil {
		rt.handler(source, message, err)

		return
	}

	rt.logger.Debug(
		message,
		slog.String("source", source.String()),
		slog.Any("error", err),
	)
}
