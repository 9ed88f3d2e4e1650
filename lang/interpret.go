package lang

import (
	"io"

	"github.com/ardnew/cottle/log"
)

// runtime holds the render settings shared by every render of a document.
// It is never modified after the document is compiled.
type runtime struct {
	trim    Trimmer
	handler ErrorHandler
	logger  log.Logger
}

// exec runs a command tree. The boolean result reports that a return
// statement fired, in which case the value is its operand and no further
// statements run. Errors are limited to scope underflow and output failures.
func (rt *runtime) exec(c *Command, scope *Scope, w io.Writer) (Value, bool, error) {
	switch c.Type {
	case CommandLiteral:
		if _, err := io.WriteString(w, rt.trim.Apply(c.Text)); err != nil {
			return Void, false, ErrWriteOutput.Wrap(err)
		}

		return Void, false, nil

	case CommandEcho, CommandDump:
		v := rt.eval(c.Expr, scope, w)

		text := v.AsString()
		if c.Type == CommandDump {
			text = v.String()
		}

		if _, err := io.WriteString(w, text); err != nil {
			return Void, false, ErrWriteOutput.Wrap(err)
		}

		return Void, false, nil

	case CommandAssignValue:
		scope.Set(String(c.Name), rt.eval(c.Expr, scope, w), c.Mode)

		return Void, false, nil

	case CommandAssignFunction:
		fn := &closure{
			name:   c.Name,
			params: c.Params,
			frames: scope.capture(),
			run: func(s *Scope, w io.Writer) (Value, bool, error) {
				return rt.exec(c.Body, s, w)
			},
		}

		// The function is bound after capture, so it sees itself through the
		// shared frame and may recurse.
		scope.Set(String(c.Name), FunctionOf(fn), c.Mode)

		return Void, false, nil

	case CommandIf:
		for branch := c; branch != nil; {
			if branch.Type != CommandIf {
				return rt.exec(branch, scope, w)
			}

			if rt.eval(branch.Expr, scope, w).AsBoolean() {
				return rt.exec(branch.Body, scope, w)
			}

			branch = branch.Next
		}

		return Void, false, nil

	case CommandFor:
		return rt.execFor(c, scope, w)

	case CommandWhile:
		for rt.eval(c.Expr, scope, w).AsBoolean() {
			value, stop, err := rt.execFrame(c.Body, scope, w, nil)
			if err != nil || stop {
				return value, stop, err
			}
		}

		return Void, false, nil

	case CommandReturn:
		return rt.eval(c.Expr, scope, w), true, nil

	case CommandComposite:
		value, stop, err := rt.exec(c.Body, scope, w)
		if err != nil || stop {
			return value, stop, err
		}

		return rt.exec(c.Next, scope, w)

	default:
		return Void, false, nil
	}
}

func (rt *runtime) execFor(c *Command, scope *Scope, w io.Writer) (Value, bool, error) {
	fields := rt.eval(c.Expr, scope, w).Fields()

	if fields.Len() == 0 {
		if c.Next == nil {
			return Void, false, nil
		}

		return rt.exec(c.Next, scope, w)
	}

	for key, value := range fields.All() {
		result, stop, err := rt.execFrame(c.Body, scope, w, func(s *Scope) {
			if c.Key != "" {
				s.Set(String(c.Key), key, ModeLocal)
			}

			s.Set(String(c.Name), value, ModeLocal)
		})
		if err != nil || stop {
			return result, stop, err
		}
	}

	return Void, false, nil
}

// execFrame runs body in a fresh frame, after bind (if any) has populated it.
func (rt *runtime) execFrame(
	body *Command,
	scope *Scope,
	w io.Writer,
	bind func(*Scope),
) (Value, bool, error) {
	scope.Enter()

	if bind != nil {
		bind(scope)
	}

	value, stop, err := rt.exec(body, scope, w)

	if leaveErr := scope.Leave(); leaveErr != nil && err == nil {
		err = leaveErr
	}

	return value, stop, err
}

// eval evaluates an expression. Evaluation never fails: missing symbols,
// missing keys and invalid calls all yield Void.
func (rt *runtime) eval(e *Expression, scope *Scope, w io.Writer) Value {
	switch e.Type {
	case ExprConstant:
		return e.Value

	case ExprSymbol:
		v, _ := scope.Get(String(e.Name))

		return v

	case ExprAccess:
		source := rt.eval(e.Source, scope, w)
		v, _ := source.Fields().Get(rt.eval(e.Subscript, scope, w))

		return v

	case ExprInvoke:
		source := rt.eval(e.Source, scope, w)
		if source.AsFunction() == nil {
			return Void
		}

		args := make([]Value, len(e.Args))
		for i, arg := range e.Args {
			args[i] = rt.eval(arg, scope, w)
		}

		return rt.invoke(source, args, scope, w)

	case ExprMap:
		pairs := make([]Pair, len(e.Entries))
		for i, entry := range e.Entries {
			pairs[i] = Pair{
				Key:   rt.eval(entry.Key, scope, w),
				Value: rt.eval(entry.Value, scope, w),
			}
		}

		return MapOf(NewMap(pairs...))

	default:
		return Void
	}
}
