package lang

import (
	"io"
)

// evaluator is an expression lowered to a Go closure.
type evaluator func(scope *Scope, w io.Writer) Value

// compile lowers a command tree into nested closures, once per document.
// The result renders exactly like [runtime.exec] while skipping the dispatch
// on node types and the per-render work that does not depend on the scope.
func (rt *runtime) compile(c *Command) body {
	switch c.Type {
	case CommandLiteral:
		text := rt.trim.Apply(c.Text)

		return func(_ *Scope, w io.Writer) (Value, bool, error) {
			if _, err := io.WriteString(w, text); err != nil {
				return Void, false, ErrWriteOutput.Wrap(err)
			}

			return Void, false, nil
		}

	case CommandEcho, CommandDump:
		expr := rt.compileExpr(c.Expr)
		format := Value.AsString

		if c.Type == CommandDump {
			format = Value.String
		}

		return func(s *Scope, w io.Writer) (Value, bool, error) {
			if _, err := io.WriteString(w, format(expr(s, w))); err != nil {
				return Void, false, ErrWriteOutput.Wrap(err)
			}

			return Void, false, nil
		}

	case CommandAssignValue:
		name, expr, mode := String(c.Name), rt.compileExpr(c.Expr), c.Mode

		return func(s *Scope, w io.Writer) (Value, bool, error) {
			s.Set(name, expr(s, w), mode)

			return Void, false, nil
		}

	case CommandAssignFunction:
		return rt.compileFunction(c)

	case CommandIf:
		return rt.compileIf(c)

	case CommandFor:
		return rt.compileFor(c)

	case CommandWhile:
		cond, run := rt.compileExpr(c.Expr), rt.compile(c.Body)

		return func(s *Scope, w io.Writer) (Value, bool, error) {
			for cond(s, w).AsBoolean() {
				value, stop, err := inFrame(s, w, run, nil)
				if err != nil || stop {
					return value, stop, err
				}
			}

			return Void, false, nil
		}

	case CommandReturn:
		expr := rt.compileExpr(c.Expr)

		return func(s *Scope, w io.Writer) (Value, bool, error) {
			return expr(s, w), true, nil
		}

	case CommandComposite:
		stmts := c.Statements()

		seq := make([]body, len(stmts))
		for i, stmt := range stmts {
			seq[i] = rt.compile(stmt)
		}

		return func(s *Scope, w io.Writer) (Value, bool, error) {
			for _, run := range seq {
				value, stop, err := run(s, w)
				if err != nil || stop {
					return value, stop, err
				}
			}

			return Void, false, nil
		}

	default:
		return func(*Scope, io.Writer) (Value, bool, error) {
			return Void, false, nil
		}
	}
}

func (rt *runtime) compileFunction(c *Command) body {
	name, params, mode := c.Name, c.Params, c.Mode
	run := rt.compile(c.Body)
	key := String(name)

	return func(s *Scope, _ io.Writer) (Value, bool, error) {
		fn := &closure{name: name, params: params, frames: s.capture(), run: run}
		s.Set(key, FunctionOf(fn), mode)

		return Void, false, nil
	}
}

func (rt *runtime) compileIf(c *Command) body {
	type branch struct {
		cond evaluator
		run  body
	}

	var (
		branches  []branch
		otherwise body
	)

	for cur := c; cur != nil; cur = cur.Next {
		if cur.Type != CommandIf {
			otherwise = rt.compile(cur)

			break
		}

		branches = append(branches, branch{
			cond: rt.compileExpr(cur.Expr),
			run:  rt.compile(cur.Body),
		})
	}

	return func(s *Scope, w io.Writer) (Value, bool, error) {
		for _, b := range branches {
			if b.cond(s, w).AsBoolean() {
				return b.run(s, w)
			}
		}

		if otherwise != nil {
			return otherwise(s, w)
		}

		return Void, false, nil
	}
}

func (rt *runtime) compileFor(c *Command) body {
	source, run := rt.compileExpr(c.Expr), rt.compile(c.Body)
	name := String(c.Name)

	var key Value
	if c.Key != "" {
		key = String(c.Key)
	}

	var empty body
	if c.Next != nil {
		empty = rt.compile(c.Next)
	}

	return func(s *Scope, w io.Writer) (Value, bool, error) {
		fields := source(s, w).Fields()

		if fields.Len() == 0 {
			if empty == nil {
				return Void, false, nil
			}

			return empty(s, w)
		}

		for k, v := range fields.All() {
			value, stop, err := inFrame(s, w, run, func(s *Scope) {
				if key != nil {
					s.Set(key, k, ModeLocal)
				}

				s.Set(name, v, ModeLocal)
			})
			if err != nil || stop {
				return value, stop, err
			}
		}

		return Void, false, nil
	}
}

// inFrame runs a compiled body in a fresh frame, after bind (if any) has
// populated it.
func inFrame(
	s *Scope,
	w io.Writer,
	run body,
	bind func(*Scope),
) (Value, bool, error) {
	s.Enter()

	if bind != nil {
		bind(s)
	}

	value, stop, err := run(s, w)

	if leaveErr := s.Leave(); leaveErr != nil && err == nil {
		err = leaveErr
	}

	return value, stop, err
}

func (rt *runtime) compileExpr(e *Expression) evaluator {
	switch e.Type {
	case ExprConstant:
		v := e.Value

		return func(*Scope, io.Writer) Value { return v }

	case ExprSymbol:
		name := String(e.Name)

		return func(s *Scope, _ io.Writer) Value {
			v, _ := s.Get(name)

			return v
		}

	case ExprAccess:
		source, subscript := rt.compileExpr(e.Source), rt.compileExpr(e.Subscript)

		return func(s *Scope, w io.Writer) Value {
			fields := source(s, w).Fields()
			v, _ := fields.Get(subscript(s, w))

			return v
		}

	case ExprInvoke:
		source := rt.compileExpr(e.Source)

		args := make([]evaluator, len(e.Args))
		for i, arg := range e.Args {
			args[i] = rt.compileExpr(arg)
		}

		return func(s *Scope, w io.Writer) Value {
			fn := source(s, w)
			if fn.AsFunction() == nil {
				return Void
			}

			values := make([]Value, len(args))
			for i, arg := range args {
				values[i] = arg(s, w)
			}

			return rt.invoke(fn, values, s, w)
		}

	case ExprMap:
		return rt.compileMap(e)

	default:
		return func(*Scope, io.Writer) Value { return Void }
	}
}

// compileMap builds constant map literals once; maps are immutable, so
// every render can share the result.
func (rt *runtime) compileMap(e *Expression) evaluator {
	constant := true

	for _, entry := range e.Entries {
		if entry.Key.Type != ExprConstant || entry.Value.Type != ExprConstant {
			constant = false

			break
		}
	}

	if constant {
		pairs := make([]Pair, len(e.Entries))
		for i, entry := range e.Entries {
			pairs[i] = Pair{Key: entry.Key.Value, Value: entry.Value.Value}
		}

		v := MapOf(NewMap(pairs...))

		return func(*Scope, io.Writer) Value { return v }
	}

	keys := make([]evaluator, len(e.Entries))
	values := make([]evaluator, len(e.Entries))

	for i, entry := range e.Entries {
		keys[i] = rt.compileExpr(entry.Key)
		values[i] = rt.compileExpr(entry.Value)
	}

	return func(s *Scope, w io.Writer) Value {
		pairs := make([]Pair, len(keys))
		for i := range keys {
			pairs[i] = Pair{Key: keys[i](s, w), Value: values[i](s, w)}
		}

		return MapOf(NewMap(pairs...))
	}
}
