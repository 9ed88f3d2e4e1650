// Package lib is the common library of template functions.
//
// The language itself defines no operators. Arithmetic, comparison, string
// and collection helpers are ordinary functions bound in a scope before
// rendering:
//
//	scope := lib.Scope()
//	doc, _ := lang.Compile(ctx, `{if gt(len(items), 2):many|else:few}`)
//	doc.Render(scope, os.Stdout)
//
// Numbers are exact decimals. Division keeps [DivisionPrecision] places when
// the quotient does not terminate; dividing by zero is an invocation failure
// and yields Void. The expr function evaluates an expr-lang expression for
// computations that would be verbose as nested calls, and pathprefix edits
// PATH-like lists.
//
// Templates have no boolean literals; the library binds the symbols true and
// false.
package lib
