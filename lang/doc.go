// Package lang implements an embeddable template language: text with block
// regions that assign variables, branch, loop, define functions and echo
// values, rendered against a caller-supplied [Scope].
//
// # Grammar
//
// Informal EBNF, using the default delimiters '{', '|' and '}':
//
//	document  → command EOF
//	command   → ( TEXT | block )*
//	block     → '{' statement '}'
//	statement → '_' TEXT*                              (comment)
//	          | ('declare' | 'set' | 'define') assign
//	          | ('echo' | 'dump' | 'return') expr
//	          | 'if' expr body ('|' 'elif' expr body)* ('|' 'else' body)?
//	          | 'for' SYMBOL (',' SYMBOL)? 'in' expr body ('|' 'empty' body)?
//	          | 'while' expr body
//	          | expr                                   (implicit echo)
//	assign    → SYMBOL '(' SYMBOL* ')' ('as' | 'to')? body
//	          | SYMBOL ('as' | 'to') expr
//	          | SYMBOL
//	body      → ':' command
//	expr      → primary ( '[' expr ']' | '.' SYMBOL | '(' expr* ')' )*
//	primary   → '[' ( expr (':' expr)? )* ']' | NUMBER | STRING | SYMBOL
//
// Commas between parameters, arguments and map entries are optional. In
// text, a backslash makes the next character literal, so delimiters can
// appear in prose. The backslash itself is always consumed, whatever
// follows it: C:\dir renders as C:dir, and a literal backslash is written
// \\. Only a backslash at the very end of the template is kept.
//
// # Example
//
//	{declare greet(name) as:Hello, {name}!}
//	{for i, who in ["Ada", "Grace"]:
//	  {i}: {greet(who)}
//	|empty:
//	  nobody
//	}
//
// # Scoping
//
// declare binds in the innermost frame. set and define overwrite the
// innermost frame that already binds the name, or else bind in the
// innermost frame. Each loop iteration and each function call runs in a
// fresh frame. A function sees the frames that existed where it was defined,
// including bindings added to them later, plus a frame for its parameters.
//
// # Values
//
// Values are Void, Boolean, Number (exact decimal), String, Map (ordered,
// with unique keys of any kind) and Function. Every value converts to every
// view (boolean, number, string, function, fields), so a render never fails
// on missing data: unknown symbols, missing keys and calls to non-functions
// all yield Void.
//
// # Errors
//
// Compile reports the first structural error as a [*ParseError] with the
// line, the column and a caret under the offending source. Errors raised by
// functions are passed to the [ErrorHandler] and replaced with Void.
package lang
