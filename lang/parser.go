package lang

import (
	"github.com/shopspring/decimal"
)

// keyword identifies the statement introduced by a reserved symbol at the
// start of a block.
type keyword int

const (
	keywordComment keyword = iota
	keywordDeclare
	keywordDefine
	keywordDump
	keywordEcho
	keywordFor
	keywordIf
	keywordReturn
	keywordSet
	keywordWhile
)

// keywords is the fixed dispatch table for statement keywords. A block that
// does not start with one of these is an implicit echo.
//
//nolint:gochecknoglobals
var keywords = map[string]keyword{
	"_":       keywordComment,
	"declare": keywordDeclare,
	"define":  keywordDefine,
	"dump":    keywordDump,
	"echo":    keywordEcho,
	"for":     keywordFor,
	"if":      keywordIf,
	"return":  keywordReturn,
	"set":     keywordSet,
	"while":   keywordWhile,
}

// parser builds a command tree by recursive descent over the lexer. The first
// structural violation aborts the parse.
type parser struct {
	lex    *lexer
	source string
}

// parse parses a complete template.
func parse(source string, delims Delimiters) (*Command, error) {
	p := &parser{lex: newLexer(delims), source: source}

	p.lex.reset(source)
	p.lex.next(modeRaw)

	cmd, err := p.parseCommand()
	if err != nil {
		return nil, err
	}

	if p.cur().kind != lexEOF {
		return nil, p.raise("end of file")
	}

	return cmd, nil
}

func (p *parser) cur() lexeme { return p.lex.current }

func (p *parser) raise(expected string) *ParseError {
	cur := p.cur()

	return &ParseError{
		Line:     cur.line,
		Column:   cur.column,
		Found:    cur.text,
		Expected: expected,
		Source:   p.source,
	}
}

// parseCommand parses a sequence of text and blocks up to the next continue
// delimiter, end delimiter or end of input.
func (p *parser) parseCommand() (*Command, error) {
	var stmts []*Command

	for {
		switch p.cur().kind {
		case lexBlockContinue, lexBlockEnd, lexEOF:
			return chain(stmts), nil

		case lexText:
			stmts = append(stmts, &Command{Type: CommandLiteral, Text: p.cur().text})
			p.lex.next(modeRaw)

		case lexBlockBegin:
			p.lex.next(modeBlock)

			cmd, err := p.parseStatement()
			if err != nil {
				return nil, err
			}

			if p.cur().kind != lexBlockEnd {
				return nil, p.raise("end of block")
			}

			p.lex.next(modeRaw)

			if cmd != nil {
				stmts = append(stmts, cmd)
			}

		default:
			return nil, p.raise("text or block begin")
		}
	}
}

// chain folds statements into a right-leaning composite list. A single
// statement is returned unwrapped, and no statements yield an empty literal.
func chain(stmts []*Command) *Command {
	if len(stmts) == 0 {
		return &Command{Type: CommandLiteral}
	}

	acc := stmts[len(stmts)-1]
	for i := len(stmts) - 2; i >= 0; i-- {
		acc = &Command{Type: CommandComposite, Body: stmts[i], Next: acc}
	}

	return acc
}

// parseStatement parses the content of a block. A nil command is returned
// for comments.
func (p *parser) parseStatement() (*Command, error) {
	kw, ok := keyword(0), false
	if p.cur().kind == lexSymbol {
		kw, ok = keywords[p.cur().text]
	}

	if !ok {
		return p.parseEcho(CommandEcho)
	}

	if kw == keywordComment {
		for {
			if p.lex.next(modeRaw).kind != lexText {
				return nil, nil //nolint:nilnil
			}
		}
	}

	p.lex.next(modeBlock)

	switch kw {
	case keywordDeclare:
		return p.parseAssignment(ModeLocal)

	case keywordDefine, keywordSet:
		return p.parseAssignment(ModeClosest)

	case keywordDump:
		return p.parseEcho(CommandDump)

	case keywordEcho:
		return p.parseEcho(CommandEcho)

	case keywordFor:
		return p.parseFor()

	case keywordIf:
		return p.parseIf()

	case keywordReturn:
		return p.parseEcho(CommandReturn)

	case keywordWhile:
		return p.parseWhile()

	default:
		return nil, p.raise("statement")
	}
}

// parseEcho parses a statement made of a single operand.
func (p *parser) parseEcho(typ CommandType) (*Command, error) {
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	return &Command{Type: typ, Expr: expr}, nil
}

// parseAssignment parses the forms following declare, set and define:
//
//	name(params) [as|to]: body
//	name as|to expression
//	name
//
// The last form is a legacy declaration binding the empty string.
func (p *parser) parseAssignment(mode Mode) (*Command, error) {
	name, err := p.parseSymbol()
	if err != nil {
		return nil, err
	}

	if p.cur().kind == lexParenBegin {
		var params []string

		for p.lex.next(modeBlock); p.cur().kind != lexParenEnd; {
			param, err := p.parseSymbol()
			if err != nil {
				return nil, err
			}

			params = append(params, param)

			if p.cur().kind == lexComma {
				p.lex.next(modeBlock)
			}
		}

		p.lex.next(modeBlock)

		if p.cur().kind == lexSymbol {
			if mode, err = p.parseVisibility(mode); err != nil {
				return nil, err
			}
		}

		body, err := p.parseBody()
		if err != nil {
			return nil, err
		}

		return &Command{
			Type:   CommandAssignFunction,
			Name:   name,
			Params: params,
			Body:   body,
			Mode:   mode,
		}, nil
	}

	if p.cur().kind != lexSymbol {
		return &Command{
			Type: CommandAssignValue,
			Name: name,
			Expr: &Expression{Type: ExprConstant, Value: String("")},
			Mode: mode,
		}, nil
	}

	if mode, err = p.parseVisibility(mode); err != nil {
		return nil, err
	}

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	return &Command{Type: CommandAssignValue, Name: name, Expr: expr, Mode: mode}, nil
}

// parseVisibility consumes the keyword separating an assigned name from its
// value. Declarations expect "as"; set and define expect "to" but also accept
// "as", which makes the assignment local.
func (p *parser) parseVisibility(mode Mode) (Mode, error) {
	switch text := p.cur().text; {
	case text == "as":
		p.lex.next(modeBlock)

		return ModeLocal, nil

	case text == "to" && mode == ModeClosest:
		p.lex.next(modeBlock)

		return ModeClosest, nil

	case mode == ModeLocal:
		return mode, p.raise("'as' keyword")

	default:
		return mode, p.raise("'to' keyword")
	}
}

func (p *parser) parseFor() (*Command, error) {
	key, err := p.parseSymbol()
	if err != nil {
		return nil, err
	}

	value := key

	if p.cur().kind == lexComma {
		p.lex.next(modeBlock)

		if value, err = p.parseSymbol(); err != nil {
			return nil, err
		}
	} else {
		key = ""
	}

	if err := p.expect("in", "'in' keyword"); err != nil {
		return nil, err
	}

	source, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}

	cmd := &Command{Type: CommandFor, Key: key, Name: value, Expr: source, Body: body}

	if p.cur().kind == lexBlockContinue {
		p.lex.next(modeBlock)

		if err := p.expect("empty", "'empty' keyword"); err != nil {
			return nil, err
		}

		if cmd.Next, err = p.parseBody(); err != nil {
			return nil, err
		}
	}

	return cmd, nil
}

func (p *parser) parseIf() (*Command, error) {
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}

	result := &Command{Type: CommandIf, Expr: cond, Body: body}

	for cur := result; cur.Next == nil && p.cur().kind == lexBlockContinue; {
		p.lex.next(modeBlock)

		var text string
		if p.cur().kind == lexSymbol {
			text = p.cur().text
		}

		switch text {
		case "elif":
			p.lex.next(modeBlock)

			if cond, err = p.parseExpression(); err != nil {
				return nil, err
			}

			if body, err = p.parseBody(); err != nil {
				return nil, err
			}

			cur.Next = &Command{Type: CommandIf, Expr: cond, Body: body}
			cur = cur.Next

		case "else":
			p.lex.next(modeBlock)

			if cur.Next, err = p.parseBody(); err != nil {
				return nil, err
			}

		default:
			return nil, p.raise("'elif' or 'else' keyword")
		}
	}

	return result, nil
}

func (p *parser) parseWhile() (*Command, error) {
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}

	return &Command{Type: CommandWhile, Expr: cond, Body: body}, nil
}

// parseBody parses ':' followed by a command.
func (p *parser) parseBody() (*Command, error) {
	if p.cur().kind != lexColon {
		return nil, p.raise("body separator (':')")
	}

	p.lex.next(modeRaw)

	return p.parseCommand()
}

func (p *parser) parseSymbol() (string, error) {
	if p.cur().kind != lexSymbol {
		return "", p.raise("symbol (variable name)")
	}

	name := p.cur().text
	p.lex.next(modeBlock)

	return name, nil
}

func (p *parser) expect(text, expected string) error {
	if p.cur().kind != lexSymbol || p.cur().text != text {
		return p.raise(expected)
	}

	p.lex.next(modeBlock)

	return nil
}

// parseExpression parses a primary term followed by any number of
// subscripts, field accesses and invocations.
func (p *parser) parseExpression() (*Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		switch p.cur().kind {
		case lexBracketBegin:
			p.lex.next(modeBlock)

			sub, err := p.parseExpression()
			if err != nil {
				return nil, err
			}

			if p.cur().kind != lexBracketEnd {
				return nil, p.raise("array index end (']')")
			}

			p.lex.next(modeBlock)

			expr = &Expression{Type: ExprAccess, Source: expr, Subscript: sub}

		case lexDot:
			p.lex.next(modeBlock)

			if p.cur().kind != lexSymbol {
				return nil, p.raise("field name")
			}

			expr = &Expression{
				Type:      ExprAccess,
				Source:    expr,
				Subscript: &Expression{Type: ExprConstant, Value: String(p.cur().text)},
			}

			p.lex.next(modeBlock)

		case lexParenBegin:
			var args []*Expression

			for p.lex.next(modeBlock); p.cur().kind != lexParenEnd; {
				arg, err := p.parseExpression()
				if err != nil {
					return nil, err
				}

				args = append(args, arg)

				if p.cur().kind == lexComma {
					p.lex.next(modeBlock)
				}
			}

			p.lex.next(modeBlock)

			expr = &Expression{Type: ExprInvoke, Source: expr, Args: args}

		default:
			return expr, nil
		}
	}
}

func (p *parser) parsePrimary() (*Expression, error) {
	cur := p.cur()

	switch cur.kind {
	case lexBracketBegin:
		var (
			entries []Entry
			index   int64
		)

		for p.lex.next(modeBlock); p.cur().kind != lexBracketEnd; {
			key, err := p.parseExpression()
			if err != nil {
				return nil, err
			}

			value := key

			if p.cur().kind == lexColon {
				p.lex.next(modeBlock)

				if value, err = p.parseExpression(); err != nil {
					return nil, err
				}
			} else {
				key = &Expression{Type: ExprConstant, Value: NumberFromInt(index)}
				index++
			}

			entries = append(entries, Entry{Key: key, Value: value})

			if p.cur().kind == lexComma {
				p.lex.next(modeBlock)
			}
		}

		p.lex.next(modeBlock)

		return &Expression{Type: ExprMap, Entries: entries}, nil

	case lexNumber:
		d, err := decimal.NewFromString(cur.text)
		if err != nil {
			d = decimal.Zero
		}

		p.lex.next(modeBlock)

		return &Expression{Type: ExprConstant, Value: Number(d)}, nil

	case lexString:
		p.lex.next(modeBlock)

		return &Expression{Type: ExprConstant, Value: String(cur.text)}, nil

	case lexSymbol:
		p.lex.next(modeBlock)

		return &Expression{Type: ExprSymbol, Name: cur.text}, nil

	default:
		return nil, p.raise("expression")
	}
}
