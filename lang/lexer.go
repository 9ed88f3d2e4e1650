package lang

import (
	"cmp"
	"log/slog"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Delimiters are the three strings that delimit block regions in a template.
type Delimiters struct {
	Begin    string // Opens a block
	Continue string // Separates the branches of a block
	End      string // Closes a block
}

// DefaultDelimiters are the delimiters used when none are configured.
//
//nolint:gochecknoglobals
var DefaultDelimiters = Delimiters{Begin: "{", Continue: "|", End: "}"}

// Validate reports an error if any delimiter is empty or two are equal.
func (d Delimiters) Validate() error {
	switch {
	case d.Begin == "", d.Continue == "", d.End == "":
		return ErrInvalidDelims.With(
			slog.String("begin", d.Begin),
			slog.String("continue", d.Continue),
			slog.String("end", d.End),
			slog.String("issue", "empty delimiter"),
		)

	case d.Begin == d.Continue, d.Begin == d.End, d.Continue == d.End:
		return ErrInvalidDelims.With(
			slog.String("begin", d.Begin),
			slog.String("continue", d.Continue),
			slog.String("end", d.End),
			slog.String("issue", "duplicate delimiter"),
		)
	}

	return nil
}

type lexemeKind int

const (
	lexEOF lexemeKind = iota
	lexText
	lexBlockBegin
	lexBlockContinue
	lexBlockEnd
	lexSymbol
	lexString
	lexNumber
	lexParenBegin
	lexParenEnd
	lexBracketBegin
	lexBracketEnd
	lexComma
	lexDot
	lexColon
	lexUnknown
)

func (k lexemeKind) String() string {
	switch k {
	case lexEOF:
		return "EndOfFile"

	case lexText:
		return "Text"

	case lexBlockBegin:
		return "BlockBegin"

	case lexBlockContinue:
		return "BlockContinue"

	case lexBlockEnd:
		return "BlockEnd"

	case lexSymbol:
		return "Symbol"

	case lexString:
		return "String"

	case lexNumber:
		return "Number"

	case lexParenBegin:
		return "ParenBegin"

	case lexParenEnd:
		return "ParenEnd"

	case lexBracketBegin:
		return "BracketBegin"

	case lexBracketEnd:
		return "BracketEnd"

	case lexComma:
		return "Comma"

	case lexDot:
		return "Dot"

	case lexColon:
		return "Colon"

	default:
		return "Unknown"
	}
}

// lexeme is a single token. Text holds the unescaped content for Text and
// String lexemes, and the matched source text otherwise.
type lexeme struct {
	kind   lexemeKind
	text   string
	line   int
	column int
}

type lexMode int

const (
	modeRaw lexMode = iota
	modeBlock
)

type delimiter struct {
	text string
	kind lexemeKind
}

// lexer scans a template lazily, one lexeme at a time. The parser selects
// the mode for each lexeme because only the grammar knows whether the next
// bytes are prose or code.
type lexer struct {
	raw   []delimiter // all delimiters, longest first
	block []delimiter // continue and end delimiters, longest first

	src    string
	pos    int
	line   int
	column int

	current lexeme
}

func newLexer(d Delimiters) *lexer {
	longest := func(a, b delimiter) int {
		return cmp.Compare(len(b.text), len(a.text))
	}

	raw := []delimiter{
		{text: d.Begin, kind: lexBlockBegin},
		{text: d.Continue, kind: lexBlockContinue},
		{text: d.End, kind: lexBlockEnd},
	}
	block := []delimiter{
		{text: d.Continue, kind: lexBlockContinue},
		{text: d.End, kind: lexBlockEnd},
	}

	slices.SortStableFunc(raw, longest)
	slices.SortStableFunc(block, longest)

	return &lexer{raw: raw, block: block}
}

func (l *lexer) reset(source string) {
	l.src = source
	l.pos = 0
	l.line = 1
	l.column = 1
	l.current = lexeme{}
}

// next scans the lexeme starting at the current position in the given mode
// and makes it current.
func (l *lexer) next(mode lexMode) lexeme {
	if mode == modeBlock {
		l.skipSpace()
	}

	start := lexeme{line: l.line, column: l.column}

	if l.pos >= len(l.src) {
		start.kind = lexEOF
		l.current = start

		return l.current
	}

	if mode == modeRaw {
		l.current = l.scanRaw(start)
	} else {
		l.current = l.scanBlock(start)
	}

	return l.current
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if !unicode.IsSpace(r) {
			return
		}

		l.advance(size)
	}
}

// advance moves the position forward by n bytes, tracking line and column.
func (l *lexer) advance(n int) {
	for _, r := range l.src[l.pos : l.pos+n] {
		if r == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
	}

	l.pos += n
}

func (l *lexer) delimiterAt(set []delimiter) (delimiter, bool) {
	for _, d := range set {
		if strings.HasPrefix(l.src[l.pos:], d.text) {
			return d, true
		}
	}

	return delimiter{}, false
}

func (l *lexer) scanRaw(lex lexeme) lexeme {
	if d, ok := l.delimiterAt(l.raw); ok {
		l.advance(len(d.text))
		lex.kind = d.kind
		lex.text = d.text

		return lex
	}

	var buf strings.Builder

	for l.pos < len(l.src) {
		if _, ok := l.delimiterAt(l.raw); ok {
			break
		}

		r, size := utf8.DecodeRuneInString(l.src[l.pos:])

		if r == '\\' && l.pos+size < len(l.src) {
			l.advance(size)
			r, size = utf8.DecodeRuneInString(l.src[l.pos:])
		}

		buf.WriteRune(r)
		l.advance(size)
	}

	lex.kind = lexText
	lex.text = buf.String()

	return lex
}

func (l *lexer) scanBlock(lex lexeme) lexeme {
	if d, ok := l.delimiterAt(l.block); ok {
		l.advance(len(d.text))
		lex.kind = d.kind
		lex.text = d.text

		return lex
	}

	r, size := utf8.DecodeRuneInString(l.src[l.pos:])

	if kind, ok := punctuation(r); ok {
		l.advance(size)
		lex.kind = kind
		lex.text = string(r)

		return lex
	}

	switch {
	case isSymbolStart(r):
		start := l.pos
		for l.pos < len(l.src) {
			r, size := utf8.DecodeRuneInString(l.src[l.pos:])
			if !isSymbolStart(r) && !isDigit(r) {
				break
			}

			l.advance(size)
		}

		lex.kind = lexSymbol
		lex.text = l.src[start:l.pos]

	case isDigit(r) || (r == '-' && l.pos+1 < len(l.src) && isDigit(rune(l.src[l.pos+1]))):
		start := l.pos
		l.advance(size)

		for l.pos < len(l.src) {
			c := rune(l.src[l.pos])
			if !isDigit(c) && c != '.' {
				break
			}

			l.advance(1)
		}

		lex.kind = lexNumber
		lex.text = l.src[start:l.pos]

	case r == '"' || r == '\'':
		lex.kind = lexString
		lex.text = l.scanString(r, size)

	default:
		l.advance(size)
		lex.kind = lexUnknown
		lex.text = string(r)
	}

	return lex
}

// scanString reads a quoted string. A backslash escapes the next character;
// an unterminated string extends to the end of input.
func (l *lexer) scanString(delim rune, size int) string {
	var buf strings.Builder

	l.advance(size)

	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		l.advance(size)

		if r == delim {
			break
		}

		if r == '\\' && l.pos < len(l.src) {
			r, size = utf8.DecodeRuneInString(l.src[l.pos:])
			l.advance(size)
		}

		buf.WriteRune(r)
	}

	return buf.String()
}

func punctuation(r rune) (lexemeKind, bool) {
	switch r {
	case '(':
		return lexParenBegin, true

	case ')':
		return lexParenEnd, true

	case '[':
		return lexBracketBegin, true

	case ']':
		return lexBracketEnd, true

	case ',':
		return lexComma, true

	case '.':
		return lexDot, true

	case ':':
		return lexColon, true

	default:
		return lexUnknown, false
	}
}

func isSymbolStart(r rune) bool {
	return r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

func isDigit(r rune) bool { return '0' <= r && r <= '9' }
