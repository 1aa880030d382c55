// Package lexer implements the lexical analysis (tokenization) for lox-lang.
package lexer

import (
	"fmt"
	"lox-lang/internal/diag"
	"lox-lang/internal/span"
	"lox-lang/internal/token"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Lexer tokenizes source code into a sequence of tokens.
type Lexer struct {
	source string

	pos  int // current read position in source
	line int // current line (1-based)
	col  int // current column (1-based), counted in runes

	start  span.Position // start of the token being scanned
	tokens []token.Token
	diags  []diag.Diagnostic
}

// New creates a new Lexer for the given source text.
func New(source string) *Lexer {
	return &Lexer{
		source: source,
		pos:    0,
		line:   1,
		col:    1,
	}
}

// Tokenize scans the entire source and returns all tokens and diagnostics.
// It never stops early: malformed input is reported and skipped, and the
// result always ends with a single EOF token.
func (l *Lexer) Tokenize() ([]token.Token, []diag.Diagnostic) {
	for !l.isAtEnd() {
		l.start = l.curPos()
		l.scanToken()
	}
	l.start = l.curPos()
	l.emit(token.EOF, nil)
	return l.tokens, l.diags
}

// ---- internal helpers ----

func (l *Lexer) isAtEnd() bool {
	return l.pos >= len(l.source)
}

// peek returns the current character without advancing, or 0 if at end.
func (l *Lexer) peek() byte {
	if l.pos >= len(l.source) {
		return 0
	}
	return l.source[l.pos]
}

// peekNext returns the character after current, or 0 if at end.
func (l *Lexer) peekNext() byte {
	if l.pos+1 >= len(l.source) {
		return 0
	}
	return l.source[l.pos+1]
}

// advance consumes the current byte and returns it. UTF-8 continuation
// bytes do not move the column.
func (l *Lexer) advance() byte {
	ch := l.source[l.pos]
	l.pos++
	switch {
	case ch == '\n':
		l.line++
		l.col = 1
	case !utf8.RuneStart(ch):
	default:
		l.col++
	}
	return ch
}

// match consumes the current character if it equals expected.
func (l *Lexer) match(expected byte) bool {
	if l.isAtEnd() || l.source[l.pos] != expected {
		return false
	}
	l.advance()
	return true
}

// curPos returns the current position as a span.Position.
func (l *Lexer) curPos() span.Position {
	return span.Position{Offset: l.pos, Line: l.line, Column: l.col}
}

// makeSpan returns a span from start to current position.
func (l *Lexer) makeSpan(start span.Position) span.Span {
	return span.Span{Start: start, End: l.curPos()}
}

// emit appends a token covering start..current.
func (l *Lexer) emit(kind token.Kind, literal interface{}) {
	l.tokens = append(l.tokens, token.Token{
		Kind:    kind,
		Lexeme:  l.source[l.start.Offset:l.pos],
		Literal: literal,
		Span:    l.makeSpan(l.start),
	})
}

// emitIf emits whenKind if the next character is expected, else otherwise.
func (l *Lexer) emitIf(expected byte, whenKind, otherwise token.Kind) {
	if l.match(expected) {
		l.emit(whenKind, nil)
		return
	}
	l.emit(otherwise, nil)
}

// ---- token reading ----

func (l *Lexer) scanToken() {
	ch := l.advance()

	switch ch {
	case '(':
		l.emit(token.LPAREN, nil)
	case ')':
		l.emit(token.RPAREN, nil)
	case '{':
		l.emit(token.LBRACE, nil)
	case '}':
		l.emit(token.RBRACE, nil)
	case ',':
		l.emit(token.COMMA, nil)
	case '.':
		l.emit(token.DOT, nil)
	case '-':
		l.emit(token.MINUS, nil)
	case '+':
		l.emit(token.PLUS, nil)
	case ';':
		l.emit(token.SEMICOLON, nil)
	case '*':
		l.emit(token.STAR, nil)
	case '!':
		l.emitIf('=', token.NEQ, token.BANG)
	case '=':
		l.emitIf('=', token.EQ, token.ASSIGN)
	case '<':
		l.emitIf('=', token.LTE, token.LT)
	case '>':
		l.emitIf('=', token.GTE, token.GT)
	case '/':
		if l.match('/') {
			l.skipLineComment()
			return
		}
		l.emit(token.SLASH, nil)
	case ' ', '\t', '\r', '\n':
		// advance already counted the newline
	case '"':
		l.readString()
	default:
		switch {
		case isDigit(ch):
			l.readNumber()
		case isIdentStart(ch):
			l.readIdentifier()
		default:
			l.unexpectedChar()
		}
	}
}

// unexpectedChar reports the character at the token start, consuming all
// of its bytes so a multi-byte rune yields one diagnostic.
func (l *Lexer) unexpectedChar() {
	r, size := utf8.DecodeRuneInString(l.source[l.start.Offset:])
	for i := 1; i < size; i++ {
		l.advance()
	}

	d := diag.Errorf(diag.CodeUnexpectedChar, l.makeSpan(l.start), "unexpected character: %s", quoteRune(r))
	if hint := unexpectedCharHint(r); hint != "" {
		d = d.WithHint(hint)
	}
	l.diags = append(l.diags, d)
}

func quoteRune(r rune) string {
	if r == utf8.RuneError || !unicode.IsPrint(r) {
		return fmt.Sprintf("%U", r)
	}
	return fmt.Sprintf("'%c'", r)
}

func unexpectedCharHint(r rune) string {
	switch {
	case r == '\'':
		return "strings are written with double quotes"
	case r == '#':
		return "comments start with '//'"
	case r == '&' || r == '|':
		return "use the keywords 'and' and 'or'"
	case r > unicode.MaxASCII && unicode.IsLetter(r):
		return "identifiers may only use ASCII letters, digits and '_'"
	}
	return ""
}

// skipLineComment skips from // to end of line.
func (l *Lexer) skipLineComment() {
	for !l.isAtEnd() && l.peek() != '\n' {
		l.advance()
	}
}

// readString reads a double-quoted string literal. The body is taken
// verbatim and may span several lines.
func (l *Lexer) readString() {
	for !l.isAtEnd() && l.peek() != '"' {
		l.advance()
	}

	if l.isAtEnd() {
		l.diags = append(l.diags, diag.Errorf(diag.CodeUnterminatedString, l.makeSpan(l.start),
			"unterminated string literal").WithHint("add a closing '\"'"))
		return
	}

	l.advance() // closing "
	body := l.source[l.start.Offset+1 : l.pos-1]
	l.emit(token.STRING, body)
}

// readNumber reads digits with an optional fractional part.
func (l *Lexer) readNumber() {
	for isDigit(l.peek()) {
		l.advance()
	}

	// A trailing '.' without digits is left for the DOT token.
	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.advance() // skip '.'
		for isDigit(l.peek()) {
			l.advance()
		}
	}

	lexeme := l.source[l.start.Offset:l.pos]
	// The lexeme is always well-formed; overflow yields +Inf.
	val, _ := strconv.ParseFloat(lexeme, 64)
	l.emit(token.NUMBER, val)
}

// readIdentifier reads an identifier or keyword.
func (l *Lexer) readIdentifier() {
	for isIdentPart(l.peek()) {
		l.advance()
	}

	lexeme := l.source[l.start.Offset:l.pos]
	l.emit(token.LookupIdent(lexeme), nil)
}

// ---- character classification ----

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
