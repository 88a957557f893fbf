package parser

import (
	"unicode"
	"unicode/utf8"

	"github.com/dhamidi/greentree/syntax"
)

// Token is a raw lexeme: a significant token or a single piece of trivia.
type Token struct {
	Kind   syntax.Kind
	Offset int
	Text   string
}

// End returns the offset just past the token.
func (t Token) End() int {
	return t.Offset + len(t.Text)
}

// Lexer splits Java source into tokens and trivia. Every byte of the
// input ends up in exactly one Token, so concatenating the texts of all
// tokens up to EOF reproduces the input.
type Lexer struct {
	input string
	pos   int
}

func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) peekRune() (rune, int) {
	return utf8.DecodeRuneInString(l.input[l.pos:])
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

// NextToken returns the next token. At the end of the input it returns a
// zero-width EOF token, and keeps doing so.
func (l *Lexer) NextToken() Token {
	start := l.pos
	if l.atEOF() {
		return Token{Kind: syntax.KindEOF, Offset: start}
	}

	ch := l.peek()
	switch {
	case ch == '\n':
		l.pos++
		return l.token(syntax.KindEndOfLineTrivia, start)
	case ch == '\r' && l.peekN(1) == '\n':
		l.pos += 2
		return l.token(syntax.KindEndOfLineTrivia, start)
	case ch == ' ' || ch == '\t' || ch == '\f' || ch == '\r':
		return l.scanWhitespace(start)
	case ch == '/' && l.peekN(1) == '/':
		return l.scanLineComment(start)
	case ch == '/' && l.peekN(1) == '*':
		return l.scanBlockComment(start)
	case isDigit(ch):
		return l.scanNumber(start)
	case ch == '.' && isDigit(l.peekN(1)):
		return l.scanNumber(start)
	case ch == '\'':
		return l.scanCharLiteral(start)
	case ch == '"':
		if l.peekN(1) == '"' && l.peekN(2) == '"' {
			return l.scanTextBlock(start)
		}
		return l.scanStringLiteral(start)
	}

	if r, _ := l.peekRune(); isJavaLetter(r) {
		return l.scanIdentOrKeyword(start)
	}
	return l.scanOperator(start)
}

func (l *Lexer) token(kind syntax.Kind, start int) Token {
	return Token{Kind: kind, Offset: start, Text: l.input[start:l.pos]}
}

func (l *Lexer) scanWhitespace(start int) Token {
	for {
		ch := l.peek()
		if ch == ' ' || ch == '\t' || ch == '\f' || (ch == '\r' && l.peekN(1) != '\n') {
			l.pos++
			continue
		}
		break
	}
	return l.token(syntax.KindWhitespaceTrivia, start)
}

func (l *Lexer) scanLineComment(start int) Token {
	l.pos += 2
	for !l.atEOF() && l.peek() != '\n' && !(l.peek() == '\r' && l.peekN(1) == '\n') {
		l.pos++
	}
	return l.token(syntax.KindLineCommentTrivia, start)
}

// scanBlockComment scans /* ... */. Comments opening with /** are
// documentation comments, except for the empty comment /**/.
func (l *Lexer) scanBlockComment(start int) Token {
	kind := syntax.KindBlockCommentTrivia
	if l.peekN(2) == '*' && l.peekN(3) != '/' {
		kind = syntax.KindDocCommentTrivia
	}
	l.pos += 2
	for !l.atEOF() {
		if l.peek() == '*' && l.peekN(1) == '/' {
			l.pos += 2
			break
		}
		l.pos++
	}
	return l.token(kind, start)
}

func (l *Lexer) scanIdentOrKeyword(start int) Token {
	for !l.atEOF() {
		r, size := l.peekRune()
		if !isJavaLetterOrDigit(r) {
			break
		}
		l.pos += size
	}
	tok := l.token(syntax.KindIdentifier, start)
	tok.Kind = syntax.LookupKeyword(tok.Text)
	return tok
}

func (l *Lexer) scanDigits(valid func(byte) bool) {
	for valid(l.peek()) || l.peek() == '_' {
		l.pos++
	}
}

func (l *Lexer) scanNumber(start int) Token {
	if l.peek() == '0' && (l.peekN(1) == 'x' || l.peekN(1) == 'X') {
		l.pos += 2
		l.scanDigits(isHexDigit)
		if l.peek() == 'l' || l.peek() == 'L' {
			l.pos++
		}
		return l.token(syntax.KindIntLiteral, start)
	}
	if l.peek() == '0' && (l.peekN(1) == 'b' || l.peekN(1) == 'B') {
		l.pos += 2
		l.scanDigits(func(ch byte) bool { return ch == '0' || ch == '1' })
		if l.peek() == 'l' || l.peek() == 'L' {
			l.pos++
		}
		return l.token(syntax.KindIntLiteral, start)
	}

	isFloat := false
	l.scanDigits(isDigit)
	if l.peek() == '.' && isDigit(l.peekN(1)) {
		isFloat = true
		l.pos++
		l.scanDigits(isDigit)
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		isFloat = true
		l.pos++
		if l.peek() == '+' || l.peek() == '-' {
			l.pos++
		}
		l.scanDigits(isDigit)
	}

	switch l.peek() {
	case 'f', 'F', 'd', 'D':
		isFloat = true
		l.pos++
	case 'l', 'L':
		l.pos++
	}

	if isFloat {
		return l.token(syntax.KindFloatLiteral, start)
	}
	return l.token(syntax.KindIntLiteral, start)
}

// scanQuoted scans a character or string literal. An unterminated literal
// ends at the end of the line.
func (l *Lexer) scanQuoted(start int, quote byte, kind syntax.Kind) Token {
	l.pos++
	for !l.atEOF() && l.peek() != quote && l.peek() != '\n' {
		if l.peek() == '\\' && l.peekN(1) != '\n' && l.peekN(1) != 0 {
			l.pos++
		}
		l.pos++
	}
	if l.peek() == quote {
		l.pos++
	}
	return l.token(kind, start)
}

func (l *Lexer) scanCharLiteral(start int) Token {
	return l.scanQuoted(start, '\'', syntax.KindCharLiteral)
}

func (l *Lexer) scanStringLiteral(start int) Token {
	return l.scanQuoted(start, '"', syntax.KindStringLiteral)
}

func (l *Lexer) scanTextBlock(start int) Token {
	l.pos += 3
	for !l.atEOF() {
		if l.peek() == '"' && l.peekN(1) == '"' && l.peekN(2) == '"' {
			l.pos += 3
			break
		}
		if l.peek() == '\\' && l.peekN(1) != 0 {
			l.pos++
		}
		l.pos++
	}
	return l.token(syntax.KindStringLiteral, start)
}

var twoCharOperators = map[string]syntax.Kind{
	"==": syntax.KindEQ,
	"!=": syntax.KindNE,
	"<=": syntax.KindLE,
	">=": syntax.KindGE,
	"&&": syntax.KindAnd,
	"||": syntax.KindOr,
}

var oneCharOperators = map[byte]syntax.Kind{
	'(': syntax.KindLParen,
	')': syntax.KindRParen,
	'{': syntax.KindLBrace,
	'}': syntax.KindRBrace,
	'[': syntax.KindLBracket,
	']': syntax.KindRBracket,
	';': syntax.KindSemicolon,
	',': syntax.KindComma,
	'.': syntax.KindDot,
	'=': syntax.KindAssign,
	'<': syntax.KindLT,
	'>': syntax.KindGT,
	'!': syntax.KindNot,
	'+': syntax.KindPlus,
	'-': syntax.KindMinus,
	'*': syntax.KindStar,
	'/': syntax.KindSlash,
	'%': syntax.KindPercent,
}

// scanOperator scans punctuation. Anything else becomes a single-rune
// BadToken, which the parser skips.
func (l *Lexer) scanOperator(start int) Token {
	if l.pos+2 <= len(l.input) {
		if kind, ok := twoCharOperators[l.input[l.pos:l.pos+2]]; ok {
			l.pos += 2
			return l.token(kind, start)
		}
	}
	if kind, ok := oneCharOperators[l.peek()]; ok {
		l.pos++
		return l.token(kind, start)
	}
	_, size := l.peekRune()
	l.pos += size
	return l.token(syntax.KindBadToken, start)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isJavaLetter(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r == '$'
}

func isJavaLetterOrDigit(r rune) bool {
	return isJavaLetter(r) || unicode.IsDigit(r)
}
