package formula

import (
	"fmt"
	"strconv"

	"github.com/berejant/sheetengine/errs"
)

// SyntaxError is raised whenever a formula, cell reference, or printed AST
// fails to round-trip through this package; it matches the SYNTAX code in
// spec.md §7, and is the same sentinel coord uses so errors.Is classifies
// failures uniformly across both packages.
var SyntaxError = errs.Syntax

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || c == '$'
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

// Lexer turns a formula string into a sequence of Tokens ending in a
// synthetic KindEnd token. Whitespace between tokens is skipped; whitespace
// inside a number or an identifier/cell-reference lexeme is never produced,
// since the character classes that make up those lexemes do not include it.
type Lexer struct {
	src []byte
	pos int
}

// NewLexer prepares a Lexer over formula.
func NewLexer(formula string) *Lexer {
	return &Lexer{src: []byte(formula)}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) skipSpace() {
	for l.pos < len(l.src) && (l.src[l.pos] == ' ' || l.src[l.pos] == '\t') {
		l.pos++
	}
}

// Next returns the next token, advancing the lexer. Once KindEnd has been
// returned it is returned forever after.
func (l *Lexer) Next() (Token, error) {
	l.skipSpace()

	if l.pos >= len(l.src) {
		return Token{Kind: KindEnd}, nil
	}

	c := l.src[l.pos]

	switch c {
	case '+':
		l.pos++
		return Token{Kind: KindPlus, Lexeme: "+"}, nil
	case '-':
		l.pos++
		return Token{Kind: KindMinus, Lexeme: "-"}, nil
	case '*':
		l.pos++
		return Token{Kind: KindStar, Lexeme: "*"}, nil
	case '/':
		l.pos++
		return Token{Kind: KindSlash, Lexeme: "/"}, nil
	case '(':
		l.pos++
		return Token{Kind: KindLParen, Lexeme: "("}, nil
	case ')':
		l.pos++
		return Token{Kind: KindRParen, Lexeme: ")"}, nil
	case ',':
		l.pos++
		return Token{Kind: KindComma, Lexeme: ","}, nil
	}

	if isDigit(c) {
		return l.lexNumber()
	}

	if isIdentStart(c) {
		return l.lexIdent()
	}

	return Token{}, fmt.Errorf("unexpected character %q: %w", c, SyntaxError)
}

// lexNumber matches /\d+(\.\d+)?([eE][-+]?\d+)?/.
func (l *Lexer) lexNumber() (Token, error) {
	start := l.pos
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}

	if l.pos < len(l.src) && l.src[l.pos] == '.' && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1]) {
		l.pos++
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
	}

	if l.pos < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
		save := l.pos
		l.pos++
		if l.pos < len(l.src) && (l.src[l.pos] == '+' || l.src[l.pos] == '-') {
			l.pos++
		}
		if l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
				l.pos++
			}
		} else {
			l.pos = save
		}
	}

	lexeme := string(l.src[start:l.pos])
	value, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		return Token{}, fmt.Errorf("number %q: %w", lexeme, SyntaxError)
	}

	return Token{Kind: KindNum, Lexeme: lexeme, NumValue: value}, nil
}

// lexIdent matches /[A-Za-z_$][A-Za-z0-9_$]*/, which also covers the
// $?LETTER$?DIGITS shape of a cell reference.
func (l *Lexer) lexIdent() (Token, error) {
	start := l.pos
	l.pos++
	for l.pos < len(l.src) && isIdentCont(l.src[l.pos]) {
		l.pos++
	}
	return Token{Kind: KindIdent, Lexeme: string(l.src[start:l.pos])}, nil
}
