// Package parse turns the atom-expression grammar's text form into a
// relucore.Formula, interning every atom against a caller-supplied
// relucore.AtomTable.
package parse

import (
	"fmt"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// lex tokenizes the grammar's surface syntax: identifiers (keywords
// `and`/`or`/`not`/`ineq`/`relu` and variable names alike), decimal
// numbers (including scientific notation), parens and commas.
func lex(src string) ([]token, error) {
	var toks []token
	i := 0
	n := len(src)
	for i < n {
		c := src[i]
		switch {
		case unicode.IsSpace(rune(c)):
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, pos: i})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, pos: i})
			i++
		case c == ',':
			toks = append(toks, token{kind: tokComma, pos: i})
			i++
		case c == '-' || c == '+' || c == '.' || unicode.IsDigit(rune(c)):
			start := i
			i++
			for i < n && isNumberByte(src[i]) {
				i++
			}
			toks = append(toks, token{kind: tokNumber, text: src[start:i], pos: start})
		case isIdentStart(c):
			start := i
			i++
			for i < n && isIdentByte(src[i]) {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: src[start:i], pos: start})
		default:
			return nil, fmt.Errorf("parse: unexpected character %q at offset %d", c, i)
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: n})
	return toks, nil
}

func isNumberByte(c byte) bool {
	return unicode.IsDigit(rune(c)) || c == '.' || c == 'e' || c == 'E' || c == '-' || c == '+'
}

func isIdentStart(c byte) bool {
	return unicode.IsLetter(rune(c)) || c == '_'
}

func isIdentByte(c byte) bool {
	return unicode.IsLetter(rune(c)) || unicode.IsDigit(rune(c)) || c == '_'
}

func isKeyword(s string) bool {
	switch strings.ToLower(s) {
	case "and", "or", "not", "ineq", "relu":
		return true
	}
	return false
}
