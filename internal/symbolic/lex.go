package symbolic

import (
	"strings"
	"unicode"
)

type tokenKind int8

const (
	tokenEOF tokenKind = iota
	tokenNum
	tokenIdent
	tokenOp
	tokenOpen
	tokenClose
	tokenComma
)

type token struct {
	kind tokenKind
	text string
	// col is the 1-based rune column of the token start.
	col int
}

// operators recognized by the lexer. × and ÷ are accepted as synonyms for
// * and / so pasted typeset text parses.
const operators = "+-*/^×÷"

const (
	openBrackets  = "([{"
	closeBrackets = ")]}"
)

type lexer struct {
	src []rune
	pos int
}

func newLexer(text string) *lexer {
	return &lexer{src: []rune(text)}
}

func (l *lexer) errf(col int, msg string) error {
	return &ParseError{Col: col, Msg: msg}
}

// next scans the next token. Scanning past the end keeps returning EOF.
func (l *lexer) next() (token, error) {
	for l.pos < len(l.src) && unicode.IsSpace(l.src[l.pos]) {
		l.pos++
	}
	if l.pos >= len(l.src) {
		return token{kind: tokenEOF, col: l.pos + 1}, nil
	}
	start := l.pos
	r := l.src[l.pos]
	switch {
	case r >= '0' && r <= '9' || r == '.':
		return l.scanNum()
	case r == '_' || unicode.IsLetter(r):
		return l.scanIdent()
	case r == ',':
		l.pos++
		return token{kind: tokenComma, text: ",", col: start + 1}, nil
	case strings.ContainsRune(operators, r):
		l.pos++
		return token{kind: tokenOp, text: string(r), col: start + 1}, nil
	case strings.ContainsRune(openBrackets, r):
		l.pos++
		return token{kind: tokenOpen, text: string(r), col: start + 1}, nil
	case strings.ContainsRune(closeBrackets, r):
		l.pos++
		return token{kind: tokenClose, text: string(r), col: start + 1}, nil
	}
	return token{}, l.errf(start+1, "unexpected character "+string(r))
}

func (l *lexer) scanNum() (token, error) {
	start := l.pos
	dot, exp := false, false
	digits := 0
	for l.pos < len(l.src) {
		r := l.src[l.pos]
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.':
			if dot || exp {
				return token{}, l.errf(l.pos+1, "malformed number")
			}
			dot = true
		case r == 'e' || r == 'E':
			if exp || digits == 0 {
				// An e after digits starts an exponent; a bare e is
				// an identifier and handled elsewhere.
				goto done
			}
			// Only treat as an exponent when followed by a digit or
			// a signed digit.
			if !l.expTail() {
				goto done
			}
			exp = true
			l.pos++ // the sign or first exponent digit
		case r == '+' || r == '-':
			goto done
		default:
			goto done
		}
		l.pos++
	}
done:
	if digits == 0 {
		return token{}, l.errf(start+1, "malformed number")
	}
	return token{kind: tokenNum, text: string(l.src[start:l.pos]), col: start + 1}, nil
}

// expTail reports whether the rune after the current e/E continues a
// floating-point exponent.
func (l *lexer) expTail() bool {
	i := l.pos + 1
	if i < len(l.src) && (l.src[i] == '+' || l.src[i] == '-') {
		i++
		// The sign is consumed by the caller only when digits follow.
		if i < len(l.src) && l.src[i] >= '0' && l.src[i] <= '9' {
			return true
		}
		return false
	}
	return i < len(l.src) && l.src[i] >= '0' && l.src[i] <= '9'
}

func (l *lexer) scanIdent() (token, error) {
	start := l.pos
	for l.pos < len(l.src) {
		r := l.src[l.pos]
		if r == '_' || r == '\'' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			l.pos++
			continue
		}
		break
	}
	return token{kind: tokenIdent, text: string(l.src[start:l.pos]), col: start + 1}, nil
}
