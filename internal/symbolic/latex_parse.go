package symbolic

import (
	"strings"
	"unicode"
)

// ParseLaTeX parses typeset math markup into an expression tree. It accepts
// the grammar produced by the LaTeX renderer: \frac, \sqrt with an optional
// index, \cdot, brace-grouped exponents, \left(...\right) and bare
// parentheses, \left|...\right| absolute values, function commands such as
// \sin, and \operatorname{sign}, plus the plain operators + - * / ^ and
// implicit multiplication. Like Parse, the result is structure-preserving.
func ParseLaTeX(text string) (Expr, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &ParseError{Col: 1, Msg: "empty expression"}
	}
	p := &latexParser{lex: &latexLexer{src: []rune(text)}}
	e, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.kind != ltEOF {
		return nil, &ParseError{Col: tok.col, Msg: "unexpected " + tok.text}
	}
	return e, nil
}

type latexTokenKind int8

const (
	ltEOF latexTokenKind = iota
	ltNum
	ltIdent
	ltCmd // \name
	ltOp  // + - * / ^
	ltOpenBrace
	ltCloseBrace
	ltOpenParen
	ltCloseParen
	ltOpenSquare
	ltCloseSquare
	ltPipe
)

type latexToken struct {
	kind latexTokenKind
	text string
	col  int
}

type latexLexer struct {
	src []rune
	pos int
}

func (l *latexLexer) next() (latexToken, error) {
	for l.pos < len(l.src) && unicode.IsSpace(l.src[l.pos]) {
		l.pos++
	}
	if l.pos >= len(l.src) {
		return latexToken{kind: ltEOF, text: "end of markup", col: l.pos + 1}, nil
	}
	start := l.pos
	r := l.src[l.pos]
	switch {
	case r == '\\':
		l.pos++
		if l.pos < len(l.src) && !unicode.IsLetter(l.src[l.pos]) {
			// Escaped single character, e.g. \{.
			l.pos++
			return latexToken{kind: ltCmd, text: string(l.src[start+1 : l.pos]), col: start + 1}, nil
		}
		for l.pos < len(l.src) && unicode.IsLetter(l.src[l.pos]) {
			l.pos++
		}
		if l.pos == start+1 {
			return latexToken{}, &ParseError{Col: start + 1, Msg: "dangling backslash"}
		}
		return latexToken{kind: ltCmd, text: string(l.src[start+1 : l.pos]), col: start + 1}, nil
	case r >= '0' && r <= '9' || r == '.':
		dot := false
		for l.pos < len(l.src) {
			c := l.src[l.pos]
			if c >= '0' && c <= '9' {
				l.pos++
				continue
			}
			if c == '.' && !dot {
				dot = true
				l.pos++
				continue
			}
			break
		}
		return latexToken{kind: ltNum, text: string(l.src[start:l.pos]), col: start + 1}, nil
	case r == '_' || unicode.IsLetter(r):
		for l.pos < len(l.src) {
			c := l.src[l.pos]
			if c == '_' || c == '\'' || unicode.IsLetter(c) || unicode.IsDigit(c) {
				l.pos++
				continue
			}
			break
		}
		return latexToken{kind: ltIdent, text: string(l.src[start:l.pos]), col: start + 1}, nil
	}
	l.pos++
	switch r {
	case '+', '-', '*', '/', '^':
		return latexToken{kind: ltOp, text: string(r), col: start + 1}, nil
	case '{':
		return latexToken{kind: ltOpenBrace, text: "{", col: start + 1}, nil
	case '}':
		return latexToken{kind: ltCloseBrace, text: "}", col: start + 1}, nil
	case '(':
		return latexToken{kind: ltOpenParen, text: "(", col: start + 1}, nil
	case ')':
		return latexToken{kind: ltCloseParen, text: ")", col: start + 1}, nil
	case '[':
		return latexToken{kind: ltOpenSquare, text: "[", col: start + 1}, nil
	case ']':
		return latexToken{kind: ltCloseSquare, text: "]", col: start + 1}, nil
	case '|':
		return latexToken{kind: ltPipe, text: "|", col: start + 1}, nil
	}
	return latexToken{}, &ParseError{Col: start + 1, Msg: "unexpected character " + string(r)}
}

type latexParser struct {
	lex    *latexLexer
	pushed *latexToken
}

func (p *latexParser) peek() (latexToken, error) {
	if p.pushed != nil {
		return *p.pushed, nil
	}
	tok, err := p.lex.next()
	if err != nil {
		return latexToken{}, err
	}
	p.pushed = &tok
	return tok, nil
}

func (p *latexParser) take() (latexToken, error) {
	if p.pushed != nil {
		tok := *p.pushed
		p.pushed = nil
		return tok, nil
	}
	return p.lex.next()
}

func (p *latexParser) parseSum() (Expr, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	neg := false
	if tok.kind == ltOp && (tok.text == "-" || tok.text == "+") {
		p.pushed = nil
		neg = tok.text == "-"
	}
	lhs, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	if neg {
		lhs = rawNeg(lhs)
	}
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.kind != ltOp || (tok.text != "+" && tok.text != "-") {
			return lhs, nil
		}
		p.pushed = nil
		rhs, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		if tok.text == "-" {
			rhs = rawNeg(rhs)
		}
		lhs = rawAdd(lhs, rhs)
	}
}

func (p *latexParser) parseProduct() (Expr, error) {
	lhs, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		switch {
		case tok.kind == ltOp && (tok.text == "*" || tok.text == "/"):
			p.pushed = nil
			rhs, err := p.parsePower()
			if err != nil {
				return nil, err
			}
			if tok.text == "/" {
				lhs = rawDiv(lhs, rhs)
			} else {
				lhs = rawMul(lhs, rhs)
			}
		case tok.kind == ltCmd && tok.text == "cdot":
			p.pushed = nil
			rhs, err := p.parsePower()
			if err != nil {
				return nil, err
			}
			lhs = rawMul(lhs, rhs)
		case p.startsOperand(tok):
			rhs, err := p.parsePower()
			if err != nil {
				return nil, err
			}
			lhs = rawMul(lhs, rhs)
		default:
			return lhs, nil
		}
	}
}

// startsOperand reports whether tok can begin a factor, which makes
// adjacency an implicit multiplication.
func (p *latexParser) startsOperand(tok latexToken) bool {
	switch tok.kind {
	case ltNum, ltIdent, ltOpenParen:
		return true
	case ltCmd:
		switch tok.text {
		case "frac", "sqrt", "pi", "left", "operatorname":
			return true
		}
		_, ok := latexCalls[tok.text]
		return ok
	}
	return false
}

func (p *latexParser) parsePower() (Expr, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.kind != ltOp || tok.text != "^" {
		return base, nil
	}
	p.pushed = nil
	exp, err := p.parseExponent()
	if err != nil {
		return nil, err
	}
	return &Pow{base: base, exp: exp}, nil
}

// parseExponent accepts either a brace group or a single token, mirroring
// how exponents are written: x^{a+b} or x^2.
func (p *latexParser) parseExponent() (Expr, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.kind == ltOpenBrace {
		p.pushed = nil
		e, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		return e, p.expect(ltCloseBrace, "}")
	}
	return p.parsePrimary()
}

var latexCalls = map[string]string{
	"sin": "sin", "cos": "cos", "tan": "tan",
	"arcsin": "asin", "arccos": "acos", "arctan": "atan",
	"sinh": "sinh", "cosh": "cosh", "tanh": "tanh",
	"ln": "ln", "log": "ln", "exp": "exp",
}

func (p *latexParser) parsePrimary() (Expr, error) {
	tok, err := p.take()
	if err != nil {
		return nil, err
	}
	switch tok.kind {
	case ltNum:
		return parseNumber(tok.text, tok.col)
	case ltIdent:
		switch tok.text {
		case "e", "E":
			return E, nil
		case "pi", "π":
			return Pi, nil
		}
		return Symbol(tok.text), nil
	case ltOpenParen:
		e, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		return e, p.expect(ltCloseParen, ")")
	case ltOpenBrace:
		e, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		return e, p.expect(ltCloseBrace, "}")
	case ltCmd:
		return p.parseCommand(tok)
	case ltEOF:
		return nil, &ParseError{Col: tok.col, Msg: "unexpected end of markup"}
	}
	return nil, &ParseError{Col: tok.col, Msg: "unexpected " + tok.text}
}

func (p *latexParser) parseCommand(tok latexToken) (Expr, error) {
	switch tok.text {
	case "pi":
		return Pi, nil
	case "frac":
		num, err := p.braceGroup()
		if err != nil {
			return nil, err
		}
		den, err := p.braceGroup()
		if err != nil {
			return nil, err
		}
		return rawDiv(num, den), nil
	case "sqrt":
		next, err := p.peek()
		if err != nil {
			return nil, err
		}
		var index Expr
		if next.kind == ltOpenSquare {
			p.pushed = nil
			index, err = p.parseSum()
			if err != nil {
				return nil, err
			}
			if err := p.expect(ltCloseSquare, "]"); err != nil {
				return nil, err
			}
		}
		arg, err := p.braceGroup()
		if err != nil {
			return nil, err
		}
		if index == nil {
			return &Pow{base: arg, exp: Rat(1, 2)}, nil
		}
		return rawRoot(arg, index), nil
	case "left":
		return p.parseDelimited()
	case "operatorname":
		name, err := p.braceGroup()
		if err != nil {
			return nil, err
		}
		sym, ok := name.(*Sym)
		if !ok || !KnownCall(sym.name) {
			return nil, &ParseError{Col: tok.col, Msg: "unknown operator"}
		}
		arg, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return &Call{name: sym.name, arg: arg}, nil
	}
	if name, ok := latexCalls[tok.text]; ok {
		arg, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return &Call{name: name, arg: arg}, nil
	}
	return nil, &ParseError{Col: tok.col, Msg: "unknown command \\" + tok.text}
}

// parseDelimited handles \left( expr \right) and \left| expr \right|.
func (p *latexParser) parseDelimited() (Expr, error) {
	open, err := p.take()
	if err != nil {
		return nil, err
	}
	switch open.kind {
	case ltOpenParen:
		e, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if err := p.expectRight(ltCloseParen, ")"); err != nil {
			return nil, err
		}
		return e, nil
	case ltPipe:
		e, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if err := p.expectRight(ltPipe, "|"); err != nil {
			return nil, err
		}
		return &Call{name: "abs", arg: e}, nil
	case ltCmd:
		var name, closer string
		switch open.text {
		case "lfloor":
			name, closer = "floor", "rfloor"
		case "lceil":
			name, closer = "ceil", "rceil"
		default:
			return nil, &ParseError{Col: open.col, Msg: "unsupported delimiter after \\left"}
		}
		e, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		tok, err := p.take()
		if err != nil {
			return nil, err
		}
		if tok.kind != ltCmd || tok.text != "right" {
			return nil, &ParseError{Col: tok.col, Msg: "expected \\right\\" + closer}
		}
		tok, err = p.take()
		if err != nil {
			return nil, err
		}
		if tok.kind != ltCmd || tok.text != closer {
			return nil, &ParseError{Col: tok.col, Msg: "expected \\" + closer}
		}
		return &Call{name: name, arg: e}, nil
	}
	return nil, &ParseError{Col: open.col, Msg: "unsupported delimiter after \\left"}
}

func (p *latexParser) braceGroup() (Expr, error) {
	if err := p.expect(ltOpenBrace, "{"); err != nil {
		return nil, err
	}
	e, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	return e, p.expect(ltCloseBrace, "}")
}

func (p *latexParser) expect(kind latexTokenKind, what string) error {
	tok, err := p.take()
	if err != nil {
		return err
	}
	if tok.kind != kind {
		return &ParseError{Col: tok.col, Msg: "expected " + what}
	}
	return nil
}

// expectRight consumes \right followed by the given delimiter.
func (p *latexParser) expectRight(kind latexTokenKind, what string) error {
	tok, err := p.take()
	if err != nil {
		return err
	}
	if tok.kind != ltCmd || tok.text != "right" {
		return &ParseError{Col: tok.col, Msg: "expected \\right" + what}
	}
	return p.expect(kind, what)
}
