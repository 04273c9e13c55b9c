package symbolic

import (
	"math/big"
	"strings"
)

// Parse parses plain expression text into an expression tree. The tree is
// structure-preserving: no arithmetic simplification is applied, so
// Parse("a*a").String() is "a*a", not "a^2". Call Simplify on the result to
// normalize it.
//
// Grammar (precedence climbing, ^ right-associative and strongest, implicit
// multiplication at the same level as *):
//
//	Expr    = Term { ("+" | "-") Term }
//	Term    = Factor { ("*" | "/" | "×" | "÷") Factor | Factor }
//	Factor  = Unary { "^" Factor }
//	Unary   = ("-" | "+") Unary | Primary
//	Primary = number | ident | ident "(" Args ")" | "(" Expr ")"
func Parse(text string) (Expr, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &ParseError{Col: 1, Msg: "empty expression"}
	}
	p := &parser{lex: newLexer(text)}
	e, err := p.parseExpr(precAdd)
	if err != nil {
		return nil, err
	}
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.kind != tokenEOF {
		return nil, &ParseError{Col: tok.col, Msg: "unexpected " + describeToken(tok)}
	}
	return e, nil
}

const (
	precAdd = 1
	precMul = 2
	precPow = 3
)

type parser struct {
	lex    *lexer
	pushed *token
}

func (p *parser) peek() (token, error) {
	if p.pushed != nil {
		return *p.pushed, nil
	}
	tok, err := p.lex.next()
	if err != nil {
		return token{}, err
	}
	p.pushed = &tok
	return tok, nil
}

func (p *parser) take() (token, error) {
	if p.pushed != nil {
		tok := *p.pushed
		p.pushed = nil
		return tok, nil
	}
	return p.lex.next()
}

func (p *parser) parseExpr(minPrec int) (Expr, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokenOp:
			prec, ok := opPrec(tok.text)
			if !ok {
				return nil, &ParseError{Col: tok.col, Msg: "unexpected operator " + tok.text}
			}
			if prec < minPrec {
				return lhs, nil
			}
			p.pushed = nil
			// ^ is right-associative, the rest left.
			next := prec + 1
			if prec == precPow {
				next = precPow
			}
			rhs, err := p.parseExpr(next)
			if err != nil {
				return nil, err
			}
			lhs = combine(tok.text, lhs, rhs)
		case tokenNum, tokenIdent, tokenOpen:
			// Adjacency is multiplication: 2a, a(b+c), (a)(b).
			if precMul < minPrec {
				return lhs, nil
			}
			rhs, err := p.parseExpr(precMul + 1)
			if err != nil {
				return nil, err
			}
			lhs = rawMul(lhs, rhs)
		default:
			return lhs, nil
		}
	}
}

func opPrec(op string) (int, bool) {
	switch op {
	case "+", "-":
		return precAdd, true
	case "*", "/", "×", "÷":
		return precMul, true
	case "^":
		return precPow, true
	}
	return 0, false
}

func combine(op string, lhs, rhs Expr) Expr {
	switch op {
	case "+":
		return rawAdd(lhs, rhs)
	case "-":
		return rawAdd(lhs, rawNeg(rhs))
	case "*", "×":
		return rawMul(lhs, rhs)
	case "/", "÷":
		return rawDiv(lhs, rhs)
	}
	return &Pow{base: lhs, exp: rhs}
}

func (p *parser) parseUnary() (Expr, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.kind == tokenOp {
		switch tok.text {
		case "-":
			p.pushed = nil
			e, err := p.parseExpr(precMul)
			if err != nil {
				return nil, err
			}
			return rawNeg(e), nil
		case "+":
			p.pushed = nil
			return p.parseExpr(precMul)
		}
		return nil, &ParseError{Col: tok.col, Msg: "unexpected operator " + tok.text}
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	tok, err := p.take()
	if err != nil {
		return nil, err
	}
	switch tok.kind {
	case tokenNum:
		return parseNumber(tok.text, tok.col)
	case tokenIdent:
		return p.parseIdent(tok)
	case tokenOpen:
		e, err := p.parseExpr(precAdd)
		if err != nil {
			return nil, err
		}
		if err := p.expectClose(tok); err != nil {
			return nil, err
		}
		return e, nil
	case tokenEOF:
		return nil, &ParseError{Col: tok.col, Msg: "unexpected end of expression"}
	}
	return nil, &ParseError{Col: tok.col, Msg: "unexpected " + describeToken(tok)}
}

func (p *parser) parseIdent(tok token) (Expr, error) {
	switch tok.text {
	case "pi", "Pi", "π":
		return Pi, nil
	case "e", "E":
		return E, nil
	}
	if !KnownCall(tok.text) && tok.text != "root" {
		return Symbol(tok.text), nil
	}
	open, err := p.peek()
	if err != nil {
		return nil, err
	}
	if open.kind != tokenOpen {
		return nil, &ParseError{Col: open.col, Msg: tok.text + " requires parenthesized arguments"}
	}
	p.pushed = nil
	arg, err := p.parseExpr(precAdd)
	if err != nil {
		return nil, err
	}
	if tok.text == "root" {
		comma, err := p.take()
		if err != nil {
			return nil, err
		}
		if comma.kind != tokenComma {
			return nil, &ParseError{Col: comma.col, Msg: "root takes two arguments"}
		}
		n, err := p.parseExpr(precAdd)
		if err != nil {
			return nil, err
		}
		if err := p.expectClose(open); err != nil {
			return nil, err
		}
		return rawRoot(arg, n), nil
	}
	if err := p.expectClose(open); err != nil {
		return nil, err
	}
	switch tok.text {
	case "sqrt":
		return &Pow{base: arg, exp: Rat(1, 2)}, nil
	case "log":
		return &Call{name: "ln", arg: arg}, nil
	}
	return &Call{name: tok.text, arg: arg}, nil
}

// expectClose consumes the close bracket matching open.
func (p *parser) expectClose(open token) error {
	want := string(closeBrackets[strings.Index(openBrackets, open.text)])
	tok, err := p.take()
	if err != nil {
		return err
	}
	if tok.kind != tokenClose || tok.text != want {
		return &ParseError{Col: tok.col, Msg: "expected " + want + " to match " + open.text}
	}
	return nil
}

func describeToken(tok token) string {
	if tok.kind == tokenEOF {
		return "end of expression"
	}
	return "token " + tok.text
}

// parseNumber converts a numeric literal. Plain integers become exact
// rationals; anything with a decimal point or exponent is an inexact
// literal, displayed in its shortest form.
func parseNumber(text string, col int) (Expr, error) {
	if strings.ContainsAny(text, ".eE") {
		v, _, err := big.ParseFloat(text, 10, floatFoldPrec, big.ToNearestEven)
		if err != nil {
			return nil, &ParseError{Col: col, Msg: "malformed number " + text}
		}
		return NewFloat(v, 0), nil
	}
	r, ok := new(big.Rat).SetString(text)
	if !ok {
		return nil, &ParseError{Col: col, Msg: "malformed number " + text}
	}
	return numFromRat(r), nil
}

// Raw constructors build unevaluated nodes, flattening only same-kind
// children so that parsed trees render without redundant grouping.

func rawAdd(lhs, rhs Expr) Expr {
	terms := []Expr{}
	if a, ok := lhs.(*Add); ok {
		terms = append(terms, a.terms...)
	} else {
		terms = append(terms, lhs)
	}
	if a, ok := rhs.(*Add); ok {
		terms = append(terms, a.terms...)
	} else {
		terms = append(terms, rhs)
	}
	return &Add{terms: terms}
}

func rawMul(lhs, rhs Expr) Expr {
	factors := []Expr{}
	if m, ok := lhs.(*Mul); ok {
		factors = append(factors, m.factors...)
	} else {
		factors = append(factors, lhs)
	}
	if m, ok := rhs.(*Mul); ok {
		factors = append(factors, m.factors...)
	} else {
		factors = append(factors, rhs)
	}
	return &Mul{factors: factors}
}

func rawDiv(lhs, rhs Expr) Expr {
	return rawMul(lhs, &Pow{base: rhs, exp: Int(-1)})
}

func rawNeg(e Expr) Expr {
	if n, ok := e.(*Num); ok {
		return negNumber(n)
	}
	return rawMul(Int(-1), e)
}

func rawRoot(arg, n Expr) Expr {
	if num, ok := n.(*Num); ok && !num.isZero() {
		r := num.Rat()
		return &Pow{base: arg, exp: numFromRat(r.Inv(r))}
	}
	return &Pow{base: arg, exp: &Pow{base: n, exp: Int(-1)}}
}
