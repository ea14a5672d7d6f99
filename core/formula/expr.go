package formula

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"quote-engine/internal/errors"
)

// The calculated-formula grammar is deliberately tiny:
//
//	expr   = term { ("+" | "-") term }
//	term   = factor { ("*" | "/") factor }
//	factor = number | variable | "(" expr ")" | "-" factor
//
// No function calls, no attribute access, no strings. Anything outside this
// set is an EXPRESSION_ERROR; unparseable input is never defaulted to zero.

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokLParen
	tokRParen
	tokEOF
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func lex(input string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(input) {
		ch := rune(input[i])
		switch {
		case unicode.IsSpace(ch):
			i++
		case ch == '+':
			tokens = append(tokens, token{tokPlus, "+", i})
			i++
		case ch == '-':
			tokens = append(tokens, token{tokMinus, "-", i})
			i++
		case ch == '*':
			tokens = append(tokens, token{tokStar, "*", i})
			i++
		case ch == '/':
			tokens = append(tokens, token{tokSlash, "/", i})
			i++
		case ch == '(':
			tokens = append(tokens, token{tokLParen, "(", i})
			i++
		case ch == ')':
			tokens = append(tokens, token{tokRParen, ")", i})
			i++
		case unicode.IsDigit(ch) || ch == '.':
			start := i
			for i < len(input) && (unicode.IsDigit(rune(input[i])) || input[i] == '.') {
				i++
			}
			tokens = append(tokens, token{tokNumber, input[start:i], start})
		case unicode.IsLetter(ch) || ch == '_':
			start := i
			for i < len(input) && (unicode.IsLetter(rune(input[i])) || unicode.IsDigit(rune(input[i])) || input[i] == '_') {
				i++
			}
			tokens = append(tokens, token{tokIdent, input[start:i], start})
		default:
			return nil, errors.Expression("unsupported character in expression").
				WithContext("character", string(ch)).
				WithContext("position", i)
		}
	}
	tokens = append(tokens, token{tokEOF, "", len(input)})
	return tokens, nil
}

// exprParser is a recursive-descent parser over the restricted grammar
type exprParser struct {
	tokens []token
	pos    int
	vars   map[string]decimal.Decimal
}

// evaluateExpression parses and evaluates a restricted arithmetic expression.
// Variables absent from vars resolve to zero (the absent-parameter rule);
// grammar violations are errors, never zero.
func evaluateExpression(expression string, vars map[string]decimal.Decimal) (decimal.Decimal, error) {
	if strings.TrimSpace(expression) == "" {
		return decimal.Zero, errors.Expression("empty expression")
	}

	tokens, err := lex(expression)
	if err != nil {
		return decimal.Zero, err
	}

	p := &exprParser{tokens: tokens, vars: vars}
	result, err := p.parseExpr()
	if err != nil {
		return decimal.Zero, err
	}
	if p.peek().kind != tokEOF {
		return decimal.Zero, errors.Expression("unexpected trailing input in expression").
			WithContext("token", p.peek().text).
			WithContext("position", p.peek().pos)
	}
	return result, nil
}

func (p *exprParser) peek() token {
	return p.tokens[p.pos]
}

func (p *exprParser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *exprParser) parseExpr() (decimal.Decimal, error) {
	left, err := p.parseTerm()
	if err != nil {
		return decimal.Zero, err
	}
	for {
		switch p.peek().kind {
		case tokPlus:
			p.next()
			right, err := p.parseTerm()
			if err != nil {
				return decimal.Zero, err
			}
			left = left.Add(right)
		case tokMinus:
			p.next()
			right, err := p.parseTerm()
			if err != nil {
				return decimal.Zero, err
			}
			left = left.Sub(right)
		default:
			return left, nil
		}
	}
}

func (p *exprParser) parseTerm() (decimal.Decimal, error) {
	left, err := p.parseFactor()
	if err != nil {
		return decimal.Zero, err
	}
	for {
		switch p.peek().kind {
		case tokStar:
			p.next()
			right, err := p.parseFactor()
			if err != nil {
				return decimal.Zero, err
			}
			left = left.Mul(right)
		case tokSlash:
			p.next()
			right, err := p.parseFactor()
			if err != nil {
				return decimal.Zero, err
			}
			if right.IsZero() {
				return decimal.Zero, errors.Expression("division by zero in expression")
			}
			left = left.Div(right)
		default:
			return left, nil
		}
	}
}

func (p *exprParser) parseFactor() (decimal.Decimal, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		d, err := decimal.NewFromString(t.text)
		if err != nil {
			return decimal.Zero, errors.Expression("malformed numeric literal").
				WithContext("literal", t.text).
				WithContext("position", t.pos)
		}
		return d, nil

	case tokIdent:
		// A variable followed by "(" would be a function call; reject it
		if p.peek().kind == tokLParen {
			return decimal.Zero, errors.Expression("function calls are not permitted in expressions").
				WithContext("identifier", t.text).
				WithContext("position", t.pos)
		}
		if v, ok := p.vars[t.text]; ok {
			return v, nil
		}
		return decimal.Zero, nil

	case tokMinus:
		v, err := p.parseFactor()
		if err != nil {
			return decimal.Zero, err
		}
		return v.Neg(), nil

	case tokLParen:
		v, err := p.parseExpr()
		if err != nil {
			return decimal.Zero, err
		}
		if p.next().kind != tokRParen {
			return decimal.Zero, errors.Expression("unbalanced parentheses in expression")
		}
		return v, nil

	default:
		return decimal.Zero, errors.Expression("unexpected token in expression").
			WithContext("token", t.text).
			WithContext("position", t.pos)
	}
}
