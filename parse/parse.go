package parse

import (
	"fmt"

	relucore "github.com/songheon2/Ai-verification"
)

// Parse parses one formula in the atom-expression grammar, interning
// every atom it encounters against atoms. The grammar is:
//
//	formula := atom | 'not' formula | formula 'and' formula
//	         | formula 'or' formula | '(' formula ')'
//	atom     := 'ineq' '(' terms ',' number ')' | 'relu' '(' var ',' var ')'
//	terms    := (number ',' var) { ',' number ',' var }
//
// 'and'/'or' are left-associative with 'and' binding tighter than
// 'or', and 'not' binds tighter than both — the usual propositional
// precedence, applied the way a hand-written recursive-descent parser
// naturally encodes it: one parse function per precedence level.
func Parse(src string, atoms *relucore.AtomTable) (*relucore.Formula, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, atoms: atoms}
	f, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.cur().kind != tokEOF {
		return nil, p.errorf("unexpected trailing input")
	}
	return f, nil
}

type parser struct {
	toks []token
	pos  int

	atoms *relucore.AtomTable
}

func (p *parser) cur() token  { return p.toks[p.pos] }
func (p *parser) advance()    { p.pos++ }

func (p *parser) errorf(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("parse: %s (at offset %d)", msg, p.cur().pos)
}

func (p *parser) expectIdent(word string) error {
	t := p.cur()
	if t.kind != tokIdent || t.text != word {
		return p.errorf("expected %q", word)
	}
	p.advance()
	return nil
}

func (p *parser) expect(kind tokenKind, what string) error {
	if p.cur().kind != kind {
		return p.errorf("expected %s", what)
	}
	p.advance()
	return nil
}

func (p *parser) parseOr() (*relucore.Formula, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.cur().kind == tokIdent && p.cur().text == "or" {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = relucore.Or(left, right)
	}
	return left, nil
}

func (p *parser) parseAnd() (*relucore.Formula, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.cur().kind == tokIdent && p.cur().text == "and" {
		p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = relucore.And(left, right)
	}
	return left, nil
}

func (p *parser) parseNot() (*relucore.Formula, error) {
	if p.cur().kind == tokIdent && p.cur().text == "not" {
		p.advance()
		inner, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return relucore.Not(inner), nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (*relucore.Formula, error) {
	t := p.cur()
	switch {
	case t.kind == tokLParen:
		p.advance()
		f, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return f, nil
	case t.kind == tokIdent && t.text == "ineq":
		return p.parseIneq()
	case t.kind == tokIdent && t.text == "relu":
		return p.parseRelu()
	default:
		return nil, p.errorf("expected an atom, 'not', or '('")
	}
}

func (p *parser) parseIneq() (*relucore.Formula, error) {
	if err := p.expectIdent("ineq"); err != nil {
		return nil, err
	}
	if err := p.expect(tokLParen, "'('"); err != nil {
		return nil, err
	}

	var terms []relucore.Term
	for {
		coeff, err := p.parseNumber()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokComma, "','"); err != nil {
			return nil, err
		}
		v, err := p.parseVar()
		if err != nil {
			return nil, err
		}
		terms = append(terms, relucore.Term{Var: v, Coeff: coeff})

		if p.cur().kind != tokComma {
			return nil, p.errorf("expected ',' between terms or before the bound")
		}
		p.advance()
		if p.cur().kind == tokNumber && p.peekIsBoundClose() {
			bound, err := p.parseNumber()
			if err != nil {
				return nil, err
			}
			if err := p.expect(tokRParen, "')'"); err != nil {
				return nil, err
			}
			id := p.atoms.Ineq(terms, bound)
			return relucore.AtomLeaf(id), nil
		}
	}
}

// peekIsBoundClose reports whether the number at the current position
// is immediately followed by ')', i.e. it is the trailing bound rather
// than the start of another (coeff, var) pair.
func (p *parser) peekIsBoundClose() bool {
	return p.pos+1 < len(p.toks) && p.toks[p.pos+1].kind == tokRParen
}

func (p *parser) parseRelu() (*relucore.Formula, error) {
	if err := p.expectIdent("relu"); err != nil {
		return nil, err
	}
	if err := p.expect(tokLParen, "'('"); err != nil {
		return nil, err
	}
	x, err := p.parseVar()
	if err != nil {
		return nil, err
	}
	if err := p.expect(tokComma, "','"); err != nil {
		return nil, err
	}
	y, err := p.parseVar()
	if err != nil {
		return nil, err
	}
	if err := p.expect(tokRParen, "')'"); err != nil {
		return nil, err
	}
	id := p.atoms.Relu(x, y)
	return relucore.AtomLeaf(id), nil
}

func (p *parser) parseVar() (relucore.VarID, error) {
	t := p.cur()
	if t.kind != tokIdent || isKeyword(t.text) {
		return 0, p.errorf("expected a variable name")
	}
	p.advance()
	return p.atoms.Var(t.text), nil
}

func (p *parser) parseNumber() (relucore.Rat, error) {
	t := p.cur()
	if t.kind != tokNumber {
		return relucore.Rat{}, p.errorf("expected a number")
	}
	p.advance()
	r, err := relucore.RatFromString(t.text)
	if err != nil {
		return relucore.Rat{}, p.errorf("malformed number %q", t.text)
	}
	return r, nil
}
