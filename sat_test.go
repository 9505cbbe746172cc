package relucore

import (
	"math/rand"
	"reflect"
	"testing"
	"testing/quick"
)

func TestDPLLUnitPropagation(t *testing.T) {
	cnf := newCNF()
	a := Literal{V: cnf.freshVar(), Pos: true}
	b := Literal{V: cnf.freshVar(), Pos: true}
	cnf.addClause(a)          // forces a = true
	cnf.addClause(a.Neg(), b) // a -> b, so b must become true too

	asn, sat := DPLL(cnf, nil)
	if !sat {
		t.Fatalf("expected SAT")
	}
	if !asn[a.V] || !asn[b.V] {
		t.Errorf("unit propagation should force both a and b true, got a=%v b=%v", asn[a.V], asn[b.V])
	}
}

func TestDPLLUnsat(t *testing.T) {
	cnf := newCNF()
	a := Literal{V: cnf.freshVar(), Pos: true}
	cnf.addClause(a)
	cnf.addClause(a.Neg())

	_, sat := DPLL(cnf, nil)
	if sat {
		t.Errorf("a and not-a should be UNSAT")
	}
}

func TestDPLLPureLiteral(t *testing.T) {
	cnf := newCNF()
	a := Literal{V: cnf.freshVar(), Pos: true}
	b := Literal{V: cnf.freshVar(), Pos: true}
	cnf.addClause(a, b)
	cnf.addClause(a, b.Neg())

	asn, sat := DPLL(cnf, nil)
	if !sat {
		t.Fatalf("expected SAT")
	}
	if !asn[a.V] {
		t.Errorf("a occurs only positively, pure-literal elimination should set it true")
	}
}

// --- P1: Tseitin round-trip, verified by brute force on <= 6 variables ---

// smallFormula is a bounded-depth propositional formula over a fixed
// pool of named variables, used only by the quick.Generator below so
// property testing stays within P1's <=6-variable brute-force budget.
type smallFormula struct {
	f     *Formula
	names []string
}

func genFormula(r *rand.Rand, depth int, names []string) *Formula {
	if depth <= 0 || r.Intn(3) == 0 {
		return Var(names[r.Intn(len(names))])
	}
	switch r.Intn(4) {
	case 0:
		return Not(genFormula(r, depth-1, names))
	case 1:
		return And(genFormula(r, depth-1, names), genFormula(r, depth-1, names))
	case 2:
		return Or(genFormula(r, depth-1, names), genFormula(r, depth-1, names))
	default:
		return Implies(genFormula(r, depth-1, names), genFormula(r, depth-1, names))
	}
}

func (smallFormula) Generate(r *rand.Rand, size int) reflect.Value {
	names := []string{"p", "q", "r", "s"}
	f := genFormula(r, 3, names)
	return reflect.ValueOf(smallFormula{f: f, names: names})
}

func evalFormula(f *Formula, asn map[string]bool) bool {
	switch f.Kind {
	case NodeVar:
		return asn[f.VarName]
	case NodeNot:
		return !evalFormula(f.Children[0], asn)
	case NodeAnd:
		return evalFormula(f.Children[0], asn) && evalFormula(f.Children[1], asn)
	case NodeOr:
		return evalFormula(f.Children[0], asn) || evalFormula(f.Children[1], asn)
	case NodeImplies:
		return !evalFormula(f.Children[0], asn) || evalFormula(f.Children[1], asn)
	case NodeIff:
		return evalFormula(f.Children[0], asn) == evalFormula(f.Children[1], asn)
	default:
		panic("evalFormula: unexpected node kind")
	}
}

func bruteForceSAT(f *Formula, names []string) bool {
	n := len(names)
	for mask := 0; mask < (1 << n); mask++ {
		asn := make(map[string]bool, n)
		for i, name := range names {
			asn[name] = (mask>>i)&1 == 1
		}
		if evalFormula(f, asn) {
			return true
		}
	}
	return false
}

func TestTseitinRoundTripProperty(t *testing.T) {
	check := func(sf smallFormula) bool {
		want := bruteForceSAT(sf.f, sf.names)
		cnf, _ := Tseitin(sf.f)
		_, got := DPLL(cnf, nil)
		return want == got
	}
	if err := quick.Check(check, &quick.Config{MaxCount: 200}); err != nil {
		t.Errorf("Tseitin round-trip property failed: %v", err)
	}
}
