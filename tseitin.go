package relucore

// Tseitin converts an AST into an equisatisfiable CNF, per §4.1. State
// (the fresh-auxiliary counter, hidden inside CNF.freshVar) is threaded
// through the walk via the *CNF passed to every call rather than held
// in a package-level variable, per the "no process-wide mutable state"
// design note in §9.
//
// Implies/Iff are eliminated first; a Not over a connective is not
// pushed inward but encoded as the negation of that connective's
// auxiliary literal, so `not(p and q)` yields an auxiliary for
// `p and q` and a negative root unit.
//
// The walk is post-order: a connective's clauses are appended only
// after both children have been fully encoded, so clause order is
// deterministic and reproducible (scenario 5 of §8).
func Tseitin(f *Formula) (*CNF, Literal) {
	cnf := newCNF()
	root := tseitinEncode(cnf, elimImplIff(f))
	cnf.addClause(root)
	return cnf, root
}

func tseitinEncode(cnf *CNF, f *Formula) Literal {
	switch f.Kind {
	case NodeVar:
		return Literal{V: cnf.varForName(f.VarName), Pos: true}
	case NodeAtom:
		return Literal{V: cnf.varForAtom(f.Atom), Pos: true}
	case NodeNot:
		inner := f.Children[0]
		switch inner.Kind {
		case NodeVar:
			return Literal{V: cnf.varForName(inner.VarName), Pos: false}
		case NodeAtom:
			return Literal{V: cnf.varForAtom(inner.Atom), Pos: false}
		default:
			return tseitinEncode(cnf, inner).Neg()
		}
	case NodeAnd:
		a := tseitinEncode(cnf, f.Children[0])
		b := tseitinEncode(cnf, f.Children[1])
		t := Literal{V: cnf.freshVar(), Pos: true}
		addEquivAnd(cnf, t, a, b)
		return t
	case NodeOr:
		a := tseitinEncode(cnf, f.Children[0])
		b := tseitinEncode(cnf, f.Children[1])
		t := Literal{V: cnf.freshVar(), Pos: true}
		addEquivOr(cnf, t, a, b)
		return t
	default:
		invariantBroken("tseitinEncode: Implies/Iff survived elimination")
		return Literal{}
	}
}

// addEquivAnd emits the standard three-clause definitional equivalence
// t <-> (a and b): (¬t∨a), (¬t∨b), (t∨¬a∨¬b).
func addEquivAnd(cnf *CNF, t, a, b Literal) {
	cnf.addClause(t.Neg(), a)
	cnf.addClause(t.Neg(), b)
	cnf.addClause(t, a.Neg(), b.Neg())
}

// addEquivOr emits t <-> (a or b): (¬t∨a∨b), (t∨¬a), (t∨¬b).
func addEquivOr(cnf *CNF, t, a, b Literal) {
	cnf.addClause(t.Neg(), a, b)
	cnf.addClause(t, a.Neg())
	cnf.addClause(t, b.Neg())
}
