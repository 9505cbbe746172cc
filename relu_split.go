package relucore

// SplitNegativeRelu rewrites every Not(Relu(x,y)) occurrence in f into
// an equivalent formula built only from Ineq atoms and propositional
// connectives, so the rest of the pipeline (Tseitin, ReLUplex) never
// has to reason about a negated rectifier directly — the
// implementation note in §4.5 permits this as an alternative to
// handling ¬Relu inside ReLUplex itself.
//
// y = max(0, x) fails in exactly two disjoint ways: either x >= 0 and
// y != x, or x < 0 and y != 0. Each "!=" is itself split into the two
// strict directions, giving four mutually exclusive witnesses.
func SplitNegativeRelu(f *Formula, atoms *AtomTable) *Formula {
	switch f.Kind {
	case NodeNot:
		inner := f.Children[0]
		if inner.Kind == NodeAtom && atoms.IsRelu(inner.Atom) {
			return negatedReluExpansion(atoms, atoms.Relu_(inner.Atom))
		}
		return Not(SplitNegativeRelu(inner, atoms))
	case NodeAnd:
		return And(SplitNegativeRelu(f.Children[0], atoms), SplitNegativeRelu(f.Children[1], atoms))
	case NodeOr:
		return Or(SplitNegativeRelu(f.Children[0], atoms), SplitNegativeRelu(f.Children[1], atoms))
	case NodeImplies:
		return Implies(SplitNegativeRelu(f.Children[0], atoms), SplitNegativeRelu(f.Children[1], atoms))
	case NodeIff:
		return Iff(SplitNegativeRelu(f.Children[0], atoms), SplitNegativeRelu(f.Children[1], atoms))
	default:
		return f
	}
}

func negatedReluExpansion(atoms *AtomTable, r ReluAtom) *Formula {
	one := RatFromInt64(1)
	negOne := RatFromInt64(-1)

	xGeZero := atoms.Ineq([]Term{{Var: r.X, Coeff: one}}, Zero())
	xLtZero := atoms.Ineq([]Term{{Var: r.X, Coeff: negOne}}, Epsilon) // -x >= eps, i.e. x <= -eps

	yGtX := atoms.Ineq([]Term{{Var: r.Y, Coeff: one}, {Var: r.X, Coeff: negOne}}, Epsilon)
	yLtX := atoms.Ineq([]Term{{Var: r.X, Coeff: one}, {Var: r.Y, Coeff: negOne}}, Epsilon)
	yGtZero := atoms.Ineq([]Term{{Var: r.Y, Coeff: one}}, Epsilon)
	yLtZero := atoms.Ineq([]Term{{Var: r.Y, Coeff: negOne}}, Epsilon)

	activeBranch := And(AtomLeaf(xGeZero), Or(AtomLeaf(yGtX), AtomLeaf(yLtX)))
	inactiveBranch := And(AtomLeaf(xLtZero), Or(AtomLeaf(yGtZero), AtomLeaf(yLtZero)))
	return Or(activeBranch, inactiveBranch)
}
