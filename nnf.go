package relucore

// ToNNF eliminates Implies/Iff and pushes every Not down to a leaf
// (Var or atom), per §4.1(a). It mirrors elim_impl/to_nnf from the
// original DPLL prototype, translated to a switch over NodeKind
// instead of isinstance checks.
func ToNNF(f *Formula) *Formula {
	return nnf(elimImplIff(f))
}

func elimImplIff(f *Formula) *Formula {
	switch f.Kind {
	case NodeVar, NodeAtom:
		return f
	case NodeNot:
		return Not(elimImplIff(f.Children[0]))
	case NodeAnd:
		return And(elimImplIff(f.Children[0]), elimImplIff(f.Children[1]))
	case NodeOr:
		return Or(elimImplIff(f.Children[0]), elimImplIff(f.Children[1]))
	case NodeImplies:
		p, q := elimImplIff(f.Children[0]), elimImplIff(f.Children[1])
		return Or(Not(p), q)
	case NodeIff:
		p, q := elimImplIff(f.Children[0]), elimImplIff(f.Children[1])
		return And(Or(Not(p), q), Or(Not(q), p))
	default:
		invariantBroken("ToNNF: unknown node kind %d", f.Kind)
		return nil
	}
}

// nnf assumes Implies/Iff are already gone and pushes Not to the
// leaves via De Morgan and double-negation elimination.
func nnf(f *Formula) *Formula {
	switch f.Kind {
	case NodeVar, NodeAtom:
		return f
	case NodeAnd:
		return And(nnf(f.Children[0]), nnf(f.Children[1]))
	case NodeOr:
		return Or(nnf(f.Children[0]), nnf(f.Children[1]))
	case NodeNot:
		inner := f.Children[0]
		switch inner.Kind {
		case NodeVar, NodeAtom:
			return f
		case NodeNot:
			return nnf(inner.Children[0])
		case NodeAnd:
			return nnf(Or(Not(inner.Children[0]), Not(inner.Children[1])))
		case NodeOr:
			return nnf(And(Not(inner.Children[0]), Not(inner.Children[1])))
		default:
			invariantBroken("nnf: Implies/Iff survived elimination")
			return nil
		}
	default:
		invariantBroken("nnf: unknown node kind %d", f.Kind)
		return nil
	}
}
