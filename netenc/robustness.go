package netenc

import (
	"strconv"

	relucore "github.com/songheon2/Ai-verification"
)

// LocalRobustnessQuery asks whether every point within an L-infinity
// ball of radius Epsilon around Center is classified the same as
// Center itself, per Robustness.py's make_precondition_linf_box /
// make_postcondition_same_class_by_logit / build_spec. Threshold is
// the logit cutoff between the two classes (0 in the original).
type LocalRobustnessQuery struct {
	Center    []float64
	Epsilon   float64
	Clamp01   bool
	Threshold float64
}

// BuildCounterexampleFormula returns the formula whose satisfying
// assignments are exactly the counterexamples to local robustness:
// a point x within Epsilon of Center that the network classifies
// differently from Center. SAT on this formula means "not robust";
// UNSAT means robust. This is Robustness.py's
// `AndProp(pre, AndProp(NN_prop, NotProp(post)))`, the negation of the
// implication spec so a direct SAT search finds the counterexample
// instead of needing a validity check.
func BuildCounterexampleFormula(net NetworkSpec, q LocalRobustnessQuery, atoms *relucore.AtomTable) *relucore.Formula {
	xNames, cNames := inputNames(net.InputSize)

	genX := &freshGen{prefix: "qx_"}
	genC := &freshGen{prefix: "qc_"}
	nnX, logitsX := Encode(net, xNames, atoms, genX)
	nnC, logitsC := Encode(net, cNames, atoms, genC)

	pre := precondition(atoms, xNames, q.Center, q.Epsilon, q.Clamp01)
	centerFix := fixCenterInputs(atoms, cNames, q.Center)
	post := samePostcondition(atoms, logitsX, logitsC, q.Threshold)

	return relucore.And(pre, relucore.And(centerFix, relucore.And(nnX, relucore.And(nnC, relucore.Not(post)))))
}

func inputNames(n int) (xNames, cNames []string) {
	xNames = make([]string, n)
	cNames = make([]string, n)
	for i := 0; i < n; i++ {
		xNames[i] = varName("x", i)
		cNames[i] = varName("c", i)
	}
	return
}

func varName(prefix string, i int) string {
	return prefix + strconv.Itoa(i)
}

// precondition builds ∧ᵢ (cᵢ-ε <= xᵢ <= cᵢ+ε), optionally clamped to
// [0,1], per make_precondition_linf_box.
func precondition(atoms *relucore.AtomTable, xNames []string, center []float64, eps float64, clamp01 bool) *relucore.Formula {
	var clauses []*relucore.Formula
	for i, name := range xNames {
		v := atoms.Var(name)
		lower := atoms.Ineq([]relucore.Term{{Var: v, Coeff: relucore.RatFromInt64(1)}}, relucore.RatFromFloat(center[i]-eps))
		upper := atoms.Ineq([]relucore.Term{{Var: v, Coeff: relucore.RatFromInt64(-1)}}, relucore.RatFromFloat(-(center[i] + eps)))
		clauses = append(clauses, relucore.AtomLeaf(lower), relucore.AtomLeaf(upper))
		if clamp01 {
			c0 := atoms.Ineq([]relucore.Term{{Var: v, Coeff: relucore.RatFromInt64(1)}}, relucore.Zero())
			c1 := atoms.Ineq([]relucore.Term{{Var: v, Coeff: relucore.RatFromInt64(-1)}}, relucore.RatFromInt64(-1))
			clauses = append(clauses, relucore.AtomLeaf(c0), relucore.AtomLeaf(c1))
		}
	}
	return relucore.AndAll(clauses)
}

// fixCenterInputs pins the c-path input variables to the exact center
// values, since the original prototype substitutes them as constants;
// relucore has no constant terms, so pinning is expressed as an
// equality constraint instead.
func fixCenterInputs(atoms *relucore.AtomTable, cNames []string, center []float64) *relucore.Formula {
	var clauses []*relucore.Formula
	for i, name := range cNames {
		v := atoms.Var(name)
		ge := atoms.Ineq([]relucore.Term{{Var: v, Coeff: relucore.RatFromInt64(1)}}, relucore.RatFromFloat(center[i]))
		le := atoms.Ineq([]relucore.Term{{Var: v, Coeff: relucore.RatFromInt64(-1)}}, relucore.RatFromFloat(-center[i]))
		clauses = append(clauses, relucore.AtomLeaf(ge), relucore.AtomLeaf(le))
	}
	return relucore.AndAll(clauses)
}

// samePostcondition asserts (sx >= t) <-> (sc >= t) over the last
// logit sx of logitsX and the last logit sc of logitsC,
// per make_postcondition_same_class_by_logit. Only the single-logit
// case (binary classification by sign of one output) is supported;
// multi-class same-argmax postconditions are a documented Non-goal.
func samePostcondition(atoms *relucore.AtomTable, logitsX, logitsC []string, threshold float64) *relucore.Formula {
	sx := atoms.Var(logitsX[len(logitsX)-1])
	sc := atoms.Var(logitsC[len(logitsC)-1])
	sxGe := atoms.Ineq([]relucore.Term{{Var: sx, Coeff: relucore.RatFromInt64(1)}}, relucore.RatFromFloat(threshold))
	scGe := atoms.Ineq([]relucore.Term{{Var: sc, Coeff: relucore.RatFromInt64(1)}}, relucore.RatFromFloat(threshold))
	return relucore.And(
		relucore.Implies(relucore.AtomLeaf(sxGe), relucore.AtomLeaf(scGe)),
		relucore.Implies(relucore.AtomLeaf(scGe), relucore.AtomLeaf(sxGe)),
	)
}
