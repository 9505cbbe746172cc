package relucore

import "testing"

func TestToNNFPushesNotThroughAnd(t *testing.T) {
	p := Var("p")
	q := Var("q")
	f := Not(And(p, q))
	n := ToNNF(f)
	if n.Kind != NodeOr {
		t.Fatalf("not(p and q) should become an Or at the root, got %v", n.Kind)
	}
	if n.Children[0].Kind != NodeNot || n.Children[1].Kind != NodeNot {
		t.Errorf("both children should be negated leaves")
	}
}

func TestToNNFEliminatesImplies(t *testing.T) {
	p := Var("p")
	q := Var("q")
	n := ToNNF(Implies(p, q))
	if n.Kind != NodeOr {
		t.Fatalf("p -> q should become (not p) or q, got %v", n.Kind)
	}
}

func TestToNNFDoubleNegation(t *testing.T) {
	p := Var("p")
	n := ToNNF(Not(Not(p)))
	if n.Kind != NodeVar || n.VarName != "p" {
		t.Errorf("not(not(p)) should collapse to p, got %v", n)
	}
}
