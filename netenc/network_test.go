package netenc

import (
	"testing"

	relucore "github.com/songheon2/Ai-verification"
)

func TestEncodeLinearLayerNoRelu(t *testing.T) {
	atoms := relucore.NewAtomTable()
	net := NetworkSpec{
		InputSize: 1,
		Layers: []Layer{
			{Weights: [][]float64{{2}}, Biases: []float64{3}, ReLU: false},
		},
	}
	gen := &freshGen{prefix: "t_"}
	f, outputs := Encode(net, []string{"x0"}, atoms, gen)
	if len(outputs) != 1 {
		t.Fatalf("expected one output, got %d", len(outputs))
	}
	if f == nil {
		t.Fatalf("expected a non-nil formula")
	}
	// z = 2*x0 + 3 should be asserted as the two-sided ineq pair, with
	// no relu atom anywhere since the layer isn't rectified.
	out := atoms.Var(outputs[0])
	_ = out
	var foundRelu bool
	var walk func(*relucore.Formula)
	walk = func(node *relucore.Formula) {
		if node == nil {
			return
		}
		if node.Kind == relucore.NodeAtom && atoms.IsRelu(node.Atom) {
			foundRelu = true
		}
		walk(node.Children[0])
		walk(node.Children[1])
	}
	walk(f)
	if foundRelu {
		t.Errorf("a non-rectified layer should not introduce a relu atom")
	}
}

func TestEncodeRectifiedLayerIntroducesReluAtom(t *testing.T) {
	atoms := relucore.NewAtomTable()
	net := NetworkSpec{
		InputSize: 1,
		Layers: []Layer{
			{Weights: [][]float64{{1}}, Biases: []float64{0}, ReLU: true},
		},
	}
	gen := &freshGen{prefix: "t_"}
	f, outputs := Encode(net, []string{"x0"}, atoms, gen)
	if len(outputs) != 1 {
		t.Fatalf("expected one output, got %d", len(outputs))
	}
	var reluCount int
	var walk func(*relucore.Formula)
	walk = func(node *relucore.Formula) {
		if node == nil {
			return
		}
		if node.Kind == relucore.NodeAtom && atoms.IsRelu(node.Atom) {
			reluCount++
		}
		walk(node.Children[0])
		walk(node.Children[1])
	}
	walk(f)
	if reluCount != 1 {
		t.Errorf("a rectified layer should introduce exactly one relu atom, got %d", reluCount)
	}
}

func TestEncodeTwoInputsDoNotCollideAcrossCalls(t *testing.T) {
	atoms := relucore.NewAtomTable()
	net := NetworkSpec{
		InputSize: 1,
		Layers: []Layer{
			{Weights: [][]float64{{1}}, Biases: []float64{0}, ReLU: true},
		},
	}
	genA := &freshGen{prefix: "a_"}
	genB := &freshGen{prefix: "b_"}
	_, outA := Encode(net, []string{"x0"}, atoms, genA)
	_, outB := Encode(net, []string{"y0"}, atoms, genB)
	if outA[0] == outB[0] {
		t.Errorf("two independently prefixed encodings should not share output variable names, got %q for both", outA[0])
	}
}

// TestEncodeEndToEndReluPassThrough checks that a relu(x0) network,
// combined with a constraint forcing x0 >= 1, solves to an output
// equal to x0 on the active branch.
func TestEncodeEndToEndReluPassThrough(t *testing.T) {
	atoms := relucore.NewAtomTable()
	net := NetworkSpec{
		InputSize: 1,
		Layers: []Layer{
			{Weights: [][]float64{{1}}, Biases: []float64{0}, ReLU: true},
		},
	}
	gen := &freshGen{prefix: "n_"}
	nn, outputs := Encode(net, []string{"x0"}, atoms, gen)

	x0 := atoms.Var("x0")
	xGe1 := atoms.Ineq([]relucore.Term{{Var: x0, Coeff: relucore.RatFromInt64(1)}}, relucore.RatFromInt64(1))

	f := relucore.And(nn, relucore.AtomLeaf(xGe1))
	res := relucore.Solve(f, atoms, relucore.DefaultDriverConfig())
	if res.Kind != relucore.ResultSAT {
		t.Fatalf("expected SAT, got %v (%s)", res.Kind, res.Reason)
	}
	out := atoms.Var(outputs[0])
	if !res.Model[out].Equal(res.Model[x0]) {
		t.Errorf("relu(x0) with x0>=1 should pass x0 through unchanged, got x0=%s out=%s", res.Model[x0], res.Model[out])
	}
}
