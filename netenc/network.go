// Package netenc encodes a dense feed-forward ReLU network and a
// local-robustness query into a relucore.Formula, grounded on
// original_source/XOREncoding.py's NN() and Robustness.py's
// precondition/postcondition builders.
package netenc

import (
	"fmt"

	relucore "github.com/songheon2/Ai-verification"
)

// Layer is one fully-connected layer: Weights[i][j] is the weight from
// input j to output i, Biases[i] its bias. ReLU reports whether this
// layer's output is rectified before being fed to the next layer; the
// final layer (the logit) is typically left linear.
type Layer struct {
	Weights [][]float64
	Biases  []float64
	ReLU    bool
}

// NetworkSpec is a sequence of dense layers applied to a fixed-size
// input vector.
type NetworkSpec struct {
	InputSize int
	Layers    []Layer
}

// freshGen mirrors XOREncoding.py's FreshGen: deterministic,
// prefix-scoped fresh variable names so encoding the same network
// twice for two different inputs (as local robustness requires) never
// collides.
type freshGen struct {
	prefix string
	k      int
}

func (g *freshGen) fresh(base string) string {
	g.k++
	return fmt.Sprintf("%s%s_%d", g.prefix, base, g.k)
}

// Encode builds the constraint system for one forward pass of the
// network over named input variables, returning the conjunction of
// affine-plus-ReLU constraints and the name of the final layer's
// output variables (the logits).
func Encode(net NetworkSpec, inputNames []string, atoms *relucore.AtomTable, gen *freshGen) (*relucore.Formula, []string) {
	if len(inputNames) != net.InputSize {
		panic(fmt.Sprintf("netenc: network expects %d inputs, got %d", net.InputSize, len(inputNames)))
	}

	var clauses []*relucore.Formula
	cur := inputNames
	for li, layer := range net.Layers {
		next := make([]string, len(layer.Weights))
		for i := range layer.Weights {
			z := gen.fresh(fmt.Sprintf("z%d_%d", li, i))
			clauses = append(clauses, eqLin(atoms, append([]relucore.Term{{Var: atoms.Var(z), Coeff: relucore.RatFromInt64(1)}}, negWeightedTerms(atoms, layer.Weights[i], cur)...), relucore.RatFromFloat(layer.Biases[i])))

			if layer.ReLU {
				h := gen.fresh(fmt.Sprintf("h%d_%d", li, i))
				id := atoms.Relu(atoms.Var(z), atoms.Var(h))
				clauses = append(clauses, relucore.AtomLeaf(id))
				next[i] = h
			} else {
				next[i] = z
			}
		}
		cur = next
	}
	return relucore.AndAll(clauses), cur
}

// negWeightedTerms builds the `-wⱼ·xⱼ` terms used on the right of
// `z = Σ wⱼxⱼ + b`, so the equality can be expressed as the single
// `z - Σwⱼxⱼ = b` row that eqLin expects.
func negWeightedTerms(atoms *relucore.AtomTable, weights []float64, varNames []string) []relucore.Term {
	terms := make([]relucore.Term, len(weights))
	for j, w := range weights {
		terms[j] = relucore.Term{Var: atoms.Var(varNames[j]), Coeff: relucore.RatFromFloat(-w)}
	}
	return terms
}

// eqLin asserts `Σ terms == bound` as the conjunction of the two
// weakenings Ineq needs, per XOREncoding.py's eq_lin.
func eqLin(atoms *relucore.AtomTable, terms []relucore.Term, bound relucore.Rat) *relucore.Formula {
	pos := atoms.Ineq(terms, bound)
	negTerms := make([]relucore.Term, len(terms))
	for i, t := range terms {
		negTerms[i] = relucore.Term{Var: t.Var, Coeff: t.Coeff.Neg()}
	}
	neg := atoms.Ineq(negTerms, bound.Neg())
	return relucore.And(relucore.AtomLeaf(pos), relucore.AtomLeaf(neg))
}
