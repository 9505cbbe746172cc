package relucore

import "testing"

// TestTseitinNotAndScenario is scenario 5 of the spec: tseitin of
// `not(p and q)` should introduce a fresh auxiliary t1 for `p and q`
// with the standard three clauses, plus a root unit forcing it false,
// and DPLL should find a model with t1=false.
func TestTseitinNotAndScenario(t *testing.T) {
	p := Var("p")
	q := Var("q")
	f := Not(And(p, q))

	cnf, root := Tseitin(f)

	if len(cnf.Clauses) != 4 {
		t.Fatalf("expected 4 clauses (3 for the equivalence + 1 unit), got %d", len(cnf.Clauses))
	}
	if root.Pos {
		t.Errorf("the root literal asserted by addClause should be the negation of the auxiliary")
	}

	asn, sat := DPLL(cnf, nil)
	if !sat {
		t.Fatalf("expected SAT")
	}
	if asn[root.V] != false {
		t.Errorf("t1 should be assigned false, got %v", asn[root.V])
	}
}

func TestTseitinDeterministicClauseOrder(t *testing.T) {
	build := func() *CNF {
		p, q, r := Var("p"), Var("q"), Var("r")
		cnf, _ := Tseitin(And(Or(p, q), r))
		return cnf
	}
	a := build()
	b := build()
	if len(a.Clauses) != len(b.Clauses) {
		t.Fatalf("clause counts should match across identical runs")
	}
	for i := range a.Clauses {
		if len(a.Clauses[i]) != len(b.Clauses[i]) {
			t.Errorf("clause %d shape mismatch", i)
			continue
		}
		for j := range a.Clauses[i] {
			if a.Clauses[i][j] != b.Clauses[i][j] {
				t.Errorf("clause %d literal %d differs between runs", i, j)
			}
		}
	}
}
