package relucore

import "testing"

// TestReluplexActiveBranch is scenario 1: ineq(1,x,1,y,5) and relu(x,y)
// should be SAT with a witness on the active branch, e.g. x=2.5,y=2.5.
func TestReluplexActiveBranch(t *testing.T) {
	x, y, s := VarID(0), VarID(1), VarID(2)
	in := ReluplexInput{
		RowDefs: []RowDef{{Basic: s, Coeffs: map[VarID]Rat{x: RatFromInt64(1), y: RatFromInt64(1)}}},
		Bounds: map[VarID]Bound{
			x: UnboundedBound(),
			y: UnboundedBound(),
			s: AtLeast(RatFromInt64(5)),
		},
		Pairs: []ReluAtom{{X: x, Y: y}},
	}
	res := Reluplex(in, 50, 200, nil)
	if !res.SAT {
		t.Fatalf("expected SAT")
	}
	if !reluSatisfiedModel(res.Model, x, y) {
		t.Errorf("model should satisfy y=max(0,x): x=%s y=%s", res.Model[x], res.Model[y])
	}
	if res.Model[x].Add(res.Model[y]).LessThan(RatFromInt64(5)) {
		t.Errorf("x+y should be >= 5, got x=%s y=%s", res.Model[x], res.Model[y])
	}
}

func reluSatisfiedModel(m map[VarID]Rat, x, y VarID) bool {
	want := m[x]
	if want.LessThan(Zero()) {
		want = Zero()
	}
	return m[y].Equal(want)
}

// TestReluplexUnsatInactiveVsActive is scenario 2: x<=0, y<=-ε (strictly
// negative), relu(x,y) is UNSAT: the inactive branch forces y=0
// (contradicting y<0) and the active branch forces x=0,y=0, which
// again contradicts y<0.
func TestReluplexUnsatInactiveVsActive(t *testing.T) {
	x, y, s1, s2 := VarID(0), VarID(1), VarID(2), VarID(3)
	in := ReluplexInput{
		RowDefs: []RowDef{
			{Basic: s1, Coeffs: map[VarID]Rat{x: RatFromInt64(-1)}}, // s1 = -x, s1 >= 0 means x <= 0
			{Basic: s2, Coeffs: map[VarID]Rat{y: RatFromInt64(-1)}}, // s2 = -y, s2 >= eps means y <= -eps
		},
		Bounds: map[VarID]Bound{
			x:  UnboundedBound(),
			y:  UnboundedBound(),
			s1: AtLeast(Zero()),
			s2: AtLeast(Epsilon),
		},
		Pairs: []ReluAtom{{X: x, Y: y}},
	}
	res := Reluplex(in, 50, 200, nil)
	if res.SAT {
		t.Errorf("expected UNSAT, got model x=%s y=%s", res.Model[x], res.Model[y])
	}
}

// TestReluplexUnsatYAtLeastOneXAtMostZero is scenario 3:
// relu(x,y), y>=1, x<=0 is UNSAT (x<=0 forces y=0, contradicting y>=1).
func TestReluplexUnsatYAtLeastOneXAtMostZero(t *testing.T) {
	x, y, s1, s2 := VarID(0), VarID(1), VarID(2), VarID(3)
	in := ReluplexInput{
		RowDefs: []RowDef{
			{Basic: s1, Coeffs: map[VarID]Rat{y: RatFromInt64(1)}},
			{Basic: s2, Coeffs: map[VarID]Rat{x: RatFromInt64(-1)}},
		},
		Bounds: map[VarID]Bound{
			x:  UnboundedBound(),
			y:  UnboundedBound(),
			s1: AtLeast(RatFromInt64(1)),
			s2: AtLeast(Zero()),
		},
		Pairs: []ReluAtom{{X: x, Y: y}},
	}
	res := Reluplex(in, 50, 200, nil)
	if res.SAT {
		t.Errorf("expected UNSAT, got model x=%s y=%s", res.Model[x], res.Model[y])
	}
}

// TestReluplexChainedPairs is scenario 6:
// relu(x,y), relu(y,z), x-z=0, x>=-1 → SAT with x=y=z=1 (among other
// witnesses); here we only check the chain is consistent.
func TestReluplexChainedPairs(t *testing.T) {
	x, y, z, s1, s2 := VarID(0), VarID(1), VarID(2), VarID(3), VarID(4)
	in := ReluplexInput{
		RowDefs: []RowDef{
			{Basic: s1, Coeffs: map[VarID]Rat{x: RatFromInt64(1), z: RatFromInt64(-1)}}, // s1 = x - z, pinned to [0,0] here; normally two atoms (>= 0 and <= 0)
			{Basic: s2, Coeffs: map[VarID]Rat{x: RatFromInt64(1)}},
		},
		Bounds: map[VarID]Bound{
			x:  UnboundedBound(),
			y:  UnboundedBound(),
			z:  UnboundedBound(),
			s1: Between(Zero(), Zero()),
			s2: AtLeast(RatFromInt64(-1)),
		},
		Pairs: []ReluAtom{{X: x, Y: y}, {X: y, Y: z}},
	}
	res := Reluplex(in, 50, 200, nil)
	if !res.SAT {
		t.Fatalf("expected SAT")
	}
	if !reluSatisfiedModel(res.Model, x, y) || !reluSatisfiedModel(res.Model, y, z) {
		t.Errorf("chained relu pairs not satisfied: x=%s y=%s z=%s", res.Model[x], res.Model[y], res.Model[z])
	}
	if !res.Model[x].Equal(res.Model[z]) {
		t.Errorf("x should equal z, got x=%s z=%s", res.Model[x], res.Model[z])
	}
}
