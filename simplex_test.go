package relucore

import (
	"math/rand"
	"reflect"
	"testing"
	"testing/quick"
)

// TestSimplexFeasibleSystem builds x+y>=5, x<=3, y<=3 (feasible: e.g.
// x=3,y=2) and checks Check finds SAT with every row and bound
// honored exactly, which is P2 (soundness) for this instance.
func TestSimplexFeasibleSystem(t *testing.T) {
	x, y, s := VarID(0), VarID(1), VarID(2)
	rowDefs := []RowDef{
		{Basic: s, Coeffs: map[VarID]Rat{x: RatFromInt64(1), y: RatFromInt64(1)}},
	}
	bounds := map[VarID]Bound{
		x: AtMost(RatFromInt64(3)),
		y: AtMost(RatFromInt64(3)),
		s: AtLeast(RatFromInt64(5)),
	}
	tab := BuildTableau(rowDefs, bounds, 1000)
	res := tab.Check()
	if !res.SAT {
		t.Fatalf("expected SAT")
	}
	assign := tab.Assignment()
	sumXY := assign[x].Add(assign[y])
	if !sumXY.Equal(assign[s]) {
		t.Errorf("row equation violated: x+y=%s but s=%s", sumXY, assign[s])
	}
	if assign[s].LessThan(RatFromInt64(5)) {
		t.Errorf("s should be >= 5, got %s", assign[s])
	}
	if assign[x].GreaterThan(RatFromInt64(3)) || assign[y].GreaterThan(RatFromInt64(3)) {
		t.Errorf("x,y should each be <= 3, got x=%s y=%s", assign[x], assign[y])
	}
}

// TestSimplexInfeasibleBounds is the immediate-UNSAT case of an empty
// bound interval (I3: l(x) > u(x)).
func TestSimplexInfeasibleBounds(t *testing.T) {
	x := VarID(0)
	bounds := map[VarID]Bound{x: Between(RatFromInt64(5), RatFromInt64(1))}
	tab := BuildTableau(nil, bounds, 1000)
	res := tab.Check()
	if res.SAT {
		t.Errorf("expected UNSAT for an empty bound interval")
	}
}

// TestSimplexInfeasibleSystem is x <= 1, x >= 5: unsatisfiable through
// the row/bound interaction rather than a directly-empty bound.
func TestSimplexInfeasibleSystem(t *testing.T) {
	x, s := VarID(0), VarID(1)
	rowDefs := []RowDef{
		{Basic: s, Coeffs: map[VarID]Rat{x: RatFromInt64(1)}},
	}
	bounds := map[VarID]Bound{
		x: AtMost(RatFromInt64(1)),
		s: AtLeast(RatFromInt64(5)),
	}
	tab := BuildTableau(rowDefs, bounds, 1000)
	res := tab.Check()
	if res.SAT {
		t.Errorf("expected UNSAT: s=x<=1 cannot also be >=5")
	}
}

// TestSimplexPivotBudgetReportsUnknown checks that an exhausted pivot
// budget is reported as Unknown, never silently as UNSAT.
func TestSimplexPivotBudgetReportsUnknown(t *testing.T) {
	x, s := VarID(0), VarID(1)
	rowDefs := []RowDef{
		{Basic: s, Coeffs: map[VarID]Rat{x: RatFromInt64(1)}},
	}
	bounds := map[VarID]Bound{
		x: AtMost(RatFromInt64(1)),
		s: AtLeast(RatFromInt64(5)),
	}
	tab := BuildTableau(rowDefs, bounds, 0)
	res := tab.Check()
	if res.SAT {
		t.Errorf("expected non-SAT")
	}
	if !res.Unknown {
		t.Errorf("exhausting the pivot budget should report Unknown, not UNSAT")
	}
}

// feasibleSystem is a random linear system built from a witness point
// outward, so it is feasible by construction: every generated
// inequality is satisfied at the witness before it is added, per P3's
// "randomly generated feasible systems with <=8 variables and <=12
// inequalities".
type feasibleSystem struct {
	rowDefs []RowDef
	bounds  map[VarID]Bound
}

func (feasibleSystem) Generate(r *rand.Rand, size int) reflect.Value {
	numVars := 2 + r.Intn(7) // 2..8
	witness := make([]Rat, numVars)
	for i := range witness {
		witness[i] = RatFromInt64(int64(r.Intn(21) - 10))
	}

	bounds := make(map[VarID]Bound, numVars)
	for v := 0; v < numVars; v++ {
		bounds[VarID(v)] = UnboundedBound()
	}

	numIneqs := r.Intn(13) // 0..12
	var rowDefs []RowDef
	nextSlack := VarID(numVars)
	for i := 0; i < numIneqs; i++ {
		coeffs := make(map[VarID]Rat)
		sum := Zero()
		numTerms := 1 + r.Intn(numVars)
		seen := map[VarID]bool{}
		for len(seen) < numTerms {
			v := VarID(r.Intn(numVars))
			if seen[v] {
				continue
			}
			seen[v] = true
			c := RatFromInt64(int64(r.Intn(7) - 3))
			if c.IsZero() {
				c = RatFromInt64(1)
			}
			coeffs[v] = c
			sum = sum.Add(c.Mul(witness[v]))
		}
		slack := nextSlack
		nextSlack++
		rowDefs = append(rowDefs, RowDef{Basic: slack, Coeffs: coeffs})
		// The bound sits at or below the witness's value for this row,
		// so the witness satisfies `slack >= bound` by construction.
		bounds[slack] = AtLeast(sum.Sub(RatFromInt64(int64(r.Intn(5)))))
	}
	return reflect.ValueOf(feasibleSystem{rowDefs: rowDefs, bounds: bounds})
}

func TestSimplexCompletenessOnFeasibleSystemsProperty(t *testing.T) {
	check := func(sys feasibleSystem) bool {
		tab := BuildTableau(sys.rowDefs, sys.bounds, 5000)
		return tab.Check().SAT
	}
	if err := quick.Check(check, &quick.Config{MaxCount: 200}); err != nil {
		t.Errorf("simplex completeness property failed: %v", err)
	}
}

// TestTightenLowerPropagatesToRows checks that tightening a non-basic
// variable's bound re-clamps its value and keeps the dependent row
// consistent.
func TestTightenLowerPropagatesToRows(t *testing.T) {
	x, s := VarID(0), VarID(1)
	rowDefs := []RowDef{
		{Basic: s, Coeffs: map[VarID]Rat{x: RatFromInt64(1)}},
	}
	bounds := map[VarID]Bound{x: UnboundedBound(), s: UnboundedBound()}
	tab := BuildTableau(rowDefs, bounds, 1000)

	if ok := tab.TightenLower(x, RatFromInt64(4)); !ok {
		t.Fatalf("tightening should succeed")
	}
	assign := tab.Assignment()
	if !assign[x].Equal(RatFromInt64(4)) {
		t.Errorf("x should be clamped up to its new lower bound, got %s", assign[x])
	}
	if !assign[s].Equal(RatFromInt64(4)) {
		t.Errorf("s=x should follow x after the re-clamp, got %s", assign[s])
	}
}
