package relucore

import "sort"

// ReluplexResult is the outcome of one Reluplex call.
type ReluplexResult struct {
	SAT     bool
	Unknown bool
	// Model holds the witnessing assignment when SAT is true.
	Model map[VarID]Rat
}

// ReluplexInput bundles the linear part (already loaded into rowDefs
// and bounds by the caller) with the set of rectifier pairs that must
// additionally satisfy y = max(0, x), per §4.4.
type ReluplexInput struct {
	RowDefs []RowDef
	Bounds  map[VarID]Bound
	Pairs   []ReluAtom
}

// reluplexState carries the counters and budget tracked across the
// whole search, independent of any one checkpoint's tableau.
type reluplexState struct {
	tau        map[ReluAtom]int // §4.4's "repair attempt counter per pair", used to pick which violated pair to fix next
	budget     int
	maxBudget  int
	maxRecur   int
	recurDepth int
}

// Reluplex runs the ReLUplex decision procedure of §4.4: Simplex finds
// a linear-feasible point, every rectifier pair is checked against it,
// violations are repaired by a bidirectional pivot when possible and
// by case-splitting (via an explicit checkpoint stack) otherwise, up
// to a pivot budget of C·|V|² beyond which the result is UNKNOWN
// rather than a false UNSAT. logger is reported every Simplex pivot
// and every case-split decision; a nil logger is treated as NoopLogger.
func Reluplex(in ReluplexInput, stepBudgetFactor int, maxCaseSplitDepth int, logger Logger) ReluplexResult {
	logger = orNoop(logger)
	numVars := len(in.Bounds)
	maxPivot := stepBudgetFactor * numVars * numVars
	if maxPivot < 64 {
		maxPivot = 64
	}

	t := BuildTableau(in.RowDefs, in.Bounds, maxPivot)
	t.SetLogger(logger)
	// Every rectifier's output is non-negative by construction
	// (y = max(0, x) >= 0), independent of whatever bound the caller
	// supplied for it, mirroring Reluplex.py's `_rec` re-asserting
	// `bounds_now[y] = (max(0, lo), hi)` on every recursion level.
	for _, p := range in.Pairs {
		t.TightenLower(p.Y, Zero())
	}
	stack := newCheckpointStack(t, map[ReluAtom]reluMode{})
	st := &reluplexState{
		tau:       make(map[ReluAtom]int),
		maxBudget: maxPivot,
		maxRecur:  maxCaseSplitDepth,
	}

	for {
		res := runReluplexBranch(stack, in.Pairs, st, logger)
		if res.SAT || res.Unknown {
			return res
		}
		if !stack.pop() {
			return ReluplexResult{SAT: false}
		}
	}
}

// runReluplexBranch drives the current top-of-stack tableau to either
// a full model, a case-split (pushing a new checkpoint and recursing),
// or a dead end (returning SAT:false so the caller pops and tries the
// sibling branch).
func runReluplexBranch(stack *checkpointStack, pairs []ReluAtom, st *reluplexState, logger Logger) ReluplexResult {
	for {
		cur := stack.top()
		t := cur.tableau

		check := t.Check()
		if check.Unknown {
			return ReluplexResult{Unknown: true}
		}
		if !check.SAT {
			return ReluplexResult{SAT: false}
		}

		violated := selectViolatedPair(t, pairs, st.tau)
		if violated == nil {
			return ReluplexResult{SAT: true, Model: t.Assignment()}
		}

		if repaired, ok := tryRepair(t, *violated, st); ok {
			stack.replaceTop(repaired)
			continue
		}

		if st.recurDepth >= st.maxRecur {
			return ReluplexResult{Unknown: true}
		}

		mode, ok := decideCaseSplit(*violated, cur.reluMode)
		if !ok {
			return ReluplexResult{SAT: false}
		}
		// Recorded at the current level, not the pushed one, so that if
		// this branch fails and we pop back here, the next decision for
		// the same pair sees it was already tried and picks the other
		// side instead of looping on the same branch forever.
		cur.reluMode[*violated] = mode

		modeName := "active"
		if mode == reluInactive {
			modeName = "inactive"
		}
		logger.CaseSplit(int(violated.X), int(violated.Y), modeName, st.recurDepth+1)

		st.recurDepth++
		stack.push(*violated, mode)
		applyCaseSplitBounds(stack.top().tableau, *violated, mode)
		sub := runReluplexBranch(stack, pairs, st, logger)
		st.recurDepth--
		if sub.SAT || sub.Unknown {
			return sub
		}
		if !stack.pop() {
			return ReluplexResult{SAT: false}
		}
	}
}

// selectViolatedPair picks the rectifier pair to fix next, per
// Reluplex.py's `_select_violation`: among pairs currently violating
// y = max(0, x), prefer the one with the fewest prior repair attempts,
// breaking ties by ascending VarID for determinism.
func selectViolatedPair(t *Tableau, pairs []ReluAtom, tau map[ReluAtom]int) *ReluAtom {
	var violated []ReluAtom
	for _, p := range pairs {
		if !reluSatisfied(t, p) {
			violated = append(violated, p)
		}
	}
	if len(violated) == 0 {
		return nil
	}
	sort.Slice(violated, func(i, j int) bool {
		ti, tj := tau[violated[i]], tau[violated[j]]
		if ti != tj {
			return ti < tj
		}
		if violated[i].X != violated[j].X {
			return violated[i].X < violated[j].X
		}
		return violated[i].Y < violated[j].Y
	})
	best := violated[0]
	return &best
}

func reluSatisfied(t *Tableau, p ReluAtom) bool {
	x := t.assign[p.X]
	y := t.assign[p.Y]
	want := x
	if want.LessThan(Zero()) {
		want = Zero()
	}
	return y.Equal(want)
}

// tryRepair attempts the bidirectional pivot of Reluplex.py's
// `_try_repair`: direction 1 moves x to satisfy the pair by adjusting
// x's assignment to match y (when x's bound admits it), direction 0
// moves y by adjusting it to max(0,x). Neither direction is trusted on
// the strength of the structural SetValue alone: `_try_repair` works
// on a deep copy of the tableau and only accepts the result once a
// full simplex re-check on that copy comes back SAT, since setting one
// variable can push some other row's basic variable out of bounds. We
// mirror that by cloning before mutating and re-running Check on the
// clone, returning the validated clone for the caller to adopt in
// place of the current checkpoint's tableau.
func tryRepair(t *Tableau, p ReluAtom, st *reluplexState) (*Tableau, bool) {
	st.tau[p]++
	if st.budget >= st.maxBudget {
		return nil, false
	}

	x := t.assign[p.X]
	y := t.assign[p.Y]

	// Direction 1: fix y by setting x := y (since y itself is already
	// >= 0, max(0, y) == y), provided x's bounds admit that value.
	target0 := y
	if t.Bound(p.X).Contains(target0) {
		cand := t.CloneForCheckpoint()
		if cand.SetValue(p.X, target0) {
			// A resolved structural change can still be undone by
			// Check's own re-pivoting to satisfy some other row's
			// bound, so the pair must be re-checked against the
			// revalidated tableau, not just trusted from target0.
			if check := cand.Check(); check.SAT && reluSatisfied(cand, p) {
				st.budget++
				return cand, true
			}
		}
	}

	// Direction 0: fix x by setting y := max(0, x), provided y's
	// bounds admit that value.
	target1 := x
	if target1.LessThan(Zero()) {
		target1 = Zero()
	}
	if t.Bound(p.Y).Contains(target1) {
		cand := t.CloneForCheckpoint()
		if cand.SetValue(p.Y, target1) {
			if check := cand.Check(); check.SAT && reluSatisfied(cand, p) {
				st.budget++
				return cand, true
			}
		}
	}

	return nil, false
}

// decideCaseSplit picks which branch to try next for a pair that
// repair could not fix: active (x>=0, y=x) first, then inactive
// (x<=0, y=0) once active has been tried and failed at this level. If
// both have already been tried, this pair cannot be resolved here and
// the caller must report this branch as a dead end.
func decideCaseSplit(p ReluAtom, explored map[ReluAtom]reluMode) (reluMode, bool) {
	switch explored[p] {
	case reluUndetermined:
		return reluActive, true
	case reluActive:
		return reluInactive, true
	default:
		return reluUndetermined, false
	}
}

// applyCaseSplitBounds tightens x's bound for the chosen mode and
// commits y = x (active) or y = 0 (inactive) as a real linear
// constraint, per §4.4's case-split step and Reluplex.py's branching
// rows (`bounds1[branch_x] = (max(0,lo),hi)` plus a fresh `y-x=0` row
// for the active branch; `bounds2[relu_y] = (0,0)` for the inactive
// one). A one-off SetValue would not persist: the next Check() is free
// to re-pivot y away from the target while still honoring every row
// and bound, so the branch has to be a row/bound fact, not a momentary
// assignment.
func applyCaseSplitBounds(t *Tableau, p ReluAtom, mode reluMode) {
	switch mode {
	case reluActive:
		t.TightenLower(p.X, Zero())
		t.AddEqualityRow(map[VarID]Rat{p.Y: RatFromInt64(1), p.X: RatFromInt64(-1)}, Between(Zero(), Zero()))
	case reluInactive:
		t.TightenUpper(p.X, Zero())
		t.TightenLower(p.Y, Zero())
		t.TightenUpper(p.Y, Zero())
	}
}
