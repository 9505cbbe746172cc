package relucore

import "sort"

// Row is `basic = Σ_{xⱼ∈N} aᵢⱼ·xⱼ`, per §3's canonical Simplex state.
// Coefficients are keyed by non-basic VarID, mirroring the teacher's
// map-keyed row representation translated from Simplex.py's
// `Row.coeffs` dict.
type Row struct {
	Basic  VarID
	Coeffs map[VarID]Rat
}

// Tableau is the (rows, bounds, assignment) triple of §3, exclusively
// owned by the enclosing ReLUplex invocation per §5.
type Tableau struct {
	rows     []*Row
	rowOf    map[VarID]*Row
	bounds   map[VarID]Bound
	assign   map[VarID]Rat
	allVars  []VarID // ascending, stable order for Bland's rule
	pivots   int
	maxPivot int
	logger   Logger
}

// SetLogger installs the sink Check's pivot step reports to. A nil
// logger is treated as NoopLogger, so tableaus built without one stay
// silent.
func (t *Tableau) SetLogger(l Logger) { t.logger = orNoop(l) }

// RowDef is one equality row, `basic = Σ coeffs`.
type RowDef struct {
	Basic  VarID
	Coeffs map[VarID]Rat
}

// BuildTableau constructs a Tableau from row definitions and a bounds
// environment, per §4.3's "Reduction to equalities" + "Initial
// assignment": non-basic variables start at zero (or the nearest
// point their bounds permit), basic variables are computed from their
// row.
func BuildTableau(rowDefs []RowDef, bounds map[VarID]Bound, maxPivot int) *Tableau {
	t := &Tableau{
		rows:     make([]*Row, 0, len(rowDefs)),
		rowOf:    make(map[VarID]*Row),
		bounds:   make(map[VarID]Bound, len(bounds)),
		assign:   make(map[VarID]Rat, len(bounds)),
		maxPivot: maxPivot,
		logger:   NoopLogger(),
	}
	for v, b := range bounds {
		t.bounds[v] = b
	}
	basicSet := make(map[VarID]bool, len(rowDefs))
	for _, rd := range rowDefs {
		coeffs := make(map[VarID]Rat, len(rd.Coeffs))
		for v, c := range rd.Coeffs {
			coeffs[v] = c
		}
		r := &Row{Basic: rd.Basic, Coeffs: coeffs}
		t.rows = append(t.rows, r)
		t.rowOf[rd.Basic] = r
		basicSet[rd.Basic] = true
		if _, ok := t.bounds[rd.Basic]; !ok {
			t.bounds[rd.Basic] = UnboundedBound()
		}
	}

	varSet := make(map[VarID]bool)
	for v := range t.bounds {
		varSet[v] = true
	}
	for v := range varSet {
		t.allVars = append(t.allVars, v)
	}
	sort.Slice(t.allVars, func(i, j int) bool { return t.allVars[i] < t.allVars[j] })

	for _, v := range t.allVars {
		if basicSet[v] {
			continue
		}
		t.assign[v] = t.initialNonBasicValue(t.bounds[v])
	}
	for _, r := range t.rows {
		t.assign[r.Basic] = t.evalRow(r)
	}
	return t
}

func (t *Tableau) initialNonBasicValue(b Bound) Rat {
	switch {
	case !b.HasLower && !b.HasUpper:
		return Zero()
	case !b.HasLower:
		if b.Upper.LessThan(Zero()) {
			return b.Upper
		}
		return Zero()
	default:
		if b.Lower.GreaterThan(Zero()) {
			return b.Lower
		}
		if b.HasUpper && b.Upper.LessThan(Zero()) {
			return b.Upper
		}
		return Zero()
	}
}

func (t *Tableau) evalRow(r *Row) Rat {
	sum := Zero()
	for v, c := range r.Coeffs {
		sum = sum.Add(c.Mul(t.assign[v]))
	}
	return sum
}

func (t *Tableau) recomputeBasics() {
	for _, r := range t.rows {
		t.assign[r.Basic] = t.evalRow(r)
	}
}

func (t *Tableau) isBasic(v VarID) bool {
	_, ok := t.rowOf[v]
	return ok
}

// Assignment returns a copy of the current α, for callers that need a
// witness after Check returns SAT.
func (t *Tableau) Assignment() map[VarID]Rat {
	out := make(map[VarID]Rat, len(t.assign))
	for v, val := range t.assign {
		out[v] = val
	}
	return out
}

func (t *Tableau) Bound(v VarID) Bound { return t.bounds[v] }

// AddEqualityRow inserts a new equality row `fresh = Σ coeffs` into the
// tableau, returning the fresh slack variable it introduces. This is
// how a ReLUplex case-split commits its branch as a real linear
// constraint (e.g. `y - x = 0` for the active branch) rather than a
// one-off assignment, mirroring Reluplex.py's branching step, which
// rebuilds the tableau with an extra `row_defs + [(slack, {y:1,x:-1})]`
// row rather than mutating y's value directly. Any basic variable
// appearing in coeffs is first substituted out by its own row so the
// new row still satisfies the tableau's "coefficients are over
// non-basic variables only" invariant.
func (t *Tableau) AddEqualityRow(coeffs map[VarID]Rat, bound Bound) VarID {
	fresh := VarID(0)
	for _, v := range t.allVars {
		if v >= fresh {
			fresh = v + 1
		}
	}

	pending := make(map[VarID]Rat, len(coeffs))
	for v, c := range coeffs {
		pending[v] = c
	}
	for {
		substituted := false
		next := make(map[VarID]Rat, len(pending))
		for v, c := range pending {
			if c.IsZero() {
				continue
			}
			if row, ok := t.rowOf[v]; ok {
				substituted = true
				for ov, oc := range row.Coeffs {
					next[ov] = next[ov].Add(c.Mul(oc))
				}
				continue
			}
			next[v] = next[v].Add(c)
		}
		pending = next
		if !substituted {
			break
		}
	}
	normalized := make(map[VarID]Rat, len(pending))
	for v, c := range pending {
		if !c.IsZero() {
			normalized[v] = c
		}
	}

	row := &Row{Basic: fresh, Coeffs: normalized}
	t.rows = append(t.rows, row)
	t.rowOf[fresh] = row
	t.bounds[fresh] = bound
	t.allVars = append(t.allVars, fresh)
	sort.Slice(t.allVars, func(i, j int) bool { return t.allVars[i] < t.allVars[j] })
	t.assign[fresh] = t.evalRow(row)
	return fresh
}

// CheckResult is the outcome of one Simplex Check() call.
type CheckResult struct {
	SAT bool
	// Unknown is true when the pivot budget was exhausted before a
	// decision could be reached — reported as UNKNOWN, not UNSAT, per
	// §4.4's infinite-loop guard.
	Unknown bool
	// ConflictRow, when SAT is false and Unknown is false, is the row
	// that witnessed infeasibility: every variable occurring in it
	// (including the basic itself) participated in the conflict, per
	// §4.3's "Failure modes".
	ConflictRow *Row
}

// Check is the Simplex decision procedure of §4.3: repeatedly find an
// out-of-bounds basic variable and pivot it back in range using
// Bland's rule for termination, until every basic variable is in
// bounds (SAT) or no pivot candidate exists (UNSAT).
func (t *Tableau) Check() CheckResult {
	for _, b := range t.bounds {
		if b.Empty() {
			return CheckResult{SAT: false}
		}
	}

	for {
		violated, val, goingUp, ok := t.findViolatedBasic()
		if !ok {
			return CheckResult{SAT: true}
		}

		t.pivots++
		if t.pivots > t.maxPivot {
			return CheckResult{Unknown: true}
		}

		row := t.rowOf[violated]
		pivotVar, ok := t.findPivotCandidate(row, goingUp)
		if !ok {
			return CheckResult{SAT: false, ConflictRow: row}
		}

		bound := t.bounds[violated]
		target := bound.Lower
		if !goingUp {
			target = bound.Upper
		}
		a := row.Coeffs[pivotVar]
		delta := target.Sub(val).Quo(a)

		t.updateNonBasic(pivotVar, t.assign[pivotVar].Add(delta))
		t.pivot(pivotVar, violated)
		t.assign[violated] = target
		t.recomputeBasics()
	}
}

// findViolatedBasic returns the smallest-VarID basic variable whose
// assignment is out of bounds (Bland's rule applied to row selection).
func (t *Tableau) findViolatedBasic() (VarID, Rat, bool, bool) {
	rowsByBasic := make([]*Row, len(t.rows))
	copy(rowsByBasic, t.rows)
	sort.Slice(rowsByBasic, func(i, j int) bool { return rowsByBasic[i].Basic < rowsByBasic[j].Basic })

	for _, r := range rowsByBasic {
		v := r.Basic
		val := t.assign[v]
		b := t.bounds[v]
		if b.HasLower && val.LessThan(b.Lower) {
			return v, val, true, true
		}
		if b.HasUpper && val.GreaterThan(b.Upper) {
			return v, val, false, true
		}
	}
	return 0, Rat{}, false, false
}

// findPivotCandidate implements §4.3 step 2/4: the smallest-VarID
// non-basic xⱼ that can absorb the needed change in xᵢ.
func (t *Tableau) findPivotCandidate(row *Row, goingUp bool) (VarID, bool) {
	candidates := make([]VarID, 0, len(row.Coeffs))
	for v := range row.Coeffs {
		candidates = append(candidates, v)
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })

	for _, xj := range candidates {
		a := row.Coeffs[xj]
		if a.IsZero() {
			continue
		}
		b := t.bounds[xj]
		val := t.assign[xj]
		increasable := !b.HasUpper || val.LessThan(b.Upper)
		decreasable := !b.HasLower || val.GreaterThan(b.Lower)

		if goingUp {
			if a.Sign() > 0 && increasable {
				return xj, true
			}
			if a.Sign() < 0 && decreasable {
				return xj, true
			}
		} else {
			if a.Sign() < 0 && increasable {
				return xj, true
			}
			if a.Sign() > 0 && decreasable {
				return xj, true
			}
		}
	}
	return 0, false
}

// updateNonBasic sets a non-basic variable's value directly; basics
// are recomputed by the caller afterward.
func (t *Tableau) updateNonBasic(v VarID, newVal Rat) {
	t.assign[v] = newVal
}

// pivot exchanges non-basic xi into the basis in place of basic xj,
// rewriting every row that references xi, per §4.3 step 3. It mirrors
// `_pivot` from original_source/Simplex.py exactly, translated from
// Python's per-call dict rebuild to mutation of Go maps.
func (t *Tableau) pivot(xi, xj VarID) {
	t.logger.Pivot(int(xj), int(xi))

	pivotRow := t.rowOf[xj]
	a := pivotRow.Coeffs[xi]

	newCoeffs := make(map[VarID]Rat, len(pivotRow.Coeffs))
	for v, c := range pivotRow.Coeffs {
		if v == xi {
			continue
		}
		newCoeffs[v] = c.Neg().Quo(a)
	}
	newCoeffs[xj] = RatFromInt64(1).Quo(a)

	pivotRow.Basic = xi
	pivotRow.Coeffs = newCoeffs
	delete(t.rowOf, xj)
	t.rowOf[xi] = pivotRow

	for _, row := range t.rows {
		if row.Basic == xi {
			continue
		}
		factor, ok := row.Coeffs[xi]
		if !ok {
			continue
		}
		delete(row.Coeffs, xi)
		for v, c := range newCoeffs {
			row.Coeffs[v] = row.Coeffs[v].Add(factor.Mul(c))
		}
	}
}

// TightenLower tightens v's lower bound, re-clamping its value if it
// is currently non-basic and propagating the delta through every row
// that references it, per §4.3's "Bound updates". An empty resulting
// interval is reported as UNSAT via the bool return.
func (t *Tableau) TightenLower(v VarID, lo Rat) bool {
	b := t.bounds[v].WithLower(lo)
	t.bounds[v] = b
	if b.Empty() {
		return false
	}
	if !t.isBasic(v) {
		clamped := b.Clamp(t.assign[v])
		if !clamped.Equal(t.assign[v]) {
			t.updateNonBasic(v, clamped)
			t.recomputeBasics()
		}
	}
	return true
}

func (t *Tableau) TightenUpper(v VarID, hi Rat) bool {
	b := t.bounds[v].WithUpper(hi)
	t.bounds[v] = b
	if b.Empty() {
		return false
	}
	if !t.isBasic(v) {
		clamped := b.Clamp(t.assign[v])
		if !clamped.Equal(t.assign[v]) {
			t.updateNonBasic(v, clamped)
			t.recomputeBasics()
		}
	}
	return true
}

// SetValue forces a variable's value directly, used by ReLUplex's
// repair pivot (§4.4 step 5) to drive y to max(0, v_x) or x to the
// value y dictates. If v is basic it is pivoted against some non-basic
// variable in its row first so the assignment can be set structurally;
// if no such variable exists SetValue reports false.
func (t *Tableau) SetValue(v VarID, val Rat) bool {
	if t.isBasic(v) {
		row := t.rowOf[v]
		pivoted := false
		candidates := make([]VarID, 0, len(row.Coeffs))
		for other := range row.Coeffs {
			candidates = append(candidates, other)
		}
		sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })
		for _, other := range candidates {
			if !row.Coeffs[other].IsZero() {
				t.pivot(other, v)
				pivoted = true
				break
			}
		}
		if !pivoted {
			return false
		}
	}
	t.updateNonBasic(v, val)
	t.recomputeBasics()
	return true
}

// CloneForCheckpoint returns a deep copy of the tableau's mutable
// state so a ReLUplex case-split checkpoint can restore it on
// backtrack without rebuilding rows from scratch (§3's "Lifecycle").
func (t *Tableau) CloneForCheckpoint() *Tableau {
	clone := &Tableau{
		rowOf:    make(map[VarID]*Row, len(t.rowOf)),
		bounds:   make(map[VarID]Bound, len(t.bounds)),
		assign:   make(map[VarID]Rat, len(t.assign)),
		allVars:  append([]VarID(nil), t.allVars...),
		pivots:   t.pivots,
		maxPivot: t.maxPivot,
		logger:   t.logger,
	}
	clone.rows = make([]*Row, len(t.rows))
	for i, r := range t.rows {
		coeffs := make(map[VarID]Rat, len(r.Coeffs))
		for v, c := range r.Coeffs {
			coeffs[v] = c
		}
		nr := &Row{Basic: r.Basic, Coeffs: coeffs}
		clone.rows[i] = nr
		clone.rowOf[nr.Basic] = nr
	}
	for v, b := range t.bounds {
		clone.bounds[v] = b
	}
	for v, val := range t.assign {
		clone.assign[v] = val
	}
	return clone
}
