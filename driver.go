package relucore

import "sort"

// ResultKind tags a Solve outcome.
type ResultKind int

const (
	ResultSAT ResultKind = iota
	ResultUNSAT
	ResultUnknown
)

// Result is the tagged outcome of a Solve call, per §3's Result type.
type Result struct {
	Kind ResultKind
	// Model holds a witnessing VarID->Rat assignment when Kind is SAT.
	Model map[VarID]Rat
	// Reason explains an Unknown result (step budget exhausted, round
	// cap reached), per §7's error-handling design.
	Reason string
}

// DriverConfig bounds the search, per §5's concurrency/resource model.
type DriverConfig struct {
	MaxDPLLTRounds        int
	ReluplexStepBudget    int // the "C" in C*|V|^2
	MaxCaseSplitRecursion int
	// Logger receives every DPLL decision, Simplex pivot, ReLUplex
	// case-split, and learned blocking clause. A nil Logger is treated
	// as NoopLogger.
	Logger Logger
}

// DefaultDriverConfig mirrors the constants §9 settles the infinite-
// loop-guard Open Question with.
func DefaultDriverConfig() DriverConfig {
	return DriverConfig{
		MaxDPLLTRounds:        4096,
		ReluplexStepBudget:    50,
		MaxCaseSplitRecursion: 200,
	}
}

// Solve runs the full DPLL(T) combination loop of §4.5: Tseitin-encode
// once, then alternate between the DPLL SAT core and the ReLUplex
// theory oracle, learning a blocking clause on every theory conflict,
// until a model both sides accept, outright UNSAT, or the round cap is
// hit.
func Solve(f *Formula, atoms *AtomTable, cfg DriverConfig) Result {
	logger := orNoop(cfg.Logger)
	split := SplitNegativeRelu(f, atoms)
	cnf, _ := Tseitin(split)

	for round := 0; round < cfg.MaxDPLLTRounds; round++ {
		asn, sat := DPLL(cnf, logger)
		if !sat {
			return Result{Kind: ResultUNSAT}
		}

		in, err := theoryInput(cnf, atoms, asn)
		if err != nil {
			return Result{Kind: ResultUnknown, Reason: err.Error()}
		}

		res := Reluplex(in, cfg.ReluplexStepBudget, cfg.MaxCaseSplitRecursion, logger)
		if res.Unknown {
			return Result{Kind: ResultUnknown, Reason: "reluplex step budget exhausted"}
		}
		if res.SAT {
			return Result{Kind: ResultSAT, Model: res.Model}
		}

		blocking := blockingClause(cnf, asn)
		cnf.AddBlockingClause(blocking)
		logger.BlockingClause(len(blocking), round)
	}
	return Result{Kind: ResultUnknown, Reason: "dpll(t) round cap reached"}
}

// theoryInput builds §4.5 step 4's ReLUplex input: every positive Ineq
// atom in the model becomes a row/bound contribution, every positive
// Relu atom becomes a case-split pair, and every negative Ineq atom
// contributes its weakened complement. Negative Relu atoms cannot
// reach this point: SplitNegativeRelu rewrites every structural
// Not(Relu(...)) before Tseitin runs, so a Relu atom's PropVar can
// only be false here if a caller asserted ¬Relu outside that rewrite
// path, which is a misuse this function reports rather than silently
// mishandles.
func theoryInput(cnf *CNF, atoms *AtomTable, asn Assignment) (ReluplexInput, error) {
	varSet := make(map[VarID]bool)
	var pairs []ReluAtom
	var ineqs []IneqAtom

	for v := PropVar(0); int(v) < cnf.NumVars(); v++ {
		id, ok := cnf.AtomOf(v)
		if !ok {
			continue
		}
		val := asn[v]
		if atoms.IsRelu(id) {
			if !val {
				return ReluplexInput{}, invariantBrokenErr("theoryInput: negated Relu atom reached the theory cube; SplitNegativeRelu should have eliminated it")
			}
			r := atoms.Relu_(id)
			pairs = append(pairs, r)
			varSet[r.X] = true
			varSet[r.Y] = true
			continue
		}
		atomID := id
		if !val {
			atomID = atoms.NegatedIneq(id)
		}
		ia := atoms.Ineq_(atomID)
		ineqs = append(ineqs, ia)
		for _, t := range ia.Terms {
			varSet[t.Var] = true
		}
	}

	rowDefs, bounds := buildRows(ineqs, varSet)
	return ReluplexInput{RowDefs: rowDefs, Bounds: bounds, Pairs: pairs}, nil
}

// buildRows reduces a set of `Σcᵢxᵢ >= bound` inequalities to the
// equality-plus-bounds form Simplex needs, per §4.3's "Reduction to
// equalities": every inequality gets one fresh slack variable s with
// row `s = Σcᵢxᵢ` and bound `s >= bound`.
func buildRows(ineqs []IneqAtom, varSet map[VarID]bool) ([]RowDef, map[VarID]Bound) {
	bounds := make(map[VarID]Bound, len(varSet))
	for v := range varSet {
		bounds[v] = UnboundedBound()
	}

	nextSlack := VarID(0)
	for v := range varSet {
		if v >= nextSlack {
			nextSlack = v + 1
		}
	}

	var rows []RowDef
	sortedIneqs := append([]IneqAtom(nil), ineqs...)
	sort.Slice(sortedIneqs, func(i, j int) bool { return ineqLess(sortedIneqs[i], sortedIneqs[j]) })

	for _, ia := range sortedIneqs {
		slack := nextSlack
		nextSlack++
		coeffs := make(map[VarID]Rat, len(ia.Terms))
		for _, t := range ia.Terms {
			coeffs[t.Var] = t.Coeff
		}
		rows = append(rows, RowDef{Basic: slack, Coeffs: coeffs})
		bounds[slack] = AtLeast(ia.Bound)
	}
	return rows, bounds
}

func ineqLess(a, b IneqAtom) bool {
	if len(a.Terms) != len(b.Terms) {
		return len(a.Terms) < len(b.Terms)
	}
	for i := range a.Terms {
		if a.Terms[i].Var != b.Terms[i].Var {
			return a.Terms[i].Var < b.Terms[i].Var
		}
	}
	return a.Bound.LessThan(b.Bound)
}

// blockingClause negates every theory-relevant literal the model set,
// per §4.5 step 7: "the disjunction of the negations of the theory
// literals in the cube". Plain propositional literals (Tseitin
// auxiliaries, named Vars) are not theory-relevant and are left out,
// since re-deciding them without also changing some theory atom would
// just rediscover the same inconsistent cube.
func blockingClause(cnf *CNF, asn Assignment) Clause {
	var cl Clause
	for v := PropVar(0); int(v) < cnf.NumVars(); v++ {
		if _, ok := cnf.AtomOf(v); !ok {
			continue
		}
		cl = append(cl, Literal{V: v, Pos: !asn[v]})
	}
	return cl
}

func invariantBrokenErr(format string, args ...any) error {
	return newError(ErrInternalInvariant, format, args...)
}
