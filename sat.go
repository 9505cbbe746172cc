package relucore

// Assignment is a total or partial truth assignment over PropVars.
type Assignment map[PropVar]bool

// SATStats counts DPLL work, mirrored on the teacher's ExprBuilderStats
// convention of carrying a small stats struct alongside the thing it
// instruments.
type SATStats struct {
	Decisions        int
	UnitPropagations int
	PureLiterals     int
}

// DPLL decides the CNF's satisfiability by recursive backtracking with
// unit propagation and pure-literal elimination, per §4.2. It returns
// a total assignment over every PropVar CNF knows about, or false for
// UNSAT. logger is reported every branch decision taken; a nil logger
// is treated as NoopLogger.
func DPLL(cnf *CNF, logger Logger) (Assignment, bool) {
	logger = orNoop(logger)
	stats := &SATStats{}
	asn := Assignment{}
	ok := dpllRec(cnf.Clauses, cnf.NumVars(), asn, stats, logger)
	if !ok {
		return nil, false
	}
	for v := PropVar(0); int(v) < cnf.NumVars(); v++ {
		if _, seen := asn[v]; !seen {
			asn[v] = false
		}
	}
	return asn, true
}

func dpllRec(clauses []Clause, numVars int, asn Assignment, stats *SATStats, logger Logger) bool {
	clauses, ok := simplifyByAssignment(clauses, asn)
	if !ok {
		return false
	}
	if len(clauses) == 0 {
		return true
	}

	clauses, ok = unitPropagate(clauses, asn, stats)
	if !ok {
		return false
	}
	if len(clauses) == 0 {
		return true
	}

	clauses, ok = pureLiteralEliminate(clauses, numVars, asn, stats)
	if !ok {
		return false
	}
	if len(clauses) == 0 {
		return true
	}

	branch, found := chooseBranchVar(numVars, asn)
	if !found {
		return true
	}
	stats.Decisions++

	asnTrue := cloneAssignment(asn)
	asnTrue[branch] = true
	logger.Decision(int(branch), true)
	if dpllRec(clauses, numVars, asnTrue, stats, logger) {
		copyInto(asn, asnTrue)
		return true
	}

	asnFalse := cloneAssignment(asn)
	asnFalse[branch] = false
	logger.Decision(int(branch), false)
	if dpllRec(clauses, numVars, asnFalse, stats, logger) {
		copyInto(asn, asnFalse)
		return true
	}
	return false
}

func cloneAssignment(asn Assignment) Assignment {
	out := make(Assignment, len(asn)+1)
	for k, v := range asn {
		out[k] = v
	}
	return out
}

func copyInto(dst, src Assignment) {
	for k, v := range src {
		dst[k] = v
	}
}

func litValue(l Literal, asn Assignment) (bool, bool) {
	v, ok := asn[l.V]
	if !ok {
		return false, false
	}
	if !l.Pos {
		v = !v
	}
	return v, true
}

// simplifyByAssignment drops satisfied clauses and falsified literals,
// reporting ok=false on an empty (falsified) clause.
func simplifyByAssignment(clauses []Clause, asn Assignment) ([]Clause, bool) {
	out := make([]Clause, 0, len(clauses))
	for _, cl := range clauses {
		satisfied := false
		next := make(Clause, 0, len(cl))
		for _, l := range cl {
			val, known := litValue(l, asn)
			if known && val {
				satisfied = true
				break
			}
			if known && !val {
				continue
			}
			next = append(next, l)
		}
		if satisfied {
			continue
		}
		if len(next) == 0 {
			return nil, false
		}
		out = append(out, next)
	}
	return out, true
}

func unitPropagate(clauses []Clause, asn Assignment, stats *SATStats) ([]Clause, bool) {
	for {
		unit, found := firstUnitLiteral(clauses)
		if !found {
			return clauses, true
		}
		if val, known := litValue(unit, asn); known {
			if !val {
				return nil, false
			}
		} else {
			asn[unit.V] = unit.Pos
			stats.UnitPropagations++
		}
		var ok bool
		clauses, ok = simplifyByAssignment(clauses, asn)
		if !ok {
			return nil, false
		}
		if len(clauses) == 0 {
			return clauses, true
		}
	}
}

func firstUnitLiteral(clauses []Clause) (Literal, bool) {
	for _, cl := range clauses {
		if len(cl) == 1 {
			return cl[0], true
		}
	}
	return Literal{}, false
}

func pureLiteralEliminate(clauses []Clause, numVars int, asn Assignment, stats *SATStats) ([]Clause, bool) {
	seenPos := make(map[PropVar]bool)
	seenNeg := make(map[PropVar]bool)
	for _, cl := range clauses {
		for _, l := range cl {
			if _, known := asn[l.V]; known {
				continue
			}
			if l.Pos {
				seenPos[l.V] = true
			} else {
				seenNeg[l.V] = true
			}
		}
	}
	changed := false
	for v := PropVar(0); int(v) < numVars; v++ {
		if _, known := asn[v]; known {
			continue
		}
		pos, neg := seenPos[v], seenNeg[v]
		if pos && !neg {
			asn[v] = true
			stats.PureLiterals++
			changed = true
		} else if neg && !pos {
			asn[v] = false
			stats.PureLiterals++
			changed = true
		}
	}
	if !changed {
		return clauses, true
	}
	return simplifyByAssignment(clauses, asn)
}

// chooseBranchVar picks the first unassigned PropVar in ascending
// order, the "fixed deterministic order" required by §4.2.
func chooseBranchVar(numVars int, asn Assignment) (PropVar, bool) {
	for v := PropVar(0); int(v) < numVars; v++ {
		if _, known := asn[v]; !known {
			return v, true
		}
	}
	return 0, false
}
