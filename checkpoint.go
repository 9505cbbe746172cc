package relucore

// checkpoint captures enough of a Tableau's state to restore it after
// a ReLUplex case-split's branch fails, per §4.4's "explicit checkpoint
// stack" design note. The tableau and mode state of a failed branch is
// discarded by popping a slice; the branch exploration itself still
// recurses (runReluplexBranch calls itself once per case-split, up to
// MaxCaseSplitRecursion levels deep), so the Go call depth grows with
// the split depth.
type checkpoint struct {
	tableau *Tableau
	// reluMode records, for each ReLU pair considered for case-split at
	// or below this checkpoint, the most recent side attempted (active:
	// y=x, or inactive: y=0) — including sides that were tried and
	// failed, so a pop back to this level knows which branch to try
	// next instead of re-deciding the same one forever.
	reluMode map[ReluAtom]reluMode
}

type reluMode int

const (
	reluUndetermined reluMode = iota
	reluActive                // x >= 0, y = x
	reluInactive              // x <= 0, y = 0
)

// checkpointStack is the ReLUplex case-split backtracking structure.
type checkpointStack struct {
	stack []checkpoint
}

func newCheckpointStack(t *Tableau, modes map[ReluAtom]reluMode) *checkpointStack {
	return &checkpointStack{stack: []checkpoint{{tableau: t, reluMode: modes}}}
}

func (s *checkpointStack) top() checkpoint {
	return s.stack[len(s.stack)-1]
}

// push snapshots the current top before a case-split commits to a
// branch, so the branch can be undone by pop.
func (s *checkpointStack) push(modeVar ReluAtom, mode reluMode) {
	cur := s.top()
	clonedModes := make(map[ReluAtom]reluMode, len(cur.reluMode)+1)
	for k, v := range cur.reluMode {
		clonedModes[k] = v
	}
	clonedModes[modeVar] = mode
	s.stack = append(s.stack, checkpoint{
		tableau:  cur.tableau.CloneForCheckpoint(),
		reluMode: clonedModes,
	})
}

// pop discards the most recent checkpoint, restoring the branch below
// it. It reports false if there is nothing left to pop (the root
// checkpoint has been reached and every case has failed).
func (s *checkpointStack) pop() bool {
	if len(s.stack) <= 1 {
		return false
	}
	s.stack = s.stack[:len(s.stack)-1]
	return true
}

// replaceTop swaps the tableau of the current checkpoint for a
// validated repair, leaving reluMode untouched.
func (s *checkpointStack) replaceTop(t *Tableau) {
	s.stack[len(s.stack)-1].tableau = t
}
