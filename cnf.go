package relucore

import "fmt"

// PropVar is a SAT-level propositional variable id: either a Tseitin
// auxiliary, a plain propositional Var leaf, or the variable
// varForAtom assigned to a theory atom (per §3, so theory atoms recover
// 1:1 from a satisfying assignment via AtomOf). A theory atom's PropVar
// is a fresh number, not its AtomID.
type PropVar int

type Literal struct {
	V   PropVar
	Pos bool
}

func (l Literal) Neg() Literal { return Literal{V: l.V, Pos: !l.Pos} }

func (l Literal) String() string {
	if l.Pos {
		return fmt.Sprintf("x%d", l.V)
	}
	return fmt.Sprintf("~x%d", l.V)
}

type Clause []Literal

// CNF is the Tseitin encoder's output: a deterministic, append-only
// (within DPLL(T)'s lifetime — see §5) list of clauses plus enough
// bookkeeping to map a satisfying PropVar assignment back to theory
// atoms and named propositional variables.
type CNF struct {
	Clauses []Clause

	nextVar   PropVar
	atomVar   map[AtomID]PropVar
	varAtom   map[PropVar]AtomID
	propNames map[string]PropVar
	propVar   map[PropVar]string
}

func newCNF() *CNF {
	return &CNF{
		atomVar:   make(map[AtomID]PropVar),
		varAtom:   make(map[PropVar]AtomID),
		propNames: make(map[string]PropVar),
		propVar:   make(map[PropVar]string),
	}
}

func (c *CNF) freshVar() PropVar {
	v := c.nextVar
	c.nextVar++
	return v
}

func (c *CNF) varForAtom(id AtomID) PropVar {
	if v, ok := c.atomVar[id]; ok {
		return v
	}
	v := c.freshVar()
	c.atomVar[id] = v
	c.varAtom[v] = id
	return v
}

func (c *CNF) varForName(name string) PropVar {
	if v, ok := c.propNames[name]; ok {
		return v
	}
	v := c.freshVar()
	c.propNames[name] = v
	c.propVar[v] = name
	return v
}

// AtomOf reports the AtomID a PropVar represents, if it represents a
// theory atom rather than a plain propositional name or a Tseitin
// auxiliary.
func (c *CNF) AtomOf(v PropVar) (AtomID, bool) {
	id, ok := c.varAtom[v]
	return id, ok
}

func (c *CNF) addClause(lits ...Literal) {
	cl := make(Clause, len(lits))
	copy(cl, lits)
	c.Clauses = append(c.Clauses, cl)
}

// AddBlockingClause appends a blocking clause learned by DPLL(T)
// (§4.5 step 7). The CNF is append-only across DPLL(T) iterations, per
// §5.
func (c *CNF) AddBlockingClause(cl Clause) {
	c.Clauses = append(c.Clauses, cl)
}

func (c *CNF) NumVars() int { return int(c.nextVar) }
