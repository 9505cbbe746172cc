package relucore

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// VarID names a single real-valued variable (an input, a ReLU pair
// member, or a Simplex slack). VarIDs are assigned in a deterministic
// first-seen order by an AtomTable so that DPLL's "first unassigned
// variable in a fixed deterministic order" decision rule (§4.2) and
// Bland's rule tie-breaking (§4.3) both have something stable to sort
// by.
type VarID int

// AtomID is the interned identity of a theory atom. It is not itself a
// PropVar: the Tseitin encoder gives each distinct AtomID its own
// PropVar through CNF.varForAtom and records the pair both ways, which
// is what gives SAT literals and theory literals a 1:1 correspondence,
// per §3. The two numbers generally differ.
type AtomID int

// Term is one coefficient*variable summand of a linear inequality.
type Term struct {
	Var   VarID
	Coeff Rat
}

// IneqAtom is `Σ cᵢ·xᵢ ≥ bound`, per §3.
type IneqAtom struct {
	Terms []Term
	Bound Rat
}

// ReluAtom is `y = max(0, x)`, per §3.
type ReluAtom struct {
	X, Y VarID
}

type atomAny struct {
	isRelu bool
	ineq   IneqAtom
	relu   ReluAtom
}

// AtomTable interns variables and theory atoms by structural equality,
// hash-consing the same way the teacher's ExprBuilder interns bitvector
// and boolean expressions (bucketed by a 64-bit hash, resolved by an
// equality check within the bucket) — here specialised to the fixed
// two-atom vocabulary of §3 instead of a general expression tree.
type AtomTable struct {
	varNames []string
	varIDs   map[string]VarID

	buckets map[uint64][]AtomID
	atoms   []atomAny
}

func NewAtomTable() *AtomTable {
	return &AtomTable{
		varIDs:  make(map[string]VarID),
		buckets: make(map[uint64][]AtomID),
	}
}

// Var interns a real-valued variable by name, returning the same VarID
// on every subsequent call with that name.
func (t *AtomTable) Var(name string) VarID {
	if id, ok := t.varIDs[name]; ok {
		return id
	}
	id := VarID(len(t.varNames))
	t.varNames = append(t.varNames, name)
	t.varIDs[name] = id
	return id
}

func (t *AtomTable) VarName(v VarID) string {
	if int(v) < 0 || int(v) >= len(t.varNames) {
		return fmt.Sprintf("v%d", v)
	}
	return t.varNames[v]
}

func (t *AtomTable) NumVars() int { return len(t.varNames) }

// canonicalTerms sorts terms by VarID and merges duplicates, so that
// `ineq(1,x,1,x,5)` and a pre-summed `ineq(2,x,5)` hash and compare
// identically.
func canonicalTerms(terms []Term) []Term {
	merged := make(map[VarID]Rat, len(terms))
	order := make([]VarID, 0, len(terms))
	for _, tm := range terms {
		if c, ok := merged[tm.Var]; ok {
			merged[tm.Var] = c.Add(tm.Coeff)
		} else {
			merged[tm.Var] = tm.Coeff
			order = append(order, tm.Var)
		}
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	out := make([]Term, 0, len(order))
	for _, v := range order {
		c := merged[v]
		if c.IsZero() {
			continue
		}
		out = append(out, Term{Var: v, Coeff: c})
	}
	return out
}

func hashIneq(terms []Term, bound Rat) uint64 {
	h := xxhash.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(TY_INEQ))
	h.Write(buf[:])
	for _, tm := range terms {
		binary.LittleEndian.PutUint64(buf[:], uint64(tm.Var))
		h.Write(buf[:])
		h.Write([]byte(tm.Coeff.String()))
	}
	h.Write([]byte(bound.String()))
	return h.Sum64()
}

func hashRelu(x, y VarID) uint64 {
	h := xxhash.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(TY_RELU))
	h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(x))
	h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(y))
	h.Write(buf[:])
	return h.Sum64()
}

const (
	TY_INEQ = 1
	TY_RELU = 2
)

func ineqEqual(a, b IneqAtom) bool {
	if !a.Bound.Equal(b.Bound) || len(a.Terms) != len(b.Terms) {
		return false
	}
	for i := range a.Terms {
		if a.Terms[i].Var != b.Terms[i].Var || !a.Terms[i].Coeff.Equal(b.Terms[i].Coeff) {
			return false
		}
	}
	return true
}

// Ineq interns `Σ cᵢ·xᵢ ≥ bound`, returning its AtomID, which the
// Tseitin encoder later maps to this atom's PropVar.
func (t *AtomTable) Ineq(terms []Term, bound Rat) AtomID {
	canon := canonicalTerms(terms)
	h := hashIneq(canon, bound)
	for _, id := range t.buckets[h] {
		if a := t.atoms[id]; !a.isRelu && ineqEqual(a.ineq, IneqAtom{Terms: canon, Bound: bound}) {
			return id
		}
	}
	id := AtomID(len(t.atoms))
	t.atoms = append(t.atoms, atomAny{ineq: IneqAtom{Terms: canon, Bound: bound}})
	t.buckets[h] = append(t.buckets[h], id)
	return id
}

// Relu interns `y = max(0, x)`.
func (t *AtomTable) Relu(x, y VarID) AtomID {
	h := hashRelu(x, y)
	for _, id := range t.buckets[h] {
		if a := t.atoms[id]; a.isRelu && a.relu.X == x && a.relu.Y == y {
			return id
		}
	}
	id := AtomID(len(t.atoms))
	t.atoms = append(t.atoms, atomAny{isRelu: true, relu: ReluAtom{X: x, Y: y}})
	t.buckets[h] = append(t.buckets[h], id)
	return id
}

func (t *AtomTable) IsRelu(id AtomID) bool { return t.atoms[id].isRelu }

func (t *AtomTable) Ineq_(id AtomID) IneqAtom { return t.atoms[id].ineq }
func (t *AtomTable) Relu_(id AtomID) ReluAtom { return t.atoms[id].relu }

func (t *AtomTable) String(id AtomID) string {
	a := t.atoms[id]
	if a.isRelu {
		return fmt.Sprintf("relu(%s,%s)", t.VarName(a.relu.X), t.VarName(a.relu.Y))
	}
	s := ""
	for i, tm := range a.ineq.Terms {
		if i > 0 {
			s += " + "
		}
		s += fmt.Sprintf("%s*%s", tm.Coeff.String(), t.VarName(tm.Var))
	}
	return fmt.Sprintf("(%s >= %s)", s, a.ineq.Bound.String())
}

// NegatedIneq returns the atom for the strict complement of an Ineq
// atom: `¬(Σcᵢxᵢ ≥ b)` is `Σcᵢxᵢ < b`, encoded per §6 by weakening to
// `Σ(-cᵢ)xᵢ ≥ -b + ε`.
func (t *AtomTable) NegatedIneq(id AtomID) AtomID {
	a := t.Ineq_(id)
	negTerms := make([]Term, len(a.Terms))
	for i, tm := range a.Terms {
		negTerms[i] = Term{Var: tm.Var, Coeff: tm.Coeff.Neg()}
	}
	negBound := a.Bound.Neg().Add(Epsilon)
	return t.Ineq(negTerms, negBound)
}
