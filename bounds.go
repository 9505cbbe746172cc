package relucore

// Bound is a variable's [lower, upper] range, per §3's I3
// (l(x) ≤ u(x), violation is immediate UNSAT). Absence of a finite
// lower/upper is represented by HasLower/HasUpper rather than a
// sentinel Rat, since Rat has no infinities of its own.
type Bound struct {
	HasLower bool
	Lower    Rat
	HasUpper bool
	Upper    Rat
}

func UnboundedBound() Bound {
	return Bound{}
}

func AtLeast(lo Rat) Bound {
	return Bound{HasLower: true, Lower: lo}
}

func AtMost(hi Rat) Bound {
	return Bound{HasUpper: true, Upper: hi}
}

func Between(lo, hi Rat) Bound {
	return Bound{HasLower: true, Lower: lo, HasUpper: true, Upper: hi}
}

// Empty reports whether the bound's interval is inconsistent
// (l(x) > u(x)), which §3's I3 says is immediate UNSAT.
func (b Bound) Empty() bool {
	return b.HasLower && b.HasUpper && b.Lower.GreaterThan(b.Upper)
}

// Contains reports whether v is within [lower, upper], exactly (Rat
// comparisons never need an epsilon tolerance).
func (b Bound) Contains(v Rat) bool {
	if b.HasLower && v.LessThan(b.Lower) {
		return false
	}
	if b.HasUpper && v.GreaterThan(b.Upper) {
		return false
	}
	return true
}

// Clamp returns v pulled inside [lower, upper] if it falls outside.
func (b Bound) Clamp(v Rat) Rat {
	if b.HasLower && v.LessThan(b.Lower) {
		return b.Lower
	}
	if b.HasUpper && v.GreaterThan(b.Upper) {
		return b.Upper
	}
	return v
}

// WithLower returns a copy of b with a tightened lower bound: the
// tighter of the two bounds wins, per §4.3's "tightening a bound"
// rule.
func (b Bound) WithLower(lo Rat) Bound {
	if b.HasLower && b.Lower.GreaterThan(lo) {
		lo = b.Lower
	}
	return Bound{HasLower: true, Lower: lo, HasUpper: b.HasUpper, Upper: b.Upper}
}

func (b Bound) WithUpper(hi Rat) Bound {
	if b.HasUpper && b.Upper.LessThan(hi) {
		hi = b.Upper
	}
	return Bound{HasLower: b.HasLower, Lower: b.Lower, HasUpper: true, Upper: hi}
}
