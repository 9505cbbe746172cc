package relucore

import (
	"fmt"
	"math/big"
)

// Rat is an exact rational number, used throughout the tableau and the
// propositional atoms so that pivoting and bound comparisons never
// accumulate floating-point error (see §9 of the spec: exact rationals
// are strongly preferred over float+epsilon).
type Rat struct {
	v *big.Rat
}

// Epsilon is the tolerance used only for the strict-inequality encoding
// described by the atom grammar (e.g. `ineq(-1,y,1e-9)` for `y < 0`).
// Because Rat comparisons are exact, Epsilon is a value, not a fudge
// factor applied to every comparison.
var Epsilon = RatFromFloat(1e-9)

func RatFromInt64(n int64) Rat {
	return Rat{v: big.NewRat(n, 1)}
}

func RatFromFloat(f float64) Rat {
	r := new(big.Rat)
	r.SetFloat64(f)
	return Rat{v: r}
}

// RatFromString parses a decimal literal, possibly in scientific
// notation, as required by the atom-expression grammar's `number`
// production.
func RatFromString(s string) (Rat, error) {
	r := new(big.Rat)
	if _, ok := r.SetString(s); !ok {
		f, err := parseFloatLiteral(s)
		if err != nil {
			return Rat{}, newError(ErrMalformedInput, "not a number: %q", s)
		}
		r.SetFloat64(f)
	}
	return Rat{v: r}, nil
}

func Zero() Rat { return RatFromInt64(0) }

func (r Rat) IsZero() bool {
	return r.v == nil || r.v.Sign() == 0
}

func (r Rat) ratOrZero() *big.Rat {
	if r.v == nil {
		return new(big.Rat)
	}
	return r.v
}

func (r Rat) Add(o Rat) Rat {
	return Rat{v: new(big.Rat).Add(r.ratOrZero(), o.ratOrZero())}
}

func (r Rat) Sub(o Rat) Rat {
	return Rat{v: new(big.Rat).Sub(r.ratOrZero(), o.ratOrZero())}
}

func (r Rat) Mul(o Rat) Rat {
	return Rat{v: new(big.Rat).Mul(r.ratOrZero(), o.ratOrZero())}
}

func (r Rat) Quo(o Rat) Rat {
	return Rat{v: new(big.Rat).Quo(r.ratOrZero(), o.ratOrZero())}
}

func (r Rat) Neg() Rat {
	return Rat{v: new(big.Rat).Neg(r.ratOrZero())}
}

// Cmp returns -1, 0 or 1 exactly, same contract as big.Rat.Cmp.
func (r Rat) Cmp(o Rat) int {
	return r.ratOrZero().Cmp(o.ratOrZero())
}

func (r Rat) LessThan(o Rat) bool    { return r.Cmp(o) < 0 }
func (r Rat) GreaterThan(o Rat) bool { return r.Cmp(o) > 0 }
func (r Rat) Equal(o Rat) bool       { return r.Cmp(o) == 0 }
func (r Rat) Sign() int              { return r.ratOrZero().Sign() }

func (r Rat) String() string {
	if r.v == nil {
		return "0"
	}
	if r.v.IsInt() {
		return r.v.RatString()
	}
	return r.v.FloatString(6)
}

// Float64 is used only at the edges (CLI/formatting), never inside the
// solver's own comparisons.
func (r Rat) Float64() float64 {
	f, _ := r.ratOrZero().Float64()
	return f
}

func parseFloatLiteral(s string) (float64, error) {
	var f float64
	_, err := fmt.Sscanf(s, "%g", &f)
	return f, err
}
