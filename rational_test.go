package relucore

import "testing"

func TestRatFromString(t *testing.T) {
	r, err := RatFromString("1.5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.Equal(RatFromFloat(1.5)) {
		t.Errorf("got %s, want 1.5", r)
	}
}

func TestRatFromStringScientific(t *testing.T) {
	r, err := RatFromString("1e-9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.GreaterThan(RatFromFloat(1e-8)) {
		t.Errorf("1e-9 parsed too large: %s", r)
	}
}

func TestRatFromStringMalformed(t *testing.T) {
	if _, err := RatFromString("not-a-number"); err == nil {
		t.Errorf("expected an error for malformed input")
	}
}

func TestRatArithmetic(t *testing.T) {
	a := RatFromInt64(3)
	b := RatFromInt64(2)
	if !a.Add(b).Equal(RatFromInt64(5)) {
		t.Errorf("3+2 != 5")
	}
	if !a.Sub(b).Equal(RatFromInt64(1)) {
		t.Errorf("3-2 != 1")
	}
	if !a.Mul(b).Equal(RatFromInt64(6)) {
		t.Errorf("3*2 != 6")
	}
	if !a.Quo(b).Equal(mustRat(t, "3/2")) {
		t.Errorf("3/2 mismatch")
	}
}

func mustRat(t *testing.T, s string) Rat {
	r, err := RatFromString(s)
	if err != nil {
		t.Fatalf("bad literal %q: %v", s, err)
	}
	return r
}

func TestRatCmp(t *testing.T) {
	if !RatFromInt64(1).LessThan(RatFromInt64(2)) {
		t.Errorf("1 should be less than 2")
	}
	if !RatFromInt64(2).GreaterThan(RatFromInt64(1)) {
		t.Errorf("2 should be greater than 1")
	}
	if Zero().Sign() != 0 {
		t.Errorf("zero should have sign 0")
	}
}
