package montecarlo

import (
	"errors"
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestRandomVariableOps(t *testing.T) {
	r := NewRandomVariable([]float64{100, 80, 95})

	payoff := r.Sub(90).Floor(0)
	want := []float64{10, 0, 5}
	for i, w := range want {
		if payoff.Get(i) != w {
			t.Fatalf("payoff[%d] mismatch: got=%v want=%v", i, payoff.Get(i), w)
		}
	}

	// transformations never mutate the source
	if r.Get(0) != 100 {
		t.Fatalf("source mutated: got=%v", r.Get(0))
	}

	n := ConstantVariable(3, 2)
	d, err := payoff.Div(n)
	if err != nil {
		t.Fatalf("div err: %v", err)
	}
	if d.Get(0) != 5 || d.Get(2) != 2.5 {
		t.Fatalf("div mismatch: got=%v,%v", d.Get(0), d.Get(2))
	}

	if _, err := payoff.Mult(ConstantVariable(4, 1)); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestKnockout(t *testing.T) {
	r := NewRandomVariable([]float64{5, 10, 15, 0})

	ko := r.Knockout(10)
	want := []float64{5, 0, 0, 0}
	for i, w := range want {
		if ko.Get(i) != w {
			t.Fatalf("knockout[%d] mismatch: got=%v want=%v", i, ko.Get(i), w)
		}
	}

	// no-barrier sentinel is a no-op on every path
	open := r.Knockout(NoBarrier())
	for i := 0; i < r.Size(); i++ {
		if open.Get(i) != r.Get(i) {
			t.Fatalf("no-barrier changed path %d: got=%v want=%v", i, open.Get(i), r.Get(i))
		}
	}
}

func TestRandomVariableStats(t *testing.T) {
	r := NewRandomVariable([]float64{1, 2, 3, 4})
	if !almostEqual(r.Average(), 2.5, 1e-12) {
		t.Fatalf("average mismatch: got=%v", r.Average())
	}
	// unbiased variance of {1,2,3,4} is 5/3
	if !almostEqual(r.SampleVariance(), 5.0/3.0, 1e-12) {
		t.Fatalf("variance mismatch: got=%v", r.SampleVariance())
	}
	if !almostEqual(r.StdError(), math.Sqrt(5.0/3.0/4.0), 1e-12) {
		t.Fatalf("stderr mismatch: got=%v", r.StdError())
	}
}
