package montecarlo

import (
	"errors"
	"math"
	"testing"
)

func mustGrid(t *testing.T, initial float64, steps int, dt float64) *TimeGrid {
	t.Helper()
	g, err := NewTimeGrid(initial, steps, dt)
	if err != nil {
		t.Fatalf("grid err: %v", err)
	}
	return g
}

func TestBrownianDeterminism(t *testing.T) {
	g := mustGrid(t, 0, 10, 0.1)

	b1, err := NewBrownianMotion(g, 2, 500, NewSeededSource(31415))
	if err != nil {
		t.Fatalf("bm err: %v", err)
	}
	b2, err := NewBrownianMotion(g, 2, 500, NewSeededSource(31415))
	if err != nil {
		t.Fatalf("bm err: %v", err)
	}

	for f := 0; f < 2; f++ {
		for step := 0; step <= 10; step++ {
			v1, err := b1.PathValue(step, f)
			if err != nil {
				t.Fatalf("path err: %v", err)
			}
			v2, err := b2.PathValue(step, f)
			if err != nil {
				t.Fatalf("path err: %v", err)
			}
			for p := 0; p < 500; p++ {
				if v1.Get(p) != v2.Get(p) {
					t.Fatalf("paths differ at (%d,%d,%d): %v vs %v", step, f, p, v1.Get(p), v2.Get(p))
				}
			}
		}
	}
}

func TestBrownianPathConnectivity(t *testing.T) {
	g := mustGrid(t, 0, 5, 0.2)
	b, err := NewBrownianMotion(g, 1, 100, NewSeededSource(7))
	if err != nil {
		t.Fatalf("bm err: %v", err)
	}

	// initial value is zero and path[t+1] = path[t] + increment[t]
	w0, err := b.PathValue(0, 0)
	if err != nil {
		t.Fatalf("path err: %v", err)
	}
	for p := 0; p < 100; p++ {
		if w0.Get(p) != 0 {
			t.Fatalf("initial value not zero on path %d: %v", p, w0.Get(p))
		}
	}
	for step := 0; step < 5; step++ {
		prev, _ := b.PathValue(step, 0)
		next, _ := b.PathValue(step+1, 0)
		dw, _ := b.Increment(step, 0)
		for p := 0; p < 100; p++ {
			if !almostEqual(next.Get(p), prev.Get(p)+dw.Get(p), 1e-12) {
				t.Fatalf("path not connected at (%d,%d)", step, p)
			}
		}
	}
}

func TestBrownianVarianceScaling(t *testing.T) {
	g := mustGrid(t, 0, 4, 0.1)
	b, err := NewBrownianMotion(g, 1, 20000, NewSeededSource(1234))
	if err != nil {
		t.Fatalf("bm err: %v", err)
	}

	// variance of the increment across paths converges to dt; statistical
	// tolerance for 20000 samples
	for step := 0; step < 4; step++ {
		dw, err := b.Increment(step, 0)
		if err != nil {
			t.Fatalf("increment err: %v", err)
		}
		v := dw.SampleVariance()
		if math.Abs(v-0.1) > 0.01 {
			t.Fatalf("variance at step %d outside tolerance: got=%v want~0.1", step, v)
		}
	}
}

func TestBrownianDimensionErrors(t *testing.T) {
	g := mustGrid(t, 0, 3, 0.5)
	if _, err := NewBrownianMotion(g, 0, 10, NewSeededSource(1)); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch for zero factors, got %v", err)
	}
	if _, err := NewBrownianMotion(g, 1, 0, NewSeededSource(1)); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch for zero paths, got %v", err)
	}

	b, err := NewBrownianMotion(g, 1, 10, NewSeededSource(1))
	if err != nil {
		t.Fatalf("bm err: %v", err)
	}
	if _, err := b.Increment(3, 0); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch for step past end, got %v", err)
	}
	if _, err := b.PathValue(0, 1); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch for bad factor, got %v", err)
	}
}
