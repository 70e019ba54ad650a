package montecarlo

import (
	"errors"
	"math"
	"testing"
)

func mustSimulation(t *testing.T, initial, rate, vol float64, steps, paths int, dt float64, seed int64, scheme Scheme) *MonteCarloAssetModel {
	t.Helper()
	g := mustGrid(t, 0, steps, dt)
	bm, err := NewBrownianMotion(g, 1, paths, NewSeededSource(seed))
	if err != nil {
		t.Fatalf("bm err: %v", err)
	}
	proc, err := NewEulerScheme(bm, scheme)
	if err != nil {
		t.Fatalf("scheme err: %v", err)
	}
	return NewMonteCarloAssetModel(NewBlackScholesModel(initial, rate, vol), proc)
}

func TestAssetValueInitial(t *testing.T) {
	sim := mustSimulation(t, 100, 0.04, 0.25, 10, 200, 0.1, 42, SchemeLogEuler)

	s0, err := sim.AssetValue(0, 0)
	if err != nil {
		t.Fatalf("asset err: %v", err)
	}
	for p := 0; p < 200; p++ {
		if s0.Get(p) != 100 {
			t.Fatalf("initial asset value mismatch on path %d: %v", p, s0.Get(p))
		}
	}
}

func TestLogEulerPositivity(t *testing.T) {
	// high volatility stresses the scheme; log-Euler must stay positive
	sim := mustSimulation(t, 50, 0.0, 1.5, 20, 2000, 0.25, 99, SchemeLogEuler)
	sT, err := sim.AssetValue(5.0, 0)
	if err != nil {
		t.Fatalf("asset err: %v", err)
	}
	for p := 0; p < sT.Size(); p++ {
		if sT.Get(p) <= 0 {
			t.Fatalf("log-Euler produced non-positive value on path %d: %v", p, sT.Get(p))
		}
	}
}

func TestArithmeticEulerScheme(t *testing.T) {
	// single deterministic check of the recursion S + mu*S*dt + sigma*S*dW
	g := mustGrid(t, 0, 1, 1.0)
	bm, err := NewBrownianMotion(g, 1, 3, NewSeededSource(5))
	if err != nil {
		t.Fatalf("bm err: %v", err)
	}
	proc, err := NewEulerScheme(bm, SchemeEuler)
	if err != nil {
		t.Fatalf("scheme err: %v", err)
	}
	sim := NewMonteCarloAssetModel(NewBlackScholesModel(100, 0.05, 0.2), proc)

	dw, err := bm.Increment(0, 0)
	if err != nil {
		t.Fatalf("increment err: %v", err)
	}
	sT, err := sim.AssetValue(1.0, 0)
	if err != nil {
		t.Fatalf("asset err: %v", err)
	}
	for p := 0; p < 3; p++ {
		want := 100 + 0.05*100*1.0 + 0.2*100*dw.Get(p)
		if !almostEqual(sT.Get(p), want, 1e-9) {
			t.Fatalf("euler step mismatch on path %d: got=%v want=%v", p, sT.Get(p), want)
		}
	}
}

func TestNumeraireAndWeights(t *testing.T) {
	sim := mustSimulation(t, 100, 0.04, 0.25, 10, 50, 0.1, 42, SchemeLogEuler)

	n, err := sim.Numeraire(1.0)
	if err != nil {
		t.Fatalf("numeraire err: %v", err)
	}
	want := math.Exp(0.04)
	for p := 0; p < 50; p++ {
		if !almostEqual(n.Get(p), want, 1e-12) {
			t.Fatalf("numeraire mismatch on path %d: got=%v want=%v", p, n.Get(p), want)
		}
	}

	w, err := sim.MonteCarloWeights(0.5)
	if err != nil {
		t.Fatalf("weights err: %v", err)
	}
	for p := 0; p < 50; p++ {
		if w.Get(p) != 1 {
			t.Fatalf("weight mismatch on path %d: %v", p, w.Get(p))
		}
	}
}

func TestQueriesOutOfRange(t *testing.T) {
	sim := mustSimulation(t, 100, 0.04, 0.25, 10, 50, 0.1, 42, SchemeLogEuler)

	if _, err := sim.Numeraire(2.0); !errors.Is(err, ErrTimeOutOfRange) {
		t.Fatalf("expected ErrTimeOutOfRange, got %v", err)
	}
	if _, err := sim.MonteCarloWeights(-0.5); !errors.Is(err, ErrTimeOutOfRange) {
		t.Fatalf("expected ErrTimeOutOfRange, got %v", err)
	}
	if _, err := sim.AssetValue(5.0, 0); !errors.Is(err, ErrTimeOutOfRange) {
		t.Fatalf("expected ErrTimeOutOfRange, got %v", err)
	}
	if _, err := sim.AssetValue(0.5, 3); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestUnderlyingNameLookup(t *testing.T) {
	sim := mustSimulation(t, 100, 0.04, 0.25, 10, 50, 0.1, 42, SchemeLogEuler)
	sim.SetUnderlyingNames([]string{"AAPL"})

	i, err := sim.UnderlyingIndex("AAPL")
	if err != nil {
		t.Fatalf("lookup err: %v", err)
	}
	if i != 0 {
		t.Fatalf("index mismatch: got=%d", i)
	}
	if _, err := sim.UnderlyingIndex("MSFT"); err == nil {
		t.Fatalf("expected error for unknown name")
	}
}
