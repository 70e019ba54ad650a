package montecarlo

import (
	"errors"
	"math"
	"testing"
)

func TestNoBarrierMatchesPlainValuation(t *testing.T) {
	sim := mustSimulation(t, 100, 0.04, 0.25, 10, 2000, 0.1, 31415, SchemeLogEuler)

	barriered := NewEuropeanOption(1.0, 90, NoBarrier(), 0)
	plain := NewEuropeanOption(1.0, 90, NoBarrier(), 0)

	v1, err := barriered.Value(0, sim)
	if err != nil {
		t.Fatalf("value err: %v", err)
	}
	v2, err := plain.Value(0, sim)
	if err != nil {
		t.Fatalf("value err: %v", err)
	}
	for p := 0; p < v1.Size(); p++ {
		if v1.Get(p) != v2.Get(p) {
			t.Fatalf("no-barrier valuation differs on path %d: %v vs %v", p, v1.Get(p), v2.Get(p))
		}
	}
}

func TestBarrierKnockoutPerPath(t *testing.T) {
	sim := mustSimulation(t, 100, 0.04, 0.25, 10, 2000, 0.1, 31415, SchemeLogEuler)

	const barrier = 15.0
	open := NewEuropeanOption(1.0, 90, NoBarrier(), 0)
	ko := NewEuropeanOption(1.0, 90, barrier, 0)

	sT, err := sim.AssetValue(1.0, 0)
	if err != nil {
		t.Fatalf("asset err: %v", err)
	}
	rawPayoff := sT.Sub(90).Floor(0)

	vOpen, err := open.Value(0, sim)
	if err != nil {
		t.Fatalf("value err: %v", err)
	}
	vKO, err := ko.Value(0, sim)
	if err != nil {
		t.Fatalf("value err: %v", err)
	}

	for p := 0; p < vKO.Size(); p++ {
		if rawPayoff.Get(p) >= barrier {
			if vKO.Get(p) != 0 {
				t.Fatalf("path %d payoff %v >= barrier but value %v != 0", p, rawPayoff.Get(p), vKO.Get(p))
			}
		} else if vKO.Get(p) != vOpen.Get(p) {
			t.Fatalf("path %d below barrier but values differ: %v vs %v", p, vKO.Get(p), vOpen.Get(p))
		}
	}
}

func TestDiscountingRoundTripAtMaturity(t *testing.T) {
	sim := mustSimulation(t, 100, 0.04, 0.25, 10, 1000, 0.1, 2718, SchemeLogEuler)
	opt := NewEuropeanOption(1.0, 90, NoBarrier(), 0)

	sT, err := sim.AssetValue(1.0, 0)
	if err != nil {
		t.Fatalf("asset err: %v", err)
	}
	raw := sT.Sub(90).Floor(0)

	// evaluating at maturity: the maturity and evaluation-time terms cancel,
	// leaving the raw payoff untouched
	v, err := opt.Value(1.0, sim)
	if err != nil {
		t.Fatalf("value err: %v", err)
	}
	for p := 0; p < v.Size(); p++ {
		if !almostEqual(v.Get(p), raw.Get(p), 1e-9) {
			t.Fatalf("round trip mismatch on path %d: got=%v want=%v", p, v.Get(p), raw.Get(p))
		}
	}
}

func TestMonteCarloMatchesAnalytic(t *testing.T) {
	// the reference scenario: S0=100, r=0.04, sigma=0.25, T=1, K=90,
	// 10 steps of 0.1, 10000 paths, seed 31415, no barrier
	sim := mustSimulation(t, 100, 0.04, 0.25, 10, 10000, 0.1, 31415, SchemeLogEuler)
	opt := NewEuropeanOption(1.0, 90, NoBarrier(), 0)

	price, err := opt.Price(sim)
	if err != nil {
		t.Fatalf("price err: %v", err)
	}
	analytic := BlackScholesCallPrice(100, 0.04, 0.25, 1.0, 90)

	// tolerance driven by the Monte Carlo error at 10000 paths
	if math.Abs(price-analytic) > 1.5 {
		t.Fatalf("MC price %v too far from analytic %v", price, analytic)
	}
}

func TestBarrierLowersPrice(t *testing.T) {
	sim := mustSimulation(t, 100, 0.04, 0.25, 10, 10000, 0.1, 31415, SchemeLogEuler)

	open := NewEuropeanOption(1.0, 90, NoBarrier(), 0)
	ko := NewEuropeanOption(1.0, 90, 10.0, 0) // threshold well inside the payoff range

	pOpen, err := open.Price(sim)
	if err != nil {
		t.Fatalf("price err: %v", err)
	}
	pKO, err := ko.Price(sim)
	if err != nil {
		t.Fatalf("price err: %v", err)
	}
	if !(pKO < pOpen) {
		t.Fatalf("knockout price %v not below open price %v", pKO, pOpen)
	}
}

func TestValueWrapsUpstreamFailure(t *testing.T) {
	sim := mustSimulation(t, 100, 0.04, 0.25, 10, 100, 0.1, 31415, SchemeLogEuler)

	// maturity beyond the simulated horizon fails in the asset fetch
	opt := NewEuropeanOption(2.0, 90, NoBarrier(), 0)
	_, err := opt.Value(0, sim)
	if err == nil {
		t.Fatalf("expected error")
	}
	var ce *CalculationError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CalculationError, got %T", err)
	}
	if !errors.Is(err, ErrTimeOutOfRange) {
		t.Fatalf("cause not preserved: %v", err)
	}
}

func TestNamedUnderlyingValuation(t *testing.T) {
	sim := mustSimulation(t, 100, 0.04, 0.25, 10, 500, 0.1, 31415, SchemeLogEuler)
	sim.SetUnderlyingNames([]string{"BINANCE:BTCUSDT"})

	byIndex := NewEuropeanOption(1.0, 90, NoBarrier(), 0)
	byName := NewEuropeanOptionNamed(1.0, 90, NoBarrier(), "BINANCE:BTCUSDT")

	p1, err := byIndex.Price(sim)
	if err != nil {
		t.Fatalf("price err: %v", err)
	}
	p2, err := byName.Price(sim)
	if err != nil {
		t.Fatalf("price err: %v", err)
	}
	if p1 != p2 {
		t.Fatalf("name and index pricing differ: %v vs %v", p1, p2)
	}
}
