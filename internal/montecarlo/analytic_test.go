package montecarlo

import (
	"math"
	"testing"
)

func TestBlackScholesReferenceCase(t *testing.T) {
	// classic parameters: S=100, K=100, r=0.05, sigma=0.2, T=1
	call := BlackScholesCallPrice(100, 0.05, 0.2, 1.0, 100)
	put := BlackScholesPutPrice(100, 0.05, 0.2, 1.0, 100)

	if !almostEqual(call, 10.450583572185565, 1e-9) {
		t.Fatalf("call price mismatch: got=%v", call)
	}
	if !almostEqual(put, 5.573526022256971, 1e-9) {
		t.Fatalf("put price mismatch: got=%v", put)
	}
}

func TestBlackScholesPutCallParity(t *testing.T) {
	S, K, r, sigma, T := 100.0, 90.0, 0.04, 0.25, 1.0
	call := BlackScholesCallPrice(S, r, sigma, T, K)
	put := BlackScholesPutPrice(S, r, sigma, T, K)

	left := call - put
	right := S - K*math.Exp(-r*T)
	if !almostEqual(left, right, 1e-9) {
		t.Fatalf("parity mismatch: left=%v right=%v", left, right)
	}
}

func TestBlackScholesDeterministicLimits(t *testing.T) {
	// T=0 reduces to intrinsic value
	if got := BlackScholesCallPrice(90, 0.05, 0.2, 0, 100); got != 0 {
		t.Fatalf("call intrinsic mismatch: got=%v", got)
	}
	// sigma=0 reduces to discounted intrinsic value
	want := math.Max(100-120*math.Exp(-0.05), 0)
	if got := BlackScholesCallPrice(100, 0.05, 0, 1.0, 120); !almostEqual(got, want, 1e-12) {
		t.Fatalf("sigma0 call mismatch: got=%v want=%v", got, want)
	}
}
