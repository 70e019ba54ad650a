package montecarlo

import "math"

// BlackScholesModel holds the parameters of a lognormal asset model under the
// risk-neutral measure: initial value, risk-free rate (the drift) and
// volatility. The numeraire is the deterministic money-market account
// N(t) = exp(r t) and the Monte Carlo weights are uniform.
type BlackScholesModel struct {
	initialValue float64
	riskFreeRate float64
	volatility   float64
}

// NewBlackScholesModel creates a Black-Scholes model.
func NewBlackScholesModel(initialValue, riskFreeRate, volatility float64) *BlackScholesModel {
	return &BlackScholesModel{
		initialValue: initialValue,
		riskFreeRate: riskFreeRate,
		volatility:   volatility,
	}
}

// InitialValue returns S(0).
func (m *BlackScholesModel) InitialValue() float64 { return m.initialValue }

// RiskFreeRate returns the risk-free rate.
func (m *BlackScholesModel) RiskFreeRate() float64 { return m.riskFreeRate }

// Volatility returns the lognormal volatility.
func (m *BlackScholesModel) Volatility() float64 { return m.volatility }

// NumeraireAt returns the deterministic money-market account value at t.
func (m *BlackScholesModel) NumeraireAt(t float64) float64 {
	return math.Exp(m.riskFreeRate * t)
}
