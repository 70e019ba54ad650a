package montecarlo

import "math"

// BlackScholesCallPrice returns the closed-form Black-Scholes value of a
// European call. Used as an analytic reference for Monte Carlo validation;
// nothing in the simulation depends on it.
func BlackScholesCallPrice(spot, rate, volatility, maturity, strike float64) float64 {
	if maturity <= 0 || volatility <= 0 {
		// deterministic limit: discounted intrinsic value
		return math.Max(spot-strike*math.Exp(-rate*maturity), 0)
	}
	sqrtT := math.Sqrt(maturity)
	d1 := (math.Log(spot/strike) + (rate+0.5*volatility*volatility)*maturity) / (volatility * sqrtT)
	d2 := d1 - volatility*sqrtT
	return spot*normCDF(d1) - strike*math.Exp(-rate*maturity)*normCDF(d2)
}

// BlackScholesPutPrice returns the closed-form value of a European put.
func BlackScholesPutPrice(spot, rate, volatility, maturity, strike float64) float64 {
	if maturity <= 0 || volatility <= 0 {
		return math.Max(strike*math.Exp(-rate*maturity)-spot, 0)
	}
	sqrtT := math.Sqrt(maturity)
	d1 := (math.Log(spot/strike) + (rate+0.5*volatility*volatility)*maturity) / (volatility * sqrtT)
	d2 := d1 - volatility*sqrtT
	return strike*math.Exp(-rate*maturity)*normCDF(-d2) - spot*normCDF(-d1)
}

func normCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}
