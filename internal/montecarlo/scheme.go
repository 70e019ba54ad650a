package montecarlo

import (
	"fmt"
	"math"
)

// Scheme selects the discretization applied by EulerScheme.
type Scheme string

const (
	// SchemeLogEuler is the lognormal Euler discretization
	// S(t+1) = S(t) * exp((mu - sigma^2/2) dt + sigma dW). Positivity is
	// guaranteed by the exponential form.
	SchemeLogEuler Scheme = "log_euler"

	// SchemeEuler is the arithmetic Euler discretization
	// S(t+1) = S(t) + mu S(t) dt + sigma S(t) dW. Paths may go negative;
	// that is an accepted approximation artifact and is not corrected.
	SchemeEuler Scheme = "euler"
)

// ParseScheme normalizes a raw scheme name, defaulting to log-Euler.
func ParseScheme(s string) Scheme {
	if Scheme(s) == SchemeEuler {
		return SchemeEuler
	}
	return SchemeLogEuler
}

// EulerScheme turns Brownian paths into asset-price paths for given model
// parameters. One asset path is evolved per factor, driven by that factor's
// increments.
type EulerScheme struct {
	bm     *BrownianMotion
	scheme Scheme
}

// NewEulerScheme creates a discretization over the given Brownian driver.
func NewEulerScheme(bm *BrownianMotion, scheme Scheme) (*EulerScheme, error) {
	if bm == nil {
		return nil, fmt.Errorf("%w: nil brownian motion", ErrDimensionMismatch)
	}
	switch scheme {
	case SchemeLogEuler, SchemeEuler:
	default:
		return nil, fmt.Errorf("unknown scheme %q", scheme)
	}
	return &EulerScheme{bm: bm, scheme: scheme}, nil
}

// Grid returns the driver's time discretization.
func (s *EulerScheme) Grid() *TimeGrid { return s.bm.Grid() }

// NumberOfPaths returns the driver's path count.
func (s *EulerScheme) NumberOfPaths() int { return s.bm.NumberOfPaths() }

// NumberOfFactors returns the driver's factor count.
func (s *EulerScheme) NumberOfFactors() int { return s.bm.NumberOfFactors() }

// Evolve builds the asset-price tensor from the Brownian increments.
// S(0) equals initial on every path.
func (s *EulerScheme) Evolve(initial, drift, volatility float64) (*SimulationTensor, error) {
	incr, _, err := s.bm.materialize()
	if err != nil {
		return nil, err
	}

	grid := s.bm.Grid()
	steps := grid.NumberOfSteps()
	factors := s.bm.NumberOfFactors()
	paths := s.bm.NumberOfPaths()

	out, err := NewSimulationTensor(steps+1, factors, paths)
	if err != nil {
		return nil, err
	}

	for f := 0; f < factors; f++ {
		for p := 0; p < paths; p++ {
			v := initial
			out.set(0, f, p, v)
			for t := 0; t < steps; t++ {
				dt := grid.Dt(t)
				dw := incr.At(t, f, p)
				switch s.scheme {
				case SchemeEuler:
					v = v + drift*v*dt + volatility*v*dw
				default: // log-Euler
					v = v * math.Exp((drift-0.5*volatility*volatility)*dt+volatility*dw)
				}
				out.set(t+1, f, p, v)
			}
		}
	}
	return out, nil
}
