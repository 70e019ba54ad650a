package montecarlo

import "math"

// NoBarrier disables the knockout rule.
func NoBarrier() float64 { return math.Inf(1) }

// EuropeanOption values a European call-style claim
// V(T) = max(S(T) - K, 0) with an optional knockout on the payoff magnitude:
// a path whose raw payoff is not strictly below the barrier pays zero. The
// rule deliberately monitors the payoff, not the asset path's excursion.
//
// The underlying is identified either by factor index or by name; the two
// modes are mutually exclusive.
type EuropeanOption struct {
	maturity float64
	strike   float64
	barrier  float64

	underlyingIndex int
	underlyingName  string
}

// NewEuropeanOption creates an option on the underlying with the given factor
// index.
func NewEuropeanOption(maturity, strike, barrier float64, underlyingIndex int) *EuropeanOption {
	return &EuropeanOption{
		maturity:        maturity,
		strike:          strike,
		barrier:         barrier,
		underlyingIndex: underlyingIndex,
	}
}

// NewEuropeanOptionNamed creates an option identified by underlying name; the
// index is resolved against the simulation at valuation time.
func NewEuropeanOptionNamed(maturity, strike, barrier float64, underlyingName string) *EuropeanOption {
	return &EuropeanOption{
		maturity:       maturity,
		strike:         strike,
		barrier:        barrier,
		underlyingName: underlyingName,
	}
}

// Maturity returns the option maturity T.
func (o *EuropeanOption) Maturity() float64 { return o.maturity }

// Strike returns the strike K.
func (o *EuropeanOption) Strike() float64 { return o.strike }

// Barrier returns the knockout threshold (+Inf means no barrier).
func (o *EuropeanOption) Barrier() float64 { return o.barrier }

func (o *EuropeanOption) resolveIndex(sim Simulation) (int, error) {
	if o.underlyingName != "" {
		return sim.UnderlyingIndex(o.underlyingName)
	}
	return o.underlyingIndex, nil
}

// Value returns the valuation random variable at evaluationTime: the payoff
// observed at maturity, knocked out where the barrier triggers, divided by
// the numeraire at maturity, weighted by the Monte Carlo weights at maturity,
// then moved to the evaluation time's measure. The formula generalizes to
// evaluation times before or at maturity; times after maturity are the
// caller's responsibility to avoid. Its ensemble average is the Monte Carlo
// price estimate when the numeraire at evaluationTime is deterministic.
func (o *EuropeanOption) Value(evaluationTime float64, sim Simulation) (*RandomVariable, error) {
	idx, err := o.resolveIndex(sim)
	if err != nil {
		return nil, calcErr("underlying lookup", err)
	}

	underlyingAtMaturity, err := sim.AssetValue(o.maturity, idx)
	if err != nil {
		return nil, calcErr("asset value", err)
	}

	// V(T) = max(S(T) - K, 0), then the barrier check
	values := underlyingAtMaturity.Sub(o.strike).Floor(0)
	values = values.Knockout(o.barrier)

	numeraireAtMaturity, err := sim.Numeraire(o.maturity)
	if err != nil {
		return nil, calcErr("numeraire at maturity", err)
	}
	weightsAtMaturity, err := sim.MonteCarloWeights(o.maturity)
	if err != nil {
		return nil, calcErr("weights at maturity", err)
	}
	values, err = values.Div(numeraireAtMaturity)
	if err != nil {
		return nil, calcErr("discount to maturity", err)
	}
	values, err = values.Mult(weightsAtMaturity)
	if err != nil {
		return nil, calcErr("weighting at maturity", err)
	}

	numeraireAtEval, err := sim.Numeraire(evaluationTime)
	if err != nil {
		return nil, calcErr("numeraire at evaluation time", err)
	}
	weightsAtEval, err := sim.MonteCarloWeights(evaluationTime)
	if err != nil {
		return nil, calcErr("weights at evaluation time", err)
	}
	values, err = values.Mult(numeraireAtEval)
	if err != nil {
		return nil, calcErr("scaling to evaluation time", err)
	}
	values, err = values.Div(weightsAtEval)
	if err != nil {
		return nil, calcErr("weighting at evaluation time", err)
	}

	return values, nil
}

// Price returns the Monte Carlo price estimate: the ensemble mean of the
// valuation random variable at the simulation's initial time.
func (o *EuropeanOption) Price(sim Simulation) (float64, error) {
	v, err := o.Value(sim.InitialTime(), sim)
	if err != nil {
		return 0, err
	}
	return v.Average(), nil
}
