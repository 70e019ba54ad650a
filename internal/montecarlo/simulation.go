// Package montecarlo implements the simulation-and-valuation pipeline:
// Brownian path generation over a time grid, Euler evolution of a lognormal
// asset model, numeraire-relative discounting and payoff evaluation with an
// optional knockout barrier.
package montecarlo

import (
	"fmt"
	"sync"
)

// Simulation is the Monte Carlo view a product prices against: simulated
// asset values, the numeraire and the Monte Carlo probability weights, all at
// arbitrary query times within the simulated horizon.
type Simulation interface {
	// AssetValue returns the per-path simulated value of underlying index at
	// the given time, which must coincide with a grid point.
	AssetValue(time float64, index int) (*RandomVariable, error)

	// Numeraire returns the per-path numeraire value at the given time.
	Numeraire(time float64) (*RandomVariable, error)

	// MonteCarloWeights returns the per-path probability weights at the given
	// time (uniform 1 under the risk-neutral measure with no measure change).
	MonteCarloWeights(time float64) (*RandomVariable, error)

	// UnderlyingIndex resolves an underlying name to its factor index.
	UnderlyingIndex(name string) (int, error)

	NumberOfPaths() int
	InitialTime() float64
	Horizon() float64
}

// MonteCarloAssetModel combines a Black-Scholes model with an Euler
// discretization into a Simulation. The asset tensor is built once on first
// use and then shared read-only across any number of concurrent valuations.
type MonteCarloAssetModel struct {
	model   *BlackScholesModel
	process *EulerScheme
	names   []string

	once   sync.Once
	asset  *SimulationTensor
	genErr error
}

// NewMonteCarloAssetModel creates a simulation from a model and a process.
func NewMonteCarloAssetModel(model *BlackScholesModel, process *EulerScheme) *MonteCarloAssetModel {
	return &MonteCarloAssetModel{model: model, process: process}
}

// SetUnderlyingNames assigns an optional name per factor for name-based
// underlying lookup.
func (m *MonteCarloAssetModel) SetUnderlyingNames(names []string) { m.names = names }

// Model returns the asset model.
func (m *MonteCarloAssetModel) Model() *BlackScholesModel { return m.model }

func (m *MonteCarloAssetModel) materialize() error {
	m.once.Do(func() {
		m.asset, m.genErr = m.process.Evolve(
			m.model.InitialValue(),
			m.model.RiskFreeRate(),
			m.model.Volatility(),
		)
	})
	return m.genErr
}

// AssetValue returns S(time) for the given underlying index.
func (m *MonteCarloAssetModel) AssetValue(time float64, index int) (*RandomVariable, error) {
	if err := m.materialize(); err != nil {
		return nil, err
	}
	if index < 0 || index >= m.process.NumberOfFactors() {
		return nil, fmt.Errorf("%w: underlying index %d of %d",
			ErrDimensionMismatch, index, m.process.NumberOfFactors())
	}
	step, err := m.process.Grid().IndexOf(time)
	if err != nil {
		return nil, err
	}
	return m.asset.Slice(step, index)
}

// Numeraire returns the deterministic money-market account value at time as
// a constant RandomVariable. Queries outside the simulated horizon fail; no
// extrapolation rule is configured.
func (m *MonteCarloAssetModel) Numeraire(time float64) (*RandomVariable, error) {
	if !m.process.Grid().Contains(time) {
		return nil, fmt.Errorf("%w: numeraire at %v", ErrTimeOutOfRange, time)
	}
	return ConstantVariable(m.NumberOfPaths(), m.model.NumeraireAt(time)), nil
}

// MonteCarloWeights returns uniform weights at time.
func (m *MonteCarloAssetModel) MonteCarloWeights(time float64) (*RandomVariable, error) {
	if !m.process.Grid().Contains(time) {
		return nil, fmt.Errorf("%w: weights at %v", ErrTimeOutOfRange, time)
	}
	return ConstantVariable(m.NumberOfPaths(), 1), nil
}

// UnderlyingIndex resolves a configured underlying name to its factor index.
func (m *MonteCarloAssetModel) UnderlyingIndex(name string) (int, error) {
	for i, n := range m.names {
		if n == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown underlying %q", name)
}

// NumberOfPaths returns the simulated path count.
func (m *MonteCarloAssetModel) NumberOfPaths() int { return m.process.NumberOfPaths() }

// InitialTime returns the first grid time.
func (m *MonteCarloAssetModel) InitialTime() float64 { return m.process.Grid().InitialTime() }

// Horizon returns the last grid time.
func (m *MonteCarloAssetModel) Horizon() float64 { return m.process.Grid().Horizon() }
