package montecarlo

import "fmt"

// SimulationTensor is a 3-axis numeric array indexed by
// (time step, factor, path). Extents are fixed at construction and access is
// bounds-checked. A tensor is owned by the generator that filled it and is
// read-only to downstream consumers.
type SimulationTensor struct {
	steps   int
	factors int
	paths   int
	data    []float64
}

// NewSimulationTensor allocates a zeroed tensor with the given extents.
func NewSimulationTensor(steps, factors, paths int) (*SimulationTensor, error) {
	if steps < 1 || factors < 1 || paths < 1 {
		return nil, fmt.Errorf("%w: invalid extents steps=%d factors=%d paths=%d",
			ErrDimensionMismatch, steps, factors, paths)
	}
	return &SimulationTensor{
		steps:   steps,
		factors: factors,
		paths:   paths,
		data:    make([]float64, steps*factors*paths),
	}, nil
}

// Steps returns the time-step extent.
func (t *SimulationTensor) Steps() int { return t.steps }

// Factors returns the factor extent.
func (t *SimulationTensor) Factors() int { return t.factors }

// Paths returns the path extent.
func (t *SimulationTensor) Paths() int { return t.paths }

func (t *SimulationTensor) index(step, factor, path int) int {
	if step < 0 || step >= t.steps || factor < 0 || factor >= t.factors || path < 0 || path >= t.paths {
		panic(fmt.Sprintf("montecarlo: tensor index (%d,%d,%d) out of extents (%d,%d,%d)",
			step, factor, path, t.steps, t.factors, t.paths))
	}
	return (step*t.factors+factor)*t.paths + path
}

// At returns the value at (step, factor, path).
func (t *SimulationTensor) At(step, factor, path int) float64 {
	return t.data[t.index(step, factor, path)]
}

func (t *SimulationTensor) set(step, factor, path int, v float64) {
	t.data[t.index(step, factor, path)] = v
}

// Slice extracts the per-path values at (step, factor) as a RandomVariable.
func (t *SimulationTensor) Slice(step, factor int) (*RandomVariable, error) {
	if step < 0 || step >= t.steps {
		return nil, fmt.Errorf("%w: step %d of %d", ErrDimensionMismatch, step, t.steps)
	}
	if factor < 0 || factor >= t.factors {
		return nil, fmt.Errorf("%w: factor %d of %d", ErrDimensionMismatch, factor, t.factors)
	}
	base := (step*t.factors + factor) * t.paths
	return NewRandomVariable(t.data[base : base+t.paths]), nil
}
