package montecarlo

import (
	"fmt"
	"math"
	"sync"
)

// BrownianMotion generates cumulative Brownian paths over a time grid for a
// number of independent factors and paths. Increments at step t are drawn as
// N(0,1) * sqrt(dt_t), which reproduces the Wiener variance scaling over
// unequal step sizes.
//
// Generation is lazy and happens exactly once; afterwards both tensors are
// read-only and safe to share across concurrent consumers. The draw order is
// fixed (factor, path, step) so a given seed yields bit-identical tensors.
type BrownianMotion struct {
	grid    *TimeGrid
	factors int
	paths   int
	source  NormalSource

	once       sync.Once
	increments *SimulationTensor
	path       *SimulationTensor
	genErr     error
}

// NewBrownianMotion creates a path generator. Factor and path counts must be
// at least one and the grid must have at least one step.
func NewBrownianMotion(grid *TimeGrid, factors, paths int, source NormalSource) (*BrownianMotion, error) {
	if grid == nil || grid.NumberOfSteps() < 1 {
		return nil, fmt.Errorf("%w: grid must have at least one step", ErrInvalidGrid)
	}
	if factors < 1 || paths < 1 {
		return nil, fmt.Errorf("%w: factors=%d paths=%d", ErrDimensionMismatch, factors, paths)
	}
	if source == nil {
		return nil, fmt.Errorf("%w: nil normal source", ErrDimensionMismatch)
	}
	return &BrownianMotion{grid: grid, factors: factors, paths: paths, source: source}, nil
}

// Grid returns the time discretization.
func (b *BrownianMotion) Grid() *TimeGrid { return b.grid }

// NumberOfFactors returns the factor count.
func (b *BrownianMotion) NumberOfFactors() int { return b.factors }

// NumberOfPaths returns the path count.
func (b *BrownianMotion) NumberOfPaths() int { return b.paths }

func (b *BrownianMotion) generate() {
	steps := b.grid.NumberOfSteps()

	std := make([]float64, steps)
	for i := range std {
		std[i] = math.Sqrt(b.grid.Dt(i))
	}

	incr, err := NewSimulationTensor(steps, b.factors, b.paths)
	if err != nil {
		b.genErr = err
		return
	}
	// one extra time slot for the initial value
	path, err := NewSimulationTensor(steps+1, b.factors, b.paths)
	if err != nil {
		b.genErr = err
		return
	}

	for f := 0; f < b.factors; f++ {
		for p := 0; p < b.paths; p++ {
			path.set(0, f, p, 0)
			for t := 0; t < steps; t++ {
				dw := b.source.Next() * std[t]
				incr.set(t, f, p, dw)
				path.set(t+1, f, p, path.At(t, f, p)+dw)
			}
		}
	}

	b.increments = incr
	b.path = path
}

// materialize runs generation once and reports any construction failure.
func (b *BrownianMotion) materialize() (*SimulationTensor, *SimulationTensor, error) {
	b.once.Do(b.generate)
	if b.genErr != nil {
		return nil, nil, b.genErr
	}
	return b.increments, b.path, nil
}

// Increment returns the per-path Brownian increment at (step, factor).
func (b *BrownianMotion) Increment(step, factor int) (*RandomVariable, error) {
	incr, _, err := b.materialize()
	if err != nil {
		return nil, err
	}
	return incr.Slice(step, factor)
}

// PathValue returns the per-path cumulative Brownian value at time index
// step (0 is the initial value).
func (b *BrownianMotion) PathValue(step, factor int) (*RandomVariable, error) {
	_, path, err := b.materialize()
	if err != nil {
		return nil, err
	}
	return path.Slice(step, factor)
}
