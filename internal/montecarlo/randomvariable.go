package montecarlo

import (
	"fmt"
	"math"
)

// RandomVariable is the realization of a scalar random variable across the
// simulation ensemble: one value per path. Every transformation returns a new
// instance; values are never mutated in place once constructed.
type RandomVariable struct {
	v []float64
}

// NewRandomVariable copies values into a new RandomVariable.
func NewRandomVariable(values []float64) *RandomVariable {
	cp := make([]float64, len(values))
	copy(cp, values)
	return &RandomVariable{v: cp}
}

// ConstantVariable returns a RandomVariable with the same value on every path.
func ConstantVariable(size int, value float64) *RandomVariable {
	v := make([]float64, size)
	for i := range v {
		v[i] = value
	}
	return &RandomVariable{v: v}
}

// wrap takes ownership of values without copying. Internal use only.
func wrap(values []float64) *RandomVariable { return &RandomVariable{v: values} }

// Size returns the number of paths.
func (r *RandomVariable) Size() int { return len(r.v) }

// Get returns the value on path i.
func (r *RandomVariable) Get(i int) float64 { return r.v[i] }

// Values returns a copy of the per-path values.
func (r *RandomVariable) Values() []float64 {
	cp := make([]float64, len(r.v))
	copy(cp, r.v)
	return cp
}

// Sub subtracts a scalar on every path.
func (r *RandomVariable) Sub(x float64) *RandomVariable {
	out := make([]float64, len(r.v))
	for i, v := range r.v {
		out[i] = v - x
	}
	return wrap(out)
}

// Floor clamps every path value from below.
func (r *RandomVariable) Floor(x float64) *RandomVariable {
	out := make([]float64, len(r.v))
	for i, v := range r.v {
		out[i] = math.Max(v, x)
	}
	return wrap(out)
}

// Mult multiplies elementwise with another RandomVariable.
func (r *RandomVariable) Mult(o *RandomVariable) (*RandomVariable, error) {
	if len(r.v) != len(o.v) {
		return nil, fmt.Errorf("%w: mult %d vs %d paths", ErrDimensionMismatch, len(r.v), len(o.v))
	}
	out := make([]float64, len(r.v))
	for i, v := range r.v {
		out[i] = v * o.v[i]
	}
	return wrap(out), nil
}

// Div divides elementwise by another RandomVariable.
func (r *RandomVariable) Div(o *RandomVariable) (*RandomVariable, error) {
	if len(r.v) != len(o.v) {
		return nil, fmt.Errorf("%w: div %d vs %d paths", ErrDimensionMismatch, len(r.v), len(o.v))
	}
	out := make([]float64, len(r.v))
	for i, v := range r.v {
		out[i] = v / o.v[i]
	}
	return wrap(out), nil
}

// Apply maps every path value through f.
func (r *RandomVariable) Apply(f func(float64) float64) *RandomVariable {
	out := make([]float64, len(r.v))
	for i, v := range r.v {
		out[i] = f(v)
	}
	return wrap(out)
}

// Knockout zeroes every path whose value is not strictly below the barrier.
// The rule acts on the value itself, not on any underlying path excursion.
// A +Inf barrier leaves all paths untouched.
func (r *RandomVariable) Knockout(barrier float64) *RandomVariable {
	if math.IsInf(barrier, 1) {
		return NewRandomVariable(r.v)
	}
	out := make([]float64, len(r.v))
	for i, v := range r.v {
		if v < barrier {
			out[i] = v
		}
	}
	return wrap(out)
}

// Average returns the ensemble mean.
func (r *RandomVariable) Average() float64 {
	if len(r.v) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range r.v {
		sum += v
	}
	return sum / float64(len(r.v))
}

// SampleVariance returns the unbiased sample variance across paths.
func (r *RandomVariable) SampleVariance() float64 {
	n := len(r.v)
	if n < 2 {
		return 0
	}
	mean := r.Average()
	sum2 := 0.0
	for _, v := range r.v {
		d := v - mean
		sum2 += d * d
	}
	return sum2 / float64(n-1)
}

// StdError returns the Monte Carlo standard error of the ensemble mean.
func (r *RandomVariable) StdError() float64 {
	if len(r.v) == 0 {
		return 0
	}
	return math.Sqrt(r.SampleVariance() / float64(len(r.v)))
}
