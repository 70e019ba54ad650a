package montecarlo

import (
	"fmt"
	"math"
)

// gridTolerance is the absolute tolerance used to match query times against
// grid points.
const gridTolerance = 1e-9

// TimeGrid is an immutable ordered sequence of simulation times
// t0 < t1 < ... < tN. Step sizes are strictly positive by construction.
type TimeGrid struct {
	times []float64
}

// NewTimeGrid builds a uniform grid from an initial time, a step count and a
// step size.
func NewTimeGrid(initial float64, steps int, dt float64) (*TimeGrid, error) {
	if steps < 0 {
		return nil, fmt.Errorf("%w: negative step count %d", ErrInvalidGrid, steps)
	}
	if dt <= 0 {
		return nil, fmt.Errorf("%w: non-positive step size %v", ErrInvalidGrid, dt)
	}
	times := make([]float64, steps+1)
	for i := range times {
		times[i] = initial + float64(i)*dt
	}
	return &TimeGrid{times: times}, nil
}

// NewTimeGridFromTimes builds a grid from an explicit ordered list of times.
func NewTimeGridFromTimes(times []float64) (*TimeGrid, error) {
	if len(times) < 1 {
		return nil, fmt.Errorf("%w: empty time list", ErrInvalidGrid)
	}
	cp := make([]float64, len(times))
	copy(cp, times)
	for i := 1; i < len(cp); i++ {
		if cp[i]-cp[i-1] <= 0 {
			return nil, fmt.Errorf("%w: non-increasing times at index %d (%v -> %v)",
				ErrInvalidGrid, i-1, cp[i-1], cp[i])
		}
	}
	return &TimeGrid{times: cp}, nil
}

// NumberOfSteps returns the number of steps (one less than the number of
// time points).
func (g *TimeGrid) NumberOfSteps() int { return len(g.times) - 1 }

// Time returns the time value at index i.
func (g *TimeGrid) Time(i int) float64 { return g.times[i] }

// Dt returns the step size between index i and i+1.
func (g *TimeGrid) Dt(i int) float64 { return g.times[i+1] - g.times[i] }

// InitialTime returns the first grid time.
func (g *TimeGrid) InitialTime() float64 { return g.times[0] }

// Horizon returns the last grid time.
func (g *TimeGrid) Horizon() float64 { return g.times[len(g.times)-1] }

// Contains reports whether t lies within [t0, tN].
func (g *TimeGrid) Contains(t float64) bool {
	return t >= g.times[0]-gridTolerance && t <= g.Horizon()+gridTolerance
}

// IndexOf returns the index of the grid point matching t. It fails with
// ErrTimeOutOfRange when t lies outside the horizon and ErrTimeNotOnGrid when
// t falls between two points.
func (g *TimeGrid) IndexOf(t float64) (int, error) {
	if !g.Contains(t) {
		return 0, fmt.Errorf("%w: %v not in [%v, %v]",
			ErrTimeOutOfRange, t, g.times[0], g.Horizon())
	}
	for i, v := range g.times {
		if math.Abs(v-t) <= gridTolerance {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %v", ErrTimeNotOnGrid, t)
}
