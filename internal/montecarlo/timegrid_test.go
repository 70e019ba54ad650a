package montecarlo

import (
	"errors"
	"math"
	"testing"
)

func TestTimeGridUniform(t *testing.T) {
	g, err := NewTimeGrid(0, 10, 0.1)
	if err != nil {
		t.Fatalf("grid err: %v", err)
	}
	if g.NumberOfSteps() != 10 {
		t.Fatalf("steps mismatch: got=%d", g.NumberOfSteps())
	}
	for i := 0; i <= 10; i++ {
		want := float64(i) * 0.1
		if math.Abs(g.Time(i)-want) > 1e-12 {
			t.Fatalf("time[%d] mismatch: got=%v want=%v", i, g.Time(i), want)
		}
	}
	for i := 0; i < 10; i++ {
		if math.Abs(g.Dt(i)-0.1) > 1e-12 {
			t.Fatalf("dt[%d] mismatch: got=%v", i, g.Dt(i))
		}
	}
}

func TestTimeGridInvalid(t *testing.T) {
	if _, err := NewTimeGrid(0, -1, 0.1); !errors.Is(err, ErrInvalidGrid) {
		t.Fatalf("expected ErrInvalidGrid for negative steps, got %v", err)
	}
	if _, err := NewTimeGrid(0, 10, 0); !errors.Is(err, ErrInvalidGrid) {
		t.Fatalf("expected ErrInvalidGrid for zero dt, got %v", err)
	}
	if _, err := NewTimeGridFromTimes([]float64{0, 0.5, 0.5}); !errors.Is(err, ErrInvalidGrid) {
		t.Fatalf("expected ErrInvalidGrid for repeated times, got %v", err)
	}
}

func TestTimeGridIndexOf(t *testing.T) {
	g, err := NewTimeGrid(0, 4, 0.25)
	if err != nil {
		t.Fatalf("grid err: %v", err)
	}
	i, err := g.IndexOf(0.75)
	if err != nil {
		t.Fatalf("index err: %v", err)
	}
	if i != 3 {
		t.Fatalf("index mismatch: got=%d", i)
	}
	if _, err := g.IndexOf(2.0); !errors.Is(err, ErrTimeOutOfRange) {
		t.Fatalf("expected ErrTimeOutOfRange, got %v", err)
	}
	if _, err := g.IndexOf(0.3); !errors.Is(err, ErrTimeNotOnGrid) {
		t.Fatalf("expected ErrTimeNotOnGrid, got %v", err)
	}
}

func TestTimeGridExplicitTimes(t *testing.T) {
	g, err := NewTimeGridFromTimes([]float64{0, 0.1, 0.4, 1.0})
	if err != nil {
		t.Fatalf("grid err: %v", err)
	}
	if g.NumberOfSteps() != 3 {
		t.Fatalf("steps mismatch: got=%d", g.NumberOfSteps())
	}
	if math.Abs(g.Dt(1)-0.3) > 1e-12 {
		t.Fatalf("dt mismatch: got=%v", g.Dt(1))
	}
	if g.Horizon() != 1.0 {
		t.Fatalf("horizon mismatch: got=%v", g.Horizon())
	}
}
