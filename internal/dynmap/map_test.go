package dynmap

import (
	"errors"
	"math"
	"testing"
)

func TestLogisticForward(t *testing.T) {
	m := NewLogistic()

	y, err := m.Forward(0.5, 3.2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(y-0.8) > 1e-12 {
		t.Errorf("expected 0.8, got %f", y)
	}
}

func TestLogisticForwardOutOfDomain(t *testing.T) {
	m := NewLogistic()

	cases := []struct{ x, r float64 }{
		{1.5, 3.0},
		{-0.1, 3.0},
		{0.5, 4.5},
		{0.5, -1.0},
	}
	for _, c := range cases {
		_, err := m.Forward(c.x, c.r)
		if !errors.Is(err, ErrDomain) {
			t.Errorf("Forward(%g, %g): expected domain error, got %v", c.x, c.r, err)
		}
		var de *DomainError
		if !errors.As(err, &de) {
			t.Errorf("Forward(%g, %g): expected *DomainError", c.x, c.r)
		}
	}
}

func TestLogisticPreimages(t *testing.T) {
	m := NewLogistic()

	pre, err := m.Preimages(0.5, 3.2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pre) != 2 {
		t.Fatalf("expected 2 preimages, got %d", len(pre))
	}
	if pre[0] >= pre[1] {
		t.Errorf("expected ascending order, got %v", pre)
	}
	for _, p := range pre {
		if p < 0 || p > 1 {
			t.Errorf("preimage %f outside [0,1]", p)
		}
		y, err := m.Forward(p, 3.2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.Abs(y-0.5) > 1e-9 {
			t.Errorf("forward(%f) = %f, expected 0.5", p, y)
		}
	}
}

func TestLogisticPreimagesEmpty(t *testing.T) {
	m := NewLogistic()

	// y above the map's maximum r/4 has no real preimage.
	pre, err := m.Preimages(0.9, 3.2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pre) != 0 {
		t.Errorf("expected no preimages, got %v", pre)
	}

	pre, err = m.Preimages(0.5, 0)
	if err != nil || len(pre) != 0 {
		t.Errorf("expected no preimages at r=0, got %v, %v", pre, err)
	}
}

func TestLogisticPreimageAtVertex(t *testing.T) {
	m := NewLogistic()

	// y == r/4 is the critical value: a single preimage at x = 1/2.
	pre, err := m.Preimages(0.8, 3.2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pre) != 1 {
		t.Fatalf("expected 1 preimage at critical value, got %v", pre)
	}
	if math.Abs(pre[0]-0.5) > 1e-9 {
		t.Errorf("expected 0.5, got %f", pre[0])
	}
}

func TestForwardInverseConsistency(t *testing.T) {
	m := NewLogistic()

	for i := 1; i < 20; i++ {
		x := float64(i) / 20
		for j := 1; j <= 8; j++ {
			r := float64(j) / 2
			y, err := m.Forward(x, r)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			pre, err := m.Preimages(y, r)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, p := range pre {
				back, err := m.Forward(p, r)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if math.Abs(back-y) > 1e-9 {
					t.Errorf("x=%g r=%g: forward(preimage) = %g, expected %g", x, r, back, y)
				}
			}
		}
	}
}

func TestLogisticDerivative(t *testing.T) {
	m := NewLogistic()

	if d := m.Derivative(0.5, 3.2); math.Abs(d) > 1e-12 {
		t.Errorf("derivative at vertex should be 0, got %f", d)
	}
	if d := m.Derivative(0.0, 2.0); math.Abs(d-2.0) > 1e-12 {
		t.Errorf("expected derivative 2, got %f", d)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	fwd := func(x, r float64) float64 { return r * x * (1 - x) }

	_, err := New(Rule{Domain: Interval{0, 1}, Params: Interval{0, 4}})
	if !errors.Is(err, ErrBadConfig) {
		t.Errorf("missing forward rule: expected ErrBadConfig, got %v", err)
	}

	_, err = New(Rule{Forward: fwd, Domain: Interval{1, 0}, Params: Interval{0, 4}})
	if !errors.Is(err, ErrBadConfig) {
		t.Errorf("inverted domain: expected ErrBadConfig, got %v", err)
	}

	_, err = New(Rule{Forward: fwd, Domain: Interval{0, 1}, Params: Interval{4, 4}})
	if !errors.Is(err, ErrBadConfig) {
		t.Errorf("degenerate params: expected ErrBadConfig, got %v", err)
	}
}

func TestNewRejectsInconsistentInverse(t *testing.T) {
	_, err := New(Rule{
		Name:    "broken",
		Domain:  Interval{0, 1},
		Params:  Interval{0, 4},
		Forward: func(x, r float64) float64 { return r * x * (1 - x) },
		// Deliberately wrong inverse.
		Inverse: func(y, r float64) []float64 { return []float64{y} },
	})
	if !errors.Is(err, ErrBadConfig) {
		t.Errorf("expected ErrBadConfig for inconsistent inverse, got %v", err)
	}
}

func TestRuleMapWithExplicitInverse(t *testing.T) {
	m, err := New(Rule{
		Name:    "tent",
		Domain:  Interval{0, 1},
		Params:  Interval{0, 1},
		Forward: tentForward,
		Inverse: tentInverse,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pre, err := m.Preimages(0.25, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pre) != 2 {
		t.Fatalf("expected 2 preimages, got %v", pre)
	}
	for _, p := range pre {
		if math.Abs(tentForward(p, 0.5)-0.25) > 1e-9 {
			t.Errorf("forward(%f) != 0.25", p)
		}
	}
}

// Tent map scaled by r: f(x) = 2r·min(x, 1−x).
func tentForward(x, r float64) float64 {
	return 2 * r * math.Min(x, 1-x)
}

func tentInverse(y, r float64) []float64 {
	if r <= 0 || y < 0 || y > r {
		return nil
	}
	half := y / (2 * r)
	if half == 0.5 {
		return []float64{0.5}
	}
	return []float64{half, 1 - half}
}
