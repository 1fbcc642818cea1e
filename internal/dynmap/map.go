package dynmap

import (
	"fmt"
	"math"
)

// Interval is a closed range on the real line.
type Interval struct {
	Lo float64
	Hi float64
}

func (iv Interval) Contains(v float64) bool {
	return v >= iv.Lo && v <= iv.Hi
}

func (iv Interval) Span() float64 {
	return iv.Hi - iv.Lo
}

func (iv Interval) valid() bool {
	return iv.Lo < iv.Hi && !math.IsNaN(iv.Lo) && !math.IsNaN(iv.Hi) &&
		!math.IsInf(iv.Lo, 0) && !math.IsInf(iv.Hi, 0)
}

// Map is a parametrized one-dimensional function family with an optional
// inverse relation. Implementations are immutable and safe for concurrent
// use.
type Map interface {
	// Forward evaluates f(x; r). It returns a *DomainError when x or r is
	// outside the declared bounds.
	Forward(x, r float64) (float64, error)

	// Preimages returns every in-domain x with f(x; r) == y, algebraically
	// smallest first. An empty slice is the normal "no real preimage"
	// result; an error is only returned by numeric fallbacks that failed
	// to converge.
	Preimages(y, r float64) ([]float64, error)

	// Derivative returns f'(x; r), used to rank branches for pruning.
	Derivative(x, r float64) float64

	Domain() Interval
	ParamRange() Interval
	Name() string
}

// PreimageFinder locates preimages for maps without a closed-form inverse.
// Strategies are substitutable per map without touching the iteration code.
type PreimageFinder interface {
	FindPreimages(y, r float64) ([]float64, error)
}

// consistencyTol bounds |f(p) - y| for every reported preimage p of y.
const consistencyTol = 1e-9

// Logistic is the logistic map f(x) = r·x·(1−x) on x ∈ [0,1], r ∈ [0,4],
// inverted by x = (1 ± sqrt(1 − 4y/r)) / 2 where the discriminant is
// non-negative.
type Logistic struct{}

func NewLogistic() *Logistic {
	return &Logistic{}
}

func (*Logistic) Name() string         { return "logistic" }
func (*Logistic) Domain() Interval     { return Interval{0, 1} }
func (*Logistic) ParamRange() Interval { return Interval{0, 4} }

func (m *Logistic) Forward(x, r float64) (float64, error) {
	if !m.Domain().Contains(x) || !m.ParamRange().Contains(r) {
		return 0, &DomainError{X: x, R: r}
	}
	return r * x * (1 - x), nil
}

func (m *Logistic) Preimages(y, r float64) ([]float64, error) {
	if r <= 0 {
		return nil, nil
	}
	disc := 1 - 4*y/r
	if disc < 0 {
		return nil, nil
	}
	d := math.Sqrt(disc)
	lo := 0.5 * (1 - d)
	hi := 0.5 * (1 + d)
	out := make([]float64, 0, 2)
	if m.Domain().Contains(lo) {
		out = append(out, lo)
	}
	if d > 0 && m.Domain().Contains(hi) {
		out = append(out, hi)
	}
	return out, nil
}

func (*Logistic) Derivative(x, r float64) float64 {
	return r * (1 - 2*x)
}

// Rule describes a caller-supplied map family. Inverse and Derivative are
// optional: a missing Inverse falls back to bisection root-finding, a
// missing Derivative to a central difference.
type Rule struct {
	Name       string
	Domain     Interval
	Params     Interval
	Forward    func(x, r float64) float64
	Inverse    func(y, r float64) []float64
	Derivative func(x, r float64) float64
	Finder     PreimageFinder
}

// RuleMap wraps a Rule as a Map. Construct with New.
type RuleMap struct {
	rule   Rule
	finder PreimageFinder
}

// New validates a rule and wraps it as a Map. Validation probes the
// forward/inverse pair on a coarse grid; an inverse whose preimages do not
// map back onto the probed value is rejected.
func New(rule Rule) (*RuleMap, error) {
	if rule.Forward == nil {
		return nil, fmt.Errorf("%w: missing forward rule", ErrBadConfig)
	}
	if !rule.Domain.valid() {
		return nil, fmt.Errorf("%w: domain [%g, %g]", ErrBadConfig, rule.Domain.Lo, rule.Domain.Hi)
	}
	if !rule.Params.valid() {
		return nil, fmt.Errorf("%w: parameter range [%g, %g]", ErrBadConfig, rule.Params.Lo, rule.Params.Hi)
	}
	if rule.Name == "" {
		rule.Name = "custom"
	}

	m := &RuleMap{rule: rule, finder: rule.Finder}
	if rule.Inverse == nil && m.finder == nil {
		m.finder = NewBisection(rule.Forward, rule.Domain)
	}

	if rule.Inverse != nil {
		if err := m.checkConsistency(); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// checkConsistency probes f and f⁻¹ on an 8x8 (x, r) grid.
func (m *RuleMap) checkConsistency() error {
	const probes = 8
	for i := 1; i < probes; i++ {
		x := m.rule.Domain.Lo + m.rule.Domain.Span()*float64(i)/probes
		for j := 1; j < probes; j++ {
			r := m.rule.Params.Lo + m.rule.Params.Span()*float64(j)/probes
			y := m.rule.Forward(x, r)
			for _, p := range m.rule.Inverse(y, r) {
				if !m.rule.Domain.Contains(p) {
					return fmt.Errorf("%w: inverse(%g, %g) returned out-of-domain %g", ErrBadConfig, y, r, p)
				}
				if math.Abs(m.rule.Forward(p, r)-y) > consistencyTol {
					return fmt.Errorf("%w: forward(inverse(%g, %g)) = %g", ErrBadConfig, y, r, m.rule.Forward(p, r))
				}
			}
		}
	}
	return nil
}

func (m *RuleMap) Name() string         { return m.rule.Name }
func (m *RuleMap) Domain() Interval     { return m.rule.Domain }
func (m *RuleMap) ParamRange() Interval { return m.rule.Params }

func (m *RuleMap) Forward(x, r float64) (float64, error) {
	if !m.rule.Domain.Contains(x) || !m.rule.Params.Contains(r) {
		return 0, &DomainError{X: x, R: r}
	}
	return m.rule.Forward(x, r), nil
}

func (m *RuleMap) Preimages(y, r float64) ([]float64, error) {
	if m.rule.Inverse != nil {
		pre := m.rule.Inverse(y, r)
		out := make([]float64, 0, len(pre))
		for _, p := range pre {
			if m.rule.Domain.Contains(p) {
				out = append(out, p)
			}
		}
		return out, nil
	}
	return m.finder.FindPreimages(y, r)
}

func (m *RuleMap) Derivative(x, r float64) float64 {
	if m.rule.Derivative != nil {
		return m.rule.Derivative(x, r)
	}
	// Central difference with a span-scaled step.
	h := m.rule.Domain.Span() * 1e-7
	lo := math.Max(x-h, m.rule.Domain.Lo)
	hi := math.Min(x+h, m.rule.Domain.Hi)
	if hi == lo {
		return 0
	}
	return (m.rule.Forward(hi, r) - m.rule.Forward(lo, r)) / (hi - lo)
}
