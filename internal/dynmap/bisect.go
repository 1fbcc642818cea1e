package dynmap

import "math"

const (
	// DefaultBisectTol is the acceptance tolerance |f(x) - y| for a root.
	DefaultBisectTol = 1e-12

	// DefaultBisectMaxIter bounds bisection steps per bracket.
	DefaultBisectMaxIter = 200

	// DefaultBisectScan is the number of subdivisions scanned for sign
	// changes when bracketing roots.
	DefaultBisectScan = 128
)

// Bisection finds preimages of a forward rule by scanning the domain for
// sign changes of f(x) − y and bisecting each bracket. Roots are reported
// in ascending order. Finding no bracket is a normal empty result; a
// bracket that fails to close within MaxIter steps is a *ConvergenceError.
type Bisection struct {
	f       func(x, r float64) float64
	domain  Interval
	Tol     float64
	MaxIter int
	Scan    int
}

func NewBisection(f func(x, r float64) float64, domain Interval) *Bisection {
	return &Bisection{
		f:       f,
		domain:  domain,
		Tol:     DefaultBisectTol,
		MaxIter: DefaultBisectMaxIter,
		Scan:    DefaultBisectScan,
	}
}

func (b *Bisection) FindPreimages(y, r float64) ([]float64, error) {
	g := func(x float64) float64 { return b.f(x, r) - y }

	step := b.domain.Span() / float64(b.Scan)
	var roots []float64

	prevX := b.domain.Lo
	prevG := g(prevX)
	for i := 1; i <= b.Scan; i++ {
		x := b.domain.Lo + float64(i)*step
		if i == b.Scan {
			x = b.domain.Hi
		}
		gx := g(x)

		switch {
		case math.Abs(prevG) <= b.Tol:
			roots = appendRoot(roots, prevX, step)
		case prevG*gx < 0:
			root, err := b.bisect(g, prevX, x)
			if err != nil {
				return nil, &ConvergenceError{Y: y, R: r, Iters: b.MaxIter}
			}
			roots = appendRoot(roots, root, step)
		}

		prevX, prevG = x, gx
	}
	if math.Abs(prevG) <= b.Tol {
		roots = appendRoot(roots, prevX, step)
	}
	return roots, nil
}

func (b *Bisection) bisect(g func(float64) float64, lo, hi float64) (float64, error) {
	gLo := g(lo)
	for i := 0; i < b.MaxIter; i++ {
		mid := 0.5 * (lo + hi)
		gMid := g(mid)
		if math.Abs(gMid) <= b.Tol || hi-lo <= math.SmallestNonzeroFloat64 {
			return mid, nil
		}
		if gLo*gMid < 0 {
			hi = mid
		} else {
			lo, gLo = mid, gMid
		}
	}
	return 0, ErrConvergence
}

// appendRoot skips near-duplicate roots produced by adjacent brackets.
func appendRoot(roots []float64, root, step float64) []float64 {
	if n := len(roots); n > 0 && math.Abs(roots[n-1]-root) < step/2 {
		return roots
	}
	return append(roots, root)
}
