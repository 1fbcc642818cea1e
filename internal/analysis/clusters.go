package analysis

import (
	"math"
	"sort"

	"github.com/san-kum/citsigol/internal/bifurc"
)

// CountClusters counts distinct value groups, treating values within tol
// of their neighbor as one cluster. A stable periodic orbit of period p
// shows up as p clusters; a chaotic slice as many.
func CountClusters(values []float64, tol float64) int {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	clusters := 1
	last := sorted[0]
	for _, v := range sorted[1:] {
		if v-last > tol {
			clusters++
		}
		last = v
	}
	return clusters
}

// CascadePoint is the cluster count observed at one parameter value.
type CascadePoint struct {
	R        float64
	Clusters int
}

// Cascade groups a result's points by parameter column and counts value
// clusters per column. Points are already parameter-ascending, so one
// linear pass suffices.
func Cascade(res *bifurc.Result, tol float64) []CascadePoint {
	if len(res.Points) == 0 {
		return nil
	}

	out := make([]CascadePoint, 0, res.Window.Cols)
	colR := res.Points[0].R
	col := make([]float64, 0, 64)

	flush := func() {
		out = append(out, CascadePoint{R: colR, Clusters: CountClusters(col, tol)})
		col = col[:0]
	}

	for _, p := range res.Points {
		if p.R != colR {
			flush()
			colR = p.R
		}
		col = append(col, p.X)
	}
	flush()
	return out
}

// OnsetOf returns the smallest parameter whose cluster count first
// reaches n, confirmed by the following slice to skip isolated
// transients.
func OnsetOf(cascade []CascadePoint, n int) (float64, bool) {
	for i, cp := range cascade {
		if cp.Clusters < n {
			continue
		}
		if i+1 < len(cascade) && cascade[i+1].Clusters < n {
			continue
		}
		return cp.R, true
	}
	return 0, false
}

// ClusterSeries flattens a cascade into a plottable series.
func ClusterSeries(cascade []CascadePoint) []float64 {
	out := make([]float64, len(cascade))
	for i, cp := range cascade {
		out[i] = float64(cp.Clusters)
	}
	return out
}

// Spread reports the value range covered per parameter slice, a cheap
// chaos indicator alongside cluster counts.
func Spread(res *bifurc.Result) []float64 {
	if len(res.Points) == 0 {
		return nil
	}
	out := make([]float64, 0, res.Window.Cols)
	lo, hi := math.Inf(1), math.Inf(-1)
	colR := res.Points[0].R
	for _, p := range res.Points {
		if p.R != colR {
			out = append(out, hi-lo)
			lo, hi = math.Inf(1), math.Inf(-1)
			colR = p.R
		}
		lo = math.Min(lo, p.X)
		hi = math.Max(hi, p.X)
	}
	out = append(out, hi-lo)
	return out
}
