package bifurc

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"

	"github.com/alitto/pond/v2"

	"github.com/san-kum/citsigol/internal/dynmap"
	"github.com/san-kum/citsigol/internal/orbit"
)

// Mode selects what a sampler plots per parameter value.
type Mode int

const (
	// ModeForward plots long-run forward iterates after a burn-in.
	ModeForward Mode = iota
	// ModeReverse plots the preimage tree grown by backward iteration.
	ModeReverse
)

func (m Mode) String() string {
	if m == ModeReverse {
		return "reverse"
	}
	return "forward"
}

// Defaults for Config fields left zero.
const (
	DefaultBurnIn      = 200
	DefaultSamples     = 64
	DefaultEpsilonBase = 1.0
	DefaultSeed        = 0.5

	// Reverse-mode depth schedule: baseDepth at full view, one extra
	// step per factor-of-two zoom on the value axis, capped at MaxDepth.
	baseDepth       = 8
	DefaultMaxDepth = 40

	// Columns per worker task.
	sliceCols = 16
)

// Config tunes density, cost and precision. No field affects the
// correctness of the math.
type Config struct {
	Mode        Mode
	BurnIn      int       // transient steps discarded per parameter
	Samples     int       // forward iterates collected per parameter
	MaxBranches int       // reverse-mode frontier cap
	EpsilonBase float64   // scales the zoom-derived dedup epsilon
	Seeds       []float64 // initial values; default {0.5}
	MaxDepth    int       // reverse-mode depth ceiling
	Workers     int       // worker pool size; default NumCPU
}

func (c Config) withDefaults() Config {
	if c.BurnIn <= 0 {
		c.BurnIn = DefaultBurnIn
	}
	if c.Samples <= 0 {
		c.Samples = DefaultSamples
	}
	if c.MaxBranches <= 0 {
		c.MaxBranches = orbit.DefaultMaxBranches
	}
	if c.EpsilonBase <= 0 {
		c.EpsilonBase = DefaultEpsilonBase
	}
	if len(c.Seeds) == 0 {
		c.Seeds = []float64{DefaultSeed}
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	return c
}

// Point is one plottable sample, tagged with the iteration depth that
// produced it. Immutable once produced.
type Point struct {
	R     float64 `json:"r"`
	X     float64 `json:"x"`
	Depth int     `json:"depth"`
}

// Result is the outcome of one sampling pass over one window.
type Result struct {
	Window Window
	Points []Point

	// Depth is the iteration depth the pass ran to: collected samples in
	// forward mode, branch-set depth in reverse mode.
	Depth int

	// PrecisionLimited signals that further zoom-in on this window would
	// render floating-point noise rather than true structure.
	PrecisionLimited bool
}

// Sampler computes bifurcation point sets for a single map. It is safe
// for concurrent use; each pass owns its buffers exclusively.
type Sampler struct {
	m    dynmap.Map
	cfg  Config
	pool pond.Pool
}

func New(m dynmap.Map, cfg Config) *Sampler {
	cfg = cfg.withDefaults()
	return &Sampler{
		m:    m,
		cfg:  cfg,
		pool: pond.NewPool(cfg.Workers),
	}
}

func (s *Sampler) Config() Config { return s.cfg }

// Close releases the worker pool after in-flight tasks finish.
func (s *Sampler) Close() {
	s.pool.StopAndWait()
}

// Sample computes the point set for a window. The pass is cooperative:
// it checks ctx between columns and between growth steps, so a
// superseded deep-zoom request aborts promptly.
func (s *Sampler) Sample(ctx context.Context, w Window) (*Result, error) {
	if w.Cols <= 0 || w.Rows <= 0 {
		return nil, fmt.Errorf("bifurc: resolution %dx%d is not positive", w.Cols, w.Rows)
	}
	if w.RSpan() <= 0 || w.XSpan() <= 0 {
		return nil, fmt.Errorf("bifurc: window has empty span")
	}

	w = w.Clamp(s.m)
	if w.RSpan() <= 0 || w.XSpan() <= 0 {
		return &Result{Window: w}, nil
	}

	limited := w.PrecisionLimited()
	eps, epsLimited := s.epsilon(w)
	limited = limited || epsLimited
	depth := s.depth(w)

	cols := w.Cols
	stepR := 0.0
	if cols > 1 {
		stepR = w.RSpan() / float64(cols-1)
	}

	numSlices := (cols + sliceCols - 1) / sliceCols
	buffers := make([][]Point, numSlices)

	group := s.pool.NewGroup()
	for si := 0; si < numSlices; si++ {
		start := si * sliceCols
		end := start + sliceCols
		if end > cols {
			end = cols
		}
		buf := &buffers[si]
		group.Submit(func() {
			pts := make([]Point, 0, (end-start)*s.cfg.Samples)
			for col := start; col < end; col++ {
				if ctx.Err() != nil {
					return
				}
				r := w.RMin + float64(col)*stepR
				if s.cfg.Mode == ModeReverse {
					pts = s.reverseColumn(ctx, pts, r, w, eps, depth)
				} else {
					pts = s.forwardColumn(pts, r, w)
				}
			}
			*buf = pts
		})
	}
	group.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	total := 0
	for _, b := range buffers {
		total += len(b)
	}
	points := make([]Point, 0, total)
	for _, b := range buffers {
		points = append(points, b...)
	}

	res := &Result{
		Window:           w,
		Points:           points,
		PrecisionLimited: limited,
		Depth:            s.cfg.Samples,
	}
	if s.cfg.Mode == ModeReverse {
		res.Depth = depth
	}
	return res, nil
}

// epsilon derives the dedup tolerance from the view: one value-axis pixel
// scaled by EpsilonBase, floored at machine precision.
func (s *Sampler) epsilon(w Window) (eps float64, limited bool) {
	eps = s.cfg.EpsilonBase * w.XSpan() / float64(w.Rows)
	if floor := precisionFloor(w.XMin, w.XMax); eps < floor {
		return floor, true
	}
	return eps, false
}

// depth schedules reverse-mode iteration depth from the zoom level. The
// value span already saturates at the precision floor via epsilon, so
// depth growth freezes there too.
func (s *Sampler) depth(w Window) int {
	full := s.m.Domain().Span()
	span := math.Max(w.XSpan(), precisionFloor(w.XMin, w.XMax))
	d := baseDepth
	if span < full {
		d += int(math.Log2(full / span))
	}
	if d > s.cfg.MaxDepth {
		d = s.cfg.MaxDepth
	}
	return d
}

func (s *Sampler) forwardColumn(pts []Point, r float64, w Window) []Point {
	mark := len(pts)
	for _, seed := range s.cfg.Seeds {
		x := seed
		ok := true
		for i := 0; i < s.cfg.BurnIn; i++ {
			next, err := s.m.Forward(x, r)
			if err != nil {
				ok = false
				break
			}
			x = next
		}
		if !ok {
			continue
		}
		for i := 0; i < s.cfg.Samples; i++ {
			next, err := s.m.Forward(x, r)
			if err != nil {
				break
			}
			x = next
			if x >= w.XMin && x <= w.XMax {
				pts = append(pts, Point{R: r, X: x, Depth: i})
			}
		}
	}
	if len(s.cfg.Seeds) > 1 {
		col := pts[mark:]
		sort.SliceStable(col, func(i, j int) bool { return col[i].Depth < col[j].Depth })
	}
	return pts
}

func (s *Sampler) reverseColumn(ctx context.Context, pts []Point, r float64, w Window, eps float64, depth int) []Point {
	bs := orbit.NewBranchSet(s.m, r, s.cfg.Seeds, orbit.Options{
		Epsilon:     eps,
		MaxBranches: s.cfg.MaxBranches,
	})
	for _, v := range bs.Snapshot() {
		if v >= w.XMin && v <= w.XMax {
			pts = append(pts, Point{R: r, X: v, Depth: 0})
		}
	}
	for d := 1; d <= depth && bs.Live() > 0; d++ {
		if ctx.Err() != nil {
			return pts
		}
		bs.Grow()
		for _, v := range bs.Snapshot() {
			if v >= w.XMin && v <= w.XMax {
				pts = append(pts, Point{R: r, X: v, Depth: d})
			}
		}
	}
	return pts
}
