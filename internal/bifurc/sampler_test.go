package bifurc_test

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/citsigol/internal/analysis"
	"github.com/san-kum/citsigol/internal/bifurc"
	"github.com/san-kum/citsigol/internal/dynmap"
)

func sampleForward(t *testing.T, w bifurc.Window, cfg bifurc.Config) *bifurc.Result {
	t.Helper()
	s := bifurc.New(dynmap.NewLogistic(), cfg)
	defer s.Close()

	res, err := s.Sample(context.Background(), w)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return res
}

func TestSamplePeriodDoublingCascade(t *testing.T) {
	res := sampleForward(t, bifurc.Window{
		RMin: 2.8, RMax: 4.0,
		XMin: 0, XMax: 1,
		Cols: 400, Rows: 200,
	}, bifurc.Config{BurnIn: 200, Samples: 64})

	cascade := analysis.Cascade(res, 1e-3)
	if len(cascade) < 350 {
		t.Fatalf("expected ~400 parameter slices, got %d", len(cascade))
	}

	if n := clustersNear(cascade, 2.9); n != 1 {
		t.Errorf("r=2.9 should be period-1, got %d clusters", n)
	}
	if n := clustersNear(cascade, 3.2); n != 2 {
		t.Errorf("r=3.2 should be period-2, got %d clusters", n)
	}
	if n := clustersNear(cascade, 3.5); n != 4 {
		t.Errorf("r=3.5 should be period-4, got %d clusters", n)
	}
	if n := clustersNear(cascade, 3.9); n < 8 {
		t.Errorf("r=3.9 should be chaotic, got only %d clusters", n)
	}

	onset2, ok := analysis.OnsetOf(cascade, 2)
	if !ok || onset2 < 2.95 || onset2 > 3.1 {
		t.Errorf("period-2 onset expected near 3.0, got %f (%v)", onset2, ok)
	}
}

func clustersNear(cascade []analysis.CascadePoint, r float64) int {
	best := 0
	bestDist := math.Inf(1)
	for i, cp := range cascade {
		if d := math.Abs(cp.R - r); d < bestDist {
			bestDist = d
			best = i
		}
	}
	return cascade[best].Clusters
}

func TestSampleOrdering(t *testing.T) {
	res := sampleForward(t, bifurc.Window{
		RMin: 3.0, RMax: 3.6,
		XMin: 0, XMax: 1,
		Cols: 40, Rows: 40,
	}, bifurc.Config{BurnIn: 50, Samples: 16})

	for i := 1; i < len(res.Points); i++ {
		prev, cur := res.Points[i-1], res.Points[i]
		if cur.R < prev.R {
			t.Fatalf("point %d: parameter order violated (%f after %f)", i, cur.R, prev.R)
		}
		if cur.R == prev.R && cur.Depth < prev.Depth {
			t.Fatalf("point %d: depth order violated within r=%f", i, cur.R)
		}
	}
}

func TestSampleClipsToWindow(t *testing.T) {
	res := sampleForward(t, bifurc.Window{
		RMin: 3.4, RMax: 3.6,
		XMin: 0.4, XMax: 0.6,
		Cols: 30, Rows: 30,
	}, bifurc.Config{BurnIn: 100, Samples: 32})

	for _, p := range res.Points {
		if p.X < 0.4 || p.X > 0.6 {
			t.Fatalf("point %v outside value range", p)
		}
		if p.R < 3.4 || p.R > 3.6 {
			t.Fatalf("point %v outside parameter range", p)
		}
	}
}

func TestSamplePrecisionLimited(t *testing.T) {
	res := sampleForward(t, bifurc.Window{
		RMin: 3.6, RMax: 3.6 + 1e-14,
		XMin: 0.5, XMax: 0.5 + 1e-14,
		Cols: 10, Rows: 10,
	}, bifurc.Config{BurnIn: 10, Samples: 8})

	if !res.PrecisionLimited {
		t.Error("sub-ulp window must be reported as precision-limited")
	}
}

func TestSampleNotPrecisionLimitedAtFullView(t *testing.T) {
	res := sampleForward(t, bifurc.Window{
		RMin: 0, RMax: 4,
		XMin: 0, XMax: 1,
		Cols: 20, Rows: 20,
	}, bifurc.Config{BurnIn: 20, Samples: 8})

	if res.PrecisionLimited {
		t.Error("full view must not be precision-limited")
	}
}

func TestSampleReverseMode(t *testing.T) {
	s := bifurc.New(dynmap.NewLogistic(), bifurc.Config{
		Mode:        bifurc.ModeReverse,
		Seeds:       []float64{0.5},
		MaxBranches: 128,
	})
	defer s.Close()

	full := bifurc.Window{RMin: 2.0, RMax: 4.0, XMin: 0, XMax: 1, Cols: 30, Rows: 30}
	res, err := s.Sample(context.Background(), full)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Points) == 0 {
		t.Fatal("reverse sampling produced no points")
	}
	for _, p := range res.Points {
		if p.X < 0 || p.X > 1 {
			t.Fatalf("point %v outside domain", p)
		}
	}

	zoomed := bifurc.Window{RMin: 3.0, RMax: 3.4, XMin: 0.49, XMax: 0.51, Cols: 30, Rows: 30}
	zres, err := s.Sample(context.Background(), zoomed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if zres.Depth <= res.Depth {
		t.Errorf("zoomed window should iterate deeper: %d vs %d", zres.Depth, res.Depth)
	}
}

func TestSampleCancellation(t *testing.T) {
	s := bifurc.New(dynmap.NewLogistic(), bifurc.Config{BurnIn: 200, Samples: 64})
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Sample(ctx, bifurc.Window{RMin: 2.8, RMax: 4.0, XMin: 0, XMax: 1, Cols: 400, Rows: 200})
	if err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestSampleRejectsBadWindow(t *testing.T) {
	s := bifurc.New(dynmap.NewLogistic(), bifurc.Config{})
	defer s.Close()

	if _, err := s.Sample(context.Background(), bifurc.Window{RMin: 3, RMax: 2, XMin: 0, XMax: 1, Cols: 10, Rows: 10}); err == nil {
		t.Error("expected error for inverted parameter range")
	}
	if _, err := s.Sample(context.Background(), bifurc.Window{RMin: 2, RMax: 3, XMin: 0, XMax: 1}); err == nil {
		t.Error("expected error for zero resolution")
	}
}
