package analysis

import (
	"testing"

	"github.com/san-kum/citsigol/internal/bifurc"
)

func TestCountClusters(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		tol      float64
		expected int
	}{
		{"empty", nil, 0.01, 0},
		{"single", []float64{0.5}, 0.01, 1},
		{"period two", []float64{0.5, 0.8, 0.5001, 0.7999}, 0.01, 2},
		{"all merged", []float64{0.1, 0.105, 0.11}, 0.01, 1},
		{"all distinct", []float64{0.1, 0.3, 0.5, 0.7}, 0.01, 4},
	}

	for _, tt := range tests {
		if got := CountClusters(tt.values, tt.tol); got != tt.expected {
			t.Errorf("%s: expected %d clusters, got %d", tt.name, tt.expected, got)
		}
	}
}

func TestCascadeGroupsByParameter(t *testing.T) {
	res := &bifurc.Result{
		Window: bifurc.Window{Cols: 2},
		Points: []bifurc.Point{
			{R: 2.9, X: 0.65, Depth: 0},
			{R: 2.9, X: 0.655, Depth: 1},
			{R: 3.2, X: 0.51, Depth: 0},
			{R: 3.2, X: 0.79, Depth: 1},
		},
	}

	cascade := Cascade(res, 0.02)
	if len(cascade) != 2 {
		t.Fatalf("expected 2 slices, got %d", len(cascade))
	}
	if cascade[0].Clusters != 1 {
		t.Errorf("r=2.9: expected 1 cluster, got %d", cascade[0].Clusters)
	}
	if cascade[1].Clusters != 2 {
		t.Errorf("r=3.2: expected 2 clusters, got %d", cascade[1].Clusters)
	}
}

func TestOnsetOf(t *testing.T) {
	cascade := []CascadePoint{
		{R: 2.8, Clusters: 1},
		{R: 2.9, Clusters: 1},
		{R: 3.0, Clusters: 2},
		{R: 3.1, Clusters: 2},
		{R: 3.5, Clusters: 4},
		{R: 3.6, Clusters: 4},
	}

	r, ok := OnsetOf(cascade, 2)
	if !ok || r != 3.0 {
		t.Errorf("expected period-2 onset at 3.0, got %f (%v)", r, ok)
	}

	r, ok = OnsetOf(cascade, 4)
	if !ok || r != 3.5 {
		t.Errorf("expected period-4 onset at 3.5, got %f (%v)", r, ok)
	}

	if _, ok := OnsetOf(cascade, 8); ok {
		t.Error("expected no period-8 onset")
	}
}

func TestOnsetSkipsIsolatedTransient(t *testing.T) {
	cascade := []CascadePoint{
		{R: 2.8, Clusters: 1},
		{R: 2.85, Clusters: 2}, // isolated blip
		{R: 2.9, Clusters: 1},
		{R: 3.0, Clusters: 2},
		{R: 3.1, Clusters: 2},
	}

	r, ok := OnsetOf(cascade, 2)
	if !ok || r != 3.0 {
		t.Errorf("expected onset at 3.0 past the blip, got %f (%v)", r, ok)
	}
}
