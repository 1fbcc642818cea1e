package bifurc

import (
	"math"

	"github.com/san-kum/citsigol/internal/dynmap"
)

// Window is the requested view rectangle in (parameter, value) space plus
// a target resolution in samples. Only the latest window matters; a
// superseded window is discarded, never queued.
type Window struct {
	RMin float64
	RMax float64
	XMin float64
	XMax float64

	// Cols is the number of parameter values to sample, Rows the number
	// of distinguishable values on the x axis (typically pixels).
	Cols int
	Rows int
}

func (w Window) RSpan() float64 { return w.RMax - w.RMin }
func (w Window) XSpan() float64 { return w.XMax - w.XMin }

// Clamp restricts the window to the map's declared bounds.
func (w Window) Clamp(m dynmap.Map) Window {
	dom, par := m.Domain(), m.ParamRange()
	w.RMin = math.Max(w.RMin, par.Lo)
	w.RMax = math.Min(w.RMax, par.Hi)
	w.XMin = math.Max(w.XMin, dom.Lo)
	w.XMax = math.Min(w.XMax, dom.Hi)
	return w
}

// Zoom scales both spans about the window center. A factor below 1 zooms
// in.
func (w Window) Zoom(factor float64) Window {
	cr := (w.RMin + w.RMax) / 2
	cx := (w.XMin + w.XMax) / 2
	hr := w.RSpan() / 2 * factor
	hx := w.XSpan() / 2 * factor
	w.RMin, w.RMax = cr-hr, cr+hr
	w.XMin, w.XMax = cx-hx, cx+hx
	return w
}

// Pan shifts the window by fractions of its own spans.
func (w Window) Pan(dr, dx float64) Window {
	sr := w.RSpan() * dr
	sx := w.XSpan() * dx
	w.RMin += sr
	w.RMax += sr
	w.XMin += sx
	w.XMax += sx
	return w
}

// precisionULPs sets the machine-precision floor: a span this many ulps
// wide (at the magnitude of its endpoints) cannot be subdivided further
// without rendering rounding noise.
const precisionULPs = 32

func ulpAt(v float64) float64 {
	av := math.Abs(v)
	return math.Nextafter(av, math.Inf(1)) - av
}

func precisionFloor(lo, hi float64) float64 {
	m := math.Max(math.Abs(lo), math.Abs(hi))
	if m == 0 {
		m = 1
	}
	return precisionULPs * ulpAt(m)
}

func spanLimited(lo, hi float64) bool {
	return hi-lo <= precisionFloor(lo, hi)
}

// PrecisionLimited reports whether either axis of the window is already
// at the machine-precision floor.
func (w Window) PrecisionLimited() bool {
	return spanLimited(w.RMin, w.RMax) || spanLimited(w.XMin, w.XMax)
}
