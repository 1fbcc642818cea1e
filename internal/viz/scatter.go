package viz

import (
	"fmt"
	"strings"

	"github.com/san-kum/citsigol/internal/bifurc"
)

// Plot draws a result's points onto a fresh canvas, mapping the window
// onto the full sub-pixel grid.
func Plot(res *bifurc.Result, width, height int) *Canvas {
	c := NewCanvas(width, height)
	w := res.Window
	if w.RSpan() <= 0 || w.XSpan() <= 0 {
		return c
	}

	px := float64(width*2 - 1)
	py := float64(height*4 - 1)
	for _, p := range res.Points {
		x := int(px * (p.R - w.RMin) / w.RSpan())
		// Value axis points up.
		y := int(py * (1 - (p.X-w.XMin)/w.XSpan()))
		c.Set(x, y)
	}
	return c
}

// RenderDiagram plots a result and frames it with axis labels, plus a
// precision warning when the sampler hit the floating-point floor.
func RenderDiagram(res *bifurc.Result, width, height int) string {
	c := Plot(res, width, height)
	w := res.Window

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%10.6g ┌%s┐\n", w.XMax, strings.Repeat("─", width)))

	lines := strings.Split(strings.TrimRight(c.String(), "\n"), "\n")
	for i, line := range lines {
		if i == len(lines)/2 {
			b.WriteString(fmt.Sprintf("%10.6g │", (w.XMin+w.XMax)/2))
		} else {
			b.WriteString("           │")
		}
		b.WriteString(line)
		b.WriteString("│\n")
	}

	b.WriteString(fmt.Sprintf("%10.6g └%s┘\n", w.XMin, strings.Repeat("─", width)))

	left := fmt.Sprintf("%.6g", w.RMin)
	right := fmt.Sprintf("%.6g", w.RMax)
	pad := width - len(left) - len(right)
	if pad < 1 {
		pad = 1
	}
	b.WriteString(fmt.Sprintf("            %s%s%s\n", left, strings.Repeat(" ", pad), right))

	if res.PrecisionLimited {
		b.WriteString("\nprecision limit reached: finer structure is below float64 resolution\n")
	}
	return b.String()
}
