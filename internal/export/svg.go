package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/hrsim/internal/analysis"
)

// TraceToSVG draws values against times as a single polyline with a zero
// line when zero is in range.
func TraceToSVG(times, values []float64, width, height int, strokeColor string) string {
	n := min(len(times), len(values))
	if n < 2 {
		return ""
	}
	points := make([]analysis.Point, n)
	for i := 0; i < n; i++ {
		points[i] = analysis.Point{X: times[i], Y: values[i]}
	}
	return pathSVG(points, width, height, strokeColor, true)
}

// PortraitToSVG draws a phase portrait as a single path.
func PortraitToSVG(p *analysis.PhasePortrait2D, width, height int, strokeColor string) string {
	if p == nil {
		return ""
	}
	return pathSVG(p.Points, width, height, strokeColor, false)
}

// WriteSVG writes doc to w, failing on an empty document.
func WriteSVG(w io.Writer, doc string) error {
	if doc == "" {
		return fmt.Errorf("export: nothing to draw")
	}
	_, err := io.WriteString(w, doc)
	return err
}

func pathSVG(points []analysis.Point, width, height int, strokeColor string, zeroLine bool) string {
	if len(points) < 2 || width <= 0 || height <= 0 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	project := func(p analysis.Point) (float64, float64) {
		return (p.X - minX) / rangeX * float64(width),
			float64(height) - (p.Y-minY)/rangeY*float64(height)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	if zeroLine && minY <= 0 && maxY >= 0 {
		_, y := project(analysis.Point{X: minX, Y: 0})
		fmt.Fprintf(&sb, `<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#333333" stroke-width="1"/>
`, y, width, y)
	}

	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, strokeColor)
	for i, p := range points {
		x, y := project(p)
		if i == 0 {
			fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString(`"/>
</svg>
`)
	return sb.String()
}
