package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/san-kum/hrsim/internal/analysis"
)

func TestTraceToSVG(t *testing.T) {
	times := []float64{0, 1, 2, 3}
	values := []float64{-1, 1, -1, 1}

	svg := TraceToSVG(times, values, 200, 100, "#00ff88")
	if !strings.HasPrefix(svg, "<?xml") || !strings.Contains(svg, "</svg>") {
		t.Fatal("expected a complete SVG document")
	}
	if !strings.Contains(svg, `stroke="#00ff88"`) {
		t.Error("stroke colour missing")
	}
	if strings.Count(svg, " L") != 3 {
		t.Errorf("expected 3 line segments, got %d", strings.Count(svg, " L"))
	}
	if !strings.Contains(svg, "<line") {
		t.Error("expected a zero line for a trace crossing zero")
	}
	if !strings.Contains(svg, "M0.0,") {
		t.Error("path should start at the left edge")
	}
}

func TestTraceToSVGDegenerate(t *testing.T) {
	if TraceToSVG([]float64{0}, []float64{1}, 10, 10, "red") != "" {
		t.Error("expected empty output for a single point")
	}
	if TraceToSVG([]float64{0, 1}, []float64{1, 2}, 0, 10, "red") != "" {
		t.Error("expected empty output for zero width")
	}
	// Flat traces must not divide by zero.
	svg := TraceToSVG([]float64{0, 1, 2}, []float64{2, 2, 2}, 10, 10, "red")
	if strings.Contains(svg, "NaN") {
		t.Error("flat trace produced NaN coordinates")
	}
}

func TestPortraitToSVG(t *testing.T) {
	p := &analysis.PhasePortrait2D{Points: []analysis.Point{{X: 1, Y: 2}, {X: 2, Y: 3}, {X: 3, Y: 1}}}
	svg := PortraitToSVG(p, 50, 50, "#ffffff")
	if strings.Contains(svg, "<line") {
		t.Error("portraits have no zero line")
	}
	if PortraitToSVG(nil, 50, 50, "#fff") != "" {
		t.Error("expected empty output for nil portrait")
	}
}

func TestWriteSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, ""); err == nil {
		t.Error("expected error for empty document")
	}
	if err := WriteSVG(&buf, "<svg/>"); err != nil || buf.String() != "<svg/>" {
		t.Errorf("unexpected write result %q, %v", buf.String(), err)
	}
}
